// internal/handlers/upload.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type UploadHandler struct {
	storageService *services.StorageService
}

func NewUploadHandler(storageService *services.StorageService) *UploadHandler {
	return &UploadHandler{
		storageService: storageService,
	}
}

// POST /api/uploads/images (multipart field "image", optional "folder")
func (h *UploadHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxImageSize+1<<20)
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed))
		return
	}
	defer file.Close()

	result, err := h.storageService.Upload(c.Request.Context(), file, header, c.PostForm("folder"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
