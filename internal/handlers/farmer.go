// internal/handlers/farmer.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type FarmerHandler struct {
	farmerService *services.FarmerService
}

func NewFarmerHandler(farmerService *services.FarmerService) *FarmerHandler {
	return &FarmerHandler{
		farmerService: farmerService,
	}
}

// POST /api/farmers/register
func (h *FarmerHandler) Register(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RegisterFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationMissingFields))
		return
	}

	farmerID, err := h.farmerService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  i18n.T(lang, i18n.KeyFarmerRegistered),
		"farmerId": farmerID,
	})
}

// POST /api/farmers/login
func (h *FarmerHandler) Login(c *gin.Context) {
	var req services.LoginFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	result, err := h.farmerService.Login(c.Request.Context(), &req)
	if err != nil {
		// Bad credentials are a 400 on this route, never a 401.
		if apperr.Is(err, apperr.KindAuth) {
			utils.HandleErrorWithStatus(c, err, http.StatusBadRequest)
			return
		}
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GET /api/farmers
func (h *FarmerHandler) List(c *gin.Context) {
	farmers, err := h.farmerService.List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, farmers)
}

// GET /api/farmers/:id
func (h *FarmerHandler) Get(c *gin.Context) {
	farmer, err := h.farmerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, farmer)
}

// PUT /api/farmers/:id
func (h *FarmerHandler) UpdateProfile(c *gin.Context) {
	callerID, ok := utils.GetFarmerIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateFarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	farmer, err := h.farmerService.UpdateProfile(c.Request.Context(), c.Param("id"), callerID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, farmer)
}
