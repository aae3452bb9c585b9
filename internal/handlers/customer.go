// internal/handlers/customer.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/services"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

type CustomerHandler struct {
	identityService *services.IdentityService
}

func NewCustomerHandler(identityService *services.IdentityService) *CustomerHandler {
	return &CustomerHandler{
		identityService: identityService,
	}
}

// POST /api/customers/session
func (h *CustomerHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "")
		return
	}

	session, err := h.identityService.VerifyGoogleToken(c.Request.Context(), req.AccessToken)
	if err != nil {
		switch apperr.KindOf(err) {
		case apperr.KindAuth, apperr.KindValidation:
			utils.HandleErrorWithStatus(c, err, http.StatusBadRequest)
		default:
			utils.HandleErrorWithStatus(c, err, http.StatusBadGateway)
		}
		return
	}

	c.JSON(http.StatusOK, session)
}
