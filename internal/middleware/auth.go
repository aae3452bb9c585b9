// internal/middleware/auth.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

// AuthRequired admits only requests carrying a valid farmer token.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthRequired))
			c.Abort()
			return
		}

		farmerID, claims, ok := parseFarmerToken(authHeader)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		c.Set(utils.ContextFarmerID, farmerID)
		c.Set(utils.ContextFarmerEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth attaches the farmer when a token is present. Requests without
// one pass through; a malformed or expired token is rejected.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		farmerID, claims, ok := parseFarmerToken(authHeader)
		if !ok {
			utils.UnauthorizedResponse(c, i18n.T(utils.GetLangFromContext(c), i18n.KeyAuthInvalidToken))
			c.Abort()
			return
		}

		c.Set(utils.ContextFarmerID, farmerID)
		c.Set(utils.ContextFarmerEmail, claims.Email)
		c.Next()
	}
}

func parseFarmerToken(authHeader string) (uuid.UUID, *utils.JWTClaims, bool) {
	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return uuid.Nil, nil, false
	}

	claims, err := utils.ValidateJWT(strings.TrimSpace(parts[1]))
	if err != nil || claims.Role != utils.RoleFarmer {
		return uuid.Nil, nil, false
	}

	farmerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, nil, false
	}
	return farmerID, claims, true
}
