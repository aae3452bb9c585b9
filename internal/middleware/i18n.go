// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/farmdirect/farmdirect-backend/internal/i18n"
	"github.com/farmdirect/farmdirect-backend/internal/utils"
)

// I18nMiddleware picks en, hi or kn from Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(utils.ContextLang, i18n.Normalize(c.GetHeader("Accept-Language")))
		c.Next()
	}
}
