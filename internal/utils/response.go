// internal/utils/response.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/farmdirect/farmdirect-backend/internal/apperr"
	"github.com/farmdirect/farmdirect-backend/internal/i18n"
)

// Context keys set by middleware.
const (
	ContextLang        = "lang"
	ContextRequestID   = "request_id"
	ContextFarmerID    = "farmer_id"
	ContextFarmerEmail = "farmer_email"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIError{Error: message})
}

func BadRequestResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInvalidRequest)
	}
	ErrorResponse(c, http.StatusBadRequest, message)
}

func UnauthorizedResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthRequired)
	}
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func ForbiddenResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyAuthForbidden)
	}
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFoundResponse(c *gin.Context, key string) {
	ErrorResponse(c, http.StatusNotFound, i18n.T(GetLangFromContext(c), key))
}

func InternalErrorResponse(c *gin.Context, message string) {
	if message == "" {
		message = i18n.T(GetLangFromContext(c), i18n.KeyInternalError)
	}
	ErrorResponse(c, http.StatusInternalServerError, message)
}

// ValidationErrorResponse reports the first failing field as the message.
func ValidationErrorResponse(c *gin.Context, errs []ValidationError) {
	message := i18n.T(GetLangFromContext(c), i18n.KeyValidationMissingFields)
	if len(errs) > 0 {
		message = errs[0].Message
	}
	c.JSON(http.StatusBadRequest, APIError{Error: message, Details: errs})
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes err as {"error": ...} with the status for its kind.
// Causes behind dependency failures are logged, never returned.
func HandleError(c *gin.Context, err error) {
	HandleErrorWithStatus(c, err, StatusOf(err))
}

func HandleErrorWithStatus(c *gin.Context, err error, status int) {
	lang := GetLangFromContext(c)
	message := i18n.TOr(lang, apperr.KeyOf(err), apperr.MessageOf(err))

	var appErr *apperr.Error
	if status >= http.StatusInternalServerError {
		entry := logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": GetRequestIDFromContext(c),
			"path":       c.FullPath(),
		})
		entry.Error("Request failed")
		if !errors.As(err, &appErr) {
			message = i18n.T(lang, i18n.KeyInternalError)
		}
	}

	ErrorResponse(c, status, message)
}

func GetLangFromContext(c *gin.Context) string {
	if lang, exists := c.Get(ContextLang); exists {
		if langStr, ok := lang.(string); ok {
			return langStr
		}
	}
	return i18n.DefaultLang
}

func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}

// GetFarmerIDFromContext returns the authenticated farmer, if any.
func GetFarmerIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	if raw, exists := c.Get(ContextFarmerID); exists {
		if id, ok := raw.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
