package utils

import (
	"errors"
	"net/http"

	"masterbook/services/scheduling"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}

// StatusForError maps a scheduling error kind onto an HTTP status.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, scheduling.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scheduling.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, scheduling.ErrOrderCreation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, scheduling.ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, scheduling.ErrExternalService):
		return http.StatusBadGateway
	case errors.Is(err, scheduling.ErrInvalidArgument), errors.Is(err, scheduling.ErrOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err with the status of its kind. Internal errors are
// logged in full but answered generically.
func RespondError(c *gin.Context, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		GetLogger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, ErrorResponse{Message: "Internal Server Error"})
		return
	}
	GetLogger().Warn("Request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.JSON(status, ErrorResponse{
		Message: http.StatusText(status),
		Code:    scheduling.CodeOf(err),
		Details: err.Error(),
	})
}
