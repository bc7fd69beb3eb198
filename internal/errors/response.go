package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the failure envelope every handler writes. Success is
// always false; Fields is only set for validation failures.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

var defaultMessages = map[int]string{
	http.StatusUnauthorized:        "Login required",
	http.StatusForbidden:           "You do not have access to this resource",
	http.StatusInternalServerError: "Something went wrong. Please try again shortly",
}

// RespondWithError aborts the chain with a failure envelope. errorCode comes
// from codes.go; an empty message falls back to the status default.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	if message == "" {
		message = defaultMessages[statusCode]
	}
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError reports per-field problems with 400.
func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Some fields are invalid",
		Fields:  fields,
	})
}
