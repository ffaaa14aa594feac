package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned by the read API.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeOutcomeNotFound = "OUTCOME_NOT_FOUND"
	CodeImageNotFound   = "IMAGE_NOT_FOUND"
	CodeInternal        = "INTERNAL_ERROR"
)

// Response represents a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Success sends a successful response.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Error sends an error response.
func Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, CodeBadRequest, message)
}

// OutcomeNotFound sends a 404 for an image with no recorded outcome.
func OutcomeNotFound(c *gin.Context, imageID string) {
	Error(c, http.StatusNotFound, CodeOutcomeNotFound, "no outcome recorded for "+imageID)
}

// ImageNotFound sends a 404 for unknown image metadata.
func ImageNotFound(c *gin.Context, imageID string) {
	Error(c, http.StatusNotFound, CodeImageNotFound, "no image metadata for "+imageID)
}

// InternalError sends a 500 error response.
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}
