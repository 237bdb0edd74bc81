package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error   string            `json:"error"`
	Status  int               `json:"status"`
	Details map[string]string `json:"details,omitempty"`
}

// JSON writes a success payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	if status == 0 {
		status = http.StatusOK
	}
	c.JSON(status, payload)
}

// Error writes a structured error body and the matching status code.
func Error(c *gin.Context, status int, msg string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Error: msg, Status: status})
}

// ErrorWithDetails writes an error body carrying per-field details
// (typically binding/validation failures).
func ErrorWithDetails(c *gin.Context, status int, msg string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, ErrorBody{Error: msg, Status: status, Details: details})
}

// AbortError aborts the request with an error body, for use in middleware.
func AbortError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: msg, Status: status})
}
