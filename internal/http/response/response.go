// Package response defines the uniform JSON envelope applied to every
// response the service writes.
package response

import "github.com/gin-gonic/gin"

// Success messages written by the controllers.
const (
	MsgFetched = "Resource fetched successfully"
	MsgCreated = "Resource created successfully"
	MsgUpdated = "Resource updated successfully"
	MsgHealthy = "Server is healthy"
)

// Success is the envelope for successful responses.
type Success struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Error is the envelope for error responses. Stack is populated only
// outside production.
type Error struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// Health is the envelope for the liveness probe.
type Health struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Send writes a success envelope with the given status, message and data.
func Send(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Success{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// SendError writes an error envelope with the given status and message.
func SendError(c *gin.Context, status int, message, stack string) {
	c.JSON(status, Error{
		Success: false,
		Message: message,
		Stack:   stack,
	})
}
