// Package response writes the JSON envelope shared by every API route.
package response

import (
	"github.com/gin-gonic/gin"
)

// Envelope is the body of every /api/v1 response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// OK writes a successful envelope. data is omitted when nil.
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes an error envelope and aborts the handler chain.
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
