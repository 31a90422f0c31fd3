// Package api holds the JSON shapes every handler responds with.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Standard envelope messages.
const (
	MessageOK               = "ok"
	MessageNotFound         = "not found"
	MessageResourceNotFound = "resource not found"
	MessageConflict         = "Conflict"
	MessageInternalError    = "internal server error"
	MessageNotAuthorized    = "not authorized"
	MessageTooManyRequests  = "too many requests"
)

// Envelope is the response wrapper for every non-validation response.
type Envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// FieldError is one rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the 400 body for rejected requests.
type ValidationErrors struct {
	Errors []FieldError `json:"errors"`
}

// OK sends 200 with data and the "ok" message.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Data: data, Message: MessageOK})
}

// Fail sends status with null data.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{Data: nil, Message: message})
}

// AbortFail is Fail for middleware: it also stops the handler chain.
func AbortFail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Envelope{Data: nil, Message: message})
}

// Invalid sends 400 with the field errors.
func Invalid(c *gin.Context, errs []FieldError) {
	c.JSON(http.StatusBadRequest, ValidationErrors{Errors: errs})
}
