// Package httpx provides a single response/error envelope for gin handlers,
// built on top of pkg/errors so every handler surfaces the same error taxonomy.
package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duelcore/matchcore/pkg/errors"
)

// Response is the standard envelope for every JSON response in the API.
type Response struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo carries the machine-readable error code alongside a message.
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Success writes a 200 OK envelope.
func Success(c *gin.Context, message string, data interface{}) {
	Send(c, http.StatusOK, message, data)
}

// Created writes a 201 Created envelope.
func Created(c *gin.Context, message string, data interface{}) {
	Send(c, http.StatusCreated, message, data)
}

// NoContent writes a bare 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Send writes a successful envelope with an explicit status code.
func Send(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// Error converts err into an AppError via pkg/errors and writes the matching
// envelope and HTTP status. Any error not already an AppError is reported
// with code UNKNOWN and status 500, carrying its own error text.
func Error(c *gin.Context, err error) {
	appErr := errors.FromError(err)
	statusCode := appErr.Code().HTTPStatusCode()

	c.JSON(statusCode, Response{
		StatusCode: statusCode,
		Message:    "request failed",
		Error: &ErrorInfo{
			Code:    string(appErr.Code()),
			Message: appErr.Error(),
			Details: appErr.Details(),
		},
	})
}
