// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"jobboard_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ContextExposeErrorsKey marks a request whose internal error causes may be
// echoed to the client. Set by ExposeErrors in development only.
const ContextExposeErrorsKey = "exposeErrors"

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// JSON sends a JSON response with the given status code.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// RawJSON sends already encoded JSON without re-marshalling it.
func RawJSON(c *gin.Context, status int, payload []byte) {
	c.Data(status, "application/json; charset=utf-8", payload)
}

// Error sends an error response with the given status code and message.
func Error(c *gin.Context, status int, message string, details interface{}) {
	c.JSON(status, ErrorResponse{Error: message, Details: details})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps domain errors to HTTP responses.
// If the error carries a typed *apperr.Error, its Kind determines the status
// code. Internal errors are attached to the context for the request logger;
// their cause reaches the client only when ExposeErrors is active.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var domainErr *apperr.Error
	if !errors.As(err, &domainErr) {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Details: exposedCause(c, err)})
		return true
	}

	status := domainErr.HTTPStatus()
	details := domainErr.Details
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		if domainErr.Err != nil {
			if cause := exposedCause(c, domainErr.Err); cause != nil {
				details = cause
			}
		}
	}

	c.JSON(status, ErrorResponse{
		Error:   domainErr.Message,
		Details: details,
	})
	return true
}

func exposedCause(c *gin.Context, err error) interface{} {
	if !c.GetBool(ContextExposeErrorsKey) {
		return nil
	}
	return err.Error()
}
