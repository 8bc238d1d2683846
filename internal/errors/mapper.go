package errors

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Validation wraps a message as an ErrInvalidTarget-class error so handlers
// can reject bad input with a specific reason.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation creates a validation error with the given message.
func Validation(msg string) error { return &ValidationError{Msg: msg} }

// Abort writes the HTTP response for a service error and aborts the request.
// Keeps handlers clean by centralizing error mapping.
func Abort(c *gin.Context, err error) {
	status, msg := httpStatus(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func httpStatus(err error) (int, string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, vErr.Msg

	case errors.Is(err, ErrInvalidTarget):
		return http.StatusBadRequest, ErrInvalidTarget.Error()

	case errors.Is(err, ErrDuplicateDecision):
		return http.StatusConflict, ErrDuplicateDecision.Error()

	case errors.Is(err, ErrDuplicateWish):
		return http.StatusConflict, ErrDuplicateWish.Error()

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrForbidden.Error()

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrUnauthorized.Error()

	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, ErrInvalidCredentials.Error()

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, ErrNotFound.Error()

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"

	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "request was canceled"

	default:
		// transient storage failures and everything unexpected
		return http.StatusInternalServerError, "internal error"
	}
}
