package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/gateway"
)

// statusFor maps a use case error to an HTTP status.
func statusFor(err error) int {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrConsignmentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConsignmentHasReturns),
		errors.Is(err, domain.ErrReturnAlreadyExists),
		errors.Is(err, domain.ErrTransitionNotAllowed),
		errors.Is(err, domain.ErrStatusConflict),
		errors.Is(err, domain.ErrConsignmentClosed),
		errors.Is(err, gateway.ErrDuplicateConsignment):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)

	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(status, gin.H{"errors": verrs})
		return
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badField reports a request field that could not be decoded.
func badField(c *gin.Context, field, msg string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": domain.ValidationErrors{{
		Kind:    domain.ErrorKindInvalidField,
		Field:   field,
		Message: msg,
	}}})
}
