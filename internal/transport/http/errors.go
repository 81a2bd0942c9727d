package handlers

import (
	"errors"
	"net/http"

	"habitrpg/internal/application/usecase"
	"habitrpg/internal/domain"

	"github.com/gin-gonic/gin"
)

// writeError maps error kinds to status codes. Unknown errors are reported as
// 500 without their text and kept on the context for the request logger.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyCompletedToday), errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientResource):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, usecase.ErrTokenRevoked):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
