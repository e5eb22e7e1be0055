package api

import (
	"errors"
	"net/http"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSlotNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSlot),
		errors.Is(err, domain.ErrSlotNotAvailable),
		errors.Is(err, domain.ErrSlotNotRemovable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAuthenticationFailed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
