package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/booking"
	"reservas-backend/internal/schedule"
	"reservas-backend/internal/store"
)

// renderError maps the service error taxonomy onto HTTP responses. Every
// handler funnels failures through here so the UI sees one error shape
// regardless of which layer produced it.
func renderError(c *gin.Context, err error) {
	var conflict *schedule.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{
			"error": conflict.Error(),
			"conflict": gin.H{
				"occupant": conflict.Existing.OccupantName,
				"start":    conflict.Existing.Start.Format(time.RFC3339),
				"end":      conflict.Existing.End.Format(time.RFC3339),
			},
		})
		return
	}

	var dup *store.DuplicateError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{"error": dup.Error(), "field": dup.Field})
		return
	}

	switch {
	case errors.Is(err, schedule.ErrMissingSelection),
		errors.Is(err, schedule.ErrInvertedInterval),
		errors.Is(err, schedule.ErrPastDated):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error, please retry"})
	}
}
