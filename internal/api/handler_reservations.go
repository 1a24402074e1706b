package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/model"
	"reservas-backend/internal/mw"
	"reservas-backend/internal/schedule"
	"reservas-backend/internal/store"
)

type reservationRequest struct {
	EnvironmentID int64     `json:"environment_id" binding:"required"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
}

type seriesRequest struct {
	Reservations []reservationRequest `json:"reservations" binding:"required"`
}

// ListReservations handles GET /api/reservations. Supported filters:
// environment_id, user_id and month (YYYY-MM).
func (h *Handler) ListReservations(c *gin.Context) {
	var filter store.ReservationFilter
	if raw := c.Query("environment_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'environment_id'"})
			return
		}
		filter.EnvironmentID = id
	}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'user_id'"})
			return
		}
		filter.UserID = id
	}
	if raw := c.Query("month"); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'month', expected YYYY-MM"})
			return
		}
		filter.Month = &month
	}

	reservations, err := h.store.ListReservations(c.Request.Context(), filter)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// CreateReservation handles POST /api/reservations for the authenticated
// user.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reservation, err := h.booking.Reserve(c.Request.Context(), schedule.Proposal{
		EnvironmentID: req.EnvironmentID,
		UserID:        c.GetInt64(mw.ContextUserID),
		Start:         req.StartTime,
		End:           req.EndTime,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservation)
}

// CreateReservationSeries handles POST /api/reservations/series. The batch
// is all-or-nothing: one conflicting slot rejects every slot.
func (h *Handler) CreateReservationSeries(c *gin.Context) {
	var req seriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64(mw.ContextUserID)
	proposals := make([]schedule.Proposal, len(req.Reservations))
	for i, r := range req.Reservations {
		proposals[i] = schedule.Proposal{
			EnvironmentID: r.EnvironmentID,
			UserID:        userID,
			Start:         r.StartTime,
			End:           r.EndTime,
		}
	}

	reservations, err := h.booking.ReserveSeries(c.Request.Context(), proposals)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reservations)
}

// DeleteReservation handles DELETE /api/reservations/:id. Owners cancel
// their own; manager roles cancel anyone's.
func (h *Handler) DeleteReservation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	actor := model.User{
		ID:   c.GetInt64(mw.ContextUserID),
		Role: c.GetString(mw.ContextUserRole),
	}
	if err := h.booking.Cancel(c.Request.Context(), id, actor); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
