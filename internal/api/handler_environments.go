package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/model"
	"reservas-backend/internal/schedule"
)

type environmentRequest struct {
	Name        string  `json:"name" binding:"required"`
	Location    string  `json:"location"`
	TypeID      int64   `json:"type_id" binding:"required"`
	ResourceIDs []int64 `json:"resource_ids"`
}

// ListEnvironments handles GET /api/environments.
func (h *Handler) ListEnvironments(c *gin.Context) {
	environments, err := h.store.ListEnvironments(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, environments)
}

// CreateEnvironment handles POST /api/environments.
func (h *Handler) CreateEnvironment(c *gin.Context) {
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	env := model.Environment{Name: req.Name, Location: req.Location, TypeID: req.TypeID}
	if err := h.store.CreateEnvironment(c.Request.Context(), &env, req.ResourceIDs); err != nil {
		renderError(c, err)
		return
	}
	created, err := h.store.GetEnvironment(c.Request.Context(), env.ID)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateEnvironment handles PUT /api/environments/:id.
func (h *Handler) UpdateEnvironment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req environmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	env := model.Environment{ID: id, Name: req.Name, Location: req.Location, TypeID: req.TypeID}
	if err := h.store.UpdateEnvironment(c.Request.Context(), &env, req.ResourceIDs); err != nil {
		renderError(c, err)
		return
	}
	updated, err := h.store.GetEnvironment(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteEnvironment handles DELETE /api/environments/:id.
func (h *Handler) DeleteEnvironment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.store.DeleteEnvironment(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SearchAvailable handles GET /api/environments/available. It filters the
// environment catalog down to those free for the requested interval and
// carrying all requested resources. An empty list is a normal answer.
func (h *Handler) SearchAvailable(c *gin.Context) {
	start, err := time.Parse(time.RFC3339, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'start' timestamp format. Use RFC3339."})
		return
	}
	end, err := time.Parse(time.RFC3339, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'end' timestamp format. Use RFC3339."})
		return
	}
	requiredResources, err := parseIDList(c.Query("resources"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'resources' id list"})
		return
	}

	ctx := c.Request.Context()
	environments, err := h.store.ListEnvironments(ctx)
	if err != nil {
		renderError(c, err)
		return
	}
	bookings, err := h.store.ListBookings(ctx, 0)
	if err != nil {
		renderError(c, err)
		return
	}

	candidates := make([]schedule.Candidate, len(environments))
	byID := make(map[int64]model.Environment, len(environments))
	for i, env := range environments {
		resourceIDs := make([]int64, len(env.Resources))
		for j, r := range env.Resources {
			resourceIDs[j] = r.ID
		}
		candidates[i] = schedule.Candidate{EnvironmentID: env.ID, ResourceIDs: resourceIDs}
		byID[env.ID] = env
	}

	free := schedule.FilterAvailable(candidates, schedule.Interval{Start: start, End: end}, requiredResources, bookings)

	result := make([]model.Environment, 0, len(free))
	for _, candidate := range free {
		result = append(result, byID[candidate.EnvironmentID])
	}
	c.JSON(http.StatusOK, result)
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
