package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/model"
)

type environmentTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListEnvironmentTypes handles GET /api/environment-types.
func (h *Handler) ListEnvironmentTypes(c *gin.Context) {
	types, err := h.store.ListEnvironmentTypes(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateEnvironmentType handles POST /api/environment-types.
func (h *Handler) CreateEnvironmentType(c *gin.Context) {
	var req environmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := model.EnvironmentType{Name: req.Name}
	if err := h.store.CreateEnvironmentType(c.Request.Context(), &t); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// UpdateEnvironmentType handles PUT /api/environment-types/:id.
func (h *Handler) UpdateEnvironmentType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req environmentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t := model.EnvironmentType{ID: id, Name: req.Name}
	if err := h.store.UpdateEnvironmentType(c.Request.Context(), &t); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteEnvironmentType handles DELETE /api/environment-types/:id.
func (h *Handler) DeleteEnvironmentType(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.store.DeleteEnvironmentType(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
