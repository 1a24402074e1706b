package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/model"
)

type resourceRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListResources handles GET /api/resources.
func (h *Handler) ListResources(c *gin.Context) {
	resources, err := h.store.ListResources(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resources)
}

// CreateResource handles POST /api/resources.
func (h *Handler) CreateResource(c *gin.Context) {
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := model.Resource{Name: req.Name}
	if err := h.store.CreateResource(c.Request.Context(), &r); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateResource handles PUT /api/resources/:id.
func (h *Handler) UpdateResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req resourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := model.Resource{ID: id, Name: req.Name}
	if err := h.store.UpdateResource(c.Request.Context(), &r); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteResource handles DELETE /api/resources/:id.
func (h *Handler) DeleteResource(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.store.DeleteResource(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
