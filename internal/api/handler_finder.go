package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type finderRequest struct {
	Need string `json:"need" binding:"required"`
}

// FindEnvironment handles POST /api/finder. It forwards the stated need and
// the environment catalog to the configured generative service. When the
// service is not configured the feature is reported as unavailable.
func (h *Handler) FindEnvironment(c *gin.Context) {
	if h.finder == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "environment finder is not configured"})
		return
	}

	var req finderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	environments, err := h.store.ListEnvironments(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	rec, err := h.finder.Recommend(c.Request.Context(), req.Need, environments)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "finder service request failed"})
		return
	}
	c.JSON(http.StatusOK, rec)
}
