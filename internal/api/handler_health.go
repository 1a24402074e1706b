package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /api/health. It pings the database so a portal with a
// broken or uninitialized database reports unavailable instead of failing on
// first use.
func (h *Handler) Health(c *gin.Context) {
	sqlDB, err := h.store.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database is not reachable, run setup and check the DSN",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
