package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reservas-backend/internal/store"
)

// ExportBackup handles GET /api/backup. Admin only. The payload is a full
// dump of the portal data, suitable for RestoreBackup.
func (h *Handler) ExportBackup(c *gin.Context) {
	backup, err := h.store.ExportBackup(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reservas-backup.json"`)
	c.JSON(http.StatusOK, backup)
}

// RestoreBackup handles POST /api/backup. Admin only. The current data is
// replaced wholesale with the uploaded dump.
func (h *Handler) RestoreBackup(c *gin.Context) {
	var backup store.Backup
	if err := c.ShouldBindJSON(&backup); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RestoreBackup(c.Request.Context(), &backup); err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}
