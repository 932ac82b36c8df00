package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitpulse/gitpulse/internal/services"
)

// ReportHandler serves the computed analysis snapshot. The snapshot is
// read-only; handlers never mutate or persist anything.
type ReportHandler struct {
	snapshot *services.Snapshot
}

func NewReportHandler(snapshot *services.Snapshot) *ReportHandler {
	return &ReportHandler{snapshot: snapshot}
}

// Identities returns all resolved canonical identities
func (h *ReportHandler) Identities(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count":      h.snapshot.Table.Size(),
		"identities": h.snapshot.Table.Identities(),
	})
}

// MonthlyStats returns per-month contributor activity
func (h *ReportHandler) MonthlyStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"monthly": h.snapshot.Monthly})
}

// HostStats returns the organizational host breakdown
func (h *ReportHandler) HostStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"hosts": h.snapshot.Hosts})
}

// DriveBy returns the drive-by contributors
func (h *ReportHandler) DriveBy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drive_by": h.snapshot.DriveBy})
}

// Summary returns the run-level roll-up, including event statistics when
// an archive was supplied
func (h *ReportHandler) Summary(c *gin.Context) {
	response := gin.H{
		"run":          h.snapshot.ID,
		"generated_at": h.snapshot.GeneratedAt,
		"summary":      h.snapshot.Summary,
	}
	if h.snapshot.Events != nil {
		response["events"] = h.snapshot.Events
	}
	c.JSON(http.StatusOK, response)
}
