package handler

import (
	"strconv"

	"github.com/GermanFOSSIL/fossil-energy-tracker/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the aggregate dashboard and the activity alert feed.
type DashboardHandler struct {
	svc         *service.DashboardService
	activitySvc *service.ActivityService
}

func NewDashboardHandler(svc *service.DashboardService, activitySvc *service.ActivityService) *DashboardHandler {
	return &DashboardHandler{svc: svc, activitySvc: activitySvc}
}

// Summary returns the cross-entity dashboard snapshot.
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, summary)
}

// Alerts returns the most recent activity-log entries mapped to alert levels.
func (h *DashboardHandler) Alerts(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	alerts, err := h.activitySvc.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	Success(c, gin.H{"alerts": alerts})
}
