package dashboard

import (
	"net/http"

	"crm-service/internal/pkg/view"
	service "crm-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Index renders the dashboard with recent activity and aggregate counters.
func (h *DashboardHandler) Index(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		view.ServerError(c)
		return
	}

	view.HTML(c, http.StatusOK, "index", gin.H{
		"Title":    "Dashboard",
		"Overview": overview,
	})
}
