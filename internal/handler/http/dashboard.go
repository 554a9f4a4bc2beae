package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/dashboard"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetSummary returns the admin overview counts
	GetSummary(w http.ResponseWriter, r *http.Request)
	// GetDailyAttendance returns present/absent/leave counts for a day
	GetDailyAttendance(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetSummary handles GET /dashboard
func (h *dashboardHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetSummary(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailyAttendance handles GET /dashboard/attendance
func (h *dashboardHandlerImpl) GetDailyAttendance(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date") // YYYY-MM-DD, default: today

	result, err := h.dashboardService.GetDailyAttendance(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
