package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetSummary loads every headline count in parallel (admin only)
	GetSummary(ctx context.Context) (*SummaryResponse, error)

	// GetDailyAttendance counts attendance by status for a date, today when empty
	GetDailyAttendance(ctx context.Context, date string) (*Daily, error)
}
