package leave

import "context"

type LeaveService interface {
	Apply(ctx context.Context, req ApplyLeaveRequest) (LeaveResponse, error)
	Get(ctx context.Context, id int64) (LeaveResponse, error)
	// ListAll returns every leave with employee and department names (admin only).
	ListAll(ctx context.Context, filter LeaveFilter) ([]LeaveSummary, error)
	// ListByEmployee returns one employee's leaves, newest start date first.
	ListByEmployee(ctx context.Context, filter LeaveFilter) ([]LeaveResponse, error)
	UpdateStatus(ctx context.Context, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	// Delete lets admins remove any leave and employees withdraw their own Pending leave.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}
