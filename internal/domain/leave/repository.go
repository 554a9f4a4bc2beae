package leave

import (
	"context"
	"time"
)

type LeaveRepository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id int64) (Leave, error)
	List(ctx context.Context, filter LeaveFilter) ([]Leave, error)
	// Decide moves a Pending leave to status; it fails with
	// ErrLeaveAlreadyProcessed when the leave is no longer Pending.
	Decide(ctx context.Context, id int64, status Status, rejectionReason *string) (Leave, error)
	// DeletePending removes the leave only while it is Pending.
	DeletePending(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, status Status) (int64, error)
	// ApprovedEmployeeIDsOn returns the employees with an Approved leave
	// covering day.
	ApprovedEmployeeIDsOn(ctx context.Context, day time.Time) ([]int64, error)
}
