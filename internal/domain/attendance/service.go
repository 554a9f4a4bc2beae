package attendance

import (
	"context"
	"time"
)

type AttendanceService interface {
	// CheckIn opens today's record for the employee.
	CheckIn(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	// CheckOut closes today's record; a check-in must exist.
	CheckOut(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	GetToday(ctx context.Context, employeeID int64) (AttendanceResponse, error)
	ListByEmployee(ctx context.Context, req ListEmployeeAttendanceRequest) (EmployeeAttendanceResponse, error)
	ListAll(ctx context.Context, req ListAllAttendanceRequest) ([]AttendanceResponse, error)
	UpdateStatus(ctx context.Context, req UpdateAttendanceStatusRequest) (AttendanceResponse, error)
	// Delete always fails: attendance history is append-only.
	Delete(ctx context.Context, id int64) error
	// MarkAbsent records Absent, or Leave for employees on approved leave, for
	// active employees with no record on date.
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}
