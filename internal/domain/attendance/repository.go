package attendance

import (
	"context"
	"time"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	// CreateIfMissing inserts a unless a record for the same employee and date
	// exists, reporting whether a row was written.
	CreateIfMissing(ctx context.Context, a Attendance) (bool, error)
	GetByID(ctx context.Context, id int64) (Attendance, error)
	GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (Attendance, error)
	// SetCheckOut records the check-out only if none is stored yet.
	SetCheckOut(ctx context.Context, id int64, at time.Time) (Attendance, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Attendance, error)
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, error)
	EmployeeIDsWithRecord(ctx context.Context, date time.Time) ([]int64, error)
}
