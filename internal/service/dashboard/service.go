package dashboard

import (
	"context"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/domain/dashboard"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type EmployeeCounter interface {
	CountEmployees(ctx context.Context) (int64, error)
}

type LeaveCounter interface {
	Count(ctx context.Context) (int64, error)
	CountPending(ctx context.Context) (int64, error)
}

type TaskCounter interface {
	CountPending(ctx context.Context) (int64, error)
}

type AttendanceLister interface {
	ListAll(ctx context.Context, req attendance.ListAllAttendanceRequest) ([]attendance.AttendanceResponse, error)
}

type DashboardServiceImpl struct {
	employees    EmployeeCounter
	departments  Counter
	designations Counter
	leaves       LeaveCounter
	tasks        TaskCounter
	attendance   AttendanceLister
	now          func() time.Time
}

func NewDashboardService(
	employees EmployeeCounter,
	departments Counter,
	designations Counter,
	leaves LeaveCounter,
	tasks TaskCounter,
	attendance AttendanceLister,
) dashboard.DashboardService {
	return &DashboardServiceImpl{
		employees:    employees,
		departments:  departments,
		designations: designations,
		leaves:       leaves,
		tasks:        tasks,
		attendance:   attendance,
		now:          time.Now,
	}
}

// GetSummary runs one goroutine per count; the first failure cancels the rest.
func (s *DashboardServiceImpl) GetSummary(ctx context.Context) (*dashboard.SummaryResponse, error) {
	if _, err := access.Check(ctx, access.DashboardRead, 0); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	summary := dashboard.SummaryResponse{UpdatedAt: now.Format(time.RFC3339)}

	g, gCtx := errgroup.WithContext(ctx)
	count := func(dst *int64, fn func(context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gCtx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count(&summary.TotalEmployees, s.employees.CountEmployees)
	count(&summary.TotalDepartments, s.departments.Count)
	count(&summary.TotalDesignations, s.designations.Count)
	count(&summary.TotalLeaves, s.leaves.Count)
	count(&summary.PendingLeaves, s.leaves.CountPending)
	count(&summary.PendingTasks, s.tasks.CountPending)
	g.Go(func() error {
		daily, err := s.daily(gCtx, now.Format(time.DateOnly))
		if err != nil {
			return err
		}
		summary.Attendance = *daily
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetDailyAttendance implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetDailyAttendance(ctx context.Context, date string) (*dashboard.Daily, error) {
	if _, err := access.Check(ctx, access.DashboardRead, 0); err != nil {
		return nil, err
	}
	if date == "" {
		date = s.now().UTC().Format(time.DateOnly)
	} else if _, ok := validator.IsValidDate(date); !ok {
		return nil, validator.New("date", "date must be in YYYY-MM-DD format")
	}
	return s.daily(ctx, date)
}

func (s *DashboardServiceImpl) daily(ctx context.Context, date string) (*dashboard.Daily, error) {
	rows, err := s.attendance.ListAll(ctx, attendance.ListAllAttendanceRequest{Date: date})
	if err != nil {
		return nil, err
	}
	d := dashboard.Daily{Date: date}
	for _, row := range rows {
		switch row.Status {
		case attendance.StatusPresent:
			d.Present++
		case attendance.StatusAbsent:
			d.Absent++
		case attendance.StatusLeave:
			d.Leave++
		}
	}
	return &d, nil
}
