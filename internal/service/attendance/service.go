package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	ListActiveIDs(ctx context.Context) ([]int64, error)
}

type LeaveReader interface {
	ApprovedEmployeeIDsOn(ctx context.Context, day time.Time) ([]int64, error)
}

type attendanceServiceImpl struct {
	tx             database.Transactor
	allocator      identity.Allocator
	attendanceRepo attendance.AttendanceRepository
	employees      EmployeeReader
	leaves         LeaveReader
	now            func() time.Time
}

func NewAttendanceService(
	tx database.Transactor,
	allocator identity.Allocator,
	attendanceRepo attendance.AttendanceRepository,
	employees EmployeeReader,
	leaves LeaveReader,
) attendance.AttendanceService {
	return &attendanceServiceImpl{
		tx:             tx,
		allocator:      allocator,
		attendanceRepo: attendanceRepo,
		employees:      employees,
		leaves:         leaves,
		now:            time.Now,
	}
}

func toResponse(a attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:          a.ID,
		EmployeeID:  a.EmployeeID,
		Date:        a.Date.Format(dateLayout),
		CheckIn:     a.CheckIn,
		CheckOut:    a.CheckOut,
		Status:      a.Status,
		WorkedHours: attendance.RoundHours(a.WorkedHours()),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// subject resolves whose attendance a check request is for. Employees act for
// themselves; admins must name the employee.
func subject(ctx context.Context, req attendance.CheckRequest) (int64, error) {
	p, ok := access.FromContext(ctx)
	if !ok {
		return 0, access.ErrUnauthenticated
	}
	if !req.EmployeeID.IsZero() {
		return req.EmployeeID.Int64(), nil
	}
	if p.IsAdmin() {
		return 0, validator.New("employee_id", "employee_id is required")
	}
	return p.EmployeeID, nil
}

func (s *attendanceServiceImpl) requireEmployee(ctx context.Context, id int64) error {
	if _, err := s.employees.GetByID(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return validator.New("employee_id", fmt.Sprintf("employee %d does not exist", id))
		}
		return err
	}
	return nil
}

// CheckIn implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := subject(ctx, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := access.Check(ctx, access.AttendanceCheckIn, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now().UTC()
	today := validator.TruncateDay(now)

	var created attendance.Attendance
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
		if err == nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		id, err := s.allocator.NextID(ctx, identity.Attendance)
		if err != nil {
			return err
		}
		created, err = s.attendanceRepo.Create(ctx, attendance.Attendance{
			ID:         id,
			EmployeeID: employeeID,
			Date:       today,
			CheckIn:    &now,
			Status:     attendance.StatusPresent,
		})
		if errors.Is(err, identity.ErrConflict) {
			return attendance.ErrAlreadyCheckedIn
		}
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *attendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	employeeID, err := subject(ctx, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if _, err := access.Check(ctx, access.AttendanceCheckOut, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.now().UTC()
	today := validator.TruncateDay(now)

	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if !now.After(*record.CheckIn) {
		return attendance.AttendanceResponse{}, attendance.ErrCheckOutTooEarly
	}

	updated, err := s.attendanceRepo.SetCheckOut(ctx, record.ID, now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(updated), nil
}

// GetToday implements attendance.AttendanceService.
func (s *attendanceServiceImpl) GetToday(ctx context.Context, employeeID int64) (attendance.AttendanceResponse, error) {
	if _, err := access.Check(ctx, access.AttendanceRead, employeeID); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	record, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, validator.TruncateDay(s.now().UTC()))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(record), nil
}

// ListByEmployee implements attendance.AttendanceService.
func (s *attendanceServiceImpl) ListByEmployee(ctx context.Context, req attendance.ListEmployeeAttendanceRequest) (attendance.EmployeeAttendanceResponse, error) {
	if _, err := access.Check(ctx, access.AttendanceRead, req.EmployeeID); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	from, to := req.Range()
	records, err := s.attendanceRepo.List(ctx, attendance.AttendanceFilter{
		EmployeeID: req.EmployeeID,
		From:       from,
		To:         to,
	})
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.EmployeeAttendanceResponse{
		EmployeeID: req.EmployeeID,
		Month:      req.Month,
		Year:       req.Year,
		Records:    make([]attendance.AttendanceResponse, 0, len(records)),
	}
	var total float64
	for _, record := range records {
		resp.Records = append(resp.Records, toResponse(record))
		total += record.WorkedHours()
	}
	resp.TotalHours = attendance.RoundHours(total)

	return resp, nil
}

// ListAll implements attendance.AttendanceService.
func (s *attendanceServiceImpl) ListAll(ctx context.Context, req attendance.ListAllAttendanceRequest) ([]attendance.AttendanceResponse, error) {
	if _, err := access.Check(ctx, access.AttendanceListAll, 0); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var filter attendance.AttendanceFilter
	if req.Date != "" {
		day, _ := validator.IsValidDate(req.Date)
		next := day.AddDate(0, 0, 1)
		filter.From, filter.To = &day, &next
	}

	records, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := make([]attendance.AttendanceResponse, len(records))
	for i, record := range records {
		resp[i] = toResponse(record)
	}
	return resp, nil
}

// UpdateStatus implements attendance.AttendanceService.
func (s *attendanceServiceImpl) UpdateStatus(ctx context.Context, req attendance.UpdateAttendanceStatusRequest) (attendance.AttendanceResponse, error) {
	if _, err := access.Check(ctx, access.AttendanceCorrect, 0); err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.attendanceRepo.UpdateStatus(ctx, req.ID, attendance.Status(req.Status))
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements attendance.AttendanceService.
func (s *attendanceServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.AttendanceDelete, 0); err != nil {
		return err
	}
	return access.ErrForbidden
}

// MarkAbsent implements attendance.AttendanceService.
func (s *attendanceServiceImpl) MarkAbsent(ctx context.Context, date time.Time) (int, error) {
	day := validator.TruncateDay(date.UTC())

	active, err := s.employees.ListActiveIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active employees: %w", err)
	}
	recorded, err := s.attendanceRepo.EmployeeIDsWithRecord(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list attendance for %s: %w", day.Format(dateLayout), err)
	}
	seen := make(map[int64]bool, len(recorded))
	for _, id := range recorded {
		seen[id] = true
	}
	onLeaveIDs, err := s.leaves.ApprovedEmployeeIDsOn(ctx, day)
	if err != nil {
		return 0, fmt.Errorf("failed to list approved leaves for %s: %w", day.Format(dateLayout), err)
	}
	onLeave := make(map[int64]bool, len(onLeaveIDs))
	for _, id := range onLeaveIDs {
		onLeave[id] = true
	}

	marked := 0
	for _, employeeID := range active {
		if seen[employeeID] {
			continue
		}
		status := attendance.StatusAbsent
		if onLeave[employeeID] {
			status = attendance.StatusLeave
		}
		var inserted bool
		err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
			id, err := s.allocator.NextID(ctx, identity.Attendance)
			if err != nil {
				return err
			}
			inserted, err = s.attendanceRepo.CreateIfMissing(ctx, attendance.Attendance{
				ID:         id,
				EmployeeID: employeeID,
				Date:       day,
				Status:     status,
			})
			return err
		})
		if err != nil {
			slog.Error("failed to mark missing attendance", "employee_id", employeeID, "status", status, "date", day.Format(dateLayout), "error", err)
			continue
		}
		if inserted {
			marked++
		}
	}

	return marked, nil
}
