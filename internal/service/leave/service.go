package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/domain/leave"
	"github.com/ems-hr/ems-backend-go/internal/pkg/enrich"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	GetBriefsByIDs(ctx context.Context, ids []int64) (map[int64]employee.Brief, error)
}

type DepartmentNames interface {
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type leaveServiceImpl struct {
	allocator   identity.Allocator
	leaveRepo   leave.LeaveRepository
	employees   EmployeeReader
	departments DepartmentNames
}

func NewLeaveService(
	allocator identity.Allocator,
	leaveRepo leave.LeaveRepository,
	employees EmployeeReader,
	departments DepartmentNames,
) leave.LeaveService {
	return &leaveServiceImpl{
		allocator:   allocator,
		leaveRepo:   leaveRepo,
		employees:   employees,
		departments: departments,
	}
}

func toResponse(l leave.Leave) leave.LeaveResponse {
	return leave.LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		NoOfLeaves:      l.Days,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}

// Apply implements leave.LeaveService.
func (s *leaveServiceImpl) Apply(ctx context.Context, req leave.ApplyLeaveRequest) (leave.LeaveResponse, error) {
	p, ok := access.FromContext(ctx)
	if !ok {
		return leave.LeaveResponse{}, access.ErrUnauthenticated
	}
	employeeID := req.EmployeeID.Int64()
	if employeeID == 0 {
		if p.IsAdmin() {
			return leave.LeaveResponse{}, validator.New("employee_id", "employee_id is required")
		}
		employeeID = p.EmployeeID
	}
	if _, err := access.Check(ctx, access.LeaveApply, employeeID); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.LeaveResponse{}, validator.New("employee_id", fmt.Sprintf("employee %d does not exist", employeeID))
		}
		return leave.LeaveResponse{}, err
	}

	start, end := req.Dates()
	var reason *string
	if req.Reason != nil {
		if trimmed := strings.TrimSpace(*req.Reason); trimmed != "" {
			reason = &trimmed
		}
	}

	id, err := s.allocator.NextID(ctx, identity.Leave)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	created, err := s.leaveRepo.Create(ctx, leave.Leave{
		ID:         id,
		EmployeeID: employeeID,
		LeaveType:  leave.Type(req.LeaveType),
		StartDate:  validator.TruncateDay(start),
		EndDate:    validator.TruncateDay(end),
		Days:       leave.InclusiveDays(start, end),
		Reason:     reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to apply leave: %w", err)
	}

	return toResponse(created), nil
}

// Get implements leave.LeaveService.
func (s *leaveServiceImpl) Get(ctx context.Context, id int64) (leave.LeaveResponse, error) {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, access.ConcealMissing(ctx, err, leave.ErrLeaveNotFound)
	}
	if _, err := access.Check(ctx, access.LeaveRead, l.EmployeeID); err != nil {
		return leave.LeaveResponse{}, err
	}
	return toResponse(l), nil
}

// ListAll implements leave.LeaveService.
func (s *leaveServiceImpl) ListAll(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveSummary, error) {
	if _, err := access.Check(ctx, access.LeaveListAll, 0); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	leaves, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}

	rows := make([]leave.LeaveSummary, len(leaves))
	for i, l := range leaves {
		rows[i] = leave.LeaveSummary{LeaveResponse: toResponse(l)}
	}

	// Department names hang off the employee, so the two lookups run in turn.
	rows, err = enrich.Apply(ctx, rows,
		enrich.Lookup("employee",
			func(r leave.LeaveSummary) int64 { return r.EmployeeID },
			s.employees.GetBriefsByIDs,
			func(r *leave.LeaveSummary, b employee.Brief, found bool) {
				if !found {
					r.EmployeeName = "Unknown"
					return
				}
				r.EmployeeName = b.Name
				r.DepartmentID = b.DepartmentID
			}),
	)
	if err != nil {
		return nil, err
	}
	return enrich.Apply(ctx, rows,
		enrich.Lookup("department_name",
			func(r leave.LeaveSummary) int64 { return r.DepartmentID },
			s.departments.GetNamesByIDs,
			func(r *leave.LeaveSummary, name string, found bool) {
				if !found {
					name = "Unknown"
				}
				r.DepartmentName = name
			}),
	)
}

// ListByEmployee implements leave.LeaveService.
func (s *leaveServiceImpl) ListByEmployee(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveResponse, error) {
	if _, err := access.Check(ctx, access.LeaveRead, filter.EmployeeID); err != nil {
		return nil, err
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	leaves, err := s.leaveRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}

	resp := make([]leave.LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = toResponse(l)
	}
	return resp, nil
}

// UpdateStatus implements leave.LeaveService.
func (s *leaveServiceImpl) UpdateStatus(ctx context.Context, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
	if _, err := access.Check(ctx, access.LeaveDecide, 0); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	status := leave.Status(req.Status)
	reason, err := leave.RejectionReasonFor(status, req.RejectionReason)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.leaveRepo.Decide(ctx, req.ID, status, reason)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return toResponse(updated), nil
}

// Delete implements leave.LeaveService.
func (s *leaveServiceImpl) Delete(ctx context.Context, id int64) error {
	l, err := s.leaveRepo.GetByID(ctx, id)
	if err != nil {
		return access.ConcealMissing(ctx, err, leave.ErrLeaveNotFound)
	}
	p, err := access.Check(ctx, access.LeaveDelete, l.EmployeeID)
	if err != nil {
		return err
	}
	if p.IsAdmin() {
		return s.leaveRepo.Delete(ctx, id)
	}
	return s.leaveRepo.DeletePending(ctx, id)
}

// Count implements leave.LeaveService.
func (s *leaveServiceImpl) Count(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.LeaveListAll, 0); err != nil {
		return 0, err
	}
	return s.leaveRepo.Count(ctx, "")
}

// CountPending implements leave.LeaveService.
func (s *leaveServiceImpl) CountPending(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.LeaveListAll, 0); err != nil {
		return 0, err
	}
	return s.leaveRepo.Count(ctx, leave.StatusPending)
}
