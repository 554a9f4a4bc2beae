package department

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/enrich"
)

// DesignationCounter counts designations per department.
type DesignationCounter interface {
	CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error)
}

// EmployeeCounter counts employees per department.
type EmployeeCounter interface {
	CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error)
}

type departmentServiceImpl struct {
	tx               database.Transactor
	allocator        identity.Allocator
	guard            identity.Guard
	departmentRepo   department.DepartmentRepository
	designationCount DesignationCounter
	employeeCount    EmployeeCounter
}

func NewDepartmentService(
	tx database.Transactor,
	allocator identity.Allocator,
	guard identity.Guard,
	departmentRepo department.DepartmentRepository,
	designationCount DesignationCounter,
	employeeCount EmployeeCounter,
) department.DepartmentService {
	return &departmentServiceImpl{
		tx:               tx,
		allocator:        allocator,
		guard:            guard,
		departmentRepo:   departmentRepo,
		designationCount: designationCount,
		employeeCount:    employeeCount,
	}
}

func toResponse(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{
		ID:        d.ID,
		Name:      d.Name,
		Location:  d.Location,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// Create implements department.DepartmentService.
func (s *departmentServiceImpl) Create(ctx context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if _, err := access.Check(ctx, access.DepartmentWrite, 0); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	var created department.Department
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.guard.AssertUnique(ctx, identity.Department, "department_name", req.Name, 0); err != nil {
			return err
		}
		id, err := s.allocator.NextID(ctx, identity.Department)
		if err != nil {
			return err
		}
		created, err = s.departmentRepo.Create(ctx, department.Department{
			ID:       id,
			Name:     req.Name,
			Location: req.Location,
		})
		return err
	})
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}

	return toResponse(created), nil
}

// Get implements department.DepartmentService.
func (s *departmentServiceImpl) Get(ctx context.Context, id int64) (department.DepartmentResponse, error) {
	if _, err := access.Check(ctx, access.DepartmentRead, 0); err != nil {
		return department.DepartmentResponse{}, err
	}
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(d), nil
}

// List implements department.DepartmentService.
func (s *departmentServiceImpl) List(ctx context.Context) ([]department.DepartmentSummary, error) {
	if _, err := access.Check(ctx, access.DepartmentRead, 0); err != nil {
		return nil, err
	}

	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	rows := make([]department.DepartmentSummary, len(departments))
	for i, d := range departments {
		rows[i] = department.DepartmentSummary{DepartmentResponse: toResponse(d)}
	}

	key := func(r department.DepartmentSummary) int64 { return r.ID }
	return enrich.Apply(ctx, rows,
		enrich.Count("total_designations", key, s.designationCount.CountByDepartmentIDs,
			func(r *department.DepartmentSummary, n int64) { r.TotalDesignations = n }),
		enrich.Count("total_employees", key, s.employeeCount.CountByDepartmentIDs,
			func(r *department.DepartmentSummary, n int64) { r.TotalEmployees = n }),
	)
}

// Update implements department.DepartmentService.
func (s *departmentServiceImpl) Update(ctx context.Context, req department.UpdateDepartmentRequest) (department.DepartmentResponse, error) {
	if _, err := access.Check(ctx, access.DepartmentWrite, 0); err != nil {
		return department.DepartmentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}

	var updated department.Department
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.departmentRepo.LockForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}
		if req.Name != nil && !strings.EqualFold(*req.Name, current.Name) {
			if err := s.guard.AssertUnique(ctx, identity.Department, "department_name", *req.Name, current.ID); err != nil {
				return err
			}
		}
		if req.Name != nil {
			current.Name = *req.Name
		}
		if req.Location != nil {
			current.Location = req.Location
		}
		updated, err = s.departmentRepo.Update(ctx, current)
		return err
	})
	if err != nil {
		return department.DepartmentResponse{}, fmt.Errorf("failed to update department: %w", err)
	}

	return toResponse(updated), nil
}

// Delete implements department.DepartmentService. The department row stays
// locked from the dependent count until the delete commits, so a concurrent
// employee or designation write referencing it waits and then fails its
// existence check.
func (s *departmentServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.DepartmentWrite, 0); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.departmentRepo.LockForUpdate(ctx, id); err != nil {
			return err
		}
		designations, err := s.designationCount.CountByDepartmentIDs(ctx, []int64{id})
		if err != nil {
			return err
		}
		employees, err := s.employeeCount.CountByDepartmentIDs(ctx, []int64{id})
		if err != nil {
			return err
		}
		if designations[id] > 0 || employees[id] > 0 {
			return fmt.Errorf("%w: %d designation(s) and %d employee(s) still reference it",
				department.ErrDepartmentInUse, designations[id], employees[id])
		}
		return s.departmentRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("department deleted", "department_id", id)
	return nil
}

// Count implements department.DepartmentService.
func (s *departmentServiceImpl) Count(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.DepartmentRead, 0); err != nil {
		return 0, err
	}
	return s.departmentRepo.Count(ctx)
}
