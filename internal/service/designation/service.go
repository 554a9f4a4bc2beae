package designation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/enrich"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

// DepartmentReader is the part of the department store designations need.
type DepartmentReader interface {
	LockForShare(ctx context.Context, id int64) (department.Department, error)
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// EmployeeCounter counts employees per designation.
type EmployeeCounter interface {
	CountByDesignationIDs(ctx context.Context, designationIDs []int64) (map[int64]int64, error)
}

type designationServiceImpl struct {
	tx              database.Transactor
	allocator       identity.Allocator
	designationRepo designation.DesignationRepository
	departments     DepartmentReader
	employeeCount   EmployeeCounter
}

func NewDesignationService(
	tx database.Transactor,
	allocator identity.Allocator,
	designationRepo designation.DesignationRepository,
	departments DepartmentReader,
	employeeCount EmployeeCounter,
) designation.DesignationService {
	return &designationServiceImpl{
		tx:              tx,
		allocator:       allocator,
		designationRepo: designationRepo,
		departments:     departments,
		employeeCount:   employeeCount,
	}
}

func toResponse(d designation.Designation) designation.DesignationResponse {
	return designation.DesignationResponse{
		ID:           d.ID,
		Title:        d.Title,
		DepartmentID: d.DepartmentID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// lockDepartment holds a share lock on the department until the surrounding
// transaction ends. A missing department is a validation failure of the body.
func (s *designationServiceImpl) lockDepartment(ctx context.Context, id int64) error {
	_, err := s.departments.LockForShare(ctx, id)
	if errors.Is(err, department.ErrDepartmentNotFound) {
		return validator.New("department_id", fmt.Sprintf("department %d does not exist", id))
	}
	return err
}

func (s *designationServiceImpl) assertTitleFree(ctx context.Context, departmentID int64, title string, excludeID int64) error {
	exists, err := s.designationRepo.TitleExists(ctx, departmentID, title, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return designation.ErrTitleExists
	}
	return nil
}

// Create implements designation.DesignationService.
func (s *designationServiceImpl) Create(ctx context.Context, req designation.CreateDesignationRequest) (designation.DesignationResponse, error) {
	if _, err := access.Check(ctx, access.DesignationWrite, 0); err != nil {
		return designation.DesignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return designation.DesignationResponse{}, err
	}
	departmentID := req.DepartmentID.Int64()

	var created designation.Designation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.lockDepartment(ctx, departmentID); err != nil {
			return err
		}
		if err := s.assertTitleFree(ctx, departmentID, req.Title, 0); err != nil {
			return err
		}
		id, err := s.allocator.NextID(ctx, identity.Designation)
		if err != nil {
			return err
		}
		created, err = s.designationRepo.Create(ctx, designation.Designation{
			ID:           id,
			Title:        req.Title,
			DepartmentID: departmentID,
		})
		return err
	})
	if err != nil {
		return designation.DesignationResponse{}, fmt.Errorf("failed to create designation: %w", err)
	}

	return toResponse(created), nil
}

// Get implements designation.DesignationService.
func (s *designationServiceImpl) Get(ctx context.Context, id int64) (designation.DesignationResponse, error) {
	if _, err := access.Check(ctx, access.DesignationRead, 0); err != nil {
		return designation.DesignationResponse{}, err
	}
	d, err := s.designationRepo.GetByID(ctx, id)
	if err != nil {
		return designation.DesignationResponse{}, err
	}
	return toResponse(d), nil
}

// List implements designation.DesignationService.
func (s *designationServiceImpl) List(ctx context.Context, filter designation.DesignationFilter) ([]designation.DesignationSummary, error) {
	if _, err := access.Check(ctx, access.DesignationRead, 0); err != nil {
		return nil, err
	}

	designations, err := s.designationRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list designations: %w", err)
	}

	rows := make([]designation.DesignationSummary, len(designations))
	for i, d := range designations {
		rows[i] = designation.DesignationSummary{DesignationResponse: toResponse(d)}
	}

	return enrich.Apply(ctx, rows,
		enrich.Lookup("department_name",
			func(r designation.DesignationSummary) int64 { return r.DepartmentID },
			s.departments.GetNamesByIDs,
			func(r *designation.DesignationSummary, name string, found bool) {
				if !found {
					name = "Unknown"
				}
				r.DepartmentName = name
			}),
		enrich.Count("total_employees",
			func(r designation.DesignationSummary) int64 { return r.ID },
			s.employeeCount.CountByDesignationIDs,
			func(r *designation.DesignationSummary, n int64) { r.TotalEmployees = n }),
	)
}

// Update implements designation.DesignationService.
func (s *designationServiceImpl) Update(ctx context.Context, req designation.UpdateDesignationRequest) (designation.DesignationResponse, error) {
	if _, err := access.Check(ctx, access.DesignationWrite, 0); err != nil {
		return designation.DesignationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return designation.DesignationResponse{}, err
	}

	var updated designation.Designation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.designationRepo.LockForUpdate(ctx, req.ID)
		if err != nil {
			return err
		}

		next := current
		if req.Title != nil {
			next.Title = *req.Title
		}
		if req.DepartmentID != nil {
			next.DepartmentID = req.DepartmentID.Int64()
		}

		if next.DepartmentID != current.DepartmentID {
			if err := s.lockDepartment(ctx, next.DepartmentID); err != nil {
				return err
			}
		}
		if next.DepartmentID != current.DepartmentID || !strings.EqualFold(next.Title, current.Title) {
			if err := s.assertTitleFree(ctx, next.DepartmentID, next.Title, current.ID); err != nil {
				return err
			}
		}

		updated, err = s.designationRepo.Update(ctx, next)
		return err
	})
	if err != nil {
		return designation.DesignationResponse{}, fmt.Errorf("failed to update designation: %w", err)
	}

	return toResponse(updated), nil
}

// Delete implements designation.DesignationService.
func (s *designationServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.DesignationWrite, 0); err != nil {
		return err
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.designationRepo.LockForUpdate(ctx, id); err != nil {
			return err
		}
		employees, err := s.employeeCount.CountByDesignationIDs(ctx, []int64{id})
		if err != nil {
			return err
		}
		if employees[id] > 0 {
			return fmt.Errorf("%w: %d employee(s) still reference it", designation.ErrDesignationInUse, employees[id])
		}
		return s.designationRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("designation deleted", "designation_id", id)
	return nil
}

// Count implements designation.DesignationService.
func (s *designationServiceImpl) Count(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.DesignationRead, 0); err != nil {
		return 0, err
	}
	return s.designationRepo.Count(ctx)
}
