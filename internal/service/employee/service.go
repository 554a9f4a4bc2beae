package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/enrich"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
)

const dateLayout = "2006-01-02"

type DepartmentReader interface {
	LockForShare(ctx context.Context, id int64) (department.Department, error)
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type DesignationReader interface {
	LockForShare(ctx context.Context, id int64) (designation.Designation, error)
	GetTitlesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

// CredentialRemover drops the login that belongs to an employee.
type CredentialRemover interface {
	DeleteByEmployeeID(ctx context.Context, employeeID int64) error
}

type EmployeeServiceImpl struct {
	tx           database.Transactor
	allocator    identity.Allocator
	guard        identity.Guard
	employeeRepo employee.EmployeeRepository
	departments  DepartmentReader
	designations DesignationReader
	credentials  CredentialRemover
	fileService  file.FileService
}

func NewEmployeeService(
	tx database.Transactor,
	allocator identity.Allocator,
	guard identity.Guard,
	employeeRepo employee.EmployeeRepository,
	departments DepartmentReader,
	designations DesignationReader,
	credentials CredentialRemover,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		tx:           tx,
		allocator:    allocator,
		guard:        guard,
		employeeRepo: employeeRepo,
		departments:  departments,
		designations: designations,
		credentials:  credentials,
		fileService:  fileService,
	}
}

func mapEmployeeToResponse(emp employee.Employee) employee.EmployeeResponse {
	var dob *string
	if emp.DateOfBirth != nil {
		s := emp.DateOfBirth.Format(dateLayout)
		dob = &s
	}

	return employee.EmployeeResponse{
		ID:                       emp.ID,
		Code:                     emp.Code,
		FirstName:                emp.FirstName,
		LastName:                 emp.LastName,
		FullName:                 emp.FullName(),
		Email:                    emp.Email,
		Phone:                    emp.Phone,
		HireDate:                 emp.HireDate.Format(dateLayout),
		DateOfBirth:              dob,
		Salary:                   emp.Salary,
		DepartmentID:             emp.DepartmentID,
		DesignationID:            emp.DesignationID,
		EmploymentType:           emp.EmploymentType,
		Status:                   emp.Status,
		Address:                  emp.Address,
		PhotoURL:                 emp.PhotoURL,
		EmergencyContactName:     emp.EmergencyContactName,
		EmergencyContactPhone:    emp.EmergencyContactPhone,
		EmergencyContactRelation: emp.EmergencyContactRelation,
		CreatedAt:                emp.CreatedAt,
		UpdatedAt:                emp.UpdatedAt,
	}
}

func (s *EmployeeServiceImpl) withNames(ctx context.Context, rows []employee.EmployeeResponse) ([]employee.EmployeeResponse, error) {
	return enrich.Apply(ctx, rows,
		enrich.Lookup("department_name",
			func(r employee.EmployeeResponse) int64 { return r.DepartmentID },
			s.departments.GetNamesByIDs,
			func(r *employee.EmployeeResponse, name string, found bool) {
				if !found {
					name = "Unknown"
				}
				r.DepartmentName = name
			}),
		enrich.Lookup("designation_title",
			func(r employee.EmployeeResponse) int64 { return r.DesignationID },
			s.designations.GetTitlesByIDs,
			func(r *employee.EmployeeResponse, title string, found bool) {
				if !found {
					title = "Unknown"
				}
				r.DesignationTitle = title
			}),
	)
}

func (s *EmployeeServiceImpl) single(ctx context.Context, emp employee.Employee) (employee.EmployeeResponse, error) {
	rows, err := s.withNames(ctx, []employee.EmployeeResponse{mapEmployeeToResponse(emp)})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return rows[0], nil
}

// lockReferences share-locks the department and designation an employee will
// point at and checks that the designation belongs to the department.
func (s *EmployeeServiceImpl) lockReferences(ctx context.Context, departmentID, designationID int64) error {
	if _, err := s.departments.LockForShare(ctx, departmentID); err != nil {
		if errors.Is(err, department.ErrDepartmentNotFound) {
			return validator.New("department_id", fmt.Sprintf("department %d does not exist", departmentID))
		}
		return err
	}
	d, err := s.designations.LockForShare(ctx, designationID)
	if err != nil {
		if errors.Is(err, designation.ErrDesignationNotFound) {
			return validator.New("designation_id", fmt.Sprintf("designation %d does not exist", designationID))
		}
		return err
	}
	if d.DepartmentID != departmentID {
		return validator.New("designation_id", designation.ErrDepartmentMismatch.Error())
	}
	return nil
}

// uploadPhoto stores the photo carried by a request, if any. A non-data URL
// is kept as-is with no stored blob.
func (s *EmployeeServiceImpl) uploadPhoto(ctx context.Context, photo *string, upload io.Reader) (*file.Stored, error) {
	switch {
	case upload != nil:
		stored, err := s.fileService.UploadPhoto(ctx, upload)
		if err != nil {
			return nil, err
		}
		return &stored, nil
	case photo != nil && file.IsDataURL(*photo):
		stored, err := s.fileService.UploadPhotoDataURL(ctx, *photo)
		if err != nil {
			return nil, err
		}
		return &stored, nil
	case photo != nil && strings.TrimSpace(*photo) != "":
		return &file.Stored{URL: strings.TrimSpace(*photo)}, nil
	}
	return nil, nil
}

func (s *EmployeeServiceImpl) discard(ctx context.Context, stored *file.Stored) {
	if stored != nil && stored.Path != "" {
		s.fileService.DeleteFile(context.WithoutCancel(ctx), stored.Path)
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if _, err := access.Check(ctx, access.EmployeeCreate, 0); err != nil {
		return employee.EmployeeResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	hireDate, _ := validator.ParseDateOrDateTime(req.HireDate)
	emp := employee.Employee{
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		HireDate:                 hireDate,
		Salary:                   req.Salary,
		DepartmentID:             req.DepartmentID.Int64(),
		DesignationID:            req.DesignationID.Int64(),
		EmploymentType:           employee.EmploymentType(req.EmploymentType),
		Status:                   employee.Status(req.Status),
		Address:                  req.Address,
		EmergencyContactName:     req.EmergencyContact.Name,
		EmergencyContactPhone:    req.EmergencyContact.Phone,
		EmergencyContactRelation: req.EmergencyContact.Relation,
	}
	if req.DateOfBirth != nil {
		dob, _ := validator.ParseDateOrDateTime(*req.DateOfBirth)
		emp.DateOfBirth = &dob
	}

	// The upload happens before the transaction so no row lock is held
	// across blob store I/O.
	stored, err := s.uploadPhoto(ctx, req.Photo, req.PhotoFile)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if stored != nil {
		emp.PhotoURL = &stored.URL
		if stored.Path != "" {
			emp.PhotoPath = &stored.Path
		}
	}

	var created employee.Employee
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.guard.AssertUnique(ctx, identity.Employee, "email", emp.Email, 0); err != nil {
			return err
		}
		if err := s.lockReferences(ctx, emp.DepartmentID, emp.DesignationID); err != nil {
			return err
		}
		id, err := s.allocator.NextID(ctx, identity.Employee)
		if err != nil {
			return err
		}
		emp.ID = id
		emp.Code = identity.EmployeeCode(id)
		created, err = s.employeeRepo.Create(ctx, emp)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("employee created", "employee_id", created.ID, "employee_code", created.Code)
	return s.single(ctx, created)
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int64) (employee.EmployeeResponse, error) {
	if _, err := access.Check(ctx, access.EmployeeRead, id); err != nil {
		return employee.EmployeeResponse{}, err
	}
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return s.single(ctx, emp)
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if _, err := access.Check(ctx, access.EmployeeList, 0); err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	rows := make([]employee.EmployeeResponse, len(employees))
	for i, emp := range employees {
		rows[i] = mapEmployeeToResponse(emp)
	}
	rows, err = s.withNames(ctx, rows)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	return employee.ListEmployeeResponse{
		Employees:  rows,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	p, err := access.Check(ctx, access.EmployeeUpdate, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !p.IsAdmin() {
		if fields := req.AdminOnlyFields(); len(fields) > 0 {
			return employee.EmployeeResponse{}, fmt.Errorf("%w: %s", employee.ErrImmutableField, strings.Join(fields, ", "))
		}
	}
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	stored, err := s.uploadPhoto(ctx, req.Photo, req.PhotoFile)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	var updated employee.Employee
	var replacedPhoto *string
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.employeeRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		next := applyUpdate(current, req)

		if !strings.EqualFold(next.Email, current.Email) {
			if err := s.guard.AssertUnique(ctx, identity.Employee, "email", next.Email, current.ID); err != nil {
				return err
			}
		}
		if next.DepartmentID != current.DepartmentID || next.DesignationID != current.DesignationID {
			if err := s.lockReferences(ctx, next.DepartmentID, next.DesignationID); err != nil {
				return err
			}
		}
		if stored != nil {
			replacedPhoto = current.PhotoPath
			next.PhotoURL = &stored.URL
			next.PhotoPath = nil
			if stored.Path != "" {
				next.PhotoPath = &stored.Path
			}
		}

		updated, err = s.employeeRepo.Update(ctx, next)
		return err
	})
	if err != nil {
		s.discard(ctx, stored)
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	if replacedPhoto != nil {
		s.fileService.DeleteFile(ctx, *replacedPhoto)
	}

	return s.single(ctx, updated)
}

func applyUpdate(emp employee.Employee, req employee.UpdateEmployeeRequest) employee.Employee {
	if req.FirstName != nil {
		emp.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		emp.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		emp.Email = strings.TrimSpace(*req.Email)
	}
	if req.Phone != nil {
		emp.Phone = emptyToNil(*req.Phone)
	}
	if req.HireDate != nil {
		emp.HireDate, _ = validator.ParseDateOrDateTime(*req.HireDate)
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			emp.DateOfBirth = nil
		} else {
			dob, _ := validator.ParseDateOrDateTime(*req.DateOfBirth)
			emp.DateOfBirth = &dob
		}
	}
	if req.Salary != nil {
		emp.Salary = *req.Salary
	}
	if req.DepartmentID != nil {
		emp.DepartmentID = req.DepartmentID.Int64()
	}
	if req.DesignationID != nil {
		emp.DesignationID = req.DesignationID.Int64()
	}
	if req.EmploymentType != nil {
		emp.EmploymentType = employee.EmploymentType(*req.EmploymentType)
	}
	if req.Status != nil {
		emp.Status = employee.Status(*req.Status)
	}
	if req.Address != nil {
		emp.Address = emptyToNil(*req.Address)
	}
	if req.EmergencyContact.Name != nil {
		emp.EmergencyContactName = emptyToNil(*req.EmergencyContact.Name)
	}
	if req.EmergencyContact.Phone != nil {
		emp.EmergencyContactPhone = emptyToNil(*req.EmergencyContact.Phone)
	}
	if req.EmergencyContact.Relation != nil {
		emp.EmergencyContactRelation = emptyToNil(*req.EmergencyContact.Relation)
	}
	return emp
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// DeleteEmployee implements employee.EmployeeService. Attendance, leave, task
// and document history is kept; lists show the employee as "Unknown".
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.EmployeeDelete, id); err != nil {
		return err
	}

	var photoPath *string
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := s.employeeRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		photoPath = emp.PhotoPath
		if err := s.credentials.DeleteByEmployeeID(ctx, id); err != nil {
			return err
		}
		return s.employeeRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	if photoPath != nil {
		s.fileService.DeleteFile(ctx, *photoPath)
	}

	slog.Info("employee deleted", "employee_id", id)
	return nil
}

// CountEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CountEmployees(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.EmployeeList, 0); err != nil {
		return 0, err
	}
	return s.employeeRepo.Count(ctx)
}

// GenerateCode implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GenerateCode(ctx context.Context) (employee.GenerateCodeResponse, error) {
	if _, err := access.Check(ctx, access.EmployeeCreate, 0); err != nil {
		return employee.GenerateCodeResponse{}, err
	}
	next, err := s.allocator.PeekNextID(ctx, identity.Employee)
	if err != nil {
		return employee.GenerateCodeResponse{}, err
	}
	return employee.GenerateCodeResponse{Code: identity.EmployeeCode(next)}, nil
}

// CheckEmail implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CheckEmail(ctx context.Context, email string) (employee.CheckEmailResponse, error) {
	if _, err := access.Check(ctx, access.EmployeeCreate, 0); err != nil {
		return employee.CheckEmailResponse{}, err
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return employee.CheckEmailResponse{}, validator.New("email", "email is required")
	}

	emp, err := s.employeeRepo.GetByEmail(ctx, email)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return employee.CheckEmailResponse{Exists: false}, nil
	}
	if err != nil {
		return employee.CheckEmailResponse{}, err
	}
	return employee.CheckEmailResponse{Exists: true, Name: emp.FullName()}, nil
}
