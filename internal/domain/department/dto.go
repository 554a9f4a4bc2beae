package department

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type DepartmentResponse struct {
	ID        int64     `json:"department_id"`
	Name      string    `json:"department_name"`
	Location  *string   `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepartmentSummary is a department with its dependent counts.
type DepartmentSummary struct {
	DepartmentResponse
	TotalDesignations int64 `json:"total_designations"`
	TotalEmployees    int64 `json:"total_employees"`
}

type CreateDepartmentRequest struct {
	Name     string  `json:"department_name"`
	Location *string `json:"location,omitempty"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs.Add("department_name", "department_name is required")
	}
	if len(r.Name) > 100 {
		errs.Add("department_name", "department_name must not exceed 100 characters")
	}
	if r.Location != nil && len(*r.Location) > 200 {
		errs.Add("location", "location must not exceed 200 characters")
	}

	return errs.Err()
}

type UpdateDepartmentRequest struct {
	ID       int64   `json:"-"`
	Name     *string `json:"department_name,omitempty"`
	Location *string `json:"location,omitempty"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("department_id", "department_id is required")
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if validator.IsEmpty(name) {
			errs.Add("department_name", "department_name must not be empty")
		}
		if len(name) > 100 {
			errs.Add("department_name", "department_name must not exceed 100 characters")
		}
	}
	if r.Location != nil && len(*r.Location) > 200 {
		errs.Add("location", "location must not exceed 200 characters")
	}

	return errs.Err()
}
