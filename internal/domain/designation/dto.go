package designation

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type DesignationResponse struct {
	ID           int64     `json:"designation_id"`
	Title        string    `json:"designation_title"`
	DepartmentID int64     `json:"department_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DesignationSummary struct {
	DesignationResponse
	DepartmentName string `json:"department_name"`
	TotalEmployees int64  `json:"total_employees"`
}

type DesignationFilter struct {
	DepartmentID int64
}

type CreateDesignationRequest struct {
	Title        string   `json:"designation_title"`
	DepartmentID refid.ID `json:"department_id"`
}

func (r *CreateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	if validator.IsEmpty(r.Title) {
		errs.Add("designation_title", "designation_title is required")
	}
	if len(r.Title) > 100 {
		errs.Add("designation_title", "designation_title must not exceed 100 characters")
	}
	if r.DepartmentID.IsZero() {
		errs.Add("department_id", "department_id is required")
	}

	return errs.Err()
}

type UpdateDesignationRequest struct {
	ID           int64     `json:"-"`
	Title        *string   `json:"designation_title,omitempty"`
	DepartmentID *refid.ID `json:"department_id,omitempty"`
}

func (r *UpdateDesignationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("designation_id", "designation_id is required")
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
		if validator.IsEmpty(title) {
			errs.Add("designation_title", "designation_title must not be empty")
		}
		if len(title) > 100 {
			errs.Add("designation_title", "designation_title must not exceed 100 characters")
		}
	}
	if r.DepartmentID != nil && r.DepartmentID.IsZero() {
		errs.Add("department_id", "department_id must not be empty")
	}

	return errs.Err()
}
