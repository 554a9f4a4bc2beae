package employee

import (
	"io"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID                       int64           `json:"employee_id"`
	Code                     string          `json:"employee_code"`
	FirstName                string          `json:"first_name"`
	LastName                 string          `json:"last_name"`
	FullName                 string          `json:"full_name"`
	Email                    string          `json:"email"`
	Phone                    *string         `json:"phone"`
	HireDate                 string          `json:"hire_date"`
	DateOfBirth              *string         `json:"date_of_birth"`
	Salary                   decimal.Decimal `json:"salary"`
	DepartmentID             int64           `json:"department_id"`
	DepartmentName           string          `json:"department_name"`
	DesignationID            int64           `json:"designation_id"`
	DesignationTitle         string          `json:"designation_title"`
	EmploymentType           EmploymentType  `json:"employment_type"`
	Status                   Status          `json:"status"`
	Address                  *string         `json:"address"`
	PhotoURL                 *string         `json:"photo_url"`
	EmergencyContactName     *string         `json:"emergency_contact_name"`
	EmergencyContactPhone    *string         `json:"emergency_contact_phone"`
	EmergencyContactRelation *string         `json:"emergency_contact_relation"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}

type ListEmployeeResponse struct {
	Employees  []EmployeeResponse `json:"employees"`
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

type GenerateCodeResponse struct {
	Code string `json:"code"`
}

type CheckEmailResponse struct {
	Exists bool   `json:"exists"`
	Name   string `json:"name,omitempty"`
}

type EmployeeFilter struct {
	Search        string
	Status        string
	DepartmentID  int64
	DesignationID int64
	Page          int
	Limit         int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !validator.IsInSlice(f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs.Add("limit", "limit must not exceed 100")
	}

	return errs.Err()
}

type EmergencyContact struct {
	Name     *string `json:"emergency_contact_name,omitempty"`
	Phone    *string `json:"emergency_contact_phone,omitempty"`
	Relation *string `json:"emergency_contact_relation,omitempty"`
}

// CreateEmployeeRequest carries a new employee profile. employee_id and
// employee_code are always assigned by the server; any client value is ignored.
type CreateEmployeeRequest struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Email          string          `json:"email"`
	Phone          *string         `json:"phone,omitempty"`
	HireDate       string          `json:"hire_date"`
	DateOfBirth    *string         `json:"date_of_birth,omitempty"`
	Salary         decimal.Decimal `json:"salary"`
	DepartmentID   refid.ID        `json:"department_id"`
	DesignationID  refid.ID        `json:"designation_id"`
	EmploymentType string          `json:"employment_type"`
	Status         string          `json:"status,omitempty"`
	Address        *string         `json:"address,omitempty"`
	EmergencyContact
	// Photo may be a base64 data URL.
	Photo *string `json:"photo,omitempty"`

	PhotoFile io.Reader `json:"-"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)

	if validator.IsEmpty(r.FirstName) {
		errs.Add("first_name", "first_name is required")
	} else if len(r.FirstName) > 100 {
		errs.Add("first_name", "first_name must not exceed 100 characters")
	}
	if validator.IsEmpty(r.LastName) {
		errs.Add("last_name", "last_name is required")
	} else if len(r.LastName) > 100 {
		errs.Add("last_name", "last_name must not exceed 100 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone is invalid")
	}

	if validator.IsEmpty(r.HireDate) {
		errs.Add("hire_date", "hire_date is required")
	} else if _, ok := validator.ParseDateOrDateTime(r.HireDate); !ok {
		errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
	}
	if r.DateOfBirth != nil {
		if dob, ok := validator.ParseDateOrDateTime(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		} else if dob.After(time.Now()) {
			errs.Add("date_of_birth", "date_of_birth must be in the past")
		}
	}

	if !r.Salary.IsPositive() {
		errs.Add("salary", "salary must be greater than 0")
	}

	if r.DepartmentID.IsZero() {
		errs.Add("department_id", "department_id is required")
	}
	if r.DesignationID.IsZero() {
		errs.Add("designation_id", "designation_id is required")
	}

	if !validator.IsInSlice(r.EmploymentType, EmploymentTypes) {
		errs.Add("employment_type", "employment_type must be one of: "+strings.Join(EmploymentTypes, ", "))
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	} else if !validator.IsInSlice(r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}

	validateEmergencyContact(&errs, r.EmergencyContact)

	return errs.Err()
}

// UpdateEmployeeRequest changes an existing profile. employee_id and
// employee_code cannot be changed.
type UpdateEmployeeRequest struct {
	ID             int64            `json:"-"`
	FirstName      *string          `json:"first_name,omitempty"`
	LastName       *string          `json:"last_name,omitempty"`
	Email          *string          `json:"email,omitempty"`
	Phone          *string          `json:"phone,omitempty"`
	HireDate       *string          `json:"hire_date,omitempty"`
	DateOfBirth    *string          `json:"date_of_birth,omitempty"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	DepartmentID   *refid.ID        `json:"department_id,omitempty"`
	DesignationID  *refid.ID        `json:"designation_id,omitempty"`
	EmploymentType *string          `json:"employment_type,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Address        *string          `json:"address,omitempty"`
	EmergencyContact
	Photo *string `json:"photo,omitempty"`

	PhotoFile io.Reader `json:"-"`
}

// AdminOnlyFields lists the fields set on r that only an admin may change.
func (r *UpdateEmployeeRequest) AdminOnlyFields() []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(r.FirstName != nil, "first_name")
	add(r.LastName != nil, "last_name")
	add(r.Email != nil, "email")
	add(r.HireDate != nil, "hire_date")
	add(r.DateOfBirth != nil, "date_of_birth")
	add(r.Salary != nil, "salary")
	add(r.DepartmentID != nil, "department_id")
	add(r.DesignationID != nil, "designation_id")
	add(r.EmploymentType != nil, "employment_type")
	add(r.Status != nil, "status")
	return fields
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("employee_id", "employee_id is required")
	}
	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs.Add("first_name", "first_name must not be empty")
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs.Add("last_name", "last_name must not be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errs.Add("email", "email is invalid")
	}
	if r.Phone != nil && *r.Phone != "" && !validator.IsValidPhoneNumber(*r.Phone) {
		errs.Add("phone", "phone is invalid")
	}
	if r.HireDate != nil {
		if _, ok := validator.ParseDateOrDateTime(*r.HireDate); !ok {
			errs.Add("hire_date", "hire_date must be in YYYY-MM-DD format")
		}
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if dob, ok := validator.ParseDateOrDateTime(*r.DateOfBirth); !ok {
			errs.Add("date_of_birth", "date_of_birth must be in YYYY-MM-DD format")
		} else if dob.After(time.Now()) {
			errs.Add("date_of_birth", "date_of_birth must be in the past")
		}
	}
	if r.Salary != nil && !r.Salary.IsPositive() {
		errs.Add("salary", "salary must be greater than 0")
	}
	if r.DepartmentID != nil && r.DepartmentID.IsZero() {
		errs.Add("department_id", "department_id must not be empty")
	}
	if r.DesignationID != nil && r.DesignationID.IsZero() {
		errs.Add("designation_id", "designation_id must not be empty")
	}
	if r.EmploymentType != nil && !validator.IsInSlice(*r.EmploymentType, EmploymentTypes) {
		errs.Add("employment_type", "employment_type must be one of: "+strings.Join(EmploymentTypes, ", "))
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}

	validateEmergencyContact(&errs, r.EmergencyContact)

	return errs.Err()
}

func validateEmergencyContact(errs *validator.ValidationErrors, c EmergencyContact) {
	if c.Phone != nil && *c.Phone != "" && !validator.IsValidPhoneNumber(*c.Phone) {
		errs.Add("emergency_contact_phone", "emergency_contact_phone is invalid")
	}
	if c.Name != nil && len(*c.Name) > 100 {
		errs.Add("emergency_contact_name", "emergency_contact_name must not exceed 100 characters")
	}
	if c.Relation != nil && len(*c.Relation) > 50 {
		errs.Add("emergency_contact_relation", "emergency_contact_relation must not exceed 50 characters")
	}
}
