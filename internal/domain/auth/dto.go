package auth

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

const minPasswordLength = 8

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   int64       `json:"expires_at"`
	Role        string      `json:"role"`
	User        interface{} `json:"user"`
}

type StreamTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type AdminResponse struct {
	ID        int64     `json:"admin_id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateAdminRequest struct {
	UserName string `json:"user_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *CreateAdminRequest) Validate() error {
	var errs validator.ValidationErrors

	r.UserName = strings.TrimSpace(r.UserName)
	r.Email = strings.TrimSpace(r.Email)

	if r.UserName == "" {
		errs.Add("user_name", "user_name is required")
	} else if len(r.UserName) > 100 {
		errs.Add("user_name", "user_name must not exceed 100 characters")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}
	validatePassword(&errs, "password", r.Password)

	return errs.Err()
}

type UpdateAdminRequest struct {
	ID       int64   `json:"-"`
	UserName *string `json:"user_name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

func (r *UpdateAdminRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("admin_id", "admin_id is required")
	}
	if r.UserName != nil && validator.IsEmpty(*r.UserName) {
		errs.Add("user_name", "user_name must not be empty")
	}
	if r.Email != nil && !validator.IsValidEmail(strings.TrimSpace(*r.Email)) {
		errs.Add("email", "email is invalid")
	}
	if r.Password != nil {
		validatePassword(&errs, "password", *r.Password)
	}

	return errs.Err()
}

type CredentialResponse struct {
	ID           int64            `json:"credential_id"`
	EmployeeID   int64            `json:"employee_id"`
	Email        string           `json:"email"`
	EmployeeCode string           `json:"employee_code"`
	Status       CredentialStatus `json:"status"`
	LastLoginAt  *time.Time       `json:"last_login_at"`
	CreatedAt    time.Time        `json:"created_at"`
}

type RegisterCredentialRequest struct {
	EmployeeID   refid.ID `json:"employee_id"`
	Email        string   `json:"email"`
	EmployeeCode string   `json:"employee_code"`
	Password     string   `json:"password"`
	Status       string   `json:"status,omitempty"`
}

func (r *RegisterCredentialRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	r.EmployeeCode = strings.TrimSpace(r.EmployeeCode)

	if r.EmployeeID.IsZero() {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}
	if r.EmployeeCode == "" {
		errs.Add("employee_code", "employee_code is required")
	}
	validatePassword(&errs, "password", r.Password)
	if r.Status == "" {
		r.Status = string(CredentialActive)
	} else if !validator.IsInSlice(r.Status, CredentialStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(CredentialStatuses, ", "))
	}

	return errs.Err()
}

type UpdateCredentialStatusRequest struct {
	ID     int64  `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateCredentialStatusRequest) Validate() error {
	if !validator.IsInSlice(r.Status, CredentialStatuses) {
		return validator.New("status", "status must be one of: "+strings.Join(CredentialStatuses, ", "))
	}
	return nil
}

// ValidatePassword checks the password policy for any credential.
func ValidatePassword(field, password string) error {
	var errs validator.ValidationErrors
	validatePassword(&errs, field, password)
	return errs.Err()
}

func validatePassword(errs *validator.ValidationErrors, field, password string) {
	if len(password) < minPasswordLength {
		errs.Add(field, "password must be at least 8 characters long")
	}
	if len(password) > 72 {
		errs.Add(field, "password must not exceed 72 bytes")
	}
}
