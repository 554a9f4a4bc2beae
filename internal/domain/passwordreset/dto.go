package passwordreset

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type PasswordResetResponse struct {
	ID          int64      `json:"reset_id"`
	EmployeeID  int64      `json:"employee_id"`
	Email       string     `json:"email"`
	Status      Status     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type PasswordResetFilter struct {
	EmployeeID int64
	Status     string
}

type CreatePasswordResetRequest struct {
	EmployeeID refid.ID `json:"employee_id"`
	Email      string   `json:"email"`
}

func (r *CreatePasswordResetRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = strings.TrimSpace(r.Email)
	if r.EmployeeID.IsZero() {
		errs.Add("employee_id", "employee_id is required")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email is invalid")
	}

	return errs.Err()
}

// ResolvePasswordResetRequest closes a Pending request. A Completed request
// may carry the new password, which replaces the employee's login password.
type ResolvePasswordResetRequest struct {
	ID          int64   `json:"-"`
	Status      string  `json:"status"`
	NewPassword *string `json:"new_password,omitempty"`
}

func (r *ResolvePasswordResetRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("reset_id", "reset_id is required")
	}
	if r.Status != string(StatusCompleted) && r.Status != string(StatusExpired) {
		errs.Add("status", "status must be Completed or Expired")
	}
	if r.NewPassword != nil && r.Status != string(StatusCompleted) {
		errs.Add("new_password", "new_password is only accepted when completing a request")
	}
	if r.NewPassword != nil && (len(*r.NewPassword) < 8 || len(*r.NewPassword) > 72) {
		errs.Add("new_password", "password must be between 8 and 72 characters long")
	}

	return errs.Err()
}
