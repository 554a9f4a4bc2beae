package leave

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type LeaveResponse struct {
	ID              int64     `json:"leave_id"`
	EmployeeID      int64     `json:"employee_id"`
	LeaveType       Type      `json:"leave_type"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	NoOfLeaves      int       `json:"no_of_leaves"`
	Reason          *string   `json:"reason"`
	Status          Status    `json:"status"`
	RejectionReason *string   `json:"rejection_reason"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LeaveSummary is a leave with the requesting employee's name and department.
type LeaveSummary struct {
	LeaveResponse
	EmployeeName   string `json:"employee_name"`
	DepartmentName string `json:"department_name"`

	DepartmentID int64 `json:"-"`
}

type LeaveFilter struct {
	EmployeeID int64
	Status     string
}

func (f *LeaveFilter) Validate() error {
	if f.Status != "" && !validator.IsInSlice(f.Status, Statuses) {
		return validator.New("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	return nil
}

// ApplyLeaveRequest creates a Pending leave. no_of_leaves is always
// recomputed from the dates.
type ApplyLeaveRequest struct {
	EmployeeID refid.ID `json:"employee_id"`
	LeaveType  string   `json:"leave_type"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	Reason     *string  `json:"reason,omitempty"`
	NoOfLeaves *int     `json:"no_of_leaves,omitempty"`

	start, end time.Time
}

func (r *ApplyLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.LeaveType, Types) {
		errs.Add("leave_type", "leave_type must be one of: "+strings.Join(Types, ", "))
	}

	var startOK, endOK bool
	if validator.IsEmpty(r.StartDate) {
		errs.Add("start_date", "start_date is required")
	} else if r.start, startOK = validator.ParseDateOrDateTime(r.StartDate); !startOK {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if validator.IsEmpty(r.EndDate) {
		errs.Add("end_date", "end_date is required")
	} else if r.end, endOK = validator.ParseDateOrDateTime(r.EndDate); !endOK {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if startOK && endOK && r.end.Before(r.start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}
	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

// Dates returns the parsed range; valid only after Validate succeeds.
func (r *ApplyLeaveRequest) Dates() (time.Time, time.Time) {
	return r.start, r.end
}

type UpdateLeaveStatusRequest struct {
	ID              int64   `json:"-"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

func (r *UpdateLeaveStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("leave_id", "leave_id is required")
	}
	if r.Status != string(StatusApproved) && r.Status != string(StatusRejected) {
		errs.Add("status", "status must be Approved or Rejected")
	}
	if r.Status == string(StatusRejected) {
		if _, err := RejectionReasonFor(StatusRejected, r.RejectionReason); err != nil {
			errs.Add("rejection_reason", err.Error())
		}
	}

	return errs.Err()
}
