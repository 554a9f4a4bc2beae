package attendance

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID          int64      `json:"attendance_id"`
	EmployeeID  int64      `json:"employee_id"`
	Date        string     `json:"date"`
	CheckIn     *time.Time `json:"check_in"`
	CheckOut    *time.Time `json:"check_out"`
	Status      Status     `json:"status"`
	WorkedHours float64    `json:"worked_hours"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type EmployeeAttendanceResponse struct {
	EmployeeID int64                `json:"employee_id"`
	Month      int                  `json:"month,omitempty"`
	Year       int                  `json:"year,omitempty"`
	Records    []AttendanceResponse `json:"records"`
	TotalHours float64              `json:"total_hours"`
}

// AttendanceFilter selects records; From is inclusive and To exclusive.
type AttendanceFilter struct {
	EmployeeID int64
	From       *time.Time
	To         *time.Time
}

// CheckRequest is the body of check-in and check-out. Employees may omit
// employee_id; admins acting for an employee must set it.
type CheckRequest struct {
	EmployeeID refid.ID `json:"employee_id"`
}

type ListEmployeeAttendanceRequest struct {
	EmployeeID int64
	Month      int
	Year       int
}

func (r *ListEmployeeAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs.Add("employee_id", "employee_id is required")
	}
	if (r.Month == 0) != (r.Year == 0) {
		errs.Add("month", "month and year must be given together")
	}
	if r.Month != 0 && (r.Month < 1 || r.Month > 12) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year != 0 && (r.Year < 1970 || r.Year > 9999) {
		errs.Add("year", "year is invalid")
	}

	return errs.Err()
}

// Range returns the [from, to) window for the requested month, if any.
func (r *ListEmployeeAttendanceRequest) Range() (from, to *time.Time) {
	if r.Month == 0 {
		return nil, nil
	}
	start := time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return &start, &end
}

type ListAllAttendanceRequest struct {
	Date string
}

func (r *ListAllAttendanceRequest) Validate() error {
	if r.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		return validator.New("date", "date must be in YYYY-MM-DD format")
	}
	return nil
}

type UpdateAttendanceStatusRequest struct {
	ID     int64  `json:"-"`
	Status string `json:"status"`
}

func (r *UpdateAttendanceStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("attendance_id", "attendance_id is required")
	}
	if !validator.IsInSlice(r.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}

	return errs.Err()
}
