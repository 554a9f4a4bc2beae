package task

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type TaskResponse struct {
	ID          int64     `json:"task_id"`
	EmployeeID  int64     `json:"employee_id"`
	Title       string    `json:"task_title"`
	Description *string   `json:"task_description"`
	DueDate     string    `json:"due_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TaskSummary struct {
	TaskResponse
	EmployeeName   string `json:"employee_name"`
	DepartmentName string `json:"department_name"`

	DepartmentID int64 `json:"-"`
}

type TaskFilter struct {
	EmployeeID int64
	Status     string
}

type CreateTaskRequest struct {
	EmployeeID  refid.ID `json:"employee_id"`
	Title       string   `json:"task_title"`
	Description *string  `json:"task_description,omitempty"`
	DueDate     string   `json:"due_date"`
	Status      string   `json:"status,omitempty"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	if r.EmployeeID.IsZero() {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Title) {
		errs.Add("task_title", "task_title is required")
	} else if len(r.Title) > 200 {
		errs.Add("task_title", "task_title must not exceed 200 characters")
	}
	if validator.IsEmpty(r.DueDate) {
		errs.Add("due_date", "due_date is required")
	} else if _, ok := validator.ParseDateOrDateTime(r.DueDate); !ok {
		errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
	}
	if r.Status == "" {
		r.Status = string(StatusPending)
	} else if !validator.IsInSlice(r.Status, SettableStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(SettableStatuses, ", "))
	}

	return errs.Err()
}

type UpdateTaskRequest struct {
	ID          int64   `json:"-"`
	Title       *string `json:"task_title,omitempty"`
	Description *string `json:"task_description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// OnlyStatus reports whether the request touches nothing but the status.
func (r *UpdateTaskRequest) OnlyStatus() bool {
	return r.Title == nil && r.Description == nil && r.DueDate == nil
}

func (r *UpdateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("task_id", "task_id is required")
	}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		r.Title = &title
		if title == "" {
			errs.Add("task_title", "task_title must not be empty")
		}
	}
	if r.DueDate != nil {
		if _, ok := validator.ParseDateOrDateTime(*r.DueDate); !ok {
			errs.Add("due_date", "due_date must be in YYYY-MM-DD format")
		}
	}
	if r.Status != nil && !validator.IsInSlice(*r.Status, SettableStatuses) {
		errs.Add("status", "status must be one of: "+strings.Join(SettableStatuses, ", "))
	}
	if r.Title == nil && r.Description == nil && r.DueDate == nil && r.Status == nil {
		errs.Add("body", "at least one field must be provided")
	}

	return errs.Err()
}
