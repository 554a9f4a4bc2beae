package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// CreateEmployee assigns the employee id and code and stores the optional photo (admin only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee (admin or the employee themself)
	GetEmployee(ctx context.Context, id int64) (EmployeeResponse, error)

	// ListEmployees lists employees with filters (admin only)
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// UpdateEmployee updates profile fields; employees may only change their contact details
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee hard deletes an employee and their login (admin only)
	DeleteEmployee(ctx context.Context, id int64) error

	CountEmployees(ctx context.Context) (int64, error)

	// GenerateCode previews the code the next created employee will receive
	GenerateCode(ctx context.Context) (GenerateCodeResponse, error)

	CheckEmail(ctx context.Context, email string) (CheckEmailResponse, error)
}
