package task

import "context"

type TaskService interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, id int64) (TaskResponse, error)
	// ListAll returns every task with employee and department names (admin only).
	ListAll(ctx context.Context, filter TaskFilter) ([]TaskSummary, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]TaskResponse, error)
	// Update lets admins edit any field and employees change only the status of their own task.
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, id int64) error
	CountPending(ctx context.Context) (int64, error)
	// MarkOverdue persists the derived Overdue status.
	MarkOverdue(ctx context.Context) (int64, error)
}
