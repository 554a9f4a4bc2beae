package task

import (
	"context"
	"time"
)

type TaskRepository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	// List returns tasks newest first.
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, t Task) (Task, error)
	Delete(ctx context.Context, id int64) error
	CountPending(ctx context.Context) (int64, error)
	// MarkOverdue persists Overdue on unfinished tasks due before today.
	MarkOverdue(ctx context.Context, today time.Time) (int64, error)
}
