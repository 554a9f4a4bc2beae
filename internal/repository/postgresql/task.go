package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/task"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `task_id, employee_id, task_title, task_description, due_date, status, created_at, updated_at`

type taskRepositoryImpl struct {
	db *database.DB
}

func NewTaskRepository(db *database.DB) task.TaskRepository {
	return &taskRepositoryImpl{db: db}
}

func scanTask(row pgx.Row) (task.Task, error) {
	var t task.Task
	err := row.Scan(&t.ID, &t.EmployeeID, &t.Title, &t.Description, &t.DueDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return task.Task{}, task.ErrTaskNotFound
	}
	return t, err
}

// Create implements task.TaskRepository.
func (r *taskRepositoryImpl) Create(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO tasks (task_id, employee_id, task_title, task_description, due_date, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	created, err := scanTask(q.QueryRow(ctx, query, t.ID, t.EmployeeID, t.Title, t.Description, t.DueDate, t.Status))
	if err != nil {
		return task.Task{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements task.TaskRepository.
func (r *taskRepositoryImpl) GetByID(ctx context.Context, id int64) (task.Task, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (task.Task, error) {
		q := GetQuerier(ctx, r.db)
		return scanTask(q.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE task_id = $1`, id))
	})
}

// List implements task.TaskRepository.
func (r *taskRepositoryImpl) List(ctx context.Context, filter task.TaskFilter) ([]task.Task, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY created_at DESC, task_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Update implements task.TaskRepository.
func (r *taskRepositoryImpl) Update(ctx context.Context, t task.Task) (task.Task, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET task_title = $2, task_description = $3, due_date = $4, status = $5, updated_at = now()
		WHERE task_id = $1
		RETURNING ` + taskColumns

	return scanTask(q.QueryRow(ctx, query, t.ID, t.Title, t.Description, t.DueDate, t.Status))
}

// Delete implements task.TaskRepository.
func (r *taskRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM tasks WHERE task_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return task.ErrTaskNotFound
	}
	return nil
}

// CountPending implements task.TaskRepository.
func (r *taskRepositoryImpl) CountPending(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM tasks WHERE status = $1`, task.StatusPending)
}

// MarkOverdue implements task.TaskRepository.
func (r *taskRepositoryImpl) MarkOverdue(ctx context.Context, today time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE tasks
		SET status = $1, updated_at = now()
		WHERE due_date < $2 AND status IN ($3, $4)
	`
	tag, err := q.Exec(ctx, query, task.StatusOverdue, today, task.StatusPending, task.StatusInProgress)
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	return tag.RowsAffected(), nil
}
