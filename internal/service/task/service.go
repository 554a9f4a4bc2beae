package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/domain/task"
	"github.com/ems-hr/ems-backend-go/internal/pkg/enrich"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	GetBriefsByIDs(ctx context.Context, ids []int64) (map[int64]employee.Brief, error)
}

type DepartmentNames interface {
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type taskServiceImpl struct {
	allocator   identity.Allocator
	taskRepo    task.TaskRepository
	employees   EmployeeReader
	departments DepartmentNames
	now         func() time.Time
}

func NewTaskService(
	allocator identity.Allocator,
	taskRepo task.TaskRepository,
	employees EmployeeReader,
	departments DepartmentNames,
) task.TaskService {
	return &taskServiceImpl{
		allocator:   allocator,
		taskRepo:    taskRepo,
		employees:   employees,
		departments: departments,
		now:         time.Now,
	}
}

func (s *taskServiceImpl) toResponse(t task.Task) task.TaskResponse {
	return task.TaskResponse{
		ID:          t.ID,
		EmployeeID:  t.EmployeeID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate.Format(dateLayout),
		Status:      t.EffectiveStatus(s.now()),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Create implements task.TaskService.
func (s *taskServiceImpl) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if _, err := access.Check(ctx, access.TaskCreate, 0); err != nil {
		return task.TaskResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}
	employeeID := req.EmployeeID.Int64()
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return task.TaskResponse{}, validator.New("employee_id", fmt.Sprintf("employee %d does not exist", employeeID))
		}
		return task.TaskResponse{}, err
	}

	due, _ := validator.ParseDateOrDateTime(req.DueDate)
	id, err := s.allocator.NextID(ctx, identity.Task)
	if err != nil {
		return task.TaskResponse{}, err
	}
	created, err := s.taskRepo.Create(ctx, task.Task{
		ID:          id,
		EmployeeID:  employeeID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     validator.TruncateDay(due),
		Status:      task.Status(req.Status),
	})
	if err != nil {
		return task.TaskResponse{}, fmt.Errorf("failed to create task: %w", err)
	}

	return s.toResponse(created), nil
}

// Get implements task.TaskService.
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (task.TaskResponse, error) {
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.TaskResponse{}, access.ConcealMissing(ctx, err, task.ErrTaskNotFound)
	}
	if _, err := access.Check(ctx, access.TaskRead, t.EmployeeID); err != nil {
		return task.TaskResponse{}, err
	}
	return s.toResponse(t), nil
}

// ListAll implements task.TaskService.
func (s *taskServiceImpl) ListAll(ctx context.Context, filter task.TaskFilter) ([]task.TaskSummary, error) {
	if _, err := access.Check(ctx, access.TaskListAll, 0); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	rows := make([]task.TaskSummary, len(tasks))
	for i, t := range tasks {
		rows[i] = task.TaskSummary{TaskResponse: s.toResponse(t)}
	}

	rows, err = enrich.Apply(ctx, rows,
		enrich.Lookup("employee",
			func(r task.TaskSummary) int64 { return r.EmployeeID },
			s.employees.GetBriefsByIDs,
			func(r *task.TaskSummary, b employee.Brief, found bool) {
				if !found {
					r.EmployeeName = "Unknown"
					return
				}
				r.EmployeeName = b.Name
				r.DepartmentID = b.DepartmentID
			}),
	)
	if err != nil {
		return nil, err
	}
	return enrich.Apply(ctx, rows,
		enrich.Lookup("department_name",
			func(r task.TaskSummary) int64 { return r.DepartmentID },
			s.departments.GetNamesByIDs,
			func(r *task.TaskSummary, name string, found bool) {
				if !found {
					name = "Unknown"
				}
				r.DepartmentName = name
			}),
	)
}

// ListByEmployee implements task.TaskService.
func (s *taskServiceImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]task.TaskResponse, error) {
	if _, err := access.Check(ctx, access.TaskRead, employeeID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, task.TaskFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	resp := make([]task.TaskResponse, len(tasks))
	for i, t := range tasks {
		resp[i] = s.toResponse(t)
	}
	return resp, nil
}

// Update implements task.TaskService.
func (s *taskServiceImpl) Update(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	current, err := s.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		return task.TaskResponse{}, access.ConcealMissing(ctx, err, task.ErrTaskNotFound)
	}
	if _, err := access.Check(ctx, access.TaskUpdateStatus, current.EmployeeID); err != nil {
		return task.TaskResponse{}, err
	}
	if !req.OnlyStatus() {
		if _, err := access.Check(ctx, access.TaskUpdate, current.EmployeeID); err != nil {
			if errors.Is(err, access.ErrForbidden) {
				return task.TaskResponse{}, task.ErrStatusOnly
			}
			return task.TaskResponse{}, err
		}
	}
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	if req.Title != nil {
		current.Title = *req.Title
	}
	if req.Description != nil {
		current.Description = req.Description
	}
	if req.DueDate != nil {
		due, _ := validator.ParseDateOrDateTime(*req.DueDate)
		current.DueDate = validator.TruncateDay(due)
		// A stored Overdue is re-derived from the new date on read.
		if req.Status == nil && current.Status == task.StatusOverdue {
			current.Status = task.StatusPending
		}
	}
	if req.Status != nil {
		current.Status = task.Status(*req.Status)
	}

	updated, err := s.taskRepo.Update(ctx, current)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return s.toResponse(updated), nil
}

// Delete implements task.TaskService.
func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.TaskDelete, 0); err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, id)
}

// CountPending implements task.TaskService.
func (s *taskServiceImpl) CountPending(ctx context.Context) (int64, error) {
	if _, err := access.Check(ctx, access.TaskListAll, 0); err != nil {
		return 0, err
	}
	return s.taskRepo.CountPending(ctx)
}

// MarkOverdue implements task.TaskService.
func (s *taskServiceImpl) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.taskRepo.MarkOverdue(ctx, validator.TruncateDay(s.now()))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("tasks marked overdue", "count", n)
	}
	return n, nil
}
