package task

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/task"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTasks struct {
	mu   sync.Mutex
	rows map[int64]task.Task
}

func (m *memTasks) Create(_ context.Context, t task.Task) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = t
	return t, nil
}

func (m *memTasks) GetByID(_ context.Context, id int64) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.rows[id]; ok {
		return t, nil
	}
	return task.Task{}, task.ErrTaskNotFound
}

func (m *memTasks) List(_ context.Context, f task.TaskFilter) ([]task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []task.Task{}
	for id := int64(len(m.rows) + 10); id > 0; id-- {
		t, ok := m.rows[id]
		if !ok || (f.EmployeeID > 0 && t.EmployeeID != f.EmployeeID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (m *memTasks) Update(_ context.Context, t task.Task) (task.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[t.ID] = t
	return t, nil
}

func (m *memTasks) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memTasks) CountPending(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, t := range m.rows {
		if t.Status == task.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m *memTasks) MarkOverdue(_ context.Context, today time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.rows {
		if (t.Status == task.StatusPending || t.Status == task.StatusInProgress) && t.DueDate.Before(today) {
			t.Status = task.StatusOverdue
			m.rows[id] = t
			n++
		}
	}
	return n, nil
}

type memEmployees map[int64]employee.Brief

func (m memEmployees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	if b, ok := m[id]; ok {
		return employee.Employee{ID: b.ID, DepartmentID: b.DepartmentID}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m memEmployees) GetBriefsByIDs(_ context.Context, ids []int64) (map[int64]employee.Brief, error) {
	out := map[int64]employee.Brief{}
	for _, id := range ids {
		if b, ok := m[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

type departmentNames map[int64]string

func (d departmentNames) GetNamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range ids {
		if name, ok := d[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

var today = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func newService() (*taskServiceImpl, *memTasks) {
	repo := &memTasks{rows: map[int64]task.Task{}}
	employees := memEmployees{1: {ID: 1, Name: "Ada Lovelace", DepartmentID: 3}}
	svc := NewTaskService(servicetest.NewAllocator(), repo, employees, departmentNames{3: "Research"}).(*taskServiceImpl)
	svc.now = func() time.Time { return today }
	return svc, repo
}

func create(t *testing.T, svc task.TaskService, due string) task.TaskResponse {
	t.Helper()
	resp, err := svc.Create(servicetest.AdminCtx(), task.CreateTaskRequest{
		EmployeeID: refid.ID(1),
		Title:      "Write report",
		DueDate:    due,
	})
	require.NoError(t, err)
	return resp
}

func TestCreateValidatesEmployee(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(servicetest.AdminCtx(), task.CreateTaskRequest{EmployeeID: refid.ID(5), Title: "x", DueDate: "2026-07-01"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = svc.Create(servicetest.EmployeeCtx(1), task.CreateTaskRequest{EmployeeID: refid.ID(1), Title: "x", DueDate: "2026-07-01"})
	assert.ErrorIs(t, err, access.ErrForbidden)

	resp := create(t, svc, "2026-07-01")
	assert.Equal(t, task.StatusPending, resp.Status)
	assert.Equal(t, "2026-07-01", resp.DueDate)
}

func TestOverdueDerivedOnRead(t *testing.T) {
	svc, _ := newService()
	late := create(t, svc, "2026-06-14")
	dueToday := create(t, svc, "2026-06-15")

	assert.Equal(t, task.StatusOverdue, late.Status)
	assert.Equal(t, task.StatusPending, dueToday.Status)

	done := "Completed"
	resp, err := svc.Update(servicetest.EmployeeCtx(1), task.UpdateTaskRequest{ID: late.ID, Status: &done})
	require.NoError(t, err)
	assert.Equal(t, task.StatusCompleted, resp.Status)
}

func TestEmployeeMayOnlyChangeStatus(t *testing.T) {
	svc, _ := newService()
	created := create(t, svc, "2026-07-01")

	title := "Something else"
	_, err := svc.Update(servicetest.EmployeeCtx(1), task.UpdateTaskRequest{ID: created.ID, Title: &title})
	assert.ErrorIs(t, err, task.ErrStatusOnly)

	status := "In Progress"
	_, err = svc.Update(servicetest.EmployeeCtx(2), task.UpdateTaskRequest{ID: created.ID, Status: &status})
	assert.ErrorIs(t, err, access.ErrForbidden)

	resp, err := svc.Update(servicetest.AdminCtx(), task.UpdateTaskRequest{ID: created.ID, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, resp.Title)
}

func TestMarkOverduePersists(t *testing.T) {
	svc, repo := newService()
	late := create(t, svc, "2026-06-01")
	create(t, svc, "2026-06-30")

	n, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, task.StatusOverdue, repo.rows[late.ID].Status)
}

func TestListAllEnrichesNames(t *testing.T) {
	svc, repo := newService()
	create(t, svc, "2026-07-01")
	repo.rows[2] = task.Task{ID: 2, EmployeeID: 40, Title: "orphan", DueDate: today, Status: task.StatusPending}

	list, err := svc.ListAll(servicetest.AdminCtx(), task.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Unknown", list[0].EmployeeName)
	assert.Equal(t, "Unknown", list[0].DepartmentName)
	assert.Equal(t, "Ada Lovelace", list[1].EmployeeName)
	assert.Equal(t, "Research", list[1].DepartmentName)
}

func TestExtendingDueDateClearsStoredOverdue(t *testing.T) {
	svc, repo := newService()
	late := create(t, svc, "2026-06-01")
	_, err := svc.MarkOverdue(context.Background())
	require.NoError(t, err)
	require.Equal(t, task.StatusOverdue, repo.rows[late.ID].Status)

	due := "2026-07-01"
	resp, err := svc.Update(servicetest.AdminCtx(), task.UpdateTaskRequest{ID: late.ID, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "2026-07-01", resp.DueDate)
	assert.Equal(t, task.StatusPending, resp.Status)
	assert.Equal(t, task.StatusPending, repo.rows[late.ID].Status)

	stillLate := "2026-06-10"
	resp, err = svc.Update(servicetest.AdminCtx(), task.UpdateTaskRequest{ID: late.ID, DueDate: &stillLate})
	require.NoError(t, err)
	assert.Equal(t, task.StatusOverdue, resp.Status)
}

func TestEmployeeCannotTellMissingTaskFromForeign(t *testing.T) {
	svc, _ := newService()
	created := create(t, svc, "2026-07-01")
	status := "Completed"

	_, err := svc.Update(servicetest.EmployeeCtx(2), task.UpdateTaskRequest{ID: created.ID, Status: &status})
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.Update(servicetest.EmployeeCtx(2), task.UpdateTaskRequest{ID: 999, Status: &status})
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.Get(servicetest.EmployeeCtx(2), 999)
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = svc.Update(servicetest.AdminCtx(), task.UpdateTaskRequest{ID: 999, Status: &status})
	assert.ErrorIs(t, err, task.ErrTaskNotFound)
}
