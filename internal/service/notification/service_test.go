package notification

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/notification"
	"github.com/ems-hr/ems-backend-go/internal/pkg/sse"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNotifications struct {
	mu   sync.Mutex
	rows map[int64]notification.Notification
}

func (m *memNotifications) Create(_ context.Context, n notification.Notification) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[n.ID] = n
	return n, nil
}

func (m *memNotifications) GetByID(_ context.Context, id int64) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.rows[id]; ok {
		return n, nil
	}
	return notification.Notification{}, notification.ErrNotificationNotFound
}

func (m *memNotifications) List(_ context.Context, f notification.NotificationFilter) ([]notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []notification.Notification{}
	for _, n := range m.rows {
		if f.Audiences != nil {
			if _, ok := validator.FindFold(n.TargetAudience, f.Audiences); !ok {
				continue
			}
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memNotifications) Update(_ context.Context, n notification.Notification) (notification.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[n.ID] = n
	return n, nil
}

func (m *memNotifications) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

type memDepartments map[int64]string

func (m memDepartments) ListNames(_ context.Context) ([]string, error) {
	var names []string
	for _, name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m memDepartments) GetNamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range ids {
		if name, ok := m[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type memEmployees map[int64]int64

func (m memEmployees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	if dept, ok := m[id]; ok {
		return employee.Employee{ID: id, DepartmentID: dept}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func newService() (notification.NotificationService, *sse.Hub) {
	hub := sse.NewHub()
	repo := &memNotifications{rows: map[int64]notification.Notification{}}
	departments := memDepartments{1: "Engineering", 2: "Finance"}
	employees := memEmployees{10: 1, 20: 2}
	return NewNotificationService(servicetest.NewAllocator(), repo, departments, employees, hub), hub
}

func post(t *testing.T, svc notification.NotificationService, audience string) notification.NotificationResponse {
	t.Helper()
	resp, err := svc.Create(servicetest.AdminCtx(), notification.CreateNotificationRequest{
		Title:          "Heads up",
		Message:        "Office closed on Friday",
		TargetAudience: audience,
	})
	require.NoError(t, err)
	return resp
}

func TestAudienceIsCanonicalised(t *testing.T) {
	svc, _ := newService()

	assert.Equal(t, "All", post(t, svc, "all").TargetAudience)
	assert.Equal(t, "Engineering", post(t, svc, "ENGINEERING").TargetAudience)
}

func TestUnknownAudienceListsAllowedValues(t *testing.T) {
	svc, _ := newService()

	_, err := svc.Create(servicetest.AdminCtx(), notification.CreateNotificationRequest{
		Title:          "x",
		Message:        "y",
		TargetAudience: "Marketing",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.True(t, strings.Contains(verrs[0].Message, "All, Engineering, Finance"), verrs[0].Message)
}

func TestEmployeeVisibility(t *testing.T) {
	svc, _ := newService()
	all := post(t, svc, "All")
	eng := post(t, svc, "Engineering")
	fin := post(t, svc, "Finance")

	engineer := servicetest.EmployeeCtx(10)
	list, err := svc.List(engineer)
	require.NoError(t, err)
	var ids []int64
	for _, n := range list {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []int64{all.ID, eng.ID}, ids)

	_, err = svc.Get(engineer, fin.ID)
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.Get(engineer, eng.ID)
	assert.NoError(t, err)

	adminList, err := svc.List(servicetest.AdminCtx())
	require.NoError(t, err)
	assert.Len(t, adminList, 3)

	_, err = svc.Create(engineer, notification.CreateNotificationRequest{Title: "x", Message: "y", TargetAudience: "All"})
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestSubscribersReceiveAddressedEvents(t *testing.T) {
	svc, _ := newService()

	engineer, stopEngineer, err := svc.Subscribe(servicetest.EmployeeCtx(10))
	require.NoError(t, err)
	defer stopEngineer()
	accountant, stopAccountant, err := svc.Subscribe(servicetest.EmployeeCtx(20))
	require.NoError(t, err)
	defer stopAccountant()
	admin, stopAdmin, err := svc.Subscribe(servicetest.AdminCtx())
	require.NoError(t, err)
	defer stopAdmin()

	created := post(t, svc, "engineering")

	select {
	case ev := <-engineer:
		assert.Equal(t, EventCreated, ev.Event)
		assert.Equal(t, created, ev.Data)
	case <-time.After(time.Second):
		t.Fatal("engineer did not receive the notification")
	}
	select {
	case ev := <-admin:
		assert.Equal(t, EventCreated, ev.Event)
	case <-time.After(time.Second):
		t.Fatal("admin did not receive the notification")
	}
	select {
	case ev := <-accountant:
		t.Fatalf("accountant received %v", ev)
	default:
	}
}
