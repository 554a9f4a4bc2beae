package employee

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/storage"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
	"github.com/ems-hr/ems-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memEmployees struct {
	mu      sync.Mutex
	rows    map[int64]employee.Employee
	guard   *servicetest.Guard
	failing bool
}

func (m *memEmployees) Create(_ context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing {
		return employee.Employee{}, errors.New("store unavailable")
	}
	m.rows[e.ID] = e
	m.guard.Take(identity.Employee, "email", e.Email, e.ID)
	return e, nil
}

func (m *memEmployees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.rows[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployees) GetByEmail(_ context.Context, email string) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.rows {
		if strings.EqualFold(e.Email, email) {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployees) List(_ context.Context, _ employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]employee.Employee, 0, len(m.rows))
	for _, e := range m.rows {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memEmployees) Update(_ context.Context, e employee.Employee) (employee.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[e.ID] = e
	m.guard.Take(identity.Employee, "email", e.Email, e.ID)
	return e, nil
}

func (m *memEmployees) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memEmployees) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

func (m *memEmployees) ListActiveIDs(context.Context) ([]int64, error) { return nil, nil }

func (m *memEmployees) GetBriefsByIDs(context.Context, []int64) (map[int64]employee.Brief, error) {
	return map[int64]employee.Brief{}, nil
}

func (m *memEmployees) CountByDepartmentIDs(context.Context, []int64) (map[int64]int64, error) {
	return map[int64]int64{}, nil
}

func (m *memEmployees) CountByDesignationIDs(context.Context, []int64) (map[int64]int64, error) {
	return map[int64]int64{}, nil
}

type memDepartments map[int64]department.Department

func (m memDepartments) LockForShare(_ context.Context, id int64) (department.Department, error) {
	if d, ok := m[id]; ok {
		return d, nil
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (m memDepartments) GetNamesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range ids {
		if d, ok := m[id]; ok {
			out[id] = d.Name
		}
	}
	return out, nil
}

type memDesignations map[int64]designation.Designation

func (m memDesignations) LockForShare(_ context.Context, id int64) (designation.Designation, error) {
	if d, ok := m[id]; ok {
		return d, nil
	}
	return designation.Designation{}, designation.ErrDesignationNotFound
}

func (m memDesignations) GetTitlesByIDs(_ context.Context, ids []int64) (map[int64]string, error) {
	out := map[int64]string{}
	for _, id := range ids {
		if d, ok := m[id]; ok {
			out[id] = d.Title
		}
	}
	return out, nil
}

type credentialLog struct {
	removed []int64
}

func (c *credentialLog) DeleteByEmployeeID(_ context.Context, employeeID int64) error {
	c.removed = append(c.removed, employeeID)
	return nil
}

type fixture struct {
	svc         employee.EmployeeService
	repo        *memEmployees
	credentials *credentialLog
	local       *storage.LocalStorage
	allocator   *servicetest.Allocator
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://files.local")
	require.NoError(t, err)

	guard := servicetest.NewGuard()
	repo := &memEmployees{rows: map[int64]employee.Employee{}, guard: guard}
	departments := memDepartments{
		1: {ID: 1, Name: "Engineering"},
		2: {ID: 2, Name: "Finance"},
	}
	designations := memDesignations{
		10: {ID: 10, Title: "Engineer", DepartmentID: 1},
		20: {ID: 20, Title: "Accountant", DepartmentID: 2},
	}
	credentials := &credentialLog{}
	allocator := servicetest.NewAllocator()

	svc := NewEmployeeService(&servicetest.Tx{}, allocator, guard, repo, departments, designations, credentials, file.NewFileService(local))
	return fixture{svc: svc, repo: repo, credentials: credentials, local: local, allocator: allocator}
}

func validCreate(email string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          email,
		HireDate:       "2024-01-15",
		Salary:         decimal.NewFromInt(5000),
		DepartmentID:   refid.ID(1),
		DesignationID:  refid.ID(10),
		EmploymentType: string(employee.EmploymentTypeFullTime),
	}
}

func pngDataURL() string {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func photoCount(t *testing.T, local *storage.LocalStorage) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(local.BasePath(), "photos"))
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return len(entries)
}

func TestCreateAssignsIDAndCode(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()

	first, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "EMP001", first.Code)
	assert.Equal(t, "Jane Doe", first.FullName)
	assert.Equal(t, "Engineering", first.DepartmentName)
	assert.Equal(t, "Engineer", first.DesignationTitle)
	assert.Equal(t, employee.StatusActive, first.Status)
	assert.Equal(t, "2024-01-15", first.HireDate)

	second, err := f.svc.CreateEmployee(ctx, validCreate("john@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "EMP002", second.Code)

	preview, err := f.svc.GenerateCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EMP003", preview.Code)
}

func TestCreateDuplicateEmailIgnoresCase(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()

	_, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)

	_, err = f.svc.CreateEmployee(ctx, validCreate("JANE@example.com"))
	assert.ErrorIs(t, err, identity.ErrConflict)
}

func TestCreateChecksReferences(t *testing.T) {
	tests := []struct {
		name          string
		departmentID  int64
		designationID int64
		field         string
	}{
		{"missing department", 9, 10, "department_id"},
		{"missing designation", 1, 99, "designation_id"},
		{"designation from another department", 1, 20, "designation_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCreate("jane@example.com")
			req.DepartmentID = refid.ID(tt.departmentID)
			req.DesignationID = refid.ID(tt.designationID)

			_, err := f.svc.CreateEmployee(servicetest.AdminCtx(), req)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
			assert.Empty(t, f.repo.rows)
		})
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	req := validCreate("not-an-email")
	req.Salary = decimal.Zero
	req.EmploymentType = "Freelance"

	_, err := f.svc.CreateEmployee(servicetest.AdminCtx(), req)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"email", "salary", "employment_type"}, fields)
}

func TestCreateRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateEmployee(servicetest.EmployeeCtx(1), validCreate("jane@example.com"))
	assert.ErrorIs(t, err, access.ErrForbidden)

	_, err = f.svc.CreateEmployee(context.Background(), validCreate("jane@example.com"))
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestCreateStoresPhotoAndDropsItOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()

	req := validCreate("jane@example.com")
	photo := pngDataURL()
	req.Photo = &photo
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, created.PhotoURL)
	assert.True(t, strings.HasPrefix(*created.PhotoURL, "http://files.local/photos/"))
	assert.Equal(t, 1, photoCount(t, f.local))

	f.repo.failing = true
	req = validCreate("john@example.com")
	req.Photo = &photo
	_, err = f.svc.CreateEmployee(ctx, req)
	require.Error(t, err)
	assert.Equal(t, 1, photoCount(t, f.local))
}

func TestCreateKeepsExternalPhotoURL(t *testing.T) {
	f := newFixture(t)
	req := validCreate("jane@example.com")
	photo := " https://cdn.example.com/jane.png "
	req.Photo = &photo

	created, err := f.svc.CreateEmployee(servicetest.AdminCtx(), req)
	require.NoError(t, err)
	require.NotNil(t, created.PhotoURL)
	assert.Equal(t, "https://cdn.example.com/jane.png", *created.PhotoURL)
	assert.Nil(t, f.repo.rows[created.ID].PhotoPath)
}

func TestEmployeeUpdatesOwnContactOnly(t *testing.T) {
	f := newFixture(t)
	created, err := f.svc.CreateEmployee(servicetest.AdminCtx(), validCreate("jane@example.com"))
	require.NoError(t, err)
	self := servicetest.EmployeeCtx(created.ID)

	phone := "+62 812 3456 7890"
	updated, err := f.svc.UpdateEmployee(self, employee.UpdateEmployeeRequest{ID: created.ID, Phone: &phone})
	require.NoError(t, err)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, phone, *updated.Phone)

	salary := decimal.NewFromInt(9000)
	_, err = f.svc.UpdateEmployee(self, employee.UpdateEmployeeRequest{ID: created.ID, Salary: &salary})
	assert.ErrorIs(t, err, employee.ErrImmutableField)

	_, err = f.svc.UpdateEmployee(servicetest.EmployeeCtx(created.ID+1), employee.UpdateEmployeeRequest{ID: created.ID, Phone: &phone})
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestAdminMovesEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	created, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)

	dept := refid.ID(2)
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, DepartmentID: &dept})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "designation_id", verrs[0].Field)

	desig := refid.ID(20)
	moved, err := f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: created.ID, DepartmentID: &dept, DesignationID: &desig})
	require.NoError(t, err)
	assert.Equal(t, "Finance", moved.DepartmentName)
	assert.Equal(t, "Accountant", moved.DesignationTitle)
	assert.Equal(t, created.Code, moved.Code)
}

func TestUpdateEmailToTakenAddress(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	jane, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)
	_, err = f.svc.CreateEmployee(ctx, validCreate("john@example.com"))
	require.NoError(t, err)

	same := "JANE@example.com"
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: jane.ID, Email: &same})
	require.NoError(t, err)

	taken := "john@example.com"
	_, err = f.svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: jane.ID, Email: &taken})
	assert.ErrorIs(t, err, identity.ErrConflict)
}

func TestDeleteRemovesLoginAndPhoto(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	req := validCreate("jane@example.com")
	photo := pngDataURL()
	req.Photo = &photo
	created, err := f.svc.CreateEmployee(ctx, req)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteEmployee(ctx, created.ID))
	assert.Equal(t, []int64{created.ID}, f.credentials.removed)
	assert.Equal(t, 0, photoCount(t, f.local))

	_, err = f.svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	err = f.svc.DeleteEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestIDsAreNeverReused(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	first, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)
	require.NoError(t, f.svc.DeleteEmployee(ctx, first.ID))

	next, err := f.svc.CreateEmployee(ctx, validCreate("john@example.com"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}

func TestCheckEmail(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	_, err := f.svc.CreateEmployee(ctx, validCreate("jane@example.com"))
	require.NoError(t, err)

	got, err := f.svc.CheckEmail(ctx, "Jane@Example.com")
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.Equal(t, "Jane Doe", got.Name)

	got, err = f.svc.CheckEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, got.Exists)

	_, err = f.svc.CheckEmail(ctx, "  ")
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestListPaginates(t *testing.T) {
	f := newFixture(t)
	ctx := servicetest.AdminCtx()
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := f.svc.CreateEmployee(ctx, validCreate(email))
		require.NoError(t, err)
	}

	got, err := f.svc.ListEmployees(ctx, employee.EmployeeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.TotalCount)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 2, got.TotalPages)

	_, err = f.svc.ListEmployees(servicetest.EmployeeCtx(1), employee.EmployeeFilter{})
	assert.ErrorIs(t, err, access.ErrForbidden)
}
