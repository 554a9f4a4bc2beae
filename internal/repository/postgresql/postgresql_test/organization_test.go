//go:build integration

package postgresql_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/storage"
	"github.com/ems-hr/ems-backend-go/internal/repository/postgresql"
	departmentService "github.com/ems-hr/ems-backend-go/internal/service/department"
	designationService "github.com/ems-hr/ems-backend-go/internal/service/designation"
	employeeService "github.com/ems-hr/ems-backend-go/internal/service/employee"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
	"github.com/ems-hr/ems-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type services struct {
	departments  department.DepartmentService
	designations designation.DesignationService
	employees    employee.EmployeeService
}

func wire(t *testing.T, db *database.DB) services {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), "http://files.local")
	require.NoError(t, err)

	tx := postgresql.NewTransactor(db)
	allocator := postgresql.NewSequenceRepository(db)
	guard := postgresql.NewGuardRepository(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	designationRepo := postgresql.NewDesignationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	credentialRepo := postgresql.NewCredentialRepository(db)

	return services{
		departments:  departmentService.NewDepartmentService(tx, allocator, guard, departmentRepo, designationRepo, employeeRepo),
		designations: designationService.NewDesignationService(tx, allocator, designationRepo, departmentRepo, employeeRepo),
		employees: employeeService.NewEmployeeService(tx, allocator, guard, employeeRepo, departmentRepo, designationRepo,
			credentialRepo, file.NewFileService(local)),
	}
}

func TestNextIDConcurrentCallersGetDistinctIDs(t *testing.T) {
	db := newTestDB(t)
	allocator := postgresql.NewSequenceRepository(db)
	ctx := context.Background()

	const callers = 40
	ids := make([]int64, callers)
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := allocator.NextID(ctx, identity.Department)
			if err != nil {
				errs <- err
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
	for i, id := range ids {
		assert.Equal(t, int64(i+1), id)
	}

	peek, err := allocator.PeekNextID(ctx, identity.Department)
	require.NoError(t, err)
	assert.Equal(t, int64(callers+1), peek)
}

func TestNextIDSeedsFromExistingRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO departments (department_id, department_name) VALUES (41, 'Legacy')`)
	require.NoError(t, err)

	id, err := postgresql.NewSequenceRepository(db).NextID(ctx, identity.Department)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestNextIDRollsBackWithTransaction(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(db)
	allocator := postgresql.NewSequenceRepository(db)

	_ = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := allocator.NextID(ctx, identity.Task)
		require.NoError(t, err)
		return assert.AnError
	})

	id, err := allocator.NextID(ctx, identity.Task)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestDepartmentLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := wire(t, db)
	ctx := servicetest.AdminCtx()

	dept, err := svc.departments.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), dept.ID)

	_, err = svc.departments.Create(ctx, department.CreateDepartmentRequest{Name: "engineering"})
	assert.ErrorIs(t, err, identity.ErrConflict)

	desig, err := svc.designations.Create(ctx, designation.CreateDesignationRequest{
		Title:        "Engineer",
		DepartmentID: refid.ID(dept.ID),
	})
	require.NoError(t, err)

	emp, err := svc.employees.CreateEmployee(ctx, employee.CreateEmployeeRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@example.com",
		HireDate:       "2024-01-15",
		Salary:         decimal.NewFromInt(5000),
		DepartmentID:   refid.ID(dept.ID),
		DesignationID:  refid.ID(desig.ID),
		EmploymentType: string(employee.EmploymentTypeFullTime),
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP001", emp.Code)
	assert.Equal(t, "Engineering", emp.DepartmentName)
	assert.Equal(t, "Engineer", emp.DesignationTitle)

	summaries, err := svc.departments.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(1), summaries[0].TotalDesignations)
	assert.Equal(t, int64(1), summaries[0].TotalEmployees)

	err = svc.departments.Delete(ctx, dept.ID)
	assert.ErrorIs(t, err, department.ErrDepartmentInUse)
	err = svc.designations.Delete(ctx, desig.ID)
	assert.ErrorIs(t, err, designation.ErrDesignationInUse)

	require.NoError(t, svc.employees.DeleteEmployee(ctx, emp.ID))
	require.NoError(t, svc.designations.Delete(ctx, desig.ID))
	require.NoError(t, svc.departments.Delete(ctx, dept.ID))

	next, err := svc.departments.Create(ctx, department.CreateDepartmentRequest{Name: "Finance"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.ID)
}

func TestDuplicateEmployeeEmailIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	svc := wire(t, db)
	ctx := servicetest.AdminCtx()

	dept, err := svc.departments.Create(ctx, department.CreateDepartmentRequest{Name: "Engineering"})
	require.NoError(t, err)
	desig, err := svc.designations.Create(ctx, designation.CreateDesignationRequest{Title: "Engineer", DepartmentID: refid.ID(dept.ID)})
	require.NoError(t, err)

	req := employee.CreateEmployeeRequest{
		FirstName:      "Jane",
		LastName:       "Doe",
		Email:          "jane@example.com",
		HireDate:       "2024-01-15",
		Salary:         decimal.NewFromInt(5000),
		DepartmentID:   refid.ID(dept.ID),
		DesignationID:  refid.ID(desig.ID),
		EmploymentType: string(employee.EmploymentTypeFullTime),
	}
	_, err = svc.employees.CreateEmployee(ctx, req)
	require.NoError(t, err)

	req.Email = "Jane@Example.COM"
	_, err = svc.employees.CreateEmployee(ctx, req)
	assert.ErrorIs(t, err, identity.ErrConflict)
}
