package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type memAdmins struct {
	mu   sync.Mutex
	rows map[int64]auth.Admin
}

func (m *memAdmins) Create(_ context.Context, a auth.Admin) (auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.CreatedAt, a.UpdatedAt = time.Now(), time.Now()
	m.rows[a.ID] = a
	return a, nil
}

func (m *memAdmins) GetByID(_ context.Context, id int64) (auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.rows[id]; ok {
		return a, nil
	}
	return auth.Admin{}, auth.ErrAdminNotFound
}

func (m *memAdmins) GetByEmail(_ context.Context, email string) (auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return auth.Admin{}, auth.ErrAdminNotFound
}

func (m *memAdmins) List(_ context.Context) ([]auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []auth.Admin{}
	for _, a := range m.rows {
		out = append(out, a)
	}
	return out, nil
}

func (m *memAdmins) Update(_ context.Context, a auth.Admin) (auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[a.ID] = a
	return a, nil
}

func (m *memAdmins) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return auth.ErrAdminNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memAdmins) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.rows)), nil
}

type memCredentials struct {
	mu      sync.Mutex
	rows    map[int64]auth.Credential
	touched []int64
}

func (m *memCredentials) Create(_ context.Context, c auth.Credential) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	m.rows[c.ID] = c
	return c, nil
}

func (m *memCredentials) GetByID(_ context.Context, id int64) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.rows[id]; ok {
		return c, nil
	}
	return auth.Credential{}, auth.ErrCredentialNotFound
}

func (m *memCredentials) GetByEmail(_ context.Context, email string) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if strings.EqualFold(c.Email, email) {
			return c, nil
		}
	}
	return auth.Credential{}, auth.ErrCredentialNotFound
}

func (m *memCredentials) GetByEmployeeID(_ context.Context, employeeID int64) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.rows {
		if c.EmployeeID == employeeID {
			return c, nil
		}
	}
	return auth.Credential{}, auth.ErrCredentialNotFound
}

func (m *memCredentials) List(_ context.Context) ([]auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []auth.Credential{}
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCredentials) UpdatePassword(_ context.Context, employeeID int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.rows {
		if c.EmployeeID == employeeID {
			c.PasswordHash = hash
			m.rows[id] = c
			return nil
		}
	}
	return auth.ErrCredentialNotFound
}

func (m *memCredentials) UpdateStatus(_ context.Context, id int64, status auth.CredentialStatus) (auth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return auth.Credential{}, auth.ErrCredentialNotFound
	}
	c.Status = status
	m.rows[id] = c
	return c, nil
}

func (m *memCredentials) TouchLogin(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched = append(m.touched, id)
	return nil
}

func (m *memCredentials) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
	return nil
}

func (m *memCredentials) DeleteByEmployeeID(_ context.Context, employeeID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.rows {
		if c.EmployeeID == employeeID {
			delete(m.rows, id)
		}
	}
	return nil
}

type memEmployees map[int64]employee.Employee

func (m memEmployees) GetByID(_ context.Context, id int64) (employee.Employee, error) {
	if e, ok := m[id]; ok {
		return e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fixture struct {
	svc         *AuthServiceImpl
	admins      *memAdmins
	credentials *memCredentials
	guard       *servicetest.Guard
	jwt         jwt.Service
}

func newFixture() *fixture {
	f := &fixture{
		admins:      &memAdmins{rows: map[int64]auth.Admin{}},
		credentials: &memCredentials{rows: map[int64]auth.Credential{}},
		guard:       servicetest.NewGuard(),
		jwt:         jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 5*time.Minute),
	}
	employees := memEmployees{
		1: {ID: 1, Code: "EMP001", FirstName: "Ada", LastName: "Lovelace", Email: "ada@ems.local"},
	}
	svc := NewAuthService(&servicetest.Tx{}, servicetest.NewAllocator(), f.guard, f.admins, f.credentials, employees, f.jwt)
	f.svc = svc.(*AuthServiceImpl)
	f.svc.bcryptCost = bcrypt.MinCost
	return f
}

func (f *fixture) seedAdmin(t *testing.T) auth.AdminResponse {
	t.Helper()
	resp, err := f.svc.CreateAdmin(context.Background(), auth.CreateAdminRequest{
		UserName: "root",
		Email:    "root@ems.local",
		Password: "password123",
	})
	require.NoError(t, err)
	f.guard.Take(identity.Admin, "email", resp.Email, resp.ID)
	return resp
}

func TestFirstAdminNeedsNoCaller(t *testing.T) {
	f := newFixture()
	admin := f.seedAdmin(t)
	assert.Equal(t, int64(1), admin.ID)
	assert.Equal(t, "admin", admin.Role)

	_, err := f.svc.CreateAdmin(context.Background(), auth.CreateAdminRequest{
		UserName: "second",
		Email:    "second@ems.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	second, err := f.svc.CreateAdmin(servicetest.AdminCtx(), auth.CreateAdminRequest{
		UserName: "second",
		Email:    "second@ems.local",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	f := newFixture()
	f.seedAdmin(t)

	_, err := f.svc.CreateAdmin(servicetest.AdminCtx(), auth.CreateAdminRequest{
		UserName: "dup",
		Email:    "ROOT@ems.local",
		Password: "password123",
	})
	assert.ErrorIs(t, err, identity.ErrConflict)
}

func TestAdminLogin(t *testing.T) {
	f := newFixture()
	f.seedAdmin(t)
	ctx := context.Background()

	resp, err := f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "root@ems.local", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "admin", resp.Role)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "root@ems.local", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.AdminLogin(ctx, auth.LoginRequest{Email: "nobody@ems.local", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = f.svc.AdminLogin(ctx, auth.LoginRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRegisterCredentialAndLogin(t *testing.T) {
	f := newFixture()
	ctx := servicetest.AdminCtx()

	cred, err := f.svc.RegisterCredential(ctx, auth.RegisterCredentialRequest{
		EmployeeID:   refid.ID(1),
		Email:        "ada@ems.local",
		EmployeeCode: "EMP001",
		Password:     "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.CredentialActive, cred.Status)
	assert.Equal(t, int64(1), cred.EmployeeID)

	resp, err := f.svc.EmployeeLogin(context.Background(), auth.LoginRequest{Email: "ada@ems.local", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "employee", resp.Role)
	assert.Equal(t, []int64{cred.ID}, f.credentials.touched)

	// the token carries the employee id the caller acts as
	token, err := f.jwt.JWTAuth().Decode(resp.AccessToken)
	require.NoError(t, err)
	claims, err := token.AsMap(context.Background())
	require.NoError(t, err)
	p, err := jwt.PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.EmployeeID)
	assert.Equal(t, access.RoleEmployee, p.Role)
}

func TestRegisterCredentialMismatch(t *testing.T) {
	f := newFixture()
	ctx := servicetest.AdminCtx()

	_, err := f.svc.RegisterCredential(ctx, auth.RegisterCredentialRequest{
		EmployeeID:   refid.ID(1),
		Email:        "ada@ems.local",
		EmployeeCode: "EMP002",
		Password:     "password123",
	})
	assert.ErrorIs(t, err, auth.ErrProfileMismatch)

	_, err = f.svc.RegisterCredential(ctx, auth.RegisterCredentialRequest{
		EmployeeID:   refid.ID(99),
		Email:        "x@ems.local",
		EmployeeCode: "EMP099",
		Password:     "password123",
	})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestRegisterCredentialRequiresAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.svc.RegisterCredential(servicetest.EmployeeCtx(1), auth.RegisterCredentialRequest{
		EmployeeID:   refid.ID(1),
		Email:        "ada@ems.local",
		EmployeeCode: "EMP001",
		Password:     "password123",
	})
	assert.ErrorIs(t, err, access.ErrForbidden)
}

func TestDisabledCredentialCannotLogin(t *testing.T) {
	f := newFixture()
	ctx := servicetest.AdminCtx()

	cred, err := f.svc.RegisterCredential(ctx, auth.RegisterCredentialRequest{
		EmployeeID:   refid.ID(1),
		Email:        "ada@ems.local",
		EmployeeCode: "EMP001",
		Password:     "password123",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateCredentialStatus(ctx, auth.UpdateCredentialStatusRequest{ID: cred.ID, Status: "suspended"})
	require.NoError(t, err)

	_, err = f.svc.EmployeeLogin(context.Background(), auth.LoginRequest{Email: "ada@ems.local", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	assert.Empty(t, f.credentials.touched)
}

func TestDeleteAdminRefusesSelf(t *testing.T) {
	f := newFixture()
	f.seedAdmin(t)

	err := f.svc.DeleteAdmin(servicetest.AdminCtx(), 1)
	assert.ErrorIs(t, err, auth.ErrCannotDeleteSelf)
}

func TestUpdateAdminChangesPassword(t *testing.T) {
	f := newFixture()
	f.seedAdmin(t)

	newPassword := "another-password"
	_, err := f.svc.UpdateAdmin(servicetest.AdminCtx(), auth.UpdateAdminRequest{ID: 1, Password: &newPassword})
	require.NoError(t, err)

	_, err = f.svc.AdminLogin(context.Background(), auth.LoginRequest{Email: "root@ems.local", Password: newPassword})
	assert.NoError(t, err)
}

func TestStreamToken(t *testing.T) {
	f := newFixture()

	_, err := f.svc.StreamToken(context.Background())
	assert.ErrorIs(t, err, access.ErrUnauthenticated)

	resp, err := f.svc.StreamToken(servicetest.EmployeeCtx(3))
	require.NoError(t, err)
	assert.Equal(t, 300, resp.ExpiresIn)

	p, err := f.jwt.ValidateStreamToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.EmployeeID)
}
