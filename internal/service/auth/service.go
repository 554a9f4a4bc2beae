package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
}

type AuthServiceImpl struct {
	tx             database.Transactor
	allocator      identity.Allocator
	guard          identity.Guard
	adminRepo      auth.AdminRepository
	credentialRepo auth.CredentialRepository
	employees      EmployeeReader
	jwtService     jwt.Service
	bcryptCost     int
}

func NewAuthService(
	tx database.Transactor,
	allocator identity.Allocator,
	guard identity.Guard,
	adminRepo auth.AdminRepository,
	credentialRepo auth.CredentialRepository,
	employees EmployeeReader,
	jwtService jwt.Service,
) auth.AuthService {
	return &AuthServiceImpl{
		tx:             tx,
		allocator:      allocator,
		guard:          guard,
		adminRepo:      adminRepo,
		credentialRepo: credentialRepo,
		employees:      employees,
		jwtService:     jwtService,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// HashPassword hashes a password with the service's bcrypt cost.
func (a *AuthServiceImpl) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return auth.ErrInvalidCredentials
	}
	return nil
}

func toAdminResponse(a auth.Admin) auth.AdminResponse {
	return auth.AdminResponse{
		ID:        a.ID,
		UserName:  a.UserName,
		Email:     a.Email,
		Role:      string(access.RoleAdmin),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func toCredentialResponse(c auth.Credential) auth.CredentialResponse {
	return auth.CredentialResponse{
		ID:           c.ID,
		EmployeeID:   c.EmployeeID,
		Email:        c.Email,
		EmployeeCode: c.EmployeeCode,
		Status:       c.Status,
		LastLoginAt:  c.LastLoginAt,
		CreatedAt:    c.CreatedAt,
	}
}

func (a *AuthServiceImpl) issue(p access.Principal, user interface{}) (auth.LoginResponse, error) {
	token, expiresAt, err := a.jwtService.GenerateAccessToken(p)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Role:        string(p.Role),
		User:        user,
	}, nil
}

// AdminLogin implements auth.AuthService.
func (a *AuthServiceImpl) AdminLogin(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	admin, err := a.adminRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, auth.ErrAdminNotFound) {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if err := checkPassword(admin.PasswordHash, req.Password); err != nil {
		return auth.LoginResponse{}, err
	}

	return a.issue(access.Principal{
		Role:   access.RoleAdmin,
		UserID: admin.ID,
		Email:  admin.Email,
	}, toAdminResponse(admin))
}

// EmployeeLogin implements auth.AuthService.
func (a *AuthServiceImpl) EmployeeLogin(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	cred, err := a.credentialRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, auth.ErrCredentialNotFound) {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return auth.LoginResponse{}, err
	}
	if err := checkPassword(cred.PasswordHash, req.Password); err != nil {
		return auth.LoginResponse{}, err
	}
	if cred.Status != auth.CredentialActive {
		return auth.LoginResponse{}, auth.ErrAccountDisabled
	}

	if err := a.credentialRepo.TouchLogin(ctx, cred.ID); err != nil {
		slog.Warn("failed to record login time", "credential_id", cred.ID, "error", err)
	}

	return a.issue(access.Principal{
		Role:       access.RoleEmployee,
		UserID:     cred.ID,
		EmployeeID: cred.EmployeeID,
		Email:      cred.Email,
	}, toCredentialResponse(cred))
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	p, ok := access.FromContext(ctx)
	if !ok {
		return auth.StreamTokenResponse{}, access.ErrUnauthenticated
	}
	token, expiresIn, err := a.jwtService.GenerateStreamToken(p)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to generate stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}

// CreateAdmin implements auth.AuthService.
func (a *AuthServiceImpl) CreateAdmin(ctx context.Context, req auth.CreateAdminRequest) (auth.AdminResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AdminResponse{}, err
	}
	hash, err := a.HashPassword(req.Password)
	if err != nil {
		return auth.AdminResponse{}, err
	}

	var created auth.Admin
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := a.adminRepo.Count(ctx)
		if err != nil {
			return err
		}
		if existing > 0 {
			if _, err := access.Check(ctx, access.AdminManage, 0); err != nil {
				return err
			}
		}
		if err := a.guard.AssertUnique(ctx, identity.Admin, "email", req.Email, 0); err != nil {
			return err
		}
		id, err := a.allocator.NextID(ctx, identity.Admin)
		if err != nil {
			return err
		}
		created, err = a.adminRepo.Create(ctx, auth.Admin{
			ID:           id,
			UserName:     req.UserName,
			Email:        req.Email,
			PasswordHash: hash,
		})
		return err
	})
	if err != nil {
		return auth.AdminResponse{}, fmt.Errorf("failed to create admin: %w", err)
	}

	slog.Info("admin created", "admin_id", created.ID)
	return toAdminResponse(created), nil
}

// ListAdmins implements auth.AuthService.
func (a *AuthServiceImpl) ListAdmins(ctx context.Context) ([]auth.AdminResponse, error) {
	if _, err := access.Check(ctx, access.AdminManage, 0); err != nil {
		return nil, err
	}
	admins, err := a.adminRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]auth.AdminResponse, len(admins))
	for i, admin := range admins {
		resp[i] = toAdminResponse(admin)
	}
	return resp, nil
}

// UpdateAdmin implements auth.AuthService.
func (a *AuthServiceImpl) UpdateAdmin(ctx context.Context, req auth.UpdateAdminRequest) (auth.AdminResponse, error) {
	if _, err := access.Check(ctx, access.AdminManage, 0); err != nil {
		return auth.AdminResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return auth.AdminResponse{}, err
	}

	var hash string
	if req.Password != nil {
		var err error
		if hash, err = a.HashPassword(*req.Password); err != nil {
			return auth.AdminResponse{}, err
		}
	}

	var updated auth.Admin
	err := a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := a.adminRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if req.UserName != nil {
			current.UserName = strings.TrimSpace(*req.UserName)
		}
		if req.Email != nil {
			email := strings.TrimSpace(*req.Email)
			if !strings.EqualFold(email, current.Email) {
				if err := a.guard.AssertUnique(ctx, identity.Admin, "email", email, current.ID); err != nil {
					return err
				}
			}
			current.Email = email
		}
		if hash != "" {
			current.PasswordHash = hash
		}
		updated, err = a.adminRepo.Update(ctx, current)
		return err
	})
	if err != nil {
		return auth.AdminResponse{}, fmt.Errorf("failed to update admin: %w", err)
	}

	return toAdminResponse(updated), nil
}

// DeleteAdmin implements auth.AuthService.
func (a *AuthServiceImpl) DeleteAdmin(ctx context.Context, id int64) error {
	p, err := access.Check(ctx, access.AdminManage, 0)
	if err != nil {
		return err
	}
	if p.UserID == id {
		return auth.ErrCannotDeleteSelf
	}
	return a.adminRepo.Delete(ctx, id)
}

// RegisterCredential implements auth.AuthService.
func (a *AuthServiceImpl) RegisterCredential(ctx context.Context, req auth.RegisterCredentialRequest) (auth.CredentialResponse, error) {
	if _, err := access.Check(ctx, access.CredentialManage, 0); err != nil {
		return auth.CredentialResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return auth.CredentialResponse{}, err
	}
	hash, err := a.HashPassword(req.Password)
	if err != nil {
		return auth.CredentialResponse{}, err
	}
	employeeID := req.EmployeeID.Int64()

	var created auth.Credential
	err = a.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		emp, err := a.employees.GetByID(ctx, employeeID)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return validator.New("employee_id", fmt.Sprintf("employee %d does not exist", employeeID))
		}
		if err != nil {
			return err
		}
		if !strings.EqualFold(emp.Email, req.Email) || emp.Code != req.EmployeeCode {
			return auth.ErrProfileMismatch
		}

		for _, key := range []struct {
			field string
			value any
		}{
			{"employee_id", employeeID},
			{"email", req.Email},
			{"employee_code", req.EmployeeCode},
		} {
			if err := a.guard.AssertUnique(ctx, identity.Credential, key.field, key.value, 0); err != nil {
				return err
			}
		}

		id, err := a.allocator.NextID(ctx, identity.Credential)
		if err != nil {
			return err
		}
		created, err = a.credentialRepo.Create(ctx, auth.Credential{
			ID:           id,
			EmployeeID:   employeeID,
			Email:        emp.Email,
			EmployeeCode: emp.Code,
			PasswordHash: hash,
			Status:       auth.CredentialStatus(req.Status),
		})
		return err
	})
	if err != nil {
		return auth.CredentialResponse{}, fmt.Errorf("failed to register employee login: %w", err)
	}

	return toCredentialResponse(created), nil
}

// ListCredentials implements auth.AuthService.
func (a *AuthServiceImpl) ListCredentials(ctx context.Context) ([]auth.CredentialResponse, error) {
	if _, err := access.Check(ctx, access.CredentialManage, 0); err != nil {
		return nil, err
	}
	creds, err := a.credentialRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]auth.CredentialResponse, len(creds))
	for i, c := range creds {
		resp[i] = toCredentialResponse(c)
	}
	return resp, nil
}

// UpdateCredentialStatus implements auth.AuthService.
func (a *AuthServiceImpl) UpdateCredentialStatus(ctx context.Context, req auth.UpdateCredentialStatusRequest) (auth.CredentialResponse, error) {
	if _, err := access.Check(ctx, access.CredentialManage, 0); err != nil {
		return auth.CredentialResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return auth.CredentialResponse{}, err
	}
	updated, err := a.credentialRepo.UpdateStatus(ctx, req.ID, auth.CredentialStatus(req.Status))
	if err != nil {
		return auth.CredentialResponse{}, err
	}
	return toCredentialResponse(updated), nil
}

// DeleteCredential implements auth.AuthService.
func (a *AuthServiceImpl) DeleteCredential(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.CredentialManage, 0); err != nil {
		return err
	}
	return a.credentialRepo.Delete(ctx, id)
}
