package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/domain/passwordreset"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/ems-hr/ems-backend-go/internal/pkg/email"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
}

type PasswordWriter interface {
	UpdatePassword(ctx context.Context, employeeID int64, passwordHash string) error
}

type service struct {
	tx         database.Transactor
	allocator  identity.Allocator
	repo       passwordreset.PasswordResetRepository
	employees  EmployeeReader
	passwords  PasswordWriter
	mailer     email.EmailService
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewPasswordResetService(
	tx database.Transactor,
	allocator identity.Allocator,
	repo passwordreset.PasswordResetRepository,
	employees EmployeeReader,
	passwords PasswordWriter,
	mailer email.EmailService,
	ttl time.Duration,
) passwordreset.PasswordResetService {
	return &service{
		tx:         tx,
		allocator:  allocator,
		repo:       repo,
		employees:  employees,
		passwords:  passwords,
		mailer:     mailer,
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

func toResponse(r passwordreset.PasswordReset) passwordreset.PasswordResetResponse {
	return passwordreset.PasswordResetResponse{
		ID:          r.ID,
		EmployeeID:  r.EmployeeID,
		Email:       r.Email,
		Status:      r.Status,
		RequestedAt: r.RequestedAt,
		CompletedAt: r.CompletedAt,
	}
}

// Create implements passwordreset.PasswordResetService.
func (s *service) Create(ctx context.Context, req passwordreset.CreatePasswordResetRequest) (passwordreset.PasswordResetResponse, error) {
	if _, err := access.Check(ctx, access.PasswordResetManage, 0); err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	employeeID := req.EmployeeID.Int64()

	emp, err := s.employees.GetByID(ctx, employeeID)
	if errors.Is(err, employee.ErrEmployeeNotFound) {
		return passwordreset.PasswordResetResponse{}, validator.New("employee_id", fmt.Sprintf("employee %d does not exist", employeeID))
	}
	if err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	if !strings.EqualFold(emp.Email, req.Email) {
		return passwordreset.PasswordResetResponse{}, passwordreset.ErrEmailMismatch
	}

	id, err := s.allocator.NextID(ctx, identity.PasswordReset)
	if err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	created, err := s.repo.Create(ctx, passwordreset.PasswordReset{
		ID:          id,
		EmployeeID:  employeeID,
		Email:       emp.Email,
		Status:      passwordreset.StatusPending,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		return passwordreset.PasswordResetResponse{}, fmt.Errorf("failed to create password reset: %w", err)
	}

	expiresAt := created.RequestedAt.Add(s.ttl).Format("2006-01-02 15:04 MST")
	if err := s.mailer.SendPasswordReset(created.Email, emp.FullName(), expiresAt); err != nil {
		slog.Error("failed to send password reset email", "reset_id", created.ID, "error", err)
	}

	return toResponse(created), nil
}

// Get implements passwordreset.PasswordResetService.
func (s *service) Get(ctx context.Context, id int64) (passwordreset.PasswordResetResponse, error) {
	if _, ok := access.FromContext(ctx); !ok {
		return passwordreset.PasswordResetResponse{}, access.ErrUnauthenticated
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	if _, err := access.Check(ctx, access.PasswordResetRead, r.EmployeeID); err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	return toResponse(r), nil
}

// List implements passwordreset.PasswordResetService. Employees only ever see
// their own requests.
func (s *service) List(ctx context.Context, filter passwordreset.PasswordResetFilter) ([]passwordreset.PasswordResetResponse, error) {
	p, ok := access.FromContext(ctx)
	if !ok {
		return nil, access.ErrUnauthenticated
	}
	if !p.IsAdmin() {
		filter.EmployeeID = p.EmployeeID
	}
	if _, err := access.Check(ctx, access.PasswordResetRead, filter.EmployeeID); err != nil {
		return nil, err
	}
	if filter.Status != "" {
		status, ok := validator.FindFold(filter.Status, passwordreset.Statuses)
		if !ok {
			return nil, validator.New("status", "status must be one of: "+strings.Join(passwordreset.Statuses, ", "))
		}
		filter.Status = status
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]passwordreset.PasswordResetResponse, len(rows))
	for i, r := range rows {
		resp[i] = toResponse(r)
	}
	return resp, nil
}

// Resolve implements passwordreset.PasswordResetService.
func (s *service) Resolve(ctx context.Context, req passwordreset.ResolvePasswordResetRequest) (passwordreset.PasswordResetResponse, error) {
	if _, err := access.Check(ctx, access.PasswordResetManage, 0); err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return passwordreset.PasswordResetResponse{}, err
	}

	var hash []byte
	if req.NewPassword != nil {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(*req.NewPassword), s.bcryptCost); err != nil {
			return passwordreset.PasswordResetResponse{}, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	var resolved passwordreset.PasswordReset
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		resolved, err = s.repo.Resolve(ctx, req.ID, passwordreset.Status(req.Status), s.now().UTC())
		if err != nil {
			return err
		}
		if hash == nil {
			return nil
		}
		err = s.passwords.UpdatePassword(ctx, resolved.EmployeeID, string(hash))
		if errors.Is(err, auth.ErrCredentialNotFound) {
			return validator.New("new_password", "employee has no login to update")
		}
		return err
	})
	if err != nil {
		return passwordreset.PasswordResetResponse{}, fmt.Errorf("failed to resolve password reset: %w", err)
	}

	slog.Info("password reset resolved", "reset_id", resolved.ID, "status", resolved.Status, "password_changed", hash != nil)
	return toResponse(resolved), nil
}

// Delete implements passwordreset.PasswordResetService.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.PasswordResetManage, 0); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// ExpireStale implements passwordreset.PasswordResetService.
func (s *service) ExpireStale(ctx context.Context, ttl time.Duration) (int64, error) {
	cutoff := s.now().UTC().Add(-ttl)
	n, err := s.repo.ExpireRequestedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire password resets: %w", err)
	}
	return n, nil
}
