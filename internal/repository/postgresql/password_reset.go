package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/passwordreset"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const passwordResetColumns = `reset_id, employee_id, email, status, requested_at, completed_at`

type passwordResetRepositoryImpl struct {
	db *database.DB
}

func NewPasswordResetRepository(db *database.DB) passwordreset.PasswordResetRepository {
	return &passwordResetRepositoryImpl{db: db}
}

func scanPasswordReset(row pgx.Row) (passwordreset.PasswordReset, error) {
	var p passwordreset.PasswordReset
	err := row.Scan(&p.ID, &p.EmployeeID, &p.Email, &p.Status, &p.RequestedAt, &p.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return passwordreset.PasswordReset{}, passwordreset.ErrPasswordResetNotFound
	}
	return p, err
}

// Create implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) Create(ctx context.Context, p passwordreset.PasswordReset) (passwordreset.PasswordReset, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO password_resets (reset_id, employee_id, email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + passwordResetColumns

	created, err := scanPasswordReset(q.QueryRow(ctx, query, p.ID, p.EmployeeID, p.Email, p.Status))
	if err != nil {
		return passwordreset.PasswordReset{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) GetByID(ctx context.Context, id int64) (passwordreset.PasswordReset, error) {
	q := GetQuerier(ctx, r.db)
	return scanPasswordReset(q.QueryRow(ctx, `SELECT `+passwordResetColumns+` FROM password_resets WHERE reset_id = $1`, id))
}

// List implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) List(ctx context.Context, filter passwordreset.PasswordResetFilter) ([]passwordreset.PasswordReset, error) {
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

	query := `SELECT ` + passwordResetColumns + ` FROM password_resets`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY requested_at DESC, reset_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resets := []passwordreset.PasswordReset{}
	for rows.Next() {
		p, err := scanPasswordReset(rows)
		if err != nil {
			return nil, err
		}
		resets = append(resets, p)
	}
	return resets, rows.Err()
}

// Resolve implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) Resolve(ctx context.Context, id int64, status passwordreset.Status, at time.Time) (passwordreset.PasswordReset, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE password_resets
		SET status = $2, completed_at = $3
		WHERE reset_id = $1 AND status = $4
		RETURNING ` + passwordResetColumns

	p, err := scanPasswordReset(q.QueryRow(ctx, query, id, status, at, passwordreset.StatusPending))
	if !errors.Is(err, passwordreset.ErrPasswordResetNotFound) {
		return p, err
	}
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return passwordreset.PasswordReset{}, getErr
	}
	return passwordreset.PasswordReset{}, passwordreset.ErrAlreadyResolved
}

// Delete implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM password_resets WHERE reset_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return passwordreset.ErrPasswordResetNotFound
	}
	return nil
}

// ExpireRequestedBefore implements passwordreset.PasswordResetRepository.
func (r *passwordResetRepositoryImpl) ExpireRequestedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE password_resets
		SET status = $1, completed_at = now()
		WHERE status = $2 AND requested_at < $3
	`, passwordreset.StatusExpired, passwordreset.StatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire password resets: %w", err)
	}
	return tag.RowsAffected(), nil
}
