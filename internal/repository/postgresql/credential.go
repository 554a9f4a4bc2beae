package postgresql

import (
	"context"
	"errors"

	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const credentialColumns = `
	credential_id, employee_id, email, employee_code, password_hash, status,
	last_login_at, created_at, updated_at`

type credentialRepositoryImpl struct {
	db *database.DB
}

func NewCredentialRepository(db *database.DB) auth.CredentialRepository {
	return &credentialRepositoryImpl{db: db}
}

func scanCredential(row pgx.Row) (auth.Credential, error) {
	var c auth.Credential
	err := row.Scan(
		&c.ID, &c.EmployeeID, &c.Email, &c.EmployeeCode, &c.PasswordHash, &c.Status,
		&c.LastLoginAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Credential{}, auth.ErrCredentialNotFound
	}
	return c, err
}

// Create implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Create(ctx context.Context, c auth.Credential) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_credentials (credential_id, employee_id, email, employee_code, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + credentialColumns

	created, err := scanCredential(q.QueryRow(ctx, query, c.ID, c.EmployeeID, c.Email, c.EmployeeCode, c.PasswordHash, c.Status))
	if err != nil {
		return auth.Credential{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByID(ctx context.Context, id int64) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)
	return scanCredential(q.QueryRow(ctx, `SELECT `+credentialColumns+` FROM employee_credentials WHERE credential_id = $1`, id))
}

// GetByEmail implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)
	return scanCredential(q.QueryRow(ctx, `SELECT `+credentialColumns+` FROM employee_credentials WHERE lower(email) = lower($1)`, email))
}

// GetByEmployeeID implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID int64) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)
	return scanCredential(q.QueryRow(ctx, `SELECT `+credentialColumns+` FROM employee_credentials WHERE employee_id = $1`, employeeID))
}

// List implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) List(ctx context.Context) ([]auth.Credential, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+credentialColumns+` FROM employee_credentials ORDER BY employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	credentials := []auth.Credential{}
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, c)
	}
	return credentials, rows.Err()
}

// UpdatePassword implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) UpdatePassword(ctx context.Context, employeeID int64, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE employee_credentials SET password_hash = $2, updated_at = now()
		WHERE employee_id = $1
	`, employeeID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrCredentialNotFound
	}
	return nil
}

// UpdateStatus implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status auth.CredentialStatus) (auth.Credential, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employee_credentials SET status = $2, updated_at = now()
		WHERE credential_id = $1
		RETURNING ` + credentialColumns

	return scanCredential(q.QueryRow(ctx, query, id, status))
}

// TouchLogin implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) TouchLogin(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `UPDATE employee_credentials SET last_login_at = now() WHERE credential_id = $1`, id)
	return err
}

// Delete implements auth.CredentialRepository.
func (r *credentialRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_credentials WHERE credential_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrCredentialNotFound
	}
	return nil
}

// DeleteByEmployeeID implements auth.CredentialRepository. A missing login is
// not an error.
func (r *credentialRepositoryImpl) DeleteByEmployeeID(ctx context.Context, employeeID int64) error {
	q := GetQuerier(ctx, r.db)
	_, err := q.Exec(ctx, `DELETE FROM employee_credentials WHERE employee_id = $1`, employeeID)
	return err
}
