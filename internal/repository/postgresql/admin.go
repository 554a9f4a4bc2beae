package postgresql

import (
	"context"
	"errors"

	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const adminColumns = `admin_id, user_name, email, password_hash, created_at, updated_at`

type adminRepositoryImpl struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) auth.AdminRepository {
	return &adminRepositoryImpl{db: db}
}

func scanAdmin(row pgx.Row) (auth.Admin, error) {
	var a auth.Admin
	err := row.Scan(&a.ID, &a.UserName, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return auth.Admin{}, auth.ErrAdminNotFound
	}
	return a, err
}

// Create implements auth.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, a auth.Admin) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO admins (admin_id, user_name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + adminColumns

	created, err := scanAdmin(q.QueryRow(ctx, query, a.ID, a.UserName, a.Email, a.PasswordHash))
	if err != nil {
		return auth.Admin{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements auth.AdminRepository.
func (r *adminRepositoryImpl) GetByID(ctx context.Context, id int64) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)
	return scanAdmin(q.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE admin_id = $1`, id))
}

// GetByEmail implements auth.AdminRepository.
func (r *adminRepositoryImpl) GetByEmail(ctx context.Context, email string) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)
	return scanAdmin(q.QueryRow(ctx, `SELECT `+adminColumns+` FROM admins WHERE lower(email) = lower($1)`, email))
}

// List implements auth.AdminRepository.
func (r *adminRepositoryImpl) List(ctx context.Context) ([]auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+adminColumns+` FROM admins ORDER BY admin_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := []auth.Admin{}
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Update implements auth.AdminRepository.
func (r *adminRepositoryImpl) Update(ctx context.Context, a auth.Admin) (auth.Admin, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE admins
		SET user_name = $2, email = $3, password_hash = $4, updated_at = now()
		WHERE admin_id = $1
		RETURNING ` + adminColumns

	updated, err := scanAdmin(q.QueryRow(ctx, query, a.ID, a.UserName, a.Email, a.PasswordHash))
	if err != nil {
		return auth.Admin{}, translateUnique(err)
	}
	return updated, nil
}

// Delete implements auth.AdminRepository.
func (r *adminRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM admins WHERE admin_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return auth.ErrAdminNotFound
	}
	return nil
}

// Count implements auth.AdminRepository.
func (r *adminRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM admins`)
}
