package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const departmentColumns = `department_id, department_name, location, created_at, updated_at`

type departmentRepositoryImpl struct {
	db *database.DB
}

func NewDepartmentRepository(db *database.DB) department.DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

func scanDepartment(row pgx.Row) (department.Department, error) {
	var d department.Department
	err := row.Scan(&d.ID, &d.Name, &d.Location, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	return d, err
}

// Create implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Create(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO departments (department_id, department_name, location)
		VALUES ($1, $2, $3)
		RETURNING ` + departmentColumns

	created, err := scanDepartment(q.QueryRow(ctx, query, d.ID, d.Name, d.Location))
	if err != nil {
		return department.Department{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetByID(ctx context.Context, id int64) (department.Department, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (department.Department, error) {
		q := GetQuerier(ctx, r.db)
		return scanDepartment(q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE department_id = $1`, id))
	})
}

// LockForUpdate implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) LockForUpdate(ctx context.Context, id int64) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE department_id = $1 FOR UPDATE`, id))
}

// LockForShare implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) LockForShare(ctx context.Context, id int64) (department.Department, error) {
	q := GetQuerier(ctx, r.db)
	return scanDepartment(q.QueryRow(ctx, `SELECT `+departmentColumns+` FROM departments WHERE department_id = $1 FOR SHARE`, id))
}

// List implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) List(ctx context.Context) ([]department.Department, error) {
	return database.RetryRead(ctx, func(ctx context.Context) ([]department.Department, error) {
		q := GetQuerier(ctx, r.db)

		rows, err := q.Query(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY lower(department_name), department_id`)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		departments := []department.Department{}
		for rows.Next() {
			d, err := scanDepartment(rows)
			if err != nil {
				return nil, err
			}
			departments = append(departments, d)
		}
		return departments, rows.Err()
	})
}

// ListNames implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) ListNames(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT department_name FROM departments ORDER BY department_name`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// GetNamesByIDs implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT department_id, department_name FROM departments WHERE department_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load department names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

// Update implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Update(ctx context.Context, d department.Department) (department.Department, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE departments
		SET department_name = $2, location = $3, updated_at = now()
		WHERE department_id = $1
		RETURNING ` + departmentColumns

	updated, err := scanDepartment(q.QueryRow(ctx, query, d.ID, d.Name, d.Location))
	if err != nil {
		return department.Department{}, translateUnique(err)
	}
	return updated, nil
}

// Delete implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// Count implements department.DepartmentRepository.
func (r *departmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM departments`)
}
