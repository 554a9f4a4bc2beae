package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const designationColumns = `designation_id, designation_title, department_id, created_at, updated_at`

type designationRepositoryImpl struct {
	db *database.DB
}

func NewDesignationRepository(db *database.DB) designation.DesignationRepository {
	return &designationRepositoryImpl{db: db}
}

func scanDesignation(row pgx.Row) (designation.Designation, error) {
	var d designation.Designation
	err := row.Scan(&d.ID, &d.Title, &d.DepartmentID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return designation.Designation{}, designation.ErrDesignationNotFound
	}
	return d, err
}

// Create implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Create(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO designations (designation_id, designation_title, department_id)
		VALUES ($1, $2, $3)
		RETURNING ` + designationColumns

	created, err := scanDesignation(q.QueryRow(ctx, query, d.ID, d.Title, d.DepartmentID))
	if err != nil {
		return designation.Designation{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements designation.DesignationRepository.
func (r *designationRepositoryImpl) GetByID(ctx context.Context, id int64) (designation.Designation, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (designation.Designation, error) {
		q := GetQuerier(ctx, r.db)
		return scanDesignation(q.QueryRow(ctx, `SELECT `+designationColumns+` FROM designations WHERE designation_id = $1`, id))
	})
}

// LockForUpdate implements designation.DesignationRepository.
func (r *designationRepositoryImpl) LockForUpdate(ctx context.Context, id int64) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)
	return scanDesignation(q.QueryRow(ctx, `SELECT `+designationColumns+` FROM designations WHERE designation_id = $1 FOR UPDATE`, id))
}

// LockForShare implements designation.DesignationRepository.
func (r *designationRepositoryImpl) LockForShare(ctx context.Context, id int64) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)
	return scanDesignation(q.QueryRow(ctx, `SELECT `+designationColumns+` FROM designations WHERE designation_id = $1 FOR SHARE`, id))
}

// List implements designation.DesignationRepository.
func (r *designationRepositoryImpl) List(ctx context.Context, filter designation.DesignationFilter) ([]designation.Designation, error) {
	return database.RetryRead(ctx, func(ctx context.Context) ([]designation.Designation, error) {
		q := GetQuerier(ctx, r.db)

		query := `SELECT ` + designationColumns + ` FROM designations`
		var args []any
		if filter.DepartmentID > 0 {
			query += ` WHERE department_id = $1`
			args = append(args, filter.DepartmentID)
		}
		query += ` ORDER BY lower(designation_title), designation_id`

		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		designations := []designation.Designation{}
		for rows.Next() {
			d, err := scanDesignation(rows)
			if err != nil {
				return nil, err
			}
			designations = append(designations, d)
		}
		return designations, rows.Err()
	})
}

// GetTitlesByIDs implements designation.DesignationRepository.
func (r *designationRepositoryImpl) GetTitlesByIDs(ctx context.Context, ids []int64) (map[int64]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT designation_id, designation_title FROM designations WHERE designation_id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load designation titles: %w", err)
	}
	defer rows.Close()

	titles := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, err
		}
		titles[id] = title
	}
	return titles, rows.Err()
}

// TitleExists implements designation.DesignationRepository.
func (r *designationRepositoryImpl) TitleExists(ctx context.Context, departmentID int64, title string, excludeID int64) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM designations
			WHERE department_id = $1 AND lower(designation_title) = lower($2) AND designation_id <> $3
		)
	`
	var exists bool
	if err := q.QueryRow(ctx, query, departmentID, title, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountByDepartmentIDs implements designation.DesignationRepository.
func (r *designationRepositoryImpl) CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error) {
	return countBy(ctx, r.db, `
		SELECT department_id, COUNT(*) FROM designations
		WHERE department_id = ANY($1)
		GROUP BY department_id
	`, departmentIDs)
}

// Update implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Update(ctx context.Context, d designation.Designation) (designation.Designation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE designations
		SET designation_title = $2, department_id = $3, updated_at = now()
		WHERE designation_id = $1
		RETURNING ` + designationColumns

	updated, err := scanDesignation(q.QueryRow(ctx, query, d.ID, d.Title, d.DepartmentID))
	if err != nil {
		return designation.Designation{}, translateUnique(err)
	}
	return updated, nil
}

// Delete implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM designations WHERE designation_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return designation.ErrDesignationNotFound
	}
	return nil
}

// Count implements designation.DesignationRepository.
func (r *designationRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM designations`)
}
