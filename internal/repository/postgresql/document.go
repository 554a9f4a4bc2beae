package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/document"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const documentColumns = `
	document_id, employee_id, COALESCE(department, ''), COALESCE(designation, ''), category,
	file_name, file_url, storage_path, uploaded_by, uploaded_at`

type documentRepositoryImpl struct {
	db *database.DB
}

func NewDocumentRepository(db *database.DB) document.DocumentRepository {
	return &documentRepositoryImpl{db: db}
}

func scanDocument(row pgx.Row) (document.Document, error) {
	var d document.Document
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.Department, &d.Designation, &d.Category,
		&d.FileName, &d.FileURL, &d.StoragePath, &d.UploadedBy, &d.UploadedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return document.Document{}, document.ErrDocumentNotFound
	}
	return d, err
}

// Create implements document.DocumentRepository.
func (r *documentRepositoryImpl) Create(ctx context.Context, d document.Document) (document.Document, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO documents (
			document_id, employee_id, department, designation, category,
			file_name, file_url, storage_path, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + documentColumns

	created, err := scanDocument(q.QueryRow(ctx, query,
		d.ID, d.EmployeeID, d.Department, d.Designation, d.Category,
		d.FileName, d.FileURL, d.StoragePath, d.UploadedBy,
	))
	if err != nil {
		return document.Document{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements document.DocumentRepository.
func (r *documentRepositoryImpl) GetByID(ctx context.Context, id int64) (document.Document, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (document.Document, error) {
		q := GetQuerier(ctx, r.db)
		return scanDocument(q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE document_id = $1`, id))
	})
}

// List implements document.DocumentRepository.
func (r *documentRepositoryImpl) List(ctx context.Context, filter document.DocumentFilter) ([]document.Document, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
	}

	query := `SELECT ` + documentColumns + ` FROM documents`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY uploaded_at DESC, document_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	documents := []document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, d)
	}
	return documents, rows.Err()
}

// Delete implements document.DocumentRepository.
func (r *documentRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM documents WHERE document_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return document.ErrDocumentNotFound
	}
	return nil
}
