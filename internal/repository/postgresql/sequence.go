package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
)

type idColumn struct {
	table  string
	column string
}

// idColumns is the closed set of tables and id columns the allocator seeds
// from. Identifiers are never taken from caller input.
var idColumns = map[identity.Entity]idColumn{
	identity.Employee:      {"employees", "employee_id"},
	identity.Department:    {"departments", "department_id"},
	identity.Designation:   {"designations", "designation_id"},
	identity.Attendance:    {"attendance", "attendance_id"},
	identity.Leave:         {"leaves", "leave_id"},
	identity.Task:          {"tasks", "task_id"},
	identity.Document:      {"documents", "document_id"},
	identity.Notification:  {"notifications", "notification_id"},
	identity.Admin:         {"admins", "admin_id"},
	identity.Credential:    {"employee_credentials", "credential_id"},
	identity.PasswordReset: {"password_resets", "reset_id"},
}

type sequenceRepositoryImpl struct {
	db *database.DB
}

func NewSequenceRepository(db *database.DB) identity.Allocator {
	return &sequenceRepositoryImpl{db: db}
}

// NextID implements identity.Allocator. The first call for an entity seeds the
// counter from the highest id already stored; every later call is a single
// atomic increment on the counter row.
func (r *sequenceRepositoryImpl) NextID(ctx context.Context, entity identity.Entity) (int64, error) {
	col, ok := idColumns[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", identity.ErrUnknownEntity, entity)
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO sequences (name, value)
		VALUES ($1, (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s))
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value
	`, col.column, col.table)

	var id int64
	if err := q.QueryRow(ctx, query, string(entity)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", entity, err)
	}
	return id, nil
}

// PeekNextID implements identity.Allocator.
func (r *sequenceRepositoryImpl) PeekNextID(ctx context.Context, entity identity.Entity) (int64, error) {
	col, ok := idColumns[entity]
	if !ok {
		return 0, fmt.Errorf("%w: %q", identity.ErrUnknownEntity, entity)
	}
	q := GetQuerier(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT COALESCE(
			(SELECT value FROM sequences WHERE name = $1),
			(SELECT COALESCE(MAX(%s), 0) FROM %s)
		) + 1
	`, col.column, col.table)

	var id int64
	if err := q.QueryRow(ctx, query, string(entity)).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to preview %s id: %w", entity, err)
	}
	return id, nil
}
