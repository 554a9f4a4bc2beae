package postgresql

import (
	"context"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
)

type guardedField struct {
	table    string
	column   string
	idColumn string
	fold     bool
}

var guardedFields = map[constraintKey]guardedField{
	{identity.Employee, "email"}:             {"employees", "email", "employee_id", true},
	{identity.Employee, "employee_code"}:     {"employees", "employee_code", "employee_id", false},
	{identity.Department, "department_name"}: {"departments", "department_name", "department_id", true},
	{identity.Admin, "email"}:                {"admins", "email", "admin_id", true},
	{identity.Credential, "email"}:           {"employee_credentials", "email", "credential_id", true},
	{identity.Credential, "employee_code"}:   {"employee_credentials", "employee_code", "credential_id", false},
	{identity.Credential, "employee_id"}:     {"employee_credentials", "employee_id", "credential_id", false},
}

type guardRepositoryImpl struct {
	db *database.DB
}

func NewGuardRepository(db *database.DB) identity.Guard {
	return &guardRepositoryImpl{db: db}
}

// AssertUnique implements identity.Guard.
func (r *guardRepositoryImpl) AssertUnique(ctx context.Context, entity identity.Entity, field string, value any, excludeID int64) error {
	g, ok := guardedFields[constraintKey{entity, field}]
	if !ok {
		return fmt.Errorf("%w: %s.%s", identity.ErrUnguardedField, entity, field)
	}
	q := GetQuerier(ctx, r.db)

	match := fmt.Sprintf("%s = $1", g.column)
	if g.fold {
		match = fmt.Sprintf("lower(%s) = lower($1)", g.column)
	}
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s AND %s <> $2)`, g.table, match, g.idColumn)

	var exists bool
	if err := q.QueryRow(ctx, query, value, excludeID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check %s.%s uniqueness: %w", entity, field, err)
	}
	if exists {
		return identity.NewConflict(entity, field, value)
	}
	return nil
}
