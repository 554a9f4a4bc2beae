package postgresql

import (
	"errors"

	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type constraintKey struct {
	entity identity.Entity
	field  string
}

// uniqueConstraints maps store constraint names to the natural key they
// protect, so a lost check-then-insert race surfaces as the same conflict the
// guard would have reported.
var uniqueConstraints = map[string]constraintKey{
	"departments_pkey":                       {identity.Department, "department_id"},
	"departments_name_key":                   {identity.Department, "department_name"},
	"designations_pkey":                      {identity.Designation, "designation_id"},
	"designations_title_key":                 {identity.Designation, "designation_title"},
	"employees_pkey":                         {identity.Employee, "employee_id"},
	"employees_employee_code_key":            {identity.Employee, "employee_code"},
	"employees_email_key":                    {identity.Employee, "email"},
	"attendance_employee_date_key":           {identity.Attendance, "date"},
	"admins_email_key":                       {identity.Admin, "email"},
	"employee_credentials_employee_id_key":   {identity.Credential, "employee_id"},
	"employee_credentials_employee_code_key": {identity.Credential, "employee_code"},
	"employee_credentials_email_key":         {identity.Credential, "email"},
}

// translateUnique converts a unique violation into *identity.ConflictError and
// returns every other error unchanged.
func translateUnique(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	if key, ok := uniqueConstraints[pgErr.ConstraintName]; ok {
		return identity.NewConflict(key.entity, key.field, nil)
	}
	return identity.NewConflict(identity.Entity(pgErr.TableName), pgErr.ConstraintName, nil)
}
