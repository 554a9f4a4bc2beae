package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const employeeColumns = `
	employee_id, employee_code, first_name, last_name, email, phone, hire_date, date_of_birth,
	salary, department_id, designation_id, employment_type, status, address, photo_url, photo_path,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relation, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.Code, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.HireDate, &emp.DateOfBirth, &emp.Salary, &emp.DepartmentID, &emp.DesignationID,
		&emp.EmploymentType, &emp.Status, &emp.Address, &emp.PhotoURL, &emp.PhotoPath,
		&emp.EmergencyContactName, &emp.EmergencyContactPhone, &emp.EmergencyContactRelation,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, err
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			employee_id, employee_code, first_name, last_name, email, phone, hire_date, date_of_birth,
			salary, department_id, designation_id, employment_type, status, address, photo_url, photo_path,
			emergency_contact_name, emergency_contact_phone, emergency_contact_relation
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16,
			$17, $18, $19
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.Code, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.HireDate, emp.DateOfBirth,
		emp.Salary, emp.DepartmentID, emp.DesignationID, emp.EmploymentType, emp.Status, emp.Address,
		emp.PhotoURL, emp.PhotoPath,
		emp.EmergencyContactName, emp.EmergencyContactPhone, emp.EmergencyContactRelation,
	))
	if err != nil {
		return employee.Employee{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (employee.Employee, error) {
		q := GetQuerier(ctx, r.db)
		return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE employee_id = $1`, id))
	})
}

// GetByEmail implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByEmail(ctx context.Context, email string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)
	return scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE lower(email) = lower($1)`, email))
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	argIdx := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR employee_code ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx))
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.DepartmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", argIdx))
		args = append(args, filter.DepartmentID)
		argIdx++
	}
	if filter.DesignationID > 0 {
		conditions = append(conditions, fmt.Sprintf("designation_id = $%d", argIdx))
		args = append(args, filter.DesignationID)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM employees%s ORDER BY employee_id LIMIT $%d OFFSET $%d`,
		employeeColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, emp employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees SET
			first_name = $2, last_name = $3, email = $4, phone = $5, hire_date = $6, date_of_birth = $7,
			salary = $8, department_id = $9, designation_id = $10, employment_type = $11, status = $12,
			address = $13, photo_url = $14, photo_path = $15,
			emergency_contact_name = $16, emergency_contact_phone = $17, emergency_contact_relation = $18,
			updated_at = now()
		WHERE employee_id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Phone, emp.HireDate, emp.DateOfBirth,
		emp.Salary, emp.DepartmentID, emp.DesignationID, emp.EmploymentType, emp.Status,
		emp.Address, emp.PhotoURL, emp.PhotoPath,
		emp.EmergencyContactName, emp.EmergencyContactPhone, emp.EmergencyContactRelation,
	))
	if err != nil {
		return employee.Employee{}, translateUnique(err)
	}
	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE employee_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

// Count implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM employees`)
}

// ListActiveIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListActiveIDs(ctx context.Context) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM employees WHERE status = $1 ORDER BY employee_id`, employee.StatusActive)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// GetBriefsByIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetBriefsByIDs(ctx context.Context, ids []int64) (map[int64]employee.Brief, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, employee_code, first_name, last_name, email, department_id, designation_id, status
		FROM employees
		WHERE employee_id = ANY($1)
	`
	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	defer rows.Close()

	briefs := make(map[int64]employee.Brief, len(ids))
	for rows.Next() {
		var b employee.Brief
		var first, last string
		if err := rows.Scan(&b.ID, &b.Code, &first, &last, &b.Email, &b.DepartmentID, &b.DesignationID, &b.Status); err != nil {
			return nil, err
		}
		b.Name = employee.FullName(first, last)
		briefs[b.ID] = b
	}
	return briefs, rows.Err()
}

// CountByDepartmentIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByDepartmentIDs(ctx context.Context, departmentIDs []int64) (map[int64]int64, error) {
	return countBy(ctx, r.db, `
		SELECT department_id, COUNT(*) FROM employees
		WHERE department_id = ANY($1)
		GROUP BY department_id
	`, departmentIDs)
}

// CountByDesignationIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) CountByDesignationIDs(ctx context.Context, designationIDs []int64) (map[int64]int64, error) {
	return countBy(ctx, r.db, `
		SELECT designation_id, COUNT(*) FROM employees
		WHERE designation_id = ANY($1)
		GROUP BY designation_id
	`, designationIDs)
}
