package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `attendance_id, employee_id, date, check_in, check_out, status, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.CheckIn, &a.CheckOut, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (attendance_id, employee_id, date, check_in, check_out, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query, a.ID, a.EmployeeID, a.Date, a.CheckIn, a.CheckOut, a.Status))
	if err != nil {
		return attendance.Attendance{}, translateUnique(err)
	}
	return created, nil
}

// CreateIfMissing implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CreateIfMissing(ctx context.Context, a attendance.Attendance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (attendance_id, employee_id, date, check_in, check_out, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT ON CONSTRAINT attendance_employee_date_key DO NOTHING
	`
	tag, err := q.Exec(ctx, query, a.ID, a.EmployeeID, a.Date, a.CheckIn, a.CheckOut, a.Status)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id int64) (attendance.Attendance, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (attendance.Attendance, error) {
		q := GetQuerier(ctx, r.db)
		return scanAttendance(q.QueryRow(ctx, `SELECT `+attendanceColumns+` FROM attendance WHERE attendance_id = $1`, id))
	})
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)
	return scanAttendance(q.QueryRow(ctx,
		`SELECT `+attendanceColumns+` FROM attendance WHERE employee_id = $1 AND date = $2`,
		employeeID, date))
}

// SetCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, id int64, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET check_out = $2, updated_at = now()
		WHERE attendance_id = $1 AND check_out IS NULL
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, id, at))
	if errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}
	return a, err
}

// UpdateStatus implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateStatus(ctx context.Context, id int64, status attendance.Status) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance
		SET status = $2, updated_at = now()
		WHERE attendance_id = $1
		RETURNING ` + attendanceColumns

	return scanAttendance(q.QueryRow(ctx, query, id, status))
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("date < $%d", len(args)))
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendance`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY date DESC, attendance_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// EmployeeIDsWithRecord implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) EmployeeIDsWithRecord(ctx context.Context, date time.Time) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_id FROM attendance WHERE date = $1`, date)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
