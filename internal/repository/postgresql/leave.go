package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/leave"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const leaveColumns = `
	leave_id, employee_id, leave_type, start_date, end_date, no_of_leaves,
	reason, status, rejection_reason, created_at, updated_at`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	err := row.Scan(
		&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Days,
		&l.Reason, &l.Status, &l.RejectionReason, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Leave{}, leave.ErrLeaveNotFound
	}
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leaves (
			leave_id, employee_id, leave_type, start_date, end_date, no_of_leaves,
			reason, status, rejection_reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leaveColumns

	created, err := scanLeave(q.QueryRow(ctx, query,
		l.ID, l.EmployeeID, l.LeaveType, l.StartDate, l.EndDate, l.Days,
		l.Reason, l.Status, l.RejectionReason,
	))
	if err != nil {
		return leave.Leave{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.Leave, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (leave.Leave, error) {
		q := GetQuerier(ctx, r.db)
		return scanLeave(q.QueryRow(ctx, `SELECT `+leaveColumns+` FROM leaves WHERE leave_id = $1`, id))
	})
}

// List implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []any
	if filter.EmployeeID > 0 {
		args = append(args, filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + leaveColumns + ` FROM leaves`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY start_date DESC, leave_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leaves: %w", err)
	}
	defer rows.Close()

	leaves := []leave.Leave{}
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, err
		}
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// Decide implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Decide(ctx context.Context, id int64, status leave.Status, rejectionReason *string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $2, rejection_reason = $3, updated_at = now()
		WHERE leave_id = $1 AND status = $4
		RETURNING ` + leaveColumns

	l, err := scanLeave(q.QueryRow(ctx, query, id, status, rejectionReason, leave.StatusPending))
	if !errors.Is(err, leave.ErrLeaveNotFound) {
		return l, err
	}
	// No row matched: tell a missing leave apart from a processed one.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return leave.Leave{}, getErr
	}
	return leave.Leave{}, leave.ErrLeaveAlreadyProcessed
}

// DeletePending implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) DeletePending(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE leave_id = $1 AND status = $2`, id, leave.StatusPending)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return leave.ErrLeaveAlreadyProcessed
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leaves WHERE leave_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// Count implements leave.LeaveRepository. An empty status counts every leave.
func (r *leaveRepositoryImpl) Count(ctx context.Context, status leave.Status) (int64, error) {
	if status == "" {
		return countRows(ctx, r.db, `SELECT COUNT(*) FROM leaves`)
	}
	return countRows(ctx, r.db, `SELECT COUNT(*) FROM leaves WHERE status = $1`, status)
}

// ApprovedEmployeeIDsOn implements leave.LeaveRepository.
func (r *leaveRepositoryImpl) ApprovedEmployeeIDsOn(ctx context.Context, day time.Time) ([]int64, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT DISTINCT employee_id FROM leaves
		WHERE status = $1 AND start_date <= $2 AND end_date >= $2`,
		leave.StatusApproved, day)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}
