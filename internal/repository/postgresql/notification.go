package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/notification"
	"github.com/ems-hr/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const notificationColumns = `notification_id, title, message, target_audience, created_at, updated_at`

type notificationRepositoryImpl struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func scanNotification(row pgx.Row) (notification.Notification, error) {
	var n notification.Notification
	err := row.Scan(&n.ID, &n.Title, &n.Message, &n.TargetAudience, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return notification.Notification{}, notification.ErrNotificationNotFound
	}
	return n, err
}

// Create implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notifications (notification_id, title, message, target_audience)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + notificationColumns

	created, err := scanNotification(q.QueryRow(ctx, query, n.ID, n.Title, n.Message, n.TargetAudience))
	if err != nil {
		return notification.Notification{}, translateUnique(err)
	}
	return created, nil
}

// GetByID implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) GetByID(ctx context.Context, id int64) (notification.Notification, error) {
	return database.RetryRead(ctx, func(ctx context.Context) (notification.Notification, error) {
		q := GetQuerier(ctx, r.db)
		return scanNotification(q.QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE notification_id = $1`, id))
	})
}

// List implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) List(ctx context.Context, filter notification.NotificationFilter) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + notificationColumns + ` FROM notifications`
	var args []any
	if filter.Audiences != nil {
		lowered := make([]string, len(filter.Audiences))
		for i, a := range filter.Audiences {
			lowered[i] = strings.ToLower(a)
		}
		query += ` WHERE lower(target_audience) = ANY($1)`
		args = append(args, lowered)
	}
	query += ` ORDER BY created_at DESC, notification_id DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := []notification.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// Update implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) Update(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notifications
		SET title = $2, message = $3, target_audience = $4, updated_at = now()
		WHERE notification_id = $1
		RETURNING ` + notificationColumns

	return scanNotification(q.QueryRow(ctx, query, n.ID, n.Title, n.Message, n.TargetAudience))
}

// Delete implements notification.NotificationRepository.
func (r *notificationRepositoryImpl) Delete(ctx context.Context, id int64) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM notifications WHERE notification_id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}
