package notification

import "context"

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	GetByID(ctx context.Context, id int64) (Notification, error)
	// List returns notifications newest first. A nil Audiences filter returns
	// every notification; otherwise audiences match case-insensitively.
	List(ctx context.Context, filter NotificationFilter) ([]Notification, error)
	Update(ctx context.Context, n Notification) (Notification, error)
	Delete(ctx context.Context, id int64) error
}
