package notification

import (
	"context"

	"github.com/ems-hr/ems-backend-go/internal/pkg/sse"
)

type NotificationService interface {
	// Create validates the audience against current departments and pushes
	// the notification to live subscribers.
	Create(ctx context.Context, req CreateNotificationRequest) (NotificationResponse, error)
	Get(ctx context.Context, id int64) (NotificationResponse, error)
	// List returns what the caller may read: everything for admins, "All"
	// plus their own department for employees.
	List(ctx context.Context) ([]NotificationResponse, error)
	Update(ctx context.Context, req UpdateNotificationRequest) (NotificationResponse, error)
	Delete(ctx context.Context, id int64) error

	// Subscribe streams new notifications addressed to the caller.
	Subscribe(ctx context.Context) (<-chan sse.Event, func(), error)
}
