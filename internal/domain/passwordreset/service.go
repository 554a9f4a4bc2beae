package passwordreset

import (
	"context"
	"time"
)

type PasswordResetService interface {
	// Create records a request and emails the employee.
	Create(ctx context.Context, req CreatePasswordResetRequest) (PasswordResetResponse, error)
	Get(ctx context.Context, id int64) (PasswordResetResponse, error)
	List(ctx context.Context, filter PasswordResetFilter) ([]PasswordResetResponse, error)
	Resolve(ctx context.Context, req ResolvePasswordResetRequest) (PasswordResetResponse, error)
	Delete(ctx context.Context, id int64) error
	// ExpireStale marks Pending requests older than ttl Expired.
	ExpireStale(ctx context.Context, ttl time.Duration) (int64, error)
}
