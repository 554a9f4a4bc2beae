package passwordreset

import (
	"context"
	"time"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, r PasswordReset) (PasswordReset, error)
	GetByID(ctx context.Context, id int64) (PasswordReset, error)
	List(ctx context.Context, filter PasswordResetFilter) ([]PasswordReset, error)
	// Resolve moves a Pending request to status.
	Resolve(ctx context.Context, id int64, status Status, at time.Time) (PasswordReset, error)
	Delete(ctx context.Context, id int64) error
	// ExpireRequestedBefore marks Pending requests older than cutoff Expired.
	ExpireRequestedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
