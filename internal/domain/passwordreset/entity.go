package passwordreset

import "time"

type PasswordReset struct {
	ID          int64
	EmployeeID  int64
	Email       string
	Status      Status
	RequestedAt time.Time
	CompletedAt *time.Time
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusExpired   Status = "Expired"
)

var Statuses = []string{string(StatusPending), string(StatusCompleted), string(StatusExpired)}
