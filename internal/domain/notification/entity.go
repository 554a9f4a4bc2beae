package notification

import "time"

// Notification is an announcement addressed to everyone ("All") or to the
// employees of one department.
type Notification struct {
	ID             int64
	Title          string
	Message        string
	TargetAudience string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
