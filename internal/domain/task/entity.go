package task

import "time"

type Task struct {
	ID          int64
	EmployeeID  int64
	Title       string
	Description *string
	DueDate     time.Time
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
	StatusOverdue    Status = "Overdue"
)

var Statuses = []string{string(StatusPending), string(StatusInProgress), string(StatusCompleted), string(StatusOverdue)}

// SettableStatuses are the statuses a caller may assign; Overdue is derived.
var SettableStatuses = []string{string(StatusPending), string(StatusInProgress), string(StatusCompleted)}

// EffectiveStatus reports Overdue for an unfinished task whose due date is
// before today's date in UTC.
func (t Task) EffectiveStatus(now time.Time) Status {
	if t.Status == StatusCompleted {
		return t.Status
	}
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if t.DueDate.Before(today) {
		return StatusOverdue
	}
	return t.Status
}
