package leave

import (
	"strings"
	"time"
)

type Leave struct {
	ID              int64
	EmployeeID      int64
	LeaveType       Type
	StartDate       time.Time
	EndDate         time.Time
	Days            int
	Reason          *string
	Status          Status
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Type string

const (
	TypePaid      Type = "Paid Leave"
	TypeSick      Type = "Sick Leave"
	TypeCasual    Type = "Casual Leave"
	TypeEmergency Type = "Emergency Leave"
)

var Types = []string{string(TypePaid), string(TypeSick), string(TypeCasual), string(TypeEmergency)}

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var Statuses = []string{string(StatusPending), string(StatusApproved), string(StatusRejected)}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// RejectionReasonFor returns the rejection reason to store for status: the
// trimmed reason when Rejected, nil otherwise. A rejection without a reason is
// an error.
func RejectionReasonFor(status Status, reason *string) (*string, error) {
	if status != StatusRejected {
		return nil, nil
	}
	if reason == nil {
		return nil, ErrRejectionReasonRequired
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil, ErrRejectionReasonRequired
	}
	return &trimmed, nil
}
