package attendance

import (
	"math"
	"time"
)

type Attendance struct {
	ID         int64
	EmployeeID int64
	// Date is midnight UTC of the calendar day the record covers.
	Date      time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WorkedHours is the check-in to check-out span, or 0 while the day is open.
func (a Attendance) WorkedHours() float64 {
	if a.CheckIn == nil || a.CheckOut == nil || !a.CheckOut.After(*a.CheckIn) {
		return 0
	}
	return a.CheckOut.Sub(*a.CheckIn).Hours()
}

type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLeave   Status = "Leave"
)

var Statuses = []string{string(StatusPresent), string(StatusAbsent), string(StatusLeave)}

// RoundHours rounds to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
