package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyCheckedIn  = errors.New("already checked in for this date")
	ErrNotCheckedIn      = errors.New("cannot check out without checking in first")
	ErrAlreadyCheckedOut = errors.New("already checked out for this date")
	ErrCheckOutTooEarly  = errors.New("check-out must be after check-in")

	ErrAttendanceNotFound = errors.New("attendance record not found")
)
