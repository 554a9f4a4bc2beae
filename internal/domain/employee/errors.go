package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrImmutableField is returned when an update touches a field the
	// caller's role may not change.
	ErrImmutableField = errors.New("field cannot be changed by this role")
)
