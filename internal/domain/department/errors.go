package department

import "errors"

var (
	ErrDepartmentNotFound = errors.New("department not found")
	// ErrDepartmentInUse is returned when designations or employees still
	// reference the department.
	ErrDepartmentInUse = errors.New("department is still referenced and cannot be deleted")
)
