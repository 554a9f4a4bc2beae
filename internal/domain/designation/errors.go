package designation

import "errors"

var (
	ErrDesignationNotFound = errors.New("designation not found")
	ErrDesignationInUse    = errors.New("designation is still referenced and cannot be deleted")
	ErrTitleExists         = errors.New("designation with this title already exists in the department")
	// ErrDepartmentMismatch means the designation belongs to another department.
	ErrDepartmentMismatch = errors.New("designation does not belong to the department")
)
