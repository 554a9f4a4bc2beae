package task

import "errors"

var (
	ErrTaskNotFound = errors.New("task not found")
	// ErrStatusOnly is returned when an employee tries to change anything
	// but the status of their task.
	ErrStatusOnly = errors.New("employees may only update the task status")
)
