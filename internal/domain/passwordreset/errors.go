package passwordreset

import "errors"

var (
	ErrPasswordResetNotFound = errors.New("password reset request not found")
	ErrAlreadyResolved       = errors.New("password reset request is no longer pending")
	ErrEmailMismatch         = errors.New("email does not match the employee record")
)
