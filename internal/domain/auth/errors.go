package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrCredentialNotFound = errors.New("employee login not found")
	ErrCannotDeleteSelf   = errors.New("admins cannot delete their own account")
	// ErrProfileMismatch means the login details do not match the employee record.
	ErrProfileMismatch = errors.New("email and employee code must match the employee record")
)
