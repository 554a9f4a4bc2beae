package auth

import "time"

type Admin struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential is an employee's login, kept apart from the employee profile.
type Credential struct {
	ID           int64
	EmployeeID   int64
	Email        string
	EmployeeCode string
	PasswordHash string
	Status       CredentialStatus
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CredentialStatus string

const (
	CredentialActive    CredentialStatus = "active"
	CredentialInactive  CredentialStatus = "inactive"
	CredentialSuspended CredentialStatus = "suspended"
)

var CredentialStatuses = []string{string(CredentialActive), string(CredentialInactive), string(CredentialSuspended)}
