package auth

import "context"

type AdminRepository interface {
	Create(ctx context.Context, a Admin) (Admin, error)
	GetByID(ctx context.Context, id int64) (Admin, error)
	GetByEmail(ctx context.Context, email string) (Admin, error)
	List(ctx context.Context) ([]Admin, error)
	Update(ctx context.Context, a Admin) (Admin, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type CredentialRepository interface {
	Create(ctx context.Context, c Credential) (Credential, error)
	GetByID(ctx context.Context, id int64) (Credential, error)
	GetByEmail(ctx context.Context, email string) (Credential, error)
	GetByEmployeeID(ctx context.Context, employeeID int64) (Credential, error)
	List(ctx context.Context) ([]Credential, error)
	UpdatePassword(ctx context.Context, employeeID int64, passwordHash string) error
	UpdateStatus(ctx context.Context, id int64, status CredentialStatus) (Credential, error)
	TouchLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByEmployeeID(ctx context.Context, employeeID int64) error
}
