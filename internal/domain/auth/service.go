package auth

import "context"

type AuthService interface {
	AdminLogin(ctx context.Context, req LoginRequest) (LoginResponse, error)
	EmployeeLogin(ctx context.Context, req LoginRequest) (LoginResponse, error)
	// StreamToken issues a short-lived token for the notification stream.
	StreamToken(ctx context.Context) (StreamTokenResponse, error)

	// CreateAdmin needs an admin caller, except for the very first admin.
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (AdminResponse, error)
	ListAdmins(ctx context.Context) ([]AdminResponse, error)
	UpdateAdmin(ctx context.Context, req UpdateAdminRequest) (AdminResponse, error)
	DeleteAdmin(ctx context.Context, id int64) error

	RegisterCredential(ctx context.Context, req RegisterCredentialRequest) (CredentialResponse, error)
	ListCredentials(ctx context.Context) ([]CredentialResponse, error)
	UpdateCredentialStatus(ctx context.Context, req UpdateCredentialStatusRequest) (CredentialResponse, error)
	DeleteCredential(ctx context.Context, id int64) error
}
