package http

import (
	"log/slog"
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type AuthHandler interface {
	AdminLogin(w http.ResponseWriter, r *http.Request)
	EmployeeLogin(w http.ResponseWriter, r *http.Request)
	StreamToken(w http.ResponseWriter, r *http.Request)

	CreateAdmin(w http.ResponseWriter, r *http.Request)
	ListAdmins(w http.ResponseWriter, r *http.Request)
	UpdateAdmin(w http.ResponseWriter, r *http.Request)
	DeleteAdmin(w http.ResponseWriter, r *http.Request)

	RegisterCredential(w http.ResponseWriter, r *http.Request)
	ListCredentials(w http.ResponseWriter, r *http.Request)
	UpdateCredentialStatus(w http.ResponseWriter, r *http.Request)
	DeleteCredential(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// AdminLogin implements AuthHandler.
func (a *AuthHandlerImpl) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.authService.AdminLogin(r.Context(), req)
	if err != nil {
		slog.Warn("admin login failed", "email", req.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}

// EmployeeLogin implements AuthHandler.
func (a *AuthHandlerImpl) EmployeeLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := a.authService.EmployeeLogin(r.Context(), req)
	if err != nil {
		slog.Warn("employee login failed", "email", req.Email, "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Login successful", result)
}

// StreamToken implements AuthHandler.
func (a *AuthHandlerImpl) StreamToken(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.StreamToken(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CreateAdmin implements AuthHandler. With no admins stored yet the first
// one may be created without a token.
func (a *AuthHandlerImpl) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req auth.CreateAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := a.authService.CreateAdmin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Admin created successfully", result)
}

// ListAdmins implements AuthHandler.
func (a *AuthHandlerImpl) ListAdmins(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.ListAdmins(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateAdmin implements AuthHandler.
func (a *AuthHandlerImpl) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req auth.UpdateAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := a.authService.UpdateAdmin(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Admin updated successfully", result)
}

// DeleteAdmin implements AuthHandler.
func (a *AuthHandlerImpl) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.authService.DeleteAdmin(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Admin deleted successfully", nil)
}

// RegisterCredential implements AuthHandler.
func (a *AuthHandlerImpl) RegisterCredential(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterCredentialRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := a.authService.RegisterCredential(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee login registered successfully", result)
}

// ListCredentials implements AuthHandler.
func (a *AuthHandlerImpl) ListCredentials(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.ListCredentials(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateCredentialStatus implements AuthHandler.
func (a *AuthHandlerImpl) UpdateCredentialStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req auth.UpdateCredentialStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := a.authService.UpdateCredentialStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee login updated successfully", result)
}

// DeleteCredential implements AuthHandler.
func (a *AuthHandlerImpl) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := a.authService.DeleteCredential(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee login deleted successfully", nil)
}
