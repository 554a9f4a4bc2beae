package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/passwordreset"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type PasswordResetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Resolve(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type passwordResetHandlerImpl struct {
	passwordResetService passwordreset.PasswordResetService
}

func NewPasswordResetHandler(passwordResetService passwordreset.PasswordResetService) PasswordResetHandler {
	return &passwordResetHandlerImpl{passwordResetService: passwordResetService}
}

// Create handles POST /password-resets
func (h *passwordResetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req passwordreset.CreatePasswordResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.passwordResetService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Password reset request created successfully", result)
}

// Get handles GET /password-resets/{id}
func (h *passwordResetHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.passwordResetService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /password-resets?status=&employee_id=
func (h *passwordResetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := passwordreset.PasswordResetFilter{Status: r.URL.Query().Get("status")}
	var ok bool
	if filter.EmployeeID, ok = queryID(w, r, "employee_id"); !ok {
		return
	}
	if p, found := access.FromContext(r.Context()); found && p.Role == access.RoleEmployee && filter.EmployeeID == 0 {
		filter.EmployeeID = p.EmployeeID
	}

	result, err := h.passwordResetService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Resolve handles PATCH /password-resets/{id}
func (h *passwordResetHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req passwordreset.ResolvePasswordResetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.passwordResetService.Resolve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password reset request updated successfully", result)
}

// Delete handles DELETE /password-resets/{id}
func (h *passwordResetHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.passwordResetService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password reset request deleted successfully", nil)
}
