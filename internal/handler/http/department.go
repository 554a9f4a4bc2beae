package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type DepartmentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Count(w http.ResponseWriter, r *http.Request)
	// ListDesignations lists the designations of one department
	ListDesignations(w http.ResponseWriter, r *http.Request)
}

type departmentHandlerImpl struct {
	departmentService  department.DepartmentService
	designationService designation.DesignationService
}

func NewDepartmentHandler(departmentService department.DepartmentService, designationService designation.DesignationService) DepartmentHandler {
	return &departmentHandlerImpl{
		departmentService:  departmentService,
		designationService: designationService,
	}
}

// Create handles POST /departments
func (h *departmentHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req department.CreateDepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.departmentService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Department created successfully", result)
}

// Get handles GET /departments/{id}
func (h *departmentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.departmentService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /departments
func (h *departmentHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.departmentService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update handles PUT /departments/{id}
func (h *departmentHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req department.UpdateDepartmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.departmentService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department updated successfully", result)
}

// Delete handles DELETE /departments/{id}
func (h *departmentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.departmentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Department deleted successfully", nil)
}

// Count handles GET /departments/count
func (h *departmentHandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.departmentService.Count(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}

// ListDesignations handles GET /departments/{id}/designations
func (h *departmentHandlerImpl) ListDesignations(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if _, err := h.departmentService.Get(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.designationService.List(r.Context(), designation.DesignationFilter{DepartmentID: id})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
