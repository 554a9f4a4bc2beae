package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type DesignationHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Count(w http.ResponseWriter, r *http.Request)
}

type designationHandlerImpl struct {
	designationService designation.DesignationService
}

func NewDesignationHandler(designationService designation.DesignationService) DesignationHandler {
	return &designationHandlerImpl{designationService: designationService}
}

// Create handles POST /designations
func (h *designationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req designation.CreateDesignationRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.designationService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Designation created successfully", result)
}

// Get handles GET /designations/{id}
func (h *designationHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.designationService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// List handles GET /designations?department_id=
func (h *designationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	departmentID, ok := queryID(w, r, "department_id")
	if !ok {
		return
	}

	result, err := h.designationService.List(r.Context(), designation.DesignationFilter{DepartmentID: departmentID})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update handles PUT /designations/{id}
func (h *designationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req designation.UpdateDesignationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.designationService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Designation updated successfully", result)
}

// Delete handles DELETE /designations/{id}
func (h *designationHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.designationService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Designation deleted successfully", nil)
}

// Count handles GET /designations/count
func (h *designationHandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.designationService.Count(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}
