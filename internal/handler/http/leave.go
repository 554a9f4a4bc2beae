package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/leave"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	Apply(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Count(w http.ResponseWriter, r *http.Request)
	CountPending(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{leaveService: leaveService}
}

// Apply handles POST /leaves
func (h *leaveHandlerImpl) Apply(w http.ResponseWriter, r *http.Request) {
	var req leave.ApplyLeaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.leaveService.Apply(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", result)
}

// Get handles GET /leaves/{id}
func (h *leaveHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.leaveService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll handles GET /leaves?status=&employee_id=
func (h *leaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveFilter{Status: r.URL.Query().Get("status")}
	var ok bool
	if filter.EmployeeID, ok = queryID(w, r, "employee_id"); !ok {
		return
	}

	result, err := h.leaveService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee handles GET /employees/{id}/leaves?status=
func (h *leaveHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.leaveService.ListByEmployee(r.Context(), leave.LeaveFilter{
		EmployeeID: employeeID,
		Status:     r.URL.Query().Get("status"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus handles PATCH /leaves/{id}/status
func (h *leaveHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req leave.UpdateLeaveStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.leaveService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+string(result.Status), result)
}

// Delete handles DELETE /leaves/{id}
func (h *leaveHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.leaveService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// Count handles GET /leaves/count
func (h *leaveHandlerImpl) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.leaveService.Count(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}

// CountPending handles GET /leaves/pending/count
func (h *leaveHandlerImpl) CountPending(w http.ResponseWriter, r *http.Request) {
	n, err := h.leaveService.CountPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}
