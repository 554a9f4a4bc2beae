package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// subjectID is the employee a self-service route acts on: the employee_id
// query parameter when given, otherwise the caller.
func subjectID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := queryID(w, r, "employee_id")
	if !ok {
		return 0, false
	}
	if id == 0 {
		if p, found := access.FromContext(r.Context()); found {
			id = p.EmployeeID
		}
	}
	if id == 0 {
		response.BadRequest(w, "employee_id is required", map[string]string{"employee_id": "employee_id is required"})
		return 0, false
	}
	return id, true
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Checked in successfully", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Checked out successfully", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := subjectID(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	req := attendance.ListAllAttendanceRequest{Date: r.URL.Query().Get("date")}

	result, err := h.attendanceService.ListAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	req := attendance.ListEmployeeAttendanceRequest{EmployeeID: employeeID}
	if req.Month, ok = queryInt(w, r, "month"); !ok {
		return
	}
	if req.Year, ok = queryInt(w, r, "year"); !ok {
		return
	}

	result, err := h.attendanceService.ListByEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req attendance.UpdateAttendanceStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.attendanceService.UpdateStatus(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance updated successfully", result)
}

// Delete implements AttendanceHandler. Attendance history is permanent, so
// the service refuses every caller.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.attendanceService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted successfully", nil)
}
