package http

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
)

type EmployeeHandler interface {
	GetEmployee(w http.ResponseWriter, r *http.Request)
	CreateEmployee(w http.ResponseWriter, r *http.Request)
	UpdateEmployee(w http.ResponseWriter, r *http.Request)
	DeleteEmployee(w http.ResponseWriter, r *http.Request)
	ListEmployees(w http.ResponseWriter, r *http.Request)
	CountEmployees(w http.ResponseWriter, r *http.Request)
	GenerateCode(w http.ResponseWriter, r *http.Request)
	CheckEmail(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{employeeService: employeeService}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeEmployeeForm reads a multipart body: the JSON profile in the 'data'
// field and an optional 'photo' file. The returned file must be closed.
func decodeEmployeeForm(w http.ResponseWriter, r *http.Request, dst interface{}) (multipart.File, bool) {
	if err := r.ParseMultipartForm(file.MaxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return nil, false
	}

	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return nil, false
	}
	if err := json.Unmarshal([]byte(dataJSON), dst); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return nil, false
	}

	photo, _, err := r.FormFile("photo")
	if err != nil {
		return nil, true
	}
	return photo, true
}

// CreateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest

	if isMultipart(r) {
		photo, ok := decodeEmployeeForm(w, r, &req)
		if !ok {
			return
		}
		if photo != nil {
			defer photo.Close()
			req.PhotoFile = photo
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", result)
}

// GetEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if isMultipart(r) {
		photo, ok := decodeEmployeeForm(w, r, &req)
		if !ok {
			return
		}
		if photo != nil {
			defer photo.Close()
			req.PhotoFile = photo
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated successfully", result)
}

// DeleteEmployee implements EmployeeHandler
func (h *employeeHandlerImpl) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted successfully", nil)
}

// ListEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := employee.EmployeeFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: q.Get("status"),
	}

	var ok bool
	if filter.DepartmentID, ok = queryID(w, r, "department_id"); !ok {
		return
	}
	if filter.DesignationID, ok = queryID(w, r, "designation_id"); !ok {
		return
	}
	if filter.Page, ok = queryInt(w, r, "page"); !ok {
		return
	}
	if filter.Limit, ok = queryInt(w, r, "limit"); !ok {
		return
	}

	result, err := h.employeeService.ListEmployees(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Employees, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
	})
}

// CountEmployees implements EmployeeHandler
func (h *employeeHandlerImpl) CountEmployees(w http.ResponseWriter, r *http.Request) {
	n, err := h.employeeService.CountEmployees(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}

// GenerateCode implements EmployeeHandler
func (h *employeeHandlerImpl) GenerateCode(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.GenerateCode(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckEmail implements EmployeeHandler
func (h *employeeHandlerImpl) CheckEmail(w http.ResponseWriter, r *http.Request) {
	result, err := h.employeeService.CheckEmail(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
