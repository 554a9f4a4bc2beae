package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/task"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type TaskHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	CountPending(w http.ResponseWriter, r *http.Request)
}

type taskHandlerImpl struct {
	taskService task.TaskService
}

func NewTaskHandler(taskService task.TaskService) TaskHandler {
	return &taskHandlerImpl{taskService: taskService}
}

// Create handles POST /tasks
func (h *taskHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req task.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.taskService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Task created successfully", result)
}

// Get handles GET /tasks/{id}
func (h *taskHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.taskService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll handles GET /tasks?status=&employee_id=
func (h *taskHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := task.TaskFilter{Status: r.URL.Query().Get("status")}
	var ok bool
	if filter.EmployeeID, ok = queryID(w, r, "employee_id"); !ok {
		return
	}

	result, err := h.taskService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee handles GET /employees/{id}/tasks
func (h *taskHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.taskService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update handles PUT /tasks/{id}; employees may send only a status.
func (h *taskHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req task.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := h.taskService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task updated successfully", result)
}

// Delete handles DELETE /tasks/{id}
func (h *taskHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Task deleted successfully", nil)
}

// CountPending handles GET /tasks/pending/count
func (h *taskHandlerImpl) CountPending(w http.ResponseWriter, r *http.Request) {
	n, err := h.taskService.CountPending(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]int64{"count": n})
}
