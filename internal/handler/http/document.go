package http

import (
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/document"
	"github.com/ems-hr/ems-backend-go/internal/handler/http/response"
)

type DocumentHandler interface {
	Upload(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	ListAll(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type documentHandlerImpl struct {
	documentService document.DocumentService
}

func NewDocumentHandler(documentService document.DocumentService) DocumentHandler {
	return &documentHandlerImpl{documentService: documentService}
}

// Upload handles POST /documents. file_url is a base64 data URL or an
// existing http(s) URL.
func (h *documentHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	var req document.UploadDocumentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.documentService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Document uploaded successfully", result)
}

// Get handles GET /documents/{id}
func (h *documentHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.documentService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll handles GET /documents?category=&employee_id=
func (h *documentHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	filter := document.DocumentFilter{Category: r.URL.Query().Get("category")}
	var ok bool
	if filter.EmployeeID, ok = queryID(w, r, "employee_id"); !ok {
		return
	}

	result, err := h.documentService.ListAll(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee handles GET /employees/{id}/documents
func (h *documentHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.documentService.ListByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Delete handles DELETE /documents/{id}
func (h *documentHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.documentService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Document deleted successfully", nil)
}
