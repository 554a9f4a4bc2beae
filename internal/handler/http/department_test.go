package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDepartments struct {
	department.DepartmentService
	created   department.CreateDepartmentRequest
	deleteErr error
}

func (s *stubDepartments) Create(_ context.Context, req department.CreateDepartmentRequest) (department.DepartmentResponse, error) {
	if err := req.Validate(); err != nil {
		return department.DepartmentResponse{}, err
	}
	s.created = req
	return department.DepartmentResponse{ID: 1, Name: req.Name}, nil
}

func (s *stubDepartments) Get(_ context.Context, id int64) (department.DepartmentResponse, error) {
	if id != 1 {
		return department.DepartmentResponse{}, department.ErrDepartmentNotFound
	}
	return department.DepartmentResponse{ID: 1, Name: "Engineering"}, nil
}

func (s *stubDepartments) Delete(context.Context, int64) error {
	return s.deleteErr
}

type stubDesignations struct {
	designation.DesignationService
	filter designation.DesignationFilter
}

func (s *stubDesignations) List(_ context.Context, filter designation.DesignationFilter) ([]designation.DesignationSummary, error) {
	s.filter = filter
	return []designation.DesignationSummary{}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func departmentRouter(depts *stubDepartments, desigs *stubDesignations) http.Handler {
	h := NewDepartmentHandler(depts, desigs)
	r := chi.NewRouter()
	r.Post("/departments", h.Create)
	r.Get("/departments/{id}", h.Get)
	r.Delete("/departments/{id}", h.Delete)
	r.Get("/departments/{id}/designations", h.ListDesignations)
	return r
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestDepartmentCreate(t *testing.T) {
	depts := &stubDepartments{}
	h := departmentRouter(depts, &stubDesignations{})

	w, env := serve(t, h, http.MethodPost, "/departments", `{"department_name":"  Engineering "}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Engineering", depts.created.Name)
	assert.JSONEq(t, `{"department_id":1,"department_name":"Engineering","location":null,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"}`, string(env.Data))
}

func TestDepartmentCreateValidation(t *testing.T) {
	h := departmentRouter(&stubDepartments{}, &stubDesignations{})

	w, env := serve(t, h, http.MethodPost, "/departments", `{"department_name":""}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Contains(t, env.Error.Details, "department_name")

	w, env = serve(t, h, http.MethodPost, "/departments", `{"department_name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestDepartmentPathID(t *testing.T) {
	h := departmentRouter(&stubDepartments{}, &stubDesignations{})

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		w, env := serve(t, h, http.MethodGet, "/departments/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
		assert.Equal(t, "BAD_REQUEST", env.Error.Code, id)
	}

	w, env := serve(t, h, http.MethodGet, "/departments/7", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestDepartmentDeleteStillReferenced(t *testing.T) {
	h := departmentRouter(&stubDepartments{deleteErr: department.ErrDepartmentInUse}, &stubDesignations{})

	w, env := serve(t, h, http.MethodDelete, "/departments/1", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DEPENDENCY_CONFLICT", env.Error.Code)
}

func TestDepartmentListDesignations(t *testing.T) {
	desigs := &stubDesignations{}
	h := departmentRouter(&stubDepartments{}, desigs)

	w, _ := serve(t, h, http.MethodGet, "/departments/1/designations", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), desigs.filter.DepartmentID)

	w, _ = serve(t, h, http.MethodGet, "/departments/2/designations", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDecodeJSONAcceptsEmptyBody(t *testing.T) {
	var got struct{ Name string }
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", http.NoBody)

	assert.True(t, decodeJSON(w, r, &got))
	assert.Empty(t, got.Name)
}
