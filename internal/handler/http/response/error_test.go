package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", validator.New("email", "email is required"), http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"bad reference", fmt.Errorf("department_id: %w", refid.ErrInvalid), http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthenticated", access.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", access.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"not found", fmt.Errorf("load: %w", employee.ErrEmployeeNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate", identity.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"still referenced", department.ErrDepartmentInUse, http.StatusConflict, "DEPENDENCY_CONFLICT"},
		{"rule violated", attendance.ErrNotCheckedIn, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"storage down", file.ErrStorageUnavailable, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleErrorKeepsValidationDetails(t *testing.T) {
	var errs validator.ValidationErrors
	errs.Add("email", "email is required")
	errs.Add("phone", "phone must contain 7 to 15 digits")

	w := httptest.NewRecorder()
	HandleError(w, fmt.Errorf("create employee: %w", errs.Err()))

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"email": "email is required",
		"phone": "phone must contain 7 to 15 digits",
	}, body.Error.Details)
}

func TestInternalErrorDoesNotLeakMessage(t *testing.T) {
	w := httptest.NewRecorder()
	HandleError(w, errors.New("pq: password authentication failed for user \"ems\""))

	assert.NotContains(t, w.Body.String(), "password authentication")
}
