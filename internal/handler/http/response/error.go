package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/attendance"
	"github.com/ems-hr/ems-backend-go/internal/domain/auth"
	"github.com/ems-hr/ems-backend-go/internal/domain/department"
	"github.com/ems-hr/ems-backend-go/internal/domain/designation"
	"github.com/ems-hr/ems-backend-go/internal/domain/document"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/domain/leave"
	"github.com/ems-hr/ems-backend-go/internal/domain/notification"
	"github.com/ems-hr/ems-backend-go/internal/domain/passwordreset"
	"github.com/ems-hr/ems-backend-go/internal/domain/task"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5/pgconn"
)

var notFound = []error{
	department.ErrDepartmentNotFound,
	designation.ErrDesignationNotFound,
	employee.ErrEmployeeNotFound,
	attendance.ErrAttendanceNotFound,
	leave.ErrLeaveNotFound,
	task.ErrTaskNotFound,
	document.ErrDocumentNotFound,
	notification.ErrNotificationNotFound,
	passwordreset.ErrPasswordResetNotFound,
	auth.ErrAdminNotFound,
	auth.ErrCredentialNotFound,
}

var conflict = []error{
	identity.ErrConflict,
	designation.ErrTitleExists,
	attendance.ErrAlreadyCheckedIn,
	attendance.ErrAlreadyCheckedOut,
	leave.ErrLeaveAlreadyProcessed,
	passwordreset.ErrAlreadyResolved,
}

var dependencyConflict = []error{
	department.ErrDepartmentInUse,
	designation.ErrDesignationInUse,
}

// Rule violations on otherwise well-formed input.
var unprocessable = []error{
	attendance.ErrNotCheckedIn,
	attendance.ErrCheckOutTooEarly,
	leave.ErrRejectionReasonRequired,
	designation.ErrDepartmentMismatch,
	auth.ErrProfileMismatch,
	passwordreset.ErrEmailMismatch,
}

var unauthorized = []error{
	access.ErrUnauthenticated,
	auth.ErrInvalidCredentials,
	auth.ErrInvalidToken,
	jwt.ErrInvalidClaims,
}

var forbidden = []error{
	access.ErrForbidden,
	auth.ErrAccountDisabled,
	auth.ErrCannotDeleteSelf,
	employee.ErrImmutableField,
	task.ErrStatusOnly,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleError maps domain errors to HTTP responses. Not found, already
// exists, still referenced and not permitted each get their own code.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var connectErr *pgconn.ConnectError
	switch {
	case errors.Is(err, refid.ErrInvalid):
		BadRequest(w, err.Error(), nil)
	case isAny(err, unauthorized):
		Unauthorized(w, err.Error())
	case isAny(err, forbidden):
		Forbidden(w, err.Error())
	case isAny(err, notFound):
		NotFound(w, err.Error())
	case isAny(err, dependencyConflict):
		DependencyConflict(w, err.Error())
	case isAny(err, conflict):
		Conflict(w, err.Error())
	case isAny(err, unprocessable):
		Unprocessable(w, err.Error(), nil)
	case errors.Is(err, file.ErrStorageUnavailable), errors.As(err, &connectErr):
		slog.Error("upstream failure", "error", err)
		BadGateway(w, "A backing service is unavailable, please retry")
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("request timed out", "error", err)
		GatewayTimeout(w, "The request took too long to complete")
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
