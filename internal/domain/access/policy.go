// Package access decides which role may perform which action on whose rows.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("not permitted for your role")
	ErrInvalidRole     = errors.New("invalid role")
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleEmployee:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

type Action string

const (
	DepartmentRead  Action = "department.read"
	DepartmentWrite Action = "department.write"

	DesignationRead  Action = "designation.read"
	DesignationWrite Action = "designation.write"

	EmployeeCreate Action = "employee.create"
	EmployeeList   Action = "employee.list"
	EmployeeRead   Action = "employee.read"
	EmployeeUpdate Action = "employee.update"
	EmployeeDelete Action = "employee.delete"

	AttendanceCheckIn  Action = "attendance.check_in"
	AttendanceCheckOut Action = "attendance.check_out"
	AttendanceRead     Action = "attendance.read"
	AttendanceListAll  Action = "attendance.list_all"
	AttendanceCorrect  Action = "attendance.correct"
	AttendanceDelete   Action = "attendance.delete"

	LeaveApply   Action = "leave.apply"
	LeaveRead    Action = "leave.read"
	LeaveListAll Action = "leave.list_all"
	LeaveDecide  Action = "leave.decide"
	LeaveDelete  Action = "leave.delete"

	TaskCreate       Action = "task.create"
	TaskRead         Action = "task.read"
	TaskListAll      Action = "task.list_all"
	TaskUpdate       Action = "task.update"
	TaskUpdateStatus Action = "task.update_status"
	TaskDelete       Action = "task.delete"

	DocumentUpload  Action = "document.upload"
	DocumentRead    Action = "document.read"
	DocumentListAll Action = "document.list_all"
	DocumentDelete  Action = "document.delete"

	NotificationRead  Action = "notification.read"
	NotificationWrite Action = "notification.write"

	AdminManage         Action = "admin.manage"
	CredentialManage    Action = "credential.manage"
	PasswordResetManage Action = "password_reset.manage"
	PasswordResetRead   Action = "password_reset.read"

	DashboardRead Action = "dashboard.read"
)

type scope int

const (
	scopeOwn scope = iota + 1
	scopeAny
)

// employeeGrants lists everything an employee may do. Anything absent is
// admin-only.
var employeeGrants = map[Action]scope{
	DepartmentRead:     scopeAny,
	DesignationRead:    scopeAny,
	NotificationRead:   scopeAny,
	EmployeeRead:       scopeOwn,
	EmployeeUpdate:     scopeOwn,
	AttendanceCheckIn:  scopeOwn,
	AttendanceCheckOut: scopeOwn,
	AttendanceRead:     scopeOwn,
	LeaveApply:         scopeOwn,
	LeaveRead:          scopeOwn,
	LeaveDelete:        scopeOwn,
	TaskRead:           scopeOwn,
	TaskUpdateStatus:   scopeOwn,
	DocumentUpload:     scopeOwn,
	DocumentRead:       scopeOwn,
	DocumentDelete:     scopeOwn,
	PasswordResetRead:  scopeOwn,
}

// denied holds actions no role may perform.
var denied = map[Action]bool{
	AttendanceDelete: true,
}

// Allow reports whether role may perform action on a row owned by ownerID
// when the requester is requesterID. Ids are employee ids; 0 means unknown.
func Allow(role Role, action Action, ownerID, requesterID int64) bool {
	if denied[action] {
		return false
	}
	switch role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		switch employeeGrants[action] {
		case scopeAny:
			return true
		case scopeOwn:
			return requesterID > 0 && ownerID == requesterID
		}
	}
	return false
}

// CanReadNotification reports whether a notification addressed to audience
// is visible to a requester in department.
func CanReadNotification(role Role, audience, department string) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleEmployee:
		audience = strings.TrimSpace(audience)
		if strings.EqualFold(audience, AudienceAll) {
			return true
		}
		return department != "" && strings.EqualFold(audience, strings.TrimSpace(department))
	}
	return false
}

// AudienceAll addresses a notification to every employee.
const AudienceAll = "All"

// Principal is the verified caller of a request.
type Principal struct {
	Role       Role
	UserID     int64 // admin id or credential id
	EmployeeID int64 // zero for admins
	Email      string
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// Check applies Allow to the principal stored in ctx.
func Check(ctx context.Context, action Action, ownerID int64) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}
	if !Allow(p.Role, action, ownerID, p.EmployeeID) {
		return p, fmt.Errorf("%w: %s", ErrForbidden, action)
	}
	return p, nil
}

// ConcealMissing turns a notFound lookup error into ErrForbidden for callers
// who are not admins, so an employee sees the same answer for rows that do not
// exist and rows owned by someone else. Other errors pass through.
func ConcealMissing(ctx context.Context, err, notFound error) error {
	if !errors.Is(err, notFound) {
		return err
	}
	p, ok := FromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if p.IsAdmin() {
		return err
	}
	return ErrForbidden
}
