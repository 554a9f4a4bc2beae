package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allActions = []Action{
	DepartmentRead, DepartmentWrite, DesignationRead, DesignationWrite,
	EmployeeCreate, EmployeeList, EmployeeRead, EmployeeUpdate, EmployeeDelete,
	AttendanceCheckIn, AttendanceCheckOut, AttendanceRead, AttendanceListAll, AttendanceCorrect, AttendanceDelete,
	LeaveApply, LeaveRead, LeaveListAll, LeaveDecide, LeaveDelete,
	TaskCreate, TaskRead, TaskListAll, TaskUpdate, TaskUpdateStatus, TaskDelete,
	DocumentUpload, DocumentRead, DocumentListAll, DocumentDelete,
	NotificationRead, NotificationWrite,
	AdminManage, CredentialManage, PasswordResetManage, PasswordResetRead,
}

func TestAdminMayDoEverythingExceptDeleteAttendance(t *testing.T) {
	for _, a := range allActions {
		want := a != AttendanceDelete
		assert.Equal(t, want, Allow(RoleAdmin, a, 5, 0), string(a))
	}
}

func TestNobodyDeletesAttendance(t *testing.T) {
	assert.False(t, Allow(RoleAdmin, AttendanceDelete, 1, 1))
	assert.False(t, Allow(RoleEmployee, AttendanceDelete, 1, 1))
}

func TestEmployeeOwnRows(t *testing.T) {
	own := []Action{
		EmployeeRead, EmployeeUpdate, AttendanceCheckIn, AttendanceCheckOut, AttendanceRead,
		LeaveApply, LeaveRead, LeaveDelete, TaskRead, TaskUpdateStatus,
		DocumentUpload, DocumentRead, DocumentDelete, PasswordResetRead,
	}
	for _, a := range own {
		assert.True(t, Allow(RoleEmployee, a, 7, 7), "own %s", a)
		assert.False(t, Allow(RoleEmployee, a, 8, 7), "other %s", a)
		assert.False(t, Allow(RoleEmployee, a, 0, 0), "unknown requester %s", a)
	}
}

func TestEmployeeAdminOnlyActions(t *testing.T) {
	adminOnly := []Action{
		DepartmentWrite, DesignationWrite, EmployeeCreate, EmployeeList, EmployeeDelete,
		AttendanceListAll, AttendanceCorrect, LeaveListAll, LeaveDecide,
		TaskCreate, TaskListAll, TaskUpdate, TaskDelete, DocumentListAll,
		NotificationWrite, AdminManage, CredentialManage, PasswordResetManage,
	}
	for _, a := range adminOnly {
		assert.False(t, Allow(RoleEmployee, a, 7, 7), string(a))
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	for _, a := range allActions {
		assert.False(t, Allow(Role("guest"), a, 1, 1), string(a))
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("Admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestCanReadNotification(t *testing.T) {
	assert.True(t, CanReadNotification(RoleEmployee, "All", "Sales"))
	assert.True(t, CanReadNotification(RoleEmployee, "all", ""))
	assert.True(t, CanReadNotification(RoleEmployee, "sales", "Sales"))
	assert.False(t, CanReadNotification(RoleEmployee, "Engineering", "Sales"))
	assert.False(t, CanReadNotification(RoleEmployee, "Engineering", ""))
	assert.True(t, CanReadNotification(RoleAdmin, "Engineering", ""))
}

func TestCheck(t *testing.T) {
	_, err := Check(context.Background(), LeaveRead, 1)
	assert.True(t, errors.Is(err, ErrUnauthenticated))

	ctx := WithPrincipal(context.Background(), Principal{Role: RoleEmployee, EmployeeID: 3})
	_, err = Check(ctx, LeaveRead, 3)
	assert.NoError(t, err)
	_, err = Check(ctx, LeaveRead, 4)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = Check(ctx, LeaveDecide, 3)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConcealMissing(t *testing.T) {
	errMissing := errors.New("row not found")
	admin := WithPrincipal(context.Background(), Principal{Role: RoleAdmin, UserID: 1})
	employee := WithPrincipal(context.Background(), Principal{Role: RoleEmployee, EmployeeID: 3})

	assert.ErrorIs(t, ConcealMissing(admin, errMissing, errMissing), errMissing)
	assert.ErrorIs(t, ConcealMissing(employee, errMissing, errMissing), ErrForbidden)
	assert.ErrorIs(t, ConcealMissing(context.Background(), errMissing, errMissing), ErrUnauthenticated)

	other := errors.New("connection reset")
	assert.ErrorIs(t, ConcealMissing(employee, other, errMissing), other)
}
