//go:build integration

package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/leave"
	"github.com/ems-hr/ems-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

func TestApprovedEmployeeIDsOn(t *testing.T) {
	db := newTestDB(t)
	repo := postgresql.NewLeaveRepository(db)
	ctx := context.Background()

	insert := func(id, employeeID int64, start, end string) {
		_, err := repo.Create(ctx, leave.Leave{
			ID:         id,
			EmployeeID: employeeID,
			LeaveType:  leave.TypePaid,
			StartDate:  day(start),
			EndDate:    day(end),
			Days:       1,
			Status:     leave.StatusPending,
		})
		require.NoError(t, err)
	}
	insert(1, 10, "2026-05-01", "2026-05-05")
	insert(2, 11, "2026-05-04", "2026-05-04")
	insert(3, 12, "2026-05-01", "2026-05-10")
	insert(4, 13, "2026-05-05", "2026-05-06")

	for _, id := range []int64{1, 2, 4} {
		_, err := repo.Decide(ctx, id, leave.StatusApproved, nil)
		require.NoError(t, err)
	}

	ids, err := repo.ApprovedEmployeeIDsOn(ctx, day("2026-05-04"))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{10, 11}, ids)
}
