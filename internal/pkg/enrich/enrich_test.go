package enrich

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deptRow struct {
	ID                int64
	Name              string
	TotalDesignations int64
	TotalEmployees    int64
}

type leaveRow struct {
	EmployeeID     int64
	EmployeeName   string
	DepartmentID   int64
	DepartmentName string
}

func TestCountDefaultsToZero(t *testing.T) {
	rows := []deptRow{{ID: 1, Name: "Engineering"}, {ID: 2, Name: "Sales"}}

	var calls atomic.Int32
	var gotKeys []int64
	employees := func(_ context.Context, keys []int64) (map[int64]int64, error) {
		calls.Add(1)
		gotKeys = append([]int64(nil), keys...)
		return map[int64]int64{1: 3}, nil
	}

	out, err := Apply(context.Background(), rows,
		Count("employees", func(r deptRow) int64 { return r.ID }, employees,
			func(r *deptRow, n int64) { r.TotalEmployees = n }),
	)
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "one batched query per relation")
	sort.Slice(gotKeys, func(i, j int) bool { return gotKeys[i] < gotKeys[j] })
	assert.Equal(t, []int64{1, 2}, gotKeys)
	assert.Equal(t, int64(3), out[0].TotalEmployees)
	assert.Equal(t, int64(0), out[1].TotalEmployees)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := []deptRow{{ID: 1}}
	counter := func(_ context.Context, _ []int64) (map[int64]int64, error) {
		return map[int64]int64{1: 5}, nil
	}
	out, err := Apply(context.Background(), rows,
		Count("designations", func(r deptRow) int64 { return r.ID }, counter,
			func(r *deptRow, n int64) { r.TotalDesignations = n }),
	)
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows[0].TotalDesignations)
	assert.Equal(t, int64(5), out[0].TotalDesignations)
}

func TestMultipleSpecs(t *testing.T) {
	rows := []deptRow{{ID: 1}, {ID: 2}, {ID: 1}}
	designations := func(_ context.Context, _ []int64) (map[int64]int64, error) {
		return map[int64]int64{1: 1, 2: 4}, nil
	}
	employees := func(_ context.Context, keys []int64) (map[int64]int64, error) {
		assert.Len(t, keys, 2, "duplicate keys are collapsed")
		return map[int64]int64{2: 9}, nil
	}
	key := func(r deptRow) int64 { return r.ID }

	out, err := Apply(context.Background(), rows,
		Count("designations", key, designations, func(r *deptRow, n int64) { r.TotalDesignations = n }),
		Count("employees", key, employees, func(r *deptRow, n int64) { r.TotalEmployees = n }),
	)
	require.NoError(t, err)
	assert.Equal(t, []deptRow{
		{ID: 1, TotalDesignations: 1, TotalEmployees: 0},
		{ID: 2, TotalDesignations: 4, TotalEmployees: 9},
		{ID: 1, TotalDesignations: 1, TotalEmployees: 0},
	}, out)
}

func TestChainedLookupWithFallbacks(t *testing.T) {
	type emp struct {
		Name         string
		DepartmentID int64
	}
	rows := []leaveRow{{EmployeeID: 10}, {EmployeeID: 11}, {EmployeeID: 99}}

	employees := func(_ context.Context, _ []int64) (map[int64]emp, error) {
		return map[int64]emp{
			10: {Name: "Ada Lovelace", DepartmentID: 1},
			11: {Name: "Alan Turing", DepartmentID: 7},
		}, nil
	}
	departments := func(_ context.Context, _ []int64) (map[int64]string, error) {
		return map[int64]string{1: "Engineering"}, nil
	}

	out, err := Apply(context.Background(), rows,
		Lookup("employee", func(r leaveRow) int64 { return r.EmployeeID }, employees,
			func(r *leaveRow, e emp, found bool) {
				if found {
					r.EmployeeName = e.Name
					r.DepartmentID = e.DepartmentID
				}
			}),
	)
	require.NoError(t, err)

	out, err = Apply(context.Background(), out,
		Lookup("department", func(r leaveRow) int64 { return r.DepartmentID }, departments,
			func(r *leaveRow, name string, found bool) {
				if !found {
					name = "Unknown"
				}
				r.DepartmentName = name
			}),
	)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", out[0].EmployeeName)
	assert.Equal(t, "Engineering", out[0].DepartmentName)
	assert.Equal(t, "Alan Turing", out[1].EmployeeName)
	assert.Equal(t, "Unknown", out[1].DepartmentName)
	assert.Equal(t, "", out[2].EmployeeName)
	assert.Equal(t, "Unknown", out[2].DepartmentName)
}

func TestEmptyRowsSkipQueries(t *testing.T) {
	called := false
	counter := func(_ context.Context, _ []int64) (map[int64]int64, error) {
		called = true
		return nil, nil
	}
	out, err := Apply(context.Background(), []deptRow(nil),
		Count("employees", func(r deptRow) int64 { return r.ID }, counter, func(*deptRow, int64) {}),
	)
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
	assert.False(t, called)
}

func TestErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	counter := func(_ context.Context, _ []int64) (map[int64]int64, error) {
		return nil, boom
	}
	_, err := Apply(context.Background(), []deptRow{{ID: 1}},
		Count("employees", func(r deptRow) int64 { return r.ID }, counter, func(*deptRow, int64) {}),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "enrich employees")
}
