package identity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmployeeCode(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{1, "EMP001"},
		{7, "EMP007"},
		{42, "EMP042"},
		{999, "EMP999"},
		{1001, "EMP1001"},
		{1423, "EMP1423"},
		{2001, "EMP2001"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EmployeeCode(tt.id), "id=%d", tt.id)
	}
}

func TestEmployeeCodeNoCollisionAcrossThousands(t *testing.T) {
	seen := make(map[string]int64)
	for id := int64(1); id <= 5000; id++ {
		code := EmployeeCode(id)
		if prev, dup := seen[code]; dup {
			t.Fatalf("ids %d and %d share code %s", prev, id, code)
		}
		seen[code] = id
	}
}

func TestConflictErrorIs(t *testing.T) {
	err := fmt.Errorf("create employee: %w", NewConflict(Employee, "email", "a@b.co"))
	assert.True(t, errors.Is(err, ErrConflict))

	var ce *ConflictError
	assert.True(t, errors.As(err, &ce))
	assert.Equal(t, "email", ce.Field)
	assert.Equal(t, "employee with email a@b.co already exists", ce.Error())
}

func TestEntityValid(t *testing.T) {
	assert.True(t, Department.Valid())
	assert.False(t, Entity("payroll").Valid())
}
