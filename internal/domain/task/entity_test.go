package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveStatus(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	yesterday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, StatusOverdue, Task{DueDate: yesterday, Status: StatusPending}.EffectiveStatus(now))
	assert.Equal(t, StatusOverdue, Task{DueDate: yesterday, Status: StatusInProgress}.EffectiveStatus(now))
	assert.Equal(t, StatusCompleted, Task{DueDate: yesterday, Status: StatusCompleted}.EffectiveStatus(now))
	assert.Equal(t, StatusPending, Task{DueDate: today, Status: StatusPending}.EffectiveStatus(now))
}

func TestUpdateTaskRequest(t *testing.T) {
	status := "Completed"
	req := UpdateTaskRequest{ID: 4, Status: &status}
	assert.NoError(t, req.Validate())
	assert.True(t, req.OnlyStatus())

	title := "Ship it"
	req.Title = &title
	assert.False(t, req.OnlyStatus())

	overdue := "Overdue"
	assert.Error(t, (&UpdateTaskRequest{ID: 4, Status: &overdue}).Validate())
	assert.Error(t, (&UpdateTaskRequest{ID: 4}).Validate())
}
