package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// AbsenceMarker records Absent, or Leave for approved leave, for employees
// with no attendance on a day.
type AbsenceMarker interface {
	MarkAbsent(ctx context.Context, date time.Time) (int, error)
}

// OverdueMarker persists Overdue on open tasks past their due date.
type OverdueMarker interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// ResetExpirer expires Pending password resets older than a TTL.
type ResetExpirer interface {
	ExpireStale(ctx context.Context, ttl time.Duration) (int64, error)
}

// MaintenanceJobs holds the periodic housekeeping jobs. Every job is
// idempotent, so running one more often than needed is harmless.
type MaintenanceJobs struct {
	attendance AbsenceMarker
	tasks      OverdueMarker
	resets     ResetExpirer
	resetTTL   time.Duration
	now        func() time.Time
}

func NewMaintenanceJobs(attendance AbsenceMarker, tasks OverdueMarker, resets ResetExpirer, resetTTL time.Duration) *MaintenanceJobs {
	return &MaintenanceJobs{
		attendance: attendance,
		tasks:      tasks,
		resets:     resets,
		resetTTL:   resetTTL,
		now:        time.Now,
	}
}

func (j *MaintenanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.Every("mark_absent_employees", 1*time.Hour, j.MarkAbsentEmployees)
	scheduler.Every("mark_overdue_tasks", 1*time.Hour, j.MarkOverdueTasks)
	scheduler.Every("expire_password_resets", 30*time.Minute, j.ExpirePasswordResets)
}

// MarkAbsentEmployees closes out yesterday (UTC).
func (j *MaintenanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	yesterday := j.now().UTC().AddDate(0, 0, -1)

	n, err := j.attendance.MarkAbsent(ctx, yesterday)
	if err != nil {
		return fmt.Errorf("failed to mark absences: %w", err)
	}
	if n > 0 {
		slog.Info("Cron: Filled missing attendance", "count", n, "date", yesterday.Format("2006-01-02"))
	}
	return nil
}

func (j *MaintenanceJobs) MarkOverdueTasks(ctx context.Context) error {
	if _, err := j.tasks.MarkOverdue(ctx); err != nil {
		return fmt.Errorf("failed to mark overdue tasks: %w", err)
	}
	return nil
}

func (j *MaintenanceJobs) ExpirePasswordResets(ctx context.Context) error {
	n, err := j.resets.ExpireStale(ctx, j.resetTTL)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("Cron: Expired password resets", "count", n)
	}
	return nil
}
