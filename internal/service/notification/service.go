package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/domain/notification"
	"github.com/ems-hr/ems-backend-go/internal/pkg/sse"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

const (
	EventCreated = "notification.created"
	EventUpdated = "notification.updated"

	// adminTopic receives every notification regardless of audience.
	adminTopic = "role:admin"
)

func audienceTopic(audience string) string {
	return "audience:" + audience
}

type DepartmentReader interface {
	ListNames(ctx context.Context) ([]string, error)
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
}

type service struct {
	allocator   identity.Allocator
	repo        notification.NotificationRepository
	departments DepartmentReader
	employees   EmployeeReader
	hub         *sse.Hub
}

func NewNotificationService(
	allocator identity.Allocator,
	repo notification.NotificationRepository,
	departments DepartmentReader,
	employees EmployeeReader,
	hub *sse.Hub,
) notification.NotificationService {
	return &service{
		allocator:   allocator,
		repo:        repo,
		departments: departments,
		employees:   employees,
		hub:         hub,
	}
}

func toResponse(n notification.Notification) notification.NotificationResponse {
	return notification.NotificationResponse{
		ID:             n.ID,
		Title:          n.Title,
		Message:        n.Message,
		TargetAudience: n.TargetAudience,
		CreatedAt:      n.CreatedAt,
		UpdatedAt:      n.UpdatedAt,
	}
}

// resolveAudience returns the canonical spelling of audience: "All" or the
// stored name of an existing department.
func (s *service) resolveAudience(ctx context.Context, audience string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(audience), access.AudienceAll) {
		return access.AudienceAll, nil
	}
	names, err := s.departments.ListNames(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load departments: %w", err)
	}
	if name, ok := validator.FindFold(audience, names); ok {
		return name, nil
	}
	allowed := append([]string{access.AudienceAll}, names...)
	return "", validator.New("target_audience", "target_audience must be one of: "+strings.Join(allowed, ", "))
}

// departmentOf returns the name of the department the employee belongs to, or
// "" when it cannot be resolved.
func (s *service) departmentOf(ctx context.Context, employeeID int64) (string, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return "", err
	}
	names, err := s.departments.GetNamesByIDs(ctx, []int64{emp.DepartmentID})
	if err != nil {
		return "", err
	}
	return names[emp.DepartmentID], nil
}

func (s *service) publish(event string, n notification.NotificationResponse) {
	s.hub.Publish(adminTopic, sse.Event{Event: event, Data: n})
	s.hub.Publish(audienceTopic(n.TargetAudience), sse.Event{Event: event, Data: n})
}

// Create implements notification.NotificationService.
func (s *service) Create(ctx context.Context, req notification.CreateNotificationRequest) (notification.NotificationResponse, error) {
	if _, err := access.Check(ctx, access.NotificationWrite, 0); err != nil {
		return notification.NotificationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}
	audience, err := s.resolveAudience(ctx, req.TargetAudience)
	if err != nil {
		return notification.NotificationResponse{}, err
	}

	id, err := s.allocator.NextID(ctx, identity.Notification)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	created, err := s.repo.Create(ctx, notification.Notification{
		ID:             id,
		Title:          req.Title,
		Message:        req.Message,
		TargetAudience: audience,
	})
	if err != nil {
		return notification.NotificationResponse{}, fmt.Errorf("failed to create notification: %w", err)
	}

	resp := toResponse(created)
	s.publish(EventCreated, resp)
	return resp, nil
}

// Get implements notification.NotificationService.
func (s *service) Get(ctx context.Context, id int64) (notification.NotificationResponse, error) {
	p, err := access.Check(ctx, access.NotificationRead, 0)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	if !p.IsAdmin() {
		department, err := s.departmentOf(ctx, p.EmployeeID)
		if err != nil {
			return notification.NotificationResponse{}, err
		}
		if !access.CanReadNotification(p.Role, n.TargetAudience, department) {
			return notification.NotificationResponse{}, fmt.Errorf("%w: notification is not addressed to you", access.ErrForbidden)
		}
	}
	return toResponse(n), nil
}

// List implements notification.NotificationService.
func (s *service) List(ctx context.Context) ([]notification.NotificationResponse, error) {
	p, err := access.Check(ctx, access.NotificationRead, 0)
	if err != nil {
		return nil, err
	}

	var filter notification.NotificationFilter
	if !p.IsAdmin() {
		department, err := s.departmentOf(ctx, p.EmployeeID)
		if err != nil {
			return nil, err
		}
		filter.Audiences = []string{access.AudienceAll}
		if department != "" {
			filter.Audiences = append(filter.Audiences, department)
		}
	}

	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]notification.NotificationResponse, len(items))
	for i, n := range items {
		resp[i] = toResponse(n)
	}
	return resp, nil
}

// Update implements notification.NotificationService.
func (s *service) Update(ctx context.Context, req notification.UpdateNotificationRequest) (notification.NotificationResponse, error) {
	if _, err := access.Check(ctx, access.NotificationWrite, 0); err != nil {
		return notification.NotificationResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return notification.NotificationResponse{}, err
	}

	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return notification.NotificationResponse{}, err
	}
	if req.Title != nil {
		current.Title = strings.TrimSpace(*req.Title)
	}
	if req.Message != nil {
		current.Message = strings.TrimSpace(*req.Message)
	}
	if req.TargetAudience != nil {
		if current.TargetAudience, err = s.resolveAudience(ctx, *req.TargetAudience); err != nil {
			return notification.NotificationResponse{}, err
		}
	}

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return notification.NotificationResponse{}, err
	}

	resp := toResponse(updated)
	s.publish(EventUpdated, resp)
	return resp, nil
}

// Delete implements notification.NotificationService.
func (s *service) Delete(ctx context.Context, id int64) error {
	if _, err := access.Check(ctx, access.NotificationWrite, 0); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Subscribe implements notification.NotificationService.
func (s *service) Subscribe(ctx context.Context) (<-chan sse.Event, func(), error) {
	p, err := access.Check(ctx, access.NotificationRead, 0)
	if err != nil {
		return nil, nil, err
	}

	topics := []string{adminTopic}
	if !p.IsAdmin() {
		department, err := s.departmentOf(ctx, p.EmployeeID)
		if err != nil {
			return nil, nil, err
		}
		topics = []string{audienceTopic(access.AudienceAll)}
		if department != "" {
			topics = append(topics, audienceTopic(department))
		}
	}

	ch, cleanup := s.hub.Subscribe(topics...)
	slog.Debug("notification stream opened", "role", p.Role, "user_id", p.UserID, "topics", topics)
	return ch, cleanup, nil
}
