package notification

import (
	"strings"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
)

type NotificationResponse struct {
	ID             int64     `json:"notification_id"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	TargetAudience string    `json:"target_audience"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type NotificationFilter struct {
	Audiences []string
}

type CreateNotificationRequest struct {
	Title          string `json:"title"`
	Message        string `json:"message"`
	TargetAudience string `json:"target_audience"`
}

func (r *CreateNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Title = strings.TrimSpace(r.Title)
	r.Message = strings.TrimSpace(r.Message)
	r.TargetAudience = strings.TrimSpace(r.TargetAudience)

	if r.Title == "" {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}
	if r.Message == "" {
		errs.Add("message", "message is required")
	}
	if r.TargetAudience == "" {
		errs.Add("target_audience", "target_audience is required")
	}

	return errs.Err()
}

type UpdateNotificationRequest struct {
	ID             int64   `json:"-"`
	Title          *string `json:"title,omitempty"`
	Message        *string `json:"message,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
}

func (r *UpdateNotificationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID <= 0 {
		errs.Add("notification_id", "notification_id is required")
	}
	if r.Title != nil && validator.IsEmpty(*r.Title) {
		errs.Add("title", "title must not be empty")
	}
	if r.Message != nil && validator.IsEmpty(*r.Message) {
		errs.Add("message", "message must not be empty")
	}
	if r.TargetAudience != nil && validator.IsEmpty(*r.TargetAudience) {
		errs.Add("target_audience", "target_audience must not be empty")
	}

	return errs.Err()
}
