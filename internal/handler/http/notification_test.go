package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/notification"
	"github.com/ems-hr/ems-backend-go/internal/pkg/jwt"
	"github.com/ems-hr/ems-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNotifications struct {
	notification.NotificationService
	events     chan sse.Event
	subscriber access.Principal
}

func (s *stubNotifications) Subscribe(ctx context.Context) (<-chan sse.Event, func(), error) {
	p, _ := access.FromContext(ctx)
	s.subscriber = p
	return s.events, func() {}, nil
}

func newStreamHandler(svc notification.NotificationService, jwtService jwt.Service) *notificationHandlerImpl {
	return &notificationHandlerImpl{
		notifService: svc,
		jwtService:   jwtService,
		keepalive:    time.Hour,
	}
}

func TestStreamRejectsMissingAndAccessTokens(t *testing.T) {
	jwtService := jwt.NewJWTService("stream-secret", time.Hour, time.Minute)
	h := newStreamHandler(&stubNotifications{}, jwtService)

	w := httptest.NewRecorder()
	h.Stream(w, httptest.NewRequest(http.MethodGet, "/notifications/stream", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	accessToken, _, err := jwtService.GenerateAccessToken(access.Principal{Role: access.RoleAdmin, UserID: 1})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	h.Stream(w, httptest.NewRequest(http.MethodGet, "/notifications/stream?token="+accessToken, nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStreamWritesEvents(t *testing.T) {
	jwtService := jwt.NewJWTService("stream-secret", time.Hour, time.Minute)
	events := make(chan sse.Event, 1)
	events <- sse.Event{Event: "notification.created", Data: map[string]int{"notification_id": 3}}
	close(events)
	svc := &stubNotifications{events: events}
	h := newStreamHandler(svc, jwtService)

	caller := access.Principal{Role: access.RoleEmployee, UserID: 9, EmployeeID: 4, Email: "a@ems.local"}
	token, _, err := jwtService.GenerateStreamToken(caller)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	h.Stream(w, httptest.NewRequest(http.MethodGet, "/notifications/stream?token="+token, nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.Contains(t, body, "event: connected\n")
	assert.Contains(t, body, "event: notification.created\ndata: {\"notification_id\":3}\n\n")
	assert.Equal(t, int64(4), svc.subscriber.EmployeeID)
	assert.Equal(t, access.RoleEmployee, svc.subscriber.Role)
}
