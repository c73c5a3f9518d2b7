package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance/internal/domain/notification"
	"github.com/cmlabs-hris/hris-attendance/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	EventNotification = "notification"
	EventInvalidate   = "invalidate"
)

// Message is the payload of a notification event.
type Message struct {
	ID string `json:"id"`
	notification.Notification
	CreatedAt time.Time `json:"created_at"`
}

// InvalidateMessage tells connected clients which cached views to refetch.
type InvalidateMessage struct {
	Keys []string `json:"keys"`
}

type service struct {
	hub    *sse.Hub
	logger *slog.Logger
	now    func() time.Time
}

// NewNotificationService delivers notifications to the open event streams of their user.
func NewNotificationService(hub *sse.Hub, logger *slog.Logger) notification.Notifier {
	return newService(hub, logger)
}

func newService(hub *sse.Hub, logger *slog.Logger) *service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{hub: hub, logger: logger, now: time.Now}
}

// Notify implements notification.Notifier.
func (s *service) Notify(_ context.Context, n notification.Notification) {
	if n.UserID == "" {
		s.logger.Warn("dropping notification without recipient", slog.String("title", n.Title))
		return
	}
	if n.Severity == "" {
		n.Severity = notification.SeverityDefault
	}

	s.hub.Publish(n.UserID, sse.Event{
		Event: EventNotification,
		Data: Message{
			ID:           uuid.NewString(),
			Notification: n,
			CreatedAt:    s.now().UTC(),
		},
	})

	s.logger.Debug("notification published",
		slog.String("user_id", n.UserID),
		slog.String("title", n.Title),
		slog.String("severity", string(n.Severity)),
		slog.Int("subscribers", s.hub.SubscriberCount(n.UserID)),
	)
}

// Invalidator broadcasts an invalidate event for the given keys to every client.
type Invalidator struct {
	hub *sse.Hub
}

func NewInvalidator(hub *sse.Hub) *Invalidator {
	return &Invalidator{hub: hub}
}

func (i *Invalidator) Invalidate(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	i.hub.Broadcast(sse.Event{
		Event: EventInvalidate,
		Data:  InvalidateMessage{Keys: keys},
	})
	return nil
}
