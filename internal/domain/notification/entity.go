package notification

import "context"

// Severity tags a user-visible notification.
type Severity string

const (
	SeverityDefault     Severity = "default"
	SeverityDestructive Severity = "destructive"
)

// Notification is short user-visible feedback about an operation.
type Notification struct {
	UserID      string   `json:"-"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    Severity `json:"variant"`
}

// Notifier delivers notifications. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
