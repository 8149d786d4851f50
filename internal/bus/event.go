package bus

import "time"

// Event kinds published by the dashboard core. Subscribers filter by prefix,
// e.g. "notify." or "session.".
const (
	KindNotifyInfo    = "notify.info"
	KindNotifyWarn    = "notify.warn"
	KindNotifyError   = "notify.error"
	KindSessionStatus = "session.status_changed"
	KindSessionLogout = "session.logged_out"
	KindChatUpdated   = "chat.updated"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Notification is the payload of notify.* events: a short title and an
// optional description, rendered as a dismissible flash by the UI.
type Notification struct {
	Title       string
	Description string
}

// Notify publishes a notification event of the given kind.
func (b *Bus) Notify(kind, title, description string) {
	if b == nil {
		return
	}
	b.Publish(Event{
		Kind:      kind,
		Timestamp: time.Now(),
		Payload:   Notification{Title: title, Description: description},
	})
}
