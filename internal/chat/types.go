// Package chat synchronizes conversations and messages with the messaging
// backend: on-demand fetches, timestamp normalization and optimistic sends.
package chat

// Sender identifies who wrote a message.
type Sender string

const (
	SenderClient   Sender = "client"
	SenderOperator Sender = "operator"
)

// DeliveryStatus tracks an outbound message.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
)

// UnknownClient is shown when a conversation carries no client name.
const UnknownClient = "Unknown Client"

// Conversation is one client thread as listed in the inbox.
type Conversation struct {
	ID              string
	ClientName      string
	ClientPhone     string
	LastMessage     string
	LastMessageTime string // display string, "" when unknown
	UnreadCount     int
	Status          string
}

// Message is one entry of a conversation.
type Message struct {
	ID             string
	ConversationID string
	Sender         Sender
	Content        string
	Timestamp      string // display string, "" when unknown
	DeliveryStatus DeliveryStatus
}
