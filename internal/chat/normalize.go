package chat

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Field names differ between messaging backend versions; each list is tried in order.
var (
	conversationIDFields = []string{"id", "_id", "conversationId", "conversation_id"}
	clientNameFields     = []string{"clientName", "client_name", "client.name", "contact.name", "name"}
	clientPhoneFields    = []string{"clientPhone", "client_phone", "client.phone", "contact.phone", "phone"}
	lastMessageFields    = []string{"lastMessage.content", "lastMessage.text", "lastMessage", "last_message"}
	lastTimeFields       = []string{"lastMessageTime", "last_message_time", "lastMessageAt", "lastMessage.timestamp", "updatedAt"}
	unreadFields         = []string{"unreadCount", "unread_count", "unread"}

	messageIDFields      = []string{"id", "_id", "messageId", "message_id"}
	messageConvFields    = []string{"conversationId", "conversation_id"}
	senderFields         = []string{"sender", "from", "direction", "role"}
	contentFields        = []string{"content", "text", "body", "message"}
	messageTimeFields    = []string{"timestamp", "createdAt", "created_at", "sentAt", "time"}
	deliveryStatusFields = []string{"deliveryStatus", "delivery_status", "status"}
)

func first(r gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

// text returns a scalar field as a string; objects and arrays yield "".
func text(r gjson.Result, paths []string) string {
	for _, p := range paths {
		v := r.Get(p)
		switch v.Type {
		case gjson.String, gjson.Number:
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}

func (e *Engine) normalizeConversation(r gjson.Result, index int) Conversation {
	c := Conversation{
		ID:              text(r, conversationIDFields),
		ClientName:      text(r, clientNameFields),
		ClientPhone:     text(r, clientPhoneFields),
		LastMessage:     text(r, lastMessageFields),
		LastMessageTime: e.timestamp(first(r, lastTimeFields)),
		UnreadCount:     int(first(r, unreadFields).Int()),
		Status:          text(r, []string{"status"}),
	}
	if c.ID == "" {
		c.ID = "conv-" + strconv.Itoa(index)
	}
	if c.ClientName == "" {
		c.ClientName = UnknownClient
	}
	if c.Status == "" {
		c.Status = "active"
	}
	return c
}

func (e *Engine) normalizeMessage(r gjson.Result, conversationID string, index int) Message {
	m := Message{
		ID:             text(r, messageIDFields),
		ConversationID: text(r, messageConvFields),
		Sender:         senderOf(r),
		Content:        text(r, contentFields),
		Timestamp:      e.timestamp(first(r, messageTimeFields)),
		DeliveryStatus: deliveryStatusOf(text(r, deliveryStatusFields)),
	}
	if m.ConversationID == "" {
		m.ConversationID = conversationID
	}
	if m.ID == "" {
		m.ID = conversationID + "-" + strconv.Itoa(index)
	}
	return m
}

func senderOf(r gjson.Result) Sender {
	if v := first(r, []string{"fromOperator", "isOperator", "fromMe"}); v.IsBool() {
		if v.Bool() {
			return SenderOperator
		}
		return SenderClient
	}
	switch strings.ToLower(text(r, senderFields)) {
	case "operator", "agent", "assistant", "admin", "outbound", "outgoing", "me":
		return SenderOperator
	default:
		return SenderClient
	}
}

func deliveryStatusOf(s string) DeliveryStatus {
	switch DeliveryStatus(strings.ToLower(s)) {
	case StatusDelivered:
		return StatusDelivered
	case StatusRead:
		return StatusRead
	default:
		return StatusSent
	}
}
