package views

import (
	"fmt"
	"strconv"

	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays the details of one conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conv and the number of messages loaded for it.
func (ci *ConversationInfo) Update(conv chat.Conversation, loaded int) {
	ci.Clear()

	fg := ui.ColorName(ci.theme.FgColor)
	val := ui.ColorName(ci.theme.CounterColor)
	rows := []struct{ label, value string }{
		{"Client", conv.ClientName},
		{"Phone", conv.ClientPhone},
		{"ID", conv.ID},
		{"Status", conv.Status},
		{"Unread", strconv.Itoa(conv.UnreadCount)},
		{"Loaded", strconv.Itoa(loaded)},
		{"Last Active", conv.LastMessageTime},
		{"Last Message", conv.LastMessage},
	}
	_, _ = fmt.Fprintln(ci)
	for _, r := range rows {
		value := r.value
		if value == "" {
			value = "-"
		}
		_, _ = fmt.Fprintf(ci, " [%s::b]%-13s[-:-:-] [%s]%s[-]\n", fg, r.label+":", val, tview.Escape(sanitizeForTerminal(value)))
	}
	ci.SetTitle(fmt.Sprintf(" %s Details ", tview.Escape(sanitizeForTerminal(conv.ClientName))))
}
