package views

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// SendFunc sends text and must call done exactly once, on the UI goroutine,
// reporting whether the message was accepted.
type SendFunc func(text string, done func(ok bool))

// MessageThread displays one conversation's messages and a composer.
type MessageThread struct {
	*tview.Flex
	theme    *ui.Theme
	messages *tview.TextView
	composer *tview.InputField
	conv     chat.Conversation
	sending  bool
	onSend   SendFunc
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	composer.SetBorder(true)
	composer.SetBorderColor(theme.BorderColor)
	composer.SetBackgroundColor(theme.BgColor)
	composer.SetFieldBackgroundColor(theme.BgColor)
	composer.SetFieldTextColor(theme.FgColor)
	composer.SetLabelColor(theme.MenuKeyColor)
	composer.SetTitle(" Compose (i to focus) ")
	composer.SetTitleColor(theme.TitleColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		messages: messages,
		composer: composer,
	}
	composer.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			mt.submit()
		}
	})
	return mt
}

// submit hands the draft to onSend. The draft stays in the composer until the
// send is accepted, so a failed send can be retried with Enter.
func (mt *MessageThread) submit() {
	text := mt.composer.GetText()
	if text == "" || mt.sending || mt.onSend == nil {
		return
	}
	mt.sending = true
	mt.composer.SetTitle(" Sending… ")
	mt.onSend(text, func(ok bool) {
		mt.sending = false
		mt.composer.SetTitle(" Compose (i to focus) ")
		if ok && mt.composer.GetText() == text {
			mt.composer.SetText("")
		}
	})
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.conv.ClientName != "" {
		return mt.conv.ClientName
	}
	return "Messages"
}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "d", Description: "Details"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Open switches the thread to conv. A different conversation discards the draft.
func (mt *MessageThread) Open(conv chat.Conversation) {
	if conv.ID != mt.conv.ID {
		mt.composer.SetText("")
		mt.messages.Clear()
	}
	mt.conv = conv
	mt.messages.SetTitle(fmt.Sprintf(" %s ", tview.Escape(sanitizeForTerminal(conv.ClientName))))
}

// Conversation returns the open conversation.
func (mt *MessageThread) Conversation() chat.Conversation {
	return mt.conv
}

// SetOnSend sets the callback used to deliver the composer's text.
func (mt *MessageThread) SetOnSend(fn SendFunc) {
	mt.onSend = fn
}

// Update renders msgs in the order the backend returned them.
func (mt *MessageThread) Update(msgs []chat.Message, errMsg string) {
	mt.messages.Clear()

	for _, m := range msgs {
		sender, color := mt.conv.ClientName, mt.theme.ClientColor
		if m.Sender == chat.SenderOperator {
			sender, color = "You", mt.theme.OperatorColor
		}
		_, _ = fmt.Fprintf(mt.messages, "[%s::b]%s[-:-:-] [::d]%s%s[-:-:-]\n%s\n\n",
			ui.ColorName(color),
			tview.Escape(sanitizeForTerminal(sender)),
			m.Timestamp,
			deliveryMark(m),
			tview.Escape(sanitizeForTerminal(m.Content)))
	}
	if errMsg != "" {
		_, _ = fmt.Fprintf(mt.messages, "[%s]! %s[-]\n", ui.ColorName(mt.theme.FlashErrColor), tview.Escape(errMsg))
	}

	mt.messages.ScrollToEnd()
}

func deliveryMark(m chat.Message) string {
	if m.Sender != chat.SenderOperator {
		return ""
	}
	switch m.DeliveryStatus {
	case chat.StatusRead:
		return " ✓✓ read"
	case chat.StatusDelivered:
		return " ✓✓"
	default:
		return " ✓"
	}
}

// Messages returns the messages text view (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer input field (for focus management).
func (mt *MessageThread) Composer() *tview.InputField {
	return mt.composer
}
