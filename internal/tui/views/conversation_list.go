package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationList is the main conversations table.
type ConversationList struct {
	*tview.Table
	theme   *ui.Theme
	convs   []chat.Conversation
	visible []chat.Conversation
	filter  string
	loading bool
	errMsg  string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	cl := &ConversationList{
		Table: table,
		theme: theme,
	}
	cl.render()
	return cl
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "r", Description: "Reload"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-6", Description: "Records", Numeric: true},
	}
}

// Update replaces the rows and the list's request state.
func (cl *ConversationList) Update(convs []chat.Conversation, loading bool, errMsg string) {
	cl.convs = convs
	cl.loading = loading
	cl.errMsg = errMsg
	cl.render()
}

// SetFilter sets the active filter text and re-renders. An empty filter shows every row.
func (cl *ConversationList) SetFilter(filter string) {
	cl.filter = filter
	cl.render()
}

// Filter returns the active filter.
func (cl *ConversationList) Filter() string {
	return cl.filter
}

func (cl *ConversationList) render() {
	cl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" CLIENT", 1},
		{" PHONE", 0},
		{" LAST MESSAGE", 2},
		{" TIME", 0},
		{" UNREAD", 0},
		{" STATUS", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	cl.visible = cl.visible[:0]
	for _, c := range cl.convs {
		if cl.filter != "" && !matchesFilter(cl.filter, c.ClientName, c.ClientPhone, c.LastMessage) {
			continue
		}
		cl.visible = append(cl.visible, c)
	}

	for i, c := range cl.visible {
		row := i + 1
		unread := ""
		if c.UnreadCount > 0 {
			unread = strconv.Itoa(c.UnreadCount)
		}
		cl.SetCell(row, 0, cl.cell(c.ClientName, 1))
		cl.SetCell(row, 1, cl.cell(c.ClientPhone, 0))
		cl.SetCell(row, 2, cl.cell(c.LastMessage, 2))
		cl.SetCell(row, 3, cl.cell(c.LastMessageTime, 0).SetAlign(tview.AlignRight))
		cl.SetCell(row, 4, cl.cell(unread, 0).SetAlign(tview.AlignRight).SetTextColor(cl.theme.CounterColor))
		cl.SetCell(row, 5, cl.cell(c.Status, 0))
	}

	cl.SetTitle(listTitle("Conversations", len(cl.visible), len(cl.convs), cl.filter, cl.loading, cl.errMsg))
}

func (cl *ConversationList) cell(text string, expansion int) *tview.TableCell {
	return tview.NewTableCell(" " + tview.Escape(sanitizeForTerminal(text))).
		SetExpansion(expansion).
		SetTextColor(cl.theme.FgColor)
}

// Selected returns the highlighted conversation.
func (cl *ConversationList) Selected() (chat.Conversation, bool) {
	row, _ := cl.GetSelection()
	return cl.ByIndex(row)
}

// ByIndex returns the Nth visible conversation (1-based).
func (cl *ConversationList) ByIndex(n int) (chat.Conversation, bool) {
	if n < 1 || n > len(cl.visible) {
		return chat.Conversation{}, false
	}
	return cl.visible[n-1], true
}

func matchesFilter(filter string, fields ...string) bool {
	filter = strings.ToLower(filter)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), filter) {
			return true
		}
	}
	return false
}

// listTitle renders a table title with counts, filter and request state.
func listTitle(name string, shown, total int, filter string, loading bool, errMsg string) string {
	var b strings.Builder
	b.WriteString(" " + name)
	if filter != "" {
		fmt.Fprintf(&b, " (%d/%d) filter: %s", shown, total, tview.Escape(filter))
	} else {
		fmt.Fprintf(&b, " (%d)", total)
	}
	if loading {
		b.WriteString(" [::d]loading…[-:-:-]")
	}
	if errMsg != "" {
		fmt.Fprintf(&b, " [red]! %s[-]", tview.Escape(errMsg))
	}
	b.WriteString(" ")
	return b.String()
}
