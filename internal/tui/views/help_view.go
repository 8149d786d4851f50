package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays the key binding and command reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

var helpSections = []struct {
	title string
	rows  [][2]string
}{
	{"Global Keys", [][2]string{
		{":", "Command mode"},
		{"/", "Filter the current table"},
		{"Esc", "Cancel / go back"},
		{"?", "Help"},
		{"c", "Conversations"},
		{"1-6", "Listings, bookings, users, transfers, wallet, audit logs"},
		{"r", "Reload the current screen"},
		{"q", "Quit"},
	}},
	{"Conversations", [][2]string{
		{"Enter", "Open conversation"},
	}},
	{"Message Thread", [][2]string{
		{"i", "Focus composer"},
		{"Enter", "Send (the draft stays if sending fails)"},
		{"d", "Conversation details"},
	}},
	{"Commands", [][2]string{
		{":status <value>", "Set the selected record's status"},
		{":delete", "Delete the selected record"},
		{":fund <amount>", "Add funds to the wallet"},
		{":withdraw <amount>", "Withdraw funds from the wallet"},
		{":page <n>", "Load page n of the current table"},
		{":logout", "Sign out of this profile"},
		{":help / :h", "Show this help"},
		{":quit / :q", "Quit"},
	}},
}

func (hv *HelpView) render() {
	kc := ui.ColorName(hv.theme.MenuKeyColor)

	var b strings.Builder
	for _, s := range helpSections {
		fmt.Fprintf(&b, "\n  [::b]%s[-:-:-]\n\n", s.title)
		for _, r := range s.rows {
			fmt.Fprintf(&b, "  [%s]%-20s[-:-:-] %s\n", kc, tview.Escape(r[0]), r[1])
		}
	}
	_, _ = fmt.Fprint(hv, b.String())
}
