package ui

import (
	"fmt"
	"time"

	"github.com/rivo/tview"
)

// Logo displays the compact product mark.
type Logo struct {
	*tview.TextView
}

// NewLogo creates a new logo component.
func NewLogo(theme *Theme) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	title := ColorName(theme.TitleColor)
	_, _ = fmt.Fprintf(tv,
		"[%s::b]╔═╗╔═╗╔╦╗╔═╗╔═╗╦╔═[-:-:-]\n"+
			"[%s::b]╠═╝╠═╣ ║║║╣ ╚═╗╠╩╗[-:-:-]\n"+
			"[%s::b]╩  ╩ ╩═╩╝╚═╝╚═╝╩ ╩[-:-:-]\n"+
			"[%s]operator dashboard[-:-:-]",
		title, title, title, ColorName(theme.FgColor),
	)
	return &Logo{TextView: tv}
}

// ProfileData is what the header shows about the running dashboard.
type ProfileData struct {
	Profile       string
	User          string
	Session       string
	ExpiresAt     time.Time
	APIBase       string
	Conversations int
	LastSync      time.Time
}

// ProfileInfo displays profile and session metadata in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the profile info.
func (pi *ProfileInfo) Update(d ProfileData, now time.Time) {
	pi.Clear()

	fg := ColorName(pi.theme.FgColor)
	val := ColorName(pi.theme.CounterColor)
	state := ColorName(pi.theme.SessionColor(d.Session))

	row := func(label, color, value string) {
		_, _ = fmt.Fprintf(pi, "[%s::b]%-9s[-:-:-] [%s]%s[-]\n", fg, label+":", color, tview.Escape(orDash(value)))
	}
	row("Profile", val, d.Profile)
	row("User", val, d.User)
	row("Session", state, d.Session+expiresIn(d.ExpiresAt, now))
	row("API", val, d.APIBase)
	row("Chats", val, fmt.Sprintf("%d", d.Conversations))
	row("Synced", val, syncedAgo(d.LastSync, now))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func expiresIn(t, now time.Time) string {
	if t.IsZero() || !t.After(now) {
		return ""
	}
	return " (" + formatDuration(t.Sub(now)) + ")"
}

func syncedAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return formatDuration(now.Sub(t)) + " ago"
}

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
