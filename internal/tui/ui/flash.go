package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/matheus3301/padesk/internal/bus"
	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// flashTTL is how long each level stays on screen.
var flashTTL = map[FlashLevel]time.Duration{
	FlashInfo: 5 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  10 * time.Second,
}

// FlashMessage is a notification with a level and expiry.
type FlashMessage struct {
	Title       string
	Description string
	Level       FlashLevel
	Expires     time.Time
}

// FlashModel holds the most recent notification until it expires or is dismissed.
type FlashModel struct {
	mu      sync.RWMutex
	current FlashMessage
	now     func() time.Time
}

// NewFlashModel creates a new flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{now: time.Now}
}

// Info sets an info-level flash message.
func (f *FlashModel) Info(title string) {
	f.set(FlashInfo, title, "")
}

// Warn sets a warn-level flash message.
func (f *FlashModel) Warn(title string) {
	f.set(FlashWarn, title, "")
}

// Err sets an error-level flash message with err as the description.
func (f *FlashModel) Err(title string, err error) {
	f.set(FlashErr, title, err.Error())
}

// FromEvent shows a notify.* bus event. Other events are ignored and
// reported as false.
func (f *FlashModel) FromEvent(evt bus.Event) bool {
	n, ok := evt.Payload.(bus.Notification)
	if !ok {
		return false
	}
	switch evt.Kind {
	case bus.KindNotifyInfo:
		f.set(FlashInfo, n.Title, n.Description)
	case bus.KindNotifyWarn:
		f.set(FlashWarn, n.Title, n.Description)
	case bus.KindNotifyError:
		f.set(FlashErr, n.Title, n.Description)
	default:
		return false
	}
	return true
}

// Dismiss clears the current message.
func (f *FlashModel) Dismiss() {
	f.mu.Lock()
	f.current = FlashMessage{}
	f.mu.Unlock()
}

func (f *FlashModel) set(level FlashLevel, title, description string) {
	f.mu.Lock()
	f.current = FlashMessage{
		Title:       title,
		Description: description,
		Level:       level,
		Expires:     f.now().Add(flashTTL[level]),
	}
	f.mu.Unlock()
}

// Current returns the current message, or nil if expired or dismissed.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.current.Title == "" || f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}

	var color string
	switch msg.Level {
	case FlashInfo:
		color = ColorName(fb.theme.FlashInfoColor)
	case FlashWarn:
		color = ColorName(fb.theme.FlashWarnColor)
	case FlashErr:
		color = ColorName(fb.theme.FlashErrColor)
	}
	_, _ = fmt.Fprintf(fb, " [%s::b]%s[-:-:-]", color, tview.Escape(msg.Title))
	if msg.Description != "" {
		_, _ = fmt.Fprintf(fb, " [%s]%s[-]", color, tview.Escape(msg.Description))
	}
}
