package ui

import (
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/padesk/internal/bus"
)

func TestFlashFromEvent(t *testing.T) {
	tests := []struct {
		kind  string
		level FlashLevel
	}{
		{bus.KindNotifyInfo, FlashInfo},
		{bus.KindNotifyWarn, FlashWarn},
		{bus.KindNotifyError, FlashErr},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			f := NewFlashModel()
			ok := f.FromEvent(bus.Event{Kind: tt.kind, Payload: bus.Notification{Title: "Saved", Description: "ok"}})
			if !ok {
				t.Fatal("FromEvent() = false, want true")
			}
			m := f.Current()
			if m == nil {
				t.Fatal("Current() = nil")
			}
			if m.Level != tt.level || m.Title != "Saved" || m.Description != "ok" {
				t.Errorf("Current() = %+v", m)
			}
		})
	}
}

func TestFlashIgnoresOtherEvents(t *testing.T) {
	f := NewFlashModel()
	if f.FromEvent(bus.Event{Kind: bus.KindSessionStatus, Payload: "x"}) {
		t.Error("FromEvent(session) = true, want false")
	}
	if f.FromEvent(bus.Event{Kind: bus.KindNotifyInfo, Payload: "not a notification"}) {
		t.Error("FromEvent(bad payload) = true, want false")
	}
	if f.Current() != nil {
		t.Error("Current() should be nil")
	}
}

func TestFlashExpiresAndDismisses(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Err("Send failed", errors.New("boom"))
	if m := f.Current(); m == nil || m.Description != "boom" {
		t.Fatalf("Current() = %+v", m)
	}

	now = now.Add(11 * time.Second)
	if f.Current() != nil {
		t.Error("error flash should expire after 10s")
	}

	f.Info("hello")
	f.Dismiss()
	if f.Current() != nil {
		t.Error("Dismiss() should clear the flash")
	}
}
