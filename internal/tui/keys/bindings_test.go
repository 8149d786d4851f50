package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHandleEventPrefersView(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal(&Action{Key: tcell.KeyRune, Rune: 'r', Handler: func() { got = "global" }})
	r.AddView("thread", &Action{Key: tcell.KeyRune, Rune: 'r', Handler: func() { got = "thread" }})

	if !r.HandleEvent("thread", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)) {
		t.Fatal("HandleEvent() = false, want true")
	}
	if got != "thread" {
		t.Errorf("handler = %q, want thread", got)
	}

	if !r.HandleEvent("conversations", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)) {
		t.Fatal("HandleEvent() = false, want true")
	}
	if got != "global" {
		t.Errorf("handler = %q, want global", got)
	}
}

func TestHandleEventSpecialKeys(t *testing.T) {
	r := NewRegistry()
	called := false
	r.AddGlobal(&Action{Key: tcell.KeyEscape, Handler: func() { called = true }})

	if r.HandleEvent("any", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("unbound rune should not match")
	}
	if !r.HandleEvent("any", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) || !called {
		t.Error("Esc binding did not fire")
	}
}
