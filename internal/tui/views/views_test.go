package views

import (
	"testing"

	"github.com/matheus3301/padesk/internal/chat"
	"github.com/matheus3301/padesk/internal/tui/ui"
)

func TestConversationListFilter(t *testing.T) {
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update([]chat.Conversation{
		{ID: "c1", ClientName: "Ana Souza", LastMessage: "check-in time?"},
		{ID: "c2", ClientName: "Bruno", ClientPhone: "+55 11 9999", LastMessage: "thanks"},
	}, false, "")

	if c, ok := cl.ByIndex(2); !ok || c.ID != "c2" {
		t.Fatalf("ByIndex(2) = %+v, %v", c, ok)
	}

	cl.SetFilter("CHECK")
	if c, ok := cl.ByIndex(1); !ok || c.ID != "c1" {
		t.Errorf("filtered ByIndex(1) = %+v, %v", c, ok)
	}
	if _, ok := cl.ByIndex(2); ok {
		t.Error("filtered list should have one row")
	}

	cl.SetFilter("9999")
	if c, ok := cl.ByIndex(1); !ok || c.ID != "c2" {
		t.Errorf("phone filter ByIndex(1) = %+v, %v", c, ok)
	}

	cl.SetFilter("")
	if cl.GetRowCount() != 3 {
		t.Errorf("rows = %d, want header + 2", cl.GetRowCount())
	}
}

func TestResourceTableSelectedID(t *testing.T) {
	rt := NewResourceTable(ui.DefaultTheme(), "Users", []string{"NAME", "EMAIL"}, nil)
	rt.Update([][]string{
		{"u1", "Ana", "ana@example.com"},
		{"u2", "Bruno", "bruno@example.com"},
	}, "page 1/1", false, "")

	rt.Select(2, 0)
	if got := rt.SelectedID(); got != "u2" {
		t.Errorf("SelectedID() = %q, want u2", got)
	}

	rt.SetFilter("ana@")
	rt.Select(1, 0)
	if got := rt.SelectedID(); got != "u1" {
		t.Errorf("filtered SelectedID() = %q, want u1", got)
	}
	if rt.GetRowCount() != 2 {
		t.Errorf("rows = %d, want header + 1", rt.GetRowCount())
	}
}

func TestListTitle(t *testing.T) {
	tests := []struct {
		name    string
		shown   int
		total   int
		filter  string
		loading bool
		errMsg  string
		want    string
	}{
		{"plain", 2, 2, "", false, "", " Users (2) "},
		{"filtered", 1, 2, "ana", false, "", " Users (1/2) filter: ana "},
		{"loading", 0, 0, "", true, "", " Users (0) [::d]loading…[-:-:-] "},
		{"error", 0, 0, "", false, "boom", " Users (0) [red]! boom[-] "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listTitle("Users", tt.shown, tt.total, tt.filter, tt.loading, tt.errMsg); got != tt.want {
				t.Errorf("listTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComposerKeepsDraftOnFailedSend(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.Open(chat.Conversation{ID: "c1", ClientName: "Ana"})

	var done func(bool)
	calls := 0
	mt.SetOnSend(func(text string, d func(bool)) {
		calls++
		if text != "see you at 3" {
			t.Errorf("text = %q", text)
		}
		done = d
	})

	mt.Composer().SetText("see you at 3")
	mt.submit()
	mt.submit() // ignored while the first send is pending
	if calls != 1 {
		t.Fatalf("onSend calls = %d, want 1", calls)
	}

	done(false)
	if got := mt.Composer().GetText(); got != "see you at 3" {
		t.Errorf("draft after failure = %q, want kept", got)
	}

	mt.submit()
	done(true)
	if got := mt.Composer().GetText(); got != "" {
		t.Errorf("draft after success = %q, want cleared", got)
	}
	if calls != 2 {
		t.Errorf("onSend calls = %d, want 2", calls)
	}
}

func TestOpenOtherConversationDropsDraft(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.Open(chat.Conversation{ID: "c1"})
	mt.Composer().SetText("draft")

	mt.Open(chat.Conversation{ID: "c1", ClientName: "Ana"})
	if mt.Composer().GetText() != "draft" {
		t.Error("reopening the same conversation should keep the draft")
	}
	mt.Open(chat.Conversation{ID: "c2"})
	if mt.Composer().GetText() != "" {
		t.Error("opening another conversation should drop the draft")
	}
}
