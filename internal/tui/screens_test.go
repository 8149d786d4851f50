package tui

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"sync"
	"testing"

	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/policy"
	"github.com/matheus3301/padesk/internal/resource"
	"github.com/matheus3301/padesk/internal/tui/ui"
)

// fakeClient answers by "METHOD path"; unknown routes fail.
type fakeClient struct {
	mu      sync.Mutex
	routes  map[string]string
	queries []url.Values
}

func (f *fakeClient) reply(method, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.routes[method+" "+path]
	if !ok {
		return nil, errors.New("no route " + method + " " + path)
	}
	return []byte(body), nil
}

func (f *fakeClient) Get(_ context.Context, path string, query url.Values) ([]byte, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	return f.reply("GET", path)
}

func (f *fakeClient) Post(_ context.Context, path string, _ any) ([]byte, error) {
	return f.reply("POST", path)
}

func (f *fakeClient) Patch(_ context.Context, path string, _ any) ([]byte, error) {
	return f.reply("PATCH", path)
}

func (f *fakeClient) Delete(_ context.Context, path string) ([]byte, error) {
	return f.reply("DELETE", path)
}

func newTestScreens(t *testing.T, routes map[string]string) ([]*screen, *walletScreen, *fakeClient) {
	t.Helper()
	fc := &fakeClient{routes: routes}
	set := resource.NewSet(resource.Deps{Ctx: context.Background(), Client: fc, Policy: policy.New(nil, nil)})
	t.Cleanup(set.Close)
	screens, wallet := buildScreens(ui.DefaultTheme(), set)
	return screens, wallet, fc
}

func TestBuildScreensKeysAndPages(t *testing.T) {
	screens, _, _ := newTestScreens(t, nil)
	var pages []string
	var keys []rune
	for _, s := range screens {
		pages = append(pages, s.page)
		keys = append(keys, s.key)
	}
	wantPages := []string{"listings", "bookings", "users", "transfers", "wallet-transactions", "audit-logs"}
	if !slices.Equal(pages, wantPages) {
		t.Errorf("pages = %v, want %v", pages, wantPages)
	}
	if !slices.Equal(keys, []rune("123456")) {
		t.Errorf("keys = %q", string(keys))
	}
	if screens[5].setStatus != nil || screens[5].remove != nil {
		t.Error("audit logs should be read-only")
	}
	if screens[3].remove != nil {
		t.Error("transfers should not support delete")
	}
}

func TestScreenStateAndStatusUpdate(t *testing.T) {
	screens, _, fc := newTestScreens(t, map[string]string{
		"GET /v1/listings": `{"data":[{"id":"l1","title":"Loft","city":"Lagos","pricePerNight":120,"currency":"USD","bedrooms":2,"status":"draft"}],` +
			`"meta":{"totalItems":1,"page":1,"totalPages":1}}`,
		"PATCH /v1/listings/l1/status": `{"data":{"id":"l1","title":"Loft","city":"Lagos","pricePerNight":120,"currency":"USD","bedrooms":2,"status":"active"}}`,
	})
	listings := screens[0]

	if err := listings.goTo(context.Background(), 1); err != nil {
		t.Fatalf("goTo() error = %v", err)
	}
	if got := fc.queries[0].Get("page"); got != "1" {
		t.Errorf("page query = %q, want 1", got)
	}

	rows, footer, loading, errMsg := listings.state()
	want := []string{"l1", "Loft", "Lagos", "120.00 USD", "2", "draft"}
	if len(rows) != 1 || !slices.Equal(rows[0], want) {
		t.Fatalf("rows = %v, want [%v]", rows, want)
	}
	if footer != "page 1/1 · 1 total" || loading || errMsg != "" {
		t.Errorf("footer=%q loading=%v err=%q", footer, loading, errMsg)
	}

	if err := listings.setStatus(context.Background(), "l1", "active"); err != nil {
		t.Fatalf("setStatus() error = %v", err)
	}
	rows, _, _, _ = listings.state()
	if rows[0][5] != "active" {
		t.Errorf("status after update = %q, want active", rows[0][5])
	}
}

func TestScreenDeleteRemovesRow(t *testing.T) {
	screens, _, _ := newTestScreens(t, map[string]string{
		"GET /v1/users":       `[{"id":"u1","firstName":"Ana","email":"ana@example.com"},{"id":"u2","firstName":"Bruno"}]`,
		"DELETE /v1/users/u1": ``,
	})
	users := screens[2]
	if err := users.reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := users.remove(context.Background(), "u1"); err != nil {
		t.Fatalf("remove() error = %v", err)
	}
	rows, _, _, _ := users.state()
	if len(rows) != 1 || rows[0][0] != "u2" {
		t.Errorf("rows = %v, want only u2", rows)
	}
}

func TestScreenErrorShowsInState(t *testing.T) {
	screens, _, _ := newTestScreens(t, nil)
	if err := screens[1].reload(context.Background()); err == nil {
		t.Fatal("reload() expected error")
	}
	_, _, loading, errMsg := screens[1].state()
	if loading || errMsg == "" {
		t.Errorf("loading=%v err=%q, want settled error", loading, errMsg)
	}
}

func TestWalletScreenBalanceAndMove(t *testing.T) {
	_, wallet, _ := newTestScreens(t, map[string]string{
		"GET /v1/wallet/balance":      `{"data":{"balance":150,"available":100,"currency":"EUR"}}`,
		"GET /v1/wallet/transactions": `{"data":[{"id":"t1","type":"credit","amount":150,"currency":"EUR","status":"completed"}]}`,
		"POST /v1/wallet/withdraw":    `{"data":{"id":"t2","type":"debit","amount":20,"currency":"EUR","status":"pending"}}`,
	})

	if err := wallet.reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	rows, footer, _, _ := wallet.state()
	if len(rows) != 1 {
		t.Fatalf("rows = %v", rows)
	}
	if footer != "balance 150.00 EUR (available 100.00 EUR)" {
		t.Errorf("footer = %q", footer)
	}

	if err := wallet.move(context.Background(), true, 20); err != nil {
		t.Fatalf("move() error = %v", err)
	}
	rows, _, _, _ = wallet.state()
	if len(rows) != 2 || rows[0][0] != "t2" || rows[0][3] != "-20.00 EUR" {
		t.Errorf("rows after withdraw = %v, want t2 first as a debit", rows)
	}
}

func TestRowFormatting(t *testing.T) {
	if got := bookingRow(resource.Booking{GuestID: "g1", ListingID: "l1", CheckIn: "2026-03-01", CheckOut: "2026-03-04", Guests: 2, TotalAmount: 300, Currency: "USD", Status: "pending"}); !slices.Equal(got,
		[]string{"g1", "l1", "2026-03-01 → 2026-03-04", "2", "300.00 USD", "pending"}) {
		t.Errorf("bookingRow() = %v", got)
	}
	if got := auditRow(resource.AuditLog{ActorID: "a1", Action: "update", Entity: "booking", TargetID: "b9", CreatedAt: "now"}); !slices.Equal(got,
		[]string{"now", "a1", "update", "booking/b9", ""}) {
		t.Errorf("auditRow() = %v", got)
	}
	if got := money(12, ""); got != "12.00" {
		t.Errorf("money() = %q", got)
	}
}

func TestMetaFooter(t *testing.T) {
	tests := []struct {
		meta *collection.Meta
		want string
	}{
		{nil, ""},
		{&collection.Meta{}, ""},
		{&collection.Meta{Page: 2}, "page 2"},
		{&collection.Meta{Page: 2, TotalPages: 5, TotalItems: 48, HasMore: true}, "page 2/5 · 48 total · more"},
	}
	for _, tt := range tests {
		if got := metaFooter(tt.meta); got != tt.want {
			t.Errorf("metaFooter(%+v) = %q, want %q", tt.meta, got, tt.want)
		}
	}
}
