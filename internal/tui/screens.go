package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/resource"
	"github.com/matheus3301/padesk/internal/tui/ui"
	"github.com/matheus3301/padesk/internal/tui/views"
)

// screen is one record table bound to a resource module.
type screen struct {
	page    string
	key     rune
	table   *views.ResourceTable
	changes <-chan struct{}

	mu      sync.Mutex
	current int // page number last requested; 0 means the backend default

	load      func(ctx context.Context, page int) error
	state     func() (rows [][]string, footer string, loading bool, errMsg string)
	setStatus func(ctx context.Context, id, status string) error
	remove    func(ctx context.Context, id string) error
}

// reload fetches the screen's current page.
func (s *screen) reload(ctx context.Context) error {
	s.mu.Lock()
	page := s.current
	s.mu.Unlock()
	return s.load(ctx, page)
}

// goTo fetches page n and makes it the current page.
func (s *screen) goTo(ctx context.Context, n int) error {
	s.mu.Lock()
	s.current = n
	s.mu.Unlock()
	return s.load(ctx, n)
}

func (s *screen) render() {
	rows, footer, loading, errMsg := s.state()
	s.table.Update(rows, footer, loading, errMsg)
}

// newScreen binds a module to a table. row formats one entity's visible cells.
func newScreen[E collection.Entity](theme *ui.Theme, m *resource.Module[E], key rune, title string, headers []string, row func(E) []string) *screen {
	hints := []ui.MenuHint{
		{Key: "/", Description: "Filter"},
		{Key: "r", Description: "Reload"},
		{Key: ":", Description: "Command"},
		{Key: "c", Description: "Conversations"},
		{Key: "Esc", Description: "Back"},
		{Key: "1-6", Description: "Records", Numeric: true},
	}
	return &screen{
		page:    m.Name(),
		key:     key,
		table:   views.NewResourceTable(theme, title, headers, hints),
		changes: m.Cache().Changes(),
		load: func(ctx context.Context, page int) error {
			_, err := m.List(ctx, resource.ListParams{Page: page})
			return err
		},
		state: func() ([][]string, string, bool, string) {
			st := m.Cache().State()
			var rows [][]string
			footer := ""
			if st.Data != nil {
				rows = make([][]string, 0, len(st.Data.Items))
				for _, e := range st.Data.Items {
					rows = append(rows, append([]string{e.EntityID()}, row(e)...))
				}
				footer = metaFooter(st.Data.Meta)
			}
			errMsg := ""
			if st.Error != nil {
				errMsg = st.Error.Message
			}
			return rows, footer, st.Loading, errMsg
		},
	}
}

// withStatus lets the screen change a record's status, reconciling the
// cached list with the record the backend returned.
func withStatus[E collection.Entity](s *screen, m *resource.Module[E], set func(ctx context.Context, id, status string) (E, error)) *screen {
	s.setStatus = func(ctx context.Context, id, status string) error {
		e, err := set(ctx, id, status)
		if err != nil {
			return err
		}
		m.Optimistic().Update(e)
		return nil
	}
	return s
}

// withDelete lets the screen delete records.
func withDelete[E collection.Entity](s *screen, m *resource.Module[E], del func(ctx context.Context, id string) error) *screen {
	s.remove = func(ctx context.Context, id string) error {
		if err := del(ctx, id); err != nil {
			return err
		}
		m.Optimistic().Remove(id)
		return nil
	}
	return s
}

// walletScreen wraps the transactions table and tracks the balance shown in
// its title.
type walletScreen struct {
	*screen
	wallet *resource.Wallet

	mu      sync.Mutex
	balance *resource.WalletBalance
}

func newWalletScreen(theme *ui.Theme, w *resource.Wallet) *walletScreen {
	ws := &walletScreen{wallet: w}
	ws.screen = newScreen(theme, w.Module, '5', "Wallet",
		[]string{"DATE", "TYPE", "AMOUNT", "DESCRIPTION", "STATUS"}, walletRow)

	list, state := ws.load, ws.state
	ws.load = func(ctx context.Context, page int) error {
		if b, err := w.Balance(ctx); err == nil {
			ws.mu.Lock()
			ws.balance = &b
			ws.mu.Unlock()
		}
		return list(ctx, page)
	}
	ws.state = func() ([][]string, string, bool, string) {
		rows, footer, loading, errMsg := state()
		ws.mu.Lock()
		defer ws.mu.Unlock()
		if ws.balance != nil {
			footer = strings.TrimSpace(fmt.Sprintf("balance %s (available %s) %s",
				money(ws.balance.Balance, ws.balance.Currency),
				money(ws.balance.Available, ws.balance.Currency),
				footer))
		}
		return rows, footer, loading, errMsg
	}
	return ws
}

// move funds or withdraws amount and prepends the resulting transaction.
func (ws *walletScreen) move(ctx context.Context, withdraw bool, amount float64) error {
	in := resource.WalletMovement{Amount: amount}
	var (
		tx  resource.WalletTransaction
		err error
	)
	if withdraw {
		tx, err = ws.wallet.Withdraw(ctx, in)
	} else {
		tx, err = ws.wallet.Fund(ctx, in)
	}
	if err != nil {
		return err
	}
	ws.wallet.Optimistic().Add(tx)
	if b, err := ws.wallet.Balance(ctx); err == nil {
		ws.mu.Lock()
		ws.balance = &b
		ws.mu.Unlock()
	}
	return nil
}

// buildScreens creates one screen per module, keyed 1-6.
func buildScreens(theme *ui.Theme, set *resource.Set) ([]*screen, *walletScreen) {
	listings := withDelete(withStatus(
		newScreen(theme, set.Listings.Module, '1', "Listings",
			[]string{"TITLE", "CITY", "PRICE/NIGHT", "BEDROOMS", "STATUS"}, listingRow),
		set.Listings.Module, set.Listings.SetStatus),
		set.Listings.Module, set.Listings.Delete)
	bookings := withDelete(withStatus(
		newScreen(theme, set.Bookings.Module, '2', "Bookings",
			[]string{"GUEST", "LISTING", "STAY", "GUESTS", "TOTAL", "STATUS"}, bookingRow),
		set.Bookings.Module, set.Bookings.SetStatus),
		set.Bookings.Module, set.Bookings.Delete)
	users := withDelete(withStatus(
		newScreen(theme, set.Users.Module, '3', "Users",
			[]string{"NAME", "EMAIL", "PHONE", "ROLE", "STATUS"}, userRow),
		set.Users.Module, set.Users.SetStatus),
		set.Users.Module, set.Users.Delete)
	transfers := withStatus(
		newScreen(theme, set.Transfers.Module, '4', "Transfers",
			[]string{"PICKUP", "DROPOFF", "WHEN", "PAX", "AMOUNT", "STATUS"}, transferRow),
		set.Transfers.Module, set.Transfers.SetStatus)
	wallet := newWalletScreen(theme, set.Wallet)
	audit := newScreen(theme, set.AuditLogs.Module, '6', "Audit Logs",
		[]string{"WHEN", "ACTOR", "ACTION", "TARGET", "IP"}, auditRow)

	return []*screen{listings, bookings, users, transfers, wallet.screen, audit}, wallet
}

func listingRow(l resource.Listing) []string {
	return []string{l.Title, l.City, money(l.PricePerNight, l.Currency), strconv.Itoa(l.Bedrooms), l.Status}
}

func bookingRow(b resource.Booking) []string {
	guest := b.GuestName
	if guest == "" {
		guest = b.GuestID
	}
	return []string{guest, b.ListingID, b.CheckIn + " → " + b.CheckOut, strconv.Itoa(b.Guests), money(b.TotalAmount, b.Currency), b.Status}
}

func userRow(u resource.User) []string {
	return []string{u.FullName(), u.Email, u.Phone, u.Role, u.Status}
}

func transferRow(t resource.Transfer) []string {
	return []string{t.Pickup, t.Dropoff, t.ScheduledAt, strconv.Itoa(t.Passengers), money(t.Amount, t.Currency), t.Status}
}

func walletRow(w resource.WalletTransaction) []string {
	amount := money(w.Amount, w.Currency)
	if w.Type == "debit" {
		amount = "-" + amount
	}
	return []string{w.CreatedAt, w.Type, amount, w.Description, w.Status}
}

func auditRow(a resource.AuditLog) []string {
	actor := a.ActorEmail
	if actor == "" {
		actor = a.ActorID
	}
	target := a.Entity
	if a.TargetID != "" {
		target += "/" + a.TargetID
	}
	return []string{a.CreatedAt, actor, a.Action, target, a.IP}
}

func money(amount float64, currency string) string {
	return strings.TrimSpace(strconv.FormatFloat(amount, 'f', 2, 64) + " " + currency)
}

// metaFooter renders pagination, e.g. "page 2/5 · 48 total".
func metaFooter(m *collection.Meta) string {
	if m == nil {
		return ""
	}
	var parts []string
	if m.Page > 0 {
		if m.TotalPages > 0 {
			parts = append(parts, fmt.Sprintf("page %d/%d", m.Page, m.TotalPages))
		} else {
			parts = append(parts, fmt.Sprintf("page %d", m.Page))
		}
	}
	if m.TotalItems > 0 {
		parts = append(parts, fmt.Sprintf("%d total", m.TotalItems))
	}
	if m.HasMore {
		parts = append(parts, "more")
	}
	return strings.Join(parts, " · ")
}
