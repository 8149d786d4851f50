package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/matheus3301/padesk/internal/apiclient"
	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/policy"
)

type request struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []request
	handler  http.HandlerFunc
}

func (f *fakeBackend) last() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func newSet(t *testing.T, handler http.HandlerFunc) (*Set, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		_ = json.NewDecoder(r.Body).Decode(&req.Body)
		fb.mu.Lock()
		fb.requests = append(fb.requests, req)
		fb.mu.Unlock()
		fb.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: srv.URL}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	set := NewSet(Deps{Ctx: context.Background(), Client: client, Policy: policy.New(nil, nil)})
	t.Cleanup(set.Close)
	return set, fb
}

func TestListParamsQuery(t *testing.T) {
	q := ListParams{Page: 2, Limit: 25, Search: "loft", Status: "active", Filters: map[string]string{"city": "Lagos", "empty": ""}}.Query()
	if got := q.Encode(); got != "city=Lagos&limit=25&page=2&search=loft&status=active" {
		t.Errorf("query = %s", got)
	}
	if got := (ListParams{}).Query().Encode(); got != "" {
		t.Errorf("zero params query = %q", got)
	}
}

func TestListDecodesAndCaches(t *testing.T) {
	set, fb := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"l1","title":"Loft","status":"active"}],"meta":{"totalItems":41,"page":2,"limit":1,"totalPages":41,"hasMore":true}}`))
	})

	got, err := set.Listings.List(context.Background(), ListParams{Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Title != "Loft" {
		t.Errorf("items = %+v", got.Items)
	}
	if got.Meta == nil || got.Meta.TotalItems != 41 || !got.Meta.HasMore {
		t.Errorf("meta = %+v", got.Meta)
	}
	if req := fb.last(); req.Path != "/v1/listings" || req.Query != "limit=1&page=2" {
		t.Errorf("request = %+v", req)
	}

	s := set.Listings.Cache().State()
	if s.Data == nil || len(s.Data.Items) != 1 || s.Loading || s.Error != nil {
		t.Errorf("cache state = %+v", s)
	}
}

func TestListForbiddenDegradesOnEveryModule(t *testing.T) {
	set, _ := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden resource"}`))
	})
	ctx := context.Background()

	check := func(name string, items int, meta *collection.Meta, err error) {
		t.Helper()
		if err != nil {
			t.Errorf("%s: err = %v, want nil", name, err)
		}
		if items != 0 || meta != nil {
			t.Errorf("%s: got %d items meta=%+v, want empty", name, items, meta)
		}
	}

	l, err := set.Listings.List(ctx, ListParams{})
	check("listings", len(l.Items), l.Meta, err)
	b, err := set.Bookings.List(ctx, ListParams{})
	check("bookings", len(b.Items), b.Meta, err)
	u, err := set.Users.List(ctx, ListParams{})
	check("users", len(u.Items), u.Meta, err)
	tr, err := set.Transfers.List(ctx, ListParams{})
	check("transfers", len(tr.Items), tr.Meta, err)
	a, err := set.AuditLogs.List(ctx, ListParams{})
	check("audit-logs", len(a.Items), a.Meta, err)
	w, err := set.Wallet.List(ctx, ListParams{})
	check("wallet", len(w.Items), w.Meta, err)

	if s := set.AuditLogs.Cache().State(); s.Error != nil || s.Data == nil || s.Data.Items == nil {
		t.Errorf("audit log cache = %+v, want empty data without error", s)
	}
}

func TestListOtherErrorsReachCache(t *testing.T) {
	set, _ := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"page must be positive"}`))
	})

	_, err := set.Bookings.List(context.Background(), ListParams{Page: -1})
	if apiclient.KindOf(err) != apiclient.KindStructuredAPI {
		t.Fatalf("kind = %v, want structured_api", apiclient.KindOf(err))
	}
	s := set.Bookings.Cache().State()
	if s.Error == nil || s.Error.Message != "page must be positive" {
		t.Errorf("cache error = %+v", s.Error)
	}
}

func TestWritesHitEndpointsWithoutTouchingCache(t *testing.T) {
	set, fb := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"data":[{"id":"b1","status":"pending"}],"meta":{"totalItems":1}}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = w.Write([]byte(`{"data":{"id":"b1","status":"confirmed"}}`))
		}
	})
	ctx := context.Background()

	if _, err := set.Bookings.List(ctx, ListParams{}); err != nil {
		t.Fatal(err)
	}
	before := set.Bookings.Cache().State().Data

	created, err := set.Bookings.Create(ctx, BookingInput{ListingID: "l1", Guests: 2})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.ID != "b1" {
		t.Errorf("created = %+v", created)
	}
	if req := fb.last(); req.Method != http.MethodPost || req.Path != "/v1/bookings" || req.Body["listingId"] != "l1" {
		t.Errorf("create request = %+v", req)
	}

	updated, err := set.Bookings.SetStatus(ctx, "b1", BookingConfirmed)
	if err != nil {
		t.Fatalf("SetStatus() error = %v", err)
	}
	if updated.Status != BookingConfirmed {
		t.Errorf("status = %q", updated.Status)
	}
	if req := fb.last(); req.Method != http.MethodPatch || req.Path != "/v1/bookings/b1/status" || req.Body["status"] != "confirmed" {
		t.Errorf("status request = %+v", req)
	}

	if _, err := set.Bookings.Update(ctx, "b1", BookingInput{Guests: 3}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if req := fb.last(); req.Method != http.MethodPatch || req.Path != "/v1/bookings/b1" {
		t.Errorf("update request = %+v", req)
	}

	if err := set.Bookings.Delete(ctx, "b1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if req := fb.last(); req.Method != http.MethodDelete || req.Path != "/v1/bookings/b1" {
		t.Errorf("delete request = %+v", req)
	}

	if after := set.Bookings.Cache().State().Data; after != before {
		t.Error("writes replaced the cached collection")
	}

	set.Bookings.Optimistic().Update(updated)
	if got := set.Bookings.Cache().State().Data.Items[0].Status; got != BookingConfirmed {
		t.Errorf("optimistic update status = %q", got)
	}
}

func TestWriteForbiddenIsLoud(t *testing.T) {
	set, _ := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := set.Users.SetStatus(context.Background(), "u1", UserSuspended)
	if apiclient.KindOf(err) != apiclient.KindAuthorizationDenied {
		t.Errorf("kind = %v, want authorization_denied", apiclient.KindOf(err))
	}
}

func TestWallet(t *testing.T) {
	set, fb := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/wallet/balance":
			_, _ = w.Write([]byte(`{"data":{"balance":1200.5,"available":1000,"pending":200.5,"currency":"NGN"}}`))
		case "/v1/wallet/fund", "/v1/wallet/withdraw":
			_, _ = w.Write([]byte(`{"data":{"id":"tx1","type":"credit","amount":50,"status":"completed"}}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	bal, err := set.Wallet.Balance(ctx)
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if bal.Balance != 1200.5 || bal.Currency != "NGN" {
		t.Errorf("balance = %+v", bal)
	}

	tx, err := set.Wallet.Fund(ctx, WalletMovement{Amount: 50, Currency: "NGN"})
	if err != nil {
		t.Fatalf("Fund() error = %v", err)
	}
	if tx.ID != "tx1" {
		t.Errorf("tx = %+v", tx)
	}
	if req := fb.last(); req.Path != "/v1/wallet/fund" || req.Body["amount"] != float64(50) {
		t.Errorf("fund request = %+v", req)
	}

	if _, err := set.Wallet.Withdraw(ctx, WalletMovement{Amount: 0}); err == nil {
		t.Error("Withdraw(0) should fail")
	}
}

func TestWalletBalanceNotDegraded(t *testing.T) {
	set, _ := newSet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	if _, err := set.Wallet.Balance(context.Background()); apiclient.KindOf(err) != apiclient.KindAuthorizationDenied {
		t.Errorf("Balance() err = %v, want authorization_denied", err)
	}
}

func TestUserFullName(t *testing.T) {
	tests := []struct {
		u    User
		want string
	}{
		{User{FirstName: "Ada", LastName: "Obi"}, "Ada Obi"},
		{User{FirstName: "Ada"}, "Ada"},
		{User{LastName: "Obi"}, "Obi"},
	}
	for _, tt := range tests {
		if got := tt.u.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}
