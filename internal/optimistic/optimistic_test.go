package optimistic

import (
	"context"
	"errors"
	"testing"

	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/reqcache"
)

type booking struct {
	ID     string
	Status string
}

func (b booking) EntityID() string { return b.ID }

func seed() collection.Collection[booking] {
	return collection.Collection[booking]{
		Items: []booking{{ID: "b1", Status: "pending"}, {ID: "b2", Status: "confirmed"}},
		Meta:  &collection.Meta{TotalItems: 2, Page: 1, Limit: 20, TotalPages: 1},
	}
}

func ids(c collection.Collection[booking]) []string {
	out := make([]string, len(c.Items))
	for i, b := range c.Items {
		out[i] = b.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAddPrepends(t *testing.T) {
	c := seed()
	got := Add(c, booking{ID: "b3"})

	if want := []string{"b3", "b1", "b2"}; !equal(ids(got), want) {
		t.Errorf("items = %v, want %v", ids(got), want)
	}
	if got.Meta.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3", got.Meta.TotalItems)
	}
	if len(c.Items) != 2 || c.Meta.TotalItems != 2 {
		t.Errorf("input mutated: %v total=%d", ids(c), c.Meta.TotalItems)
	}
}

func TestAddExistingIDKeepsUnique(t *testing.T) {
	got := Add(seed(), booking{ID: "b2", Status: "cancelled"})

	if want := []string{"b2", "b1"}; !equal(ids(got), want) {
		t.Errorf("items = %v, want %v", ids(got), want)
	}
	if got.Items[0].Status != "cancelled" {
		t.Errorf("Status = %q, want cancelled", got.Items[0].Status)
	}
	if got.Meta.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", got.Meta.TotalItems)
	}
}

func TestAddWithoutMeta(t *testing.T) {
	got := Add(collection.Empty[booking](), booking{ID: "b1"})
	if len(got.Items) != 1 || got.Meta != nil {
		t.Errorf("got %+v", got)
	}
}

func TestAddThenRemoveRestoresItems(t *testing.T) {
	before := seed()
	after := Remove(Add(before, booking{ID: "b9"}), "b9")

	if !equal(ids(after), ids(before)) {
		t.Errorf("items = %v, want %v", ids(after), ids(before))
	}
	// Remove does not decrement the count: the add is still reflected in
	// TotalItems until the next refetch.
	if after.Meta.TotalItems != before.Meta.TotalItems+1 {
		t.Errorf("TotalItems = %d, want %d", after.Meta.TotalItems, before.Meta.TotalItems+1)
	}
}

func TestUpdateReplaces(t *testing.T) {
	c := seed()
	got := Update(c, booking{ID: "b1", Status: "confirmed"})

	if got.Items[0].Status != "confirmed" {
		t.Errorf("Status = %q, want confirmed", got.Items[0].Status)
	}
	if c.Items[0].Status != "pending" {
		t.Error("input mutated")
	}
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	c := seed()
	got := Update(c, booking{ID: "missing", Status: "confirmed"})

	if &got.Items[0] != &c.Items[0] || len(got.Items) != len(c.Items) {
		t.Error("items slice replaced, want the same backing array")
	}
	if got.Meta != c.Meta {
		t.Error("meta replaced")
	}
}

func TestRemoveUnknownID(t *testing.T) {
	got := Remove(seed(), "missing")
	if want := []string{"b1", "b2"}; !equal(ids(got), want) {
		t.Errorf("items = %v", ids(got))
	}
}

func TestBridge(t *testing.T) {
	cache := reqcache.New[collection.Collection[booking]](context.Background())
	defer cache.Close()
	b := NewBridge(cache)

	b.Add(booking{ID: "b0"})
	if cache.State().Data != nil {
		t.Fatal("bridge populated a cache that never loaded")
	}

	if _, err := cache.Request(context.Background(), func(ctx context.Context) (collection.Collection[booking], error) {
		return seed(), nil
	}); err != nil {
		t.Fatal(err)
	}
	_, _ = cache.Request(context.Background(), func(ctx context.Context) (collection.Collection[booking], error) {
		return collection.Collection[booking]{}, errors.New("refetch failed")
	})
	errBefore := cache.State().Error

	b.Add(booking{ID: "b3"})
	b.Update(booking{ID: "b1", Status: "confirmed"})
	b.Remove("b2")

	s := cache.State()
	if want := []string{"b3", "b1"}; !equal(ids(*s.Data), want) {
		t.Errorf("items = %v, want %v", ids(*s.Data), want)
	}
	if s.Data.Items[1].Status != "confirmed" {
		t.Errorf("b1 status = %q", s.Data.Items[1].Status)
	}
	if s.Loading || s.Error != errBefore {
		t.Errorf("bridge touched loading/error: %+v", s)
	}
}
