// Package optimistic reconciles known local mutations into a cached collection
// without a network round trip. None of the functions modify their input.
package optimistic

import (
	"github.com/matheus3301/padesk/internal/collection"
	"github.com/matheus3301/padesk/internal/reqcache"
)

// Add prepends e and counts it in Meta.TotalItems. An item already carrying
// e's id is replaced by the prepended copy and not counted twice.
func Add[E collection.Entity](c collection.Collection[E], e E) collection.Collection[E] {
	id := e.EntityID()
	items := make([]E, 0, len(c.Items)+1)
	items = append(items, e)
	dup := false
	for _, item := range c.Items {
		if item.EntityID() == id {
			dup = true
			continue
		}
		items = append(items, item)
	}

	out := collection.Collection[E]{Items: items, Meta: c.Meta}
	if c.Meta != nil && !dup {
		m := *c.Meta
		m.TotalItems++
		out.Meta = &m
	}
	return out
}

// Update replaces the item sharing e's id. When no item matches, c is returned
// as is.
func Update[E collection.Entity](c collection.Collection[E], e E) collection.Collection[E] {
	i := c.IndexOf(e.EntityID())
	if i < 0 {
		return c
	}
	items := make([]E, len(c.Items))
	copy(items, c.Items)
	items[i] = e
	return collection.Collection[E]{Items: items, Meta: c.Meta}
}

// Remove filters id out of the items. Meta.TotalItems is left unchanged until
// the next refetch.
func Remove[E collection.Entity](c collection.Collection[E], id string) collection.Collection[E] {
	items := make([]E, 0, len(c.Items))
	for _, item := range c.Items {
		if item.EntityID() != id {
			items = append(items, item)
		}
	}
	return collection.Collection[E]{Items: items, Meta: c.Meta}
}

// Bridge applies Add, Update and Remove to a cache's collection. A cache that
// has not loaded yet is left untouched; loading and error are never changed.
type Bridge[E collection.Entity] struct {
	cache *reqcache.Cache[collection.Collection[E]]
}

// NewBridge binds a bridge to cache.
func NewBridge[E collection.Entity](cache *reqcache.Cache[collection.Collection[E]]) *Bridge[E] {
	return &Bridge[E]{cache: cache}
}

// Add prepends e in the cached collection.
func (b *Bridge[E]) Add(e E) {
	b.apply(func(c collection.Collection[E]) collection.Collection[E] { return Add(c, e) })
}

// Update replaces e in the cached collection.
func (b *Bridge[E]) Update(e E) {
	b.apply(func(c collection.Collection[E]) collection.Collection[E] { return Update(c, e) })
}

// Remove drops id from the cached collection.
func (b *Bridge[E]) Remove(id string) {
	b.apply(func(c collection.Collection[E]) collection.Collection[E] { return Remove(c, id) })
}

func (b *Bridge[E]) apply(fn func(collection.Collection[E]) collection.Collection[E]) {
	b.cache.SetState(func(s reqcache.State[collection.Collection[E]]) reqcache.State[collection.Collection[E]] {
		if s.Data == nil {
			return s
		}
		next := fn(*s.Data)
		s.Data = &next
		return s
	})
}
