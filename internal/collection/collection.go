// Package collection is the in-memory form of a paginated list response.
package collection

import (
	"encoding/json"
	"fmt"

	"github.com/matheus3301/padesk/internal/wire"
)

// Entity is anything with a stable identifier.
type Entity interface {
	EntityID() string
}

// Meta is the pagination block of a list response.
type Meta struct {
	TotalItems int  `json:"totalItems"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// Collection is an ordered list of entities with unique ids. Meta is nil when
// the backend sent none.
type Collection[E Entity] struct {
	Items []E
	Meta  *Meta
}

// Empty returns a well-formed collection with no items and no meta.
func Empty[E Entity]() Collection[E] {
	return Collection[E]{Items: []E{}}
}

// IndexOf returns the position of id in c, or -1.
func (c Collection[E]) IndexOf(id string) int {
	for i, item := range c.Items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// Decode reads a list response in any of the accepted wire shapes.
func Decode[E Entity](raw []byte) (Collection[E], error) {
	p, err := wire.Unwrap(raw)
	if err != nil {
		return Collection[E]{}, err
	}
	items := []E{}
	if err := p.DecodeList(&items); err != nil {
		return Collection[E]{}, err
	}

	out := Collection[E]{Items: items}
	if p.Meta.IsObject() {
		var m Meta
		if err := json.Unmarshal([]byte(p.Meta.Raw), &m); err != nil {
			return Collection[E]{}, fmt.Errorf("decode meta: %w", err)
		}
		out.Meta = &m
	}
	return out, nil
}
