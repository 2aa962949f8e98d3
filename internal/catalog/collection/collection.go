// Package collection provides the append-only store shared by games and
// index items. Identities are 1-based insertion positions handed out by an
// explicit counter and never reassigned.
package collection

import (
	"iter"

	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// Entry is implemented by everything a Collection can hold.
type Entry interface {
	EntryName() string
	AssignID(id int)
}

// Searchable entries expose attribute substring matching.
type Searchable interface {
	Entry
	AttributeContains(attr, needle string) (bool, error)
}

// Collection is an ordered list of entries plus a running count.
type Collection[T Entry] struct {
	count int
	items []T
}

// New returns an empty collection.
func New[T Entry]() *Collection[T] {
	return &Collection[T]{}
}

// FromSlice wraps entries that already carry their identities, such as the
// result of a query. Identities are left untouched.
func FromSlice[T Entry](items []T) *Collection[T] {
	return &Collection[T]{count: len(items), items: items}
}

// Append assigns the next identity to item, stores it and returns the
// identity.
func (c *Collection[T]) Append(item T) int {
	c.count++
	item.AssignID(c.count)
	c.items = append(c.items, item)
	return c.count
}

// Count returns the number of entries.
func (c *Collection[T]) Count() int {
	return c.count
}

// Last returns the most recently appended entry.
func (c *Collection[T]) Last() (T, bool) {
	if len(c.items) == 0 {
		var zero T
		return zero, false
	}
	return c.items[len(c.items)-1], true
}

// Get returns the entry at 1-based position id.
func (c *Collection[T]) Get(id int) (T, bool) {
	if id < 1 || id > len(c.items) {
		var zero T
		return zero, false
	}
	return c.items[id-1], true
}

// ByName returns the first entry whose name equals name exactly.
func (c *Collection[T]) ByName(name string) (T, bool) {
	for _, item := range c.items {
		if item.EntryName() == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Items returns the backing entries in identity order. Callers must not
// modify the slice.
func (c *Collection[T]) Items() []T {
	return c.items
}

// All returns an iterator over entries in identity order.
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range c.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Names returns every entry name in identity order.
func (c *Collection[T]) Names() []string {
	names := make([]string, 0, len(c.items))
	for _, item := range c.items {
		names = append(names, item.EntryName())
	}
	return names
}

// WhereAttribute returns the entries whose attribute contains needle,
// case-insensitively, in identity order.
func WhereAttribute[T Searchable](c *Collection[T], attr, needle string) ([]T, error) {
	matches := make([]T, 0)
	for _, item := range c.items {
		ok, err := item.AttributeContains(attr, needle)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// ResolveIDs maps identities to entries, failing on the first unknown one.
func ResolveIDs[T Entry](c *Collection[T], ids []int) ([]T, error) {
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		item, ok := c.Get(id)
		if !ok {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "identity %d", id)
		}
		out = append(out, item)
	}
	return out, nil
}
