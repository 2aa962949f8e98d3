package collection

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

type entry struct {
	id    int
	name  string
	color string
	sizes []string
}

func (e *entry) EntryName() string { return e.name }
func (e *entry) AssignID(id int)   { e.id = id }

func (e *entry) AttributeContains(attr, needle string) (bool, error) {
	needle = strings.ToLower(needle)
	switch attr {
	case "color":
		return strings.Contains(strings.ToLower(e.color), needle), nil
	case "sizes":
		for _, s := range e.sizes {
			if strings.Contains(strings.ToLower(s), needle) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, &apperrors.KeyError{Key: attr, Err: apperrors.ErrUnknownAttribute}
}

func TestAppendAssignsSequentialIdentity(t *testing.T) {
	c := New[*entry]()
	if c.Count() != 0 {
		t.Fatalf("new collection count = %d", c.Count())
	}
	for i, name := range []string{"a", "b", "c"} {
		e := &entry{name: name}
		id := c.Append(e)
		if id != i+1 || e.id != id {
			t.Fatalf("Append(%q) = %d (entry id %d), want %d", name, id, e.id, i+1)
		}
	}
	if c.Count() != 3 || len(c.Items()) != 3 {
		t.Fatalf("count = %d, len = %d", c.Count(), len(c.Items()))
	}
	for id := 1; id <= 3; id++ {
		got, ok := c.Get(id)
		if !ok || got.id != id {
			t.Errorf("Get(%d) = %v, %v", id, got, ok)
		}
	}
	last, ok := c.Last()
	if !ok || last.name != "c" {
		t.Errorf("Last() = %v, %v", last, ok)
	}
}

func TestGetOutOfRange(t *testing.T) {
	c := New[*entry]()
	c.Append(&entry{name: "only"})
	for _, id := range []int{-1, 0, 2, 100} {
		if got, ok := c.Get(id); ok || got != nil {
			t.Errorf("Get(%d) = %v, %v; want absent", id, got, ok)
		}
	}
	if _, ok := New[*entry]().Last(); ok {
		t.Error("Last on empty collection should be absent")
	}
}

func TestByNameReturnsFirstExactMatch(t *testing.T) {
	c := New[*entry]()
	c.Append(&entry{name: "item 1"})
	c.Append(&entry{name: "item 2", color: "first"})
	c.Append(&entry{name: "item 2", color: "second"})
	got, ok := c.ByName("item 2")
	if !ok || got.color != "first" || got.id != 2 {
		t.Errorf("ByName(item 2) = %+v, %v", got, ok)
	}
	if _, ok := c.ByName("ITEM 2"); ok {
		t.Error("ByName should be case-sensitive")
	}
	if _, ok := c.ByName("missing"); ok {
		t.Error("ByName(missing) should be absent")
	}
}

func TestFromSliceKeepsIdentities(t *testing.T) {
	a := &entry{id: 7, name: "a"}
	b := &entry{id: 9, name: "b"}
	c := FromSlice([]*entry{a, b})
	if c.Count() != 2 {
		t.Fatalf("count = %d", c.Count())
	}
	if a.id != 7 || b.id != 9 {
		t.Errorf("identities changed: %d, %d", a.id, b.id)
	}
	if !reflect.DeepEqual(c.Names(), []string{"a", "b"}) {
		t.Errorf("Names() = %v", c.Names())
	}
}

func TestWhereAttribute(t *testing.T) {
	c := New[*entry]()
	c.Append(&entry{name: "a", color: "Dark Red", sizes: []string{"S", "M"}})
	c.Append(&entry{name: "b", color: "blue", sizes: []string{"XL"}})
	c.Append(&entry{name: "c", color: "red", sizes: []string{"M", "L"}})

	got, err := WhereAttribute(c, "color", "RED")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].name != "a" || got[1].name != "c" {
		t.Errorf("color RED matched %v", got)
	}

	got, err = WhereAttribute(c, "sizes", "sm")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("per-element match should not join elements, got %v", got)
	}

	got, err = WhereAttribute(c, "sizes", "none")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("no match should be an empty, non-nil result: %v, %v", got, err)
	}

	if _, err := WhereAttribute(c, "weight", "x"); !errors.Is(err, apperrors.ErrUnknownAttribute) {
		t.Errorf("unknown attribute error = %v", err)
	}
}

func TestAllStopsEarly(t *testing.T) {
	c := New[*entry]()
	for _, n := range []string{"a", "b", "c"} {
		c.Append(&entry{name: n})
	}
	var seen []string
	for e := range c.All() {
		seen = append(seen, e.name)
		if e.name == "b" {
			break
		}
	}
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("seen = %v", seen)
	}
}

func TestResolveIDs(t *testing.T) {
	c := New[*entry]()
	c.Append(&entry{name: "a"})
	c.Append(&entry{name: "b"})
	got, err := ResolveIDs(c, []int{2, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].name != "b" || got[1].name != "a" {
		t.Errorf("ResolveIDs = %v", got)
	}
	if _, err := ResolveIDs(c, []int{3}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("ResolveIDs(3) error = %v", err)
	}
}
