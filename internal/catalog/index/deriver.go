// Package index derives inverted indices (tags, genres) from an assembled
// game collection. Each index is its own collection with its own identity
// namespace; games are only read.
package index

import (
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
)

// Values selects the repeated attribute an index is built over.
type Values func(g *record.Game) []string

// ByAttribute returns the selector for a repeated attribute, or false if attr
// is not a repeated attribute.
func ByAttribute(attr string) (Values, bool) {
	switch attr {
	case field.AttrTags:
		return func(g *record.Game) []string { return g.Tags }, true
	case field.AttrGenres:
		return func(g *record.Game) []string { return g.Genres }, true
	case field.AttrStore:
		return func(g *record.Game) []string { return g.Store }, true
	}
	return nil, false
}

// Derive builds the inverted index of values over games. Games are scanned in
// identity order and values in stored order; an item is created on first
// sight of its name and every later occurrence, including a repeat inside the
// same game, appends one posting. Empty values are not indexed, so an
// authored empty element such as the middle of "a,,b" never becomes an item
// even though every other value does.
func Derive(games *collection.Collection[*record.Game], values Values) *collection.Collection[*Item] {
	items := collection.New[*Item]()
	byName := make(map[string]*Item)
	for g := range games.All() {
		for _, v := range values(g) {
			if v == "" {
				continue
			}
			if item, ok := byName[v]; ok {
				item.Games = append(item.Games, g.ID)
				continue
			}
			item := &Item{Name: v, Games: []int{g.ID}}
			items.Append(item)
			byName[v] = item
		}
	}
	return items
}

// Tags derives the tag index.
func Tags(games *collection.Collection[*record.Game]) *collection.Collection[*Item] {
	values, _ := ByAttribute(field.AttrTags)
	return Derive(games, values)
}

// Genres derives the genre index.
func Genres(games *collection.Collection[*record.Game]) *collection.Collection[*Item] {
	values, _ := ByAttribute(field.AttrGenres)
	return Derive(games, values)
}
