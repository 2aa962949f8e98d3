// Package record defines the Game record assembled from the flat database
// and the attribute access used by queries.
package record

import (
	"slices"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// Game is one catalog entry. ID is assigned once, when the game is appended
// to its collection.
type Game struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Cover     string   `json:"cover"`
	Engine    string   `json:"engine"`
	Setup     string   `json:"setup"`
	Runtime   string   `json:"runtime"`
	Store     []string `json:"store"`
	Hints     string   `json:"hints"`
	Genres    []string `json:"genres"`
	Tags      []string `json:"tags"`
	Year      string   `json:"year"`
	Developer string   `json:"dev"`
	Publisher string   `json:"pub"`
	Version   string   `json:"version"`
	Status    string   `json:"status"`
}

// New returns a game with every attribute at its zero value.
func New(name string) *Game {
	return &Game{Name: name}
}

func (g *Game) EntryName() string { return g.Name }

func (g *Game) AssignID(id int) { g.ID = id }

// scalar returns the slot backing a scalar attribute.
func (g *Game) scalar(attr string) (*string, bool) {
	switch attr {
	case field.AttrName:
		return &g.Name, true
	case field.AttrCover:
		return &g.Cover, true
	case field.AttrEngine:
		return &g.Engine, true
	case field.AttrSetup:
		return &g.Setup, true
	case field.AttrRuntime:
		return &g.Runtime, true
	case field.AttrHints:
		return &g.Hints, true
	case field.AttrYear:
		return &g.Year, true
	case field.AttrDeveloper:
		return &g.Developer, true
	case field.AttrPublisher:
		return &g.Publisher, true
	case field.AttrVersion:
		return &g.Version, true
	case field.AttrStatus:
		return &g.Status, true
	}
	return nil, false
}

// list returns the slot backing a repeated attribute.
func (g *Game) list(attr string) (*[]string, bool) {
	switch attr {
	case field.AttrStore:
		return &g.Store, true
	case field.AttrGenres:
		return &g.Genres, true
	case field.AttrTags:
		return &g.Tags, true
	}
	return nil, false
}

// Set applies one field to the game. Repeated assignments overwrite; list
// values are copied so the game never aliases the caller's slice.
func (g *Game) Set(f field.Field) error {
	spec, ok := field.Lookup(f.Key)
	if !ok {
		return &apperrors.KeyError{Key: f.Key, Err: apperrors.ErrUnrecognizedFieldKey}
	}
	if f.Kind == field.KindMulti {
		slot, ok := g.list(spec.Attr)
		if !ok {
			return &apperrors.KeyError{Key: f.Key, Err: apperrors.ErrInconsistentAssemblerKey}
		}
		*slot = slices.Clone(f.Values)
		return nil
	}
	slot, ok := g.scalar(spec.Attr)
	if !ok {
		return &apperrors.KeyError{Key: f.Key, Err: apperrors.ErrInconsistentAssemblerKey}
	}
	*slot = f.Value
	return nil
}

// Field returns the attribute addressed by name (attribute, key or alias,
// case-insensitive) as a Field.
func (g *Game) Field(name string) (field.Field, error) {
	spec, ok := field.Resolve(name)
	if !ok {
		return field.Field{}, &apperrors.KeyError{Key: name, Err: apperrors.ErrUnknownAttribute}
	}
	return g.fieldFor(spec)
}

func (g *Game) fieldFor(spec field.Spec) (field.Field, error) {
	if spec.Rule == field.RuleRecordStart {
		return field.NewRecord(g.Name), nil
	}
	if spec.Repeated() {
		slot, ok := g.list(spec.Attr)
		if !ok {
			return field.Field{}, &apperrors.KeyError{Key: spec.Key, Err: apperrors.ErrInconsistentAssemblerKey}
		}
		return field.Multi(spec.Key, slices.Clone(*slot)), nil
	}
	slot, ok := g.scalar(spec.Attr)
	if !ok {
		return field.Field{}, &apperrors.KeyError{Key: spec.Key, Err: apperrors.ErrInconsistentAssemblerKey}
	}
	return field.Single(spec.Key, *slot), nil
}

// Fields returns the whole game in render order, record start first.
func (g *Game) Fields() []field.Field {
	specs := field.Schema()
	out := make([]field.Field, 0, len(specs))
	for _, spec := range specs {
		f, err := g.fieldFor(spec)
		if err != nil {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AttributeContains reports whether the named attribute contains needle,
// ignoring case. Repeated attributes match when any single element does.
func (g *Game) AttributeContains(name, needle string) (bool, error) {
	f, err := g.Field(name)
	if err != nil {
		return false, err
	}
	needle = strings.ToLower(needle)
	if f.Kind == field.KindMulti {
		for _, v := range f.Values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true, nil
			}
		}
		return false, nil
	}
	return strings.Contains(strings.ToLower(f.Value), needle), nil
}
