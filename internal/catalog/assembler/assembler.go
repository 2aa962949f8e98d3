// Package assembler folds a stream of classified fields into games.
package assembler

import (
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// Assembler owns the target collection while fields are being applied.
type Assembler struct {
	games *collection.Collection[*record.Game]
}

func New(games *collection.Collection[*record.Game]) *Assembler {
	return &Assembler{games: games}
}

// Apply folds one field into the collection. A record-start field appends a
// new game; any other field updates the most recently appended game.
func (a *Assembler) Apply(f field.Field) error {
	if f.Kind == field.KindNewRecord {
		a.games.Append(record.New(f.Value))
		return nil
	}
	current, ok := a.games.Last()
	if !ok {
		return &apperrors.KeyError{Key: f.Key, Err: apperrors.ErrOrphanField}
	}
	return current.Set(f)
}

// Current returns the game the next non-start field would update.
func (a *Assembler) Current() (*record.Game, bool) {
	return a.games.Last()
}

// Games returns the collection being assembled.
func (a *Assembler) Games() *collection.Collection[*record.Game] {
	return a.games
}
