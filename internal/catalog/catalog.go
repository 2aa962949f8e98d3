// Package catalog loads the flat game database into an immutable in-memory
// catalog: the games themselves plus tag and genre inverted indices, and the
// queries over them.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/assembler"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/index"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/source"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

// Catalog is the result of one load. It is never modified after Load
// returns, so it can be shared between goroutines; the games and items it
// hands out must be treated as read-only.
type Catalog struct {
	games    *collection.Collection[*record.Game]
	tags     *collection.Collection[*index.Item]
	genres   *collection.Collection[*index.Item]
	skipped  int
	loadedAt time.Time
}

type options struct {
	skipInvalid bool
	logger      *slog.Logger
}

// Option configures a load.
type Option func(*options)

// WithSkipInvalid makes the load log and skip lines that fail to classify or
// assemble instead of aborting.
func WithSkipInvalid() Option {
	return func(o *options) { o.skipInvalid = true }
}

// WithLogger sets the logger used for load warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Load assembles lines into a catalog and derives its indices. In the
// default strict mode the first bad line aborts the load and the returned
// error is a *errors.LineError carrying the 1-based line number and the raw
// line; no partial catalog is returned.
func Load(lines []string, opts ...Option) (*Catalog, error) {
	o := options{logger: slog.Default().With("component", "catalog")}
	for _, opt := range opts {
		opt(&o)
	}

	games := collection.New[*record.Game]()
	asm := assembler.New(games)
	skipped := 0
	for i, raw := range lines {
		lineNo := i + 1
		f, extra, err := field.Classify(raw)
		if len(extra) > 0 {
			o.logger.Warn("ignoring extra tab-separated segments",
				"line", lineNo,
				"extra", extra,
			)
		}
		if err == nil {
			err = asm.Apply(f)
		}
		if err == nil {
			continue
		}
		lineErr := &apperrors.LineError{Line: lineNo, Raw: raw, Err: err}
		if !o.skipInvalid {
			return nil, lineErr
		}
		skipped++
		o.logger.Warn("skipping invalid line", "line", lineNo, "error", err)
	}

	c := &Catalog{
		games:    games,
		tags:     index.Tags(games),
		genres:   index.Genres(games),
		skipped:  skipped,
		loadedAt: time.Now().UTC(),
	}
	o.logger.Debug("catalog loaded",
		"games", c.games.Count(),
		"tags", c.tags.Count(),
		"genres", c.genres.Count(),
		"skipped", skipped,
	)
	return c, nil
}

// LoadReader reads the database from r and loads it.
func LoadReader(r io.Reader, opts ...Option) (*Catalog, error) {
	lines, err := source.ReadLines(r)
	if err != nil {
		return nil, err
	}
	return Load(lines, opts...)
}

// LoadFile reads the database file at path and loads it.
func LoadFile(path string, opts ...Option) (*Catalog, error) {
	lines, err := source.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Load(lines, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// Games returns the game collection.
func (c *Catalog) Games() *collection.Collection[*record.Game] { return c.games }

// Tags returns the tag index.
func (c *Catalog) Tags() *collection.Collection[*index.Item] { return c.tags }

// Genres returns the genre index.
func (c *Catalog) Genres() *collection.Collection[*index.Item] { return c.genres }

// Skipped returns how many lines a lenient load dropped.
func (c *Catalog) Skipped() int { return c.skipped }

// LoadedAt returns when the catalog finished loading.
func (c *Catalog) LoadedAt() time.Time { return c.loadedAt }

func (c *Catalog) GameCount() int  { return c.games.Count() }
func (c *Catalog) TagCount() int   { return c.tags.Count() }
func (c *Catalog) GenreCount() int { return c.genres.Count() }

// GameByID returns the game with the given identity.
func (c *Catalog) GameByID(id int) (*record.Game, bool) {
	return c.games.Get(id)
}

// GameByName returns the first game whose name matches exactly.
func (c *Catalog) GameByName(name string) (*record.Game, bool) {
	return c.games.ByName(name)
}

// GamesWhere returns the games whose attribute contains needle, ignoring
// case, in identity order. attr accepts attribute names, database keys and
// their aliases.
func (c *Catalog) GamesWhere(attr, needle string) ([]*record.Game, error) {
	if _, ok := field.Resolve(attr); !ok {
		return nil, &apperrors.KeyError{Key: attr, Err: apperrors.ErrUnknownAttribute}
	}
	return collection.WhereAttribute(c.games, attr, needle)
}

// GamesByTag returns the games with a tag containing needle.
func (c *Catalog) GamesByTag(needle string) []*record.Game {
	return c.mustWhere(field.AttrTags, needle)
}

// GamesByGenre returns the games with a genre containing needle.
func (c *Catalog) GamesByGenre(needle string) []*record.Game {
	return c.mustWhere(field.AttrGenres, needle)
}

func (c *Catalog) mustWhere(attr, needle string) []*record.Game {
	games, err := c.GamesWhere(attr, needle)
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in attribute %q rejected: %v", attr, err))
	}
	return games
}

// Tag returns the tag index item called name.
func (c *Catalog) Tag(name string) (*index.Item, bool) {
	return c.tags.ByName(name)
}

// Genre returns the genre index item called name.
func (c *Catalog) Genre(name string) (*index.Item, bool) {
	return c.genres.ByName(name)
}

// GamesWithTag returns the games listed in the postings of tag name, one per
// distinct game, in identity order. The result is absent when the tag is
// unknown.
func (c *Catalog) GamesWithTag(name string) ([]*record.Game, bool) {
	return c.members(c.tags, name)
}

// GamesWithGenre is GamesWithTag for genres.
func (c *Catalog) GamesWithGenre(name string) ([]*record.Game, bool) {
	return c.members(c.genres, name)
}

func (c *Catalog) members(items *collection.Collection[*index.Item], name string) ([]*record.Game, bool) {
	item, ok := items.ByName(name)
	if !ok {
		return nil, false
	}
	ids := make([]int, 0, len(item.Games))
	for _, id := range item.Games {
		if n := len(ids); n > 0 && ids[n-1] == id {
			continue
		}
		ids = append(ids, id)
	}
	games, err := collection.ResolveIDs(c.games, ids)
	if err != nil {
		// Postings are derived from this catalog's own games.
		panic(errors.Join(errors.New("catalog: dangling posting"), err))
	}
	return games, true
}

// TagNames returns every tag in creation order.
func (c *Catalog) TagNames() []string { return c.tags.Names() }

// GenreNames returns every genre in creation order.
func (c *Catalog) GenreNames() []string { return c.genres.Names() }
