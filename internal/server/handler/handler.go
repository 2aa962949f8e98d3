// Package handler serves the catalog's HTTP API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/collection"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/index"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/record"
	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/server/cache"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/logger"
)

// Catalogs is the part of the catalog service the handler needs.
type Catalogs interface {
	Catalog() (*catalog.Catalog, error)
	Reload(ctx context.Context) (*catalog.Catalog, error)
	Observe(kind string, start time.Time, err error, empty bool)
}

type Handler struct {
	catalogs     Catalogs
	cache        *cache.QueryCache
	defaultLimit int
	maxResults   int
	logger       *slog.Logger
}

// New creates a Handler. queryCache may be nil.
func New(catalogs Catalogs, queryCache *cache.QueryCache, defaultLimit, maxResults int) *Handler {
	return &Handler{
		catalogs:     catalogs,
		cache:        queryCache,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		logger:       slog.Default().With("component", "catalog-handler"),
	}
}

// Page is a window over an ordered result.
type Page[T any] struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
	Items  []T `json:"items"`
}

// Stats summarizes the current catalog.
type Stats struct {
	Games    int       `json:"games"`
	Tags     int       `json:"tags"`
	Genres   int       `json:"genres"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/games", h.ListGames)
	mux.HandleFunc("GET /api/v1/games/search", h.SearchGames)
	mux.HandleFunc("GET /api/v1/games/{id}", h.GetGame)
	mux.HandleFunc("GET /api/v1/tags", h.ListTags)
	mux.HandleFunc("GET /api/v1/tags/{name}/games", h.TagGames)
	mux.HandleFunc("GET /api/v1/genres", h.ListGenres)
	mux.HandleFunc("GET /api/v1/genres/{name}/games", h.GenreGames)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/reload", h.Reload)
}

// GetGame returns the game with the path identity.
func (h *Handler) GetGame(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		h.writeError(w, r, apperrors.Newf(apperrors.ErrInvalidInput, "game id %q must be a positive integer", r.PathValue("id")))
		return
	}
	g, found := c.GameByID(id)
	h.catalogs.Observe("game", start, nil, !found)
	if !found {
		h.writeError(w, r, apperrors.Newf(apperrors.ErrNotFound, "game %d", id))
		return
	}
	h.writeJSON(w, http.StatusOK, g)
}

// ListGames pages through all games, or returns the game called ?name=.
func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	if name := r.URL.Query().Get("name"); name != "" {
		g, found := c.GameByName(name)
		h.catalogs.Observe("name", start, nil, !found)
		if !found {
			h.writeError(w, r, apperrors.Newf(apperrors.ErrNotFound, "game %q", name))
			return
		}
		h.writeJSON(w, http.StatusOK, g)
		return
	}
	offset, limit, err := h.window(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, paginate(c.Games().Items(), offset, limit))
}

// SearchGames returns the games whose ?attr= contains ?q=, ignoring case.
func (h *Handler) SearchGames(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	attr, needle := r.URL.Query().Get("attr"), r.URL.Query().Get("q")
	if attr == "" || needle == "" {
		h.writeError(w, r, apperrors.New(apperrors.ErrInvalidInput, "query parameters 'attr' and 'q' are required"))
		return
	}
	offset, limit, err := h.window(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	games, hit, err := cache.GetOrCompute(r.Context(), h.cache, cache.Key("search", generation(c), attr, needle), func() ([]*record.Game, error) {
		return c.GamesWhere(attr, needle)
	})
	h.catalogs.Observe("search", start, err, len(games) == 0)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Debug("search completed",
		"attr", attr,
		"q", needle,
		"total", len(games),
		"cache_hit", hit,
	)
	h.writeJSON(w, http.StatusOK, paginate(games, offset, limit))
}

// generation identifies the load a cached result was computed from.
func generation(c *catalog.Catalog) string {
	return strconv.FormatInt(c.LoadedAt().UnixNano(), 10)
}

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, (*catalog.Catalog).Tags)
}

func (h *Handler) ListGenres(w http.ResponseWriter, r *http.Request) {
	h.listItems(w, r, (*catalog.Catalog).Genres)
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request, items func(*catalog.Catalog) *collection.Collection[*index.Item]) {
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	offset, limit, err := h.window(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, paginate(items(c).Items(), offset, limit))
}

// TagGames returns the games carrying exactly the tag in the path.
func (h *Handler) TagGames(w http.ResponseWriter, r *http.Request) {
	h.members(w, r, "tag", (*catalog.Catalog).GamesWithTag)
}

// GenreGames returns the games carrying exactly the genre in the path.
func (h *Handler) GenreGames(w http.ResponseWriter, r *http.Request) {
	h.members(w, r, "genre", (*catalog.Catalog).GamesWithGenre)
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request, kind string, lookup func(*catalog.Catalog, string) ([]*record.Game, bool)) {
	start := time.Now()
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	offset, limit, err := h.window(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	games, found := lookup(c, name)
	h.catalogs.Observe(kind, start, nil, !found)
	if !found {
		h.writeError(w, r, apperrors.Newf(apperrors.ErrNotFound, "%s %q", kind, name))
		return
	}
	h.writeJSON(w, http.StatusOK, paginate(games, offset, limit))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	c, ok := h.catalog(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, http.StatusOK, statsOf(c))
}

// Reload rebuilds the catalog from its file.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalogs.Reload(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, statsOf(c))
}

func statsOf(c *catalog.Catalog) Stats {
	return Stats{
		Games:    c.GameCount(),
		Tags:     c.TagCount(),
		Genres:   c.GenreCount(),
		Skipped:  c.Skipped(),
		LoadedAt: c.LoadedAt(),
	}
}

func (h *Handler) catalog(w http.ResponseWriter, r *http.Request) (*catalog.Catalog, bool) {
	c, err := h.catalogs.Catalog()
	if err != nil {
		h.writeError(w, r, err)
		return nil, false
	}
	return c, true
}

// window parses ?offset= and ?limit=, clamping limit to maxResults.
func (h *Handler) window(r *http.Request) (offset, limit int, err error) {
	limit = h.defaultLimit
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, apperrors.New(apperrors.ErrInvalidInput, "limit must be a positive integer")
		}
	}
	limit = min(limit, h.maxResults)
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, apperrors.New(apperrors.ErrInvalidInput, "offset must be a non-negative integer")
		}
	}
	return offset, limit, nil
}

func paginate[T any](items []T, offset, limit int) Page[T] {
	lo := min(offset, len(items))
	hi := min(lo+limit, len(items))
	window := items[lo:hi]
	if window == nil {
		window = []T{}
	}
	return Page[T]{Total: len(items), Offset: offset, Count: len(window), Items: window}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatusCode(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && status != http.StatusInternalServerError {
		msg = appErr.Message
	}
	h.writeJSON(w, status, map[string]string{"error": msg})
}
