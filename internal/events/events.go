// Package events carries catalog change notifications between service
// replicas over Kafka.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/Adithya-Monish-Kumar-K/gamedb/pkg/kafka"
)

// Reloaded announces that a replica swapped in a freshly loaded catalog.
type Reloaded struct {
	Origin   string    `json:"origin"`
	Path     string    `json:"path"`
	Games    int       `json:"games"`
	Tags     int       `json:"tags"`
	Genres   int       `json:"genres"`
	Skipped  int       `json:"skipped"`
	LoadedAt time.Time `json:"loaded_at"`
}

type producer interface {
	Publish(ctx context.Context, key string, value any) error
}

// Publisher sends Reloaded events keyed by database path.
type Publisher struct {
	producer producer
}

func NewPublisher(p producer) *Publisher {
	return &Publisher{producer: p}
}

func (p *Publisher) CatalogReloaded(ctx context.Context, ev Reloaded) error {
	return p.producer.Publish(ctx, ev.Path, ev)
}

// ReloadHandler returns a consumer handler that calls reload for events
// published by other replicas. Events from self are ignored.
func ReloadHandler(self string, reload func(ctx context.Context) error) kafka.MessageHandler {
	logger := slog.Default().With("component", "reload-events")
	return func(ctx context.Context, _, value []byte) error {
		ev, err := kafka.DecodeJSON[Reloaded](value)
		if err != nil {
			return err
		}
		if ev.Origin == self {
			return nil
		}
		logger.Info("peer reloaded catalog", "origin", ev.Origin, "games", ev.Games)
		return reload(ctx)
	}
}
