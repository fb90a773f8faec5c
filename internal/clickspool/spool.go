// Package clickspool is the durable retry queue for click events that could
// not be delivered to the backend. Events land in Postgres and a sweeper
// drains them once the backend is reachable again.
package clickspool

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/rezapp/marketplace-service/internal/api"
)

const schema = `
CREATE TABLE IF NOT EXISTS click_events (
	id           UUID PRIMARY KEY,
	kind         TEXT NOT NULL,
	brand_id     TEXT NOT NULL,
	source       TEXT NOT NULL DEFAULT '',
	attempts     INT NOT NULL DEFAULT 0,
	enqueued_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	last_attempt TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_click_events_enqueued ON click_events (enqueued_at);
`

// maxAttempts is how many delivery tries an event gets before being dropped.
const maxAttempts = 5

// PendingEvent is one spooled click awaiting redelivery.
type PendingEvent struct {
	ID       uuid.UUID
	Kind     string
	Event    api.ClickEvent
	Attempts int
}

// Spool stores failed click events in Postgres.
type Spool struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewSpool creates a spool on the given pool and ensures its table exists.
func NewSpool(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) (*Spool, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create click_events schema: %w", err)
	}
	return &Spool{
		pool:   pool,
		logger: logger.With().Str("component", "clickspool").Logger(),
	}, nil
}

// Enqueue parks a click event for later redelivery.
func (s *Spool) Enqueue(ctx context.Context, kind string, event api.ClickEvent) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO click_events (id, kind, brand_id, source)
		VALUES ($1, $2, $3, $4)
	`, uuid.New(), kind, event.BrandID, event.Source)
	if err != nil {
		return fmt.Errorf("failed to enqueue click event: %w", err)
	}
	return nil
}

// Pending returns up to limit spooled events, oldest first.
func (s *Spool) Pending(ctx context.Context, limit int) ([]PendingEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, brand_id, source, attempts
		FROM click_events
		ORDER BY enqueued_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending click events: %w", err)
	}
	defer rows.Close()

	var pending []PendingEvent
	for rows.Next() {
		var p PendingEvent
		if err := rows.Scan(&p.ID, &p.Kind, &p.Event.BrandID, &p.Event.Source, &p.Attempts); err != nil {
			return nil, fmt.Errorf("failed to scan click event: %w", err)
		}
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

// MarkDelivered removes a successfully redelivered event.
func (s *Spool) MarkDelivered(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM click_events WHERE id = $1`, id)
	return err
}

// MarkFailed bumps an event's attempt count, dropping events that exhausted
// their tries.
func (s *Spool) MarkFailed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM click_events WHERE id = $1 AND attempts + 1 >= $2
	`, id, maxAttempts)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		s.logger.Warn().Str("event_id", id.String()).Msg("Dropping click event after max attempts")
		return nil
	}

	_, err = s.pool.Exec(ctx, `
		UPDATE click_events SET attempts = attempts + 1, last_attempt = now() WHERE id = $1
	`, id)
	return err
}

// Size reports how many events are waiting.
func (s *Spool) Size(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM click_events`).Scan(&n)
	return n, err
}

// sweep batch sizing shared with the sweeper
const sweepBatchSize = 50
