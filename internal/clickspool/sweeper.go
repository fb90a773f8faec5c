package clickspool

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/rezapp/marketplace-service/internal/api"
)

// ForwardFunc redelivers one spooled click event upstream.
type ForwardFunc func(ctx context.Context, kind string, event api.ClickEvent) error

// Sweeper periodically drains the spool, redelivering parked click events.
type Sweeper struct {
	spool    *Spool
	forward  ForwardFunc
	logger   zerolog.Logger
	interval time.Duration
	stopChan chan struct{}
}

// NewSweeper creates a sweeper that drains the spool every interval.
func NewSweeper(spool *Spool, forward ForwardFunc, logger zerolog.Logger, interval time.Duration) *Sweeper {
	return &Sweeper{
		spool:    spool,
		forward:  forward,
		logger:   logger.With().Str("component", "clickspool_sweeper").Logger(),
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic drain loop. Blocks until ctx is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Msg("Starting click spool sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Click spool sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Click spool sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.Drain(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to drain click spool")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

// Drain redelivers one batch of spooled events. Delivery failures bump the
// attempt counter and leave the event in place for the next sweep.
func (s *Sweeper) Drain(ctx context.Context) error {
	pending, err := s.spool.Pending(ctx, sweepBatchSize)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	delivered := 0
	for _, p := range pending {
		if err := s.forward(ctx, p.Kind, p.Event); err != nil {
			s.logger.Debug().Err(err).Str("event_id", p.ID.String()).Int("attempts", p.Attempts).Msg("Redelivery failed")
			if err := s.spool.MarkFailed(ctx, p.ID); err != nil {
				return err
			}
			continue
		}
		if err := s.spool.MarkDelivered(ctx, p.ID); err != nil {
			return err
		}
		delivered++
	}

	s.logger.Info().
		Int("pending", len(pending)).
		Int("delivered", delivered).
		Msg("Drained click spool")
	return nil
}
