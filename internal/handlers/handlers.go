// Package handlers exposes the aggregated screen data over HTTP.
package handlers

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/rezapp/marketplace-service/internal/actions"
	"github.com/rezapp/marketplace-service/internal/api"
	"github.com/rezapp/marketplace-service/internal/section"
)

// Handlers bundles the HTTP endpoints with their dependencies.
type Handlers struct {
	mall      *section.Aggregator
	cashStore *section.Aggregator
	api       *api.Client
	tracker   *actions.Tracker
	logger    zerolog.Logger
	now       section.Clock
}

// New wires the endpoint set.
func New(mall, cashStore *section.Aggregator, client *api.Client, tracker *actions.Tracker, logger zerolog.Logger) *Handlers {
	return &Handlers{
		mall:      mall,
		cashStore: cashStore,
		api:       client,
		tracker:   tracker,
		logger:    logger.With().Str("component", "handlers").Logger(),
		now:       time.Now,
	}
}

func (h *Handlers) aggregatorFor(screen string) *section.Aggregator {
	switch screen {
	case "mall":
		return h.mall
	case "cash-store":
		return h.cashStore
	default:
		return nil
	}
}
