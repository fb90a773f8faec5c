package section

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a committed batch stays fresh.
const DefaultCacheTTL = 5 * time.Minute

// Gate is the timestamp guard in front of a fetch batch. One timestamp per
// aggregator; there is no per-section granularity and no persistence, so a
// fresh aggregator always allows its first fetch.
type Gate struct {
	mu   sync.Mutex
	ttl  time.Duration
	last time.Time
}

// NewGate creates a gate with the given TTL. Non-positive TTLs fall back to
// the default.
func NewGate(ttl time.Duration) *Gate {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Gate{ttl: ttl}
}

// Allows reports whether a non-forced fetch should run at now. Forced
// refreshes never consult the gate.
func (g *Gate) Allows(now time.Time) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.last.IsZero() {
		return true
	}
	return now.Sub(g.last) >= g.ttl
}

// MarkSuccess records a successful batch commit. Failed batches leave the
// gate untouched so the next attempt is not suppressed.
func (g *Gate) MarkSuccess(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last = now
}

// LastFetch returns the time of the last successful commit, zero if none.
func (g *Gate) LastFetch() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}
