package section

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// genericErrorMessage is shown when an upstream failure carries no usable
// message of its own.
const genericErrorMessage = "Something went wrong. Please try again."

// ErrClosed is returned by Load, Refresh and LoadMore after Close.
var ErrClosed = errors.New("section: aggregator is closed")

// Clock returns the current time. Injected so tests can step through TTL
// windows without sleeping.
type Clock func() time.Time

// batchFunc fetches everything a screen needs and assembles one snapshot.
// It must not publish anything itself; the aggregator commits the result.
type batchFunc func(ctx context.Context, now time.Time) (*Snapshot, error)

// moreFunc fetches one additional page for a named section and returns a new
// snapshot with that section extended. snap is the snapshot the page extends.
type moreFunc func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error)

// Options tune an aggregator. Zero values pick sensible defaults.
type Options struct {
	CacheTTL time.Duration
	Clock    Clock
	Logger   zerolog.Logger
}

// batchCall tracks one in-flight batch so concurrent callers can join it
// instead of firing a duplicate fetch.
type batchCall struct {
	done chan struct{}
	err  error
}

// Aggregator owns the fetch lifecycle for one screen: a TTL gate in front of
// a parallel batch, atomic all-or-nothing snapshot commits, and stale data
// retention on failure. Concurrent loads are coalesced onto a single batch.
type Aggregator struct {
	name  string
	gate  *Gate
	batch batchFunc
	more  map[string]moreFunc

	clock  Clock
	logger zerolog.Logger

	snap atomic.Pointer[Snapshot]

	mu         sync.Mutex
	inflight   *batchCall
	loading    bool
	refreshing bool
	initial    bool
	errMsg     string
	pages      map[string]int

	ctx    context.Context
	cancel context.CancelFunc
}

func newAggregator(name string, batch batchFunc, seed *Snapshot, opts Options) *Aggregator {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	ctx, cancel := context.WithCancel(context.Background())
	a := &Aggregator{
		name:    name,
		gate:    NewGate(opts.CacheTTL),
		batch:   batch,
		more:    make(map[string]moreFunc),
		clock:   clock,
		logger:  opts.Logger.With().Str("component", "section").Str("screen", name).Logger(),
		initial: true,
		pages:   make(map[string]int),
		ctx:     ctx,
		cancel:  cancel,
	}
	if seed != nil {
		a.snap.Store(seed)
	}
	return a
}

// View returns the current snapshot together with the loading flags. The
// snapshot may be the construction-time seed if nothing has been fetched yet.
func (a *Aggregator) View() View {
	a.mu.Lock()
	v := View{
		IsLoading:     a.loading,
		IsRefreshing:  a.refreshing,
		IsInitialLoad: a.initial,
		Error:         a.errMsg,
	}
	a.mu.Unlock()
	v.Snapshot = a.snap.Load()
	return v
}

// Load runs the batch unless the gate says the current snapshot is still
// fresh, in which case it returns immediately without any upstream calls.
func (a *Aggregator) Load(ctx context.Context) error {
	return a.run(ctx, false)
}

// Refresh runs the batch unconditionally, bypassing the gate.
func (a *Aggregator) Refresh(ctx context.Context) error {
	return a.run(ctx, true)
}

func (a *Aggregator) run(ctx context.Context, forced bool) error {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return ErrClosed
	}
	if call := a.inflight; call != nil {
		a.mu.Unlock()
		observeGateJoin(a.name)
		select {
		case <-call.done:
			return call.err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if !forced && !a.gate.Allows(a.clock()) {
		a.mu.Unlock()
		observeGateHit(a.name)
		return nil
	}
	call := &batchCall{done: make(chan struct{})}
	a.inflight = call
	if forced {
		a.refreshing = true
	} else {
		a.loading = true
	}
	a.errMsg = ""
	a.mu.Unlock()
	observeGateBypass(a.name, forced)

	call.err = a.execute(forced)

	a.mu.Lock()
	a.inflight = nil
	a.loading = false
	a.refreshing = false
	a.mu.Unlock()
	close(call.done)
	return call.err
}

// execute runs one batch against the aggregator's own context, so Close
// cancels in-flight work and no result is committed afterwards.
func (a *Aggregator) execute(forced bool) error {
	batchCtx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	start := a.clock()
	snap, err := a.batch(batchCtx, start)
	observeBatch(a.name, a.clock().Sub(start), err)
	if err != nil {
		if a.ctx.Err() != nil {
			return ErrClosed
		}
		msg := userMessage(err)
		a.mu.Lock()
		a.errMsg = msg
		a.mu.Unlock()
		a.logger.Error().Err(err).Bool("forced", forced).Msg("Batch fetch failed, keeping previous snapshot")
		return err
	}
	if a.ctx.Err() != nil {
		return ErrClosed
	}

	now := a.clock()
	snap.FetchedAt = now
	a.snap.Store(snap)
	a.gate.MarkSuccess(now)
	a.mu.Lock()
	a.initial = false
	for k := range a.pages {
		a.pages[k] = 1
	}
	a.mu.Unlock()
	a.logger.Debug().Bool("forced", forced).Dur("duration", now.Sub(start)).Msg("Snapshot committed")
	return nil
}

// LoadMore fetches the next page for a paginated section and appends it to
// the current snapshot. Unknown section names are logged and ignored.
func (a *Aggregator) LoadMore(ctx context.Context, sectionName string) error {
	a.mu.Lock()
	if a.ctx.Err() != nil {
		a.mu.Unlock()
		return ErrClosed
	}
	fn, ok := a.more[sectionName]
	a.mu.Unlock()
	if !ok {
		a.logger.Warn().Str("section", sectionName).Msg("LoadMore called for unknown section")
		return nil
	}

	snap := a.snap.Load()
	if snap == nil || snap.FetchedAt.IsZero() {
		return a.run(ctx, false)
	}

	a.mu.Lock()
	page := a.pages[sectionName] + 1
	a.mu.Unlock()

	next, err := fn(ctx, page, snap)
	if err != nil {
		a.logger.Error().Err(err).Str("section", sectionName).Int("page", page).Msg("LoadMore failed")
		return err
	}
	if a.ctx.Err() != nil {
		return ErrClosed
	}
	next.FetchedAt = snap.FetchedAt
	// Commit only against the snapshot the page extends. If a batch replaced
	// it in the meantime, the batch is newer and the page is discarded.
	if !a.snap.CompareAndSwap(snap, next) {
		a.logger.Debug().Str("section", sectionName).Int("page", page).Msg("Snapshot replaced during page fetch, discarding page")
		return nil
	}
	a.mu.Lock()
	a.pages[sectionName] = page
	a.mu.Unlock()
	return nil
}

// Close cancels any in-flight batch and prevents all future commits. It is
// safe to call more than once.
func (a *Aggregator) Close() {
	a.cancel()
}

// LastFetch reports when the last successful batch was committed.
func (a *Aggregator) LastFetch() time.Time {
	return a.gate.LastFetch()
}

func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return genericErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return genericErrorMessage
}
