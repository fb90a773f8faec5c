package section

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezapp/marketplace-service/internal/catalog"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testOptions(clock *fakeClock) Options {
	return Options{CacheTTL: 5 * time.Minute, Clock: clock.Now}
}

func brandSnapshot(names ...string) *Snapshot {
	snap := &Snapshot{}
	for _, n := range names {
		snap.TopBrands = append(snap.TopBrands, catalog.Brand{ID: n, Name: n})
	}
	return snap
}

func TestLoadRespectsGate(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		return brandSnapshot("nykaa"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	require.NoError(t, a.Load(context.Background()))
	require.NoError(t, a.Load(context.Background()))
	assert.Equal(t, int32(1), calls.Load(), "second load within TTL must not hit upstream")

	clock.Advance(4 * time.Minute)
	require.NoError(t, a.Load(context.Background()))
	assert.Equal(t, int32(1), calls.Load())

	clock.Advance(2 * time.Minute)
	require.NoError(t, a.Load(context.Background()))
	assert.Equal(t, int32(2), calls.Load(), "load after TTL expiry must refetch")
}

func TestRefreshBypassesGate(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		return brandSnapshot("myntra"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	require.NoError(t, a.Load(context.Background()))
	require.NoError(t, a.Refresh(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailureKeepsPreviousSnapshot(t *testing.T) {
	clock := newFakeClock()
	var fail atomic.Bool
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		if fail.Load() {
			return nil, errors.New("backend rejected the request")
		}
		return brandSnapshot("ajio", "croma"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	require.NoError(t, a.Load(context.Background()))
	first := a.View()
	require.Len(t, first.Snapshot.TopBrands, 2)
	assert.False(t, first.IsInitialLoad)
	assert.Empty(t, first.Error)

	fail.Store(true)
	err := a.Refresh(context.Background())
	require.Error(t, err)

	v := a.View()
	assert.Equal(t, first.Snapshot, v.Snapshot, "failed batch must not replace the snapshot")
	assert.Equal(t, "backend rejected the request", v.Error)
	assert.False(t, v.IsRefreshing)
}

func TestFailedBatchLeavesGateOpen(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	}, nil, testOptions(clock))
	defer a.Close()

	require.Error(t, a.Load(context.Background()))
	require.Error(t, a.Load(context.Background()))
	assert.Equal(t, int32(2), calls.Load(), "a failed batch must not suppress the next attempt")
}

func TestErrorMessageFallsBackToGeneric(t *testing.T) {
	clock := newFakeClock()
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return nil, fmt.Errorf("fetch: %w", context.Canceled)
	}, nil, testOptions(clock))
	defer a.Close()

	require.Error(t, a.Load(context.Background()))
	assert.Equal(t, genericErrorMessage, a.View().Error)
}

func TestConcurrentLoadsCoalesce(t *testing.T) {
	clock := newFakeClock()
	release := make(chan struct{})
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		<-release
		return brandSnapshot("boat"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() { errs <- a.Load(context.Background()) }()
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}
	assert.Equal(t, int32(1), calls.Load(), "concurrent loads must share one batch")
}

func TestCloseAbortsCommit(t *testing.T) {
	clock := newFakeClock()
	started := make(chan struct{})
	release := make(chan struct{})
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		close(started)
		<-release
		return brandSnapshot("late"), nil
	}, nil, testOptions(clock))

	done := make(chan error, 1)
	go func() { done <- a.Load(context.Background()) }()

	<-started
	a.Close()
	close(release)

	require.ErrorIs(t, <-done, ErrClosed)
	assert.Nil(t, a.View().Snapshot, "no snapshot may be committed after Close")
	assert.True(t, a.LastFetch().IsZero())
}

func TestCloseSuppressesLateError(t *testing.T) {
	clock := newFakeClock()
	started := make(chan struct{})
	release := make(chan struct{})
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		close(started)
		<-release
		return nil, errors.New("upstream down")
	}, nil, testOptions(clock))

	done := make(chan error, 1)
	go func() { done <- a.Load(context.Background()) }()

	<-started
	a.Close()
	close(release)

	require.ErrorIs(t, <-done, ErrClosed)
	assert.Empty(t, a.View().Error, "a batch failing after Close must not touch state")
}

func TestOperationsAfterClose(t *testing.T) {
	clock := newFakeClock()
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return brandSnapshot("x"), nil
	}, nil, testOptions(clock))
	a.Close()

	assert.ErrorIs(t, a.Load(context.Background()), ErrClosed)
	assert.ErrorIs(t, a.Refresh(context.Background()), ErrClosed)
	assert.ErrorIs(t, a.LoadMore(context.Background(), "topBrands"), ErrClosed)
}

func TestSeedSnapshotServedBeforeFirstFetch(t *testing.T) {
	clock := newFakeClock()
	seed := &Snapshot{Banners: DefaultMallBanners()}
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return brandSnapshot("x"), nil
	}, seed, testOptions(clock))
	defer a.Close()

	v := a.View()
	require.NotNil(t, v.Snapshot)
	assert.True(t, v.IsInitialLoad)
	assert.Len(t, v.Snapshot.Banners, 2)
}

func TestLoadMoreAppends(t *testing.T) {
	clock := newFakeClock()
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return brandSnapshot("page1-a", "page1-b"), nil
	}, nil, testOptions(clock))
	defer a.Close()
	a.more["topBrands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		next := snap.clone()
		next.TopBrands = append(append([]catalog.Brand{}, snap.TopBrands...),
			catalog.Brand{ID: fmt.Sprintf("page%d", page)})
		return next, nil
	}
	a.pages["topBrands"] = 1

	require.NoError(t, a.Load(context.Background()))
	fetchedAt := a.View().Snapshot.FetchedAt

	require.NoError(t, a.LoadMore(context.Background(), "topBrands"))
	v := a.View()
	require.Len(t, v.Snapshot.TopBrands, 3)
	assert.Equal(t, "page2", v.Snapshot.TopBrands[2].ID)
	assert.Equal(t, fetchedAt, v.Snapshot.FetchedAt, "paging must not reset freshness")

	require.NoError(t, a.LoadMore(context.Background(), "topBrands"))
	v = a.View()
	require.Len(t, v.Snapshot.TopBrands, 4)
	assert.Equal(t, "page3", v.Snapshot.TopBrands[3].ID)
}

func TestRefreshDuringLoadMoreKeepsNewerBatch(t *testing.T) {
	clock := newFakeClock()
	var refreshed atomic.Bool
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		if refreshed.Load() {
			return brandSnapshot("new-a", "new-b", "new-c"), nil
		}
		return brandSnapshot("old-a", "old-b"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	a.more["topBrands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		close(started)
		<-release
		next := snap.clone()
		next.TopBrands = append(append([]catalog.Brand{}, snap.TopBrands...),
			catalog.Brand{ID: fmt.Sprintf("old-page%d", page)})
		return next, nil
	}
	a.pages["topBrands"] = 1

	require.NoError(t, a.Load(context.Background()))

	done := make(chan error, 1)
	go func() { done <- a.LoadMore(context.Background(), "topBrands") }()
	<-started

	refreshed.Store(true)
	require.NoError(t, a.Refresh(context.Background()))

	close(release)
	require.NoError(t, <-done)

	v := a.View()
	require.Len(t, v.Snapshot.TopBrands, 3)
	assert.Equal(t, "new-a", v.Snapshot.TopBrands[0].ID, "a page built on a replaced snapshot must be discarded")
	assert.Equal(t, a.LastFetch(), v.Snapshot.FetchedAt)

	a.mu.Lock()
	page := a.pages["topBrands"]
	a.mu.Unlock()
	assert.Equal(t, 1, page, "a discarded page must not advance pagination")
}

func TestLoadMoreUnknownSectionIsNoop(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		return brandSnapshot("x"), nil
	}, nil, testOptions(clock))
	defer a.Close()

	require.NoError(t, a.Load(context.Background()))
	require.NoError(t, a.LoadMore(context.Background(), "nonsense"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestLoadMoreBeforeFirstFetchRunsBatch(t *testing.T) {
	clock := newFakeClock()
	var calls atomic.Int32
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		calls.Add(1)
		return brandSnapshot("x"), nil
	}, nil, testOptions(clock))
	defer a.Close()
	a.more["topBrands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		t.Fatal("more func must not run before the first full batch")
		return nil, nil
	}
	a.pages["topBrands"] = 1

	require.NoError(t, a.LoadMore(context.Background(), "topBrands"))
	assert.Equal(t, int32(1), calls.Load())
}

func TestRefreshResetsPages(t *testing.T) {
	clock := newFakeClock()
	a := newAggregator("test", func(ctx context.Context, now time.Time) (*Snapshot, error) {
		return brandSnapshot("a"), nil
	}, nil, testOptions(clock))
	defer a.Close()
	a.more["topBrands"] = func(ctx context.Context, page int, snap *Snapshot) (*Snapshot, error) {
		next := snap.clone()
		next.TopBrands = append(append([]catalog.Brand{}, snap.TopBrands...),
			catalog.Brand{ID: fmt.Sprintf("page%d", page)})
		return next, nil
	}
	a.pages["topBrands"] = 1

	require.NoError(t, a.Load(context.Background()))
	require.NoError(t, a.LoadMore(context.Background(), "topBrands"))
	require.NoError(t, a.Refresh(context.Background()))
	require.NoError(t, a.LoadMore(context.Background(), "topBrands"))

	v := a.View()
	require.Len(t, v.Snapshot.TopBrands, 2)
	assert.Equal(t, "page2", v.Snapshot.TopBrands[1].ID, "refresh must rewind pagination")
}

func TestGate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	g := NewGate(5 * time.Minute)

	assert.True(t, g.Allows(now), "fresh gate allows the first fetch")
	g.MarkSuccess(now)
	assert.False(t, g.Allows(now.Add(4*time.Minute)))
	assert.True(t, g.Allows(now.Add(5*time.Minute)))
	assert.Equal(t, now, g.LastFetch())
}

func TestGateDefaultTTL(t *testing.T) {
	now := time.Now()
	g := NewGate(0)
	g.MarkSuccess(now)
	assert.False(t, g.Allows(now.Add(DefaultCacheTTL-time.Second)))
	assert.True(t, g.Allows(now.Add(DefaultCacheTTL)))
}
