package clickspool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/rezapp/marketplace-service/internal/api"
)

// setupTestDB starts a throwaway Postgres container for spool tests
func setupTestDB(ctx context.Context, t testing.TB) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "test",
				"POSTGRES_PASSWORD": "test",
				"POSTGRES_DB":       "test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/test?sslmode=disable", host, port.Port())

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.New(ctx, connString)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				break
			}
			pool.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	require.NoError(t, err, "could not connect to test database")
	t.Cleanup(pool.Close)
	return pool
}

func TestSpoolRoundTrip(t *testing.T) {
	ctx := context.Background()
	pool := setupTestDB(ctx, t)

	spool, err := NewSpool(ctx, pool, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, spool.Enqueue(ctx, "brand", api.ClickEvent{BrandID: "nykaa", Source: "home"}))
	require.NoError(t, spool.Enqueue(ctx, "affiliate", api.ClickEvent{BrandID: "amazon", Source: "cash-store"}))

	n, err := spool.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	pending, err := spool.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "brand", pending[0].Kind)
	assert.Equal(t, "nykaa", pending[0].Event.BrandID)
	assert.Equal(t, "home", pending[0].Event.Source)

	require.NoError(t, spool.MarkDelivered(ctx, pending[0].ID))
	n, err = spool.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSpoolDropsAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	pool := setupTestDB(ctx, t)

	spool, err := NewSpool(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, spool.Enqueue(ctx, "brand", api.ClickEvent{BrandID: "croma"}))

	pending, err := spool.Pending(ctx, 1)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	for i := 0; i < maxAttempts; i++ {
		require.NoError(t, spool.MarkFailed(ctx, pending[0].ID))
	}

	n, err := spool.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "event must be dropped after exhausting attempts")
}

func TestSweeperDrain(t *testing.T) {
	ctx := context.Background()
	pool := setupTestDB(ctx, t)

	spool, err := NewSpool(ctx, pool, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, spool.Enqueue(ctx, "brand", api.ClickEvent{BrandID: "ok-1"}))
	require.NoError(t, spool.Enqueue(ctx, "brand", api.ClickEvent{BrandID: "bad-1"}))
	require.NoError(t, spool.Enqueue(ctx, "affiliate", api.ClickEvent{BrandID: "ok-2"}))

	var forwarded atomic.Int32
	forward := func(ctx context.Context, kind string, event api.ClickEvent) error {
		if event.BrandID == "bad-1" {
			return errors.New("still failing")
		}
		forwarded.Add(1)
		return nil
	}

	sweeper := NewSweeper(spool, forward, zerolog.Nop(), time.Minute)
	require.NoError(t, sweeper.Drain(ctx))

	assert.Equal(t, int32(2), forwarded.Load())
	n, err := spool.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "undeliverable event stays spooled")

	pending, err := spool.Pending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "bad-1", pending[0].Event.BrandID)
	assert.Equal(t, 1, pending[0].Attempts)
}
