package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

type stubMatchAPI struct {
	datasources.FeedPageFetcher
	datasources.CandidateViewMarker
	datasources.LikeToggler
	datasources.DuelPairFetcher
}

func TestRegistry_SessionsPerInstallation(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	r := NewRegistry(stubMatchAPI{}, datasources.NewMemoryDuelProgressStore(), clk, RegistryConfig{
		Feed: FeedConfig{PageSize: 3},
	})

	a := r.Feed(ctx, "install-a")
	assert.Same(t, a, r.Feed(ctx, "install-a"))
	assert.NotSame(t, a, r.Feed(ctx, "install-b"))

	duel := r.Duel(ctx, "install-a")
	assert.Same(t, duel, r.Duel(ctx, "install-a"))
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_SweepEvictsIdleSessions(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	store := datasources.NewMemoryDuelProgressStore()
	r := NewRegistry(stubMatchAPI{}, store, clk, RegistryConfig{IdleTimeout: 10 * time.Minute})

	idle := r.Feed(ctx, "idle")
	clk.Advance(8 * time.Minute)
	active := r.Feed(ctx, "active")

	clk.Advance(5 * time.Minute)
	r.Sweep(ctx)

	assert.Equal(t, 1, r.Len())
	assert.Same(t, active, r.Feed(ctx, "active"))

	_, err := idle.Advance(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)

	// The evicted id keeps failing instead of restarting the feed from the first page.
	again := r.Feed(ctx, "idle")
	assert.NotSame(t, idle, again)
	_, err = again.Advance(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	_, err = again.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Equal(t, 1, r.Len())

	reopened := r.OpenFeed(ctx, "idle")
	assert.False(t, reopened.Closed())
	assert.Same(t, reopened, r.Feed(ctx, "idle"))
	assert.Same(t, active, r.OpenFeed(ctx, "active"))
}

func TestRegistry_EvictedIdsAreForgotten(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	r := NewRegistry(stubMatchAPI{}, datasources.NewMemoryDuelProgressStore(), clk, RegistryConfig{IdleTimeout: time.Minute})

	r.Feed(ctx, "idle")
	clk.Advance(2 * time.Minute)
	r.Sweep(ctx)
	assert.True(t, r.Feed(ctx, "idle").Closed())

	clk.Advance(25 * time.Hour)
	r.Sweep(ctx)
	assert.False(t, r.Feed(ctx, "idle").Closed())
}

func TestRegistry_NoIdleEviction(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	r := NewRegistry(stubMatchAPI{}, datasources.NewMemoryDuelProgressStore(), clk, RegistryConfig{
		IdleTimeout: NoIdleEviction,
	})

	feed := r.Feed(ctx, "install-a")
	clk.Advance(72 * time.Hour)
	r.Sweep(ctx)

	assert.Equal(t, 1, r.Len())
	assert.Same(t, feed, r.Feed(ctx, "install-a"))
	assert.False(t, feed.Closed())
	assert.Equal(t, time.Minute, r.sweepInterval())
}

func TestRegistry_SweepReconcilesDuels(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	store := datasources.NewMemoryDuelProgressStore()
	require.NoError(t, store.SaveDuelProgress(ctx, "install-a", domain.DuelProgress{
		VotesCast:      15,
		CooldownEndsAt: duelEpoch.Add(time.Minute),
	}))

	r := NewRegistry(stubMatchAPI{}, store, clk, RegistryConfig{})
	duel := r.Duel(ctx, "install-a")
	require.NoError(t, duel.Start(ctx))
	require.Equal(t, domain.DuelGateCooling, duel.State().Gate)

	clk.Advance(2 * time.Minute)
	r.Sweep(ctx)

	assert.Equal(t, domain.DuelGateOpen, duel.State().Gate)
	saved, err := store.LoadDuelProgress(ctx, "install-a")
	require.NoError(t, err)
	assert.Equal(t, domain.DuelProgress{}, saved)
}

// contextCheckingStore fails saves for one installation, and for the others honours
// cancellation of the context it is given.
type contextCheckingStore struct {
	*datasources.MemoryDuelProgressStore
	failing string
	failed  chan struct{}
}

func (s *contextCheckingStore) SaveDuelProgress(ctx context.Context, installationID string, progress domain.DuelProgress) error {
	if installationID == s.failing {
		defer close(s.failed)
		return errors.New("disk full")
	}

	<-s.failed
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(20 * time.Millisecond):
	}
	return s.MemoryDuelProgressStore.SaveDuelProgress(ctx, installationID, progress)
}

func TestRegistry_SweepFailureDoesNotCancelOtherSaves(t *testing.T) {
	ctx := testContext()
	clk := clock.Fake(duelEpoch)
	memory := datasources.NewMemoryDuelProgressStore()
	cooling := domain.DuelProgress{VotesCast: 15, CooldownEndsAt: duelEpoch.Add(time.Minute)}
	ids := []string{"install-a", "install-b", "install-c"}
	for _, id := range ids {
		require.NoError(t, memory.SaveDuelProgress(ctx, id, cooling))
	}

	store := &contextCheckingStore{MemoryDuelProgressStore: memory, failing: "install-b", failed: make(chan struct{})}
	r := NewRegistry(stubMatchAPI{}, store, clk, RegistryConfig{})
	for _, id := range ids {
		require.NoError(t, r.Duel(ctx, id).Start(ctx))
	}

	clk.Advance(2 * time.Minute)
	r.Sweep(ctx)

	for _, id := range []string{"install-a", "install-c"} {
		saved, err := memory.LoadDuelProgress(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.DuelProgress{}, saved, id)
	}
	saved, err := memory.LoadDuelProgress(ctx, "install-b")
	require.NoError(t, err)
	assert.Equal(t, cooling, saved, "failed save leaves the old record")
}

func TestRegistry_RunClosesSessionsOnShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(testContext())
	clk := clock.Fake(duelEpoch)
	r := NewRegistry(stubMatchAPI{}, datasources.NewMemoryDuelProgressStore(), clk, RegistryConfig{})

	feed := r.Feed(ctx, "install-a")

	done := make(chan error, 1)
	go func() {
		done <- r.Run(ctx)
	}()
	clk.WaitForTickers(1)

	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 0, r.Len())
	_, err := feed.Retreat(ctx)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
}
