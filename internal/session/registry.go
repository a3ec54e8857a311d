package session

import (
	"context"
	"sync"
	"time"

	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultIdleTimeout = 30 * time.Minute

	// NoIdleEviction keeps sessions until the registry stops.
	NoIdleEviction time.Duration = -1

	// How long an evicted feed keeps answering ErrSessionClosed before its id is forgotten.
	evictedRetention = 24 * time.Hour

	maxConcurrentReconciles = 8
)

type RegistryConfig struct {
	Feed        FeedConfig
	DuelPolicy  domain.DuelPolicy
	IdleTimeout time.Duration
}

// Registry keeps the feed and duel session of every active installation. Sessions unused for
// longer than the idle timeout are closed. A client still holding an evicted feed gets
// ErrSessionClosed from it until it opens a new one with OpenFeed, so its position is never
// silently reset underneath it.
type Registry struct {
	api   datasources.MatchAPI
	store datasources.DuelProgressStore
	clock clock.Clock
	cfg   RegistryConfig

	mu      sync.Mutex
	entries map[string]*registryEntry
	// Installations whose feed was evicted, with the eviction time.
	evicted map[string]time.Time
}

type registryEntry struct {
	feed     *FeedSession
	duel     *DuelSession
	lastUsed time.Time
}

func NewRegistry(
	api datasources.MatchAPI,
	store datasources.DuelProgressStore,
	clk clock.Clock,
	cfg RegistryConfig,
) *Registry {
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	return &Registry{
		api:     api,
		store:   store,
		clock:   clk,
		cfg:     cfg,
		entries: make(map[string]*registryEntry),
		evicted: make(map[string]time.Time),
	}
}

// Feed returns the installation's feed session, creating it on first use. When the feed was
// evicted, the returned session is closed and every operation on it fails with
// ErrSessionClosed.
func (r *Registry) Feed(ctx context.Context, installationID string) *FeedSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.evicted[installationID]; ok {
		closed := NewFeedSession(ctx, r.api, r.api, r.cfg.Feed)
		closed.Close()
		return closed
	}

	entry := r.entryLocked(installationID)
	if entry.feed == nil {
		entry.feed = NewFeedSession(ctx, r.api, r.api, r.cfg.Feed)
	}
	return entry.feed
}

// OpenFeed returns the installation's feed session like Feed, but starts a new one when the
// previous feed was evicted.
func (r *Registry) OpenFeed(ctx context.Context, installationID string) *FeedSession {
	r.mu.Lock()
	delete(r.evicted, installationID)
	r.mu.Unlock()

	return r.Feed(ctx, installationID)
}

// Duel returns the installation's duel session, creating it on first use. The returned
// session may not have been started yet.
func (r *Registry) Duel(_ context.Context, installationID string) *DuelSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entryLocked(installationID)
	if entry.duel == nil {
		entry.duel = NewDuelSession(installationID, r.store, r.cfg.DuelPolicy, r.clock)
	}
	return entry.duel
}

func (r *Registry) entryLocked(installationID string) *registryEntry {
	entry, ok := r.entries[installationID]
	if !ok {
		entry = &registryEntry{}
		r.entries[installationID] = entry
	}
	entry.lastUsed = r.clock.Now()
	return entry
}

// Len returns the number of tracked installations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.entries)
}

// Run evicts idle sessions and reconciles duel cooldowns until ctx is cancelled, then closes
// every session.
func (r *Registry) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.sweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			r.Sweep(ctx)
		}
	}
}

func (r *Registry) sweepInterval() time.Duration {
	interval := r.cfg.IdleTimeout / 2
	if interval <= 0 || interval > time.Minute {
		interval = time.Minute
	}
	return interval
}

// Sweep closes sessions idle past the timeout and reconciles the remaining duel sessions.
// A failed reconcile is logged and does not stop the others.
func (r *Registry) Sweep(ctx context.Context) {
	logger := domain.LoggerFromContext(ctx)
	now := r.clock.Now()

	var (
		evicted []*registryEntry
		duels   []*DuelSession
	)

	r.mu.Lock()
	for id, entry := range r.entries {
		if r.cfg.IdleTimeout > 0 && now.Sub(entry.lastUsed) > r.cfg.IdleTimeout {
			evicted = append(evicted, entry)
			delete(r.entries, id)
			if entry.feed != nil {
				r.evicted[id] = now
			}
			continue
		}
		if entry.duel != nil {
			duels = append(duels, entry.duel)
		}
	}
	for id, at := range r.evicted {
		if now.Sub(at) > evictedRetention {
			delete(r.evicted, id)
		}
	}
	r.mu.Unlock()

	for _, entry := range evicted {
		if entry.feed != nil {
			entry.feed.Close()
		}
	}
	if len(evicted) > 0 {
		logger.DebugContext(ctx, "evicted idle sessions", "count", len(evicted))
	}

	var grp errgroup.Group
	grp.SetLimit(maxConcurrentReconciles)
	for _, duel := range duels {
		grp.Go(func() error {
			if err := duel.Reconcile(ctx); err != nil {
				logger.ErrorContext(ctx, "unable to reconcile duel progress",
					"installation_id", duel.InstallationID(),
					"error", err,
				)
				return err
			}
			return nil
		})
	}
	_ = grp.Wait()
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		if entry.feed != nil {
			entry.feed.Close()
			entry.feed.Wait()
		}
	}
}
