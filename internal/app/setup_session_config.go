package app

import (
	"context"

	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

// DefaultSessionConfig returns the feed paging, duel quota and idle eviction used when the
// environment does not override them.
func DefaultSessionConfig() session.RegistryConfig {
	return session.RegistryConfig{
		Feed:        session.DefaultFeedConfig(),
		DuelPolicy:  domain.DefaultDuelPolicy(),
		IdleTimeout: session.DefaultIdleTimeout,
	}
}

// SessionConfigFromEnv applies the optional FEED_*, DUEL_* and SESSION_* overrides.
func SessionConfigFromEnv(ctx context.Context) session.RegistryConfig {
	cfg := DefaultSessionConfig()

	cfg.Feed.PageSize = GetEnvAsInt(ctx, "FEED_PAGE_SIZE", cfg.Feed.PageSize)
	cfg.Feed.MaxRedundantFetches = GetEnvAsInt(ctx, "FEED_MAX_REDUNDANT_FETCHES", cfg.Feed.MaxRedundantFetches)
	cfg.DuelPolicy.Quota = GetEnvAsInt(ctx, "DUEL_QUOTA", cfg.DuelPolicy.Quota)
	cfg.DuelPolicy.Cooldown = GetEnvAsDuration(ctx, "DUEL_COOLDOWN", cfg.DuelPolicy.Cooldown)
	cfg.IdleTimeout = GetEnvAsDuration(ctx, "SESSION_IDLE_TIMEOUT", cfg.IdleTimeout)

	return cfg
}
