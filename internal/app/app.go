package app

import (
	"context"
	"fmt"

	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/datasources/filestore"
	"github.com/swipefeed/swipefeed/internal/datasources/matchapi"
	"github.com/swipefeed/swipefeed/internal/datasources/sqlstore"
	"github.com/swipefeed/swipefeed/internal/session"
	"github.com/swipefeed/swipefeed/internal/transport/web/router"
	"github.com/swipefeed/swipefeed/internal/transport/web/server"
)

type Component interface {
	Run(ctx context.Context) error
}

func Setup(ctx context.Context) ([]Component, error) {
	api := SetupMatchAPI(ctx)

	progress, err := SetupDuelProgressStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("setting up duel progress store: %w", err)
	}

	registry := session.NewRegistry(api, progress, clock.Real(), SessionConfigFromEnv(ctx))

	toggleLikeCmd := &command.ToggleLike{
		LikeToggler: api,
		Sessions:    registry,
	}
	loadDuelRoundCmd := &command.LoadDuelRound{
		PairFetcher: api,
		Sessions:    registry,
	}
	castDuelVoteCmd := &command.CastDuelVote{
		PairFetcher: api,
		Sessions:    registry,
	}

	httpRouter, err := router.MakeRouter(
		registry,
		GetEnvAsFloat(ctx, "GESTURE_VIEWPORT_FRACTION", 0),
		toggleLikeCmd,
		loadDuelRoundCmd,
		castDuelVoteCmd,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to create HTTP router: %w", err)
	}

	return []Component{
		&server.Server{
			TLSDisabled:       MustGetEnvAsBoolean(ctx, "HTTP_TLS_DISABLED"),
			TLSDisabledPort:   MustGetEnvAsInt(ctx, "PORT"),
			AutocertHostnames: MustGetEnvAsStrings(ctx, "HTTP_AUTOCERT_HOSTNAMES"),
			Router:            httpRouter,
		},
		registry,
	}, nil
}

// SetupMatchAPI builds the client for the upstream matching service.
func SetupMatchAPI(ctx context.Context) *matchapi.Client {
	return matchapi.NewClient(
		MustGetEnvAsString(ctx, "MATCH_API_URL"),
		GetEnvAsString(ctx, "MATCH_API_TOKEN", ""),
		matchapi.WithRetry(
			GetEnvAsInt(ctx, "MATCH_API_MAX_ATTEMPTS", matchapi.DefaultMaxAttempts),
			GetEnvAsDuration(ctx, "MATCH_API_RETRY_BACKOFF", matchapi.DefaultRetryBackoff),
		),
	)
}

// SetupDuelProgressStore selects where duel quotas survive restarts, per PROGRESS_DRIVER.
func SetupDuelProgressStore(ctx context.Context) (datasources.DuelProgressStore, error) {
	switch driver := MustGetEnvAsString(ctx, "PROGRESS_DRIVER"); driver {
	case "memory":
		return datasources.NewMemoryDuelProgressStore(), nil
	case "file":
		store, err := filestore.New(MustGetEnvAsString(ctx, "PROGRESS_DIR"))
		if err != nil {
			return nil, fmt.Errorf("opening progress directory: %w", err)
		}
		return store, nil
	case sqlstore.DriverMySQL, sqlstore.DriverPostgres, sqlstore.DriverSQLite:
		flavor, err := sqlstore.FlavorFor(driver)
		if err != nil {
			return nil, err
		}

		db, err := sqlstore.Connect(ctx, driver, MustGetEnvAsString(ctx, "PROGRESS_DSN"))
		if err != nil {
			return nil, fmt.Errorf("connecting to progress DB: %w", err)
		}

		repo := sqlstore.New(db, flavor)
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrating progress DB: %w", err)
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown progress driver [%s]", driver)
	}
}
