// feed-tui is a terminal client for the candidate feed and duels. It talks to the matchmaking
// API directly and keeps duel progress in a local directory, so quotas survive restarts.
//
// Drag with the mouse (or use the arrow keys) to move through the feed; tab switches to
// duels.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/datasources/filestore"
	"github.com/swipefeed/swipefeed/internal/datasources/matchapi"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	apiURL           string
	token            string
	installationID   string
	progressDir      string
	logOutput        string
	axis             string
	pageSize         int
	viewportFraction float64
}

func run() error {
	var opts options

	flagSet := pflag.NewFlagSet("feed-tui", pflag.ContinueOnError)
	flagSet.StringVar(&opts.apiURL, "api-url", os.Getenv("MATCH_API_URL"), "base URL of the matchmaking API")
	flagSet.StringVar(&opts.token, "token", os.Getenv("MATCH_API_TOKEN"), "bearer token for the matchmaking API")
	flagSet.StringVar(&opts.installationID, "installation-id", "", "installation id duel progress is stored under (default: hostname)")
	flagSet.StringVar(&opts.progressDir, "progress-dir", "", "directory for duel progress (default: user config dir)")
	flagSet.StringVar(&opts.logOutput, "log-output", "", "write log records to this file")
	flagSet.StringVar(&opts.axis, "axis", "vertical", "drag axis: vertical or horizontal")
	flagSet.IntVar(&opts.pageSize, "page-size", session.DefaultPageSize, "candidates requested per page")
	flagSet.Float64Var(&opts.viewportFraction, "drag-fraction", domain.DefaultViewportFraction, "share of the terminal a drag must cover")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.apiURL == "" {
		return fmt.Errorf("--api-url or MATCH_API_URL is required")
	}

	axis, err := parseAxis(opts.axis)
	if err != nil {
		return err
	}
	if opts.installationID == "" {
		if opts.installationID, err = os.Hostname(); err != nil {
			return fmt.Errorf("resolving default installation id: %w", err)
		}
	}
	if opts.progressDir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("resolving default progress dir: %w", err)
		}
		opts.progressDir = filepath.Join(configDir, "swipefeed", "duels")
	}

	logger, closeLog, err := openLogger(opts.logOutput)
	if err != nil {
		return fmt.Errorf("opening log output %s: %w", opts.logOutput, err)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = domain.ContextWithLogger(ctx, logger)

	store, err := filestore.New(opts.progressDir)
	if err != nil {
		return fmt.Errorf("opening progress dir: %w", err)
	}

	api := matchapi.NewClient(opts.apiURL, opts.token)
	cfg := session.RegistryConfig{
		Feed: session.FeedConfig{
			PageSize:            opts.pageSize,
			MaxRedundantFetches: domain.DefaultMaxRedundantFetches,
		},
		DuelPolicy:  domain.DefaultDuelPolicy(),
		// The single viewer may leave the client open indefinitely.
		IdleTimeout: session.NoIdleEviction,
	}
	registry := session.NewRegistry(api, store, clock.Real(), cfg)

	registryDone := make(chan struct{})
	go func() {
		defer close(registryDone)
		_ = registry.Run(ctx)
	}()

	model := NewModel(ctx, ModelConfig{
		InstallationID:   opts.installationID,
		Sessions:         registry,
		ToggleLike:       &command.ToggleLike{LikeToggler: api, Sessions: registry},
		LoadDuelRound:    &command.LoadDuelRound{PairFetcher: api, Sessions: registry},
		CastDuelVote:     &command.CastDuelVote{PairFetcher: api, Sessions: registry},
		ViewportFraction: opts.viewportFraction,
		Axis:             axis,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	_, err = program.Run()

	cancel()
	<-registryDone
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

func parseAxis(s string) (domain.GestureAxis, error) {
	switch s {
	case "vertical":
		return domain.AxisVertical, nil
	case "horizontal":
		return domain.AxisHorizontal, nil
	default:
		return 0, fmt.Errorf("unknown axis [%s]", s)
	}
}

// openLogger returns a text logger writing to path, or a discarding logger when path is
// empty. bubbletea owns the terminal, so nothing is logged to stderr.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { file.Close() }, nil
}
