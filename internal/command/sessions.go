package command

import (
	"context"

	"github.com/swipefeed/swipefeed/internal/session"
)

// FeedSessions resolves the feed session of an installation.
type FeedSessions interface {
	Feed(ctx context.Context, installationID string) *session.FeedSession
}

// FeedOpener resolves the feed session of an installation, starting a new one in place of an
// expired feed.
type FeedOpener interface {
	OpenFeed(ctx context.Context, installationID string) *session.FeedSession
}

// DuelSessions resolves the duel session of an installation.
type DuelSessions interface {
	Duel(ctx context.Context, installationID string) *session.DuelSession
}
