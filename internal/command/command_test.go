package command

import (
	"context"
	"log/slog"

	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

func testContext() context.Context {
	return domain.ContextWithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

type fixedSessions struct {
	feed *session.FeedSession
	duel *session.DuelSession
}

func (s fixedSessions) Feed(context.Context, string) *session.FeedSession {
	return s.feed
}

func (s fixedSessions) Duel(context.Context, string) *session.DuelSession {
	return s.duel
}
