package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

type CastDuelVoteRequest struct {
	InstallationID string
	WinnerID       string
}

// CastDuelVote sends the viewer's pick for the current pair and counts it against the quota
// once the server has answered with the next round.
type CastDuelVote struct {
	PairFetcher datasources.DuelPairFetcher
	Sessions    DuelSessions
}

var _ Command[CastDuelVoteRequest, session.DuelState] = (*CastDuelVote)(nil)

func (c *CastDuelVote) Execute(ctx context.Context, req CastDuelVoteRequest) (session.DuelState, error) {
	duel := c.Sessions.Duel(ctx, req.InstallationID)
	if err := duel.Start(ctx); err != nil {
		return session.DuelState{}, fmt.Errorf("starting duel session: %w", err)
	}

	if err := duel.BeginVote(); err != nil {
		return duel.State(), err
	}

	round, ok := duel.Round()
	if !ok || !round.HasCandidate(req.WinnerID) {
		duel.AbortVote()
		return duel.State(), fmt.Errorf("voting for [%s]: %w", req.WinnerID, domain.ErrUnknownCandidate)
	}

	next, err := c.PairFetcher.FetchDuelPair(ctx, req.WinnerID)
	if err != nil {
		duel.AbortVote()
		return duel.State(), fmt.Errorf("submitting duel vote: %w", err)
	}

	if err := duel.CompleteVote(ctx, next); err != nil {
		if errors.Is(err, domain.ErrVotingClosed) {
			return duel.State(), err
		}
		// The vote is already counted in memory; a lost write only affects a restart.
		domain.LoggerFromContext(ctx).ErrorContext(ctx, "unable to persist duel progress",
			"installation_id", req.InstallationID,
			"error", err,
		)
	}

	return duel.State(), nil
}
