package command

import (
	"context"
	"fmt"

	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

type LoadDuelRoundRequest struct {
	InstallationID string
}

// LoadDuelRound opens the duel view: it reconciles the gate and, while voting is open,
// makes sure there is a pair to show.
type LoadDuelRound struct {
	PairFetcher datasources.DuelPairFetcher
	Sessions    DuelSessions
}

var _ Command[LoadDuelRoundRequest, session.DuelState] = (*LoadDuelRound)(nil)

func (c *LoadDuelRound) Execute(ctx context.Context, req LoadDuelRoundRequest) (session.DuelState, error) {
	duel := c.Sessions.Duel(ctx, req.InstallationID)
	if err := duel.Start(ctx); err != nil {
		return session.DuelState{}, fmt.Errorf("starting duel session: %w", err)
	}

	if duel.Progress().State() == domain.DuelGateCooling {
		return duel.State(), nil
	}

	if round, ok := duel.Round(); ok && !round.IsFinal() {
		return duel.State(), nil
	}

	round, err := c.PairFetcher.FetchDuelPair(ctx, "")
	if err != nil {
		return duel.State(), fmt.Errorf("fetching duel pair: %w", err)
	}
	duel.SetRound(round)

	return duel.State(), nil
}
