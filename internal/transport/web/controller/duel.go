package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

type DuelGet struct {
	LoadDuelRoundCmd command.Command[command.LoadDuelRoundRequest, session.DuelState]
}

func (c DuelGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := c.LoadDuelRoundCmd.Execute(ctx, command.LoadDuelRoundRequest{
		InstallationID: domain.InstallationIDFromContext(ctx),
	})
	writeDuelResult(w, r, state, err)
}

type DuelVote struct {
	CastDuelVoteCmd command.Command[command.CastDuelVoteRequest, session.DuelState]
}

func (c DuelVote) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	state, err := c.CastDuelVoteCmd.Execute(ctx, command.CastDuelVoteRequest{
		InstallationID: domain.InstallationIDFromContext(ctx),
		WinnerID:       mux.Vars(r)["winner_id"],
	})
	writeDuelResult(w, r, state, err)
}
