package controller

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
)

type CandidateLikeToggle struct {
	ToggleLikeCmd command.Command[command.ToggleLikeRequest, domain.LikeResult]
}

func (c CandidateLikeToggle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID := mux.Vars(r)["candidate_id"]

	result, err := c.ToggleLikeCmd.Execute(ctx, command.ToggleLikeRequest{
		InstallationID: domain.InstallationIDFromContext(ctx),
		CandidateID:    candidateID,
	})
	if err != nil {
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to toggle like", "candidate_id", candidateID, "error", err)

		if errors.Is(err, domain.ErrFetchFailed) {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}
