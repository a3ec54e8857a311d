package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

type errorResponse struct {
	Message   string                `json:"message"`
	Retryable bool                  `json:"retryable,omitempty"`
	ReopensAt *time.Time            `json:"reopens_at,omitempty"`
	Countdown *domain.Countdown     `json:"countdown,omitempty"`
	Feed      *session.FeedSnapshot `json:"feed,omitempty"`
	Duel      *session.DuelState    `json:"duel,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		ctx := r.Context()
		logger := domain.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "unable to write response", "error", err)
	}
}

// writeFeedResult writes a feed snapshot, mapping session errors to statuses. Running out of
// candidates is not an error for the client; the snapshot says so.
func writeFeedResult(w http.ResponseWriter, r *http.Request, snap session.FeedSnapshot, err error) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	switch {
	case err == nil, errors.Is(err, domain.ErrNotEnoughCandidates):
		writeJSON(w, r, http.StatusOK, snap)
	case errors.Is(err, domain.ErrFetchFailed):
		logger.WarnContext(ctx, "unable to fetch feed page", "error", err)
		writeJSON(w, r, http.StatusBadGateway, errorResponse{
			Message:   "unable to load candidates",
			Retryable: true,
			Feed:      &snap,
		})
	case errors.Is(err, domain.ErrSessionClosed):
		writeJSON(w, r, http.StatusConflict, errorResponse{Message: "session expired, reload the feed"})
	default:
		logger.ErrorContext(ctx, "unable to update feed", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func writeDuelResult(w http.ResponseWriter, r *http.Request, state session.DuelState, err error) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var closed *domain.VotingClosedError
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, state)
	case errors.As(err, &closed):
		reopensAt := closed.ReopensAt
		countdown := domain.CountdownFor(time.Until(reopensAt))
		if state.Countdown != nil {
			countdown = *state.Countdown
		}
		retryAfter := countdown.Hours*3600 + countdown.Minutes*60 + countdown.Seconds
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		writeJSON(w, r, http.StatusTooManyRequests, errorResponse{
			Message:   "voting closed until cooldown ends",
			ReopensAt: &reopensAt,
			Countdown: &countdown,
			Duel:      &state,
		})
	case errors.Is(err, domain.ErrNotEnoughCandidates):
		state.NoContent = true
		writeJSON(w, r, http.StatusOK, state)
	case errors.Is(err, domain.ErrUnknownCandidate):
		writeJSON(w, r, http.StatusNotFound, errorResponse{Message: "candidate is not part of the current pair"})
	case errors.Is(err, session.ErrVoteInFlight):
		writeJSON(w, r, http.StatusConflict, errorResponse{Message: "previous vote still pending"})
	case errors.Is(err, domain.ErrFetchFailed):
		logger.WarnContext(ctx, "unable to reach duel endpoint", "error", err)
		writeJSON(w, r, http.StatusBadGateway, errorResponse{
			Message:   "unable to load duel",
			Retryable: true,
			Duel:      &state,
		})
	default:
		logger.ErrorContext(ctx, "unable to process duel request", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
