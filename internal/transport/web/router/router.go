package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
	"github.com/swipefeed/swipefeed/internal/transport/web/controller"
)

// Sessions resolves both session kinds of an installation.
type Sessions interface {
	command.FeedSessions
	command.FeedOpener
	command.DuelSessions
}

func MakeRouter(
	sessions Sessions,
	gestureViewportFraction float64,
	toggleLikeCmd command.Command[command.ToggleLikeRequest, domain.LikeResult],
	loadDuelRoundCmd command.Command[command.LoadDuelRoundRequest, session.DuelState],
	castDuelVoteCmd command.Command[command.CastDuelVoteRequest, session.DuelState],
) (http.Handler, error) {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).Methods(http.MethodGet)

	// Registered on the root router so a method mismatch answers 405 rather than 404.
	v1 := func(path string, handler http.Handler, methods ...string) {
		r.Handle("/v1"+path, requireInstallationMiddleware(handler)).
			Methods(append(methods, http.MethodOptions)...)
	}

	v1("/feed", controller.FeedGet{
		Sessions: sessions,
	}, http.MethodGet)

	v1("/feed/advance", controller.FeedNavigate{
		Sessions: sessions,
		Intent:   domain.IntentAdvance,
	}, http.MethodPost)

	v1("/feed/retreat", controller.FeedNavigate{
		Sessions: sessions,
		Intent:   domain.IntentRetreat,
	}, http.MethodPost)

	v1("/feed/gesture", controller.FeedGesture{
		Sessions:         sessions,
		ViewportFraction: gestureViewportFraction,
	}, http.MethodPost)

	v1("/feed/refresh", controller.FeedRefresh{
		Sessions: sessions,
	}, http.MethodPost)

	v1("/candidates/{candidate_id}/like", controller.CandidateLikeToggle{
		ToggleLikeCmd: toggleLikeCmd,
	}, http.MethodPost)

	v1("/duel", controller.DuelGet{
		LoadDuelRoundCmd: loadDuelRoundCmd,
	}, http.MethodGet)

	v1("/duel/votes/{winner_id}", controller.DuelVote{
		CastDuelVoteCmd: castDuelVoteCmd,
	}, http.MethodPost)

	return r, nil
}
