package controller

import (
	"encoding/json"
	"net/http"

	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

const maxGestureBytes = 1024

type gestureRequest struct {
	Axis           string  `json:"axis"`
	DX             float64 `json:"dx"`
	DY             float64 `json:"dy"`
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
}

type gestureResponse struct {
	Intent domain.Intent        `json:"intent"`
	Feed   session.FeedSnapshot `json:"feed"`
}

// FeedGesture maps a completed drag to a navigation intent and applies it.
type FeedGesture struct {
	Sessions         command.FeedSessions
	ViewportFraction float64
}

func (c FeedGesture) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := domain.LoggerFromContext(ctx)

	var req gestureRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxGestureBytes)).Decode(&req); err != nil {
		logger.WarnContext(ctx, "unable to decode gesture", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var (
		axis         domain.GestureAxis
		displacement float64
		extent       float64
	)
	switch req.Axis {
	case "", "vertical":
		axis, displacement, extent = domain.AxisVertical, req.DY, req.ViewportHeight
	case "horizontal":
		axis, displacement, extent = domain.AxisHorizontal, req.DX, req.ViewportWidth
	default:
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if extent <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	mapper := domain.NewGestureMapper(axis, domain.ThresholdFromViewport(extent, c.ViewportFraction))
	intent := mapper.MapDisplacement(displacement)

	feed := c.Sessions.Feed(ctx, domain.InstallationIDFromContext(ctx))
	snap, err := feed.Navigate(ctx, intent)
	if err != nil {
		writeFeedResult(w, r, snap, err)
		return
	}

	writeJSON(w, r, http.StatusOK, gestureResponse{Intent: intent, Feed: snap})
}
