package controller

import (
	"net/http"

	"github.com/swipefeed/swipefeed/internal/command"
	"github.com/swipefeed/swipefeed/internal/domain"
)

// FeedGet returns the viewer's feed, loading the first page on first use. It also retries a
// first page that previously failed and reopens an expired feed. With wait=true it answers
// once a page fetch started by navigation has finished.
type FeedGet struct {
	Sessions command.FeedOpener
}

func (c FeedGet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed := c.Sessions.OpenFeed(ctx, domain.InstallationIDFromContext(ctx))

	snap, err := feed.Start(ctx)
	if err == nil && r.URL.Query().Get("wait") == "true" {
		snap, err = feed.AwaitPrefetch(ctx)
	}
	writeFeedResult(w, r, snap, err)
}

// FeedNavigate applies one advance or retreat intent.
type FeedNavigate struct {
	Sessions command.FeedSessions
	Intent   domain.Intent
}

func (c FeedNavigate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed := c.Sessions.Feed(ctx, domain.InstallationIDFromContext(ctx))

	snap, err := feed.Navigate(ctx, c.Intent)
	writeFeedResult(w, r, snap, err)
}

type FeedRefresh struct {
	Sessions command.FeedOpener
}

func (c FeedRefresh) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	feed := c.Sessions.OpenFeed(ctx, domain.InstallationIDFromContext(ctx))

	snap, err := feed.Refresh(ctx)
	writeFeedResult(w, r, snap, err)
}
