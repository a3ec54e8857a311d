package controller

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swipefeed/swipefeed/internal/datasources/mocks"
	"github.com/swipefeed/swipefeed/internal/domain"
	"github.com/swipefeed/swipefeed/internal/session"
)

func testContext() func(r *http.Request) *http.Request {
	return func(r *http.Request) *http.Request {
		ctx := domain.ContextWithLogger(r.Context(), slog.New(slog.DiscardHandler))
		ctx = domain.ContextWithInstallationID(ctx, "install-1")
		return r.WithContext(ctx)
	}
}

type commandFunc[Req, Res any] func(ctx context.Context, req Req) (Res, error)

func (f commandFunc[Req, Res]) Execute(ctx context.Context, req Req) (Res, error) {
	return f(ctx, req)
}

type singleFeed struct {
	feed *session.FeedSession
}

func (s singleFeed) Feed(context.Context, string) *session.FeedSession {
	return s.feed
}

func (s singleFeed) OpenFeed(context.Context, string) *session.FeedSession {
	return s.feed
}

// newTestFeed returns a feed over a fetcher expecting the given first page. Views are accepted
// for any candidate.
func newTestFeed(t *testing.T, first []domain.Candidate, firstErr error) (*session.FeedSession, *mocks.MockFeedPageFetcher) {
	t.Helper()

	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().
		FetchFeedPage(mock.Anything, domain.PageRequest{Limit: 3, Offset: 0, Refresh: true}).
		Return(first, firstErr).Once()
	marker.EXPECT().MarkCandidateViewed(mock.Anything, mock.Anything).Return(nil).Maybe()

	feed := session.NewFeedSession(context.Background(), fetcher, marker, session.FeedConfig{PageSize: 3})
	t.Cleanup(func() {
		feed.Close()
		feed.Wait()
	})
	return feed, fetcher
}

func startedFeed(t *testing.T, ids ...string) *session.FeedSession {
	t.Helper()

	candidates := make([]domain.Candidate, 0, len(ids))
	for _, id := range ids {
		candidates = append(candidates, domain.Candidate{ID: id, Name: "name-" + id})
	}

	feed, _ := newTestFeed(t, candidates, nil)
	_, err := feed.Start(context.Background())
	require.NoError(t, err)
	return feed
}
