package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/swipefeed/swipefeed/internal/datasources/mocks"
	"github.com/swipefeed/swipefeed/internal/domain"
)

func testContext() context.Context {
	return domain.ContextWithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func cands(ids ...string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Candidate{
			ID:     id,
			Name:   "name-" + id,
			Photos: []string{"https://cdn.example/" + id + ".jpg"},
		})
	}
	return out
}

func page(offset int, refresh bool) domain.PageRequest {
	return domain.PageRequest{Limit: 3, Offset: offset, Refresh: refresh}
}

func expectViews(marker *mocks.MockCandidateViewMarker, ids ...string) {
	for _, id := range ids {
		marker.EXPECT().MarkCandidateViewed(mock.Anything, id).Return(nil).Once()
	}
}

func TestFeedSession_StartLoadsFirstPage(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	expectViews(marker, "a")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	snap, err := s.Start(ctx)
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, domain.CursorViewing, snap.State)
	require.NotNil(t, snap.Current)
	assert.Equal(t, "a", snap.Current.ID)
	assert.Equal(t, 3, snap.Buffered)
	assert.False(t, snap.Exhausted)
	assert.Equal(t, []string{"https://cdn.example/b.jpg"}, snap.UpcomingPhotos)

	again, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Generation, again.Generation, "second start does not refetch")
}

func TestFeedSession_AdvancePrefetchesAtTail(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(3, false)).Return(cands("c", "d", "e"), nil).Once()
	expectViews(marker, "a", "b", "c", "d")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)

	snap, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Index)
	assert.Equal(t, 3, snap.Buffered)

	snap, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index)

	snap, err = s.AwaitPrefetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index)
	assert.Equal(t, 5, snap.Buffered, "landing on the tail fetched the next page")
	assert.False(t, snap.Loading)

	snap, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", snap.Current.ID)

	// Going back over viewed candidates does not mark them again.
	_, err = s.Retreat(ctx)
	require.NoError(t, err)
	snap, err = s.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", snap.Current.ID)

	s.Wait()
}

func TestFeedSession_EndOfContent(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b"), nil).Once()
	expectViews(marker, "a", "b")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	snap, err := s.Start(ctx)
	require.NoError(t, err)
	assert.True(t, snap.Exhausted)

	_, err = s.Advance(ctx)
	require.NoError(t, err)

	snap, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CursorEndOfContent, snap.State)
	assert.Nil(t, snap.Current)

	snap, err = s.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.CursorViewing, snap.State)
	assert.Equal(t, "b", snap.Current.ID)

	s.Wait()
}

func TestFeedSession_DuplicatePagesFetchAgain(t *testing.T) {
	cases := []struct {
		name                string
		maxRedundantFetches int
		pages               map[int][]string
		wantBuffered        int
		wantLikelyExhausted bool
	}{
		{
			name:                "novel_page_after_duplicates",
			maxRedundantFetches: 3,
			pages: map[int][]string{
				0: {"a", "b", "c"},
				3: {"a", "b", "c"},
				6: {"c", "d", "e"},
			},
			wantBuffered: 5,
		},
		{
			name:                "duplicate_cap_exhausts",
			maxRedundantFetches: 2,
			pages: map[int][]string{
				0: {"a", "b", "c"},
				3: {"a", "b", "c"},
				6: {"c", "b", "a"},
			},
			wantBuffered:        3,
			wantLikelyExhausted: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := testContext()
			fetcher := mocks.NewMockFeedPageFetcher(t)
			marker := mocks.NewMockCandidateViewMarker(t)

			for offset, ids := range tc.pages {
				fetcher.EXPECT().FetchFeedPage(mock.Anything, page(offset, offset == 0)).Return(cands(ids...), nil).Once()
			}
			expectViews(marker, "a", "b", "c")

			s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3, MaxRedundantFetches: tc.maxRedundantFetches})
			_, err := s.Start(ctx)
			require.NoError(t, err)
			_, err = s.Advance(ctx)
			require.NoError(t, err)

			_, err = s.Advance(ctx)
			require.NoError(t, err)
			snap, err := s.AwaitPrefetch(ctx)
			require.NoError(t, err)
			s.Wait()

			assert.Equal(t, tc.wantBuffered, snap.Buffered)
			assert.Equal(t, tc.wantLikelyExhausted, snap.LikelyExhausted)
			assert.Equal(t, tc.wantLikelyExhausted, snap.Exhausted)
		})
	}
}

func TestFeedSession_FetchFailureKeepsState(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).
		Return(nil, fmt.Errorf("upstream: %w", domain.ErrFetchFailed)).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	expectViews(marker, "a")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	snap, err := s.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.Equal(t, domain.CursorAwaitingContent, snap.State)
	assert.Equal(t, 0, snap.Buffered)
	assert.False(t, snap.Loading)

	require.NoError(t, s.LoadMore(ctx))
	snap = s.Snapshot()
	assert.Equal(t, domain.CursorViewing, snap.State)
	assert.Equal(t, "a", snap.Current.ID)

	s.Wait()
}

func TestFeedSession_NotEnoughCandidates(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).
		Return(nil, fmt.Errorf("upstream: %w", domain.ErrNotEnoughCandidates)).Once()

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	snap, err := s.Start(ctx)
	assert.ErrorIs(t, err, domain.ErrNotEnoughCandidates)
	assert.True(t, snap.NoContent)

	// Retrying is pointless until a refresh; no further request is made.
	assert.ErrorIs(t, s.LoadMore(ctx), domain.ErrNotEnoughCandidates)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a"), nil).Once()
	expectViews(marker, "a")

	snap, err = s.Refresh(ctx)
	require.NoError(t, err)
	assert.False(t, snap.NoContent)
	assert.Equal(t, "a", snap.Current.ID)

	s.Wait()
}

func TestFeedSession_AdvanceDoesNotWaitForNextPage(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	started := make(chan struct{})
	release := make(chan struct{})

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(3, false)).
		RunAndReturn(func(context.Context, domain.PageRequest) ([]domain.Candidate, error) {
			close(started)
			<-release
			return cands("d", "e", "f"), nil
		}).Once()
	expectViews(marker, "a", "b", "c", "d")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	// The page fetch is held open, yet landing on the tail returns at once.
	snap, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index)
	assert.Equal(t, "c", snap.Current.ID)
	assert.True(t, snap.Loading)
	<-started

	snap, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Index, "tail advance does not move before content arrives")
	assert.True(t, snap.Loading)

	snap, err = s.Retreat(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", snap.Current.ID, "navigation stays responsive during the fetch")

	close(release)
	snap, err = s.AwaitPrefetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.Buffered)
	assert.Equal(t, 1, snap.Index)
	assert.False(t, snap.Loading)

	_, err = s.Advance(ctx)
	require.NoError(t, err)
	snap, err = s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "d", snap.Current.ID)

	s.Wait()
}

func TestFeedSession_PrefetchFailureIsReported(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(3, false)).
		Return(nil, fmt.Errorf("upstream: %w", domain.ErrFetchFailed)).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(3, false)).Return(cands("d"), nil).Once()
	expectViews(marker, "a", "b", "c")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	snap, err := s.AwaitPrefetch(ctx)
	assert.ErrorIs(t, err, domain.ErrFetchFailed)
	assert.True(t, snap.FetchFailed)
	assert.False(t, snap.Loading)
	assert.Equal(t, 2, snap.Index)
	assert.Equal(t, 3, snap.Buffered)

	require.NoError(t, s.LoadMore(ctx))
	assert.Equal(t, 4, s.Snapshot().Buffered)

	s.Wait()
}

func TestFeedSession_CloseCancelsPrefetch(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(3, false)).
		RunAndReturn(func(ctx context.Context, _ domain.PageRequest) ([]domain.Candidate, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).Once()
	marker.EXPECT().MarkCandidateViewed(mock.Anything, mock.Anything).Return(nil).Maybe()

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)
	_, err = s.Advance(ctx)
	require.NoError(t, err)

	s.Close()
	s.Wait()

	snap, err := s.AwaitPrefetch(ctx)
	require.NoError(t, err)
	assert.False(t, snap.Loading)
	assert.Equal(t, 3, snap.Buffered)
	assert.True(t, s.Closed())
}

func TestFeedSession_StaleResultsAreDiscarded(t *testing.T) {
	t.Run("after_close", func(t *testing.T) {
		ctx := testContext()
		fetcher := mocks.NewMockFeedPageFetcher(t)
		marker := mocks.NewMockCandidateViewMarker(t)

		started := make(chan struct{})
		release := make(chan struct{})
		fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).
			RunAndReturn(func(context.Context, domain.PageRequest) ([]domain.Candidate, error) {
				close(started)
				<-release
				return cands("a", "b", "c"), nil
			}).Once()

		s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})

		done := make(chan error, 1)
		go func() {
			_, err := s.Start(ctx)
			done <- err
		}()
		<-started

		s.Close()
		close(release)

		assert.ErrorIs(t, <-done, domain.ErrSessionClosed)
		assert.Equal(t, 0, s.Snapshot().Buffered)

		_, err := s.Advance(ctx)
		assert.ErrorIs(t, err, domain.ErrSessionClosed)
	})

	t.Run("after_refresh", func(t *testing.T) {
		ctx := testContext()
		fetcher := mocks.NewMockFeedPageFetcher(t)
		marker := mocks.NewMockCandidateViewMarker(t)

		started := make(chan struct{})
		release := make(chan struct{})
		var calls atomic.Int32
		fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).
			RunAndReturn(func(context.Context, domain.PageRequest) ([]domain.Candidate, error) {
				if calls.Add(1) == 1 {
					close(started)
					<-release
					return cands("old1", "old2", "old3"), nil
				}
				return cands("new1", "new2"), nil
			}).Times(2)
		expectViews(marker, "new1")

		s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
		first := s.Snapshot().Generation

		done := make(chan error, 1)
		go func() {
			_, err := s.Start(ctx)
			done <- err
		}()
		<-started

		snap, err := s.Refresh(ctx)
		require.NoError(t, err)
		assert.NotEqual(t, first, snap.Generation)

		close(release)
		require.NoError(t, <-done)

		snap = s.Snapshot()
		assert.Equal(t, 2, snap.Buffered)
		assert.Equal(t, "new1", snap.Current.ID)

		s.Wait()
	})
}

func TestFeedSession_ApplyLikeResult(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	expectViews(marker, "a")

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)

	assert.True(t, s.ApplyLikeResult(ctx, "b", true))
	liked, ok := s.Candidate("b")
	require.True(t, ok)
	assert.True(t, liked.IsLiked)

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Index, "reconciling a like never moves the cursor")
	assert.False(t, snap.Current.IsLiked)

	assert.False(t, s.ApplyLikeResult(ctx, "missing", true))
	assert.Equal(t, 3, s.Snapshot().Buffered)

	s.Wait()
}

func TestFeedSession_ViewMarkFailureIsOnlyLogged(t *testing.T) {
	ctx := testContext()
	fetcher := mocks.NewMockFeedPageFetcher(t)
	marker := mocks.NewMockCandidateViewMarker(t)

	fetcher.EXPECT().FetchFeedPage(mock.Anything, page(0, true)).Return(cands("a", "b", "c"), nil).Once()
	marker.EXPECT().MarkCandidateViewed(mock.Anything, "a").Return(domain.ErrFetchFailed).Once()
	marker.EXPECT().MarkCandidateViewed(mock.Anything, "b").Return(nil).Once()

	s := NewFeedSession(ctx, fetcher, marker, FeedConfig{PageSize: 3})
	_, err := s.Start(ctx)
	require.NoError(t, err)

	snap, err := s.Advance(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", snap.Current.ID)

	s.Wait()
}
