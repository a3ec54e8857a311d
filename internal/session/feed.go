// Package session holds the stateful per-viewer engines: the candidate feed and the duel gate.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

// DefaultPageSize is the number of candidates requested per feed page.
const DefaultPageSize = 10

type FeedConfig struct {
	PageSize            int
	MaxRedundantFetches int
}

func DefaultFeedConfig() FeedConfig {
	return FeedConfig{
		PageSize:            DefaultPageSize,
		MaxRedundantFetches: domain.DefaultMaxRedundantFetches,
	}
}

// FeedSnapshot is a consistent view of a feed session at one point in time.
type FeedSnapshot struct {
	Generation      string             `json:"generation"`
	State           domain.CursorState `json:"state"`
	Index           int                `json:"index"`
	Current         *domain.Candidate  `json:"current,omitempty"`
	Buffered        int                `json:"buffered"`
	Loading         bool               `json:"loading"`
	Exhausted       bool               `json:"exhausted"`
	LikelyExhausted bool               `json:"likely_exhausted"`
	NoContent       bool               `json:"no_content"`
	FetchFailed     bool               `json:"fetch_failed,omitempty"`
	UpcomingPhotos  []string           `json:"upcoming_photos,omitempty"`
}

// FeedSession owns one viewer's candidate buffer, viewing cursor and page fetches.
//
// At most one page fetch is in flight. The mutex is held only around state transitions,
// never while waiting on the network. A refresh starts a new generation; pages fetched for
// an older generation, or after Close, are discarded.
type FeedSession struct {
	fetcher datasources.FeedPageFetcher
	marker  datasources.CandidateViewMarker
	cfg     FeedConfig

	// Carries the logger for background view marks and prefetches; cancelled by Close.
	baseCtx    context.Context
	cancel     context.CancelFunc
	background sync.WaitGroup

	mu         sync.Mutex
	generation uuid.UUID
	buffer     *domain.CandidateBuffer
	cursor     *domain.ViewingCursor
	viewed     map[string]struct{}
	noContent  bool
	closed     bool

	// prefetching is closed when the running background prefetch ends.
	prefetching chan struct{}
	// prefetchErr is the error of the last background prefetch of this generation.
	prefetchErr error
}

// pageFetch is a page request reserved on a buffer, to be issued without holding the lock.
type pageFetch struct {
	generation uuid.UUID
	buffer     *domain.CandidateBuffer
	req        domain.PageRequest
}

func NewFeedSession(
	ctx context.Context,
	fetcher datasources.FeedPageFetcher,
	marker datasources.CandidateViewMarker,
	cfg FeedConfig,
) *FeedSession {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	baseCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &FeedSession{
		fetcher: fetcher,
		marker:  marker,
		cfg:     cfg,
		baseCtx: baseCtx,
		cancel:  cancel,
	}
	s.resetLocked()
	return s
}

func (s *FeedSession) resetLocked() {
	s.generation = uuid.New()
	s.buffer = domain.NewCandidateBuffer(s.cfg.PageSize, s.cfg.MaxRedundantFetches)
	s.cursor = domain.NewViewingCursor()
	s.viewed = make(map[string]struct{})
	s.noContent = false
	s.prefetchErr = nil
}

// Start loads the first page unless the session already has content.
func (s *FeedSession) Start(ctx context.Context) (FeedSnapshot, error) {
	s.mu.Lock()
	fresh := s.buffer.Len() == 0 && !s.buffer.IsExhausted() && !s.noContent
	s.mu.Unlock()

	if fresh {
		if err := s.LoadMore(ctx); err != nil {
			return s.Snapshot(), err
		}
	}
	return s.Snapshot(), nil
}

// LoadMore fetches the next page and merges it. A page made only of already seen candidates
// is followed immediately by the next one, until something new arrives or the feed is
// exhausted. It is a no-op while another fetch is in flight or once exhausted.
func (s *FeedSession) LoadMore(ctx context.Context) error {
	for {
		more, err := s.fetchPage(ctx)
		if err != nil || !more {
			return err
		}
	}
}

// fetchPage performs one fetch and reports whether an immediate follow-up fetch is needed.
func (s *FeedSession) fetchPage(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false, domain.ErrSessionClosed
	}
	if s.noContent {
		s.mu.Unlock()
		return false, domain.ErrNotEnoughCandidates
	}
	fetch, ok := s.beginFetchLocked()
	s.mu.Unlock()

	if !ok {
		return false, nil
	}
	return s.runFetch(ctx, fetch)
}

// beginFetchLocked reserves the next page request, marking the buffer in flight.
func (s *FeedSession) beginFetchLocked() (pageFetch, bool) {
	req, ok := s.buffer.BeginFetch()
	if !ok {
		return pageFetch{}, false
	}
	return pageFetch{generation: s.generation, buffer: s.buffer, req: req}, true
}

// runFetch issues a reserved request and merges the result, unless the session was closed or
// refreshed meanwhile. The in-flight flag is cleared on every path.
func (s *FeedSession) runFetch(ctx context.Context, fetch pageFetch) (bool, error) {
	logger := domain.LoggerFromContext(ctx)
	buffer := fetch.buffer

	settled := false
	defer func() {
		if settled {
			return
		}
		s.mu.Lock()
		buffer.AbortFetch()
		s.mu.Unlock()
	}()

	records, err := s.fetcher.FetchFeedPage(ctx, fetch.req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.generation != fetch.generation {
		buffer.AbortFetch()
		settled = true
		logger.DebugContext(ctx, "discarding feed page for stale session",
			"generation", fetch.generation.String(),
			"offset", fetch.req.Offset,
		)
		if s.closed {
			return false, domain.ErrSessionClosed
		}
		return false, nil
	}

	if err != nil {
		buffer.AbortFetch()
		settled = true
		if errors.Is(err, domain.ErrNotEnoughCandidates) {
			s.noContent = true
		}
		return false, fmt.Errorf("fetching feed page: %w", err)
	}

	result := buffer.CompleteFetch(records)
	settled = true
	s.prefetchErr = nil

	if result.Skipped > 0 {
		logger.WarnContext(ctx, "feed page contained candidates without id", "count", result.Skipped)
	}
	if buffer.LikelyExhausted() {
		logger.InfoContext(ctx, "feed treated as exhausted after repeated duplicate pages",
			"generation", fetch.generation.String(),
		)
	}

	nav := s.cursor.Sync(buffer)
	if nav.Moved {
		s.markViewedLocked(nav.Index)
	}

	return buffer.NeedsRefetch(), nil
}

// Advance moves to the next candidate and returns without waiting on the network. Landing on
// the last buffered candidate starts the next page fetch in the background; the returned
// snapshot then reports Loading, and AwaitPrefetch waits for the page.
func (s *FeedSession) Advance(ctx context.Context) (FeedSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FeedSnapshot{}, domain.ErrSessionClosed
	}

	nav := s.cursor.Advance(s.buffer)
	if nav.Moved {
		s.markViewedLocked(nav.Index)
	}

	var (
		fetch pageFetch
		ok    bool
		done  chan struct{}
	)
	if nav.State != domain.CursorEndOfContent && !s.noContent && s.buffer.ShouldRequestMore(s.cursor.Index()) {
		fetch, ok = s.beginFetchLocked()
	}
	if ok {
		done = make(chan struct{})
		s.prefetching = done
		s.prefetchErr = nil
		s.background.Add(1)
	}
	s.mu.Unlock()

	if ok {
		go s.prefetch(ctx, fetch, done)
	}
	return s.Snapshot(), nil
}

// prefetch runs a reserved fetch, and any duplicate-page follow-ups, detached from the
// request that triggered it.
func (s *FeedSession) prefetch(ctx context.Context, fetch pageFetch, done chan struct{}) {
	defer s.background.Done()

	logger := domain.LoggerFromContext(ctx)
	bgCtx := domain.ContextWithLogger(s.baseCtx, logger)

	more, err := s.runFetch(bgCtx, fetch)
	if err == nil && more {
		err = s.LoadMore(bgCtx)
	}

	s.mu.Lock()
	if err != nil && !errors.Is(err, domain.ErrSessionClosed) && s.generation == fetch.generation {
		s.prefetchErr = err
	}
	if s.prefetching == done {
		s.prefetching = nil
	}
	close(done)
	s.mu.Unlock()

	if err != nil && !errors.Is(err, domain.ErrSessionClosed) && !errors.Is(err, domain.ErrNotEnoughCandidates) {
		logger.WarnContext(ctx, "unable to prefetch feed page", "error", err)
	}
}

// AwaitPrefetch blocks until the background prefetch started by Advance has finished and
// returns the resulting snapshot with the prefetch error, if any.
func (s *FeedSession) AwaitPrefetch(ctx context.Context) (FeedSnapshot, error) {
	s.mu.Lock()
	done := s.prefetching
	s.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return s.Snapshot(), ctx.Err()
		}
	}

	s.mu.Lock()
	err := s.prefetchErr
	s.mu.Unlock()
	return s.Snapshot(), err
}

// Retreat moves to the previous candidate. It never fetches.
func (s *FeedSession) Retreat(_ context.Context) (FeedSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FeedSnapshot{}, domain.ErrSessionClosed
	}

	nav := s.cursor.Retreat(s.buffer)
	if nav.Moved {
		s.markViewedLocked(nav.Index)
	}
	s.mu.Unlock()

	return s.Snapshot(), nil
}

// Navigate applies a gesture intent.
func (s *FeedSession) Navigate(ctx context.Context, intent domain.Intent) (FeedSnapshot, error) {
	switch intent {
	case domain.IntentAdvance:
		return s.Advance(ctx)
	case domain.IntentRetreat:
		return s.Retreat(ctx)
	default:
		return s.Snapshot(), nil
	}
}

// Refresh discards the buffer and starts a new generation from the first page.
func (s *FeedSession) Refresh(ctx context.Context) (FeedSnapshot, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return FeedSnapshot{}, domain.ErrSessionClosed
	}
	s.resetLocked()
	s.mu.Unlock()

	return s.Start(ctx)
}

// ApplyLikeResult records the server's like state for a candidate in place.
func (s *FeedSession) ApplyLikeResult(ctx context.Context, candidateID string, liked bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buffer.ApplyLikeResult(candidateID, liked) {
		return true
	}

	domain.LoggerFromContext(ctx).ErrorContext(ctx, "like result for candidate not in feed buffer",
		"candidate_id", candidateID,
		"generation", s.generation.String(),
	)
	return false
}

// Candidate returns a buffered candidate by id.
func (s *FeedSession) Candidate(candidateID string) (domain.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.buffer.IndexOf(candidateID)
	if !ok {
		return domain.Candidate{}, false
	}
	return s.buffer.At(i), true
}

// UpcomingPhotos lists the photos of the candidate after the current one, for preloading.
func (s *FeedSession) UpcomingPhotos() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.upcomingPhotosLocked()
}

func (s *FeedSession) upcomingPhotosLocked() []string {
	if s.cursor.State() != domain.CursorViewing {
		return nil
	}
	next := s.cursor.Index() + 1
	if next >= s.buffer.Len() {
		return nil
	}
	photos := s.buffer.At(next).Photos
	out := make([]string, len(photos))
	copy(out, photos)
	return out
}

func (s *FeedSession) Snapshot() FeedSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := FeedSnapshot{
		Generation:      s.generation.String(),
		State:           s.cursor.State(),
		Index:           s.cursor.Index(),
		Buffered:        s.buffer.Len(),
		Loading:         s.buffer.InFlight() || s.prefetching != nil,
		Exhausted:       s.buffer.IsExhausted(),
		LikelyExhausted: s.buffer.LikelyExhausted(),
		NoContent:       s.noContent,
		FetchFailed:     errors.Is(s.prefetchErr, domain.ErrFetchFailed),
		UpcomingPhotos:  s.upcomingPhotosLocked(),
	}
	if snap.State == domain.CursorViewing && snap.Index < s.buffer.Len() {
		current := s.buffer.At(snap.Index)
		snap.Current = &current
	}
	return snap
}

// Close tears the session down. In-flight fetches are discarded when they return; pending
// view marks and prefetches are cancelled.
func (s *FeedSession) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancel()
}

// Wait blocks until background view marks and prefetches have finished.
func (s *FeedSession) Wait() {
	s.background.Wait()
}

// Closed reports whether Close was called.
func (s *FeedSession) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closed
}

// markViewedLocked reports the candidate at index as viewed, at most once per generation.
// The call runs in the background and failures are only logged.
func (s *FeedSession) markViewedLocked(index int) {
	if s.marker == nil || index >= s.buffer.Len() {
		return
	}

	id := s.buffer.At(index).ID
	if _, done := s.viewed[id]; done {
		return
	}
	s.viewed[id] = struct{}{}

	ctx := s.baseCtx
	s.background.Add(1)
	go func() {
		defer s.background.Done()

		if err := s.marker.MarkCandidateViewed(ctx, id); err != nil && ctx.Err() == nil {
			domain.LoggerFromContext(ctx).WarnContext(ctx, "unable to mark candidate viewed",
				"candidate_id", id,
				"error", err,
			)
		}
	}()
}
