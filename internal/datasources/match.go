package datasources

import (
	"context"

	"github.com/swipefeed/swipefeed/internal/domain"
)

// MatchAPI combines every upstream call a session needs.
type MatchAPI interface {
	FeedPageFetcher
	CandidateViewMarker
	LikeToggler
	DuelPairFetcher
}

// FeedPageFetcher fetches one page of the candidate feed.
// A page shorter than the requested limit means the feed is exhausted.
type FeedPageFetcher interface {
	FetchFeedPage(ctx context.Context, req domain.PageRequest) ([]domain.Candidate, error)
}

type CandidateViewMarker interface {
	MarkCandidateViewed(ctx context.Context, candidateID string) error
}

type LikeToggler interface {
	ToggleLike(ctx context.Context, candidateID string) (domain.LikeResult, error)
}

// DuelPairFetcher fetches the next duel round. An empty winnerID starts a new round.
type DuelPairFetcher interface {
	FetchDuelPair(ctx context.Context, winnerID string) (domain.DuelRound, error)
}
