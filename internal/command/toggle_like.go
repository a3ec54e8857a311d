package command

import (
	"context"
	"fmt"

	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

type ToggleLikeRequest struct {
	InstallationID string
	CandidateID    string
}

// ToggleLike flips the like on a candidate and writes the server's answer back into the
// installation's feed without moving the cursor.
type ToggleLike struct {
	LikeToggler datasources.LikeToggler
	Sessions    FeedSessions
}

var _ Command[ToggleLikeRequest, domain.LikeResult] = (*ToggleLike)(nil)

func (c *ToggleLike) Execute(ctx context.Context, req ToggleLikeRequest) (domain.LikeResult, error) {
	result, err := c.LikeToggler.ToggleLike(ctx, req.CandidateID)
	if err != nil {
		return domain.LikeResult{}, fmt.Errorf("toggling like: %w", err)
	}

	feed := c.Sessions.Feed(ctx, req.InstallationID)
	feed.ApplyLikeResult(ctx, req.CandidateID, result.Liked)

	if result.Matched {
		domain.LoggerFromContext(ctx).InfoContext(ctx, "like resulted in a match",
			"candidate_id", req.CandidateID,
		)
	}
	return result, nil
}
