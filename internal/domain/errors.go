package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrFetchFailed marks transport-level failures that survived the fetcher's retries.
// Buffer and cursor are left untouched so the caller can offer a manual retry.
var ErrFetchFailed = errors.New("fetch failed")

// ErrNotEnoughCandidates is the server's domain answer that there is nothing to show yet.
// Retrying does not help until more candidates exist server-side.
var ErrNotEnoughCandidates = errors.New("not enough candidates")

// ErrSessionClosed is returned by operations on a session whose view has been torn down.
var ErrSessionClosed = errors.New("session closed")

// ErrUnknownCandidate is returned when an operation names a candidate the session never saw.
var ErrUnknownCandidate = errors.New("unknown candidate")

// ErrVotingClosed is matched by VotingClosedError.
var ErrVotingClosed = errors.New("voting closed until cooldown ends")

// VotingClosedError is returned when a duel vote is attempted while cooling down.
type VotingClosedError struct {
	ReopensAt time.Time
}

func (e *VotingClosedError) Error() string {
	return fmt.Sprintf("%s at %s", ErrVotingClosed.Error(), e.ReopensAt.Format(time.RFC3339))
}

func (e *VotingClosedError) Unwrap() error {
	return ErrVotingClosed
}
