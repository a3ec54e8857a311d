package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/swipefeed/swipefeed/internal/clock"
	"github.com/swipefeed/swipefeed/internal/datasources"
	"github.com/swipefeed/swipefeed/internal/domain"
)

// DefaultReconcileInterval is how often a watched duel session checks for cooldown expiry.
const DefaultReconcileInterval = time.Second

// ErrVoteInFlight is returned when a vote is cast while the previous one is still pending.
var ErrVoteInFlight = errors.New("previous duel vote still pending")

// DuelState is what a duel view renders: the gate and the current round.
type DuelState struct {
	Gate      domain.DuelGateState `json:"gate"`
	VotesCast int                  `json:"votes_cast"`
	Quota     int                  `json:"quota"`
	ReopensAt *time.Time           `json:"reopens_at,omitempty"`
	Countdown *domain.Countdown    `json:"countdown,omitempty"`
	Round     *domain.DuelRound    `json:"round,omitempty"`
	NoContent bool                 `json:"no_content,omitempty"`
}

// DuelSession is the persisted, time-gated vote quota of one installation together with the
// round currently shown. The gate is decided locally; server stage counts never override it.
type DuelSession struct {
	installationID string
	store          datasources.DuelProgressStore
	policy         domain.DuelPolicy
	clock          clock.Clock

	// saveMu is held from a change of progress until it is persisted, so saves land in the
	// order the changes were made.
	saveMu sync.Mutex

	mu       sync.Mutex
	started  bool
	voting   bool
	progress domain.DuelProgress
	round    *domain.DuelRound
}

func NewDuelSession(
	installationID string,
	store datasources.DuelProgressStore,
	policy domain.DuelPolicy,
	clk clock.Clock,
) *DuelSession {
	if policy.Quota <= 0 {
		policy.Quota = domain.DefaultDuelQuota
	}
	if policy.Cooldown <= 0 {
		policy.Cooldown = domain.DefaultDuelCooldown
	}

	return &DuelSession{
		installationID: installationID,
		store:          store,
		policy:         policy,
		clock:          clk,
	}
}

// Start loads the persisted record and resets it if its cooldown has already passed.
// Calling Start again only reconciles.
func (d *DuelSession) Start(ctx context.Context) error {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()

	if started {
		return d.Reconcile(ctx)
	}

	progress, err := d.store.LoadDuelProgress(ctx, d.installationID)
	if err != nil {
		return fmt.Errorf("loading duel progress: %w", err)
	}

	d.mu.Lock()
	if !d.started {
		d.progress = progress.Normalize(d.policy, d.clock.Now())
		d.started = true
	}
	d.mu.Unlock()

	return d.Reconcile(ctx)
}

func (d *DuelSession) InstallationID() string {
	return d.installationID
}

// Reconcile resets an expired cooldown and persists the reset.
func (d *DuelSession) Reconcile(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	next, changed := d.progress.ReconcileExpiry(d.clock.Now())
	if changed {
		d.progress = next
	}
	d.mu.Unlock()

	if !changed {
		return nil
	}

	domain.LoggerFromContext(ctx).InfoContext(ctx, "duel cooldown expired, voting reopened",
		"installation_id", d.installationID,
	)
	return d.save(ctx, next)
}

// Watch reconciles every interval until ctx is cancelled, so a cooling view reopens on time
// without user action.
func (d *DuelSession) Watch(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultReconcileInterval
	}

	ticker := d.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := d.Reconcile(ctx); err != nil {
				domain.LoggerFromContext(ctx).ErrorContext(ctx, "unable to reconcile duel progress",
					"installation_id", d.installationID,
					"error", err,
				)
			}
		}
	}
}

// BeginVote checks the gate before a vote is sent upstream. On success the caller must call
// CompleteVote or AbortVote.
func (d *DuelSession) BeginVote() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if next, changed := d.progress.ReconcileExpiry(d.clock.Now()); changed {
		// Persisted by the vote that follows.
		d.progress = next
	}
	if d.progress.State() == domain.DuelGateCooling {
		return &domain.VotingClosedError{ReopensAt: d.progress.CooldownEndsAt}
	}
	if d.voting {
		return ErrVoteInFlight
	}
	d.voting = true
	return nil
}

func (d *DuelSession) AbortVote() {
	d.mu.Lock()
	d.voting = false
	d.mu.Unlock()
}

// CompleteVote counts the vote accepted upstream, stores the next round and persists the
// record. A persistence failure is returned after the in-memory state has been updated.
func (d *DuelSession) CompleteVote(ctx context.Context, next domain.DuelRound) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	d.mu.Lock()
	d.voting = false
	progress, ok := d.progress.RegisterVote(d.policy, d.clock.Now())
	if ok {
		d.progress = progress
	}
	d.round = &next
	d.mu.Unlock()

	if !ok {
		return &domain.VotingClosedError{ReopensAt: progress.CooldownEndsAt}
	}

	if progress.State() == domain.DuelGateCooling {
		domain.LoggerFromContext(ctx).InfoContext(ctx, "duel quota reached, cooling down",
			"installation_id", d.installationID,
			"until", progress.CooldownEndsAt,
		)
	}
	return d.save(ctx, progress)
}

// RegisterVote counts one vote without an accompanying round.
func (d *DuelSession) RegisterVote(ctx context.Context) error {
	d.saveMu.Lock()
	defer d.saveMu.Unlock()

	if err := d.BeginVote(); err != nil {
		return err
	}

	d.mu.Lock()
	d.voting = false
	progress, _ := d.progress.RegisterVote(d.policy, d.clock.Now())
	d.progress = progress
	d.mu.Unlock()

	return d.save(ctx, progress)
}

// Round returns the round currently shown, if one was loaded.
func (d *DuelSession) Round() (domain.DuelRound, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.round == nil {
		return domain.DuelRound{}, false
	}
	return *d.round, true
}

func (d *DuelSession) SetRound(round domain.DuelRound) {
	d.mu.Lock()
	d.round = &round
	d.mu.Unlock()
}

func (d *DuelSession) Progress() domain.DuelProgress {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.progress
}

func (d *DuelSession) State() DuelState {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	state := DuelState{
		Gate:      d.progress.State(),
		VotesCast: d.progress.VotesCast,
		Quota:     d.policy.Quota,
	}
	if state.Gate == domain.DuelGateCooling {
		reopensAt := d.progress.CooldownEndsAt
		countdown := domain.CountdownFor(d.progress.Remaining(now))
		state.ReopensAt = &reopensAt
		state.Countdown = &countdown
	}
	if d.round != nil {
		round := *d.round
		state.Round = &round
	}
	return state
}

func (d *DuelSession) save(ctx context.Context, progress domain.DuelProgress) error {
	if err := d.store.SaveDuelProgress(ctx, d.installationID, progress); err != nil {
		return fmt.Errorf("saving duel progress: %w", err)
	}
	return nil
}
