package domain

import (
	"time"
)

// Defaults for the local duel gate.
const (
	DefaultDuelQuota    = 15
	DefaultDuelCooldown = 24 * time.Hour
)

// DuelGateState names the two states of the duel gate.
type DuelGateState string

const (
	DuelGateOpen    DuelGateState = "open"
	DuelGateCooling DuelGateState = "cooling"
)

// DuelPolicy is the quota and cooldown applied to one installation.
type DuelPolicy struct {
	Quota    int
	Cooldown time.Duration
}

// DefaultDuelPolicy returns the 15 votes per 24 hours policy.
func DefaultDuelPolicy() DuelPolicy {
	return DuelPolicy{
		Quota:    DefaultDuelQuota,
		Cooldown: DefaultDuelCooldown,
	}
}

// DuelProgress is the persisted record behind the duel gate.
//
// While CooldownEndsAt is zero the gate is open and VotesCast < quota. Once VotesCast reaches
// the quota the cooldown is set and VotesCast stays pinned at the quota until it passes.
type DuelProgress struct {
	VotesCast      int       `json:"votes_cast"`
	CooldownEndsAt time.Time `json:"cooldown_ends_at,omitzero"`
}

// State returns the gate state implied by the record.
func (p DuelProgress) State() DuelGateState {
	if p.CooldownEndsAt.IsZero() {
		return DuelGateOpen
	}
	return DuelGateCooling
}

// Normalize repairs records read from storage: negative counts, counts above quota while
// open, and a reached quota without a cooldown are brought back inside the invariants.
func (p DuelProgress) Normalize(policy DuelPolicy, now time.Time) DuelProgress {
	if p.VotesCast < 0 {
		p.VotesCast = 0
	}
	if !p.CooldownEndsAt.IsZero() {
		p.VotesCast = policy.Quota
		return p
	}
	if p.VotesCast >= policy.Quota {
		return DuelProgress{
			VotesCast:      policy.Quota,
			CooldownEndsAt: policy.cooldownEnd(now),
		}
	}
	return p
}

// RegisterVote counts one vote. It returns false and the unchanged record while cooling.
func (p DuelProgress) RegisterVote(policy DuelPolicy, now time.Time) (DuelProgress, bool) {
	if p.State() == DuelGateCooling {
		return p, false
	}

	p.VotesCast++
	if p.VotesCast >= policy.Quota {
		p.VotesCast = policy.Quota
		p.CooldownEndsAt = policy.cooldownEnd(now)
	}
	return p, true
}

// cooldownEnd is kept in UTC at millisecond precision, the resolution the stores persist, so
// a record reads back equal to the one held in memory.
func (policy DuelPolicy) cooldownEnd(now time.Time) time.Time {
	return now.Add(policy.Cooldown).UTC().Truncate(time.Millisecond)
}

// ReconcileExpiry resets the record to Open(0) once now has reached the cooldown end.
// It returns true when the record changed.
func (p DuelProgress) ReconcileExpiry(now time.Time) (DuelProgress, bool) {
	if p.State() != DuelGateCooling || now.Before(p.CooldownEndsAt) {
		return p, false
	}
	return DuelProgress{}, true
}

// Remaining returns how long until voting reopens, or 0 when the gate is open.
func (p DuelProgress) Remaining(now time.Time) time.Duration {
	if p.State() != DuelGateCooling {
		return 0
	}
	remaining := p.CooldownEndsAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Countdown splits a remaining duration into the hours, minutes and seconds shown while cooling.
type Countdown struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func CountdownFor(remaining time.Duration) Countdown {
	if remaining <= 0 {
		return Countdown{}
	}
	total := int(remaining / time.Second)
	return Countdown{
		Hours:   total / 3600,
		Minutes: (total % 3600) / 60,
		Seconds: total % 60,
	}
}
