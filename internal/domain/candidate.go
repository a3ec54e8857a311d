package domain

import (
	"time"
)

// Candidate is a profile shown to the viewer in the feed or in a duel.
// Everything but IsLiked is immutable once fetched.
type Candidate struct {
	ID        string    `json:"user_id"`
	Name      string    `json:"name"`
	BirthDate BirthDate `json:"birth_date"`
	Bio       string    `json:"about"`
	Photos    []string  `json:"photos"`
	City      string    `json:"city,omitempty"`
	Instagram string    `json:"instagram,omitempty"`
	IsLiked   bool      `json:"is_liked"`
}

// Age returns the candidate's age in whole years at now, or 0 when the birth date is unknown.
func (c Candidate) Age(now time.Time) int {
	if c.BirthDate.IsZero() {
		return 0
	}

	born := c.BirthDate.Time
	age := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

const birthDateLayout = "2006-01-02"

// BirthDate is a calendar date carried on the wire as YYYY-MM-DD.
type BirthDate struct {
	Time time.Time
}

// NewBirthDate builds a BirthDate for the given calendar day.
func NewBirthDate(year int, month time.Month, day int) BirthDate {
	return BirthDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d BirthDate) IsZero() bool {
	return d.Time.IsZero()
}

func (d BirthDate) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.Time.Format(birthDateLayout)), nil
}

func (d *BirthDate) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(birthDateLayout, string(text))
	if err != nil {
		// Some upstream records carry a full timestamp.
		t, err = time.Parse(time.RFC3339, string(text))
		if err != nil {
			return err
		}
	}
	d.Time = t
	return nil
}

// PageRequest describes one paginated call to the feed endpoint.
type PageRequest struct {
	Limit   int
	Offset  int
	Refresh bool
}

// LikeResult is the server's answer to a like toggle.
type LikeResult struct {
	Liked   bool `json:"liked"`
	Matched bool `json:"matched"`
}

// DuelRound is the server's view of a duel session: either a pair to compare or a final winner.
// It is session content only and never feeds the local vote gate.
type DuelRound struct {
	User        *Candidate  `json:"user,omitempty"`
	Opponent    *Candidate  `json:"opponent,omitempty"`
	Profiles    []Candidate `json:"profiles,omitempty"`
	Stage       int         `json:"stage"`
	FinalWinner *Candidate  `json:"final_winner,omitempty"`
}

// Pair returns the two candidates to compare, accepting both payload shapes the server uses.
func (r DuelRound) Pair() (Candidate, Candidate, bool) {
	if r.User != nil && r.Opponent != nil {
		return *r.User, *r.Opponent, true
	}
	if len(r.Profiles) >= 2 {
		return r.Profiles[0], r.Profiles[1], true
	}
	return Candidate{}, Candidate{}, false
}

// IsFinal reports whether the round carries a terminal winner payload.
func (r DuelRound) IsFinal() bool {
	return r.FinalWinner != nil
}

// HasCandidate reports whether id is one of the round's contenders.
func (r DuelRound) HasCandidate(id string) bool {
	a, b, ok := r.Pair()
	return ok && (a.ID == id || b.ID == id)
}
