package domain

// DefaultMaxRedundantFetches is how many consecutive all-duplicate pages are tolerated
// before the feed is treated as likely exhausted.
const DefaultMaxRedundantFetches = 3

// AppendResult summarises one merged page.
type AppendResult struct {
	// Added is the number of novel candidates appended.
	Added int
	// Duplicates is the number of records dropped because their id was already seen.
	Duplicates int
	// Skipped is the number of records dropped for carrying no id.
	Skipped int
	// Short is true when the page held fewer records than requested.
	Short bool
}

// CandidateBuffer is the append-only, deduplicated list of candidates fetched in one session.
//
// It also owns the pagination state: the next offset, whether a fetch is in flight, and
// whether the source is exhausted. It is not safe for concurrent use; callers serialise
// access (see session.FeedSession).
type CandidateBuffer struct {
	pageSize            int
	maxRedundantFetches int

	candidates []Candidate
	positions  map[string]int

	nextOffset       int
	requestedOnce    bool
	inFlight         bool
	exhausted        bool
	likelyExhausted  bool
	consecutiveDupes int
}

// NewCandidateBuffer creates an empty buffer paging by pageSize.
// maxRedundantFetches <= 0 selects DefaultMaxRedundantFetches.
func NewCandidateBuffer(pageSize, maxRedundantFetches int) *CandidateBuffer {
	if pageSize <= 0 {
		panic("candidate buffer page size must be positive")
	}
	if maxRedundantFetches <= 0 {
		maxRedundantFetches = DefaultMaxRedundantFetches
	}

	return &CandidateBuffer{
		pageSize:            pageSize,
		maxRedundantFetches: maxRedundantFetches,
		positions:           make(map[string]int),
	}
}

func (b *CandidateBuffer) PageSize() int {
	return b.pageSize
}

func (b *CandidateBuffer) Len() int {
	return len(b.candidates)
}

// At returns the candidate at index i. It panics when i is out of range.
func (b *CandidateBuffer) At(i int) Candidate {
	return b.candidates[i]
}

// Candidates returns a copy of the buffered candidates in display order.
func (b *CandidateBuffer) Candidates() []Candidate {
	out := make([]Candidate, len(b.candidates))
	copy(out, b.candidates)
	return out
}

// IndexOf returns the buffer position of id.
func (b *CandidateBuffer) IndexOf(id string) (int, bool) {
	i, ok := b.positions[id]
	return i, ok
}

// Seen reports whether id was ever appended in this session.
func (b *CandidateBuffer) Seen(id string) bool {
	_, ok := b.positions[id]
	return ok
}

// AppendPage merges one fetched page, keeping only unseen ids in received order.
func (b *CandidateBuffer) AppendPage(records []Candidate) AppendResult {
	result := AppendResult{Short: len(records) < b.pageSize}

	for _, record := range records {
		if record.ID == "" {
			result.Skipped++
			continue
		}
		if _, seen := b.positions[record.ID]; seen {
			result.Duplicates++
			continue
		}

		b.positions[record.ID] = len(b.candidates)
		b.candidates = append(b.candidates, record)
		result.Added++
	}

	switch {
	case result.Short:
		b.exhausted = true
	case result.Added == 0:
		b.consecutiveDupes++
		if b.consecutiveDupes >= b.maxRedundantFetches {
			b.exhausted = true
			b.likelyExhausted = true
		}
	default:
		b.consecutiveDupes = 0
	}

	return result
}

// ShouldRequestMore is true iff the cursor sits at or past the last buffered index, the
// source is not exhausted, and no fetch is in flight.
func (b *CandidateBuffer) ShouldRequestMore(cursorIndex int) bool {
	return cursorIndex >= len(b.candidates)-1 && !b.exhausted && !b.inFlight
}

// NeedsRefetch is true when the last merged page was entirely duplicate and the source is
// not yet exhausted, so the next page should be requested without waiting for the cursor.
func (b *CandidateBuffer) NeedsRefetch() bool {
	return b.consecutiveDupes > 0 && !b.exhausted && !b.inFlight
}

// IsExhausted is true once a short or empty page was seen, or too many all-duplicate pages
// arrived in a row. It never reverts within a session.
func (b *CandidateBuffer) IsExhausted() bool {
	return b.exhausted
}

// LikelyExhausted distinguishes exhaustion inferred from repeated all-duplicate pages from
// exhaustion reported by a short page.
func (b *CandidateBuffer) LikelyExhausted() bool {
	return b.likelyExhausted
}

func (b *CandidateBuffer) InFlight() bool {
	return b.inFlight
}

// BeginFetch marks a fetch as in flight and returns the request to issue.
// It returns false when a fetch is already in flight or the source is exhausted.
func (b *CandidateBuffer) BeginFetch() (PageRequest, bool) {
	if b.inFlight || b.exhausted {
		return PageRequest{}, false
	}

	b.inFlight = true
	req := PageRequest{
		Limit:   b.pageSize,
		Offset:  b.nextOffset,
		Refresh: !b.requestedOnce,
	}
	return req, true
}

// CompleteFetch merges the records of the in-flight request and clears the in-flight flag.
func (b *CandidateBuffer) CompleteFetch(records []Candidate) AppendResult {
	b.inFlight = false
	b.requestedOnce = true
	b.nextOffset += b.pageSize
	return b.AppendPage(records)
}

// AbortFetch clears the in-flight flag after a failed fetch without moving the offset, so
// a retry asks for the same page.
func (b *CandidateBuffer) AbortFetch() {
	b.inFlight = false
}

// ApplyLikeResult overwrites only the liked flag of the candidate with the given id.
// It returns false when the id is not buffered.
func (b *CandidateBuffer) ApplyLikeResult(id string, liked bool) bool {
	i, ok := b.positions[id]
	if !ok {
		return false
	}
	b.candidates[i].IsLiked = liked
	return true
}
