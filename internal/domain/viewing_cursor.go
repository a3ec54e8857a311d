package domain

// CursorState is the display state of a feed.
type CursorState string

const (
	CursorAwaitingContent CursorState = "awaiting_content"
	CursorViewing         CursorState = "viewing"
	CursorEndOfContent    CursorState = "end_of_content"
)

// CursorSource is the part of the buffer the cursor needs to navigate.
type CursorSource interface {
	Len() int
	IsExhausted() bool
}

// Navigation is the outcome of one navigation intent.
type Navigation struct {
	State CursorState
	Index int
	// Moved is true when the cursor landed on a different candidate.
	Moved bool
	// MorePending is true when advance hit the buffered tail while more content is expected.
	MorePending bool
}

// ViewingCursor tracks the displayed position within a CandidateBuffer.
// It moves by at most one position per intent.
type ViewingCursor struct {
	state CursorState
	index int
}

func NewViewingCursor() *ViewingCursor {
	return &ViewingCursor{state: CursorAwaitingContent}
}

func (c *ViewingCursor) State() CursorState {
	return c.state
}

func (c *ViewingCursor) Index() int {
	return c.index
}

// Sync corrects the cursor after the buffer changed size. Content arriving while awaiting
// moves the cursor onto the first candidate; an exhausted empty buffer ends the feed.
func (c *ViewingCursor) Sync(src CursorSource) Navigation {
	if c.state == CursorAwaitingContent {
		switch {
		case src.Len() > 0:
			c.state = CursorViewing
			c.index = 0
			return c.navigation(true, false)
		case src.IsExhausted():
			c.state = CursorEndOfContent
		}
	}
	return c.navigation(false, false)
}

func (c *ViewingCursor) Advance(src CursorSource) Navigation {
	switch c.state {
	case CursorAwaitingContent:
		return c.Sync(src)
	case CursorEndOfContent:
		return c.navigation(false, false)
	}

	if c.index+1 < src.Len() {
		c.index++
		return c.navigation(true, false)
	}
	if src.IsExhausted() {
		c.state = CursorEndOfContent
		return c.navigation(false, false)
	}
	return c.navigation(false, true)
}

func (c *ViewingCursor) Retreat(src CursorSource) Navigation {
	switch c.state {
	case CursorAwaitingContent:
		return c.navigation(false, false)
	case CursorEndOfContent:
		if src.Len() == 0 {
			return c.navigation(false, false)
		}
		c.state = CursorViewing
		c.index = src.Len() - 1
		return c.navigation(false, false)
	}

	if c.index > 0 {
		c.index--
		return c.navigation(true, false)
	}
	return c.navigation(false, false)
}

func (c *ViewingCursor) navigation(moved, morePending bool) Navigation {
	return Navigation{
		State:       c.state,
		Index:       c.index,
		Moved:       moved,
		MorePending: morePending,
	}
}
