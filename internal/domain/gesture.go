package domain

import "math"

// Intent is a navigation request produced by a completed drag.
type Intent string

const (
	IntentNone    Intent = "none"
	IntentAdvance Intent = "advance"
	IntentRetreat Intent = "retreat"
)

// GestureAxis selects which displacement component a mapper reads.
type GestureAxis int

const (
	AxisVertical GestureAxis = iota
	AxisHorizontal
)

// DefaultViewportFraction is the share of the viewport a drag must cover to navigate.
const DefaultViewportFraction = 0.2

// ThresholdFromViewport returns the drag distance needed to navigate for a viewport extent.
func ThresholdFromViewport(extent float64, fraction float64) float64 {
	if fraction <= 0 {
		fraction = DefaultViewportFraction
	}
	return math.Abs(extent) * fraction
}

// DragSample is one pointer position relative to the drag origin's coordinate space.
type DragSample struct {
	X, Y float64
}

// GestureMapper turns a drag into a single navigation intent on release.
//
// Dragging towards negative displacement (up, or left) is the forward direction. While the
// drag is in progress only a visual offset is reported; intents are emitted on release only.
// Debouncing rapid gestures is left to the consumer.
type GestureMapper struct {
	axis      GestureAxis
	threshold float64

	active bool
	origin DragSample
	offset float64
}

func NewGestureMapper(axis GestureAxis, threshold float64) *GestureMapper {
	return &GestureMapper{
		axis:      axis,
		threshold: math.Abs(threshold),
	}
}

func (g *GestureMapper) Threshold() float64 {
	return g.threshold
}

// SetThreshold changes the threshold, e.g. after the viewport was resized.
func (g *GestureMapper) SetThreshold(threshold float64) {
	g.threshold = math.Abs(threshold)
}

// Active reports whether a drag is in progress.
func (g *GestureMapper) Active() bool {
	return g.active
}

// Begin starts a drag at the given sample, discarding any unfinished drag.
func (g *GestureMapper) Begin(at DragSample) {
	g.active = true
	g.origin = at
	g.offset = 0
}

// Move records a sample and returns the current displacement along the axis for visual
// feedback. Samples outside a drag are ignored and report 0.
func (g *GestureMapper) Move(at DragSample) float64 {
	if !g.active {
		return 0
	}
	g.offset = g.displacement(at)
	return g.offset
}

// Offset returns the displacement of the last sample.
func (g *GestureMapper) Offset() float64 {
	return g.offset
}

// Release ends the drag at the given sample and returns the resulting intent.
func (g *GestureMapper) Release(at DragSample) Intent {
	if !g.active {
		return IntentNone
	}

	d := g.displacement(at)
	g.active = false
	g.offset = 0
	return g.classify(d)
}

// Cancel abandons a drag without producing an intent.
func (g *GestureMapper) Cancel() {
	g.active = false
	g.offset = 0
}

// MapDisplacement classifies a net displacement without tracking a drag.
func (g *GestureMapper) MapDisplacement(d float64) Intent {
	return g.classify(d)
}

func (g *GestureMapper) classify(d float64) Intent {
	switch {
	case d < -g.threshold:
		return IntentAdvance
	case d > g.threshold:
		return IntentRetreat
	default:
		return IntentNone
	}
}

func (g *GestureMapper) displacement(at DragSample) float64 {
	if g.axis == AxisHorizontal {
		return at.X - g.origin.X
	}
	return at.Y - g.origin.Y
}
