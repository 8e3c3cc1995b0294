package effects

import "math"

// DefaultFlowBand is the scroll distance after which the circuit flow flips.
const DefaultFlowBand = 400

// Direction is the vertical scroll direction.
type Direction string

const (
	DirectionDown Direction = "down"
	DirectionUp   Direction = "up"
)

// Flow is the horizontal direction the circuit background drifts in.
type Flow string

const (
	FlowRight Flow = "right"
	FlowLeft  Flow = "left"
)

// Metrics describes the document at the moment of a scroll notification.
type Metrics struct {
	Offset         float64
	DocumentHeight float64
	ViewportHeight float64
}

// MaxScroll is the largest reachable offset, never negative.
func (m Metrics) MaxScroll() float64 {
	return math.Max(m.DocumentHeight-m.ViewportHeight, 0)
}

// Progress returns Offset/MaxScroll clamped to [0,1]. A document that does not
// scroll has progress 0.
func Progress(m Metrics) float64 {
	maxScroll := m.MaxScroll()
	if maxScroll <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, m.Offset/maxScroll))
}

// FlowFor partitions offsets into bands of the given size and alternates the
// flow on every band boundary, starting with FlowRight.
func FlowFor(offset, band float64) Flow {
	if band <= 0 {
		return FlowRight
	}
	section := int64(math.Floor(offset / band))
	if section%2 == 0 {
		return FlowRight
	}
	return FlowLeft
}

// ScrollState is the derived scroll state.
//
// Direction is tracked for completeness; no renderer makes decisions with it.
type ScrollState struct {
	Offset    float64
	Progress  float64
	Direction Direction
	Flow      Flow
}

// InitialScrollState is the state before any notification.
func InitialScrollState() ScrollState {
	return ScrollState{Direction: DirectionDown, Flow: FlowRight}
}

// NextScroll derives the state after a scroll notification from the previous state.
func NextScroll(prev ScrollState, m Metrics, band float64) ScrollState {
	dir := DirectionUp
	if m.Offset > prev.Offset {
		dir = DirectionDown
	}
	return ScrollState{
		Offset:    m.Offset,
		Progress:  Progress(m),
		Direction: dir,
		Flow:      FlowFor(m.Offset, band),
	}
}

// ScrollTracker recomputes ScrollState on every notification and fans it out
// to subscribers.
type ScrollTracker struct {
	band   float64
	state  ScrollState
	nextID int
	subs   map[int]func(ScrollState)
}

// NewScrollTracker creates a tracker with the given flow band; non-positive
// bands use DefaultFlowBand.
func NewScrollTracker(band float64) *ScrollTracker {
	if band <= 0 {
		band = DefaultFlowBand
	}
	return &ScrollTracker{
		band:  band,
		state: InitialScrollState(),
		subs:  make(map[int]func(ScrollState)),
	}
}

// Notify records a scroll notification and returns the new state.
func (t *ScrollTracker) Notify(m Metrics) ScrollState {
	t.state = NextScroll(t.state, m, t.band)
	for id := 0; id < t.nextID; id++ {
		if fn, ok := t.subs[id]; ok {
			fn(t.state)
		}
	}
	return t.state
}

// Subscribe registers fn for future notifications and returns its unsubscribe func.
func (t *ScrollTracker) Subscribe(fn func(ScrollState)) func() {
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() { delete(t.subs, id) }
}

// State returns the latest state.
func (t *ScrollTracker) State() ScrollState {
	return t.state
}

// Band returns the flow band size.
func (t *ScrollTracker) Band() float64 {
	return t.band
}
