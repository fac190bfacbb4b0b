// Package selecttool implements the interactive strand-end drag.
//
// A drag starts on one base of a lane and follows the pointer. Every
// destination update first rewinds the previous update, then applies the net
// edit for the new destination as a single "Drag" macro, so however many
// updates a gesture receives the undo stack ends up holding at most one entry
// for it.
package selecttool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/undo"
)

var (
	// ErrGestureEnded is returned by every method after End or Cancel.
	ErrGestureEnded = errors.New("gesture ended")

	// ErrLaneMismatch is returned when a destination is on another lane.
	ErrLaneMismatch = errors.New("destination is not on the start lane")

	// ErrHistoryChanged is returned when the entry pushed by the previous
	// update is no longer on top of the stack.
	ErrHistoryChanged = errors.New("undo history changed during gesture")
)

// State is the lifecycle position of a gesture.
type State int

const (
	StateConstructed State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Gesture is one drag from press to release.
type Gesture struct {
	stack *undo.Stack
	log   *slog.Logger
	start model.VBase
	ends  model.Ends

	low, high int
	dest      int
	entry     undo.Command
	state     State
}

// Begin starts a drag at start and applies the start itself as the first
// destination. The drag bounds are fixed here: the gap between the nearest
// strands below and above the start (or its strand).
func Begin(stack *undo.Stack, start model.VBase) (*Gesture, error) {
	if !start.InBounds() {
		return nil, fmt.Errorf("beginning drag at %s: %w", start, model.ErrOutOfBounds)
	}
	before, _, after := start.Lane.StrandsNear(start.Idx)
	g := &Gesture{
		stack: stack,
		log:   start.Lane.Part().Logger(),
		start: start,
		ends:  start.ExposedEnds(),
		low:   0,
		high:  start.Lane.Length() - 1,
		dest:  start.Idx,
		state: StateConstructed,
	}
	if before != nil {
		g.low = before.High() + 1
	}
	if after != nil {
		g.high = after.Low() - 1
	}
	g.log.Debug("drag begin", "start", start.String(), "ends", g.ends.String(), "low", g.low, "high", g.high)
	if err := g.UpdateDestination(start); err != nil {
		g.clear()
		return nil, err
	}
	return g, nil
}

// State returns the lifecycle state.
func (g *Gesture) State() State { return g.state }

// Bounds returns the inclusive range destinations are clamped to.
func (g *Gesture) Bounds() (low, high int) { return g.low, g.high }

// Destination returns the last applied, clamped destination index.
func (g *Gesture) Destination() int { return g.dest }

// UpdateDestination moves the drag to dest.
func (g *Gesture) UpdateDestination(dest model.VBase) error {
	if g.state == StateEnded {
		return ErrGestureEnded
	}
	if dest.Lane != g.start.Lane {
		return fmt.Errorf("updating drag to %s: %w", dest, ErrLaneMismatch)
	}
	idx := max(g.low, min(dest.Idx, g.high))
	if g.state == StateActive && idx == g.dest {
		return nil
	}
	if err := g.rewind(); err != nil {
		return err
	}

	top := g.stack.Top()
	err := g.stack.Transact("Drag", func() error {
		return g.apply(idx)
	})
	if err != nil {
		return fmt.Errorf("updating drag to %d: %w", idx, err)
	}
	if t := g.stack.Top(); t != top {
		g.entry = t
	}
	g.dest = idx
	g.state = StateActive
	return nil
}

// apply performs the net edit for a drag from the start to idx. A
// single-base strand exposes both ends and is dragged by its right end.
func (g *Gesture) apply(idx int) error {
	ss, start := g.start.Lane, g.start.Idx
	right, left := g.ends.Has(model.EndRight), g.ends.Has(model.EndLeft)
	switch {
	case idx == start:
		if ss.GetStrand(start) != nil {
			return nil
		}
		_, err := ss.ConnectStrand(g.stack, start, idx)
		return err
	case right:
		if idx < start {
			return ss.ClearRange(g.stack, idx+1, start, true)
		}
		_, err := ss.ConnectStrand(g.stack, start, idx)
		return err
	case left:
		if idx > start {
			return ss.ClearRange(g.stack, start, idx-1, false)
		}
		_, err := ss.ConnectStrand(g.stack, idx, start)
		return err
	default:
		_, err := ss.ConnectStrand(g.stack, start, idx)
		return err
	}
}

// rewind retracts the entry the previous update pushed.
func (g *Gesture) rewind() error {
	if g.entry == nil {
		return nil
	}
	if g.stack.Top() != g.entry {
		return ErrHistoryChanged
	}
	if err := g.stack.Retract(); err != nil {
		return fmt.Errorf("rewinding drag: %w", err)
	}
	g.entry = nil
	return nil
}

// End keeps the last applied state and ends the gesture.
func (g *Gesture) End() error {
	if g.state == StateEnded {
		return ErrGestureEnded
	}
	g.log.Debug("drag end", "start", g.start.String(), "dest", g.dest)
	g.clear()
	return nil
}

// Cancel rewinds the last update and ends the gesture.
func (g *Gesture) Cancel() error {
	if g.state == StateEnded {
		return ErrGestureEnded
	}
	err := g.rewind()
	g.log.Debug("drag cancel", "start", g.start.String())
	g.clear()
	return err
}

func (g *Gesture) clear() {
	g.stack = nil
	g.start = model.VBase{}
	g.entry = nil
	g.state = StateEnded
}
