package model

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/nanoforge/origami/internal/events"
	"github.com/nanoforge/origami/internal/lattice"
	"github.com/nanoforge/origami/internal/undo"
)

// PartID identifies a part.
type PartID string

// Part is a set of parallel virtual helices on one lattice, sharing a global
// base length. It owns the undo stack every tracked edit is recorded on.
type Part struct {
	id      PartID
	lat     *lattice.Lattice
	length  int
	helices map[lattice.Coord]*VirtualHelix
	ordered []*VirtualHelix

	stack *undo.Stack
	bus   *events.Bus
	log   *slog.Logger

	activeHelix *VirtualHelix
	activeIdx   int

	oligos      []*Oligo
	oligosStale bool
}

// Option configures a Part.
type Option func(*partOptions)

type partOptions struct {
	length    int
	log       *slog.Logger
	undoLimit int
}

// WithLength sets the initial base length. It must be a positive multiple of
// the lattice step. The default is one step.
func WithLength(n int) Option {
	return func(o *partOptions) { o.length = n }
}

// WithLogger sets the logger used by the part and its undo stack.
func WithLogger(l *slog.Logger) Option {
	return func(o *partOptions) { o.log = l }
}

// WithUndoLimit caps the undo history. Zero means unlimited.
func WithUndoLimit(n int) Option {
	return func(o *partOptions) { o.undoLimit = n }
}

// NewPart creates an empty part on lat.
func NewPart(lat *lattice.Lattice, opts ...Option) (*Part, error) {
	if lat == nil {
		return nil, fmt.Errorf("creating part: %w", lattice.ErrUnknownKind)
	}
	o := partOptions{length: lat.Step}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if !lat.ValidLength(o.length) {
		return nil, fmt.Errorf("creating part: %w: %d", ErrInvalidLength, o.length)
	}
	p := &Part{
		id:      PartID(uuid.NewString()),
		lat:     lat,
		length:  o.length,
		helices: make(map[lattice.Coord]*VirtualHelix),
		stack:   undo.NewStack(undo.WithLimit(o.undoLimit), undo.WithLogger(o.log)),
		bus:     events.NewBus(),
		log:     o.log,
	}
	return p, nil
}

// ID returns the part's identity.
func (p *Part) ID() PartID { return p.id }

// Lattice returns the part's lattice.
func (p *Part) Lattice() *lattice.Lattice { return p.lat }

// Length returns the number of bases on every helix.
func (p *Part) Length() int { return p.length }

// UndoStack returns the stack tracked edits are recorded on.
func (p *Part) UndoStack() *undo.Stack { return p.stack }

// Logger returns the part's logger.
func (p *Part) Logger() *slog.Logger { return p.log }

// Subscribe registers h for structural change events.
func (p *Part) Subscribe(h events.Handler) (unsubscribe func()) {
	return p.bus.Subscribe(h)
}

// AddVirtualHelix creates a helix at c. Helix creation is part of building
// the part and is not recorded on the undo stack.
func (p *Part) AddVirtualHelix(c lattice.Coord) (*VirtualHelix, error) {
	if _, ok := p.helices[c]; ok {
		return nil, fmt.Errorf("adding helix at %s: %w", c, ErrHelixExists)
	}
	vh := newVirtualHelix(p, c, len(p.ordered))
	p.helices[c] = vh
	p.ordered = append(p.ordered, vh)
	p.log.Debug("virtual helix added", "number", vh.number, "coord", c.String())
	return vh, nil
}

// VirtualHelixAt returns the helix at c, or nil.
func (p *Part) VirtualHelixAt(c lattice.Coord) *VirtualHelix {
	return p.helices[c]
}

// VirtualHelix returns the helix with the given number.
func (p *Part) VirtualHelix(number int) (*VirtualHelix, error) {
	if number < 0 || number >= len(p.ordered) {
		return nil, fmt.Errorf("%w: number %d", ErrNoHelix, number)
	}
	return p.ordered[number], nil
}

// VirtualHelices returns every helix in number order.
func (p *Part) VirtualHelices() []*VirtualHelix {
	return append([]*VirtualHelix(nil), p.ordered...)
}

// AreSameOrNeighbors reports whether a and b are the same helix or occupy
// adjacent lattice positions.
func (p *Part) AreSameOrNeighbors(a, b *VirtualHelix) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	for _, n := range a.Neighbors() {
		if n == b {
			return true
		}
	}
	return false
}

// SetActiveVirtualHelix selects the helix whose crossovers are previewed.
func (p *Part) SetActiveVirtualHelix(vh *VirtualHelix) {
	if p.activeHelix == vh {
		return
	}
	p.activeHelix = vh
	p.emitActive()
}

// ActiveVirtualHelix returns the selected helix, or nil.
func (p *Part) ActiveVirtualHelix() *VirtualHelix { return p.activeHelix }

// SetActiveBaseIndex moves the preview position, clamped to the part.
func (p *Part) SetActiveBaseIndex(idx int) {
	idx = max(0, min(idx, p.length-1))
	if p.activeIdx == idx {
		return
	}
	p.activeIdx = idx
	p.emitActive()
}

// ActiveBaseIndex returns the preview position.
func (p *Part) ActiveBaseIndex() int { return p.activeIdx }

// ActiveCrossovers returns the potential crossovers near the active base
// index of the active helix.
func (p *Part) ActiveCrossovers() []PotentialXover {
	if p.activeHelix == nil {
		return nil
	}
	return p.PotentialCrossoversNear(p.activeHelix, p.activeIdx)
}

func (p *Part) emitActive() {
	e := events.Event{Type: events.TypeActiveChanged, Helix: -1, Low: p.activeIdx, High: p.activeIdx}
	if p.activeHelix != nil {
		e.Helix = p.activeHelix.number
	}
	p.bus.Emit(e)
}

// IndexOfRightmostNonemptyBase returns the highest base index covered by any
// strand, or -1 when the part is empty.
func (p *Part) IndexOfRightmostNonemptyBase() int {
	idx := -1
	for _, vh := range p.ordered {
		for _, ss := range vh.StrandSets() {
			if n := len(ss.strands); n > 0 {
				idx = max(idx, ss.strands[n-1].high)
			}
		}
	}
	return idx
}

// ResizeVirtualHelices changes the length of every helix by delta bases.
// The new length must be a positive multiple of the lattice step, and
// shrinking may not cut into existing strands.
func (p *Part) ResizeVirtualHelices(ex undo.Executor, delta int) error {
	if delta == 0 {
		return nil
	}
	to := p.length + delta
	if err := p.checkLength(to); err != nil {
		return fmt.Errorf("resizing helices: %w", err)
	}
	return ex.Exec(&resizePartCmd{part: p, from: p.length, to: to})
}

func (p *Part) checkLength(n int) error {
	if !p.lat.ValidLength(n) {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	if last := p.IndexOfRightmostNonemptyBase(); last >= n {
		return fmt.Errorf("%w: base %d", ErrOccupied, last)
	}
	return nil
}

func (p *Part) setLength(n int) {
	p.length = n
	if p.activeIdx >= n {
		p.activeIdx = n - 1
	}
	p.bus.Emit(events.Event{Type: events.TypePartResized, Helix: -1, High: n - 1})
}

// Oligos returns the current oligos, refreshing them first when a structural
// change has made them stale.
func (p *Part) Oligos() []*Oligo {
	if p.oligosStale || p.oligos == nil {
		p.refreshOligos()
	}
	return append([]*Oligo(nil), p.oligos...)
}

// OligosStale reports whether a structural change happened since the last
// oligo refresh.
func (p *Part) OligosStale() bool { return p.oligosStale }

// Snapshot returns a canonical description of every strand and its
// connections, one line per strand in helix, lane, and index order. Two
// parts with equal snapshots are structurally identical.
func (p *Part) Snapshot() []string {
	var out []string
	for _, vh := range p.ordered {
		for _, ss := range vh.StrandSets() {
			for _, s := range ss.strands {
				out = append(out, fmt.Sprintf("%s 5'<-%s 3'->%s",
					s, connName(s.Connection5p()), connName(s.Connection3p())))
			}
		}
	}
	return out
}

func connName(s *Strand) string {
	if s == nil {
		return "-"
	}
	return s.String()
}

// CheckInvariants verifies lane ordering, bounds, attachment, and connection
// reciprocity across the part.
func (p *Part) CheckInvariants() error {
	var errs []error
	for _, vh := range p.ordered {
		for _, ss := range vh.StrandSets() {
			if !sort.SliceIsSorted(ss.strands, func(i, j int) bool {
				return ss.strands[i].low < ss.strands[j].low
			}) {
				errs = append(errs, fmt.Errorf("%s: strands not sorted", ss))
			}
			for i, s := range ss.strands {
				if s.set != ss || !s.attached {
					errs = append(errs, fmt.Errorf("%s: strand %s not attached", ss, s))
				}
				if s.low > s.high || s.low < 0 || s.high >= p.length {
					errs = append(errs, fmt.Errorf("%s: strand %s out of bounds", ss, s))
				}
				if i > 0 && ss.strands[i-1].high >= s.low {
					errs = append(errs, fmt.Errorf("%s: %s overlaps %s", ss, ss.strands[i-1], s))
				}
				if to := s.Connection3p(); to != nil {
					if to.Connection5p() != s {
						errs = append(errs, fmt.Errorf("%s 3' -> %s is not reciprocal", s, to))
					}
					if !to.attached || to.StrandType() != s.StrandType() {
						errs = append(errs, fmt.Errorf("%s 3' -> %s: partner invalid", s, to))
					}
				}
				if from := s.Connection5p(); from != nil && from.Connection3p() != s {
					errs = append(errs, fmt.Errorf("%s 5' <- %s is not reciprocal", s, from))
				}
			}
		}
	}
	return errors.Join(errs...)
}
