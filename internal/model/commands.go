package model

import (
	"fmt"

	"github.com/nanoforge/origami/internal/events"
)

// Commands in this file validate in Do before touching any state, so a
// failed Do leaves the model unchanged. Undo assumes the state Do left.

type addStrandCmd struct {
	ss     *StrandSet
	strand *Strand
}

func (c *addStrandCmd) Desc() string { return "Create strand" }

func (c *addStrandCmd) Do() error {
	s := c.strand
	if s.attached {
		return fmt.Errorf("%s: %w", s, ErrInvalidRange)
	}
	if other := c.ss.firstOverlap(s.low, s.high); other != nil {
		return c.ss.overlapError(s.low, s.high, other)
	}
	c.ss.insert(s)
	c.ss.changed(events.TypeStrandAdded, s)
	return nil
}

func (c *addStrandCmd) Undo() error {
	if !c.ss.remove(c.strand) {
		return c.ss.notFound(c.strand)
	}
	c.ss.changed(events.TypeStrandRemoved, c.strand)
	return nil
}

type removeStrandCmd struct {
	ss     *StrandSet
	strand *Strand
}

func (c *removeStrandCmd) Desc() string { return "Remove strand" }

func (c *removeStrandCmd) Do() error {
	s := c.strand
	if !c.ss.Contains(s) {
		return c.ss.notFound(s)
	}
	if s.connLow != nil || s.connHigh != nil {
		return fmt.Errorf("removing %s: %w", s, ErrAlreadyConnected)
	}
	c.ss.remove(s)
	c.ss.changed(events.TypeStrandRemoved, s)
	return nil
}

func (c *removeStrandCmd) Undo() error {
	c.ss.insert(c.strand)
	c.ss.changed(events.TypeStrandAdded, c.strand)
	return nil
}

type resizeStrandCmd struct {
	strand          *Strand
	oldLow, oldHigh int
	newLow, newHigh int
}

func (c *resizeStrandCmd) Desc() string { return "Resize strand" }

func (c *resizeStrandCmd) Do() error {
	s := c.strand
	ss := s.set
	if !ss.Contains(s) {
		return ss.notFound(s)
	}
	if err := ss.checkRange(c.newLow, c.newHigh); err != nil {
		return err
	}
	if other := ss.firstOverlap(c.newLow, c.newHigh, s); other != nil {
		return ss.overlapError(c.newLow, c.newHigh, other)
	}
	if (c.newLow != s.low && s.connLow != nil) || (c.newHigh != s.high && s.connHigh != nil) {
		return fmt.Errorf("resizing %s: %w", s, ErrAlreadyConnected)
	}
	s.low, s.high = c.newLow, c.newHigh
	ss.changed(events.TypeStrandResized, s)
	return nil
}

func (c *resizeStrandCmd) Undo() error {
	s := c.strand
	s.low, s.high = c.oldLow, c.oldHigh
	s.set.changed(events.TypeStrandResized, s)
	return nil
}

// connectCmd joins from's 3' terminal to to's 5' terminal.
type connectCmd struct {
	from *Strand
	to   *Strand
}

func (c *connectCmd) Desc() string { return "Connect" }

func (c *connectCmd) Do() error {
	if !c.from.attached || !c.to.attached {
		return ErrDetached
	}
	if c.from == c.to {
		return ErrSelfXover
	}
	if c.from.StrandType() != c.to.StrandType() {
		return ErrStrandTypeMismatch
	}
	if c.from.Connection3p() != nil || c.to.Connection5p() != nil {
		return fmt.Errorf("connecting %s to %s: %w", c.from, c.to, ErrAlreadyConnected)
	}
	*c.from.ref(threePrime) = c.to
	*c.to.ref(fivePrime) = c.from
	c.from.set.connectionChanged(events.TypeConnected, c.from, c.to)
	return nil
}

func (c *connectCmd) Undo() error {
	*c.from.ref(threePrime) = nil
	*c.to.ref(fivePrime) = nil
	c.from.set.connectionChanged(events.TypeDisconnected, c.from, c.to)
	return nil
}

// disconnectCmd is the inverse of connectCmd.
type disconnectCmd struct {
	from *Strand
	to   *Strand
}

func (c *disconnectCmd) Desc() string { return "Disconnect" }

func (c *disconnectCmd) Do() error {
	if c.from == nil || c.to == nil || c.from.Connection3p() != c.to || c.to.Connection5p() != c.from {
		return ErrNotConnected
	}
	*c.from.ref(threePrime) = nil
	*c.to.ref(fivePrime) = nil
	c.from.set.connectionChanged(events.TypeDisconnected, c.from, c.to)
	return nil
}

func (c *disconnectCmd) Undo() error {
	*c.from.ref(threePrime) = c.to
	*c.to.ref(fivePrime) = c.from
	c.from.set.connectionChanged(events.TypeConnected, c.from, c.to)
	return nil
}

// splitStrandCmd replaces orig with left [low, idx] and right [idx+1, high].
type splitStrandCmd struct {
	ss    *StrandSet
	orig  *Strand
	left  *Strand
	right *Strand
}

func newSplitStrandCmd(ss *StrandSet, orig *Strand, idx int) *splitStrandCmd {
	return &splitStrandCmd{
		ss:    ss,
		orig:  orig,
		left:  newStrand(ss, orig.low, idx),
		right: newStrand(ss, idx+1, orig.high),
	}
}

func (c *splitStrandCmd) Desc() string { return "Split strand" }

func (c *splitStrandCmd) Do() error {
	o := c.orig
	if !c.ss.Contains(o) {
		return c.ss.notFound(o)
	}
	if o.low != c.left.low || o.high != c.right.high {
		return fmt.Errorf("splitting %s: %w", o, ErrInvalidRange)
	}
	lowP, highP := o.lowPrime(), o.lowPrime().opposite()
	o.retarget(lowP, c.left)
	o.retarget(highP, c.right)
	c.left.connLow, c.right.connHigh = o.connLow, o.connHigh
	c.ss.remove(o)
	c.ss.insert(c.left)
	c.ss.insert(c.right)
	c.ss.changed(events.TypeStrandRemoved, o)
	c.ss.changed(events.TypeStrandAdded, c.left)
	c.ss.changed(events.TypeStrandAdded, c.right)
	return nil
}

func (c *splitStrandCmd) Undo() error {
	lowP := c.orig.lowPrime()
	c.left.retarget(lowP, c.orig)
	c.right.retarget(lowP.opposite(), c.orig)
	c.left.connLow, c.right.connHigh = nil, nil
	c.ss.remove(c.left)
	c.ss.remove(c.right)
	c.ss.insert(c.orig)
	c.ss.changed(events.TypeStrandRemoved, c.left)
	c.ss.changed(events.TypeStrandRemoved, c.right)
	c.ss.changed(events.TypeStrandAdded, c.orig)
	return nil
}

// mergeStrandsCmd replaces consecutive parts with one strand. Only the outer
// terminals may carry connections, and only when they stay in place.
type mergeStrandsCmd struct {
	ss     *StrandSet
	parts  []*Strand
	merged *Strand
}

func newMergeStrandsCmd(ss *StrandSet, parts []*Strand, lo, hi int) *mergeStrandsCmd {
	return &mergeStrandsCmd{
		ss:     ss,
		parts:  append([]*Strand(nil), parts...),
		merged: newStrand(ss, lo, hi),
	}
}

func (c *mergeStrandsCmd) Desc() string { return "Merge strands" }

func (c *mergeStrandsCmd) Do() error {
	first, last := c.parts[0], c.parts[len(c.parts)-1]
	for i, p := range c.parts {
		if !c.ss.Contains(p) {
			return c.ss.notFound(p)
		}
		innerLow := i > 0 || p.low != c.merged.low
		innerHigh := i < len(c.parts)-1 || p.high != c.merged.high
		if (innerLow && p.connLow != nil) || (innerHigh && p.connHigh != nil) {
			return fmt.Errorf("merging %s: %w", p, ErrAlreadyConnected)
		}
	}
	if err := c.ss.checkRange(c.merged.low, c.merged.high); err != nil {
		return err
	}
	if other := c.ss.firstOverlap(c.merged.low, c.merged.high, c.parts...); other != nil {
		return c.ss.overlapError(c.merged.low, c.merged.high, other)
	}

	lowP := first.lowPrime()
	first.retarget(lowP, c.merged)
	last.retarget(lowP.opposite(), c.merged)
	c.merged.connLow, c.merged.connHigh = first.connLow, last.connHigh
	for _, p := range c.parts {
		c.ss.remove(p)
		c.ss.changed(events.TypeStrandRemoved, p)
	}
	c.ss.insert(c.merged)
	c.ss.changed(events.TypeStrandAdded, c.merged)
	return nil
}

func (c *mergeStrandsCmd) Undo() error {
	first, last := c.parts[0], c.parts[len(c.parts)-1]
	lowP := first.lowPrime()
	c.merged.retarget(lowP, first)
	c.merged.retarget(lowP.opposite(), last)
	c.merged.connLow, c.merged.connHigh = nil, nil
	c.ss.remove(c.merged)
	c.ss.changed(events.TypeStrandRemoved, c.merged)
	for _, p := range c.parts {
		c.ss.insert(p)
		c.ss.changed(events.TypeStrandAdded, p)
	}
	return nil
}

// refreshOligosCmd recomputes oligo membership. Undo only marks the cache
// stale; the structure it was derived from is restored by the other commands.
type refreshOligosCmd struct {
	part *Part
}

func (c *refreshOligosCmd) Desc() string { return "Refresh oligos" }

func (c *refreshOligosCmd) Do() error {
	c.part.refreshOligos()
	return nil
}

func (c *refreshOligosCmd) Undo() error {
	c.part.oligosStale = true
	return nil
}

// resizePartCmd changes the length of every helix.
type resizePartCmd struct {
	part     *Part
	from, to int
}

func (c *resizePartCmd) Desc() string { return "Resize virtual helices" }

func (c *resizePartCmd) Do() error {
	if err := c.part.checkLength(c.to); err != nil {
		return err
	}
	c.part.setLength(c.to)
	return nil
}

func (c *resizePartCmd) Undo() error {
	c.part.setLength(c.from)
	return nil
}

// changed marks derived state stale and notifies observers of a strand change.
func (ss *StrandSet) changed(t events.Type, s *Strand) {
	p := ss.vh.part
	p.oligosStale = true
	p.bus.Emit(events.Event{
		Type:  t,
		Helix: ss.vh.number,
		Lane:  ss.typ.String(),
		Low:   s.low,
		High:  s.high,
	})
}

func (ss *StrandSet) connectionChanged(t events.Type, from, to *Strand) {
	p := ss.vh.part
	p.oligosStale = true
	p.bus.Emit(events.Event{
		Type:         t,
		Helix:        from.set.vh.number,
		Lane:         from.set.typ.String(),
		Low:          from.Idx3Prime(),
		High:         from.Idx3Prime(),
		PartnerHelix: to.set.vh.number,
		PartnerIdx:   to.Idx5Prime(),
	})
}
