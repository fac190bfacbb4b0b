package model

import (
	"fmt"
	"sort"

	"github.com/nanoforge/origami/internal/undo"
)

// StrandSet is the ordered, non-overlapping collection of strands on one
// (virtual helix, strand type) lane.
type StrandSet struct {
	vh      *VirtualHelix
	typ     StrandType
	strands []*Strand
}

func newStrandSet(vh *VirtualHelix, t StrandType) *StrandSet {
	return &StrandSet{vh: vh, typ: t}
}

// StrandType returns the lane's strand type.
func (ss *StrandSet) StrandType() StrandType { return ss.typ }

// IsScaffold reports whether this is the scaffold lane.
func (ss *StrandSet) IsScaffold() bool { return ss.typ == Scaffold }

// IsStaple reports whether this is the staple lane.
func (ss *StrandSet) IsStaple() bool { return ss.typ == Staple }

// VirtualHelix returns the owning helix.
func (ss *StrandSet) VirtualHelix() *VirtualHelix { return ss.vh }

// Part returns the owning part.
func (ss *StrandSet) Part() *Part { return ss.vh.part }

// Length returns the number of bases on the lane.
func (ss *StrandSet) Length() int { return ss.vh.part.length }

// IsDrawn5to3 reports whether strands on this lane run 5'→3' with
// increasing index. Scaffold runs 5'→3' on even-parity helices and staple on
// odd-parity helices.
func (ss *StrandSet) IsDrawn5to3() bool {
	return ss.vh.IsDrawn5to3(ss.typ)
}

// Len returns the number of strands.
func (ss *StrandSet) Len() int { return len(ss.strands) }

// Strands returns the strands ordered by index.
func (ss *StrandSet) Strands() []*Strand {
	return append([]*Strand(nil), ss.strands...)
}

// StrandAt returns the i-th strand in index order.
func (ss *StrandSet) StrandAt(i int) *Strand { return ss.strands[i] }

func (ss *StrandSet) String() string {
	return fmt.Sprintf("%d/%s", ss.vh.number, ss.typ)
}

// search returns the position of the first strand whose high is >= idx.
func (ss *StrandSet) search(idx int) int {
	return sort.Search(len(ss.strands), func(i int) bool {
		return ss.strands[i].high >= idx
	})
}

// GetStrand returns the strand covering idx, or nil.
func (ss *StrandSet) GetStrand(idx int) *Strand {
	i := ss.search(idx)
	if i < len(ss.strands) && ss.strands[i].low <= idx {
		return ss.strands[i]
	}
	return nil
}

// StrandsNear returns the nearest strand entirely below idx, the strand
// covering idx, and the nearest strand entirely above idx. Any may be nil.
func (ss *StrandSet) StrandsNear(idx int) (before, at, after *Strand) {
	i := ss.search(idx)
	if i > 0 {
		before = ss.strands[i-1]
	}
	next := i
	if i < len(ss.strands) && ss.strands[i].low <= idx {
		at = ss.strands[i]
		next = i + 1
	}
	if next < len(ss.strands) {
		after = ss.strands[next]
	}
	return before, at, after
}

// HasStrandIn reports whether any strand intersects [lo, hi].
func (ss *StrandSet) HasStrandIn(lo, hi int) bool {
	i := ss.search(lo)
	return i < len(ss.strands) && ss.strands[i].low <= hi
}

// HasNoStrandAtOrNoXover reports whether idx is empty, or the strand there
// has no connection leaving at idx.
func (ss *StrandSet) HasNoStrandAtOrNoXover(idx int) bool {
	s := ss.GetStrand(idx)
	return s == nil || !s.HasXoverAt(idx)
}

// Contains reports whether s is currently in the lane.
func (ss *StrandSet) Contains(s *Strand) bool {
	return s != nil && s.set == ss && s.attached && ss.position(s) >= 0
}

// overlapping returns the strands intersecting [lo, hi] in order.
func (ss *StrandSet) overlapping(lo, hi int) []*Strand {
	var out []*Strand
	for i := ss.search(lo); i < len(ss.strands) && ss.strands[i].low <= hi; i++ {
		out = append(out, ss.strands[i])
	}
	return out
}

// firstOverlap returns the first strand intersecting [lo, hi] other than
// those in skip.
func (ss *StrandSet) firstOverlap(lo, hi int, skip ...*Strand) *Strand {
	for _, s := range ss.overlapping(lo, hi) {
		skipped := false
		for _, k := range skip {
			if s == k {
				skipped = true
				break
			}
		}
		if !skipped {
			return s
		}
	}
	return nil
}

func (ss *StrandSet) position(s *Strand) int {
	i := sort.Search(len(ss.strands), func(i int) bool {
		return ss.strands[i].low >= s.low
	})
	if i < len(ss.strands) && ss.strands[i] == s {
		return i
	}
	return -1
}

func (ss *StrandSet) insert(s *Strand) {
	i := sort.Search(len(ss.strands), func(i int) bool {
		return ss.strands[i].low > s.low
	})
	ss.strands = append(ss.strands, nil)
	copy(ss.strands[i+1:], ss.strands[i:])
	ss.strands[i] = s
	s.attached = true
}

func (ss *StrandSet) remove(s *Strand) bool {
	i := ss.position(s)
	if i < 0 {
		return false
	}
	ss.strands = append(ss.strands[:i], ss.strands[i+1:]...)
	s.attached = false
	return true
}

func (ss *StrandSet) checkRange(lo, hi int) error {
	if lo > hi {
		return fmt.Errorf("%w: [%d,%d]", ErrInvalidRange, lo, hi)
	}
	if lo < 0 || hi >= ss.Length() {
		return fmt.Errorf("%w: [%d,%d] on %d bases", ErrOutOfBounds, lo, hi, ss.Length())
	}
	return nil
}

func (ss *StrandSet) overlapError(lo, hi int, existing *Strand) *OverlapError {
	return &OverlapError{
		Lane:     ss.String(),
		Low:      lo,
		High:     hi,
		Existing: [2]int{existing.low, existing.high},
	}
}

func (ss *StrandSet) notFound(s *Strand) *NotFoundError {
	return &NotFoundError{Lane: ss.String(), Low: s.low, High: s.high}
}

// CreateStrand adds a strand spanning [lo, hi]. It fails with *OverlapError
// when the range intersects an existing strand.
func (ss *StrandSet) CreateStrand(ex undo.Executor, lo, hi int) (*Strand, error) {
	if err := ss.checkRange(lo, hi); err != nil {
		return nil, fmt.Errorf("creating strand: %w", err)
	}
	s := newStrand(ss, lo, hi)
	if err := ex.Exec(&addStrandCmd{ss: ss, strand: s}); err != nil {
		return nil, fmt.Errorf("creating strand: %w", err)
	}
	return s, nil
}

// RemoveStrand deletes s, disconnecting both of its terminals first. It
// fails with *NotFoundError when s is not in the lane.
func (ss *StrandSet) RemoveStrand(ex undo.Executor, s *Strand) error {
	if !ss.Contains(s) {
		return fmt.Errorf("removing strand: %w", ss.notFound(s))
	}
	return ex.Transact("Remove strand", func() error {
		if err := disconnectEnds(ex, s, true, true); err != nil {
			return err
		}
		return ex.Exec(&removeStrandCmd{ss: ss, strand: s})
	})
}

// ResizeStrand moves the bounds of s to [lo, hi]. A terminal that moves
// loses its connection. It fails with *OverlapError when the new range hits
// another strand.
func (ss *StrandSet) ResizeStrand(ex undo.Executor, s *Strand, lo, hi int) error {
	if !ss.Contains(s) {
		return fmt.Errorf("resizing strand: %w", ss.notFound(s))
	}
	if err := ss.checkRange(lo, hi); err != nil {
		return fmt.Errorf("resizing strand: %w", err)
	}
	if other := ss.firstOverlap(lo, hi, s); other != nil {
		return fmt.Errorf("resizing strand: %w", ss.overlapError(lo, hi, other))
	}
	if lo == s.low && hi == s.high {
		return nil
	}
	return ex.Transact("Resize strand", func() error {
		if err := disconnectEnds(ex, s, lo != s.low, hi != s.high); err != nil {
			return err
		}
		return ex.Exec(&resizeStrandCmd{strand: s, oldLow: s.low, oldHigh: s.high, newLow: lo, newHigh: hi})
	})
}

// SplitStrand breaks s into [low, idx] and [idx+1, high]. The low terminal's
// connection stays with the left piece and the high terminal's with the
// right piece.
func (ss *StrandSet) SplitStrand(ex undo.Executor, s *Strand, idx int) (left, right *Strand, err error) {
	if !ss.Contains(s) {
		return nil, nil, fmt.Errorf("splitting strand: %w", ss.notFound(s))
	}
	if idx < s.low || idx >= s.high {
		return nil, nil, fmt.Errorf("splitting strand %s at %d: %w", s, idx, ErrInvalidRange)
	}
	cmd := newSplitStrandCmd(ss, s, idx)
	if err := ex.Exec(cmd); err != nil {
		return nil, nil, fmt.Errorf("splitting strand: %w", err)
	}
	return cmd.left, cmd.right, nil
}

// ClearRange removes the bases [lo, hi] from every strand intersecting the
// range. Covered strands are removed and partially covered strands
// truncated. A range strictly inside one strand truncates that strand to one
// side: the left fragment survives when keepLeft is set, the right otherwise.
// Clearing never splits a strand.
func (ss *StrandSet) ClearRange(ex undo.Executor, lo, hi int, keepLeft bool) error {
	if err := ss.checkRange(lo, hi); err != nil {
		return fmt.Errorf("clearing range: %w", err)
	}
	hit := ss.overlapping(lo, hi)
	if len(hit) == 0 {
		return nil
	}
	return ex.Transact("Clear range", func() error {
		for _, s := range hit {
			var err error
			switch {
			case s.low >= lo && s.high <= hi:
				err = ss.RemoveStrand(ex, s)
			case s.low < lo && s.high > hi:
				if keepLeft {
					err = ss.ResizeStrand(ex, s, s.low, lo-1)
				} else {
					err = ss.ResizeStrand(ex, s, hi+1, s.high)
				}
			case s.low < lo:
				err = ss.ResizeStrand(ex, s, s.low, lo-1)
			default:
				err = ss.ResizeStrand(ex, s, hi+1, s.high)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// ConnectStrand makes one strand cover [min(a,b), max(a,b)]. With no strand
// in the range a new strand is created; otherwise every intersecting strand
// is merged into one. A strand directly adjacent to the result is merged too
// when both facing terminals are unconnected. Connections on terminals that end
// up inside the merged strand, or that move, are dropped.
func (ss *StrandSet) ConnectStrand(ex undo.Executor, a, b int) (*Strand, error) {
	lo, hi := min(a, b), max(a, b)
	if err := ss.checkRange(lo, hi); err != nil {
		return nil, fmt.Errorf("connecting strand: %w", err)
	}

	parts := ss.overlapping(lo, hi)
	newLo, newHi := lo, hi
	if len(parts) > 0 {
		newLo = min(lo, parts[0].low)
		newHi = max(hi, parts[len(parts)-1].high)
	}
	lowFree := len(parts) == 0 || parts[0].low != newLo || parts[0].connLow == nil
	if prev := ss.GetStrand(newLo - 1); prev != nil && prev.connHigh == nil && lowFree {
		parts = append([]*Strand{prev}, parts...)
		newLo = prev.low
	}
	highFree := len(parts) == 0 || parts[len(parts)-1].high != newHi || parts[len(parts)-1].connHigh == nil
	if next := ss.GetStrand(newHi + 1); next != nil && next.connLow == nil && highFree {
		parts = append(parts, next)
		newHi = next.high
	}

	switch len(parts) {
	case 0:
		return ss.CreateStrand(ex, lo, hi)
	case 1:
		s := parts[0]
		if err := ss.ResizeStrand(ex, s, newLo, newHi); err != nil {
			return nil, fmt.Errorf("connecting strand: %w", err)
		}
		return s, nil
	}

	cmd := newMergeStrandsCmd(ss, parts, newLo, newHi)
	err := ex.Transact("Connect strand", func() error {
		last := len(parts) - 1
		for i, p := range parts {
			dropLow := i > 0 || newLo != p.low
			dropHigh := i < last || newHi != p.high
			if err := disconnectEnds(ex, p, dropLow, dropHigh); err != nil {
				return err
			}
		}
		return ex.Exec(cmd)
	})
	if err != nil {
		return nil, fmt.Errorf("connecting strand: %w", err)
	}
	return cmd.merged, nil
}

// disconnectEnds removes the connections at the selected terminals of s.
func disconnectEnds(ex undo.Executor, s *Strand, low, high bool) error {
	if low && s.connLow != nil {
		if err := ex.Exec(disconnectAt(s, s.lowPrime())); err != nil {
			return err
		}
	}
	if high && s.connHigh != nil {
		if err := ex.Exec(disconnectAt(s, s.lowPrime().opposite())); err != nil {
			return err
		}
	}
	return nil
}

// disconnectAt builds the command removing the connection at terminal p.
func disconnectAt(s *Strand, p prime) *disconnectCmd {
	partner := *s.ref(p)
	if p == threePrime {
		return &disconnectCmd{from: s, to: partner}
	}
	return &disconnectCmd{from: partner, to: s}
}
