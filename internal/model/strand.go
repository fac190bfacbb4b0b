package model

import "fmt"

// Strand is a contiguous closed interval [low, high] of bases on one lane.
//
// A strand has at most one connection per terminal. Connections are
// reciprocal: when a's 3' end is connected to b, b's 5' end is connected to
// a. Which terminal is 5' depends on the lane's drawing direction.
type Strand struct {
	set      *StrandSet
	low      int
	high     int
	connLow  *Strand
	connHigh *Strand
	attached bool
	oligo    *Oligo
}

func newStrand(ss *StrandSet, low, high int) *Strand {
	return &Strand{set: ss, low: low, high: high}
}

// Low returns the lowest base index.
func (s *Strand) Low() int { return s.low }

// High returns the highest base index.
func (s *Strand) High() int { return s.high }

// Idxs returns (low, high).
func (s *Strand) Idxs() (int, int) { return s.low, s.high }

// Len returns the number of bases.
func (s *Strand) Len() int { return s.high - s.low + 1 }

// StrandSet returns the lane the strand was created on.
func (s *Strand) StrandSet() *StrandSet { return s.set }

// StrandType returns the lane's strand type.
func (s *Strand) StrandType() StrandType { return s.set.typ }

// VirtualHelix returns the helix of the strand's lane.
func (s *Strand) VirtualHelix() *VirtualHelix { return s.set.vh }

// IsAttached reports whether the strand is currently in its lane.
func (s *Strand) IsAttached() bool { return s.attached }

// IsDrawn5to3 reports whether the strand's 5' end is its low end.
func (s *Strand) IsDrawn5to3() bool { return s.set.IsDrawn5to3() }

// Contains reports whether idx is one of the strand's bases.
func (s *Strand) Contains(idx int) bool {
	return s.low <= idx && idx <= s.high
}

// Idx5Prime returns the base index of the 5' terminal.
func (s *Strand) Idx5Prime() int { return s.idxOf(fivePrime) }

// Idx3Prime returns the base index of the 3' terminal.
func (s *Strand) Idx3Prime() int { return s.idxOf(threePrime) }

// Connection5p returns the strand connected upstream of the 5' end.
func (s *Strand) Connection5p() *Strand { return *s.ref(fivePrime) }

// Connection3p returns the strand connected downstream of the 3' end.
func (s *Strand) Connection3p() *Strand { return *s.ref(threePrime) }

// ConnectionLow returns the connection at the low terminal.
func (s *Strand) ConnectionLow() *Strand { return s.connLow }

// ConnectionHigh returns the connection at the high terminal.
func (s *Strand) ConnectionHigh() *Strand { return s.connHigh }

// ExposedEnds returns the unconnected terminals of the strand.
func (s *Strand) ExposedEnds() Ends {
	var e Ends
	if s.connLow == nil {
		e |= EndLeft
	}
	if s.connHigh == nil {
		e |= EndRight
	}
	return e
}

// HasXoverAt reports whether a connection leaves the strand at idx.
func (s *Strand) HasXoverAt(idx int) bool {
	return (idx == s.low && s.connLow != nil) || (idx == s.high && s.connHigh != nil)
}

// Oligo returns the oligo the strand belonged to at the last refresh.
func (s *Strand) Oligo() *Oligo { return s.oligo }

func (s *Strand) String() string {
	return fmt.Sprintf("%s[%d,%d]", s.set, s.low, s.high)
}

// lowPrime returns which chemical end sits at the low terminal.
func (s *Strand) lowPrime() prime {
	if s.IsDrawn5to3() {
		return fivePrime
	}
	return threePrime
}

// idxOf returns the base index of terminal p.
func (s *Strand) idxOf(p prime) int {
	if p == s.lowPrime() {
		return s.low
	}
	return s.high
}

// ref returns the connection field for terminal p.
func (s *Strand) ref(p prime) **Strand {
	if p == s.lowPrime() {
		return &s.connLow
	}
	return &s.connHigh
}

// retarget repoints the partner of s's terminal p from s to to.
func (s *Strand) retarget(p prime, to *Strand) {
	if partner := *s.ref(p); partner != nil {
		*partner.ref(p.opposite()) = to
	}
}

// VBase identifies one base of one lane. Interactive callers normalize raw
// positions into a VBase before calling the engine.
type VBase struct {
	Lane *StrandSet
	Idx  int
}

// Strand returns the strand covering the base, or nil.
func (b VBase) Strand() *Strand {
	if b.Lane == nil {
		return nil
	}
	return b.Lane.GetStrand(b.Idx)
}

// ExposedEnds returns the unconnected strand terminals located at the base.
func (b VBase) ExposedEnds() Ends {
	s := b.Strand()
	if s == nil {
		return 0
	}
	var e Ends
	if b.Idx == s.low && s.connLow == nil {
		e |= EndLeft
	}
	if b.Idx == s.high && s.connHigh == nil {
		e |= EndRight
	}
	return e
}

// InBounds reports whether the index lies on the helix.
func (b VBase) InBounds() bool {
	return b.Lane != nil && b.Idx >= 0 && b.Idx < b.Lane.Length()
}

func (b VBase) String() string {
	return fmt.Sprintf("%s:%d", b.Lane, b.Idx)
}
