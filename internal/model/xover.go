package model

import (
	"fmt"

	"github.com/nanoforge/origami/internal/undo"
)

// PotentialXover is a legal crossover site between a helix and one of its
// neighbors.
type PotentialXover struct {
	Neighbor   *VirtualHelix
	Index      int
	StrandType StrandType
	// IsLowIdx marks the low member of an offset pair.
	IsLowIdx bool
}

func (x PotentialXover) String() string {
	o := "high"
	if x.IsLowIdx {
		o = "low"
	}
	return fmt.Sprintf("%s@%d->%s(%s)", x.StrandType, x.Index, x.Neighbor, o)
}

// PotentialCrossoverList returns every crossover site from vh to its
// occupied neighbor slots where neither lane already has a crossover at the
// site. Sites are ordered by neighbor slot, strand type, low before high,
// then index.
func (p *Part) PotentialCrossoverList(vh *VirtualHelix) []PotentialXover {
	return p.potentialXovers(vh, 0, p.length)
}

// PotentialCrossoversNear is PotentialCrossoverList restricted to the step
// periods starting within [idx-3*step, idx+2*step].
func (p *Part) PotentialCrossoversNear(vh *VirtualHelix, idx int) []PotentialXover {
	step := p.lat.Step
	from := max(0, idx-3*step)
	return p.potentialXovers(vh, from, idx+2*step+1)
}

// potentialXovers scans the periods whose start lies in [from, to).
func (p *Part) potentialXovers(vh *VirtualHelix, from, to int) []PotentialXover {
	step := p.lat.Step
	first := (from + step - 1) / step * step
	var out []PotentialXover
	for slot, nvh := range vh.Neighbors() {
		if nvh == nil {
			continue
		}
		for _, t := range StrandTypes {
			lane, nlane := vh.StrandSet(t), nvh.StrandSet(t)
			lows, highs := p.lat.Sites(slot, t == Scaffold)
			for _, isLow := range []bool{true, false} {
				offsets := highs
				if isLow {
					offsets = lows
				}
				for start := first; start < to && start < p.length; start += step {
					for _, off := range offsets {
						idx := start + off
						if idx >= p.length {
							continue
						}
						if lane.HasNoStrandAtOrNoXover(idx) && nlane.HasNoStrandAtOrNoXover(idx) {
							out = append(out, PotentialXover{Neighbor: nvh, Index: idx, StrandType: t, IsLowIdx: isLow})
						}
					}
				}
			}
		}
	}
	return out
}

// CreateXover connects the 3' end of s5 at idx5 to the 5' end of s3 at idx3.
// An index strictly inside a strand splits it first so the piece ending at
// the index carries the connection.
//
// Structural misuse (missing or detached strands, mixed strand types, a
// strand crossing to itself) is an error. An index outside the strand, at
// the wrong terminal, or at an end that is already connected is a silent
// no-op reported by installed == false. With updateOligo the oligos are
// refreshed in the same undo unit; otherwise they are left stale.
func (p *Part) CreateXover(ex undo.Executor, s5 *Strand, idx5 int, s3 *Strand, idx3 int, updateOligo bool) (installed bool, err error) {
	if s5 == nil || s3 == nil || !s5.attached || !s3.attached {
		return false, fmt.Errorf("creating crossover: %w", ErrDetached)
	}
	if s5.StrandType() != s3.StrandType() {
		return false, fmt.Errorf("creating crossover %s -> %s: %w", s5, s3, ErrStrandTypeMismatch)
	}
	if s5 == s3 {
		return false, fmt.Errorf("creating crossover on %s: %w", s5, ErrSelfXover)
	}
	split5, ok := xoverEnd(s5, idx5, threePrime)
	if !ok {
		return false, nil
	}
	split3, ok := xoverEnd(s3, idx3, fivePrime)
	if !ok {
		return false, nil
	}

	err = ex.Transact("Create crossover", func() error {
		from, err := split5.apply(ex)
		if err != nil {
			return err
		}
		to, err := split3.apply(ex)
		if err != nil {
			return err
		}
		if err := ex.Exec(&connectCmd{from: from, to: to}); err != nil {
			return err
		}
		if updateOligo {
			return ex.Exec(&refreshOligosCmd{part: p})
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("creating crossover: %w", err)
	}
	p.log.Debug("crossover created",
		"from", s5.String(), "idx5", idx5, "to", s3.String(), "idx3", idx3)
	return true, nil
}

// endSplit describes how to obtain a strand whose terminal p sits at idx.
type endSplit struct {
	strand *Strand
	at     int
	// takeLeft selects the piece [low, at] rather than [at+1, high].
	takeLeft bool
	split    bool
}

// xoverEnd resolves terminal p of s at idx, reporting false when the
// crossover cannot attach there.
func xoverEnd(s *Strand, idx int, p prime) (endSplit, bool) {
	if !s.Contains(idx) {
		return endSplit{}, false
	}
	if idx == s.idxOf(p) {
		return endSplit{strand: s}, *s.ref(p) == nil
	}
	if idx == s.idxOf(p.opposite()) {
		return endSplit{}, false
	}
	wantHigh := (p == threePrime) == s.IsDrawn5to3()
	if wantHigh {
		return endSplit{strand: s, at: idx, takeLeft: true, split: true}, true
	}
	return endSplit{strand: s, at: idx - 1, split: true}, true
}

func (e endSplit) apply(ex undo.Executor) (*Strand, error) {
	if !e.split {
		return e.strand, nil
	}
	left, right, err := e.strand.set.SplitStrand(ex, e.strand, e.at)
	if err != nil {
		return nil, err
	}
	if e.takeLeft {
		return left, nil
	}
	return right, nil
}

// RemoveXover disconnects the 3' end of s5 from its partner.
func (p *Part) RemoveXover(ex undo.Executor, s5 *Strand) error {
	if s5 == nil || !s5.attached {
		return fmt.Errorf("removing crossover: %w", ErrDetached)
	}
	if s5.Connection3p() == nil {
		return fmt.Errorf("removing crossover from %s: %w", s5, ErrNotConnected)
	}
	if err := ex.Exec(disconnectAt(s5, threePrime)); err != nil {
		return fmt.Errorf("removing crossover: %w", err)
	}
	return nil
}

// RefreshOligos records an oligo refresh.
func (p *Part) RefreshOligos(ex undo.Executor) error {
	return ex.Exec(&refreshOligosCmd{part: p})
}
