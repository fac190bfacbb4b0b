// Package autostaple regenerates the staple layout of a part from its
// scaffold.
//
// The synthesizer runs in four phases:
//
//  1. Clear: every staple strand is removed ("Clear staples" undo entry).
//  2. Discovery: temporary staple strands mirroring the scaffold segments are
//     laid out untracked, and every staple crossover site with two clear
//     bases on both sides cuts both lanes at idx and idx+1.
//  3. Rebuild: the sorted cut points of each lane are paired into the final
//     staple strands.
//  4. Crossovers: both halves of every cut are joined across the helices,
//     then oligos are refreshed once.
//
// Phases 3 and 4 form a single "Auto-Staple" undo entry.
package autostaple

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/undo"
)

// ErrOddEndpoints is returned when discovery yields an endpoint list that
// cannot be paired into strands.
var ErrOddEndpoints = errors.New("odd number of staple endpoints")

// Result summarizes one run.
type Result struct {
	// Removed is the number of staple strands cleared in phase 1.
	Removed int
	// Strands is the number of staple strands created.
	Strands int
	// Crossovers is the number of staple crossovers installed.
	Crossovers int
	// Endpoints holds the sorted endpoint list of each helix's staple lane,
	// keyed by helix number.
	Endpoints map[int][]int
}

// Run replaces every staple strand of p. The edits are recorded on the
// part's undo stack. When a later phase fails the clear is retracted, so
// the part is left as it was found.
func Run(p *model.Part) (*Result, error) {
	stack := p.UndoStack()
	log := p.Logger().With("part", string(p.ID()))
	res := &Result{Endpoints: make(map[int][]int)}

	top := stack.Top()
	if err := clearStaples(stack, p, res); err != nil {
		return nil, fmt.Errorf("clearing staples: %w", err)
	}
	cleared := stack.Top() != top
	log.Debug("autostaple: staples cleared", "removed", res.Removed)

	fail := func(err error) (*Result, error) {
		if cleared {
			if rerr := stack.Retract(); rerr != nil {
				err = errors.Join(err, fmt.Errorf("restoring staples: %w", rerr))
			}
		}
		return nil, err
	}

	endpoints, err := discover(p, log)
	if err != nil {
		return fail(fmt.Errorf("discovering endpoints: %w", err))
	}
	for _, vh := range p.VirtualHelices() {
		eps := endpoints[vh.StapleStrandSet()]
		if len(eps)%2 != 0 {
			return fail(fmt.Errorf("helix %d: %w: %d", vh.Number(), ErrOddEndpoints, len(eps)))
		}
		slices.Sort(eps)
		res.Endpoints[vh.Number()] = eps
	}

	err = stack.Transact("Auto-Staple", func() error {
		if err := rebuild(stack, p, res); err != nil {
			return fmt.Errorf("creating strands: %w", err)
		}
		log.Debug("autostaple: strands created", "count", res.Strands)
		if err := installCrossovers(stack, p, res); err != nil {
			return fmt.Errorf("installing crossovers: %w", err)
		}
		log.Debug("autostaple: crossovers installed", "count", res.Crossovers)
		return p.RefreshOligos(stack)
	})
	if err != nil {
		return fail(err)
	}
	log.Info("autostaple complete",
		"removed", res.Removed, "strands", res.Strands, "crossovers", res.Crossovers)
	return res, nil
}

// clearStaples removes every staple strand, always the lowest one first.
func clearStaples(stack *undo.Stack, p *model.Part, res *Result) error {
	return stack.Transact("Clear staples", func() error {
		for _, vh := range p.VirtualHelices() {
			ss := vh.StapleStrandSet()
			for ss.Len() > 0 {
				if err := ss.RemoveStrand(stack, ss.StrandAt(0)); err != nil {
					return err
				}
				res.Removed++
			}
		}
		return nil
	})
}

// segments coalesces touching scaffold strands of vh into maximal runs.
func segments(vh *model.VirtualHelix) [][2]int {
	var segs [][2]int
	for _, s := range vh.ScaffoldStrandSet().Strands() {
		if n := len(segs); n > 0 && segs[n-1][1] == s.Low()-1 {
			segs[n-1][1] = s.High()
			continue
		}
		segs = append(segs, [2]int{s.Low(), s.High()})
	}
	return segs
}

// discover computes the endpoint list of every staple lane. It works on
// untracked temporary strands that are always removed before it returns.
func discover(p *model.Part, log *slog.Logger) (eps map[*model.StrandSet][]int, err error) {
	scratch := undo.Scratch()
	var temp []*model.Strand
	defer func() {
		for _, s := range temp {
			if !s.IsAttached() {
				continue
			}
			if rerr := s.StrandSet().RemoveStrand(scratch, s); rerr != nil {
				err = errors.Join(err, fmt.Errorf("removing temporary strand %s: %w", s, rerr))
			}
		}
	}()

	eps = make(map[*model.StrandSet][]int)
	for _, vh := range p.VirtualHelices() {
		ss := vh.StapleStrandSet()
		eps[ss] = nil
		for _, seg := range segments(vh) {
			s, err := ss.CreateStrand(scratch, seg[0], seg[1])
			if err != nil {
				return nil, err
			}
			temp = append(temp, s)
			eps[ss] = append(eps[ss], seg[0], seg[1])
		}
	}
	log.Debug("autostaple: temporary strands laid out", "count", len(temp))

	for _, vh := range p.VirtualHelices() {
		ss := vh.StapleStrandSet()
		if !ss.IsDrawn5to3() {
			continue
		}
		for _, x := range p.PotentialCrossoverList(vh) {
			if x.StrandType != model.Staple || !x.IsLowIdx {
				continue
			}
			nss := x.Neighbor.StapleStrandSet()
			s, ns := ss.GetStrand(x.Index), nss.GetStrand(x.Index)
			if !straddles(s, x.Index) || !straddles(ns, x.Index) {
				continue
			}
			eps[ss] = append(eps[ss], x.Index, x.Index+1)
			eps[nss] = append(eps[nss], x.Index, x.Index+1)
		}
	}
	return eps, nil
}

// straddles reports whether s keeps at least one base on each side of a cut
// between idx and idx+1.
func straddles(s *model.Strand, idx int) bool {
	return s != nil && s.Low() < idx && s.High() > idx+1
}

// rebuild pairs each lane's sorted endpoints into strands.
func rebuild(stack *undo.Stack, p *model.Part, res *Result) error {
	return stack.Transact("Create strands", func() error {
		for _, vh := range p.VirtualHelices() {
			ss := vh.StapleStrandSet()
			eps := res.Endpoints[vh.Number()]
			for i := 0; i+1 < len(eps); i += 2 {
				if _, err := ss.CreateStrand(stack, eps[i], eps[i+1]); err != nil {
					return err
				}
				res.Strands++
			}
		}
		return nil
	})
}

// installCrossovers joins the 3' end of every staple strand ending at a
// crossover site to the neighbor strand starting there.
func installCrossovers(stack *undo.Stack, p *model.Part, res *Result) error {
	return stack.Transact("Install crossovers", func() error {
		for _, vh := range p.VirtualHelices() {
			ss := vh.StapleStrandSet()
			is5to3 := ss.IsDrawn5to3()
			for _, x := range p.PotentialCrossoverList(vh) {
				if x.StrandType != model.Staple || x.IsLowIdx != is5to3 {
					continue
				}
				s := ss.GetStrand(x.Index)
				ns := x.Neighbor.StapleStrandSet().GetStrand(x.Index)
				if s == nil || ns == nil || s.Idx3Prime() != x.Index || ns.Idx5Prime() != x.Index {
					continue
				}
				ok, err := p.CreateXover(stack, s, x.Index, ns, x.Index, false)
				if err != nil {
					return err
				}
				if ok {
					res.Crossovers++
				}
			}
		}
		return nil
	})
}
