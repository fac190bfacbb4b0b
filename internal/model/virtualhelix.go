package model

import (
	"fmt"

	"github.com/nanoforge/origami/internal/lattice"
)

// VirtualHelix is one double-helix position on the lattice, hosting a
// scaffold lane and a staple lane.
type VirtualHelix struct {
	part     *Part
	coord    lattice.Coord
	number   int
	scaffold *StrandSet
	staple   *StrandSet
}

func newVirtualHelix(p *Part, c lattice.Coord, number int) *VirtualHelix {
	vh := &VirtualHelix{part: p, coord: c, number: number}
	vh.scaffold = newStrandSet(vh, Scaffold)
	vh.staple = newStrandSet(vh, Staple)
	return vh
}

// Part returns the owning part.
func (vh *VirtualHelix) Part() *Part { return vh.part }

// Coord returns the lattice coordinate.
func (vh *VirtualHelix) Coord() lattice.Coord { return vh.coord }

// Number returns the helix number, assigned in creation order.
func (vh *VirtualHelix) Number() int { return vh.number }

// Length returns the number of bases, shared by every helix of the part.
func (vh *VirtualHelix) Length() int { return vh.part.length }

// IsEvenParity reports the lattice parity of the helix.
func (vh *VirtualHelix) IsEvenParity() bool {
	return vh.part.lat.IsEvenParity(vh.coord)
}

// IsDrawn5to3 reports the drawing direction of the lane of type t: scaffold
// runs 5'→3' on even-parity helices, staple on odd-parity helices.
func (vh *VirtualHelix) IsDrawn5to3(t StrandType) bool {
	return vh.IsEvenParity() == (t == Scaffold)
}

// ScaffoldStrandSet returns the scaffold lane.
func (vh *VirtualHelix) ScaffoldStrandSet() *StrandSet { return vh.scaffold }

// StapleStrandSet returns the staple lane.
func (vh *VirtualHelix) StapleStrandSet() *StrandSet { return vh.staple }

// StrandSet returns the lane of type t.
func (vh *VirtualHelix) StrandSet(t StrandType) *StrandSet {
	if t == Scaffold {
		return vh.scaffold
	}
	return vh.staple
}

// StrandSets returns the scaffold and staple lanes, in that order.
func (vh *VirtualHelix) StrandSets() [2]*StrandSet {
	return [2]*StrandSet{vh.scaffold, vh.staple}
}

// Neighbors returns the helix in each lattice neighbor slot, nil where the
// slot is empty.
func (vh *VirtualHelix) Neighbors() []*VirtualHelix {
	coords := vh.part.lat.NeighborCoords(vh.coord)
	out := make([]*VirtualHelix, len(coords))
	for i, c := range coords {
		out[i] = vh.part.helices[c]
	}
	return out
}

func (vh *VirtualHelix) String() string {
	return fmt.Sprintf("vh%d(%s)", vh.number, vh.coord)
}
