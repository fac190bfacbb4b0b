package model

import (
	"github.com/nanoforge/origami/internal/lattice"
	"github.com/stretchr/testify/require"
)

// testingT is satisfied by *testing.T and by *rapid.T inside rapid.Check.
type testingT interface {
	require.TestingT
	Helper()
}

// newTestPart builds a honeycomb part with one helix per coordinate.
func newTestPart(t testingT, length int, coords ...lattice.Coord) (*Part, []*VirtualHelix) {
	t.Helper()
	p, err := NewPart(lattice.Honeycomb(), WithLength(length))
	require.NoError(t, err)
	var vhs []*VirtualHelix
	for _, c := range coords {
		vh, err := p.AddVirtualHelix(c)
		require.NoError(t, err)
		vhs = append(vhs, vh)
	}
	return p, vhs
}

// newPair returns an even helix at 0,0 and its odd neighbor at 0,1.
func newPair(t testingT) (*Part, *VirtualHelix, *VirtualHelix) {
	t.Helper()
	p, vhs := newTestPart(t, 42, lattice.Coord{Row: 0, Col: 0}, lattice.Coord{Row: 0, Col: 1})
	return p, vhs[0], vhs[1]
}

func mustCreate(t testingT, ss *StrandSet, lo, hi int) *Strand {
	t.Helper()
	s, err := ss.CreateStrand(ss.Part().UndoStack(), lo, hi)
	require.NoError(t, err)
	return s
}

func ranges(ss *StrandSet) [][2]int {
	var out [][2]int
	for _, s := range ss.Strands() {
		out = append(out, [2]int{s.Low(), s.High()})
	}
	return out
}
