package model

import (
	"testing"

	"github.com/nanoforge/origami/internal/lattice"
	"github.com/nanoforge/origami/internal/undo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- PotentialCrossoverList ---

func TestPotentialCrossoverList_EmptyLanes(t *testing.T) {
	p, even, odd := newPair(t)

	xs := p.PotentialCrossoverList(even)
	// Slot 0 only: scaffold 2 low + 2 high, staple 1 low + 1 high, two periods.
	require.Len(t, xs, 12)
	for _, x := range xs {
		assert.Same(t, odd, x.Neighbor)
		assert.Less(t, x.Index, p.Length())
	}

	var scafLow []int
	for _, x := range xs {
		if x.StrandType == Scaffold && x.IsLowIdx {
			scafLow = append(scafLow, x.Index)
		}
	}
	assert.Equal(t, []int{1, 11, 22, 32}, scafLow)

	var stapHigh []int
	for _, x := range xs {
		if x.StrandType == Staple && !x.IsLowIdx {
			stapHigh = append(stapHigh, x.Index)
		}
	}
	assert.Equal(t, []int{7, 28}, stapHigh)
}

func TestPotentialCrossoverList_NoNeighbors(t *testing.T) {
	p, vhs := newTestPart(t, 42, lattice.Coord{Row: 0, Col: 0}, lattice.Coord{Row: 5, Col: 5})
	assert.Empty(t, p.PotentialCrossoverList(vhs[0]))
}

func TestPotentialCrossoverList_SkipsExistingCrossover(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)
	ok, err := p.CreateXover(p.UndoStack(), a, 6, b, 6, false)
	require.NoError(t, err)
	require.True(t, ok)

	for _, x := range p.PotentialCrossoverList(even) {
		if x.StrandType == Staple {
			assert.NotEqual(t, 6, x.Index)
		}
	}
	// The neighboring high site is still offered: the strands there have
	// their crossover at 6, not 7.
	found := false
	for _, x := range p.PotentialCrossoverList(odd) {
		if x.StrandType == Staple && x.Index == 7 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPotentialCrossoversNear(t *testing.T) {
	p, vhs := newTestPart(t, 210, lattice.Coord{Row: 0, Col: 0}, lattice.Coord{Row: 0, Col: 1})
	all := p.PotentialCrossoverList(vhs[0])
	near := p.PotentialCrossoversNear(vhs[0], 105)
	assert.Len(t, all, 60)
	// Periods starting at 42, 63, 84, 105, 126, 147.
	assert.Len(t, near, 36)
	for _, x := range near {
		assert.GreaterOrEqual(t, x.Index, 42)
		assert.Less(t, x.Index, 168)
	}

	assert.Len(t, p.PotentialCrossoversNear(vhs[0], 0), 18)
}

// --- CreateXover ---

func TestCreateXover_AtTerminals(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)

	ok, err := p.CreateXover(p.UndoStack(), a, 41, b, 41, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, b, a.Connection3p())
	assert.Same(t, a, b.Connection5p())
	assert.True(t, a.HasXoverAt(41))
	assert.True(t, p.OligosStale())
	require.NoError(t, p.CheckInvariants())
}

func TestCreateXover_SplitsInterior(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)
	before := p.Snapshot()
	depth := p.UndoStack().Len()

	ok, err := p.CreateXover(p.UndoStack(), a, 10, b, 10, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][2]int{{0, 10}, {11, 41}}, ranges(odd.StapleStrandSet()))
	assert.Equal(t, [][2]int{{0, 10}, {11, 41}}, ranges(even.StapleStrandSet()))

	from := odd.StapleStrandSet().GetStrand(10)
	to := even.StapleStrandSet().GetStrand(10)
	assert.Equal(t, 10, from.Idx3Prime())
	assert.Equal(t, 10, to.Idx5Prime())
	assert.Same(t, to, from.Connection3p())
	require.NoError(t, p.CheckInvariants())

	// Split and connect are one undo unit.
	assert.Equal(t, depth+1, p.UndoStack().Len())
	require.NoError(t, p.UndoStack().Undo())
	assert.Equal(t, before, p.Snapshot())
}

func TestCreateXover_SplitsTowardTerminal(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)

	// On the even staple lane 3' is the low terminal, so the piece of b that
	// ends at 20 is [20,41].
	ok, err := p.CreateXover(p.UndoStack(), b, 20, a, 20, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, [][2]int{{0, 19}, {20, 41}}, ranges(even.StapleStrandSet()))
	assert.Equal(t, [][2]int{{0, 19}, {20, 41}}, ranges(odd.StapleStrandSet()))

	from := even.StapleStrandSet().GetStrand(20)
	to := odd.StapleStrandSet().GetStrand(20)
	assert.Same(t, to, from.Connection3p())
	assert.Equal(t, 20, from.Idx3Prime())
	assert.Equal(t, 20, to.Idx5Prime())
}

func TestCreateXover_NoOps(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 20)
	b := mustCreate(t, even.StapleStrandSet(), 0, 20)
	c := mustCreate(t, even.StapleStrandSet(), 30, 41)
	ok, err := p.CreateXover(p.UndoStack(), a, 20, b, 20, false)
	require.NoError(t, err)
	require.True(t, ok)
	depth := p.UndoStack().Len()
	snap := p.Snapshot()

	tests := []struct {
		name string
		s5   *Strand
		idx5 int
		s3   *Strand
		idx3 int
	}{
		{"index outside strand", a, 25, c, 41},
		{"wrong terminal", a, 0, c, 41},
		{"3' end already connected", a, 20, c, 41},
		{"5' end already connected", c, 30, b, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := p.CreateXover(p.UndoStack(), tt.s5, tt.idx5, tt.s3, tt.idx3, true)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, depth, p.UndoStack().Len())
			assert.Equal(t, snap, p.Snapshot())
		})
	}
}

func TestCreateXover_Errors(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	scaf := mustCreate(t, even.ScaffoldStrandSet(), 0, 41)

	_, err := p.CreateXover(p.UndoStack(), a, 41, scaf, 41, false)
	assert.ErrorIs(t, err, ErrStrandTypeMismatch)

	_, err = p.CreateXover(p.UndoStack(), a, 41, a, 0, false)
	assert.ErrorIs(t, err, ErrSelfXover)

	_, err = p.CreateXover(p.UndoStack(), nil, 0, a, 0, false)
	assert.ErrorIs(t, err, ErrDetached)

	require.NoError(t, odd.StapleStrandSet().RemoveStrand(p.UndoStack(), a))
	_, err = p.CreateXover(p.UndoStack(), a, 41, scaf, 41, false)
	assert.ErrorIs(t, err, ErrDetached)
}

func TestCreateXover_UpdateOligo(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)

	ok, err := p.CreateXover(p.UndoStack(), a, 41, b, 41, true)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, p.OligosStale())
	require.Len(t, p.Oligos(), 1)
	assert.Same(t, a.Oligo(), b.Oligo())
	assert.Equal(t, 84, a.Oligo().Len())

	require.NoError(t, p.UndoStack().Undo())
	assert.True(t, p.OligosStale())
	assert.Len(t, p.Oligos(), 2)
	assert.NotSame(t, a.Oligo(), b.Oligo())
}

func TestCreateXover_Scratch(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)
	depth := p.UndoStack().Len()

	ok, err := p.CreateXover(undo.Scratch(), a, 10, b, 10, false)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, depth, p.UndoStack().Len())
	require.NoError(t, p.CheckInvariants())
}

// --- RemoveXover ---

func TestRemoveXover(t *testing.T) {
	p, even, odd := newPair(t)
	a := mustCreate(t, odd.StapleStrandSet(), 0, 41)
	b := mustCreate(t, even.StapleStrandSet(), 0, 41)
	_, err := p.CreateXover(p.UndoStack(), a, 41, b, 41, false)
	require.NoError(t, err)

	require.NoError(t, p.RemoveXover(p.UndoStack(), a))
	assert.Nil(t, a.Connection3p())
	assert.Nil(t, b.Connection5p())

	assert.ErrorIs(t, p.RemoveXover(p.UndoStack(), a), ErrNotConnected)

	require.NoError(t, p.UndoStack().Undo())
	assert.Same(t, b, a.Connection3p())
}
