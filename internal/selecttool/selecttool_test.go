package selecttool

import (
	"testing"

	"github.com/nanoforge/origami/internal/lattice"
	"github.com/nanoforge/origami/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLane(t *testing.T, strands ...[2]int) (*model.Part, *model.StrandSet) {
	t.Helper()
	p, err := model.NewPart(lattice.Honeycomb(), model.WithLength(42))
	require.NoError(t, err)
	vh, err := p.AddVirtualHelix(lattice.Coord{Row: 0, Col: 0})
	require.NoError(t, err)
	ss := vh.ScaffoldStrandSet()
	for _, r := range strands {
		_, err := ss.CreateStrand(p.UndoStack(), r[0], r[1])
		require.NoError(t, err)
	}
	return p, ss
}

func ranges(ss *model.StrandSet) [][2]int {
	var out [][2]int
	for _, s := range ss.Strands() {
		out = append(out, [2]int{s.Low(), s.High()})
	}
	return out
}

func drag(t *testing.T, p *model.Part, ss *model.StrandSet, start int, dests ...int) *Gesture {
	t.Helper()
	g, err := Begin(p.UndoStack(), model.VBase{Lane: ss, Idx: start})
	require.NoError(t, err)
	for _, d := range dests {
		require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: d}))
		require.NoError(t, p.CheckInvariants())
	}
	return g
}

// =============================================================================
// Edits
// =============================================================================

func TestDrag_RightEnd(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})

	g := drag(t, p, ss, 20, 30)
	assert.Equal(t, [][2]int{{10, 30}}, ranges(ss))

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 15}))
	assert.Equal(t, [][2]int{{10, 15}}, ranges(ss))

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 25}))
	assert.Equal(t, [][2]int{{10, 25}}, ranges(ss))

	require.NoError(t, g.End())
	assert.Equal(t, 2, p.UndoStack().Len())
	assert.Equal(t, "Drag", p.UndoStack().UndoDesc())

	require.NoError(t, p.UndoStack().Undo())
	assert.Equal(t, [][2]int{{10, 20}}, ranges(ss))
}

func TestDrag_LeftEnd(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})

	g := drag(t, p, ss, 10, 15)
	assert.Equal(t, [][2]int{{15, 20}}, ranges(ss))

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 5}))
	assert.Equal(t, [][2]int{{5, 20}}, ranges(ss))
	require.NoError(t, g.End())
}

func TestDrag_FromEmptyBaseCreatesStrand(t *testing.T) {
	p, ss := newLane(t)

	g := drag(t, p, ss, 5)
	assert.Equal(t, [][2]int{{5, 5}}, ranges(ss))
	assert.Equal(t, 1, p.UndoStack().Len())

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 12}))
	assert.Equal(t, [][2]int{{5, 12}}, ranges(ss))
	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 2}))
	assert.Equal(t, [][2]int{{2, 5}}, ranges(ss))
	assert.Equal(t, 1, p.UndoStack().Len())
}

func TestDrag_FromInteriorExtends(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})

	g := drag(t, p, ss, 15)
	assert.Equal(t, 1, p.UndoStack().Len(), "pressing inside a strand changes nothing")

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 25}))
	assert.Equal(t, [][2]int{{10, 25}}, ranges(ss))
	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 15}))
	assert.Equal(t, [][2]int{{10, 20}}, ranges(ss))
	assert.Equal(t, 1, p.UndoStack().Len())
}

func TestDrag_SingleBaseStrand(t *testing.T) {
	t.Run("left clears the strand", func(t *testing.T) {
		p, ss := newLane(t, [2]int{20, 20})
		require.Equal(t, model.EndLeft|model.EndRight, model.VBase{Lane: ss, Idx: 20}.ExposedEnds())

		g := drag(t, p, ss, 20, 15)
		require.NoError(t, g.End())
		assert.Empty(t, ranges(ss))
		require.NoError(t, p.CheckInvariants())

		require.NoError(t, p.UndoStack().Undo())
		assert.Equal(t, [][2]int{{20, 20}}, ranges(ss))
	})

	t.Run("right extends the strand", func(t *testing.T) {
		p, ss := newLane(t, [2]int{20, 20})

		g := drag(t, p, ss, 20, 25)
		require.NoError(t, g.End())
		assert.Equal(t, [][2]int{{20, 25}}, ranges(ss))
	})
}

// =============================================================================
// Bounds and rewind
// =============================================================================

func TestDrag_ClampsToNeighbors(t *testing.T) {
	p, ss := newLane(t, [2]int{0, 5}, [2]int{10, 20}, [2]int{30, 35})

	g := drag(t, p, ss, 20)
	low, high := g.Bounds()
	assert.Equal(t, 6, low)
	assert.Equal(t, 29, high)

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 40}))
	assert.Equal(t, 29, g.Destination())
	// Reaching the next strand joins it.
	assert.Equal(t, [][2]int{{0, 5}, {10, 35}}, ranges(ss))

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 25}))
	assert.Equal(t, [][2]int{{0, 5}, {10, 25}, {30, 35}}, ranges(ss))
}

func TestDrag_ManyUpdatesLeaveNetEffect(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20}, [2]int{30, 35})
	g := drag(t, p, ss, 20, 21, 27, 12, 11, 3, 24, 26, 18, 24)
	require.NoError(t, g.End())

	q, want := newLane(t, [2]int{10, 20}, [2]int{30, 35})
	h := drag(t, q, want, 20, 24)
	require.NoError(t, h.End())

	assert.Equal(t, ranges(want), ranges(ss))
	assert.Equal(t, q.Snapshot(), p.Snapshot())
	assert.Equal(t, 3, p.UndoStack().Len())
	assert.False(t, p.UndoStack().CanRedo())
}

func TestDrag_UnchangedDestinationIsNoop(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})
	g := drag(t, p, ss, 20, 25)
	top := p.UndoStack().Top()

	require.NoError(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 25}))
	assert.Same(t, top, p.UndoStack().Top())
}

func TestDrag_HistoryChangedUnderGesture(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})
	g := drag(t, p, ss, 20, 25)

	_, err := ss.CreateStrand(p.UndoStack(), 30, 35)
	require.NoError(t, err)
	err = g.UpdateDestination(model.VBase{Lane: ss, Idx: 22})
	assert.ErrorIs(t, err, ErrHistoryChanged)
}

// =============================================================================
// Lifecycle
// =============================================================================

func TestGesture_Lifecycle(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})
	g := drag(t, p, ss, 20)
	assert.Equal(t, StateActive, g.State())

	require.NoError(t, g.End())
	assert.Equal(t, StateEnded, g.State())
	assert.ErrorIs(t, g.End(), ErrGestureEnded)
	assert.ErrorIs(t, g.Cancel(), ErrGestureEnded)
	assert.ErrorIs(t, g.UpdateDestination(model.VBase{Lane: ss, Idx: 22}), ErrGestureEnded)
}

func TestGesture_Cancel(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})
	before := p.Snapshot()

	g := drag(t, p, ss, 20, 30, 35)
	require.NoError(t, g.Cancel())
	assert.Equal(t, before, p.Snapshot())
	assert.Equal(t, 1, p.UndoStack().Len())
	assert.Equal(t, StateEnded, g.State())
}

func TestGesture_LaneMismatch(t *testing.T) {
	p, ss := newLane(t, [2]int{10, 20})
	vh := ss.VirtualHelix()
	g := drag(t, p, ss, 20)

	err := g.UpdateDestination(model.VBase{Lane: vh.StapleStrandSet(), Idx: 25})
	assert.ErrorIs(t, err, ErrLaneMismatch)
	assert.Equal(t, StateActive, g.State())
}

func TestBegin_OutOfBounds(t *testing.T) {
	p, ss := newLane(t)
	_, err := Begin(p.UndoStack(), model.VBase{Lane: ss, Idx: 42})
	assert.ErrorIs(t, err, model.ErrOutOfBounds)
}
