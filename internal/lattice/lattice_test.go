package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		kind Kind
		step int
	}{
		{KindHoneycomb, 21},
		{KindSquare, 32},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			l, err := New(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.step, l.Step)
			assert.Equal(t, tt.kind, l.Kind)
		})
	}

	_, err := New("hexagonal")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestIsEvenParity(t *testing.T) {
	l := Honeycomb()
	assert.True(t, l.IsEvenParity(Coord{0, 0}))
	assert.True(t, l.IsEvenParity(Coord{1, 1}))
	assert.False(t, l.IsEvenParity(Coord{0, 1}))
	assert.False(t, l.IsEvenParity(Coord{-1, 0}))
	assert.True(t, l.IsEvenParity(Coord{-1, -3}))
}

// Every neighbor slot must point at a helix exactly one helix diameter away,
// and the neighbor must point back through the same slot.
func TestNeighborGeometry(t *testing.T) {
	for _, l := range []*Lattice{Honeycomb(), Square()} {
		t.Run(string(l.Kind), func(t *testing.T) {
			for row := -2; row <= 2; row++ {
				for col := -2; col <= 2; col++ {
					c := Coord{row, col}
					for slot, n := range l.NeighborCoords(c) {
						assert.InDelta(t, 2*l.Radius, l.Distance(c, n), 1e-9,
							"%s slot %d -> %s", c, slot, n)
						assert.NotEqual(t, l.IsEvenParity(c), l.IsEvenParity(n))
						assert.Equal(t, slot, l.SlotOf(n, c), "reciprocal slot for %s", c)
					}
				}
			}
		})
	}
}

func TestSites_TablesCoverEverySlot(t *testing.T) {
	for _, l := range []*Lattice{Honeycomb(), Square()} {
		for slot := 0; slot < l.Slots(); slot++ {
			for _, scaf := range []bool{true, false} {
				low, high := l.Sites(slot, scaf)
				require.Len(t, high, len(low))
				for i := range low {
					assert.Equal(t, (low[i]+1)%l.Step, high[i],
						"%s slot %d high offset follows low", l.Kind, slot)
				}
			}
		}
	}
}

func TestSlotOf_NotNeighbor(t *testing.T) {
	assert.Equal(t, -1, Honeycomb().SlotOf(Coord{0, 0}, Coord{3, 3}))
}

func TestValidLength(t *testing.T) {
	l := Honeycomb()
	assert.True(t, l.ValidLength(42))
	assert.False(t, l.ValidLength(40))
	assert.False(t, l.ValidLength(0))
}

func TestPosition_CustomLatticeFallsBackToSquare(t *testing.T) {
	l := &Lattice{Step: 42, Radius: 1, EvenNeighbors: []Coord{{0, 1}}, OddNeighbors: []Coord{{0, -1}}}
	p := l.Position(Coord{1, 2})
	assert.Equal(t, 4.0, p.X)
	assert.Equal(t, 2.0, p.Y)
}
