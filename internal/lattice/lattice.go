// Package lattice describes the 2D lattices virtual helices are placed on.
//
// A lattice fixes three things: which coordinates are adjacent (neighbor
// slots), where along the helix axis adjacent helices can exchange strands
// (crossover offset tables, repeating every Step bases), and the physical
// position of each helix center.
package lattice

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind names a lattice type.
type Kind string

const (
	KindHoneycomb Kind = "honeycomb"
	KindSquare    Kind = "square"
)

// HelixRadius is the radius of a B-form double helix in nanometers.
const HelixRadius = 1.125

// ErrUnknownKind is returned by New for an unsupported lattice kind.
var ErrUnknownKind = errors.New("unknown lattice kind")

// Coord is a (row, column) lattice position.
type Coord struct {
	Row int `toml:"row" json:"row"`
	Col int `toml:"col" json:"col"`
}

// String returns "row,col".
func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Add returns c offset by d.
func (c Coord) Add(d Coord) Coord {
	return Coord{Row: c.Row + d.Row, Col: c.Col + d.Col}
}

// Offsets holds, per neighbor slot, the base offsets within one step period
// at which a crossover can be made in the low and high orientation.
type Offsets struct {
	Low  [][]int
	High [][]int
}

// Lattice is an immutable lattice definition. Tables are indexed by neighbor
// slot; slot i of an even-parity helix and slot i of the odd-parity helix it
// points at refer to each other.
type Lattice struct {
	Kind   Kind
	Step   int
	Radius float64

	// EvenNeighbors and OddNeighbors are coordinate deltas per slot.
	EvenNeighbors []Coord
	OddNeighbors  []Coord

	Scaffold Offsets
	Staple   Offsets

	position func(l *Lattice, c Coord) r2.Vec
}

// Honeycomb returns the 3-neighbor honeycomb lattice (21 bases per step).
func Honeycomb() *Lattice {
	return &Lattice{
		Kind:          KindHoneycomb,
		Step:          21,
		Radius:        HelixRadius,
		EvenNeighbors: []Coord{{0, 1}, {-1, 0}, {0, -1}},
		OddNeighbors:  []Coord{{0, -1}, {1, 0}, {0, 1}},
		Scaffold: Offsets{
			Low:  [][]int{{1, 11}, {8, 18}, {4, 15}},
			High: [][]int{{2, 12}, {9, 19}, {5, 16}},
		},
		Staple: Offsets{
			Low:  [][]int{{6}, {13}, {20}},
			High: [][]int{{7}, {14}, {0}},
		},
		position: honeycombPosition,
	}
}

// Square returns the 4-neighbor square lattice (32 bases per step).
func Square() *Lattice {
	return &Lattice{
		Kind:          KindSquare,
		Step:          32,
		Radius:        HelixRadius,
		EvenNeighbors: []Coord{{0, 1}, {1, 0}, {0, -1}, {-1, 0}},
		OddNeighbors:  []Coord{{0, -1}, {-1, 0}, {0, 1}, {1, 0}},
		Scaffold: Offsets{
			Low:  [][]int{{4, 26, 15}, {18, 28, 7}, {10, 20, 31}, {2, 12, 23}},
			High: [][]int{{5, 27, 16}, {19, 29, 8}, {11, 21, 0}, {3, 13, 24}},
		},
		Staple: Offsets{
			Low:  [][]int{{31}, {23}, {15}, {7}},
			High: [][]int{{0}, {24}, {16}, {8}},
		},
		position: squarePosition,
	}
}

// New returns the lattice for kind.
func New(kind Kind) (*Lattice, error) {
	switch kind {
	case KindHoneycomb:
		return Honeycomb(), nil
	case KindSquare:
		return Square(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Slots returns the number of neighbor slots per helix.
func (l *Lattice) Slots() int {
	return len(l.EvenNeighbors)
}

// IsEvenParity reports whether c is an even-parity position. Scaffold is
// drawn 5'→3' on even-parity helices, staple on odd-parity ones.
func (l *Lattice) IsEvenParity(c Coord) bool {
	return mod2(c.Row) == mod2(c.Col)
}

// NeighborCoords returns the coordinate in each neighbor slot of c.
func (l *Lattice) NeighborCoords(c Coord) []Coord {
	deltas := l.OddNeighbors
	if l.IsEvenParity(c) {
		deltas = l.EvenNeighbors
	}
	out := make([]Coord, len(deltas))
	for i, d := range deltas {
		out[i] = c.Add(d)
	}
	return out
}

// SlotOf returns the neighbor slot of c that holds n, or -1.
func (l *Lattice) SlotOf(c, n Coord) int {
	for i, nc := range l.NeighborCoords(c) {
		if nc == n {
			return i
		}
	}
	return -1
}

// Sites returns the low and high crossover offsets for a neighbor slot.
func (l *Lattice) Sites(slot int, scaffold bool) (low, high []int) {
	o := l.Staple
	if scaffold {
		o = l.Scaffold
	}
	return o.Low[slot], o.High[slot]
}

// Position returns the helix center of c in nanometers.
func (l *Lattice) Position(c Coord) r2.Vec {
	if l.position == nil {
		return squarePosition(l, c)
	}
	return l.position(l, c)
}

// Distance returns the center-to-center distance of two positions.
func (l *Lattice) Distance(a, b Coord) float64 {
	return r2.Norm(r2.Sub(l.Position(a), l.Position(b)))
}

// ValidLength reports whether n is a positive multiple of the step.
func (l *Lattice) ValidLength(n int) bool {
	return n > 0 && n%l.Step == 0
}

func honeycombPosition(l *Lattice, c Coord) r2.Vec {
	x := float64(c.Col) * l.Radius * math.Sqrt(3)
	y := float64(c.Row) * l.Radius * 3
	if !l.IsEvenParity(c) {
		y += l.Radius
	}
	return r2.Vec{X: x, Y: y}
}

func squarePosition(l *Lattice, c Coord) r2.Vec {
	return r2.Vec{X: float64(c.Col) * 2 * l.Radius, Y: float64(c.Row) * 2 * l.Radius}
}

func mod2(n int) int {
	if n%2 == 0 {
		return 0
	}
	return 1
}
