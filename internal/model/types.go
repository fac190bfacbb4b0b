// Package model is the strand topology engine: strands on virtual-helix
// lanes, their 5'→3' connections, crossover legality, and the oligos those
// connections form.
//
// Every structural mutation is a command applied through an undo.Executor,
// so the same operation can be recorded on the part's undo stack or applied
// as untracked scratch work.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// StrandType is the role of a lane.
type StrandType int

const (
	Scaffold StrandType = iota
	Staple
)

// StrandTypes lists both lanes in helix order.
var StrandTypes = [2]StrandType{Scaffold, Staple}

func (t StrandType) String() string {
	switch t {
	case Scaffold:
		return "scaffold"
	case Staple:
		return "staple"
	default:
		return fmt.Sprintf("StrandType(%d)", int(t))
	}
}

// ParseStrandType parses "scaffold"/"scaf" or "staple"/"stap".
func ParseStrandType(s string) (StrandType, error) {
	switch strings.ToLower(s) {
	case "scaffold", "scaf":
		return Scaffold, nil
	case "staple", "stap":
		return Staple, nil
	default:
		return 0, fmt.Errorf("unknown strand type %q", s)
	}
}

// Ends is a set of strand terminals at a base.
type Ends uint8

const (
	// EndLeft is an unconnected low-index terminal.
	EndLeft Ends = 1 << iota
	// EndRight is an unconnected high-index terminal.
	EndRight
)

// Has reports whether e contains x.
func (e Ends) Has(x Ends) bool {
	return e&x != 0
}

// String returns "L", "R", "LR" or "".
func (e Ends) String() string {
	var b strings.Builder
	if e.Has(EndLeft) {
		b.WriteString("L")
	}
	if e.Has(EndRight) {
		b.WriteString("R")
	}
	return b.String()
}

// prime names a strand terminal by chemistry rather than position.
type prime int

const (
	fivePrime prime = iota
	threePrime
)

func (p prime) opposite() prime {
	return 1 - p
}

var (
	ErrOutOfBounds        = errors.New("index out of bounds")
	ErrInvalidRange       = errors.New("invalid range")
	ErrInvalidLength      = errors.New("length must be a positive multiple of the lattice step")
	ErrDetached           = errors.New("strand is not in a strand set")
	ErrAlreadyConnected   = errors.New("strand end already connected")
	ErrNotConnected       = errors.New("strand end not connected")
	ErrStrandTypeMismatch = errors.New("strands are of different types")
	ErrSelfXover          = errors.New("cannot cross a strand over to itself")
	ErrOccupied           = errors.New("bases occupied beyond new length")
	ErrHelixExists        = errors.New("virtual helix already exists at coordinate")
	ErrNoHelix            = errors.New("no virtual helix")
)

// OverlapError reports a strand range that intersects an existing strand.
type OverlapError struct {
	Lane     string
	Low      int
	High     int
	Existing [2]int
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: [%d,%d] overlaps strand [%d,%d]",
		e.Lane, e.Low, e.High, e.Existing[0], e.Existing[1])
}

// NotFoundError reports a strand that is not in the lane it was looked up in.
type NotFoundError struct {
	Lane string
	Low  int
	High int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: no strand [%d,%d]", e.Lane, e.Low, e.High)
}
