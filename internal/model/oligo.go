package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/nanoforge/origami/internal/events"
)

// Oligo is a maximal chain of strands joined 5'→3' by connections: one
// physical DNA strand. Oligos are derived from the connections and rebuilt
// on refresh, so their identity is only stable between refreshes.
type Oligo struct {
	id      uuid.UUID
	typ     StrandType
	strands []*Strand
	loop    bool
}

// ID returns the oligo's identity.
func (o *Oligo) ID() uuid.UUID { return o.id }

// StrandType returns the type shared by every member strand.
func (o *Oligo) StrandType() StrandType { return o.typ }

// Strands returns the members from the 5' head to the 3' tail.
func (o *Oligo) Strands() []*Strand {
	return append([]*Strand(nil), o.strands...)
}

// Head returns the 5'-most strand.
func (o *Oligo) Head() *Strand { return o.strands[0] }

// IsLoop reports whether the chain is circular.
func (o *Oligo) IsLoop() bool { return o.loop }

// Len returns the total number of bases.
func (o *Oligo) Len() int {
	n := 0
	for _, s := range o.strands {
		n += s.Len()
	}
	return n
}

func (o *Oligo) String() string {
	suffix := ""
	if o.loop {
		suffix = " loop"
	}
	return fmt.Sprintf("%s %s x%d %dnt%s", o.typ, o.Head(), len(o.strands), o.Len(), suffix)
}

// refreshOligos rebuilds every oligo from the current connections.
func (p *Part) refreshOligos() {
	var lanes []*StrandSet
	for _, vh := range p.ordered {
		for _, ss := range vh.StrandSets() {
			lanes = append(lanes, ss)
			for _, s := range ss.strands {
				s.oligo = nil
			}
		}
	}

	var oligos []*Oligo
	for _, ss := range lanes {
		for _, s := range ss.strands {
			if s.oligo != nil {
				continue
			}
			head, loop := s, false
			for prev := head.Connection5p(); prev != nil; prev = head.Connection5p() {
				if prev == s {
					loop = true
					break
				}
				head = prev
			}
			o := &Oligo{id: uuid.New(), typ: ss.typ, loop: loop}
			for cur := head; cur != nil && cur.oligo == nil; cur = cur.Connection3p() {
				cur.oligo = o
				o.strands = append(o.strands, cur)
			}
			oligos = append(oligos, o)
		}
	}
	p.oligos = oligos
	p.oligosStale = false
	p.log.Debug("oligos refreshed", "count", len(oligos))
	p.bus.Emit(events.Event{Type: events.TypeOligosRefreshed, Helix: -1, Low: len(oligos)})
}
