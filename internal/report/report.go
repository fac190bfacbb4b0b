// Package report produces the staple report written after an autostaple
// run. The report is output only; nothing reads it back into a part.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nanoforge/origami/internal/autostaple"
	"github.com/nanoforge/origami/internal/lattice"
	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/util"
)

// Report is the JSON document describing a staple layout.
type Report struct {
	RunID      string       `json:"run_id"`
	PartID     string       `json:"part_id"`
	CreatedAt  time.Time    `json:"created_at"`
	Lattice    lattice.Kind `json:"lattice"`
	Length     int          `json:"length"`
	Removed    int          `json:"removed"`
	Crossovers int          `json:"crossovers"`
	Helices    []Helix      `json:"helices"`
	Oligos     []Oligo      `json:"oligos"`
}

// Helix lists the staple strands of one helix.
type Helix struct {
	Number    int           `json:"number"`
	Coord     lattice.Coord `json:"coord"`
	Endpoints []int         `json:"endpoints"`
	Staples   []Strand      `json:"staples"`
}

// Strand is one staple strand. Prime3 and Prime5 name the partner of each
// end as "helix:index", empty when the end is free.
type Strand struct {
	Low    int    `json:"low"`
	High   int    `json:"high"`
	Idx5   int    `json:"idx5"`
	Idx3   int    `json:"idx3"`
	Prime5 string `json:"prime5,omitempty"`
	Prime3 string `json:"prime3,omitempty"`
}

// Oligo is one staple oligo.
type Oligo struct {
	ID      string `json:"id"`
	Length  int    `json:"length"`
	Strands int    `json:"strands"`
	Loop    bool   `json:"loop,omitempty"`
}

// Build describes the staples of p after the run res.
func Build(p *model.Part, res *autostaple.Result) *Report {
	r := &Report{
		RunID:     uuid.NewString(),
		PartID:    string(p.ID()),
		CreatedAt: time.Now().UTC(),
		Lattice:   p.Lattice().Kind,
		Length:    p.Length(),
	}
	if res != nil {
		r.Removed = res.Removed
		r.Crossovers = res.Crossovers
	}
	for _, vh := range p.VirtualHelices() {
		h := Helix{Number: vh.Number(), Coord: vh.Coord()}
		if res != nil {
			h.Endpoints = res.Endpoints[vh.Number()]
		}
		for _, s := range vh.StapleStrandSet().Strands() {
			h.Staples = append(h.Staples, Strand{
				Low:    s.Low(),
				High:   s.High(),
				Idx5:   s.Idx5Prime(),
				Idx3:   s.Idx3Prime(),
				Prime5: endName(s.Connection5p(), false),
				Prime3: endName(s.Connection3p(), true),
			})
		}
		r.Helices = append(r.Helices, h)
	}
	for _, o := range p.Oligos() {
		if o.StrandType() != model.Staple {
			continue
		}
		r.Oligos = append(r.Oligos, Oligo{
			ID:      o.ID().String(),
			Length:  o.Len(),
			Strands: len(o.Strands()),
			Loop:    o.IsLoop(),
		})
	}
	return r
}

// endName names the partner terminal a connection lands on: the partner's
// 5' end for a 3' connection and its 3' end for a 5' connection.
func endName(partner *model.Strand, at5 bool) string {
	if partner == nil {
		return ""
	}
	idx := partner.Idx3Prime()
	if at5 {
		idx = partner.Idx5Prime()
	}
	return fmt.Sprintf("%d:%d", partner.VirtualHelix().Number(), idx)
}

// Write stores r at path atomically while holding path's lock file, so
// concurrent runs never interleave partial reports.
func Write(ctx context.Context, path string, r *Report) error {
	err := util.WithLock(ctx, path+".lock", func() error {
		return util.AtomicWriteJSON(path, r)
	})
	if err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
