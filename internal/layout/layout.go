// Package layout builds a part from a setup config.
package layout

import (
	"fmt"
	"log/slog"

	"github.com/nanoforge/origami/internal/config"
	"github.com/nanoforge/origami/internal/lattice"
	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/undo"
)

// Build creates the part described by cfg. The initial strands are laid
// down untracked, so the part starts with an empty undo history.
func Build(cfg *config.Config, log *slog.Logger) (*model.Part, error) {
	lat, err := lattice.New(cfg.Lattice)
	if err != nil {
		return nil, fmt.Errorf("building part: %w", err)
	}
	p, err := model.NewPart(lat,
		model.WithLength(cfg.Length),
		model.WithLogger(log),
		model.WithUndoLimit(cfg.UndoLimit),
	)
	if err != nil {
		return nil, fmt.Errorf("building part: %w", err)
	}

	scratch := undo.Scratch()
	for i, h := range cfg.Helices {
		vh, err := p.AddVirtualHelix(h.Coord())
		if err != nil {
			return nil, fmt.Errorf("building helix %d: %w", i, err)
		}
		for _, lane := range []struct {
			ss     *model.StrandSet
			ranges [][2]int
		}{{vh.ScaffoldStrandSet(), h.Scaffold}, {vh.StapleStrandSet(), h.Staple}} {
			for _, r := range lane.ranges {
				if _, err := lane.ss.CreateStrand(scratch, r[0], r[1]); err != nil {
					return nil, fmt.Errorf("building helix %d: %w", i, err)
				}
			}
		}
	}
	log.Debug("part built", "lattice", string(cfg.Lattice), "length", cfg.Length, "helices", len(cfg.Helices))
	return p, nil
}
