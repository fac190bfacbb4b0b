// Package config loads the TOML setup file that describes a part to build:
// its lattice, length, helices, and the strands drawn on them.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nanoforge/origami/internal/lattice"
)

var (
	// ErrInvalid is wrapped by every validation failure.
	ErrInvalid = errors.New("invalid config")
)

// Config is the setup file.
type Config struct {
	Lattice   lattice.Kind  `toml:"lattice"`
	Length    int           `toml:"length"`
	UndoLimit int           `toml:"undo_limit"`
	Log       LogConfig     `toml:"log"`
	Helices   []HelixConfig `toml:"helix"`
}

// LogConfig selects the log level and sinks.
type LogConfig struct {
	Level   string `toml:"level"`   // debug, info, warn, error
	Format  string `toml:"format"`  // text or json
	Journal bool   `toml:"journal"` // also send to the systemd journal
}

// HelixConfig places one helix and the strands drawn on it. Strand ranges
// are inclusive [low, high] pairs.
type HelixConfig struct {
	Row      int      `toml:"row"`
	Col      int      `toml:"col"`
	Scaffold [][2]int `toml:"scaffold"`
	Staple   [][2]int `toml:"staple"`
}

// Coord returns the helix's lattice coordinate.
func (h HelixConfig) Coord() lattice.Coord {
	return lattice.Coord{Row: h.Row, Col: h.Col}
}

// Default returns the config used when no file is given: a single honeycomb
// helix one step long with a full scaffold strand.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	c.Helices = []HelixConfig{{Scaffold: [][2]int{{0, c.Length - 1}}}}
	return c
}

// Load reads, defaults, and validates the config at path. Unknown keys are
// rejected.
func Load(path string) (*Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("loading config %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Lattice == "" {
		c.Lattice = lattice.KindHoneycomb
	}
	if c.Length == 0 {
		if l, err := lattice.New(c.Lattice); err == nil {
			c.Length = l.Step
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks the config against its lattice.
func (c *Config) Validate() error {
	l, err := lattice.New(c.Lattice)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if !l.ValidLength(c.Length) {
		return fmt.Errorf("%w: length %d is not a positive multiple of %d", ErrInvalid, c.Length, l.Step)
	}
	if c.UndoLimit < 0 {
		return fmt.Errorf("%w: undo_limit %d is negative", ErrInvalid, c.UndoLimit)
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}

	seen := make(map[lattice.Coord]bool)
	for i, h := range c.Helices {
		if seen[h.Coord()] {
			return fmt.Errorf("%w: helix %d: duplicate coordinate %s", ErrInvalid, i, h.Coord())
		}
		seen[h.Coord()] = true
		for _, lane := range []struct {
			name   string
			ranges [][2]int
		}{{"scaffold", h.Scaffold}, {"staple", h.Staple}} {
			for _, r := range lane.ranges {
				if r[0] > r[1] || r[0] < 0 || r[1] >= c.Length {
					return fmt.Errorf("%w: helix %d: %s range [%d,%d] outside [0,%d]",
						ErrInvalid, i, lane.name, r[0], r[1], c.Length-1)
				}
			}
		}
	}
	return nil
}
