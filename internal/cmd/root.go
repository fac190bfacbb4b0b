// Package cmd implements the origami command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nanoforge/origami/internal/config"
	"github.com/nanoforge/origami/internal/layout"
	"github.com/nanoforge/origami/internal/logs"
	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/style"
	"github.com/spf13/cobra"
)

// Command groups shown in help.
const (
	GroupDesign = "design"
	GroupEdit   = "edit"
)

var (
	configPath string
	logLevel   string
	noColor    bool
)

// Loaded by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
	part   *model.Part
)

var rootCmd = &cobra.Command{
	Use:   "origami",
	Short: "DNA origami strand and crossover engine",
	Long: `origami builds a DNA origami part from a TOML setup file and edits its
strands: listing potential crossovers, synthesizing staples, and replaying
strand-end drags.

Without --config a single honeycomb helix with a full scaffold is used.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadPart,
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupDesign, Title: "Design:"},
		&cobra.Group{ID: GroupEdit, Title: "Editing:"},
	)
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML setup file describing the part")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func loadPart(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	f, _ := out.(*os.File)
	style.Init(f, noColor)

	if configPath == "" {
		cfg = config.Default()
	} else {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = c
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	l, err := logs.New(cmd.ErrOrStderr(), logs.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Journal: cfg.Log.Journal,
	})
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	logger = l

	p, err := layout.Build(cfg, logger)
	if err != nil {
		return err
	}
	part = p
	return nil
}

// helixArg resolves a helix number flag.
func helixArg(n int) (*model.VirtualHelix, error) {
	vh, err := part.VirtualHelix(n)
	if err != nil {
		return nil, fmt.Errorf("--helix %d: %w", n, err)
	}
	return vh, nil
}
