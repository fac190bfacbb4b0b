package cmd

import (
	"fmt"
	"slices"

	"github.com/nanoforge/origami/internal/autostaple"
	"github.com/nanoforge/origami/internal/report"
	"github.com/nanoforge/origami/internal/style"
	"github.com/spf13/cobra"
)

var (
	autostapleOut  string
	autostapleRuns int
)

var autostapleCmd = &cobra.Command{
	Use:     "autostaple",
	Aliases: []string{"staple"},
	GroupID: GroupEdit,
	Short:   "Replace every staple strand with a synthesized layout",
	Long: `Run the auto-staple synthesizer on the part.

Every existing staple strand is removed. Staple strands are then created
opposite the scaffold and cut at the crossover sites shared with
neighboring helices, and the cut ends are joined by crossovers.

With --runs the synthesizer is repeated and the layouts are compared; a
stable design yields the same layout on every run. With --out the staple
report is written as JSON.`,
	Args: cobra.NoArgs,
	RunE: runAutostaple,
}

func init() {
	autostapleCmd.Flags().StringVarP(&autostapleOut, "out", "o", "", "Write the staple report to this file")
	autostapleCmd.Flags().IntVar(&autostapleRuns, "runs", 1, "Number of times to run the synthesizer")
	rootCmd.AddCommand(autostapleCmd)
}

func runAutostaple(cmd *cobra.Command, args []string) error {
	if autostapleRuns < 1 {
		return fmt.Errorf("--runs must be at least 1, got %d", autostapleRuns)
	}
	out := cmd.OutOrStdout()

	var (
		res   *autostaple.Result
		first []string
	)
	for i := range autostapleRuns {
		r, err := autostaple.Run(part)
		if err != nil {
			return fmt.Errorf("auto-staple run %d: %w", i+1, err)
		}
		res = r
		snap := part.Snapshot()
		if i == 0 {
			first = snap
		} else if !slices.Equal(first, snap) {
			fmt.Fprintf(out, "%s Run %d produced a different layout\n", style.Warning.Render("⚠"), i+1)
		}
	}

	fmt.Fprintf(out, "%s Auto-staple complete: %d strands, %d crossovers (%d staples removed)\n",
		style.Success.Render("✓"), res.Strands, res.Crossovers, res.Removed)
	for _, vh := range part.VirtualHelices() {
		eps := res.Endpoints[vh.Number()]
		fmt.Fprintf(out, "  %s endpoints %s\n", vh, style.Dim.Render(fmt.Sprint(eps)))
	}

	if autostapleOut != "" {
		rep := report.Build(part, res)
		if err := report.Write(cmd.Context(), autostapleOut, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport %s written to %s\n", style.Dim.Render(rep.RunID), autostapleOut)
	}
	return nil
}
