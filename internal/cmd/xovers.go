package cmd

import (
	"fmt"

	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/style"
	"github.com/spf13/cobra"
)

var (
	xoversHelix int
	xoversIndex int
)

var xoversCmd = &cobra.Command{
	Use:     "xovers",
	GroupID: GroupDesign,
	Short:   "List potential crossovers of a helix",
	Long: `List the potential crossovers from one virtual helix to its neighbors.

Without --index every site along the helix is listed. With --index only
sites within a few lattice steps of that base are listed, as the editor
does for the active base.`,
	Args: cobra.NoArgs,
	RunE: runXovers,
}

func init() {
	xoversCmd.Flags().IntVar(&xoversHelix, "helix", 0, "Helix number")
	xoversCmd.Flags().IntVar(&xoversIndex, "index", -1, "Only list sites near this base index")
	rootCmd.AddCommand(xoversCmd)
}

func runXovers(cmd *cobra.Command, args []string) error {
	vh, err := helixArg(xoversHelix)
	if err != nil {
		return err
	}

	var xs []model.PotentialXover
	if xoversIndex >= 0 {
		xs = part.PotentialCrossoversNear(vh, xoversIndex)
	} else {
		xs = part.PotentialCrossoverList(vh)
	}

	out := cmd.OutOrStdout()
	if len(xs) == 0 {
		fmt.Fprintf(out, "%s No potential crossovers from %s\n", style.Dim.Render("ℹ"), vh)
		return nil
	}
	fmt.Fprintf(out, "%s %d potential crossovers from %s\n\n", style.Bold.Render("✓"), len(xs), vh)
	for _, x := range xs {
		end := "high"
		if x.IsLowIdx {
			end = "low"
		}
		fmt.Fprintf(out, "  %s %4d -> %s %s\n",
			laneStyle(x.StrandType).Render(fmt.Sprintf("%-8s", x.StrandType)),
			x.Index, x.Neighbor, style.Dim.Render(end))
	}
	return nil
}
