package cmd

import (
	"fmt"

	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/selecttool"
	"github.com/nanoforge/origami/internal/style"
	"github.com/spf13/cobra"
)

var (
	dragHelix  int
	dragType   string
	dragFrom   int
	dragTo     []int
	dragCancel bool
)

var dragCmd = &cobra.Command{
	Use:     "drag",
	GroupID: GroupEdit,
	Short:   "Replay a strand-end drag",
	Long: `Replay a drag gesture on one lane of a helix.

The drag starts at --from and visits each --to index in order, exactly as
the editor does while the pointer moves. A drag from a strand end resizes
the strand, a drag from an empty base draws a new strand, and a drag from
inside a strand extends it toward the pointer. A single-base strand is
dragged by its right end. Destinations are clamped to the gap between the
neighboring strands.

Examples:
  origami drag --helix 0 --type staple --from 0 --to 5,9,12
  origami drag --helix 1 --type scaffold --from 20 --to 4 --cancel`,
	Args: cobra.NoArgs,
	RunE: runDrag,
}

func init() {
	dragCmd.Flags().IntVar(&dragHelix, "helix", 0, "Helix number")
	dragCmd.Flags().StringVar(&dragType, "type", "staple", "Lane to drag on: staple or scaffold")
	dragCmd.Flags().IntVar(&dragFrom, "from", 0, "Base index the drag starts at")
	dragCmd.Flags().IntSliceVar(&dragTo, "to", nil, "Destination indices visited in order")
	dragCmd.Flags().BoolVar(&dragCancel, "cancel", false, "Cancel the drag instead of finishing it")
	rootCmd.AddCommand(dragCmd)
}

func runDrag(cmd *cobra.Command, args []string) error {
	vh, err := helixArg(dragHelix)
	if err != nil {
		return err
	}
	t, err := model.ParseStrandType(dragType)
	if err != nil {
		return fmt.Errorf("--type: %w", err)
	}
	lane := vh.StrandSet(t)
	stack := part.UndoStack()

	g, err := selecttool.Begin(stack, model.VBase{Lane: lane, Idx: dragFrom})
	if err != nil {
		return err
	}
	lo, hi := g.Bounds()
	logger.Debug("drag bounds", "lane", lane.String(), "low", lo, "high", hi)

	for _, idx := range dragTo {
		if err := g.UpdateDestination(model.VBase{Lane: lane, Idx: idx}); err != nil {
			_ = g.Cancel()
			return err
		}
	}
	if dragCancel {
		err = g.Cancel()
	} else {
		err = g.End()
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	verb := "finished"
	if dragCancel {
		verb = "cancelled"
	}
	fmt.Fprintf(out, "%s Drag %s at %d %s\n",
		style.Bold.Render("✓"), verb, g.Destination(), style.Dim.Render(fmt.Sprintf("(bounds %d..%d)", lo, hi)))
	printLane(out, lane)
	fmt.Fprintf(out, "Undo stack: %d entries", stack.Len())
	if stack.CanUndo() {
		fmt.Fprintf(out, ", top %q", stack.UndoDesc())
	}
	fmt.Fprintln(out)
	return nil
}
