package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/nanoforge/origami/internal/model"
	"github.com/nanoforge/origami/internal/style"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show",
	GroupID: GroupDesign,
	Short:   "Show helices, strands, and oligos",
	Long: `Show the part built from the setup file.

Lists every virtual helix with its lattice position and the strands on its
scaffold and staple lanes, followed by the oligos the connections form.`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	lat := part.Lattice()
	fmt.Fprintf(out, "%s %s lattice, %d bases\n\n",
		style.Bold.Render("Part"), lat.Kind, part.Length())

	for _, vh := range part.VirtualHelices() {
		pos := lat.Position(vh.Coord())
		fmt.Fprintf(out, "%s %s %s\n",
			style.Bold.Render(vh.String()),
			parityName(vh),
			style.Dim.Render(fmt.Sprintf("(%.2f, %.2f) nm", pos.X, pos.Y)))
		for _, t := range model.StrandTypes {
			printLane(out, vh.StrandSet(t))
		}
	}

	oligos := part.Oligos()
	fmt.Fprintf(out, "\n%s (%d)\n", style.Bold.Render("Oligos"), len(oligos))
	for _, o := range oligos {
		fmt.Fprintf(out, "  %s\n", laneStyle(o.StrandType()).Render(o.String()))
	}
	return nil
}

func parityName(vh *model.VirtualHelix) string {
	if vh.IsEvenParity() {
		return "even"
	}
	return "odd"
}

func printLane(out io.Writer, ss *model.StrandSet) {
	dir := "3'→5'"
	if ss.IsDrawn5to3() {
		dir = "5'→3'"
	}
	fmt.Fprintf(out, "  %s %s:", laneStyle(ss.StrandType()).Render(style.Title(ss.StrandType().String())), style.Dim.Render(dir))
	if ss.Len() == 0 {
		fmt.Fprintf(out, " %s\n", style.Dim.Render("(empty)"))
		return
	}
	for _, s := range ss.Strands() {
		fmt.Fprintf(out, " [%d,%d]", s.Low(), s.High())
	}
	fmt.Fprintln(out)
}

func laneStyle(t model.StrandType) lipgloss.Style {
	if t == model.Scaffold {
		return style.Scaffold
	}
	return style.Staple
}
