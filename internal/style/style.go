// Package style holds the terminal styles used by the CLI.
package style

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Bold is used for headings.
	Bold = lipgloss.NewStyle().Bold(true)

	// Dim is used for secondary detail.
	Dim = lipgloss.NewStyle().Faint(true)

	// Success marks completed work.
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)

	// Warning marks recoverable problems.
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// Scaffold and Staple color strand listings by lane.
	Scaffold = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	Staple   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

var titler = cases.Title(language.English)

// Title title-cases s for headings.
func Title(s string) string {
	return titler.String(s)
}

// Profile returns the color profile for output on f: plain ASCII when color
// is disabled or f is not a terminal.
func Profile(f *os.File, noColor bool) termenv.Profile {
	if noColor || f == nil || !term.IsTerminal(int(f.Fd())) {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

// Init sets the color profile every style renders with.
func Init(f *os.File, noColor bool) {
	lipgloss.SetColorProfile(Profile(f, noColor))
}
