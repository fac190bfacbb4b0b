// origami is the command line for the DNA origami strand engine.
package main

import (
	"os"

	"github.com/nanoforge/origami/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
