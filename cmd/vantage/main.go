package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "vantage",
		Short: "Vantage - 2D viewport transform controller",
		Long: `Vantage is an embeddable 2D viewport controller: it turns pointer,
touch, and keyboard input into a pan/zoom transform over a host surface
and converts between screen and world coordinates under that transform.

The CLI ships an interactive terminal playground and a WebSocket bridge
that runs server-side controllers for remote surfaces.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}

	rootCmd.AddCommand(newDemoCommand())
	rootCmd.AddCommand(newServeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
