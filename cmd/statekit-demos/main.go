package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statekit-demos",
		Short: "Demo gallery for the statekit reactive state toolkit",
		Long: `statekit-demos serves a small gallery of pages that exercise the
statekit packages. Each demo is written twice, once against the
mutable signal store and once with slot-based hooks, so the two
styles can be compared side by side on the same behavior:

  • Title holder: an input that drives the document title
  • Resource fetcher: the {loading, data, error} lifecycle
  • Pokemon lookup: a name signal composed with a fetcher`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
