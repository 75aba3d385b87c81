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

const banner = `
  ╦┌─┬ ┬┌┐┌┌─┐┌┬┐┬┌─┐
  ├┴┐││││││├┤  │ ││
  ┴ ┴└┴┘┘└┘└─┘ ┴ ┴└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "kineticctl",
		Short: "Inspect and exercise the Kinetic reactivity runtime",
		Long: `kineticctl is a small CLI around the Kinetic reactive/widget core.

It does not run a build pipeline or dev server (Kinetic ships no
compiler/JSX transform or SSR surface) — it exists to print build
information and to run a scripted reactive graph for a quick sanity
check of the dep-tracking and scheduler packages.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		versionCmd(),
		graphstatsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
