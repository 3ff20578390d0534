package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set by the release build.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gris [file]",
		Short: "Equilibrium values of argumentation networks",
		Long: `gris computes equilibrium values of argumentation networks with the
Gabbay-Rodrigues iteration schema.

Networks are read from TGF files: one argument per line with an optional
initial strength, a line containing '#', then one "source target" attack
per line. After each file gris prints every argument's value history and
the arguments accepted at the stable and final iterations, then asks for
the next file. An empty filename stops.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			first, hasFirst := "", false
			if len(args) == 1 {
				first, hasFirst = args[0], true
			}
			return s.Loop(cmd.InOrStdin(), first, hasFirst)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.gris/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: warn, info, debug or trace (overrides config)")

	rootCmd.Flags().Bool("no-chart", false, "Don't write the HTML chart after each run")
	rootCmd.Flags().Bool("no-open", false, "Write the chart without opening a browser")

	rootCmd.AddCommand(
		newVersionCmd(),
		newGraphCmd(),
		newValidateCmd(),
		newMCPServerCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
