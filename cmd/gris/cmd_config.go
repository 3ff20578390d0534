package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show gris configuration",
		Long: `View gris configuration settings.

Configuration is read from ~/.gris/config.yaml (or --config) and
overridden by GRIS_MAX_ITERATIONS, GRIS_CHANGE_THRESHOLD,
GRIS_CRISP_THRESHOLD, GRIS_LOG_LEVEL and GRIS_OPEN_BROWSER.

Examples:
  gris config list                 # Show the effective settings
  gris config list > ~/.gris/config.yaml`,
	}

	cmd.AddCommand(newConfigListCmd())
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(s.cfg)
			}

			data, err := yaml.Marshal(s.cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
