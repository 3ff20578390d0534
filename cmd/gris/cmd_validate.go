package main

import (
	"encoding/json"
	"fmt"

	"github.com/nvandessel/gris/internal/tgf"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a TGF file without evaluating it",
		Long: `Load a TGF file and report load errors and initial strengths outside
[0,1]. Out-of-range strengths are warnings; only load errors fail.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")
			path := args[0]

			g, err := tgf.LoadFile(path)
			if err != nil {
				if jsonOut {
					json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
						"file":  path,
						"valid": false,
						"error": err.Error(),
					})
				}
				return err
			}

			warnings := tgf.Warnings(g)
			if jsonOut {
				messages := make([]string, 0, len(warnings))
				for _, w := range warnings {
					messages = append(messages, fmt.Sprintf("%s: %s", w.ArgumentID, w.Message))
				}
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]interface{}{
					"file":      path,
					"valid":     true,
					"arguments": g.Len(),
					"attacks":   len(g.Attacks()),
					"warnings":  messages,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d argument(s), %d attack(s)\n", path, g.Len(), len(g.Attacks()))
			for _, w := range warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s: %s\n", w.ArgumentID, w.Message)
			}
			return nil
		},
	}
}
