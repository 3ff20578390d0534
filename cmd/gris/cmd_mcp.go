package main

import (
	"context"
	"fmt"
	"os"

	"github.com/nvandessel/gris/internal/config"
	"github.com/nvandessel/gris/internal/mcp"
	"github.com/nvandessel/gris/internal/metrics"
	"github.com/spf13/cobra"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run an MCP server on stdio",
		Long: `Serve the gris_evaluate and gris_graph tools over the Model Context
Protocol on stdin/stdout. Logs go to stderr. Tool calls are audited to
~/.gris/audit.jsonl. Networks named by path must live under the working
directory or ~/.gris.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			auditDir, err := config.Dir()
			if err != nil {
				s.logger.Warn("audit log disabled", "error", err)
			}

			server := mcp.NewServer(&mcp.Config{
				Name:       "gris",
				Version:    version,
				Engine:     s.cfg.Engine(),
				Classifier: s.classifier,
				AuditDir:   auditDir,
				Logger:     s.logger,
				Decisions:  s.decisions,
				Metrics:    metrics.NewRecorder(),
			})
			defer server.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			if err := server.Run(ctx); err != nil && ctx.Err() == nil {
				return fmt.Errorf("mcp server: %w", err)
			}
			return nil
		},
	}
}
