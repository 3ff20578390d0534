package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/metrics"
	"github.com/nvandessel/gris/internal/tgf"
	"github.com/nvandessel/gris/internal/visualization"
	"github.com/spf13/cobra"
)

func newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph <file>",
		Short: "Render an evaluated network",
		Long: `Evaluate a TGF network and output it in DOT (Graphviz), JSON, or HTML
chart format. With --serve, start a local server that charts the file on
every page load and accepts networks at POST /api/evaluate.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			serve, _ := cmd.Flags().GetBool("serve")
			addr, _ := cmd.Flags().GetString("addr")
			path := args[0]

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if serve {
				return runGraphServer(cmd, s, path, addr)
			}

			f := constants.Format(format)
			if !f.Valid() {
				return fmt.Errorf("unsupported format %q (use 'dot', 'json', or 'html')", format)
			}

			g, err := tgf.LoadFile(path)
			if err != nil {
				return err
			}
			res := s.engine.Run(g)

			switch f {
			case constants.FormatDOT:
				return writeOutput(cmd.OutOrStdout(), output, []byte(visualization.RenderDOT(g, s.classifier)))

			case constants.FormatJSON:
				data, err := json.MarshalIndent(visualization.RenderJSON(g, s.classifier), "", "  ")
				if err != nil {
					return fmt.Errorf("encode JSON: %w", err)
				}
				return writeOutput(cmd.OutOrStdout(), output, append(data, '\n'))

			default:
				page, err := visualization.RenderHTML(path, g, res, s.classifier)
				if err != nil {
					return fmt.Errorf("render HTML: %w", err)
				}
				outPath := output
				if outPath == "" {
					if outPath, err = visualization.WriteChart(s.cfg.Visualization.OutputDir, path, page); err != nil {
						return err
					}
				} else if err := os.WriteFile(outPath, page, 0644); err != nil {
					return fmt.Errorf("write HTML file: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Graph written to %s\n", outPath)
				if s.open {
					if err := s.openBrowser(outPath); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, outPath)
					}
				}
				return nil
			}
		},
	}

	cmd.Flags().String("format", "dot", "Output format: dot, json, or html")
	cmd.Flags().StringP("output", "o", "", "Output file path (default stdout; html defaults to the chart directory)")
	cmd.Flags().Bool("no-open", false, "Don't open browser after generating HTML")
	cmd.Flags().Bool("serve", false, "Start a local chart server instead of writing output")
	cmd.Flags().String("addr", "localhost:0", "Listen address for --serve")

	return cmd
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// runGraphServer starts the chart server and blocks until Ctrl-C.
func runGraphServer(cmd *cobra.Command, s *session, path, addr string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%s %w", path, tgf.ErrFileNotExist)
	}

	srv := visualization.NewServer(visualization.ServerConfig{
		Path:       path,
		Engine:     s.cfg.Engine(),
		Classifier: s.classifier,
		Metrics:    metrics.NewRecorder(),
		Logger:     s.logger,
	})

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

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, addr) }()

	// Wait for server to start
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) && srv.Addr() == "" {
		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-time.After(10 * time.Millisecond):
		}
	}

	if srv.Addr() == "" {
		return fmt.Errorf("server failed to start")
	}

	url := "http://" + srv.Addr()
	fmt.Fprintf(cmd.OutOrStdout(), "Graph server running at %s\n", url)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

	if s.open {
		if err := s.openBrowser(url); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
		}
	}

	if err := <-errCh; err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
