package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/config"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/logging"
	"github.com/nvandessel/gris/internal/report"
	"github.com/nvandessel/gris/internal/store"
	"github.com/nvandessel/gris/internal/tgf"
	"github.com/nvandessel/gris/internal/visualization"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const filePrompt = "Enter the name of the TGF file: "

// session holds what every command needs to evaluate networks.
type session struct {
	cfg        *config.GrisConfig
	logger     *slog.Logger
	decisions  *logging.DecisionLogger
	engine     *equilibrium.Engine
	classifier acceptance.Classifier

	out    io.Writer
	errOut io.Writer

	jsonOut bool
	chart   bool
	open    bool

	// openBrowser is replaced in tests.
	openBrowser func(string) error
}

// newSession loads configuration and sets up logging for cmd.
func newSession(cmd *cobra.Command) (*session, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	var decisions *logging.DecisionLogger
	if dir, err := config.Dir(); err == nil {
		decisions = logging.NewDecisionLogger(dir, cfg.Logging.Level)
	}

	jsonOut, _ := cmd.Flags().GetBool("json")
	noChart, _ := cmd.Flags().GetBool("no-chart")
	noOpen, _ := cmd.Flags().GetBool("no-open")

	s := &session{
		cfg:       cfg,
		logger:    logger,
		decisions: decisions,
		engine: equilibrium.NewEngine(cfg.Engine(),
			equilibrium.WithLogger(logger),
			equilibrium.WithDecisionLogger(decisions)),
		classifier:  cfg.Classifier(),
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		jsonOut:     jsonOut,
		chart:       cfg.Visualization.Enabled && !noChart,
		open:        cfg.Visualization.Open && !noOpen && isTerminal(cmd.OutOrStdout()),
		openBrowser: visualization.OpenBrowser,
	}
	return s, nil
}

// Close flushes the decision log.
func (s *session) Close() {
	s.decisions.Close()
}

// Loop runs the interactive cycle: evaluate a file, then ask for the next
// one until the answer is empty or input ends. Missing files and load
// errors are reported and the loop continues.
func (s *session) Loop(in io.Reader, first string, hasFirst bool) error {
	fmt.Fprintln(s.out, "Initial argument values are allowed in TGF file.")
	fmt.Fprintln(s.out, "Use empty filename to stop.")
	fmt.Fprintln(s.out)

	scanner := bufio.NewScanner(in)
	next := func() (string, bool) {
		fmt.Fprint(s.out, filePrompt)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	filename := strings.TrimSpace(first)
	if !hasFirst {
		var ok bool
		if filename, ok = next(); !ok {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
	}

	for filename != "" {
		s.Evaluate(filename)

		var ok bool
		if filename, ok = next(); !ok {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
	}
	return nil
}

// Evaluate runs one load, iterate, report and chart cycle. Failures are
// reported and returned.
func (s *session) Evaluate(path string) error {
	g, err := tgf.LoadFile(path)
	if err != nil {
		s.reportLoadError(err)
		return err
	}
	for _, w := range tgf.Warnings(g) {
		s.logger.Warn("initial strength outside [0,1]", "argument", w.ArgumentID, "file", path)
	}

	res := s.engine.Run(g)
	s.logger.Info("evaluated network",
		"file", path,
		"arguments", g.Len(),
		"rounds", res.Rounds,
		"stable_round", res.StableRound,
		"converged", res.Converged)

	r := report.Build(g, res, s.classifier)
	if s.jsonOut {
		err = report.WriteJSON(s.out, r)
	} else {
		err = report.WriteText(s.out, r)
	}
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if s.chart {
		if err := s.writeChart(path, g, res); err != nil {
			s.logger.Warn("chart not written", "file", path, "error", err)
		}
	}
	return nil
}

func (s *session) reportLoadError(err error) {
	if errors.Is(err, tgf.ErrFileNotExist) {
		// Matches "<name> does not exist".
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "\nError loading network: %v\n", err)
}

func (s *session) writeChart(path string, g *store.Graph, res equilibrium.Result) error {
	page, err := visualization.RenderHTML(filepath.Base(path), g, res, s.classifier)
	if err != nil {
		return err
	}
	chartPath, err := visualization.WriteChart(s.cfg.Visualization.OutputDir, path, page)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.errOut, "Chart written to %s\n", chartPath)

	if s.open {
		if err := s.openBrowser(chartPath); err != nil {
			fmt.Fprintf(s.errOut, "Could not open browser: %v\nOpen %s manually.\n", err, chartPath)
		}
	}
	return nil
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
