package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/pathutil"
	"github.com/nvandessel/gris/internal/report"
	"github.com/nvandessel/gris/internal/store"
	"github.com/nvandessel/gris/internal/tgf"
	"github.com/nvandessel/gris/internal/visualization"
)

// ErrNetworkSource is returned when a tool call names neither or both of
// network and path.
var ErrNetworkSource = errors.New("exactly one of network and path must be set")

// registerTools registers all gris tools with the MCP server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "gris_evaluate",
		Description: "Compute equilibrium values of an argumentation network with the Gabbay-Rodrigues iteration schema and report accepted arguments",
	}, s.handleGrisEvaluate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "gris_graph",
		Description: "Evaluate an argumentation network and render it as DOT, JSON or a self-contained HTML chart",
	}, s.handleGrisGraph)
}

// handleGrisEvaluate implements the gris_evaluate tool.
func (s *Server) handleGrisEvaluate(ctx context.Context, req *sdk.CallToolRequest, args GrisEvaluateInput) (_ *sdk.CallToolResult, _ GrisEvaluateOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("gris_evaluate", start, retErr, sanitizeToolParams(map[string]interface{}{
			"network":          args.Network,
			"path":             args.Path,
			"max_iterations":   args.MaxIterations,
			"change_threshold": args.ChangeThreshold,
			"crisp_threshold":  args.CrispThreshold,
		}))
	}()

	if err := s.toolLimiters.Check("gris_evaluate"); err != nil {
		return nil, GrisEvaluateOutput{}, err
	}

	engineCfg, classifier, err := s.settings(args)
	if err != nil {
		return nil, GrisEvaluateOutput{}, err
	}

	g, err := s.loadNetwork(args.Network, args.Path)
	if err != nil {
		return nil, GrisEvaluateOutput{}, err
	}

	res := s.newEngine(engineCfg).Run(g)
	r := report.Build(g, res, classifier)

	out := GrisEvaluateOutput{
		RunID:            r.RunID,
		Rounds:           r.Rounds,
		StableRound:      r.StableRound,
		Converged:        r.Converged,
		Arguments:        make([]ArgumentSummary, 0, len(r.Arguments)),
		AcceptedAtStable: r.AcceptedAtStable,
		AcceptedAtFinal:  r.AcceptedAtFinal,
	}
	for _, a := range r.Arguments {
		out.Arguments = append(out.Arguments, ArgumentSummary{
			ID:          a.ID,
			Values:      a.Values,
			StableLabel: a.StableLabel.String(),
			FinalLabel:  a.FinalLabel.String(),
		})
	}
	for _, w := range tgf.Warnings(g) {
		out.Warnings = append(out.Warnings, fmt.Sprintf("%s: %s", w.ArgumentID, w.Message))
	}
	return nil, out, nil
}

// handleGrisGraph implements the gris_graph tool.
func (s *Server) handleGrisGraph(ctx context.Context, req *sdk.CallToolRequest, args GrisGraphInput) (_ *sdk.CallToolResult, _ GrisGraphOutput, retErr error) {
	start := time.Now()
	defer func() {
		s.auditTool("gris_graph", start, retErr, sanitizeToolParams(map[string]interface{}{
			"network": args.Network,
			"path":    args.Path,
			"format":  args.Format,
		}))
	}()

	if err := s.toolLimiters.Check("gris_graph"); err != nil {
		return nil, GrisGraphOutput{}, err
	}

	format := constants.Format(args.Format)
	if format == "" {
		format = constants.FormatJSON
	}
	if !format.Valid() {
		return nil, GrisGraphOutput{}, fmt.Errorf("unsupported format %q (use 'dot', 'json', or 'html')", args.Format)
	}

	g, err := s.loadNetwork(args.Network, args.Path)
	if err != nil {
		return nil, GrisGraphOutput{}, err
	}
	res := s.newEngine(s.engine).Run(g)

	out := GrisGraphOutput{
		Format:    format.String(),
		NodeCount: g.Len(),
		EdgeCount: len(g.Attacks()),
	}
	switch format {
	case constants.FormatDOT:
		out.Graph = visualization.RenderDOT(g, s.classifier)
	case constants.FormatJSON:
		out.Graph = visualization.RenderJSON(g, s.classifier)
	case constants.FormatHTML:
		title := args.Path
		if title == "" {
			title = "network"
		}
		page, err := visualization.RenderHTML(title, g, res, s.classifier)
		if err != nil {
			return nil, GrisGraphOutput{}, fmt.Errorf("render HTML: %w", err)
		}
		out.Graph = string(page)
	}
	return nil, out, nil
}

// loadNetwork parses inline TGF text or loads a file.
func (s *Server) loadNetwork(network, path string) (*store.Graph, error) {
	if (network == "") == (path == "") {
		return nil, ErrNetworkSource
	}

	var (
		g   *store.Graph
		err error
	)
	if path != "" {
		if err := pathutil.ValidatePath(path, s.allowedDirs); err != nil {
			s.logger.Warn("rejected network path", "path", pathutil.RedactPath(path), "error", err)
			return nil, err
		}
		g, err = tgf.LoadFile(path)
	} else {
		g, err = tgf.Parse(strings.NewReader(network))
	}
	if err != nil {
		s.metrics.ObserveLoadError()
		return nil, err
	}
	return g, nil
}

// settings applies the per-call overrides to the server defaults.
func (s *Server) settings(args GrisEvaluateInput) (equilibrium.Config, acceptance.Classifier, error) {
	engineCfg := s.engine
	classifier := s.classifier

	if args.MaxIterations != nil {
		if *args.MaxIterations < 0 {
			return engineCfg, classifier, fmt.Errorf("max_iterations must be non-negative, got %d", *args.MaxIterations)
		}
		engineCfg.MaxIterations = *args.MaxIterations
	}
	if args.ChangeThreshold != nil {
		if *args.ChangeThreshold < 0 {
			return engineCfg, classifier, fmt.Errorf("change_threshold must be non-negative, got %g", *args.ChangeThreshold)
		}
		engineCfg.ChangeThreshold = *args.ChangeThreshold
	}
	if args.CrispThreshold != nil {
		if *args.CrispThreshold < 0 || *args.CrispThreshold > 1 {
			return engineCfg, classifier, fmt.Errorf("crisp_threshold must be between 0 and 1, got %g", *args.CrispThreshold)
		}
		classifier = acceptance.New(*args.CrispThreshold)
	}
	return engineCfg, classifier, nil
}

func (s *Server) newEngine(cfg equilibrium.Config) *equilibrium.Engine {
	return equilibrium.NewEngine(cfg,
		equilibrium.WithLogger(s.logger),
		equilibrium.WithDecisionLogger(s.decisions),
		equilibrium.WithMetrics(s.metrics))
}
