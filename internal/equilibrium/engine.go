// Package equilibrium computes equilibrium values of argumentation networks
// with the Gabbay-Rodrigues iteration schema. Every round revises all
// arguments simultaneously from the previous round's values until no value
// increases by more than the change threshold or the round budget runs out.
package equilibrium

import (
	"context"
	"log/slog"

	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/logging"
	"github.com/nvandessel/gris/internal/metrics"
	"github.com/nvandessel/gris/internal/store"
	"github.com/oklog/ulid/v2"
)

// Config holds the iteration parameters.
type Config struct {
	// MaxIterations is the round budget. Default: 100.
	MaxIterations int

	// ChangeThreshold is the increase a single value must exceed for a
	// round to count as changed. Decreases never count. Default: 0.0001.
	ChangeThreshold float64
}

// DefaultConfig returns the default iteration configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:   constants.DefaultMaxIterations,
		ChangeThreshold: constants.DefaultChangeThreshold,
	}
}

// Round describes one executed round.
type Round struct {
	Index   int  // rounds recorded after this one, starting at 1
	Changed bool // some value increased by more than the change threshold
	Stable  bool // no value left exactly 0 or exactly 1
}

// Result summarizes a run. Value histories stay on the graph.
type Result struct {
	RunID string `json:"run_id"`

	// Rounds is the number of rounds executed; every history holds
	// Rounds+1 values.
	Rounds int `json:"rounds"`

	// StableRound is the history index at which the latest stable stretch
	// began: the starting index of the first stable round that followed an
	// unstable one (or the start of the run).
	StableRound int `json:"stable_round"`

	// Stable and Changed are the flags of the last executed round.
	Stable  bool `json:"stable"`
	Changed bool `json:"changed"`

	// Converged is true when the run stopped because nothing changed
	// rather than because the budget ran out.
	Converged bool `json:"converged"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDecisionLogger sets the JSONL run tracer.
func WithDecisionLogger(dl *logging.DecisionLogger) Option {
	return func(e *Engine) { e.decisions = dl }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// Engine runs the iteration over a graph. It keeps no state between runs.
type Engine struct {
	config    Config
	logger    *slog.Logger
	decisions *logging.DecisionLogger
	metrics   *metrics.Recorder
}

// NewEngine creates a new iteration engine.
func NewEngine(config Config, opts ...Option) *Engine {
	e := &Engine{
		config: config,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Run evaluates g from its initial strengths. Rounds already recorded on g
// are discarded first.
func (e *Engine) Run(g *store.Graph) Result {
	g.Reset()

	res := Result{RunID: ulid.Make().String()}
	e.decisions.Log("run_start", res.RunID, map[string]any{
		"arguments":        g.Len(),
		"attacks":          len(g.Attacks()),
		"max_iterations":   e.config.MaxIterations,
		"change_threshold": e.config.ChangeThreshold,
	})

	// Stability starts out false so that a stable first round sets
	// StableRound to 0.
	prevStable := false
	changed := true
	for g.Rounds() < e.config.MaxIterations && changed {
		r := e.step(g, res.RunID)
		changed = r.Changed
		if r.Stable && !prevStable {
			res.StableRound = r.Index - 1
		}
		prevStable = r.Stable

		res.Rounds = r.Index
		res.Stable = r.Stable
		res.Changed = r.Changed
	}
	res.Converged = !changed

	e.logger.Debug("run finished",
		"run_id", res.RunID,
		"rounds", res.Rounds,
		"stable_round", res.StableRound,
		"converged", res.Converged)
	e.decisions.Log("run_end", res.RunID, map[string]any{
		"rounds":       res.Rounds,
		"stable_round": res.StableRound,
		"converged":    res.Converged,
	})
	e.metrics.ObserveRun(g.Len(), res.Rounds, res.Converged)

	return res
}

// Step executes a single synchronous round on g and commits it.
func (e *Engine) Step(g *store.Graph) Round {
	return e.step(g, "")
}

func (e *Engine) step(g *store.Graph, runID string) Round {
	order := make([]int, g.Len())
	for i := range order {
		order[i] = i
	}
	next := nextValues(g, order)

	r := Round{Index: g.Rounds() + 1, Stable: true}
	for i, v := range next {
		cur := g.Current(i)
		if v-cur > e.config.ChangeThreshold {
			r.Changed = true
		}
		if leavesBoundary(cur, v) {
			r.Stable = false
		}
	}

	// next has exactly one value per argument, so the append cannot fail.
	_ = g.AppendRound(next)

	e.logger.Debug("round", "index", r.Index, "changed", r.Changed, "stable", r.Stable)
	if e.logger.Enabled(context.Background(), logging.LevelTrace) {
		e.logger.Log(context.Background(), logging.LevelTrace, "round values", "index", r.Index, "values", next)
	}
	e.decisions.Log("round", runID, map[string]any{
		"index":   r.Index,
		"changed": r.Changed,
		"stable":  r.Stable,
	})

	return r
}

// nextValues computes the next value of every argument from the values
// currently at the end of each history. Arguments are visited in the given
// order but results are written by position into a fresh buffer, so no
// argument ever sees a value computed in the same round.
func nextValues(g *store.Graph, order []int) []float64 {
	next := make([]float64, g.Len())
	var attackerVals []float64
	for _, i := range order {
		attackerVals = attackerVals[:0]
		for _, a := range g.Attackers(i) {
			attackerVals = append(attackerVals, g.Current(a))
		}
		next[i] = Revise(g.Current(i), attackerVals)
	}
	return next
}

// leavesBoundary reports whether a value moved off exactly 0 or exactly 1.
func leavesBoundary(cur, next float64) bool {
	return (cur == 0 && next > 0) || (cur == 1 && next < 1)
}
