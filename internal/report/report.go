// Package report prints the outcome of an evaluation: the stabilization
// round, every argument's value history and the accepted arguments at the
// stabilization and final rounds.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nvandessel/gris/internal/acceptance"
	"github.com/nvandessel/gris/internal/equilibrium"
	"github.com/nvandessel/gris/internal/store"
)

// Report is a self-contained snapshot of one run.
type Report struct {
	RunID            string     `json:"run_id"`
	Rounds           int        `json:"rounds"`
	StableRound      int        `json:"stable_round"`
	Converged        bool       `json:"converged"`
	CrispThreshold   float64    `json:"crisp_threshold"`
	Arguments        []Argument `json:"arguments"`
	AcceptedAtStable []string   `json:"accepted_at_stable"`
	AcceptedAtFinal  []string   `json:"accepted_at_final"`
}

// Argument is one argument's history and labels.
type Argument struct {
	ID          string           `json:"id"`
	Strength    float64          `json:"strength"`
	Values      []float64        `json:"values"`
	Attackers   []string         `json:"attackers"`
	StableLabel acceptance.Label `json:"stable_label"`
	FinalLabel  acceptance.Label `json:"final_label"`
}

// Build collects the report for an evaluated graph.
func Build(g *store.Graph, res equilibrium.Result, c acceptance.Classifier) Report {
	ids := g.IDs()
	r := Report{
		RunID:            res.RunID,
		Rounds:           res.Rounds,
		StableRound:      res.StableRound,
		Converged:        res.Converged,
		CrispThreshold:   c.Threshold,
		Arguments:        make([]Argument, 0, g.Len()),
		AcceptedAtStable: c.AcceptedAt(g, res.StableRound),
		AcceptedAtFinal:  c.AcceptedAt(g, acceptance.FinalRound),
	}
	for i := 0; i < g.Len(); i++ {
		a := g.Argument(i)
		attackers := make([]string, 0, len(g.Attackers(i)))
		for _, j := range g.Attackers(i) {
			attackers = append(attackers, ids[j])
		}
		r.Arguments = append(r.Arguments, Argument{
			ID:          a.ID,
			Strength:    a.Strength,
			Values:      a.Values,
			Attackers:   attackers,
			StableLabel: c.LabelAt(g, i, res.StableRound),
			FinalLabel:  c.LabelAt(g, i, acceptance.FinalRound),
		})
	}
	return r
}

// labelColors follows the chart colors: green, red and grey.
var labelColors = map[acceptance.Label]lipgloss.Color{
	acceptance.Accepted:  lipgloss.Color("2"),
	acceptance.Rejected:  lipgloss.Color("1"),
	acceptance.Undecided: lipgloss.Color("8"),
}

// WriteText prints the report in the classic layout. Argument names are
// colored by final label when w is a color-capable terminal.
func WriteText(w io.Writer, r Report) error {
	renderer := lipgloss.NewRenderer(w)

	var b strings.Builder
	fmt.Fprintf(&b, "\nStable at iteration %d. Values after %d iteration(s):\n", r.StableRound, r.Rounds)
	for _, a := range r.Arguments {
		name := renderer.NewStyle().Foreground(labelColors[a.FinalLabel]).Render(a.ID)
		fmt.Fprintf(&b, "%s %s\n", name, formatValues(a.Values))
	}
	b.WriteString("\n")

	writeAccepted(&b, "stable", r.CrispThreshold, r.AcceptedAtStable)
	writeAccepted(&b, "final", r.CrispThreshold, r.AcceptedAtFinal)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints the report as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// formatValues renders a history as ['0.5000', '0.7500', ...].
func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("'%.4f'", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeAccepted(b *strings.Builder, which string, threshold float64, ids []string) {
	fmt.Fprintf(b, "Nodes accepted at %s iteration (modulo threshold %.5f):\n", which, threshold)
	b.WriteString("[ ")
	for _, id := range ids {
		b.WriteString(id + " ")
	}
	b.WriteString("]\n\n")
}
