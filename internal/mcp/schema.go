// Package mcp provides an MCP (Model Context Protocol) server for gris.
package mcp

// GrisEvaluateInput defines the input for the gris_evaluate tool. Exactly
// one of Network and Path must be set.
type GrisEvaluateInput struct {
	Network         string   `json:"network,omitempty" jsonschema:"Network in TGF format: argument lines, a line containing #, then attack lines"`
	Path            string   `json:"path,omitempty" jsonschema:"Path of a TGF file to evaluate instead of network"`
	MaxIterations   *int     `json:"max_iterations,omitempty" jsonschema:"Round budget (default 100)"`
	ChangeThreshold *float64 `json:"change_threshold,omitempty" jsonschema:"Increase a value must exceed for a round to count as changed (default 0.0001)"`
	CrispThreshold  *float64 `json:"crisp_threshold,omitempty" jsonschema:"Distance from 0 or 1 within which a value is rejected or accepted (default 0.01)"`
}

// GrisEvaluateOutput defines the output for the gris_evaluate tool.
type GrisEvaluateOutput struct {
	RunID            string            `json:"run_id" jsonschema:"Identifier of this run"`
	Rounds           int               `json:"rounds" jsonschema:"Number of rounds executed"`
	StableRound      int               `json:"stable_round" jsonschema:"Iteration at which the values stabilized"`
	Converged        bool              `json:"converged" jsonschema:"False when the round budget stopped the run"`
	Arguments        []ArgumentSummary `json:"arguments" jsonschema:"Per-argument value histories and labels"`
	AcceptedAtStable []string          `json:"accepted_at_stable" jsonschema:"Arguments accepted at the stable iteration"`
	AcceptedAtFinal  []string          `json:"accepted_at_final" jsonschema:"Arguments accepted at the final iteration"`
	Warnings         []string          `json:"warnings,omitempty" jsonschema:"Initial strengths outside [0,1]"`
}

// ArgumentSummary is one argument of an evaluated network.
type ArgumentSummary struct {
	ID          string    `json:"id"`
	Values      []float64 `json:"values"`
	StableLabel string    `json:"stable_label"`
	FinalLabel  string    `json:"final_label"`
}

// GrisGraphInput defines the input for the gris_graph tool.
type GrisGraphInput struct {
	Network string `json:"network,omitempty" jsonschema:"Network in TGF format"`
	Path    string `json:"path,omitempty" jsonschema:"Path of a TGF file instead of network"`
	Format  string `json:"format,omitempty" jsonschema:"Output format: dot, json or html (default json)"`
}

// GrisGraphOutput defines the output for the gris_graph tool.
type GrisGraphOutput struct {
	Format    string      `json:"format" jsonschema:"Output format used"`
	Graph     interface{} `json:"graph" jsonschema:"Rendered graph: DOT or HTML string, or JSON object"`
	NodeCount int         `json:"node_count" jsonschema:"Number of arguments"`
	EdgeCount int         `json:"edge_count" jsonschema:"Number of attacks"`
}
