// Package store holds the argumentation network: arguments, the attack
// relation between them and each argument's value history.
package store

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownArgument is returned when an attack names an argument that
	// has not been declared.
	ErrUnknownArgument = errors.New("unknown argument")

	// ErrFrozen is returned when the structure of a graph is changed after
	// evaluation has started.
	ErrFrozen = errors.New("graph structure is frozen once rounds are recorded")
)

// Argument is a node of the network.
type Argument struct {
	ID       string    `json:"id"`
	Strength float64   `json:"strength"` // initial value, index 0 of Values
	Values   []float64 `json:"values"`   // value after each round, append-only
}

// Attack is a directed edge from Source to Target.
type Attack struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is an arena of arguments indexed by declaration order. Attackers
// and targets are kept as index lists so the engine can read the
// predecessors of a node without scanning the attack list.
type Graph struct {
	args      []Argument
	index     map[string]int
	attacks   []Attack
	attackers [][]int
	targets   [][]int
	rounds    int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		index: make(map[string]int),
	}
}

// AddArgument declares an argument with its initial strength. Declaring
// an ID twice keeps its original position and replaces the strength.
func (g *Graph) AddArgument(id string, strength float64) error {
	if id == "" {
		return fmt.Errorf("argument ID is required")
	}
	if g.rounds > 0 {
		return ErrFrozen
	}

	if i, exists := g.index[id]; exists {
		g.args[i].Strength = strength
		g.args[i].Values = []float64{strength}
		return nil
	}

	g.index[id] = len(g.args)
	g.args = append(g.args, Argument{
		ID:       id,
		Strength: strength,
		Values:   []float64{strength},
	})
	g.attackers = append(g.attackers, nil)
	g.targets = append(g.targets, nil)
	return nil
}

// AddAttack records that source attacks target. Both must already be
// declared. Duplicate attacks are kept as distinct edges.
func (g *Graph) AddAttack(source, target string) error {
	if g.rounds > 0 {
		return ErrFrozen
	}

	si, ok := g.index[source]
	if !ok {
		return fmt.Errorf("attack %s -> %s: source %q: %w", source, target, source, ErrUnknownArgument)
	}
	ti, ok := g.index[target]
	if !ok {
		return fmt.Errorf("attack %s -> %s: target %q: %w", source, target, target, ErrUnknownArgument)
	}

	g.attacks = append(g.attacks, Attack{Source: source, Target: target})
	g.attackers[ti] = append(g.attackers[ti], si)
	g.targets[si] = append(g.targets[si], ti)
	return nil
}

// Len returns the number of arguments.
func (g *Graph) Len() int {
	return len(g.args)
}

// IDs returns argument identifiers in declaration order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.args))
	for i, a := range g.args {
		ids[i] = a.ID
	}
	return ids
}

// Index returns the position of the argument with the given ID.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Argument returns a copy of the argument at position i.
func (g *Graph) Argument(i int) Argument {
	a := g.args[i]
	a.Values = append([]float64(nil), a.Values...)
	return a
}

// Attackers returns the positions of the direct attackers of argument i.
// The returned slice must not be modified.
func (g *Graph) Attackers(i int) []int {
	return g.attackers[i]
}

// Targets returns the positions of the arguments attacked by argument i.
// The returned slice must not be modified.
func (g *Graph) Targets(i int) []int {
	return g.targets[i]
}

// Attacks returns a copy of the attack list in insertion order.
func (g *Graph) Attacks() []Attack {
	return append([]Attack(nil), g.attacks...)
}

// Rounds returns the number of rounds recorded so far.
func (g *Graph) Rounds() int {
	return g.rounds
}

// Value returns the value of argument i after the given round. A negative
// round counts back from the end, so -1 is the latest value.
func (g *Graph) Value(i, round int) float64 {
	values := g.args[i].Values
	if round < 0 {
		round += len(values)
	}
	return values[round]
}

// Current returns the latest value of argument i.
func (g *Graph) Current(i int) float64 {
	values := g.args[i].Values
	return values[len(values)-1]
}

// History returns a copy of the value history of argument i.
func (g *Graph) History(i int) []float64 {
	return append([]float64(nil), g.args[i].Values...)
}

// AppendRound commits one new value per argument, in argument order.
func (g *Graph) AppendRound(next []float64) error {
	if len(next) != len(g.args) {
		return fmt.Errorf("append round: got %d values for %d arguments", len(next), len(g.args))
	}
	for i := range g.args {
		g.args[i].Values = append(g.args[i].Values, next[i])
	}
	g.rounds++
	return nil
}

// Reset drops every recorded round, leaving each history with only its
// initial strength. The structure becomes mutable again.
func (g *Graph) Reset() {
	for i := range g.args {
		g.args[i].Values = []float64{g.args[i].Strength}
	}
	g.rounds = 0
}
