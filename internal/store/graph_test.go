package store

import (
	"errors"
	"testing"
)

// newTestGraph is a test helper that declares the given arguments with
// strength 0.5 and fails the test on error.
func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range ids {
		if err := g.AddArgument(id, 0.5); err != nil {
			t.Fatalf("AddArgument(%s): %v", id, err)
		}
	}
	return g
}

func TestGraph_AddArgument(t *testing.T) {
	g := NewGraph()
	if err := g.AddArgument("a", 0.3); err != nil {
		t.Fatalf("AddArgument: %v", err)
	}
	if err := g.AddArgument("b", 1.0); err != nil {
		t.Fatalf("AddArgument: %v", err)
	}

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	a := g.Argument(0)
	if a.ID != "a" || a.Strength != 0.3 {
		t.Errorf("Argument(0) = %+v, want a/0.3", a)
	}
	if len(a.Values) != 1 || a.Values[0] != 0.3 {
		t.Errorf("initial history = %v, want [0.3]", a.Values)
	}
}

func TestGraph_AddArgument_EmptyID(t *testing.T) {
	g := NewGraph()
	if err := g.AddArgument("", 0.5); err == nil {
		t.Error("expected error for empty ID")
	}
}

func TestGraph_AddArgument_Redeclared(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	if err := g.AddArgument("a", 0.9); err != nil {
		t.Fatalf("AddArgument: %v", err)
	}

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	ids := g.IDs()
	if ids[0] != "a" || ids[1] != "b" {
		t.Errorf("IDs() = %v, want declaration order [a b]", ids)
	}
	if got := g.Current(0); got != 0.9 {
		t.Errorf("Current(a) = %f, want 0.9", got)
	}
}

func TestGraph_AddAttack(t *testing.T) {
	g := newTestGraph(t, "a", "b", "c")
	for _, e := range [][2]string{{"a", "b"}, {"c", "b"}, {"b", "c"}} {
		if err := g.AddAttack(e[0], e[1]); err != nil {
			t.Fatalf("AddAttack(%s, %s): %v", e[0], e[1], err)
		}
	}

	bi, _ := g.Index("b")
	attackers := g.Attackers(bi)
	if len(attackers) != 2 || attackers[0] != 0 || attackers[1] != 2 {
		t.Errorf("Attackers(b) = %v, want [0 2]", attackers)
	}
	targets := g.Targets(bi)
	if len(targets) != 1 || targets[0] != 2 {
		t.Errorf("Targets(b) = %v, want [2]", targets)
	}
	if len(g.Attacks()) != 3 {
		t.Errorf("Attacks() has %d entries, want 3", len(g.Attacks()))
	}
}

func TestGraph_AddAttack_DuplicateAndSelf(t *testing.T) {
	g := newTestGraph(t, "a")
	for i := 0; i < 2; i++ {
		if err := g.AddAttack("a", "a"); err != nil {
			t.Fatalf("AddAttack(a, a): %v", err)
		}
	}
	if got := len(g.Attackers(0)); got != 2 {
		t.Errorf("self-attack with duplicate: %d attackers, want 2", got)
	}
}

func TestGraph_AddAttack_UnknownArgument(t *testing.T) {
	tests := []struct {
		name           string
		source, target string
	}{
		{"unknown source", "x", "a"},
		{"unknown target", "a", "x"},
		{"both unknown", "x", "y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, "a")
			err := g.AddAttack(tt.source, tt.target)
			if !errors.Is(err, ErrUnknownArgument) {
				t.Fatalf("AddAttack(%s, %s) error = %v, want ErrUnknownArgument", tt.source, tt.target, err)
			}
			if len(g.Attacks()) != 0 {
				t.Error("failed attack must not be recorded")
			}
		})
	}
}

func TestGraph_AppendRound(t *testing.T) {
	g := newTestGraph(t, "a", "b")

	if err := g.AppendRound([]float64{0.75, 0.25}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}
	if err := g.AppendRound([]float64{0.875, 0.125}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	if g.Rounds() != 2 {
		t.Errorf("Rounds() = %d, want 2", g.Rounds())
	}
	for i := 0; i < g.Len(); i++ {
		if n := len(g.History(i)); n != 3 {
			t.Errorf("history of %d has %d entries, want 3", i, n)
		}
	}
	if got := g.Value(0, 1); got != 0.75 {
		t.Errorf("Value(a, 1) = %f, want 0.75", got)
	}
	if got := g.Value(1, -1); got != 0.125 {
		t.Errorf("Value(b, -1) = %f, want 0.125", got)
	}
	if got := g.Current(1); got != 0.125 {
		t.Errorf("Current(b) = %f, want 0.125", got)
	}
}

func TestGraph_AppendRound_WrongLength(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	if err := g.AppendRound([]float64{0.1}); err == nil {
		t.Error("expected error for short round")
	}
	if g.Rounds() != 0 {
		t.Errorf("Rounds() = %d after rejected append, want 0", g.Rounds())
	}
}

func TestGraph_FrozenAfterRound(t *testing.T) {
	g := newTestGraph(t, "a", "b")
	if err := g.AppendRound([]float64{0.5, 0.5}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	if err := g.AddArgument("c", 0.5); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddArgument after round: error = %v, want ErrFrozen", err)
	}
	if err := g.AddAttack("a", "b"); !errors.Is(err, ErrFrozen) {
		t.Errorf("AddAttack after round: error = %v, want ErrFrozen", err)
	}
}

func TestGraph_HistoryIsCopy(t *testing.T) {
	g := newTestGraph(t, "a")
	h := g.History(0)
	h[0] = 42

	if g.Current(0) != 0.5 {
		t.Error("mutating History() result changed the graph")
	}
}

func TestGraph_Reset(t *testing.T) {
	g := newTestGraph(t, "a")
	if err := g.AppendRound([]float64{0.75}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}

	g.Reset()

	if g.Rounds() != 0 {
		t.Errorf("Rounds() = %d after Reset, want 0", g.Rounds())
	}
	if h := g.History(0); len(h) != 1 || h[0] != 0.5 {
		t.Errorf("History after Reset = %v, want [0.5]", h)
	}
	if err := g.AddArgument("b", 0.5); err != nil {
		t.Errorf("AddArgument after Reset: %v", err)
	}
}
