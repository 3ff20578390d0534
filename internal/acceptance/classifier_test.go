package acceptance

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nvandessel/gris/internal/store"
)

func TestClassifier_Classify(t *testing.T) {
	c := Default()

	tests := []struct {
		name  string
		value float64
		want  Label
	}{
		{"one", 1, Accepted},
		{"just inside accepted", 0.995, Accepted},
		{"accepted boundary is strict", 0.99, Undecided},
		{"middle", 0.5, Undecided},
		{"rejected boundary is inclusive", 0.01, Rejected},
		{"just inside rejected", 0.005, Rejected},
		{"zero", 0, Rejected},
		{"just above rejected", 0.0101, Undecided},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.value); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifier_WideThreshold(t *testing.T) {
	// With a threshold above 0.5 the accepted check wins where both apply.
	c := New(0.6)
	if got := c.Classify(0.5); got != Accepted {
		t.Errorf("Classify(0.5) with threshold 0.6 = %v, want accepted", got)
	}
	if got := c.Classify(0.3); got != Rejected {
		t.Errorf("Classify(0.3) with threshold 0.6 = %v, want rejected", got)
	}
}

func TestLabel_String(t *testing.T) {
	tests := map[Label]string{
		Accepted:  "accepted",
		Rejected:  "rejected",
		Undecided: "undecided",
	}
	for l, want := range tests {
		if got := l.String(); got != want {
			t.Errorf("Label(%d).String() = %q, want %q", int(l), got, want)
		}
	}
}

func TestLabel_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Label{"a": Accepted})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `{"a":"accepted"}` {
		t.Errorf("got %s, want {\"a\":\"accepted\"}", data)
	}
}

// evaluatedGraph returns a graph with hand-written rounds:
//
//	a: 0.5 -> 0.999
//	b: 0.5 -> 0.001
//	c: 1.0 -> 0.5
func evaluatedGraph(t *testing.T) *store.Graph {
	t.Helper()
	g := store.NewGraph()
	for _, a := range []struct {
		id string
		v  float64
	}{{"a", 0.5}, {"b", 0.5}, {"c", 1}} {
		if err := g.AddArgument(a.id, a.v); err != nil {
			t.Fatalf("AddArgument: %v", err)
		}
	}
	if err := g.AppendRound([]float64{0.999, 0.001, 0.5}); err != nil {
		t.Fatalf("AppendRound: %v", err)
	}
	return g
}

func TestClassifier_AcceptedAt(t *testing.T) {
	g := evaluatedGraph(t)
	c := Default()

	if diff := cmp.Diff([]string{"c"}, c.AcceptedAt(g, 0)); diff != "" {
		t.Errorf("accepted at round 0 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, c.AcceptedAt(g, FinalRound)); diff != "" {
		t.Errorf("accepted at final round (-want +got):\n%s", diff)
	}
}

func TestClassifier_AcceptedAt_NeverNil(t *testing.T) {
	g := store.NewGraph()
	if err := g.AddArgument("a", 0.5); err != nil {
		t.Fatalf("AddArgument: %v", err)
	}
	if got := Default().AcceptedAt(g, 0); got == nil || len(got) != 0 {
		t.Errorf("AcceptedAt = %#v, want empty non-nil slice", got)
	}
}

func TestClassifier_PartitionAndLabels(t *testing.T) {
	g := evaluatedGraph(t)
	c := Default()

	want := map[Label][]string{
		Accepted:  {"a"},
		Rejected:  {"b"},
		Undecided: {"c"},
	}
	if diff := cmp.Diff(want, c.Partition(g, FinalRound)); diff != "" {
		t.Errorf("Partition mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Label{Undecided, Undecided, Accepted}, c.Labels(g, 0)); diff != "" {
		t.Errorf("Labels at round 0 mismatch (-want +got):\n%s", diff)
	}
}
