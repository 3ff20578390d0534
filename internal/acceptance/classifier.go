// Package acceptance labels arguments as accepted, rejected or undecided
// from their values at a chosen round.
package acceptance

import (
	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/store"
)

// Label is the crisp reading of an argument's value.
type Label int

const (
	Undecided Label = iota // grey zone
	Accepted               // within the threshold of 1
	Rejected               // within the threshold of 0
)

// String returns the lowercase name of the label.
func (l Label) String() string {
	switch l {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	default:
		return "undecided"
	}
}

// MarshalText lets labels appear by name in JSON and YAML output.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// FinalRound selects the last executed round in LabelAt and friends.
const FinalRound = -1

// Classifier applies a crisp threshold to argument values.
type Classifier struct {
	Threshold float64
}

// New returns a classifier with the given threshold.
func New(threshold float64) Classifier {
	return Classifier{Threshold: threshold}
}

// Default returns a classifier with the default threshold of 0.01.
func Default() Classifier {
	return New(constants.DefaultCrispThreshold)
}

// Classify labels a single value. Acceptance is checked first, so with a
// threshold above 0.5 a value can only be accepted or undecided near the top.
func (c Classifier) Classify(v float64) Label {
	if 1-v < c.Threshold {
		return Accepted
	}
	if v <= c.Threshold {
		return Rejected
	}
	return Undecided
}

// LabelAt labels argument i at the given round. FinalRound (or any
// negative round) counts back from the last recorded value.
func (c Classifier) LabelAt(g *store.Graph, i, round int) Label {
	return c.Classify(g.Value(i, round))
}

// Labels labels every argument at the given round, in argument order.
func (c Classifier) Labels(g *store.Graph, round int) []Label {
	labels := make([]Label, g.Len())
	for i := range labels {
		labels[i] = c.LabelAt(g, i, round)
	}
	return labels
}

// AcceptedAt returns the IDs of the arguments accepted at the given round,
// in argument order. The result is never nil.
func (c Classifier) AcceptedAt(g *store.Graph, round int) []string {
	return c.Partition(g, round)[Accepted]
}

// Partition groups argument IDs by label at the given round. Every label
// has an entry, possibly empty.
func (c Classifier) Partition(g *store.Graph, round int) map[Label][]string {
	groups := map[Label][]string{
		Accepted:  {},
		Rejected:  {},
		Undecided: {},
	}
	for i, id := range g.IDs() {
		l := c.LabelAt(g, i, round)
		groups[l] = append(groups[l], id)
	}
	return groups
}
