package constants

// Format identifies an output rendering of an evaluated network.
type Format string

const (
	// FormatDOT is a Graphviz digraph.
	FormatDOT Format = "dot"

	// FormatJSON is a machine-readable nodes/edges document.
	FormatJSON Format = "json"

	// FormatHTML is a self-contained page with the value charts.
	FormatHTML Format = "html"
)

// Valid returns true if the format is a recognized value.
func (f Format) Valid() bool {
	switch f {
	case FormatDOT, FormatJSON, FormatHTML:
		return true
	}
	return false
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}
