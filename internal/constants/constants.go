// Package constants provides named constants used throughout the gris codebase.
// This centralizes the iteration defaults so the engine, classifier, config
// and CLI agree on them.
package constants

// Iteration constants
const (
	// DefaultMaxIterations is the round budget for a single evaluation.
	DefaultMaxIterations = 100

	// DefaultChangeThreshold is the minimum increase of a value between two
	// rounds for the round to count as changed.
	DefaultChangeThreshold = 0.0001
)

// Classification constants
const (
	// DefaultCrispThreshold is the distance from 1 (accepted) or 0 (rejected)
	// within which a value is given a crisp label.
	DefaultCrispThreshold = 0.01
)

// Input constants
const (
	// DefaultStrength is the initial strength of an argument declared
	// without one.
	DefaultStrength = 0.5

	// AttackDivider marks the end of argument declarations in a TGF file.
	AttackDivider = "#"
)

// Directory and file names
const (
	// DirName is the per-user directory holding config and decision logs.
	DirName = ".gris"

	// ConfigFileName is the YAML config file inside DirName.
	ConfigFileName = "config.yaml"
)
