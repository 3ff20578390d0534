// Package tgf reads argumentation networks from trivial graph format files
// extended with optional initial strengths.
//
// Lines before the first line containing '#' declare arguments:
//
//	a 0.8
//	b
//
// Lines after it declare attacks, one "source target" pair per line:
//
//	#
//	a b
package tgf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nvandessel/gris/internal/constants"
	"github.com/nvandessel/gris/internal/store"
)

var (
	// ErrFileNotExist is returned by LoadFile when the path does not exist.
	ErrFileNotExist = errors.New("does not exist")

	// ErrMalformedStrength is returned when a strength token is not a number.
	ErrMalformedStrength = errors.New("malformed strength")

	// ErrMalformedAttack is returned when an attack line does not have
	// exactly two fields.
	ErrMalformedAttack = errors.New("malformed attack line")

	// ErrUnknownArgument is returned when an attack names an undeclared argument.
	ErrUnknownArgument = store.ErrUnknownArgument
)

// LoadError describes the line that made a file unloadable.
type LoadError struct {
	Line    int    // 1-based line number
	Content string // the line as read, without its newline
	Err     error  // one of the Err* sentinels, possibly wrapped
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Content, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Warning flags an accepted but suspicious declaration.
type Warning struct {
	ArgumentID string
	Message    string
}

// LoadFile reads the network stored at path.
func LoadFile(path string) (*store.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s %w", path, ErrFileNotExist)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// Parse reads a network description. On error no graph is returned.
func Parse(r io.Reader) (*store.Graph, error) {
	g := store.NewGraph()
	readArgs := true

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		if strings.Contains(line, constants.AttackDivider) {
			readArgs = false
			continue
		}
		if readArgs {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if err := parseArgument(g, line); err != nil {
				return nil, &LoadError{Line: lineNo, Content: line, Err: err}
			}
			continue
		}
		if err := parseAttack(g, line); err != nil {
			return nil, &LoadError{Line: lineNo, Content: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return g, nil
}

// parseArgument handles "id [strength]". Extra fields are ignored.
func parseArgument(g *store.Graph, line string) error {
	fields := strings.Fields(line)
	id := fields[0]

	strength := constants.DefaultStrength
	if len(fields) > 1 {
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return fmt.Errorf("argument %q: %q: %w", id, fields[1], ErrMalformedStrength)
		}
		strength = v
	}

	return g.AddArgument(id, strength)
}

// parseAttack handles "source target". Fields are separated by exactly one
// space; tabs, repeated spaces and blank lines are malformed.
func parseAttack(g *store.Graph, line string) error {
	fields := strings.Split(strings.TrimSpace(line), " ")
	if len(fields) != 2 {
		return fmt.Errorf("got %d fields, want 2: %w", len(fields), ErrMalformedAttack)
	}
	return g.AddAttack(fields[0], fields[1])
}

// Warnings reports arguments whose initial strength lies outside [0,1].
// Such values load without error but the iteration is only range
// preserving for inputs in [0,1].
func Warnings(g *store.Graph) []Warning {
	var warnings []Warning
	for i := 0; i < g.Len(); i++ {
		a := g.Argument(i)
		if math.IsNaN(a.Strength) || a.Strength < 0 || a.Strength > 1 {
			warnings = append(warnings, Warning{
				ArgumentID: a.ID,
				Message:    fmt.Sprintf("initial strength %g is outside [0,1]", a.Strength),
			})
		}
	}
	return warnings
}
