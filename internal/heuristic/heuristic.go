// Package heuristic scores Abalone positions. Higher values favour the
// perspective colour. Every evaluator is a pure function of its inputs.
package heuristic

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	"github.com/dhruvparekh01/abalone/internal/board"
)

type Evaluator interface {
	Evaluate(b board.Board, perspective board.Colour) float64
}

// Func adapts a plain function to Evaluator.
type Func func(b board.Board, perspective board.Colour) float64

func (f Func) Evaluate(b board.Board, perspective board.Colour) float64 {
	return f(b, perspective)
}

var ErrUnknownEvaluator = errors.New("unknown evaluator")

const DefaultName = "centre"

var registry = map[string]Evaluator{
	"centre":    Centre{},
	"lines":     Lines{},
	"manhattan": Manhattan{},
}

var aliases = map[string]string{
	"center": "centre",
}

// Lookup resolves an evaluator by name. The empty name gives the default.
func Lookup(name string) (Evaluator, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultName
	}
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	if ev, ok := registry[key]; ok {
		return ev, nil
	}
	return nil, errors.Wrapf(ErrUnknownEvaluator, "%q (known: %s)", name, strings.Join(Names(), ", "))
}

// Names lists the canonical evaluator names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Default() Evaluator {
	return Centre{}
}

func abs[T constraints.Signed | constraints.Float](v T) T {
	if v < 0 {
		return -v
	}
	return v
}
