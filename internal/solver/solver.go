// Package solver holds the integer-programming capability used by the scheduling engine.
//
// A Problem is a binary assignment program: rows (staff) choose a subset of columns (days), each row
// pays its own cost per selected column and must select between Min and Max columns, and every column
// must be selected by exactly Demand rows. Backends are exact: they either return a global optimum or
// prove infeasibility.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidProblem is returned when a Problem violates the preconditions every backend relies on.
var ErrInvalidProblem = errors.New("invalid problem")

// Status is the outcome of a solve
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	default:
		return "unknown"
	}
}

// Row is one decision row of the program
type Row struct {
	Cost float64 // cost per selected column, must be >= 0
	Min  int     // minimum number of selected columns, must be >= 0
	Max  int     // maximum number of selected columns
}

// Problem is a binary assignment program
type Problem struct {
	Rows   []Row
	Demand []int // exact number of rows selecting each column
}

// Solution is the result of a solve. Assign is only populated when Status is StatusOptimal.
type Solution struct {
	Status    Status
	Assign    [][]bool // Assign[row][col]
	Objective float64
}

// Solver is an exact backend for Problem
type Solver interface {
	Name() string
	Solve(ctx context.Context, p Problem) (Solution, error)
}

// Factory builds a solver backend
type Factory func() Solver

var registry = map[string]Factory{
	FlowName:        func() Solver { return NewFlow() },
	BranchBoundName: func() Solver { return NewBranchBound() },
}

// DefaultName is the backend used when none is configured
const DefaultName = FlowName

// New returns the backend registered under name
func New(name string) (Solver, error) {
	if name == "" {
		name = DefaultName
	}
	factory, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown solver %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return factory(), nil
}

// Names lists the registered backends in sorted order
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validate checks the preconditions shared by all backends
func validate(p Problem) error {
	for i, r := range p.Rows {
		if r.Cost < 0 {
			return fmt.Errorf("%w: row %d has negative cost %v", ErrInvalidProblem, i, r.Cost)
		}
		if r.Min < 0 {
			return fmt.Errorf("%w: row %d has negative minimum %d", ErrInvalidProblem, i, r.Min)
		}
	}
	return nil
}

// trivialInfeasible catches inputs no assignment can satisfy without building a model.
// It returns the row upper bounds capped at the number of columns.
func trivialInfeasible(p Problem) ([]int, bool) {
	cols := len(p.Demand)
	caps := make([]int, len(p.Rows))
	sumMin, sumMax := 0, 0
	for i, r := range p.Rows {
		caps[i] = min(r.Max, cols)
		if caps[i] < r.Min {
			return nil, true
		}
		sumMin += r.Min
		sumMax += caps[i]
	}
	required := 0
	for _, d := range p.Demand {
		if d < 0 || d > len(p.Rows) {
			return nil, true
		}
		required += d
	}
	if required < sumMin || required > sumMax {
		return nil, true
	}
	return caps, false
}

// objective prices an assignment
func objective(p Problem, assign [][]bool) float64 {
	total := 0.0
	for i, row := range assign {
		for _, on := range row {
			if on {
				total += p.Rows[i].Cost
			}
		}
	}
	return total
}

// Check verifies that assign satisfies every constraint of p
func Check(p Problem, assign [][]bool) error {
	if len(assign) != len(p.Rows) {
		return fmt.Errorf("assignment has %d rows, want %d", len(assign), len(p.Rows))
	}
	colSums := make([]int, len(p.Demand))
	for i, row := range assign {
		if len(row) != len(p.Demand) {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(row), len(p.Demand))
		}
		count := 0
		for j, on := range row {
			if on {
				count++
				colSums[j]++
			}
		}
		if count < p.Rows[i].Min || count > p.Rows[i].Max {
			return fmt.Errorf("row %d selects %d columns, want [%d, %d]", i, count, p.Rows[i].Min, p.Rows[i].Max)
		}
	}
	for j, sum := range colSums {
		if sum != p.Demand[j] {
			return fmt.Errorf("column %d selected by %d rows, want %d", j, sum, p.Demand[j])
		}
	}
	return nil
}

func infeasible() Solution {
	return Solution{Status: StatusInfeasible}
}
