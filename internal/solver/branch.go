package solver

import (
	"context"
	"math"
	"sort"
)

// BranchBoundName is the registry name of the branch-and-bound backend
const BranchBoundName = "branch-and-bound"

// checkEvery is how many search nodes are expanded between context checks
const checkEvery = 1024

// BranchBound searches per-row column counts instead of individual cells.
//
// The objective only depends on how many columns each row selects, so the search enumerates counts
// (cheapest rows first, largest counts first) and bounds each partial choice by the cheapest way to
// cover the remaining demand. A full choice of counts is feasible iff the Gale–Ryser condition holds,
// and the matrix is then built constructively.
type BranchBound struct {
	// NodeLimit stops the search after this many nodes when > 0. The best solution found so far is
	// still returned, so a limited search is no longer guaranteed optimal.
	NodeLimit int
}

// NewBranchBound returns the branch-and-bound backend
func NewBranchBound() *BranchBound {
	return &BranchBound{}
}

func (b *BranchBound) Name() string { return BranchBoundName }

type bbSearch struct {
	ctx     context.Context
	rows    []Row
	order   []int // row indices, cheapest first
	caps    []int
	demand  []int
	counts  []int
	best    []int
	bestObj float64
	nodes   int
	limit   int
	err     error
}

func (b *BranchBound) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := validate(p); err != nil {
		return Solution{}, err
	}
	caps, bad := trivialInfeasible(p)
	if bad {
		return infeasible(), nil
	}

	order := make([]int, len(p.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		return p.Rows[order[a]].Cost < p.Rows[order[c]].Cost
	})

	required := 0
	for _, d := range p.Demand {
		required += d
	}

	s := &bbSearch{
		ctx:     ctx,
		rows:    p.Rows,
		order:   order,
		caps:    caps,
		demand:  p.Demand,
		counts:  make([]int, len(p.Rows)),
		bestObj: math.Inf(1),
		limit:   b.NodeLimit,
	}
	s.search(0, required, 0)
	if s.err != nil {
		return Solution{}, s.err
	}
	if s.best == nil {
		return infeasible(), nil
	}

	assign, ok := Realize(s.best, p.Demand)
	if !ok {
		// Gale–Ryser held during the search, so construction cannot fail.
		return infeasible(), nil
	}
	return Solution{
		Status:    StatusOptimal,
		Assign:    assign,
		Objective: objective(p, assign),
	}, nil
}

// search assigns a count to order[k:] with remaining demand left and accumulated cost spent.
func (s *bbSearch) search(k, left int, spent float64) {
	if s.err != nil {
		return
	}
	s.nodes++
	if s.nodes%checkEvery == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return
		}
	}
	if s.limit > 0 && s.nodes > s.limit {
		return
	}

	if k == len(s.order) {
		if left != 0 {
			return
		}
		if !GaleRyser(s.counts, s.demand) {
			return
		}
		if spent < s.bestObj-costEpsilon {
			s.bestObj = spent
			s.best = append(s.best[:0], s.counts...)
		}
		return
	}

	bound, ok := s.lowerBound(k, left)
	if !ok || spent+bound >= s.bestObj-costEpsilon {
		return
	}

	row := s.order[k]
	r := s.rows[row]
	for c := min(s.caps[row], left); c >= r.Min; c-- {
		s.counts[row] = c
		s.search(k+1, left-c, spent+float64(c)*r.Cost)
	}
	s.counts[row] = 0
}

// lowerBound is the cheapest cost of covering left with rows order[k:], ignoring column structure.
// Rows are visited cheapest first, so filling greedily after the minimums is exact for the relaxation.
func (s *bbSearch) lowerBound(k, left int) (float64, bool) {
	sumMin, sumMax := 0, 0
	bound := 0.0
	for _, row := range s.order[k:] {
		sumMin += s.rows[row].Min
		sumMax += s.caps[row]
		bound += float64(s.rows[row].Min) * s.rows[row].Cost
	}
	if left < sumMin || left > sumMax {
		return 0, false
	}
	extra := left - sumMin
	for _, row := range s.order[k:] {
		if extra == 0 {
			break
		}
		take := min(extra, s.caps[row]-s.rows[row].Min)
		bound += float64(take) * s.rows[row].Cost
		extra -= take
	}
	return bound, true
}
