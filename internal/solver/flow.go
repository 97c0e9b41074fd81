package solver

import (
	"context"
	"math"
)

// FlowName is the registry name of the min-cost flow backend
const FlowName = "flow"

const costEpsilon = 1e-9

// Flow solves the program as a min-cost circulation with lower bounds.
//
// Network: source -> staff (bounds [Min, Max], cost per unit), staff -> day (capacity 1),
// day -> sink (bounds [Demand, Demand]), sink -> source (unbounded). Lower bounds are removed with a
// super source/sink; the program is feasible iff the super source saturates. Successive shortest paths
// keep the flow integral, so the unit edges read back directly as the assignment.
type Flow struct{}

// NewFlow returns the min-cost flow backend
func NewFlow() *Flow {
	return &Flow{}
}

func (f *Flow) Name() string { return FlowName }

type flowEdge struct {
	to   int
	rev  int
	cap  int
	cost float64
}

type network struct {
	adj [][]flowEdge
}

func newNetwork(n int) *network {
	return &network{adj: make([][]flowEdge, n)}
}

// addEdge returns the index of the forward edge in adj[from]
func (g *network) addEdge(from, to, capacity int, cost float64) int {
	g.adj[from] = append(g.adj[from], flowEdge{to: to, rev: len(g.adj[to]), cap: capacity, cost: cost})
	g.adj[to] = append(g.adj[to], flowEdge{to: from, rev: len(g.adj[from]) - 1, cap: 0, cost: -cost})
	return len(g.adj[from]) - 1
}

// minCostFlow pushes up to limit units from s to t along successive shortest paths.
func (g *network) minCostFlow(ctx context.Context, s, t, limit int) (int, error) {
	n := len(g.adj)
	dist := make([]float64, n)
	inQueue := make([]bool, n)
	prevNode := make([]int, n)
	prevEdge := make([]int, n)

	flow := 0
	for flow < limit {
		if err := ctx.Err(); err != nil {
			return flow, err
		}

		for i := range dist {
			dist[i] = math.Inf(1)
			prevNode[i] = -1
		}
		dist[s] = 0
		queue := []int{s}
		inQueue[s] = true
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			inQueue[u] = false
			for i, e := range g.adj[u] {
				if e.cap <= 0 {
					continue
				}
				if nd := dist[u] + e.cost; nd < dist[e.to]-costEpsilon {
					dist[e.to] = nd
					prevNode[e.to] = u
					prevEdge[e.to] = i
					if !inQueue[e.to] {
						inQueue[e.to] = true
						queue = append(queue, e.to)
					}
				}
			}
		}
		if prevNode[t] < 0 {
			break
		}

		push := limit - flow
		for v := t; v != s; v = prevNode[v] {
			push = min(push, g.adj[prevNode[v]][prevEdge[v]].cap)
		}
		for v := t; v != s; v = prevNode[v] {
			e := &g.adj[prevNode[v]][prevEdge[v]]
			e.cap -= push
			g.adj[v][e.rev].cap += push
		}
		flow += push
	}
	return flow, nil
}

func (f *Flow) Solve(ctx context.Context, p Problem) (Solution, error) {
	if err := validate(p); err != nil {
		return Solution{}, err
	}
	caps, bad := trivialInfeasible(p)
	if bad {
		return infeasible(), nil
	}

	staffCount, dayCount := len(p.Rows), len(p.Demand)
	source := 0
	staffNode := func(i int) int { return 1 + i }
	dayNode := func(j int) int { return 1 + staffCount + j }
	sink := 1 + staffCount + dayCount
	superSource, superSink := sink+1, sink+2

	g := newNetwork(superSink + 1)
	excess := make([]int, superSink+1)

	required := 0
	for i, r := range p.Rows {
		g.addEdge(source, staffNode(i), caps[i]-r.Min, r.Cost)
		excess[staffNode(i)] += r.Min
		excess[source] -= r.Min
	}

	cells := make([][]int, staffCount)
	for i := range p.Rows {
		cells[i] = make([]int, dayCount)
		for j := range p.Demand {
			cells[i][j] = g.addEdge(staffNode(i), dayNode(j), 1, 0)
		}
	}

	for j, d := range p.Demand {
		excess[sink] += d
		excess[dayNode(j)] -= d
		required += d
	}
	g.addEdge(sink, source, required, 0)

	need := 0
	for v, e := range excess {
		switch {
		case e > 0:
			g.addEdge(superSource, v, e, 0)
			need += e
		case e < 0:
			g.addEdge(v, superSink, -e, 0)
		}
	}

	pushed, err := g.minCostFlow(ctx, superSource, superSink, need)
	if err != nil {
		return Solution{}, err
	}
	if pushed < need {
		return infeasible(), nil
	}

	assign := make([][]bool, staffCount)
	for i := range p.Rows {
		assign[i] = make([]bool, dayCount)
		for j := range p.Demand {
			assign[i][j] = g.adj[staffNode(i)][cells[i][j]].cap == 0
		}
	}
	return Solution{
		Status:    StatusOptimal,
		Assign:    assign,
		Objective: objective(p, assign),
	}, nil
}
