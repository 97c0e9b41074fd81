// Package scheduler builds the weekly assignment program from staff and demand data and turns the
// solver's answer into a Schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/solver"
	"github.com/julianstephens/optimisable/internal/validation"
)

// Precondition errors, re-exported so callers need not import validation.
var (
	ErrNoStaff        = validation.ErrNoStaff
	ErrDuplicateStaff = validation.ErrDuplicateStaff
	ErrInvalidInput   = validation.ErrInvalidInput
)

type Engine struct {
	solver    solver.Solver
	validator *validation.Validator
	now       func() time.Time
}

// New returns an engine backed by s. A nil solver selects the default backend.
func New(s solver.Solver) *Engine {
	if s == nil {
		s = solver.NewFlow()
	}
	return &Engine{
		solver:    s,
		validator: validation.New(),
		now:       time.Now,
	}
}

// SolverName reports the backend in use
func (e *Engine) SolverName() string {
	return e.solver.Name()
}

// Optimise computes the minimum cost assignment of staff to the days in demand.
// Infeasible inputs produce a report, not an error. Errors are reserved for precondition failures.
func (e *Engine) Optimise(ctx context.Context, staff []models.StaffMember, demand []models.DemandEntry) (models.Schedule, error) {
	ws := models.WorkingSet{Staff: staff, Demand: demand}
	result := e.validator.ValidateWorkingSet(ws)
	if err := result.Err(); err != nil {
		return models.Schedule{}, err
	}
	for _, c := range result.Conflicts {
		logger.Debug("working set warning", "type", c.Type, "detail", c.Description)
	}

	problem := buildProblem(ws)
	start := e.now()
	sched := models.Schedule{
		RunID:    uuid.NewString(),
		Solver:   e.solver.Name(),
		Days:     ws.Horizon(),
		SolvedAt: start,
	}

	sol, err := e.solver.Solve(ctx, problem)
	sched.Elapsed = e.now().Sub(start)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		logger.Warn("optimisation interrupted", "run", sched.RunID, "err", err)
		sched.Status = models.StatusTimedOut
		sched.Reason = constants.MsgTimedOut
		return sched, nil
	case errors.Is(err, solver.ErrInvalidProblem):
		return models.Schedule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case err != nil:
		return models.Schedule{}, fmt.Errorf("solve with %s: %w", e.solver.Name(), err)
	}

	if sol.Status != solver.StatusOptimal {
		logger.Info("optimisation infeasible", "run", sched.RunID, "solver", sched.Solver)
		sched.Status = models.StatusInfeasible
		sched.Reason = constants.MsgInfeasible
		return sched, nil
	}

	fill(&sched, ws, sol.Assign)
	logger.Info("optimisation complete",
		"run", sched.RunID,
		"solver", sched.Solver,
		"staff_days", sched.TotalDays,
		"cost", sched.TotalCost.String(),
		"elapsed", sched.Elapsed,
	)
	return sched, nil
}

// OptimiseWorkingSet is Optimise over a WorkingSet
func (e *Engine) OptimiseWorkingSet(ctx context.Context, ws models.WorkingSet) (models.Schedule, error) {
	return e.Optimise(ctx, ws.Staff, ws.Demand)
}

func buildProblem(ws models.WorkingSet) solver.Problem {
	p := solver.Problem{
		Rows:   make([]solver.Row, len(ws.Staff)),
		Demand: make([]int, len(ws.Demand)),
	}
	for i, s := range ws.Staff {
		p.Rows[i] = solver.Row{
			Cost: s.DailyCost.InexactFloat64(),
			Min:  s.MinWorkDays,
			Max:  s.MaxWorkDays,
		}
	}
	for j, d := range ws.Demand {
		p.Demand[j] = d.RequiredCount
	}
	return p
}

// fill prices the assignment with exact decimal arithmetic
func fill(sched *models.Schedule, ws models.WorkingSet, assign [][]bool) {
	sched.Status = models.StatusOptimal
	sched.Rows = make([]models.ScheduleRow, len(ws.Staff))
	sched.DailyTotals = make([]int, len(ws.Demand))
	sched.TotalCost = decimal.Zero

	for i, s := range ws.Staff {
		row := models.ScheduleRow{Name: s.Name, Work: make([]int, len(ws.Demand))}
		for j, on := range assign[i] {
			if on {
				row.Work[j] = 1
				row.TotalDays++
				sched.DailyTotals[j]++
			}
		}
		row.Cost = s.DailyCost.Mul(decimal.NewFromInt(int64(row.TotalDays)))
		sched.TotalDays += row.TotalDays
		sched.TotalCost = sched.TotalCost.Add(row.Cost)
		sched.Rows[i] = row
	}
}
