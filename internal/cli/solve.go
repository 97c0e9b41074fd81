package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/render"
)

// SolveCmd runs the optimisation on the loaded scenario
type SolveCmd struct {
	JSON bool `help:"Print the schedule as JSON." xor:"format"`
	CSV  bool `help:"Print the schedule table as CSV." xor:"format"`
}

func (cmd *SolveCmd) Run(ctx *Context) error {
	runCtx, cancel := ctx.solveContext()
	defer cancel()

	sched, err := ctx.Session.Solve(runCtx)
	if err != nil {
		return err
	}
	return printSchedule(ctx, sched, cmd.JSON, cmd.CSV)
}

func printSchedule(ctx *Context, sched models.Schedule, asJSON, asCSV bool) error {
	w := ctx.out()
	switch {
	case asJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sched); err != nil {
			return fmt.Errorf("failed to encode schedule: %w", err)
		}
	case asCSV:
		out, err := sched.Table().CSV()
		if err != nil {
			return fmt.Errorf("failed to render schedule: %w", err)
		}
		fmt.Fprint(w, out)
	default:
		fmt.Fprint(w, render.Report(sched))
	}
	return nil
}

// ShowCmd prints the loaded staff and demand
type ShowCmd struct{}

func (cmd *ShowCmd) Run(ctx *Context) error {
	w := ctx.out()
	if ctx.FromFile {
		fmt.Fprintf(w, "Scenario: %s\n\n", ctx.ScenarioPath)
	} else {
		fmt.Fprintf(w, "Scenario: built-in week (%s not found)\n\n", ctx.ScenarioPath)
	}
	fmt.Fprintln(w, render.WorkingSet(ctx.Session.WorkingSet()))
	return nil
}
