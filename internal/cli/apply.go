package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/render"
	"github.com/julianstephens/optimisable/internal/scenario"
	"github.com/julianstephens/optimisable/internal/session"
)

// ApplyCmd solves the scenario, then applies one natural-language instruction and re-solves
type ApplyCmd struct {
	Request []string `arg:"" help:"Instruction, e.g. \"Set Staff 2 cost to 110\"."`
	Save    bool     `help:"Write the changed inputs back to the scenario file."`
	JSON    bool     `help:"Print the resulting schedule as JSON."`
}

func (cmd *ApplyCmd) Run(ctx *Context) error {
	solveCtx, cancel := ctx.solveContext()
	_, err := ctx.Session.Solve(solveCtx)
	cancel()
	if err != nil {
		return err
	}

	applied, err := instruct(ctx, strings.Join(cmd.Request, " "), cmd.JSON)
	if err != nil {
		return err
	}
	if applied && cmd.Save {
		return saveScenario(ctx)
	}
	return nil
}

// instruct sends one request through the session and prints the outcome.
// It reports whether the inputs changed.
func instruct(ctx *Context, text string, asJSON bool) (bool, error) {
	runCtx, cancel := ctx.instructContext()
	defer cancel()

	out, err := ctx.Session.Instruct(runCtx, text)
	if err != nil {
		return false, err
	}

	w := ctx.out()
	if out.Schedule == nil {
		if out.Interpretation.Instruction != nil {
			fmt.Fprintln(w, render.ErrorStyle.Render(out.Reply))
		} else {
			fmt.Fprintln(w, out.Reply)
		}
		return false, nil
	}

	fmt.Fprintln(w, render.SuccessStyle.Render(out.Reply))
	fmt.Fprintln(w)
	return true, printSchedule(ctx, *out.Schedule, asJSON, false)
}

func saveScenario(ctx *Context) error {
	if err := backupScenario(ctx); err != nil {
		return err
	}
	if err := scenario.Save(ctx.ScenarioPath, "", ctx.Session.WorkingSet()); err != nil {
		return err
	}
	ctx.FromFile = true
	fmt.Fprintf(ctx.out(), "Saved scenario to %s\n", ctx.ScenarioPath)
	return nil
}

// ChatCmd is an interactive instruction loop on the terminal
type ChatCmd struct {
	Save bool `help:"Write the inputs back to the scenario file when the chat ends."`
}

func (cmd *ChatCmd) Run(ctx *Context) error {
	solveCtx, cancel := ctx.solveContext()
	sched, err := ctx.Session.Solve(solveCtx)
	cancel()
	if err != nil {
		return err
	}

	w := ctx.out()
	fmt.Fprint(w, render.Report(sched))
	if !ctx.Assistant {
		fmt.Fprintln(w, render.MutedStyle.Render("Assistant disabled: only direct commands are understood."))
	}
	fmt.Fprintln(w, render.MutedStyle.Render("Type 'exit' or press Esc to finish."))

	changed := false
	for {
		var text string
		err := huh.NewInput().
			Title("Ask the scheduling assistant").
			Placeholder("Reduce Friday staff requirement by 1").
			Value(&text).
			Run()
		if errors.Is(err, huh.ErrUserAborted) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if strings.EqualFold(text, "exit") || strings.EqualFold(text, "quit") {
			break
		}

		fmt.Fprintf(w, "\n> %s\n", text)
		applied, err := instruct(ctx, text, false)
		if err != nil {
			if errors.Is(err, session.ErrEmptyRequest) {
				continue
			}
			return err
		}
		changed = changed || applied
	}

	if changed && cmd.Save {
		return saveScenario(ctx)
	}
	if changed {
		logger.Info("chat ended with unsaved changes", "scenario", ctx.ScenarioPath)
	}
	return nil
}
