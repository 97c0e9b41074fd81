package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/optimisable/internal/config"
	"github.com/julianstephens/optimisable/internal/keyring"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/scenario"
	"github.com/julianstephens/optimisable/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	w := ctx.out()
	fmt.Fprintln(w, "Running diagnostics...")
	fmt.Fprintln(w)

	hasError := false

	// Check 1: config directory writable
	if err := checkConfigDir(ctx.ConfigDir); err != nil {
		fail(w, "Config directory", err)
		hasError = true
	} else {
		pass(w, "Config directory")
	}

	// Check 2: scenario readable
	scenarioOK := false
	if _, err := os.Stat(ctx.ScenarioPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(w, "⚠ Scenario file: WARNING\n")
		fmt.Fprintf(w, "   %s not found, using the built-in week. Run 'optimisable init' to create it.\n", ctx.ScenarioPath)
	} else if _, err := scenario.Load(ctx.ScenarioPath); err != nil {
		fail(w, "Scenario file", err)
		hasError = true
	} else {
		pass(w, "Scenario file")
		scenarioOK = true
	}

	// Check 3: inputs free of blocking conflicts
	if err := checkInputs(ctx.Session.WorkingSet()); err != nil {
		fail(w, "Input validation", err)
		hasError = true
	} else {
		pass(w, "Input validation")
	}

	// Check 4: solver backend answers
	if err := checkSolver(ctx); err != nil {
		fail(w, "Solver "+ctx.Engine.SolverName(), err)
		hasError = true
	} else {
		pass(w, "Solver "+ctx.Engine.SolverName())
	}

	// Check 5: keyring (warning only)
	if !keyring.IsAvailable() {
		fmt.Fprintf(w, "⚠ OS keyring: WARNING\n")
		fmt.Fprintf(w, "   %v\n", keyring.ErrKeyringUnavailable)
	} else {
		pass(w, "OS keyring")
	}

	// Check 6: generation service configured (warning only)
	switch {
	case !ctx.Assistant && ctx.KeySource == config.SourceNone:
		fmt.Fprintf(w, "⚠ Assistant: WARNING\n")
		fmt.Fprintf(w, "   No API key configured. Set %s or run 'optimisable keyring set'.\n", config.APIKeyEnv)
	case !ctx.Assistant:
		fmt.Fprintf(w, "⊘ Assistant: SKIPPED (disabled)\n")
	default:
		fmt.Fprintf(w, "✓ Assistant: OK (%s via %s, key from %s)\n", ctx.LLM.Model, ctx.LLM.BaseURL, ctx.KeySource)
	}

	fmt.Fprintln(w)
	if hasError {
		fmt.Fprintln(w, "Some checks failed. Please address the issues above.")
		return errors.New("diagnostics failed")
	}
	if !scenarioOK {
		fmt.Fprintln(w, "All required checks passed.")
		return nil
	}
	fmt.Fprintln(w, "All checks passed!")
	return nil
}

func pass(w io.Writer, name string) {
	fmt.Fprintf(w, "✓ %s: OK\n", name)
}

func fail(w io.Writer, name string, err error) {
	fmt.Fprintf(w, "❌ %s: FAIL\n", name)
	fmt.Fprintf(w, "   Error: %v\n", err)
}

func checkConfigDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return fmt.Errorf("directory is not writable: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkInputs(ws models.WorkingSet) error {
	result := validation.New().ValidateWorkingSet(ws)
	return result.Err()
}

func checkSolver(ctx *Context) error {
	runCtx, cancel := ctx.solveContext()
	defer cancel()

	sched, err := ctx.Engine.OptimiseWorkingSet(runCtx, scenario.Default())
	if err != nil {
		return err
	}
	if !sched.Feasible() {
		return fmt.Errorf("reference week reported %s", sched.Status)
	}
	return nil
}
