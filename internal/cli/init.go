package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/optimisable/internal/scenario"
)

// InitCmd writes the built-in week to the scenario file as a starting point
type InitCmd struct {
	Force bool   `help:"Overwrite an existing scenario file without asking."`
	Name  string `help:"Scenario name stored in the file." default:"default week"`
}

func (c *InitCmd) Run(ctx *Context) error {
	path := ctx.ScenarioPath
	if _, err := os.Stat(path); err == nil {
		if !c.Force {
			overwrite := false
			err := huh.NewConfirm().
				Title(fmt.Sprintf("%s already exists. Overwrite it?", path)).
				Value(&overwrite).
				Run()
			if err != nil && !errors.Is(err, huh.ErrUserAborted) {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !overwrite {
				fmt.Fprintln(ctx.out(), "Left existing scenario untouched.")
				return nil
			}
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to access scenario file: %w", err)
	}

	if err := backupScenario(ctx); err != nil {
		return err
	}
	ws := scenario.Default()
	if err := scenario.Save(path, c.Name, ws); err != nil {
		return err
	}
	ctx.Session.ReplaceWorkingSet(ws)
	ctx.FromFile = true
	fmt.Fprintf(ctx.out(), "Initialized scenario at: %s\n", path)
	return nil
}
