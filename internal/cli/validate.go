package cli

import (
	"encoding/json"
	"fmt"

	"github.com/julianstephens/optimisable/internal/render"
	"github.com/julianstephens/optimisable/internal/validation"
)

type ValidateCmd struct {
	JSON bool `help:"Print the conflicts as JSON."`
}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	result := validation.New().ValidateWorkingSet(ctx.Session.WorkingSet())

	w := ctx.out()
	if cmd.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Conflicts); err != nil {
			return fmt.Errorf("failed to encode conflicts: %w", err)
		}
	} else {
		fmt.Fprintln(w, render.Conflicts(result))
	}
	return result.Err()
}
