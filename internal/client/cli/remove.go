package cli

import (
	"context"
	"errors"
	"fmt"
)

func (a *App) remove(ctx context.Context, args []string) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errors.New("usage: remove <id>")
	}

	if err := a.api.DeleteSkill(ctx, args[0]); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Removed %s\n", args[0])
	return nil
}
