package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// get revalidates the skill against its upstream and prints it. By default
// only the raw document body is written, so the output can be piped straight
// into a file; --json prints the whole record instead.
func (a *App) get(ctx context.Context, args []string) error {
	if err := a.requireToken(); err != nil {
		return err
	}

	id, asJSON, err := parseGetArgs(args)
	if err != nil {
		return err
	}

	d, err := a.api.GetSkill(ctx, id)
	if err != nil {
		return err
	}

	if asJSON {
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(data))
		return nil
	}

	if d.Content == nil {
		return nil
	}
	fmt.Fprint(a.out, *d.Content)
	if !strings.HasSuffix(*d.Content, "\n") {
		fmt.Fprintln(a.out)
	}
	return nil
}

func parseGetArgs(args []string) (string, bool, error) {
	var (
		id     string
		asJSON bool
	)

	for _, arg := range args {
		switch {
		case arg == "--json" || arg == "-json":
			asJSON = true
		case strings.HasPrefix(arg, "-"):
			return "", false, fmt.Errorf("unknown flag: %s", arg)
		case id == "":
			id = arg
		default:
			return "", false, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if id == "" {
		return "", false, errors.New("usage: get <id> [--json]")
	}
	return id, asJSON, nil
}
