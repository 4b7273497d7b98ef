package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// add registers a remote SKILL.md pointer in the collection.
func (a *App) add(ctx context.Context, args []string) error {
	if err := a.requireToken(); err != nil {
		return err
	}

	sourceURL, alias, err := parseAddArgs(args)
	if err != nil {
		return err
	}

	s, err := a.api.RegisterSkill(ctx, sourceURL, alias)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Registered %s (%s)\n", s.Name, s.ID)
	return nil
}

// parseAddArgs accepts the URL and an optional --alias in either order:
//
//	add <url> --alias demo
//	add --alias=demo <url>
func parseAddArgs(args []string) (string, *string, error) {
	var (
		sourceURL string
		alias     *string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--alias" || arg == "-alias":
			if i+1 >= len(args) {
				return "", nil, errors.New("--alias requires a value")
			}
			i++
			v := args[i]
			alias = &v
		case strings.HasPrefix(arg, "--alias=") || strings.HasPrefix(arg, "-alias="):
			v := strings.SplitN(arg, "=", 2)[1]
			alias = &v
		case strings.HasPrefix(arg, "-"):
			return "", nil, fmt.Errorf("unknown flag: %s", arg)
		case sourceURL == "":
			sourceURL = arg
		default:
			return "", nil, fmt.Errorf("unexpected argument: %s", arg)
		}
	}

	if sourceURL == "" {
		return "", nil, errors.New("usage: add <url> [--alias a]")
	}
	return sourceURL, alias, nil
}
