package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/upskills/internal/flagx"
)

// globalFlags are configuration flags handled by the config package. They are
// stripped before command dispatch so `up-skills -b http://x list` works.
var globalFlags = []string{"-b", "-base-url", "--base-url", "-c", "-config", "--config"}

// Run dispatches one command and returns its error the caller should report.
func (a *App) Run(ctx context.Context, args []string) error {

	args = flagx.ExcludeArgs(args, globalFlags)

	if len(args) == 0 {
		a.usage()
		return nil
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "init":
		return a.initCollection(ctx)
	case "auth":
		return a.auth(ctx)
	case "add":
		return a.add(ctx, rest)
	case "list":
		return a.list(ctx)
	case "search":
		return a.search(ctx, rest)
	case "get":
		return a.get(ctx, rest)
	case "remove":
		return a.remove(ctx, rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

// requireToken guards commands that act on an existing collection.
func (a *App) requireToken() error {
	if a.config.Token == "" {
		return errors.New("no token configured, run 'init' or 'auth' first")
	}
	return nil
}

func (a *App) usage() {
	fmt.Fprint(a.out, `up-skills - manage a collection of remote SKILL.md pointers

Usage:
  up-skills [flags] <command> [arguments]

Commands:
  init                   create a new collection and store its token
  auth                   store the token of an existing collection
  add <url> [--alias a]  register a SKILL.md pointer
  list                   list registered skills
  search <query>         search skills by substring
  get <id> [--json]      revalidate and print a skill
  remove <id>            delete a skill
  help                   print this help

Flags:
  -b, --base-url <url>   base URL of the backend API
  -c, -config <path>     path to the config file
`)
}
