package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/upskills/internal/client/api"
)

func (a *App) list(ctx context.Context) error {
	if err := a.requireToken(); err != nil {
		return err
	}

	items, err := a.api.ListSkills(ctx)
	if err != nil {
		return err
	}

	a.printItems(items)
	return nil
}

func (a *App) search(ctx context.Context, args []string) error {
	if err := a.requireToken(); err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: search <query>")
	}

	items, err := a.api.SearchSkills(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	a.printItems(items)
	return nil
}

func (a *App) printItems(items []api.SkillSummary) {
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No skills found.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tALIAS\tNAME\tSOURCE")
	for _, item := range items {
		alias := "-"
		if item.Alias != nil {
			alias = *item.Alias
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, alias, item.Name, item.SourceURL)
	}
	tw.Flush()
}
