package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/upskills/internal/client/api"
	"github.com/dmitrijs2005/upskills/internal/client/config"
)

// initCollection creates a fresh collection and persists its token. The raw
// token is printed exactly once; the server only keeps a digest, so a lost
// token means a lost collection.
func (a *App) initCollection(ctx context.Context) error {
	col, err := a.api.CreateCollection(ctx)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	a.config.Token = col.Token
	a.api = api.New(a.config.BaseURL, a.config.Token)

	path, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	if err := config.Save(path, a.config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(a.out, "Collection %s created.\n", col.CollectionID)
	fmt.Fprintf(a.out, "Token (shown only once, keep it safe): %s\n", col.Token)
	fmt.Fprintf(a.out, "Config written to %s\n", path)
	return nil
}
