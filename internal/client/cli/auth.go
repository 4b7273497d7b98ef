package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/upskills/internal/client/api"
	"github.com/dmitrijs2005/upskills/internal/client/config"
)

// getToken is an indirection used to facilitate testing. It points to the
// interactive input helper and can be swapped in tests.
var getToken = GetToken

// auth stores the token of an existing collection. The token is verified
// with a listing call before it is written, so a typo fails loudly instead
// of poisoning the config file.
func (a *App) auth(ctx context.Context) error {
	token, err := getToken(a.out)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("empty token")
	}

	probe := api.New(a.config.BaseURL, token)
	if _, err := probe.ListSkills(ctx); err != nil {
		return fmt.Errorf("token rejected by %s: %w", a.config.BaseURL, err)
	}

	a.config.Token = token
	a.api = probe

	path, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}
	if err := config.Save(path, a.config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintf(a.out, "Token saved to %s\n", path)
	return nil
}
