package cli

import (
	"bufio"
	"io"
	"os"

	"github.com/dmitrijs2005/upskills/internal/client/api"
	"github.com/dmitrijs2005/upskills/internal/client/config"
)

// App holds everything one CLI invocation needs: resolved configuration, an
// API client bound to the configured collection and the user-facing streams.
type App struct {
	config *config.Config
	api    *api.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		api:    api.New(c.BaseURL, c.Token),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
}
