package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/upskills/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-b string   base URL of the backend API (default from Config)
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, so subcommand arguments like `add <url> --alias x`
// pass through untouched.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-base-url", "--base-url"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "b", cfg.BaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the backend API")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
