package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/upskills/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8787")
//	-d string   PostgreSQL DSN
//	-s string   token digest salt
//	-t int      upstream fetch timeout, seconds
//	-m int      max fetched SKILL.md size, bytes
//	-l int      max source URL length, characters
//	-o string   comma-separated allowed source hosts
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - The fetch timeout is accepted as an integer in seconds and converted to
//     a time.Duration.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-l", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.TokenSalt, "s", config.TokenSalt, "token digest salt")

	fetchTimeout := fs.Int("t", int(config.FetchTimeout.Seconds()), "fetch_timeout (in seconds)")
	fs.Int64Var(&config.MaxSkillBytes, "m", config.MaxSkillBytes, "max SKILL.md response size (bytes)")
	fs.IntVar(&config.MaxURLLength, "l", config.MaxURLLength, "max source URL length")

	allowedHosts := fs.String("o", strings.Join(config.AllowedHosts, ","), "comma-separated allowed source hosts")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.FetchTimeout = time.Duration(*fetchTimeout) * time.Second
	if *allowedHosts != "" {
		config.AllowedHosts = strings.Split(*allowedHosts, ",")
	}
}
