// Package cli defines the catalog command line: the server itself plus the
// maintenance commands that share its configuration.
package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mrlokans/library-catalog/internal/config"
)

// Build information, set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

const configKey = "config"

// App creates the CLI application. Running it without a command serves the API.
func App() *cli.App {
	return &cli.App{
		Name:    "library-catalog",
		Usage:   "Library catalog REST API",
		Version: fmt.Sprintf("%s (commit: %s)", Version, Commit),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ServeCommand(),
			MigrateCommand(),
			PruneAuditCommand(),
		},
		Before: loadConfig,
		Action: serve,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "db",
			Usage: "Path to the SQLite database file (overrides DATABASE_PATH)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: trace, debug, info, warn, error (overrides LOG_LEVEL)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
	}
}

// loadConfig reads the environment once and applies flag overrides.
func loadConfig(c *cli.Context) error {
	cfg := config.NewConfig()
	applyFlags(c, cfg)
	c.App.Metadata[configKey] = cfg
	return nil
}

func applyFlags(c *cli.Context, cfg *config.Config) {
	if db := c.String("db"); db != "" {
		cfg.Database.Path = db
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if c.Bool("verbose") {
		cfg.Logging.Level = "debug"
	}
}

// Config returns the configuration loaded by the Before hook.
func Config(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.NewConfig()
}
