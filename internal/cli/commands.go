package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mrlokans/library-catalog/internal/entrypoint"
)

// ServeCommand starts the HTTP server.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Start the HTTP server (default if no command given)",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	return entrypoint.Run(Config(c), Version)
}

// MigrateCommand applies the schema without serving.
func MigrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema and exit",
		Action: func(c *cli.Context) error {
			return entrypoint.Migrate(Config(c))
		},
	}
}

// PruneAuditCommand deletes old audit events once, outside the scheduler.
func PruneAuditCommand() *cli.Command {
	return &cli.Command{
		Name:  "prune-audit",
		Usage: "Delete audit events older than the retention period",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "days",
				Usage: "Retention in days (defaults to AUDIT_RETENTION_DAYS)",
			},
		},
		Action: func(c *cli.Context) error {
			deleted, err := entrypoint.PruneAudit(c.Context, Config(c), c.Int("days"))
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Deleted %d audit events\n", deleted)
			return nil
		},
	}
}
