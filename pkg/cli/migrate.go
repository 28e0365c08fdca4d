package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/cli/config"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
	"github.com/m-mizutani/scanstream/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func migrateCommand() *cli.Command {
	var database config.Database

	return &cli.Command{
		Name:  "migrate",
		Usage: "Create or update the database schema",
		Flags: database.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("starting migrate", slog.Any("Database", &database))

			if !database.Enabled() {
				return goerr.New("migrate requires a database driver other than memory")
			}

			db, err := database.Open(ctx)
			if err != nil {
				return err
			}
			defer safe.Close(db)

			if err := db.Migrate(ctx); err != nil {
				return err
			}

			logging.Default().Info("schema is up to date", "driver", db.Driver())
			return nil
		},
	}
}
