package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/urfave/cli/v3"
)

// DriverMemory keeps everything in process memory. Nothing survives a
// restart.
const DriverMemory = "memory"

type Database struct {
	driver string
	dsn    types.DatabaseDSN
}

func (x *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "db-driver",
			Usage:       "Storage backend [memory|sqlite|postgres]",
			Category:    "Database",
			Value:       DriverMemory,
			Sources:     cli.EnvVars("SCANSTREAM_DB_DRIVER"),
			Destination: &x.driver,
		},
		&cli.StringFlag{
			Name:        "db-dsn",
			Usage:       "Database DSN, a file path for sqlite",
			Category:    "Database",
			Sources:     cli.EnvVars("SCANSTREAM_DB_DSN"),
			Destination: (*string)(&x.dsn),
		},
	}
}

func (x *Database) Enabled() bool {
	return x.driver != DriverMemory
}

// Open connects to the configured database. It returns nil for the memory
// driver.
func (x *Database) Open(ctx context.Context) (*database.DB, error) {
	if !x.Enabled() {
		return nil, nil
	}

	driver := database.Driver(x.driver)
	if err := driver.Validate(); err != nil {
		return nil, err
	}
	if x.dsn == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "db-dsn is required", goerr.V("driver", x.driver))
	}

	return database.Open(ctx, driver, x.dsn)
}

func (x *Database) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("Driver", x.driver),
		slog.Any("DSN", x.dsn),
	)
}
