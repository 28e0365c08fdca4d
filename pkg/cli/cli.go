package cli

import (
	"context"

	"github.com/m-mizutani/scanstream/pkg/cli/config"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type CLI struct {
}

func New() *CLI {
	return &CLI{}
}

// Run executes the command line in argv, where argv[0] is the program name.
func (x *CLI) Run(argv []string) error {
	var logCfg config.Logging

	app := &cli.Command{
		Name:  "scanstream",
		Usage: "Scan tracking API with real-time event streaming",
		Flags: logCfg.Flags(),
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := logCfg.Configure(); err != nil {
				return ctx, err
			}
			logging.Default().Debug("logging configured", "config", &logCfg)
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), argv); err != nil {
		logging.Default().Error("fatal error", "error", err)
		return err
	}

	return nil
}
