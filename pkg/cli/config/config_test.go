package config_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/cli/config"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/urfave/cli/v3"
)

func parse(t *testing.T, flags []cli.Flag, args ...string) {
	t.Helper()
	cmd := &cli.Command{
		Name:   "test",
		Flags:  flags,
		Action: func(ctx context.Context, c *cli.Command) error { return nil },
	}
	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
}

func render(t *testing.T, key string, v slog.LogValuer) string {
	t.Helper()
	var buf bytes.Buffer
	slog.New(slog.NewTextHandler(&buf, nil)).Info("config", slog.Any(key, v))
	return buf.String()
}

func TestDatabase(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		var cfg config.Database
		parse(t, cfg.Flags())
		gt.V(t, cfg.Enabled()).Equal(false)

		db, err := cfg.Open(ctx)
		gt.NoError(t, err)
		gt.V(t, db == nil).Equal(true)
	})

	t.Run("sqlite", func(t *testing.T) {
		var cfg config.Database
		parse(t, cfg.Flags(), "--db-driver", "sqlite", "--db-dsn", ":memory:")
		gt.True(t, cfg.Enabled())

		db := gt.R1(cfg.Open(ctx)).NoError(t)
		defer db.Close()
		gt.V(t, db.Driver()).Equal(database.DriverSQLite)
		gt.NoError(t, db.Migrate(ctx))
	})

	t.Run("dsn required", func(t *testing.T) {
		var cfg config.Database
		parse(t, cfg.Flags(), "--db-driver", "postgres")
		_, err := cfg.Open(ctx)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("unknown driver", func(t *testing.T) {
		var cfg config.Database
		parse(t, cfg.Flags(), "--db-driver", "mysql", "--db-dsn", "x")
		_, err := cfg.Open(ctx)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("dsn is masked in logs", func(t *testing.T) {
		var cfg config.Database
		parse(t, cfg.Flags(), "--db-driver", "postgres", "--db-dsn", "postgres://user:hunter2@db/scans")
		out := render(t, "db", &cfg)
		gt.True(t, strings.Contains(out, "postgres"))
		gt.V(t, strings.Contains(out, "hunter2")).Equal(false)
	})
}

func TestQueue(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg config.Queue
		parse(t, cfg.Flags())
		gt.True(t, cfg.Enabled())
		gt.V(t, len(cfg.Options())).Equal(2)
		gt.V(t, len(cfg.UseCaseOptions())).Equal(2)

		out := render(t, "queue", &cfg)
		gt.True(t, strings.Contains(out, "queue.Lease=30s"))
		gt.True(t, strings.Contains(out, "queue.PollInterval=500ms"))
	})

	t.Run("overrides", func(t *testing.T) {
		var cfg config.Queue
		parse(t, cfg.Flags(),
			"--queue-disabled",
			"--queue-lease", "1m",
			"--dispatch-rate", "20",
			"--dispatch-burst", "5",
		)
		gt.V(t, cfg.Enabled()).Equal(false)

		out := render(t, "queue", &cfg)
		gt.True(t, strings.Contains(out, "queue.Lease=1m0s"))
		gt.True(t, strings.Contains(out, "queue.DispatchRate=20"))
		gt.True(t, strings.Contains(out, "queue.DispatchBurst=5"))
	})
}

func TestServer(t *testing.T) {
	var cfg config.Server
	parse(t, cfg.Flags(),
		"--jwt-secret", "very-secret-value",
		"--ws-origin", "app.example.com",
		"--ws-origin", "*.example.org",
		"--ws-buffer-size", "16",
	)

	gt.V(t, len(cfg.Options())).Equal(2)
	gt.V(t, len(cfg.HubOptions())).Equal(1)

	out := render(t, "server", &cfg)
	gt.V(t, strings.Contains(out, "very-secret-value")).Equal(false)
	gt.True(t, strings.Contains(out, "app.example.com"))
	gt.True(t, strings.Contains(out, "server.BufferSize=16"))
}
