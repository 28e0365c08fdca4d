package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/m-mizutani/scanstream/pkg/utils/testutil"
)

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()

	t.Run("in-memory database migrates twice", func(t *testing.T) {
		db := gt.R1(database.Open(ctx, database.DriverSQLite, ":memory:")).NoError(t)
		defer db.Close()

		gt.V(t, db.Driver()).Equal(database.DriverSQLite)
		gt.NoError(t, db.Migrate(ctx))
		gt.NoError(t, db.Migrate(ctx))

		var count int
		gt.NoError(t, db.GetContext(ctx, &count,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('projects', 'scans', 'scan_files', 'vulnerabilities', 'event_jobs')`))
		gt.V(t, count).Equal(5)
	})

	t.Run("foreign keys are enforced", func(t *testing.T) {
		db := gt.R1(database.Open(ctx, database.DriverSQLite, ":memory:")).NoError(t)
		defer db.Close()
		gt.NoError(t, db.Migrate(ctx))

		var enabled int
		gt.NoError(t, db.GetContext(ctx, &enabled, `PRAGMA foreign_keys`))
		gt.V(t, enabled).Equal(1)
	})

	t.Run("file database uses WAL", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "scanstream.db")
		db := gt.R1(database.Open(ctx, database.DriverSQLite, types.DatabaseDSN("file:"+path))).NoError(t)
		defer db.Close()

		var mode string
		gt.NoError(t, db.GetContext(ctx, &mode, `PRAGMA journal_mode`))
		gt.V(t, mode).Equal("wal")
	})
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := database.Open(context.Background(), database.Driver("mysql"), "dsn")
	gt.Error(t, err)
}

func TestOpenPostgres(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	ctx := context.Background()

	db := gt.R1(database.Open(ctx, database.DriverPostgres, dsn)).NoError(t)
	defer db.Close()
	gt.NoError(t, db.Migrate(ctx))
	gt.NoError(t, db.Migrate(ctx))
}
