package sqlrepo_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/m-mizutani/scanstream/pkg/repository/sqlrepo"
	"github.com/m-mizutani/scanstream/pkg/repository/testhelper"
	"github.com/m-mizutani/scanstream/pkg/utils/testutil"
)

func TestSQLiteScanRepository(t *testing.T) {
	ctx := context.Background()
	db := gt.R1(database.Open(ctx, database.DriverSQLite, ":memory:")).NoError(t)
	t.Cleanup(func() { _ = db.Close() })
	gt.NoError(t, db.Migrate(ctx))

	testhelper.TestAll(t, sqlrepo.New(db))
}

func TestPostgresScanRepository(t *testing.T) {
	dsn := testutil.PostgresDSN(t)
	ctx := context.Background()

	db := gt.R1(database.Open(ctx, database.DriverPostgres, dsn)).NoError(t)
	t.Cleanup(func() { _ = db.Close() })
	gt.NoError(t, db.Migrate(ctx))

	testhelper.TestAll(t, sqlrepo.New(db))
}
