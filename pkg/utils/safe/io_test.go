package safe_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/m-mizutani/scanstream/pkg/utils/safe"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestClose(t *testing.T) {
	testCases := []struct {
		name   string
		closer io.Closer
	}{
		{name: "reader", closer: io.NopCloser(bytes.NewReader([]byte("test")))},
		{name: "nil", closer: nil},
		{name: "eof", closer: closerFunc(func() error { return io.EOF })},
		{name: "failure is only logged", closer: closerFunc(func() error { return errors.New("disk gone") })},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			safe.Close(tc.closer)
		})
	}

	t.Run("file closed twice", func(t *testing.T) {
		fd := gt.R1(os.Create(filepath.Join(t.TempDir(), "f"))).NoError(t)
		safe.Close(fd)
		safe.Close(fd)
	})
}

func TestRollback(t *testing.T) {
	ctx := context.Background()
	db := gt.R1(database.Open(ctx, database.DriverSQLite, ":memory:")).NoError(t)
	defer safe.Close(db)
	_, err := db.ExecContext(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY)`)
	gt.NoError(t, err)

	t.Run("nil transaction", func(t *testing.T) {
		safe.Rollback(nil)
	})

	t.Run("uncommitted work is discarded", func(t *testing.T) {
		tx := gt.R1(db.BeginTxx(ctx, nil)).NoError(t)
		_, err := tx.ExecContext(ctx, `INSERT INTO items (id) VALUES (1)`)
		gt.NoError(t, err)
		safe.Rollback(tx)

		var n int
		gt.NoError(t, db.GetContext(ctx, &n, `SELECT COUNT(*) FROM items`))
		gt.V(t, n).Equal(0)
	})

	t.Run("after commit", func(t *testing.T) {
		tx := gt.R1(db.BeginTxx(ctx, nil)).NoError(t)
		_, err := tx.ExecContext(ctx, `INSERT INTO items (id) VALUES (2)`)
		gt.NoError(t, err)
		gt.NoError(t, tx.Commit())
		safe.Rollback(tx)

		var n int
		gt.NoError(t, db.GetContext(ctx, &n, `SELECT COUNT(*) FROM items`))
		gt.V(t, n).Equal(1)
	})
}
