package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (x Driver) Validate() error {
	switch x {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return goerr.Wrap(types.ErrInvalidOption, "unsupported database driver", goerr.V("driver", x))
	}
}

func init() {
	sqlx.BindDriver(string(DriverSQLite), sqlx.QUESTION)
}

// DB is a sqlx handle that remembers which dialect it speaks.
type DB struct {
	*sqlx.DB
	driver Driver
}

func (x *DB) Driver() Driver { return x.driver }

// Open connects to the database and applies driver specific session settings.
func Open(ctx context.Context, driver Driver, dsn types.DatabaseDSN) (*DB, error) {
	if err := driver.Validate(); err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, string(driver), string(dsn))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to connect to database", goerr.V("driver", driver))
	}

	if driver == DriverSQLite {
		// modernc.org/sqlite serializes writers; one connection avoids SQLITE_BUSY
		// and keeps :memory: databases shared across queries.
		db.SetMaxOpenConns(1)

		pragmas := []string{"PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"}
		if !isMemoryDSN(string(dsn)) {
			pragmas = append(pragmas, "PRAGMA journal_mode=WAL")
		}
		for _, pragma := range pragmas {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, goerr.Wrap(err, "failed to set sqlite pragma", goerr.V("pragma", pragma))
			}
		}
	}

	logging.From(ctx).Debug("database connected", "driver", driver)

	return &DB{DB: db, driver: driver}, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}

// Migrate creates every table used by the store and the work queue. It is
// safe to run repeatedly.
func (x *DB) Migrate(ctx context.Context) error {
	var stmts []string
	switch x.driver {
	case DriverPostgres:
		stmts = postgresSchema
	case DriverSQLite:
		stmts = sqliteSchema
	}

	for _, stmt := range stmts {
		if _, err := x.ExecContext(ctx, stmt); err != nil {
			return goerr.Wrap(err, "failed to migrate schema",
				goerr.V("driver", x.driver),
				goerr.V("statement", firstLine(stmt)),
			)
		}
	}

	logging.From(ctx).Info("database schema migrated", "driver", x.driver, "statements", len(stmts))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
