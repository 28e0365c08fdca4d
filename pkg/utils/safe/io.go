package safe

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

// Close closes closer and logs a failure. Already closed resources are
// ignored.
func Close(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && !isClosed(err) {
		logging.Default().Warn("failed to close resource", slog.Any("error", err))
	}
}

// Rollback aborts tx. It is a no-op after Commit, so it can always be deferred.
func Rollback(tx *sqlx.Tx) {
	if tx == nil {
		return
	}
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		logging.Default().Warn("failed to rollback transaction", slog.Any("error", err))
	}
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) || errors.Is(err, sql.ErrConnDone)
}
