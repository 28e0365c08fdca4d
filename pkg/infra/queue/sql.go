package queue

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/database"
	"github.com/m-mizutani/scanstream/pkg/utils/safe"
)

// SQL keeps jobs in the event_jobs table. Any process connected to the same
// database can claim them.
type SQL struct {
	db  *database.DB
	cfg *config
}

var _ interfaces.WorkQueue = (*SQL)(nil)

func NewSQL(db *database.DB, opts ...Option) *SQL {
	return &SQL{db: db, cfg: newConfig(opts...)}
}

type jobRow struct {
	ID          int64           `db:"id"`
	Kind        types.EventKind `db:"kind"`
	Payload     string          `db:"payload"`
	Attempts    int             `db:"attempts"`
	MaxAttempts int             `db:"max_attempts"`
}

func (x *jobRow) toModel() *model.Job {
	return &model.Job{
		ID:          types.JobID(strconv.FormatInt(x.ID, 10)),
		Kind:        x.Kind,
		Payload:     []byte(x.Payload),
		Attempts:    x.Attempts,
		MaxAttempts: x.MaxAttempts,
	}
}

func parseJobID(job *model.Job) (int64, error) {
	id, err := strconv.ParseInt(string(job.ID), 10, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid job id", goerr.V("jobID", job.ID))
	}
	return id, nil
}

func (x *SQL) Enqueue(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	enqCfg := interfaces.NewEnqueueConfig(opts...)
	now := x.cfg.now()

	query := x.db.Rebind(`INSERT INTO event_jobs (kind, payload, attempts, max_attempts, state, available_at, locked_until, created_at)
		VALUES (?, ?, 0, ?, ?, ?, 0, ?)`)
	if _, err := x.db.ExecContext(ctx, query,
		kind, string(payload), enqCfg.MaxAttempts, stateWaiting, now.Add(enqCfg.Delay).UnixMilli(), now.UnixMilli(),
	); err != nil {
		return goerr.Wrap(err, "failed to enqueue job", goerr.V("kind", kind))
	}
	return nil
}

func (x *SQL) Claim(ctx context.Context, kind types.EventKind) (*model.Job, error) {
	now := x.cfg.now().UnixMilli()

	tx, err := x.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(tx)

	// A job whose last lease ran out with no attempts left is given up.
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE event_jobs SET state = ?, last_error = COALESCE(last_error, 'lease expired')
		WHERE kind = ? AND state = ? AND locked_until > 0 AND locked_until <= ? AND attempts >= max_attempts`),
		stateFailed, kind, stateWaiting, now,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to reap expired jobs", goerr.V("kind", kind))
	}

	query := `SELECT id, kind, payload, attempts, max_attempts FROM event_jobs
		WHERE kind = ? AND state = ? AND available_at <= ? AND locked_until <= ? AND attempts < max_attempts
		ORDER BY id LIMIT 1`
	if x.db.Driver() == database.DriverPostgres {
		query += ` FOR UPDATE SKIP LOCKED`
	}

	var row jobRow
	if err := tx.GetContext(ctx, &row, tx.Rebind(query), kind, stateWaiting, now, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if err := tx.Commit(); err != nil {
				return nil, goerr.Wrap(err, "failed to commit transaction")
			}
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to select job", goerr.V("kind", kind))
	}

	row.Attempts++
	if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE event_jobs SET attempts = ?, locked_until = ? WHERE id = ?`),
		row.Attempts, now+x.cfg.lease.Milliseconds(), row.ID,
	); err != nil {
		return nil, goerr.Wrap(err, "failed to lease job", goerr.V("id", row.ID))
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit transaction")
	}
	return row.toModel(), nil
}

func (x *SQL) Complete(ctx context.Context, job *model.Job) error {
	id, err := parseJobID(job)
	if err != nil {
		return err
	}

	res, err := x.db.ExecContext(ctx, x.db.Rebind(`DELETE FROM event_jobs WHERE id = ?`), id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete job", goerr.V("jobID", job.ID))
	}
	if n, err := res.RowsAffected(); err != nil {
		return goerr.Wrap(err, "failed to get affected rows")
	} else if n == 0 {
		return goerr.Wrap(types.ErrNotFound, "job not found", goerr.V("jobID", job.ID), goerr.V("kind", job.Kind))
	}
	return nil
}

func (x *SQL) Fail(ctx context.Context, job *model.Job, cause error) error {
	id, err := parseJobID(job)
	if err != nil {
		return err
	}

	var lastError *string
	if cause != nil {
		msg := cause.Error()
		lastError = &msg
	}

	return x.withTx(ctx, func(tx *sqlx.Tx) error {
		var row jobRow
		if err := tx.GetContext(ctx, &row,
			tx.Rebind(`SELECT id, kind, payload, attempts, max_attempts FROM event_jobs WHERE id = ?`), id,
		); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return goerr.Wrap(types.ErrNotFound, "job not found", goerr.V("jobID", job.ID), goerr.V("kind", job.Kind))
			}
			return goerr.Wrap(err, "failed to select job", goerr.V("jobID", job.ID))
		}

		if row.Attempts >= row.MaxAttempts {
			_, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE event_jobs SET state = ?, locked_until = 0, last_error = ? WHERE id = ?`),
				stateFailed, lastError, id)
			if err != nil {
				return goerr.Wrap(err, "failed to mark job as failed", goerr.V("jobID", job.ID))
			}
			return nil
		}

		availableAt := x.cfg.now().Add(x.cfg.retryDelay(row.Attempts)).UnixMilli()
		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE event_jobs SET locked_until = 0, available_at = ?, last_error = ? WHERE id = ?`),
			availableAt, lastError, id); err != nil {
			return goerr.Wrap(err, "failed to requeue job", goerr.V("jobID", job.ID))
		}
		return nil
	})
}

func (x *SQL) Stats(ctx context.Context, kind types.EventKind) (*Stats, error) {
	var rows []struct {
		State string `db:"state"`
		Count int    `db:"n"`
	}
	query := x.db.Rebind(`SELECT state, COUNT(*) AS n FROM event_jobs WHERE kind = ? GROUP BY state`)
	if err := x.db.SelectContext(ctx, &rows, query, kind); err != nil {
		return nil, goerr.Wrap(err, "failed to count jobs", goerr.V("kind", kind))
	}

	var stats Stats
	for _, r := range rows {
		switch r.State {
		case stateWaiting:
			stats.Waiting = r.Count
		case stateFailed:
			stats.Failed = r.Count
		}
	}
	return &stats, nil
}

func (x *SQL) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := x.db.BeginTxx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer safe.Rollback(tx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}
