package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/utils/errutil"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Dispatcher drains one lane of the work queue and forwards each payload to
// the broadcaster unchanged.
type Dispatcher struct {
	kind         types.EventKind
	queue        interfaces.WorkQueue
	broadcaster  interfaces.Broadcaster
	metrics      *metrics.Metrics
	limiter      *rate.Limiter
	pollInterval time.Duration
}

// NewDispatcher returns a dispatcher for the kind. The queue and broadcaster
// must be configured.
func (x *UseCase) NewDispatcher(kind types.EventKind) (*Dispatcher, error) {
	if err := kind.Validate(); err != nil {
		return nil, err
	}
	if x.clients.WorkQueue() == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "work queue is required for dispatcher", goerr.V("kind", kind))
	}
	if x.clients.Broadcaster() == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "broadcaster is required for dispatcher", goerr.V("kind", kind))
	}

	return &Dispatcher{
		kind:         kind,
		queue:        x.clients.WorkQueue(),
		broadcaster:  x.clients.Broadcaster(),
		metrics:      x.clients.Metrics(),
		limiter:      rate.NewLimiter(x.dispatchRate, x.dispatchBurst),
		pollInterval: x.pollInterval,
	}, nil
}

// DispatchOnce handles at most one job. It reports whether a job was claimed.
// A job that cannot be decoded or published is failed back to the queue.
func (x *Dispatcher) DispatchOnce(ctx context.Context) (bool, error) {
	job, err := x.queue.Claim(ctx, x.kind)
	if err != nil {
		return false, goerr.Wrap(err, "failed to claim job", goerr.V("kind", x.kind))
	}
	if job == nil {
		return false, nil
	}

	if err := x.limiter.Wait(ctx); err != nil {
		// The lease expires and the job is redelivered later.
		return true, goerr.Wrap(err, "dispatch interrupted", goerr.V("job_id", job.ID))
	}

	if err := x.forward(ctx, job); err != nil {
		x.metrics.JobFailed(x.kind)
		logging.From(ctx).Warn("failed to dispatch job",
			"kind", x.kind,
			"job_id", job.ID,
			"attempts", job.Attempts,
			"max_attempts", job.MaxAttempts,
			"error", err,
		)
		if failErr := x.queue.Fail(ctx, job, err); failErr != nil {
			return true, goerr.Wrap(failErr, "failed to mark job as failed", goerr.V("job_id", job.ID))
		}
		return true, nil
	}

	if err := x.queue.Complete(ctx, job); err != nil {
		return true, goerr.Wrap(err, "failed to complete job", goerr.V("job_id", job.ID))
	}
	x.metrics.Dispatched(x.kind)
	return true, nil
}

func (x *Dispatcher) forward(ctx context.Context, job *model.Job) error {
	ev, err := model.DecodeEvent(job.Kind, job.Payload)
	if err != nil {
		return err
	}
	return publishEvent(ctx, x.broadcaster, ev)
}

// Run dispatches until ctx is cancelled. Errors are reported and the loop
// backs off for one poll interval.
func (x *Dispatcher) Run(ctx context.Context) error {
	logging.From(ctx).Info("dispatcher started", "kind", x.kind)
	defer logging.From(ctx).Info("dispatcher stopped", "kind", x.kind)

	for {
		claimed, err := x.DispatchOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			errutil.HandleError(ctx, "dispatcher error", err)
		}
		if claimed && err == nil {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(x.pollInterval):
		}
	}
}

// RunDispatchers runs one dispatcher per event kind until ctx is cancelled or
// one of them fails to start.
func (x *UseCase) RunDispatchers(ctx context.Context) error {
	dispatchers := make([]*Dispatcher, 0, len(types.EventKinds))
	for _, kind := range types.EventKinds {
		d, err := x.NewDispatcher(kind)
		if err != nil {
			return err
		}
		dispatchers = append(dispatchers, d)
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, d := range dispatchers {
		eg.Go(func() error {
			return d.Run(ctx)
		})
	}
	return eg.Wait()
}
