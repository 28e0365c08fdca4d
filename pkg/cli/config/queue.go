package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/scanstream/pkg/infra/queue"
	"github.com/m-mizutani/scanstream/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Queue configures the durable event queue and the dispatchers draining it.
type Queue struct {
	disabled      bool
	lease         time.Duration
	backoff       time.Duration
	pollInterval  time.Duration
	dispatchRate  float64
	dispatchBurst int64
}

func (x *Queue) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "queue-disabled",
			Usage:       "Publish events directly instead of queueing them",
			Category:    "Queue",
			Sources:     cli.EnvVars("SCANSTREAM_QUEUE_DISABLED"),
			Destination: &x.disabled,
		},
		&cli.DurationFlag{
			Name:        "queue-lease",
			Usage:       "How long a claimed event stays hidden from other dispatchers",
			Category:    "Queue",
			Value:       queue.DefaultLease,
			Sources:     cli.EnvVars("SCANSTREAM_QUEUE_LEASE"),
			Destination: &x.lease,
		},
		&cli.DurationFlag{
			Name:        "queue-backoff",
			Usage:       "Base delay before a failed event is retried",
			Category:    "Queue",
			Value:       queue.DefaultBackoff,
			Sources:     cli.EnvVars("SCANSTREAM_QUEUE_BACKOFF"),
			Destination: &x.backoff,
		},
		&cli.DurationFlag{
			Name:        "dispatch-poll-interval",
			Usage:       "Idle wait between claims of an empty queue",
			Category:    "Queue",
			Value:       usecase.DefaultPollInterval,
			Sources:     cli.EnvVars("SCANSTREAM_DISPATCH_POLL_INTERVAL"),
			Destination: &x.pollInterval,
		},
		&cli.FloatFlag{
			Name:        "dispatch-rate",
			Usage:       "Events per second forwarded by each dispatcher, 0 for no limit",
			Category:    "Queue",
			Sources:     cli.EnvVars("SCANSTREAM_DISPATCH_RATE"),
			Destination: &x.dispatchRate,
		},
		&cli.Int64Flag{
			Name:        "dispatch-burst",
			Usage:       "Burst size allowed by dispatch-rate",
			Category:    "Queue",
			Value:       1,
			Sources:     cli.EnvVars("SCANSTREAM_DISPATCH_BURST"),
			Destination: &x.dispatchBurst,
		},
	}
}

func (x *Queue) Enabled() bool {
	return !x.disabled
}

func (x *Queue) Options() []queue.Option {
	return []queue.Option{
		queue.WithLease(x.lease),
		queue.WithBackoff(x.backoff),
	}
}

func (x *Queue) UseCaseOptions() []usecase.Option {
	return []usecase.Option{
		usecase.WithPollInterval(x.pollInterval),
		usecase.WithDispatchRate(x.dispatchRate, int(x.dispatchBurst)),
	}
}

func (x *Queue) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("Enabled", x.Enabled()),
		slog.Duration("Lease", x.lease),
		slog.Duration("Backoff", x.backoff),
		slog.Duration("PollInterval", x.pollInterval),
		slog.Float64("DispatchRate", x.dispatchRate),
		slog.Int64("DispatchBurst", x.dispatchBurst),
	)
}
