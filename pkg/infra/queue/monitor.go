package queue

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const DefaultMonitorInterval = 15 * time.Second

// StatsReader is implemented by both SQL and Memory.
type StatsReader interface {
	Stats(ctx context.Context, kind types.EventKind) (*Stats, error)
}

// Sample records the current depth of every lane in m.
func Sample(ctx context.Context, q StatsReader, m *metrics.Metrics) error {
	for _, kind := range types.EventKinds {
		stats, err := q.Stats(ctx, kind)
		if err != nil {
			return goerr.Wrap(err, "failed to read queue stats", goerr.V("kind", kind))
		}
		m.SetQueueDepth(kind, stats.Waiting, stats.Failed)
	}
	return nil
}

// Monitor samples the queue right away and then every interval until ctx is
// cancelled.
func Monitor(ctx context.Context, q StatsReader, m *metrics.Metrics, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := Sample(ctx, q, m); err != nil && ctx.Err() == nil {
			logging.From(ctx).Warn("failed to sample queue depth", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
