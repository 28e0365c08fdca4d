package infra

import (
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
)

type Clients struct {
	scanRepository interfaces.ScanRepository
	workQueue      interfaces.WorkQueue
	broadcaster    interfaces.Broadcaster
	metrics        *metrics.Metrics
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) ScanRepository() interfaces.ScanRepository {
	return x.scanRepository
}

// WorkQueue returns nil when no queue is configured. Events are then
// published directly.
func (x *Clients) WorkQueue() interfaces.WorkQueue {
	return x.workQueue
}
func (x *Clients) Broadcaster() interfaces.Broadcaster {
	return x.broadcaster
}
func (x *Clients) Metrics() *metrics.Metrics {
	return x.metrics
}

func WithScanRepository(repo interfaces.ScanRepository) Option {
	return func(x *Clients) {
		x.scanRepository = repo
	}
}

func WithWorkQueue(queue interfaces.WorkQueue) Option {
	return func(x *Clients) {
		x.workQueue = queue
	}
}

func WithBroadcaster(broadcaster interfaces.Broadcaster) Option {
	return func(x *Clients) {
		x.broadcaster = broadcaster
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(x *Clients) {
		x.metrics = m
	}
}
