package queue

import (
	"time"
)

const (
	DefaultLease   = 30 * time.Second
	DefaultBackoff = time.Second

	stateWaiting = "waiting"
	stateFailed  = "failed"
)

// Stats counts jobs left in one lane. Waiting includes leased jobs; completed
// jobs are removed and never counted.
type Stats struct {
	Waiting int `json:"waiting"`
	Failed  int `json:"failed"`
}

type config struct {
	lease   time.Duration
	backoff time.Duration
	now     func() time.Time
}

type Option func(*config)

// WithLease sets how long a claimed job stays invisible before it is handed
// to another consumer.
func WithLease(d time.Duration) Option {
	return func(c *config) {
		c.lease = d
	}
}

// WithBackoff sets the base delay before a failed job is retried. The delay
// grows linearly with the attempt count.
func WithBackoff(d time.Duration) Option {
	return func(c *config) {
		c.backoff = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		lease:   DefaultLease,
		backoff: DefaultBackoff,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (x *config) retryDelay(attempts int) time.Duration {
	return x.backoff * time.Duration(attempts)
}
