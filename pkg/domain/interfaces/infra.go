package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . WorkQueue Broadcaster

import (
	"context"
	"time"

	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

const (
	DefaultMaxAttempts = 2
)

type EnqueueOption func(*EnqueueConfig)

type EnqueueConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

func NewEnqueueConfig(opts ...EnqueueOption) *EnqueueConfig {
	cfg := &EnqueueConfig{MaxAttempts: DefaultMaxAttempts}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return cfg
}

func WithMaxAttempts(n int) EnqueueOption {
	return func(c *EnqueueConfig) {
		c.MaxAttempts = n
	}
}

func WithDelay(d time.Duration) EnqueueOption {
	return func(c *EnqueueConfig) {
		c.Delay = d
	}
}

// WorkQueue is an at-least-once delivery channel with one FIFO lane per
// event kind. Completed jobs are removed.
type WorkQueue interface {
	Enqueue(ctx context.Context, kind types.EventKind, payload []byte, opts ...EnqueueOption) error
	// Claim leases the oldest available job of the kind. It returns nil when
	// the lane is empty.
	Claim(ctx context.Context, kind types.EventKind) (*model.Job, error)
	Complete(ctx context.Context, job *model.Job) error
	Fail(ctx context.Context, job *model.Job, cause error) error
}

// Broadcaster pushes messages to every connected subscriber without waiting
// for acknowledgement.
type Broadcaster interface {
	PublishProgress(ctx context.Context, ev model.ProgressEvent) error
	PublishVulnerability(ctx context.Context, ev model.VulnerabilityEvent) error
	PublishComplete(ctx context.Context, ev model.CompleteEvent) error
}
