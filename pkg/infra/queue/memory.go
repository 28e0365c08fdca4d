package queue

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
)

type memoryJob struct {
	job         model.Job
	state       string
	availableAt time.Time
	lockedUntil time.Time
	lastError   string
}

// Memory is a process local work queue. Jobs do not survive a restart.
type Memory struct {
	mu    sync.Mutex
	seq   int64
	lanes map[types.EventKind][]*memoryJob
	cfg   *config
}

var _ interfaces.WorkQueue = (*Memory)(nil)

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		lanes: make(map[types.EventKind][]*memoryJob),
		cfg:   newConfig(opts...),
	}
}

func (x *Memory) Enqueue(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
	if err := kind.Validate(); err != nil {
		return err
	}
	enqCfg := interfaces.NewEnqueueConfig(opts...)

	x.mu.Lock()
	defer x.mu.Unlock()

	x.seq++
	x.lanes[kind] = append(x.lanes[kind], &memoryJob{
		job: model.Job{
			ID:          types.JobID(strconv.FormatInt(x.seq, 10)),
			Kind:        kind,
			Payload:     slices.Clone(payload),
			MaxAttempts: enqCfg.MaxAttempts,
		},
		state:       stateWaiting,
		availableAt: x.cfg.now().Add(enqCfg.Delay),
	})
	return nil
}

func (x *Memory) Claim(ctx context.Context, kind types.EventKind) (*model.Job, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	now := x.cfg.now()
	for _, j := range x.lanes[kind] {
		if j.state != stateWaiting {
			continue
		}
		leaseExpired := !j.lockedUntil.IsZero() && !j.lockedUntil.After(now)
		if leaseExpired && j.job.Attempts >= j.job.MaxAttempts {
			j.state = stateFailed
			j.lastError = "lease expired"
			continue
		}
		if j.availableAt.After(now) || j.lockedUntil.After(now) {
			continue
		}

		j.job.Attempts++
		j.lockedUntil = now.Add(x.cfg.lease)
		cpy := j.job
		cpy.Payload = slices.Clone(j.job.Payload)
		return &cpy, nil
	}

	return nil, nil
}

func (x *Memory) Complete(ctx context.Context, job *model.Job) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	lane := x.lanes[job.Kind]
	idx := slices.IndexFunc(lane, func(j *memoryJob) bool { return j.job.ID == job.ID })
	if idx < 0 {
		return goerr.Wrap(types.ErrNotFound, "job not found", goerr.V("jobID", job.ID), goerr.V("kind", job.Kind))
	}
	x.lanes[job.Kind] = slices.Delete(lane, idx, idx+1)
	return nil
}

func (x *Memory) Fail(ctx context.Context, job *model.Job, cause error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	lane := x.lanes[job.Kind]
	idx := slices.IndexFunc(lane, func(j *memoryJob) bool { return j.job.ID == job.ID })
	if idx < 0 {
		return goerr.Wrap(types.ErrNotFound, "job not found", goerr.V("jobID", job.ID), goerr.V("kind", job.Kind))
	}

	j := lane[idx]
	if cause != nil {
		j.lastError = cause.Error()
	}
	j.lockedUntil = time.Time{}
	if j.job.Attempts >= j.job.MaxAttempts {
		j.state = stateFailed
		return nil
	}
	j.availableAt = x.cfg.now().Add(x.cfg.retryDelay(j.job.Attempts))
	return nil
}

func (x *Memory) Stats(ctx context.Context, kind types.EventKind) (*Stats, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	var stats Stats
	for _, j := range x.lanes[kind] {
		switch j.state {
		case stateWaiting:
			stats.Waiting++
		case stateFailed:
			stats.Failed++
		}
	}
	return &stats, nil
}
