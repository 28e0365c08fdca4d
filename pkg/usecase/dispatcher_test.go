package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/mock"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/infra/queue"
	"github.com/m-mizutani/scanstream/pkg/usecase"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (x *manualClock) Now() time.Time {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.now
}

func (x *manualClock) Advance(d time.Duration) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.now = x.now.Add(d)
}

func TestDispatchOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards payload unchanged and removes the job", func(t *testing.T) {
		q := queue.NewMemory()
		b := newBroadcaster()
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)))

		gt.V(t, uc.EmitProgress(ctx, "scan-1", 3, 4)).Equal(model.DeliveryQueued)
		gt.V(t, len(b.PublishProgressCalls())).Equal(0)

		d := gt.R1(uc.NewDispatcher(types.EventKindProgress)).NoError(t)
		claimed := gt.R1(d.DispatchOnce(ctx)).NoError(t)
		gt.True(t, claimed)

		calls := b.PublishProgressCalls()
		gt.V(t, len(calls)).Equal(1)
		gt.V(t, calls[0].Ev).Equal(model.ProgressEvent{ScanID: "scan-1", FilesProcessed: 3, TotalFiles: 4})

		stats := gt.R1(q.Stats(ctx, types.EventKindProgress)).NoError(t)
		gt.V(t, stats.Waiting).Equal(0)
		gt.V(t, stats.Failed).Equal(0)
	})

	t.Run("empty lane", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithWorkQueue(queue.NewMemory()), infra.WithBroadcaster(newBroadcaster())))
		d := gt.R1(uc.NewDispatcher(types.EventKindComplete)).NoError(t)
		claimed := gt.R1(d.DispatchOnce(ctx)).NoError(t)
		gt.V(t, claimed).Equal(false)
	})

	t.Run("only drains its own kind", func(t *testing.T) {
		q := queue.NewMemory()
		b := newBroadcaster()
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)))

		uc.EmitComplete(ctx, "scan-2", model.ScanSummary{TotalFiles: 1})
		d := gt.R1(uc.NewDispatcher(types.EventKindProgress)).NoError(t)
		gt.V(t, gt.R1(d.DispatchOnce(ctx)).NoError(t)).Equal(false)
		gt.V(t, len(b.PublishCompleteCalls())).Equal(0)
	})

	t.Run("failed publish is retried once then kept as failed", func(t *testing.T) {
		clock := &manualClock{now: testNow}
		q := queue.NewMemory(queue.WithClock(clock.Now), queue.WithBackoff(time.Second))
		b := newBroadcaster()
		b.PublishVulnerabilityFunc = func(ctx context.Context, ev model.VulnerabilityEvent) error {
			return errors.New("hub unavailable")
		}
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)))

		vuln := &model.Vulnerability{ID: "v-1", ScanID: "scan-3", Type: "xss", Severity: types.SeverityMedium}
		gt.V(t, uc.EmitVulnerability(ctx, "scan-3", vuln)).Equal(model.DeliveryQueued)

		d := gt.R1(uc.NewDispatcher(types.EventKindVulnerability)).NoError(t)
		gt.True(t, gt.R1(d.DispatchOnce(ctx)).NoError(t))

		clock.Advance(time.Second)
		gt.True(t, gt.R1(d.DispatchOnce(ctx)).NoError(t))

		clock.Advance(time.Minute)
		gt.V(t, gt.R1(d.DispatchOnce(ctx)).NoError(t)).Equal(false)

		gt.V(t, len(b.PublishVulnerabilityCalls())).Equal(2)
		stats := gt.R1(q.Stats(ctx, types.EventKindVulnerability)).NoError(t)
		gt.V(t, stats.Failed).Equal(1)
	})

	t.Run("undecodable payload is failed", func(t *testing.T) {
		q := queue.NewMemory()
		b := newBroadcaster()
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)))

		gt.NoError(t, q.Enqueue(ctx, types.EventKindComplete, []byte(`not json`)))
		d := gt.R1(uc.NewDispatcher(types.EventKindComplete)).NoError(t)
		gt.True(t, gt.R1(d.DispatchOnce(ctx)).NoError(t))
		gt.V(t, len(b.PublishCompleteCalls())).Equal(0)
	})

	t.Run("claim error is returned", func(t *testing.T) {
		q := &mock.WorkQueueMock{
			ClaimFunc: func(ctx context.Context, kind types.EventKind) (*model.Job, error) {
				return nil, errors.New("database is locked")
			},
		}
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(newBroadcaster())))
		d := gt.R1(uc.NewDispatcher(types.EventKindProgress)).NoError(t)
		_, err := d.DispatchOnce(ctx)
		gt.Error(t, err)
	})
}

func TestRunDispatchers(t *testing.T) {
	q := queue.NewMemory()

	var wg sync.WaitGroup
	wg.Add(3)
	b := &mock.BroadcasterMock{
		PublishProgressFunc: func(ctx context.Context, ev model.ProgressEvent) error {
			wg.Done()
			return nil
		},
		PublishVulnerabilityFunc: func(ctx context.Context, ev model.VulnerabilityEvent) error {
			wg.Done()
			return nil
		},
		PublishCompleteFunc: func(ctx context.Context, ev model.CompleteEvent) error {
			wg.Done()
			return nil
		},
	}
	uc := usecase.New(
		infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)),
		usecase.WithPollInterval(10*time.Millisecond),
		usecase.WithDispatchRate(1000, 10),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- uc.RunDispatchers(ctx)
	}()

	uc.EmitProgress(ctx, "scan-5", 1, 2)
	uc.EmitVulnerability(ctx, "scan-5", &model.Vulnerability{ID: "v-5", ScanID: "scan-5"})
	uc.EmitComplete(ctx, "scan-5", model.ScanSummary{TotalFiles: 2, FilesProcessed: 2})

	delivered := make(chan struct{})
	go func() {
		wg.Wait()
		close(delivered)
	}()

	select {
	case <-delivered:
	case <-time.After(5 * time.Second):
		t.Fatal("events were not dispatched")
	}

	cancel()
	select {
	case err := <-done:
		gt.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatchers did not stop")
	}
}
