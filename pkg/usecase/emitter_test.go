package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/mock"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/usecase"
)

func TestEmitQueued(t *testing.T) {
	q := &mock.WorkQueueMock{
		EnqueueFunc: func(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
			return nil
		},
	}
	b := newBroadcaster()
	uc := usecase.New(infra.New(
		infra.WithWorkQueue(q),
		infra.WithBroadcaster(b),
		infra.WithMetrics(metrics.New()),
	))

	delivery := uc.EmitProgress(context.Background(), "scan-1", 5, 10)
	gt.V(t, delivery).Equal(model.DeliveryQueued)

	calls := q.EnqueueCalls()
	gt.V(t, len(calls)).Equal(1)
	gt.V(t, calls[0].Kind).Equal(types.EventKindProgress)
	gt.V(t, interfaces.NewEnqueueConfig(calls[0].Opts...).MaxAttempts).Equal(2)

	ev := gt.R1(model.DecodeEvent(calls[0].Kind, calls[0].Payload)).NoError(t)
	gt.V(t, ev).Equal(model.Event(model.ProgressEvent{ScanID: "scan-1", FilesProcessed: 5, TotalFiles: 10}))

	gt.V(t, len(b.PublishProgressCalls())).Equal(0)
}

func TestEmitFallsBackToDirectPublish(t *testing.T) {
	q := &mock.WorkQueueMock{
		EnqueueFunc: func(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
			return errors.New("connection refused")
		},
	}
	b := newBroadcaster()
	uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(b)))
	ctx := context.Background()

	t.Run("progress", func(t *testing.T) {
		gt.V(t, uc.EmitProgress(ctx, "scan-1", 2, 2)).Equal(model.DeliveryDirect)
		calls := b.PublishProgressCalls()
		gt.V(t, len(calls)).Equal(1)
		gt.V(t, calls[0].Ev).Equal(model.ProgressEvent{ScanID: "scan-1", FilesProcessed: 2, TotalFiles: 2})
	})

	t.Run("vulnerability", func(t *testing.T) {
		vuln := &model.Vulnerability{ID: "v-1", ScanID: "scan-1", Type: "sql_injection", Severity: types.SeverityHigh}
		gt.V(t, uc.EmitVulnerability(ctx, "scan-1", vuln)).Equal(model.DeliveryDirect)
		calls := b.PublishVulnerabilityCalls()
		gt.V(t, len(calls)).Equal(1)
		gt.V(t, calls[0].Ev.ScanID).Equal(types.ScanID("scan-1"))
		gt.V(t, calls[0].Ev.Vulnerability).Equal(vuln)
	})

	t.Run("complete", func(t *testing.T) {
		summary := model.ScanSummary{TotalFiles: 7, FilesProcessed: 7}
		gt.V(t, uc.EmitComplete(ctx, "scan-1", summary)).Equal(model.DeliveryDirect)
		calls := b.PublishCompleteCalls()
		gt.V(t, len(calls)).Equal(1)
		gt.V(t, calls[0].Ev).Equal(model.CompleteEvent{ScanID: "scan-1", Summary: summary})
	})
}

func TestEmitWithoutQueue(t *testing.T) {
	b := newBroadcaster()
	uc := usecase.New(infra.New(infra.WithBroadcaster(b)))

	gt.V(t, uc.EmitComplete(context.Background(), "scan-2", model.ScanSummary{})).Equal(model.DeliveryDirect)
	gt.V(t, len(b.PublishCompleteCalls())).Equal(1)
}

func TestEmitDropped(t *testing.T) {
	b := newBroadcaster()
	b.PublishProgressFunc = func(ctx context.Context, ev model.ProgressEvent) error {
		return errors.New("hub closed")
	}

	t.Run("broadcaster fails", func(t *testing.T) {
		uc := usecase.New(infra.New(infra.WithBroadcaster(b)))
		gt.V(t, uc.EmitProgress(context.Background(), "scan-3", 0, 0)).Equal(model.DeliveryDropped)
	})

	t.Run("nothing configured", func(t *testing.T) {
		uc := usecase.New(infra.New())
		gt.V(t, uc.EmitProgress(context.Background(), "scan-3", 0, 0)).Equal(model.DeliveryDropped)
	})

	t.Run("invalid event is never enqueued", func(t *testing.T) {
		q := &mock.WorkQueueMock{
			EnqueueFunc: func(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
				return nil
			},
		}
		uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(newBroadcaster())))
		gt.V(t, uc.EmitVulnerability(context.Background(), "scan-3", nil)).Equal(model.DeliveryDropped)
		gt.V(t, len(q.EnqueueCalls())).Equal(0)
	})
}

func TestEmitIgnoresCallerCancellation(t *testing.T) {
	q := &mock.WorkQueueMock{
		EnqueueFunc: func(ctx context.Context, kind types.EventKind, payload []byte, opts ...interfaces.EnqueueOption) error {
			return ctx.Err()
		},
	}
	uc := usecase.New(infra.New(infra.WithWorkQueue(q), infra.WithBroadcaster(newBroadcaster())))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gt.V(t, uc.EmitProgress(ctx, "scan-4", 1, 1)).Equal(model.DeliveryQueued)
}
