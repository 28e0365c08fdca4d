package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/utils/errutil"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

func (x *UseCase) EmitProgress(ctx context.Context, scanID types.ScanID, filesProcessed, totalFiles int) model.Delivery {
	return x.emit(ctx, model.ProgressEvent{
		ScanID:         scanID,
		FilesProcessed: filesProcessed,
		TotalFiles:     totalFiles,
	})
}

func (x *UseCase) EmitVulnerability(ctx context.Context, scanID types.ScanID, vuln *model.Vulnerability) model.Delivery {
	return x.emit(ctx, model.VulnerabilityEvent{
		ScanID:        scanID,
		Vulnerability: vuln,
	})
}

func (x *UseCase) EmitComplete(ctx context.Context, scanID types.ScanID, summary model.ScanSummary) model.Delivery {
	return x.emit(ctx, model.CompleteEvent{
		ScanID:  scanID,
		Summary: summary,
	})
}

// emit queues the event, or publishes it directly when the queue is missing
// or refuses it. Failures never reach the caller of the triggering operation.
func (x *UseCase) emit(ctx context.Context, ev model.Event) model.Delivery {
	ctx = context.WithoutCancel(ctx)
	logger := logging.From(ctx).With("kind", ev.Kind(), "scan_id", ev.Target())

	if err := ev.Validate(); err != nil {
		errutil.HandleError(ctx, "refused to emit invalid event", err)
		return model.DeliveryDropped
	}

	if q := x.clients.WorkQueue(); q != nil {
		err := enqueueEvent(ctx, q, ev)
		if err == nil {
			x.clients.Metrics().Enqueued(ev.Kind())
			return model.DeliveryQueued
		}

		logger.Warn("failed to enqueue event, publishing directly", "error", err)
		x.clients.Metrics().Fallback(ev.Kind())
	}

	if err := publishEvent(ctx, x.clients.Broadcaster(), ev); err != nil {
		errutil.HandleError(ctx, "failed to publish event", err)
		return model.DeliveryDropped
	}
	logger.Debug("event published directly")
	return model.DeliveryDirect
}

func enqueueEvent(ctx context.Context, q interfaces.WorkQueue, ev model.Event) error {
	payload, err := model.EncodeEvent(ev)
	if err != nil {
		return err
	}
	return q.Enqueue(ctx, ev.Kind(), payload, interfaces.WithMaxAttempts(interfaces.DefaultMaxAttempts))
}

// publishEvent hands the event to the broadcast operation of its kind.
func publishEvent(ctx context.Context, b interfaces.Broadcaster, ev model.Event) error {
	if b == nil {
		return goerr.New("no broadcaster configured", goerr.V("kind", ev.Kind()))
	}

	switch v := ev.(type) {
	case model.ProgressEvent:
		return b.PublishProgress(ctx, v)
	case model.VulnerabilityEvent:
		return b.PublishVulnerability(ctx, v)
	case model.CompleteEvent:
		return b.PublishComplete(ctx, v)
	}
	return goerr.Wrap(types.ErrValidationFailed, "unsupported event", goerr.V("kind", ev.Kind()))
}
