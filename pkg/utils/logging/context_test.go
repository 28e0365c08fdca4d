package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

func TestLoggerInContext(t *testing.T) {
	t.Run("stored logger is returned", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := logging.With(context.Background(), logger)
		gt.V(t, logging.From(ctx)).Equal(logger)
	})

	t.Run("default logger without one", func(t *testing.T) {
		gt.V(t, logging.From(context.Background()).Handler()).Equal(logging.Default().Handler())
	})

	t.Run("attrs are appended", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))
		ctx = logging.WithAttrs(ctx, "scan_id", "scan-1")
		ctx = logging.WithAttrs(ctx, "kind", "progress")

		logging.From(ctx).Info("emitted")
		out := buf.String()
		gt.True(t, strings.Contains(out, "scan_id=scan-1"))
		gt.True(t, strings.Contains(out, "kind=progress"))
	})
}

func TestCtxRequestID(t *testing.T) {
	t.Run("created when absent", func(t *testing.T) {
		id, ctx := logging.CtxRequestID(context.Background())
		gt.V(t, id).NotEqual("")

		again, _ := logging.CtxRequestID(ctx)
		gt.V(t, again).Equal(id)
	})

	t.Run("independent contexts get distinct ids", func(t *testing.T) {
		a, _ := logging.CtxRequestID(context.Background())
		b, _ := logging.CtxRequestID(context.Background())
		gt.V(t, a).NotEqual(b)
	})
}

func TestCtxTime(t *testing.T) {
	t.Run("wall clock by default", func(t *testing.T) {
		before := time.Now()
		gt.True(t, !logging.CtxTime(context.Background()).Before(before))
	})

	t.Run("stored clock", func(t *testing.T) {
		fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		ctx := logging.CtxWithTime(context.Background(), func() time.Time { return fixed })
		gt.V(t, logging.CtxTime(ctx)).Equal(fixed)
	})
}
