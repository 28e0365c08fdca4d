package queue_test

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/infra/queue"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return string(gt.R1(io.ReadAll(rec.Body)).NoError(t))
}

type brokenStats struct{}

func (brokenStats) Stats(ctx context.Context, kind types.EventKind) (*queue.Stats, error) {
	return nil, errors.New("connection reset")
}

func TestSample(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	q := queue.NewMemory()

	gt.NoError(t, q.Enqueue(ctx, types.EventKindProgress, []byte(`{}`)))
	gt.NoError(t, q.Enqueue(ctx, types.EventKindProgress, []byte(`{}`)))
	gt.NoError(t, q.Enqueue(ctx, types.EventKindComplete, []byte(`{}`)))

	gt.NoError(t, queue.Sample(ctx, q, m))

	body := scrape(t, m)
	gt.True(t, strings.Contains(body, `scanstream_queue_jobs{kind="progress",state="waiting"} 2`))
	gt.True(t, strings.Contains(body, `scanstream_queue_jobs{kind="complete",state="waiting"} 1`))
	gt.True(t, strings.Contains(body, `scanstream_queue_jobs{kind="vulnerability",state="waiting"} 0`))

	gt.Error(t, queue.Sample(ctx, brokenStats{}, m))
}

func TestMonitorStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := metrics.New()
	q := queue.NewMemory()
	gt.NoError(t, q.Enqueue(ctx, types.EventKindVulnerability, []byte(`{}`)))

	cancel()
	// returns after one sample because ctx is already done
	queue.Monitor(ctx, q, m, 0)

	gt.True(t, strings.Contains(scrape(t, m), `scanstream_queue_jobs{kind="vulnerability",state="waiting"} 1`))
}
