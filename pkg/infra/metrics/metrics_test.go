package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
)

func TestCounters(t *testing.T) {
	m := metrics.New()

	m.Enqueued(types.EventKindProgress)
	m.Enqueued(types.EventKindProgress)
	gt.V(t, m.Registry()).NotEqual(nil)
	m.Fallback(types.EventKindComplete)
	m.Dispatched(types.EventKindVulnerability)
	m.JobFailed(types.EventKindVulnerability)
	m.Broadcast(types.MessageScanProgress)
	m.SubscriberDropped()
	m.SetSubscribers(3)
	m.SetQueueDepth(types.EventKindComplete, 4, 1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp := gt.R1(http.Get(srv.URL)).NoError(t)
	defer resp.Body.Close()
	body := string(gt.R1(io.ReadAll(resp.Body)).NoError(t))

	gt.True(t, strings.Contains(body, `scanstream_events_enqueued_total{kind="progress"} 2`))
	gt.True(t, strings.Contains(body, `scanstream_events_fallback_total{kind="complete"} 1`))
	gt.True(t, strings.Contains(body, `scanstream_broadcast_messages_total{type="scan:progress"} 1`))
	gt.True(t, strings.Contains(body, `scanstream_subscribers 3`))
	gt.True(t, strings.Contains(body, `scanstream_subscribers_dropped_total 1`))
	gt.True(t, strings.Contains(body, `scanstream_queue_jobs{kind="complete",state="waiting"} 4`))
	gt.True(t, strings.Contains(body, `scanstream_queue_jobs{kind="complete",state="failed"} 1`))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Enqueued(types.EventKindProgress)
	m.Fallback(types.EventKindProgress)
	m.SetSubscribers(1)
	m.SetQueueDepth(types.EventKindProgress, 1, 0)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	gt.V(t, rec.Code).Equal(http.StatusNotFound)
}
