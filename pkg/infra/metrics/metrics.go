package metrics

import (
	"net/http"

	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scanstream"

// Metrics holds the event pipeline counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	enqueued           *prometheus.CounterVec
	fallbacks          *prometheus.CounterVec
	dispatched         *prometheus.CounterVec
	jobFailures        *prometheus.CounterVec
	broadcasts         *prometheus.CounterVec
	droppedSubscribers prometheus.Counter
	subscribers        prometheus.Gauge
	queueJobs          *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	m := &Metrics{
		registry: reg,
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_enqueued_total",
			Help: "Events accepted by the work queue.",
		}, []string{"kind"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_fallback_total",
			Help: "Events published directly because the work queue was unavailable.",
		}, []string{"kind"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_dispatched_total",
			Help: "Queued events forwarded to subscribers.",
		}, []string{"kind"}),
		jobFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "job_failures_total",
			Help: "Queued events that failed to dispatch.",
		}, []string{"kind"}),
		broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "broadcast_messages_total",
			Help: "Messages fanned out to subscribers.",
		}, []string{"type"}),
		droppedSubscribers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "subscribers_dropped_total",
			Help: "Subscribers disconnected because their send buffer was full.",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "subscribers",
			Help: "Currently connected subscribers.",
		}),
		queueJobs: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "queue_jobs",
			Help: "Jobs held by the work queue per lane and state.",
		}, []string{"kind", "state"}),
	}

	reg.MustRegister(
		m.enqueued,
		m.fallbacks,
		m.dispatched,
		m.jobFailures,
		m.broadcasts,
		m.droppedSubscribers,
		m.subscribers,
		m.queueJobs,
	)
	return m
}

func (x *Metrics) Registry() *prometheus.Registry {
	if x == nil {
		return nil
	}
	return x.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (x *Metrics) Handler() http.Handler {
	if x == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(x.registry, promhttp.HandlerOpts{})
}

func (x *Metrics) Enqueued(kind types.EventKind) {
	if x != nil {
		x.enqueued.WithLabelValues(kind.String()).Inc()
	}
}

func (x *Metrics) Fallback(kind types.EventKind) {
	if x != nil {
		x.fallbacks.WithLabelValues(kind.String()).Inc()
	}
}

func (x *Metrics) Dispatched(kind types.EventKind) {
	if x != nil {
		x.dispatched.WithLabelValues(kind.String()).Inc()
	}
}

func (x *Metrics) JobFailed(kind types.EventKind) {
	if x != nil {
		x.jobFailures.WithLabelValues(kind.String()).Inc()
	}
}

func (x *Metrics) Broadcast(msgType types.MessageType) {
	if x != nil {
		x.broadcasts.WithLabelValues(string(msgType)).Inc()
	}
}

func (x *Metrics) SubscriberDropped() {
	if x != nil {
		x.droppedSubscribers.Inc()
	}
}

func (x *Metrics) SetSubscribers(n int) {
	if x != nil {
		x.subscribers.Set(float64(n))
	}
}

// SetQueueDepth records the waiting and failed jobs of one lane.
func (x *Metrics) SetQueueDepth(kind types.EventKind, waiting, failed int) {
	if x != nil {
		x.queueJobs.WithLabelValues(kind.String(), "waiting").Set(float64(waiting))
		x.queueJobs.WithLabelValues(kind.String(), "failed").Set(float64(failed))
	}
}
