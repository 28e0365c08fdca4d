package broadcast

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/domain/model"
	"github.com/m-mizutani/scanstream/pkg/domain/types"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/utils/logging"
)

const DefaultBufferSize = 64

var ErrHubClosed = goerr.New("broadcast hub is closed")

// Subscriber receives every message published after it subscribed. Its
// channel is closed when it unsubscribes, falls behind, or the hub closes.
type Subscriber struct {
	id      types.RequestID
	ch      chan []byte
	dropped atomic.Bool
}

func (x *Subscriber) ID() types.RequestID { return x.id }

// C returns the receive side of the subscriber's buffer.
func (x *Subscriber) C() <-chan []byte { return x.ch }

// Dropped reports whether the hub disconnected the subscriber because its
// buffer was full.
func (x *Subscriber) Dropped() bool { return x.dropped.Load() }

// Hub fans messages out to all subscribers. Sends never block: a subscriber
// whose buffer is full is removed.
type Hub struct {
	mu         sync.RWMutex
	subs       map[*Subscriber]struct{}
	closed     bool
	bufferSize int
	metrics    *metrics.Metrics
}

var _ interfaces.Broadcaster = (*Hub)(nil)

type Option func(*Hub)

func WithBufferSize(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.bufferSize = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Hub) {
		h.metrics = m
	}
}

func New(opts ...Option) *Hub {
	h := &Hub{
		subs:       make(map[*Subscriber]struct{}),
		bufferSize: DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (x *Hub) Subscribe() (*Subscriber, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.closed {
		return nil, ErrHubClosed
	}

	sub := &Subscriber{
		id: types.NewRequestID(),
		ch: make(chan []byte, x.bufferSize),
	}
	x.subs[sub] = struct{}{}
	x.metrics.SetSubscribers(len(x.subs))
	return sub, nil
}

func (x *Hub) Unsubscribe(sub *Subscriber) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.remove(sub)
}

// remove must be called with the write lock held.
func (x *Hub) remove(sub *Subscriber) {
	if _, ok := x.subs[sub]; !ok {
		return
	}
	delete(x.subs, sub)
	close(sub.ch)
	x.metrics.SetSubscribers(len(x.subs))
}

func (x *Hub) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.subs)
}

// Broadcast delivers data to every subscriber and returns how many received
// it. Slow subscribers are dropped.
func (x *Hub) Broadcast(ctx context.Context, data []byte) int {
	var delivered int
	var slow []*Subscriber

	x.mu.RLock()
	for sub := range x.subs {
		select {
		case sub.ch <- data:
			delivered++
		default:
			slow = append(slow, sub)
		}
	}
	x.mu.RUnlock()

	if len(slow) > 0 {
		x.mu.Lock()
		for _, sub := range slow {
			if _, ok := x.subs[sub]; ok {
				sub.dropped.Store(true)
				x.remove(sub)
				x.metrics.SubscriberDropped()
				logging.From(ctx).Warn("dropped slow subscriber", "subscriber", sub.id)
			}
		}
		x.mu.Unlock()
	}

	return delivered
}

// Close disconnects every subscriber. Later subscriptions fail.
func (x *Hub) Close() {
	x.mu.Lock()
	defer x.mu.Unlock()

	for sub := range x.subs {
		x.remove(sub)
	}
	x.closed = true
}

func (x *Hub) publish(ctx context.Context, msgType types.MessageType, data any) error {
	raw, err := json.Marshal(model.Message{Type: msgType, Data: data})
	if err != nil {
		return goerr.Wrap(err, "failed to marshal broadcast message", goerr.V("type", msgType))
	}

	n := x.Broadcast(ctx, raw)
	x.metrics.Broadcast(msgType)
	logging.From(ctx).Log(ctx, logging.LevelTrace, "message broadcast", "type", msgType, "subscribers", n)
	return nil
}

func (x *Hub) PublishProgress(ctx context.Context, ev model.ProgressEvent) error {
	return x.publish(ctx, types.MessageScanProgress, model.ProgressMessage{
		ProgressEvent: ev,
		Percentage:    model.Percentage(ev.FilesProcessed, ev.TotalFiles),
	})
}

func (x *Hub) PublishVulnerability(ctx context.Context, ev model.VulnerabilityEvent) error {
	return x.publish(ctx, types.MessageScanVulnerability, ev)
}

func (x *Hub) PublishComplete(ctx context.Context, ev model.CompleteEvent) error {
	return x.publish(ctx, types.MessageScanComplete, ev)
}
