package infra_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/scanstream/pkg/domain/mock"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"github.com/m-mizutani/scanstream/pkg/infra/metrics"
	"github.com/m-mizutani/scanstream/pkg/repository/memory"
)

func TestNew(t *testing.T) {
	t.Run("create new clients without options", func(t *testing.T) {
		clients := infra.New()
		gt.True(t, clients.ScanRepository() == nil)
		gt.True(t, clients.WorkQueue() == nil)
		gt.True(t, clients.Broadcaster() == nil)
		gt.True(t, clients.Metrics() == nil)
	})

	t.Run("WithScanRepository option sets repository", func(t *testing.T) {
		repo := memory.New()
		clients := infra.New(infra.WithScanRepository(repo))
		gt.V(t, clients.ScanRepository()).Equal(repo)
	})

	t.Run("WithWorkQueue option sets queue", func(t *testing.T) {
		q := &mock.WorkQueueMock{}
		clients := infra.New(infra.WithWorkQueue(q))
		gt.V(t, clients.WorkQueue()).Equal(q)
	})

	t.Run("multiple options can be combined", func(t *testing.T) {
		q := &mock.WorkQueueMock{}
		b := &mock.BroadcasterMock{}
		m := metrics.New()

		clients := infra.New(
			infra.WithWorkQueue(q),
			infra.WithBroadcaster(b),
			infra.WithMetrics(m),
		)

		gt.V(t, clients.WorkQueue()).Equal(q)
		gt.V(t, clients.Broadcaster()).Equal(b)
		gt.V(t, clients.Metrics()).Equal(m)
	})
}
