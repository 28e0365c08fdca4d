package usecase

import (
	"time"

	"github.com/m-mizutani/scanstream/pkg/domain/interfaces"
	"github.com/m-mizutani/scanstream/pkg/infra"
	"golang.org/x/time/rate"
)

const (
	DefaultPollInterval = 500 * time.Millisecond

	listScansLimit           = 50
	listVulnerabilitiesLimit = 200
)

type UseCase struct {
	clients *infra.Clients

	pollInterval  time.Duration
	dispatchRate  rate.Limit
	dispatchBurst int
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithPollInterval sets how long an idle dispatcher waits before claiming
// again.
func WithPollInterval(d time.Duration) Option {
	return func(x *UseCase) {
		if d > 0 {
			x.pollInterval = d
		}
	}
}

// WithDispatchRate limits how many events per second each dispatcher
// forwards. A non-positive rate means no limit.
func WithDispatchRate(perSecond float64, burst int) Option {
	return func(x *UseCase) {
		if perSecond <= 0 {
			x.dispatchRate = rate.Inf
			return
		}
		x.dispatchRate = rate.Limit(perSecond)
		x.dispatchBurst = max(burst, 1)
	}
}

func New(clients *infra.Clients, opts ...Option) *UseCase {
	uc := &UseCase{
		clients:       clients,
		pollInterval:  DefaultPollInterval,
		dispatchRate:  rate.Inf,
		dispatchBurst: 1,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}
