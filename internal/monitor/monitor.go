package monitor

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/wrtgvr/rimdash-connect/internal/config"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
	"github.com/wrtgvr/rimdash-connect/internal/probe"
)

// subscriberBuffer is how many statuses a subscriber may lag behind before
// new ones are dropped for it.
const subscriberBuffer = 8

// Monitor periodically probes the active endpoint and broadcasts the result.
type Monitor struct {
	prober   probe.Prober
	source   func() string
	interval time.Duration
	logger   *slog.Logger

	subs    *xsync.MapOf[uint64, chan *domain.EndpointStatus]
	nextSub atomic.Uint64
	last    atomic.Pointer[domain.EndpointStatus]
	trigger chan struct{}
}

// NewMonitor creates a monitor probing the URL returned by source.
func NewMonitor(prober probe.Prober, source func() string, cfg *config.MonitorConfig, logger *slog.Logger) *Monitor {
	return &Monitor{
		prober:   prober,
		source:   source,
		interval: cfg.Interval,
		logger:   logger,
		subs:     xsync.NewMapOf[uint64, chan *domain.EndpointStatus](),
		trigger:  make(chan struct{}, 1),
	}
}

// Run probes once immediately and then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) error {
	//* ticker
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			m.closeSubscribers()
			return nil
		case <-ticker.C:
		case <-m.trigger:
			ticker.Reset(m.interval)
		}
		m.check(ctx)
	}
}

// Trigger requests an immediate probe. It never blocks.
func (m *Monitor) Trigger() {
	select {
	case m.trigger <- struct{}{}:
	default:
	}
}

// Last returns the most recent status, or nil before the first probe.
func (m *Monitor) Last() *domain.EndpointStatus {
	return m.last.Load()
}

// Subscribe returns a channel of statuses and a function that cancels the
// subscription. The channel is closed when the monitor stops; cancelling
// only detaches it.
func (m *Monitor) Subscribe() (<-chan *domain.EndpointStatus, func()) {
	id := m.nextSub.Add(1)
	ch := make(chan *domain.EndpointStatus, subscriberBuffer)
	m.subs.Store(id, ch)

	return ch, func() { m.subs.Delete(id) }
}

func (m *Monitor) check(ctx context.Context) {
	url := m.source()
	if url == "" {
		return
	}

	status, err := m.prober.Probe(ctx, url)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		m.logger.Debug("monitor probe failed", "url", url, "err", err)
	}

	m.last.Store(status)
	m.broadcast(status)
}

func (m *Monitor) broadcast(status *domain.EndpointStatus) {
	m.subs.Range(func(id uint64, ch chan *domain.EndpointStatus) bool {
		select {
		case ch <- status:
		default:
			m.logger.Warn("dropping status for slow subscriber", "subscriber", id)
		}
		return true
	})
}

func (m *Monitor) closeSubscribers() {
	m.subs.Range(func(id uint64, _ chan *domain.EndpointStatus) bool {
		if ch, ok := m.subs.LoadAndDelete(id); ok {
			close(ch)
		}
		return true
	})
}
