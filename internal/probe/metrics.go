package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wrtgvr/rimdash-connect/internal/domain"
)

var (
	probeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rimdash",
		Name:      "probe_total",
		Help:      "Liveness probes by result.",
	}, []string{"result"})

	probeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rimdash",
		Name:      "probe_duration_seconds",
		Help:      "Liveness probe latency.",
		Buckets:   prometheus.DefBuckets,
	})
)

func observe(status *domain.EndpointStatus) {
	var result string
	switch {
	case status.OK:
		result = "ok"
	case status.StatusCode != 0:
		result = "fail"
	default:
		result = "error"
	}
	probeTotal.WithLabelValues(result).Inc()
	probeDuration.Observe(status.Latency.Seconds())
}
