package metrics

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/savf/gatekeeper-bot/internal/gatekeeper"
)

const namespace = "gatekeeper"

// Metrics holds the Prometheus collectors of the bot.
type Metrics struct {
	ChallengeEvents    *prometheus.CounterVec
	PendingChallenges  prometheus.Gauge
	ResolutionDuration *prometheus.HistogramVec
	GatewayCalls       *prometheus.CounterVec
	GatewayDuration    *prometheus.HistogramVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ChallengeEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "challenge_events_total",
				Help:      "Challenge lifecycle events by kind",
			},
			[]string{"kind"},
		),
		PendingChallenges: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "pending_challenges",
				Help:      "Challenges waiting for an answer",
			},
		),
		ResolutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "challenge_resolution_seconds",
				Help:      "Time from challenge creation to its outcome",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"outcome"},
		),
		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "calls_total",
				Help:      "Chat gateway calls by method and status",
			},
			[]string{"method", "status"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "call_duration_seconds",
				Help:      "Chat gateway call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// OnChallengeEvent implements gatekeeper.Listener.
func (m *Metrics) OnChallengeEvent(_ context.Context, ev gatekeeper.Event) {
	m.ChallengeEvents.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case gatekeeper.EventStarted:
		m.PendingChallenges.Inc()
	case gatekeeper.EventSuperseded:
		m.PendingChallenges.Dec()
	default:
		m.PendingChallenges.Dec()
		if !ev.Record.CreatedAt.IsZero() && !ev.Record.ResolvedAt.IsZero() {
			m.ResolutionDuration.WithLabelValues(string(ev.Kind)).
				Observe(ev.Record.ResolvedAt.Sub(ev.Record.CreatedAt).Seconds())
		}
	}
}

// Handler serves the registry in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

func (m *Metrics) observe(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.GatewayCalls.WithLabelValues(method, status).Inc()
	m.GatewayDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
