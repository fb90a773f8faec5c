package section

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "section_gate_decisions_total",
		Help: "Cache gate outcomes per screen.",
	}, []string{"screen", "decision"})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "section_batch_duration_seconds",
		Help:    "Wall time of one full fetch batch.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"screen", "outcome"})
)

func observeGateHit(screen string) {
	gateDecisions.WithLabelValues(screen, "fresh").Inc()
}

func observeGateBypass(screen string, forced bool) {
	if forced {
		gateDecisions.WithLabelValues(screen, "forced").Inc()
		return
	}
	gateDecisions.WithLabelValues(screen, "expired").Inc()
}

func observeGateJoin(screen string) {
	gateDecisions.WithLabelValues(screen, "joined").Inc()
}

func observeBatch(screen string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	batchDuration.WithLabelValues(screen, outcome).Observe(d.Seconds())
}
