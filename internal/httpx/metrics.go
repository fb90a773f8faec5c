package httpx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// upstreamRequests tracks requests against the rewards backend.
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total number of upstream requests by method and status class",
	}, []string{"method", "status_class"})
)

func recordRequest(method string, status int) {
	upstreamRequests.WithLabelValues(method, statusClass(status)).Inc()
}
