// Package metrics exposes the Prometheus collectors shared by the HTTP layer
// and the ledger service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bizdash"

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "HTTP requests by method, route pattern and status code.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency by method and route pattern.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

var LedgerMutations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "mutations_total",
	Help:      "Successful ledger writes by kind (created, updated, deleted).",
}, []string{"kind"})

var StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "errors_total",
	Help:      "Store failures by operation.",
}, []string{"operation"})

// ObserveRequest records one finished HTTP request. An empty route means the
// router matched nothing.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordMutation(kind string) {
	LedgerMutations.WithLabelValues(kind).Inc()
}

func RecordStoreError(operation string) {
	StoreErrors.WithLabelValues(operation).Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

var SuspiciousRequests = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "security",
	Name:      "suspicious_requests_total",
	Help:      "Requests matching a scan or injection pattern.",
})

func RecordSuspiciousRequest() {
	SuspiciousRequests.Inc()
}
