package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "warranty"

// Lookup outcomes.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeDefault = "defaulted"
)

// Registry owns the service collectors. All recording methods are safe on a
// nil *Registry so components can run without metrics in tests.
type Registry struct {
	reg *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	chainLookups      *prometheus.CounterVec
	walletTransitions *prometheus.CounterVec
	portalMutations   *prometheus.CounterVec
}

// New registers the service collectors on a private registry.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		chainLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chain_lookups_total",
			Help:      "Blockchain service calls by operation and outcome.",
		}, []string{"operation", "outcome"}),
		walletTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wallet_transitions_total",
			Help:      "Wallet connection state transitions by target state.",
		}, []string{"state"}),
		portalMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "portal_mutations_total",
			Help:      "Portal record mutations by portal and action.",
		}, []string{"portal", "action"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.chainLookups,
		r.walletTransitions,
		r.portalMutations,
	)
	return r
}

// Handler exposes the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveHTTP records one served request.
func (r *Registry) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ChainLookup records a blockchain service call.
func (r *Registry) ChainLookup(operation, outcome string) {
	if r == nil {
		return
	}
	r.chainLookups.WithLabelValues(operation, outcome).Inc()
}

// WalletTransition records the wallet connection entering state.
func (r *Registry) WalletTransition(state string) {
	if r == nil {
		return
	}
	r.walletTransitions.WithLabelValues(state).Inc()
}

// PortalMutation records a change to portal records.
func (r *Registry) PortalMutation(portal, action string) {
	if r == nil {
		return
	}
	r.portalMutations.WithLabelValues(portal, action).Inc()
}
