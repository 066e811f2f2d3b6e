// Package metrics holds the portal's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for the stock analyser. Each
// Registry owns its own prometheus.Registry so several apps can coexist
// in one test binary.
type Registry struct {
	reg *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	RateLimited     prometheus.Counter
	PortfolioLoads  *prometheus.CounterVec
	HoldingsLoaded  prometheus.Gauge
	AnnotationSaves *prometheus.CounterVec
	TableChanges    *prometheus.CounterVec
	Analyses        *prometheus.CounterVec
}

// New creates and registers every collector.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_analyser_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stock_analyser_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "stock_analyser_rate_limited_total",
				Help: "API requests rejected by the rate limiter",
			},
		),

		PortfolioLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_analyser_portfolio_loads_total",
				Help: "Portfolio acquisitions by source and result",
			},
			[]string{"source", "result"},
		),

		HoldingsLoaded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "stock_analyser_holdings",
				Help: "Number of holdings in the current portfolio",
			},
		),

		AnnotationSaves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_analyser_annotation_saves_total",
				Help: "Annotation writes by kind (rating, notes) and result",
			},
			[]string{"kind", "result"},
		),

		TableChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_analyser_table_changes_total",
				Help: "Table view changes by operation",
			},
			[]string{"operation"},
		),

		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_analyser_analyses_total",
				Help: "Analysis requests by analyzer and result (generated, cached, error)",
			},
			[]string{"analyzer", "result"},
		),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.HTTPRequests,
		r.HTTPDuration,
		r.RateLimited,
		r.PortfolioLoads,
		r.HoldingsLoaded,
		r.AnnotationSaves,
		r.TableChanges,
		r.Analyses,
	)

	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ObserveRequest records one completed HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLoad records a portfolio acquisition outcome.
func (r *Registry) ObserveLoad(source string, count int, err error) {
	if err != nil {
		r.PortfolioLoads.WithLabelValues(source, "error").Inc()
		return
	}
	r.PortfolioLoads.WithLabelValues(source, "ok").Inc()
	r.HoldingsLoaded.Set(float64(count))
}

// ObserveAnnotation records an annotation write.
func (r *Registry) ObserveAnnotation(kind string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.AnnotationSaves.WithLabelValues(kind, result).Inc()
}
