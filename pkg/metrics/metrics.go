package metrics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	Registry             *prometheus.Registry
	HTTPRequests         *prometheus.CounterVec
	PropertyViews        prometheus.Counter
	LifecycleTransitions *prometheus.CounterVec
	ExpiredListings      prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		Registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imovelhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and envelope status.",
		}, []string{"method", "route", "status"}),
		PropertyViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "imovelhub",
			Name:      "property_views_total",
			Help:      "Counted detail page views of active listings.",
		}),
		LifecycleTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "imovelhub",
			Name:      "listing_transitions_total",
			Help:      "Listing status transitions.",
		}, []string{"from", "to"}),
		ExpiredListings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "imovelhub",
			Name:      "expired_active_listings",
			Help:      "Active listings past their expiry at the last sweep.",
		}),
	}
	registry.MustRegister(
		m.HTTPRequests,
		m.PropertyViews,
		m.LifecycleTransitions,
		m.ExpiredListings,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Transition(from, to string) {
	if from == to {
		return
	}
	m.LifecycleTransitions.WithLabelValues(from, to).Inc()
}

// Middleware counts requests by matched route. Unmatched paths share one label.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()
		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
