package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Prom struct {
	RequestsTotal    *prometheus.CounterVec
	RequestsDuration *prometheus.HistogramVec
	InFlight         *prometheus.GaugeVec

	// entity store (logical op, regardless of backing driver)
	StoreOpDuration *prometheus.HistogramVec
	StoreErrorsTotal *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

func NewProm(reg prometheus.Registerer) *Prom {
	p := &Prom{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactdeck",
				Name:      "http_requests_total",
				Help:      "Total HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestsDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contactdeck",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency distributions.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"method", "route", "status"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "contactdeck",
				Name:      "http_in_flight_requests",
				Help:      "Current number of in-flight HTTP requests.",
			},
			[]string{"method", "route"},
		),
		StoreOpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "contactdeck",
				Subsystem: "store",
				Name:      "op_duration_seconds",
				Help:      "Entity store operation latency (logical op, not raw SQL)",
				Buckets:   []float64{0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.35, 0.5, 1, 2, 5},
			},
			[]string{"op", "status"},
		),
		StoreErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactdeck",
				Subsystem: "store",
				Name:      "errors_total",
				Help:      "Entity store errors by logical op and class.",
			},
			[]string{"op", "class"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactdeck",
				Subsystem: "cache",
				Name:      "hits_total",
				Help:      "List cache hits by key family.",
			},
			[]string{"family"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "contactdeck",
				Subsystem: "cache",
				Name:      "misses_total",
				Help:      "List cache misses by key family.",
			},
			[]string{"family"},
		),
	}
	reg.MustRegister(p.RequestsTotal, p.RequestsDuration, p.InFlight, p.StoreOpDuration, p.StoreErrorsTotal, p.CacheHits, p.CacheMisses)

	return p
}

func (p *Prom) GinHandleMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		// route template is only available after routing; best effort:
		route := ctx.FullPath()

		if route == "" {
			route = "unmatched"
		}

		method := ctx.Request.Method
		p.InFlight.WithLabelValues(method, route).Inc()
		defer p.InFlight.WithLabelValues(method, route).Dec()
		ctx.Next()

		status := strconv.Itoa(ctx.Writer.Status())
		secs := time.Since(start).Seconds()

		p.RequestsTotal.WithLabelValues(method, route, status).Inc()
		p.RequestsDuration.WithLabelValues(method, route, status).Observe(secs)
	}
}
