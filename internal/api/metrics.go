package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors. Every router gets its own
// registry so several servers can live in one process.
//
// Label values are bounded: endpoints are route patterns, never raw paths.
type Metrics struct {
	registry *prometheus.Registry

	requestLatency *prometheus.HistogramVec
	requestTotal   *prometheus.CounterVec
	rejectedTotal  *prometheus.CounterVec
	watchersActive prometheus.Gauge
	framesSent     prometheus.Counter
	levelRenders   prometheus.Counter
}

// NewMetrics registers the API collectors. rooms, when non-nil, backs the
// open-rooms gauge.
func NewMetrics(rooms func() int) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		registry: reg,
		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "brickarcade_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		requestTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brickarcade_http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "endpoint", "status"}),
		rejectedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "brickarcade_http_rejected_total",
			Help: "Requests rejected before reaching a handler.",
		}, []string{"reason"}), // rate_limit, origin, watch_limit
		watchersActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "brickarcade_room_watchers_active",
			Help: "Open spectator websockets.",
		}),
		framesSent: f.NewCounter(prometheus.CounterOpts{
			Name: "brickarcade_room_frames_sent_total",
			Help: "Frames written to spectators.",
		}),
		levelRenders: f.NewCounter(prometheus.CounterOpts{
			Name: "brickarcade_level_renders_total",
			Help: "Level previews generated.",
		}),
	}
	if rooms != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "brickarcade_rooms_open",
			Help: "Co-op rooms currently open.",
		}, func() float64 { return float64(rooms()) })
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records latency and status per route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				endpoint = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	})
}

func (m *Metrics) rejected(reason string) {
	if m != nil {
		m.rejectedTotal.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) watchers(n int) {
	if m != nil {
		m.watchersActive.Set(float64(n))
	}
}

func (m *Metrics) frameSent() {
	if m != nil {
		m.framesSent.Inc()
	}
}

func (m *Metrics) levelRendered() {
	if m != nil {
		m.levelRenders.Inc()
	}
}
