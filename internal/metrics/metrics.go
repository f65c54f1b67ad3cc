// Package metrics exposes Prometheus collectors for the catalog service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OverlayHit  = "hit"
	OverlayMiss = "miss"
	OverlayBase = "base"
)

var (
	overlayLookupsTotal        *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	batchEntitiesTotal         *prometheus.CounterVec
	translatorRequestsTotal    *prometheus.CounterVec
	translatorDurationSeconds  prometheus.Histogram

	once sync.Once
)

// Init registers the collectors with the default registry. It is safe to call
// more than once.
func Init() {
	once.Do(func() {
		overlayLookupsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "padel_overlay_lookups_total",
				Help: "Translation overlay lookups per entity, labeled by entity type and result.",
			},
			[]string{"entity_type", "result"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "padel_http_requests_total",
				Help: "Total number of HTTP requests, labeled by method, route and code.",
			},
			[]string{"method", "route", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "padel_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)

		batchEntitiesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "padel_batch_entities_total",
				Help: "Entity/locale pairs processed by batch translation, labeled by entity type, locale and outcome.",
			},
			[]string{"entity_type", "locale", "outcome"},
		)

		translatorRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "padel_translator_requests_total",
				Help: "Machine translation API calls, labeled by status.",
			},
			[]string{"status"},
		)

		translatorDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "padel_translator_request_duration_seconds",
				Help:    "Histogram of machine translation call latencies.",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveOverlay counts overlay lookups for entityType. count is the number of
// entities the lookup covered.
func ObserveOverlay(entityType, result string, count int) {
	Init()
	if count <= 0 {
		return
	}
	overlayLookupsTotal.WithLabelValues(entityType, result).Add(float64(count))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveBatch counts one processed entity/locale pair.
func ObserveBatch(entityType, locale, outcome string) {
	Init()
	batchEntitiesTotal.WithLabelValues(entityType, locale, outcome).Inc()
}

// ObserveTranslator records one translation API call.
func ObserveTranslator(status string, duration time.Duration) {
	Init()
	translatorRequestsTotal.WithLabelValues(status).Inc()
	translatorDurationSeconds.Observe(duration.Seconds())
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)

		routePattern := ""
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			routePattern = rctx.RoutePattern()
		}
		if routePattern == "" {
			routePattern = "unknown"
		}
		ObserveHTTPRequest(r.Method, routePattern, ww.statusCode, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.statusCode = code
	rec.ResponseWriter.WriteHeader(code)
}
