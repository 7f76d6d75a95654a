package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	EmbedRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_requests_total",
			Help: "Total number of embedding backend calls by backend",
		},
		[]string{"backend"},
	)
	EmbedRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embed_request_duration_seconds",
			Help:    "Embedding backend call duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"backend"},
	)
	EmbedBackendResolved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embed_backend_resolved_total",
			Help: "Which embedding backend the resolver settled on",
		},
		[]string{"backend"},
	)

	RatingsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ratings_total",
			Help: "Total number of rating requests served",
		},
	)

	// Score outcome distributions
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rating_overall_score",
			Help:    "Distribution of overall scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
	ComponentScoreHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rating_component_score",
			Help:    "Distribution of per-component scores ([0,100])",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"component"},
	)
)

func InitMetrics() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(EmbedRequestsTotal)
	prometheus.MustRegister(EmbedRequestDuration)
	prometheus.MustRegister(EmbedBackendResolved)
	prometheus.MustRegister(RatingsTotal)
	prometheus.MustRegister(OverallScoreHistogram)
	prometheus.MustRegister(ComponentScoreHistogram)
}

// HTTPMetricsMiddleware records Prometheus metrics for each request.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		dur := time.Since(start).Seconds()
		// Route pattern may be unavailable outside chi router; guard nil
		var route string
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			// fallback when route pattern is unavailable
			route = r.URL.Path
		}
		method := r.Method
		status := ww.Status()
		HTTPRequestsTotal.WithLabelValues(route, method, http.StatusText(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, method).Observe(dur)
	})
}

// ObserveRating records the resulting scores from a completed rating.
func ObserveRating(overall, education, experience, skills, aiSignal float64) {
	RatingsTotal.Inc()
	if overall >= 0 && overall <= 100 {
		OverallScoreHistogram.Observe(overall)
	}
	ComponentScoreHistogram.WithLabelValues("education").Observe(education)
	ComponentScoreHistogram.WithLabelValues("experience").Observe(experience)
	ComponentScoreHistogram.WithLabelValues("skills").Observe(skills)
	ComponentScoreHistogram.WithLabelValues("ai_signal").Observe(aiSignal)
}
