package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var jobsProcessedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pipeline_jobs_processed_total",
	Help: "Jobs finished by the processor labelled by outcome",
}, []string{"outcome"})

var jobsPendingGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pipeline_jobs_pending",
	Help: "Claimable jobs remaining after the last batch",
})

var jobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pipeline_job_duration_seconds",
	Help:    "Wall time spent processing one job.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"outcome"})

var providerLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "provider_latency_seconds",
	Help:    "Latency of external OCR/AI provider calls.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30, 60},
}, []string{"provider"})

var cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "result_cache_events_total",
	Help: "Cache hits and misses labelled by cache and event",
}, []string{"cache", "event"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func CaptureJobOutcome(outcome string, elapsed time.Duration) {
	jobsProcessedTotal.WithLabelValues(outcome).Inc()
	jobDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func SetPendingJobs(count int) {
	jobsPendingGauge.Set(float64(count))
}

func CaptureProviderLatency(provider string, elapsed time.Duration) {
	providerLatency.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func CaptureCacheEvent(cache string, hit bool) {
	event := "miss"
	if hit {
		event = "hit"
	}
	cacheEvents.WithLabelValues(cache, event).Inc()
}
