package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// client side ------------------------------------------------------------

var statusPollsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pdf_status_polls_total",
	Help: "Status polls issued, labelled by observed job status",
}, []string{"status"})

var generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "pdf_generation_duration_seconds",
	Help:    "Wall-clock time of a full generate-and-download cycle.",
	Buckets: []float64{.5, 1, 2, 5, 10, 30, 60, 120},
}, []string{"outcome"})

func CountStatusPoll(status string) {
	statusPollsTotal.WithLabelValues(status).Inc()
}

func CaptureGenerationMetrics(outcome string, elapsed time.Duration) {
	generationDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// render service ---------------------------------------------------------

var HttpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "http_requests_total",
	Help: "Total number of requests labelled by path and status",
}, []string{"path", "status"})

var renderJobsInQueue = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "render_jobs_in_queue",
	Help: "Number of render jobs waiting for a worker",
})

var activeWorkerCount = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "active_worker_count",
	Help: "Number of active render workers",
})

var renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "render_job_duration_seconds",
	Help:    "Time spent rendering one document.",
	Buckets: []float64{.05, .1, .25, .5, 1, 2, 5, 10, 30},
}, []string{"status"})

type HttpStatusRecorder struct {
	http.ResponseWriter
	Status int
}

func (r *HttpStatusRecorder) WriteHeader(code int) {
	r.Status = code
	r.ResponseWriter.WriteHeader(code)
}

func IncrementJobsInQueue() { renderJobsInQueue.Inc() }
func DecrementJobsInQueue() { renderJobsInQueue.Dec() }

func IncrementActiveWorkerCount() { activeWorkerCount.Inc() }
func DecrementActiveWorkerCount() { activeWorkerCount.Dec() }

func CaptureRenderMetrics(status string, elapsed time.Duration) {
	renderDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}
