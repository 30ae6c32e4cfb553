package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runsTotal       prometheus.Counter
	schedulesTotal  prometheus.Counter
	relaxationTotal *prometheus.CounterVec
	importsTotal    prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	runDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_run_duration_seconds",
		Help:    "Duration of practice generation runs",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
	})

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total practice generation runs",
	})

	schedulesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_schedules_generated_total",
		Help: "Total practice schedules written by generation runs",
	})

	relaxationTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_relaxation_level_total",
		Help: "Team evaluations finishing at each constraint relaxation level",
	}, []string{"level"})

	importsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservation_imports_total",
		Help: "Total accepted reservation imports",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, runDuration, runsTotal, schedulesTotal, relaxationTotal, importsTotal, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		runDuration:     runDuration,
		runsTotal:       runsTotal,
		schedulesTotal:  schedulesTotal,
		relaxationTotal: relaxationTotal,
		importsTotal:    importsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGenerationRun records one completed generation run.
func (m *MetricsService) ObserveGenerationRun(duration time.Duration) {
	if m == nil {
		return
	}
	m.runDuration.Observe(duration.Seconds())
	m.runsTotal.Inc()
}

// AddSchedulesGenerated counts schedules written by a run.
func (m *MetricsService) AddSchedulesGenerated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.schedulesTotal.Add(float64(n))
}

// ObserveRelaxationLevel counts how far the constraint ladder had to escalate
// for one team and week.
func (m *MetricsService) ObserveRelaxationLevel(level int) {
	if m == nil {
		return
	}
	m.relaxationTotal.WithLabelValues(fmt.Sprintf("%d", level)).Inc()
}

// RecordImport counts an accepted reservation import.
func (m *MetricsService) RecordImport() {
	if m == nil {
		return
	}
	m.importsTotal.Inc()
}
