package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/house-marketplace/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the service's Prometheus collectors.
// All record methods are safe to call on a nil manager.
type MetricsManager struct {
	Registry             *prometheus.Registry
	SubmissionsTotal     *prometheus.CounterVec
	SubmissionLatency    prometheus.Histogram
	UploadsTotal         *prometheus.CounterVec
	UploadedBytesTotal   prometheus.Counter
	GeocodeRequestsTotal *prometheus.CounterVec
	OrphanedObjectsTotal prometheus.Counter
}

// NewMetricsManager prefixes every metric with serviceName, hyphens replaced by
// underscores.
func NewMetricsManager(serviceName string) *MetricsManager {
	registry := prometheus.NewRegistry()
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	submissionsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "listing_submissions_total",
		Help:      "Listing submissions by terminal state.",
	}, []string{"state"})
	submissionLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "listing_submission_duration_seconds",
		Help:      "Wall time of a listing submission from validation to terminal state.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	})
	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "image_uploads_total",
		Help:      "Image uploads by result.",
	}, []string{"result"})
	uploadedBytesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "image_uploaded_bytes_total",
		Help:      "Bytes of image data successfully uploaded.",
	})
	geocodeRequestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "geocode_requests_total",
		Help:      "Geocoding lookups by result.",
	}, []string{"result"})
	orphanedObjectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "orphaned_objects_total",
		Help:      "Uploaded objects left behind by submissions that failed to upload every image.",
	})

	registry.MustRegister(
		submissionsTotal,
		submissionLatency,
		uploadsTotal,
		uploadedBytesTotal,
		geocodeRequestsTotal,
		orphanedObjectsTotal,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	return &MetricsManager{
		Registry:             registry,
		SubmissionsTotal:     submissionsTotal,
		SubmissionLatency:    submissionLatency,
		UploadsTotal:         uploadsTotal,
		UploadedBytesTotal:   uploadedBytesTotal,
		GeocodeRequestsTotal: geocodeRequestsTotal,
		OrphanedObjectsTotal: orphanedObjectsTotal,
	}
}

func (m *MetricsManager) ObserveSubmission(state string, took time.Duration) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(state).Inc()
	m.SubmissionLatency.Observe(took.Seconds())
}

func (m *MetricsManager) ObserveUpload(err error, size int64) {
	if m == nil {
		return
	}
	if err != nil {
		m.UploadsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.UploadsTotal.WithLabelValues("ok").Inc()
	m.UploadedBytesTotal.Add(float64(size))
}

func (m *MetricsManager) ObserveGeocode(result string) {
	if m == nil {
		return
	}
	m.GeocodeRequestsTotal.WithLabelValues(result).Inc()
}

func (m *MetricsManager) ObserveOrphans(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.OrphanedObjectsTotal.Add(float64(n))
}

// StartMetricsServer serves /metrics on port. An empty port disables it.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
