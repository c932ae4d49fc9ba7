package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pose_viewer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pose_viewer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pose_viewer_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pose_viewer_jobs_total",
			Help: "Total number of overlay jobs by final status",
		},
		[]string{"status"},
	)

	JobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pose_viewer_job_duration_seconds",
			Help:    "End-to-end overlay job duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1200},
		},
	)

	JobsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pose_viewer_jobs_in_progress",
			Help: "Number of overlay jobs currently being processed",
		},
	)

	FramesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_frames_processed_total",
			Help: "Total number of video frames run through the overlay pipeline",
		},
	)

	DetectorFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_detector_failures_total",
			Help: "Total number of frames where pose detection failed",
		},
	)

	TruncatedStreams = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_truncated_streams_total",
			Help: "Total number of input streams that ended abnormally",
		},
	)

	CodecFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_codec_fallbacks_total",
			Help: "Total number of jobs that fell back to the secondary encoder",
		},
	)

	JobRecords = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pose_viewer_job_records",
			Help: "Number of job records in the store by status",
		},
		[]string{"status"},
	)
)

// Transcode metrics
var (
	TranscodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pose_viewer_transcodes_total",
			Help: "Total number of finalize transcodes by outcome",
		},
		[]string{"outcome"},
	)

	TranscodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pose_viewer_transcode_duration_seconds",
			Help:    "Finalize transcode duration in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pose_viewer_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pose_viewer_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Retention sweeper metrics
var (
	SweeperRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_sweeper_runs_total",
			Help: "Total number of retention sweeps",
		},
	)

	SweeperFilesRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_sweeper_files_removed_total",
			Help: "Total number of files removed by the retention sweeper",
		},
	)
)

// Upload metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pose_viewer_uploads_total",
			Help: "Total number of upload requests by status",
		},
		[]string{"status"},
	)

	UploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_upload_bytes_total",
			Help: "Total bytes accepted from uploads",
		},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pose_viewer_memory_usage_ratio",
			Help: "Current heap usage as a fraction of the configured memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pose_viewer_memory_paused",
			Help: "Whether job processing is paused due to memory pressure (0 or 1)",
		},
	)

	MemoryGCPauses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pose_viewer_memory_gc_pauses_total",
			Help: "Total number of times memory pressure paused processing and forced a GC",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pose_viewer_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
