// Package metrics provides Prometheus instrumentation for the pose-viewer
// application.
//
// All metrics are prefixed with "pose_viewer_" to avoid naming collisions
// with other applications. The categories cover HTTP request handling, the
// overlay job pipeline, finalize transcodes, the sqlite job store, the
// retention sweeper, and uploads.
//
// Call InitializeMetrics once at startup to pre-populate the expected
// label combinations so every series is present from the first scrape.
package metrics
