package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Job lifecycle ---
	for _, status := range []string{"done", "failed"} {
		JobsTotal.WithLabelValues(status)
	}
	for _, status := range []string{"processing", "done", "failed"} {
		JobRecords.WithLabelValues(status)
	}

	// --- Finalize transcode outcomes ---
	for _, outcome := range []string{"transcoded", "raw"} {
		TranscodesTotal.WithLabelValues(outcome)
	}

	// --- Uploads ---
	for _, status := range []string{"accepted", "rejected", "error"} {
		UploadsTotal.WithLabelValues(status)
	}

	// --- DB query operations ---
	for _, op := range []string{"initialize_schema", "create_job", "update_job",
		"get_job", "count_jobs"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
