package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsAreRegistered(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
		{"JobsTotal", JobsTotal},
		{"JobDuration", JobDuration},
		{"JobsInProgress", JobsInProgress},
		{"FramesProcessed", FramesProcessed},
		{"DetectorFailures", DetectorFailures},
		{"TruncatedStreams", TruncatedStreams},
		{"CodecFallbacks", CodecFallbacks},
		{"TranscodesTotal", TranscodesTotal},
		{"TranscodeDuration", TranscodeDuration},
		{"DBQueryTotal", DBQueryTotal},
		{"DBQueryDuration", DBQueryDuration},
		{"SweeperRunsTotal", SweeperRunsTotal},
		{"SweeperFilesRemoved", SweeperFilesRemoved},
		{"UploadsTotal", UploadsTotal},
		{"UploadBytes", UploadBytes},
		{"AppInfo", AppInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	if got := testutil.ToFloat64(JobsTotal.WithLabelValues("done")); got != 0 {
		t.Errorf("JobsTotal[done] = %v, want 0 after init", got)
	}
	if got := testutil.ToFloat64(TranscodesTotal.WithLabelValues("raw")); got != 0 {
		t.Errorf("TranscodesTotal[raw] = %v, want 0 after init", got)
	}
}

type stubStatsProvider struct {
	stats Stats
}

func (s *stubStatsProvider) GetStats() Stats { return s.stats }

func TestCollectorUpdatesJobRecords(t *testing.T) {
	provider := &stubStatsProvider{stats: Stats{ProcessingJobs: 2, CompletedJobs: 5, FailedJobs: 1}}
	c := NewCollector(provider, time.Hour)
	c.collect()

	if got := testutil.ToFloat64(JobRecords.WithLabelValues("processing")); got != 2 {
		t.Errorf("processing gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(JobRecords.WithLabelValues("done")); got != 5 {
		t.Errorf("done gauge = %v, want 5", got)
	}
	if got := testutil.ToFloat64(JobRecords.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed gauge = %v, want 1", got)
	}
}

func TestCollectorNilProviderDoesNotPanic(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	c.collect()
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "abc123", "go1.25")
	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.0.0", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}
