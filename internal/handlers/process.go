package handlers

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"pose-viewer/internal/database"
	"pose-viewer/internal/finalize"
	"pose-viewer/internal/frame"
	"pose-viewer/internal/logging"
	"pose-viewer/internal/media"
	"pose-viewer/internal/memory"
	"pose-viewer/internal/metrics"
	"pose-viewer/internal/pipeline"
	"pose-viewer/internal/pose"
	"pose-viewer/internal/startup"
	"pose-viewer/internal/video"
)

var errShuttingDown = errors.New("shutting down")

// Processor runs overlay jobs end to end: detector worker, frame
// pipeline, poster, transcode, and the job record.
type Processor struct {
	db           *database.Database
	detectorCfg  pose.Config
	processedDir string
	runner       *pipeline.Runner
	finalizer    *finalize.Finalizer
	memory       *memory.Monitor
}

// NewProcessor builds the default job processor. The memory monitor may
// be nil, in which case jobs start regardless of memory pressure.
func NewProcessor(db *database.Database, config *startup.Config, monitor *memory.Monitor) *Processor {
	return &Processor{
		db:           db,
		detectorCfg:  config.Detector,
		processedDir: config.ProcessedDir,
		runner:       pipeline.NewRunner(),
		finalizer:    finalize.New(),
		memory:       monitor,
	}
}

// Process runs one job to completion. It is called on its own goroutine
// and records the outcome itself; it never returns an error.
func (p *Processor) Process(jobID, inputPath string, orientationHint *int) {
	ctx := context.Background()
	start := time.Now()

	// Decoding holds whole frames in memory, so hold off under pressure.
	if p.memory != nil && !p.memory.WaitIfPaused() {
		p.fail(ctx, jobID, "job not started", errShuttingDown)
		return
	}

	metrics.JobsInProgress.Inc()
	defer metrics.JobsInProgress.Dec()

	rawPath := filepath.Join(p.processedDir, jobID+"_raw.mp4")
	finalPath := filepath.Join(p.processedDir, jobID+"_output.mp4")
	posterPath := filepath.Join(p.processedDir, jobID+"_poster.jpg")

	// The pipeline run owns the worker and closes it on every exit path.
	worker, err := pose.StartWorker(p.detectorCfg)
	if err != nil {
		p.fail(ctx, jobID, "detector worker failed to start", err)
		return
	}

	result, err := p.runner.Run(pipeline.Config{
		InputPath:       inputPath,
		RawOutputPath:   rawPath,
		OrientationHint: orientationHint,
		Detector:        worker,
		FirstFrame: func(f *frame.Frame) {
			if err := media.SavePoster(f, posterPath); err != nil {
				logging.Warn("job %s: poster generation failed: %v", jobID, err)
			}
		},
	})
	if err != nil {
		if rmErr := os.Remove(rawPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("job %s: failed to remove partial output: %v", jobID, rmErr)
		}
		p.fail(ctx, jobID, "overlay pipeline failed", err)
		return
	}

	metrics.FramesProcessed.Add(float64(result.Frames))
	metrics.DetectorFailures.Add(float64(result.DetectorFailures))
	if result.Truncated {
		metrics.TruncatedStreams.Inc()
	}
	if result.Codec != video.CodecH264 {
		metrics.CodecFallbacks.Inc()
	}

	transcodeStart := time.Now()
	outcome, err := p.finalizer.Finalize(ctx, rawPath, finalPath)
	if err != nil {
		p.fail(ctx, jobID, "output finalization failed", err)
		return
	}
	metrics.TranscodesTotal.WithLabelValues(outcome.String()).Inc()
	metrics.TranscodeDuration.Observe(time.Since(transcodeStart).Seconds())

	job := &database.Job{
		ID:               jobID,
		Orientation:      result.Orientation.Degrees(),
		Width:            result.Geometry.Width,
		Height:           result.Geometry.Height,
		Frames:           result.Frames,
		DetectorFailures: result.DetectorFailures,
		Truncated:        result.Truncated,
		Outcome:          outcome.String(),
	}
	if err := p.db.CompleteJob(ctx, job); err != nil {
		logging.Error("job %s: failed to record completion: %v", jobID, err)
	}

	metrics.JobsTotal.WithLabelValues(string(database.JobDone)).Inc()
	metrics.JobDuration.Observe(time.Since(start).Seconds())
	logging.Info("job %s: done in %v (%d frames, %d detector failures, outcome %s)",
		jobID, time.Since(start).Round(time.Millisecond), result.Frames, result.DetectorFailures, outcome)
}

func (p *Processor) fail(ctx context.Context, jobID, reason string, err error) {
	logging.Error("job %s: %s: %v", jobID, reason, err)
	if dbErr := p.db.FailJob(ctx, jobID, reason+": "+err.Error()); dbErr != nil {
		logging.Error("job %s: failed to record failure: %v", jobID, dbErr)
	}
	metrics.JobsTotal.WithLabelValues(string(database.JobFailed)).Inc()
}
