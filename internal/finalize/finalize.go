package finalize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"pose-viewer/internal/logging"
)

// Outcome says how the final output file was produced.
type Outcome int

const (
	// OutcomeTranscoded means the raw output was re-encoded for browser
	// playback and the intermediate file was removed.
	OutcomeTranscoded Outcome = iota
	// OutcomeFellBackToRaw means the transcode failed and the raw
	// output was promoted to the final path unchanged.
	OutcomeFellBackToRaw
)

// String returns the outcome name for logs and job records.
func (o Outcome) String() string {
	switch o {
	case OutcomeTranscoded:
		return "transcoded"
	case OutcomeFellBackToRaw:
		return "raw"
	default:
		return fmt.Sprintf("unknown(%d)", int(o))
	}
}

// DefaultTimeout bounds a single transcode run.
const DefaultTimeout = 30 * time.Minute

// runFunc executes the transcode command. Substituted in tests.
type runFunc func(ctx context.Context, rawPath, finalPath string) error

// Finalizer turns a raw overlay output into a browser-playable MP4.
type Finalizer struct {
	timeout time.Duration
	run     runFunc
}

// New returns a Finalizer that shells out to ffmpeg.
func New() *Finalizer {
	return &Finalizer{
		timeout: DefaultTimeout,
		run:     runFFmpeg,
	}
}

// runFFmpeg re-encodes rawPath into finalPath with the playback
// profile: H.264 at a web-friendly pixel format, with the moov atom up
// front so playback can start before the download finishes.
func runFFmpeg(ctx context.Context, rawPath, finalPath string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-v", "error",
		"-i", rawPath,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		"-y", finalPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, stderr.String())
	}
	return nil
}

// Finalize produces exactly one file at finalPath and leaves nothing at
// rawPath. On transcode success the raw intermediate is deleted; on
// failure the raw file is renamed into place so the job still yields a
// playable-if-suboptimal result.
func (f *Finalizer) Finalize(ctx context.Context, rawPath, finalPath string) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.run(ctx, rawPath, finalPath); err != nil {
		logging.Warn("transcode failed, keeping raw output: %v", err)

		// A partial transcode result must not shadow the fallback.
		if removeErr := os.Remove(finalPath); removeErr != nil && !os.IsNotExist(removeErr) {
			return OutcomeFellBackToRaw, fmt.Errorf("remove partial output: %w", removeErr)
		}
		if renameErr := os.Rename(rawPath, finalPath); renameErr != nil {
			return OutcomeFellBackToRaw, fmt.Errorf("promote raw output: %w", renameErr)
		}
		return OutcomeFellBackToRaw, nil
	}

	if err := os.Remove(rawPath); err != nil && !os.IsNotExist(err) {
		logging.Warn("could not remove intermediate file %s: %v", rawPath, err)
	}
	logging.Debug("transcoded %s -> %s", rawPath, finalPath)
	return OutcomeTranscoded, nil
}
