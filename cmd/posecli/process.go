package main

import (
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"pose-viewer/internal/finalize"
	"pose-viewer/internal/frame"
	"pose-viewer/internal/media"
	"pose-viewer/internal/pipeline"
	"pose-viewer/internal/pose"
	"pose-viewer/internal/video"
)

type processOptions struct {
	InputPath  string
	OutputPath string
	PosterPath string
	Rotation   int

	WorkerCommand          string
	ModelComplexity        int
	MinDetectionConfidence float64
	MinTrackingConfidence  float64
}

var processOpts processOptions

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Overlay detected poses onto a video file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runProcess(cmd, processOpts)
	},
}

func init() {
	defaults := pose.DefaultConfig()

	processCmd.Flags().StringVarP(&processOpts.InputPath, "input", "i", "", "Path to the input video")
	processCmd.Flags().StringVarP(&processOpts.OutputPath, "output", "o", "", "Path for the annotated MP4")
	processCmd.Flags().StringVar(&processOpts.PosterPath, "poster", "", "Optional path for a JPEG poster of the first frame")
	processCmd.Flags().IntVarP(&processOpts.Rotation, "rotation", "r", -1, "Rotation override in degrees (0, 90, 180, 270); default probes metadata")
	processCmd.Flags().StringVar(&processOpts.WorkerCommand, "worker-cmd", defaults.WorkerCommand, "Command used to start the pose detector worker")
	processCmd.Flags().IntVar(&processOpts.ModelComplexity, "model-complexity", defaults.ModelComplexity, "Detector model complexity (0-2)")
	processCmd.Flags().Float64Var(&processOpts.MinDetectionConfidence, "min-detection-confidence", defaults.MinDetectionConfidence, "Detector detection threshold")
	processCmd.Flags().Float64Var(&processOpts.MinTrackingConfidence, "min-tracking-confidence", defaults.MinTrackingConfidence, "Detector tracking threshold")

	processCmd.MarkFlagRequired("input")
	processCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, opts processOptions) error {
	start := time.Now()

	info, err := os.Stat(opts.InputPath)
	if err != nil {
		return fmt.Errorf("cannot access input: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory, expected a video file", opts.InputPath)
	}

	var hint *int
	if opts.Rotation >= 0 {
		if _, err := video.ParseOrientation(opts.Rotation); err != nil {
			return err
		}
		hint = &opts.Rotation
	}

	detectorCfg := pose.Config{
		ModelComplexity:        opts.ModelComplexity,
		MinDetectionConfidence: opts.MinDetectionConfidence,
		MinTrackingConfidence:  opts.MinTrackingConfidence,
		WorkerCommand:          opts.WorkerCommand,
	}
	// The pipeline run owns the worker and closes it on every exit path.
	worker, err := pose.StartWorker(detectorCfg)
	if err != nil {
		return fmt.Errorf("detector worker: %w", err)
	}

	rawPath := opts.OutputPath + ".raw.mp4"

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			if total <= 0 {
				total = -1
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Overlaying poses"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(done)
	}

	var firstFrame func(*frame.Frame)
	if opts.PosterPath != "" {
		firstFrame = func(f *frame.Frame) {
			if err := media.SavePoster(f, opts.PosterPath); err != nil {
				fmt.Fprintf(os.Stderr, "poster generation failed: %v\n", err)
			}
		}
	}

	result, err := pipeline.NewRunner().Run(pipeline.Config{
		InputPath:       opts.InputPath,
		RawOutputPath:   rawPath,
		OrientationHint: hint,
		Detector:        worker,
		Progress:        progress,
		FirstFrame:      firstFrame,
	})
	if err != nil {
		if rmErr := os.Remove(rawPath); rmErr != nil && !os.IsNotExist(rmErr) {
			fmt.Fprintf(os.Stderr, "failed to remove partial output: %v\n", rmErr)
		}
		return err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	fmt.Fprintf(os.Stderr, "\nFinalizing output...\n")
	outcome, err := finalize.New().Finalize(cmd.Context(), rawPath, opts.OutputPath)
	if err != nil {
		return fmt.Errorf("finalize output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Done in %v: %d frames (%dx%d, rotation %s), %d detector failures, output %s\n",
		time.Since(start).Round(time.Millisecond), result.Frames,
		result.Geometry.Width, result.Geometry.Height, result.Orientation,
		result.DetectorFailures, outcome)
	if result.Truncated {
		fmt.Fprintln(os.Stderr, "Warning: input stream ended early, output contains the decoded frames only")
	}
	return nil
}
