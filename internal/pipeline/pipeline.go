package pipeline

import (
	"fmt"

	"pose-viewer/internal/frame"
	"pose-viewer/internal/logging"
	"pose-viewer/internal/overlay"
	"pose-viewer/internal/pose"
	"pose-viewer/internal/video"
)

// State tracks where a run is in its lifecycle. Runs move strictly
// forward; Errored and Closed are terminal.
type State int

const (
	StateIdle State = iota
	StateOpening
	StateStreaming
	StateDraining
	StateClosed
	StateErrored
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// progressLogInterval is how often frame progress is logged.
const progressLogInterval = 30

// Config describes one overlay run: where the input lives, where the
// raw (pre-transcode) output goes, and the collaborators the run uses.
type Config struct {
	InputPath     string
	RawOutputPath string

	// OrientationHint, when non-nil, overrides metadata probing. It
	// must be one of 0, 90, 180, 270.
	OrientationHint *int

	// Detector produces landmarks per frame. The run takes ownership
	// and closes it on every exit path.
	Detector pose.Detector

	// Style controls skeleton rendering. The zero value is replaced by
	// overlay.DefaultStyle.
	Style *overlay.Style

	// Progress, when set, is called after every frame with the number
	// of frames done and the probed total (0 when unknown).
	Progress func(done, total int)

	// FirstFrame, when set, receives a copy of the first composited
	// frame, for poster generation.
	FirstFrame func(*frame.Frame)
}

// Deps are the run's external seams. Zero values use the real ffmpeg
// implementations; tests substitute fakes.
type Deps struct {
	OpenSource func(path string) (video.Source, error)
	OpenSink   func(path string, geom video.Geometry, codec video.Codec) (video.Sink, error)
	Prober     video.RotationProber
}

func (d *Deps) fill() {
	if d.OpenSource == nil {
		d.OpenSource = func(path string) (video.Source, error) {
			return video.OpenSource(path)
		}
	}
	if d.OpenSink == nil {
		d.OpenSink = func(path string, geom video.Geometry, codec video.Codec) (video.Sink, error) {
			return video.OpenSink(path, geom, codec)
		}
	}
	if d.Prober == nil {
		d.Prober = video.NewProber()
	}
}

// Result summarizes a completed run.
type Result struct {
	Frames           int
	DetectorFailures int
	Truncated        bool
	Orientation      video.Orientation
	Geometry         video.Geometry
	Codec            video.Codec
}

// codecOrder is the encoder preference for the raw output stream. The
// fallback happens at most once, at open time.
var codecOrder = []video.Codec{video.CodecH264, video.CodecMPEG4}

// Runner executes overlay runs. A Runner is stateless across runs and
// safe for concurrent use; each Run call is an independent job.
type Runner struct {
	deps Deps
}

// NewRunner returns a Runner using the real video implementations.
func NewRunner() *Runner {
	return NewRunnerWithDeps(Deps{})
}

// NewRunnerWithDeps returns a Runner with substituted seams.
func NewRunnerWithDeps(deps Deps) *Runner {
	deps.fill()
	return &Runner{deps: deps}
}

// Run reads the input video frame by frame, overlays detected pose
// skeletons, and writes the composited frames to the raw output path.
// Detector failures degrade individual frames instead of aborting, and
// a truncated input stream ends the run with the frames decoded so far.
func (r *Runner) Run(cfg Config) (*Result, error) {
	state := StateIdle

	if cfg.InputPath == "" {
		return nil, invalidInput("input path is empty")
	}
	if cfg.RawOutputPath == "" {
		return nil, invalidInput("output path is empty")
	}
	if cfg.Detector == nil {
		return nil, invalidInput("no detector configured")
	}
	defer func() {
		if err := cfg.Detector.Close(); err != nil {
			logging.Warn("detector close: %v", err)
		}
	}()

	state = StateOpening
	logging.Debug("run %s: input=%s output=%s", state, cfg.InputPath, cfg.RawOutputPath)

	orientation, err := video.ResolveOrientation(cfg.OrientationHint, r.deps.Prober, cfg.InputPath)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	source, err := r.deps.OpenSource(cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceOpen, err)
	}
	defer source.Close()

	inGeom := source.Geometry()
	outGeom := inGeom.Oriented(orientation)

	sink, codec, err := r.openSink(cfg.RawOutputPath, outGeom)
	if err != nil {
		return nil, err
	}

	style := overlay.DefaultStyle()
	if cfg.Style != nil {
		style = *cfg.Style
	}

	result := &Result{
		Orientation: orientation,
		Geometry:    outGeom,
		Codec:       codec,
	}

	state = StateStreaming
	logging.Info("run %s: %s -> %s, orientation=%d, codec=%s, ~%d frames",
		state, inGeom, outGeom, orientation.Degrees(), codec, inGeom.FrameCount)

	runErr := r.stream(cfg, source, sink, inGeom, orientation, style, result)

	state = StateDraining
	if err := sink.Close(); err != nil {
		// The encoder failing at close loses the whole raw output.
		state = StateErrored
		logging.Error("run %s: sink close: %v", state, err)
		return nil, fmt.Errorf("%w: finalize: %v", ErrSinkOpen, err)
	}
	if runErr != nil {
		state = StateErrored
		logging.Error("run %s: %v", state, runErr)
		return nil, runErr
	}

	state = StateClosed
	logging.Info("run %s: %d frames, %d detector failures, truncated=%v",
		state, result.Frames, result.DetectorFailures, result.Truncated)
	return result, nil
}

// openSink opens the raw output, falling back through codecOrder. Only
// the first successful open counts; there is no mid-stream switching.
func (r *Runner) openSink(path string, geom video.Geometry) (video.Sink, video.Codec, error) {
	var lastErr error
	for i, codec := range codecOrder {
		sink, err := r.deps.OpenSink(path, geom, codec)
		if err == nil {
			if i > 0 {
				logging.Warn("primary codec unavailable, using %s", codec)
			}
			return sink, codec, nil
		}
		lastErr = err
		logging.Debug("codec %s unavailable: %v", codec, err)
	}
	return nil, "", fmt.Errorf("%w: %v", ErrSinkOpen, lastErr)
}

// stream is the per-frame loop.
func (r *Runner) stream(cfg Config, source video.Source, sink video.Sink,
	inGeom video.Geometry, orientation video.Orientation, style overlay.Style, result *Result) error {

	total := inGeom.FrameCount

	for {
		buf := make([]byte, inGeom.FrameBytes())
		status, err := source.Read(buf)
		switch status {
		case video.ReadEndOfStream:
			return nil
		case video.ReadFailed:
			// A failed read after successful frames is a truncated
			// stream. Keep what was decoded.
			logging.Warn("input stream ended abnormally after %d frames: %v", result.Frames, err)
			result.Truncated = true
			return nil
		}

		f, err := frame.FromPix(inGeom.Width, inGeom.Height, buf)
		if err != nil {
			return fmt.Errorf("frame %d: %w", result.Frames, err)
		}

		f, err = frame.Rotate(f, orientation.Degrees())
		if err != nil {
			return fmt.Errorf("frame %d: %w", result.Frames, err)
		}

		landmarks, err := cfg.Detector.Detect(f.RGB(), f.Width, f.Height)
		if err != nil {
			// A failing detector degrades this frame to no overlay.
			result.DetectorFailures++
			logging.Warn("detector failed on frame %d: %v", result.Frames, err)
			landmarks = nil
		}

		overlay.Composite(f, landmarks, style)

		if err := sink.Write(f.Pix); err != nil {
			return fmt.Errorf("write frame %d: %w", result.Frames, err)
		}

		if result.Frames == 0 && cfg.FirstFrame != nil {
			cfg.FirstFrame(f.Clone())
		}

		result.Frames++
		if result.Frames%progressLogInterval == 0 {
			logging.Debug("processed %d/%d frames", result.Frames, total)
		}
		if cfg.Progress != nil {
			cfg.Progress(result.Frames, total)
		}
	}
}
