package pose

import "fmt"

// Config holds the tuning knobs passed to a detector instance. It is an
// explicit per-run value rather than process-wide state, so independent
// runs can use different tunings safely.
type Config struct {
	// StaticImageMode disables cross-frame tracking when true. Video
	// pipelines keep it false.
	StaticImageMode bool

	// ModelComplexity selects the model tier (0-2, higher is more
	// accurate and slower).
	ModelComplexity int

	// MinDetectionConfidence is the threshold for accepting an initial
	// detection (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the threshold for keeping a track alive
	// across frames (0.0-1.0).
	MinTrackingConfidence float64

	// WorkerCommand is the command that starts the detector worker
	// process.
	WorkerCommand string
}

// DefaultConfig returns the production tuning.
func DefaultConfig() Config {
	return Config{
		StaticImageMode:        false,
		ModelComplexity:        2,
		MinDetectionConfidence: 0.5,
		MinTrackingConfidence:  0.8,
		WorkerCommand:          "pose-worker",
	}
}

// Validate checks the thresholds and model tier.
func (c Config) Validate() error {
	if c.ModelComplexity < 0 || c.ModelComplexity > 2 {
		return fmt.Errorf("model complexity %d out of range [0,2]", c.ModelComplexity)
	}
	if c.MinDetectionConfidence < 0 || c.MinDetectionConfidence > 1 {
		return fmt.Errorf("detection confidence %v out of range [0,1]", c.MinDetectionConfidence)
	}
	if c.MinTrackingConfidence < 0 || c.MinTrackingConfidence > 1 {
		return fmt.Errorf("tracking confidence %v out of range [0,1]", c.MinTrackingConfidence)
	}
	return nil
}

// Detector finds at most one human pose in an RGB image. Implementations
// hold native resources and must be closed at the end of a run; a
// detector instance is exclusively owned by one pipeline run at a time.
type Detector interface {
	// Detect analyzes one packed RGB24 image and returns the detected
	// landmarks, or nil when no pose was found. Errors indicate a
	// detector malfunction, which callers treat as "no landmarks for
	// this frame".
	Detect(rgb []byte, width, height int) (*LandmarkSet, error)

	// Close releases the detector's resources. Safe to call more than
	// once.
	Close() error
}
