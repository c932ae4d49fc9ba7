package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for run failures that stop a job before any frames
// are produced. Failures after streaming starts are handled in place
// and degrade the output instead of aborting.
var (
	// ErrInvalidInput marks a request rejected before any work starts:
	// missing paths, bad orientation hints, bad detector tuning.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSourceOpen marks a failure to open or probe the input video.
	ErrSourceOpen = errors.New("source open failed")

	// ErrSinkOpen marks a failure to open the output stream with every
	// available codec.
	ErrSinkOpen = errors.New("sink open failed")
)

// invalidInput wraps a reason under ErrInvalidInput.
func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidInput}, args...)...)
}
