package video

import (
	"fmt"

	"pose-viewer/internal/logging"
)

// Orientation is the clockwise rotation, in degrees, required to present
// a frame upright. It is resolved once per run and never recomputed.
type Orientation int

// Supported orientations.
const (
	Orient0   Orientation = 0
	Orient90  Orientation = 90
	Orient180 Orientation = 180
	Orient270 Orientation = 270
)

// Degrees returns the rotation as a plain integer.
func (o Orientation) Degrees() int {
	return int(o)
}

func (o Orientation) String() string {
	return fmt.Sprintf("%d°", int(o))
}

// ParseOrientation validates a caller-supplied rotation hint.
func ParseOrientation(degrees int) (Orientation, error) {
	switch degrees {
	case 0, 90, 180, 270:
		return Orientation(degrees), nil
	default:
		return Orient0, fmt.Errorf("unsupported rotation %d: must be one of 0, 90, 180, 270", degrees)
	}
}

// RotationProber reads container-level rotation metadata for a file.
// Implementations may fail; callers treat failure as "no rotation".
type RotationProber interface {
	ProbeRotation(path string) (int, error)
}

// ResolveOrientation determines the rotation to apply to every frame of a
// run. An explicit hint wins and must be a supported value. Without a
// hint the container metadata is consulted once; probe failure or absent
// metadata is not fatal and resolves to 0 degrees.
func ResolveOrientation(hint *int, prober RotationProber, path string) (Orientation, error) {
	if hint != nil {
		o, err := ParseOrientation(*hint)
		if err != nil {
			return Orient0, err
		}
		logging.Info("Using manual rotation: %s", o)
		return o, nil
	}

	degrees, err := prober.ProbeRotation(path)
	if err != nil {
		logging.Debug("Rotation metadata unavailable, assuming 0°: %v", err)
		return Orient0, nil
	}

	o, err := ParseOrientation(normalizeRotation(degrees))
	if err != nil {
		logging.Warn("Ignoring unsupported rotation metadata %d", degrees)
		return Orient0, nil
	}

	logging.Info("Detected rotation from metadata: %s", o)
	return o, nil
}

// normalizeRotation maps metadata values like -90 or 450 onto [0, 360).
func normalizeRotation(degrees int) int {
	degrees %= 360
	if degrees < 0 {
		degrees += 360
	}
	return degrees
}
