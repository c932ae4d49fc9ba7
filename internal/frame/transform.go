package frame

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// Rotate returns the frame rotated clockwise by the given number of
// degrees. 0 is the identity and returns the frame itself without a
// copy; 90, 180 and 270 allocate a new frame, swapping dimensions for
// the quarter turns.
//
// Any other value is a precondition violation: orientation is validated
// upstream, so this is a defensive check only.
func Rotate(f *Frame, degrees int) (*Frame, error) {
	switch degrees {
	case 0:
		return f, nil
	case 90:
		// imaging rotates counter-clockwise, so clockwise 90 is its 270.
		return FromNRGBA(imaging.Rotate270(f.ToNRGBA())), nil
	case 180:
		return FromNRGBA(imaging.Rotate180(f.ToNRGBA())), nil
	case 270:
		return FromNRGBA(imaging.Rotate90(f.ToNRGBA())), nil
	default:
		return nil, fmt.Errorf("unsupported rotation %d: must be one of 0, 90, 180, 270", degrees)
	}
}
