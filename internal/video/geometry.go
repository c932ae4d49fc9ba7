package video

import "fmt"

// defaultFrameRate substitutes for sources that report a non-positive
// frame rate.
const defaultFrameRate = 30.0

// Geometry describes the pixel dimensions and timing of a video stream.
// FrameCount is zero when the container does not report it.
type Geometry struct {
	Width      int
	Height     int
	FrameRate  float64
	FrameCount int
}

// Validate checks that the geometry describes a usable stream.
func (g Geometry) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", g.Width, g.Height)
	}
	return nil
}

// EffectiveFrameRate returns the stream frame rate, falling back to the
// default when the reported rate is non-positive.
func (g Geometry) EffectiveFrameRate() float64 {
	if g.FrameRate <= 0 {
		return defaultFrameRate
	}
	return g.FrameRate
}

// Oriented returns the geometry after applying the given orientation:
// width and height are swapped for 90 and 270 degree rotations.
func (g Geometry) Oriented(o Orientation) Geometry {
	if o == Orient90 || o == Orient270 {
		g.Width, g.Height = g.Height, g.Width
	}
	return g
}

// FrameBytes returns the size in bytes of one packed BGR24 frame at this
// geometry.
func (g Geometry) FrameBytes() int {
	return g.Width * g.Height * 3
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%d @ %.3g fps", g.Width, g.Height, g.EffectiveFrameRate())
}
