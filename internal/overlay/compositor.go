package overlay

import (
	"image/color"

	"pose-viewer/internal/frame"
	"pose-viewer/internal/pose"
)

// Style controls how a skeleton is rendered onto a frame.
type Style struct {
	BoneColor     color.RGBA
	JointColor    color.RGBA
	BoneThickness int
	JointRadius   int
}

// DefaultStyle matches the rendering used by the upload service: green
// bones, red joints.
func DefaultStyle() Style {
	return Style{
		BoneColor:     color.RGBA{G: 0xff, A: 0xff},
		JointColor:    color.RGBA{R: 0xff, A: 0xff},
		BoneThickness: 2,
		JointRadius:   3,
	}
}

// Composite draws the skeleton for the given landmarks onto f in place.
// Landmark coordinates are normalized to [0,1] and are scaled to the
// frame's dimensions here; coordinates outside the frame are clipped at
// the pixel level, so slightly out-of-range landmarks are safe. A nil
// landmark set leaves the frame untouched.
func Composite(f *frame.Frame, set *pose.LandmarkSet, style Style) {
	if set == nil || len(set.Points) == 0 {
		return
	}

	px := make([][2]int, len(set.Points))
	for i, p := range set.Points {
		px[i] = [2]int{
			int(p.X * float64(f.Width)),
			int(p.Y * float64(f.Height)),
		}
	}

	for _, e := range pose.Topology {
		if e.From >= len(px) || e.To >= len(px) {
			continue
		}
		a, b := px[e.From], px[e.To]
		drawLine(f, a[0], a[1], b[0], b[1], style.BoneColor, style.BoneThickness)
	}

	for _, p := range px {
		drawDisc(f, p[0], p[1], style.JointRadius, style.JointColor)
	}
}

// drawLine draws a Bresenham line with the given thickness. Thickness
// is applied as a square stamp at each step, which is close enough to
// round caps at the 1-3 pixel widths used here.
func drawLine(f *frame.Frame, x0, y0, x1, y1 int, c color.RGBA, thickness int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		stamp(f, x0, y0, thickness, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// stamp fills a thickness x thickness square centered on (x, y).
func stamp(f *frame.Frame, x, y, thickness int, c color.RGBA) {
	if thickness <= 1 {
		f.Set(x, y, c)
		return
	}
	half := thickness / 2
	for oy := -half; oy <= half; oy++ {
		for ox := -half; ox <= half; ox++ {
			f.Set(x+ox, y+oy, c)
		}
	}
}

// drawDisc fills a circle of the given radius centered on (x, y).
func drawDisc(f *frame.Frame, x, y, radius int, c color.RGBA) {
	if radius <= 0 {
		f.Set(x, y, c)
		return
	}
	r2 := radius * radius
	for oy := -radius; oy <= radius; oy++ {
		for ox := -radius; ox <= radius; ox++ {
			if ox*ox+oy*oy <= r2 {
				f.Set(x+ox, y+oy, c)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
