package frame

import (
	"fmt"
	"image"
	"image/color"
)

// Frame is an owned, mutable pixel buffer holding one decoded video
// frame in packed BGR order, 3 bytes per pixel, row-major. This matches
// the layout the video adapters exchange with ffmpeg, so frames move
// between decoder, compositor and encoder without conversion.
type Frame struct {
	Width  int
	Height int
	// Pix holds Width*Height*3 bytes: B, G, R per pixel.
	Pix []byte
}

// New allocates a zeroed frame of the given dimensions.
func New(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*3),
	}
}

// FromPix wraps an existing BGR24 buffer. The buffer length must match
// the dimensions.
func FromPix(width, height int, pix []byte) (*Frame, error) {
	if len(pix) != width*height*3 {
		return nil, fmt.Errorf("pixel buffer is %d bytes, %dx%d frame needs %d",
			len(pix), width, height, width*height*3)
	}
	return &Frame{Width: width, Height: height, Pix: pix}, nil
}

// Clone returns an independent copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return &Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// offset returns the index of pixel (x, y) in Pix. Callers must bounds
// check first.
func (f *Frame) offset(x, y int) int {
	return (y*f.Width + x) * 3
}

// At returns the color of pixel (x, y). Out-of-bounds reads return
// black.
func (f *Frame) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return color.RGBA{A: 0xff}
	}
	i := f.offset(x, y)
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 0xff}
}

// Set writes the color of pixel (x, y). Out-of-bounds writes are
// silently dropped, which lets drawing code clamp for free.
func (f *Frame) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := f.offset(x, y)
	f.Pix[i] = c.B
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.R
}

// RGB returns a freshly allocated packed RGB24 copy of the frame. The
// pose detector consumes RGB input; the copy keeps detector input
// independent from the frame that later receives the overlay.
func (f *Frame) RGB() []byte {
	rgb := make([]byte, len(f.Pix))
	for i := 0; i < len(f.Pix); i += 3 {
		rgb[i] = f.Pix[i+2]
		rgb[i+1] = f.Pix[i+1]
		rgb[i+2] = f.Pix[i]
	}
	return rgb
}

// ToNRGBA converts the frame for use with image libraries.
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		src := y * f.Width * 3
		dst := y * img.Stride
		for x := 0; x < f.Width; x++ {
			img.Pix[dst] = f.Pix[src+2]
			img.Pix[dst+1] = f.Pix[src+1]
			img.Pix[dst+2] = f.Pix[src]
			img.Pix[dst+3] = 0xff
			src += 3
			dst += 4
		}
	}
	return img
}

// FromNRGBA converts an image back into a packed BGR frame.
func FromNRGBA(img *image.NRGBA) *Frame {
	bounds := img.Bounds()
	f := New(bounds.Dx(), bounds.Dy())
	for y := 0; y < f.Height; y++ {
		src := (y+bounds.Min.Y-img.Rect.Min.Y)*img.Stride + (bounds.Min.X-img.Rect.Min.X)*4
		dst := y * f.Width * 3
		for x := 0; x < f.Width; x++ {
			f.Pix[dst] = img.Pix[src+2]
			f.Pix[dst+1] = img.Pix[src+1]
			f.Pix[dst+2] = img.Pix[src]
			src += 4
			dst += 3
		}
	}
	return f
}
