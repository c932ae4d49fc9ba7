package frame

import (
	"bytes"
	"image/color"
	"testing"
)

// testFrame builds a small frame with a distinct value in every byte.
func testFrame(w, h int) *Frame {
	f := New(w, h)
	for i := range f.Pix {
		f.Pix[i] = byte(i * 7)
	}
	return f
}

func TestFromPix(t *testing.T) {
	if _, err := FromPix(2, 2, make([]byte, 12)); err != nil {
		t.Errorf("valid buffer rejected: %v", err)
	}
	if _, err := FromPix(2, 2, make([]byte, 11)); err == nil {
		t.Error("short buffer accepted")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := testFrame(3, 2)
	c := f.Clone()

	if !bytes.Equal(f.Pix, c.Pix) {
		t.Fatal("clone differs from original")
	}

	c.Pix[0] ^= 0xff
	if bytes.Equal(f.Pix, c.Pix) {
		t.Error("mutating clone changed original")
	}
}

func TestSetAndAt(t *testing.T) {
	f := New(4, 4)
	want := color.RGBA{R: 10, G: 20, B: 30, A: 0xff}
	f.Set(2, 1, want)

	if got := f.At(2, 1); got != want {
		t.Errorf("At(2,1) = %v, want %v", got, want)
	}

	// BGR byte order in the backing buffer.
	i := (1*4 + 2) * 3
	if f.Pix[i] != 30 || f.Pix[i+1] != 20 || f.Pix[i+2] != 10 {
		t.Errorf("backing bytes = %v, want [30 20 10]", f.Pix[i:i+3])
	}
}

func TestSetOutOfBoundsIsDropped(t *testing.T) {
	f := testFrame(2, 2)
	before := f.Clone()

	for _, p := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {100, 100}} {
		f.Set(p[0], p[1], color.RGBA{R: 0xff})
	}

	if !bytes.Equal(f.Pix, before.Pix) {
		t.Error("out-of-bounds Set mutated the frame")
	}
}

func TestRGBDoesNotMutateFrame(t *testing.T) {
	f := testFrame(2, 2)
	before := f.Clone()

	rgb := f.RGB()
	if len(rgb) != len(f.Pix) {
		t.Fatalf("RGB() length = %d, want %d", len(rgb), len(f.Pix))
	}

	// Channel order swapped per pixel.
	for i := 0; i < len(f.Pix); i += 3 {
		if rgb[i] != f.Pix[i+2] || rgb[i+1] != f.Pix[i+1] || rgb[i+2] != f.Pix[i] {
			t.Fatalf("pixel %d not swizzled: rgb=%v bgr=%v", i/3, rgb[i:i+3], f.Pix[i:i+3])
		}
	}

	rgb[0] ^= 0xff
	if !bytes.Equal(f.Pix, before.Pix) {
		t.Error("mutating RGB copy changed the frame")
	}
}

func TestNRGBARoundTrip(t *testing.T) {
	f := testFrame(5, 3)
	got := FromNRGBA(f.ToNRGBA())

	if got.Width != f.Width || got.Height != f.Height {
		t.Fatalf("round trip dimensions %dx%d, want %dx%d", got.Width, got.Height, f.Width, f.Height)
	}
	if !bytes.Equal(got.Pix, f.Pix) {
		t.Error("round trip changed pixel data")
	}
}

func TestRotateIdentity(t *testing.T) {
	f := testFrame(4, 2)
	got, err := Rotate(f, 0)
	if err != nil {
		t.Fatalf("Rotate(0): %v", err)
	}
	if got != f {
		t.Error("Rotate(0) copied the frame")
	}
}

func TestRotateDimensions(t *testing.T) {
	tests := []struct {
		degrees int
		wantW   int
		wantH   int
	}{
		{90, 2, 4},
		{180, 4, 2},
		{270, 2, 4},
	}

	for _, tt := range tests {
		f := testFrame(4, 2)
		got, err := Rotate(f, tt.degrees)
		if err != nil {
			t.Fatalf("Rotate(%d): %v", tt.degrees, err)
		}
		if got.Width != tt.wantW || got.Height != tt.wantH {
			t.Errorf("Rotate(%d) = %dx%d, want %dx%d",
				tt.degrees, got.Width, got.Height, tt.wantW, tt.wantH)
		}
	}
}

func TestRotateClockwise90MovesPixels(t *testing.T) {
	// 2x1 frame: left pixel red, right pixel green. A clockwise quarter
	// turn puts red at the top of a 1x2 frame.
	f := New(2, 1)
	f.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	f.Set(1, 0, color.RGBA{G: 0xff, A: 0xff})

	got, err := Rotate(f, 90)
	if err != nil {
		t.Fatalf("Rotate(90): %v", err)
	}

	if c := got.At(0, 0); c.R != 0xff {
		t.Errorf("top pixel = %v, want red", c)
	}
	if c := got.At(0, 1); c.G != 0xff {
		t.Errorf("bottom pixel = %v, want green", c)
	}
}

func TestRotateRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		forward int
		inverse int
	}{
		{"90 then 270", 90, 270},
		{"180 then 180", 180, 180},
		{"270 then 90", 270, 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame(6, 4)

			rotated, err := Rotate(f.Clone(), tt.forward)
			if err != nil {
				t.Fatalf("Rotate(%d): %v", tt.forward, err)
			}
			back, err := Rotate(rotated, tt.inverse)
			if err != nil {
				t.Fatalf("Rotate(%d): %v", tt.inverse, err)
			}

			if back.Width != f.Width || back.Height != f.Height {
				t.Fatalf("round trip dimensions %dx%d, want %dx%d",
					back.Width, back.Height, f.Width, f.Height)
			}
			if !bytes.Equal(back.Pix, f.Pix) {
				t.Error("round trip changed pixel data")
			}
		})
	}
}

func TestRotateRejectsArbitraryAngle(t *testing.T) {
	for _, degrees := range []int{45, -90, 360, 1} {
		if _, err := Rotate(testFrame(2, 2), degrees); err == nil {
			t.Errorf("Rotate(%d) accepted unsupported angle", degrees)
		}
	}
}
