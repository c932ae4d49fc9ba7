package video

import "testing"

func TestGeometryOriented(t *testing.T) {
	base := Geometry{Width: 1920, Height: 1080, FrameRate: 30}

	tests := []struct {
		name        string
		orientation Orientation
		wantW       int
		wantH       int
	}{
		{"0 keeps dimensions", Orient0, 1920, 1080},
		{"90 swaps dimensions", Orient90, 1080, 1920},
		{"180 keeps dimensions", Orient180, 1920, 1080},
		{"270 swaps dimensions", Orient270, 1080, 1920},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Oriented(tt.orientation)
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("Oriented(%v) = %dx%d, want %dx%d",
					tt.orientation, got.Width, got.Height, tt.wantW, tt.wantH)
			}
			if got.FrameRate != base.FrameRate {
				t.Errorf("Oriented() changed frame rate to %v", got.FrameRate)
			}
		})
	}
}

func TestGeometryEffectiveFrameRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want float64
	}{
		{"positive rate kept", 24, 24},
		{"zero rate defaults", 0, 30},
		{"negative rate defaults", -1, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Geometry{Width: 100, Height: 100, FrameRate: tt.rate}
			if got := g.EffectiveFrameRate(); got != tt.want {
				t.Errorf("EffectiveFrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := (Geometry{Width: 640, Height: 480}).Validate(); err != nil {
		t.Errorf("valid geometry rejected: %v", err)
	}
	if err := (Geometry{Width: 0, Height: 480}).Validate(); err == nil {
		t.Error("zero width accepted")
	}
	if err := (Geometry{Width: 640, Height: -1}).Validate(); err == nil {
		t.Error("negative height accepted")
	}
}

func TestGeometryFrameBytes(t *testing.T) {
	g := Geometry{Width: 4, Height: 3}
	if got := g.FrameBytes(); got != 36 {
		t.Errorf("FrameBytes() = %d, want 36", got)
	}
}
