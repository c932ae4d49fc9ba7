package video

import (
	"errors"
	"testing"
)

type stubRotationProber struct {
	degrees int
	err     error
}

func (s stubRotationProber) ProbeRotation(string) (int, error) {
	return s.degrees, s.err
}

func TestParseOrientation(t *testing.T) {
	for _, degrees := range []int{0, 90, 180, 270} {
		o, err := ParseOrientation(degrees)
		if err != nil {
			t.Errorf("ParseOrientation(%d) unexpected error: %v", degrees, err)
		}
		if o.Degrees() != degrees {
			t.Errorf("ParseOrientation(%d) = %v", degrees, o)
		}
	}

	for _, degrees := range []int{1, 45, -90, 360, 91} {
		if _, err := ParseOrientation(degrees); err == nil {
			t.Errorf("ParseOrientation(%d) accepted invalid value", degrees)
		}
	}
}

func TestResolveOrientationExplicitHint(t *testing.T) {
	hint := 90
	// The prober must not be consulted when a hint is present; make it
	// return a conflicting value to prove that.
	o, err := ResolveOrientation(&hint, stubRotationProber{degrees: 180}, "in.mp4")
	if err != nil {
		t.Fatalf("ResolveOrientation: %v", err)
	}
	if o != Orient90 {
		t.Errorf("got %v, want %v", o, Orient90)
	}
}

func TestResolveOrientationInvalidHint(t *testing.T) {
	hint := 45
	if _, err := ResolveOrientation(&hint, stubRotationProber{}, "in.mp4"); err == nil {
		t.Error("invalid hint accepted")
	}
}

func TestResolveOrientationFromMetadata(t *testing.T) {
	tests := []struct {
		name   string
		prober stubRotationProber
		want   Orientation
	}{
		{"metadata 270", stubRotationProber{degrees: 270}, Orient270},
		{"negative metadata normalized", stubRotationProber{degrees: -90}, Orient270},
		{"no metadata", stubRotationProber{degrees: 0}, Orient0},
		{"probe failure is not fatal", stubRotationProber{err: errors.New("probe exploded")}, Orient0},
		{"unsupported metadata ignored", stubRotationProber{degrees: 33}, Orient0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ResolveOrientation(nil, tt.prober, "in.mp4")
			if err != nil {
				t.Fatalf("ResolveOrientation: %v", err)
			}
			if o != tt.want {
				t.Errorf("got %v, want %v", o, tt.want)
			}
		})
	}
}
