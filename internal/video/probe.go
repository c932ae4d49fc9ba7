package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// probeTimeout bounds a single ffprobe invocation.
const probeTimeout = 15 * time.Second

// Prober extracts stream metadata from media files using ffprobe.
type Prober struct{}

// NewProber returns a Prober backed by the ffprobe binary on PATH.
func NewProber() *Prober {
	return &Prober{}
}

// ffprobeOutput matches the JSON structure emitted by
// ffprobe -print_format json -show_streams.
type ffprobeOutput struct {
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
	} `json:"streams"`
}

// ProbeGeometry reads the first video stream's dimensions, frame rate and
// frame count from the container.
func (p *Prober) ProbeGeometry(path string) (Geometry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-print_format", "json",
		"-show_streams",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Geometry{}, fmt.Errorf("ffprobe failed: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	var data ffprobeOutput
	if err := json.Unmarshal(stdout.Bytes(), &data); err != nil {
		return Geometry{}, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	for _, stream := range data.Streams {
		if stream.CodecType != "" && stream.CodecType != "video" {
			continue
		}
		geom := Geometry{
			Width:     stream.Width,
			Height:    stream.Height,
			FrameRate: parseFrameRate(stream.RFrameRate),
		}
		if n, err := strconv.Atoi(stream.NbFrames); err == nil && n > 0 {
			geom.FrameCount = n
		}
		if err := geom.Validate(); err != nil {
			return Geometry{}, fmt.Errorf("unusable video stream: %w", err)
		}
		return geom, nil
	}

	return Geometry{}, fmt.Errorf("no video stream found")
}

// ProbeRotation reads the rotate tag from the first video stream.
// A missing tag returns 0 with no error; only probe execution failures
// surface as errors. Implements RotationProber.
func (p *Prober) ProbeRotation(path string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream_tags=rotate",
		"-of", "default=nw=1:nk=1",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe rotation query failed: %w", err)
	}

	rotation := strings.TrimSpace(stdout.String())
	if rotation == "" {
		return 0, nil
	}

	degrees, err := strconv.Atoi(rotation)
	if err != nil {
		return 0, fmt.Errorf("malformed rotate tag %q: %w", rotation, err)
	}
	return degrees, nil
}

// parseFrameRate converts an ffprobe rate fraction ("30000/1001", "30/1")
// or plain number into frames per second. Returns 0 when unparsable.
func parseFrameRate(rate string) float64 {
	if rate == "" {
		return 0
	}

	if num, den, ok := strings.Cut(rate, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}

	f, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0
	}
	return f
}
