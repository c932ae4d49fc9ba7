package video

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"pose-viewer/internal/logging"
)

// Codec identifies an ffmpeg video encoder used for the raw pipeline
// output.
type Codec string

const (
	// CodecH264 is the primary output codec.
	CodecH264 Codec = "libx264"
	// CodecMPEG4 is the more universally available fallback codec.
	CodecMPEG4 Codec = "mpeg4"
)

// Sink consumes packed BGR24 frames and encodes them into a video file.
// Implementations are not safe for concurrent use.
type Sink interface {
	// Write encodes one frame. The buffer must match the geometry the
	// sink was opened with; a mismatch is a caller defect.
	Write(buf []byte) error
	// Close finishes the encode and flushes the container. It must be
	// called for the output file to be playable.
	Close() error
}

// ffmpegSink encodes raw frames through an ffmpeg child process reading
// from a pipe.
type ffmpegSink struct {
	geom   Geometry
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	closed bool
}

// OpenSink starts an encoder process writing MP4 to path with the given
// codec. It fails up front when the encoder is not compiled into the
// local ffmpeg, so codec fallback can happen before any frame is
// written.
func OpenSink(path string, geom Geometry, codec Codec) (Sink, error) {
	if err := geom.Validate(); err != nil {
		return nil, fmt.Errorf("cannot open video sink: %w", err)
	}
	if err := encoderAvailable(string(codec)); err != nil {
		return nil, fmt.Errorf("cannot open video sink with %s: %w", codec, err)
	}

	cmd := exec.Command("ffmpeg",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", geom.Width, geom.Height),
		"-r", fmt.Sprintf("%g", geom.EffectiveFrameRate()),
		"-i", "-",
		"-an",
		"-c:v", string(codec),
		"-pix_fmt", "yuv420p",
		"-y",
		path,
	)

	sink := &ffmpegSink{geom: geom, cmd: cmd}
	cmd.Stderr = &sink.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("cannot open video sink: %w", err)
	}
	sink.stdin = stdin

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot open video sink: %w", err)
	}

	logging.Debug("Opened sink %s (%s, codec %s)", path, geom, codec)
	return sink, nil
}

func (s *ffmpegSink) Write(buf []byte) error {
	if len(buf) != s.geom.FrameBytes() {
		return fmt.Errorf("frame is %d bytes, sink expects %d (%dx%d)",
			len(buf), s.geom.FrameBytes(), s.geom.Width, s.geom.Height)
	}

	if _, err := s.stdin.Write(buf); err != nil {
		return fmt.Errorf("frame write failed: %w - %s", err, s.stderrTail())
	}
	return nil
}

func (s *ffmpegSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.stdin.Close(); err != nil {
		logging.Debug("sink stdin close: %v", err)
	}

	if err := s.cmd.Wait(); err != nil {
		return fmt.Errorf("encoder failed to finish: %w - %s", err, s.stderrTail())
	}
	return nil
}

func (s *ffmpegSink) stderrTail() string {
	out := strings.TrimSpace(s.stderr.String())
	if out == "" {
		return "no encoder diagnostics"
	}
	lines := strings.Split(out, "\n")
	return lines[len(lines)-1]
}

// encoderAvailable checks that the named encoder is present in the local
// ffmpeg build. libx264 support in particular varies across platform
// packages.
func encoderAvailable(name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-encoders")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("ffmpeg not usable: %w", err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		// Encoder rows look like " V..... libx264  H.264 / ...".
		if len(fields) >= 2 && fields[1] == name && strings.HasPrefix(fields[0], "V") {
			return nil
		}
	}
	return fmt.Errorf("encoder %q not available", name)
}
