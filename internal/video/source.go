package video

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"pose-viewer/internal/logging"
)

// ReadStatus reports the outcome of one frame read. End of stream and
// mid-stream read failure are deliberately distinct: the container format
// cannot always tell a truncated file from a well-formed short one, so
// the adapter surfaces what it knows and lets the caller decide.
type ReadStatus int

const (
	// ReadOK means a complete frame was read into the buffer.
	ReadOK ReadStatus = iota
	// ReadEndOfStream means the stream ended cleanly on a frame boundary.
	ReadEndOfStream
	// ReadFailed means the stream ended mid-frame or the decoder failed.
	ReadFailed
)

func (s ReadStatus) String() string {
	switch s {
	case ReadOK:
		return "ok"
	case ReadEndOfStream:
		return "end-of-stream"
	case ReadFailed:
		return "read-failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Source reads decoded frames from a video file, one at a time.
// Implementations are not safe for concurrent use.
type Source interface {
	// Geometry reports the stream geometry as decoded (pre-rotation).
	Geometry() Geometry
	// Read fills buf with exactly one packed BGR24 frame.
	// The error is non-nil only when status is ReadFailed.
	Read(buf []byte) (ReadStatus, error)
	// Close releases the decoder. Safe to call more than once.
	Close() error
}

// ffmpegSource decodes a file into raw BGR24 frames through an ffmpeg
// child process writing to a pipe.
type ffmpegSource struct {
	geom   Geometry
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader io.Reader
	stderr bytes.Buffer
	closed bool
}

// OpenSource probes the file geometry and starts a decoder process for
// it. The returned Source must be closed by the caller.
func OpenSource(path string) (Source, error) {
	geom, err := NewProber().ProbeGeometry(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open video source: %w", err)
	}

	cmd := exec.Command("ffmpeg",
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-",
	)

	src := &ffmpegSource{geom: geom, cmd: cmd}
	cmd.Stderr = &src.stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("cannot open video source: %w", err)
	}
	src.stdout = stdout
	src.reader = bufio.NewReaderSize(stdout, geom.FrameBytes())

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("cannot open video source: %w", err)
	}

	logging.Debug("Opened source %s (%s, %d frames reported)", path, geom, geom.FrameCount)
	return src, nil
}

func (s *ffmpegSource) Geometry() Geometry {
	return s.geom
}

func (s *ffmpegSource) Read(buf []byte) (ReadStatus, error) {
	if len(buf) != s.geom.FrameBytes() {
		return ReadFailed, fmt.Errorf("read buffer is %d bytes, frame is %d", len(buf), s.geom.FrameBytes())
	}

	_, err := io.ReadFull(s.reader, buf)
	switch {
	case err == nil:
		return ReadOK, nil
	case err == io.EOF:
		// The pipe closed exactly on a frame boundary.
		return ReadEndOfStream, nil
	case err == io.ErrUnexpectedEOF:
		return ReadFailed, fmt.Errorf("stream ended mid-frame: %s", s.stderrTail())
	default:
		return ReadFailed, fmt.Errorf("frame read failed: %w", err)
	}
}

func (s *ffmpegSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.stdout.Close(); err != nil {
		logging.Debug("source stdout close: %v", err)
	}

	// The decoder exits with an error when its output pipe is closed
	// early; that is the normal teardown path, not a failure.
	if err := s.cmd.Wait(); err != nil {
		logging.Debug("source decoder exit: %v", err)
	}
	return nil
}

func (s *ffmpegSource) stderrTail() string {
	out := strings.TrimSpace(s.stderr.String())
	if out == "" {
		return "no decoder diagnostics"
	}
	lines := strings.Split(out, "\n")
	return lines[len(lines)-1]
}
