package pose

import (
	"bufio"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"pose-viewer/internal/logging"
)

const (
	// maxResponseBytes bounds a single worker response line. 33 landmark
	// triples are tiny; the headroom covers diagnostic payloads.
	maxResponseBytes = 1 << 20

	// closeTimeout is how long Close waits for the worker to exit after
	// stdin closes before killing it.
	closeTimeout = 2 * time.Second
)

// workerRequest is one frame sent to the worker, a single JSON line on
// its stdin.
type workerRequest struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FrameData string `json:"frame_data"`
}

// workerResponse is one detection result read back from the worker's
// stdout. Landmarks is null when no pose was found.
type workerResponse struct {
	Landmarks [][3]float64 `json:"landmarks"`
	Error     string       `json:"error,omitempty"`
}

// Worker runs pose detection in a subprocess. Frames go out as JSON
// lines over stdin, landmark sets come back as JSON lines over stdout,
// and the worker's stderr is relayed into the log. Detect is
// synchronous: one request in flight at a time.
type Worker struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// StartWorker launches the detector subprocess described by cfg and
// waits for nothing: the worker loads its model lazily and the first
// Detect call absorbs the warmup cost.
func StartWorker(cfg Config) (*Worker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.WorkerCommand == "" {
		return nil, fmt.Errorf("worker command not configured")
	}

	args := []string{
		"--model-complexity", fmt.Sprintf("%d", cfg.ModelComplexity),
		"--min-detection-confidence", fmt.Sprintf("%g", cfg.MinDetectionConfidence),
		"--min-tracking-confidence", fmt.Sprintf("%g", cfg.MinTrackingConfidence),
	}
	if cfg.StaticImageMode {
		args = append(args, "--static-image-mode")
	}

	fields := strings.Fields(cfg.WorkerCommand)
	cmd := exec.Command(fields[0], append(fields[1:], args...)...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start detector worker: %w", err)
	}
	logging.Debug("detector worker started: pid=%d cmd=%q", cmd.Process.Pid, cfg.WorkerCommand)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), maxResponseBytes)

	w := &Worker{
		cmd:    cmd,
		stdin:  stdin,
		stdout: scanner,
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		relayStderr(stderr)
	}()

	return w, nil
}

// relayStderr forwards worker log lines into our log, mapping the
// worker's level tags where present.
func relayStderr(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.Contains(line, "[ERROR]") || strings.Contains(line, "[CRITICAL]"):
			logging.Error("detector worker: %s", line)
		case strings.Contains(line, "[WARNING]") || strings.Contains(line, "[WARN]"):
			logging.Warn("detector worker: %s", line)
		default:
			logging.Debug("detector worker: %s", line)
		}
	}
}

// Detect sends one packed RGB24 image to the worker and blocks for its
// answer. A nil LandmarkSet with a nil error means the worker saw no
// pose in the frame.
func (w *Worker) Detect(rgb []byte, width, height int) (*LandmarkSet, error) {
	if len(rgb) != width*height*3 {
		return nil, fmt.Errorf("rgb buffer is %d bytes, want %d for %dx%d", len(rgb), width*height*3, width, height)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, fmt.Errorf("detector worker is closed")
	}

	req := workerRequest{
		Width:     width,
		Height:    height,
		FrameData: base64.StdEncoding.EncodeToString(rgb),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	payload = append(payload, '\n')

	if _, err := w.stdin.Write(payload); err != nil {
		return nil, fmt.Errorf("write to detector worker: %w", err)
	}

	if !w.stdout.Scan() {
		if err := w.stdout.Err(); err != nil {
			return nil, fmt.Errorf("read from detector worker: %w", err)
		}
		return nil, fmt.Errorf("detector worker closed its output")
	}

	return parseResponse(w.stdout.Bytes())
}

// parseResponse decodes one worker response line into a landmark set.
func parseResponse(line []byte) (*LandmarkSet, error) {
	var resp workerResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("malformed detector response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("detector worker error: %s", resp.Error)
	}
	if resp.Landmarks == nil {
		return nil, nil
	}
	if len(resp.Landmarks) != NumLandmarks {
		return nil, fmt.Errorf("detector returned %d landmarks, want %d", len(resp.Landmarks), NumLandmarks)
	}

	set := &LandmarkSet{Points: make([]Landmark, NumLandmarks)}
	for i, p := range resp.Landmarks {
		set.Points[i] = Landmark{X: p[0], Y: p[1], Z: p[2]}
	}
	return set, nil
}

// Close shuts the worker down: stdin closes so the worker can exit on
// its own, and after closeTimeout it is killed. Safe to call more than
// once.
func (w *Worker) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.stdin.Close(); err != nil {
		logging.Debug("detector worker stdin close: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.cmd.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			logging.Debug("detector worker exited: %v", err)
		}
	case <-time.After(closeTimeout):
		logging.Warn("detector worker did not exit within %s, killing pid=%d", closeTimeout, w.cmd.Process.Pid)
		if err := w.cmd.Process.Kill(); err != nil {
			logging.Error("kill detector worker: %v", err)
		}
		<-done
	}

	w.wg.Wait()
	return nil
}
