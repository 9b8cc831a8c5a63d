package detector

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const (
	// ScriptName is the MediaPipe service script searched for on disk.
	ScriptName = "mediapipe_service.py"

	jpegQuality = 80
	stopTimeout = 2 * time.Second
)

// ErrServiceFailed wraps I/O failures talking to the service. The process is
// stopped and restarted on the next Detect.
var ErrServiceFailed = errors.New("mediapipe service failed")

// MediaPipeDetector runs MediaPipe Hands in a Python subprocess, started on
// the first Detect. Frames go to its stdin as length-prefixed JPEG; each is
// answered by one JSON line on stdout.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	logger     *slog.Logger

	mu        sync.Mutex
	proc      *serviceProc
	idleTimer *time.Timer
}

type serviceProc struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	done   chan error
}

// NewMediaPipeDetector locates the service script and returns a detector.
// Service stderr is logged at debug level.
func NewMediaPipeDetector(config Config, logger *slog.Logger) (*MediaPipeDetector, error) {
	if logger == nil {
		logger = slog.Default()
	}

	scriptPath := config.ScriptPath
	if scriptPath == "" {
		scriptPath = firstExisting(searchPaths(filepath.Join("scripts", ScriptName)))
	}
	if scriptPath == "" {
		return nil, fmt.Errorf("%s not found", ScriptName)
	}
	if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("mediapipe script: %w", err)
	}

	if config.MaxHands <= 0 {
		config.MaxHands = 1
	}
	if config.PythonPath == "" {
		config.PythonPath = firstExisting(searchPaths(filepath.Join("venv", "bin", "python")))
	}
	if config.PythonPath == "" {
		config.PythonPath = "python3"
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
		logger:     logger.With("component", "detector"),
	}, nil
}

// Detect sends frame to the service and returns the hands it reports.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *frame, []int{int(gocv.IMWriteJpegQuality), jpegQuality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.proc == nil {
		proc, err := d.start()
		if err != nil {
			return nil, err
		}
		d.proc = proc
	}

	if err := writeFrame(d.proc.stdin, buf.GetBytes()); err != nil {
		d.fail(err)
		return nil, fmt.Errorf("%w: write frame: %v", ErrServiceFailed, err)
	}

	hands, err := readHands(d.proc.stdout, frame.Cols(), frame.Rows())
	if err != nil {
		d.fail(err)
		return nil, fmt.Errorf("%w: read response: %v", ErrServiceFailed, err)
	}

	d.armIdleTimer()
	return hands, nil
}

// Close stops the service.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stop()
}

func (d *MediaPipeDetector) start() (*serviceProc, error) {
	cmd := exec.Command(d.config.PythonPath, d.scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', 2, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', 2, 64),
	)
	cmd.Stderr = &logWriter{logger: d.logger}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start mediapipe service: %w", err)
	}
	d.logger.Info("mediapipe service started", "pid", cmd.Process.Pid, "python", d.config.PythonPath, "script", d.scriptPath)

	p := &serviceProc{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
		done:   make(chan error, 1),
	}
	go func() { p.done <- cmd.Wait() }()
	return p, nil
}

// fail tears down a service that broke mid-exchange.
func (d *MediaPipeDetector) fail(cause error) {
	d.logger.Warn("mediapipe service failed, restarting on next frame", "error", cause)
	if err := d.stop(); err != nil {
		d.logger.Debug("mediapipe service exit", "error", err)
	}
}

// stop closes stdin and waits for the service, killing it after stopTimeout.
func (d *MediaPipeDetector) stop() error {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.proc == nil {
		return nil
	}

	p := d.proc
	d.proc = nil
	p.stdin.Close()

	select {
	case err := <-p.done:
		return err
	case <-time.After(stopTimeout):
		p.cmd.Process.Kill()
		<-p.done
		return fmt.Errorf("mediapipe service killed after %s", stopTimeout)
	}
}

func (d *MediaPipeDetector) armIdleTimer() {
	if d.config.IdleShutdown <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(d.config.IdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.idleTimer != t {
			return
		}
		d.logger.Debug("mediapipe service idle, stopping")
		d.stop()
	})
	d.idleTimer = t
}

// logWriter forwards service stderr to the logger one line at a time.
type logWriter struct {
	logger *slog.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		if line := bytes.TrimSpace(w.buf[:i]); len(line) > 0 {
			w.logger.Debug("mediapipe", "stderr", string(line))
		}
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// searchPaths lists rel under the working directory, its parent, the
// executable's directory and ~/.airmouse.
func searchPaths(rel string) []string {
	paths := []string{rel, filepath.Join("..", rel)}
	if execPath, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(execPath), rel))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".airmouse", rel))
	}
	return paths
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}
