// Package capture reads webcam frames through GoCV and decides when the
// pipeline may idle.
package capture

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture format.
const (
	DefaultFPS    = 30
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrCameraNotOpen is returned by ReadFrame before Open or after Close.
	ErrCameraNotOpen = errors.New("camera is not open")

	// ErrFrameRead is returned when the source delivers no frame, including
	// the end of a video file.
	ErrFrameRead = errors.New("failed to read frame from camera")
)

// Camera is a frame source. Callers close each returned Mat.
type Camera interface {
	Open() error
	Close() error
	ReadFrame() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// Config selects a device, or a video file or stream URL when Source is set.
type Config struct {
	DeviceID int
	Source   string
	Width    int
	Height   int
	FPS      int
}

// DefaultConfig is device 0 at 640x480, 30 FPS.
func DefaultConfig() Config {
	return Config{
		Width:  DefaultWidth,
		Height: DefaultHeight,
		FPS:    DefaultFPS,
	}
}

// Device is a Camera backed by gocv.VideoCapture.
type Device struct {
	cfg Config

	mu            sync.Mutex
	vc            *gocv.VideoCapture
	fps           int
	width, height int
}

// NewCamera returns a closed Device. Non-positive dimensions or FPS take the
// defaults.
func NewCamera(cfg Config) *Device {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	return &Device{cfg: cfg, fps: cfg.FPS}
}

// Name describes the source for logs.
func (d *Device) Name() string {
	if d.cfg.Source != "" {
		return d.cfg.Source
	}
	return fmt.Sprintf("device %d", d.cfg.DeviceID)
}

// Open starts capture and requests the configured format. The driver may
// pick a different resolution; see Resolution. Opening an open Device is a
// no-op.
func (d *Device) Open() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc != nil {
		return nil
	}

	var src interface{} = d.cfg.DeviceID
	if d.cfg.Source != "" {
		src = d.cfg.Source
	}

	vc, err := gocv.OpenVideoCapture(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.Name(), err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return fmt.Errorf("open %s: source unavailable", d.Name())
	}

	if d.cfg.Source == "" {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(d.cfg.Width))
		vc.Set(gocv.VideoCaptureFrameHeight, float64(d.cfg.Height))
		vc.Set(gocv.VideoCaptureFPS, float64(d.fps))
	}

	d.vc = vc
	d.width = int(vc.Get(gocv.VideoCaptureFrameWidth))
	d.height = int(vc.Get(gocv.VideoCaptureFrameHeight))
	return nil
}

// Close stops capture. Closing a closed Device returns nil.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc == nil {
		return nil
	}
	err := d.vc.Close()
	d.vc = nil
	return err
}

// ReadFrame blocks for the next frame.
func (d *Device) ReadFrame() (*gocv.Mat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc == nil {
		return nil, ErrCameraNotOpen
	}

	m := gocv.NewMat()
	if ok := d.vc.Read(&m); !ok || m.Empty() {
		m.Close()
		return nil, ErrFrameRead
	}
	return &m, nil
}

// SetFPS requests a new capture rate. Non-positive values are ignored.
func (d *Device) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.fps = fps
	if d.vc != nil && d.cfg.Source == "" {
		d.vc.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

// FPS returns the last requested rate.
func (d *Device) FPS() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fps
}

// IsOpen reports whether capture is running.
func (d *Device) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.vc != nil
}

// Resolution returns the frame size negotiated by Open, or the requested
// size while closed.
func (d *Device) Resolution() (width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.vc == nil || d.width <= 0 || d.height <= 0 {
		return d.cfg.Width, d.cfg.Height
	}
	return d.width, d.height
}

// Mirror flips frame horizontally in place.
func Mirror(frame *gocv.Mat) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.Flip(*frame, frame, 1)
}
