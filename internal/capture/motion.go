package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Motion detection constants
const (
	// BlurKernel is the Gaussian blur kernel size applied before differencing.
	BlurKernel = 21
	// PixelDelta is the grey-level difference that counts a pixel as changed.
	PixelDelta = 25
)

// MotionDetector reports whether consecutive frames differ by more than a
// percentage of changed pixels.
type MotionDetector struct {
	threshold float64
	prev      gocv.Mat
	primed    bool
	mu        sync.Mutex
}

// NewMotionDetector creates a MotionDetector. threshold is the percentage of
// pixels that must change, e.g. 1.0 for 1%.
func NewMotionDetector(threshold float64) *MotionDetector {
	return &MotionDetector{
		threshold: threshold,
		prev:      gocv.NewMat(),
	}
}

// Detect compares frame with the previous one and returns whether motion
// occurred and the percentage of changed pixels. The first frame only primes
// the detector.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: BlurKernel, Y: BlurKernel}, 0, 0, gocv.BorderDefault)

	if !m.primed || m.prev.Rows() != blurred.Rows() || m.prev.Cols() != blurred.Cols() {
		blurred.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, m.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100.0

	blurred.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// Reset drops the reference frame; the next Detect primes again.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the reference frame.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}

// MotionSensor is the part of MotionDetector used by IdleGate.
type MotionSensor interface {
	Detect(frame *gocv.Mat) (bool, float64)
	Reset()
}

// IdleGate decides whether a frame is worth sending to the landmark detector.
// After timeout without motion the gate closes until motion reappears.
type IdleGate struct {
	sensor     MotionSensor
	timeout    time.Duration
	lastMotion time.Time
	idle       bool
}

// NewIdleGate creates a gate that goes idle after timeout without motion.
// A non-positive timeout never idles.
func NewIdleGate(sensor MotionSensor, timeout time.Duration) *IdleGate {
	return &IdleGate{
		sensor:  sensor,
		timeout: timeout,
	}
}

// Observe feeds frame at now and reports whether the pipeline should process it.
// The second result is true when the idle state changed on this frame.
func (g *IdleGate) Observe(frame *gocv.Mat, now time.Time) (active bool, changed bool) {
	if g.lastMotion.IsZero() {
		g.lastMotion = now
	}

	moving, _ := g.sensor.Detect(frame)
	if moving {
		g.lastMotion = now
	}

	wasIdle := g.idle
	g.idle = g.timeout > 0 && now.Sub(g.lastMotion) >= g.timeout

	return !g.idle, g.idle != wasIdle
}

// Idle reports whether the gate is currently closed.
func (g *IdleGate) Idle() bool {
	return g.idle
}

// Reset reopens the gate and drops the motion baseline.
func (g *IdleGate) Reset() {
	g.sensor.Reset()
	g.lastMotion = time.Time{}
	g.idle = false
}
