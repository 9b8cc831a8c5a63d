// Package overlay renders the hand skeleton, FPS counter and emoji onto
// camera frames and shows them in a window.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airmouse/internal/detector"
)

var (
	jointColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	boneColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	textColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// DrawHand draws the landmark connections and joints of h onto frame.
func DrawHand(frame *gocv.Mat, h *detector.HandLandmarks) {
	if frame == nil || frame.Empty() || h == nil {
		return
	}

	for _, c := range detector.HandConnections {
		a, b := h.Points[c[0]], h.Points[c[1]]
		gocv.Line(frame, image.Pt(a.X, a.Y), image.Pt(b.X, b.Y), boneColor, 2)
	}

	for _, p := range h.Points {
		gocv.Circle(frame, image.Pt(p.X, p.Y), 4, jointColor, -1)
	}
}

// DrawFPS writes "FPS: n" in the top-left corner of frame.
func DrawFPS(frame *gocv.Mat, fps float64) {
	if frame == nil || frame.Empty() {
		return
	}
	gocv.PutText(frame, fmt.Sprintf("FPS: %d", int(fps)), image.Pt(10, 30), gocv.FontHersheySimplex, 1, textColor, 2)
}

// FPSCounter derives the frame rate from the interval between frames.
type FPSCounter struct {
	last time.Time
}

// Tick records a frame at now and returns the instantaneous rate. The first
// tick returns 0.
func (f *FPSCounter) Tick(now time.Time) float64 {
	prev := f.last
	f.last = now

	if prev.IsZero() {
		return 0
	}
	dt := now.Sub(prev).Seconds()
	if dt <= 0 {
		return 0
	}
	return 1 / dt
}
