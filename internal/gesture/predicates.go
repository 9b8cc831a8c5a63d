package gesture

import (
	"math"

	"github.com/golang/geo/r2"

	"github.com/ayusman/airmouse/internal/detector"
)

// Predicates in this file are pure. A nil hand means no hand was detected
// and always yields the no-gesture value (false or 0).

// Angle returns the angle in degrees at vertex between the rays to a and b.
// ok is false when either ray has zero length, in which case the angle is undefined.
func Angle(a, vertex, b detector.Point) (deg float64, ok bool) {
	v := toR2(vertex)
	ba := toR2(a).Sub(v)
	bc := toR2(b).Sub(v)

	norms := ba.Norm() * bc.Norm()
	if norms == 0 {
		return 0, false
	}

	cos := ba.Dot(bc) / norms
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, true
}

func toR2(p detector.Point) r2.Point {
	return r2.Point{X: float64(p.X), Y: float64(p.Y)}
}

// IsClick reports whether the thumb and index tips touch.
func IsClick(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}
	return detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip]) < t.ClickDistance
}

// IsRightClick reports whether the thumb, index and middle tips are pinched together.
func IsRightClick(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}

	thumb := h.Points[detector.ThumbTip]
	index := h.Points[detector.IndexTip]
	middle := h.Points[detector.MiddleTip]

	return detector.Distance(thumb, index) < t.RightClickDistance &&
		detector.Distance(thumb, middle) < t.RightClickDistance &&
		detector.Distance(index, middle) < t.RightClickDistance
}

// VolumeDirection returns +1 when the thumb points up, -1 when it points down
// and 0 when the thumb tip is level with its MCP joint.
func VolumeDirection(h *detector.HandLandmarks) int {
	if h == nil {
		return 0
	}

	tip := h.Points[detector.ThumbTip].Y
	mcp := h.Points[detector.ThumbMCP].Y

	switch {
	case tip < mcp:
		return 1
	case tip > mcp:
		return -1
	}
	return 0
}

// IsScreenshot reports whether thumb and index form an L shape around the wrist.
// A degenerate angle (coincident points) never matches.
func IsScreenshot(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}

	angle, ok := Angle(h.Points[detector.ThumbTip], h.Points[detector.Wrist], h.Points[detector.IndexTip])
	if !ok {
		return false
	}
	return angle >= t.ScreenshotMinAngle && angle <= t.ScreenshotMaxAngle
}

// TabSwitchDirection returns +1 for a rightward two-finger swipe, -1 for a
// leftward one and 0 otherwise.
func TabSwitchDirection(cur, prev *detector.HandLandmarks, t Thresholds) int {
	if cur == nil || prev == nil {
		return 0
	}

	movement := twoFingerX(cur) - twoFingerX(prev)
	if math.Abs(movement) > t.TabSwitchDistance {
		return sign(movement)
	}
	return 0
}

// IsMicToggle reports whether the thumb and index tips are tightly pinched.
func IsMicToggle(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}
	return detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip]) < t.MicDistance
}

// ScrollDirection returns +1 when two extended fingers move up between
// frames, -1 when they move down and 0 otherwise.
func ScrollDirection(cur, prev *detector.HandLandmarks, t Thresholds) int {
	if cur == nil || prev == nil {
		return 0
	}

	// Image y grows downward: positive movement is upward.
	movement := twoFingerY(prev) - twoFingerY(cur)

	if !cur.Extended(detector.IndexTip, detector.IndexMCP) || !cur.Extended(detector.MiddleTip, detector.MiddleMCP) {
		return 0
	}

	if math.Abs(movement) > t.ScrollDistance {
		return sign(movement)
	}
	return 0
}

// IsHeart reports whether thumb and index tips meet closely enough to form a heart.
func IsHeart(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}
	return detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip]) < t.HeartDistance
}

// IsSmile reports whether the index and middle fingers are both raised.
func IsSmile(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return h.Extended(detector.IndexTip, detector.IndexMCP) && h.Extended(detector.MiddleTip, detector.MiddleMCP)
}

// IsThumbsUp reports whether the thumb points straight up.
func IsThumbsUp(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}

	tip := h.Points[detector.ThumbTip]
	mcp := h.Points[detector.ThumbMCP]

	return tip.Y < mcp.Y && math.Abs(float64(tip.X-mcp.X)) < t.ThumbsUpMaxOffset
}

// IsRock reports whether the index and pinky fingers are both raised.
func IsRock(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return h.Extended(detector.IndexTip, detector.IndexMCP) && h.Extended(detector.PinkyTip, detector.PinkyMCP)
}

// IsVictory reports whether the index and middle fingers are raised and spread apart.
func IsVictory(h *detector.HandLandmarks, t Thresholds) bool {
	if h == nil {
		return false
	}
	return IsSmile(h) && detector.Distance(h.Points[detector.IndexTip], h.Points[detector.MiddleTip]) > t.VictorySpread
}

func twoFingerX(h *detector.HandLandmarks) float64 {
	return float64(h.Points[detector.IndexTip].X+h.Points[detector.MiddleTip].X) / 2
}

func twoFingerY(h *detector.HandLandmarks) float64 {
	return float64(h.Points[detector.IndexTip].Y+h.Points[detector.MiddleTip].Y) / 2
}

func sign(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
