package detector

import (
	"errors"
	"fmt"
	"math"
)

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// ErrIncompleteHand is returned when a landmark list does not hold exactly NumLandmarks points.
var ErrIncompleteHand = errors.New("incomplete hand landmarks")

// Point is a landmark position in frame pixel space.
// Y grows downward, so a smaller Y is visually higher.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// HandLandmarks represents the 21 hand landmarks of one detected hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point `json:"points"`
	Handedness string              `json:"handedness"` // "Left" or "Right"
	Score      float64             `json:"score"`
}

// NewHandLandmarks builds a HandLandmarks from a point list.
// Returns ErrIncompleteHand unless exactly NumLandmarks points are given.
func NewHandLandmarks(points []Point) (*HandLandmarks, error) {
	if len(points) != NumLandmarks {
		return nil, fmt.Errorf("%w: got %d points, want %d", ErrIncompleteHand, len(points), NumLandmarks)
	}

	h := &HandLandmarks{}
	copy(h.Points[:], points)
	return h, nil
}

// At returns the landmark at the given index.
func (h *HandLandmarks) At(i int) Point {
	return h.Points[i]
}

// Extended reports whether a fingertip is above its MCP joint.
func (h *HandLandmarks) Extended(tip, mcp int) bool {
	return h.Points[tip].Y < h.Points[mcp].Y
}

// Distance calculates the Euclidean distance between two points in pixels.
func Distance(a, b Point) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// HandConnections lists landmark index pairs forming the hand skeleton.
var HandConnections = [][2]int{
	{Wrist, ThumbCMC}, {ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{Wrist, IndexMCP}, {IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{IndexMCP, MiddleMCP}, {MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{MiddleMCP, RingMCP}, {RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{RingMCP, PinkyMCP}, {Wrist, PinkyMCP}, {PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}
