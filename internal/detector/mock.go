package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// ThumbsUpLandmarks returns a preset hand in a 640x480 frame with the thumb
// pointing straight up and the other fingers curled.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point{X: 320, Y: 400}

	// Thumb extended upward (Y decreases going up)
	landmarks.Points[ThumbCMC] = Point{X: 350, Y: 370}
	landmarks.Points[ThumbMCP] = Point{X: 365, Y: 320}
	landmarks.Points[ThumbIP] = Point{X: 366, Y: 260}
	landmarks.Points[ThumbTip] = Point{X: 367, Y: 200}

	// Index finger curled (tip below knuckle)
	landmarks.Points[IndexMCP] = Point{X: 345, Y: 330}
	landmarks.Points[IndexPIP] = Point{X: 345, Y: 320}
	landmarks.Points[IndexDIP] = Point{X: 335, Y: 335}
	landmarks.Points[IndexTip] = Point{X: 325, Y: 345}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = Point{X: 320, Y: 325}
	landmarks.Points[MiddlePIP] = Point{X: 320, Y: 315}
	landmarks.Points[MiddleDIP] = Point{X: 310, Y: 330}
	landmarks.Points[MiddleTip] = Point{X: 300, Y: 340}

	// Ring finger curled
	landmarks.Points[RingMCP] = Point{X: 295, Y: 330}
	landmarks.Points[RingPIP] = Point{X: 295, Y: 320}
	landmarks.Points[RingDIP] = Point{X: 286, Y: 336}
	landmarks.Points[RingTip] = Point{X: 278, Y: 348}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = Point{X: 272, Y: 340}
	landmarks.Points[PinkyPIP] = Point{X: 272, Y: 332}
	landmarks.Points[PinkyDIP] = Point{X: 265, Y: 344}
	landmarks.Points[PinkyTip] = Point{X: 258, Y: 352}

	return landmarks
}

// OpenPalmLandmarks returns a preset hand in a 640x480 frame with all
// fingers extended upward and the thumb spread to the side.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point{X: 320, Y: 420}

	// Thumb extended to the side
	landmarks.Points[ThumbCMC] = Point{X: 360, Y: 395}
	landmarks.Points[ThumbMCP] = Point{X: 395, Y: 365}
	landmarks.Points[ThumbIP] = Point{X: 425, Y: 335}
	landmarks.Points[ThumbTip] = Point{X: 450, Y: 310}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point{X: 355, Y: 300}
	landmarks.Points[IndexPIP] = Point{X: 365, Y: 240}
	landmarks.Points[IndexDIP] = Point{X: 370, Y: 200}
	landmarks.Points[IndexTip] = Point{X: 372, Y: 165}

	// Middle finger extended upward (slightly longer)
	landmarks.Points[MiddleMCP] = Point{X: 320, Y: 290}
	landmarks.Points[MiddlePIP] = Point{X: 320, Y: 225}
	landmarks.Points[MiddleDIP] = Point{X: 320, Y: 180}
	landmarks.Points[MiddleTip] = Point{X: 320, Y: 140}

	// Ring finger extended upward
	landmarks.Points[RingMCP] = Point{X: 288, Y: 298}
	landmarks.Points[RingPIP] = Point{X: 280, Y: 240}
	landmarks.Points[RingDIP] = Point{X: 276, Y: 200}
	landmarks.Points[RingTip] = Point{X: 274, Y: 170}

	// Pinky finger extended upward
	landmarks.Points[PinkyMCP] = Point{X: 258, Y: 315}
	landmarks.Points[PinkyPIP] = Point{X: 248, Y: 270}
	landmarks.Points[PinkyDIP] = Point{X: 242, Y: 240}
	landmarks.Points[PinkyTip] = Point{X: 238, Y: 212}

	return landmarks
}

// PinchLandmarks returns an open palm whose thumb tip touches the index tip.
func PinchLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()

	landmarks.Points[ThumbMCP] = Point{X: 390, Y: 340}
	landmarks.Points[ThumbIP] = Point{X: 385, Y: 260}
	landmarks.Points[ThumbTip] = Point{X: 370, Y: 175}

	return landmarks
}

// Translate returns a copy of the hand shifted by dx, dy pixels.
func Translate(h HandLandmarks, dx, dy int) HandLandmarks {
	for i := range h.Points {
		h.Points[i].X += dx
		h.Points[i].Y += dy
	}
	return h
}
