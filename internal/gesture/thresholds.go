// Package gesture recognizes hand gestures from landmark geometry.
//
// Every recognizer is a fixed-threshold comparison over the 21 landmarks of a
// single hand: Euclidean distances, y-coordinate comparisons and one angle.
// Distances are in frame pixels, angles in degrees.
package gesture

import "time"

// Thresholds holds the tunable constants of every gesture recognizer.
type Thresholds struct {
	// ClickDistance is the maximum thumb-index tip distance for a click.
	ClickDistance float64
	// RightClickDistance bounds every pairwise distance among thumb, index and middle tips.
	RightClickDistance float64
	// MicDistance is the maximum thumb-index tip distance for a mic toggle.
	MicDistance float64
	// ScreenshotMinAngle and ScreenshotMaxAngle bound the thumb-wrist-index angle.
	ScreenshotMinAngle float64
	ScreenshotMaxAngle float64
	// TabSwitchDistance is the minimum horizontal fingertip travel between frames.
	TabSwitchDistance float64
	// ScrollDistance is the minimum vertical fingertip travel between frames.
	ScrollDistance float64
	// HeartDistance is the maximum thumb-index tip distance for the heart emoji.
	HeartDistance float64
	// ThumbsUpMaxOffset is the maximum horizontal thumb tip offset from its MCP.
	ThumbsUpMaxOffset float64
	// VictorySpread is the minimum index-middle tip distance for the victory emoji.
	VictorySpread float64

	// Cooldown gates volume, screenshot, tab switch and mic toggle.
	Cooldown time.Duration
	// ClickCooldown gates click and right-click.
	ClickCooldown time.Duration
	// ScrollCooldown gates scroll. Zero disables it.
	ScrollCooldown time.Duration
	// EmojiDuration is how long a recognized emoji stays active.
	EmojiDuration time.Duration
}

// DefaultThresholds returns the stock recognizer tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ClickDistance:      30,
		RightClickDistance: 40,
		MicDistance:        20,
		ScreenshotMinAngle: 75,
		ScreenshotMaxAngle: 105,
		TabSwitchDistance:  50,
		ScrollDistance:     30,
		HeartDistance:      40,
		ThumbsUpMaxOffset:  20,
		VictorySpread:      50,
		Cooldown:           500 * time.Millisecond,
		ClickCooldown:      200 * time.Millisecond,
		ScrollCooldown:     0,
		EmojiDuration:      2 * time.Second,
	}
}
