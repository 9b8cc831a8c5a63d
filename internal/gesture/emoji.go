package gesture

import (
	"time"

	"github.com/ayusman/airmouse/internal/detector"
)

// Emoji identifies a cosmetic emoji overlay.
type Emoji string

const (
	EmojiNone     Emoji = ""
	EmojiHeart    Emoji = "heart"
	EmojiSmile    Emoji = "smile"
	EmojiThumbsUp Emoji = "thumbs_up"
	EmojiRock     Emoji = "rock"
	EmojiVictory  Emoji = "victory"
)

// Emojis lists every emoji in recognition priority order.
var Emojis = []Emoji{EmojiHeart, EmojiSmile, EmojiThumbsUp, EmojiRock, EmojiVictory}

// MatchEmoji returns the first emoji, in priority order, whose pose matches h.
// Later emojis are not evaluated once one matches.
func MatchEmoji(h *detector.HandLandmarks, t Thresholds) Emoji {
	if h == nil {
		return EmojiNone
	}

	switch {
	case IsHeart(h, t):
		return EmojiHeart
	case IsSmile(h):
		return EmojiSmile
	case IsThumbsUp(h, t):
		return EmojiThumbsUp
	case IsRock(h):
		return EmojiRock
	case IsVictory(h, t):
		return EmojiVictory
	}
	return EmojiNone
}

// EmojiSelector tracks the single active emoji. While an emoji is showing no
// other emoji pose is evaluated.
type EmojiSelector struct {
	thresholds Thresholds
	duration   time.Duration
	active     Emoji
	start      time.Time
}

// NewEmojiSelector creates a selector whose emojis stay active for t.EmojiDuration.
func NewEmojiSelector(t Thresholds) *EmojiSelector {
	return &EmojiSelector{
		thresholds: t,
		duration:   t.EmojiDuration,
	}
}

// Update evaluates h at now and returns the emoji that became active, if any.
func (s *EmojiSelector) Update(h *detector.HandLandmarks, now time.Time) (Emoji, bool) {
	if s.active != EmojiNone && now.Sub(s.start) <= s.duration {
		return EmojiNone, false
	}

	e := MatchEmoji(h, s.thresholds)
	if e == EmojiNone {
		return EmojiNone, false
	}

	s.active = e
	s.start = now
	return e, true
}

// Active returns the emoji to display at now.
func (s *EmojiSelector) Active(now time.Time) (Emoji, bool) {
	if s.active == EmojiNone || now.Sub(s.start) >= s.duration {
		return EmojiNone, false
	}
	return s.active, true
}
