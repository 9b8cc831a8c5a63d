package gesture

import (
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/detector"
)

func TestMatchEmoji(t *testing.T) {
	th := DefaultThresholds()

	pinch := detector.PinchLandmarks()
	palm := detector.OpenPalmLandmarks()
	thumbsUp := detector.ThumbsUpLandmarks()
	rock := rockLandmarks()

	tests := []struct {
		name string
		hand *detector.HandLandmarks
		want Emoji
	}{
		{name: "pinch is heart", hand: &pinch, want: EmojiHeart},
		{name: "open palm is smile", hand: &palm, want: EmojiSmile},
		{name: "thumbs up", hand: &thumbsUp, want: EmojiThumbsUp},
		{name: "rock", hand: &rock, want: EmojiRock},
		{name: "no hand", hand: nil, want: EmojiNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchEmoji(tt.hand, th); got != tt.want {
				t.Errorf("MatchEmoji() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatchEmoji_Priority(t *testing.T) {
	th := DefaultThresholds()
	palm := detector.OpenPalmLandmarks()

	// A spread two-finger pose also satisfies smile, which is checked first.
	if !IsVictory(&palm, th) {
		t.Fatal("fixture should satisfy victory")
	}
	if got := MatchEmoji(&palm, th); got != EmojiSmile {
		t.Errorf("MatchEmoji() = %q, want %q", got, EmojiSmile)
	}

	// Pinch satisfies both heart and smile; heart wins.
	pinch := detector.PinchLandmarks()
	if !IsSmile(&pinch) {
		t.Fatal("fixture should satisfy smile")
	}
	if got := MatchEmoji(&pinch, th); got != EmojiHeart {
		t.Errorf("MatchEmoji() = %q, want %q", got, EmojiHeart)
	}
}

func TestEmojiSelector(t *testing.T) {
	th := DefaultThresholds()
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	pinch := detector.PinchLandmarks()
	palm := detector.OpenPalmLandmarks()

	s := NewEmojiSelector(th)

	if _, ok := s.Active(start); ok {
		t.Fatal("expected no active emoji initially")
	}

	e, ok := s.Update(&pinch, start)
	if !ok || e != EmojiHeart {
		t.Fatalf("Update() = %q, %v; want heart, true", e, ok)
	}

	// While heart is showing a different pose is not evaluated.
	mid := start.Add(time.Second)
	if e, ok := s.Update(&palm, mid); ok {
		t.Errorf("Update() during display = %q, want none", e)
	}
	if e, ok := s.Active(mid); !ok || e != EmojiHeart {
		t.Errorf("Active() = %q, %v; want heart, true", e, ok)
	}

	// Display ends at the duration boundary.
	if _, ok := s.Active(start.Add(th.EmojiDuration)); ok {
		t.Error("expected emoji to expire at the duration boundary")
	}

	later := start.Add(th.EmojiDuration + 100*time.Millisecond)
	e, ok = s.Update(&palm, later)
	if !ok || e != EmojiSmile {
		t.Fatalf("Update() after expiry = %q, %v; want smile, true", e, ok)
	}
	if e, ok := s.Active(later); !ok || e != EmojiSmile {
		t.Errorf("Active() = %q, %v; want smile, true", e, ok)
	}
}

func TestEmojiSelector_NoMatchKeepsIdle(t *testing.T) {
	s := NewEmojiSelector(DefaultThresholds())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	fist := handWith(map[int]detector.Point{
		detector.ThumbTip:  {X: 100, Y: 300},
		detector.ThumbMCP:  {X: 100, Y: 250},
		detector.IndexTip:  {X: 200, Y: 300},
		detector.IndexMCP:  {X: 200, Y: 250},
		detector.MiddleTip: {X: 220, Y: 300},
		detector.MiddleMCP: {X: 220, Y: 250},
		detector.PinkyTip:  {X: 260, Y: 300},
		detector.PinkyMCP:  {X: 260, Y: 250},
	})

	if e, ok := s.Update(fist, now); ok {
		t.Errorf("Update() = %q, want none", e)
	}
	if e, ok := s.Update(nil, now); ok {
		t.Errorf("Update(nil) = %q, want none", e)
	}
	if _, ok := s.Active(now); ok {
		t.Error("expected nothing active")
	}
}
