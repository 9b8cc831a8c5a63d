package gesture

import (
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airmouse/internal/detector"
)

// Kind identifies a recognized gesture.
type Kind string

const (
	KindClick      Kind = "click"
	KindRightClick Kind = "right-click"
	KindScroll     Kind = "scroll"
	KindVolume     Kind = "volume"
	KindScreenshot Kind = "screenshot"
	KindTabSwitch  Kind = "tab-switch"
	KindMicToggle  Kind = "mic-toggle"
)

// Event is a gesture that fired on one frame.
type Event struct {
	ID        uuid.UUID
	Kind      Kind
	Direction int // +1/-1 for scroll, volume and tab switch; 0 otherwise
	At        time.Time
}

// Classifier evaluates the gesture battery on successive hands and owns the
// per-gesture cooldown state. It is not safe for concurrent use.
type Classifier struct {
	thresholds Thresholds
	now        func() time.Time

	click      *Cooldown
	rightClick *Cooldown
	scroll     *Cooldown
	volume     *Cooldown
	screenshot *Cooldown
	tab        *Cooldown
	mic        *Cooldown
}

// NewClassifier creates a Classifier with the given thresholds and the wall clock.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{
		thresholds: t,
		now:        time.Now,
		click:      NewCooldown(t.ClickCooldown),
		rightClick: NewCooldown(t.ClickCooldown),
		scroll:     NewCooldown(t.ScrollCooldown),
		volume:     NewCooldown(t.Cooldown),
		screenshot: NewCooldown(t.Cooldown),
		tab:        NewCooldown(t.Cooldown),
		mic:        NewCooldown(t.Cooldown),
	}
}

// SetClock replaces the time source used for cooldowns.
func (c *Classifier) SetClock(now func() time.Time) {
	c.now = now
}

// Thresholds returns the classifier's tuning.
func (c *Classifier) Thresholds() Thresholds {
	return c.thresholds
}

// Reset clears every cooldown.
func (c *Classifier) Reset() {
	for _, cd := range []*Cooldown{c.click, c.rightClick, c.scroll, c.volume, c.screenshot, c.tab, c.mic} {
		cd.Reset()
	}
}

// gate checks the cooldown before evaluating detect, and records a firing
// when detect returns a non-zero value.
func gate(cd *Cooldown, now time.Time, detect func() int) int {
	if !cd.Ready(now) {
		return 0
	}
	v := detect()
	if v != 0 {
		cd.Fire(now)
	}
	return v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Click reports a thumb-index pinch, gated by the click cooldown.
func (c *Classifier) Click(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return gate(c.click, c.now(), func() int { return boolInt(IsClick(h, c.thresholds)) }) != 0
}

// RightClick reports a three-finger pinch, gated by the click cooldown.
func (c *Classifier) RightClick(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return gate(c.rightClick, c.now(), func() int { return boolInt(IsRightClick(h, c.thresholds)) }) != 0
}

// Scroll returns the scroll direction between prev and cur.
func (c *Classifier) Scroll(cur, prev *detector.HandLandmarks) int {
	if cur == nil || prev == nil {
		return 0
	}
	return gate(c.scroll, c.now(), func() int { return ScrollDirection(cur, prev, c.thresholds) })
}

// Volume returns +1 (up), -1 (down) or 0. Within the cooldown window it
// returns 0 without looking at the hand.
func (c *Classifier) Volume(h *detector.HandLandmarks) int {
	if h == nil {
		return 0
	}
	return gate(c.volume, c.now(), func() int { return VolumeDirection(h) })
}

// Screenshot reports an L-shaped thumb and index, gated by the cooldown.
func (c *Classifier) Screenshot(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return gate(c.screenshot, c.now(), func() int { return boolInt(IsScreenshot(h, c.thresholds)) }) != 0
}

// TabSwitch returns +1 (next), -1 (previous) or 0.
func (c *Classifier) TabSwitch(cur, prev *detector.HandLandmarks) int {
	if cur == nil || prev == nil {
		return 0
	}
	return gate(c.tab, c.now(), func() int { return TabSwitchDirection(cur, prev, c.thresholds) })
}

// MicToggle reports a tight thumb-index pinch, gated by the cooldown.
func (c *Classifier) MicToggle(h *detector.HandLandmarks) bool {
	if h == nil {
		return false
	}
	return gate(c.mic, c.now(), func() int { return boolInt(IsMicToggle(h, c.thresholds)) }) != 0
}

// Evaluate runs the whole battery on cur (and prev for motion gestures) and
// returns the events that fired, in evaluation order: click, right-click,
// scroll, volume, screenshot, tab switch, mic toggle.
func (c *Classifier) Evaluate(cur, prev *detector.HandLandmarks) []Event {
	if cur == nil {
		return nil
	}

	var events []Event
	emit := func(kind Kind, dir int) {
		events = append(events, Event{
			ID:        uuid.New(),
			Kind:      kind,
			Direction: dir,
			At:        c.now(),
		})
	}

	if c.Click(cur) {
		emit(KindClick, 0)
	}
	if c.RightClick(cur) {
		emit(KindRightClick, 0)
	}
	if dir := c.Scroll(cur, prev); dir != 0 {
		emit(KindScroll, dir)
	}
	if dir := c.Volume(cur); dir != 0 {
		emit(KindVolume, dir)
	}
	if c.Screenshot(cur) {
		emit(KindScreenshot, 0)
	}
	if dir := c.TabSwitch(cur, prev); dir != 0 {
		emit(KindTabSwitch, dir)
	}
	if c.MicToggle(cur) {
		emit(KindMicToggle, 0)
	}

	return events
}
