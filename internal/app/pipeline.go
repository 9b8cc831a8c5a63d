package app

import (
	"context"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airmouse/internal/action"
	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/overlay"
)

// step processes one frame and reports whether the quit key was pressed.
//
// Per frame:
// 1. Read and mirror
// 2. Idle gate, then landmark detection on the first hand
// 3. Map, smooth and move the cursor to the index tip
// 4. Classify against the previous hand and dispatch events
// 5. Update the emoji, remember the hand
// 6. Draw the overlay and poll the window
func (a *App) step(ctx context.Context) (bool, error) {
	frame, err := a.cfg.Camera.ReadFrame()
	if err != nil {
		return false, fmt.Errorf("read frame: %w", err)
	}
	defer frame.Close()

	if a.cfg.Mirror {
		capture.Mirror(frame)
	}

	now := a.now()
	enabled := a.enabled()
	if enabled != a.wasEnabled {
		a.toggled(enabled)
	}

	hand := a.detect(frame, now)

	if hand != nil {
		if enabled {
			a.moveCursor(hand, frame.Cols(), frame.Rows())
			a.dispatch(ctx, hand)
		}
		if a.cfg.Emojis != nil {
			if e, ok := a.cfg.Emojis.Update(hand, now); ok {
				a.logger.Info("emoji", "emoji", e)
			}
		}
		a.prev = hand
	}

	fps := a.fps.Tick(now)

	if a.cfg.Display == nil {
		return false, nil
	}
	a.render(frame, hand, now, fps)
	return a.cfg.Display.Show(frame), nil
}

// detect returns the first hand in frame, or nil when there is none, the
// detector fails or the idle gate is closed.
func (a *App) detect(frame *gocv.Mat, now time.Time) *detector.HandLandmarks {
	if a.cfg.Idle != nil {
		active, changed := a.cfg.Idle.Observe(frame, now)
		if changed {
			a.idleChanged(active)
		}
		if !active {
			return nil
		}
	}

	hands, err := a.cfg.Detector.Detect(frame)
	if err != nil {
		a.logger.Warn("hand detection failed", "error", err)
		return nil
	}
	if len(hands) == 0 {
		return nil
	}

	hand := hands[0]
	return &hand
}

func (a *App) idleChanged(active bool) {
	if active {
		a.cfg.Camera.SetFPS(a.cfg.ActiveFPS)
		a.logger.Info("motion detected, resuming detection", "fps", a.cfg.ActiveFPS)
		return
	}

	a.cfg.Camera.SetFPS(a.cfg.IdleFPS)
	a.prev = nil
	a.cfg.Smoother.Reset()
	a.logger.Info("no motion, pausing detection", "fps", a.cfg.IdleFPS)
}

// toggled clears per-hand state and cooldowns when control is switched off or
// back on, and
// reopens a closed idle gate so a re-enabled loop reacts at once.
func (a *App) toggled(enabled bool) {
	a.wasEnabled = enabled
	a.prev = nil
	a.cfg.Smoother.Reset()
	a.cfg.Classifier.Reset()
	a.logger.Info("gesture control", "enabled", enabled)

	if enabled && a.cfg.Idle != nil && a.cfg.Idle.Idle() {
		a.cfg.Idle.Reset()
		a.cfg.Camera.SetFPS(a.cfg.ActiveFPS)
	}
}

func (a *App) moveCursor(hand *detector.HandLandmarks, frameW, frameH int) {
	tip := hand.Points[detector.IndexTip]
	x, y := a.cfg.Mapper.Map(tip.X, tip.Y, frameW, frameH)
	x, y = a.cfg.Smoother.Smooth(x, y)

	if err := a.cfg.Actions.MoveCursor(x, y); err != nil {
		a.logger.Debug("cursor move failed", "x", x, "y", y, "error", err)
	}
}

func (a *App) dispatch(ctx context.Context, hand *detector.HandLandmarks) {
	for _, ev := range a.cfg.Classifier.Evaluate(hand, a.prev) {
		name, _ := action.ActionFor(ev)
		a.logger.Info("gesture", "action", name, "event", ev.ID)

		if err := a.cfg.Actions.Handle(ctx, ev); err != nil {
			a.logger.Warn("action failed", "action", name, "event", ev.ID, "error", err)
			continue
		}
		if a.cfg.State != nil {
			a.cfg.State.SetLastAction(name)
		}
	}
}

func (a *App) render(frame *gocv.Mat, hand *detector.HandLandmarks, now time.Time, fps float64) {
	if a.cfg.ShowSkeleton {
		overlay.DrawHand(frame, hand)
	}

	if a.cfg.Emojis != nil && a.cfg.EmojiImages != nil {
		if e, ok := a.cfg.Emojis.Active(now); ok {
			if img, ok := a.cfg.EmojiImages.Get(e); ok {
				overlay.DrawEmoji(frame, img)
			}
		}
	}

	if a.cfg.ShowFPS {
		overlay.DrawFPS(frame, fps)
	}
}
