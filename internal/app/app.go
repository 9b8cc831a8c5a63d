// Package app runs the airmouse frame loop: capture, landmark detection,
// cursor control, gesture dispatch and the preview overlay.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/cursor"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/overlay"
)

// ActionHandler receives cursor moves and gesture events. action.Router
// implements it.
type ActionHandler interface {
	MoveCursor(x, y int) error
	Handle(ctx context.Context, ev gesture.Event) error
}

// State is the enable flag and last-action label shared with the tray.
type State interface {
	Enabled() bool
	SetLastAction(name string)
}

// Config wires the loop's collaborators. Camera, Detector, Classifier,
// Smoother, Mapper and Actions are required.
type Config struct {
	Camera     capture.Camera
	Mirror     bool
	Detector   detector.Detector
	Classifier *gesture.Classifier
	Smoother   *cursor.Smoother
	Mapper     *cursor.Mapper
	Actions    ActionHandler

	// Emojis selects the emoji to overlay; nil disables emojis.
	Emojis      *gesture.EmojiSelector
	EmojiImages *overlay.EmojiSet

	// Display is nil in headless mode.
	Display      overlay.Display
	ShowFPS      bool
	ShowSkeleton bool

	// Idle gates detection on motion; nil disables gating.
	Idle      *capture.IdleGate
	IdleFPS   int
	ActiveFPS int

	// State is nil when no tray is running; the loop is then always enabled.
	State State

	Logger *slog.Logger
	Now    func() time.Time
}

// App owns the per-frame state of the loop. It is not safe for concurrent use.
type App struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	prev       *detector.HandLandmarks
	wasEnabled bool
	fps        overlay.FPSCounter
}

// New validates cfg and returns an App.
func New(cfg Config) (*App, error) {
	var missing []error
	if cfg.Camera == nil {
		missing = append(missing, errors.New("camera"))
	}
	if cfg.Detector == nil {
		missing = append(missing, errors.New("detector"))
	}
	if cfg.Classifier == nil {
		missing = append(missing, errors.New("classifier"))
	}
	if cfg.Smoother == nil {
		missing = append(missing, errors.New("smoother"))
	}
	if cfg.Mapper == nil {
		missing = append(missing, errors.New("mapper"))
	}
	if cfg.Actions == nil {
		missing = append(missing, errors.New("actions"))
	}
	if err := errors.Join(missing...); err != nil {
		return nil, fmt.Errorf("app config missing: %w", err)
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.ActiveFPS <= 0 {
		cfg.ActiveFPS = capture.DefaultFPS
	}
	if cfg.IdleFPS <= 0 {
		cfg.IdleFPS = cfg.ActiveFPS
	}

	return &App{
		cfg:        cfg,
		logger:     cfg.Logger.With("component", "app"),
		now:        cfg.Now,
		wasEnabled: true,
	}, nil
}

// Run opens the camera and processes frames until ctx is cancelled, the quit
// key is pressed or a frame cannot be read. A read failure is returned
// wrapped; the other two return nil. The camera, detector and display are
// closed on return.
func (a *App) Run(ctx context.Context) error {
	if err := a.cfg.Camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	defer a.close()

	a.cfg.Camera.SetFPS(a.cfg.ActiveFPS)
	if r, ok := a.cfg.Camera.(interface{ Resolution() (int, int) }); ok {
		w, h := r.Resolution()
		a.logger.Info("camera opened", "width", w, "height", h)
	}
	th := a.cfg.Classifier.Thresholds()
	a.logger.Info("frame loop started",
		"headless", a.cfg.Display == nil,
		"idle_gate", a.cfg.Idle != nil,
		"smoothing", a.cfg.Smoother.Size(),
		"click_distance", th.ClickDistance,
		"cooldown", th.Cooldown)

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("frame loop stopped", "reason", context.Cause(ctx))
			return nil
		default:
		}

		quit, err := a.step(ctx)
		if err != nil {
			return err
		}
		if quit {
			a.logger.Info("frame loop stopped", "reason", "quit key")
			return nil
		}
	}
}

func (a *App) close() {
	if err := a.cfg.Camera.Close(); err != nil {
		a.logger.Warn("closing camera", "error", err)
	}
	if err := a.cfg.Detector.Close(); err != nil {
		a.logger.Warn("closing detector", "error", err)
	}
	if a.cfg.Display != nil {
		if err := a.cfg.Display.Close(); err != nil {
			a.logger.Warn("closing display", "error", err)
		}
	}
}

func (a *App) enabled() bool {
	return a.cfg.State == nil || a.cfg.State.Enabled()
}
