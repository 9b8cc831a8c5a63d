// Package config loads airmouse settings from YAML, .env files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/ayusman/airmouse/internal/action"
	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
)

// ErrInvalid is wrapped by Validate errors.
var ErrInvalid = errors.New("invalid config")

// Config is the complete application configuration.
type Config struct {
	Camera   CameraConfig   `yaml:"camera"`
	Detector DetectorConfig `yaml:"detector"`
	Cursor   CursorConfig   `yaml:"cursor"`
	Gestures GestureConfig  `yaml:"gestures"`
	Emoji    EmojiConfig    `yaml:"emoji"`
	Display  DisplayConfig  `yaml:"display"`
	Idle     IdleConfig     `yaml:"idle"`
	Actions  ActionsConfig  `yaml:"actions"`
	Plugins  PluginsConfig  `yaml:"plugins"`
	Tray     TrayConfig     `yaml:"tray"`
	Log      LogConfig      `yaml:"log"`
}

// CameraConfig selects the capture device.
type CameraConfig struct {
	Device int `yaml:"device"`
	// Source is a video file or stream URL used instead of Device.
	Source string `yaml:"source"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	FPS    int    `yaml:"fps"`
	Mirror bool   `yaml:"mirror"`
}

// DetectorConfig configures the MediaPipe subprocess.
type DetectorConfig struct {
	Script                 string  `yaml:"script"`
	Python                 string  `yaml:"python"`
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`

	// IdleShutdown stops the service after this long without a frame. Zero
	// keeps it running.
	IdleShutdown time.Duration `yaml:"idle_shutdown"`
}

// CursorConfig tunes cursor smoothing.
type CursorConfig struct {
	Smoothing int `yaml:"smoothing"`
}

// GestureConfig holds every recognition threshold and cooldown.
type GestureConfig struct {
	ClickDistance      float64       `yaml:"click_distance"`
	RightClickDistance float64       `yaml:"right_click_distance"`
	MicDistance        float64       `yaml:"mic_distance"`
	ScreenshotMinAngle float64       `yaml:"screenshot_min_angle"`
	ScreenshotMaxAngle float64       `yaml:"screenshot_max_angle"`
	TabSwitchDistance  float64       `yaml:"tab_switch_distance"`
	ScrollDistance     float64       `yaml:"scroll_distance"`
	HeartDistance      float64       `yaml:"heart_distance"`
	ThumbsUpMaxOffset  float64       `yaml:"thumbs_up_max_offset"`
	VictorySpread      float64       `yaml:"victory_spread"`
	Cooldown           time.Duration `yaml:"cooldown"`
	ClickCooldown      time.Duration `yaml:"click_cooldown"`
	ScrollCooldown     time.Duration `yaml:"scroll_cooldown"`
	ScrollAmount       int           `yaml:"scroll_amount"`
}

// EmojiConfig configures the emoji overlay.
type EmojiConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Dir      string        `yaml:"dir"`
	Size     int           `yaml:"size"`
	Duration time.Duration `yaml:"duration"`
}

// DisplayConfig selects the target monitor and the preview window.
type DisplayConfig struct {
	Headless     bool   `yaml:"headless"`
	Monitor      string `yaml:"monitor"`
	MonitorIndex int    `yaml:"monitor_index"`
	WindowTitle  string `yaml:"window_title"`
	ShowFPS      bool   `yaml:"show_fps"`
	ShowSkeleton bool   `yaml:"show_skeleton"`
}

// IdleConfig enables motion-gated detection when MotionThreshold > 0.
type IdleConfig struct {
	MotionThreshold float64       `yaml:"motion_threshold"`
	Timeout         time.Duration `yaml:"timeout"`
	FPS             int           `yaml:"fps"`
}

// ActionsConfig tunes the built-in input controller.
type ActionsConfig struct {
	MicKey         string `yaml:"mic_key"`
	ScreenshotMode string `yaml:"screenshot_mode"`
	ScreenshotDir  string `yaml:"screenshot_dir"`
}

// PluginsConfig locates plugins and binds actions to them.
type PluginsConfig struct {
	Dir      string            `yaml:"dir"`
	Timeout  time.Duration     `yaml:"timeout"`
	Bindings map[string]string `yaml:"bindings"`
}

// TrayConfig toggles the system tray.
type TrayConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Log formats.
const (
	FormatAuto = "auto"
	FormatText = "text"
	FormatJSON = "json"
)

// HomeDir returns ~/.airmouse, or .airmouse when the home directory is unknown.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airmouse"
	}
	return filepath.Join(home, ".airmouse")
}

// Default returns the built-in configuration.
func Default() *Config {
	t := gesture.DefaultThresholds()
	base := HomeDir()

	return &Config{
		Camera: CameraConfig{
			Device: 0,
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
			FPS:    capture.DefaultFPS,
			Mirror: true,
		},
		Detector: DetectorConfig{
			MaxHands:               1,
			MinDetectionConfidence: 0.5,
			MinTrackingConfidence:  0.5,
			IdleShutdown:           detector.DefaultConfig().IdleShutdown,
		},
		Cursor: CursorConfig{Smoothing: 7},
		Gestures: GestureConfig{
			ClickDistance:      t.ClickDistance,
			RightClickDistance: t.RightClickDistance,
			MicDistance:        t.MicDistance,
			ScreenshotMinAngle: t.ScreenshotMinAngle,
			ScreenshotMaxAngle: t.ScreenshotMaxAngle,
			TabSwitchDistance:  t.TabSwitchDistance,
			ScrollDistance:     t.ScrollDistance,
			HeartDistance:      t.HeartDistance,
			ThumbsUpMaxOffset:  t.ThumbsUpMaxOffset,
			VictorySpread:      t.VictorySpread,
			Cooldown:           t.Cooldown,
			ClickCooldown:      t.ClickCooldown,
			ScrollCooldown:     t.ScrollCooldown,
			ScrollAmount:       action.DefaultScrollAmount,
		},
		Emoji: EmojiConfig{
			Enabled:  true,
			Dir:      filepath.Join(base, "emojis"),
			Size:     100,
			Duration: t.EmojiDuration,
		},
		Display: DisplayConfig{
			MonitorIndex: -1,
			WindowTitle:  "Virtual Mouse",
			ShowFPS:      true,
			ShowSkeleton: true,
		},
		Idle: IdleConfig{
			MotionThreshold: 0,
			Timeout:         5 * time.Second,
			FPS:             5,
		},
		Actions: ActionsConfig{
			MicKey:         action.DefaultMicKey,
			ScreenshotMode: action.ScreenshotShortcut,
			ScreenshotDir:  filepath.Join(base, "screenshots"),
		},
		Plugins: PluginsConfig{
			Dir:      filepath.Join(base, "plugins"),
			Timeout:  2 * time.Second,
			Bindings: map[string]string{},
		},
		Log: LogConfig{
			Level:  "info",
			Format: FormatAuto,
		},
	}
}

// Normalize replaces out-of-range numeric settings with their defaults and
// returns a description of each correction.
func (c *Config) Normalize() []string {
	d := Default()
	var fixes []string

	fixInt := func(name string, v *int, min, def int) {
		if *v < min {
			fixes = append(fixes, fmt.Sprintf("%s=%d is below %d, using %d", name, *v, min, def))
			*v = def
		}
	}
	fixFloat := func(name string, v *float64, def float64) {
		if *v <= 0 {
			fixes = append(fixes, fmt.Sprintf("%s=%g must be positive, using %g", name, *v, def))
			*v = def
		}
	}
	fixDur := func(name string, v *time.Duration, def time.Duration) {
		if *v < 0 {
			fixes = append(fixes, fmt.Sprintf("%s=%s is negative, using %s", name, *v, def))
			*v = def
		}
	}
	fixUnit := func(name string, v *float64, def float64) {
		if *v < 0 || *v > 1 {
			fixes = append(fixes, fmt.Sprintf("%s=%g is outside [0,1], using %g", name, *v, def))
			*v = def
		}
	}

	fixInt("camera.device", &c.Camera.Device, 0, d.Camera.Device)
	fixInt("camera.width", &c.Camera.Width, 1, d.Camera.Width)
	fixInt("camera.height", &c.Camera.Height, 1, d.Camera.Height)
	fixInt("camera.fps", &c.Camera.FPS, 1, d.Camera.FPS)

	fixInt("detector.max_hands", &c.Detector.MaxHands, 1, d.Detector.MaxHands)
	fixUnit("detector.min_detection_confidence", &c.Detector.MinDetectionConfidence, d.Detector.MinDetectionConfidence)
	fixUnit("detector.min_tracking_confidence", &c.Detector.MinTrackingConfidence, d.Detector.MinTrackingConfidence)
	fixDur("detector.idle_shutdown", &c.Detector.IdleShutdown, d.Detector.IdleShutdown)

	fixInt("cursor.smoothing", &c.Cursor.Smoothing, 1, d.Cursor.Smoothing)

	g, dg := &c.Gestures, d.Gestures
	fixFloat("gestures.click_distance", &g.ClickDistance, dg.ClickDistance)
	fixFloat("gestures.right_click_distance", &g.RightClickDistance, dg.RightClickDistance)
	fixFloat("gestures.mic_distance", &g.MicDistance, dg.MicDistance)
	fixFloat("gestures.tab_switch_distance", &g.TabSwitchDistance, dg.TabSwitchDistance)
	fixFloat("gestures.scroll_distance", &g.ScrollDistance, dg.ScrollDistance)
	fixFloat("gestures.heart_distance", &g.HeartDistance, dg.HeartDistance)
	fixFloat("gestures.thumbs_up_max_offset", &g.ThumbsUpMaxOffset, dg.ThumbsUpMaxOffset)
	fixFloat("gestures.victory_spread", &g.VictorySpread, dg.VictorySpread)
	if g.ScreenshotMinAngle < 0 || g.ScreenshotMaxAngle > 180 || g.ScreenshotMinAngle > g.ScreenshotMaxAngle {
		fixes = append(fixes, fmt.Sprintf("gestures.screenshot angles [%g,%g] are invalid, using [%g,%g]",
			g.ScreenshotMinAngle, g.ScreenshotMaxAngle, dg.ScreenshotMinAngle, dg.ScreenshotMaxAngle))
		g.ScreenshotMinAngle, g.ScreenshotMaxAngle = dg.ScreenshotMinAngle, dg.ScreenshotMaxAngle
	}
	fixDur("gestures.cooldown", &g.Cooldown, dg.Cooldown)
	fixDur("gestures.click_cooldown", &g.ClickCooldown, dg.ClickCooldown)
	fixDur("gestures.scroll_cooldown", &g.ScrollCooldown, dg.ScrollCooldown)
	fixInt("gestures.scroll_amount", &g.ScrollAmount, 1, dg.ScrollAmount)

	fixInt("emoji.size", &c.Emoji.Size, 1, d.Emoji.Size)
	fixDur("emoji.duration", &c.Emoji.Duration, d.Emoji.Duration)

	if c.Idle.MotionThreshold < 0 {
		fixes = append(fixes, fmt.Sprintf("idle.motion_threshold=%g is negative, disabling idle gating", c.Idle.MotionThreshold))
		c.Idle.MotionThreshold = 0
	}
	if c.Idle.Timeout <= 0 {
		fixes = append(fixes, fmt.Sprintf("idle.timeout=%s must be positive, using %s", c.Idle.Timeout, d.Idle.Timeout))
		c.Idle.Timeout = d.Idle.Timeout
	}
	fixInt("idle.fps", &c.Idle.FPS, 1, d.Idle.FPS)

	if c.Plugins.Timeout <= 0 {
		fixes = append(fixes, fmt.Sprintf("plugins.timeout=%s must be positive, using %s", c.Plugins.Timeout, d.Plugins.Timeout))
		c.Plugins.Timeout = d.Plugins.Timeout
	}
	if c.Plugins.Bindings == nil {
		c.Plugins.Bindings = map[string]string{}
	}

	// systray owns the main thread's GUI loop; HighGUI cannot share it.
	if c.Tray.Enabled && !c.Display.Headless {
		fixes = append(fixes, "tray.enabled cannot be combined with the preview window, forcing display.headless")
		c.Display.Headless = true
	}

	return fixes
}

// Validate rejects settings that cannot be corrected automatically.
func (c *Config) Validate() error {
	var errs []error

	switch c.Actions.ScreenshotMode {
	case action.ScreenshotShortcut, action.ScreenshotCapture:
	default:
		errs = append(errs, fmt.Errorf("%w: actions.screenshot_mode %q (want %s or %s)",
			ErrInvalid, c.Actions.ScreenshotMode, action.ScreenshotShortcut, action.ScreenshotCapture))
	}

	if c.Actions.MicKey == "" {
		errs = append(errs, fmt.Errorf("%w: actions.mic_key is empty", ErrInvalid))
	}

	for name := range c.Plugins.Bindings {
		if !slices.Contains(action.Actions, name) {
			errs = append(errs, fmt.Errorf("%w: plugins.bindings has unknown action %q (known: %s)",
				ErrInvalid, name, strings.Join(action.Actions, ", ")))
		}
	}

	switch strings.ToLower(c.Log.Format) {
	case FormatAuto, FormatText, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format))
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Log.Level))
	}

	return errors.Join(errs...)
}

// Thresholds returns the gesture tuning.
func (c *Config) Thresholds() gesture.Thresholds {
	g := c.Gestures
	return gesture.Thresholds{
		ClickDistance:      g.ClickDistance,
		RightClickDistance: g.RightClickDistance,
		MicDistance:        g.MicDistance,
		ScreenshotMinAngle: g.ScreenshotMinAngle,
		ScreenshotMaxAngle: g.ScreenshotMaxAngle,
		TabSwitchDistance:  g.TabSwitchDistance,
		ScrollDistance:     g.ScrollDistance,
		HeartDistance:      g.HeartDistance,
		ThumbsUpMaxOffset:  g.ThumbsUpMaxOffset,
		VictorySpread:      g.VictorySpread,
		Cooldown:           g.Cooldown,
		ClickCooldown:      g.ClickCooldown,
		ScrollCooldown:     g.ScrollCooldown,
		EmojiDuration:      c.Emoji.Duration,
	}
}

// CaptureConfig returns the camera settings.
func (c *Config) CaptureConfig() capture.Config {
	return capture.Config{
		DeviceID: c.Camera.Device,
		Source:   c.Camera.Source,
		Width:    c.Camera.Width,
		Height:   c.Camera.Height,
		FPS:      c.Camera.FPS,
	}
}

// DetectorConfig returns the MediaPipe settings.
func (c *Config) DetectorConfig() detector.Config {
	cfg := detector.DefaultConfig()
	cfg.ScriptPath = c.Detector.Script
	cfg.PythonPath = c.Detector.Python
	cfg.MaxHands = c.Detector.MaxHands
	cfg.MinConfidence = c.Detector.MinDetectionConfidence
	cfg.MinTrackingConf = c.Detector.MinTrackingConfidence
	cfg.IdleShutdown = c.Detector.IdleShutdown
	return cfg
}

// ActionConfig returns the input controller settings.
func (c *Config) ActionConfig() action.Config {
	return action.Config{
		MicKey:         c.Actions.MicKey,
		ScreenshotMode: c.Actions.ScreenshotMode,
		ScreenshotDir:  c.Actions.ScreenshotDir,
	}
}
