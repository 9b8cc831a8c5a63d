package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayusman/airmouse/internal/action"
	"github.com/ayusman/airmouse/internal/gesture"
)

// clearEnv isolates a test from the caller's AIRMOUSE_* variables and home.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfig, EnvCamera, EnvHeadless, EnvLogLevel, EnvLogFormat, EnvPluginDir, EnvEmojiDir, EnvPython} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if fixes := cfg.Normalize(); len(fixes) != 0 {
		t.Errorf("Normalize() on defaults = %v, want none", fixes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v", err)
	}

	if cfg.Cursor.Smoothing != 7 {
		t.Errorf("Cursor.Smoothing = %d, want 7", cfg.Cursor.Smoothing)
	}
	if cfg.Gestures.ScrollAmount != action.DefaultScrollAmount {
		t.Errorf("Gestures.ScrollAmount = %d, want %d", cfg.Gestures.ScrollAmount, action.DefaultScrollAmount)
	}
	if !cfg.Camera.Mirror {
		t.Error("Camera.Mirror should default to true")
	}
	if cfg.Display.MonitorIndex != -1 {
		t.Errorf("Display.MonitorIndex = %d, want -1", cfg.Display.MonitorIndex)
	}
	if cfg.Thresholds() != gesture.DefaultThresholds() {
		t.Errorf("Thresholds() = %+v, want defaults", cfg.Thresholds())
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearEnv(t)

	res, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Path != "" {
		t.Errorf("Path = %q, want empty", res.Path)
	}
	if res.Config.Camera.Width != 640 {
		t.Errorf("Camera.Width = %d, want 640", res.Config.Camera.Width)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
camera:
  device: 2
  mirror: false
cursor:
  smoothing: 3
gestures:
  click_distance: 25
  cooldown: 750ms
emoji:
  duration: 1s
plugins:
  bindings:
    volume-up: pulse-audio
`)

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg := res.Config

	if res.Path != path {
		t.Errorf("Path = %q, want %q", res.Path, path)
	}
	if cfg.Camera.Device != 2 || cfg.Camera.Mirror {
		t.Errorf("Camera = %+v, want device 2 without mirror", cfg.Camera)
	}
	if cfg.Camera.Width != 640 {
		t.Errorf("unset Camera.Width = %d, want default 640", cfg.Camera.Width)
	}
	if cfg.Cursor.Smoothing != 3 {
		t.Errorf("Cursor.Smoothing = %d, want 3", cfg.Cursor.Smoothing)
	}

	th := cfg.Thresholds()
	if th.ClickDistance != 25 {
		t.Errorf("ClickDistance = %g, want 25", th.ClickDistance)
	}
	if th.Cooldown != 750*time.Millisecond {
		t.Errorf("Cooldown = %s, want 750ms", th.Cooldown)
	}
	if th.EmojiDuration != time.Second {
		t.Errorf("EmojiDuration = %s, want 1s", th.EmojiDuration)
	}
	if th.RightClickDistance != 40 {
		t.Errorf("unset RightClickDistance = %g, want 40", th.RightClickDistance)
	}

	if got := cfg.Plugins.Bindings[action.ActionVolumeUp]; got != "pulse-audio" {
		t.Errorf("binding = %q, want pulse-audio", got)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "unknown key", body: "camera:\n  lens: wide\n", wantErr: "lens"},
		{name: "bad duration", body: "gestures:\n  cooldown: soon\n", wantErr: "parse"},
		{name: "screenshot mode", body: "actions:\n  screenshot_mode: print\n", wantErr: "screenshot_mode"},
		{name: "unknown binding", body: "plugins:\n  bindings:\n    jump: x\n", wantErr: "jump"},
		{name: "log format", body: "log:\n  format: xml\n", wantErr: "log.format"},
		{name: "log level", body: "log:\n  level: loud\n", wantErr: "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load() error = nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	clearEnv(t)

	res, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Config.Gestures.ScrollAmount != action.DefaultScrollAmount {
		t.Errorf("ScrollAmount = %d, want default", res.Config.Gestures.ScrollAmount)
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Cursor.Smoothing = 0
	cfg.Camera.FPS = -1
	cfg.Gestures.ClickDistance = -5
	cfg.Gestures.ScreenshotMinAngle = 120
	cfg.Gestures.Cooldown = -time.Second
	cfg.Detector.MinDetectionConfidence = 1.5
	cfg.Idle.MotionThreshold = -1
	cfg.Plugins.Timeout = 0
	cfg.Plugins.Bindings = nil

	fixes := cfg.Normalize()
	if len(fixes) != 8 {
		t.Errorf("Normalize() returned %d fixes, want 8: %v", len(fixes), fixes)
	}

	d := Default()
	if cfg.Cursor.Smoothing != d.Cursor.Smoothing {
		t.Errorf("Smoothing = %d, want %d", cfg.Cursor.Smoothing, d.Cursor.Smoothing)
	}
	if cfg.Camera.FPS != d.Camera.FPS {
		t.Errorf("FPS = %d, want %d", cfg.Camera.FPS, d.Camera.FPS)
	}
	if cfg.Gestures.ClickDistance != d.Gestures.ClickDistance {
		t.Errorf("ClickDistance = %g, want %g", cfg.Gestures.ClickDistance, d.Gestures.ClickDistance)
	}
	if cfg.Gestures.ScreenshotMinAngle != 75 || cfg.Gestures.ScreenshotMaxAngle != 105 {
		t.Errorf("screenshot angles = [%g,%g], want [75,105]", cfg.Gestures.ScreenshotMinAngle, cfg.Gestures.ScreenshotMaxAngle)
	}
	if cfg.Gestures.Cooldown != d.Gestures.Cooldown {
		t.Errorf("Cooldown = %s, want %s", cfg.Gestures.Cooldown, d.Gestures.Cooldown)
	}
	if cfg.Detector.MinDetectionConfidence != 0.5 {
		t.Errorf("MinDetectionConfidence = %g, want 0.5", cfg.Detector.MinDetectionConfidence)
	}
	if cfg.Idle.MotionThreshold != 0 {
		t.Errorf("MotionThreshold = %g, want 0", cfg.Idle.MotionThreshold)
	}
	if cfg.Plugins.Timeout != d.Plugins.Timeout {
		t.Errorf("Plugins.Timeout = %s, want %s", cfg.Plugins.Timeout, d.Plugins.Timeout)
	}
	if cfg.Plugins.Bindings == nil {
		t.Error("Plugins.Bindings should be non-nil")
	}
}

func TestNormalize_Durations(t *testing.T) {
	d := Default()

	tests := []struct {
		name             string
		idleTimeout      time.Duration
		idleShutdown     time.Duration
		wantIdleTimeout  time.Duration
		wantIdleShutdown time.Duration
		wantFixes        int
	}{
		{name: "valid", idleTimeout: 2 * time.Second, idleShutdown: time.Minute, wantIdleTimeout: 2 * time.Second, wantIdleShutdown: time.Minute},
		{name: "zero idle timeout", idleTimeout: 0, idleShutdown: time.Minute, wantIdleTimeout: d.Idle.Timeout, wantIdleShutdown: time.Minute, wantFixes: 1},
		{name: "negative idle timeout", idleTimeout: -time.Second, idleShutdown: time.Minute, wantIdleTimeout: d.Idle.Timeout, wantIdleShutdown: time.Minute, wantFixes: 1},
		{name: "zero shutdown keeps service running", idleTimeout: time.Second, idleShutdown: 0, wantIdleTimeout: time.Second, wantIdleShutdown: 0},
		{name: "negative shutdown", idleTimeout: time.Second, idleShutdown: -time.Second, wantIdleTimeout: time.Second, wantIdleShutdown: d.Detector.IdleShutdown, wantFixes: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Idle.MotionThreshold = 1
			cfg.Idle.Timeout = tt.idleTimeout
			cfg.Detector.IdleShutdown = tt.idleShutdown

			fixes := cfg.Normalize()
			if len(fixes) != tt.wantFixes {
				t.Errorf("Normalize() fixes = %v, want %d", fixes, tt.wantFixes)
			}
			if cfg.Idle.Timeout != tt.wantIdleTimeout {
				t.Errorf("Idle.Timeout = %s, want %s", cfg.Idle.Timeout, tt.wantIdleTimeout)
			}
			if got := cfg.DetectorConfig().IdleShutdown; got != tt.wantIdleShutdown {
				t.Errorf("DetectorConfig().IdleShutdown = %s, want %s", got, tt.wantIdleShutdown)
			}
		})
	}
}

func TestNormalize_TrayForcesHeadless(t *testing.T) {
	tests := []struct {
		name         string
		tray         bool
		headless     bool
		wantHeadless bool
		wantFixes    int
	}{
		{name: "window only", tray: false, headless: false, wantHeadless: false},
		{name: "tray and window", tray: true, headless: false, wantHeadless: true, wantFixes: 1},
		{name: "tray headless", tray: true, headless: true, wantHeadless: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Tray.Enabled = tt.tray
			cfg.Display.Headless = tt.headless

			fixes := cfg.Normalize()
			if len(fixes) != tt.wantFixes {
				t.Errorf("Normalize() fixes = %v, want %d", fixes, tt.wantFixes)
			}
			if cfg.Display.Headless != tt.wantHeadless {
				t.Errorf("Headless = %v, want %v", cfg.Display.Headless, tt.wantHeadless)
			}
			if again := cfg.Normalize(); len(again) != 0 {
				t.Errorf("second Normalize() fixes = %v, want none", again)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvCamera, "3")
	t.Setenv(EnvHeadless, "true")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "JSON")
	t.Setenv(EnvPluginDir, "/opt/airmouse/plugins")

	cfg := Default()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Camera.Device != 3 {
		t.Errorf("Camera.Device = %d, want 3", cfg.Camera.Device)
	}
	if !cfg.Display.Headless {
		t.Error("Display.Headless = false, want true")
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != FormatJSON {
		t.Errorf("Log = %+v, want debug/json", cfg.Log)
	}
	if cfg.Plugins.Dir != "/opt/airmouse/plugins" {
		t.Errorf("Plugins.Dir = %q", cfg.Plugins.Dir)
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvCamera, "front"},
		{EnvHeadless, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if err := Default().ApplyEnv(); err == nil {
				t.Errorf("ApplyEnv() with %s=%s error = nil", tt.key, tt.value)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "airmouse.env")
	if err := os.WriteFile(path, []byte("AIRMOUSE_CAMERA=4\n"), 0644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	// godotenv.Load does not override variables that are already set.
	os.Unsetenv(EnvCamera)

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv(EnvCamera); got != "4" {
		t.Errorf("%s = %q, want 4", EnvCamera, got)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Default()
	cfg.Gestures.ClickCooldown = 350 * time.Millisecond
	cfg.Plugins.Bindings[action.ActionMicToggle] = "pulse-audio"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	res, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if res.Config.Gestures.ClickCooldown != 350*time.Millisecond {
		t.Errorf("ClickCooldown = %s, want 350ms", res.Config.Gestures.ClickCooldown)
	}
	if res.Config.Plugins.Bindings[action.ActionMicToggle] != "pulse-audio" {
		t.Errorf("Bindings = %v", res.Config.Plugins.Bindings)
	}
}
