package action

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/vova616/screenshot"
)

// Screenshot modes.
const (
	// ScreenshotShortcut presses the platform's screenshot key combination.
	ScreenshotShortcut = "shortcut"
	// ScreenshotCapture grabs the screen and writes a PNG file.
	ScreenshotCapture = "capture"
)

// DefaultMicKey is the key tapped to toggle the microphone.
const DefaultMicKey = "f4"

// ErrUnknownScreenshotMode is returned for a screenshot mode other than shortcut or capture.
var ErrUnknownScreenshotMode = errors.New("unknown screenshot mode")

// Config tunes the RobotgoController.
type Config struct {
	MicKey         string
	ScreenshotMode string
	ScreenshotDir  string
}

// DefaultConfig returns the shortcut screenshot mode with F4 as the mic key.
func DefaultConfig() Config {
	return Config{
		MicKey:         DefaultMicKey,
		ScreenshotMode: ScreenshotShortcut,
		ScreenshotDir:  os.TempDir(),
	}
}

// injector is the native input layer.
type injector interface {
	Move(x, y int)
	Click(button string)
	ScrollDir(amount int, direction string)
	KeyTap(key string, modifiers ...string) error
}

// robotgoInjector drives the real mouse and keyboard.
type robotgoInjector struct{}

func (robotgoInjector) Move(x, y int) { robotgo.Move(x, y) }

func (robotgoInjector) Click(button string) { robotgo.Click(button) }

func (robotgoInjector) ScrollDir(amount int, direction string) { robotgo.ScrollDir(amount, direction) }

func (robotgoInjector) KeyTap(key string, modifiers ...string) error {
	args := make([]interface{}, len(modifiers))
	for i, m := range modifiers {
		args[i] = m
	}
	return robotgo.KeyTap(key, args...)
}

// RobotgoController injects input through robotgo.
type RobotgoController struct {
	cfg     Config
	goos    string
	input   injector
	capture func() (image.Image, error)
	now     func() time.Time
}

// NewRobotgoController creates a controller for the current platform.
func NewRobotgoController(cfg Config) (*RobotgoController, error) {
	if cfg.MicKey == "" {
		cfg.MicKey = DefaultMicKey
	}
	switch cfg.ScreenshotMode {
	case "":
		cfg.ScreenshotMode = ScreenshotShortcut
	case ScreenshotShortcut, ScreenshotCapture:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScreenshotMode, cfg.ScreenshotMode)
	}

	return &RobotgoController{
		cfg:     cfg,
		goos:    runtime.GOOS,
		input:   robotgoInjector{},
		capture: captureScreen,
		now:     time.Now,
	}, nil
}

// captureScreen grabs the primary display.
func captureScreen() (image.Image, error) {
	img, err := screenshot.CaptureScreen()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// MoveCursor warps the pointer to the absolute screen position x, y.
func (c *RobotgoController) MoveCursor(x, y int) error {
	c.input.Move(x, y)
	return nil
}

// Click presses the left button.
func (c *RobotgoController) Click() error {
	c.input.Click("left")
	return nil
}

// RightClick presses the right button.
func (c *RobotgoController) RightClick() error {
	c.input.Click("right")
	return nil
}

// Scroll scrolls up for positive amounts and down for negative ones.
func (c *RobotgoController) Scroll(amount int) error {
	switch {
	case amount > 0:
		c.input.ScrollDir(amount, "up")
	case amount < 0:
		c.input.ScrollDir(-amount, "down")
	}
	return nil
}

// VolumeUp taps the media volume-up key.
func (c *RobotgoController) VolumeUp() error {
	return c.input.KeyTap("audio_vol_up")
}

// VolumeDown taps the media volume-down key.
func (c *RobotgoController) VolumeDown() error {
	return c.input.KeyTap("audio_vol_down")
}

// NextTab sends ctrl+tab.
func (c *RobotgoController) NextTab() error {
	return c.input.KeyTap("tab", "ctrl")
}

// PrevTab sends ctrl+shift+tab.
func (c *RobotgoController) PrevTab() error {
	return c.input.KeyTap("tab", "ctrl", "shift")
}

// ToggleMic taps the configured mic key, f4 by default.
func (c *RobotgoController) ToggleMic() error {
	return c.input.KeyTap(c.cfg.MicKey)
}

// Screenshot triggers the platform shortcut, or in capture mode writes the
// full screen to a timestamped PNG in the screenshot directory.
func (c *RobotgoController) Screenshot() error {
	if c.cfg.ScreenshotMode == ScreenshotCapture {
		_, err := c.saveScreenshot()
		return err
	}

	switch c.goos {
	case "windows":
		return c.input.KeyTap("s", "cmd", "shift")
	case "darwin":
		return c.input.KeyTap("4", "cmd", "shift")
	default:
		return c.input.KeyTap("printscreen")
	}
}

// saveScreenshot writes a capture to the screenshot directory and returns
// its path.
func (c *RobotgoController) saveScreenshot() (string, error) {
	img, err := c.capture()
	if err != nil {
		return "", fmt.Errorf("capture screen: %w", err)
	}

	if err := os.MkdirAll(c.cfg.ScreenshotDir, 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	name := fmt.Sprintf("airmouse-%s.png", c.now().Format("20060102-150405.000"))
	path := filepath.Join(c.cfg.ScreenshotDir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode screenshot: %w", err)
	}

	return path, nil
}
