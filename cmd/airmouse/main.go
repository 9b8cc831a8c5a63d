package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"

	"github.com/ayusman/airmouse/internal/action"
	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/capture"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/cursor"
	"github.com/ayusman/airmouse/internal/detector"
	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/logging"
	"github.com/ayusman/airmouse/internal/overlay"
	"github.com/ayusman/airmouse/internal/plugin"
	"github.com/ayusman/airmouse/internal/screen"
	"github.com/ayusman/airmouse/internal/tray"
)

type options struct {
	configPath   string
	envFile      string
	camera       int
	source       string
	headless     bool
	tray         bool
	logLevel     string
	writeConfig  string
	listMonitors bool
	listPlugins  bool
	set          map[string]bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "config file (default ~/.airmouse/config.yaml)")
	flag.StringVar(&o.envFile, "env", ".env", "dotenv file to load before reading the environment")
	flag.IntVar(&o.camera, "camera", 0, "camera device index")
	flag.StringVar(&o.source, "source", "", "video file or stream URL to read instead of a camera")
	flag.BoolVar(&o.headless, "headless", false, "run without the preview window")
	flag.BoolVar(&o.tray, "tray", false, "show the system tray menu")
	flag.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error")
	flag.StringVar(&o.writeConfig, "write-config", "", "write the effective config to this path and exit")
	flag.BoolVar(&o.listMonitors, "list-monitors", false, "print the detected monitors and exit")
	flag.BoolVar(&o.listPlugins, "list-plugins", false, "print the discovered plugins and exit")
	flag.Parse()

	o.set = make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o
}

func main() {
	if err := run(parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "airmouse: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}

	path := opts.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	res, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg := res.Config

	if opts.set["camera"] {
		cfg.Camera.Device = opts.camera
	}
	if opts.set["source"] {
		cfg.Camera.Source = opts.source
	}
	if opts.set["headless"] {
		cfg.Display.Headless = opts.headless
	}
	if opts.set["tray"] {
		cfg.Tray.Enabled = opts.tray
	}
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	fixes := append(res.Fixes, cfg.Normalize()...)

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if res.Path != "" {
		logger.Info("config loaded", "path", res.Path)
	}
	for _, fix := range fixes {
		logger.Warn("config value corrected", "detail", fix)
	}

	if opts.writeConfig != "" {
		if err := cfg.Save(opts.writeConfig); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", opts.writeConfig)
		return nil
	}

	if opts.listMonitors {
		return printMonitors()
	}

	plugins := plugin.NewManager(cfg.Plugins.Dir, logger)
	if err := plugins.Discover(); err != nil {
		logger.Warn("plugin discovery failed", "dir", cfg.Plugins.Dir, "error", err)
	}
	if opts.listPlugins {
		for _, p := range plugins.List() {
			fmt.Printf("%s %s  %v  %s\n", p.Manifest.Name, p.Manifest.Version, p.Manifest.Actions, p.Path)
		}
		return nil
	}

	bounds, err := screen.Detect(cfg.Display.Monitor, cfg.Display.MonitorIndex)
	if err != nil {
		return err
	}
	logger.Info("target screen", "x", bounds.X, "y", bounds.Y, "width", bounds.Width, "height", bounds.Height)

	ctrl, err := action.NewRobotgoController(cfg.ActionConfig())
	if err != nil {
		return err
	}
	router, err := action.NewRouter(ctrl, cfg.Plugins.Bindings, plugins,
		plugin.NewExecutor(cfg.Plugins.Timeout), cfg.Gestures.ScrollAmount, logger)
	if err != nil {
		return err
	}
	logger.Debug("native actions", "actions", slices.DeleteFunc(slices.Clone(action.Actions), router.Bound))

	det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig(), logger)
	if err != nil {
		return fmt.Errorf("hand detector: %w", err)
	}

	camera := capture.NewCamera(cfg.CaptureConfig())
	logger.Info("video source", "source", camera.Name(), "mirror", cfg.Camera.Mirror)

	th := cfg.Thresholds()
	appCfg := app.Config{
		Camera:       camera,
		Mirror:       cfg.Camera.Mirror,
		Detector:     det,
		Classifier:   gesture.NewClassifier(th),
		Smoother:     cursor.NewSmoother(cfg.Cursor.Smoothing),
		Mapper:       cursor.NewMapper(bounds),
		Actions:      router,
		ShowFPS:      cfg.Display.ShowFPS,
		ShowSkeleton: cfg.Display.ShowSkeleton,
		ActiveFPS:    cfg.Camera.FPS,
		IdleFPS:      cfg.Idle.FPS,
		Logger:       logger,
	}

	if cfg.Emoji.Enabled {
		appCfg.Emojis = gesture.NewEmojiSelector(th)
	}

	if !cfg.Display.Headless {
		window := overlay.NewWindow(cfg.Display.WindowTitle)
		appCfg.Display = window

		if cfg.Emoji.Enabled {
			emojis := overlay.LoadEmojis(findEmojiDir(cfg.Emoji.Dir), cfg.Emoji.Size, logger)
			defer emojis.Close()
			logger.Debug("emoji assets ready", "size", emojis.Size())
			appCfg.EmojiImages = emojis
		}
	}

	if cfg.Idle.MotionThreshold > 0 {
		motion := capture.NewMotionDetector(cfg.Idle.MotionThreshold)
		defer motion.Close()
		appCfg.Idle = capture.NewIdleGate(motion, cfg.Idle.Timeout)
	}

	var tr *tray.Tray
	if cfg.Tray.Enabled {
		tr = tray.New()
		tr.OnToggle(func(enabled bool) {
			logger.Info("gesture control toggled", "enabled", enabled)
		})
		appCfg.State = tr
	}

	a, err := app.New(appCfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if tr == nil {
		return a.Run(ctx)
	}

	// The tray owns the main thread; the frame loop runs headless beside it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	tr.OnQuit(cancel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Stop()
	}()

	tr.Run()
	cancel()
	return <-errCh
}

func printMonitors() error {
	monitors, err := screen.Monitors()
	if err != nil {
		return err
	}
	for i, m := range monitors {
		fmt.Printf("%d  %-12s %dx%d+%d+%d\n", i, m.Name, m.Width, m.Height, m.X, m.Y)
	}
	return nil
}

// findEmojiDir returns dir if it exists, otherwise the first of
// "assets/emojis", "../assets/emojis" and <executable dir>/assets/emojis that
// exists. It falls back to dir so missing images become placeholders.
func findEmojiDir(dir string) string {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}

	candidates := []string{"assets/emojis", "../assets/emojis"}
	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), "assets", "emojis"))
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}
	return dir
}
