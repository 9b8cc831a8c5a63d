package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv.
const (
	EnvConfig    = "AIRMOUSE_CONFIG"
	EnvCamera    = "AIRMOUSE_CAMERA"
	EnvHeadless  = "AIRMOUSE_HEADLESS"
	EnvLogLevel  = "AIRMOUSE_LOG_LEVEL"
	EnvLogFormat = "AIRMOUSE_LOG_FORMAT"
	EnvPluginDir = "AIRMOUSE_PLUGIN_DIR"
	EnvEmojiDir  = "AIRMOUSE_EMOJI_DIR"
	EnvPython    = "AIRMOUSE_PYTHON"
)

// LoadResult is a loaded configuration plus where it came from.
type LoadResult struct {
	Config *Config
	// Path is the file that was read, empty when only defaults applied.
	Path string
	// Fixes lists the out-of-range values Normalize replaced.
	Fixes []string
}

// DefaultPath returns ~/.airmouse/config.yaml.
func DefaultPath() string {
	return filepath.Join(HomeDir(), "config.yaml")
}

// LoadDotEnv loads the given .env files (".env" when none are given) into the
// process environment. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the YAML file at path over the defaults, applies environment
// overrides, then normalizes and validates the result. An empty path means
// DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*LoadResult, error) {
	cfg := Default()
	res := &LoadResult{Config: cfg}

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decodeStrictYAML(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		res.Path = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	res.Fixes = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		if res.Path != "" {
			return nil, fmt.Errorf("%s: %w", res.Path, err)
		}
		return nil, err
	}
	return res, nil
}

func decodeStrictYAML(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overrides settings from AIRMOUSE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvCamera); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvCamera, v, err)
		}
		c.Camera.Device = n
	}
	if v := os.Getenv(EnvHeadless); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvHeadless, v, err)
		}
		c.Display.Headless = b
	}

	c.Log.Level = getEnv(EnvLogLevel, c.Log.Level)
	c.Log.Format = strings.ToLower(getEnv(EnvLogFormat, c.Log.Format))
	c.Plugins.Dir = getEnv(EnvPluginDir, c.Plugins.Dir)
	c.Emoji.Dir = getEnv(EnvEmojiDir, c.Emoji.Dir)
	c.Detector.Python = getEnv(EnvPython, c.Detector.Python)
	return nil
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
