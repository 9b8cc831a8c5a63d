package plugin

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

var (
	// ErrPluginNotFound is returned by Get and Resolve for an unknown name.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrActionUnsupported is returned by Resolve when the manifest does not
	// list the bound action.
	ErrActionUnsupported = errors.New("action not supported by plugin")

	errBadManifest = errors.New("invalid manifest")
)

// Manager holds the plugins found under one directory. Each plugin lives in
// its own subdirectory next to its plugin.json.
type Manager struct {
	dir    string
	logger *slog.Logger

	mu      sync.RWMutex
	catalog map[string]*Plugin
}

// NewManager returns an empty Manager for dir. Call Discover to populate it.
func NewManager(dir string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		dir:     dir,
		logger:  logger.With("component", "plugin"),
		catalog: map[string]*Plugin{},
	}
}

// Discover rescans the directory and replaces the catalog. A missing or
// empty directory yields no plugins. Bad manifests are logged and skipped;
// when two manifests share a name the first directory in lexical order wins.
func (m *Manager) Discover() error {
	found, err := m.scan()
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.catalog = found
	m.mu.Unlock()

	m.logger.Info("plugins discovered", "dir", m.dir, "count", len(found))
	return nil
}

func (m *Manager) scan() (map[string]*Plugin, error) {
	found := map[string]*Plugin{}
	if m.dir == "" {
		return found, nil
	}

	entries, err := os.ReadDir(m.dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return found, nil
	case err != nil:
		return nil, fmt.Errorf("scan plugin dir %s: %w", m.dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(m.dir, entry.Name())

		p, err := readPlugin(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			m.logger.Warn("skipping plugin", "path", dir, "error", err)
			continue
		}

		if prev, dup := found[p.Manifest.Name]; dup {
			m.logger.Warn("duplicate plugin name", "name", p.Manifest.Name, "kept", prev.Path, "ignored", dir)
			continue
		}
		found[p.Manifest.Name] = p
		m.logger.Debug("plugin found", "name", p.Manifest.Name, "version", p.Manifest.Version, "actions", p.Manifest.Actions)
	}
	return found, nil
}

func readPlugin(dir string) (*Plugin, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}

	var mf Manifest
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadManifest, err)
	}
	switch {
	case mf.Name == "":
		return nil, fmt.Errorf("%w: no name", errBadManifest)
	case mf.Executable == "":
		return nil, fmt.Errorf("%w: no executable", errBadManifest)
	case !filepath.IsLocal(mf.Executable):
		return nil, fmt.Errorf("%w: executable %q leaves the plugin directory", errBadManifest, mf.Executable)
	}

	return &Plugin{
		Manifest:   mf,
		Path:       dir,
		Executable: filepath.Join(dir, mf.Executable),
	}, nil
}

// Get looks up a plugin by manifest name.
func (m *Manager) Get(name string) (*Plugin, error) {
	m.mu.RLock()
	p, ok := m.catalog[name]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
	}
	return p, nil
}

// Resolve returns the plugin named by b once it has checked that the
// manifest lists b.Action.
func (m *Manager) Resolve(b Binding) (*Plugin, error) {
	p, err := m.Get(b.Plugin)
	if err != nil {
		return nil, err
	}
	if !p.Supports(b.Action) {
		return nil, fmt.Errorf("%w: %s", ErrActionUnsupported, b)
	}
	return p, nil
}

// List returns the catalog ordered by name.
func (m *Manager) List() []*Plugin {
	m.mu.RLock()
	out := make([]*Plugin, 0, len(m.catalog))
	for _, p := range m.catalog {
		out = append(out, p)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Plugin) int {
		return cmp.Compare(a.Manifest.Name, b.Manifest.Name)
	})
	return out
}
