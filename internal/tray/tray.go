// Package tray shows airmouse in the system tray with an enable toggle, the
// last triggered action and a quit item.
package tray

import (
	"sync"
	"sync/atomic"

	"github.com/getlantern/systray"
)

const (
	titleEnabled  = "● Enabled"
	titleDisabled = "○ Disabled"
	lastNone      = "Last: none"
)

// Tray is the system tray menu. Its enabled flag is safe to read from the
// frame loop while the menu runs on the main thread.
type Tray struct {
	enabled atomic.Bool

	mu       sync.Mutex
	onToggle func(enabled bool)
	onQuit   func()
	last     string

	menuToggle *systray.MenuItem
	menuLast   *systray.MenuItem
}

// New returns an enabled Tray.
func New() *Tray {
	t := &Tray{}
	t.enabled.Store(true)
	return t
}

// OnToggle registers fn to run after the enabled state flips.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnQuit registers fn to run when Quit is chosen.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run blocks until Stop or the Quit item ends the tray. It must be called
// from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Stop ends a running tray.
func (t *Tray) Stop() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("airmouse")
	systray.SetTooltip("airmouse hand-gesture mouse")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled.Load()), "Pause or resume gesture control")
	systray.AddSeparator()
	t.menuLast = systray.AddMenuItem(lastTitle(t.last), "Last triggered action")
	t.menuLast.Disable()
	systray.AddSeparator()
	menuQuit := systray.AddMenuItem("Quit", "Quit airmouse")
	toggleCh := t.menuToggle.ClickedCh
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-toggleCh:
				t.Toggle()
			case <-menuQuit.ClickedCh:
				t.quit()
				return
			}
		}
	}()
}

// Toggle flips the enabled state and returns the new value.
func (t *Tray) Toggle() bool {
	var enabled bool
	for {
		old := t.enabled.Load()
		if t.enabled.CompareAndSwap(old, !old) {
			enabled = !old
			break
		}
	}

	t.mu.Lock()
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
	callback := t.onToggle
	t.mu.Unlock()

	if callback != nil {
		callback(enabled)
	}
	return enabled
}

func (t *Tray) quit() {
	t.mu.Lock()
	callback := t.onQuit
	t.mu.Unlock()

	if callback != nil {
		callback()
	}
	systray.Quit()
}

// SetLastAction records the most recent action for display. It may be
// called before the menu exists.
func (t *Tray) SetLastAction(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.last = name
	if t.menuLast != nil {
		t.menuLast.SetTitle(lastTitle(name))
	}
}

// LastAction returns the value set by SetLastAction.
func (t *Tray) LastAction() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Enabled reports whether gesture control is active.
func (t *Tray) Enabled() bool {
	return t.enabled.Load()
}

func toggleTitle(enabled bool) string {
	if enabled {
		return titleEnabled
	}
	return titleDisabled
}

func lastTitle(name string) string {
	if name == "" {
		return lastNone
	}
	return "Last: " + name
}
