// Package screen finds the display the cursor is mapped onto.
package screen

import (
	"errors"
	"fmt"

	"github.com/go-vgo/robotgo"

	"github.com/ayusman/airmouse/internal/cursor"
)

// ErrMonitorNotFound is returned when the requested monitor does not exist.
var ErrMonitorNotFound = errors.New("monitor not found")

// Monitor represents a physical display
type Monitor struct {
	ID     int
	Name   string
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds returns the monitor rectangle.
func (m Monitor) Bounds() cursor.Bounds {
	return cursor.Bounds{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
}

// Select picks a monitor by name, or by index when name is empty. A negative
// index with no name selects the first monitor.
func Select(monitors []Monitor, name string, index int) (Monitor, error) {
	if len(monitors) == 0 {
		return Monitor{}, ErrMonitorNotFound
	}

	if name != "" {
		for _, m := range monitors {
			if m.Name == name {
				return m, nil
			}
		}
		return Monitor{}, fmt.Errorf("%w: %q", ErrMonitorNotFound, name)
	}

	if index < 0 {
		return monitors[0], nil
	}
	if index >= len(monitors) {
		return Monitor{}, fmt.Errorf("%w: index %d of %d", ErrMonitorNotFound, index, len(monitors))
	}
	return monitors[index], nil
}

// Detect returns the bounds of the selected monitor. When monitors cannot be
// enumerated it falls back to the primary screen size reported by robotgo.
// A named or indexed monitor that does not exist is an error.
func Detect(name string, index int) (cursor.Bounds, error) {
	monitors, err := listMonitors()
	if err != nil || len(monitors) == 0 {
		w, h := robotgo.GetScreenSize()
		if w <= 0 || h <= 0 {
			return cursor.Bounds{}, fmt.Errorf("no usable screen size (%dx%d)", w, h)
		}
		return cursor.Bounds{Width: w, Height: h}, nil
	}

	m, err := Select(monitors, name, index)
	if err != nil {
		return cursor.Bounds{}, err
	}
	return m.Bounds(), nil
}

// Monitors lists the active monitors, or nil when enumeration is unsupported.
func Monitors() ([]Monitor, error) {
	return listMonitors()
}
