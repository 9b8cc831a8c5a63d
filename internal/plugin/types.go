// Package plugin discovers external action plugins and runs them with a
// JSON request on stdin.
package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ManifestFile is the manifest name looked up in each plugin directory.
const ManifestFile = "plugin.json"

// ErrInvalidBinding is returned when a binding string cannot be parsed.
var ErrInvalidBinding = errors.New("invalid plugin binding")

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Request is written to the plugin's stdin as a single JSON document.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	EventID string          `json:"event_id,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is read from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Supports reports whether the manifest lists action.
func (p *Plugin) Supports(action string) bool {
	return slices.Contains(p.Manifest.Actions, action)
}

// Binding routes a gesture action to one action of one plugin.
type Binding struct {
	Plugin string
	Action string
}

// ParseBinding parses "plugin" or "plugin:action". When the action part is
// omitted the gesture action name is used.
func ParseBinding(gestureAction, value string) (Binding, error) {
	name, action, found := strings.Cut(strings.TrimSpace(value), ":")
	if name == "" || (found && action == "") {
		return Binding{}, fmt.Errorf("%w: %q", ErrInvalidBinding, value)
	}
	if !found {
		action = gestureAction
	}
	return Binding{Plugin: name, Action: action}, nil
}

// String returns the binding in "plugin:action" form.
func (b Binding) String() string {
	return b.Plugin + ":" + b.Action
}
