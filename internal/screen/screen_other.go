//go:build !linux

package screen

import "github.com/go-vgo/robotgo"

// listMonitors reports the primary display only.
func listMonitors() ([]Monitor, error) {
	w, h := robotgo.GetScreenSize()
	return []Monitor{{ID: 0, Name: "primary", Width: w, Height: h}}, nil
}
