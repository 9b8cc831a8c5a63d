// Package detector turns camera frames into 21-point hand landmark sets.
package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector finds hands in a frame.
type Detector interface {
	// Detect returns every hand found in frame, in frame pixel coordinates.
	// No hands is an empty result, not an error.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	Close() error
}

// Config tunes the MediaPipe service.
type Config struct {
	// ScriptPath is mediapipe_service.py; empty searches the usual locations.
	ScriptPath string
	// PythonPath is the interpreter; empty prefers a venv, then python3.
	PythonPath string

	MaxHands        int
	MinConfidence   float64 // detection, 0-1
	MinTrackingConf float64 // tracking, 0-1

	// IdleShutdown stops the service after this long without a frame.
	// Zero keeps it running.
	IdleShutdown time.Duration
}

// DefaultConfig tracks one hand at 0.5 confidence.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		IdleShutdown:    30 * time.Second,
	}
}
