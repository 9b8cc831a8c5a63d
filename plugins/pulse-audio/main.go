// Package main provides a PulseAudio plugin that drives volume and
// microphone mute through pactl.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// defaultStep is the volume change in percent when the request carries none.
const defaultStep = 5

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	EventID string          `json:"event_id,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// params are the optional request parameters.
type params struct {
	Step int `json:"step"`
}

// runner executes one pactl invocation.
type runner func(args ...string) error

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(Response{Error: fmt.Sprintf("failed to decode request: %v", err)})
		return
	}

	writeResponse(handle(req, pactl))
}

// handle maps the request action to pactl arguments and runs them.
func handle(req Request, run runner) Response {
	args, err := pactlArgs(req)
	if err != nil {
		return Response{Error: err.Error()}
	}

	if err := run(args...); err != nil {
		return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}

	return Response{Success: true}
}

func pactlArgs(req Request) ([]string, error) {
	var p params
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %v", err)
		}
	}
	if p.Step <= 0 {
		p.Step = defaultStep
	}

	switch req.Action {
	case "volume-up":
		return []string{"set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("+%d%%", p.Step)}, nil
	case "volume-down":
		return []string{"set-sink-volume", "@DEFAULT_SINK@", fmt.Sprintf("-%d%%", p.Step)}, nil
	case "volume-mute":
		return []string{"set-sink-mute", "@DEFAULT_SINK@", "toggle"}, nil
	case "mic-toggle":
		return []string{"set-source-mute", "@DEFAULT_SOURCE@", "toggle"}, nil
	}
	return nil, fmt.Errorf("unknown action: %s", req.Action)
}

// pactl runs the PulseAudio control utility.
func pactl(args ...string) error {
	out, err := exec.Command("pactl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(out))
	}
	return nil
}

func writeResponse(resp Response) {
	json.NewEncoder(os.Stdout).Encode(resp)
}
