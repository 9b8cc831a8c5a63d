package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ayusman/airmouse/internal/gesture"
	"github.com/ayusman/airmouse/internal/plugin"
)

// ErrUnknownAction is returned for a binding whose key is not a known action name.
var ErrUnknownAction = errors.New("unknown action")

// PluginResolver finds the plugin for a binding.
type PluginResolver interface {
	Resolve(b plugin.Binding) (*plugin.Plugin, error)
}

// PluginRunner executes a plugin request.
type PluginRunner interface {
	Execute(ctx context.Context, p *plugin.Plugin, req *plugin.Request) (*plugin.Response, error)
}

type route struct {
	plugin *plugin.Plugin
	action string
}

// Router sends each gesture to the plugin bound to its action, falling back
// to the controller for unbound actions.
type Router struct {
	ctrl         Controller
	runner       PluginRunner
	routes       map[string]route
	scrollAmount int
	logger       *slog.Logger
}

// NewRouter resolves bindings (action name to "plugin" or "plugin:action").
// An unknown action name or a malformed binding is an error. A binding whose
// plugin is missing or lacks the action is logged and left to the controller.
func NewRouter(ctrl Controller, bindings map[string]string, resolver PluginResolver, runner PluginRunner, scrollAmount int, logger *slog.Logger) (*Router, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if scrollAmount <= 0 {
		scrollAmount = DefaultScrollAmount
	}

	r := &Router{
		ctrl:         ctrl,
		runner:       runner,
		routes:       make(map[string]route),
		scrollAmount: scrollAmount,
		logger:       logger.With("component", "action"),
	}

	for name, value := range bindings {
		if !slices.Contains(Actions, name) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
		}

		b, err := plugin.ParseBinding(name, value)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", name, err)
		}

		if resolver == nil || runner == nil {
			r.logger.Warn("plugins unavailable, using built-in action", "action", name)
			continue
		}

		p, err := resolver.Resolve(b)
		if err != nil {
			r.logger.Warn("plugin binding unavailable, using built-in action", "action", name, "binding", b.String(), "error", err)
			continue
		}

		r.routes[name] = route{plugin: p, action: b.Action}
		r.logger.Info("bound action to plugin", "action", name, "binding", b.String())
	}

	return r, nil
}

// Bound reports whether action is routed to a plugin.
func (r *Router) Bound(action string) bool {
	_, ok := r.routes[action]
	return ok
}

// MoveCursor always goes to the controller.
func (r *Router) MoveCursor(x, y int) error {
	return r.ctrl.MoveCursor(x, y)
}

// Handle performs ev through its bound plugin or the controller.
func (r *Router) Handle(ctx context.Context, ev gesture.Event) error {
	name, ok := ActionFor(ev)
	if !ok {
		return fmt.Errorf("no action for gesture %s (direction %d)", ev.Kind, ev.Direction)
	}

	rt, bound := r.routes[name]
	if !bound {
		return Dispatch(ctx, r.ctrl, ev, r.scrollAmount)
	}

	req, err := pluginRequest(rt.action, ev, r.scrollAmount)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", rt.plugin.Manifest.Name, err)
	}

	resp, err := r.runner.Execute(ctx, rt.plugin, req)
	if err != nil {
		return fmt.Errorf("plugin %s: %w", rt.plugin.Manifest.Name, err)
	}
	if !resp.Success {
		return fmt.Errorf("plugin %s: %s", rt.plugin.Manifest.Name, resp.Error)
	}

	r.logger.Debug("plugin handled action", "action", name, "plugin", rt.plugin.Manifest.Name, "event", ev.ID)
	return nil
}

// scrollParams is the params payload of a scroll request.
type scrollParams struct {
	Amount int `json:"amount"`
}

// pluginRequest builds the stdin request for ev. Scroll requests carry the
// signed scroll amount.
func pluginRequest(action string, ev gesture.Event, scrollAmount int) (*plugin.Request, error) {
	req := &plugin.Request{
		Action:  action,
		Gesture: string(ev.Kind),
		EventID: ev.ID.String(),
	}
	if ev.Kind != gesture.KindScroll {
		return req, nil
	}

	params, err := json.Marshal(scrollParams{Amount: ev.Direction * scrollAmount})
	if err != nil {
		return nil, fmt.Errorf("encode scroll params: %w", err)
	}
	req.Params = params
	return req, nil
}
