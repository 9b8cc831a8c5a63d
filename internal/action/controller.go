// Package action turns recognized gestures into operating system input.
package action

import (
	"context"
	"fmt"

	"github.com/ayusman/airmouse/internal/gesture"
)

// DefaultScrollAmount is the number of scroll units per scroll gesture.
const DefaultScrollAmount = 10

// Action names used for plugin bindings and logging.
const (
	ActionClick      = "click"
	ActionRightClick = "right-click"
	ActionScrollUp   = "scroll-up"
	ActionScrollDown = "scroll-down"
	ActionVolumeUp   = "volume-up"
	ActionVolumeDown = "volume-down"
	ActionScreenshot = "screenshot"
	ActionNextTab    = "next-tab"
	ActionPrevTab    = "prev-tab"
	ActionMicToggle  = "mic-toggle"
)

// Actions lists every bindable action name.
var Actions = []string{
	ActionClick, ActionRightClick, ActionScrollUp, ActionScrollDown,
	ActionVolumeUp, ActionVolumeDown, ActionScreenshot,
	ActionNextTab, ActionPrevTab, ActionMicToggle,
}

// Controller performs the discrete OS operations a gesture can trigger.
// Calls are best-effort; callers log errors and carry on.
type Controller interface {
	MoveCursor(x, y int) error
	Click() error
	RightClick() error
	Scroll(amount int) error
	VolumeUp() error
	VolumeDown() error
	Screenshot() error
	NextTab() error
	PrevTab() error
	ToggleMic() error
}

// ActionFor returns the action name for ev. ok is false for an unknown kind
// or a directional event without a direction.
func ActionFor(ev gesture.Event) (name string, ok bool) {
	switch ev.Kind {
	case gesture.KindClick:
		return ActionClick, true
	case gesture.KindRightClick:
		return ActionRightClick, true
	case gesture.KindScreenshot:
		return ActionScreenshot, true
	case gesture.KindMicToggle:
		return ActionMicToggle, true
	case gesture.KindScroll:
		return pick(ev.Direction, ActionScrollUp, ActionScrollDown)
	case gesture.KindVolume:
		return pick(ev.Direction, ActionVolumeUp, ActionVolumeDown)
	case gesture.KindTabSwitch:
		return pick(ev.Direction, ActionNextTab, ActionPrevTab)
	}
	return "", false
}

func pick(dir int, pos, neg string) (string, bool) {
	switch {
	case dir > 0:
		return pos, true
	case dir < 0:
		return neg, true
	}
	return "", false
}

// Dispatch performs the controller call for ev. Scroll events move
// scrollAmount units in the event's direction.
func Dispatch(ctx context.Context, ctrl Controller, ev gesture.Event, scrollAmount int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := ActionFor(ev)
	if !ok {
		return fmt.Errorf("no action for gesture %s (direction %d)", ev.Kind, ev.Direction)
	}

	switch name {
	case ActionClick:
		return ctrl.Click()
	case ActionRightClick:
		return ctrl.RightClick()
	case ActionScrollUp:
		return ctrl.Scroll(scrollAmount)
	case ActionScrollDown:
		return ctrl.Scroll(-scrollAmount)
	case ActionVolumeUp:
		return ctrl.VolumeUp()
	case ActionVolumeDown:
		return ctrl.VolumeDown()
	case ActionScreenshot:
		return ctrl.Screenshot()
	case ActionNextTab:
		return ctrl.NextTab()
	case ActionPrevTab:
		return ctrl.PrevTab()
	default:
		return ctrl.ToggleMic()
	}
}
