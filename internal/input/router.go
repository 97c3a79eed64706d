// Package input translates terminal events into bar operations.
//
// Mouse presses start gestures on the bar, motion with the primary button
// held and the release are forwarded through the surface's global
// listeners, the same way a drag outside the track would be delivered.
// Keys step the focused handle, move focus between handles and toggle the
// bar.
package input

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/rangebar/internal/slider"
)

// Action tells the caller what to do after an event was handled.
type Action int

const (
	// ActionNone means nothing visible changed.
	ActionNone Action = iota
	// ActionRedraw asks for the bar to be drawn again.
	ActionRedraw
	// ActionResize asks for a new layout before drawing.
	ActionResize
	// ActionSync asks for a full repaint.
	ActionSync
	// ActionQuit asks the application to exit.
	ActionQuit
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRedraw:
		return "redraw"
	case ActionResize:
		return "resize"
	case ActionSync:
		return "sync"
	case ActionQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// Target is the surface side the router needs: hit-testing, forwarding to
// global listeners and keyboard focus.
type Target interface {
	ElementAt(p slider.Point) slider.Element
	Emit(kind slider.ListenerKind, p slider.Point) error
	Focused() slider.Element
	Focus(el slider.Element) error
}

// Router dispatches tcell events to a bar.
type Router struct {
	bar    *slider.Bar
	target Target
	drag   dragTracker
	log    zerolog.Logger
}

// NewRouter creates a router for bar drawn on target.
func NewRouter(bar *slider.Bar, target Target, log zerolog.Logger) *Router {
	return &Router{bar: bar, target: target, log: log}
}

// SetBar replaces the bar, dropping any press in progress.
func (r *Router) SetBar(bar *slider.Bar) {
	r.bar = bar
	r.drag.end()
}

// Pressed reports whether the primary button is held.
func (r *Router) Pressed() bool {
	return r.drag.active
}

// Handle processes ev.
func (r *Router) Handle(ev tcell.Event) (Action, error) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return ActionResize, nil
	case *tcell.EventMouse:
		return r.handleMouse(ev)
	case *tcell.EventKey:
		return r.handleKey(ev)
	default:
		return ActionNone, nil
	}
}

func (r *Router) handleMouse(ev *tcell.EventMouse) (Action, error) {
	x, y := ev.Position()
	p := slider.Point{X: float64(x), Y: float64(y)}
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.WheelUp != 0:
		return r.stepFocused(slider.StepIncrease)
	case buttons&tcell.WheelDown != 0:
		return r.stepFocused(slider.StepDecrease)
	}

	held := buttons&tcell.Button1 != 0
	switch {
	case held && !r.drag.active:
		return r.handlePress(p)
	case held:
		return r.handleDrag(p)
	case r.drag.active:
		return r.handleRelease(p)
	default:
		return ActionNone, nil
	}
}

func (r *Router) handlePress(p slider.Point) (Action, error) {
	r.drag.start(p)
	target := r.target.ElementAt(p)
	r.log.Debug().Float64("x", p.X).Float64("y", p.Y).Str("target", string(target)).Msg("press")

	// Presses off the bar are tracked so the release pairs up, but the bar
	// never sees them.
	if target == "" {
		return ActionNone, nil
	}
	if err := r.bar.OnGestureStart(p, target); err != nil {
		return ActionRedraw, err
	}
	return ActionRedraw, nil
}

func (r *Router) handleDrag(p slider.Point) (Action, error) {
	if !r.drag.update(p) {
		return ActionNone, nil
	}
	if err := r.target.Emit(slider.ListenMove, p); err != nil {
		return ActionRedraw, err
	}
	return ActionRedraw, nil
}

func (r *Router) handleRelease(p slider.Point) (Action, error) {
	r.drag.end()
	r.log.Debug().Float64("x", p.X).Float64("y", p.Y).Msg("release")

	if err := r.target.Emit(slider.ListenEnd, p); err != nil {
		return ActionRedraw, err
	}
	return ActionRedraw, nil
}

func (r *Router) handleKey(ev *tcell.EventKey) (Action, error) {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return ActionQuit, nil
	case tcell.KeyCtrlL:
		return ActionSync, nil
	case tcell.KeyRight, tcell.KeyUp:
		return r.stepFocused(slider.StepIncrease)
	case tcell.KeyLeft, tcell.KeyDown:
		return r.stepFocused(slider.StepDecrease)
	case tcell.KeyHome:
		return r.setFocused(r.bar.Min())
	case tcell.KeyEnd:
		return r.setFocused(r.bar.Max())
	case tcell.KeyTab:
		return r.cycleFocus(1)
	case tcell.KeyBacktab:
		return r.cycleFocus(-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return ActionQuit, nil
		case 'd':
			r.bar.SetDisabled(!r.bar.Disabled())
			r.log.Debug().Bool("disabled", r.bar.Disabled()).Msg("bar toggled")
			return ActionRedraw, nil
		case 'l', 'k':
			return r.stepFocused(slider.StepIncrease)
		case 'h', 'j':
			return r.stepFocused(slider.StepDecrease)
		}
	}
	return ActionNone, nil
}

// focusedHandle returns the handle whose element holds focus.
func (r *Router) focusedHandle() (slider.HandleID, bool) {
	el := r.target.Focused()
	if el == "" {
		return 0, false
	}
	return r.bar.HandleByElement(el)
}

func (r *Router) stepFocused(dir slider.StepDirection) (Action, error) {
	id, ok := r.focusedHandle()
	if !ok {
		return ActionNone, nil
	}
	if err := r.bar.OnKeyStep(dir, id); err != nil {
		return ActionRedraw, err
	}
	return ActionRedraw, nil
}

// setFocused writes v to the focused handle if keyboard input may move it.
func (r *Router) setFocused(v float64) (Action, error) {
	id, ok := r.focusedHandle()
	if !ok || r.bar.Disabled() || r.bar.HandleDisabled(id) {
		return ActionNone, nil
	}
	if err := r.bar.SetValue(id, v); err != nil {
		return ActionRedraw, err
	}
	return ActionRedraw, nil
}

// cycleFocus moves focus delta handles forward, wrapping around. Handles
// without an element are skipped.
func (r *Router) cycleFocus(delta int) (Action, error) {
	n := r.bar.NumHandles()
	if n == 0 {
		return ActionNone, nil
	}

	cur, ok := r.focusedHandle()
	next := int(cur)
	if !ok {
		// Land on the first handle going forward, the last going back.
		next = -1
		if delta < 0 {
			next = n
		}
	}

	for i := 0; i < n; i++ {
		next = ((next+delta)%n + n) % n
		el := r.bar.HandleElement(slider.HandleID(next))
		if el == "" {
			continue
		}
		if err := r.target.Focus(el); err != nil {
			return ActionNone, err
		}
		return ActionRedraw, nil
	}
	return ActionNone, nil
}
