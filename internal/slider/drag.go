package slider

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// DragState is the state of the gesture state machine.
type DragState int

const (
	// DragIdle means no gesture is in progress.
	DragIdle DragState = iota
	// DragArmed means a gesture started and a handle is being selected.
	DragArmed
	// DragDragging means a handle follows the pointer and global listeners
	// are attached.
	DragDragging
)

// String returns a string representation of the state.
func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragArmed:
		return "armed"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// dragSession tracks the single active gesture.
type dragSession struct {
	state DragState

	// handle is the dragged handle.
	handle HandleID

	// onElement is set when the gesture started on the handle itself.
	onElement bool

	// moveOffset is the distance between the pointer and the handle at
	// gesture start, kept constant for the whole drag.
	moveOffset float64
}

// DragState returns the gesture state.
func (b *Bar) DragState() DragState {
	return b.drag.state
}

// DraggingHandle returns the handle being dragged.
func (b *Bar) DraggingHandle() (HandleID, bool) {
	if b.drag.state != DragDragging {
		return noHandle, false
	}
	return b.drag.handle, true
}

// OnGestureStart starts a gesture at p. target is the element under the
// pointer as reported by the surface, or "".
//
// A handle under the pointer that can move wins. Otherwise the nearest
// movable handle that would actually get closer to p is chosen; it jumps to
// the pointer. Gestures that match no handle are dropped.
func (b *Bar) OnGestureStart(p Point, target Element) error {
	// Only one gesture at a time; a new press replaces the old one.
	if b.drag.state == DragDragging {
		if err := b.endDrag(); err != nil {
			return err
		}
	}

	if b.disabled {
		b.log.Debug().Msg("gesture ignored, bar disabled")
		return nil
	}
	if b.surface == nil {
		return ErrNoSurface
	}

	b.drag.state = DragArmed

	startOffset, err := b.eventOffset(p)
	if err != nil {
		b.drag.state = DragIdle
		return err
	}

	id, onElement, err := b.pickHandle(p, target, startOffset)
	if err != nil {
		b.drag.state = DragIdle
		return err
	}
	if id == noHandle {
		b.drag.state = DragIdle
		b.log.Debug().Float64("offset", startOffset).Msg("gesture dropped, no movable handle")
		return nil
	}

	var moveOffset float64
	if onElement {
		off, err := b.Offset(id)
		if err != nil {
			b.drag.state = DragIdle
			return err
		}
		moveOffset = startOffset - off
	}

	if err := b.attachListeners(); err != nil {
		b.drag.state = DragIdle
		return err
	}

	h := &b.handles[id]
	h.position = b.ValueToPosition(h.value)
	h.dragging = true
	b.drag = dragSession{
		state:      DragDragging,
		handle:     id,
		onElement:  onElement,
		moveOffset: moveOffset,
	}

	b.log.Debug().Int("handle", int(id)).Str("key", h.key).Bool("on_element", onElement).
		Float64("move_offset", moveOffset).Msg("drag started")

	var errs []error
	if h.element != "" {
		errs = append(errs, b.surface.Focus(h.element))
	}
	h.observer.OnStartMove(b.handleEvent(id))
	for _, rid := range b.rangesWithHandle(id) {
		b.ranges[rid].observer.OnStartMove(b.rangeEvent(rid))
	}

	if !onElement {
		errs = append(errs, b.OnGestureMove(p))
	}
	return errors.Join(errs...)
}

// OnGestureMove moves the dragged handle to follow p. If the bar or the
// handle became disabled the drag ends instead.
func (b *Bar) OnGestureMove(p Point) error {
	if b.drag.state != DragDragging {
		return nil
	}

	id := b.drag.handle
	if b.disabled || b.handles[id].disabled {
		return b.OnGestureEnd(p)
	}

	off, err := b.eventOffset(p)
	if err != nil {
		return err
	}
	size, err := b.Size()
	if err != nil {
		return err
	}
	if size == 0 {
		return nil
	}

	return b.SetPosition(id, (off-b.drag.moveOffset)/size)
}

// OnGestureEnd finishes the active drag.
func (b *Bar) OnGestureEnd(_ Point) error {
	if b.drag.state != DragDragging {
		return nil
	}
	return b.endDrag()
}

// endDrag releases the dragged handle so its position resolves back to its
// value, and detaches the global listeners.
func (b *Bar) endDrag() error {
	id := b.drag.handle
	b.drag = dragSession{handle: noHandle}

	var errs []error
	if b.surface != nil {
		errs = append(errs,
			b.surface.DetachGlobal(ListenMove),
			b.surface.DetachGlobal(ListenEnd),
		)
	}

	h := b.lookup(id)
	if h == nil {
		return errors.Join(errs...)
	}
	h.dragging = false

	b.log.Debug().Int("handle", int(id)).Str("key", h.key).Float64("value", h.value).Msg("drag ended")

	h.observer.OnEndMove(b.handleEvent(id))
	for _, rid := range b.rangesWithHandle(id) {
		b.ranges[rid].observer.OnEndMove(b.rangeEvent(rid))
	}

	errs = append(errs, b.onHandleMove(id))
	return errors.Join(errs...)
}

func (b *Bar) attachListeners() error {
	if err := b.surface.AttachGlobal(ListenMove, b.OnGestureMove); err != nil {
		return fmt.Errorf("attach move listener: %w", err)
	}
	if err := b.surface.AttachGlobal(ListenEnd, b.OnGestureEnd); err != nil {
		_ = b.surface.DetachGlobal(ListenMove)
		return fmt.Errorf("attach end listener: %w", err)
	}
	return nil
}

// eventOffset converts a surface point to a distance along the track.
func (b *Bar) eventOffset(p Point) (float64, error) {
	if b.element == "" {
		return 0, nil
	}

	origin, err := b.surface.Offset(b.element)
	if err != nil {
		return 0, fmt.Errorf("track offset: %w", err)
	}

	if b.vertical {
		sz, err := b.surface.BoundingSize(b.element)
		if err != nil {
			return 0, fmt.Errorf("track size: %w", err)
		}
		return origin.Y + sz.Height - p.Y, nil
	}
	return p.X - origin.X, nil
}

// touchedHandles returns the handles whose element is target or contains p,
// in handle order.
func (b *Bar) touchedHandles(p Point, target Element) ([]HandleID, error) {
	var touched []HandleID
	for i := range b.handles {
		el := b.handles[i].element
		if el == "" {
			continue
		}
		if el == target {
			touched = append(touched, HandleID(i))
			continue
		}

		origin, err := b.surface.Offset(el)
		if err != nil {
			return nil, fmt.Errorf("handle %d offset: %w", i, err)
		}
		sz, err := b.surface.BoundingSize(el)
		if err != nil {
			return nil, fmt.Errorf("handle %d size: %w", i, err)
		}
		box := Rect{X: origin.X, Y: origin.Y, Width: sz.Width, Height: sz.Height}
		if box.Contains(p) {
			touched = append(touched, HandleID(i))
		}
	}
	return touched, nil
}

// pickHandle hit-tests a gesture. It returns noHandle when nothing matches.
func (b *Bar) pickHandle(p Point, target Element, startOffset float64) (HandleID, bool, error) {
	touched, err := b.touchedHandles(p, target)
	if err != nil {
		return noHandle, false, err
	}

	for _, id := range touched {
		if b.CanBeMoved(id) {
			return id, true, nil
		}
	}

	size, err := b.Size()
	if err != nil {
		return noHandle, false, err
	}
	if size == 0 {
		return noHandle, false, nil
	}
	startPosition := startOffset / size

	nearest := noHandle
	var nearestDist float64
	for i := range b.handles {
		id := HandleID(i)
		if slices.Contains(touched, id) || !b.CanBeMoved(id) || !b.CanGetCloserToPosition(id, startPosition) {
			continue
		}

		dist := math.Abs(startOffset - b.Position(id)*size)
		// Strict comparison keeps the first handle on ties.
		if nearest == noHandle || dist < nearestDist {
			nearest, nearestDist = id, dist
		}
	}

	return nearest, false, nil
}
