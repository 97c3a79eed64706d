package slider

import (
	"fmt"
	"math"
)

// HandleID addresses a handle inside its Bar.
type HandleID int

const noHandle HandleID = -1

type handleEntry struct {
	key       string
	value     float64
	min       float64
	max       float64
	step      float64
	disabled  bool
	element   Element
	observer  Observer
	transform func(float64) float64

	// Drag state. position is the live track fraction and is only
	// meaningful while dragging is set.
	dragging bool
	position float64
}

func newHandleEntry(hc HandleConfig) handleEntry {
	return handleEntry{
		key:       hc.Key,
		value:     hc.Value,
		min:       optionalBound(hc.Min, math.Inf(-1)),
		max:       optionalBound(hc.Max, math.Inf(1)),
		step:      hc.Step,
		disabled:  hc.Disabled,
		element:   hc.Element,
		observer:  observerOrNop(hc.Observer),
		transform: hc.Transform,
	}
}

func (b *Bar) lookup(id HandleID) *handleEntry {
	if id < 0 || int(id) >= len(b.handles) {
		return nil
	}
	return &b.handles[id]
}

// Value returns the value of id, or 0 for an unknown handle.
func (b *Bar) Value(id HandleID) float64 {
	if h := b.lookup(id); h != nil {
		return h.value
	}
	return 0
}

// SetValue writes v to id. The value is transformed, aligned to the step and
// clamped to the handle's effective bounds; other handles may move to keep
// their ranges ordered. Observers see the settled result only.
func (b *Bar) SetValue(id HandleID, v float64) error {
	if b.lookup(id) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, id)
	}

	b.enterBatch()
	b.writeValue(id, v)
	_, err := b.leaveBatch()
	return err
}

// writeValue is the setter body shared by external writes and range
// verification. It must run inside a batch.
func (b *Bar) writeValue(id HandleID, v float64) {
	h := &b.handles[id]

	if h.transform != nil {
		v = h.transform(v)
	}

	step := b.stepFor(h)
	v = StepAligned(v, step, AlignNearest)
	lower := StepAligned(b.EffectiveMin(id), step, AlignCeil)
	upper := StepAligned(b.EffectiveMax(id), step, AlignFloor)
	v = clamp(lower, v, upper)

	if v == h.value {
		return
	}

	b.touch(id, h.value)
	h.value = v
	h.observer.OnVerify(b.handleEvent(id))

	if b.batch.writes >= maxWriteDepth {
		b.log.Warn().Int("handle", int(id)).Str("key", h.key).Float64("value", v).
			Msg("verification depth exceeded, constraints may be unsettled")
		return
	}

	b.batch.writes++
	b.verifyHandle(id)
	b.batch.writes--
}

func (b *Bar) stepFor(h *handleEntry) float64 {
	if h.step > 0 {
		return h.step
	}
	return b.step
}

// HandleStep returns the alignment step in effect for id.
func (b *Bar) HandleStep(id HandleID) float64 {
	if h := b.lookup(id); h != nil {
		return b.stepFor(h)
	}
	return 0
}

// EffectiveMin intersects the handle's own minimum with the bar and range
// constraints.
func (b *Bar) EffectiveMin(id HandleID) float64 {
	h := b.lookup(id)
	if h == nil {
		return b.min
	}
	return math.Max(h.min, b.HandleMin(id))
}

// EffectiveMax intersects the handle's own maximum with the bar and range
// constraints.
func (b *Bar) EffectiveMax(id HandleID) float64 {
	h := b.lookup(id)
	if h == nil {
		return b.max
	}
	return math.Min(h.max, b.HandleMax(id))
}

// CanBeMoved reports whether id is enabled and has room in at least one
// direction.
func (b *Bar) CanBeMoved(id HandleID) bool {
	h := b.lookup(id)
	if h == nil || h.disabled {
		return false
	}
	return b.EffectiveMin(id) < h.value || h.value < b.EffectiveMax(id)
}

// Position returns the track fraction of id: the live drag position while
// dragging, the position of its value otherwise.
func (b *Bar) Position(id HandleID) float64 {
	h := b.lookup(id)
	if h == nil {
		return 0
	}
	if h.dragging {
		return h.position
	}
	return b.ValueToPosition(h.value)
}

// Offset returns the distance of id from the start of the track.
func (b *Bar) Offset(id HandleID) (float64, error) {
	size, err := b.Size()
	if err != nil {
		return 0, err
	}
	return b.Position(id) * size, nil
}

func (b *Bar) minPosition(id HandleID) float64 {
	return b.ValueToPosition(b.EffectiveMin(id))
}

func (b *Bar) maxPosition(id HandleID) float64 {
	return b.ValueToPosition(b.EffectiveMax(id))
}

// SetPosition moves id to track fraction p, bounded by its effective range,
// and writes the matching value.
func (b *Bar) SetPosition(id HandleID, p float64) error {
	h := b.lookup(id)
	if h == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, id)
	}

	p = clamp(b.minPosition(id), p, b.maxPosition(id))
	if h.dragging {
		h.position = p
	}

	b.enterBatch()
	b.writeValue(id, b.PositionToValue(p))
	changed, err := b.leaveBatch()
	if err != nil {
		return err
	}

	for _, c := range changed {
		if c == id {
			return nil
		}
	}
	// The value did not change but the live position may have.
	return b.onHandleMove(id)
}

// CanGetCloserToPosition reports whether moving id toward p would change its
// position at all.
func (b *Bar) CanGetCloserToPosition(id HandleID, p float64) bool {
	if b.lookup(id) == nil {
		return false
	}
	return clamp(b.minPosition(id), p, b.maxPosition(id)) != b.Position(id)
}

// Sync re-applies the current value of id so it is clamped against the
// present bounds.
func (b *Bar) Sync(id HandleID) error {
	if b.lookup(id) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, id)
	}

	b.enterBatch()
	b.syncHandle(id)
	_, err := b.leaveBatch()
	return err
}

func (b *Bar) syncHandle(id HandleID) {
	b.writeValue(id, b.handles[id].value)
}

// IsDragging reports whether id is the target of the active drag.
func (b *Bar) IsDragging(id HandleID) bool {
	h := b.lookup(id)
	return h != nil && h.dragging
}

// HandleDisabled reports whether input is blocked for id.
func (b *Bar) HandleDisabled(id HandleID) bool {
	h := b.lookup(id)
	return h != nil && h.disabled
}

// SetHandleDisabled blocks or unblocks drag and keyboard input for id. The
// value stays writable through SetValue.
func (b *Bar) SetHandleDisabled(id HandleID, disabled bool) error {
	h := b.lookup(id)
	if h == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, id)
	}
	h.disabled = disabled
	return nil
}

// HandleKey returns the configured key of id.
func (b *Bar) HandleKey(id HandleID) string {
	if h := b.lookup(id); h != nil {
		return h.key
	}
	return ""
}

// HandleElement returns the element drawing id.
func (b *Bar) HandleElement(id HandleID) Element {
	if h := b.lookup(id); h != nil {
		return h.element
	}
	return ""
}

func (b *Bar) handleEvent(id HandleID) Event {
	h := &b.handles[id]
	return Event{
		Source: SourceHandle,
		Index:  int(id),
		Key:    h.key,
		Value:  h.value,
	}
}

func (b *Bar) syncHandleView(id HandleID) error {
	el := b.handles[id].element
	if b.surface == nil || el == "" {
		return nil
	}

	off, err := b.Offset(id)
	if err != nil {
		return err
	}
	if err := b.surface.ApplyPosition(el, off); err != nil {
		return fmt.Errorf("position handle %d: %w", id, err)
	}
	return nil
}
