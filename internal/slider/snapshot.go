package slider

import "errors"

// HandleState is a read-only view of one handle.
type HandleState struct {
	ID       HandleID
	Key      string
	Value    float64
	Min      float64
	Max      float64
	Position float64
	Offset   float64
	Disabled bool
	Dragging bool
	Movable  bool
}

// RangeState is a read-only view of one range.
type RangeState struct {
	ID        RangeID
	Key       string
	Start     float64
	Stop      float64
	SpanStart float64
	SpanWidth float64
}

// State is a read-only view of a whole bar.
type State struct {
	Min      float64
	Max      float64
	Disabled bool
	Drag     DragState
	Handles  []HandleState
	Ranges   []RangeState
}

// Snapshot captures the current state of the bar. Geometry errors from the
// surface are returned alongside the partial snapshot.
func (b *Bar) Snapshot() (State, error) {
	st := State{
		Min:      b.min,
		Max:      b.max,
		Disabled: b.disabled,
		Drag:     b.drag.state,
		Handles:  make([]HandleState, 0, len(b.handles)),
		Ranges:   make([]RangeState, 0, len(b.ranges)),
	}

	var errs []error
	for i := range b.handles {
		id := HandleID(i)
		h := &b.handles[i]
		off, err := b.Offset(id)
		errs = append(errs, err)
		st.Handles = append(st.Handles, HandleState{
			ID:       id,
			Key:      h.key,
			Value:    h.value,
			Min:      b.EffectiveMin(id),
			Max:      b.EffectiveMax(id),
			Position: b.Position(id),
			Offset:   off,
			Disabled: h.disabled,
			Dragging: h.dragging,
			Movable:  b.CanBeMoved(id),
		})
	}

	for i := range b.ranges {
		rid := RangeID(i)
		start, stop := b.RangeValues(rid)
		spanStart, spanWidth, err := b.RangeSpan(rid)
		errs = append(errs, err)
		st.Ranges = append(st.Ranges, RangeState{
			ID:        rid,
			Key:       b.ranges[i].key,
			Start:     start,
			Stop:      stop,
			SpanStart: spanStart,
			SpanWidth: spanWidth,
		})
	}

	return st, errors.Join(errs...)
}
