package slider

import (
	"fmt"
	"math"
)

// RangeID addresses a range inside its Bar.
type RangeID int

const noRange RangeID = -1

// boundary is one resolved side of a range.
type boundary struct {
	handle   HandleID
	fixed    float64
	hasFixed bool
}

type rangeEntry struct {
	key      string
	start    boundary
	stop     boundary
	min      float64
	max      float64
	pull     bool
	element  Element
	observer Observer

	// synchronizing suspends the stop bound on the start handle while the
	// range aligns both handles to their configured values.
	synchronizing bool
}

func (r *rangeEntry) containsHandle(id HandleID) bool {
	return id != noHandle && (r.start.handle == id || r.stop.handle == id)
}

// handleMin is the minimum the range imposes on id: the start handle's
// value for the stop handle, the range minimum otherwise.
func (r *rangeEntry) handleMin(b *Bar, id HandleID) float64 {
	m := r.min
	if !r.pull && id == r.stop.handle && r.start.handle != noHandle {
		m = math.Max(m, b.handles[r.start.handle].value)
	}
	return m
}

// handleMax is the maximum the range imposes on id: the stop handle's value
// for the start handle, the range maximum otherwise.
func (r *rangeEntry) handleMax(b *Bar, id HandleID) float64 {
	m := r.max
	if !r.synchronizing && id == r.start.handle && r.stop.handle != noHandle {
		m = math.Min(m, b.handles[r.stop.handle].value)
	}
	return m
}

func (b *Bar) lookupRange(id RangeID) *rangeEntry {
	if id < 0 || int(id) >= len(b.ranges) {
		return nil
	}
	return &b.ranges[id]
}

// RangeHandleMin returns the minimum range rid imposes on handle hid, or
// -Inf when the range leaves that side open.
func (b *Bar) RangeHandleMin(rid RangeID, hid HandleID) float64 {
	r := b.lookupRange(rid)
	if r == nil || b.lookup(hid) == nil {
		return math.Inf(-1)
	}
	return r.handleMin(b, hid)
}

// RangeHandleMax returns the maximum range rid imposes on handle hid, or
// +Inf when the range leaves that side open.
func (b *Bar) RangeHandleMax(rid RangeID, hid HandleID) float64 {
	r := b.lookupRange(rid)
	if r == nil || b.lookup(hid) == nil {
		return math.Inf(1)
	}
	return r.handleMax(b, hid)
}

// RangeContains reports whether hid is the start or stop handle of rid.
func (b *Bar) RangeContains(rid RangeID, hid HandleID) bool {
	r := b.lookupRange(rid)
	return r != nil && r.containsHandle(hid)
}

// RangeHandles returns the start and stop handles of rid. A side that is
// not bound to a handle reports false.
func (b *Bar) RangeHandles(rid RangeID) (start HandleID, hasStart bool, stop HandleID, hasStop bool) {
	r := b.lookupRange(rid)
	if r == nil {
		return noHandle, false, noHandle, false
	}
	return r.start.handle, r.start.handle != noHandle, r.stop.handle, r.stop.handle != noHandle
}

// RangeKey returns the configured key of rid.
func (b *Bar) RangeKey(rid RangeID) string {
	if r := b.lookupRange(rid); r != nil {
		return r.key
	}
	return ""
}

// RangeElement returns the element drawing rid.
func (b *Bar) RangeElement(rid RangeID) Element {
	if r := b.lookupRange(rid); r != nil {
		return r.element
	}
	return ""
}

// RangeValues returns the start and stop values of rid. A fixed side reports
// its value, an open side the bar bound.
func (b *Bar) RangeValues(rid RangeID) (start, stop float64) {
	r := b.lookupRange(rid)
	if r == nil {
		return b.min, b.max
	}
	return b.boundaryValue(r.start, b.min), b.boundaryValue(r.stop, b.max)
}

func (b *Bar) boundaryValue(bd boundary, open float64) float64 {
	switch {
	case bd.handle != noHandle:
		return b.handles[bd.handle].value
	case bd.hasFixed:
		return bd.fixed
	default:
		return open
	}
}

// RangeSpan returns the display offset and width of rid along the track.
func (b *Bar) RangeSpan(rid RangeID) (start, width float64, err error) {
	r := b.lookupRange(rid)
	if r == nil {
		return 0, 0, fmt.Errorf("%w: %d", ErrUnknownRange, rid)
	}

	size, err := b.Size()
	if err != nil {
		return 0, 0, err
	}

	start = b.boundaryOffset(r.start, 0, size)
	stop := b.boundaryOffset(r.stop, size, size)
	return start, math.Max(stop-start, 0), nil
}

func (b *Bar) boundaryOffset(bd boundary, open, size float64) float64 {
	switch {
	case bd.handle != noHandle:
		return b.Position(bd.handle) * size
	case bd.hasFixed:
		return b.ValueToPosition(bd.fixed) * size
	default:
		return open
	}
}

// SyncRange re-applies the values of both handles of rid with the start
// handle's stop bound suspended.
func (b *Bar) SyncRange(rid RangeID) error {
	if b.lookupRange(rid) == nil {
		return fmt.Errorf("%w: %d", ErrUnknownRange, rid)
	}

	b.enterBatch()
	b.syncRange(rid)
	_, err := b.leaveBatch()
	return err
}

func (b *Bar) syncRange(rid RangeID) {
	r := &b.ranges[rid]

	r.synchronizing = true
	if r.start.handle != noHandle {
		b.syncHandle(r.start.handle)
	}
	if r.stop.handle != noHandle {
		b.syncHandle(r.stop.handle)
	}
	r.synchronizing = false
}

// verifyRange re-assigns the other handle of rid to itself after id moved,
// so it re-clamps against the bound id now imposes.
func (b *Bar) verifyRange(rid RangeID, id HandleID) {
	r := &b.ranges[rid]
	r.observer.OnVerify(b.rangeEvent(rid))

	other := r.start.handle
	if id == r.start.handle {
		other = r.stop.handle
	}
	if other == noHandle || other == id {
		return
	}
	b.writeValue(other, b.handles[other].value)
}

func (b *Bar) rangeEvent(rid RangeID) Event {
	start, stop := b.RangeValues(rid)
	return Event{
		Source: SourceRange,
		Index:  int(rid),
		Key:    b.ranges[rid].key,
		Start:  start,
		Stop:   stop,
	}
}

func (b *Bar) syncRangeView(rid RangeID) error {
	el := b.ranges[rid].element
	if b.surface == nil || el == "" {
		return nil
	}

	start, width, err := b.RangeSpan(rid)
	if err != nil {
		return err
	}
	if err := b.surface.ApplySpan(el, start, width); err != nil {
		return fmt.Errorf("span range %d: %w", rid, err)
	}
	return nil
}
