package slider

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// maxWriteDepth bounds nested verification writes inside one settle batch.
// Well-formed constraints settle in a handful of levels; a transform that
// never reaches a fixed point would otherwise recurse forever.
const maxWriteDepth = 64

// Bar owns the domain, the handles and the ranges of one slider, and
// mediates every interaction between them.
type Bar struct {
	min         float64
	max         float64
	step        float64
	keydownStep float64
	disabled    bool
	vertical    bool
	element     Element

	surface Surface
	log     zerolog.Logger

	// Arenas
	handles    []handleEntry
	ranges     []rangeEntry
	handleKeys map[string]HandleID
	rangeKeys  map[string]RangeID

	// generation increments on every (re)configuration so notification
	// loops can detect an observer that rebuilt the bar under them.
	generation uint64

	batch settleBatch
	drag  dragSession
}

// Option configures a Bar.
type Option func(*Bar)

// WithSurface sets the surface used for geometry, visuals and listeners.
func WithSurface(s Surface) Option {
	return func(b *Bar) {
		b.surface = s
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bar) {
		b.log = l.With().Str("component", "slider").Logger()
	}
}

// New creates a bar from cfg.
func New(cfg Config, opts ...Option) (*Bar, error) {
	b := &Bar{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(b)
	}

	if err := b.Update(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// Update replaces the whole configuration. The bar is destroyed and rebuilt;
// no state carries over from the previous configuration.
func (b *Bar) Update(cfg Config) error {
	if !(cfg.Min < cfg.Max) {
		return fmt.Errorf("%w: min=%g max=%g", ErrEmptyDomain, cfg.Min, cfg.Max)
	}

	if err := b.Destroy(); err != nil {
		return err
	}

	b.configure(cfg)

	b.enterBatch()
	b.syncAll()
	if _, err := b.leaveBatch(); err != nil {
		return err
	}

	return b.UpdateView()
}

// Destroy cancels an active drag, detaches its listeners, collapses range
// visuals and drops every handle and range.
func (b *Bar) Destroy() error {
	var errs []error

	if b.drag.state == DragDragging {
		errs = append(errs, b.endDrag())
	}
	b.drag = dragSession{handle: noHandle}

	if b.surface != nil {
		for i := range b.ranges {
			if el := b.ranges[i].element; el != "" {
				errs = append(errs, b.surface.ApplySpan(el, 0, 0))
			}
		}
	}

	b.handles = nil
	b.ranges = nil
	b.handleKeys = nil
	b.rangeKeys = nil
	b.batch = settleBatch{}

	return errors.Join(errs...)
}

// configure builds the arenas from cfg. Values are stored as given; they
// are clamped by the sync pass that follows.
func (b *Bar) configure(cfg Config) {
	b.generation++

	b.min = cfg.Min
	b.max = cfg.Max
	b.step = cfg.Step
	b.keydownStep = cfg.KeydownStep
	if b.keydownStep == 0 {
		b.keydownStep = 1
	}
	b.disabled = cfg.Disabled
	b.vertical = cfg.Vertical
	b.element = cfg.Element

	b.handles = make([]handleEntry, len(cfg.Handles))
	b.handleKeys = make(map[string]HandleID, len(cfg.Handles))
	for i, hc := range cfg.Handles {
		b.handles[i] = newHandleEntry(hc)
		if hc.Key == "" {
			continue
		}
		if prev, dup := b.handleKeys[hc.Key]; dup {
			b.log.Warn().Str("key", hc.Key).Int("previous", int(prev)).Int("handle", i).
				Msg("duplicate handle key, later handle wins")
		}
		b.handleKeys[hc.Key] = HandleID(i)
	}

	b.ranges = make([]rangeEntry, len(cfg.Ranges))
	b.rangeKeys = make(map[string]RangeID, len(cfg.Ranges))
	for i, rc := range cfg.Ranges {
		b.ranges[i] = rangeEntry{
			key:      rc.Key,
			start:    b.resolveEndpoint(rc.Key, "start", rc.Start),
			stop:     b.resolveEndpoint(rc.Key, "stop", rc.Stop),
			min:      optionalBound(rc.Min, math.Inf(-1)),
			max:      optionalBound(rc.Max, math.Inf(1)),
			pull:     rc.Pull,
			element:  rc.Element,
			observer: observerOrNop(rc.Observer),
		}
		if rc.Key != "" {
			b.rangeKeys[rc.Key] = RangeID(i)
		}
	}

	b.log.Debug().Int("handles", len(b.handles)).Int("ranges", len(b.ranges)).
		Float64("min", b.min).Float64("max", b.max).Msg("bar configured")
}

// resolveEndpoint turns a configured endpoint into a boundary. References to
// handles that do not exist leave the side unbound.
func (b *Bar) resolveEndpoint(rangeKey, side string, e Endpoint) boundary {
	switch e.kind {
	case endpointFixed:
		return boundary{handle: noHandle, fixed: e.value, hasFixed: true}
	case endpointKey:
		if id, ok := b.handleKeys[e.key]; ok {
			return boundary{handle: id}
		}
		b.log.Warn().Str("range", rangeKey).Str("side", side).Str("handle", e.key).
			Msg("range references unknown handle key, side left unbound")
	case endpointIndex:
		if e.index >= 0 && e.index < len(b.handles) {
			return boundary{handle: HandleID(e.index)}
		}
		b.log.Warn().Str("range", rangeKey).Str("side", side).Int("handle", e.index).
			Msg("range references handle index out of range, side left unbound")
	}
	return boundary{handle: noHandle}
}

// syncAll aligns every handle to its configured value. Ranges sync their
// handles first, with the start/stop bound suspended; free handles follow.
func (b *Bar) syncAll() {
	for i := range b.ranges {
		b.syncRange(RangeID(i))
	}
	for i := range b.handles {
		id := HandleID(i)
		if len(b.rangesWithHandle(id)) == 0 {
			b.syncHandle(id)
		}
	}
}

// Min returns the lower domain bound.
func (b *Bar) Min() float64 { return b.min }

// Max returns the upper domain bound.
func (b *Bar) Max() float64 { return b.max }

// Length returns Max - Min.
func (b *Bar) Length() float64 {
	return b.max - b.min
}

// Step returns the bar-wide alignment step.
func (b *Bar) Step() float64 { return b.step }

// KeydownStep returns the keyboard increment.
func (b *Bar) KeydownStep() float64 { return b.keydownStep }

// Vertical reports whether offsets are measured bottom-up.
func (b *Bar) Vertical() bool { return b.vertical }

// Element returns the track element.
func (b *Bar) Element() Element { return b.element }

// Disabled reports whether input is blocked for the whole bar.
func (b *Bar) Disabled() bool { return b.disabled }

// SetDisabled blocks or unblocks drag and keyboard input. A drag in progress
// ends on its next move event.
func (b *Bar) SetDisabled(disabled bool) {
	b.disabled = disabled
}

// PositionToValue maps a track fraction to a domain value.
func (b *Bar) PositionToValue(p float64) float64 {
	return b.min + p*(b.max-b.min)
}

// ValueToPosition maps a domain value to a track fraction.
func (b *Bar) ValueToPosition(v float64) float64 {
	return (v - b.min) / (b.max - b.min)
}

// StepAligned aligns v with the bar step.
func (b *Bar) StepAligned(v float64, dir AlignDirection) float64 {
	return StepAligned(v, b.step, dir)
}

// Size returns the track length in surface units. A bar without a surface
// or track element has size zero.
func (b *Bar) Size() (float64, error) {
	if b.surface == nil || b.element == "" {
		return 0, nil
	}

	sz, err := b.surface.BoundingSize(b.element)
	if err != nil {
		return 0, fmt.Errorf("track size: %w", err)
	}
	if b.vertical {
		return sz.Height, nil
	}
	return sz.Width, nil
}

// Handle looks up a handle by key.
func (b *Bar) Handle(key string) (HandleID, bool) {
	if key == "" {
		return noHandle, false
	}
	id, ok := b.handleKeys[key]
	return id, ok
}

// Range looks up a range by key.
func (b *Bar) Range(key string) (RangeID, bool) {
	if key == "" {
		return noRange, false
	}
	id, ok := b.rangeKeys[key]
	return id, ok
}

// HandleByElement returns the handle drawn by el.
func (b *Bar) HandleByElement(el Element) (HandleID, bool) {
	if el == "" {
		return noHandle, false
	}
	for i := range b.handles {
		if b.handles[i].element == el {
			return HandleID(i), true
		}
	}
	return noHandle, false
}

// NumHandles returns the number of handles.
func (b *Bar) NumHandles() int { return len(b.handles) }

// NumRanges returns the number of ranges.
func (b *Bar) NumRanges() int { return len(b.ranges) }

// HandleMin intersects the bar minimum with the minimum every range
// containing id derives for it.
func (b *Bar) HandleMin(id HandleID) float64 {
	m := b.min
	for _, rid := range b.rangesWithHandle(id) {
		m = math.Max(m, b.ranges[rid].handleMin(b, id))
	}
	return m
}

// HandleMax intersects the bar maximum with the maximum every range
// containing id derives for it.
func (b *Bar) HandleMax(id HandleID) float64 {
	m := b.max
	for _, rid := range b.rangesWithHandle(id) {
		m = math.Min(m, b.ranges[rid].handleMax(b, id))
	}
	return m
}

// rangesWithHandle returns the ranges bound to id, in range order.
func (b *Bar) rangesWithHandle(id HandleID) []RangeID {
	var out []RangeID
	for i := range b.ranges {
		if b.ranges[i].containsHandle(id) {
			out = append(out, RangeID(i))
		}
	}
	return out
}

// verifyHandle lets every range containing id re-clamp its other handle.
func (b *Bar) verifyHandle(id HandleID) {
	for _, rid := range b.rangesWithHandle(id) {
		b.verifyRange(rid, id)
	}
}

// onHandleMove syncs the visuals of id and its ranges and fires OnMove.
func (b *Bar) onHandleMove(id HandleID) error {
	errs := []error{b.syncHandleView(id)}
	b.handles[id].observer.OnMove(b.handleEvent(id))

	for _, rid := range b.rangesWithHandle(id) {
		errs = append(errs, b.syncRangeView(rid))
		b.ranges[rid].observer.OnMove(b.rangeEvent(rid))
	}
	return errors.Join(errs...)
}

// UpdateView re-syncs every visual, e.g. after the surface was resized.
func (b *Bar) UpdateView() error {
	var errs []error
	for i := range b.handles {
		errs = append(errs, b.syncHandleView(HandleID(i)))
	}
	for i := range b.ranges {
		errs = append(errs, b.syncRangeView(RangeID(i)))
	}
	return errors.Join(errs...)
}

// settleBatch tracks the handles written during one external mutation.
type settleBatch struct {
	depth  int
	writes int
	order  []HandleID
	entry  map[HandleID]float64
}

func (b *Bar) enterBatch() {
	if b.batch.depth == 0 {
		b.batch.order = b.batch.order[:0]
		b.batch.entry = make(map[HandleID]float64)
	}
	b.batch.depth++
}

// touch records the value id had when the batch first wrote it.
func (b *Bar) touch(id HandleID, before float64) {
	if _, ok := b.batch.entry[id]; ok {
		return
	}
	b.batch.entry[id] = before
	b.batch.order = append(b.batch.order, id)
}

// leaveBatch closes one batch level. When the outermost level closes it
// notifies every handle whose value differs from its entry snapshot, then
// every range bound to one of them, then syncs their visuals. It returns
// the handles that changed.
func (b *Bar) leaveBatch() ([]HandleID, error) {
	b.batch.depth--
	if b.batch.depth > 0 {
		return nil, nil
	}

	order, entry := b.batch.order, b.batch.entry
	b.batch = settleBatch{}

	var changed []HandleID
	for _, id := range order {
		if b.handles[id].value != entry[id] {
			changed = append(changed, id)
		}
	}
	if len(changed) == 0 {
		return nil, nil
	}

	gen := b.generation
	for _, id := range changed {
		if b.generation != gen {
			return nil, nil
		}
		b.handles[id].observer.OnChange(b.handleEvent(id))
	}

	affected := b.rangesWithAny(changed)
	for _, rid := range affected {
		if b.generation != gen {
			return nil, nil
		}
		b.ranges[rid].observer.OnChange(b.rangeEvent(rid))
	}

	var errs []error
	for _, id := range changed {
		if b.generation != gen {
			return nil, nil
		}
		errs = append(errs, b.onHandleMove(id))
	}

	return changed, errors.Join(errs...)
}

// rangesWithAny returns the ranges bound to at least one of ids.
func (b *Bar) rangesWithAny(ids []HandleID) []RangeID {
	var out []RangeID
	for i := range b.ranges {
		for _, id := range ids {
			if b.ranges[i].containsHandle(id) {
				out = append(out, RangeID(i))
				break
			}
		}
	}
	return out
}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return NopObserver{}
	}
	return o
}
