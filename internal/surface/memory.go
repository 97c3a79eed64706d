// Package surface provides slider.Surface implementations.
//
// Memory keeps the element geometry of a bar in cell coordinates and is
// usable on its own for headless rendering. Terminal draws the same geometry
// on a tcell screen.
//
// Points are cell centers: the cell at column x and row y is the point
// (x, y). A horizontal track of n cells starting at column x0 spans
// x0..x0+n-1, so the first cell is offset 0 and the last cell offset n-1.
// Vertical tracks grow upward from their bottom cell.
package surface

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/dshills/rangebar/internal/slider"
)

// ErrUnknownElement is returned for elements that were never registered.
var ErrUnknownElement = errors.New("unknown element")

// Kind classifies a registered element.
type Kind uint8

const (
	KindTrack Kind = iota
	KindHandle
	KindRange
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindHandle:
		return "handle"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

// Layout places the track on the cell grid.
type Layout struct {
	// X and Y are the first cell of the track: the left cell for horizontal
	// tracks, the top cell for vertical ones.
	X, Y int

	// Cells is the number of cells the track occupies.
	Cells int

	Vertical bool
}

// Size returns the track length in offset units.
func (l Layout) Size() float64 {
	if l.Cells < 2 {
		return 0
	}
	return float64(l.Cells - 1)
}

// Point returns the cell-center point at offset along the track.
func (l Layout) Point(offset float64) slider.Point {
	if l.Vertical {
		return slider.Point{X: float64(l.X), Y: float64(l.Y) + l.Size() - offset}
	}
	return slider.Point{X: float64(l.X) + offset, Y: float64(l.Y)}
}

// Cell returns the grid cell that draws offset.
func (l Layout) Cell(offset float64) (x, y int) {
	offset = math.Max(0, math.Min(offset, l.Size()))
	p := l.Point(offset)
	return int(math.Round(p.X)), int(math.Round(p.Y))
}

func (l Layout) trackRect() slider.Rect {
	if l.Vertical {
		return slider.Rect{X: float64(l.X) - 0.5, Y: float64(l.Y), Width: 1, Height: l.Size()}
	}
	return slider.Rect{X: float64(l.X), Y: float64(l.Y) - 0.5, Width: l.Size(), Height: 1}
}

type element struct {
	kind Kind

	// width is the handle extent in cells.
	width int

	offset   float64
	start    float64
	span     float64
	placed   bool
	sequence int
}

// Memory is an in-memory slider.Surface. It is safe for concurrent use;
// listeners are invoked without the lock held so they may call back into
// the surface.
type Memory struct {
	mu        sync.Mutex
	layout    Layout
	track     slider.Element
	elements  map[slider.Element]*element
	listeners map[slider.ListenerKind]slider.Listener
	focused   slider.Element
	sequence  int
}

// NewMemory creates an empty surface.
func NewMemory() *Memory {
	return &Memory{
		elements:  make(map[slider.Element]*element),
		listeners: make(map[slider.ListenerKind]slider.Listener),
	}
}

// Register adds el. Handles take width cells along a horizontal track;
// the width is ignored for other kinds. Registering a second track replaces
// the first.
func (m *Memory) Register(el slider.Element, kind Kind, width int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if kind == KindTrack {
		if m.track != "" && m.track != el {
			delete(m.elements, m.track)
		}
		m.track = el
	}
	m.sequence++
	m.elements[el] = &element{kind: kind, width: max(width, 1), sequence: m.sequence}
}

// RegisterConfig replaces the registered elements with the track, handles
// and ranges named in cfg. Parts without an element are skipped.
func (m *Memory) RegisterConfig(cfg slider.Config, handleWidth int) {
	m.Reset()
	if cfg.Element != "" {
		m.Register(cfg.Element, KindTrack, 0)
	}
	for _, h := range cfg.Handles {
		if h.Element != "" {
			m.Register(h.Element, KindHandle, handleWidth)
		}
	}
	for _, r := range cfg.Ranges {
		if r.Element != "" {
			m.Register(r.Element, KindRange, 0)
		}
	}
}

// Reset forgets every element, listener and the focus. The layout is kept.
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.track = ""
	m.focused = ""
	clear(m.elements)
	clear(m.listeners)
}

// SetLayout moves the track.
func (m *Memory) SetLayout(l Layout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.layout = l
}

// Layout returns the track placement.
func (m *Memory) Layout() Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.layout
}

// Elements returns the registered elements of kind in registration order.
func (m *Memory) Elements(kind Kind) []slider.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.elementsLocked(kind)
}

func (m *Memory) elementsLocked(kind Kind) []slider.Element {
	var out []slider.Element
	for el, e := range m.elements {
		if e.kind == kind {
			out = append(out, el)
		}
	}
	slices.SortFunc(out, func(a, b slider.Element) int {
		return m.elements[a].sequence - m.elements[b].sequence
	})
	return out
}

func (m *Memory) rectLocked(el slider.Element) (slider.Rect, error) {
	e, ok := m.elements[el]
	if !ok {
		return slider.Rect{}, fmt.Errorf("%w: %q", ErrUnknownElement, el)
	}

	l := m.layout
	switch e.kind {
	case KindTrack:
		return l.trackRect(), nil
	case KindHandle:
		// Handles are one row tall in both orientations.
		p := l.Point(e.offset)
		return slider.Rect{X: p.X - float64(e.width)/2, Y: p.Y - 0.5, Width: float64(e.width), Height: 1}, nil
	default:
		start, end := l.Point(e.start), l.Point(e.start+e.span)
		if l.Vertical {
			return slider.Rect{X: start.X - 0.5, Y: end.Y, Width: 1, Height: e.span}, nil
		}
		return slider.Rect{X: start.X, Y: start.Y - 0.5, Width: e.span, Height: 1}, nil
	}
}

// BoundingSize implements slider.Surface.
func (m *Memory) BoundingSize(el slider.Element) (slider.Size, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.rectLocked(el)
	if err != nil {
		return slider.Size{}, err
	}
	return slider.Size{Width: r.Width, Height: r.Height}, nil
}

// Offset implements slider.Surface.
func (m *Memory) Offset(el slider.Element) (slider.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.rectLocked(el)
	if err != nil {
		return slider.Point{}, err
	}
	return slider.Point{X: r.X, Y: r.Y}, nil
}

// ApplyPosition implements slider.Surface.
func (m *Memory) ApplyPosition(el slider.Element, offset float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elements[el]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, el)
	}
	e.offset = offset
	e.placed = true
	return nil
}

// ApplySpan implements slider.Surface.
func (m *Memory) ApplySpan(el slider.Element, start, width float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.elements[el]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, el)
	}
	e.start = start
	e.span = width
	e.placed = true
	return nil
}

// Focus implements slider.Surface.
func (m *Memory) Focus(el slider.Element) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.elements[el]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownElement, el)
	}
	m.focused = el
	return nil
}

// AttachGlobal implements slider.Surface.
func (m *Memory) AttachGlobal(kind slider.ListenerKind, fn slider.Listener) error {
	if fn == nil {
		return fmt.Errorf("nil %s listener", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners[kind] = fn
	return nil
}

// DetachGlobal implements slider.Surface.
func (m *Memory) DetachGlobal(kind slider.ListenerKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.listeners, kind)
	return nil
}

// Listening reports whether a listener is attached for kind.
func (m *Memory) Listening(kind slider.ListenerKind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.listeners[kind]
	return ok
}

// Emit delivers p to the listener attached for kind, if any.
func (m *Memory) Emit(kind slider.ListenerKind, p slider.Point) error {
	m.mu.Lock()
	fn := m.listeners[kind]
	m.mu.Unlock()

	if fn == nil {
		return nil
	}
	return fn(p)
}

// Focused returns the element holding keyboard focus, or "".
func (m *Memory) Focused() slider.Element {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// Placement returns the last offset applied to a handle element.
func (m *Memory) Placement(el slider.Element) (offset float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.elements[el]
	if !found || !e.placed {
		return 0, false
	}
	return e.offset, true
}

// Span returns the last span applied to a range element.
func (m *Memory) Span(el slider.Element) (start, width float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, found := m.elements[el]
	if !found || !e.placed {
		return 0, 0, false
	}
	return e.start, e.span, true
}

// Center returns the center point of el.
func (m *Memory) Center(el slider.Element) (slider.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.rectLocked(el)
	if err != nil {
		return slider.Point{}, err
	}
	return slider.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}, nil
}

// ElementAt returns the topmost element containing p: handles over ranges
// over the track. Later handles win over earlier ones.
func (m *Memory) ElementAt(p slider.Point) slider.Element {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, kind := range []Kind{KindHandle, KindRange, KindTrack} {
		els := m.elementsLocked(kind)
		for i := len(els) - 1; i >= 0; i-- {
			r, err := m.rectLocked(els[i])
			if err == nil && r.Contains(p) {
				return els[i]
			}
		}
	}
	return ""
}
