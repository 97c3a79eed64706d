package slider

import (
	"errors"
	"fmt"
)

var errFake = errors.New("fake surface failure")

// fakeSurface is an in-memory Surface. Handle elements are re-centered on
// their offset whenever the bar positions them, so hit-testing follows the
// values the way a real surface would.
type fakeSurface struct {
	track     Element
	rects     map[Element]Rect
	positions map[Element]float64
	spans     map[Element][2]float64
	listeners map[ListenerKind]Listener
	focused   Element
	failOn    string
}

func newFakeSurface(trackWidth float64) *fakeSurface {
	s := &fakeSurface{
		track:     "track",
		rects:     make(map[Element]Rect),
		positions: make(map[Element]float64),
		spans:     make(map[Element][2]float64),
		listeners: make(map[ListenerKind]Listener),
	}
	s.rects["track"] = Rect{X: 0, Y: 0, Width: trackWidth, Height: 1}
	return s
}

// addHandle registers a handle element of the given width.
func (s *fakeSurface) addHandle(el Element, width float64) {
	s.rects[el] = Rect{Width: width, Height: 1}
}

func (s *fakeSurface) fail(method string) error {
	if s.failOn == method {
		return fmt.Errorf("%s: %w", method, errFake)
	}
	return nil
}

func (s *fakeSurface) BoundingSize(el Element) (Size, error) {
	if err := s.fail("BoundingSize"); err != nil {
		return Size{}, err
	}
	r, ok := s.rects[el]
	if !ok {
		return Size{}, fmt.Errorf("unknown element %q", el)
	}
	return Size{Width: r.Width, Height: r.Height}, nil
}

func (s *fakeSurface) Offset(el Element) (Point, error) {
	if err := s.fail("Offset"); err != nil {
		return Point{}, err
	}
	r, ok := s.rects[el]
	if !ok {
		return Point{}, fmt.Errorf("unknown element %q", el)
	}
	return Point{X: r.X, Y: r.Y}, nil
}

func (s *fakeSurface) ApplyPosition(el Element, offset float64) error {
	if err := s.fail("ApplyPosition"); err != nil {
		return err
	}
	s.positions[el] = offset
	r := s.rects[el]
	track := s.rects[s.track]
	r.X = track.X + offset - r.Width/2
	r.Y = track.Y
	s.rects[el] = r
	return nil
}

func (s *fakeSurface) ApplySpan(el Element, start, width float64) error {
	if err := s.fail("ApplySpan"); err != nil {
		return err
	}
	s.spans[el] = [2]float64{start, width}
	return nil
}

func (s *fakeSurface) Focus(el Element) error {
	if err := s.fail("Focus"); err != nil {
		return err
	}
	s.focused = el
	return nil
}

func (s *fakeSurface) AttachGlobal(kind ListenerKind, fn Listener) error {
	if err := s.fail("AttachGlobal"); err != nil {
		return err
	}
	s.listeners[kind] = fn
	return nil
}

func (s *fakeSurface) DetachGlobal(kind ListenerKind) error {
	delete(s.listeners, kind)
	return nil
}

// emit delivers a global event the way a surface forwards pointer input
// while a drag is active.
func (s *fakeSurface) emit(kind ListenerKind, p Point) error {
	fn, ok := s.listeners[kind]
	if !ok {
		return nil
	}
	return fn(p)
}

// recorder counts observer notifications.
type recorder struct {
	changes    []Event
	moves      []Event
	startMoves []Event
	endMoves   []Event
	verifies   []Event
}

func (r *recorder) OnChange(ev Event)    { r.changes = append(r.changes, ev) }
func (r *recorder) OnMove(ev Event)      { r.moves = append(r.moves, ev) }
func (r *recorder) OnStartMove(ev Event) { r.startMoves = append(r.startMoves, ev) }
func (r *recorder) OnEndMove(ev Event)   { r.endMoves = append(r.endMoves, ev) }
func (r *recorder) OnVerify(ev Event)    { r.verifies = append(r.verifies, ev) }

func (r *recorder) reset() {
	*r = recorder{}
}

// at returns the surface point at offset x along a horizontal test track.
func at(x float64) Point {
	return Point{X: x, Y: 0.5}
}
