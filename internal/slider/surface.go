package slider

// Element identifies a visual element owned by a Surface. The zero value
// means "no element": the core skips geometry and visual calls for it.
type Element string

// Point is a position in surface coordinates.
type Point struct {
	X float64
	Y float64
}

// Size is the extent of an element.
type Size struct {
	Width  float64
	Height float64
}

// Rect is an axis-aligned box in surface coordinates.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return r.X <= p.X && p.X <= r.X+r.Width &&
		r.Y <= p.Y && p.Y <= r.Y+r.Height
}

// ListenerKind names a global listener a drag registers on the surface.
type ListenerKind int

const (
	// ListenMove receives pointer movement for the duration of a drag.
	ListenMove ListenerKind = iota
	// ListenEnd receives the pointer release that ends a drag.
	ListenEnd
)

// String returns a string representation of the listener kind.
func (k ListenerKind) String() string {
	switch k {
	case ListenMove:
		return "move"
	case ListenEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Listener is a global gesture callback.
type Listener func(p Point) error

// Surface is the rendering and input collaborator of a Bar.
//
// The core calls into the Surface for geometry and visual sync; the Surface
// calls back into the Bar (OnGestureStart, OnGestureMove, OnGestureEnd,
// OnKeyStep) with normalized input. Errors returned by a Surface are not
// recovered; they propagate to the caller of the Bar operation.
type Surface interface {
	// BoundingSize returns the size of el.
	BoundingSize(el Element) (Size, error)

	// Offset returns the top-left corner of el.
	Offset(el Element) (Point, error)

	// ApplyPosition moves a handle element to offset along the track.
	ApplyPosition(el Element, offset float64) error

	// ApplySpan places a range element at start with the given width.
	ApplySpan(el Element, start, width float64) error

	// Focus gives keyboard focus to el.
	Focus(el Element) error

	// AttachGlobal registers fn for kind until DetachGlobal is called.
	AttachGlobal(kind ListenerKind, fn Listener) error

	// DetachGlobal removes the listener registered for kind.
	DetachGlobal(kind ListenerKind) error
}
