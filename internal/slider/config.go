package slider

// Config configures a Bar. Start from DefaultConfig and override fields.
type Config struct {
	// Min and Max bound the domain. Min must be less than Max.
	Min float64
	Max float64

	// Step is the default alignment granularity. Zero disables alignment.
	Step float64

	// KeydownStep is the keyboard increment. Zero means 1.
	KeydownStep float64

	// Disabled blocks drag and keyboard input for every handle.
	Disabled bool

	// Vertical measures offsets from the bottom edge of the track upward.
	Vertical bool

	// Element is the track element on the surface.
	Element Element

	Handles []HandleConfig
	Ranges  []RangeConfig
}

// HandleConfig configures one handle.
type HandleConfig struct {
	// Key names the handle for lookups and range endpoints. Optional.
	Key string

	// Value is the initial value. It is clamped when the bar syncs.
	Value float64

	// Min and Max are the handle's own bounds; nil is unbounded.
	Min *float64
	Max *float64

	// Step overrides the bar step when positive.
	Step float64

	Disabled bool
	Element  Element
	Observer Observer

	// Transform rewrites every value before it is aligned and clamped.
	Transform func(float64) float64
}

// RangeConfig configures one range.
type RangeConfig struct {
	Key string

	Start Endpoint
	Stop  Endpoint

	// Min and Max are the range's own bounds on its handles; nil is unbounded.
	Min *float64
	Max *float64

	// Pull lets the stop handle move below the start handle, dragging the
	// start handle along instead of being blocked by it.
	Pull bool

	Element  Element
	Observer Observer
}

// DefaultConfig returns the default bar configuration.
func DefaultConfig() Config {
	return Config{
		Min:         0,
		Max:         100,
		KeydownStep: 1,
	}
}

// endpointKind tells how an Endpoint refers to its boundary.
type endpointKind uint8

const (
	endpointNone endpointKind = iota
	endpointFixed
	endpointKey
	endpointIndex
)

// Endpoint is one boundary of a range: nothing, a fixed value, or a handle
// referenced by key or by position in Config.Handles.
type Endpoint struct {
	kind  endpointKind
	value float64
	key   string
	index int
}

// Unbounded returns an endpoint that leaves its side open.
func Unbounded() Endpoint {
	return Endpoint{}
}

// Fixed returns an endpoint at a constant value.
func Fixed(v float64) Endpoint {
	return Endpoint{kind: endpointFixed, value: v}
}

// HandleKey returns an endpoint bound to the handle with the given key.
func HandleKey(key string) Endpoint {
	return Endpoint{kind: endpointKey, key: key}
}

// HandleAt returns an endpoint bound to Config.Handles[i].
func HandleAt(i int) Endpoint {
	return Endpoint{kind: endpointIndex, index: i}
}

// IsZero reports whether the endpoint is unbounded.
func (e Endpoint) IsZero() bool {
	return e.kind == endpointNone
}

// Float returns a pointer to v, for the optional bounds of HandleConfig and
// RangeConfig.
func Float(v float64) *float64 {
	return &v
}
