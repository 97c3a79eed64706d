package slider

// Source tells whether an Event comes from a handle or a range.
type Source int

const (
	// SourceHandle marks handle events.
	SourceHandle Source = iota
	// SourceRange marks range events.
	SourceRange
)

// String returns a string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceHandle:
		return "handle"
	case SourceRange:
		return "range"
	default:
		return "unknown"
	}
}

// Event is delivered to observers.
//
// For handle events Index is the HandleID and Value is the handle value.
// For range events Index is the RangeID and Start/Stop are the endpoint
// values (a fixed endpoint reports its value, a missing one the bar bound).
type Event struct {
	Source Source
	Index  int
	Key    string
	Value  float64
	Start  float64
	Stop   float64
}

// Observer receives synchronous notifications from a Bar.
type Observer interface {
	// OnChange is called once per settled mutation that changed the value.
	OnChange(ev Event)
	// OnMove is called on every position update, including live drags.
	OnMove(ev Event)
	// OnStartMove is called when a drag starts.
	OnStartMove(ev Event)
	// OnEndMove is called when a drag ends.
	OnEndMove(ev Event)
	// OnVerify is called after each write, before the batch settles.
	OnVerify(ev Event)
}

// NopObserver ignores every notification. Embed it to implement a subset
// of Observer.
type NopObserver struct{}

func (NopObserver) OnChange(Event)    {}
func (NopObserver) OnMove(Event)      {}
func (NopObserver) OnStartMove(Event) {}
func (NopObserver) OnEndMove(Event)   {}
func (NopObserver) OnVerify(Event)    {}

// Funcs adapts optional callbacks to Observer. Nil callbacks are skipped.
type Funcs struct {
	Change    func(Event)
	Move      func(Event)
	StartMove func(Event)
	EndMove   func(Event)
	Verify    func(Event)
}

func (f Funcs) OnChange(ev Event) {
	if f.Change != nil {
		f.Change(ev)
	}
}

func (f Funcs) OnMove(ev Event) {
	if f.Move != nil {
		f.Move(ev)
	}
}

func (f Funcs) OnStartMove(ev Event) {
	if f.StartMove != nil {
		f.StartMove(ev)
	}
}

func (f Funcs) OnEndMove(ev Event) {
	if f.EndMove != nil {
		f.EndMove(ev)
	}
}

func (f Funcs) OnVerify(ev Event) {
	if f.Verify != nil {
		f.Verify(ev)
	}
}

// Multi fans notifications out to several observers in order.
type Multi []Observer

func (m Multi) OnChange(ev Event) {
	for _, o := range m {
		o.OnChange(ev)
	}
}

func (m Multi) OnMove(ev Event) {
	for _, o := range m {
		o.OnMove(ev)
	}
}

func (m Multi) OnStartMove(ev Event) {
	for _, o := range m {
		o.OnStartMove(ev)
	}
}

func (m Multi) OnEndMove(ev Event) {
	for _, o := range m {
		o.OnEndMove(ev)
	}
}

func (m Multi) OnVerify(ev Event) {
	for _, o := range m {
		o.OnVerify(ev)
	}
}
