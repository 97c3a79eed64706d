package input

import "github.com/dshills/rangebar/internal/slider"

// dragTracker tracks the primary button between press and release.
type dragTracker struct {
	// active indicates the button is held.
	active bool

	// startPos is where the press happened.
	startPos slider.Point

	// currentPos is the last reported position.
	currentPos slider.Point
}

// start begins tracking a press.
func (t *dragTracker) start(pos slider.Point) {
	t.active = true
	t.startPos = pos
	t.currentPos = pos
}

// update records pos and reports whether it differs from the last one.
func (t *dragTracker) update(pos slider.Point) bool {
	if !t.active || pos == t.currentPos {
		return false
	}
	t.currentPos = pos
	return true
}

// end stops tracking.
func (t *dragTracker) end() {
	*t = dragTracker{}
}
