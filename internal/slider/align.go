package slider

import (
	"math"
	"strconv"
	"strings"
)

// AlignDirection selects how StepAligned resolves a value that does not
// fall on a step boundary.
type AlignDirection int

const (
	// AlignNearest snaps to the nearest multiple of the step.
	AlignNearest AlignDirection = iota
	// AlignCeil snaps to the smallest multiple that is not below the value.
	// Used for lower bounds.
	AlignCeil
	// AlignFloor snaps to the largest multiple that is not above the value.
	// Used for upper bounds.
	AlignFloor
)

// String returns a string representation of the direction.
func (d AlignDirection) String() string {
	switch d {
	case AlignNearest:
		return "nearest"
	case AlignCeil:
		return "ceil"
	case AlignFloor:
		return "floor"
	default:
		return "unknown"
	}
}

// StepPrecision returns the number of fractional decimal digits of step.
func StepPrecision(step float64) int {
	if step == 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return 0
	}
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// StepAligned aligns v to a multiple of step. A non-positive step leaves v
// untouched. Results are rounded to the decimal precision of step so that
// 0.1-style steps do not accumulate binary noise.
func StepAligned(v, step float64, dir AlignDirection) float64 {
	if step <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}

	prec := StepPrecision(step)
	aligned := toFixed(roundHalfUp(v/step)*step, prec)

	switch {
	case dir == AlignCeil && aligned < v:
		aligned = toFixed(aligned+step, prec)
	case dir == AlignFloor && aligned > v:
		aligned = toFixed(aligned-step, prec)
	}

	return aligned
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// toFixed rounds x to prec fractional digits through its decimal form.
func toFixed(x float64, prec int) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', prec, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// clamp bounds v to [lo, hi]. When the interval is empty hi wins.
func clamp(lo, v, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// optionalBound converts an optional declared bound into its numeric form,
// where a missing bound is the given infinity.
func optionalBound(p *float64, inf float64) float64 {
	if p == nil {
		return inf
	}
	return *p
}
