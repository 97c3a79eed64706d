package slider

import "fmt"

// StepDirection is the direction of a keyboard step.
type StepDirection int

const (
	// StepDecrease lowers the value by the keydown step.
	StepDecrease StepDirection = -1
	// StepIncrease raises the value by the keydown step.
	StepIncrease StepDirection = 1
)

// String returns a string representation of the direction.
func (d StepDirection) String() string {
	switch d {
	case StepDecrease:
		return "decrease"
	case StepIncrease:
		return "increase"
	default:
		return "none"
	}
}

// OnKeyStep moves id by one keydown step in dir through the normal value
// path. Disabled bars and handles ignore it.
func (b *Bar) OnKeyStep(dir StepDirection, id HandleID) error {
	h := b.lookup(id)
	if h == nil {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, id)
	}
	if b.disabled || h.disabled {
		return nil
	}

	var delta float64
	switch dir {
	case StepIncrease:
		delta = b.keydownStep
	case StepDecrease:
		delta = -b.keydownStep
	default:
		return nil
	}

	return b.SetValue(id, h.value+delta)
}
