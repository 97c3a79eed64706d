package slider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnKeyStep(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeydownStep = 5
	cfg.Handles = []HandleConfig{{Key: "h", Value: 50}}
	b := newBar(t, cfg)
	h := mustHandle(t, b, "h")

	require.NoError(t, b.OnKeyStep(StepIncrease, h))
	assert.Equal(t, 55.0, b.Value(h))

	require.NoError(t, b.OnKeyStep(StepDecrease, h))
	require.NoError(t, b.OnKeyStep(StepDecrease, h))
	assert.Equal(t, 45.0, b.Value(h))

	require.NoError(t, b.OnKeyStep(StepDirection(0), h))
	assert.Equal(t, 45.0, b.Value(h))
}

func TestOnKeyStepClamps(t *testing.T) {
	cfg := bandConfig(30, 70, false)
	cfg.KeydownStep = 25
	b := newBar(t, cfg)
	low := mustHandle(t, b, "low")

	require.NoError(t, b.OnKeyStep(StepIncrease, low))
	require.NoError(t, b.OnKeyStep(StepIncrease, low))
	assert.Equal(t, 70.0, b.Value(low))
}

func TestOnKeyStepDefaultsToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KeydownStep = 0
	cfg.Handles = []HandleConfig{{Key: "h", Value: 50}}
	b := newBar(t, cfg)

	assert.Equal(t, 1.0, b.KeydownStep())
	require.NoError(t, b.OnKeyStep(StepIncrease, mustHandle(t, b, "h")))
	assert.Equal(t, 51.0, b.Value(mustHandle(t, b, "h")))
}

func TestOnKeyStepIgnoredWhenDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Handles = []HandleConfig{
		{Key: "a", Value: 50},
		{Key: "b", Value: 50, Disabled: true},
	}
	b := newBar(t, cfg)
	a, bh := mustHandle(t, b, "a"), mustHandle(t, b, "b")

	require.NoError(t, b.OnKeyStep(StepIncrease, bh))
	assert.Equal(t, 50.0, b.Value(bh))

	b.SetDisabled(true)
	require.NoError(t, b.OnKeyStep(StepIncrease, a))
	assert.Equal(t, 50.0, b.Value(a))

	b.SetDisabled(false)
	require.NoError(t, b.OnKeyStep(StepIncrease, a))
	assert.Equal(t, 51.0, b.Value(a))
}

func TestOnKeyStepUnknownHandle(t *testing.T) {
	b := newBar(t, DefaultConfig())
	assert.ErrorIs(t, b.OnKeyStep(StepIncrease, 3), ErrUnknownHandle)
}

func TestStepDirectionString(t *testing.T) {
	assert.Equal(t, "increase", StepIncrease.String())
	assert.Equal(t, "decrease", StepDecrease.String())
	assert.Equal(t, "none", StepDirection(0).String())
}
