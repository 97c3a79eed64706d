// Package slider implements the value, constraint and drag engine of a
// multi-handle range slider.
//
// A Bar owns a one-dimensional domain [Min, Max], an ordered set of handles
// and an ordered set of ranges. Handles carry scalar values; ranges bind a
// start and a stop endpoint (a handle, a fixed value or nothing) and derive
// the extra bounds each bound handle has to respect.
//
// # Arena
//
// Handles and ranges live in index-addressed slices inside the Bar. Callers
// refer to them by HandleID and RangeID; keys given in the configuration
// resolve through Bar.Handle and Bar.Range:
//
//	bar, err := slider.New(cfg, slider.WithSurface(surf))
//	low, ok := bar.Handle("low")
//	if ok {
//	    _ = bar.SetValue(low, 42)
//	}
//
// # Settling
//
// A value write may move other handles through range verification. All
// writes caused by one external mutation form a settle batch; observers are
// notified only after the outermost write returns, once per changed handle
// and once per affected range.
//
// # Gestures
//
// The drag state machine is driven by OnGestureStart, OnGestureMove and
// OnGestureEnd. While a drag is active the Bar registers global move and end
// listeners on its Surface. Keyboard stepping goes through OnKeyStep.
//
// # Thread Safety
//
// A Bar is not safe for concurrent use. All calls must come from the single
// goroutine that owns the event loop.
package slider
