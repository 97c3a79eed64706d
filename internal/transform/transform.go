// Package transform compiles handle value transforms written as Lua
// expressions.
//
// An expression sees the incoming value as the global v and returns the
// value to store, e.g. "math.floor(v / 5) * 5". A full chunk with an explicit
// return statement is accepted too. Each Expr owns a sandboxed Lua state
// with only the base, math, string and table libraries; file loading and
// require are removed.
package transform

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single evaluation.
const DefaultTimeout = 100 * time.Millisecond

// Expr is a compiled transform. It is safe for use from multiple
// goroutines; evaluations are serialized.
type Expr struct {
	mu      sync.Mutex
	L       *lua.LState
	fn      *lua.LFunction
	src     string
	timeout time.Duration
	closed  bool
}

// Option configures an Expr.
type Option func(*Expr)

// WithTimeout sets the evaluation time budget. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Expr) {
		if d >= 0 {
			e.timeout = d
		}
	}
}

// Compile parses src into an expression.
func Compile(src string, opts ...Option) (*Expr, error) {
	e := &Expr{src: src, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)

	fn, err := L.LoadString("return (" + src + ")")
	if err != nil {
		// Not a single expression; try it as a chunk.
		var chunkErr error
		fn, chunkErr = L.LoadString(src)
		if chunkErr != nil {
			L.Close()
			return nil, fmt.Errorf("compile transform %q: %w", src, chunkErr)
		}
	}

	e.L = L
	e.fn = fn
	return e, nil
}

// openSafeLibraries opens the libraries a transform may use and strips the
// base functions that reach the file system or load code.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenMath(L)
	lua.OpenString(L)
	lua.OpenTable(L)
	// Each opener leaves its module table on the stack.
	L.Pop(L.GetTop())

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// Source returns the expression text.
func (e *Expr) Source() string {
	return e.src
}

// Eval runs the expression with v bound to the input.
func (e *Expr) Eval(ctx context.Context, v float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return 0, ErrClosed
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	e.L.SetGlobal("v", lua.LNumber(v))

	top := e.L.GetTop()
	e.L.Push(e.fn)
	if err := e.L.PCall(0, 1, nil); err != nil {
		e.L.SetTop(top)
		if ctx.Err() != nil {
			return 0, fmt.Errorf("%w: %s", ErrTimeout, e.src)
		}
		return 0, fmt.Errorf("eval transform %q: %w", e.src, err)
	}

	ret := e.L.Get(-1)
	e.L.SetTop(top)

	n, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%w: %q returned %s", ErrNotNumber, e.src, ret.Type())
	}
	f := float64(n)
	if math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q returned NaN", ErrNotNumber, e.src)
	}
	return f, nil
}

// Func adapts the expression to a handle transform. Evaluation errors are
// logged and leave the value untouched.
func (e *Expr) Func(log zerolog.Logger) func(float64) float64 {
	return func(v float64) float64 {
		out, err := e.Eval(context.Background(), v)
		if err != nil {
			log.Warn().Err(err).Float64("value", v).Msg("transform failed, value kept")
			return v
		}
		return out
	}
}

// Close releases the Lua state.
func (e *Expr) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

// CloseAll closes every expression in exprs.
func CloseAll(exprs []*Expr) {
	for _, e := range exprs {
		if e != nil {
			e.Close()
		}
	}
}

// IsTimeout reports whether err came from an exceeded time budget.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
