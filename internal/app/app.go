// Package app runs an interactive range bar in the terminal. It wires the
// configuration, the slider core, the terminal surface and the input router
// together and reloads the configuration when its file changes.
package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/config/watcher"
	"github.com/dshills/rangebar/internal/input"
	"github.com/dshills/rangebar/internal/logging"
	"github.com/dshills/rangebar/internal/slider"
	"github.com/dshills/rangebar/internal/surface"
	"github.com/dshills/rangebar/internal/transform"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. It is re-read on reload.
	ConfigPath string

	// Document is the already loaded configuration.
	Document *config.Document

	// LoadOptions are passed to config.Load on reload.
	LoadOptions []config.LoadOption

	// Watch reloads the configuration when ConfigPath changes.
	Watch bool

	// Debounce coalesces file events; zero uses the watcher default.
	Debounce time.Duration

	// Screen overrides the terminal screen. Nil opens the real terminal.
	Screen tcell.Screen

	Logger zerolog.Logger
}

// App is a running range bar.
type App struct {
	opts Options
	log  zerolog.Logger

	term   *surface.Terminal
	bar    *slider.Bar
	router *input.Router

	doc        *config.Document
	exprs      []*transform.Expr
	generation string

	reloads chan watcher.Event
	running atomic.Bool
}

// New builds the bar described by opts.Document on a terminal surface.
// The screen is not touched until Run.
func New(opts Options) (*App, error) {
	if opts.Document == nil {
		return nil, ErrNoDocument
	}

	screen := opts.Screen
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return nil, &InitError{Component: "screen", Err: err}
		}
		screen = s
	}

	term, err := surface.NewTerminal(screen, opts.Document.Theme)
	if err != nil {
		return nil, &InitError{Component: "theme", Err: err}
	}

	a := &App{
		opts:    opts,
		log:     logging.WithComponent(opts.Logger, "app"),
		term:    term,
		reloads: make(chan watcher.Event, 1),
	}

	bar, exprs, err := a.build(opts.Document)
	if err != nil {
		return nil, &InitError{Component: "bar", Err: err}
	}
	a.bar = bar
	a.exprs = exprs
	a.doc = opts.Document
	a.router = input.NewRouter(bar, term, a.log)
	return a, nil
}

// Bar returns the live bar.
func (a *App) Bar() *slider.Bar {
	return a.bar
}

// Terminal returns the surface the bar is drawn on.
func (a *App) Terminal() *surface.Terminal {
	return a.term
}

// Document returns the active configuration.
func (a *App) Document() *config.Document {
	return a.doc
}

// Generation returns the id of the active configuration generation.
func (a *App) Generation() string {
	return a.generation
}

// Run draws the bar and processes terminal events until ctx is done or the
// user quits. A quit returns nil.
func (a *App) Run(ctx context.Context) error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	if err := a.term.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer a.term.Shutdown()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.opts.Watch && a.opts.ConfigPath != "" {
		w, err := a.startWatcher(ctx)
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		defer func() {
			if err := w.Stop(); err != nil {
				a.log.Warn().Err(err).Msg("stopping watcher")
			}
		}()
	}

	events := make(chan tcell.Event)
	go a.pollEvents(ctx, events)

	a.relayout()
	a.draw()

	a.log.Info().Str("generation", a.generation).Msg("running")
	err := a.eventLoop(ctx, events)
	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// pollEvents forwards screen events until the screen is finalized.
func (a *App) pollEvents(ctx context.Context, events chan<- tcell.Event) {
	for {
		ev := a.term.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) eventLoop(ctx context.Context, events <-chan tcell.Event) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-a.reloads:
			a.log.Info().Str("path", ev.Path).Stringer("op", ev.Op).Msg("configuration changed")
			if err := a.Reload(); err != nil {
				a.log.Error().Err(err).Msg("reload rejected, keeping previous configuration")
			}
			a.relayout()
			a.draw()
		case ev := <-events:
			if err := a.handleEvent(ev); err != nil {
				return err
			}
		}
	}
}

func (a *App) handleEvent(ev tcell.Event) error {
	action, err := a.router.Handle(ev)
	if err != nil {
		a.log.Warn().Err(err).Msg("input")
	}

	switch action {
	case input.ActionQuit:
		return ErrQuit
	case input.ActionResize:
		a.relayout()
		a.draw()
	case input.ActionSync:
		a.term.Sync()
		a.draw()
	case input.ActionRedraw:
		a.draw()
	}
	return nil
}

func (a *App) relayout() {
	a.term.Fit(a.bar.Vertical())
	if err := a.bar.UpdateView(); err != nil {
		a.log.Warn().Err(err).Msg("update view")
	}
}

func (a *App) draw() {
	if err := a.term.Draw(a.bar, surface.Status(a.bar)); err != nil {
		a.log.Warn().Err(err).Msg("draw")
	}
}

func (a *App) startWatcher(ctx context.Context) (*watcher.Watcher, error) {
	opts := []watcher.Option{watcher.WithLogger(a.log)}
	if a.opts.Debounce > 0 {
		opts = append(opts, watcher.WithDebounce(a.opts.Debounce))
	}

	w, err := watcher.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.Watch(a.opts.ConfigPath); err != nil {
		_ = w.Stop()
		return nil, err
	}

	w.OnChange(func(ev watcher.Event) {
		// A pending reload already covers this change.
		select {
		case a.reloads <- ev:
		default:
		}
	})
	w.Start(ctx)
	a.log.Info().Strs("files", w.WatchedFiles()).Dur("debounce", a.opts.Debounce).Msg("watching configuration")
	return w, nil
}

// Close releases the compiled transforms and the bar.
func (a *App) Close() error {
	err := a.bar.Destroy()
	transform.CloseAll(a.exprs)
	a.exprs = nil
	return err
}
