package app

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/slider"
	"github.com/dshills/rangebar/internal/transform"
)

// build compiles the transforms of doc and creates a bar for it on the
// terminal surface. It starts a new configuration generation.
func (a *App) build(doc *config.Document) (*slider.Bar, []*transform.Expr, error) {
	gen := uuid.NewString()
	log := a.log.With().Str("generation", gen).Logger()

	exprs, err := doc.CompileTransforms(log)
	if err != nil {
		return nil, nil, err
	}
	attachLogObservers(&doc.Bar, log)

	a.term.RegisterConfig(doc.Bar, a.term.HandleWidth())
	bar, err := slider.New(doc.Bar, slider.WithSurface(a.term), slider.WithLogger(log))
	if err != nil {
		transform.CloseAll(exprs)
		return nil, nil, err
	}

	a.generation = gen
	return bar, exprs, nil
}

// Reload re-reads the configuration file and rebuilds the bar in place.
// A configuration that fails to load, compile or validate is rejected and
// the current one stays active.
func (a *App) Reload() error {
	path := a.opts.ConfigPath
	doc, err := config.Load(path, a.opts.LoadOptions...)
	if err != nil {
		return &ReloadError{Path: path, Err: err}
	}
	if !(doc.Bar.Min < doc.Bar.Max) {
		return &ReloadError{Path: path, Err: fmt.Errorf("%w: min=%g max=%g", slider.ErrEmptyDomain, doc.Bar.Min, doc.Bar.Max)}
	}

	gen := uuid.NewString()
	log := a.log.With().Str("generation", gen).Logger()

	exprs, err := doc.CompileTransforms(log)
	if err != nil {
		return &ReloadError{Path: path, Err: err}
	}
	if err := a.term.SetTheme(doc.Theme); err != nil {
		transform.CloseAll(exprs)
		return &ReloadError{Path: path, Err: err}
	}
	attachLogObservers(&doc.Bar, log)

	// The old elements must stay registered while the bar releases them.
	if err := a.bar.Destroy(); err != nil {
		log.Warn().Err(err).Msg("releasing previous bar")
	}
	a.term.RegisterConfig(doc.Bar, a.term.HandleWidth())
	if err := a.bar.Update(doc.Bar); err != nil {
		a.rollback()
		transform.CloseAll(exprs)
		return &ReloadError{Path: path, Err: err}
	}
	a.router.SetBar(a.bar)

	transform.CloseAll(a.exprs)
	a.exprs = exprs
	a.doc = doc
	a.generation = gen

	log.Info().Int("handles", a.bar.NumHandles()).Int("ranges", a.bar.NumRanges()).Msg("configuration reloaded")
	return nil
}

// rollback rebuilds the bar from the active document after a failed swap.
// The active transforms are still open, so the rebuilt handles keep them.
func (a *App) rollback() {
	log := a.log.With().Str("generation", a.generation).Logger()
	if err := a.term.SetTheme(a.doc.Theme); err != nil {
		log.Warn().Err(err).Msg("restoring theme")
	}
	if err := a.bar.Destroy(); err != nil {
		log.Warn().Err(err).Msg("releasing rejected bar")
	}
	a.term.RegisterConfig(a.doc.Bar, a.term.HandleWidth())
	if err := a.bar.Update(a.doc.Bar); err != nil {
		log.Error().Err(err).Msg("restoring previous configuration")
	}
	a.router.SetBar(a.bar)
}

// attachLogObservers logs settled changes and drag boundaries of every part
// that has no observer of its own.
func attachLogObservers(cfg *slider.Config, log zerolog.Logger) {
	logEvent := func(msg string) func(slider.Event) {
		return func(ev slider.Event) {
			e := log.Debug().Stringer("source", ev.Source).Int("index", ev.Index).Str("key", ev.Key)
			if ev.Source == slider.SourceRange {
				e = e.Float64("start", ev.Start).Float64("stop", ev.Stop)
			} else {
				e = e.Float64("value", ev.Value)
			}
			e.Msg(msg)
		}
	}
	obs := slider.Funcs{
		Change:    logEvent("changed"),
		StartMove: logEvent("drag start"),
		EndMove:   logEvent("drag end"),
	}

	for i := range cfg.Handles {
		if cfg.Handles[i].Observer == nil {
			cfg.Handles[i].Observer = obs
		}
	}
	for i := range cfg.Ranges {
		if cfg.Ranges[i].Observer == nil {
			cfg.Ranges[i].Observer = obs
		}
	}
}
