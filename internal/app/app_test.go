package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/slider"
	"github.com/dshills/rangebar/internal/transform"
)

const bandConfig = `
max = 100

[handles.a]
value = 20

[handles.b]
value = 60

[ranges.r]
start = "a"
stop = "b"
`

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

// newTestApp loads body from a temp file and builds an app on a 105x10
// simulation screen, which gives a 101-cell track on row 4 from column 2.
func newTestApp(t *testing.T, body string) (*App, tcell.SimulationScreen, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bar.toml")
	writeConfig(t, path, body)

	doc, err := config.Load(path, config.WithoutEnv())
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := New(Options{
		ConfigPath:  path,
		Document:    doc,
		LoadOptions: []config.LoadOption{config.WithoutEnv()},
		Screen:      screen,
		Logger:      zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, screen, path
}

// start initializes the screen the way Run does, without the event loop.
func start(t *testing.T, a *App, screen tcell.SimulationScreen) {
	t.Helper()
	require.NoError(t, a.term.Init())
	t.Cleanup(a.term.Shutdown)
	screen.SetSize(105, 10)
	a.relayout()
	a.draw()
}

func TestNewRequiresDocument(t *testing.T) {
	_, err := New(Options{Screen: tcell.NewSimulationScreen("UTF-8")})
	assert.ErrorIs(t, err, ErrNoDocument)
}

func TestNewRejectsBadTheme(t *testing.T) {
	doc, err := config.Decode(config.Defaults())
	require.NoError(t, err)
	doc.Theme.Track = "not a color"

	_, err = New(Options{Document: doc, Screen: tcell.NewSimulationScreen("UTF-8"), Logger: zerolog.Nop()})
	var ie *InitError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "theme", ie.Component)
}

func TestNewBuildsBar(t *testing.T) {
	a, _, _ := newTestApp(t, bandConfig)

	b := a.Bar()
	assert.Equal(t, 2, b.NumHandles())
	assert.Equal(t, 1, b.NumRanges())
	assert.NotEmpty(t, a.Generation())
	assert.Equal(t, config.HandleElement(1), b.HandleElement(1))
}

func TestHandleEventDrag(t *testing.T) {
	a, screen, _ := newTestApp(t, bandConfig)
	start(t, a, screen)

	require.NoError(t, a.handleEvent(tcell.NewEventMouse(82, 4, tcell.Button1, tcell.ModNone)))
	assert.Equal(t, 80.0, a.Bar().Value(1))

	require.NoError(t, a.handleEvent(tcell.NewEventMouse(72, 4, tcell.Button1, tcell.ModNone)))
	require.NoError(t, a.handleEvent(tcell.NewEventMouse(72, 4, tcell.ButtonNone, tcell.ModNone)))
	assert.Equal(t, 70.0, a.Bar().Value(1))
	assert.Equal(t, slider.DragIdle, a.Bar().DragState())

	r, _, _, _ := screen.GetContent(72, 4) //nolint:staticcheck // GetContent is the simulation API
	assert.Equal(t, '█', r)
}

func TestHandleEventQuit(t *testing.T) {
	a, screen, _ := newTestApp(t, bandConfig)
	start(t, a, screen)

	assert.ErrorIs(t, a.handleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)), ErrQuit)
	assert.NoError(t, a.handleEvent(tcell.NewEventResize(105, 10)))
	assert.NoError(t, a.handleEvent(tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModNone)))
}

func TestReload(t *testing.T) {
	a, screen, path := newTestApp(t, bandConfig)
	start(t, a, screen)
	before := a.Generation()

	writeConfig(t, path, "max = 50\nstep = 5\n\n[handles.solo]\nvalue = 12\n")
	require.NoError(t, a.Reload())

	b := a.Bar()
	assert.Equal(t, 50.0, b.Max())
	assert.Equal(t, 1, b.NumHandles())
	assert.Zero(t, b.NumRanges())
	id, ok := b.Handle("solo")
	require.True(t, ok)
	assert.Equal(t, 10.0, b.Value(id))
	assert.NotEqual(t, before, a.Generation())

	a.relayout()
	off, ok := a.Terminal().Placement(config.HandleElement(0))
	require.True(t, ok)
	assert.Equal(t, 20.0, off)
}

func TestReloadCancelsDrag(t *testing.T) {
	a, screen, _ := newTestApp(t, bandConfig)
	start(t, a, screen)

	require.NoError(t, a.handleEvent(tcell.NewEventMouse(82, 4, tcell.Button1, tcell.ModNone)))
	require.Equal(t, slider.DragDragging, a.Bar().DragState())

	require.NoError(t, a.Reload())
	assert.Equal(t, slider.DragIdle, a.Bar().DragState())
	assert.False(t, a.router.Pressed())
	assert.Equal(t, 60.0, a.Bar().Value(1))
}

func TestReloadRejectsBadConfig(t *testing.T) {
	for name, body := range map[string]string{
		"empty domain":  "min = 10\nmax = 10\n",
		"bad transform": "[handles.a]\nvalue = 1\ntransform = \"v +\"\n",
		"bad theme":     "[theme]\nrange = \"#xyz\"\n",
		"unknown key":   "maximum = 3\n",
	} {
		t.Run(name, func(t *testing.T) {
			a, screen, path := newTestApp(t, bandConfig)
			start(t, a, screen)
			before := a.Generation()

			writeConfig(t, path, body)
			err := a.Reload()
			var re *ReloadError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, path, re.Path)

			assert.Equal(t, 2, a.Bar().NumHandles())
			assert.Equal(t, 60.0, a.Bar().Value(1))
			assert.Equal(t, before, a.Generation())
		})
	}
}

func TestRollbackKeepsActiveTransforms(t *testing.T) {
	a, screen, _ := newTestApp(t, bandConfig+"\n[handles.c]\nvalue = 0\ntransform = \"math.floor(v / 10) * 10\"\n")
	start(t, a, screen)
	before := a.Generation()

	// Swap in another configuration the way Reload does, then fail it.
	raw := config.Defaults()
	raw["handles"] = []any{map[string]any{"key": "solo", "value": 5.0, "transform": "v * 2"}}
	doc, err := config.Decode(raw)
	require.NoError(t, err)
	exprs, err := doc.CompileTransforms(zerolog.Nop())
	require.NoError(t, err)
	a.term.RegisterConfig(doc.Bar, a.term.HandleWidth())
	require.NoError(t, a.Bar().Update(doc.Bar))

	a.rollback()
	transform.CloseAll(exprs)

	b := a.Bar()
	assert.Equal(t, 3, b.NumHandles())
	assert.Equal(t, before, a.Generation())
	id, ok := b.Handle("c")
	require.True(t, ok)
	require.NoError(t, b.SetValue(id, 37))
	assert.Equal(t, 30.0, b.Value(id))
}

func TestReloadErrorWrapsEmptyDomain(t *testing.T) {
	a, _, path := newTestApp(t, bandConfig)
	writeConfig(t, path, "min = 5\nmax = 1\n")
	assert.ErrorIs(t, a.Reload(), slider.ErrEmptyDomain)
}

func TestWatcherQueuesReload(t *testing.T) {
	a, _, path := newTestApp(t, bandConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.opts.Debounce = 10 * time.Millisecond
	w, err := a.startWatcher(ctx)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	assert.Equal(t, []string{abs}, w.WatchedFiles())

	writeConfig(t, path, bandConfig+"\n# touched\n")

	select {
	case ev := <-a.reloads:
		assert.Equal(t, filepath.Base(path), filepath.Base(ev.Path))
	case <-time.After(2 * time.Second):
		t.Fatal("no reload queued")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	a, _, _ := newTestApp(t, bandConfig)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}
