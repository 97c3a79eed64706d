package slider

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsEmptyDomain(t *testing.T) {
	for _, tc := range []struct{ min, max float64 }{{0, 0}, {10, 5}} {
		cfg := DefaultConfig()
		cfg.Min, cfg.Max = tc.min, tc.max
		_, err := New(cfg)
		assert.ErrorIs(t, err, ErrEmptyDomain)
	}
}

func TestUpdateRejectsEmptyDomainAndKeepsState(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Handles = []HandleConfig{{Key: "h", Value: 40}}
	b := newBar(t, cfg)

	bad := cfg
	bad.Max = -1
	require.ErrorIs(t, b.Update(bad), ErrEmptyDomain)

	assert.Equal(t, 1, b.NumHandles())
	assert.Equal(t, 40.0, b.Value(mustHandle(t, b, "h")))
}

func TestPositionValueConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Min, cfg.Max = -50, 150
	b := newBar(t, cfg)

	assert.Equal(t, 200.0, b.Length())
	assert.Equal(t, -50.0, b.PositionToValue(0))
	assert.Equal(t, 150.0, b.PositionToValue(1))
	assert.Equal(t, 50.0, b.PositionToValue(0.5))
	assert.Equal(t, 0.25, b.ValueToPosition(0))
}

func TestLookups(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Handles = []HandleConfig{
		{Key: "a", Value: 10, Element: "ea"},
		{Value: 20},
		{Key: "c", Value: 30},
	}
	cfg.Ranges = []RangeConfig{{Key: "ac", Start: HandleKey("a"), Stop: HandleKey("c")}}
	b := newBar(t, cfg)

	assert.Equal(t, 3, b.NumHandles())
	assert.Equal(t, 1, b.NumRanges())

	c, ok := b.Handle("c")
	require.True(t, ok)
	assert.Equal(t, HandleID(2), c)
	assert.Equal(t, "c", b.HandleKey(c))

	_, ok = b.Handle("")
	assert.False(t, ok, "unkeyed handles are not addressable by key")
	_, ok = b.Handle("zz")
	assert.False(t, ok)

	id, ok := b.HandleByElement("ea")
	require.True(t, ok)
	assert.Equal(t, HandleID(0), id)
	assert.Equal(t, Element("ea"), b.HandleElement(id))
	_, ok = b.HandleByElement("")
	assert.False(t, ok)

	_, ok = b.Range("ac")
	assert.True(t, ok)
	_, ok = b.Range("nope")
	assert.False(t, ok)

	assert.Equal(t, 0.0, b.Value(9))
	assert.Equal(t, "", b.HandleKey(9))
}

func TestDuplicateHandleKeyLaterWins(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Handles = []HandleConfig{{Key: "h", Value: 10}, {Key: "h", Value: 90}}
	cfg.Ranges = []RangeConfig{{Key: "r", Start: HandleKey("ghost")}}
	b := newBar(t, cfg, WithLogger(zerolog.New(&buf)))

	id := mustHandle(t, b, "h")
	assert.Equal(t, HandleID(1), id)
	assert.Contains(t, buf.String(), "duplicate handle key")
	assert.Contains(t, buf.String(), "unknown handle key")
	assert.Contains(t, buf.String(), `"component":"slider"`)
}

func TestSnapshot(t *testing.T) {
	surf := newFakeSurface(200)
	cfg := bandConfig(30, 70, false)
	cfg.Element = "track"
	b := newBar(t, cfg, WithSurface(surf))

	st, err := b.Snapshot()
	require.NoError(t, err)

	want := State{
		Min:  0,
		Max:  100,
		Drag: DragIdle,
		Handles: []HandleState{
			{ID: 0, Key: "low", Value: 30, Min: 0, Max: 70, Position: 0.3, Offset: 60, Movable: true},
			{ID: 1, Key: "high", Value: 70, Min: 30, Max: 100, Position: 0.7, Offset: 140, Movable: true},
		},
		Ranges: []RangeState{
			{ID: 0, Key: "band", Start: 30, Stop: 70, SpanStart: 60, SpanWidth: 80},
		},
	}
	approx := cmp.Comparer(func(x, y float64) bool {
		d := x - y
		return d < 1e-9 && d > -1e-9
	})
	if diff := cmp.Diff(want, st, approx); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestObserverRebuildingBarStopsNotifications(t *testing.T) {
	lowRec := &recorder{}
	cfg := bandConfig(30, 70, true)
	cfg.Handles[0].Observer = lowRec

	var b *Bar
	rebuilt := false
	cfg.Handles[1].Observer = Funcs{Change: func(Event) {
		if rebuilt {
			return
		}
		rebuilt = true
		next := DefaultConfig()
		next.Handles = []HandleConfig{{Key: "solo", Value: 5}}
		require.NoError(t, b.Update(next))
	}}
	b = newBar(t, cfg)

	require.NoError(t, b.SetValue(mustHandle(t, b, "high"), 10))

	assert.True(t, rebuilt)
	assert.Empty(t, lowRec.changes)
	assert.Equal(t, 1, b.NumHandles())
	assert.Equal(t, 5.0, b.Value(mustHandle(t, b, "solo")))
}

func TestUpdateViewFollowsTrackResize(t *testing.T) {
	surf := newFakeSurface(200)
	cfg := singleHandle(50, nil)
	cfg.Element = "track"
	cfg.Ranges = []RangeConfig{{Key: "fill", Stop: HandleKey("h"), Element: "fill"}}
	surf.addHandle("h", 2)
	b := newBar(t, cfg, WithSurface(surf))
	assert.Equal(t, 100.0, surf.positions["h"])

	surf.rects["track"] = Rect{Width: 400, Height: 1}
	require.NoError(t, b.UpdateView())

	assert.Equal(t, 200.0, surf.positions["h"])
	assert.Equal(t, [2]float64{0, 200}, surf.spans["fill"])
}

func TestUpdateViewJoinsSurfaceErrors(t *testing.T) {
	surf := newFakeSurface(200)
	cfg := singleHandle(50, nil)
	cfg.Element = "track"
	surf.addHandle("h", 2)
	b := newBar(t, cfg, WithSurface(surf))

	surf.failOn = "ApplyPosition"
	assert.ErrorIs(t, b.UpdateView(), errFake)
}

func TestDestroyCollapsesRanges(t *testing.T) {
	surf := newFakeSurface(200)
	cfg := bandConfig(30, 70, false)
	cfg.Element = "track"
	cfg.Ranges[0].Element = "band"
	b := newBar(t, cfg, WithSurface(surf))
	assert.Equal(t, [2]float64{60, 80}, surf.spans["band"])

	require.NoError(t, b.Destroy())

	assert.Equal(t, [2]float64{0, 0}, surf.spans["band"])
	assert.Zero(t, b.NumHandles())
	assert.Zero(t, b.NumRanges())
}

func TestSizeWithoutSurface(t *testing.T) {
	b := newBar(t, DefaultConfig())
	size, err := b.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestObserverAdapters(t *testing.T) {
	var got []string
	f := Funcs{Change: func(ev Event) { got = append(got, "change:"+ev.Key) }}
	rec := &recorder{}
	m := Multi{f, rec, NopObserver{}}

	ev := Event{Source: SourceHandle, Key: "h"}
	m.OnChange(ev)
	m.OnMove(ev)
	m.OnStartMove(ev)
	m.OnEndMove(ev)
	m.OnVerify(ev)

	assert.Equal(t, []string{"change:h"}, got)
	assert.Len(t, rec.changes, 1)
	assert.Len(t, rec.moves, 1)
	assert.Len(t, rec.verifies, 1)
	assert.Equal(t, "handle", SourceHandle.String())
	assert.Equal(t, "range", SourceRange.String())
}
