package config

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/rangebar/internal/config/loader"
	"github.com/dshills/rangebar/internal/slider"
)

func decodeTOML(t *testing.T, src string) (*Document, error) {
	t.Helper()
	raw, err := loader.Parse(loader.FormatTOML, "test.toml", []byte(src))
	require.NoError(t, err)
	return Decode(loader.DeepMerge(Defaults(), raw))
}

func TestDecodeKeyedTables(t *testing.T) {
	doc, err := decodeTOML(t, `
min = 10
max = 90
step = 5
keydown_step = 5
vertical = true

[handles.b]
value = 60
max = 80

[handles.a]
value = 20
transform = "math.floor(v)"

[ranges.band]
start = "a"
stop = "b"
pull = true
min = 15
`)
	require.NoError(t, err)

	bar := doc.Bar
	assert.Equal(t, 10.0, bar.Min)
	assert.Equal(t, 90.0, bar.Max)
	assert.Equal(t, 5.0, bar.Step)
	assert.Equal(t, 5.0, bar.KeydownStep)
	assert.True(t, bar.Vertical)
	assert.Equal(t, TrackElement, bar.Element)

	require.Len(t, bar.Handles, 2)
	assert.Equal(t, "a", bar.Handles[0].Key, "keyed tables are sorted")
	assert.Equal(t, 20.0, bar.Handles[0].Value)
	assert.Equal(t, HandleElement(0), bar.Handles[0].Element)
	assert.Equal(t, "b", bar.Handles[1].Key)
	require.NotNil(t, bar.Handles[1].Max)
	assert.Equal(t, 80.0, *bar.Handles[1].Max)
	assert.Nil(t, bar.Handles[1].Min)
	assert.Equal(t, []string{"math.floor(v)", ""}, doc.Transforms)

	require.Len(t, bar.Ranges, 1)
	r := bar.Ranges[0]
	assert.Equal(t, "band", r.Key)
	assert.Equal(t, slider.HandleKey("a"), r.Start)
	assert.Equal(t, slider.HandleKey("b"), r.Stop)
	assert.True(t, r.Pull)
	assert.Equal(t, 15.0, *r.Min)
	assert.Equal(t, RangeElement(0), r.Element)

	assert.Equal(t, "#3a3a3a", doc.Theme.Track)
	assert.Equal(t, "info", doc.Log.Level)
}

func TestDecodeArrays(t *testing.T) {
	doc, err := decodeTOML(t, `
[[handles]]
value = 30

[[handles]]
key = "hi"
value = 70

[[ranges]]
start = { handle = 0 }
stop = { handle = "hi" }

[[ranges]]
start = 40
stop = { value = 95 }
`)
	require.NoError(t, err)

	require.Len(t, doc.Bar.Handles, 2)
	assert.Equal(t, "", doc.Bar.Handles[0].Key)
	assert.Equal(t, "hi", doc.Bar.Handles[1].Key)

	require.Len(t, doc.Bar.Ranges, 2)
	assert.Equal(t, slider.HandleAt(0), doc.Bar.Ranges[0].Start)
	assert.Equal(t, slider.HandleKey("hi"), doc.Bar.Ranges[0].Stop)
	assert.Equal(t, slider.Fixed(40), doc.Bar.Ranges[1].Start)
	assert.Equal(t, slider.Fixed(95), doc.Bar.Ranges[1].Stop)
}

func TestDecodeYAMLAndJSONNumbers(t *testing.T) {
	raw, err := loader.Parse(loader.FormatYAML, "t.yaml", []byte("max: 50\nhandles:\n  - value: 7\n"))
	require.NoError(t, err)
	doc, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, 50.0, doc.Bar.Max)
	assert.Equal(t, 7.0, doc.Bar.Handles[0].Value)

	raw, err = loader.Parse(loader.FormatJSON, "t.json", []byte(`{"max": 50, "ranges": [{"start": 5}]}`))
	require.NoError(t, err)
	doc, err = Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, slider.Fixed(5), doc.Bar.Ranges[0].Start)
	assert.True(t, doc.Bar.Ranges[0].Stop.IsZero())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		path string
		want error
	}{
		{"unknown top level", "colour = 1", "colour", ErrUnknownKey},
		{"bad number", `max = "lots"`, "max", ErrTypeMismatch},
		{"unknown handle field", "[handles.a]\nspeed = 1", "handles.a.speed", ErrUnknownKey},
		{"bad handle table", "handles = { a = 1 }", "handles.a", ErrTypeMismatch},
		{"bad endpoint", "[ranges.r]\nstart = true", "ranges.r.start", ErrTypeMismatch},
		{"empty endpoint table", "[ranges.r]\nstart = {}", "ranges.r.start", ErrTypeMismatch},
		{"fractional index", "[ranges.r]\nstart = { handle = 1.5 }", "ranges.r.start.handle", ErrTypeMismatch},
		{"bad theme", "[theme]\ntrack = 3", "theme.track", ErrTypeMismatch},
		{"unknown log key", "[log]\nfile = 'x'", "log.file", ErrUnknownKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeTOML(t, tt.src)
			require.Error(t, err)

			var fe *FieldError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.path, fe.Path)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCompileTransforms(t *testing.T) {
	doc, err := decodeTOML(t, `
[handles.a]
value = 10
transform = "math.floor(v / 10) * 10"

[handles.b]
value = 50
`)
	require.NoError(t, err)

	exprs, err := doc.CompileTransforms(zerolog.Nop())
	require.NoError(t, err)
	defer func() {
		for _, e := range exprs {
			e.Close()
		}
	}()
	require.Len(t, exprs, 1)
	require.NotNil(t, doc.Bar.Handles[0].Transform)
	assert.Nil(t, doc.Bar.Handles[1].Transform)

	b, err := slider.New(doc.Bar)
	require.NoError(t, err)
	a, _ := b.Handle("a")
	require.NoError(t, b.SetValue(a, 37))
	assert.Equal(t, 30.0, b.Value(a))
}

func TestCompileTransformsError(t *testing.T) {
	doc, err := decodeTOML(t, "[handles.a]\ntransform = \"v +* 1\"")
	require.NoError(t, err)

	_, err = doc.CompileTransforms(zerolog.Nop())
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "handles[0].transform", fe.Path)
}
