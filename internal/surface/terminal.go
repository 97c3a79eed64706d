package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/uniseg"

	"github.com/dshills/rangebar/internal/config"
	"github.com/dshills/rangebar/internal/slider"
)

const (
	trackRune    = '─'
	trackRuneV   = '│'
	rangeRune    = '━'
	rangeRuneV   = '┃'
	marginCells  = 2
	helpText     = "←/→ step  tab focus  d disable  q quit"
	defaultGlyph = "█"
)

// Styles are the tcell styles derived from a theme.
type Styles struct {
	Track    tcell.Style
	Range    tcell.Style
	Handle   tcell.Style
	Focus    tcell.Style
	Disabled tcell.Style
	Text     tcell.Style
}

// ParseColor converts a hex color such as "#2f81f7" to a tcell color.
func ParseColor(hex string) (tcell.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), nil
}

// NewStyles builds the styles of theme. The text style is the disabled
// color blended halfway to the handle color.
func NewStyles(theme config.Theme) (Styles, error) {
	var st Styles
	parse := func(hex string, dst *tcell.Style) error {
		c, err := ParseColor(hex)
		if err != nil {
			return err
		}
		*dst = tcell.StyleDefault.Foreground(c)
		return nil
	}

	for _, f := range []struct {
		hex string
		dst *tcell.Style
	}{
		{theme.Track, &st.Track},
		{theme.Range, &st.Range},
		{theme.Handle, &st.Handle},
		{theme.Focus, &st.Focus},
		{theme.Disabled, &st.Disabled},
	} {
		if err := parse(f.hex, f.dst); err != nil {
			return Styles{}, err
		}
	}

	dim, _ := colorful.Hex(theme.Disabled)
	bright, _ := colorful.Hex(theme.Handle)
	r, g, b := dim.BlendLab(bright, 0.5).Clamped().RGB255()
	st.Text = tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	return st, nil
}

// Terminal is a slider.Surface drawn on a tcell screen. Geometry and
// listeners live in the embedded Memory.
type Terminal struct {
	*Memory

	screen tcell.Screen
	styles Styles
	glyph  string
	width  int

	mu sync.Mutex
}

// NewTerminal wraps screen. The screen is initialized by Init.
func NewTerminal(screen tcell.Screen, theme config.Theme) (*Terminal, error) {
	t := &Terminal{Memory: NewMemory(), screen: screen}
	if err := t.SetTheme(theme); err != nil {
		return nil, err
	}
	return t, nil
}

// Init initializes the screen and enables mouse reporting.
func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	return nil
}

// Shutdown restores the terminal.
func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

// PollEvent blocks until the next screen event. It returns nil once the
// screen is finalized.
func (t *Terminal) PollEvent() tcell.Event {
	return t.screen.PollEvent()
}

// Sync repaints the whole screen on the next Show.
func (t *Terminal) Sync() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Sync()
}

// SetTheme replaces the colors and the handle glyph.
func (t *Terminal) SetTheme(theme config.Theme) error {
	st, err := NewStyles(theme)
	if err != nil {
		return err
	}

	glyph := theme.HandleGlyph
	if glyph == "" {
		glyph = defaultGlyph
	}
	width := uniseg.StringWidth(glyph)
	if uniseg.GraphemeClusterCount(glyph) != 1 || width < 1 {
		return fmt.Errorf("handle glyph %q must be a single visible character", glyph)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.styles = st
	t.glyph = glyph
	t.width = width
	return nil
}

// HandleWidth returns the number of cells a handle glyph occupies.
func (t *Terminal) HandleWidth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// Fit lays the track out for the current screen size and returns the layout.
// Horizontal tracks sit on the middle row, vertical tracks in the middle
// column.
func (t *Terminal) Fit(vertical bool) Layout {
	t.mu.Lock()
	w, h := t.screen.Size()
	t.mu.Unlock()

	var l Layout
	if vertical {
		l = Layout{X: w / 2, Y: 1, Cells: h - 4, Vertical: true}
	} else {
		l = Layout{X: marginCells, Y: h/2 - 1, Cells: w - 2*marginCells}
	}
	l.Cells = max(l.Cells, 0)
	t.SetLayout(l)
	return l
}

// Draw renders b and a status line, then shows the screen.
func (t *Terminal) Draw(b *slider.Bar, status string) error {
	st, err := b.Snapshot()
	if err != nil {
		return err
	}

	l := t.Layout()
	focused := t.Focused()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
	styles := t.styles
	if st.Disabled {
		styles.Track = styles.Disabled
		styles.Range = styles.Disabled
		styles.Handle = styles.Disabled
		styles.Focus = styles.Disabled
	}

	tr, rr := trackRune, rangeRune
	if l.Vertical {
		tr, rr = trackRuneV, rangeRuneV
	}

	for i := 0; i < l.Cells; i++ {
		x, y := l.Cell(float64(i))
		t.screen.SetContent(x, y, tr, nil, styles.Track)
	}

	for _, rs := range st.Ranges {
		el := b.RangeElement(rs.ID)
		start, width, ok := t.Span(el)
		if !ok || width == 0 {
			continue
		}
		for off := start; off <= start+width; off++ {
			x, y := l.Cell(off)
			t.screen.SetContent(x, y, rr, nil, styles.Range)
		}
	}

	glyph := []rune(t.glyph)
	for _, hs := range st.Handles {
		el := b.HandleElement(hs.ID)
		off, ok := t.Placement(el)
		if !ok {
			continue
		}

		style := styles.Handle
		switch {
		case hs.Disabled:
			style = styles.Disabled
		case el == focused || hs.Dragging:
			style = styles.Focus
		}

		x, y := l.Cell(off)
		if !l.Vertical {
			x -= (t.width - 1) / 2
		}
		t.screen.SetContent(x, y, glyph[0], glyph[1:], style)
	}

	_, h := t.screen.Size()
	row := l.Y + 2
	if l.Vertical {
		row = h - 2
	}
	t.drawText(marginCells, row, status, styles.Text)
	t.drawText(marginCells, h-1, helpText, styles.Text)

	t.screen.Show()
	return nil
}

// drawText writes s from column x, one grapheme cluster per cell run.
func (t *Terminal) drawText(x, y int, s string, style tcell.Style) {
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		runes := g.Runes()
		t.screen.SetContent(x, y, runes[0], runes[1:], style)
		x += max(g.Width(), 1)
	}
}

// Status formats the handle values of b as "key=value" pairs.
func Status(b *slider.Bar) string {
	parts := make([]string, 0, b.NumHandles())
	for i, n := 0, b.NumHandles(); i < n; i++ {
		id := slider.HandleID(i)
		key := b.HandleKey(id)
		if key == "" {
			key = fmt.Sprintf("#%d", i)
		}
		parts = append(parts, fmt.Sprintf("%s=%g", key, b.Value(id)))
	}
	if b.Disabled() {
		parts = append(parts, "(disabled)")
	}
	return strings.Join(parts, "  ")
}
