package config

import (
	"fmt"

	"github.com/dshills/rangebar/internal/slider"
)

// Element names assigned to the bar parts. Surfaces register their drawing
// regions under these names.
const TrackElement slider.Element = "track"

// HandleElement returns the element name of the i-th handle.
func HandleElement(i int) slider.Element {
	return slider.Element(fmt.Sprintf("handle/%d", i))
}

// RangeElement returns the element name of the i-th range.
func RangeElement(i int) slider.Element {
	return slider.Element(fmt.Sprintf("range/%d", i))
}

// Theme holds the terminal colors as hex strings and the handle glyph.
type Theme struct {
	Track       string
	Range       string
	Handle      string
	Focus       string
	Disabled    string
	HandleGlyph string
}

// LogSettings selects the log level and format.
type LogSettings struct {
	Level  string
	Format string
}

// Document is a decoded configuration.
type Document struct {
	// Bar is ready for slider.New except for handle transforms; see
	// CompileTransforms.
	Bar slider.Config

	Theme Theme
	Log   LogSettings

	// Transforms holds the Lua source of each handle transform, indexed
	// like Bar.Handles. Handles without a transform have "".
	Transforms []string
}

// Defaults returns the built-in configuration layer.
func Defaults() map[string]any {
	return map[string]any{
		"min":          0.0,
		"max":          100.0,
		"step":         0.0,
		"keydown_step": 1.0,
		"disabled":     false,
		"vertical":     false,
		"theme": map[string]any{
			"track":        "#3a3a3a",
			"range":        "#2f81f7",
			"handle":       "#e6e6e6",
			"focus":        "#f0b429",
			"disabled":     "#6e6e6e",
			"handle_glyph": "█",
		},
		"log": map[string]any{
			"level":  "info",
			"format": "console",
		},
	}
}
