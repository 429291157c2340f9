package output

import (
	"github.com/fatih/color"
)

// Palette decorates highlighted names and the connectors leading to them.
// A disabled palette returns its input unchanged.
type Palette struct {
	enabled  bool
	emphasis *color.Color
	accent   *color.Color
}

// NewPalette builds a palette with bold red names and plain red connectors.
// Color output is forced on or off regardless of the terminal state.
func NewPalette(enabled bool) Palette {
	emphasis := color.New(color.Bold, color.FgRed)
	accent := color.New(color.FgRed)
	if enabled {
		emphasis.EnableColor()
		accent.EnableColor()
	} else {
		emphasis.DisableColor()
		accent.DisableColor()
	}
	return Palette{enabled: enabled, emphasis: emphasis, accent: accent}
}

// Enabled reports whether the palette emits escape sequences.
func (palette Palette) Enabled() bool {
	return palette.enabled
}

// Emphasize renders a matched entry name.
func (palette Palette) Emphasize(text string) string {
	if !palette.enabled || text == "" {
		return text
	}
	return palette.emphasis.Sprint(text)
}

// Accent renders one connector segment on a highlighted branch.
func (palette Palette) Accent(text string) string {
	if !palette.enabled || text == "" {
		return text
	}
	return palette.accent.Sprint(text)
}
