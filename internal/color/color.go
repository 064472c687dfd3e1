// Package color provides small helpers for coloring terminal output using
// ANSI escape sequences. A Palette wraps text only when color was enabled at
// construction, so callers never branch on color support themselves.
//
//nolint:revive // package name conflicts with standard library
package color

// ANSI color codes
const (
	resetCode  = "\033[0m"
	greenCode  = "\033[32m"
	yellowCode = "\033[33m"
	redCode    = "\033[31m"
)

// Palette conditionally applies ANSI colors. The zero value never colors.
type Palette struct {
	enabled bool
}

// NewPalette creates a palette; when enabled is false every method returns
// its input unchanged.
func NewPalette(enabled bool) Palette {
	return Palette{enabled: enabled}
}

func (p Palette) wrap(code, text string) string {
	if !p.enabled {
		return text
	}
	return code + text + resetCode
}

// Red colors text in red.
func (p Palette) Red(text string) string { return p.wrap(redCode, text) }

// Yellow colors text in yellow.
func (p Palette) Yellow(text string) string { return p.wrap(yellowCode, text) }

// Green colors text in green.
func (p Palette) Green(text string) string { return p.wrap(greenCode, text) }
