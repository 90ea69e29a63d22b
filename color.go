package backdrop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/backdrop/field"
)

// Color is an sRGB color with components in [0, 1].
type Color = colorful.Color

// ErrInvalidColor is returned when a color string cannot be parsed.
var ErrInvalidColor = errors.New("backdrop: invalid color")

// Default gradient colors: cyan to magenta.
var (
	DefaultColor1 = field.DefaultColor1 // #00D4FF
	DefaultColor2 = field.DefaultColor2 // #FF3366
)

// SiteBackground is the page color hosts paint behind the transparent
// surface.
var SiteBackground = MustParseColor("#0A0A30")

// ParseColor parses a hex color in "#RGB" or "#RRGGBB" form.
// The leading '#' is optional.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q: %w", ErrInvalidColor, s, err)
	}
	return c, nil
}

// MustParseColor is like ParseColor but panics on error.
// Use it for compile-time constants.
func MustParseColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
