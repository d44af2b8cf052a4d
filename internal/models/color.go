package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a tracker's display color. The catalog does not interpret it
// beyond round-tripping the persisted "#RRGGBB" form.
type Color struct {
	c colorful.Color
}

// ParseColor accepts "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseColor(hex string) (Color, error) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return Color{c: c}, nil
}

// MustParseColor is ParseColor for compile-time constants; it panics on
// malformed input.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// ColorFromRGB builds a color from 0..255 components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{c: colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}}
}

// Hex returns the persisted upper-case "#RRGGBB" form.
func (c Color) Hex() string {
	return strings.ToUpper(c.c.Clamped().Hex())
}

func (c Color) RGB255() (r, g, b uint8) {
	return c.c.Clamped().RGB255()
}

func (c Color) String() string {
	return c.Hex()
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var hex string
	if err := json.Unmarshal(data, &hex); err != nil {
		return err
	}
	parsed, err := ParseColor(hex)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Palette is the set of selection colors offered when creating a tracker.
var Palette = []Color{
	MustParseColor("#FD4C49"), MustParseColor("#FF881E"), MustParseColor("#007BFA"),
	MustParseColor("#6E44FE"), MustParseColor("#33CF69"), MustParseColor("#E66DD4"),
	MustParseColor("#F9D4D4"), MustParseColor("#34A7FE"), MustParseColor("#46E69D"),
	MustParseColor("#35347C"), MustParseColor("#FF674D"), MustParseColor("#FF99CC"),
	MustParseColor("#F6C48B"), MustParseColor("#7994F5"), MustParseColor("#832CF1"),
	MustParseColor("#AD56DA"), MustParseColor("#8D72E6"), MustParseColor("#2FD058"),
}
