// Package palette resolves layer type tags to drawing colors.
//
// Colors are specified as hex strings ("#RRGGBB" or "#RRGGBBAA").
// Types without an explicit mapping fall back to a cyclic default
// palette: the first distinct type gets the first palette color, the
// second the next, wrapping around. The assignment is stable within a
// single wheel (one rendering call) but not across calls that see
// types in a different order.
package palette

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/layerviz/layerviz/pkg/errors"
)

// Color is an 8-bit RGBA drawing color.
type Color struct {
	R, G, B, A uint8
}

// Default drawing colors.
var (
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
	Gray        = Color{128, 128, 128, 255}
	Transparent = Color{0, 0, 0, 0}
)

// defaultWheel is the process-wide fallback palette, read-only.
var defaultWheel = []Color{
	{0xff, 0xd1, 0x66, 0xff},
	{0xef, 0x47, 0x6f, 0xff},
	{0x06, 0xd6, 0xa0, 0xff},
	{0x11, 0x8a, 0xb2, 0xff},
	{0x07, 0x3b, 0x4c, 0xff},
}

// Parse converts a "#RRGGBB" or "#RRGGBBAA" hex string to a Color.
func Parse(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return Color{}, errors.New(errors.ErrCodeInvalidColor, "color %q must be hex (#RRGGBB or #RRGGBBAA)", s)
	}

	hex := s
	alpha := uint8(255)
	if len(s) == 9 {
		var a int
		if _, err := fmt.Sscanf(s[7:9], "%02x", &a); err != nil {
			return Color{}, errors.New(errors.ErrCodeInvalidColor, "invalid alpha in color %q", s)
		}
		alpha = uint8(a)
		hex = s[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	r, g, b := c.RGB255()
	return Color{R: r, G: g, B: b, A: alpha}, nil
}

// MustParse is Parse for compile-time constants; it panics on error.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats the color as "#RRGGBB" or "#RRGGBBAA" when translucent.
func (c Color) Hex() string {
	if c.A != 255 {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shade lightens (delta > 0) or darkens (delta < 0) the color by adding
// delta to each RGB channel, clamped to [0, 255]. Alpha is preserved.
// Used to fake a light source on the visible faces of volumetric boxes.
func (c Color) Shade(delta int) Color {
	return Color{
		R: clampChannel(int(c.R) + delta),
		G: clampChannel(int(c.G) + delta),
		B: clampChannel(int(c.B) + delta),
		A: c.A,
	}
}

// RGBA implements image/color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}.RGBA()
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Spec is a caller-supplied color override for one layer type.
// Empty fields fall back to the wheel (fill) or black (outline).
type Spec struct {
	Fill    string `json:"fill,omitempty" toml:"fill" bson:"fill,omitempty"`
	Outline string `json:"outline,omitempty" toml:"outline" bson:"outline,omitempty"`
}

// Wheel assigns fill colors to type tags, cycling through the default
// palette for types with no explicit mapping. A Wheel is cheap and
// single-use: create one per rendering call.
type Wheel struct {
	colors   []Color
	assigned map[string]Color
}

// NewWheel creates a wheel over the default palette.
func NewWheel() *Wheel {
	return &Wheel{colors: defaultWheel, assigned: make(map[string]Color)}
}

// Color returns the fill for a type tag, assigning the next palette
// color on first sight. Repeated lookups are stable.
func (w *Wheel) Color(typeTag string) Color {
	if c, ok := w.assigned[typeTag]; ok {
		return c
	}
	c := w.colors[len(w.assigned)%len(w.colors)]
	w.assigned[typeTag] = c
	return c
}

// Resolve picks fill and outline for a type tag: the explicit spec when
// present and parseable, otherwise the wheel fill and a black outline.
// Types with an explicit fill never consume a wheel slot, so the
// cyclic fallback colors of unmapped types are independent of the
// mappings.
func (w *Wheel) Resolve(typeTag string, specs map[string]Spec) (fill, outline Color, err error) {
	outline = Black

	spec, ok := specs[typeTag]
	if ok && spec.Fill != "" {
		if fill, err = Parse(spec.Fill); err != nil {
			return Color{}, Color{}, err
		}
	} else {
		fill = w.Color(typeTag)
	}
	if ok && spec.Outline != "" {
		if outline, err = Parse(spec.Outline); err != nil {
			return Color{}, Color{}, err
		}
	}
	return fill, outline, nil
}
