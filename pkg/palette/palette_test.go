package palette

import (
	"testing"

	"github.com/layerviz/layerviz/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Color
		wantErr bool
	}{
		{name: "opaque hex", input: "#ffd166", want: Color{0xff, 0xd1, 0x66, 0xff}},
		{name: "hex with alpha", input: "#0000ff80", want: Color{0, 0, 0xff, 0x80}},
		{name: "missing hash", input: "ffd166", wantErr: true},
		{name: "garbage", input: "#zzzzzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrCodeInvalidColor) {
					t.Errorf("Parse(%q) = %v, want INVALID_COLOR", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := Color{0x11, 0x8a, 0xb2, 0xff}
	if got := c.Hex(); got != "#118ab2" {
		t.Errorf("Hex() = %q, want #118ab2", got)
	}
	translucent := Color{0x11, 0x8a, 0xb2, 0x80}
	if got := translucent.Hex(); got != "#118ab280" {
		t.Errorf("Hex() = %q, want #118ab280", got)
	}
}

func TestShadeClamps(t *testing.T) {
	light := Color{250, 250, 250, 200}.Shade(20)
	if light != (Color{255, 255, 255, 200}) {
		t.Errorf("Shade(+20) = %+v, want clamped to 255 with alpha kept", light)
	}
	dark := Color{5, 5, 5, 255}.Shade(-20)
	if dark != (Color{0, 0, 0, 255}) {
		t.Errorf("Shade(-20) = %+v, want clamped to 0", dark)
	}
}

func TestWheelCyclesAndCaches(t *testing.T) {
	w := NewWheel()

	first := w.Color("Conv2D")
	second := w.Color("Dense")
	if first == second {
		t.Error("distinct types got the same wheel color")
	}
	if again := w.Color("Conv2D"); again != first {
		t.Errorf("repeated lookup = %+v, want stable %+v", again, first)
	}

	// The sixth distinct type wraps around to the first palette entry.
	for _, tag := range []string{"A", "B", "C"} {
		w.Color(tag)
	}
	if wrapped := w.Color("F"); wrapped != first {
		t.Errorf("sixth type = %+v, want wrap to %+v", wrapped, first)
	}
}

func TestWheelResolve(t *testing.T) {
	w := NewWheel()
	specs := map[string]Spec{
		"Dense": {Fill: "#112233", Outline: "#445566"},
	}

	fill, outline, err := w.Resolve("Dense", specs)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fill != (Color{0x11, 0x22, 0x33, 0xff}) {
		t.Errorf("fill = %+v, want spec fill", fill)
	}
	if outline != (Color{0x44, 0x55, 0x66, 0xff}) {
		t.Errorf("outline = %+v, want spec outline", outline)
	}

	fill, outline, err = w.Resolve("Conv2D", specs)
	if err != nil {
		t.Fatalf("Resolve() fallback error = %v", err)
	}
	if outline != Black {
		t.Errorf("fallback outline = %+v, want black", outline)
	}
	if fill == (Color{}) {
		t.Error("fallback fill is zero, want wheel color")
	}

	if _, _, err := w.Resolve("Bad", map[string]Spec{"Bad": {Fill: "nope"}}); err == nil {
		t.Error("Resolve() with invalid spec = nil error, want INVALID_COLOR")
	}
}

func TestWheelResolveMappedTypeKeepsWheelStable(t *testing.T) {
	specs := map[string]Spec{
		"Dense": {Fill: "#112233"},
	}

	w := NewWheel()
	if _, _, err := w.Resolve("Dense", specs); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	fill, _, err := w.Resolve("Conv2D", specs)
	if err != nil {
		t.Fatalf("Resolve() fallback error = %v", err)
	}

	// The mapped type must not shift the cyclic fallback: Conv2D gets
	// the same color as on a wheel with no mappings at all.
	want := NewWheel().Color("Conv2D")
	if fill != want {
		t.Errorf("fallback fill after mapped type = %+v, want %+v", fill, want)
	}

	// An outline-only mapping still takes its fill from the wheel.
	w2 := NewWheel()
	fill2, outline, err := w2.Resolve("Flatten", map[string]Spec{
		"Flatten": {Outline: "#445566"},
	})
	if err != nil {
		t.Fatalf("Resolve() outline-only error = %v", err)
	}
	if fill2 != NewWheel().Color("Flatten") {
		t.Errorf("outline-only fill = %+v, want first wheel color", fill2)
	}
	if outline != (Color{0x44, 0x55, 0x66, 0xff}) {
		t.Errorf("outline = %+v, want spec outline", outline)
	}
}
