package sizing

import (
	"testing"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
)

func TestResolveAlwaysPositive(t *testing.T) {
	shapes := []model.Shape{
		{1},
		{1, 1},
		{224, 224, 3},
		{7, 7, 512},
		{1000000},
		{2, 3, 4, 5, 6},
		{model.Unknown},
		{model.Unknown, model.Unknown},
		{},
	}

	for _, mode := range Modes() {
		for _, shape := range shapes {
			d, err := Resolve(shape, mode, DefaultConfig())
			if err != nil {
				t.Fatalf("Resolve(%v, %s) error = %v", shape, mode, err)
			}
			if d.X < 1 || d.Y < 1 || d.Z < 1 {
				t.Errorf("Resolve(%v, %s) = %+v, want all axes >= 1", shape, mode, d)
			}
		}
	}
}

func TestResolveRelativeProportional(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RelativeBase = 10
	cfg.OneDimOrientation = "x"

	big, err := Resolve(model.Shape{64}, ModeRelative, cfg)
	if err != nil {
		t.Fatalf("Resolve(64) error = %v", err)
	}
	small, err := Resolve(model.Shape{32}, ModeRelative, cfg)
	if err != nil {
		t.Fatalf("Resolve(32) error = %v", err)
	}

	if big.X != 640 {
		t.Errorf("Resolve(64).X = %g, want 640", big.X)
	}
	if small.X != 320 {
		t.Errorf("Resolve(32).X = %g, want 320", small.X)
	}
	if big.X != 2*small.X {
		t.Errorf("proportionality violated: %g vs 2*%g", big.X, small.X)
	}
}

func TestResolveCappedNeverExceedsCaps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DimensionCaps = Caps{Channels: 100, Sequence: 150, General: 200}

	tests := []struct {
		name  string
		shape model.Shape
	}{
		{name: "moderate conv shape", shape: model.Shape{224, 224, 64}},
		{name: "extreme channels", shape: model.Shape{8, 8, 1000000}},
		{name: "extreme spatial", shape: model.Shape{1000000, 1000000, 3}},
		{name: "extreme sequence", shape: model.Shape{1000000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Resolve(tt.shape, ModeCapped, cfg)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if d.Z > cfg.DimensionCaps.Channels {
				t.Errorf("Z = %g exceeds channel cap %g", d.Z, cfg.DimensionCaps.Channels)
			}
			limitXY := cfg.DimensionCaps.General
			if len(tt.shape) == 1 {
				limitXY = cfg.DimensionCaps.Sequence
			}
			if d.X > limitXY || d.Y > limitXY {
				t.Errorf("X/Y = %g/%g exceed cap %g", d.X, d.Y, limitXY)
			}
		})
	}
}

func TestResolveCompressiveModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxXY = 1 << 30 // disable the ceiling so the curves are observable

	linear, _ := Resolve(model.Shape{10000, 4}, ModeAccurate, cfg)
	balanced, _ := Resolve(model.Shape{10000, 4}, ModeBalanced, cfg)
	logged, _ := Resolve(model.Shape{10000, 4}, ModeLogarithmic, cfg)

	if balanced.X >= linear.X {
		t.Errorf("balanced X = %g, want below linear %g", balanced.X, linear.X)
	}
	if logged.X >= balanced.X {
		t.Errorf("logarithmic X = %g, want below balanced %g", logged.X, balanced.X)
	}

	// Monotonic: a larger raw value never yields a smaller pixel size.
	smaller, _ := Resolve(model.Shape{100, 4}, ModeBalanced, cfg)
	if smaller.X > balanced.X {
		t.Errorf("balanced not monotonic: f(100)=%g > f(10000)=%g", smaller.X, balanced.X)
	}
}

func TestResolveRankReduction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RelativeBase = 1

	// Rank 4: overflow axes multiply into z.
	d, err := Resolve(model.Shape{8, 9, 10, 11}, ModeRelative, cfg)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if d.X != 8 || d.Y != 9 || d.Z != 110 {
		t.Errorf("rank-4 projection = %+v, want {8 9 110}", d)
	}

	// Rank 2: z defaults to 1.
	d, _ = Resolve(model.Shape{12, 13}, ModeRelative, cfg)
	if d.X != 12 || d.Y != 13 || d.Z != 1 {
		t.Errorf("rank-2 projection = %+v, want {12 13 1}", d)
	}
}

func TestResolveOneDimOrientation(t *testing.T) {
	tests := []struct {
		orientation string
		want        Dimensions
	}{
		{orientation: "x", want: Dimensions{X: 50, Y: 1, Z: 1}},
		{orientation: "y", want: Dimensions{X: 1, Y: 50, Z: 1}},
		{orientation: "z", want: Dimensions{X: 1, Y: 1, Z: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.orientation, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.RelativeBase = 1
			cfg.OneDimOrientation = tt.orientation

			d, err := Resolve(model.Shape{50}, ModeRelative, cfg)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if d != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", d, tt.want)
			}
		})
	}
}

func TestResolveUnknownOnlyShape(t *testing.T) {
	d, err := Resolve(model.Shape{model.Unknown, model.Unknown}, ModeAccurate, DefaultConfig())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Raw 1×1×1 scaled then clamped to the minimums.
	cfg := DefaultConfig()
	if d.X != cfg.MinXY || d.Y != cfg.MinXY || d.Z != cfg.MinZ {
		t.Errorf("Resolve() = %+v, want minimum sizes", d)
	}
}

func TestResolveRejectsInvalidShape(t *testing.T) {
	_, err := Resolve(model.Shape{0}, ModeAccurate, DefaultConfig())
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("Resolve({0}) = %v, want INVALID_SHAPE", err)
	}
	_, err = Resolve(model.Shape{-5, 3}, ModeAccurate, DefaultConfig())
	if !errors.Is(err, errors.ErrCodeInvalidShape) {
		t.Errorf("Resolve({-5,3}) = %v, want INVALID_SHAPE", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mode   Mode
		mutate func(*Config)
		ok     bool
	}{
		{name: "defaults accurate", mode: ModeAccurate, mutate: func(c *Config) {}, ok: true},
		{name: "defaults relative", mode: ModeRelative, mutate: func(c *Config) {}, ok: true},
		{name: "bad mode", mode: Mode("huge"), mutate: func(c *Config) {}, ok: false},
		{name: "zero cap", mode: ModeCapped, mutate: func(c *Config) { c.DimensionCaps.Channels = 0 }, ok: false},
		{name: "negative relative base", mode: ModeRelative, mutate: func(c *Config) { c.RelativeBase = -1 }, ok: false},
		{name: "zero scale", mode: ModeAccurate, mutate: func(c *Config) { c.ScaleXY = 0 }, ok: false},
		{name: "max below min", mode: ModeAccurate, mutate: func(c *Config) { c.MaxXY = 5 }, ok: false},
		{name: "bad orientation", mode: ModeAccurate, mutate: func(c *Config) { c.OneDimOrientation = "w" }, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate(tt.mode)
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
