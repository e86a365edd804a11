// Package sizing maps raw tensor shapes to pixel-space box dimensions.
//
// The resolver projects a tensor of any rank onto three visual axes:
// the first spatial axis becomes x (horizontal extent), the second
// becomes y (vertical extent), and the product of every remaining axis
// becomes z (the channel/depth axis). Rank-1 tensors are placed on a
// single axis chosen by [Config.OneDimOrientation].
//
// Five policies trade dimensional fidelity against legibility:
//
//   - accurate: linear scaling, clamped per axis
//   - balanced: square-root compression before scaling
//   - capped: linear scaling with a hard per-axis ceiling
//   - logarithmic: log1p compression before scaling
//   - relative: exact proportionality, no clamping beyond 1px
//
// Every policy returns whole-pixel dimensions of at least 1 on each axis.
package sizing

import (
	"math"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
)

// Mode selects the shape → pixel policy.
type Mode string

// Supported sizing policies.
const (
	ModeAccurate    Mode = "accurate"
	ModeBalanced    Mode = "balanced"
	ModeCapped      Mode = "capped"
	ModeLogarithmic Mode = "logarithmic"
	ModeRelative    Mode = "relative"
)

// Modes lists every supported policy, for flag validation and help text.
func Modes() []Mode {
	return []Mode{ModeAccurate, ModeBalanced, ModeCapped, ModeLogarithmic, ModeRelative}
}

// Valid reports whether the mode is one of the supported policies.
func (m Mode) Valid() bool {
	switch m {
	case ModeAccurate, ModeBalanced, ModeCapped, ModeLogarithmic, ModeRelative:
		return true
	}
	return false
}

// Compression boosts keep compressed values visually comparable to the
// linear policies: sqrt and log1p collapse large magnitudes hard, so a
// constant factor lifts small layers back above the minimum clamp.
const (
	balancedBoost    = 8.0
	logarithmicBoost = 12.0
)

// Caps are the hard per-axis ceilings for [ModeCapped], in pixels after
// scaling. Channels applies to the z axis, Sequence to rank-1 shapes,
// General to everything else.
type Caps struct {
	Channels float64 `json:"channels" toml:"channels" bson:"channels"`
	Sequence float64 `json:"sequence" toml:"sequence" bson:"sequence"`
	General  float64 `json:"general" toml:"general" bson:"general"`
}

// Config carries the numeric knobs shared by all policies.
type Config struct {
	ScaleXY float64 `json:"scale_xy" toml:"scale_xy" bson:"scale_xy"`
	ScaleZ  float64 `json:"scale_z" toml:"scale_z" bson:"scale_z"`

	MinXY float64 `json:"min_xy" toml:"min_xy" bson:"min_xy"`
	MinZ  float64 `json:"min_z" toml:"min_z" bson:"min_z"`
	MaxXY float64 `json:"max_xy" toml:"max_xy" bson:"max_xy"`
	MaxZ  float64 `json:"max_z" toml:"max_z" bson:"max_z"`

	// DimensionCaps bounds [ModeCapped]; ignored by other policies.
	DimensionCaps Caps `json:"dimension_caps" toml:"dimension_caps" bson:"dimension_caps"`

	// RelativeBase is the pixels-per-unit factor for [ModeRelative].
	RelativeBase float64 `json:"relative_base_size" toml:"relative_base_size" bson:"relative_base_size"`

	// OneDimOrientation places rank-1 tensors on "x", "y", or "z".
	OneDimOrientation string `json:"one_dim_orientation" toml:"one_dim_orientation" bson:"one_dim_orientation"`
}

// DefaultConfig returns the rendering defaults.
func DefaultConfig() Config {
	return Config{
		ScaleXY:           4,
		ScaleZ:            0.1,
		MinXY:             20,
		MinZ:              20,
		MaxXY:             2000,
		MaxZ:              400,
		DimensionCaps:     Caps{Channels: 512, Sequence: 1024, General: 2000},
		RelativeBase:      10,
		OneDimOrientation: "z",
	}
}

// Validate rejects conflicting configuration for the given mode.
// Bounds are checked at entry rather than silently clamped.
func (c Config) Validate(mode Mode) error {
	if !mode.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported sizing mode %q", mode)
	}
	switch c.OneDimOrientation {
	case "x", "y", "z":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported one_dim_orientation %q", c.OneDimOrientation)
	}
	if mode == ModeRelative {
		if c.RelativeBase <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "relative_base_size must be positive, got %g", c.RelativeBase)
		}
		return nil
	}
	if c.ScaleXY <= 0 || c.ScaleZ <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale factors must be positive (scale_xy=%g, scale_z=%g)", c.ScaleXY, c.ScaleZ)
	}
	if c.MinXY < 1 || c.MinZ < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "minimum sizes must be at least 1 pixel (min_xy=%g, min_z=%g)", c.MinXY, c.MinZ)
	}
	if c.MaxXY < c.MinXY || c.MaxZ < c.MinZ {
		return errors.New(errors.ErrCodeInvalidConfig, "maximum sizes must not be below minimums")
	}
	if mode == ModeCapped {
		if c.DimensionCaps.Channels <= 0 || c.DimensionCaps.Sequence <= 0 || c.DimensionCaps.General <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "dimension_caps must be positive, got %+v", c.DimensionCaps)
		}
	}
	return nil
}

// Dimensions is a resolved pixel-space box: x is the horizontal extent,
// y the vertical extent, z the projected depth. All components are
// whole pixels >= 1.
type Dimensions struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	Z float64 `json:"z" bson:"z"`
}

// axisClass distinguishes clamp bounds and cap selection per axis.
type axisClass int

const (
	axisXY axisClass = iota
	axisZ
)

// Resolve maps a raw tensor shape (batch dimension already stripped)
// to pixel dimensions under the given policy.
//
// Shapes with only unknown entries resolve to the minimal 1×1×1 raw
// size instead of failing; a partial render is more useful than none.
// Known dimensions <= 0 are rejected with INVALID_SHAPE.
func Resolve(shape model.Shape, mode Mode, cfg Config) (Dimensions, error) {
	if err := cfg.Validate(mode); err != nil {
		return Dimensions{}, err
	}
	if err := shape.Validate(); err != nil {
		return Dimensions{}, err
	}

	rx, ry, rz, oneDim := project(shape, cfg.OneDimOrientation)

	d := Dimensions{
		X: resolveAxis(rx, mode, cfg, axisXY, oneDim),
		Y: resolveAxis(ry, mode, cfg, axisXY, oneDim),
		Z: resolveAxis(rz, mode, cfg, axisZ, oneDim),
	}
	return d, nil
}

// project collapses an arbitrary-rank shape onto the three visual axes.
// Unknown interior dimensions contribute a size of 1. The returned
// oneDim flag marks rank-1 shapes for sequence-cap selection.
func project(shape model.Shape, orientation string) (x, y, z float64, oneDim bool) {
	vals := make([]float64, 0, len(shape))
	for _, v := range shape {
		if v == model.Unknown {
			continue
		}
		vals = append(vals, float64(v))
	}

	x, y, z = 1, 1, 1
	switch len(vals) {
	case 0:
		// Unresolvable shape: minimal default, recovered locally.
	case 1:
		oneDim = true
		switch orientation {
		case "x":
			x = vals[0]
		case "y":
			y = vals[0]
		default:
			z = vals[0]
		}
	case 2:
		x, y = vals[0], vals[1]
	default:
		x, y = vals[0], vals[1]
		z = 1
		for _, v := range vals[2:] {
			z *= v
		}
	}
	return x, y, z, oneDim
}

// resolveAxis applies the policy to one raw axis value and returns a
// whole-pixel size >= 1.
func resolveAxis(v float64, mode Mode, cfg Config, class axisClass, oneDim bool) float64 {
	scale, lo, hi := cfg.ScaleXY, cfg.MinXY, cfg.MaxXY
	if class == axisZ {
		scale, lo, hi = cfg.ScaleZ, cfg.MinZ, cfg.MaxZ
	}

	var px float64
	switch mode {
	case ModeAccurate:
		px = clamp(v*scale, lo, hi)
	case ModeBalanced:
		px = clamp(math.Sqrt(v)*balancedBoost*scale, lo, hi)
	case ModeLogarithmic:
		px = clamp(math.Log1p(v)*logarithmicBoost*scale, lo, hi)
	case ModeCapped:
		px = clamp(v*scale, lo, capFor(cfg.DimensionCaps, class, oneDim))
	case ModeRelative:
		px = v * cfg.RelativeBase
	}

	return math.Max(1, math.Round(px))
}

// capFor picks the ceiling for capped mode: z axes carry the channel
// cap, rank-1 shapes the sequence cap, everything else the general cap.
func capFor(caps Caps, class axisClass, oneDim bool) float64 {
	switch {
	case class == axisZ:
		return caps.Channels
	case oneDim:
		return caps.Sequence
	default:
		return caps.General
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
