package layered

import (
	"github.com/layerviz/layerviz/pkg/fonts"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/palette"
	"github.com/layerviz/layerviz/pkg/sizing"
)

// TextFunc produces an annotation for a rendered box. index is the
// box's callback index (spacing markers and ignored layers are never
// passed). Return an empty string to skip the box; above selects
// placement over or under the box.
type TextFunc func(index int, layer model.Layer) (text string, above bool)

// Options control the layered layout.
type Options struct {
	// Mode selects the sizing policy; Sizing carries its parameters.
	Mode   sizing.Mode   `json:"mode" toml:"mode" bson:"mode"`
	Sizing sizing.Config `json:"sizing" toml:"sizing" bson:"sizing"`

	// Spacing is the horizontal gap between consecutive boxes; Padding
	// and VerticalPadding frame the whole stack.
	Spacing         float64 `json:"spacing" toml:"spacing" bson:"spacing"`
	Padding         float64 `json:"padding" toml:"padding" bson:"padding"`
	VerticalPadding float64 `json:"vertical_padding" toml:"vertical_padding" bson:"vertical_padding"`

	// DrawVolume toggles the oblique 3D projection; DrawFunnel the
	// inter-box connectors; DrawReversed mirrors the stack so the last
	// layer sits leftmost.
	DrawVolume   bool `json:"draw_volume" toml:"draw_volume" bson:"draw_volume"`
	DrawFunnel   bool `json:"draw_funnel" toml:"draw_funnel" bson:"draw_funnel"`
	DrawReversed bool `json:"draw_reversed" toml:"draw_reversed" bson:"draw_reversed"`

	// ShadeStep is the lightness delta between box faces.
	ShadeStep int `json:"shade_step" toml:"shade_step" bson:"shade_step"`

	// TypeIgnore and IndexIgnore exclude layers from rendering by type
	// tag or declaration index. Index2D forces individual layers flat
	// by declaration index.
	TypeIgnore  []string `json:"type_ignore,omitempty" toml:"type_ignore" bson:"type_ignore,omitempty"`
	IndexIgnore []int    `json:"index_ignore,omitempty" toml:"index_ignore" bson:"index_ignore,omitempty"`
	Index2D     []int    `json:"index_2d,omitempty" toml:"index_2d" bson:"index_2d,omitempty"`

	// ColorMap overrides fill/outline per type tag; unmapped tags fall
	// back to the cyclic palette.
	ColorMap map[string]palette.Spec `json:"color_map,omitempty" toml:"color_map" bson:"color_map,omitempty"`

	// Background is the canvas color in hex notation.
	Background string `json:"background" toml:"background" bson:"background"`

	// Legend appends swatch/text entries below the stack;
	// ShowDimension adds the output shape to each entry on its own
	// line. TextVSpacing separates stacked entries and
	// LegendTextSpacingOffset widens the swatch-to-text gap.
	Legend                  bool    `json:"legend" toml:"legend" bson:"legend"`
	ShowDimension           bool    `json:"show_dimension" toml:"show_dimension" bson:"show_dimension"`
	TextVSpacing            float64 `json:"text_vspacing" toml:"text_vspacing" bson:"text_vspacing"`
	LegendTextSpacingOffset float64 `json:"legend_text_spacing_offset" toml:"legend_text_spacing_offset" bson:"legend_text_spacing_offset"`

	// Text, when set, is invoked once per rendered box.
	Text TextFunc `json:"-" toml:"-" bson:"-"`

	// Font supplies text metrics for the legend and labels. Required
	// when Legend or Text is set.
	Font fonts.Metrics `json:"-" toml:"-" bson:"-"`
}

// DefaultOptions mirror the conventional defaults of the layered view.
func DefaultOptions() Options {
	return Options{
		Mode:            sizing.ModeAccurate,
		Sizing:          sizing.DefaultConfig(),
		Spacing:         10,
		Padding:         10,
		VerticalPadding: 10,
		DrawVolume:      true,
		DrawFunnel:      true,
		ShadeStep:       10,
		Background:      "#ffffff",
		TextVSpacing:    4,
	}
}
