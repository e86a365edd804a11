package layered

import (
	"github.com/layerviz/layerviz/pkg/model"
)

// legendSwatchGap is the base gap between a swatch and its text.
const legendSwatchGap = 6

// buildLegend appends one swatch/text entry per distinct layer type in
// first-seen order across the rendered boxes. With ShowDimension set,
// entries are keyed by type and output shape instead, and the shape is
// printed on a second line. The canvas grows to fit.
func buildLegend(d *Diagram, m *model.Model, opts Options) error {
	seen := make(map[string]bool)
	swatch := opts.Font.LineHeight()
	gap := legendSwatchGap + opts.LegendTextSpacingOffset

	y := d.Height
	for i := range d.Boxes {
		b := &d.Boxes[i]
		layer := m.Layers[b.LayerIndex]
		shape, _ := layer.PrimaryShape()

		key := b.Type
		text := b.Type
		if opts.ShowDimension {
			key = b.Type + "|" + shape.String()
			text = b.Type + "\n" + shape.String()
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		textW, textH := opts.Font.Measure(text)
		entryH := max(swatch, textH) + opts.TextVSpacing
		entry := LegendEntry{
			Text:       text,
			Fill:       b.Fill,
			Outline:    b.Outline,
			SwatchX:    opts.Padding,
			SwatchY:    y,
			SwatchSize: swatch,
			TextX:      opts.Padding + swatch + gap,
			TextY:      y,
			Width:      swatch + gap + textW,
			Height:     entryH,
		}
		d.Legend = append(d.Legend, entry)
		y += entryH

		if right := entry.TextX + textW + opts.Padding; right > d.Width {
			d.Width = right
		}
	}

	if len(d.Legend) > 0 {
		d.Height = y + opts.VerticalPadding
	}
	return nil
}
