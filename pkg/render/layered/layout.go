// Package layered turns a layer graph into the classic stacked-volume
// diagram: one projected box per layer, laid out left to right along a
// shared horizontal midline, with funnel connectors bridging adjacent
// boxes.
package layered

import (
	"fmt"
	"slices"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/palette"
	"github.com/layerviz/layerviz/pkg/sizing"
)

// flatDepth is the minimal depth assigned to boxes rendered without
// volume.
const flatDepth = 1

// Layout computes the layered diagram for m. The model is not
// modified. An empty model (or one whose layers are all ignored)
// yields a diagram with no boxes and padding-only extents.
func Layout(m *model.Model, opts Options) (*Diagram, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	if !opts.Mode.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown sizing mode %q", opts.Mode)
	}
	if err := opts.Sizing.Validate(opts.Mode); err != nil {
		return nil, err
	}
	if (opts.Legend || opts.Text != nil) && opts.Font == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "font metrics required for legend or text annotations")
	}
	background, err := palette.Parse(opts.Background)
	if err != nil {
		return nil, err
	}

	d := &Diagram{Background: background}
	wheel := palette.NewWheel()

	// Cursor walk: each rendered box advances the cursor by its width
	// plus spacing; spacing markers widen the next gap without
	// consuming a callback index.
	cursorX := opts.Padding
	rendered := 0
	for i, layer := range m.Layers {
		if layer.IsSpacer() {
			cursorX += float64(layer.Spacing)
			continue
		}
		if slices.Contains(opts.TypeIgnore, layer.Type) || slices.Contains(opts.IndexIgnore, i) {
			continue
		}

		shape, multi := layer.PrimaryShape()
		if multi {
			d.Warnings = append(d.Warnings, fmt.Sprintf("layer %q has multiple output shapes; rendering the first", layer.Name))
		}
		dims, err := sizing.Resolve(shape.Spatial(), opts.Mode, opts.Sizing)
		if err != nil {
			return nil, err
		}

		flat := !opts.DrawVolume || slices.Contains(opts.Index2D, i)
		de := dims.Z / 3
		shade := opts.ShadeStep
		if flat {
			dims.Z = flatDepth
			de = 0
			shade = 0
		}

		fill, outline, err := wheel.Resolve(layer.Type, opts.ColorMap)
		if err != nil {
			return nil, err
		}

		d.Boxes = append(d.Boxes, Box{
			Index:      rendered,
			LayerIndex: i,
			Type:       layer.Type,
			Dims:       dims,
			X1:         cursorX,
			X2:         cursorX + dims.X,
			De:         de,
			Fill:       fill,
			Outline:    outline,
			Shade:      shade,
			Flat:       flat,
		})
		cursorX += dims.X + opts.Spacing
		rendered++
	}

	if len(d.Boxes) == 0 {
		d.Width = 2 * opts.Padding
		d.Height = 2 * opts.VerticalPadding
		return d, nil
	}

	// Vertical placement: every box is centered on the shared midline.
	// A box's full vertical extent is its height plus the oblique
	// offset reaching above the front face.
	maxExtent := 0.0
	for i := range d.Boxes {
		if e := d.Boxes[i].Dims.Y + d.Boxes[i].De; e > maxExtent {
			maxExtent = e
		}
	}
	d.Height = maxExtent + 2*opts.VerticalPadding
	for i := range d.Boxes {
		b := &d.Boxes[i]
		b.Y1 = opts.VerticalPadding + b.De + (maxExtent-(b.Dims.Y+b.De))/2
		b.Y2 = b.Y1 + b.Dims.Y
	}

	// Canvas width covers the rightmost projected corner.
	rightmost := 0.0
	for i := range d.Boxes {
		if r := d.Boxes[i].X2 + d.Boxes[i].De; r > rightmost {
			rightmost = r
		}
	}
	d.Width = rightmost + opts.Padding

	if opts.DrawReversed {
		mirror(d)
	}
	if opts.DrawFunnel {
		d.Connectors = buildConnectors(d.Boxes)
	}
	if opts.Text != nil {
		if err := annotate(d, m, opts); err != nil {
			return nil, err
		}
	}
	if opts.Legend {
		if err := buildLegend(d, m, opts); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// mirror flips every box horizontally so the last declared layer sits
// leftmost. Box order and indices are unchanged.
func mirror(d *Diagram) {
	for i := range d.Boxes {
		b := &d.Boxes[i]
		x1 := d.Width - (b.X2 + b.De)
		b.X2 = x1 + b.Dims.X
		b.X1 = x1
	}
}

// annotate invokes the text callback for every rendered box and
// positions the returned strings above or below the box.
func annotate(d *Diagram, m *model.Model, opts Options) error {
	const textGap = 4
	for i := range d.Boxes {
		b := &d.Boxes[i]
		text, above := opts.Text(b.Index, m.Layers[b.LayerIndex])
		if text == "" {
			continue
		}
		w, h := opts.Font.Measure(text)
		x := (b.X1+b.X2)/2 - w/2
		var y float64
		if above {
			y = b.Y1 - b.De - h - textGap
		} else {
			y = b.Y2 + textGap
		}
		d.Labels = append(d.Labels, Label{
			BoxIndex: b.Index,
			Text:     text,
			X:        x,
			Y:        y,
			Above:    above,
		})
		// Grow the canvas when an annotation escapes it.
		if y < 0 {
			shift := -y
			for j := range d.Boxes {
				d.Boxes[j].Y1 += shift
				d.Boxes[j].Y2 += shift
			}
			for j := range d.Connectors {
				for k := range d.Connectors[j].Lines {
					d.Connectors[j].Lines[k].A.Y += shift
					d.Connectors[j].Lines[k].B.Y += shift
				}
			}
			for j := range d.Labels {
				d.Labels[j].Y += shift
			}
			d.Height += shift
		}
		if bottom := y + h; bottom > d.Height {
			d.Height = bottom + opts.VerticalPadding
		}
		if right := x + w; right > d.Width {
			d.Width = right + opts.Padding
		}
	}
	return nil
}
