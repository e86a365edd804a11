package layered

import (
	"github.com/layerviz/layerviz/pkg/palette"
	"github.com/layerviz/layerviz/pkg/sizing"
)

// Point is a 2D canvas coordinate. The origin is the top-left corner;
// y grows downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Line is a straight segment between two points.
type Line struct {
	A Point `json:"a" bson:"a"`
	B Point `json:"b" bson:"b"`
}

// Box is one positioned, projected layer in the stack.
//
// The front face is the rectangle (X1,Y1)-(X2,Y2). Volumetric boxes
// extend up and to the right by the oblique offset De, producing the
// top and side faces. Boxes are immutable once the layout returns and
// are listed left-to-right in final cursor order; consumers must not
// re-sort them.
type Box struct {
	// Index is the callback index: the box's position among rendered
	// boxes, skipping ignored layers and spacing markers.
	Index int `json:"index" bson:"index"`

	// LayerIndex is the owning descriptor's declaration index.
	LayerIndex int `json:"layer_index" bson:"layer_index"`

	// Type is the layer's type tag.
	Type string `json:"type" bson:"type"`

	// Dims are the resolved pixel dimensions. Z holds the flat minimal
	// depth when the box is forced 2D.
	Dims sizing.Dimensions `json:"dims" bson:"dims"`

	// Front face corners.
	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`

	// De is the oblique projection offset (0 for flat boxes).
	De float64 `json:"de" bson:"de"`

	Fill    palette.Color `json:"fill" bson:"fill"`
	Outline palette.Color `json:"outline" bson:"outline"`

	// Shade is the lightness delta applied to the top (+) and side (-)
	// faces; 0 for flat boxes.
	Shade int `json:"shade" bson:"shade"`

	// Flat marks boxes rendered without volume.
	Flat bool `json:"flat,omitempty" bson:"flat,omitempty"`
}

// FrontFace returns the front rectangle as a closed polygon.
func (b *Box) FrontFace() []Point {
	return []Point{
		{b.X1, b.Y1}, {b.X2, b.Y1}, {b.X2, b.Y2}, {b.X1, b.Y2},
	}
}

// TopFace returns the projected top polygon, or nil for flat boxes.
func (b *Box) TopFace() []Point {
	if b.Flat {
		return nil
	}
	return []Point{
		{b.X1, b.Y1}, {b.X1 + b.De, b.Y1 - b.De}, {b.X2 + b.De, b.Y1 - b.De}, {b.X2, b.Y1},
	}
}

// SideFace returns the projected right-side polygon, or nil for flat boxes.
func (b *Box) SideFace() []Point {
	if b.Flat {
		return nil
	}
	return []Point{
		{b.X2, b.Y1}, {b.X2 + b.De, b.Y1 - b.De}, {b.X2 + b.De, b.Y2 - b.De}, {b.X2, b.Y2},
	}
}

// Connector is a funnel between two adjacent boxes: straight segments
// bridging corresponding corners, communicating the shape change.
type Connector struct {
	// From and To are box indices.
	From  int    `json:"from" bson:"from"`
	To    int    `json:"to" bson:"to"`
	Lines []Line `json:"lines" bson:"lines"`
}

// Label is a text annotation anchored to a box.
type Label struct {
	BoxIndex int    `json:"box_index" bson:"box_index"`
	Text     string `json:"text" bson:"text"`

	// X and Y anchor the top-left corner of the text block.
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`

	Above bool `json:"above" bson:"above"`
}

// LegendEntry is one swatch/text pair, positioned without overlap.
type LegendEntry struct {
	Text    string        `json:"text" bson:"text"`
	Fill    palette.Color `json:"fill" bson:"fill"`
	Outline palette.Color `json:"outline" bson:"outline"`

	SwatchX    float64 `json:"swatch_x" bson:"swatch_x"`
	SwatchY    float64 `json:"swatch_y" bson:"swatch_y"`
	SwatchSize float64 `json:"swatch_size" bson:"swatch_size"`
	TextX      float64 `json:"text_x" bson:"text_x"`
	TextY      float64 `json:"text_y" bson:"text_y"`

	// Width and Height are the measured entry extents, legend padding
	// included.
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Diagram is the layered-view output bundle: abstract geometry in
// resolution-independent pixel units, ready for a rasterizer.
type Diagram struct {
	Width      float64       `json:"width" bson:"width"`
	Height     float64       `json:"height" bson:"height"`
	Background palette.Color `json:"background" bson:"background"`

	Boxes      []Box         `json:"boxes" bson:"boxes"`
	Connectors []Connector   `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Legend     []LegendEntry `json:"legend,omitempty" bson:"legend,omitempty"`
	Labels     []Label       `json:"labels,omitempty" bson:"labels,omitempty"`

	// Warnings records recovered anomalies (multi-output layers
	// rendered by their first shape).
	Warnings []string `json:"warnings,omitempty" bson:"warnings,omitempty"`
}
