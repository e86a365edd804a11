// Package graphview lays a layer graph out as a left-to-right node and
// edge diagram: one column per depth, neuron-level expansion for unit
// layers, and straight connectors following the declared data flow.
package graphview

import (
	"github.com/layerviz/layerviz/pkg/palette"
)

// Kind classifies a node glyph.
type Kind string

const (
	// KindNeuron is a single unit, drawn as a circle.
	KindNeuron Kind = "neuron"
	// KindEllipsis stands in for truncated overflow units.
	KindEllipsis Kind = "ellipsis"
	// KindTensor is a whole tensor collapsed into one tall box.
	KindTensor Kind = "tensor"
)

// Node is one positioned glyph. Its bounds are (X1,Y1)-(X2,Y2);
// circles and ellipses are inscribed in them.
type Node struct {
	ID int `json:"id" bson:"id"`

	// LayerIndex is the owning descriptor's declaration index, or -1
	// for the synthetic output column.
	LayerIndex int `json:"layer_index" bson:"layer_index"`

	// Unit is the neuron sub-index within an expanded layer.
	Unit int `json:"unit" bson:"unit"`

	Kind  Kind `json:"kind" bson:"kind"`
	Depth int  `json:"depth" bson:"depth"`

	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`

	Fill    palette.Color `json:"fill" bson:"fill"`
	Outline palette.Color `json:"outline" bson:"outline"`
}

// Center returns the midpoint of the node bounds.
func (n *Node) Center() (x, y float64) {
	return (n.X1 + n.X2) / 2, (n.Y1 + n.Y2) / 2
}

// Edge is a straight connector between two node glyphs, anchored on
// the source's right edge and the target's left edge so the line never
// starts or ends inside a glyph.
type Edge struct {
	From int `json:"from" bson:"from"`
	To   int `json:"to" bson:"to"`

	X1 float64 `json:"x1" bson:"x1"`
	Y1 float64 `json:"y1" bson:"y1"`
	X2 float64 `json:"x2" bson:"x2"`
	Y2 float64 `json:"y2" bson:"y2"`
}

// Diagram is the graph-view output bundle in abstract pixel units.
type Diagram struct {
	Width      float64       `json:"width" bson:"width"`
	Height     float64       `json:"height" bson:"height"`
	Background palette.Color `json:"background" bson:"background"`

	ConnectorFill  palette.Color `json:"connector_fill" bson:"connector_fill"`
	ConnectorWidth float64       `json:"connector_width" bson:"connector_width"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges,omitempty" bson:"edges,omitempty"`

	// Depths lists node IDs per depth bucket, left to right.
	Depths [][]int `json:"depths" bson:"depths"`
}

// Options control the graph layout.
type Options struct {
	// NodeSize is the glyph diameter; tensor boxes are three times as
	// tall. NodeSpacing separates nodes within a column, LayerSpacing
	// separates columns, Padding frames the canvas.
	NodeSize     float64 `json:"node_size" toml:"node_size" bson:"node_size"`
	NodeSpacing  float64 `json:"node_spacing" toml:"node_spacing" bson:"node_spacing"`
	LayerSpacing float64 `json:"layer_spacing" toml:"layer_spacing" bson:"layer_spacing"`
	Padding      float64 `json:"padding" toml:"padding" bson:"padding"`

	// EllipsizeAfter is the most units materialized per layer; the
	// remainder collapses into one ellipsis node.
	EllipsizeAfter int `json:"ellipsize_after" toml:"ellipsize_after" bson:"ellipsize_after"`

	// ShowNeurons expands unit-bearing layers into per-unit nodes.
	ShowNeurons bool `json:"show_neurons" toml:"show_neurons" bson:"show_neurons"`

	// InOutAsTensor collapses boundary tensors (graph inputs and the
	// output column) into single box nodes instead of flattening them
	// into per-scalar neurons.
	InOutAsTensor bool `json:"inout_as_tensor" toml:"inout_as_tensor" bson:"inout_as_tensor"`

	// ColorMap overrides fill/outline per type tag.
	ColorMap map[string]palette.Spec `json:"color_map,omitempty" toml:"color_map" bson:"color_map,omitempty"`

	Background     string  `json:"background" toml:"background" bson:"background"`
	ConnectorFill  string  `json:"connector_fill" toml:"connector_fill" bson:"connector_fill"`
	ConnectorWidth float64 `json:"connector_width" toml:"connector_width" bson:"connector_width"`
}

// DefaultOptions mirror the conventional defaults of the graph view.
func DefaultOptions() Options {
	return Options{
		NodeSize:       50,
		NodeSpacing:    10,
		LayerSpacing:   250,
		Padding:        10,
		EllipsizeAfter: 10,
		ShowNeurons:    true,
		InOutAsTensor:  true,
		Background:     "#ffffff",
		ConnectorFill:  "#808080",
		ConnectorWidth: 1,
	}
}

// defaultNodeFill is the fallback fill for types absent from the
// color map.
const defaultNodeFill = "#ffa500"
