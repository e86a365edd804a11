// Package model defines the layer-graph input format for Layerviz.
//
// A Model is an ordered sequence of layer descriptors, each carrying a
// type tag, zero or more output tensor shapes, and (for graph-style
// rendering) the names of its input layers. Descriptors are value-like:
// rendering never mutates them, and the same Model can be rendered
// concurrently from multiple goroutines.
//
// Models are typically loaded from JSON files produced by exporting a
// network definition from a training framework:
//
//	{
//	  "name": "vgg-ish",
//	  "layers": [
//	    {"name": "input", "type": "InputLayer", "output_shape": [null, 224, 224, 3]},
//	    {"name": "conv1", "type": "Conv2D", "output_shape": [null, 224, 224, 64], "inputs": ["input"]},
//	    {"spacing": 50},
//	    {"name": "fc", "type": "Dense", "units": 4096, "output_shape": [null, 4096], "inputs": ["conv1"]}
//	  ]
//	}
package model

import (
	"github.com/layerviz/layerviz/pkg/errors"
)

// Layer describes one layer of a network, or a spacing marker.
//
// A spacing marker (Spacing > 0) is a non-rendered pseudo-layer: the
// layered view inserts extra horizontal gap at its position and the
// graph view skips it entirely. Spacing markers produce no box, node,
// legend entry, or callback index.
type Layer struct {
	Name string `json:"name,omitempty" bson:"name,omitempty"`
	Type string `json:"type,omitempty" bson:"type,omitempty"`

	// OutputShapes holds the layer's output tensor shapes. Most layers
	// have exactly one; multi-output layers are rendered by their first
	// shape with a warning.
	OutputShapes ShapeList `json:"output_shape,omitempty" bson:"output_shape,omitempty"`

	// Inputs names the predecessor layers for graph-style rendering.
	// Layers with no inputs are graph roots.
	Inputs []string `json:"inputs,omitempty" bson:"inputs,omitempty"`

	// Units is the neuron count used for per-unit expansion in the
	// graph view (dense units, conv filters). Zero means the layer is
	// drawn as a single node.
	Units int `json:"units,omitempty" bson:"units,omitempty"`

	// Spacing marks this descriptor as a spacing pseudo-layer when > 0.
	Spacing int `json:"spacing,omitempty" bson:"spacing,omitempty"`
}

// IsSpacer reports whether the layer is a spacing marker.
func (l *Layer) IsSpacer() bool { return l.Spacing > 0 }

// PrimaryShape returns the shape used for rendering and whether the
// layer declares more than one output (the extra outputs are ignored).
// A layer with no declared shape yields the minimal (None, 1) shape.
func (l *Layer) PrimaryShape() (Shape, bool) {
	switch len(l.OutputShapes) {
	case 0:
		return Shape{Unknown, 1}, false
	case 1:
		return l.OutputShapes[0], false
	default:
		return l.OutputShapes[0], true
	}
}

// Model is an ordered layer graph. The declaration order of Layers is
// the logical left-to-right order of the layered view and the
// tie-break order for graph depth buckets.
type Model struct {
	Name   string  `json:"name,omitempty" bson:"name,omitempty"`
	Layers []Layer `json:"layers" bson:"layers"`
}

// LayerIndexByName returns a name → declaration index lookup.
// Unnamed layers (and spacing markers) are not indexed.
func (m *Model) LayerIndexByName() map[string]int {
	idx := make(map[string]int, len(m.Layers))
	for i := range m.Layers {
		if name := m.Layers[i].Name; name != "" {
			idx[name] = i
		}
	}
	return idx
}

// Validate checks structural integrity of the model:
//
//   - every known shape dimension is positive
//   - input references resolve to declared layer names
//   - spacing markers declare neither shapes nor inputs
//
// An empty model is valid; rendering it produces an empty diagram.
func (m *Model) Validate() error {
	names := m.LayerIndexByName()
	for i := range m.Layers {
		l := &m.Layers[i]
		if l.IsSpacer() {
			if len(l.OutputShapes) > 0 || len(l.Inputs) > 0 {
				return errors.New(errors.ErrCodeInvalidModel, "layer %d: spacing marker must not declare shapes or inputs", i)
			}
			continue
		}
		if l.Spacing < 0 {
			return errors.New(errors.ErrCodeInvalidModel, "layer %d: spacing must not be negative", i)
		}
		for _, s := range l.OutputShapes {
			if err := s.Validate(); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidShape, err, "layer %d (%s)", i, l.Type)
			}
		}
		for _, in := range l.Inputs {
			if _, ok := names[in]; !ok {
				return errors.New(errors.ErrCodeInvalidModel, "layer %d (%s): unknown input %q", i, l.Type, in)
			}
		}
	}
	return nil
}
