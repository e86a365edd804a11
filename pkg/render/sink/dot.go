package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
)

// DOTOptions configures DOT generation.
type DOTOptions struct {
	// Detailed includes the output shape in node labels. When false,
	// only the layer name and type are shown.
	Detailed bool
}

// ToDOT converts a model's layer adjacency to Graphviz DOT format.
// Models without declared inputs are emitted as a sequential chain.
// The resulting DOT string can be rendered with [RenderDOTSVG].
func ToDOT(m *model.Model, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var prev string
	declared := false
	for _, layer := range m.Layers {
		if layer.IsSpacer() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", layer.Name, dotLabel(layer, opts.Detailed))
		if len(layer.Inputs) > 0 {
			declared = true
		}
	}

	buf.WriteString("\n")
	for _, layer := range m.Layers {
		if layer.IsSpacer() {
			continue
		}
		if declared {
			for _, input := range layer.Inputs {
				fmt.Fprintf(&buf, "  %q -> %q;\n", input, layer.Name)
			}
		} else if prev != "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", prev, layer.Name)
		}
		prev = layer.Name
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(layer model.Layer, detailed bool) string {
	label := layer.Name
	if layer.Type != "" && layer.Type != layer.Name {
		label += "\n" + layer.Type
	}
	if detailed {
		if shape, _ := layer.PrimaryShape(); len(shape) > 0 {
			label += "\n" + shape.String()
		}
	}
	return label
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer func() { _ = g.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render DOT")
	}
	return buf.Bytes(), nil
}
