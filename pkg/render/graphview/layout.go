package graphview

import (
	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/palette"
)

// tensorScale stretches tensor boxes vertically relative to neurons.
const tensorScale = 3

// Layout computes the graph diagram for m. Adjacency comes from the
// declared layer inputs; a model declaring none is laid out as a
// sequential chain. Cyclic adjacency is a fatal input error.
func Layout(m *model.Model, opts Options) (*Diagram, error) {
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	if opts.NodeSize <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "node_size must be positive, got %g", opts.NodeSize)
	}
	if opts.EllipsizeAfter < 1 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "ellipsize_after must be at least 1, got %d", opts.EllipsizeAfter)
	}
	background, err := palette.Parse(opts.Background)
	if err != nil {
		return nil, err
	}
	connectorFill, err := palette.Parse(opts.ConnectorFill)
	if err != nil {
		return nil, err
	}
	for tag, spec := range opts.ColorMap {
		if spec.Fill != "" {
			if _, err := palette.Parse(spec.Fill); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "color map entry %q", tag)
			}
		}
		if spec.Outline != "" {
			if _, err := palette.Parse(spec.Outline); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "color map entry %q", tag)
			}
		}
	}

	d := &Diagram{
		Background:     background,
		ConnectorFill:  connectorFill,
		ConnectorWidth: opts.ConnectorWidth,
	}

	adj, err := buildAdjacency(m)
	if err != nil {
		return nil, err
	}
	if len(adj.layers) == 0 {
		d.Width = 2 * opts.Padding
		d.Height = 2 * opts.Padding
		return d, nil
	}
	depths, err := assignDepths(adj)
	if err != nil {
		return nil, err
	}

	// Bucket layers per depth in declaration order; the synthetic
	// output column follows the deepest bucket.
	maxDepth := 0
	for _, dep := range depths {
		if dep > maxDepth {
			maxDepth = dep
		}
	}
	buckets := make([][]int, maxDepth+1)
	for _, i := range adj.layers {
		buckets[depths[i]] = append(buckets[depths[i]], i)
	}
	sinks := adj.sinks()
	outDepth := maxDepth + 1

	b := &builder{d: d, m: m, opts: opts}

	// One column per depth, walked top to bottom. Layers sharing a
	// bucket are separated by twice the node size.
	extents := make([]float64, outDepth+1)
	for dep, bucket := range buckets {
		x := opts.Padding + float64(dep)*(opts.NodeSize+opts.LayerSpacing)
		y := 0.0
		for _, i := range bucket {
			layer := m.Layers[i]
			count, box := b.glyphsFor(i, len(adj.pred[i]) == 0)
			y = b.emit(i, layer.Type, dep, count, box, x, y)
			y += 2 * opts.NodeSize
		}
		extents[dep] = y - opts.NodeSpacing - 2*opts.NodeSize
	}

	// Synthetic output column: one boundary tensor per sink.
	{
		x := opts.Padding + float64(outDepth)*(opts.NodeSize+opts.LayerSpacing)
		y := 0.0
		for _, s := range sinks {
			count, box := b.boundaryGlyphs(s)
			y = b.emit(-1, "", outDepth, count, box, x, y)
			b.outputs = append(b.outputs, b.lastGroup)
			y += 2 * opts.NodeSize
		}
		extents[outDepth] = y - opts.NodeSpacing - 2*opts.NodeSize
	}

	maxExtent := 0.0
	for _, e := range extents {
		if e > maxExtent {
			maxExtent = e
		}
	}
	cols := float64(outDepth + 1)
	d.Height = maxExtent + 2*opts.Padding
	d.Width = cols*opts.NodeSize + (cols-1)*opts.LayerSpacing + 2*opts.Padding

	// Center every column on the canvas midline.
	d.Depths = make([][]int, outDepth+1)
	for id := range d.Nodes {
		d.Depths[d.Nodes[id].Depth] = append(d.Depths[d.Nodes[id].Depth], id)
	}
	for dep, ids := range d.Depths {
		off := (d.Height - extents[dep]) / 2
		for _, id := range ids {
			d.Nodes[id].Y1 += off
			d.Nodes[id].Y2 += off
		}
	}

	// Declared edges, then the sink to output-column edges.
	for _, u := range adj.layers {
		for _, v := range adj.succ[u] {
			b.connect(b.groups[u], b.groups[v])
		}
	}
	for j, s := range sinks {
		b.connect(b.groups[s], b.outputs[j])
	}
	return d, nil
}

// builder accumulates nodes and the layer to node-group mapping.
type builder struct {
	d    *Diagram
	m    *model.Model
	opts Options

	// groups maps a declaration index to its node IDs; outputs holds
	// the synthetic output groups per sink.
	groups    map[int][]int
	outputs   [][]int
	lastGroup []int
}

// glyphsFor decides how many glyphs a layer expands into and whether
// they are tensor boxes. Roots follow the boundary rules; interior
// unit layers expand when neuron display is on.
func (b *builder) glyphsFor(i int, isRoot bool) (count int, box bool) {
	if isRoot {
		return b.boundaryGlyphs(i)
	}
	layer := b.m.Layers[i]
	if b.opts.ShowNeurons && layer.Units > 0 {
		return layer.Units, false
	}
	return 1, true
}

// boundaryGlyphs applies the tensor-collapse rule for graph inputs and
// outputs: a single box, or one neuron per scalar when collapsed
// tensors are disabled.
func (b *builder) boundaryGlyphs(i int) (count int, box bool) {
	if b.opts.InOutAsTensor {
		return 1, true
	}
	shape, _ := b.m.Layers[i].PrimaryShape()
	if n := shape.Product(); n > 0 {
		return n, false
	}
	return 1, false
}

// emit appends count glyphs for one layer starting at y and returns
// the cursor after the group. Neuron groups larger than the ellipsis
// threshold materialize exactly that many neurons plus one ellipsis.
func (b *builder) emit(layerIndex int, typeTag string, depth, count int, box bool, x, y float64) float64 {
	if b.groups == nil {
		b.groups = make(map[int][]int)
	}
	fill, outline := b.colors(typeTag)

	ellipsized := !box && count > b.opts.EllipsizeAfter
	n := count
	if ellipsized {
		n = b.opts.EllipsizeAfter + 1
	}

	group := make([]int, 0, n)
	for u := 0; u < n; u++ {
		kind := KindNeuron
		scale := 1.0
		switch {
		case box:
			kind = KindTensor
			scale = tensorScale
		case ellipsized && u == n-1:
			kind = KindEllipsis
		}
		id := len(b.d.Nodes)
		b.d.Nodes = append(b.d.Nodes, Node{
			ID:         id,
			LayerIndex: layerIndex,
			Unit:       u,
			Kind:       kind,
			Depth:      depth,
			X1:         x,
			Y1:         y,
			X2:         x + b.opts.NodeSize,
			Y2:         y + b.opts.NodeSize*scale,
			Fill:       fill,
			Outline:    outline,
		})
		group = append(group, id)
		y = b.d.Nodes[id].Y2 + b.opts.NodeSpacing
	}

	if layerIndex >= 0 {
		b.groups[layerIndex] = group
	}
	b.lastGroup = group
	return y
}

// colors resolves fill and outline for a type tag from the color map,
// falling back to the stock node colors.
func (b *builder) colors(typeTag string) (fill, outline palette.Color) {
	fill = palette.MustParse(defaultNodeFill)
	outline = palette.Black
	spec, ok := b.opts.ColorMap[typeTag]
	if !ok {
		return fill, outline
	}
	if spec.Fill != "" {
		if c, err := palette.Parse(spec.Fill); err == nil {
			fill = c
		}
	}
	if spec.Outline != "" {
		if c, err := palette.Parse(spec.Outline); err == nil {
			outline = c
		}
	}
	return fill, outline
}

// connect adds one edge per glyph pair between two groups, skipping
// ellipsis nodes on either end.
func (b *builder) connect(from, to []int) {
	for _, u := range from {
		if b.d.Nodes[u].Kind == KindEllipsis {
			continue
		}
		for _, v := range to {
			if b.d.Nodes[v].Kind == KindEllipsis {
				continue
			}
			_, cy1 := b.d.Nodes[u].Center()
			_, cy2 := b.d.Nodes[v].Center()
			b.d.Edges = append(b.d.Edges, Edge{
				From: u,
				To:   v,
				X1:   b.d.Nodes[u].X2,
				Y1:   cy1,
				X2:   b.d.Nodes[v].X1,
				Y2:   cy2,
			})
		}
	}
}
