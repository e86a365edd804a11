package layered

// maxFunnelGap is the widest horizontal gap a connector will bridge.
// Spacing markers that push adjacent boxes further apart than this
// suppress the funnel between them.
const maxFunnelGap = 120

// buildConnectors bridges every adjacent pair of rendered boxes with a
// funnel: one line per shared corner of the facing faces. Volumetric
// pairs get four lines (front and back edges of both faces); two flat
// boxes collapse to the two front lines.
func buildConnectors(boxes []Box) []Connector {
	var connectors []Connector
	for i := 0; i+1 < len(boxes); i++ {
		a, b := &boxes[i], &boxes[i+1]
		// The stack may be mirrored; the funnel always spans from the
		// left box's right face to the right box's left face.
		if b.X1 < a.X1 {
			a, b = b, a
		}
		gap := b.X1 - a.X2
		if gap > maxFunnelGap {
			continue
		}

		lines := []Line{
			{A: Point{a.X2, a.Y1}, B: Point{b.X1, b.Y1}},
			{A: Point{a.X2, a.Y2}, B: Point{b.X1, b.Y2}},
		}
		if !a.Flat || !b.Flat {
			lines = append(lines,
				Line{A: Point{a.X2 + a.De, a.Y1 - a.De}, B: Point{b.X1 + b.De, b.Y1 - b.De}},
				Line{A: Point{a.X2 + a.De, a.Y2 - a.De}, B: Point{b.X1 + b.De, b.Y2 - b.De}},
			)
		}
		connectors = append(connectors, Connector{
			From:  boxes[i].Index,
			To:    boxes[i+1].Index,
			Lines: lines,
		})
	}
	return connectors
}
