package sink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
)

// svgLineHeight approximates text line spacing in the vector output.
// SVG has no font metrics at generation time; the layout already
// reserved space using real metrics, this only distributes lines
// within it.
const svgLineHeight = 16

// RenderLayeredSVG renders a layered diagram as standalone SVG.
func RenderLayeredSVG(d *layered.Diagram) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, d.Width, d.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", d.Background.Hex())

	for _, c := range d.Connectors {
		stroke := d.Boxes[c.From].Outline.Hex()
		for _, l := range c.Lines {
			fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`+"\n",
				l.A.X, l.A.Y, l.B.X, l.B.Y, stroke)
		}
	}

	for i := range d.Boxes {
		b := &d.Boxes[i]
		if face := b.TopFace(); face != nil {
			writePolygon(&buf, face, b.Fill.Shade(b.Shade).Hex(), b.Outline.Hex())
		}
		if face := b.SideFace(); face != nil {
			writePolygon(&buf, face, b.Fill.Shade(-b.Shade).Hex(), b.Outline.Hex())
		}
		writePolygon(&buf, b.FrontFace(), b.Fill.Hex(), b.Outline.Hex())
	}

	for _, l := range d.Labels {
		writeText(&buf, l.Text, l.X, l.Y)
	}
	for _, e := range d.Legend {
		fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
			e.SwatchX, e.SwatchY, e.SwatchSize, e.SwatchSize, e.Fill.Hex(), e.Outline.Hex())
		writeText(&buf, e.Text, e.TextX, e.TextY)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// RenderGraphSVG renders a graph diagram as standalone SVG.
func RenderGraphSVG(d *graphview.Diagram) []byte {
	var buf bytes.Buffer
	writeHeader(&buf, d.Width, d.Height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", d.Background.Hex())

	for _, e := range d.Edges {
		fmt.Fprintf(&buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
			e.X1, e.Y1, e.X2, e.Y2, d.ConnectorFill.Hex(), d.ConnectorWidth)
	}

	for i := range d.Nodes {
		n := &d.Nodes[i]
		cx, cy := n.Center()
		w := n.X2 - n.X1
		switch n.Kind {
		case graphview.KindTensor:
			fmt.Fprintf(&buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`+"\n",
				n.X1, n.Y1, w, n.Y2-n.Y1, n.Fill.Hex(), n.Outline.Hex())
		case graphview.KindEllipsis:
			r := w / 10
			for _, dy := range []float64{-3 * r, 0, 3 * r} {
				fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n",
					cx, cy+dy, r, n.Outline.Hex())
			}
		default:
			fmt.Fprintf(&buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s"/>`+"\n",
				cx, cy, w/2, n.Fill.Hex(), n.Outline.Hex())
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeHeader(buf *bytes.Buffer, w, h float64) {
	fmt.Fprintf(buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
}

func writePolygon(buf *bytes.Buffer, pts []layered.Point, fill, stroke string) {
	coords := make([]string, len(pts))
	for i, p := range pts {
		coords[i] = fmt.Sprintf("%.1f,%.1f", p.X, p.Y)
	}
	fmt.Fprintf(buf, `  <polygon points="%s" fill="%s" stroke="%s"/>`+"\n",
		strings.Join(coords, " "), fill, stroke)
}

// writeText emits a text block whose top-left corner is (x, y),
// splitting multi-line strings into tspan rows.
func writeText(buf *bytes.Buffer, text string, x, y float64) {
	lines := strings.Split(text, "\n")
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="%d">`, x, y+svgLineHeight*0.8, svgLineHeight-2)
	for i, line := range lines {
		if i == 0 {
			buf.WriteString(escapeText(line))
			continue
		}
		fmt.Fprintf(buf, `<tspan x="%.1f" dy="%d">%s</tspan>`, x, svgLineHeight, escapeText(line))
	}
	buf.WriteString("</text>\n")
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
