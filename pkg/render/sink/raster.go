package sink

import (
	"bytes"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/fonts"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
	face  font.Face
}

// WithScale sets the PNG scale factor (default 1.0).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithFontFace sets the face used for labels and legend text. Without
// it, a system font is located on first use.
func WithFontFace(f font.Face) PNGOption {
	return func(r *pngRenderer) { r.face = f }
}

func newPNGRenderer(opts ...PNGOption) pngRenderer {
	r := pngRenderer{scale: 1.0}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// RenderLayeredPNG rasterizes a layered diagram.
func RenderLayeredPNG(d *layered.Diagram, opts ...PNGOption) ([]byte, error) {
	r := newPNGRenderer(opts...)
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", r.scale)
	}

	dc := gg.NewContext(int(d.Width*r.scale+0.5), int(d.Height*r.scale+0.5))
	dc.Scale(r.scale, r.scale)
	dc.SetColor(d.Background)
	dc.Clear()

	// Connectors sit behind the boxes.
	dc.SetLineWidth(1)
	for _, c := range d.Connectors {
		for _, l := range c.Lines {
			dc.SetColor(d.Boxes[c.From].Outline)
			dc.DrawLine(l.A.X, l.A.Y, l.B.X, l.B.Y)
			dc.Stroke()
		}
	}

	for i := range d.Boxes {
		b := &d.Boxes[i]
		if face := b.TopFace(); face != nil {
			fillPolygon(dc, face, b.Fill.Shade(b.Shade), b.Outline)
		}
		if face := b.SideFace(); face != nil {
			fillPolygon(dc, face, b.Fill.Shade(-b.Shade), b.Outline)
		}
		fillPolygon(dc, b.FrontFace(), b.Fill, b.Outline)
	}

	if len(d.Labels) > 0 || len(d.Legend) > 0 {
		if err := r.applyFace(dc); err != nil {
			return nil, err
		}
	}
	for _, l := range d.Labels {
		dc.SetRGB(0, 0, 0)
		drawLines(dc, l.Text, l.X, l.Y)
	}
	for _, e := range d.Legend {
		dc.SetColor(e.Fill)
		dc.DrawRectangle(e.SwatchX, e.SwatchY, e.SwatchSize, e.SwatchSize)
		dc.FillPreserve()
		dc.SetColor(e.Outline)
		dc.Stroke()
		dc.SetRGB(0, 0, 0)
		drawLines(dc, e.Text, e.TextX, e.TextY)
	}

	return encodePNG(dc)
}

// RenderGraphPNG rasterizes a graph diagram.
func RenderGraphPNG(d *graphview.Diagram, opts ...PNGOption) ([]byte, error) {
	r := newPNGRenderer(opts...)
	if r.scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", r.scale)
	}

	dc := gg.NewContext(int(d.Width*r.scale+0.5), int(d.Height*r.scale+0.5))
	dc.Scale(r.scale, r.scale)
	dc.SetColor(d.Background)
	dc.Clear()

	dc.SetLineWidth(d.ConnectorWidth)
	dc.SetColor(d.ConnectorFill)
	for _, e := range d.Edges {
		dc.DrawLine(e.X1, e.Y1, e.X2, e.Y2)
		dc.Stroke()
	}

	dc.SetLineWidth(1)
	for i := range d.Nodes {
		drawNode(dc, &d.Nodes[i])
	}

	return encodePNG(dc)
}

func drawNode(dc *gg.Context, n *graphview.Node) {
	cx, cy := n.Center()
	w := n.X2 - n.X1
	switch n.Kind {
	case graphview.KindTensor:
		dc.DrawRectangle(n.X1, n.Y1, w, n.Y2-n.Y1)
		dc.SetColor(n.Fill)
		dc.FillPreserve()
		dc.SetColor(n.Outline)
		dc.Stroke()
	case graphview.KindEllipsis:
		// Three vertical dots standing in for the truncated units.
		r := w / 10
		for _, dy := range []float64{-3 * r, 0, 3 * r} {
			dc.DrawCircle(cx, cy+dy, r)
			dc.SetColor(n.Outline)
			dc.Fill()
		}
	default:
		dc.DrawCircle(cx, cy, w/2)
		dc.SetColor(n.Fill)
		dc.FillPreserve()
		dc.SetColor(n.Outline)
		dc.Stroke()
	}
}

func fillPolygon(dc *gg.Context, pts []layered.Point, fill, outline color.Color) {
	dc.NewSubPath()
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.SetColor(fill)
	dc.FillPreserve()
	dc.SetColor(outline)
	dc.Stroke()
}

// applyFace installs the configured face, locating a system font when
// none was supplied.
func (r *pngRenderer) applyFace(dc *gg.Context) error {
	face := r.face
	if face == nil {
		var err error
		if face, err = fonts.Default(); err != nil {
			return err
		}
	}
	dc.SetFontFace(face)
	return nil
}

// drawLines renders a multi-line text block whose top-left corner is
// (x, y).
func drawLines(dc *gg.Context, text string, x, y float64) {
	h := dc.FontHeight()
	for i, line := range strings.Split(text, "\n") {
		dc.DrawString(line, x, y+h*float64(i)+h*0.8)
	}
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, dc.Image(), imaging.PNG); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}
