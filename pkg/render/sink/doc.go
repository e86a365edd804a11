// Package sink provides output format renderers for layer diagrams.
//
// A sink transforms a computed layout bundle ([layered.Diagram] or
// [graphview.Diagram]) into a final output format:
//
//   - PNG: raster output drawn with fogleman/gg
//   - SVG: scalable vector graphics
//   - JSON: layout data export for external tools
//   - DOT: Graphviz source for the layer adjacency, renderable to SVG
//
// The PNG renderers accept options:
//
//	png, err := sink.RenderLayeredPNG(diagram,
//	    sink.WithScale(2),
//	    sink.WithFontFace(face),
//	)
//
// To add a new output format, create a renderer function
// func RenderFoo(d *layered.Diagram, opts ...FooOption) ([]byte, error)
// and register it in internal/cli for CLI support.
//
// [layered.Diagram]: github.com/layerviz/layerviz/pkg/render/layered.Diagram
// [graphview.Diagram]: github.com/layerviz/layerviz/pkg/render/graphview.Diagram
package sink
