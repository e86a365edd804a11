// Package pipeline provides the core rendering pipeline for layerviz.
//
// This package implements the complete layout → render flow shared by
// the CLI and the HTTP service. By centralizing this logic, both entry
// points behave identically and caching is applied in one place.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: compute the abstract geometry bundle for the model
//     (layered box stack or graph node/edge diagram)
//  2. Render: generate output artifacts in the requested formats
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    View:    pipeline.ViewLayered,
//	    Formats: []string{pipeline.FormatPNG},
//	}
//	result, err := runner.Execute(ctx, m, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts[pipeline.FormatPNG]
package pipeline

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
)

// View constants for the two diagram styles.
const (
	ViewLayered = "layered"
	ViewGraph   = "graph"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	// FormatDOTSVG renders the DOT graph through Graphviz.
	FormatDOTSVG = "dot-svg"
)

// DefaultCacheTTL bounds how long rendered artifacts stay cached.
const DefaultCacheTTL = 24 * time.Hour

// ValidViews is the set of supported diagram views.
var ValidViews = map[string]bool{
	ViewLayered: true,
	ViewGraph:   true,
}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:    true,
	FormatSVG:    true,
	FormatJSON:   true,
	FormatDOT:    true,
	FormatDOTSVG: true,
}

// MIMETypes maps formats to response content types.
var MIMETypes = map[string]string{
	FormatPNG:    "image/png",
	FormatSVG:    "image/svg+xml",
	FormatJSON:   "application/json",
	FormatDOT:    "text/vnd.graphviz",
	FormatDOTSVG: "image/svg+xml",
}

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// View selects the diagram style; Formats the output artifacts.
	View    string   `json:"view,omitempty"`
	Formats []string `json:"formats,omitempty"`

	// Scale multiplies the raster output resolution.
	Scale float64 `json:"scale,omitempty"`

	// Layered and Graph carry the view-specific options; only the one
	// matching View is consulted.
	Layered layered.Options   `json:"layered"`
	Graph   graphview.Options `json:"graph"`

	// Refresh bypasses the cache read and re-renders.
	Refresh bool `json:"refresh,omitempty"`

	// Logger overrides the runner's logger for this execution.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults. The
// method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.View == "" {
		o.View = ViewLayered
	}
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if err := ValidateFormats(o.View, o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be positive, got %g", o.Scale)
	}
	if o.Layered.Mode == "" {
		o.Layered = layered.DefaultOptions()
	}
	if o.Graph.NodeSize == 0 {
		o.Graph = graphview.DefaultOptions()
	}
	o.validated = true
	return nil
}

// cacheKey returns the serialized options for cache keying. Function
// fields are excluded from serialization; callers supplying a text
// callback should pass Refresh to avoid stale artifacts.
func (o Options) cacheKey() string {
	data, _ := json.Marshal(o)
	return string(data)
}

// ValidateView checks that a view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return errors.New(errors.ErrCodeInvalidView, "invalid view %q (must be one of: layered, graph)", view)
	}
	return nil
}

// ValidateFormat checks that a format is valid for the given view.
// The DOT formats describe layer adjacency and exist for the graph
// view only.
func ValidateFormat(view, format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: png, svg, json, dot, dot-svg)", format)
	}
	if (format == FormatDOT || format == FormatDOTSVG) && view != ViewGraph {
		return errors.New(errors.ErrCodeInvalidFormat, "format %q requires the graph view", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid for the view.
func ValidateFormats(view string, formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(view, f); err != nil {
			return err
		}
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// ModelHash is the content hash of the model JSON.
	ModelHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Warnings surfaces recovered layout anomalies.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount int
	BoxCount   int
	NodeCount  int
	EdgeCount  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits per rendered format.
type CacheInfo struct {
	Hits map[string]bool
}

// AllHit reports whether every artifact came from the cache.
func (c CacheInfo) AllHit() bool {
	if len(c.Hits) == 0 {
		return false
	}
	for _, hit := range c.Hits {
		if !hit {
			return false
		}
	}
	return true
}
