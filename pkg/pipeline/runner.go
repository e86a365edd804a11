package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/layerviz/layerviz/pkg/cache"
	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/fonts"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
	"github.com/layerviz/layerviz/pkg/render/sink"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer falls back to DefaultKeyer; a nil cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the underlying cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, m *model.Model, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := r.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	}
	if m == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "model is nil")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	modelData, err := json.Marshal(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize model")
	}

	result := &Result{
		ModelHash: cache.Hash(modelData),
		Artifacts: make(map[string][]byte),
		CacheInfo: CacheInfo{Hits: make(map[string]bool)},
	}
	result.Stats.LayerCount = len(m.Layers)

	// Stage 1: layout.
	layoutStart := time.Now()
	var layeredDiagram *layered.Diagram
	var graphDiagram *graphview.Diagram
	switch opts.View {
	case ViewLayered:
		layeredDiagram, err = layered.Layout(m, opts.Layered)
		if err != nil {
			return nil, err
		}
		result.Stats.BoxCount = len(layeredDiagram.Boxes)
		result.Warnings = layeredDiagram.Warnings
	case ViewGraph:
		graphDiagram, err = graphview.Layout(m, opts.Graph)
		if err != nil {
			return nil, err
		}
		result.Stats.NodeCount = len(graphDiagram.Nodes)
		result.Stats.EdgeCount = len(graphDiagram.Edges)
	}
	result.Stats.LayoutTime = time.Since(layoutStart)

	for _, w := range result.Warnings {
		logger.Warn("layout anomaly", "detail", w)
	}
	logger.Info("computed layout",
		"view", opts.View,
		"layers", result.Stats.LayerCount,
		"duration", result.Stats.LayoutTime)

	// Stage 2: render, consulting the cache per format.
	renderStart := time.Now()
	optsKey := opts.cacheKey()
	for _, format := range opts.Formats {
		key := r.Keyer.RenderKey(result.ModelHash, opts.View, format, optsKey)

		if !opts.Refresh {
			if data, found, err := r.Cache.Get(ctx, key); err != nil {
				logger.Warn("cache read failed", "format", format, "err", err)
			} else if found {
				result.Artifacts[format] = data
				result.CacheInfo.Hits[format] = true
				continue
			}
		}

		data, err := r.render(ctx, m, layeredDiagram, graphDiagram, format, opts)
		if err != nil {
			return nil, err
		}
		result.Artifacts[format] = data
		result.CacheInfo.Hits[format] = false

		if err := r.Cache.Set(ctx, key, data, DefaultCacheTTL); err != nil {
			logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)

	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// render produces one artifact for the active view.
func (r *Runner) render(ctx context.Context, m *model.Model, ld *layered.Diagram, gd *graphview.Diagram, format string, opts Options) ([]byte, error) {
	if opts.View == ViewLayered {
		switch format {
		case FormatPNG:
			pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale)}
			if provider, ok := opts.Layered.Font.(fonts.FaceProvider); ok {
				pngOpts = append(pngOpts, sink.WithFontFace(provider.Face()))
			}
			return sink.RenderLayeredPNG(ld, pngOpts...)
		case FormatSVG:
			return sink.RenderLayeredSVG(ld), nil
		case FormatJSON:
			return sink.RenderLayeredJSON(ld)
		}
	} else {
		switch format {
		case FormatPNG:
			return sink.RenderGraphPNG(gd, sink.WithScale(opts.Scale))
		case FormatSVG:
			return sink.RenderGraphSVG(gd), nil
		case FormatJSON:
			return sink.RenderGraphJSON(gd)
		case FormatDOT:
			return []byte(sink.ToDOT(m, sink.DOTOptions{Detailed: true})), nil
		case FormatDOTSVG:
			return sink.RenderDOTSVG(ctx, sink.ToDOT(m, sink.DOTOptions{Detailed: true}))
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q for view %q", format, opts.View)
}
