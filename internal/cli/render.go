package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/layerviz/layerviz/pkg/fonts"
	"github.com/layerviz/layerviz/pkg/model"
	"github.com/layerviz/layerviz/pkg/pipeline"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
	"github.com/layerviz/layerviz/pkg/sizing"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		configPath string
		noCache    bool
		mode       string
		background string
	)
	opts := pipeline.Options{
		View:    pipeline.ViewLayered,
		Scale:   1,
		Layered: layered.DefaultOptions(),
		Graph:   graphview.DefaultOptions(),
	}
	mode = string(opts.Layered.Mode)
	background = opts.Layered.Background

	cmd := &cobra.Command{
		Use:   "render [model.json]",
		Short: "Render a model file to diagram(s)",
		Long: `Render a model file to diagram(s).

The render command takes a model.json file describing an ordered layer
graph and renders it as a layered (pseudo-3D box stack) or graph
(left-to-right node/edge) diagram.

Formats: png, svg, json (abstract geometry), and for the graph view
additionally dot and dot-svg (rendered through Graphviz).

A TOML file passed via --config supplies all diagram options at once;
the per-option flags are then ignored, while --view, --format, --scale,
--output, and cache flags still apply when set explicitly.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				cfg, err := loadRenderConfig(configPath)
				if err != nil {
					return err
				}
				fileOpts := cfg.pipelineOptions()
				if !cmd.Flags().Changed("view") {
					opts.View = fileOpts.View
				}
				if !cmd.Flags().Changed("scale") {
					opts.Scale = fileOpts.Scale
				}
				if formatsStr == "" && len(fileOpts.Formats) > 0 {
					formatsStr = strings.Join(fileOpts.Formats, ",")
				}
				opts.Layered = fileOpts.Layered
				opts.Graph = fileOpts.Graph
			} else {
				opts.Layered.Mode = sizing.Mode(mode)
				opts.Layered.Background = background
				if cmd.Flags().Changed("background") {
					opts.Graph.Background = background
				}
			}
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateView(opts.View); err != nil {
				return err
			}
			if err := pipeline.ValidateFormats(opts.View, opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json, dot, dot-svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.View, "view", "t", opts.View, "diagram view: layered (default), graph")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "raster output scale factor")
	cmd.Flags().StringVar(&configPath, "config", "", "TOML file with diagram options")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and re-render")

	// Layered view flags
	cmd.Flags().StringVar(&mode, "mode", mode, "sizing policy: accurate (default), balanced, capped, logarithmic, relative")
	cmd.Flags().Float64Var(&opts.Layered.Spacing, "spacing", opts.Layered.Spacing, "horizontal gap between boxes (layered)")
	cmd.Flags().Float64Var(&opts.Layered.Padding, "padding", opts.Layered.Padding, "horizontal canvas padding (layered)")
	cmd.Flags().Float64Var(&opts.Layered.VerticalPadding, "vertical-padding", opts.Layered.VerticalPadding, "vertical canvas padding (layered)")
	cmd.Flags().BoolVar(&opts.Layered.DrawVolume, "volume", opts.Layered.DrawVolume, "draw boxes with depth (layered)")
	cmd.Flags().BoolVar(&opts.Layered.DrawFunnel, "funnel", opts.Layered.DrawFunnel, "draw connectors between boxes (layered)")
	cmd.Flags().BoolVar(&opts.Layered.DrawReversed, "reversed", opts.Layered.DrawReversed, "mirror the stack so the last layer sits leftmost (layered)")
	cmd.Flags().IntVar(&opts.Layered.ShadeStep, "shade-step", opts.Layered.ShadeStep, "lightness delta between box faces (layered)")
	cmd.Flags().StringSliceVar(&opts.Layered.TypeIgnore, "ignore-type", nil, "layer types to skip (layered)")
	cmd.Flags().IntSliceVar(&opts.Layered.IndexIgnore, "ignore-index", nil, "layer indexes to skip (layered)")
	cmd.Flags().IntSliceVar(&opts.Layered.Index2D, "flat-index", nil, "layer indexes drawn flat (layered)")
	cmd.Flags().BoolVar(&opts.Layered.Legend, "legend", opts.Layered.Legend, "append a type legend below the stack (layered)")
	cmd.Flags().BoolVar(&opts.Layered.ShowDimension, "show-dimension", opts.Layered.ShowDimension, "add output shapes to legend entries (layered)")
	cmd.Flags().StringVar(&background, "background", background, "canvas color in hex notation")
	cmd.Flags().StringVar(&opts.Layered.Sizing.OneDimOrientation, "one-dim-orientation", opts.Layered.Sizing.OneDimOrientation, "axis for rank-1 shapes: x, y, z (layered)")

	// Graph view flags
	cmd.Flags().Float64Var(&opts.Graph.NodeSize, "node-size", opts.Graph.NodeSize, "node glyph diameter (graph)")
	cmd.Flags().Float64Var(&opts.Graph.NodeSpacing, "node-spacing", opts.Graph.NodeSpacing, "vertical gap between nodes (graph)")
	cmd.Flags().Float64Var(&opts.Graph.LayerSpacing, "layer-spacing", opts.Graph.LayerSpacing, "horizontal gap between columns (graph)")
	cmd.Flags().IntVar(&opts.Graph.EllipsizeAfter, "ellipsize-after", opts.Graph.EllipsizeAfter, "most units materialized per layer (graph)")
	cmd.Flags().BoolVar(&opts.Graph.ShowNeurons, "show-neurons", opts.Graph.ShowNeurons, "expand unit-bearing layers into per-unit nodes (graph)")
	cmd.Flags().BoolVar(&opts.Graph.InOutAsTensor, "inout-as-tensor", opts.Graph.InOutAsTensor, "collapse boundary tensors into single boxes (graph)")
	cmd.Flags().StringVar(&opts.Graph.ConnectorFill, "connector-fill", opts.Graph.ConnectorFill, "edge color in hex notation (graph)")
	cmd.Flags().Float64Var(&opts.Graph.ConnectorWidth, "connector-width", opts.Graph.ConnectorWidth, "edge stroke width (graph)")

	return cmd
}

// runRender loads the model, runs the pipeline, and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	logger := c.Logger
	logger.Infof("Rendering %s", input)

	m, err := model.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Infof("Loaded model: %d layers", len(m.Layers))

	// The legend measures text with real font metrics.
	if opts.View == pipeline.ViewLayered && opts.Layered.Legend && opts.Layered.Font == nil {
		face, err := fonts.Default()
		if err != nil {
			return fmt.Errorf("load font: %w", err)
		}
		opts.Layered.Font = fonts.NewFaceMetrics(face)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s view...", opts.View))
	spinner.Start()

	result, err := runner.Execute(ctx, m, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, w := range result.Warnings {
		printWarning("%s", w)
	}

	base := basePath(output, input)
	for _, format := range opts.Formats {
		path := artifactPath(base, output, format, len(opts.Formats))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debugf("Generated %s: %d bytes", format, len(result.Artifacts[format]))
		printFile(path)
	}

	printSuccess("Render complete")
	if opts.View == pipeline.ViewLayered {
		printStats(result.Stats.BoxCount, 0, result.CacheInfo.AllHit())
	} else {
		printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.AllHit())
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .png, etc.), it strips that extension.
// This is used when generating multiple files (e.g., model.png, model.svg).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath builds the output path for one format. A single format
// with an explicit --output keeps the path verbatim.
func artifactPath(base, output, format string, formatCount int) string {
	if formatCount == 1 && output != "" {
		return output
	}
	ext := format
	if format == pipeline.FormatDOTSVG {
		ext = "dot.svg"
	}
	return base + "." + ext
}
