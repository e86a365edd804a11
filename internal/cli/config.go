package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/pipeline"
	"github.com/layerviz/layerviz/pkg/render/graphview"
	"github.com/layerviz/layerviz/pkg/render/layered"
)

// renderConfig is the TOML file format accepted by `render --config`.
// It carries the full option surface of both views, so a config file
// can describe a render completely. Absent keys keep their defaults.
//
// Example:
//
//	view = "layered"
//	formats = ["png", "svg"]
//	scale = 2.0
//
//	[layered]
//	mode = "balanced"
//	legend = true
//	draw_reversed = true
//
//	[layered.color_map.Conv2D]
//	fill = "#ff7043"
type renderConfig struct {
	View    string   `toml:"view"`
	Formats []string `toml:"formats"`
	Scale   float64  `toml:"scale"`

	Layered layered.Options   `toml:"layered"`
	Graph   graphview.Options `toml:"graph"`
}

// defaultRenderConfig returns a config pre-filled with the package
// defaults of both views, so a sparse TOML file only overrides what
// it mentions.
func defaultRenderConfig() renderConfig {
	return renderConfig{
		View:    pipeline.ViewLayered,
		Scale:   1,
		Layered: layered.DefaultOptions(),
		Graph:   graphview.DefaultOptions(),
	}
}

// loadRenderConfig reads a TOML render config from path.
func loadRenderConfig(path string) (renderConfig, error) {
	cfg := defaultRenderConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return cfg, nil
}

// pipelineOptions converts the file config into pipeline options.
func (cfg renderConfig) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		View:    cfg.View,
		Formats: cfg.Formats,
		Scale:   cfg.Scale,
		Layered: cfg.Layered,
		Graph:   cfg.Graph,
	}
}
