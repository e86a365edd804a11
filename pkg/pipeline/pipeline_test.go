package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/layerviz/layerviz/pkg/cache"
	"github.com/layerviz/layerviz/pkg/errors"
	"github.com/layerviz/layerviz/pkg/model"
)

func testModel() *model.Model {
	return &model.Model{
		Name: "mini",
		Layers: []model.Layer{
			{Name: "conv", Type: "Conv2D", OutputShapes: model.ShapeList{{model.Unknown, 8, 8, 4}}},
			{Name: "dense", Type: "Dense", Units: 10, OutputShapes: model.ShapeList{{model.Unknown, 10}}},
		},
	}
}

func quietLogger() *log.Logger {
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return logger
}

func TestValidateView(t *testing.T) {
	tests := []struct {
		view    string
		wantErr bool
	}{
		{"layered", false},
		{"graph", false},
		{"tower", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateView(tt.view)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateView(%q) error = %v, wantErr %t", tt.view, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		view, format string
		wantErr      bool
	}{
		{"layered", "png", false},
		{"layered", "svg", false},
		{"layered", "json", false},
		{"layered", "dot", true},
		{"graph", "dot", false},
		{"graph", "dot-svg", false},
		{"layered", "pdf", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.view, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q, %q) error = %v, wantErr %t", tt.view, tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.View != ViewLayered {
		t.Errorf("View = %q, want %q", opts.View, ViewLayered)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Scale != 1 {
		t.Errorf("Scale = %v, want 1", opts.Scale)
	}
	if !opts.Layered.Mode.Valid() {
		t.Errorf("Layered.Mode = %q, want a valid default", opts.Layered.Mode)
	}
}

func TestExecuteLayeredSVG(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), testModel(), Options{
		View:    ViewLayered,
		Formats: []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.ModelHash == "" {
		t.Error("ModelHash is empty")
	}
	if result.Stats.BoxCount != 2 {
		t.Errorf("Stats.BoxCount = %d, want 2", result.Stats.BoxCount)
	}
	svg := string(result.Artifacts[FormatSVG])
	if !strings.HasPrefix(svg, "<svg") {
		t.Errorf("svg artifact starts with %.20q, want <svg", svg)
	}
	if len(result.Artifacts[FormatJSON]) == 0 {
		t.Error("json artifact is empty")
	}
}

func TestExecuteGraphDOT(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), testModel(), Options{
		View:    ViewGraph,
		Formats: []string{FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, "digraph G {") {
		t.Errorf("dot artifact = %.40q, want digraph", dot)
	}
	if result.Stats.NodeCount == 0 || result.Stats.EdgeCount == 0 {
		t.Errorf("Stats = %+v, want nodes and edges", result.Stats)
	}
}

func TestExecuteCachesArtifacts(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	defer c.Close()
	runner := NewRunner(c, nil, quietLogger())
	opts := Options{View: ViewLayered, Formats: []string{FormatSVG}}

	first, err := runner.Execute(context.Background(), testModel(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.AllHit() {
		t.Error("first run reported a full cache hit")
	}

	second, err := runner.Execute(context.Background(), testModel(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.AllHit() {
		t.Error("second run missed the cache")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	refreshed, err := runner.Execute(context.Background(), testModel(), Options{
		View: ViewLayered, Formats: []string{FormatSVG}, Refresh: true,
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if refreshed.CacheInfo.AllHit() {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteRejectsInvalidInput(t *testing.T) {
	runner := NewRunner(nil, nil, quietLogger())

	if _, err := runner.Execute(context.Background(), nil, Options{}); !errors.Is(err, errors.ErrCodeInvalidModel) {
		t.Errorf("Execute(nil model) error = %v, want INVALID_MODEL", err)
	}
	if _, err := runner.Execute(context.Background(), testModel(), Options{View: "isometric"}); !errors.Is(err, errors.ErrCodeInvalidView) {
		t.Errorf("Execute(bad view) error = %v, want INVALID_VIEW", err)
	}
	if _, err := runner.Execute(context.Background(), testModel(), Options{Formats: []string{"gif"}}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Execute(bad format) error = %v, want INVALID_FORMAT", err)
	}
}

func TestExecuteMultiOutputWarning(t *testing.T) {
	m := &model.Model{Layers: []model.Layer{{
		Name: "split",
		Type: "Split",
		OutputShapes: model.ShapeList{
			{model.Unknown, 4, 4, 2},
			{model.Unknown, 2, 2, 2},
		},
	}}}
	runner := NewRunner(nil, nil, quietLogger())
	result, err := runner.Execute(context.Background(), m, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Errorf("Warnings = %v, want one entry", result.Warnings)
	}
}
