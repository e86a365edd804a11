// Package fonts locates system fonts and measures rendered text.
//
// The legend builder needs real text extents before the canvas size is
// finalized; guessing extents from character counts under-reserves
// space for wide or multi-line labels. This package wraps font
// discovery (go-findfont), parsing (freetype), and measurement
// (x/image/font) behind a small Metrics interface so tests can swap in
// fixed-size metrics.
package fonts

import (
	"os"
	"strings"
	"sync"

	findfont "github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/layerviz/layerviz/pkg/errors"
)

// DefaultSize is the default font size in points.
const DefaultSize = 14

// defaultCandidates are tried in order when no font path is configured.
var defaultCandidates = []string{
	"DejaVuSans.ttf",
	"LiberationSans-Regular.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
	"FreeSans.ttf",
}

// Metrics measures rendered text extents. Implementations must be safe
// for concurrent read-only use.
type Metrics interface {
	// Measure returns the rendered extent of text, which may contain
	// newlines: the width is the widest line, the height is the line
	// count times LineHeight.
	Measure(text string) (w, h float64)

	// LineHeight returns the height of a single text line in pixels.
	LineHeight() float64
}

// Find locates a font file by trying each name with go-findfont.
// Returns the first discovered path.
func Find(names ...string) (string, error) {
	for _, name := range names {
		if path, err := findfont.Find(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeFontNotFound, "no font found among %s", strings.Join(names, ", "))
}

// Load parses a TrueType font file and returns a face at the given size.
func Load(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "read font %s", path)
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse font %s", path)
	}
	return truetype.NewFace(f, &truetype.Options{Size: size}), nil
}

var (
	defaultFaceOnce sync.Once
	defaultFace     font.Face
	defaultFaceErr  error
)

// Default returns a process-wide shared face found among the common
// system fonts, loaded once on first use.
func Default() (font.Face, error) {
	defaultFaceOnce.Do(func() {
		path, err := Find(defaultCandidates...)
		if err != nil {
			defaultFaceErr = err
			return
		}
		defaultFace, defaultFaceErr = Load(path, DefaultSize)
	})
	return defaultFace, defaultFaceErr
}

// FaceProvider is implemented by Metrics backed by a real font face,
// letting rasterizers reuse the face the layout measured with.
type FaceProvider interface {
	Face() font.Face
}

// faceMetrics measures text with a parsed font face.
type faceMetrics struct {
	face       font.Face
	lineHeight float64
}

// NewFaceMetrics wraps a font face as a Metrics implementation.
func NewFaceMetrics(face font.Face) Metrics {
	m := face.Metrics()
	return &faceMetrics{
		face:       face,
		lineHeight: float64(m.Height) / 64,
	}
}

// Measure returns the extent of possibly multi-line text.
func (fm *faceMetrics) Measure(text string) (w, h float64) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		lw := float64(font.MeasureString(fm.face, line)) / 64
		if lw > w {
			w = lw
		}
	}
	return w, float64(len(lines)) * fm.lineHeight
}

// LineHeight returns the face's line height in pixels.
func (fm *faceMetrics) LineHeight() float64 { return fm.lineHeight }

// Face returns the underlying font face.
func (fm *faceMetrics) Face() font.Face { return fm.face }

// fixedMetrics is a deterministic Metrics for tests and headless use:
// every rune is charWidth wide, every line lineHeight tall.
type fixedMetrics struct {
	charWidth  float64
	lineHeight float64
}

// Fixed returns deterministic metrics with the given per-rune width and
// line height. Useful in tests and when no system font is available.
func Fixed(charWidth, lineHeight float64) Metrics {
	return &fixedMetrics{charWidth: charWidth, lineHeight: lineHeight}
}

func (fm *fixedMetrics) Measure(text string) (w, h float64) {
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		lw := float64(len([]rune(line))) * fm.charWidth
		if lw > w {
			w = lw
		}
	}
	return w, float64(len(lines)) * fm.lineHeight
}

func (fm *fixedMetrics) LineHeight() float64 { return fm.lineHeight }
