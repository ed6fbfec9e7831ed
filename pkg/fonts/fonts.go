// Package fonts measures label text for node sizing.
//
// The layout engine sizes nodes from the rendered width of their name and
// hint. Measurement uses the Go fonts bundled with golang.org/x/image, so
// results are identical on every machine regardless of installed fonts.
// The SVG sink references the configured CSS family; the bundled faces
// only stand in for its metrics.
package fonts

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FallbackFontFamily is appended to the configured font in CSS.
const FallbackFontFamily = `'DejaVu Sans Mono', 'Menlo', monospace`

// LineHeight is the line box height as a multiple of the font size.
const LineHeight = 1.2

// Measurer returns the advance width of a string in pixels.
type Measurer interface {
	Measure(text string, size float64) float64
}

// OpenType measures text with a parsed OpenType font. Faces are created
// lazily per size and cached; OpenType is safe for concurrent use.
type OpenType struct {
	font  *opentype.Font
	mu    sync.Mutex
	faces map[float64]font.Face
}

// NewOpenType parses TTF/OTF data.
func NewOpenType(data []byte) (*OpenType, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &OpenType{font: f, faces: make(map[float64]font.Face)}, nil
}

func (o *OpenType) face(size float64) (font.Face, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if f, ok := o.faces[size]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(o.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	o.faces[size] = f
	return f, nil
}

// Measure implements Measurer. Sizes the font cannot be built at fall back
// to an average glyph width.
func (o *OpenType) Measure(text string, size float64) float64 {
	if text == "" || size <= 0 {
		return 0
	}
	f, err := o.face(size)
	if err != nil {
		return Ratio(0.6).Measure(text, size)
	}
	o.mu.Lock()
	adv := font.MeasureString(f, text)
	o.mu.Unlock()
	return math.Ceil(float64(adv) / 64)
}

// Ratio approximates text width as rune count times size times the ratio.
type Ratio float64

// Measure implements Measurer.
func (r Ratio) Measure(text string, size float64) float64 {
	return math.Ceil(float64(utf8.RuneCountInString(text)) * size * float64(r))
}

var (
	mono, regular         *OpenType
	monoOnce, regularOnce sync.Once
)

// Mono returns the shared measurer for Go Mono.
func Mono() Measurer {
	monoOnce.Do(func() {
		mono, _ = NewOpenType(gomono.TTF)
	})
	if mono == nil {
		return Ratio(0.6)
	}
	return mono
}

// Regular returns the shared measurer for Go Regular.
func Regular() Measurer {
	regularOnce.Do(func() {
		regular, _ = NewOpenType(goregular.TTF)
	})
	if regular == nil {
		return Ratio(0.55)
	}
	return regular
}

// ForFamily picks the bundled measurer closest to a CSS font family:
// monospaced families measure with Go Mono, everything else with Go
// Regular.
func ForFamily(family string) Measurer {
	f := strings.ToLower(family)
	if strings.Contains(f, "mono") || strings.Contains(f, "code") || strings.Contains(f, "courier") {
		return Mono()
	}
	return Regular()
}
