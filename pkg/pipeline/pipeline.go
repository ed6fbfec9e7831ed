// Package pipeline provides the parse → layout → render pipeline shared by
// the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: read the .flow document and apply style overrides
//  2. Layout: place segments and nodes and route every wire
//  3. Render: generate outputs (SVG, JSON, DOT, PNG, PDF)
//
// Layouts are cached by the document hash and the effective style;
// artifacts by the layout hash and the output settings. Parsing is cheap
// and always runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Name:    "plant.flow",
//	    Source:  src,
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Stages can also be run individually with [Parse], [GenerateLayout] and
// [Render], or through the caching methods of [Runner].
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowschem/pkg/cache"
	"github.com/matzehuels/flowschem/pkg/dsl"
	fserr "github.com/matzehuels/flowschem/pkg/errors"
	"github.com/matzehuels/flowschem/pkg/flow"
	"github.com/matzehuels/flowschem/pkg/fonts"
	"github.com/matzehuels/flowschem/pkg/graph"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
)

// DefaultFormat is rendered when no format is requested.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatJSON: true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatPDF:  true,
}

// Options contains all configuration for a pipeline run.
type Options struct {
	// Name identifies the document in logs, usually its file name.
	Name string `json:"name,omitempty"`

	// Source is the raw .flow document.
	Source []byte `json:"-"`

	// StyleTOML is applied on top of the document's @style block.
	StyleTOML []byte `json:"-"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // hints and rows in DOT labels
	Scale    float64  `json:"scale,omitempty"`    // PNG scale factor

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Measurer fonts.Measurer `json:"-"`
	Logger   *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed document, with style overrides applied.
	Document *dsl.Document

	// GraphHash is the content hash of the connection graph.
	GraphHash string

	// Layout is the computed geometry.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Graph returns the parsed connection graph.
func (r *Result) Graph() *flow.Graph {
	if r.Document == nil {
		return nil
	}
	return r.Document.Graph
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount       int
	ConnectionCount int
	WireCount       int
	Crossings       int
	ParseTime       time.Duration
	LayoutTime      time.Duration
	RenderTime      time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fserr.New(fserr.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, as given on the
// command line or in a query string, and validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the source document.
func (o *Options) ValidateForParse() error {
	if err := fserr.ValidateSource(o.Source); err != nil {
		return err
	}
	if o.Name == "" {
		o.Name = "document"
	}
	o.setLogger()
	return nil
}

// ValidateForRender validates formats and sets render defaults.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.Scale < 0 {
		return fserr.New(fserr.ErrCodeInvalidInput, "scale must not be negative, got %g", o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.setLogger()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(doc *dsl.Document) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		StyleHash: styleHash(doc),
		Measurer:  measurerKey(o.Measurer, doc),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(doc *dsl.Document, format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format, StyleHash: styleHash(doc)}
	switch format {
	case FormatDOT:
		opts.Detailed = o.Detailed
	case FormatPNG:
		opts.Scale = o.Scale
	}
	return opts
}

func styleHash(doc *dsl.Document) string {
	if doc == nil || doc.Style == nil {
		return ""
	}
	data, err := json.Marshal(doc.Style)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// measurerKey names the text measurement so layouts sized with different
// fonts are cached apart.
func measurerKey(m fonts.Measurer, doc *dsl.Document) string {
	switch v := m.(type) {
	case nil:
		if doc == nil || doc.Style == nil {
			return "family:"
		}
		return "family:" + doc.Style.Font + "/" + doc.Style.HintFont
	case fonts.Ratio:
		return fmt.Sprintf("ratio:%g", float64(v))
	default:
		return fmt.Sprintf("custom:%T", m)
	}
}
