package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowschem/pkg/cache"
	"github.com/matzehuels/flowschem/pkg/dsl"
	"github.com/matzehuels/flowschem/pkg/graph"
	"github.com/matzehuels/flowschem/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	result := &Result{}

	// Stage 1: Parse
	hooks.OnParseStart(ctx, opts.Name, len(opts.Source))
	parseStart := time.Now()
	doc, err := Parse(opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if err != nil {
		hooks.OnParseComplete(ctx, opts.Name, 0, result.Stats.ParseTime, err)
		return nil, fmt.Errorf("parse: %w", err)
	}
	hooks.OnParseComplete(ctx, opts.Name, doc.Graph.NodeCount(), result.Stats.ParseTime, nil)
	result.Document = doc
	result.Stats.NodeCount = doc.Graph.NodeCount()
	result.Stats.ConnectionCount = len(doc.Graph.Connections())
	if graphData, err := graph.MarshalGraph(doc.Graph); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Debug("parsed document",
		"name", opts.Name,
		"nodes", result.Stats.NodeCount,
		"connections", result.Stats.ConnectionCount,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	hooks.OnLayoutStart(ctx, result.Stats.NodeCount)
	layoutStart := time.Now()
	layout, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, result.Stats.LayoutTime, err)
		return nil, fmt.Errorf("layout: %w", err)
	}
	hooks.OnLayoutComplete(ctx, len(layout.Wires), result.Stats.LayoutTime, nil)
	result.Layout = layout
	result.Stats.WireCount = len(layout.Wires)
	result.Stats.Crossings = layout.Stats.Crossings
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", layout.Stats.Nodes,
		"wires", len(layout.Wires),
		"crossings", layout.Stats.Crossings,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, doc, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// GenerateLayoutWithCacheInfo computes a layout with caching and returns
// cache hit info. The key covers the source bytes and the effective style,
// so TOML overrides produce their own entries.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, doc *dsl.Document, opts Options) (graph.Layout, bool, error) {
	r.applyLogger(&opts)
	cacheKey := r.Keyer.LayoutKey(cache.Hash(opts.Source), opts.LayoutKeyOpts(doc))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := graph.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	layout, err := GenerateLayout(doc, opts)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if data, err := graph.MarshalLayout(layout); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			r.Logger.Debug("cache write failed", "stage", "layout", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return layout, false, nil
}

// GenerateLayout is a convenience wrapper that calls
// GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, doc *dsl.Document, opts Options) (graph.Layout, error) {
	layout, _, err := r.GenerateLayoutWithCacheInfo(ctx, doc, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info. Formats found in the cache are reused; the rest are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout graph.Layout, doc *dsl.Document, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := graph.MarshalLayout(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)
	graphHash := layoutHash
	if graphData, err := graph.MarshalGraph(doc.Graph); err == nil {
		graphHash = cache.Hash(graphData)
	}
	keyFor := func(format string) string {
		// The DOT overview draws the graph, including unresolved nodes
		// the layout leaves out.
		base := layoutHash
		if format == FormatDOT {
			base = graphHash
		}
		return r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(doc, format))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, keyFor(format)); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(layout, doc, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		if err := r.Cache.Set(ctx, keyFor(format), data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "stage", "artifact", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout graph.Layout, doc *dsl.Document, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, doc, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
