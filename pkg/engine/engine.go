// Package engine runs graph analyses with caching.
//
// An [Engine] loads a flow graph from a file, URL, or raw text, runs
// one of the analysis operations (width, antichain, safety, decompose),
// and optionally renders the graph. Analysis results and artifacts are
// cached keyed by the content hash of the input block, so repeated
// requests against the same graph are served without recomputation.
//
// Both the CLI and the HTTP server drive their work through an Engine
// to avoid duplicating caching logic.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathcover/pkg/cache"
	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/graphio"
	"github.com/matzehuels/pathcover/pkg/httputil"
	"github.com/matzehuels/pathcover/pkg/observability"
	"github.com/matzehuels/pathcover/pkg/remote"
	"github.com/matzehuels/pathcover/pkg/render"
	"github.com/matzehuels/pathcover/pkg/safety"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// Engine encapsulates analysis execution with caching.
//
// The Engine is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Engine
// with different options.
type Engine struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	remote *remote.Client
}

// New creates an engine with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func New(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Engine {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// SetRemote installs the HTTP client used for URL sources. Without one,
// a client with a default response cache is created on first use.
func (e *Engine) SetRemote(c *remote.Client) { e.remote = c }

// Execute runs the complete load → analyze → render pipeline with caching.
func (e *Engine) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	e.applyLogger(&opts)

	result := &Result{Operation: opts.Operation}

	// Stage 1: Load
	loadStart := time.Now()
	observability.Engine().OnParseStart(ctx, opts.Source)
	g, hash, err := e.LoadGraph(ctx, opts)
	loadTime := time.Since(loadStart)
	if err != nil {
		observability.Engine().OnParseComplete(ctx, opts.Source, 0, 0, loadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	observability.Engine().OnParseComplete(ctx, opts.Source,
		g.Base().NodeCount(), g.Base().EdgeCount(), loadTime, nil)

	result.Graph = g
	result.GraphID = g.ID()
	result.GraphHash = hash
	result.Stats.LoadTime = loadTime
	result.Stats.NodeCount = g.Base().NodeCount()
	result.Stats.EdgeCount = g.Base().EdgeCount()

	opts.Logger.Info("loaded graph",
		"id", g.ID(),
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", loadTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	observability.Engine().OnAnalyzeStart(ctx, opts.Operation, result.Stats.EdgeCount)
	hit, err := e.analyze(ctx, g, hash, opts, result)
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	observability.Engine().OnAnalyzeComplete(ctx, opts.Operation, result.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Operation, err)
	}
	result.CacheInfo.AnalyzeHit = hit

	opts.Logger.Info("analysis complete",
		"operation", opts.Operation,
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render (optional)
	if opts.Format != "" {
		renderStart := time.Now()
		observability.Engine().OnRenderStart(ctx, opts.Format)
		artifact, renderHit, err := e.RenderWithCacheInfo(ctx, g, hash, opts)
		result.Stats.RenderTime = time.Since(renderStart)
		observability.Engine().OnRenderComplete(ctx, opts.Format, len(artifact), result.Stats.RenderTime, err)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifact = artifact
		result.CacheInfo.RenderHit = renderHit

		opts.Logger.Info("rendered output",
			"format", opts.Format,
			"bytes", len(artifact),
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// LoadGraph reads the input, selects the requested block, and builds
// the augmented graph. The returned hash identifies the block content
// and feeds the analysis cache keys.
func (e *Engine) LoadGraph(ctx context.Context, opts Options) (*stgraph.Graph, string, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, "", err
	}

	graphs, err := e.readGraphs(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	if opts.Index >= len(graphs) {
		return nil, "", errors.New(errors.ErrCodeInvalidArgument,
			"index %d out of range: input has %d graph(s)", opts.Index, len(graphs))
	}
	block := graphs[opts.Index]

	data, err := graphio.Marshal(block)
	if err != nil {
		return nil, "", err
	}

	g, err := stgraph.Build(block.G, stgraph.Options{
		ID:               block.ID,
		AdditionalStarts: opts.AdditionalStarts,
		AdditionalEnds:   opts.AdditionalEnds,
	})
	if err != nil {
		return nil, "", err
	}
	return g, cache.Hash(data), nil
}

func (e *Engine) readGraphs(ctx context.Context, opts Options) ([]*graphio.Graph, error) {
	switch {
	case opts.Text != "":
		return graphio.ReadGraphs(strings.NewReader(opts.Text))
	case opts.IsRemote():
		client, err := e.remoteClient()
		if err != nil {
			return nil, err
		}
		return client.FetchGraphs(ctx, opts.Source, opts.Refresh)
	default:
		return graphio.ReadFile(opts.Source)
	}
}

func (e *Engine) remoteClient() (*remote.Client, error) {
	if e.remote == nil {
		hc, err := httputil.NewCache("", 24*time.Hour)
		if err != nil {
			return nil, err
		}
		e.remote = remote.NewClient(hc, nil)
	}
	return e.remote, nil
}

// analyze dispatches to the operation and fills the matching result
// field. Returns whether the result came from cache.
func (e *Engine) analyze(ctx context.Context, g *stgraph.Graph, hash string, opts Options, result *Result) (bool, error) {
	switch opts.Operation {
	case "width":
		r, hit, err := e.WidthWithCacheInfo(ctx, g, hash, opts)
		result.Width = r
		return hit, err
	case "antichain":
		r, hit, err := e.AntichainWithCacheInfo(ctx, g, hash, opts)
		result.Antichain = r
		return hit, err
	case "safety":
		r, hit, err := e.SafetyWithCacheInfo(ctx, g, hash, opts)
		result.Safety = r
		return hit, err
	case "decompose":
		r, hit, err := e.DecomposeWithCacheInfo(ctx, g, hash, opts)
		result.Decompose = r
		return hit, err
	case "render":
		return false, nil // Rendering happens in its own stage.
	default:
		return false, errors.New(errors.ErrCodeInvalidArgument, "unknown operation %q", opts.Operation)
	}
}

// WidthWithCacheInfo computes the graph width with caching and returns
// cache hit info.
func (e *Engine) WidthWithCacheInfo(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*WidthResult, bool, error) {
	key := e.Keyer.WidthKey(hash, cache.WidthKeyOpts{
		Ignore:   keyStrings(opts.Ignore),
		Condense: opts.Condense,
	})

	var cached WidthResult
	if hit := e.probe(ctx, key, "width", &cached); hit {
		return &cached, true, nil
	}

	result := &WidthResult{}
	if opts.Condense {
		c, err := stgraph.Condense(g)
		if err != nil {
			return nil, false, err
		}
		w, err := c.Width(opts.Ignore)
		if err != nil {
			return nil, false, err
		}
		result.Width = w
		result.Condensed = true
		result.NontrivialSCCs = c.NontrivialSCCCount()
		result.LargestSCCSize = c.LargestSCCSize()
	} else {
		w, err := g.Width(opts.Ignore)
		if err != nil {
			return nil, false, err
		}
		result.Width = w
	}

	e.store(ctx, key, "width", result)
	return result, false, nil
}

// Width is a convenience wrapper that discards the cache hit info.
func (e *Engine) Width(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*WidthResult, error) {
	r, _, err := e.WidthWithCacheInfo(ctx, g, hash, opts)
	return r, err
}

// AntichainWithCacheInfo computes a maximum edge antichain with caching
// and returns cache hit info.
func (e *Engine) AntichainWithCacheInfo(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*AntichainResult, bool, error) {
	key := e.Keyer.AntichainKey(hash, cache.AntichainKeyOpts{
		Weights: weightStrings(opts.Weights),
	})

	var cached AntichainResult
	if hit := e.probe(ctx, key, "antichain", &cached); hit {
		return &cached, true, nil
	}

	weight, chain, err := g.MaxEdgeAntichain(opts.Weights)
	if err != nil {
		return nil, false, err
	}
	result := &AntichainResult{Weight: weight, Chain: make([]digraph.Key, len(chain))}
	for i, edge := range chain {
		result.Chain[i] = edge.Key()
	}

	e.store(ctx, key, "antichain", result)
	return result, false, nil
}

// Antichain is a convenience wrapper that discards the cache hit info.
func (e *Engine) Antichain(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*AntichainResult, error) {
	r, _, err := e.AntichainWithCacheInfo(ctx, g, hash, opts)
	return r, err
}

// SafetyWithCacheInfo computes safety certificates with caching and
// returns cache hit info. With Condense set, it additionally reports
// the largest pairwise-incompatible subset of the certificates.
func (e *Engine) SafetyWithCacheInfo(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*SafetyResult, bool, error) {
	key := e.Keyer.SafetyKey(hash, cache.SafetyKeyOpts{
		Mode:     opts.SafetyMode,
		Edges:    keyStrings(opts.Edges),
		Condense: opts.Condense,
		Workers:  opts.Workers,
	})

	var cached SafetyResult
	if hit := e.probe(ctx, key, "safety", &cached); hit {
		return &cached, true, nil
	}

	sopts := safety.Options{Workers: opts.Workers}
	edges := opts.Edges
	if len(edges) == 0 {
		edges = baseEdges(g)
	}

	var (
		seqs []stgraph.Sequence
		err  error
	)
	switch opts.SafetyMode {
	case "paths":
		seqs, err = safety.SafePaths(g, edges, sopts)
	case "sequences":
		seqs, err = safety.SafeSequences(g, edges, sopts)
	case "dominators":
		seqs, err = safety.SafeSequencesViaDominators(g, edges)
	default:
		return nil, false, errors.New(errors.ErrCodeInvalidArgument, "unknown safety mode %q", opts.SafetyMode)
	}
	if err != nil {
		return nil, false, err
	}

	result := &SafetyResult{Mode: opts.SafetyMode, Sequences: seqs}
	if opts.Condense {
		c, err := stgraph.Condense(g)
		if err != nil {
			return nil, false, err
		}
		incompatible, err := c.LongestIncompatibleSequences(seqs)
		if err != nil {
			return nil, false, err
		}
		result.Incompatible = incompatible
		result.IncompatibleCount = len(incompatible)
	}

	e.store(ctx, key, "safety", result)
	return result, false, nil
}

// Safety is a convenience wrapper that discards the cache hit info.
func (e *Engine) Safety(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*SafetyResult, error) {
	r, _, err := e.SafetyWithCacheInfo(ctx, g, hash, opts)
	return r, err
}

// DecomposeWithCacheInfo decomposes the recorded flow into
// max-bottleneck paths with caching and returns cache hit info.
func (e *Engine) DecomposeWithCacheInfo(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*DecomposeResult, bool, error) {
	key := e.Keyer.DecomposeKey(hash)

	var cached DecomposeResult
	if hit := e.probe(ctx, key, "decompose", &cached); hit {
		return &cached, true, nil
	}

	paths, weights, err := g.DecomposeMaxBottleneck(graphio.FlowAttr)
	if err != nil {
		return nil, false, err
	}
	result := &DecomposeResult{Paths: paths, Weights: weights}

	e.store(ctx, key, "decompose", result)
	return result, false, nil
}

// Decompose is a convenience wrapper that discards the cache hit info.
func (e *Engine) Decompose(ctx context.Context, g *stgraph.Graph, hash string, opts Options) (*DecomposeResult, error) {
	r, _, err := e.DecomposeWithCacheInfo(ctx, g, hash, opts)
	return r, err
}

// RenderWithCacheInfo renders the graph with caching and returns cache
// hit info.
func (e *Engine) RenderWithCacheInfo(ctx context.Context, g *stgraph.Graph, hash string, opts Options) ([]byte, bool, error) {
	key := e.Keyer.ArtifactKey(hash, cache.ArtifactKeyOpts{
		Format:       opts.Format,
		Highlight:    keyStrings(opts.Highlight),
		ShowFlow:     opts.ShowFlow,
		HideBoundary: opts.HideBoundary,
	})

	if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	dot := render.ToDOT(g, render.Options{
		ShowFlow:     opts.ShowFlow,
		Highlight:    opts.Highlight,
		HideBoundary: opts.HideBoundary,
	})

	var (
		artifact []byte
		err      error
	)
	switch opts.Format {
	case "dot":
		artifact = []byte(dot)
	case "svg":
		artifact, err = render.SVG(ctx, dot)
	case "png":
		artifact, err = render.PNG(ctx, dot)
	default:
		return nil, false, errors.New(errors.ErrCodeInvalidArgument, "unknown format %q", opts.Format)
	}
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeRender, err, "render %s", opts.Format)
	}

	if err := e.Cache.Set(ctx, key, artifact, cache.TTLArtifact); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(artifact))
	}
	return artifact, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (e *Engine) Render(ctx context.Context, g *stgraph.Graph, hash string, opts Options) ([]byte, error) {
	data, _, err := e.RenderWithCacheInfo(ctx, g, hash, opts)
	return data, err
}

// Close releases resources held by the engine (primarily the cache).
func (e *Engine) Close() error {
	if e.Cache != nil {
		return e.Cache.Close()
	}
	return nil
}

// probe tries the cache and unmarshals into v on a hit.
func (e *Engine) probe(ctx context.Context, key, keyType string, v any) bool {
	data, hit, err := e.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Stale or corrupt entry - recompute.
		observability.Cache().OnCacheMiss(ctx, keyType)
		return false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return true
}

// store caches v as JSON. Failures are not fatal; the result is simply
// recomputed next time.
func (e *Engine) store(ctx context.Context, key, keyType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := e.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
}

// applyLogger sets the engine's logger on options if not already set.
func (e *Engine) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = e.Logger
	}
}

func baseEdges(g *stgraph.Graph) []digraph.Key {
	edges := g.Base().Edges()
	keys := make([]digraph.Key, 0, len(edges))
	seen := make(map[digraph.Key]bool, len(edges))
	for _, e := range edges {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

func weightStrings(weights map[digraph.Key]int64) []string {
	out := make([]string, 0, len(weights))
	for k, w := range weights {
		out = append(out, k.From+" -> "+k.To+"="+strconv.FormatInt(w, 10))
	}
	slices.Sort(out)
	return out
}
