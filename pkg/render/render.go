package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/graphio"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// Options configures diagram generation.
type Options struct {
	// ShowFlow labels each edge with its flow attribute.
	ShowFlow bool

	// Highlight lists edges to draw bold and red, e.g. an antichain
	// or a safety certificate.
	Highlight []digraph.Key

	// HideBoundary omits the synthetic source/sink nodes and their edges.
	HideBoundary bool
}

// ToDOT converts an augmented graph to Graphviz DOT format.
// The resulting DOT string can be rendered using [SVG] or [PNG].
//
// Synthetic source and sink nodes are rendered as grey points with
// dashed edges to distinguish them from the base graph.
func ToDOT(g *stgraph.Graph, opts Options) string {
	highlight := make(map[digraph.Key]bool, len(opts.Highlight))
	for _, k := range opts.Highlight {
		highlight[k] = true
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Working().Nodes() {
		boundary := n == g.Source() || n == g.Sink()
		if boundary && opts.HideBoundary {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n, strings.Join(nodeAttrs(g, n, boundary), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Working().Edges() {
		if g.IsBoundary(e) && opts.HideBoundary {
			continue
		}
		attrs := edgeAttrs(g, e, opts, highlight)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(g *stgraph.Graph, n string, boundary bool) []string {
	if !boundary {
		return []string{fmt.Sprintf("label=%q", n)}
	}
	label := "source"
	if n == g.Sink() {
		label = "sink"
	}
	return []string{
		fmt.Sprintf("label=%q", label),
		"shape=point",
		"width=0.2",
		"color=grey",
	}
}

func edgeAttrs(g *stgraph.Graph, e *digraph.Edge, opts Options, highlight map[digraph.Key]bool) []string {
	var attrs []string
	if g.IsBoundary(e) {
		attrs = append(attrs, "style=dashed", "color=grey")
	}
	if highlight[e.Key()] {
		attrs = append(attrs, "color=red", "penwidth=3")
	}
	if opts.ShowFlow {
		if v, ok := e.Attr(graphio.FlowAttr); ok {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatInt(v, 10)))
		}
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderFormat(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// PNG renders a DOT graph to PNG using Graphviz.
func PNG(ctx context.Context, dot string) ([]byte, error) {
	return renderFormat(ctx, dot, graphviz.PNG)
}

func renderFormat(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
