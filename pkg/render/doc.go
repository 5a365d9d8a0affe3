// Package render draws flow graphs as node-link diagrams.
//
// # Overview
//
// This package converts an augmented graph to Graphviz DOT source and
// renders it in-process with [github.com/goccy/go-graphviz]. Synthetic
// source and sink nodes are drawn as grey points with dashed boundary
// edges so the underlying graph stays visually distinct from the
// augmentation.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG or PNG:
//
//	dot := render.ToDOT(g, render.Options{ShowFlow: true})
//	svg, err := render.SVG(ctx, dot)
//	png, err := render.PNG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - ShowFlow: label each edge with its flow attribute
//   - Highlight: draw the given edges bold and red, e.g. to mark an
//     antichain or a safety certificate
//   - HideBoundary: omit the synthetic source/sink and their edges
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [SVG] or [PNG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// The generated DOT uses top-to-bottom layout (rankdir=TB) with rounded
// box nodes.
package render
