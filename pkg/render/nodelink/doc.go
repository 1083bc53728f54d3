// Package nodelink renders the concept graph of a model as a node-link
// diagram.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// elements appear as layer-colored boxes connected by typed arrows. It is a
// structural complement to the geometric views stored in the model: the
// layout is computed, not taken from view coordinates.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(m, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(dot)
//
// # DOT Format
//
// The [ToDOT] function produces Graphviz DOT source that can be:
//
//   - Rendered directly via [RenderSVG]
//   - Saved and processed with external Graphviz tools
//   - Customized before rendering
//
// Fill colors follow the conventional ArchiMate layer palette; relationship
// kinds map to the closest Graphviz arrowheads (diamond tails for
// composition and aggregation, hollow heads for realization).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
