package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/archweave/archweave/pkg/model"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes concept types and layers in node labels.
	// When false, only the element name (or id) is shown.
	Detailed bool
}

// layerFill assigns the conventional ArchiMate layer colors.
var layerFill = map[model.Layer]string{
	model.LayerStrategy:       "#F5DEAA",
	model.LayerBusiness:       "#FFFFB5",
	model.LayerApplication:    "#B5FFFF",
	model.LayerTechnology:     "#C9E7B7",
	model.LayerPhysical:       "#C9E7B7",
	model.LayerMotivation:     "#CCCCFF",
	model.LayerImplementation: "#FFE0E0",
}

// ToDOT converts the concept graph of a model to Graphviz DOT format:
// one box per element, one arrow per relationship. Views and geometry are
// ignored; this is a structural rendering, not a diagram export.
func ToDOT(m *model.Model, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, e := range m.Elements() {
		attrs := fmtAttrs(e, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", e.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, r := range m.Relationships() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", r.Source, r.Target, strings.Join(edgeAttrs(r), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(e *model.Element, detailed bool) string {
	name := e.Name
	if name == "" {
		name = e.ID
	}
	if !detailed {
		return name
	}
	return name + "\n" + string(e.Type) + " / " + string(e.Type.Layer())
}

func fmtAttrs(e *model.Element, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(e, detailed))}
	if fill, ok := layerFill[e.Type.Layer()]; ok {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	}
	return attrs
}

func edgeAttrs(r *model.Relationship) []string {
	attrs := []string{fmt.Sprintf("label=%q", string(r.Type))}
	switch r.Type {
	case model.Association:
		attrs = append(attrs, "style=dashed", "arrowhead=none")
		if r.IsDirected {
			attrs[len(attrs)-1] = "arrowhead=open"
		}
	case model.Composition:
		attrs = append(attrs, "arrowtail=diamond", "dir=both", "arrowhead=none")
	case model.Aggregation:
		attrs = append(attrs, "arrowtail=odiamond", "dir=both", "arrowhead=none")
	case model.Realization, model.Specialization:
		attrs = append(attrs, "arrowhead=onormal")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
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
