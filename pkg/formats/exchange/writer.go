package exchange

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/model"
)

// Writer serializes a model as an exchange format document. Identifiers are
// preserved verbatim, so reading the output yields a model structurally
// equal to the input.
type Writer struct{}

// NewWriter returns an exchange format writer.
func NewWriter() *Writer { return &Writer{} }

// Format implements formats.Writer.
func (w *Writer) Format() formats.Format { return formats.FormatExchange }

// Write implements formats.Writer. A model failing the integrity sweep is
// rejected instead of persisted.
func (w *Writer) Write(out io.Writer, m *model.Model, opts formats.Options) error {
	if errs := m.Validate(); len(errs) > 0 {
		return errors.Wrap(errors.ErrCodeIntegrityViolation, errs[0],
			"refusing to serialize inconsistent model (%d violations)", len(errs))
	}

	defs := newDefTable()
	root := &doctree.Element{Tag: "model"}
	root.SetAttr("xmlns", modelNamespace)
	root.SetAttr("xmlns:xsi", xsiNamespace)
	root.SetAttr("identifier", m.ID)
	root.AddText("name", m.Name)
	root.AddText("documentation", m.Documentation)
	writeProperties(root, &m.Properties, defs)

	if els := m.Elements(); len(els) > 0 {
		sec := root.Add("elements")
		for _, e := range els {
			el := sec.Add("element")
			el.SetAttr("identifier", e.ID)
			el.SetAttr("xsi:type", string(e.Type))
			el.AddText("name", e.Name)
			el.AddText("documentation", e.Documentation)
			writeProperties(el, &e.Properties, defs)
		}
	}

	if rels := m.Relationships(); len(rels) > 0 {
		sec := root.Add("relationships")
		for _, r := range rels {
			el := sec.Add("relationship")
			el.SetAttr("identifier", r.ID)
			el.SetAttr("source", r.Source)
			el.SetAttr("target", r.Target)
			el.SetAttr("xsi:type", string(r.Type))
			if r.AccessType != "" {
				el.SetAttr("accessType", string(r.AccessType))
			}
			if r.Influence != "" {
				el.SetAttr("modifier", r.Influence)
			}
			if r.IsDirected {
				el.SetAttr("isDirected", "true")
			}
			el.AddText("name", r.Name)
			el.AddText("documentation", r.Documentation)
			writeProperties(el, &r.Properties, defs)
		}
	}

	writeOrganizations(root, m)

	if views := m.Views(); len(views) > 0 {
		diagrams := root.Add("views").Add("diagrams")
		for _, v := range views {
			writeView(diagrams, v, defs)
		}
	}

	defs.emit(root)
	return root.Encode(out)
}

// defTable assigns stable property definition ids in first-use order.
type defTable struct {
	ids   map[string]string
	order []string
}

func newDefTable() *defTable {
	return &defTable{ids: make(map[string]string)}
}

func (d *defTable) ref(key string) string {
	if id, ok := d.ids[key]; ok {
		return id
	}
	id := fmt.Sprintf("propid-%d", len(d.order)+1)
	d.ids[key] = id
	d.order = append(d.order, key)
	return id
}

// emit appends the propertyDefinitions section when any property was used.
func (d *defTable) emit(root *doctree.Element) {
	if len(d.order) == 0 {
		return
	}
	sec := root.Add("propertyDefinitions")
	for _, key := range d.order {
		def := sec.Add("propertyDefinition")
		def.SetAttr("identifier", d.ids[key])
		def.SetAttr("type", "string")
		def.AddText("name", key)
	}
}

func writeProperties(el *doctree.Element, props *model.Properties, defs *defTable) {
	entries := props.All()
	if len(entries) == 0 {
		return
	}
	sec := el.Add("properties")
	for _, e := range entries {
		p := sec.Add("property")
		p.SetAttr("propertyDefinitionRef", defs.ref(e.Key))
		p.AddText("value", e.Value)
	}
}

// writeOrganizations reconstructs the folder tree from the Folder paths of
// elements, relationships and views. Concepts without a folder stay out of
// the organizations section.
func writeOrganizations(root *doctree.Element, m *model.Model) {
	type entry struct {
		folder string
		id     string
	}
	var all []entry
	for _, e := range m.Elements() {
		if e.Folder != "" {
			all = append(all, entry{e.Folder, e.ID})
		}
	}
	for _, r := range m.Relationships() {
		if r.Folder != "" {
			all = append(all, entry{r.Folder, r.ID})
		}
	}
	for _, v := range m.Views() {
		if v.Folder != "" {
			all = append(all, entry{v.Folder, v.ID})
		}
	}
	if len(all) == 0 {
		return
	}

	sec := root.Add("organizations")
	// item nodes per path, created on demand, in first-use order
	items := map[string]*doctree.Element{"": sec}
	var dir func(path string) *doctree.Element
	dir = func(path string) *doctree.Element {
		if it, ok := items[path]; ok {
			return it
		}
		parent, label := splitFolder(path)
		it := dir(parent).Add("item")
		it.AddText("label", label)
		items[path] = it
		return it
	}
	for _, e := range all {
		dir(e.folder).Add("ref").SetAttr("identifier", e.id)
	}
}

// splitFolder splits "/a/b/c" into "/a/b" and "c".
func splitFolder(path string) (parent, label string) {
	trimmed := strings.TrimSuffix(path, "/")
	i := strings.LastIndexByte(trimmed, '/')
	if i <= 0 {
		return "", strings.TrimPrefix(trimmed, "/")
	}
	return trimmed[:i], trimmed[i+1:]
}

func writeView(diagrams *doctree.Element, v *model.View, defs *defTable) {
	el := diagrams.Add("view")
	el.SetAttr("identifier", v.ID)
	el.SetAttr("xsi:type", "Diagram")
	el.AddText("name", v.Name)
	el.AddText("documentation", v.Documentation)
	writeProperties(el, &v.Properties, defs)

	for _, n := range v.RootNodes() {
		writeNode(el, v, n)
	}
	for _, c := range v.Connections() {
		writeConnection(el, c)
	}
}

func writeNode(parent *doctree.Element, v *model.View, n *model.Node) {
	el := parent.Add("node")
	el.SetAttr("identifier", n.ID)
	el.SetAttr("xsi:type", viewNodeType(n.Kind))
	if n.ElementRef != "" {
		el.SetAttr("elementRef", n.ElementRef)
	}
	el.SetAttr("x", strconv.Itoa(n.X))
	el.SetAttr("y", strconv.Itoa(n.Y))
	el.SetAttr("w", strconv.Itoa(n.W))
	el.SetAttr("h", strconv.Itoa(n.H))
	if n.Kind != model.NodeElement {
		el.AddText("label", n.Label)
	}
	writeStyle(el, n.Style)
	for _, child := range v.Children(n.ID) {
		writeNode(el, v, child)
	}
}

func writeConnection(parent *doctree.Element, c *model.Connection) {
	el := parent.Add("connection")
	el.SetAttr("identifier", c.ID)
	el.SetAttr("xsi:type", "Relationship")
	if c.RelationshipRef != "" {
		el.SetAttr("relationshipRef", c.RelationshipRef)
	}
	el.SetAttr("source", c.Source)
	el.SetAttr("target", c.Target)
	writeStyle(el, c.Style)
	for _, bp := range c.Bendpoints {
		b := el.Add("bendpoint")
		b.SetAttr("x", strconv.Itoa(bp.X))
		b.SetAttr("y", strconv.Itoa(bp.Y))
	}
}

// writeStyle emits the <style> child when any attribute is set.
func writeStyle(el *doctree.Element, s model.Style) {
	if s == (model.Style{}) {
		return
	}
	st := el.Add("style")
	if s.LineWidth != 0 {
		st.SetAttr("lineWidth", strconv.Itoa(s.LineWidth))
	}
	writeColor(st, "fillColor", s.FillColor, s.Opacity)
	writeColor(st, "lineColor", s.LineColor, s.LineOpacity)
	if s.FontName != "" || s.FontSize != 0 || s.FontColor != "" {
		f := st.Add("font")
		if s.FontName != "" {
			f.SetAttr("name", s.FontName)
		}
		if s.FontSize != 0 {
			f.SetAttr("size", strconv.Itoa(s.FontSize))
		}
		writeColor(f, "color", s.FontColor, 0)
	}
}

func writeColor(parent *doctree.Element, tag, color string, alpha int) {
	r, g, b, ok := rgb(color)
	if !ok {
		return
	}
	c := parent.Add(tag)
	c.SetAttr("r", r)
	c.SetAttr("g", g)
	c.SetAttr("b", b)
	if alpha != 0 {
		c.SetAttr("a", strconv.Itoa(alpha))
	}
}
