package archi

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

// Writer serializes a model as an Archi project file. Canonical identifiers
// are valid Archi ids and are written verbatim, so reading the output back
// yields a structurally equal model.
type Writer struct{}

// NewWriter returns an Archi dialect writer.
func NewWriter() *Writer { return &Writer{} }

// Format implements formats.Writer.
func (w *Writer) Format() formats.Format { return formats.FormatArchi }

// archiVersion is the tool version stamped on written documents.
const archiVersion = "4.9.0"

// Write implements formats.Writer. A model failing the integrity sweep is
// rejected instead of persisted.
func (w *Writer) Write(out io.Writer, m *model.Model, opts formats.Options) error {
	if errs := m.Validate(); len(errs) > 0 {
		return errors.Wrap(errors.ErrCodeIntegrityViolation, errs[0],
			"refusing to serialize inconsistent model (%d violations)", len(errs))
	}

	root := &doctree.Element{Tag: "archimate:model"}
	root.SetAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")
	root.SetAttr("xmlns:archimate", "http://www.archimatetool.com/archimate")
	root.SetAttr("name", m.Name)
	root.SetAttr("id", m.ID)
	root.SetAttr("version", archiVersion)
	root.AddText("purpose", m.Documentation)
	writeArchiProperties(root, &m.Properties)

	tree := newFolderTree(root)
	for _, e := range m.Elements() {
		writeElement(tree.dir(folderPath(layerFolder(e.Type), e.Folder)), e)
	}
	for _, r := range m.Relationships() {
		writeRelationship(tree.dir(folderPath("Relations", r.Folder)), r)
	}
	for _, v := range m.Views() {
		writeView(tree.dir(folderPath("Views", v.Folder)), v)
	}

	return root.Encode(out)
}

// standardFolders is the fixed top-level folder layout of an Archi project.
// Every concept lives under one of these.
var standardFolders = []struct {
	name string
	typ  string
}{
	{"Strategy", "strategy"},
	{"Business", "business"},
	{"Application", "application"},
	{"Technology", "technology"},
	{"Motivation", "motivation"},
	{"Implementation & Migration", "implementation_migration"},
	{"Other", "other"},
	{"Relations", "relations"},
	{"Views", "diagrams"},
}

// layerFolder maps an element type to its standard folder name. Physical
// elements share the Technology folder and junctions live under Other, the
// way the Archi tool files them.
func layerFolder(t model.ElementType) string {
	switch l := t.Layer(); l {
	case model.LayerPhysical:
		return "Technology"
	case model.LayerJunction, model.LayerOther:
		return "Other"
	case model.LayerImplementation:
		return "Implementation & Migration"
	default:
		return string(l)
	}
}

// folderPath places a concept folder under its standard top folder: a path
// already rooted there is kept, anything else is nested beneath it.
func folderPath(top, folder string) string {
	if folder == "" {
		return "/" + top
	}
	if strings.HasPrefix(folder, "/"+top) {
		return folder
	}
	return "/" + top + folder
}

// folderTree creates nested <folder> elements on demand, keyed by path.
type folderTree struct {
	items map[string]*doctree.Element
	seq   int
}

func newFolderTree(root *doctree.Element) *folderTree {
	t := &folderTree{items: map[string]*doctree.Element{"": root}}
	for _, f := range standardFolders {
		el := root.Add("folder")
		el.SetAttr("name", f.name)
		el.SetAttr("id", t.nextID())
		el.SetAttr("type", f.typ)
		t.items["/"+f.name] = el
	}
	return t
}

func (t *folderTree) nextID() string {
	t.seq++
	return fmt.Sprintf("id-folder-%d", t.seq)
}

func (t *folderTree) dir(path string) *doctree.Element {
	if el, ok := t.items[path]; ok {
		return el
	}
	parent, label := splitFolder(path)
	el := t.dir(parent).Add("folder")
	el.SetAttr("name", label)
	el.SetAttr("id", t.nextID())
	t.items[path] = el
	return el
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

func writeElement(folder *doctree.Element, e *model.Element) {
	el := folder.Add("element")
	el.SetAttr("xsi:type", "archimate:"+string(e.Type))
	if e.Name != "" {
		el.SetAttr("name", e.Name)
	}
	el.SetAttr("id", e.ID)
	el.AddText("documentation", e.Documentation)
	writeArchiProperties(el, &e.Properties)
}

func writeRelationship(folder *doctree.Element, r *model.Relationship) {
	el := folder.Add("element")
	el.SetAttr("xsi:type", "archimate:"+string(r.Type)+"Relationship")
	if r.Name != "" {
		el.SetAttr("name", r.Name)
	}
	el.SetAttr("id", r.ID)
	el.SetAttr("source", r.Source)
	el.SetAttr("target", r.Target)
	if r.Type == model.Access {
		if code := accessCode(r.AccessType); code != "" {
			el.SetAttr("accessType", code)
		}
	}
	if r.IsDirected {
		el.SetAttr("directed", "true")
	}
	if r.Influence != "" {
		el.SetAttr("strength", r.Influence)
	}
	el.AddText("documentation", r.Documentation)
	writeArchiProperties(el, &r.Properties)
}

// accessCode is the inverse of accessType: Write is the dialect default and
// stays implicit.
func accessCode(at model.AccessType) string {
	switch at {
	case model.AccessRead:
		return "1"
	case model.AccessAny:
		return "2"
	case model.AccessReadWrite:
		return "3"
	default:
		return ""
	}
}

func writeView(folder *doctree.Element, v *model.View) {
	el := folder.Add("element")
	el.SetAttr("xsi:type", "archimate:ArchimateDiagramModel")
	if v.Name != "" {
		el.SetAttr("name", v.Name)
	}
	el.SetAttr("id", v.ID)

	// connections are nested under their source node
	outgoing := make(map[string][]*model.Connection)
	incoming := make(map[string][]string)
	for _, c := range v.Connections() {
		outgoing[c.Source] = append(outgoing[c.Source], c)
		incoming[c.Target] = append(incoming[c.Target], c.ID)
	}
	for _, n := range v.RootNodes() {
		writeNode(el, v, n, 0, 0, outgoing, incoming)
	}

	el.AddText("documentation", v.Documentation)
	writeArchiProperties(el, &v.Properties)
}

// writeNode emits one diagram child with bounds relative to the parent
// origin (ox, oy), then recurses into nested children.
func writeNode(parent *doctree.Element, v *model.View, n *model.Node, ox, oy int, outgoing map[string][]*model.Connection, incoming map[string][]string) {
	el := parent.Add("child")
	switch n.Kind {
	case model.NodeContainer:
		el.SetAttr("xsi:type", "archimate:Group")
		if n.Label != "" {
			el.SetAttr("name", n.Label)
		}
	case model.NodeLabel:
		el.SetAttr("xsi:type", "archimate:Note")
	default:
		el.SetAttr("xsi:type", "archimate:DiagramObject")
	}
	el.SetAttr("id", n.ID)
	writeArchiStyle(el, n.Style)
	if n.Kind == model.NodeElement {
		el.SetAttr("archimateElement", n.ElementRef)
	}
	if refs := incoming[n.ID]; len(refs) > 0 {
		el.SetAttr("targetConnections", strings.Join(refs, " "))
	}

	b := el.Add("bounds")
	b.SetAttr("x", strconv.Itoa(n.X-ox))
	b.SetAttr("y", strconv.Itoa(n.Y-oy))
	b.SetAttr("width", strconv.Itoa(n.W))
	b.SetAttr("height", strconv.Itoa(n.H))

	if n.Kind == model.NodeLabel {
		el.AddText("content", n.Label)
	}
	for _, c := range outgoing[n.ID] {
		writeConnection(el, v, c)
	}
	for _, child := range v.Children(n.ID) {
		writeNode(el, v, child, n.X, n.Y, outgoing, incoming)
	}
}

// writeConnection emits a sourceConnection. Bendpoints are stored as offsets
// from the endpoint node centers.
func writeConnection(parent *doctree.Element, v *model.View, c *model.Connection) {
	el := parent.Add("sourceConnection")
	el.SetAttr("xsi:type", "archimate:Connection")
	el.SetAttr("id", c.ID)
	el.SetAttr("source", c.Source)
	el.SetAttr("target", c.Target)
	if c.RelationshipRef != "" {
		el.SetAttr("archimateRelationship", c.RelationshipRef)
	}
	writeArchiStyle(el, c.Style)

	sn, sok := v.Node(c.Source)
	tn, tok := v.Node(c.Target)
	if !sok || !tok {
		return
	}
	scx, scy := sn.X+sn.W/2, sn.Y+sn.H/2
	tcx, tcy := tn.X+tn.W/2, tn.Y+tn.H/2
	for _, bp := range c.Bendpoints {
		b := el.Add("bendpoint")
		b.SetAttr("startX", strconv.Itoa(bp.X-scx))
		b.SetAttr("startY", strconv.Itoa(bp.Y-scy))
		b.SetAttr("endX", strconv.Itoa(bp.X-tcx))
		b.SetAttr("endY", strconv.Itoa(bp.Y-tcy))
	}
}

// writeArchiStyle is the inverse of archiStyle: hex colors as attributes,
// opacities re-encoded to 0-255 alphas, fonts packed into the pipe string.
func writeArchiStyle(el *doctree.Element, s model.Style) {
	if s.FillColor != "" {
		el.SetAttr("fillColor", s.FillColor)
	}
	if s.LineColor != "" {
		el.SetAttr("lineColor", s.LineColor)
	}
	if s.FontColor != "" {
		el.SetAttr("fontColor", s.FontColor)
	}
	if s.LineWidth != 0 {
		el.SetAttr("lineWidth", strconv.Itoa(s.LineWidth))
	}
	if s.Opacity != 0 {
		el.SetAttr("alpha", strconv.Itoa(s.Opacity*255/100))
	}
	if s.LineOpacity != 0 {
		el.SetAttr("lineAlpha", strconv.Itoa(s.LineOpacity*255/100))
	}
	if s.FontName != "" || s.FontSize != 0 {
		el.SetAttr("font", fmt.Sprintf("1|%s|%d.0|0|WINDOWS|1|0|0|0|0|0|0|0|0|1|0|0|0|0|%s",
			s.FontName, s.FontSize, s.FontName))
	}
}

// writeArchiProperties emits <property key value/> children.
func writeArchiProperties(el *doctree.Element, props *model.Properties) {
	for _, e := range props.All() {
		p := el.Add("property")
		p.SetAttr("key", e.Key)
		p.SetAttr("value", e.Value)
	}
}
