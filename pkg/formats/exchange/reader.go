package exchange

import (
	"strconv"
	"strings"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/model"
)

// Reader parses exchange format documents.
type Reader struct{}

// NewReader returns an exchange format reader.
func NewReader() *Reader { return &Reader{} }

// Format implements formats.Reader.
func (r *Reader) Format() formats.Format { return formats.FormatExchange }

// Read builds a model from a parsed exchange document. Exchange ids are
// already canonical and are preserved verbatim. Any structural defect aborts
// the import; the exchange format is the native dialect and gets no
// per-record recovery.
func (r *Reader) Read(root *doctree.Element, opts formats.Options) (*model.Model, *formats.ImportReport, error) {
	log := opts.Log()
	report := &formats.ImportReport{}

	if root.Tag != "model" {
		return nil, nil, errors.New(errors.ErrCodeMalformedDocument,
			"expected model root, got <%s>", root.Tag)
	}
	id := root.Attr("identifier")
	if id == "" {
		return nil, nil, errors.New(errors.ErrCodeMalformedDocument,
			"model is missing the identifier attribute")
	}

	m := model.New(id, root.FindText("name"))
	m.Documentation = root.FindText("documentation")

	defs := propertyDefinitions(root)
	m.Properties = readProperties(root, defs)

	if els := root.Find("elements"); els != nil {
		for _, el := range els.FindAll("element") {
			if err := readElement(m, el, defs); err != nil {
				return nil, nil, err
			}
		}
	}
	if rels := root.Find("relationships"); rels != nil {
		for _, rel := range rels.FindAll("relationship") {
			if err := readRelationship(m, rel, defs); err != nil {
				return nil, nil, err
			}
		}
	}
	if orgs := root.Find("organizations"); orgs != nil {
		readOrganizations(m, orgs, "")
	}
	if views := root.Find("views"); views != nil {
		if diagrams := views.Find("diagrams"); diagrams != nil {
			for _, view := range diagrams.FindAll("view") {
				if err := readView(m, view, defs); err != nil {
					return nil, nil, err
				}
			}
		}
	}

	log.Debug("exchange import complete",
		"elements", len(m.Elements()),
		"relationships", len(m.Relationships()),
		"views", len(m.Views()))
	return m, report, nil
}

// propertyDefinitions maps definition ids to property keys.
func propertyDefinitions(root *doctree.Element) map[string]string {
	defs := make(map[string]string)
	sec := root.Find("propertyDefinitions")
	if sec == nil {
		return defs
	}
	for _, d := range sec.FindAll("propertyDefinition") {
		if id := d.Attr("identifier"); id != "" {
			defs[id] = d.FindText("name")
		}
	}
	return defs
}

// readProperties collects the properties of one concept element, resolving
// definition references to key names.
func readProperties(el *doctree.Element, defs map[string]string) model.Properties {
	var props model.Properties
	sec := el.Find("properties")
	if sec == nil {
		return props
	}
	for _, p := range sec.FindAll("property") {
		key, ok := defs[p.Attr("propertyDefinitionRef")]
		if !ok || key == "" {
			continue
		}
		props.Add(key, p.FindText("value"))
	}
	return props
}

func readElement(m *model.Model, el *doctree.Element, defs map[string]string) error {
	id := el.Attr("identifier")
	typ := el.Attr("xsi:type")
	if id == "" || typ == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"element is missing identifier or xsi:type")
	}
	et := model.ElementType(typ)
	if !et.Valid() {
		return errors.New(errors.ErrCodeUnsupportedConceptType,
			"element %s has unsupported type %q", id, typ)
	}
	_, err := m.AddElement(model.Element{
		ID:            id,
		Type:          et,
		Name:          el.FindText("name"),
		Documentation: el.FindText("documentation"),
		Properties:    readProperties(el, defs),
	})
	return err
}

func readRelationship(m *model.Model, el *doctree.Element, defs map[string]string) error {
	id := el.Attr("identifier")
	typ := el.Attr("xsi:type")
	if id == "" || typ == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"relationship is missing identifier or xsi:type")
	}
	rt := model.RelationType(typ)
	if !rt.Valid() {
		return errors.New(errors.ErrCodeUnsupportedConceptType,
			"relationship %s has unsupported type %q", id, typ)
	}
	src, tgt := el.Attr("source"), el.Attr("target")
	if src == "" || tgt == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"relationship %s is missing source or target", id)
	}
	_, err := m.AddRelationship(model.Relationship{
		ID:            id,
		Type:          rt,
		Name:          el.FindText("name"),
		Documentation: el.FindText("documentation"),
		Source:        src,
		Target:        tgt,
		AccessType:    model.AccessType(el.Attr("accessType")),
		Influence:     el.Attr("modifier"),
		IsDirected:    el.Attr("isDirected") == "true",
		Properties:    readProperties(el, defs),
	})
	return err
}

// readOrganizations walks the folder tree, assigning folder paths to the
// concepts each <ref> points at. Unknown refs are ignored; folders only
// organize, they never define.
func readOrganizations(m *model.Model, item *doctree.Element, path string) {
	for _, child := range item.FindAll("item") {
		label := child.FindText("label")
		childPath := path
		if label != "" {
			childPath = path + "/" + label
		}
		for _, ref := range child.FindAll("ref") {
			assignFolder(m, ref.Attr("identifier"), childPath)
		}
		readOrganizations(m, child, childPath)
	}
}

func assignFolder(m *model.Model, id, folder string) {
	if id == "" || folder == "" {
		return
	}
	c, ok := m.FindByID(id)
	if !ok {
		return
	}
	switch t := c.(type) {
	case *model.Element:
		t.Folder = folder
	case *model.Relationship:
		t.Folder = folder
	case *model.View:
		t.Folder = folder
	}
}

func readView(m *model.Model, el *doctree.Element, defs map[string]string) error {
	id := el.Attr("identifier")
	if id == "" {
		return errors.New(errors.ErrCodeMalformedDocument, "view is missing identifier")
	}
	v, err := m.AddView(model.View{
		ID:            id,
		Name:          el.FindText("name"),
		Documentation: el.FindText("documentation"),
		Properties:    readProperties(el, defs),
	})
	if err != nil {
		return err
	}
	for _, nodeEl := range el.FindAll("node") {
		if err := readNode(v, nodeEl, ""); err != nil {
			return err
		}
	}
	for _, connEl := range el.FindAll("connection") {
		if err := readConnection(v, connEl); err != nil {
			return err
		}
	}
	return nil
}

func readNode(v *model.View, el *doctree.Element, parentID string) error {
	id := el.Attr("identifier")
	if id == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"node in view %s is missing identifier", v.ID)
	}
	n := model.Node{
		ID:         id,
		ElementRef: el.Attr("elementRef"),
		ParentID:   parentID,
		X:          atoi(el.Attr("x")),
		Y:          atoi(el.Attr("y")),
		W:          atoi(el.Attr("w")),
		H:          atoi(el.Attr("h")),
		Style:      readStyle(el),
	}
	switch el.Attr("xsi:type") {
	case "Label":
		n.Kind = model.NodeLabel
		n.Label = el.FindText("label")
	case "Container":
		n.Kind = model.NodeContainer
		n.Label = el.FindText("label")
	default:
		if n.ElementRef == "" {
			n.Kind = model.NodeContainer
			n.Label = el.FindText("label")
		} else {
			n.Kind = model.NodeElement
		}
	}
	if _, err := v.AddNode(n); err != nil {
		return err
	}
	for _, child := range el.FindAll("node") {
		if err := readNode(v, child, id); err != nil {
			return err
		}
	}
	return nil
}

func readConnection(v *model.View, el *doctree.Element) error {
	id := el.Attr("identifier")
	if id == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"connection in view %s is missing identifier", v.ID)
	}
	c := model.Connection{
		ID:              id,
		RelationshipRef: el.Attr("relationshipRef"),
		Source:          el.Attr("source"),
		Target:          el.Attr("target"),
		Style:           readStyle(el),
	}
	for _, bp := range el.FindAll("bendpoint") {
		c.Bendpoints = append(c.Bendpoints, model.Point{
			X: atoi(bp.Attr("x")),
			Y: atoi(bp.Attr("y")),
		})
	}
	_, err := v.AddConnection(c)
	return err
}

// readStyle decodes the optional <style> child shared by nodes and
// connections.
func readStyle(el *doctree.Element) model.Style {
	var s model.Style
	st := el.Find("style")
	if st == nil {
		return s
	}
	if fc := st.Find("fillColor"); fc != nil {
		s.FillColor = hexColor(fc.Attr("r"), fc.Attr("g"), fc.Attr("b"))
		if a := fc.Attr("a"); a != "" {
			s.Opacity = atoi(a)
		}
	}
	if lc := st.Find("lineColor"); lc != nil {
		s.LineColor = hexColor(lc.Attr("r"), lc.Attr("g"), lc.Attr("b"))
		if a := lc.Attr("a"); a != "" {
			s.LineOpacity = atoi(a)
		}
	}
	if lw := st.Attr("lineWidth"); lw != "" {
		s.LineWidth = atoi(lw)
	}
	if f := st.Find("font"); f != nil {
		s.FontName = f.Attr("name")
		s.FontSize = atoi(strings.TrimSuffix(f.Attr("size"), ".0"))
		if fc := f.Find("color"); fc != nil {
			s.FontColor = hexColor(fc.Attr("r"), fc.Attr("g"), fc.Attr("b"))
		}
	}
	return s
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	// geometry occasionally carries decimals; truncate
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(s)
	return n
}
