// Package archi reads the native file format of the Archi modeling tool.
// The dialect nests concept definitions inside folders and stores view
// geometry relative to the enclosing container; the reader flattens both,
// translating every legacy id into canonical form through an identifier
// registry.
package archi

import (
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/identity"
	"github.com/archweave/archweave/pkg/model"
)

// Reader parses Archi tool documents.
type Reader struct{}

// NewReader returns an Archi dialect reader.
func NewReader() *Reader { return &Reader{} }

// Format implements formats.Reader.
func (r *Reader) Format() formats.Format { return formats.FormatArchi }

// Read builds a model from a parsed Archi document. The import runs in three
// passes over the folder tree: element definitions first, then relationships
// (which may reference elements defined later in the file), then diagrams.
func (r *Reader) Read(root *doctree.Element, opts formats.Options) (*model.Model, *formats.ImportReport, error) {
	if root.Tag != "model" {
		return nil, nil, errors.New(errors.ErrCodeMalformedDocument,
			"expected archimate:model root, got <%s>", root.Tag)
	}
	foreignID := root.Attr("id")
	if foreignID == "" {
		return nil, nil, errors.New(errors.ErrCodeMalformedDocument,
			"model is missing the id attribute")
	}

	im := &importer{
		reg:    identity.NewRegistry(),
		report: &formats.ImportReport{},
		log:    opts.Log(),
	}
	modelID, err := im.reg.Map(foreignID)
	if err != nil {
		return nil, nil, err
	}
	im.m = model.New(modelID, root.Attr("name"))
	im.m.Documentation = root.FindText("purpose")
	readArchiProperties(root, &im.m.Properties)

	if err := im.collectConcepts(root, ""); err != nil {
		return nil, nil, err
	}
	if err := im.addRelationships(); err != nil {
		return nil, nil, err
	}
	if err := im.addViews(); err != nil {
		return nil, nil, err
	}

	im.log.Debug("archi import complete",
		"elements", len(im.m.Elements()),
		"relationships", len(im.m.Relationships()),
		"views", len(im.m.Views()),
		"skipped", len(im.report.Skipped))
	return im.m, im.report, nil
}

type pendingConcept struct {
	el     *doctree.Element
	folder string
}

type importer struct {
	m      *model.Model
	reg    *identity.Registry
	report *formats.ImportReport
	log    *charmlog.Logger

	rels  []pendingConcept
	views []pendingConcept
}

// collectConcepts walks the folder tree, importing element definitions as it
// goes and deferring relationships and diagrams to later passes.
func (im *importer) collectConcepts(folder *doctree.Element, path string) error {
	for _, child := range folder.Children {
		switch child.Tag {
		case "folder":
			sub := path + "/" + child.Attr("name")
			if err := im.collectConcepts(child, sub); err != nil {
				return err
			}
		case "element":
			typ := archiType(child.Attr("xsi:type"))
			switch {
			case typ == "ArchimateDiagramModel":
				im.views = append(im.views, pendingConcept{child, path})
			case strings.HasSuffix(typ, "Relationship"):
				im.rels = append(im.rels, pendingConcept{child, path})
			case typ == "SketchModel" || typ == "CanvasModel":
				im.report.Skip("view", child.Attr("id"), "unsupported diagram kind "+typ)
			default:
				if err := im.addElement(child, path); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (im *importer) addElement(el *doctree.Element, folder string) error {
	foreign := el.Attr("id")
	if foreign == "" {
		return errors.New(errors.ErrCodeMalformedDocument, "element is missing id")
	}
	et, err := elementType(el)
	if err != nil {
		return err
	}
	// a second definition under the same legacy id is a corrupt document,
	// not a harmless repeat
	id, err := im.reg.Map(foreign)
	if err != nil {
		return err
	}
	e := model.Element{
		ID:            id,
		Type:          et,
		Name:          el.Attr("name"),
		Documentation: el.FindText("documentation"),
		Folder:        folder,
	}
	readArchiProperties(el, &e.Properties)
	_, err = im.m.AddElement(e)
	return err
}

func (im *importer) addRelationships() error {
	for _, p := range im.rels {
		el := p.el
		foreign := el.Attr("id")
		if foreign == "" {
			return errors.New(errors.ErrCodeMalformedDocument, "relationship is missing id")
		}
		rt, err := relationType(el.Attr("xsi:type"))
		if err != nil {
			return err
		}
		id, err := im.reg.Map(foreign)
		if err != nil {
			return err
		}
		src, err := im.reg.Resolve(el.Attr("source"))
		if err != nil {
			return err
		}
		tgt, err := im.reg.Resolve(el.Attr("target"))
		if err != nil {
			return err
		}
		r := model.Relationship{
			ID:            id,
			Type:          rt,
			Name:          el.Attr("name"),
			Documentation: el.FindText("documentation"),
			Folder:        p.folder,
			Source:        src,
			Target:        tgt,
			Influence:     el.Attr("strength"),
			IsDirected:    el.Attr("directed") == "true",
		}
		if rt == model.Access {
			r.AccessType = accessType(el.Attr("accessType"))
		}
		readArchiProperties(el, &r.Properties)
		if _, err := im.m.AddRelationship(r); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) addViews() error {
	for _, p := range im.views {
		el := p.el
		foreign := el.Attr("id")
		if foreign == "" {
			return errors.New(errors.ErrCodeMalformedDocument, "diagram is missing id")
		}
		id, err := im.reg.Map(foreign)
		if err != nil {
			return err
		}
		pending := model.View{
			ID:            id,
			Name:          el.Attr("name"),
			Documentation: el.FindText("documentation"),
			Folder:        p.folder,
		}
		readArchiProperties(el, &pending.Properties)
		v, err := im.m.AddView(pending)
		if err != nil {
			return err
		}
		var conns []*doctree.Element
		for _, child := range el.FindAll("child") {
			if err := im.addNode(v, child, "", 0, 0, &conns); err != nil {
				return err
			}
		}
		for _, c := range conns {
			if err := im.addConnection(v, c); err != nil {
				return err
			}
		}
	}
	return nil
}

// addNode imports one diagram child and recurses into nested children.
// Archi stores bounds relative to the parent; ox/oy carry the parent's
// absolute origin so stored coordinates become absolute.
func (im *importer) addNode(v *model.View, el *doctree.Element, parentID string, ox, oy int, conns *[]*doctree.Element) error {
	foreign := el.Attr("id")
	if foreign == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"diagram child in view %s is missing id", v.ID)
	}

	n := model.Node{ParentID: parentID, Style: archiStyle(el)}
	switch archiType(el.Attr("xsi:type")) {
	case "DiagramObject":
		ref, err := im.reg.Resolve(el.Attr("archimateElement"))
		if err != nil {
			return err
		}
		n.Kind = model.NodeElement
		n.ElementRef = ref
	case "Group":
		n.Kind = model.NodeContainer
		n.Label = el.Attr("name")
	case "Note":
		n.Kind = model.NodeLabel
		n.Label = el.FindText("content")
	case "DiagramModelReference":
		im.report.Skip("node", foreign, "diagram reference not representable")
		return nil
	default:
		im.report.Skip("node", foreign, "unknown diagram child kind")
		return nil
	}

	id, err := im.reg.Map(foreign)
	if err != nil {
		return err
	}
	n.ID = id
	if b := el.Find("bounds"); b != nil {
		n.X = ox + atoi(b.Attr("x"))
		n.Y = oy + atoi(b.Attr("y"))
		n.W = atoi(b.Attr("width"))
		n.H = atoi(b.Attr("height"))
	}
	if _, err := v.AddNode(n); err != nil {
		return err
	}

	*conns = append(*conns, el.FindAll("sourceConnection")...)
	for _, child := range el.FindAll("child") {
		if err := im.addNode(v, child, id, n.X, n.Y, conns); err != nil {
			return err
		}
	}
	return nil
}

func (im *importer) addConnection(v *model.View, el *doctree.Element) error {
	foreign := el.Attr("id")
	if foreign == "" {
		return errors.New(errors.ErrCodeMalformedDocument,
			"connection in view %s is missing id", v.ID)
	}
	src, err := im.reg.Resolve(el.Attr("source"))
	if err != nil {
		return err
	}
	tgt, err := im.reg.Resolve(el.Attr("target"))
	if err != nil {
		return err
	}
	c := model.Connection{Source: src, Target: tgt, Style: archiStyle(el)}
	if rel := el.Attr("archimateRelationship"); rel != "" {
		ref, err := im.reg.Resolve(rel)
		if err != nil {
			return err
		}
		c.RelationshipRef = ref
	}
	id, err := im.reg.Map(foreign)
	if err != nil {
		return err
	}
	c.ID = id

	// Archi bendpoints are offsets from the source node's center
	if bps := el.FindAll("bendpoint"); len(bps) > 0 {
		if sn, ok := v.Node(src); ok {
			cx, cy := sn.X+sn.W/2, sn.Y+sn.H/2
			for _, bp := range bps {
				c.Bendpoints = append(c.Bendpoints, model.Point{
					X: cx + atoi(bp.Attr("startX")),
					Y: cy + atoi(bp.Attr("startY")),
				})
			}
		}
	}
	_, err = v.AddConnection(c)
	return err
}

// readArchiProperties collects <property key value/> children.
func readArchiProperties(el *doctree.Element, props *model.Properties) {
	for _, p := range el.FindAll("property") {
		if key := p.Attr("key"); key != "" {
			props.Add(key, p.Attr("value"))
		}
	}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(s)
	return n
}
