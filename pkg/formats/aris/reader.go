// Package aris reads ARIS AML exports. ARIS is not an ArchiMate tool: its
// symbol and connector codes are translated through a mapping table, its
// "Model" records become views, and link records pointing at objects missing
// from the export are dropped and accounted for instead of failing the
// import.
package aris

import (
	"fmt"
	"strconv"
	"strings"

	charmlog "github.com/charmbracelet/log"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/identity"
	"github.com/archweave/archweave/pkg/model"
)

// DefaultScale is the geometry scale applied when Options leaves the factors
// unset. ARIS positions are in a much finer grid than exchange coordinates.
const DefaultScale = 0.3

// Reader parses ARIS AML documents.
type Reader struct{}

// NewReader returns an ARIS reader with the built-in type mapping.
// Overrides from Options.TypeMapPath are loaded per Read call.
func NewReader() *Reader { return &Reader{} }

// Format implements formats.Reader.
func (r *Reader) Format() formats.Format { return formats.FormatARIS }

// Read builds a model from a parsed AML document.
func (r *Reader) Read(root *doctree.Element, opts formats.Options) (*model.Model, *formats.ImportReport, error) {
	if root.Tag != "AML" {
		return nil, nil, errors.New(errors.ErrCodeMalformedDocument,
			"expected AML root, got <%s>", root.Tag)
	}
	tm, err := NewTypeMap(opts.TypeMapPath)
	if err != nil {
		return nil, nil, err
	}

	sx, sy := opts.Scale(DefaultScale)

	im := &importer{
		m:      model.New(identity.Allocate(), "aris_export"),
		reg:    identity.NewRegistry(),
		tm:     tm,
		report: &formats.ImportReport{},
		log:    opts.Log(),
		sx:     sx,
		sy:     sy,
		labels: make(map[string]string),
	}

	if err := im.parseElements(root, ""); err != nil {
		return nil, nil, err
	}
	if err := im.parseRelationships(root); err != nil {
		return nil, nil, err
	}
	im.parseLabels(root)
	if err := im.parseViews(root, ""); err != nil {
		return nil, nil, err
	}

	im.log.Debug("aris import complete",
		"elements", len(im.m.Elements()),
		"relationships", len(im.m.Relationships()),
		"views", len(im.m.Views()),
		"skipped", len(im.report.Skipped))
	return im.m, im.report, nil
}

type importer struct {
	m      *model.Model
	reg    *identity.Registry
	tm     *TypeMap
	report *formats.ImportReport
	log    *charmlog.Logger
	sx, sy float64

	// free text definitions, foreign id -> text
	labels map[string]string
}

// arisID derives the canonical id of an ARIS identifier. ARIS ids carry a
// record kind prefix ("ObjDef.f00--aa1"); the prefix is dropped so different
// occurrences of the same payload cannot collide with each other.
func arisID(foreign string) string {
	if i := strings.IndexByte(foreign, '.'); i >= 0 {
		return identity.Canonical(foreign[i+1:])
	}
	return identity.Canonical(foreign)
}

// mapID registers foreign under its derived canonical id, allocating a fresh
// one on a canonical collision.
func (im *importer) mapID(foreign string) (string, error) {
	id := arisID(foreign)
	if id == "" || errors.ValidateIdentifier(id) != nil {
		id = identity.Allocate()
	}
	if err := im.reg.Register(foreign, id); err != nil {
		if errors.Is(err, errors.ErrCodeDuplicateForeignID) && im.reg.Registered(foreign) {
			return "", err
		}
		id = identity.Allocate()
		if err := im.reg.Register(foreign, id); err != nil {
			return "", err
		}
	}
	return id, nil
}

// attrText extracts the value of an AttrDef: the concatenated TextValue
// attributes of all nested PlainText records.
func attrText(attr *doctree.Element) string {
	var b strings.Builder
	var walk func(*doctree.Element)
	walk = func(el *doctree.Element) {
		if el.Tag == "PlainText" {
			b.WriteString(el.Attr("TextValue"))
		}
		for _, c := range el.Children {
			walk(c)
		}
	}
	walk(attr)
	return b.String()
}

// readAttrs splits the AttrDef records of an ARIS object into name,
// documentation and the remaining properties.
func readAttrs(el *doctree.Element) (name, doc string, props model.Properties) {
	for _, attr := range el.FindAll("AttrDef") {
		key := attr.Attr("AttrDef.Type")
		val := attrText(attr)
		switch key {
		case "AT_NAME":
			name = val
		case "AT_DESC":
			doc = val
		default:
			if key != "" {
				props.Add(key, val)
			}
		}
	}
	return name, doc, props
}

// groupName returns the folder label of a Group record.
func groupName(g *doctree.Element) string {
	if a := g.Find("AttrDef"); a != nil {
		return attrText(a)
	}
	return ""
}

// parseElements walks the group tree importing ObjDef records.
func (im *importer) parseElements(group *doctree.Element, folder string) error {
	for _, g := range group.FindAll("Group") {
		sub := folder
		if name := groupName(g); name != "" {
			sub = folder + "/" + name
		}
		for _, o := range g.FindAll("ObjDef") {
			foreign := o.Attr("ObjDef.ID")
			if foreign == "" {
				return errors.New(errors.ErrCodeMalformedDocument, "ObjDef is missing ObjDef.ID")
			}
			et, suppressed, err := im.tm.ElementType(o.Attr("SymbolNum"))
			if err != nil {
				return err
			}
			if suppressed {
				continue
			}
			id, err := im.mapID(foreign)
			if err != nil {
				return err
			}
			name, doc, props := readAttrs(o)
			if _, err := im.m.AddElement(model.Element{
				ID:            id,
				Type:          et,
				Name:          name,
				Documentation: doc,
				Folder:        sub,
				Properties:    props,
			}); err != nil {
				return err
			}
		}
		if err := im.parseElements(g, sub); err != nil {
			return err
		}
	}
	return nil
}

// parseRelationships walks the group tree again for the CxnDef records nested
// inside each ObjDef. The source is the enclosing object; link rows whose
// target is not part of the export are skipped and counted.
func (im *importer) parseRelationships(group *doctree.Element) error {
	for _, g := range group.FindAll("Group") {
		for _, o := range g.FindAll("ObjDef") {
			srcForeign := o.Attr("ObjDef.ID")
			for _, cxn := range o.FindAll("CxnDef") {
				foreign := cxn.Attr("CxnDef.ID")
				if foreign == "" {
					return errors.New(errors.ErrCodeMalformedDocument, "CxnDef is missing CxnDef.ID")
				}
				rt, suppressed, err := im.tm.RelationType(cxn.Attr("CxnDef.Type"))
				if err != nil {
					return err
				}
				if suppressed {
					continue
				}
				src, err := im.reg.Resolve(srcForeign)
				if err != nil {
					im.report.Skip("relationship", foreign, "source object not in export")
					continue
				}
				tgtForeign := cxn.Attr("ToObjDef.IdRef")
				tgt, err := im.reg.Resolve(tgtForeign)
				if err != nil {
					im.report.Skip("relationship", foreign, "target object not in export")
					continue
				}
				id, err := im.mapID(foreign)
				if err != nil {
					return err
				}
				_, _, props := readAttrs(cxn)
				if _, err := im.m.AddRelationship(model.Relationship{
					ID:         id,
					Type:       rt,
					Source:     src,
					Target:     tgt,
					Properties: props,
				}); err != nil {
					return err
				}
			}
		}
		if err := im.parseRelationships(g); err != nil {
			return err
		}
	}
	return nil
}

// parseLabels collects free text definitions for later placement in views.
func (im *importer) parseLabels(root *doctree.Element) {
	var walk func(*doctree.Element)
	walk = func(el *doctree.Element) {
		for _, t := range el.FindAll("FFTextDef") {
			if t.Attr("IsModelAttr") != "TEXT" {
				continue
			}
			foreign := t.Attr("FFTextDef.ID")
			name, _, _ := readAttrs(t)
			if foreign != "" && name != "" {
				im.labels[foreign] = name
			}
		}
		for _, g := range el.FindAll("Group") {
			walk(g)
		}
	}
	walk(root)
}

// parseViews imports ARIS Model records as views.
func (im *importer) parseViews(group *doctree.Element, folder string) error {
	for _, g := range group.FindAll("Group") {
		sub := folder
		if name := groupName(g); name != "" {
			sub = folder + "/" + name
		}
		for _, o := range g.FindAll("Model") {
			foreign := o.Attr("Model.ID")
			if foreign == "" {
				return errors.New(errors.ErrCodeMalformedDocument, "Model is missing Model.ID")
			}
			id, err := im.mapID(foreign)
			if err != nil {
				return err
			}
			name, doc, props := readAttrs(o)
			v, err := im.m.AddView(model.View{
				ID:            id,
				Name:          name,
				Documentation: doc,
				Folder:        sub,
				Properties:    props,
			})
			if err != nil {
				return err
			}
			if err := im.addOccurrences(v, o); err != nil {
				return err
			}
			im.addConnections(v, o)
			im.addContainers(v, o)
			im.addLabels(v, o)
		}
		if err := im.parseViews(g, sub); err != nil {
			return err
		}
	}
	return nil
}

// addOccurrences places ObjOcc records as element nodes.
func (im *importer) addOccurrences(v *model.View, viewEl *doctree.Element) error {
	for _, o := range viewEl.FindAll("ObjOcc") {
		foreign := o.Attr("ObjOcc.ID")
		ref, err := im.reg.Resolve(o.Attr("ObjDef.IdRef"))
		if err != nil {
			// the defining object was suppressed or missing
			im.report.Skip("node", foreign, "object definition not imported")
			continue
		}
		id, err := im.mapID(foreign)
		if err != nil {
			return err
		}
		n := model.Node{ID: id, ElementRef: ref}
		if pos := o.Find("Position"); pos != nil {
			n.X = im.scaleX(pos.Attr("Pos.X"))
			n.Y = im.scaleY(pos.Attr("Pos.Y"))
		}
		if size := o.Find("Size"); size != nil {
			n.W = im.scaleX(size.Attr("Size.dX"))
			n.H = im.scaleY(size.Attr("Size.dY"))
		}
		if e, ok := im.m.Element(ref); ok && e.Type == model.Grouping {
			n.Style.FillColor = "#000000"
		}
		if _, err := v.AddNode(n); err != nil {
			return err
		}
	}
	return nil
}

// addConnections places CxnOcc records. Embedded connections express visual
// nesting rather than a rendered line: the inner node is reparented and the
// connection dropped. Occurrence rows with missing endpoints are skipped and
// counted.
func (im *importer) addConnections(v *model.View, viewEl *doctree.Element) {
	for _, o := range viewEl.FindAll("ObjOcc") {
		srcForeign := o.Attr("ObjOcc.ID")
		for _, cxn := range o.FindAll("CxnOcc") {
			foreign := cxn.Attr("CxnOcc.ID")
			src, err := im.reg.Resolve(srcForeign)
			if err != nil {
				im.report.Skip("connection", foreign, "missing source occurrence")
				continue
			}
			tgt, err := im.reg.Resolve(cxn.Attr("ToObjOcc.IdRef"))
			if err != nil {
				im.report.Skip("connection", foreign, "missing target occurrence")
				continue
			}
			if cxn.Attr("Embedding") == "YES" {
				im.embed(v, src, tgt)
				continue
			}
			rel, err := im.reg.Resolve(cxn.Attr("CxnDef.IdRef"))
			if err != nil {
				im.report.Skip("connection", foreign, "relationship not imported")
				continue
			}
			if _, ok := im.m.Relationship(rel); !ok {
				im.report.Skip("connection", foreign, "relationship not imported")
				continue
			}
			id, err := im.mapID(foreign)
			if err != nil {
				im.report.Skip("connection", foreign, "duplicate occurrence id")
				continue
			}
			c := model.Connection{ID: id, RelationshipRef: rel, Source: src, Target: tgt}
			// the first and last positions are the endpoints themselves
			if positions := cxn.FindAll("Position"); len(positions) > 2 {
				for _, pos := range positions[1 : len(positions)-1] {
					c.Bendpoints = append(c.Bendpoints, model.Point{
						X: im.scaleX(pos.Attr("Pos.X")),
						Y: im.scaleY(pos.Attr("Pos.Y")),
					})
				}
			}
			if _, err := v.AddConnection(c); err != nil {
				im.report.Skip("connection", foreign, errors.UserMessage(err))
			}
		}
	}
}

// embed nests the geometrically inner node inside the outer one.
func (im *importer) embed(v *model.View, a, b string) {
	na, okA := v.Node(a)
	nb, okB := v.Node(b)
	if !okA || !okB {
		return
	}
	inner, outer := nb, na
	if !contains(na, nb) && contains(nb, na) {
		inner, outer = na, nb
	}
	parentID := outer.ID
	_ = v.UpdateNode(inner.ID, model.NodeUpdate{ParentID: &parentID})
}

func contains(outer, inner *model.Node) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.W <= outer.X+outer.W &&
		inner.Y+inner.H <= outer.Y+outer.H
}

// addContainers places GfxObj rounded rectangles as container nodes.
func (im *importer) addContainers(v *model.View, viewEl *doctree.Element) {
	for _, gfx := range viewEl.FindAll("GfxObj") {
		for _, o := range gfx.FindAll("RoundedRectangle") {
			pos, size := o.Find("Position"), o.Find("Size")
			if pos == nil || size == nil {
				continue
			}
			n := model.Node{
				ID:   identity.Allocate(),
				Kind: model.NodeContainer,
				X:    im.scaleX(pos.Attr("Pos.X")),
				Y:    im.scaleY(pos.Attr("Pos.Y")),
				W:    im.scaleX(size.Attr("Size.dX")),
				H:    im.scaleY(size.Attr("Size.dY")),
				Style: model.Style{
					FillColor: "#FFFFFF",
					LineColor: brushColor(o.Find("Brush")),
				},
			}
			if _, err := v.AddNode(n); err != nil {
				im.report.Skip("node", n.ID, errors.UserMessage(err))
			}
		}
	}
}

// addLabels places FFTextOcc records as label nodes, sized from the text.
func (im *importer) addLabels(v *model.View, viewEl *doctree.Element) {
	for _, occ := range viewEl.FindAll("FFTextOcc") {
		text, ok := im.labels[occ.Attr("FFTextDef.IdRef")]
		if !ok {
			continue
		}
		pos := occ.Find("Position")
		if pos == nil {
			continue
		}
		lines := strings.Split(text, "\n")
		width := 0
		for _, l := range lines {
			if w := 9 * len(l); w > width {
				width = w
			}
		}
		n := model.Node{
			ID:    identity.Allocate(),
			Kind:  model.NodeLabel,
			Label: text,
			X:     max(im.scaleX(pos.Attr("Pos.X")), 0),
			Y:     max(im.scaleY(pos.Attr("Pos.Y")), 0),
			W:     width + 18,
			H:     30 + 20*len(lines),
			Style: model.Style{FillColor: "#FFFFFF", LineColor: "#000000"},
		}
		if _, err := v.AddNode(n); err != nil {
			im.report.Skip("node", n.ID, errors.UserMessage(err))
		}
	}
}

// brushColor converts the decimal Brush color to "#RRGGBB".
func brushColor(brush *doctree.Element) string {
	if brush == nil {
		return "#000000"
	}
	n, err := strconv.Atoi(brush.Attr("Color"))
	if err != nil {
		return "#000000"
	}
	return fmt.Sprintf("#%06X", n&0xFFFFFF)
}

func (im *importer) scaleX(s string) int { return int(float64(atoi(s)) * im.sx) }
func (im *importer) scaleY(s string) int { return int(float64(atoi(s)) * im.sy) }

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
