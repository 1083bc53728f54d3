package exchange

import (
	"strings"
	"testing"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/model"
)

// richModel builds a model exercising every serialized feature: properties,
// folders, access and influence modifiers, nested nodes, labels, styles and
// bendpoints.
func richModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New("id-m1", "Order Landscape")
	m.Documentation = "Reference architecture for order handling."
	m.Properties.Add("owner", "architecture-board")

	var props model.Properties
	props.Add("status", "approved")
	props.Add("status", "reviewed")
	props.Add("cmdb", "CI-4711")

	add := func(e model.Element) {
		t.Helper()
		if _, err := m.AddElement(e); err != nil {
			t.Fatalf("AddElement(%s): %v", e.ID, err)
		}
	}
	add(model.Element{ID: "id-order", Type: model.BusinessProcess, Name: "Handle Order",
		Folder: "/Business/Processes", Properties: props})
	add(model.Element{ID: "id-crm", Type: model.ApplicationComponent, Name: "CRM",
		Documentation: "Customer relationship management.", Folder: "/Application"})
	add(model.Element{ID: "id-db", Type: model.DataObject, Name: "Order Record", Folder: "/Application"})
	add(model.Element{ID: "id-goal", Type: model.Goal, Name: "Faster fulfilment"})

	addRel := func(r model.Relationship) {
		t.Helper()
		if _, err := m.AddRelationship(r); err != nil {
			t.Fatalf("AddRelationship(%s): %v", r.ID, err)
		}
	}
	addRel(model.Relationship{ID: "id-r1", Type: model.Serving, Source: "id-crm", Target: "id-order",
		Name: "supports", Folder: "/Relations"})
	addRel(model.Relationship{ID: "id-r2", Type: model.Access, Source: "id-crm", Target: "id-db",
		AccessType: model.AccessReadWrite})
	addRel(model.Relationship{ID: "id-r3", Type: model.Influence, Source: "id-order", Target: "id-goal",
		Influence: "++"})
	addRel(model.Relationship{ID: "id-r4", Type: model.Association, Source: "id-order", Target: "id-db",
		IsDirected: true})

	v, err := m.AddView(model.View{ID: "id-v1", Name: "Main", Folder: "/Views"})
	if err != nil {
		t.Fatalf("AddView: %v", err)
	}
	mustNode := func(n model.Node) {
		t.Helper()
		if _, err := v.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	mustNode(model.Node{ID: "id-n1", ElementRef: "id-crm", X: 100, Y: 80, W: 140, H: 70,
		Style: model.Style{FillColor: "#C5E0B4", LineColor: "#5B9BD5", Opacity: 80, LineWidth: 2,
			FontName: "Sans", FontSize: 9, FontColor: "#333333"}})
	mustNode(model.Node{ID: "id-n2", ElementRef: "id-order", X: 400, Y: 80, W: 140, H: 70})
	mustNode(model.Node{ID: "id-n3", ParentID: "id-n1", ElementRef: "id-db", X: 120, Y: 110, W: 90, H: 40})
	mustNode(model.Node{ID: "id-n4", Kind: model.NodeLabel, Label: "draft diagram", X: 10, Y: 10, W: 100, H: 20})
	if _, err := v.AddConnection(model.Connection{
		ID: "id-c1", RelationshipRef: "id-r1", Source: "id-n1", Target: "id-n2",
		Bendpoints: []model.Point{{X: 260, Y: 60}, {X: 320, Y: 60}},
		Style:      model.Style{LineColor: "#FF0000", LineOpacity: 50},
	}); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	return m
}

func TestRoundTrip(t *testing.T) {
	original := richModel(t)

	var buf strings.Builder
	if err := NewWriter().Write(&buf, original, formats.Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	root, err := doctree.Parse(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, report, err := NewReader().Read(root, formats.Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("round trip skipped %d records", len(report.Skipped))
	}
	if !original.Equal(got) {
		t.Error("model after write/read differs from the original")
	}
}

func TestRoundTripTwiceStable(t *testing.T) {
	original := richModel(t)

	var first strings.Builder
	if err := NewWriter().Write(&first, original, formats.Options{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	root, err := doctree.Parse(strings.NewReader(first.String()))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m2, _, err := NewReader().Read(root, formats.Options{})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	var second strings.Builder
	if err := NewWriter().Write(&second, m2, formats.Options{}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if first.String() != second.String() {
		t.Error("serialization is not stable across a round trip")
	}
}

func TestWriteRejectsCorruptModel(t *testing.T) {
	m := richModel(t)
	r, _ := m.Relationship("id-r1")
	r.AccessType = model.AccessRead // corrupt behind the façade

	err := NewWriter().Write(&strings.Builder{}, m, formats.Options{})
	if err == nil {
		t.Fatal("Write accepted an inconsistent model")
	}
}
