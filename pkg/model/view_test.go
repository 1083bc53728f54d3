package model

import (
	"testing"

	"github.com/archweave/archweave/pkg/errors"
)

func TestAddNodeValidation(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	tests := []struct {
		name     string
		node     Node
		wantCode errors.Code
	}{
		{"MissingElement", Node{ID: "id-x1", ElementRef: "id-ghost"}, errors.ErrCodeUnresolvedReference},
		{"MissingParent", Node{ID: "id-x2", ElementRef: "id-app", ParentID: "id-ghost"}, errors.ErrCodeUnresolvedReference},
		{"LabelWithElement", Node{ID: "id-x3", Kind: NodeLabel, ElementRef: "id-app"}, errors.ErrCodeIntegrityViolation},
		{"BadKind", Node{ID: "id-x4", Kind: "Sticker"}, errors.ErrCodeInvalidConceptType},
		{"DuplicateID", Node{ID: "id-n1", ElementRef: "id-app"}, errors.ErrCodeDuplicateIdentifier},
		{"Container", Node{ID: "id-x5"}, ""},
		{"Label", Node{ID: "id-x6", Kind: NodeLabel, Label: "note"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.AddNode(tt.node)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("AddNode: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("AddNode error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestAddNodeDefaultsKind(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	n, err := v.AddNode(Node{ID: "id-k1", ElementRef: "id-app"})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if n.Kind != NodeElement {
		t.Errorf("Kind = %q, want %q", n.Kind, NodeElement)
	}
	c, err := v.AddNode(Node{ID: "id-k2"})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if c.Kind != NodeContainer {
		t.Errorf("Kind = %q, want %q", c.Kind, NodeContainer)
	}
}

func TestAddConnectionValidation(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	tests := []struct {
		name     string
		conn     Connection
		wantCode errors.Code
	}{
		{"MissingSourceNode", Connection{ID: "id-y1", Source: "id-ghost", Target: "id-n2"}, errors.ErrCodeUnresolvedReference},
		{"MissingRelationship", Connection{ID: "id-y2", RelationshipRef: "id-ghost", Source: "id-n1", Target: "id-n2"}, errors.ErrCodeUnresolvedReference},
		{"EndpointMismatch", Connection{ID: "id-y3", RelationshipRef: "id-rel", Source: "id-n2", Target: "id-n1"}, errors.ErrCodeIntegrityViolation},
		{"VisualOnly", Connection{ID: "id-y4", Source: "id-n1", Target: "id-n2"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.AddConnection(tt.conn)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("AddConnection: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("AddConnection error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestConnectionEndpointThroughContainer(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	// A nested child with no element of its own stands for the nearest
	// enclosing element node.
	if _, err := v.AddNode(Node{ID: "id-box", ParentID: "id-n1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	_, err := v.AddConnection(Connection{
		ID: "id-c2", RelationshipRef: "id-rel", Source: "id-box", Target: "id-n2",
	})
	if err != nil {
		t.Errorf("connection from nested container: %v", err)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	if _, err := v.AddNode(Node{ID: "id-child", ParentID: "id-n1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := v.DeleteNode("id-n1"); err != nil {
		t.Fatalf("DeleteNode: %v", err)
	}
	if _, ok := v.Node("id-child"); ok {
		t.Error("nested node must be deleted with its parent")
	}
	if _, ok := v.Connection("id-c1"); ok {
		t.Error("connection must be deleted with its endpoint node")
	}
	if _, ok := m.FindByID("id-n1"); ok {
		t.Error("deleted node id must leave the identifier index")
	}
}

func TestUpdateNodeReparent(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	if _, err := v.AddNode(Node{ID: "id-box", ParentID: "id-n1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	// moving a node under its own descendant would create a cycle
	box := "id-box"
	err := v.UpdateNode("id-n1", NodeUpdate{ParentID: &box})
	if !errors.Is(err, errors.ErrCodeIntegrityViolation) {
		t.Errorf("cyclic reparent: error = %v, want INTEGRITY_VIOLATION", err)
	}

	n2 := "id-n2"
	if err := v.UpdateNode("id-box", NodeUpdate{ParentID: &n2}); err != nil {
		t.Fatalf("UpdateNode: %v", err)
	}
	n, _ := v.Node("id-box")
	if n.ParentID != "id-n2" {
		t.Errorf("ParentID = %q, want %q", n.ParentID, "id-n2")
	}
}

func TestDetachedView(t *testing.T) {
	v := View{ID: "id-loose"}
	if _, err := v.AddNode(Node{ID: "id-n"}); !errors.Is(err, errors.ErrCodeIntegrityViolation) {
		t.Errorf("detached view AddNode: error = %v, want INTEGRITY_VIOLATION", err)
	}
}

func TestChildren(t *testing.T) {
	m := sampleModel(t)
	v, _ := m.View("id-view")

	if _, err := v.AddNode(Node{ID: "id-a", ParentID: "id-n1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if _, err := v.AddNode(Node{ID: "id-b", ParentID: "id-n1"}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	kids := v.Children("id-n1")
	if len(kids) != 2 || kids[0].ID != "id-a" || kids[1].ID != "id-b" {
		t.Errorf("Children = %v, want [id-a id-b] in insertion order", kids)
	}
	roots := v.RootNodes()
	if len(roots) != 2 {
		t.Errorf("RootNodes returned %d, want 2", len(roots))
	}
}
