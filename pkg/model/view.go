package model

import (
	"github.com/archweave/archweave/pkg/errors"
)

// NodeKind discriminates the visual role of a node.
type NodeKind string

// Node kinds.
const (
	NodeElement   NodeKind = "Element"   // renders a model element
	NodeContainer NodeKind = "Container" // pure grouping box, no element
	NodeLabel     NodeKind = "Label"     // free-floating text
)

// Point is a coordinate in view space.
type Point struct {
	X int
	Y int
}

// Style carries the visual attributes shared by nodes and connections.
// Colors are "#RRGGBB" strings; the empty string means unset. Opacities
// range 1-100; zero means unset (render fully opaque).
type Style struct {
	FillColor   string
	LineColor   string
	FontColor   string
	FontName    string
	FontSize    int
	LineWidth   int
	Opacity     int
	LineOpacity int
}

// Node is the visual occurrence of an element (or a pure container or label)
// inside a view. Nesting is expressed through ParentID back-references;
// coordinates are always absolute within the view.
type Node struct {
	ID         string
	ElementRef string // element id, empty for containers and labels
	Kind       NodeKind
	Label      string // text for label nodes
	ParentID   string // enclosing node id, empty for top-level nodes
	X, Y       int
	W, H       int
	Style      Style
}

// ConceptID implements Concept.
func (n *Node) ConceptID() string { return n.ID }

// ConceptKind implements Concept.
func (n *Node) ConceptKind() Kind { return KindNode }

// Connection is the visual occurrence of a relationship between two nodes
// of the same view.
type Connection struct {
	ID              string
	RelationshipRef string // relationship id, empty for purely visual lines
	Source          string // node id
	Target          string // node id
	Bendpoints      []Point
	Style           Style
}

// ConceptID implements Concept.
func (c *Connection) ConceptID() string { return c.ID }

// ConceptKind implements Concept.
func (c *Connection) ConceptKind() Kind { return KindConnection }

// View is a diagram: a named collection of nodes and connections rendering a
// subset of the model. Views are created through Model.AddView; a detached
// View value cannot hold nodes.
type View struct {
	ID            string
	Name          string
	Documentation string
	Folder        string
	Properties    Properties

	model *Model

	nodes map[string]*Node
	conns map[string]*Connection

	nodeOrder []string
	connOrder []string
}

// ConceptID implements Concept.
func (v *View) ConceptID() string { return v.ID }

// ConceptKind implements Concept.
func (v *View) ConceptKind() Kind { return KindView }

func (v *View) attached() error {
	if v.model == nil {
		return errors.New(errors.ErrCodeIntegrityViolation,
			"view %s is not attached to a model", v.ID)
	}
	return nil
}

// AddNode validates and adds a node, returning the stored copy.
// An element node must reference an existing element; a parent reference
// must name a node already present in this view.
func (v *View) AddNode(n Node) (*Node, error) {
	if err := v.attached(); err != nil {
		return nil, err
	}
	if n.Kind == "" {
		if n.ElementRef != "" {
			n.Kind = NodeElement
		} else {
			n.Kind = NodeContainer
		}
	}
	switch n.Kind {
	case NodeElement:
		if _, ok := v.model.elements[n.ElementRef]; !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedReference,
				"node %s: element %s not found", n.ID, n.ElementRef)
		}
	case NodeContainer, NodeLabel:
		if n.ElementRef != "" {
			return nil, errors.New(errors.ErrCodeIntegrityViolation,
				"node %s: %s node cannot reference an element", n.ID, n.Kind)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConceptType,
			"invalid node kind %q", string(n.Kind))
	}
	if n.ParentID != "" {
		if _, ok := v.nodes[n.ParentID]; !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedReference,
				"node %s: parent %s not found in view %s", n.ID, n.ParentID, v.ID)
		}
	}
	if err := v.model.claimID(n.ID, KindNode); err != nil {
		return nil, err
	}
	stored := n
	v.nodes[stored.ID] = &stored
	v.nodeOrder = append(v.nodeOrder, stored.ID)
	return &stored, nil
}

// NodeUpdate carries optional field updates for UpdateNode.
type NodeUpdate struct {
	Label    *string
	ParentID *string
	X, Y     *int
	W, H     *int
	Style    *Style
}

// UpdateNode applies upd to the node with the given id. Reparenting to a
// descendant of the node is rejected to keep the containment tree acyclic.
func (v *View) UpdateNode(id string, upd NodeUpdate) error {
	n, ok := v.nodes[id]
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference,
			"unknown node %s in view %s", id, v.ID)
	}
	if upd.ParentID != nil && *upd.ParentID != "" {
		p := *upd.ParentID
		if _, ok := v.nodes[p]; !ok {
			return errors.New(errors.ErrCodeUnresolvedReference,
				"node %s: parent %s not found in view %s", id, p, v.ID)
		}
		for cur := p; cur != ""; {
			if cur == id {
				return errors.New(errors.ErrCodeIntegrityViolation,
					"node %s: reparenting under its own descendant %s", id, p)
			}
			cur = v.nodes[cur].ParentID
		}
	}
	if upd.Label != nil {
		n.Label = *upd.Label
	}
	if upd.ParentID != nil {
		n.ParentID = *upd.ParentID
	}
	if upd.X != nil {
		n.X = *upd.X
	}
	if upd.Y != nil {
		n.Y = *upd.Y
	}
	if upd.W != nil {
		n.W = *upd.W
	}
	if upd.H != nil {
		n.H = *upd.H
	}
	if upd.Style != nil {
		n.Style = *upd.Style
	}
	return nil
}

// DeleteNode removes the node, its nested nodes, and every connection whose
// source or target was removed.
func (v *View) DeleteNode(id string) error {
	if _, ok := v.nodes[id]; !ok {
		return errors.New(errors.ErrCodeUnresolvedReference,
			"unknown node %s in view %s", id, v.ID)
	}

	doomed := map[string]bool{id: true}
	// containment tree is acyclic, so repeated sweeps terminate
	for changed := true; changed; {
		changed = false
		for nid, n := range v.nodes {
			if !doomed[nid] && n.ParentID != "" && doomed[n.ParentID] {
				doomed[nid] = true
				changed = true
			}
		}
	}

	for _, cid := range append([]string(nil), v.connOrder...) {
		if c := v.conns[cid]; doomed[c.Source] || doomed[c.Target] {
			v.removeConnection(cid)
		}
	}
	for nid := range doomed {
		delete(v.nodes, nid)
		v.nodeOrder = removeID(v.nodeOrder, nid)
		v.model.releaseID(nid)
	}
	return nil
}

// AddConnection validates and adds a connection, returning the stored copy.
// Both endpoints must be nodes of this view. When a relationship reference is
// present it must resolve, and the relationship's endpoints must match the
// elements the connected nodes render (looking through pure containers to the
// nearest enclosing element node).
func (v *View) AddConnection(c Connection) (*Connection, error) {
	if err := v.attached(); err != nil {
		return nil, err
	}
	if _, ok := v.nodes[c.Source]; !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedReference,
			"connection %s: source node %s not found in view %s", c.ID, c.Source, v.ID)
	}
	if _, ok := v.nodes[c.Target]; !ok {
		return nil, errors.New(errors.ErrCodeUnresolvedReference,
			"connection %s: target node %s not found in view %s", c.ID, c.Target, v.ID)
	}
	if c.RelationshipRef != "" {
		r, ok := v.model.relationships[c.RelationshipRef]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnresolvedReference,
				"connection %s: relationship %s not found", c.ID, c.RelationshipRef)
		}
		if got := v.effectiveElement(c.Source); got != r.Source {
			return nil, errors.New(errors.ErrCodeIntegrityViolation,
				"connection %s: source node renders %s, relationship %s starts at %s",
				c.ID, got, r.ID, r.Source)
		}
		if got := v.effectiveElement(c.Target); got != r.Target {
			return nil, errors.New(errors.ErrCodeIntegrityViolation,
				"connection %s: target node renders %s, relationship %s ends at %s",
				c.ID, got, r.ID, r.Target)
		}
	}
	if err := v.model.claimID(c.ID, KindConnection); err != nil {
		return nil, err
	}
	stored := c
	stored.Bendpoints = append([]Point(nil), c.Bendpoints...)
	v.conns[stored.ID] = &stored
	v.connOrder = append(v.connOrder, stored.ID)
	return &stored, nil
}

// effectiveElement returns the element a node stands for, walking up the
// containment chain when the node itself has no element reference.
func (v *View) effectiveElement(nodeID string) string {
	for id := nodeID; id != ""; {
		n, ok := v.nodes[id]
		if !ok {
			return ""
		}
		if n.ElementRef != "" {
			return n.ElementRef
		}
		id = n.ParentID
	}
	return ""
}

// DeleteConnection removes the connection with the given id.
func (v *View) DeleteConnection(id string) error {
	if _, ok := v.conns[id]; !ok {
		return errors.New(errors.ErrCodeUnresolvedReference,
			"unknown connection %s in view %s", id, v.ID)
	}
	v.removeConnection(id)
	return nil
}

func (v *View) removeConnection(id string) {
	delete(v.conns, id)
	v.connOrder = removeID(v.connOrder, id)
	v.model.releaseID(id)
}

// Node returns the node with the given id.
func (v *View) Node(id string) (*Node, bool) {
	n, ok := v.nodes[id]
	return n, ok
}

// Connection returns the connection with the given id.
func (v *View) Connection(id string) (*Connection, bool) {
	c, ok := v.conns[id]
	return c, ok
}

// Nodes returns all nodes in insertion order.
func (v *View) Nodes() []*Node {
	out := make([]*Node, 0, len(v.nodeOrder))
	for _, id := range v.nodeOrder {
		out = append(out, v.nodes[id])
	}
	return out
}

// Connections returns all connections in insertion order.
func (v *View) Connections() []*Connection {
	out := make([]*Connection, 0, len(v.connOrder))
	for _, id := range v.connOrder {
		out = append(out, v.conns[id])
	}
	return out
}

// RootNodes returns the top-level nodes in insertion order.
func (v *View) RootNodes() []*Node {
	var out []*Node
	for _, id := range v.nodeOrder {
		if n := v.nodes[id]; n.ParentID == "" {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the direct children of the given node in insertion order.
func (v *View) Children(parentID string) []*Node {
	var out []*Node
	for _, id := range v.nodeOrder {
		if n := v.nodes[id]; n.ParentID == parentID {
			out = append(out, n)
		}
	}
	return out
}
