// Package model implements the canonical in-memory representation of an
// ArchiMate model: a typed graph of elements and relationships plus views
// that visualize subsets of that graph through nodes and connections.
//
// The Model type is the single mutation gateway. All entities are stored in
// flat keyed collections with back-references (parent ids, endpoint ids)
// rather than nested structures, so deletion and lookup stay cheap and
// cascade logic has one enforcement point.
//
// Model is not safe for concurrent mutation. Read-only queries may run
// concurrently with each other but not with a mutation.
package model

import (
	"github.com/archweave/archweave/pkg/errors"
)

// Kind discriminates the entity kinds stored in a model.
type Kind string

// Entity kinds.
const (
	KindElement      Kind = "element"
	KindRelationship Kind = "relationship"
	KindView         Kind = "view"
	KindNode         Kind = "node"
	KindConnection   Kind = "connection"
)

// Concept is implemented by every identifiable entity in a model.
type Concept interface {
	ConceptID() string
	ConceptKind() Kind
}

// Element is a typed architectural concept. Elements are referenced, never
// owned, by relationships and by view nodes.
type Element struct {
	ID            string
	Type          ElementType
	Name          string
	Documentation string
	Folder        string // organization path, e.g. "/Application/Core"
	Properties    Properties
}

// ConceptID implements Concept.
func (e *Element) ConceptID() string { return e.ID }

// ConceptKind implements Concept.
func (e *Element) ConceptKind() Kind { return KindElement }

// Relationship is a typed directed edge between exactly two elements.
type Relationship struct {
	ID            string
	Type          RelationType
	Name          string
	Documentation string
	Folder        string
	Source        string // element id
	Target        string // element id
	AccessType    AccessType
	Influence     string // influence strength modifier ("+", "++", "0".."10")
	IsDirected    bool
	Properties    Properties
}

// ConceptID implements Concept.
func (r *Relationship) ConceptID() string { return r.ID }

// ConceptKind implements Concept.
func (r *Relationship) ConceptKind() Kind { return KindRelationship }

// Model is the root aggregate owning all elements, relationships and views.
// The zero value is not usable - use New.
type Model struct {
	ID            string
	Name          string
	Documentation string
	Properties    Properties

	elements      map[string]*Element
	relationships map[string]*Relationship
	views         map[string]*View

	elemOrder []string
	relOrder  []string
	viewOrder []string

	// index tracks every identifier in the model across all entity kinds,
	// including nodes and connections inside views.
	index map[string]Kind
}

// New creates an empty model with the given identifier and name.
func New(id, name string) *Model {
	return &Model{
		ID:            id,
		Name:          name,
		elements:      make(map[string]*Element),
		relationships: make(map[string]*Relationship),
		views:         make(map[string]*View),
		index:         make(map[string]Kind),
	}
}

// claimID reserves id for an entity of the given kind.
func (m *Model) claimID(id string, kind Kind) error {
	if err := errors.ValidateIdentifier(id); err != nil {
		return err
	}
	if existing, ok := m.index[id]; ok {
		return errors.New(errors.ErrCodeDuplicateIdentifier,
			"identifier %s already used by a %s", id, existing)
	}
	m.index[id] = kind
	return nil
}

func (m *Model) releaseID(id string) {
	delete(m.index, id)
}

// =============================================================================
// Element CRUD
// =============================================================================

// AddElement validates and adds an element, returning the stored copy.
// Fails with DUPLICATE_IDENTIFIER if the id is already in use by any entity,
// or INVALID_CONCEPT_TYPE for an unknown element type.
func (m *Model) AddElement(e Element) (*Element, error) {
	if !e.Type.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConceptType,
			"invalid element type %q", string(e.Type))
	}
	if err := m.claimID(e.ID, KindElement); err != nil {
		return nil, err
	}
	stored := e
	stored.Properties = e.Properties.Clone()
	m.elements[stored.ID] = &stored
	m.elemOrder = append(m.elemOrder, stored.ID)
	return &stored, nil
}

// ElementUpdate carries optional field updates for UpdateElement.
// Nil fields are left unchanged.
type ElementUpdate struct {
	Name          *string
	Documentation *string
	Folder        *string
	Type          *ElementType
}

// UpdateElement applies upd to the element with the given id.
// Changing the type does not re-validate existing relationships; the sweep
// in Validate will flag any combination that became structurally invalid.
func (m *Model) UpdateElement(id string, upd ElementUpdate) error {
	e, ok := m.elements[id]
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown element %s", id)
	}
	if upd.Type != nil && !upd.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidConceptType,
			"invalid element type %q", string(*upd.Type))
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Documentation != nil {
		e.Documentation = *upd.Documentation
	}
	if upd.Folder != nil {
		e.Folder = *upd.Folder
	}
	if upd.Type != nil {
		e.Type = *upd.Type
	}
	return nil
}

// DeleteElement removes the element and cascades:
//   - relationships having it as source or target are deleted (which in turn
//     deletes connections rendering them),
//   - nodes referencing it keep their place in the view but their element
//     reference is nulled, leaving a pure visual container.
func (m *Model) DeleteElement(id string) error {
	if _, ok := m.elements[id]; !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown element %s", id)
	}

	for _, rid := range m.relOrder {
		r, ok := m.relationships[rid]
		if !ok {
			continue
		}
		if r.Source == id || r.Target == id {
			// cascade; cannot fail for a known relationship
			_ = m.DeleteRelationship(rid)
		}
	}

	for _, v := range m.views {
		for _, n := range v.nodes {
			if n.ElementRef == id {
				n.ElementRef = ""
				n.Kind = NodeContainer
			}
		}
	}

	delete(m.elements, id)
	m.elemOrder = removeID(m.elemOrder, id)
	m.releaseID(id)
	return nil
}

// =============================================================================
// Relationship CRUD
// =============================================================================

// AddRelationship validates and adds a relationship, returning the stored
// copy. Both endpoints must resolve to existing elements in this model.
func (m *Model) AddRelationship(r Relationship) (*Relationship, error) {
	if !r.Type.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConceptType,
			"invalid relationship type %q", string(r.Type))
	}
	if !r.AccessType.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidConceptType,
			"invalid access type %q", string(r.AccessType))
	}
	if _, ok := m.elements[r.Source]; !ok {
		return nil, errors.New(errors.ErrCodeIntegrityViolation,
			"relationship %s: source %s does not resolve to an element", r.ID, r.Source)
	}
	if _, ok := m.elements[r.Target]; !ok {
		return nil, errors.New(errors.ErrCodeIntegrityViolation,
			"relationship %s: target %s does not resolve to an element", r.ID, r.Target)
	}
	if err := m.claimID(r.ID, KindRelationship); err != nil {
		return nil, err
	}
	stored := r
	stored.Properties = r.Properties.Clone()
	m.relationships[stored.ID] = &stored
	m.relOrder = append(m.relOrder, stored.ID)
	return &stored, nil
}

// RelationshipUpdate carries optional field updates for UpdateRelationship.
type RelationshipUpdate struct {
	Name          *string
	Documentation *string
	Folder        *string
	AccessType    *AccessType
	Influence     *string
}

// UpdateRelationship applies upd to the relationship with the given id.
// Endpoints are immutable; delete and re-add to rewire.
func (m *Model) UpdateRelationship(id string, upd RelationshipUpdate) error {
	r, ok := m.relationships[id]
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown relationship %s", id)
	}
	if upd.AccessType != nil && !upd.AccessType.Valid() {
		return errors.New(errors.ErrCodeInvalidConceptType,
			"invalid access type %q", string(*upd.AccessType))
	}
	if upd.Name != nil {
		r.Name = *upd.Name
	}
	if upd.Documentation != nil {
		r.Documentation = *upd.Documentation
	}
	if upd.Folder != nil {
		r.Folder = *upd.Folder
	}
	if upd.AccessType != nil {
		r.AccessType = *upd.AccessType
	}
	if upd.Influence != nil {
		r.Influence = *upd.Influence
	}
	return nil
}

// DeleteRelationship removes the relationship and every connection that
// renders it in any view.
func (m *Model) DeleteRelationship(id string) error {
	if _, ok := m.relationships[id]; !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown relationship %s", id)
	}
	for _, v := range m.views {
		for _, cid := range append([]string(nil), v.connOrder...) {
			if c, ok := v.conns[cid]; ok && c.RelationshipRef == id {
				v.removeConnection(cid)
			}
		}
	}
	delete(m.relationships, id)
	m.relOrder = removeID(m.relOrder, id)
	m.releaseID(id)
	return nil
}

// =============================================================================
// View CRUD
// =============================================================================

// AddView validates and adds a view, returning the stored copy.
// Nodes and connections are added through the returned view.
func (m *Model) AddView(v View) (*View, error) {
	if err := m.claimID(v.ID, KindView); err != nil {
		return nil, err
	}
	stored := v
	stored.Properties = v.Properties.Clone()
	stored.model = m
	stored.nodes = make(map[string]*Node)
	stored.conns = make(map[string]*Connection)
	stored.nodeOrder = nil
	stored.connOrder = nil
	m.views[stored.ID] = &stored
	m.viewOrder = append(m.viewOrder, stored.ID)
	return &stored, nil
}

// ViewUpdate carries optional field updates for UpdateView.
type ViewUpdate struct {
	Name          *string
	Documentation *string
	Folder        *string
}

// UpdateView applies upd to the view with the given id.
func (m *Model) UpdateView(id string, upd ViewUpdate) error {
	v, ok := m.views[id]
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown view %s", id)
	}
	if upd.Name != nil {
		v.Name = *upd.Name
	}
	if upd.Documentation != nil {
		v.Documentation = *upd.Documentation
	}
	if upd.Folder != nil {
		v.Folder = *upd.Folder
	}
	return nil
}

// DeleteView removes the view together with all its nodes and connections.
func (m *Model) DeleteView(id string) error {
	v, ok := m.views[id]
	if !ok {
		return errors.New(errors.ErrCodeUnresolvedReference, "unknown view %s", id)
	}
	for nid := range v.nodes {
		m.releaseID(nid)
	}
	for cid := range v.conns {
		m.releaseID(cid)
	}
	delete(m.views, id)
	m.viewOrder = removeID(m.viewOrder, id)
	m.releaseID(id)
	return nil
}

// =============================================================================
// Lookup
// =============================================================================

// Element returns the element with the given id.
func (m *Model) Element(id string) (*Element, bool) {
	e, ok := m.elements[id]
	return e, ok
}

// Relationship returns the relationship with the given id.
func (m *Model) Relationship(id string) (*Relationship, bool) {
	r, ok := m.relationships[id]
	return r, ok
}

// View returns the view with the given id.
func (m *Model) View(id string) (*View, bool) {
	v, ok := m.views[id]
	return v, ok
}

// Elements returns all elements in insertion order.
func (m *Model) Elements() []*Element {
	out := make([]*Element, 0, len(m.elemOrder))
	for _, id := range m.elemOrder {
		out = append(out, m.elements[id])
	}
	return out
}

// Relationships returns all relationships in insertion order.
func (m *Model) Relationships() []*Relationship {
	out := make([]*Relationship, 0, len(m.relOrder))
	for _, id := range m.relOrder {
		out = append(out, m.relationships[id])
	}
	return out
}

// Views returns all views in insertion order.
func (m *Model) Views() []*View {
	out := make([]*View, 0, len(m.viewOrder))
	for _, id := range m.viewOrder {
		out = append(out, m.views[id])
	}
	return out
}

// FindByID resolves an identifier to whatever entity carries it,
// searching all entity kinds including nodes and connections.
func (m *Model) FindByID(id string) (Concept, bool) {
	kind, ok := m.index[id]
	if !ok {
		return nil, false
	}
	switch kind {
	case KindElement:
		return m.elements[id], true
	case KindRelationship:
		return m.relationships[id], true
	case KindView:
		return m.views[id], true
	case KindNode, KindConnection:
		for _, v := range m.views {
			if n, ok := v.nodes[id]; ok {
				return n, true
			}
			if c, ok := v.conns[id]; ok {
				return c, true
			}
		}
	}
	return nil, false
}

// ElementsByType returns all elements of the given type in insertion order.
func (m *Model) ElementsByType(t ElementType) []*Element {
	var out []*Element
	for _, id := range m.elemOrder {
		if e := m.elements[id]; e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// RelationshipsByType returns all relationships of the given type in
// insertion order.
func (m *Model) RelationshipsByType(t RelationType) []*Relationship {
	var out []*Relationship
	for _, id := range m.relOrder {
		if r := m.relationships[id]; r.Type == t {
			out = append(out, r)
		}
	}
	return out
}

// FindByName returns every element, relationship and view whose name matches
// exactly. Name lookup is case-sensitive and may return multiple matches.
func (m *Model) FindByName(name string) []Concept {
	var out []Concept
	for _, id := range m.elemOrder {
		if e := m.elements[id]; e.Name == name {
			out = append(out, e)
		}
	}
	for _, id := range m.relOrder {
		if r := m.relationships[id]; r.Name == name {
			out = append(out, r)
		}
	}
	for _, id := range m.viewOrder {
		if v := m.views[id]; v.Name == name {
			out = append(out, v)
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
