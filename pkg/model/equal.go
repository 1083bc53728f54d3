package model

// Equal reports whether two models are structurally identical: same
// identifiers, attributes, properties and references, with entity order
// ignored. It is primarily used by round-trip tests.
func (m *Model) Equal(other *Model) bool {
	if m.ID != other.ID || m.Name != other.Name || m.Documentation != other.Documentation {
		return false
	}
	if !m.Properties.Equal(&other.Properties) {
		return false
	}
	if len(m.elements) != len(other.elements) ||
		len(m.relationships) != len(other.relationships) ||
		len(m.views) != len(other.views) {
		return false
	}

	for id, a := range m.elements {
		b, ok := other.elements[id]
		if !ok || !elementEqual(a, b) {
			return false
		}
	}
	for id, a := range m.relationships {
		b, ok := other.relationships[id]
		if !ok || !relationshipEqual(a, b) {
			return false
		}
	}
	for id, a := range m.views {
		b, ok := other.views[id]
		if !ok || !viewEqual(a, b) {
			return false
		}
	}
	return true
}

func elementEqual(a, b *Element) bool {
	return a.ID == b.ID && a.Type == b.Type && a.Name == b.Name &&
		a.Documentation == b.Documentation && a.Folder == b.Folder &&
		a.Properties.Equal(&b.Properties)
}

func relationshipEqual(a, b *Relationship) bool {
	return a.ID == b.ID && a.Type == b.Type && a.Name == b.Name &&
		a.Documentation == b.Documentation && a.Folder == b.Folder &&
		a.Source == b.Source && a.Target == b.Target &&
		a.AccessType == b.AccessType && a.Influence == b.Influence &&
		a.IsDirected == b.IsDirected &&
		a.Properties.Equal(&b.Properties)
}

func viewEqual(a, b *View) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Documentation != b.Documentation ||
		a.Folder != b.Folder || !a.Properties.Equal(&b.Properties) {
		return false
	}
	if len(a.nodes) != len(b.nodes) || len(a.conns) != len(b.conns) {
		return false
	}
	for id, na := range a.nodes {
		nb, ok := b.nodes[id]
		if !ok || !nodeEqual(na, nb) {
			return false
		}
	}
	for id, ca := range a.conns {
		cb, ok := b.conns[id]
		if !ok || !connectionEqual(ca, cb) {
			return false
		}
	}
	return true
}

func nodeEqual(a, b *Node) bool {
	return a.ID == b.ID && a.ElementRef == b.ElementRef && a.Kind == b.Kind &&
		a.Label == b.Label && a.ParentID == b.ParentID &&
		a.X == b.X && a.Y == b.Y && a.W == b.W && a.H == b.H &&
		a.Style == b.Style
}

func connectionEqual(a, b *Connection) bool {
	if a.ID != b.ID || a.RelationshipRef != b.RelationshipRef ||
		a.Source != b.Source || a.Target != b.Target || a.Style != b.Style {
		return false
	}
	if len(a.Bendpoints) != len(b.Bendpoints) {
		return false
	}
	for i, p := range a.Bendpoints {
		if b.Bendpoints[i] != p {
			return false
		}
	}
	return true
}
