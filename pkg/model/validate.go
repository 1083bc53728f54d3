package model

import (
	"github.com/archweave/archweave/pkg/errors"
)

// Validate sweeps the whole model for referential integrity and reports every
// violation found. The mutation gateway keeps these invariants by
// construction; writers still run the sweep before serializing so a corrupted
// model is rejected instead of persisted.
func (m *Model) Validate() []error {
	var errs []error

	report := func(format string, args ...any) {
		errs = append(errs, errors.New(errors.ErrCodeIntegrityViolation, format, args...))
	}

	for _, id := range m.elemOrder {
		e := m.elements[id]
		if !e.Type.Valid() {
			report("element %s has invalid type %q", id, string(e.Type))
		}
	}

	for _, id := range m.relOrder {
		r := m.relationships[id]
		if !r.Type.Valid() {
			report("relationship %s has invalid type %q", id, string(r.Type))
		}
		if _, ok := m.elements[r.Source]; !ok {
			report("relationship %s: dangling source %s", id, r.Source)
		}
		if _, ok := m.elements[r.Target]; !ok {
			report("relationship %s: dangling target %s", id, r.Target)
		}
		if r.AccessType != "" && r.Type != Access {
			report("relationship %s: access modifier on %s relationship", id, string(r.Type))
		}
	}

	for _, vid := range m.viewOrder {
		v := m.views[vid]
		for _, nid := range v.nodeOrder {
			n := v.nodes[nid]
			if n.ElementRef != "" {
				if _, ok := m.elements[n.ElementRef]; !ok {
					report("view %s: node %s references missing element %s", vid, nid, n.ElementRef)
				}
			}
			if n.ParentID != "" {
				if _, ok := v.nodes[n.ParentID]; !ok {
					report("view %s: node %s references missing parent %s", vid, nid, n.ParentID)
				}
			}
		}
		for _, cid := range v.connOrder {
			c := v.conns[cid]
			if _, ok := v.nodes[c.Source]; !ok {
				report("view %s: connection %s references missing source node %s", vid, cid, c.Source)
			}
			if _, ok := v.nodes[c.Target]; !ok {
				report("view %s: connection %s references missing target node %s", vid, cid, c.Target)
			}
			if c.RelationshipRef != "" {
				if _, ok := m.relationships[c.RelationshipRef]; !ok {
					report("view %s: connection %s references missing relationship %s", vid, cid, c.RelationshipRef)
				}
			}
		}
	}

	return errs
}
