package model

// Merge copies every entity of other into m. Identifiers already taken in m
// are remapped through fresh, which must return an unused canonical id; all
// references inside the copied entities follow the remapping. other is left
// untouched.
func (m *Model) Merge(other *Model, fresh func() string) error {
	remap := make(map[string]string)
	mapped := func(id string) string {
		if id == "" {
			return ""
		}
		if to, ok := remap[id]; ok {
			return to
		}
		return id
	}

	for id := range other.index {
		if _, taken := m.index[id]; taken {
			remap[id] = fresh()
		}
	}

	for _, e := range other.Elements() {
		dup := *e
		dup.ID = mapped(e.ID)
		dup.Properties = e.Properties.Clone()
		if _, err := m.AddElement(dup); err != nil {
			return err
		}
	}
	for _, r := range other.Relationships() {
		dup := *r
		dup.ID = mapped(r.ID)
		dup.Source = mapped(r.Source)
		dup.Target = mapped(r.Target)
		dup.Properties = r.Properties.Clone()
		if _, err := m.AddRelationship(dup); err != nil {
			return err
		}
	}
	for _, v := range other.Views() {
		nv, err := m.AddView(View{
			ID:            mapped(v.ID),
			Name:          v.Name,
			Documentation: v.Documentation,
			Folder:        v.Folder,
			Properties:    v.Properties.Clone(),
		})
		if err != nil {
			return err
		}
		for _, n := range v.Nodes() {
			dup := *n
			dup.ID = mapped(n.ID)
			dup.ElementRef = mapped(n.ElementRef)
			dup.ParentID = mapped(n.ParentID)
			if _, err := nv.AddNode(dup); err != nil {
				return err
			}
		}
		for _, c := range v.Connections() {
			dup := *c
			dup.ID = mapped(c.ID)
			dup.RelationshipRef = mapped(c.RelationshipRef)
			dup.Source = mapped(c.Source)
			dup.Target = mapped(c.Target)
			if _, err := nv.AddConnection(dup); err != nil {
				return err
			}
		}
	}
	return nil
}
