package model

// PropertyEntry is a single key/value pair attached to a concept.
type PropertyEntry struct {
	Key   string
	Value string
}

// Properties is an ordered multimap of free-form key/value pairs.
// Keys may repeat; insertion order is preserved for round-trip fidelity.
// The zero value is ready to use.
type Properties struct {
	entries []PropertyEntry
}

// Add appends a key/value pair, keeping any existing values for the key.
func (p *Properties) Add(key, value string) {
	p.entries = append(p.entries, PropertyEntry{Key: key, Value: value})
}

// Set replaces all values for key with a single value.
// If the key is absent, Set behaves like Add.
func (p *Properties) Set(key, value string) {
	kept := p.entries[:0]
	inserted := false
	for _, e := range p.entries {
		if e.Key == key {
			if !inserted {
				kept = append(kept, PropertyEntry{Key: key, Value: value})
				inserted = true
			}
			continue
		}
		kept = append(kept, e)
	}
	p.entries = kept
	if !inserted {
		p.Add(key, value)
	}
}

// Get returns the first value for key.
func (p *Properties) Get(key string) (string, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Values returns all values for key in insertion order.
func (p *Properties) Values(key string) []string {
	var out []string
	for _, e := range p.entries {
		if e.Key == key {
			out = append(out, e.Value)
		}
	}
	return out
}

// Remove deletes all values for key.
func (p *Properties) Remove(key string) {
	kept := p.entries[:0]
	for _, e := range p.entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	p.entries = kept
}

// Len returns the number of key/value pairs.
func (p *Properties) Len() int { return len(p.entries) }

// All returns a copy of the entries in insertion order.
func (p *Properties) All() []PropertyEntry {
	if len(p.entries) == 0 {
		return nil
	}
	out := make([]PropertyEntry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Clone returns an independent copy.
func (p *Properties) Clone() Properties {
	return Properties{entries: p.All()}
}

// Equal reports whether two property sets have identical entries in
// identical order.
func (p *Properties) Equal(other *Properties) bool {
	if len(p.entries) != len(other.entries) {
		return false
	}
	for i, e := range p.entries {
		if other.entries[i] != e {
			return false
		}
	}
	return true
}
