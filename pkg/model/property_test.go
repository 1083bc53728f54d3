package model

import (
	"reflect"
	"testing"
)

func TestPropertiesMultimap(t *testing.T) {
	var p Properties
	p.Add("tag", "a")
	p.Add("owner", "ops")
	p.Add("tag", "b")

	if got, _ := p.Get("tag"); got != "a" {
		t.Errorf("Get returned %q, want first value %q", got, "a")
	}
	if got := p.Values("tag"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Values = %v, want [a b]", got)
	}
	if p.Len() != 3 {
		t.Errorf("Len = %d, want 3", p.Len())
	}
}

func TestPropertiesSet(t *testing.T) {
	var p Properties
	p.Add("tag", "a")
	p.Add("owner", "ops")
	p.Add("tag", "b")

	p.Set("tag", "c")
	want := []PropertyEntry{{"tag", "c"}, {"owner", "ops"}}
	if got := p.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All = %v, want %v", got, want)
	}

	p.Set("new", "x")
	if got, ok := p.Get("new"); !ok || got != "x" {
		t.Errorf("Set on absent key: Get = %q, %v", got, ok)
	}
}

func TestPropertiesRemove(t *testing.T) {
	var p Properties
	p.Add("tag", "a")
	p.Add("tag", "b")
	p.Add("owner", "ops")

	p.Remove("tag")
	if p.Len() != 1 {
		t.Errorf("Len = %d, want 1", p.Len())
	}
	if _, ok := p.Get("tag"); ok {
		t.Error("removed key still present")
	}
}

func TestPropertiesCloneIndependence(t *testing.T) {
	var p Properties
	p.Add("k", "v")

	c := p.Clone()
	c.Add("k2", "v2")
	if p.Len() != 1 {
		t.Error("mutation of clone leaked into original")
	}
	if !p.Equal(&Properties{entries: []PropertyEntry{{"k", "v"}}}) {
		t.Error("original changed after clone")
	}
}

func TestElementTypeLayer(t *testing.T) {
	tests := []struct {
		typ   ElementType
		layer Layer
	}{
		{BusinessProcess, LayerBusiness},
		{ApplicationComponent, LayerApplication},
		{TechnologyNode, LayerTechnology},
		{Equipment, LayerPhysical},
		{Goal, LayerMotivation},
		{Capability, LayerStrategy},
		{Plateau, LayerImplementation},
		{Grouping, LayerOther},
		{AndJunction, LayerJunction},
		{"Banana", LayerOther},
	}
	for _, tt := range tests {
		if got := tt.typ.Layer(); got != tt.layer {
			t.Errorf("%s.Layer() = %s, want %s", tt.typ, got, tt.layer)
		}
	}
}

func TestTypeValidity(t *testing.T) {
	if ElementType("Banana").Valid() {
		t.Error("unknown element type reported valid")
	}
	if !Serving.Valid() {
		t.Error("Serving reported invalid")
	}
	if RelationType("Uses").Valid() {
		t.Error("legacy relationship name must not validate")
	}
	if !AccessType("").Valid() {
		t.Error("empty access modifier must be valid")
	}
	if AccessType("Peek").Valid() {
		t.Error("unknown access modifier reported valid")
	}
}
