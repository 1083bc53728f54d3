package cli

import (
	"testing"

	"github.com/archweave/archweave/pkg/model"
)

// Every layer an element type can resolve to must have a slot in the
// breakdown, or its elements would be counted but never shown.
func TestLayerOrderCoversAllLayers(t *testing.T) {
	representatives := []model.ElementType{
		model.Capability,
		model.BusinessProcess,
		model.ApplicationComponent,
		model.TechnologyNode,
		model.Equipment,
		model.Goal,
		model.WorkPackage,
		model.Junction,
		model.Grouping,
	}

	ordered := make(map[model.Layer]bool, len(layerOrder))
	for _, l := range layerOrder {
		ordered[l] = true
	}
	for _, et := range representatives {
		if l := et.Layer(); !ordered[l] {
			t.Errorf("layer %q (from %s) missing from the display order", l, et)
		}
	}
}
