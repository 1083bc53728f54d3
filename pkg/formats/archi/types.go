package archi

import (
	"strings"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/model"
)

// archiType strips the archimate: prefix from an xsi:type value.
func archiType(t string) string {
	return strings.TrimPrefix(t, "archimate:")
}

// britishSpellings maps the relationship spellings older Archi releases use
// to the current taxonomy names.
var britishSpellings = map[string]model.RelationType{
	"Realisation":    model.Realization,
	"Specialisation": model.Specialization,
	"UsedBy":         model.Serving,
}

// relationType translates an Archi relationship xsi:type.
func relationType(xsiType string) (model.RelationType, error) {
	name := strings.TrimSuffix(archiType(xsiType), "Relationship")
	if rt, ok := britishSpellings[name]; ok {
		return rt, nil
	}
	rt := model.RelationType(name)
	if !rt.Valid() {
		return "", errors.New(errors.ErrCodeUnsupportedConceptType,
			"unsupported relationship type %q", xsiType)
	}
	return rt, nil
}

// elementType translates an Archi element definition, folding junction
// variants into their typed forms.
func elementType(el *doctree.Element) (model.ElementType, error) {
	name := archiType(el.Attr("xsi:type"))
	if name == "Junction" {
		switch el.Attr("type") {
		case "or":
			return model.OrJunction, nil
		case "and":
			return model.AndJunction, nil
		default:
			return model.Junction, nil
		}
	}
	et := model.ElementType(name)
	if !et.Valid() {
		return "", errors.New(errors.ErrCodeUnsupportedConceptType,
			"unsupported element type %q", el.Attr("xsi:type"))
	}
	return et, nil
}

// accessType decodes the numeric accessType attribute of Access
// relationships. Archi's default (absent attribute) is Write.
func accessType(code string) model.AccessType {
	switch code {
	case "1":
		return model.AccessRead
	case "2":
		return model.AccessAny
	case "3":
		return model.AccessReadWrite
	default:
		return model.AccessWrite
	}
}

// archiStyle decodes the style attributes Archi puts directly on diagram
// children: hex colors, 0-255 alphas and the pipe-delimited font string.
func archiStyle(el *doctree.Element) model.Style {
	s := model.Style{
		FillColor: el.Attr("fillColor"),
		LineColor: el.Attr("lineColor"),
		FontColor: el.Attr("fontColor"),
		LineWidth: atoi(el.Attr("lineWidth")),
	}
	if a := el.Attr("alpha"); a != "" {
		s.Opacity = alphaPercent(a)
	}
	if a := el.Attr("lineAlpha"); a != "" {
		s.LineOpacity = alphaPercent(a)
	}
	// font format: "1|Arial|9.0|0|WINDOWS|1|..."
	if f := el.Attr("font"); f != "" {
		parts := strings.Split(f, "|")
		if len(parts) > 1 {
			s.FontName = parts[1]
		}
		if len(parts) > 2 {
			s.FontSize = atoi(parts[2])
		}
	}
	return s
}

func alphaPercent(a string) int {
	v := atoi(a)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 100
	}
	return (v*100 + 127) / 255
}
