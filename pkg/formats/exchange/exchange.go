// Package exchange implements the Open Group ArchiMate exchange format:
// a reader and an id-preserving writer, so that a model written and read
// back is structurally identical to the original.
package exchange

import (
	"fmt"
	"strconv"

	"github.com/archweave/archweave/pkg/model"
)

// Namespace constants of the exchange schema.
const (
	modelNamespace = "http://www.opengroup.org/xsd/archimate/3.0/"
	xsiNamespace   = "http://www.w3.org/2001/XMLSchema-instance"
)

// hexColor formats r,g,b attribute strings as "#RRGGBB".
// Unparseable components yield the empty color.
func hexColor(r, g, b string) string {
	if r == "" && g == "" && b == "" {
		return ""
	}
	ri, err1 := strconv.Atoi(r)
	gi, err2 := strconv.Atoi(g)
	bi, err3 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || err3 != nil {
		return ""
	}
	return fmt.Sprintf("#%02X%02X%02X", ri&0xff, gi&0xff, bi&0xff)
}

// rgb splits a "#RRGGBB" color into decimal attribute strings.
func rgb(color string) (r, g, b string, ok bool) {
	if len(color) != 7 || color[0] != '#' {
		return "", "", "", false
	}
	v, err := strconv.ParseUint(color[1:], 16, 32)
	if err != nil {
		return "", "", "", false
	}
	return strconv.Itoa(int(v >> 16 & 0xff)),
		strconv.Itoa(int(v >> 8 & 0xff)),
		strconv.Itoa(int(v & 0xff)), true
}

// viewNodeType returns the xsi:type the exchange schema uses for a node kind.
func viewNodeType(k model.NodeKind) string {
	switch k {
	case model.NodeElement:
		return "Element"
	case model.NodeLabel:
		return "Label"
	default:
		return "Container"
	}
}
