package formats

import (
	"strings"
	"testing"

	"github.com/archweave/archweave/pkg/doctree"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want Format
	}{
		{
			"Exchange",
			`<model xmlns="http://www.opengroup.org/xsd/archimate/3.0/" identifier="id-m"/>`,
			FormatExchange,
		},
		{
			"Archi",
			`<archimate:model xmlns:archimate="http://www.archimatetool.com/archimate" version="4.9.0"/>`,
			FormatArchi,
		},
		{
			"ARIS",
			`<AML><Group/></AML>`,
			FormatARIS,
		},
		{
			"BareModel",
			`<model identifier="id-m"/>`,
			FormatExchange,
		},
		{
			"Unknown",
			`<svg/>`,
			FormatUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := doctree.Parse(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if got := DetectFormat(root); got != tt.want {
				t.Errorf("DetectFormat = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImportReport(t *testing.T) {
	var r ImportReport
	r.Skip("connection", "CxnOcc.1", "missing target occurrence")
	r.Skip("element", "ObjDef.2", "symbol suppressed by mapping")
	r.Skip("connection", "CxnOcc.3", "missing source occurrence")

	if got := r.SkippedCount("connection"); got != 2 {
		t.Errorf("SkippedCount(connection) = %d, want 2", got)
	}
	if got := r.SkippedCount(""); got != 3 {
		t.Errorf("SkippedCount() = %d, want 3", got)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if o.Log() == nil {
		t.Fatal("Log() must never return nil")
	}
	x, y := o.Scale(1)
	if x != 1 || y != 1 {
		t.Errorf("Scale(1) = %v, %v, want 1, 1", x, y)
	}
	x, y = o.Scale(0.3)
	if x != 0.3 || y != 0.3 {
		t.Errorf("Scale(0.3) = %v, %v, want 0.3, 0.3", x, y)
	}
	o.ScaleX, o.ScaleY = 0.5, 0.25
	x, y = o.Scale(0.3)
	if x != 0.5 || y != 0.25 {
		t.Errorf("Scale(0.3) = %v, %v, want 0.5, 0.25", x, y)
	}
}
