package archi

import (
	"strings"
	"testing"

	"github.com/archweave/archweave/pkg/doctree"
	"github.com/archweave/archweave/pkg/errors"
	"github.com/archweave/archweave/pkg/formats"
	"github.com/archweave/archweave/pkg/model"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
                 xmlns:archimate="http://www.archimatetool.com/archimate"
                 name="Legacy" id="id-model1" version="4.9.0">
  <folder name="Business" id="id-f1" type="business">
    <element xsi:type="archimate:BusinessActor" name="Clerk" id="id-actor1">
      <documentation>Front office staff.</documentation>
      <property key="department" value="hr"/>
    </element>
    <folder name="Processes" id="id-f2">
      <element xsi:type="archimate:BusinessProcess" name="Handle Order" id="id-proc1"/>
    </folder>
  </folder>
  <folder name="Application" id="id-f3" type="application">
    <element xsi:type="archimate:ApplicationComponent" name="CRM" id="id-crm1"/>
    <element xsi:type="archimate:DataObject" name="Order Record" id="id-data1"/>
  </folder>
  <folder name="Relations" id="id-f4" type="relations">
    <element xsi:type="archimate:AssignmentRelationship" id="id-rel1" source="id-actor1" target="id-proc1"/>
    <element xsi:type="archimate:AccessRelationship" id="id-rel2" source="id-crm1" target="id-data1" accessType="3"/>
    <element xsi:type="archimate:UsedByRelationship" id="id-rel3" source="id-crm1" target="id-proc1"/>
  </folder>
  <folder name="Views" id="id-f5" type="diagrams">
    <element xsi:type="archimate:ArchimateDiagramModel" name="Default View" id="id-view1">
      <child xsi:type="archimate:Group" id="id-grp1" name="Back office" fillColor="#dddddd">
        <bounds x="100" y="50" width="400" height="300"/>
        <child xsi:type="archimate:DiagramObject" id="id-obj1" archimateElement="id-crm1" alpha="128">
          <bounds x="20" y="30" width="120" height="55"/>
          <sourceConnection xsi:type="archimate:Connection" id="id-conn1"
                            source="id-obj1" target="id-obj2" archimateRelationship="id-rel3"/>
        </child>
      </child>
      <child xsi:type="archimate:DiagramObject" id="id-obj2" archimateElement="id-proc1" font="1|Serif|10.0|0|LINUX|1">
        <bounds x="600" y="80" width="120" height="55"/>
      </child>
      <child xsi:type="archimate:Note" id="id-note1">
        <bounds x="10" y="10" width="100" height="40"/>
        <content>review me</content>
      </child>
    </element>
  </folder>
</archimate:model>
`

func readDoc(t *testing.T, doc string) (*model.Model, *formats.ImportReport, error) {
	t.Helper()
	root, err := doctree.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return NewReader().Read(root, formats.Options{})
}

func mustRead(t *testing.T, doc string) *model.Model {
	t.Helper()
	m, _, err := readDoc(t, doc)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return m
}

func TestReadSampleDocument(t *testing.T) {
	m := mustRead(t, sampleDoc)

	if m.Name != "Legacy" {
		t.Errorf("Name = %q, want Legacy", m.Name)
	}
	if got := len(m.Elements()); got != 4 {
		t.Fatalf("got %d elements, want 4", got)
	}

	actor, ok := m.Element("id-actor1")
	if !ok {
		t.Fatal("legacy id not preserved through canonical mapping")
	}
	if actor.Type != model.BusinessActor || actor.Folder != "/Business" {
		t.Errorf("actor = %s in %q", actor.Type, actor.Folder)
	}
	if got, _ := actor.Properties.Get("department"); got != "hr" {
		t.Errorf("property department = %q", got)
	}
	proc, _ := m.Element("id-proc1")
	if proc.Folder != "/Business/Processes" {
		t.Errorf("nested folder = %q, want /Business/Processes", proc.Folder)
	}

	access, ok := m.Relationship("id-rel2")
	if !ok || access.Type != model.Access {
		t.Fatalf("access relationship not imported: %+v", access)
	}
	if access.AccessType != model.AccessReadWrite {
		t.Errorf("accessType = %q, want ReadWrite", access.AccessType)
	}
	usedBy, _ := m.Relationship("id-rel3")
	if usedBy.Type != model.Serving {
		t.Errorf("UsedBy mapped to %q, want Serving", usedBy.Type)
	}
}

func TestReadViewGeometry(t *testing.T) {
	m := mustRead(t, sampleDoc)
	v, ok := m.View("id-view1")
	if !ok {
		t.Fatal("view not imported")
	}

	grp, _ := v.Node("id-grp1")
	if grp == nil || grp.Kind != model.NodeContainer || grp.Label != "Back office" {
		t.Fatalf("group node = %+v", grp)
	}
	obj, _ := v.Node("id-obj1")
	if obj == nil {
		t.Fatal("nested node not imported")
	}
	// bounds are relative to the group at (100,50)
	if obj.X != 120 || obj.Y != 80 {
		t.Errorf("absolute position = %d,%d, want 120,80", obj.X, obj.Y)
	}
	if obj.ParentID != "id-grp1" {
		t.Errorf("ParentID = %q, want id-grp1", obj.ParentID)
	}
	if obj.Style.Opacity != 50 {
		t.Errorf("alpha 128 gave opacity %d, want 50", obj.Style.Opacity)
	}

	obj2, _ := v.Node("id-obj2")
	if obj2.Style.FontName != "Serif" || obj2.Style.FontSize != 10 {
		t.Errorf("font = %q/%d, want Serif/10", obj2.Style.FontName, obj2.Style.FontSize)
	}

	note, _ := v.Node("id-note1")
	if note == nil || note.Kind != model.NodeLabel || note.Label != "review me" {
		t.Fatalf("note node = %+v", note)
	}

	conn, ok := v.Connection("id-conn1")
	if !ok {
		t.Fatal("connection not imported")
	}
	if conn.RelationshipRef != "id-rel3" || conn.Source != "id-obj1" || conn.Target != "id-obj2" {
		t.Errorf("connection wiring = %+v", conn)
	}
}

func TestReadIdempotent(t *testing.T) {
	a := mustRead(t, sampleDoc)
	b := mustRead(t, sampleDoc)
	if !a.Equal(b) {
		t.Error("two imports of the same document differ")
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantCode errors.Code
	}{
		{
			"DuplicateDefinition",
			`<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
			                  xmlns:archimate="http://www.archimatetool.com/archimate" id="id-m">
			   <folder name="Business">
			     <element xsi:type="archimate:BusinessActor" id="id-a"/>
			     <element xsi:type="archimate:BusinessActor" id="id-a"/>
			   </folder>
			 </archimate:model>`,
			errors.ErrCodeDuplicateForeignID,
		},
		{
			"UnknownElementType",
			`<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
			                  xmlns:archimate="http://www.archimatetool.com/archimate" id="id-m">
			   <folder name="Business">
			     <element xsi:type="archimate:TimeMachine" id="id-a"/>
			   </folder>
			 </archimate:model>`,
			errors.ErrCodeUnsupportedConceptType,
		},
		{
			"DanglingRelationship",
			`<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
			                  xmlns:archimate="http://www.archimatetool.com/archimate" id="id-m">
			   <folder name="Business">
			     <element xsi:type="archimate:BusinessActor" id="id-a"/>
			   </folder>
			   <folder name="Relations">
			     <element xsi:type="archimate:AssignmentRelationship" id="id-r" source="id-a" target="id-ghost"/>
			   </folder>
			 </archimate:model>`,
			errors.ErrCodeUnresolvedReference,
		},
		{
			"MissingModelID",
			`<archimate:model xmlns:archimate="http://www.archimatetool.com/archimate" name="x"/>`,
			errors.ErrCodeMalformedDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := readDoc(t, tt.doc)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Read error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSkippedDiagramKinds(t *testing.T) {
	doc := `<archimate:model xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
	                         xmlns:archimate="http://www.archimatetool.com/archimate" id="id-m">
	  <folder name="Views" type="diagrams">
	    <element xsi:type="archimate:SketchModel" id="id-sk1" name="scratch"/>
	  </folder>
	</archimate:model>`

	m, report, err := readDoc(t, doc)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(m.Views()) != 0 {
		t.Error("sketch model imported as a view")
	}
	if report.SkippedCount("view") != 1 {
		t.Errorf("SkippedCount(view) = %d, want 1", report.SkippedCount("view"))
	}
}
