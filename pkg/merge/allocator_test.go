package merge

import (
	"testing"

	"github.com/rangen-network/rangen/pkg/cmdata"
)

func parseDoc(t *testing.T, xml string) *cmdata.Document {
	t.Helper()
	doc, err := cmdata.Parse([]byte(xml))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	return doc
}

func TestNextSuffix(t *testing.T) {
	doc := parseDoc(t, `<cmData>`+
		`<managedObject class="MRBTS" distName="MRBTS-1">`+
		`<managedObject class="LNCEL" distName="MRBTS-1/LNCEL-3"></managedObject>`+
		`<managedObject class="LNCEL" distName="MRBTS-1/LNCEL-7"></managedObject>`+
		`<managedObject class="LNCEL" distName="MRBTS-1/LNCEL-9"></managedObject>`+
		`<managedObject class="LNCEL" distName="MRBTS-1/LNCEL-TEMPLATE"></managedObject>`+
		`</managedObject></cmData>`)

	if got := NextSuffix(doc, "LNCEL"); got != 10 {
		t.Errorf("NextSuffix(LNCEL) = %d, want 10", got)
	}
	// No instances of the class at all.
	if got := NextSuffix(doc, "NRCELL"); got != 1 {
		t.Errorf("NextSuffix(NRCELL) = %d, want 1", got)
	}
}

func TestRenumber(t *testing.T) {
	doc := parseDoc(t, `<cmData>`+
		`<managedObject class="NRSECTOR" distName="MRBTS-1/NRSECTOR-1">`+
		`<p name="sectorId">1</p>`+
		`<managedObject class="NRCARRIER" distName="MRBTS-1/NRSECTOR-1/NRCARRIER-1"></managedObject>`+
		`</managedObject></cmData>`)
	tmpl := doc.Objects[0]

	got := Renumber(tmpl, 4)

	if got.DN != "MRBTS-1/NRSECTOR-4" {
		t.Errorf("root DN = %q, want MRBTS-1/NRSECTOR-4", got.DN)
	}
	if got.Children[0].DN != "MRBTS-1/NRSECTOR-4/NRCARRIER-1" {
		t.Errorf("child DN = %q, want MRBTS-1/NRSECTOR-4/NRCARRIER-1", got.Children[0].DN)
	}
	if got.Class != "NRSECTOR" {
		t.Errorf("class changed: %q", got.Class)
	}

	// Pure: the input subtree is untouched.
	if tmpl.DN != "MRBTS-1/NRSECTOR-1" {
		t.Errorf("input mutated: %q", tmpl.DN)
	}
	if tmpl.Children[0].DN != "MRBTS-1/NRSECTOR-1/NRCARRIER-1" {
		t.Errorf("input child mutated: %q", tmpl.Children[0].DN)
	}

	// And deterministic.
	again := Renumber(tmpl, 4)
	if again.DN != got.DN || again.Children[0].DN != got.Children[0].DN {
		t.Error("Renumber not deterministic")
	}
}

func TestRenumber_NoExistingSuffix(t *testing.T) {
	node := &cmdata.ManagedObject{Tag: "managedObject", Class: "IPNO", DN: "MRBTS-1/IPNO"}
	if got := Renumber(node, 2); got.DN != "MRBTS-1/IPNO-2" {
		t.Errorf("DN = %q, want MRBTS-1/IPNO-2", got.DN)
	}
}

func TestReparent(t *testing.T) {
	doc := parseDoc(t, `<cmData>`+
		`<managedObject class="NRBTS" distName="MRBTS-777/NRBTS-1">`+
		`<managedObject class="NRCELL" distName="MRBTS-777/NRBTS-1/NRCELL-1"></managedObject>`+
		`</managedObject></cmData>`)
	sub := doc.Objects[0]

	got := Reparent(sub, "MRBTS-90217", 2)

	if got.DN != "MRBTS-90217/NRBTS-2" {
		t.Errorf("root DN = %q, want MRBTS-90217/NRBTS-2", got.DN)
	}
	if got.Children[0].DN != "MRBTS-90217/NRBTS-2/NRCELL-1" {
		t.Errorf("child DN = %q", got.Children[0].DN)
	}
	if sub.DN != "MRBTS-777/NRBTS-1" {
		t.Errorf("input mutated: %q", sub.DN)
	}
}
