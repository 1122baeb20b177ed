package merge

import (
	"errors"
	"testing"

	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

const existingXML = `<?xml version="1.0" encoding="UTF-8"?>
<cmData>
  <managedObject class="MRBTS" distName="MRBTS-90217">
    <p name="btsName">Downtown_West</p>
    <managedObject class="LNBTS" distName="MRBTS-90217/LNBTS-90217">
      <managedObject class="LNCEL" distName="MRBTS-90217/LNBTS-90217/LNCEL-11">
        <p name="cellId">11</p>
      </managedObject>
    </managedObject>
    <managedObject class="IPNO" distName="MRBTS-90217/IPNO-1">
      <p name="ipAddress">10.0.4.10</p>
      <p name="gateway">10.0.4.1</p>
    </managedObject>
  </managedObject>
</cmData>
`

func transmissionRec() table.TransmissionRecord {
	return table.TransmissionRecord{
		Station:    "Downtown_West",
		IP5G:       "10.0.0.5",
		Gateway:    "10.0.5.1",
		VLAN:       100,
		SubnetMask: "255.255.255.0",
	}
}

func TestModernize(t *testing.T) {
	existing := parseDoc(t, existingXML)
	reference := parseDoc(t, referenceXML)

	if err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{}); err != nil {
		t.Fatalf("Modernize error: %v", err)
	}

	// Exactly one 5G subtree attached under the station root.
	nrbts := existing.FindByClassSuffix("NRBTS")
	if len(nrbts) != 1 {
		t.Fatalf("NRBTS count = %d, want 1", len(nrbts))
	}
	if nrbts[0].DN != "MRBTS-90217/NRBTS-1" {
		t.Errorf("NRBTS DN = %q, want MRBTS-90217/NRBTS-1", nrbts[0].DN)
	}
	root, _ := existing.FindByDN("MRBTS-90217")
	if nrbts[0].Parent() != root {
		t.Error("attached subtree should hang off the anchor")
	}

	// Template identity substituted with the station's.
	cell, ok := existing.FindByDN("MRBTS-90217/NRBTS-1/NRCELL-1")
	if !ok {
		t.Fatal("NRCELL not re-parented with its subtree")
	}
	if v, _ := cell.Param("cellName"); v != "Downtown-West-1" {
		t.Errorf("cellName = %q, want Downtown-West-1", v)
	}
	if v, _ := nrbts[0].Param("nrbtsId"); v != "90217" {
		t.Errorf("nrbtsId = %q, want 90217", v)
	}
}

func TestModernize_TransportFallbackObject(t *testing.T) {
	existing := parseDoc(t, existingXML)
	reference := parseDoc(t, referenceXML)

	if err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{}); err != nil {
		t.Fatalf("Modernize error: %v", err)
	}

	// The 4G transport object carries a different address and no technology
	// tag, so a dedicated 5G transport object is created.
	mo, ok := existing.FindByDN("MRBTS-90217/IPNO-5G")
	if !ok {
		t.Fatal("expected a new IPNO-5G transport object")
	}
	if v, _ := mo.Param("ipAddress"); v != "10.0.0.5" {
		t.Errorf("ipAddress = %q, want 10.0.0.5", v)
	}
	if v, _ := mo.Param("vlanId"); v != "100" {
		t.Errorf("vlanId = %q, want 100", v)
	}
	if v, _ := mo.Param("netmask"); v != "255.255.255.0" {
		t.Errorf("netmask = %q, want 255.255.255.0", v)
	}

	// The unrelated 4G object is untouched.
	ipno4g, _ := existing.FindByDN("MRBTS-90217/IPNO-1")
	if v, _ := ipno4g.Param("ipAddress"); v != "10.0.4.10" {
		t.Errorf("4G ipAddress = %q, should be untouched", v)
	}
}

func TestModernize_TransportTaggedOverwrite(t *testing.T) {
	withTagged := `<cmData>` +
		`<managedObject class="MRBTS" distName="MRBTS-90217">` +
		`<p name="btsName">Downtown_West</p>` +
		`<managedObject class="IPNO" distName="MRBTS-90217/IPNO-2">` +
		`<p name="userLabel">5G transport</p>` +
		`<p name="ipAddress">0.0.0.0</p>` +
		`</managedObject>` +
		`</managedObject></cmData>`
	existing := parseDoc(t, withTagged)
	reference := parseDoc(t, referenceXML)

	if err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{}); err != nil {
		t.Fatalf("Modernize error: %v", err)
	}

	mo, _ := existing.FindByDN("MRBTS-90217/IPNO-2")
	if v, _ := mo.Param("ipAddress"); v != "10.0.0.5" {
		t.Errorf("tagged transport ipAddress = %q, want 10.0.0.5", v)
	}
	if v, _ := mo.Param("gateway"); v != "10.0.5.1" {
		t.Errorf("gateway = %q, want 10.0.5.1", v)
	}
	// Matched in place, so no fallback object.
	if _, ok := existing.FindByDN("MRBTS-90217/IPNO-5G"); ok {
		t.Error("fallback transport object should not be created when one matched")
	}
}

func TestModernize_ScopeAttached(t *testing.T) {
	withTagged := `<cmData>` +
		`<managedObject class="MRBTS" distName="MRBTS-90217">` +
		`<p name="btsName">Downtown_West</p>` +
		`<managedObject class="IPNO" distName="MRBTS-90217/IPNO-5G">` +
		`<p name="ipAddress">0.0.0.0</p>` +
		`</managedObject>` +
		`</managedObject></cmData>`
	existing := parseDoc(t, withTagged)
	reference := parseDoc(t, referenceXML)

	opts := ModernizeOptions{TransportScope: ScopeAttached}
	if err := Modernize(existing, reference, transmissionRec(), opts); err != nil {
		t.Fatalf("Modernize error: %v", err)
	}

	// Pre-existing transport objects stay untouched; only the subtree's own
	// transport objects (borrowed from the reference) get the new addresses.
	old, _ := existing.FindByDN("MRBTS-90217/IPNO-5G")
	if v, _ := old.Param("ipAddress"); v != "0.0.0.0" {
		t.Errorf("pre-existing transport overwritten under ScopeAttached: %q", v)
	}
}

func TestModernize_SpecificClass(t *testing.T) {
	// An existing station without any 5G object plus a reference holding one
	// NRCellDU template yields exactly one NRCellDU with the record's address.
	existing := parseDoc(t, existingXML)
	reference := parseDoc(t, `<cmData>`+
		`<managedObject class="MRBTS" distName="MRBTS-777">`+
		`<managedObject class="NRCellDU" distName="MRBTS-777/NRCellDU-1">`+
		`<p name="ipAddress">0.0.0.0</p>`+
		`</managedObject>`+
		`</managedObject></cmData>`)

	opts := ModernizeOptions{
		TargetClasses:  []string{"NRCellDU"},
		TransportClass: "NRCellDU",
		TransportScope: ScopeAttached,
	}
	rec := table.TransmissionRecord{Station: "Downtown_West", IP5G: "10.0.0.5", VLAN: 100}
	if err := Modernize(existing, reference, rec, opts); err != nil {
		t.Fatalf("Modernize error: %v", err)
	}

	cells := existing.FindByClassSuffix("NRCellDU")
	if len(cells) != 1 {
		t.Fatalf("NRCellDU count = %d, want 1", len(cells))
	}
	if cells[0].DN != "MRBTS-90217/NRCellDU-1" {
		t.Errorf("DN = %q", cells[0].DN)
	}
	if v, _ := cells[0].Param("ipAddress"); v != "10.0.0.5" {
		t.Errorf("ipAddress = %q, want 10.0.0.5", v)
	}
}

func TestModernize_AnchorNotFound(t *testing.T) {
	existing := parseDoc(t, `<cmData><managedObject class="LNBTS" distName="LNBTS-1"></managedObject></cmData>`)
	reference := parseDoc(t, referenceXML)

	err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{})
	if !errors.Is(err, util.ErrDNNotFound) {
		t.Fatalf("err = %v, want ErrDNNotFound", err)
	}
}

func TestModernize_MissingReferenceClass(t *testing.T) {
	existing := parseDoc(t, existingXML)
	reference := parseDoc(t, `<cmData><managedObject class="MRBTS" distName="MRBTS-777"></managedObject></cmData>`)

	err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{})
	if !errors.Is(err, util.ErrClassNotFound) {
		t.Fatalf("err = %v, want ErrClassNotFound", err)
	}
}

func TestModernize_CollisionAborts(t *testing.T) {
	// An object already occupies the DN the renumbered subtree would take
	// (its class does not match NRBTS, so the allocator cannot see it).
	withSquatter := `<cmData>` +
		`<managedObject class="MRBTS" distName="MRBTS-90217">` +
		`<p name="btsName">Downtown_West</p>` +
		`<managedObject class="LEGACY" distName="MRBTS-90217/NRBTS-1"></managedObject>` +
		`</managedObject></cmData>`
	existing := parseDoc(t, withSquatter)
	reference := parseDoc(t, referenceXML)

	err := Modernize(existing, reference, transmissionRec(), ModernizeOptions{})
	if !errors.Is(err, util.ErrDNCollision) {
		t.Fatalf("err = %v, want ErrDNCollision", err)
	}
}
