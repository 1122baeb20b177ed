package merge

import (
	"errors"
	"strconv"
	"testing"

	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

const skeletonXML = `<?xml version="1.0" encoding="UTF-8"?>
<cmData>
  <managedObject class="MRBTS" distName="MRBTS-777">
    <p name="btsName">Template_Site</p>
    <managedObject class="NRBTS" distName="MRBTS-777/NRBTS-777">
      <managedObject class="NRSECTOR" distName="MRBTS-777/NRBTS-777/NRSECTOR-1">
        <p name="sectorId">1</p>
        <managedObject class="NRCARRIER" distName="MRBTS-777/NRBTS-777/NRSECTOR-1/NRCARRIER-1">
          <p name="txPower">200</p>
        </managedObject>
      </managedObject>
    </managedObject>
    <managedObject class="IPNO" distName="MRBTS-777/IPNO-1">
      <p name="ipAddress">0.0.0.0</p>
    </managedObject>
    <managedObject class="RMOD" distName="MRBTS-777/RMOD-1">
      <p name="prodCodePlanned">473995A</p>
    </managedObject>
  </managedObject>
</cmData>
`

func rolloutSectors() []table.SectorRecord {
	return []table.SectorRecord{
		{Station: "Harbor_East", SectorID: "1", AntennaCount: 4, RadioModule: "AHEGB", Frequency: "3600", CarrierID: "641"},
		{Station: "Harbor_East", SectorID: "2", AntennaCount: 4, RadioModule: "AHEGB", Frequency: "3600", CarrierID: "642"},
		{Station: "Harbor_East", SectorID: "3", AntennaCount: 8, RadioModule: "AHEGB", Frequency: "3700", CarrierID: "643"},
	}
}

func TestRollout(t *testing.T) {
	skeleton := parseDoc(t, skeletonXML)
	trans := table.TransmissionRecord{
		Station: "Harbor_East", IP5G: "10.1.0.5", Gateway: "10.1.0.1", VLAN: 210, SubnetMask: "255.255.255.0",
	}

	doc, err := Rollout(skeleton, trans, rolloutSectors(), RolloutOptions{})
	if err != nil {
		t.Fatalf("Rollout error: %v", err)
	}

	// Station identity in every DN segment that encodes it, plus the name
	// parameter.
	root, ok := doc.FindByDN("MRBTS-Harbor_East")
	if !ok {
		t.Fatal("station root not renamed")
	}
	if v, _ := root.Param("btsName"); v != "Harbor_East" {
		t.Errorf("btsName = %q, want Harbor_East", v)
	}
	if _, ok := doc.FindByDN("MRBTS-Harbor_East/NRBTS-Harbor_East"); !ok {
		t.Error("5G root not renamed")
	}

	// One sector subtree per record, renumbered, each carrying its row's
	// attributes and the template's inner structure.
	sectors := doc.FindByClassSuffix("NRSECTOR")
	if len(sectors) != 3 {
		t.Fatalf("sector count = %d, want 3", len(sectors))
	}
	seen := map[string]bool{}
	for _, mo := range sectors {
		if seen[mo.DN] {
			t.Fatalf("duplicate sector DN %q", mo.DN)
		}
		seen[mo.DN] = true
	}
	for i, want := range rolloutSectors() {
		mo := sectors[i]
		if v, _ := mo.Param("sectorId"); v != want.SectorID {
			t.Errorf("sector %d sectorId = %q, want %q", i, v, want.SectorID)
		}
		if v, _ := mo.Param("antennaCount"); v != strconv.Itoa(want.AntennaCount) {
			t.Errorf("sector %d antennaCount = %q, want %d", i, v, want.AntennaCount)
		}
		if v, _ := mo.Param("frequency"); v != want.Frequency {
			t.Errorf("sector %d frequency = %q, want %q", i, v, want.Frequency)
		}
		if v, _ := mo.Param("carrierId"); v != want.CarrierID {
			t.Errorf("sector %d carrierId = %q, want %q", i, v, want.CarrierID)
		}
		if len(mo.Children) != 1 || mo.Children[0].Class != "NRCARRIER" {
			t.Errorf("sector %d lost the template's carrier child", i)
		}
	}
	if _, ok := doc.FindByDN("MRBTS-Harbor_East/NRBTS-Harbor_East/NRSECTOR-2/NRCARRIER-1"); !ok {
		t.Error("carrier child DN not renumbered with its sector")
	}

	// Transport and radio module substitution.
	ipno, _ := doc.FindByDN("MRBTS-Harbor_East/IPNO-1")
	if v, _ := ipno.Param("ipAddress"); v != "10.1.0.5" {
		t.Errorf("ipAddress = %q, want 10.1.0.5", v)
	}
	if v, _ := ipno.Param("vlanId"); v != "210" {
		t.Errorf("vlanId = %q, want 210", v)
	}
	rmod, _ := doc.FindByDN("MRBTS-Harbor_East/RMOD-1")
	if v, _ := rmod.Param("prodCodePlanned"); v != "AHEGB" {
		t.Errorf("prodCodePlanned = %q, want AHEGB", v)
	}

	// The skeleton itself is untouched.
	if _, ok := skeleton.FindByDN("MRBTS-777/NRBTS-777/NRSECTOR-1"); !ok {
		t.Error("skeleton mutated by rollout")
	}
	if v, _ := skeleton.Objects[0].Param("btsName"); v != "Template_Site" {
		t.Errorf("skeleton btsName mutated: %q", v)
	}
}

func TestRollout_TransportFallsBackToOM(t *testing.T) {
	skeleton := parseDoc(t, skeletonXML)
	trans := table.TransmissionRecord{Station: "Harbor_East", OMIP: "10.9.0.2"}

	doc, err := Rollout(skeleton, trans, nil, RolloutOptions{})
	if err != nil {
		t.Fatalf("Rollout error: %v", err)
	}
	ipno, _ := doc.FindByDN("MRBTS-Harbor_East/IPNO-1")
	if v, _ := ipno.Param("ipAddress"); v != "10.9.0.2" {
		t.Errorf("ipAddress = %q, want the O&M fallback 10.9.0.2", v)
	}
	// No sector records, so the template stays in place.
	if _, ok := doc.FindByDN("MRBTS-Harbor_East/NRBTS-Harbor_East/NRSECTOR-1"); !ok {
		t.Error("sector template should survive an empty sector list")
	}
}

func TestRollout_MissingSectorClass(t *testing.T) {
	skeleton := parseDoc(t, `<cmData>`+
		`<managedObject class="MRBTS" distName="MRBTS-777">`+
		`<p name="btsName">Template_Site</p>`+
		`</managedObject></cmData>`)
	trans := table.TransmissionRecord{Station: "Harbor_East", IP5G: "10.1.0.5"}

	_, err := Rollout(skeleton, trans, rolloutSectors(), RolloutOptions{})
	if !errors.Is(err, util.ErrClassNotFound) {
		t.Fatalf("err = %v, want ErrClassNotFound", err)
	}
}
