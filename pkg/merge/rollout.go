package merge

import (
	"strconv"
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

// RolloutOptions tunes a rollout run. Zero values select the conventional
// class names.
type RolloutOptions struct {
	// StationClasses are the classes whose DN segments encode the station
	// identity, default MRBTS and NRBTS.
	StationClasses []string
	// SectorClass is the sector/carrier subtree duplicated once per sector
	// record, default NRSECTOR.
	SectorClass string
	// TransportClass is the route/port object class whose addresses are
	// substituted, default IPNO.
	TransportClass string
	// RadioModuleClass is the class carrying the planned module product
	// code, default RMOD.
	RadioModuleClass string
}

func (o *RolloutOptions) setDefaults() {
	if len(o.StationClasses) == 0 {
		o.StationClasses = []string{"MRBTS", "NRBTS"}
	}
	if o.SectorClass == "" {
		o.SectorClass = "NRSECTOR"
	}
	if o.TransportClass == "" {
		o.TransportClass = "IPNO"
	}
	if o.RadioModuleClass == "" {
		o.RadioModuleClass = "RMOD"
	}
}

// Rollout builds a complete new-site document from a skeleton: the skeleton
// is deep-copied, the station identity is substituted into every
// distinguished name that encodes it, transport addresses come from the
// transmission record, and the skeleton's sector subtree is replaced by one
// renumbered copy per sector record. The skeleton itself is never modified.
func Rollout(skeleton *cmdata.Document, trans table.TransmissionRecord, sectors []table.SectorRecord, opts RolloutOptions) (*cmdata.Document, error) {
	opts.setDefaults()
	station := strings.TrimSpace(trans.Station)
	log := util.WithStation(station)

	doc := skeleton.Copy()

	// Station identity into every DN segment of the station-bearing classes.
	err := doc.RewriteDNs(func(dn string) string {
		segs := cmdata.SplitDN(dn)
		for i, seg := range segs {
			base := cmdata.SegmentBase(seg)
			for _, class := range opts.StationClasses {
				if base == class {
					segs[i] = class + "-" + station
					break
				}
			}
		}
		return cmdata.JoinDN(segs)
	})
	if err != nil {
		return nil, err
	}
	for _, mo := range doc.FindByClassSuffix("MRBTS") {
		mo.SetParam("btsName", station)
	}

	for _, mo := range doc.FindByClassSuffix(opts.TransportClass) {
		substituteRolloutTransport(mo, trans)
	}

	if len(sectors) > 0 {
		if err := expandSectors(doc, sectors, opts); err != nil {
			return nil, err
		}
		for _, mo := range doc.FindByClassSuffix(opts.RadioModuleClass) {
			if sectors[0].RadioModule != "" {
				mo.SetParam("prodCodePlanned", sectors[0].RadioModule)
			}
		}
	}

	log.WithField("sectors", len(sectors)).Info("rollout document built")
	return doc, nil
}

// expandSectors replaces the skeleton's sector template with one renumbered,
// parametrized copy per sector record, keeping the template's position in
// the tree.
func expandSectors(doc *cmdata.Document, sectors []table.SectorRecord, opts RolloutOptions) error {
	matches := doc.FindByClassSuffix(opts.SectorClass)
	if len(matches) == 0 {
		return &util.ClassNotFoundError{Class: opts.SectorClass}
	}
	tmpl := matches[0]
	parent := tmpl.Parent()

	removed, err := doc.Remove(tmpl.DN)
	if err != nil {
		return err
	}

	for _, sec := range sectors {
		suffix := NextSuffix(doc, opts.SectorClass)
		node := Renumber(removed, suffix)
		node.SetParam("sectorId", sec.SectorID)
		if sec.AntennaCount != 0 {
			node.SetParam("antennaCount", strconv.Itoa(sec.AntennaCount))
		}
		if sec.RadioModule != "" {
			node.SetParam("radioModule", sec.RadioModule)
		}
		if sec.Frequency != "" {
			node.SetParam("frequency", sec.Frequency)
		}
		if sec.CarrierID != "" {
			node.SetParam("carrierId", sec.CarrierID)
		}

		if parent != nil {
			err = doc.InsertChild(parent.DN, node)
		} else {
			err = doc.InsertTopLevel(node)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// substituteRolloutTransport fills a transport object from the transmission
// record; a site without a dedicated 5G address falls back to the O&M one.
func substituteRolloutTransport(mo *cmdata.ManagedObject, rec table.TransmissionRecord) {
	ip := rec.IP5G
	if ip == "" {
		ip = rec.OMIP
	}
	if ip != "" {
		mo.SetParam("ipAddress", ip)
	}
	if rec.Gateway != "" {
		mo.SetParam("gateway", rec.Gateway)
	}
	if rec.VLAN != 0 {
		mo.SetParam("vlanId", strconv.Itoa(rec.VLAN))
	}
	if rec.SubnetMask != "" {
		mo.SetParam("netmask", rec.SubnetMask)
	}
}
