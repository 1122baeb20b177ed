package merge

import (
	"strconv"
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

// Scope selects which transport objects a modernization overwrites.
type Scope int

const (
	// ScopeDocument overwrites every transport object in the existing
	// document that references the target technology. This matches what
	// rollout engineers expect from the legacy workflow.
	ScopeDocument Scope = iota
	// ScopeAttached only touches transport objects inside the newly
	// attached subtree.
	ScopeAttached
)

// ModernizeOptions tunes a modernization run. Zero values select the
// conventional class names.
type ModernizeOptions struct {
	// TargetClasses are the managed-object classes borrowed from the
	// reference document, default NRBTS (the 5G base-station subtree).
	TargetClasses []string
	// AnchorClass locates the attachment point in the existing document by
	// class rather than by a fixed path, default MRBTS.
	AnchorClass string
	// TransportClass is the route/port object class whose addresses are
	// overwritten, default IPNO.
	TransportClass string
	// TechnologyTag marks transport objects as belonging to the target
	// technology when it appears in their name, default 5G.
	TechnologyTag string
	// TransportScope bounds the transport overwrite (see Scope).
	TransportScope Scope
}

func (o *ModernizeOptions) setDefaults() {
	if len(o.TargetClasses) == 0 {
		o.TargetClasses = []string{"NRBTS"}
	}
	if o.AnchorClass == "" {
		o.AnchorClass = "MRBTS"
	}
	if o.TransportClass == "" {
		o.TransportClass = "IPNO"
	}
	if o.TechnologyTag == "" {
		o.TechnologyTag = "5G"
	}
}

// Modernize splices the target technology's subtrees from the reference
// document into the existing station document and overwrites transport
// addresses from the parameter record. The existing document is mutated in
// place; on error it must be discarded, never persisted.
func Modernize(existing, reference *cmdata.Document, rec table.TransmissionRecord, opts ModernizeOptions) error {
	opts.setDefaults()
	log := util.WithStation(rec.Station)

	anchors := existing.FindByClassSuffix(opts.AnchorClass)
	if len(anchors) == 0 {
		return &util.DNNotFoundError{DN: opts.AnchorClass}
	}
	anchor := anchors[0]

	subtrees, err := Extract(reference, opts.TargetClasses)
	if err != nil {
		return err
	}

	identity, err := ExtractIdentity(existing)
	if err != nil {
		return err
	}
	refIdentity, refErr := ExtractIdentity(reference)

	for i, subtree := range subtrees {
		suffix := NextSuffix(existing, opts.TargetClasses[i])
		node := Reparent(subtree, anchor.DN, suffix)
		if refErr == nil {
			substituteIdentity(node, refIdentity, identity)
		}
		node.Walk(func(mo *cmdata.ManagedObject) {
			if strings.HasSuffix(mo.Class, opts.TransportClass) {
				setTransport(mo, rec)
			}
		})
		if err := existing.InsertChild(anchor.DN, node); err != nil {
			return err
		}
		log.WithField("dn", node.DN).Infof("attached %s subtree", opts.TargetClasses[i])
	}

	if opts.TransportScope == ScopeDocument {
		if n := overwriteTransport(existing, rec, opts); n == 0 {
			if err := addTransportObject(existing, anchor.DN, rec, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

// overwriteTransport updates every transport object that references the
// target technology, by name tag or by already carrying the technology's
// address. Returns the number of objects touched.
func overwriteTransport(doc *cmdata.Document, rec table.TransmissionRecord, opts ModernizeOptions) int {
	n := 0
	for _, mo := range doc.FindByClassSuffix(opts.TransportClass) {
		if !referencesTechnology(mo, rec, opts.TechnologyTag) {
			continue
		}
		setTransport(mo, rec)
		n++
	}
	return n
}

func referencesTechnology(mo *cmdata.ManagedObject, rec table.TransmissionRecord, tag string) bool {
	if strings.Contains(cmdata.LastSegment(mo.DN), tag) {
		return true
	}
	if label, ok := mo.Param("userLabel"); ok && strings.Contains(label, tag) {
		return true
	}
	if ip, ok := mo.Param("ipAddress"); ok && ip != "" && ip == rec.IP5G {
		return true
	}
	return false
}

// addTransportObject appends a fresh transport object under the anchor when
// the document has none for the target technology.
func addTransportObject(doc *cmdata.Document, anchorDN string, rec table.TransmissionRecord, opts ModernizeOptions) error {
	mo := &cmdata.ManagedObject{
		Tag:   "managedObject",
		Class: opts.TransportClass,
		DN:    anchorDN + "/" + opts.TransportClass + "-" + opts.TechnologyTag,
	}
	setTransport(mo, rec)
	return doc.InsertChild(anchorDN, mo)
}

func setTransport(mo *cmdata.ManagedObject, rec table.TransmissionRecord) {
	if rec.IP5G != "" {
		mo.SetParam("ipAddress", rec.IP5G)
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

// substituteIdentity replaces the reference station's name and id inside the
// borrowed subtree's parameter values with the target station's, covering
// both underscore and dash spellings.
func substituteIdentity(node *cmdata.ManagedObject, from, to StationIdentity) {
	replace := func(v string) string {
		if from.Name != "" && to.Name != "" {
			v = strings.ReplaceAll(v, from.Name, to.Name)
		}
		if from.NameDash != "" && to.NameDash != "" {
			v = strings.ReplaceAll(v, from.NameDash, to.NameDash)
		}
		if from.ID != "" && to.ID != "" {
			v = strings.ReplaceAll(v, from.ID, to.ID)
		}
		return v
	}
	node.Walk(func(mo *cmdata.ManagedObject) {
		for i := range mo.Params {
			mo.Params[i].Value = replace(mo.Params[i].Value)
		}
		for li := range mo.Lists {
			for ii := range mo.Lists[li].Items {
				for pi := range mo.Lists[li].Items[ii].Params {
					mo.Lists[li].Items[ii].Params[pi].Value = replace(mo.Lists[li].Items[ii].Params[pi].Value)
				}
			}
		}
	})
}
