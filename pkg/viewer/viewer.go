// Package viewer builds human-readable summaries of station configuration
// documents for inspection endpoints and the view command.
package viewer

import (
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
)

// modelCodes maps planned module product codes to module family names.
var modelCodes = map[string]string{
	"473997A":     "AHPMDA",
	"474090A":     "AHEGB",
	"474090A.101": "AHEGB",
	"473995A":     "AHEGA",
	"475824A":     "AKQJ",
	"475130A":     "AZQL",
}

// ModelName resolves a product code to its module family, falling back to
// the code itself for unknown hardware.
func ModelName(code string) string {
	if name, ok := modelCodes[code]; ok {
		return name
	}
	return code
}

// Summary is the full inspection view of one document.
type Summary struct {
	Station   StationInfo      `json:"stationInfo"`
	Network   NetworkInfo      `json:"networkInfo"`
	Radio     RadioInfo        `json:"radioInfo"`
	Hardware  HardwareInfo     `json:"hardwareInfo"`
	Neighbors NeighborInfo     `json:"neighborInfo"`
	CellRadio []CellRadioEntry `json:"cellRadioMapping"`
}

// StationInfo identifies the station and the technologies it runs.
type StationInfo struct {
	MRBTSID string `json:"mrbtsId"`
	BTSName string `json:"btsName"`
	Version string `json:"version"`
	Has5G   bool   `json:"has5G"`
	NRBTSID string `json:"nrbtsId,omitempty"`
	Has4G   bool   `json:"has4G"`
	LNBTSID string `json:"lnbtsId,omitempty"`
	Has3G   bool   `json:"has3G"`
	WNBTSID string `json:"wnbtsId,omitempty"`
	Has2G   bool   `json:"has2G"`
	BCFID   string `json:"bcfId,omitempty"`
}

// NetworkInfo lists the transport interfaces of the station.
type NetworkInfo struct {
	VLANs     []VLANInfo    `json:"vlans"`
	Addresses []AddressInfo `json:"addresses"`
}

// VLANInfo is one VLAN interface.
type VLANInfo struct {
	VLANID    string `json:"vlanId"`
	UserLabel string `json:"userLabel,omitempty"`
}

// AddressInfo joins an IPv4 address object with its owning interface and the
// VLAN that interface rides on.
type AddressInfo struct {
	Label  string `json:"label,omitempty"`
	VLANID string `json:"vlanId,omitempty"`
	IP     string `json:"ip"`
	Prefix string `json:"prefix,omitempty"`
}

// RadioInfo summarizes the cell layout per technology.
type RadioInfo struct {
	Technologies []string              `json:"technologies"`
	SectorCount  int                   `json:"sectorCount"`
	Cells        map[string][]CellInfo `json:"cells"`
}

// CellInfo is one cell of any technology. Carrier and sector are decoded
// from the cell identifier digits.
type CellInfo struct {
	CellID   string `json:"cellId"`
	CellName string `json:"cellName,omitempty"`
	Carrier  string `json:"carrier,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// HardwareInfo lists the radio modules and cabinets of the station.
type HardwareInfo struct {
	Modules      []ModuleInfo `json:"modules"`
	CabinetCount int          `json:"cabinetCount"`
}

// ModuleInfo is one radio module.
type ModuleInfo struct {
	ID          string `json:"id"`
	ProductCode string `json:"productCode,omitempty"`
	Model       string `json:"model,omitempty"`
	State       string `json:"state,omitempty"`
}

// NeighborInfo counts the neighbor relations of the station.
type NeighborInfo struct {
	LTENeighbors int `json:"lteNeighborCount"`
	NRNeighbors  int `json:"nrNeighborCount"`
	X2Links      int `json:"x2LinkCount"`
}

// CellRadioEntry maps one cell to one antenna port of a radio module.
type CellRadioEntry struct {
	Cell        string `json:"cell"`
	Tech        string `json:"tech"`
	Carrier     string `json:"carrier,omitempty"`
	Sector      string `json:"sector,omitempty"`
	RadioModule string `json:"radio_module"`
	Port        string `json:"port"`
	Mode        string `json:"mode,omitempty"`
	Model       string `json:"model,omitempty"`
}

// Summarize inspects a parsed document and produces its summary view.
func Summarize(doc *cmdata.Document) Summary {
	return Summary{
		Station:   stationInfo(doc),
		Network:   networkInfo(doc),
		Radio:     radioInfo(doc),
		Hardware:  hardwareInfo(doc),
		Neighbors: neighborInfo(doc),
		CellRadio: cellRadioMapping(doc),
	}
}

func stationInfo(doc *cmdata.Document) StationInfo {
	var info StationInfo
	if mos := doc.FindByClassSuffix("MRBTS"); len(mos) > 0 {
		info.MRBTSID = idFromDN(mos[0].DN)
		for _, a := range mos[0].Extra {
			if a.Name == "version" {
				info.Version = a.Value
			}
		}
		if name, ok := mos[0].Param("btsName"); ok {
			info.BTSName = name
		}
	}
	if mos := doc.FindByClassSuffix("NRBTS"); len(mos) > 0 {
		info.Has5G = true
		info.NRBTSID = idFromDN(mos[0].DN)
	}
	if mos := doc.FindByClassSuffix("LNBTS"); len(mos) > 0 {
		info.Has4G = true
		info.LNBTSID = idFromDN(mos[0].DN)
	}
	if mos := doc.FindByClassSuffix("WNBTS"); len(mos) > 0 {
		info.Has3G = true
		info.WNBTSID = idFromDN(mos[0].DN)
	}
	if mos := doc.FindByClassSuffix("BCF"); len(mos) > 0 {
		info.Has2G = true
		info.BCFID = idFromDN(mos[0].DN)
	}
	return info
}

func networkInfo(doc *cmdata.Document) NetworkInfo {
	info := NetworkInfo{VLANs: []VLANInfo{}, Addresses: []AddressInfo{}}

	// VLAN interfaces keyed by DN, for joining through interfaceDN.
	vlanByDN := map[string]VLANInfo{}
	for _, mo := range doc.FindByClassSuffix("VLANIF") {
		v := VLANInfo{}
		v.VLANID, _ = mo.Param("vlanId")
		v.UserLabel, _ = mo.Param("userLabel")
		vlanByDN[mo.DN] = v
		info.VLANs = append(info.VLANs, v)
	}

	ipifByDN := map[string]*cmdata.ManagedObject{}
	for _, mo := range doc.FindByClassSuffix("IPIF") {
		ipifByDN[mo.DN] = mo
	}

	for _, mo := range doc.FindByClassSuffix("IPADDRESSV4") {
		addr := AddressInfo{}
		addr.IP, _ = mo.Param("localIpAddr")
		addr.Prefix, _ = mo.Param("localIpPrefixLength")

		var vlanLabel string
		if ipif, ok := ipifByDN[cmdata.ParentDN(mo.DN)]; ok {
			addr.Label, _ = ipif.Param("userLabel")
			if ifDN, ok := ipif.Param("interfaceDN"); ok {
				if vlan, ok := vlanByDN[ifDN]; ok {
					addr.VLANID = vlan.VLANID
					vlanLabel = vlan.UserLabel
				}
			}
		}
		if addr.Label == "" {
			addr.Label = vlanLabel
		}
		info.Addresses = append(info.Addresses, addr)
	}
	return info
}

func radioInfo(doc *cmdata.Document) RadioInfo {
	info := RadioInfo{
		Cells: map[string][]CellInfo{"2G": {}, "3G": {}, "4G": {}, "5G": {}},
	}

	collect := func(tech string, mos []*cmdata.ManagedObject) {
		for _, mo := range mos {
			cell := CellInfo{CellID: idFromDN(mo.DN)}
			cell.CellName, _ = mo.Param("cellName")
			cell.Carrier, cell.Sector = decodeCellID(tech, cell.CellID)
			info.Cells[tech] = append(info.Cells[tech], cell)
		}
	}
	collect("2G", doc.FindByClassSuffix("GNCEL"))
	collect("3G", append(doc.FindByClassSuffix("WCEL"), doc.FindByClassSuffix("WNCEL")...))
	collect("4G", doc.FindByClassSuffix("LNCEL"))
	collect("5G", cellsOnly(doc.FindByClassSuffix("NRCELL")))

	for _, tech := range []string{"5G", "4G", "3G", "2G"} {
		if len(info.Cells[tech]) > 0 {
			info.Technologies = append(info.Technologies, tech)
		}
	}

	// Sector count is the widest spread seen across technologies.
	for _, cells := range info.Cells {
		sectors := map[string]bool{}
		for _, c := range cells {
			if c.Sector != "" {
				sectors[c.Sector] = true
			}
		}
		if len(sectors) > info.SectorCount {
			info.SectorCount = len(sectors)
		}
	}
	return info
}

// cellsOnly drops neighbor-relation objects whose class also ends in NRCELL.
func cellsOnly(mos []*cmdata.ManagedObject) []*cmdata.ManagedObject {
	out := mos[:0:0]
	for _, mo := range mos {
		if !strings.HasSuffix(mo.Class, "NRADJNRCELL") {
			out = append(out, mo)
		}
	}
	return out
}

// decodeCellID splits a numeric cell identifier into carrier and sector
// digits. 3G and 4G use two digits (carrier then sector), 5G uses three
// (the last two are carrier then sector), 2G the last digit as sector with
// a single carrier.
func decodeCellID(tech, id string) (carrier, sector string) {
	if !isDigits(id) {
		return "", ""
	}
	switch tech {
	case "2G":
		if id != "" {
			return "1", id[len(id)-1:]
		}
	case "3G", "4G":
		if len(id) == 2 {
			return id[:1], id[1:]
		}
	case "5G":
		if len(id) == 3 {
			return id[1:2], id[2:]
		}
	}
	return "", ""
}

func hardwareInfo(doc *cmdata.Document) HardwareInfo {
	info := HardwareInfo{Modules: []ModuleInfo{}}
	for _, mo := range doc.FindByClassSuffix("RMOD") {
		m := ModuleInfo{ID: cmdata.LastSegment(mo.DN)}
		if code, ok := mo.Param("prodCodePlanned"); ok {
			m.ProductCode = code
			m.Model = ModelName(code)
		}
		m.State, _ = mo.Param("administrativeState")
		info.Modules = append(info.Modules, m)
	}
	info.CabinetCount = len(doc.FindByClassSuffix("CABINET"))
	return info
}

func neighborInfo(doc *cmdata.Document) NeighborInfo {
	return NeighborInfo{
		LTENeighbors: len(doc.FindByClassSuffix("LNADJ")),
		NRNeighbors:  len(doc.FindByClassSuffix("NRADJ")),
		X2Links:      len(doc.FindByClassSuffix("X2LINK")),
	}
}

// cellRadioMapping joins channel objects to radio module antenna ports: the
// channel's DN names the local cell, its antlDN parameter names the module
// and port, and the per-direction channels collapse into one entry per
// cell and port.
func cellRadioMapping(doc *cmdata.Document) []CellRadioEntry {
	modelByModule := map[string]string{}
	for _, mo := range doc.FindByClassSuffix("RMOD") {
		if code, ok := mo.Param("prodCodePlanned"); ok {
			modelByModule[cmdata.LastSegment(mo.DN)] = ModelName(code)
		}
	}

	type portKey struct {
		cell, tech, module, port string
	}
	modes := map[portKey]map[string]bool{}
	var order []portKey

	for _, mo := range doc.FindByClassSuffix("CHANNEL") {
		cell, tech := localCell(mo.DN)
		if cell == "" {
			continue
		}
		antlDN, _ := mo.Param("antlDN")
		module, port := "", ""
		for _, seg := range cmdata.SplitDN(antlDN) {
			switch {
			case strings.HasPrefix(seg, "RMOD-"):
				module = seg
			case strings.HasPrefix(seg, "ANTL-"):
				port = seg
			}
		}
		if module == "" || port == "" {
			continue
		}
		key := portKey{cell: cell, tech: tech, module: module, port: port}
		if modes[key] == nil {
			modes[key] = map[string]bool{}
			order = append(order, key)
		}
		if dir, ok := mo.Param("direction"); ok && dir != "" {
			modes[key][dir] = true
		}
	}

	entries := make([]CellRadioEntry, 0, len(order))
	for _, key := range order {
		mode := ""
		switch {
		case modes[key]["TX"] && modes[key]["RX"]:
			mode = "TXRX"
		case modes[key]["TX"]:
			mode = "TX"
		case modes[key]["RX"]:
			mode = "RX"
		}
		carrier, sector := decodeCellID(key.tech, key.cell)
		entries = append(entries, CellRadioEntry{
			Cell:        key.cell,
			Tech:        key.tech,
			Carrier:     carrier,
			Sector:      sector,
			RadioModule: key.module,
			Port:        key.port,
			Mode:        mode,
			Model:       modelByModule[key.module],
		})
	}
	return entries
}

// localCell finds the local-cell segment of a channel DN and reports the
// cell's numeric identifier and technology.
func localCell(dn string) (id, tech string) {
	for _, seg := range cmdata.SplitDN(dn) {
		switch {
		case strings.HasPrefix(seg, "LCELW-"):
			return strings.TrimPrefix(seg, "LCELW-"), "3G"
		case strings.HasPrefix(seg, "LCELNR-"):
			return strings.TrimPrefix(seg, "LCELNR-"), "5G"
		case strings.HasPrefix(seg, "LCELL-"):
			return strings.TrimPrefix(seg, "LCELL-"), "4G"
		}
	}
	return "", ""
}

// idFromDN returns the numeric tail of a DN, e.g. 90217 from MRBTS-90217.
func idFromDN(dn string) string {
	seg := cmdata.LastSegment(dn)
	if i := strings.LastIndex(seg, "-"); i >= 0 {
		return seg[i+1:]
	}
	return seg
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
