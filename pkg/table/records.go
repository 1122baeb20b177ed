package table

import (
	"fmt"
	"strconv"

	"github.com/rangen-network/rangen/pkg/util"
)

// Required columns per parameter file kind.
var (
	TransmissionColumns = []string{
		StationColumn, "OM_IP", "2G_IP", "3G_IP", "4G_IP", "5G_IP",
		"Gateway", "VLAN", "Subnet_Mask",
	}
	RadioColumns = []string{
		StationColumn, "Sector_ID", "Antenna_Count", "Radio_Module",
		"Frequency", "Carrier_ID",
	}
)

// TransmissionRecord is one station's transport parameters.
type TransmissionRecord struct {
	Station    string
	OMIP       string
	IP2G       string
	IP3G       string
	IP4G       string
	IP5G       string
	Gateway    string
	VLAN       int
	SubnetMask string
}

// SectorRecord describes one radio sector of a station.
type SectorRecord struct {
	Station      string
	SectorID     string
	AntennaCount int
	RadioModule  string
	Frequency    string
	CarrierID    string
}

// TransmissionIndex resolves station identities to transmission records.
type TransmissionIndex struct {
	t *Table
}

// LoadTransmission loads a transmission parameter file. When a station
// appears on more than one row the later row wins; spreadsheets are commonly
// appended to rather than edited in place, so the newest entry is taken as
// authoritative.
func LoadTransmission(data []byte) (*TransmissionIndex, error) {
	t, err := Load(data, TransmissionColumns)
	if err != nil {
		return nil, err
	}
	return &TransmissionIndex{t: t}, nil
}

// Lookup returns the transmission record for a station, or
// StationNotFoundError when the file has no matching row.
func (ix *TransmissionIndex) Lookup(station string) (TransmissionRecord, error) {
	rows, err := ix.t.RowsFor(station)
	if err != nil {
		return TransmissionRecord{}, err
	}
	row := rows[len(rows)-1] // last-write-wins
	rec := TransmissionRecord{
		Station:    row[StationColumn],
		OMIP:       row["OM_IP"],
		IP2G:       row["2G_IP"],
		IP3G:       row["3G_IP"],
		IP4G:       row["4G_IP"],
		IP5G:       row["5G_IP"],
		Gateway:    row["Gateway"],
		SubnetMask: row["Subnet_Mask"],
	}
	if v := row["VLAN"]; v != "" {
		vlan, err := strconv.Atoi(v)
		if err != nil {
			return TransmissionRecord{}, fmt.Errorf("station %s: invalid VLAN %q: %w", station, v, err)
		}
		rec.VLAN = vlan
	}
	warnBadAddresses(rec)
	return rec, nil
}

// Stations lists the station identities present in the file.
func (ix *TransmissionIndex) Stations() []string { return ix.t.Stations() }

// warnBadAddresses flags obviously broken address cells without failing the
// lookup; plan files routinely carry placeholder values for unused RATs.
func warnBadAddresses(rec TransmissionRecord) {
	check := func(field, value string) {
		if value != "" && !util.IsIPv4(value) {
			util.WithStation(rec.Station).Warnf("%s is not a valid IPv4 address: %q", field, value)
		}
	}
	check("OM_IP", rec.OMIP)
	check("2G_IP", rec.IP2G)
	check("3G_IP", rec.IP3G)
	check("4G_IP", rec.IP4G)
	check("5G_IP", rec.IP5G)
	check("Gateway", rec.Gateway)
	if rec.SubnetMask != "" && !util.IsSubnetMask(rec.SubnetMask) {
		util.WithStation(rec.Station).Warnf("Subnet_Mask is not a valid mask: %q", rec.SubnetMask)
	}
}

// RadioIndex resolves station identities to their sector records.
type RadioIndex struct {
	t *Table
}

// LoadRadio loads a radio parameter file. A station owns one row per sector;
// rows keep their file order.
func LoadRadio(data []byte) (*RadioIndex, error) {
	t, err := Load(data, RadioColumns)
	if err != nil {
		return nil, err
	}
	return &RadioIndex{t: t}, nil
}

// Lookup returns every sector record for a station in file order, or
// StationNotFoundError when the file has no matching row.
func (ix *RadioIndex) Lookup(station string) ([]SectorRecord, error) {
	rows, err := ix.t.RowsFor(station)
	if err != nil {
		return nil, err
	}
	sectors := make([]SectorRecord, 0, len(rows))
	for _, row := range rows {
		rec := SectorRecord{
			Station:     row[StationColumn],
			SectorID:    row["Sector_ID"],
			RadioModule: row["Radio_Module"],
			Frequency:   row["Frequency"],
			CarrierID:   row["Carrier_ID"],
		}
		if v := row["Antenna_Count"]; v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("station %s sector %s: invalid Antenna_Count %q: %w",
					station, rec.SectorID, v, err)
			}
			rec.AntennaCount = n
		}
		sectors = append(sectors, rec)
	}
	return sectors, nil
}

// Stations lists the station identities present in the file.
func (ix *RadioIndex) Stations() []string { return ix.t.Stations() }
