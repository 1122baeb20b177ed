package merge

import (
	"time"

	"github.com/rangen-network/rangen/pkg/cmdata"
	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

// The functions below are the byte-level entry points collaborators call.
// Every invocation parses its own inputs and builds its own output, touching
// no shared state, so concurrent calls need no coordination. Documents are
// parsed before any table lookup so malformed XML is reported first, and no
// bytes are ever returned alongside an error.

// RunModernization adds the target technology to an existing station
// document, borrowing subtrees from the reference document and addressing
// them from the transmission table row for the given station.
func RunModernization(existingDoc, referenceDoc, transmissionTable []byte, station string, opts ModernizeOptions) ([]byte, error) {
	start := time.Now()

	existing, err := cmdata.Parse(existingDoc)
	if err != nil {
		return nil, err
	}
	reference, err := cmdata.Parse(referenceDoc)
	if err != nil {
		return nil, err
	}
	ix, err := table.LoadTransmission(transmissionTable)
	if err != nil {
		return nil, err
	}
	rec, err := ix.Lookup(station)
	if err != nil {
		return nil, err
	}

	if err := Modernize(existing, reference, rec, opts); err != nil {
		return nil, err
	}

	util.WithStation(station).WithFields(map[string]interface{}{
		"operation": "modernization",
		"objects":   existing.Len(),
		"duration":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("document generated")
	return existing.Serialize(), nil
}

// RunRollout builds a complete new-site document for the given station from
// a skeleton document and the station's radio and transmission table rows.
func RunRollout(skeletonDoc, radioTable, transmissionTable []byte, station string, opts RolloutOptions) ([]byte, error) {
	start := time.Now()

	skeleton, err := cmdata.Parse(skeletonDoc)
	if err != nil {
		return nil, err
	}
	radio, err := table.LoadRadio(radioTable)
	if err != nil {
		return nil, err
	}
	trans, err := table.LoadTransmission(transmissionTable)
	if err != nil {
		return nil, err
	}
	sectors, err := radio.Lookup(station)
	if err != nil {
		return nil, err
	}
	rec, err := trans.Lookup(station)
	if err != nil {
		return nil, err
	}

	doc, err := Rollout(skeleton, rec, sectors, opts)
	if err != nil {
		return nil, err
	}

	util.WithStation(station).WithFields(map[string]interface{}{
		"operation": "rollout",
		"objects":   doc.Len(),
		"duration":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("document generated")
	return doc.Serialize(), nil
}

// LoadForViewing parses document bytes for read-only inspection.
func LoadForViewing(doc []byte) (*cmdata.Document, error) {
	return cmdata.Parse(doc)
}
