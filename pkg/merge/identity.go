package merge

import (
	"regexp"
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
	"github.com/rangen-network/rangen/pkg/util"
)

var stationIDPattern = regexp.MustCompile(`MRBTS-(\d+)`)

// StationIdentity is the addressing identity of a deployed station, pulled
// from its existing configuration document.
type StationIdentity struct {
	Name     string // btsName parameter, e.g. "Downtown_West"
	NameDash string // name with underscores as dashes, used in cell names
	ID       string // numeric station id from the root DN, e.g. "90217"
	DN       string // root managed object DN, e.g. "MRBTS-90217"
}

// ExtractIdentity reads the station name and numeric id from the root
// station object (class MRBTS) of a document. It fails with
// ClassNotFoundError when the document has no station root.
func ExtractIdentity(doc *cmdata.Document) (StationIdentity, error) {
	roots := doc.FindByClassSuffix("MRBTS")
	if len(roots) == 0 {
		return StationIdentity{}, &util.ClassNotFoundError{Class: "MRBTS"}
	}
	root := roots[0]

	id := StationIdentity{DN: root.DN}
	if m := stationIDPattern.FindStringSubmatch(root.DN); m != nil {
		id.ID = m[1]
	}
	if name, ok := root.Param("btsName"); ok {
		id.Name = strings.TrimSpace(name)
		id.NameDash = strings.ReplaceAll(id.Name, "_", "-")
	}
	return id, nil
}
