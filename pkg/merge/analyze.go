package merge

import (
	"fmt"
	"strings"

	"github.com/rangen-network/rangen/pkg/cmdata"
)

// Analysis summarizes an existing station document for reference-template
// selection.
type Analysis struct {
	Sectors              int      `json:"sectors"`
	Has2G                bool     `json:"has2g"`
	Has3G                bool     `json:"has3g"`
	Has4G                bool     `json:"has4g"`
	Has5G                bool     `json:"has5g"`
	RadioHeadType        string   `json:"radioHeadType,omitempty"`
	RecommendedTemplates []string `json:"recommendedTemplates"`
}

// knownRadioHeads are the module families templates are keyed on.
var knownRadioHeads = []string{"AHEGA", "AHEGB", "AHPMDA", "AKQJ", "AZQL"}

// Analyze inspects an existing document and recommends compatible reference
// templates: sector count is taken from the 4G cell identifiers (the last
// digit encodes the sector), radio-head type from planned module product
// codes.
func Analyze(doc *cmdata.Document) Analysis {
	a := Analysis{
		Has2G: len(doc.FindByClassSuffix("BCF")) > 0,
		Has3G: len(doc.FindByClassSuffix("WCEL")) > 0,
		Has5G: len(doc.FindByClassSuffix("NRBTS")) > 0,
	}

	cells := doc.FindByClassSuffix("LNCEL")
	a.Has4G = len(cells) > 0
	sectors := make(map[byte]bool)
	for _, cell := range cells {
		id, ok := cell.Param("cellId")
		if !ok {
			id, ok = cell.Param("localCellId")
		}
		if ok && len(id) >= 2 {
			sectors[id[len(id)-1]] = true
		}
	}
	a.Sectors = len(sectors)
	if a.Sectors == 0 {
		a.Sectors = 3 // typical site when the cells don't say
	}

	for _, rmod := range doc.FindByClassSuffix("RMOD") {
		code, ok := rmod.Param("prodCodePlanned")
		if !ok {
			continue
		}
		for _, head := range knownRadioHeads {
			if strings.Contains(code, head) {
				a.RadioHeadType = head
				break
			}
		}
		if a.RadioHeadType != "" {
			break
		}
	}

	head := a.RadioHeadType
	if head == "" {
		head = "AHEGA"
	}
	if a.Has2G {
		a.RecommendedTemplates = []string{fmt.Sprintf("5G-S%d-%s", a.Sectors, head)}
	} else {
		a.RecommendedTemplates = []string{fmt.Sprintf("5G-no2G-S%d-%s", a.Sectors, head)}
	}
	return a
}
