// Package table loads tabular station parameter files (CSV or Excel
// workbooks) and indexes their rows by station identity.
package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/rangen-network/rangen/pkg/util"
)

// StationColumn is the key column shared by every parameter file kind.
const StationColumn = "Station_Name"

// Row maps column names to cell values for one data row.
type Row map[string]string

// Table is a loaded parameter file: a validated header and its data rows in
// file order, indexed by normalized station identity.
type Table struct {
	Columns []string
	Rows    []Row

	byStation map[string][]int
}

// Load parses parameter file bytes into a Table. Excel workbooks are
// recognized by their zip signature; anything else is read as CSV. Loading
// fails with MissingColumnError before any row is produced when the header
// lacks one of the required columns.
func Load(data []byte, required []string) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	if isWorkbook(data) {
		records, err = readWorkbook(data)
	} else {
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parameter file has no header row")
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = canonicalColumn(strings.TrimSpace(col), required)
	}
	for _, col := range required {
		if !containsColumn(header, col) {
			return nil, &util.MissingColumnError{Column: col}
		}
	}

	t := &Table{
		Columns:   header,
		byStation: make(map[string][]int),
	}
	for _, rec := range records[1:] {
		if isEmptyRow(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(rec) {
				row[col] = strings.TrimSpace(rec[i])
			} else {
				row[col] = ""
			}
		}
		idx := len(t.Rows)
		t.Rows = append(t.Rows, row)
		if station := util.NormalizeStation(row[StationColumn]); station != "" {
			t.byStation[station] = append(t.byStation[station], idx)
		}
	}
	return t, nil
}

// RowsFor returns every data row for the given station identity in file
// order. The comparison is case- and whitespace-normalized. It fails with
// StationNotFoundError when no row matches.
func (t *Table) RowsFor(station string) ([]Row, error) {
	idxs := t.byStation[util.NormalizeStation(station)]
	if len(idxs) == 0 {
		return nil, &util.StationNotFoundError{Station: station}
	}
	rows := make([]Row, len(idxs))
	for i, idx := range idxs {
		rows[i] = t.Rows[idx]
	}
	return rows, nil
}

// Stations returns the distinct normalized station identities present in the
// file, in first-appearance order.
func (t *Table) Stations() []string {
	seen := make(map[string]bool, len(t.byStation))
	var out []string
	for _, row := range t.Rows {
		s := util.NormalizeStation(row[StationColumn])
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func isWorkbook(data []byte) bool {
	return bytes.HasPrefix(data, []byte("PK\x03\x04"))
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV parameter file: %w", err)
	}
	return records, nil
}

// readWorkbook reads the first sheet of an Excel workbook, mirroring the
// spreadsheet layout rollout engineers actually maintain.
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reading Excel parameter file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("Excel parameter file has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// canonicalColumn maps a header cell onto the required column's spelling when
// they differ only in case, so row access by canonical name always works.
func canonicalColumn(col string, required []string) string {
	for _, want := range required {
		if strings.EqualFold(col, want) {
			return want
		}
	}
	if strings.EqualFold(col, StationColumn) {
		return StationColumn
	}
	return col
}

func containsColumn(header []string, col string) bool {
	for _, h := range header {
		if strings.EqualFold(h, col) {
			return true
		}
	}
	return false
}

func isEmptyRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
