// Package fetch retrieves station configuration backups from the backup
// SFTP server, resolving stations to backup files through an index
// spreadsheet.
package fetch

import (
	"fmt"
	"path"
	"strings"

	"github.com/rangen-network/rangen/pkg/table"
	"github.com/rangen-network/rangen/pkg/util"
)

// IndexColumns are the columns the backup index file must carry.
var IndexColumns = []string{"Name", "ID", "Backup_Name"}

// BackupEntry is one row of the backup index.
type BackupEntry struct {
	Name       string
	ID         string
	BackupName string
}

// LocalName is the file name a fetched backup is stored under, keeping the
// backup's extension.
func (e BackupEntry) LocalName() string {
	ext := path.Ext(e.BackupName)
	return util.SanitizeFilename(fmt.Sprintf("Config-%s-%s%s", e.Name, e.ID, ext))
}

// Index resolves a station name or numeric id to its backup entry.
type Index struct {
	entries []BackupEntry
}

// LoadIndex reads a backup index file (.xlsx or CSV).
func LoadIndex(data []byte) (*Index, error) {
	t, err := table.Load(data, IndexColumns)
	if err != nil {
		return nil, err
	}
	ix := &Index{}
	for _, row := range t.Rows {
		if row["Backup_Name"] == "" {
			continue
		}
		ix.entries = append(ix.entries, BackupEntry{
			Name:       row["Name"],
			ID:         row["ID"],
			BackupName: row["Backup_Name"],
		})
	}
	return ix, nil
}

// Find matches a query against the index: digits match the ID column
// exactly, anything else matches the Name column with underscores and
// dashes treated as equivalent.
func (ix *Index) Find(query string) (BackupEntry, error) {
	query = strings.TrimSpace(query)
	if isNumeric(query) {
		for _, e := range ix.entries {
			if e.ID == query {
				return e, nil
			}
		}
		return BackupEntry{}, &util.StationNotFoundError{Station: query}
	}
	norm := util.NormalizeSiteName(query)
	for _, e := range ix.entries {
		if util.NormalizeSiteName(e.Name) == norm {
			return e, nil
		}
	}
	return BackupEntry{}, &util.StationNotFoundError{Station: query}
}

// Entries returns the index rows in file order.
func (ix *Index) Entries() []BackupEntry { return ix.entries }

func isNumeric(s string) bool {
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
