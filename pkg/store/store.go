// Package store keeps uploaded source files and generated documents on
// disk, one directory for each, with sanitized names and an extension
// allow-list.
package store

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rangen-network/rangen/pkg/util"
)

// ErrUnsupportedType marks a file whose extension the store does not accept.
var ErrUnsupportedType = errors.New("unsupported file type")

// allowedExtensions are the file types the workflows consume or produce.
var allowedExtensions = map[string]bool{
	".xml":  true,
	".xlsx": true,
	".xls":  true,
	".csv":  true,
}

// FileInfo describes one stored file.
type FileInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Store is a two-directory file store: uploads holds user-provided source
// files, generated holds engine output.
type Store struct {
	uploadDir    string
	generatedDir string
}

// Open prepares a store rooted at dir, creating the upload and generated
// directories when missing.
func Open(dir string) (*Store, error) {
	s := &Store{
		uploadDir:    filepath.Join(dir, "uploads"),
		generatedDir: filepath.Join(dir, "generated"),
	}
	for _, d := range []string{s.uploadDir, s.generatedDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// UploadDir returns the directory uploads are stored in.
func (s *Store) UploadDir() string { return s.uploadDir }

// GeneratedDir returns the directory generated documents are stored in.
func (s *Store) GeneratedDir() string { return s.generatedDir }

// SaveUpload stores an uploaded source file under its sanitized name and
// returns that name.
func (s *Store) SaveUpload(name string, data []byte) (string, error) {
	return save(s.uploadDir, name, data)
}

// SaveGenerated stores a generated document under its sanitized name and
// returns that name.
func (s *Store) SaveGenerated(name string, data []byte) (string, error) {
	return save(s.generatedDir, name, data)
}

func save(dir, name string, data []byte) (string, error) {
	clean, err := cleanName(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(dir, clean), data, 0o644); err != nil {
		return "", err
	}
	util.WithFields(map[string]interface{}{
		"file": clean,
		"size": len(data),
	}).Debug("file stored")
	return clean, nil
}

// OpenUpload reads an uploaded file by name.
func (s *Store) OpenUpload(name string) ([]byte, error) {
	return read(s.uploadDir, name)
}

// OpenGenerated reads a generated document by name.
func (s *Store) OpenGenerated(name string) ([]byte, error) {
	return read(s.generatedDir, name)
}

func read(dir, name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(dir, clean))
}

// DeleteUpload removes an uploaded file.
func (s *Store) DeleteUpload(name string) error {
	return remove(s.uploadDir, name)
}

// DeleteGenerated removes a generated document.
func (s *Store) DeleteGenerated(name string) error {
	return remove(s.generatedDir, name)
}

func remove(dir, name string) error {
	clean, err := cleanName(name)
	if err != nil {
		return err
	}
	return os.Remove(filepath.Join(dir, clean))
}

// ListUploads lists uploaded files, newest first.
func (s *Store) ListUploads() ([]FileInfo, error) {
	return list(s.uploadDir)
}

// ListGenerated lists generated documents, newest first.
func (s *Store) ListGenerated() ([]FileInfo, error) {
	return list(s.generatedDir)
}

func list(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	files := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !allowedExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{Name: e.Name(), Size: fi.Size(), Modified: fi.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Modified.After(files[j].Modified) })
	return files, nil
}

// cleanName sanitizes a client-supplied file name and enforces the
// extension allow-list.
func cleanName(name string) (string, error) {
	clean := util.SanitizeFilename(name)
	if !allowedExtensions[strings.ToLower(filepath.Ext(clean))] {
		return "", ErrUnsupportedType
	}
	return clean, nil
}
