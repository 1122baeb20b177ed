package server

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rangen-network/rangen/pkg/audit"
	"github.com/rangen-network/rangen/pkg/merge"
	"github.com/rangen-network/rangen/pkg/store"
	"github.com/rangen-network/rangen/pkg/util"
	"github.com/rangen-network/rangen/pkg/viewer"
)

// generationResponse is the body returned by the two generation endpoints.
type generationResponse struct {
	Station   string `json:"station"`
	Operation string `json:"operation"`
	File      string `json:"file"`
	Objects   int    `json:"objects"`
}

// formFile reads one uploaded file from a parsed multipart request.
func formFile(r *http.Request, field string) ([]byte, error) {
	f, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing file field %q: %w", field, err)
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid multipart request: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleModernization(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.parseUpload(w, r) {
		return
	}
	station := strings.TrimSpace(r.FormValue("station"))
	if station == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "station is required"})
		return
	}

	var inputs [3][]byte
	for i, field := range []string{"existing", "reference", "transmission"} {
		data, err := formFile(r, field)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		inputs[i] = data
	}

	opts := merge.ModernizeOptions{}
	if r.FormValue("scope") == "attached" {
		opts.TransportScope = merge.ScopeAttached
	}

	start := time.Now()
	out, err := merge.RunModernization(inputs[0], inputs[1], inputs[2], station, opts)
	if err != nil {
		s.record(r, station, audit.OpModernization, "", 0, err, time.Since(start))
		writeError(w, err)
		return
	}

	doc, err := merge.LoadForViewing(out)
	if err != nil {
		writeError(w, err)
		return
	}
	name, err := s.store.SaveGenerated(util.SanitizeFilename(station)+"_5G.xml", out)
	if err != nil {
		writeError(w, err)
		return
	}

	s.record(r, station, audit.OpModernization, name, doc.Len(), nil, time.Since(start))
	writeJSON(w, http.StatusOK, generationResponse{
		Station:   station,
		Operation: audit.OpModernization,
		File:      name,
		Objects:   doc.Len(),
	})
}

func (s *Server) handleRollout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.parseUpload(w, r) {
		return
	}
	station := strings.TrimSpace(r.FormValue("station"))
	if station == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "station is required"})
		return
	}

	var inputs [3][]byte
	for i, field := range []string{"skeleton", "radio", "transmission"} {
		data, err := formFile(r, field)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		inputs[i] = data
	}

	start := time.Now()
	out, err := merge.RunRollout(inputs[0], inputs[1], inputs[2], station, merge.RolloutOptions{})
	if err != nil {
		s.record(r, station, audit.OpRollout, "", 0, err, time.Since(start))
		writeError(w, err)
		return
	}

	doc, err := merge.LoadForViewing(out)
	if err != nil {
		writeError(w, err)
		return
	}
	name, err := s.store.SaveGenerated(util.SanitizeFilename(station)+"_rollout.xml", out)
	if err != nil {
		writeError(w, err)
		return
	}

	s.record(r, station, audit.OpRollout, name, doc.Len(), nil, time.Since(start))
	writeJSON(w, http.StatusOK, generationResponse{
		Station:   station,
		Operation: audit.OpRollout,
		File:      name,
		Objects:   doc.Len(),
	})
}

// handleView summarizes a document posted in the request body.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.parseUpload(w, r) {
		return
	}
	data, err := formFile(r, "document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	doc, err := merge.LoadForViewing(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewer.Summarize(doc))
}

// documentsResponse lists both store directories.
type documentsResponse struct {
	Uploads   []store.FileInfo `json:"uploads"`
	Generated []store.FileInfo `json:"generated"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		uploads, err := s.store.ListUploads()
		if err != nil {
			writeError(w, err)
			return
		}
		generated, err := s.store.ListGenerated()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, documentsResponse{Uploads: uploads, Generated: generated})

	case http.MethodPost:
		if !s.parseUpload(w, r) {
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing file field \"file\""})
			return
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			writeError(w, err)
			return
		}
		name, err := s.store.SaveUpload(hdr.Filename, data)
		if err != nil {
			writeError(w, err)
			return
		}
		if s.audit != nil {
			ev := audit.NewEvent(requestUser(r), "", audit.OpUpload).WithOutputFile(name).WithSuccess()
			ev.ClientIP = r.RemoteAddr
			s.audit.Log(ev)
		}
		writeJSON(w, http.StatusCreated, map[string]string{"file": name})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDocumentByName(w http.ResponseWriter, r *http.Request) {
	name := path.Base(strings.TrimPrefix(r.URL.Path, "/api/documents/"))
	if name == "" || name == "." || name == "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodDelete {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Try generated first, then uploads.
	err := s.store.DeleteGenerated(name)
	if err != nil {
		err = s.store.DeleteUpload(name)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if s.audit != nil {
		ev := audit.NewEvent(requestUser(r), "", audit.OpDelete).WithOutputFile(name).WithSuccess()
		ev.ClientIP = r.RemoteAddr
		s.audit.Log(ev)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePreview summarizes a stored document by name.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := path.Base(strings.TrimPrefix(r.URL.Path, "/api/preview/"))
	data, err := s.store.OpenGenerated(name)
	if err != nil {
		data, err = s.store.OpenUpload(name)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	doc, err := merge.LoadForViewing(data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewer.Summarize(doc))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	name := path.Base(strings.TrimPrefix(r.URL.Path, "/download/"))
	data, err := s.store.OpenGenerated(name)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	entries, err := s.history.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
