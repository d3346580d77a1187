package web

import (
	"io"
	"net/http"
	"strings"
)

// maxBackupBytes caps the uploaded snapshot size.
const maxBackupBytes = 64 << 20

func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	snap, err := s.backup.Export(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+snap.Filename()+`"`)
	s.respondJSON(w, http.StatusOK, snap)
}

// handleImportBackup accepts the snapshot either as a multipart upload
// under the "backup" field or as a raw JSON body.
func (s *Server) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := readBackupUpload(w, r)
	if err != nil {
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid upload"})
		return
	}

	if err := s.backup.Restore(r.Context(), data); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "restored"})
}

func readBackupUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		file, _, err := r.FormFile("backup")
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		return io.ReadAll(file)
	}
	return io.ReadAll(r.Body)
}
