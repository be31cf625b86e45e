package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/ingest"
	"github.com/jonathan/resume-builder/internal/types"
)

// ---------------------------------------------------------------------
// Storage Handlers
// ---------------------------------------------------------------------

func (s *Server) handleStorageStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"backend":    st.BackendName(),
		"last_error": st.LastError(),
	})
}

func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	envelope, err := st.Backup(r.Context())
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"snapshot": envelope})
}

func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req types.RestoreRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	if err := st.Restore(r.Context(), req.Snapshot); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "restored"})
}

func (s *Server) handleMigrate(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req types.MigrateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	dest, err := s.gateways(r.Context(), req.To, userFrom(r.Context()))
	if err != nil {
		s.handleError(w, err)
		return
	}

	if err := st.SwitchBackend(r.Context(), dest); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"backend": st.BackendName()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if err := st.ClearAll(r.Context()); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ---------------------------------------------------------------------
// Posting Ingestion
// ---------------------------------------------------------------------

func (s *Server) handleExtractPosting(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractPostingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	posting, err := ingest.ExtractPosting(req.HTML)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
