package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/optimize"
	"github.com/jonathan/resume-builder/internal/resolve"
	"github.com/jonathan/resume-builder/internal/types"
)

// ---------------------------------------------------------------------
// Profile Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st.Profiles())
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req types.CreateProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.CreateProfile(r.Context(), req.Name, req.Template)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, profile)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var patch types.ProfilePatch
	if !s.decodeJSON(w, r, &patch) {
		return
	}

	profile, err := st.UpdateProfile(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	if err := st.DeleteProfile(r.Context(), r.PathValue("id")); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCloneProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	clone, err := st.CloneProfile(r.Context(), r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, clone)
}

func (s *Server) handleReorderItems(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req types.ReorderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	err = st.ReorderItems(r.Context(), r.PathValue("id"), types.Category(req.Category), req.FromIndex, req.ToIndex)
	if err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// ResolvedProfile is a profile with all overrides applied against master
// data, ready to render.
type ResolvedProfile struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Template     types.Template     `json:"template"`
	SectionOrder []string           `json:"section_order,omitempty"`
	Formatting   *types.Formatting  `json:"formatting,omitempty"`
	PersonalInfo types.PersonalInfo `json:"personal_info"`
	Experiences  []types.Experience `json:"experiences"`
	Projects     []types.Project    `json:"projects"`
	Skills       []types.Skill      `json:"skills"`
	Education    []types.Education  `json:"education"`
}

func (s *Server) handleResolvedProfile(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	data := st.Data()

	resolved := ResolvedProfile{
		ID:           profile.ID,
		Name:         profile.Name,
		Template:     profile.Template,
		SectionOrder: profile.SectionOrder,
		Formatting:   profile.Formatting,
		PersonalInfo: resolve.PersonalInfo(&profile, &data),
		Experiences:  resolve.Experiences(&profile, &data),
		Projects:     resolve.Projects(&profile, &data),
		Skills:       resolve.Skills(&profile, &data),
		Education:    resolve.EducationList(&profile, &data),
	}
	s.jsonResponse(w, http.StatusOK, resolved)
}

func (s *Server) handleSetProfilePersonalInfo(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	// A JSON null body clears the profile-scoped copy.
	var pi *types.PersonalInfo
	if !s.decodeJSON(w, r, &pi) {
		return
	}

	if err := st.SetProfilePersonalInfo(r.Context(), r.PathValue("id"), pi); err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleOptimizeProfile(w http.ResponseWriter, r *http.Request) {
	if s.collab == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "optimization is not configured")
		return
	}

	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req types.OptimizeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(r.PathValue("id"))
	if err != nil {
		s.handleError(w, err)
		return
	}

	opts := optimize.Options{Model: req.Model, Emphasis: req.Emphasis}
	patch, err := s.collab.Optimize(r.Context(), profile, st.Data(), req.JobText, opts)
	if err != nil {
		s.handleError(w, err)
		return
	}

	updated, err := st.ApplyOptimization(r.Context(), profile.ID, *patch, req.JobText, s.collab.Model(opts))
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}
