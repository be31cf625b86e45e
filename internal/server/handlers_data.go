package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/types"
)

// ---------------------------------------------------------------------
// Master Data Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetData(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, st.Data())
}

func (s *Server) handleUpdatePersonalInfo(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var pi types.PersonalInfo
	if !s.decodeJSON(w, r, &pi) {
		return
	}

	if err := st.UpdatePersonalInfo(r.Context(), pi); err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pi)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var created any
	switch types.Category(r.PathValue("category")) {
	case types.CategoryExperience:
		var item types.Experience
		if !s.decodeJSON(w, r, &item) {
			return
		}
		created, err = st.AddExperience(r.Context(), item)
	case types.CategoryProject:
		var item types.Project
		if !s.decodeJSON(w, r, &item) {
			return
		}
		created, err = st.AddProject(r.Context(), item)
	case types.CategorySkill:
		var item types.Skill
		if !s.decodeJSON(w, r, &item) {
			return
		}
		created, err = st.AddSkill(r.Context(), item)
	case types.CategoryEducation:
		var item types.Education
		if !s.decodeJSON(w, r, &item) {
			return
		}
		created, err = st.AddEducation(r.Context(), item)
	default:
		s.errorResponse(w, http.StatusBadRequest, "unknown category: "+r.PathValue("category"))
		return
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	id := r.PathValue("id")
	var updated any
	switch types.Category(r.PathValue("category")) {
	case types.CategoryExperience:
		var item types.Experience
		if !s.decodeJSON(w, r, &item) {
			return
		}
		item.ID = id
		err = st.UpdateExperience(r.Context(), item)
		updated = item
	case types.CategoryProject:
		var item types.Project
		if !s.decodeJSON(w, r, &item) {
			return
		}
		item.ID = id
		err = st.UpdateProject(r.Context(), item)
		updated = item
	case types.CategorySkill:
		var item types.Skill
		if !s.decodeJSON(w, r, &item) {
			return
		}
		item.ID = id
		err = st.UpdateSkill(r.Context(), item)
		updated = item
	case types.CategoryEducation:
		var item types.Education
		if !s.decodeJSON(w, r, &item) {
			return
		}
		item.ID = id
		err = st.UpdateEducation(r.Context(), item)
		updated = item
	default:
		s.errorResponse(w, http.StatusBadRequest, "unknown category: "+r.PathValue("category"))
		return
	}
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	category := types.Category(r.PathValue("category"))
	if err := st.DeleteItem(r.Context(), category, r.PathValue("id")); err != nil {
		s.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
