package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/types"
)

// ---------------------------------------------------------------------
// Override Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSetOverride(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	profileID := r.PathValue("id")
	itemID := r.PathValue("item_id")
	category := types.Category(r.PathValue("category"))

	switch category {
	case types.CategoryExperience:
		var patch types.ExperiencePatch
		if !s.decodeJSON(w, r, &patch) {
			return
		}
		err = st.SetExperienceOverride(r.Context(), profileID, itemID, patch)
	case types.CategoryProject:
		var patch types.ProjectPatch
		if !s.decodeJSON(w, r, &patch) {
			return
		}
		err = st.SetProjectOverride(r.Context(), profileID, itemID, patch)
	case types.CategorySkill:
		var patch types.SkillPatch
		if !s.decodeJSON(w, r, &patch) {
			return
		}
		err = st.SetSkillOverride(r.Context(), profileID, itemID, patch)
	case types.CategoryEducation:
		var patch types.EducationPatch
		if !s.decodeJSON(w, r, &patch) {
			return
		}
		err = st.SetEducationOverride(r.Context(), profileID, itemID, patch)
	default:
		s.errorResponse(w, http.StatusBadRequest, "unknown category: "+string(category))
		return
	}
	if err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(profileID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

func (s *Server) handleResetOverride(w http.ResponseWriter, r *http.Request) {
	st, err := s.storeFor(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	profileID := r.PathValue("id")
	category := types.Category(r.PathValue("category"))

	if err := st.ResetOverride(r.Context(), profileID, category, r.PathValue("item_id")); err != nil {
		s.handleError(w, err)
		return
	}

	profile, err := st.Profile(profileID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
