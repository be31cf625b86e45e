package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// CreateProfile adds a new profile with empty id lists.
func (s *Store) CreateProfile(ctx context.Context, name string, template types.Template) (types.Profile, error) {
	if template == "" {
		template = types.TemplateClassic
	}
	now := time.Now().UTC()
	profile := types.Profile{
		ID:            uuid.NewString(),
		Name:          name,
		Template:      template,
		ExperienceIDs: []string{},
		ProjectIDs:    []string{},
		SkillIDs:      []string{},
		EducationIDs:  []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.mutate(ctx, func() error {
		s.profiles = append(s.profiles, profile.Clone())
		return nil
	})
	return profile, err
}

// UpdateProfile applies a partial patch to a profile. Nil patch fields are
// left alone; override maps in the patch are merged entry-by-entry into the
// profile's maps, with empty patches removing their entry.
func (s *Store) UpdateProfile(ctx context.Context, id string, patch types.ProfilePatch) (types.Profile, error) {
	var updated types.Profile
	err := s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(id)
		if err != nil {
			return err
		}
		applyProfilePatch(p, patch)
		p.UpdatedAt = time.Now().UTC()
		updated = p.Clone()
		return nil
	})
	return updated, err
}

// DeleteProfile removes a profile. Master data is unaffected.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	return s.mutate(ctx, func() error {
		for i := range s.profiles {
			if s.profiles[i].ID == id {
				s.profiles = append(s.profiles[:i:i], s.profiles[i+1:]...)
				return nil
			}
		}
		return profileNotFound(id)
	})
}

// CloneProfile deep-copies a profile under a fresh id with " Copy" appended
// to its name. Id lists and overrides are copied by value, so the clone and
// the source mutate independently.
func (s *Store) CloneProfile(ctx context.Context, id string) (types.Profile, error) {
	var clone types.Profile
	err := s.mutate(ctx, func() error {
		src, err := s.findProfileLocked(id)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		clone = src.Clone()
		clone.ID = uuid.NewString()
		clone.Name = src.Name + " Copy"
		clone.CreatedAt = now
		clone.UpdatedAt = now
		s.profiles = append(s.profiles, clone.Clone())
		return nil
	})
	return clone, err
}

// ReorderItems moves the id at fromIndex to toIndex within one category's id
// list. Override maps are untouched.
func (s *Store) ReorderItems(ctx context.Context, profileID string, category types.Category, fromIndex, toIndex int) error {
	if !types.ValidCategory(string(category)) {
		return ErrBadCategory
	}
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		ids := p.IDs(category)
		if fromIndex < 0 || fromIndex >= len(ids) || toIndex < 0 || toIndex >= len(ids) {
			return ErrBadIndex
		}
		next := make([]string, 0, len(ids))
		next = append(next, ids[:fromIndex]...)
		next = append(next, ids[fromIndex+1:]...)
		next = append(next[:toIndex:toIndex], append([]string{ids[fromIndex]}, next[toIndex:]...)...)
		p.SetIDs(category, next)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// SetProfilePersonalInfo sets or clears a profile's personal info copy.
// A nil value removes the copy so the profile falls back to master data.
func (s *Store) SetProfilePersonalInfo(ctx context.Context, profileID string, pi *types.PersonalInfo) error {
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		if pi == nil {
			p.PersonalInfo = nil
		} else {
			v := *pi
			p.PersonalInfo = &v
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ApplyOptimization applies an externally proposed profile patch through the
// same path as a manual update and records what produced it. Override keys
// that reference unknown profile list entries are still applied; the merge
// resolver tolerates them like any other inert override.
func (s *Store) ApplyOptimization(ctx context.Context, profileID string, patch types.ProfilePatch, jobText, model string) (types.Profile, error) {
	var updated types.Profile
	err := s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		applyProfilePatch(p, patch)
		hash := sha256.Sum256([]byte(jobText))
		p.AIOptimization = &types.AIOptimization{
			OptimizedAt: time.Now().UTC(),
			JobHash:     hex.EncodeToString(hash[:]),
			Model:       model,
			KeyInsights: append([]string(nil), patch.KeyInsights...),
		}
		p.UpdatedAt = time.Now().UTC()
		updated = p.Clone()
		return nil
	})
	return updated, err
}

func applyProfilePatch(p *types.Profile, patch types.ProfilePatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.PersonalInfo != nil {
		v := *patch.PersonalInfo
		p.PersonalInfo = &v
	}
	if patch.ExperienceIDs != nil {
		p.ExperienceIDs = append([]string(nil), (*patch.ExperienceIDs)...)
	}
	if patch.ProjectIDs != nil {
		p.ProjectIDs = append([]string(nil), (*patch.ProjectIDs)...)
	}
	if patch.SkillIDs != nil {
		p.SkillIDs = append([]string(nil), (*patch.SkillIDs)...)
	}
	if patch.EducationIDs != nil {
		p.EducationIDs = append([]string(nil), (*patch.EducationIDs)...)
	}
	if patch.Template != nil {
		p.Template = *patch.Template
	}
	if patch.SectionOrder != nil {
		p.SectionOrder = append([]string(nil), (*patch.SectionOrder)...)
	}
	if patch.Formatting != nil {
		v := *patch.Formatting
		p.Formatting = &v
	}

	for id, op := range patch.ExperienceOverrides {
		setExperienceOverride(p, id, op)
	}
	for id, op := range patch.ProjectOverrides {
		setProjectOverride(p, id, op)
	}
	for id, op := range patch.SkillOverrides {
		setSkillOverride(p, id, op)
	}
	for id, op := range patch.EducationOverrides {
		setEducationOverride(p, id, op)
	}
}
