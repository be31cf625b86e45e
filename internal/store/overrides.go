package store

import (
	"context"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// SetExperienceOverride sets a profile's override patch for one experience.
// An empty patch is equivalent to no override and removes the entry.
func (s *Store) SetExperienceOverride(ctx context.Context, profileID, itemID string, patch types.ExperiencePatch) error {
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		setExperienceOverride(p, itemID, patch)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// SetProjectOverride sets a profile's override patch for one project.
func (s *Store) SetProjectOverride(ctx context.Context, profileID, itemID string, patch types.ProjectPatch) error {
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		setProjectOverride(p, itemID, patch)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// SetSkillOverride sets a profile's override patch for one skill.
func (s *Store) SetSkillOverride(ctx context.Context, profileID, itemID string, patch types.SkillPatch) error {
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		setSkillOverride(p, itemID, patch)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// SetEducationOverride sets a profile's override patch for one education entry.
func (s *Store) SetEducationOverride(ctx context.Context, profileID, itemID string, patch types.EducationPatch) error {
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		setEducationOverride(p, itemID, patch)
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

// ResetOverride deletes the single override entry for itemID in the given
// category. When the map empties it is dropped entirely, so a profile with no
// effective overrides carries no override map at all.
func (s *Store) ResetOverride(ctx context.Context, profileID string, category types.Category, itemID string) error {
	if !types.ValidCategory(string(category)) {
		return ErrBadCategory
	}
	return s.mutate(ctx, func() error {
		p, err := s.findProfileLocked(profileID)
		if err != nil {
			return err
		}
		switch category {
		case types.CategoryExperience:
			delete(p.ExperienceOverrides, itemID)
			if len(p.ExperienceOverrides) == 0 {
				p.ExperienceOverrides = nil
			}
		case types.CategoryProject:
			delete(p.ProjectOverrides, itemID)
			if len(p.ProjectOverrides) == 0 {
				p.ProjectOverrides = nil
			}
		case types.CategorySkill:
			delete(p.SkillOverrides, itemID)
			if len(p.SkillOverrides) == 0 {
				p.SkillOverrides = nil
			}
		case types.CategoryEducation:
			delete(p.EducationOverrides, itemID)
			if len(p.EducationOverrides) == 0 {
				p.EducationOverrides = nil
			}
		}
		p.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func setExperienceOverride(p *types.Profile, itemID string, patch types.ExperiencePatch) {
	if patch.IsZero() {
		delete(p.ExperienceOverrides, itemID)
		if len(p.ExperienceOverrides) == 0 {
			p.ExperienceOverrides = nil
		}
		return
	}
	if p.ExperienceOverrides == nil {
		p.ExperienceOverrides = map[string]types.ExperiencePatch{}
	}
	p.ExperienceOverrides[itemID] = patch.Clone()
}

func setProjectOverride(p *types.Profile, itemID string, patch types.ProjectPatch) {
	if patch.IsZero() {
		delete(p.ProjectOverrides, itemID)
		if len(p.ProjectOverrides) == 0 {
			p.ProjectOverrides = nil
		}
		return
	}
	if p.ProjectOverrides == nil {
		p.ProjectOverrides = map[string]types.ProjectPatch{}
	}
	p.ProjectOverrides[itemID] = patch.Clone()
}

func setSkillOverride(p *types.Profile, itemID string, patch types.SkillPatch) {
	if patch.IsZero() {
		delete(p.SkillOverrides, itemID)
		if len(p.SkillOverrides) == 0 {
			p.SkillOverrides = nil
		}
		return
	}
	if p.SkillOverrides == nil {
		p.SkillOverrides = map[string]types.SkillPatch{}
	}
	p.SkillOverrides[itemID] = patch
}

func setEducationOverride(p *types.Profile, itemID string, patch types.EducationPatch) {
	if patch.IsZero() {
		delete(p.EducationOverrides, itemID)
		if len(p.EducationOverrides) == 0 {
			p.EducationOverrides = nil
		}
		return
	}
	if p.EducationOverrides == nil {
		p.EducationOverrides = map[string]types.EducationPatch{}
	}
	p.EducationOverrides[itemID] = patch.Clone()
}
