package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// AddExperience adds an experience to master data, assigning an id when the
// input has none.
func (s *Store) AddExperience(ctx context.Context, item types.Experience) (types.Experience, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func() error {
		s.data.Experiences = append(s.data.Experiences, item.Clone())
		return nil
	})
	return item, err
}

// UpdateExperience replaces the master experience with the same id.
func (s *Store) UpdateExperience(ctx context.Context, item types.Experience) error {
	return s.mutate(ctx, func() error {
		for i := range s.data.Experiences {
			if s.data.Experiences[i].ID == item.ID {
				s.data.Experiences[i] = item.Clone()
				return nil
			}
		}
		return itemNotFound(types.CategoryExperience, item.ID)
	})
}

// AddProject adds a project to master data.
func (s *Store) AddProject(ctx context.Context, item types.Project) (types.Project, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func() error {
		s.data.Projects = append(s.data.Projects, item.Clone())
		return nil
	})
	return item, err
}

// UpdateProject replaces the master project with the same id.
func (s *Store) UpdateProject(ctx context.Context, item types.Project) error {
	return s.mutate(ctx, func() error {
		for i := range s.data.Projects {
			if s.data.Projects[i].ID == item.ID {
				s.data.Projects[i] = item.Clone()
				return nil
			}
		}
		return itemNotFound(types.CategoryProject, item.ID)
	})
}

// AddSkill adds a skill to master data.
func (s *Store) AddSkill(ctx context.Context, item types.Skill) (types.Skill, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func() error {
		s.data.Skills = append(s.data.Skills, item)
		return nil
	})
	return item, err
}

// UpdateSkill replaces the master skill with the same id.
func (s *Store) UpdateSkill(ctx context.Context, item types.Skill) error {
	return s.mutate(ctx, func() error {
		for i := range s.data.Skills {
			if s.data.Skills[i].ID == item.ID {
				s.data.Skills[i] = item
				return nil
			}
		}
		return itemNotFound(types.CategorySkill, item.ID)
	})
}

// AddEducation adds an education entry to master data.
func (s *Store) AddEducation(ctx context.Context, item types.Education) (types.Education, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	err := s.mutate(ctx, func() error {
		s.data.Education = append(s.data.Education, item.Clone())
		return nil
	})
	return item, err
}

// UpdateEducation replaces the master education entry with the same id.
func (s *Store) UpdateEducation(ctx context.Context, item types.Education) error {
	return s.mutate(ctx, func() error {
		for i := range s.data.Education {
			if s.data.Education[i].ID == item.ID {
				s.data.Education[i] = item.Clone()
				return nil
			}
		}
		return itemNotFound(types.CategoryEducation, item.ID)
	})
}

// DeleteItem removes an item from master data by category and id. Profiles
// referencing the id keep it in their lists and override maps; the merge
// resolver drops the dangling reference at render time.
func (s *Store) DeleteItem(ctx context.Context, category types.Category, id string) error {
	if !types.ValidCategory(string(category)) {
		return ErrBadCategory
	}
	return s.mutate(ctx, func() error {
		switch category {
		case types.CategoryExperience:
			for i := range s.data.Experiences {
				if s.data.Experiences[i].ID == id {
					s.data.Experiences = append(s.data.Experiences[:i:i], s.data.Experiences[i+1:]...)
					return nil
				}
			}
		case types.CategoryProject:
			for i := range s.data.Projects {
				if s.data.Projects[i].ID == id {
					s.data.Projects = append(s.data.Projects[:i:i], s.data.Projects[i+1:]...)
					return nil
				}
			}
		case types.CategorySkill:
			for i := range s.data.Skills {
				if s.data.Skills[i].ID == id {
					s.data.Skills = append(s.data.Skills[:i:i], s.data.Skills[i+1:]...)
					return nil
				}
			}
		case types.CategoryEducation:
			for i := range s.data.Education {
				if s.data.Education[i].ID == id {
					s.data.Education = append(s.data.Education[:i:i], s.data.Education[i+1:]...)
					return nil
				}
			}
		}
		return itemNotFound(category, id)
	})
}

// UpdatePersonalInfo replaces master-scoped personal info.
func (s *Store) UpdatePersonalInfo(ctx context.Context, pi types.PersonalInfo) error {
	return s.mutate(ctx, func() error {
		s.data.PersonalInfo = pi
		return nil
	})
}
