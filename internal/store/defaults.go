package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultSnapshot seeds the state used when no saved data exists or stored
// data fails validation: empty master data and one starter profile, so the
// application never starts without usable state.
func DefaultSnapshot() *storage.Snapshot {
	now := time.Now().UTC()
	return &storage.Snapshot{
		Profiles: []types.Profile{
			{
				ID:            uuid.NewString(),
				Name:          "My Resume",
				Template:      types.TemplateClassic,
				ExperienceIDs: []string{},
				ProjectIDs:    []string{},
				SkillIDs:      []string{},
				EducationIDs:  []string{},
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		Data: types.DataBundle{
			Experiences: []types.Experience{},
			Projects:    []types.Project{},
			Skills:      []types.Skill{},
			Education:   []types.Education{},
		},
	}
}
