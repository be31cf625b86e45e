// Package resolve merges master data with a profile's id lists and override
// patches to produce the final renderable item sequences.
//
// Resolution is pure: nothing here mutates the profile or the bundle, and
// returned items never alias master data slices. Profile id order is the
// authoritative render order; ids missing from master data are dropped
// silently and the profile keeps listing them.
package resolve

import "github.com/jonathan/resume-builder/internal/types"

// ExperienceItem resolves one experience id for a profile. Returns nil when
// the id is not present in master data.
func ExperienceItem(id string, p *types.Profile, d *types.DataBundle) *types.Experience {
	for i := range d.Experiences {
		if d.Experiences[i].ID != id {
			continue
		}
		item := d.Experiences[i].Clone()
		if patch, ok := p.ExperienceOverrides[id]; ok {
			applyExperiencePatch(&item, patch)
		}
		return &item
	}
	return nil
}

// Experiences resolves a profile's experience list in profile order.
func Experiences(p *types.Profile, d *types.DataBundle) []types.Experience {
	out := make([]types.Experience, 0, len(p.ExperienceIDs))
	for _, id := range p.ExperienceIDs {
		if item := ExperienceItem(id, p, d); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// ProjectItem resolves one project id for a profile.
func ProjectItem(id string, p *types.Profile, d *types.DataBundle) *types.Project {
	for i := range d.Projects {
		if d.Projects[i].ID != id {
			continue
		}
		item := d.Projects[i].Clone()
		if patch, ok := p.ProjectOverrides[id]; ok {
			applyProjectPatch(&item, patch)
		}
		return &item
	}
	return nil
}

// Projects resolves a profile's project list in profile order.
func Projects(p *types.Profile, d *types.DataBundle) []types.Project {
	out := make([]types.Project, 0, len(p.ProjectIDs))
	for _, id := range p.ProjectIDs {
		if item := ProjectItem(id, p, d); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// SkillItem resolves one skill id for a profile.
func SkillItem(id string, p *types.Profile, d *types.DataBundle) *types.Skill {
	for i := range d.Skills {
		if d.Skills[i].ID != id {
			continue
		}
		item := d.Skills[i]
		if patch, ok := p.SkillOverrides[id]; ok {
			applySkillPatch(&item, patch)
		}
		return &item
	}
	return nil
}

// Skills resolves a profile's skill list in profile order.
func Skills(p *types.Profile, d *types.DataBundle) []types.Skill {
	out := make([]types.Skill, 0, len(p.SkillIDs))
	for _, id := range p.SkillIDs {
		if item := SkillItem(id, p, d); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// EducationItem resolves one education id for a profile.
func EducationItem(id string, p *types.Profile, d *types.DataBundle) *types.Education {
	for i := range d.Education {
		if d.Education[i].ID != id {
			continue
		}
		item := d.Education[i].Clone()
		if patch, ok := p.EducationOverrides[id]; ok {
			applyEducationPatch(&item, patch)
		}
		return &item
	}
	return nil
}

// EducationList resolves a profile's education list in profile order.
func EducationList(p *types.Profile, d *types.DataBundle) []types.Education {
	out := make([]types.Education, 0, len(p.EducationIDs))
	for _, id := range p.EducationIDs {
		if item := EducationItem(id, p, d); item != nil {
			out = append(out, *item)
		}
	}
	return out
}

// PersonalInfo returns the effective personal info for a profile: the
// profile's own copy wholesale when present, otherwise master data's.
func PersonalInfo(p *types.Profile, d *types.DataBundle) types.PersonalInfo {
	if p.PersonalInfo != nil {
		return *p.PersonalInfo
	}
	return d.PersonalInfo
}

// Set fields win over the base; slice fields replace the base slice
// wholesale. The patch's slices are copied so the resolved item never shares
// backing arrays with the override map.

func applyExperiencePatch(item *types.Experience, p types.ExperiencePatch) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Company != nil {
		item.Company = *p.Company
	}
	if p.Location != nil {
		item.Location = *p.Location
	}
	if p.StartDate != nil {
		item.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		item.EndDate = *p.EndDate
	}
	if p.Bullets != nil {
		item.Bullets = append([]string(nil), (*p.Bullets)...)
	}
	if p.Tags != nil {
		item.Tags = append([]string(nil), (*p.Tags)...)
	}
}

func applyProjectPatch(item *types.Project, p types.ProjectPatch) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.URL != nil {
		item.URL = *p.URL
	}
	if p.Bullets != nil {
		item.Bullets = append([]string(nil), (*p.Bullets)...)
	}
	if p.Tags != nil {
		item.Tags = append([]string(nil), (*p.Tags)...)
	}
}

func applySkillPatch(item *types.Skill, p types.SkillPatch) {
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Level != nil {
		item.Level = *p.Level
	}
}

func applyEducationPatch(item *types.Education, p types.EducationPatch) {
	if p.School != nil {
		item.School = *p.School
	}
	if p.Degree != nil {
		item.Degree = *p.Degree
	}
	if p.Field != nil {
		item.Field = *p.Field
	}
	if p.StartDate != nil {
		item.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		item.EndDate = *p.EndDate
	}
	if p.GPA != nil {
		item.GPA = *p.GPA
	}
	if p.Bullets != nil {
		item.Bullets = append([]string(nil), (*p.Bullets)...)
	}
}
