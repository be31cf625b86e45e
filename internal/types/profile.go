package types

import "time"

// Template identifies the rendering template a profile uses.
type Template string

// Template constants
const (
	TemplateClassic Template = "classic"
	TemplateCompact Template = "compact"
)

// ValidTemplate checks if a template value is known.
func ValidTemplate(t Template) bool {
	return t == TemplateClassic || t == TemplateCompact
}

// Formatting holds presentation settings for a profile.
type Formatting struct {
	FontSize    string `json:"font_size,omitempty"`
	LineSpacing string `json:"line_spacing,omitempty"`
	Margins     string `json:"margins,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
}

// AIOptimization records the last externally proposed patch applied to a
// profile: when it ran, a fingerprint of the job text it was fed, and the
// insights it reported.
type AIOptimization struct {
	OptimizedAt time.Time `json:"optimized_at"`
	JobHash     string    `json:"job_hash"`
	Model       string    `json:"model,omitempty"`
	KeyInsights []string  `json:"key_insights,omitempty"`
}

// Profile is a named view over master data: ordered id lists per category,
// per-item override patches, an optional personal info replacement, and
// presentation settings. Profiles reference items by id and tolerate ids that
// no longer exist in master data.
type Profile struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	PersonalInfo *PersonalInfo `json:"personal_info,omitempty"`

	ExperienceIDs []string `json:"experience_ids"`
	ProjectIDs    []string `json:"project_ids"`
	SkillIDs      []string `json:"skill_ids"`
	EducationIDs  []string `json:"education_ids"`

	ExperienceOverrides map[string]ExperiencePatch `json:"experience_overrides,omitempty"`
	ProjectOverrides    map[string]ProjectPatch    `json:"project_overrides,omitempty"`
	SkillOverrides      map[string]SkillPatch      `json:"skill_overrides,omitempty"`
	EducationOverrides  map[string]EducationPatch  `json:"education_overrides,omitempty"`

	Template       Template        `json:"template"`
	SectionOrder   []string        `json:"section_order,omitempty"`
	Formatting     *Formatting     `json:"formatting,omitempty"`
	AIOptimization *AIOptimization `json:"ai_optimization,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IDs returns the profile's ordered id list for a category.
func (p *Profile) IDs(c Category) []string {
	switch c {
	case CategoryExperience:
		return p.ExperienceIDs
	case CategoryProject:
		return p.ProjectIDs
	case CategorySkill:
		return p.SkillIDs
	case CategoryEducation:
		return p.EducationIDs
	default:
		return nil
	}
}

// SetIDs replaces the profile's id list for a category.
func (p *Profile) SetIDs(c Category, ids []string) {
	switch c {
	case CategoryExperience:
		p.ExperienceIDs = ids
	case CategoryProject:
		p.ProjectIDs = ids
	case CategorySkill:
		p.SkillIDs = ids
	case CategoryEducation:
		p.EducationIDs = ids
	}
}

// Clone returns a deep copy of the profile. Id lists and override maps are
// copied by value so mutations on the clone never reach the source.
func (p Profile) Clone() Profile {
	out := p
	out.ExperienceIDs = cloneStrings(p.ExperienceIDs)
	out.ProjectIDs = cloneStrings(p.ProjectIDs)
	out.SkillIDs = cloneStrings(p.SkillIDs)
	out.EducationIDs = cloneStrings(p.EducationIDs)

	if p.PersonalInfo != nil {
		pi := *p.PersonalInfo
		out.PersonalInfo = &pi
	}
	if p.Formatting != nil {
		f := *p.Formatting
		out.Formatting = &f
	}
	if p.AIOptimization != nil {
		ai := *p.AIOptimization
		ai.KeyInsights = cloneStrings(p.AIOptimization.KeyInsights)
		out.AIOptimization = &ai
	}
	out.SectionOrder = cloneStrings(p.SectionOrder)

	if p.ExperienceOverrides != nil {
		out.ExperienceOverrides = make(map[string]ExperiencePatch, len(p.ExperienceOverrides))
		for k, v := range p.ExperienceOverrides {
			out.ExperienceOverrides[k] = v.Clone()
		}
	}
	if p.ProjectOverrides != nil {
		out.ProjectOverrides = make(map[string]ProjectPatch, len(p.ProjectOverrides))
		for k, v := range p.ProjectOverrides {
			out.ProjectOverrides[k] = v.Clone()
		}
	}
	if p.SkillOverrides != nil {
		out.SkillOverrides = make(map[string]SkillPatch, len(p.SkillOverrides))
		for k, v := range p.SkillOverrides {
			out.SkillOverrides[k] = v
		}
	}
	if p.EducationOverrides != nil {
		out.EducationOverrides = make(map[string]EducationPatch, len(p.EducationOverrides))
		for k, v := range p.EducationOverrides {
			out.EducationOverrides[k] = v.Clone()
		}
	}
	return out
}
