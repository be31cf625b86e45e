package types

// Override patches are partial structs: a nil field means "fall through to
// master data", a non-nil field wins even when it points at a zero value.
// Slice fields replace the base slice wholesale; there is no element-wise
// merging of bullets or tags.

// ExperiencePatch is a partial Experience applied over a base item.
type ExperiencePatch struct {
	Title     *string   `json:"title,omitempty"`
	Company   *string   `json:"company,omitempty"`
	Location  *string   `json:"location,omitempty"`
	StartDate *string   `json:"start_date,omitempty"`
	EndDate   *string   `json:"end_date,omitempty"`
	Bullets   *[]string `json:"bullets,omitempty"`
	Tags      *[]string `json:"tags,omitempty"`
}

// IsZero reports whether no field of the patch is set.
func (p ExperiencePatch) IsZero() bool {
	return p.Title == nil && p.Company == nil && p.Location == nil &&
		p.StartDate == nil && p.EndDate == nil && p.Bullets == nil && p.Tags == nil
}

// Clone returns a deep copy of the patch.
func (p ExperiencePatch) Clone() ExperiencePatch {
	out := p
	out.Title = cloneStringPtr(p.Title)
	out.Company = cloneStringPtr(p.Company)
	out.Location = cloneStringPtr(p.Location)
	out.StartDate = cloneStringPtr(p.StartDate)
	out.EndDate = cloneStringPtr(p.EndDate)
	out.Bullets = cloneStringsPtr(p.Bullets)
	out.Tags = cloneStringsPtr(p.Tags)
	return out
}

// ProjectPatch is a partial Project applied over a base item.
type ProjectPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Bullets     *[]string `json:"bullets,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// IsZero reports whether no field of the patch is set.
func (p ProjectPatch) IsZero() bool {
	return p.Name == nil && p.Description == nil && p.URL == nil &&
		p.Bullets == nil && p.Tags == nil
}

// Clone returns a deep copy of the patch.
func (p ProjectPatch) Clone() ProjectPatch {
	out := p
	out.Name = cloneStringPtr(p.Name)
	out.Description = cloneStringPtr(p.Description)
	out.URL = cloneStringPtr(p.URL)
	out.Bullets = cloneStringsPtr(p.Bullets)
	out.Tags = cloneStringsPtr(p.Tags)
	return out
}

// SkillPatch is a partial Skill applied over a base item.
type SkillPatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Level    *string `json:"level,omitempty"`
}

// IsZero reports whether no field of the patch is set.
func (p SkillPatch) IsZero() bool {
	return p.Name == nil && p.Category == nil && p.Level == nil
}

// EducationPatch is a partial Education applied over a base item.
type EducationPatch struct {
	School    *string   `json:"school,omitempty"`
	Degree    *string   `json:"degree,omitempty"`
	Field     *string   `json:"field,omitempty"`
	StartDate *string   `json:"start_date,omitempty"`
	EndDate   *string   `json:"end_date,omitempty"`
	GPA       *string   `json:"gpa,omitempty"`
	Bullets   *[]string `json:"bullets,omitempty"`
}

// IsZero reports whether no field of the patch is set.
func (p EducationPatch) IsZero() bool {
	return p.School == nil && p.Degree == nil && p.Field == nil &&
		p.StartDate == nil && p.EndDate == nil && p.GPA == nil && p.Bullets == nil
}

// Clone returns a deep copy of the patch.
func (p EducationPatch) Clone() EducationPatch {
	out := p
	out.School = cloneStringPtr(p.School)
	out.Degree = cloneStringPtr(p.Degree)
	out.Field = cloneStringPtr(p.Field)
	out.StartDate = cloneStringPtr(p.StartDate)
	out.EndDate = cloneStringPtr(p.EndDate)
	out.GPA = cloneStringPtr(p.GPA)
	out.Bullets = cloneStringsPtr(p.Bullets)
	return out
}

// ProfilePatch is a partial Profile. It is the one shape consumed by both
// manual profile updates and externally proposed optimizations: nil fields
// are left alone, non-nil fields replace the profile's value, and override
// maps are merged key-by-key into the profile's existing maps.
type ProfilePatch struct {
	Name         *string       `json:"name,omitempty"`
	PersonalInfo *PersonalInfo `json:"personal_info,omitempty"`

	ExperienceIDs *[]string `json:"experience_ids,omitempty"`
	ProjectIDs    *[]string `json:"project_ids,omitempty"`
	SkillIDs      *[]string `json:"skill_ids,omitempty"`
	EducationIDs  *[]string `json:"education_ids,omitempty"`

	ExperienceOverrides map[string]ExperiencePatch `json:"experience_overrides,omitempty"`
	ProjectOverrides    map[string]ProjectPatch    `json:"project_overrides,omitempty"`
	SkillOverrides      map[string]SkillPatch      `json:"skill_overrides,omitempty"`
	EducationOverrides  map[string]EducationPatch  `json:"education_overrides,omitempty"`

	Template     *Template   `json:"template,omitempty"`
	SectionOrder *[]string   `json:"section_order,omitempty"`
	Formatting   *Formatting `json:"formatting,omitempty"`

	// KeyInsights is only populated by the external collaborator.
	KeyInsights []string `json:"key_insights,omitempty"`
}

func cloneStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneStringsPtr(s *[]string) *[]string {
	if s == nil {
		return nil
	}
	v := cloneStrings(*s)
	return &v
}
