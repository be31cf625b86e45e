// Package types provides type definitions for the resume builder's master
// data, profiles, and partial override patches.
package types

// Category identifies one of the four master data collections.
type Category string

// Category constants
const (
	CategoryExperience Category = "experience"
	CategoryProject    Category = "project"
	CategorySkill      Category = "skill"
	CategoryEducation  Category = "education"
)

// Categories lists all item categories in canonical section order.
func Categories() []Category {
	return []Category{CategoryExperience, CategoryProject, CategorySkill, CategoryEducation}
}

// ValidCategory checks whether a string names a known category.
func ValidCategory(s string) bool {
	switch Category(s) {
	case CategoryExperience, CategoryProject, CategorySkill, CategoryEducation:
		return true
	default:
		return false
	}
}

// Experience represents a work experience entry in master data.
type Experience struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Company   string   `json:"company"`
	Location  string   `json:"location,omitempty"`
	StartDate string   `json:"start_date,omitempty"` // YYYY-MM
	EndDate   string   `json:"end_date,omitempty"`   // YYYY-MM or "present"
	Bullets   []string `json:"bullets,omitempty"`
	Tags      []string `json:"tags,omitempty"`
}

// Project represents a project entry in master data.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Bullets     []string `json:"bullets,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Skill represents a skill entry in master data.
type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Level    string `json:"level,omitempty"`
}

// Education represents an education entry in master data.
type Education struct {
	ID        string   `json:"id"`
	School    string   `json:"school"`
	Degree    string   `json:"degree,omitempty"`
	Field     string   `json:"field,omitempty"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	GPA       string   `json:"gpa,omitempty"`
	Bullets   []string `json:"bullets,omitempty"`
}

// PersonalInfo is the contact header shared by all profiles unless a profile
// carries its own copy.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// DataBundle is the full master data snapshot persisted as one unit.
type DataBundle struct {
	PersonalInfo PersonalInfo `json:"personal_info"`
	Experiences  []Experience `json:"experiences"`
	Projects     []Project    `json:"projects"`
	Skills       []Skill      `json:"skills"`
	Education    []Education  `json:"education"`
}

// Clone returns a deep copy of the bundle.
func (d DataBundle) Clone() DataBundle {
	out := DataBundle{
		PersonalInfo: d.PersonalInfo,
		Experiences:  make([]Experience, len(d.Experiences)),
		Projects:     make([]Project, len(d.Projects)),
		Skills:       make([]Skill, len(d.Skills)),
		Education:    make([]Education, len(d.Education)),
	}
	for i, e := range d.Experiences {
		out.Experiences[i] = e.Clone()
	}
	for i, p := range d.Projects {
		out.Projects[i] = p.Clone()
	}
	copy(out.Skills, d.Skills)
	for i, e := range d.Education {
		out.Education[i] = e.Clone()
	}
	return out
}

// Clone returns a deep copy of the experience.
func (e Experience) Clone() Experience {
	out := e
	out.Bullets = cloneStrings(e.Bullets)
	out.Tags = cloneStrings(e.Tags)
	return out
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	out := p
	out.Bullets = cloneStrings(p.Bullets)
	out.Tags = cloneStrings(p.Tags)
	return out
}

// Clone returns a deep copy of the education entry.
func (e Education) Clone() Education {
	out := e
	out.Bullets = cloneStrings(e.Bullets)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
