package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func strPtr(s string) *string { return &s }

func strsPtr(s ...string) *[]string { return &s }

func testBundle() *types.DataBundle {
	return &types.DataBundle{
		PersonalInfo: types.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Experiences: []types.Experience{
			{ID: "e1", Title: "Engineer", Company: "Acme", Bullets: []string{"Did X"}},
			{ID: "e2", Title: "Senior Engineer", Company: "Globex", Bullets: []string{"Led Y", "Shipped Z"}},
		},
		Projects: []types.Project{
			{ID: "p1", Name: "Compiler", Description: "A compiler", Bullets: []string{"Wrote parser"}},
		},
		Skills: []types.Skill{
			{ID: "s1", Name: "Go", Category: "programming"},
			{ID: "s2", Name: "Postgres", Category: "database"},
		},
		Education: []types.Education{
			{ID: "ed1", School: "MIT", Degree: "BS", Field: "CS"},
		},
	}
}

func TestExperienceItem_AppliesOverride(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:            "prof1",
		ExperienceIDs: []string{"e1"},
		ExperienceOverrides: map[string]types.ExperiencePatch{
			"e1": {Bullets: strsPtr("Did Y")},
		},
	}

	got := ExperienceItem("e1", profile, data)
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, "Engineer", got.Title, "non-overridden fields fall through to base")
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, []string{"Did Y"}, got.Bullets, "array overrides replace wholesale")
}

func TestExperienceItem_MissingID(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{ID: "prof1"}

	assert.Nil(t, ExperienceItem("nope", profile, data))
}

func TestExperienceItem_DoesNotMutateMaster(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:            "prof1",
		ExperienceIDs: []string{"e1"},
		ExperienceOverrides: map[string]types.ExperiencePatch{
			"e1": {Title: strPtr("Hacker")},
		},
	}

	got := ExperienceItem("e1", profile, data)
	require.NotNil(t, got)
	got.Bullets[0] = "mutated"

	assert.Equal(t, "Engineer", data.Experiences[0].Title)
	assert.Equal(t, "Did X", data.Experiences[0].Bullets[0], "resolved items must not alias master slices")
}

func TestExperiences_PreservesProfileOrder(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:            "prof1",
		ExperienceIDs: []string{"e2", "e1"},
	}

	got := Experiences(profile, data)
	require.Len(t, got, 2)
	assert.Equal(t, "e2", got[0].ID)
	assert.Equal(t, "e1", got[1].ID)
}

func TestExperiences_DropsDanglingIDs(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:            "prof1",
		ExperienceIDs: []string{"e1", "deleted", "e2"},
	}

	got := Experiences(profile, data)
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
	assert.Equal(t, []string{"e1", "deleted", "e2"}, profile.ExperienceIDs,
		"resolution never repairs the profile's id list")
}

func TestExperiences_AllDangling(t *testing.T) {
	profile := &types.Profile{ID: "prof1", ExperienceIDs: []string{"e1"}}
	data := &types.DataBundle{}

	assert.Empty(t, Experiences(profile, data))
}

func TestExperiences_EmptyList(t *testing.T) {
	assert.Empty(t, Experiences(&types.Profile{ID: "prof1"}, testBundle()))
}

func TestOverrideIdempotence(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:            "prof1",
		ExperienceIDs: []string{"e1"},
		ExperienceOverrides: map[string]types.ExperiencePatch{
			"e1": {Title: strPtr("Hacker"), Bullets: strsPtr("Did Y")},
		},
	}

	first := ExperienceItem("e1", profile, data)
	second := ExperienceItem("e1", profile, data)
	assert.Equal(t, first, second)
}

func TestOverrideZeroValueWins(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:         "prof1",
		ProjectIDs: []string{"p1"},
		ProjectOverrides: map[string]types.ProjectPatch{
			"p1": {Description: strPtr("")},
		},
	}

	got := ProjectItem("p1", profile, data)
	require.NotNil(t, got)
	assert.Equal(t, "", got.Description, "a set pointer to the zero value still overrides")
	assert.Equal(t, "Compiler", got.Name)
}

func TestSkills_Override(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:       "prof1",
		SkillIDs: []string{"s2", "s1"},
		SkillOverrides: map[string]types.SkillPatch{
			"s1": {Level: strPtr("expert")},
		},
	}

	got := Skills(profile, data)
	require.Len(t, got, 2)
	assert.Equal(t, "Postgres", got[0].Name)
	assert.Equal(t, "expert", got[1].Level)
	assert.Equal(t, "", data.Skills[0].Level, "master skill untouched")
}

func TestEducationList_Override(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:           "prof1",
		EducationIDs: []string{"ed1"},
		EducationOverrides: map[string]types.EducationPatch{
			"ed1": {GPA: strPtr("3.9"), Bullets: strsPtr("Dean's list")},
		},
	}

	got := EducationList(profile, data)
	require.Len(t, got, 1)
	assert.Equal(t, "3.9", got[0].GPA)
	assert.Equal(t, []string{"Dean's list"}, got[0].Bullets)
}

func TestPersonalInfo_ProfileCopyWinsWholesale(t *testing.T) {
	data := testBundle()
	profile := &types.Profile{
		ID:           "prof1",
		PersonalInfo: &types.PersonalInfo{Name: "A. Lovelace"},
	}

	got := PersonalInfo(profile, data)
	assert.Equal(t, "A. Lovelace", got.Name)
	assert.Equal(t, "", got.Email, "profile personal info is not merged field-by-field")
}

func TestPersonalInfo_FallsBackToMaster(t *testing.T) {
	data := testBundle()
	got := PersonalInfo(&types.Profile{ID: "prof1"}, data)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
}
