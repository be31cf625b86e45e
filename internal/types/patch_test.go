package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperiencePatch_IsZero(t *testing.T) {
	assert.True(t, ExperiencePatch{}.IsZero())

	empty := ""
	assert.False(t, ExperiencePatch{Title: &empty}.IsZero(), "a pointer to a zero value is still set")

	bullets := []string{}
	assert.False(t, ExperiencePatch{Bullets: &bullets}.IsZero())
}

func TestPatchJSON_DistinguishesUnsetFromEmpty(t *testing.T) {
	var p ExperiencePatch
	require.NoError(t, json.Unmarshal([]byte(`{"title": ""}`), &p))
	require.NotNil(t, p.Title, "explicit empty string is a set field")
	assert.Empty(t, *p.Title)
	assert.Nil(t, p.Company, "absent fields stay nil")

	require.NoError(t, json.Unmarshal([]byte(`{"bullets": []}`), &p))
	require.NotNil(t, p.Bullets)
	assert.Empty(t, *p.Bullets)
}

func TestExperiencePatch_Clone(t *testing.T) {
	title := "Engineer"
	bullets := []string{"Did X"}
	p := ExperiencePatch{Title: &title, Bullets: &bullets}

	clone := p.Clone()
	*clone.Title = "Changed"
	(*clone.Bullets)[0] = "Changed"

	assert.Equal(t, "Engineer", *p.Title)
	assert.Equal(t, "Did X", (*p.Bullets)[0])
}

func TestProfile_Clone(t *testing.T) {
	bullets := []string{"Did X"}
	p := Profile{
		ID:            "p1",
		ExperienceIDs: []string{"e1"},
		ExperienceOverrides: map[string]ExperiencePatch{
			"e1": {Bullets: &bullets},
		},
		PersonalInfo: &PersonalInfo{Name: "Ada"},
		AIOptimization: &AIOptimization{
			JobHash:     "abc",
			KeyInsights: []string{"insight"},
		},
	}

	clone := p.Clone()
	clone.ExperienceIDs[0] = "mutated"
	clone.PersonalInfo.Name = "mutated"
	clone.AIOptimization.KeyInsights[0] = "mutated"
	(*clone.ExperienceOverrides["e1"].Bullets)[0] = "mutated"

	assert.Equal(t, "e1", p.ExperienceIDs[0])
	assert.Equal(t, "Ada", p.PersonalInfo.Name)
	assert.Equal(t, "insight", p.AIOptimization.KeyInsights[0])
	assert.Equal(t, "Did X", (*p.ExperienceOverrides["e1"].Bullets)[0])
}

func TestProfile_IDAccessors(t *testing.T) {
	p := Profile{SkillIDs: []string{"a", "b"}}
	assert.Equal(t, []string{"a", "b"}, p.IDs(CategorySkill))
	assert.Nil(t, p.IDs(Category("bogus")))

	p.SetIDs(CategoryEducation, []string{"x"})
	assert.Equal(t, []string{"x"}, p.EducationIDs)
}

func TestValidCategoryAndTemplate(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, ValidCategory(string(c)))
	}
	assert.False(t, ValidCategory("pets"))

	assert.True(t, ValidTemplate(TemplateClassic))
	assert.True(t, ValidTemplate(TemplateCompact))
	assert.False(t, ValidTemplate("fancy"))
}
