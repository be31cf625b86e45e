package optimize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func testBundle() types.DataBundle {
	return types.DataBundle{
		Experiences: []types.Experience{
			{ID: "e1", Title: "Engineer", Company: "Acme", Bullets: []string{"Did X"}},
		},
		Projects: []types.Project{
			{ID: "p1", Name: "CLI tool", Bullets: []string{"Built Y"}},
		},
	}
}

func TestParseReply(t *testing.T) {
	raw := `{
		"summary": "Seasoned Go engineer.",
		"key_insights": ["values distributed systems", "wants Postgres depth"],
		"experience_bullets": {"e1": ["Shipped X to 1M users"]},
		"project_bullets": {"p1": ["Built Y in Go"]}
	}`

	patch, err := parseReply(raw, types.Profile{}, testBundle())
	require.NoError(t, err)

	require.NotNil(t, patch.PersonalInfo)
	assert.Equal(t, "Seasoned Go engineer.", patch.PersonalInfo.Summary)
	assert.Len(t, patch.KeyInsights, 2)
	require.Contains(t, patch.ExperienceOverrides, "e1")
	assert.Equal(t, []string{"Shipped X to 1M users"}, *patch.ExperienceOverrides["e1"].Bullets)
	require.Contains(t, patch.ProjectOverrides, "p1")
	assert.Equal(t, []string{"Built Y in Go"}, *patch.ProjectOverrides["p1"].Bullets)
}

func TestParseReply_DropsUnknownIDs(t *testing.T) {
	raw := `{
		"experience_bullets": {"e1": ["ok"], "ghost": ["hallucinated"]},
		"project_bullets": {"phantom": ["hallucinated"]}
	}`

	patch, err := parseReply(raw, types.Profile{}, testBundle())
	require.NoError(t, err)

	assert.Contains(t, patch.ExperienceOverrides, "e1")
	assert.NotContains(t, patch.ExperienceOverrides, "ghost")
	assert.Nil(t, patch.ProjectOverrides)
}

func TestParseReply_EmptyFieldsLeaveNoTraces(t *testing.T) {
	patch, err := parseReply(`{"summary": "  ", "experience_bullets": {"e1": []}}`, types.Profile{}, testBundle())
	require.NoError(t, err)

	assert.Nil(t, patch.PersonalInfo, "blank summary means leave unchanged")
	assert.Nil(t, patch.ExperienceOverrides, "empty bullet lists are not overrides")
}

func TestParseReply_RejectsNonJSON(t *testing.T) {
	_, err := parseReply("I would suggest the following changes...", types.Profile{}, testBundle())
	assert.Error(t, err)
}

func TestParseReply_SummaryKeepsContactFields(t *testing.T) {
	data := testBundle()
	data.PersonalInfo = types.PersonalInfo{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Phone:   "555-0100",
		Summary: "Generalist.",
	}

	patch, err := parseReply(`{"summary": "Tailored summary."}`, types.Profile{ID: "prof"}, data)
	require.NoError(t, err)

	require.NotNil(t, patch.PersonalInfo)
	assert.Equal(t, "Tailored summary.", patch.PersonalInfo.Summary)
	assert.Equal(t, "Ada Lovelace", patch.PersonalInfo.Name, "a summary-only reply must not erase contact fields")
	assert.Equal(t, "ada@example.com", patch.PersonalInfo.Email)
	assert.Equal(t, "555-0100", patch.PersonalInfo.Phone)
}

func TestParseReply_SummaryBuildsOnProfileCopy(t *testing.T) {
	data := testBundle()
	data.PersonalInfo = types.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"}
	profile := types.Profile{
		ID:           "prof",
		PersonalInfo: &types.PersonalInfo{Name: "A. Lovelace", Email: "work@example.com"},
	}

	patch, err := parseReply(`{"summary": "Tailored summary."}`, profile, data)
	require.NoError(t, err)

	require.NotNil(t, patch.PersonalInfo)
	assert.Equal(t, "A. Lovelace", patch.PersonalInfo.Name, "the profile-scoped copy is the base when present")
	assert.Equal(t, "work@example.com", patch.PersonalInfo.Email)
	assert.Equal(t, "Tailored summary.", patch.PersonalInfo.Summary)
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fence with language id", "```javascript\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n{\"a\": 1}\n  ", `{"a": 1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSONBlock(tt.input))
		})
	}
}

func TestBuildPrompt_LabelsItemsWithIDs(t *testing.T) {
	data := testBundle()
	data.PersonalInfo = types.PersonalInfo{Summary: "Generalist."}
	data.Skills = []types.Skill{{ID: "s1", Name: "Go"}, {ID: "s2", Name: "Postgres"}}
	profile := types.Profile{
		ID:            "prof",
		ExperienceIDs: []string{"e1"},
		ProjectIDs:    []string{"p1"},
		SkillIDs:      []string{"s1", "s2"},
	}

	prompt := buildPrompt(profile, data, "We need a Go engineer.", Options{Emphasis: "emphasize backend work"})

	assert.Contains(t, prompt, "[id=e1]")
	assert.Contains(t, prompt, "[id=p1]")
	assert.Contains(t, prompt, "Engineer at Acme")
	assert.Contains(t, prompt, "Go, Postgres")
	assert.Contains(t, prompt, "We need a Go engineer.")
	assert.Contains(t, prompt, "emphasize backend work")
	assert.Contains(t, prompt, "Summary: Generalist.")
}

func TestBuildPrompt_OnlyProfileItems(t *testing.T) {
	data := testBundle()
	profile := types.Profile{ID: "prof"} // selects nothing

	prompt := buildPrompt(profile, data, "posting", Options{})
	assert.NotContains(t, prompt, "[id=e1]", "unselected items stay out of the prompt")
	assert.NotContains(t, prompt, "[id=p1]")
}
