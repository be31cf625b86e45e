package optimize

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/resolve"
	"github.com/jonathan/resume-builder/internal/types"
)

// reply is the JSON shape the model is instructed to return.
type reply struct {
	Summary           string              `json:"summary"`
	KeyInsights       []string            `json:"key_insights"`
	ExperienceBullets map[string][]string `json:"experience_bullets"`
	ProjectBullets    map[string][]string `json:"project_bullets"`
}

// parseReply converts a model reply into a profile patch. Ids that do not
// exist in the bundle are dropped; models occasionally hallucinate keys and a
// hallucinated override must never reach a profile.
func parseReply(raw string, profile types.Profile, data types.DataBundle) (*types.ProfilePatch, error) {
	var r reply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("failed to parse optimization reply: %w", err)
	}

	patch := &types.ProfilePatch{
		KeyInsights: r.KeyInsights,
	}

	if s := strings.TrimSpace(r.Summary); s != "" {
		// A profile-scoped personal info copy replaces the master one
		// wholesale, so the patch must carry the effective contact fields
		// with only the summary swapped.
		pi := resolve.PersonalInfo(&profile, &data)
		pi.Summary = s
		patch.PersonalInfo = &pi
	}

	for id, bullets := range r.ExperienceBullets {
		if !hasExperience(data, id) || len(bullets) == 0 {
			continue
		}
		if patch.ExperienceOverrides == nil {
			patch.ExperienceOverrides = map[string]types.ExperiencePatch{}
		}
		b := append([]string(nil), bullets...)
		patch.ExperienceOverrides[id] = types.ExperiencePatch{Bullets: &b}
	}
	for id, bullets := range r.ProjectBullets {
		if !hasProject(data, id) || len(bullets) == 0 {
			continue
		}
		if patch.ProjectOverrides == nil {
			patch.ProjectOverrides = map[string]types.ProjectPatch{}
		}
		b := append([]string(nil), bullets...)
		patch.ProjectOverrides[id] = types.ProjectPatch{Bullets: &b}
	}

	return patch, nil
}

func hasExperience(data types.DataBundle, id string) bool {
	for _, e := range data.Experiences {
		if e.ID == id {
			return true
		}
	}
	return false
}

func hasProject(data types.DataBundle, id string) bool {
	for _, p := range data.Projects {
		if p.ID == id {
			return true
		}
	}
	return false
}

// CleanJSONBlock removes markdown code block wrappers from JSON responses.
// Models often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip a language identifier on the first line if present.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
