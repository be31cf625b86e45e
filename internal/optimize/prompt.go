package optimize

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/resolve"
	"github.com/jonathan/resume-builder/internal/types"
)

// buildPrompt renders the profile's current resolved content and the job text
// into a JSON-mode instruction. Items are labeled with their ids so the reply
// can key overrides without guessing.
func buildPrompt(profile types.Profile, data types.DataBundle, jobText string, opts Options) string {
	var sb strings.Builder

	sb.WriteString(`You are an expert resume editor. Tailor the resume content below to the job posting.
COPY FACTS, REWRITE PHRASING: never invent experience, employers, dates, or skills that are not in the resume.
Rewrite bullets to lead with impact and mirror the posting's terminology where the underlying work genuinely matches.`)
	sb.WriteString("\n\n")

	if opts.Emphasis != "" {
		sb.WriteString("Additional instruction: ")
		sb.WriteString(opts.Emphasis)
		sb.WriteString("\n\n")
	}

	sb.WriteString(`Return ONLY valid JSON matching this exact structure:
{
  "summary": "string",                          // rewritten professional summary, empty to leave unchanged
  "key_insights": ["string"],                   // 3-5 short notes on what the posting values
  "experience_bullets": {"<id>": ["string"]},   // full replacement bullet list per experience id
  "project_bullets": {"<id>": ["string"]}       // full replacement bullet list per project id
}

IMPORTANT:
- Use ONLY the ids shown in the resume content below.
- A listed id replaces that item's bullets wholesale; omit ids you would leave unchanged.
- Return ONLY the JSON object, no markdown, no explanation, no code blocks.

`)

	sb.WriteString("Resume content:\n")
	pi := resolve.PersonalInfo(&profile, &data)
	if pi.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", pi.Summary)
	}
	for _, item := range resolve.Experiences(&profile, &data) {
		fmt.Fprintf(&sb, "\nExperience [id=%s] %s at %s\n", item.ID, item.Title, item.Company)
		for _, b := range item.Bullets {
			fmt.Fprintf(&sb, "- %s\n", b)
		}
	}
	for _, item := range resolve.Projects(&profile, &data) {
		fmt.Fprintf(&sb, "\nProject [id=%s] %s\n", item.ID, item.Name)
		if item.Description != "" {
			fmt.Fprintf(&sb, "%s\n", item.Description)
		}
		for _, b := range item.Bullets {
			fmt.Fprintf(&sb, "- %s\n", b)
		}
	}
	if skills := resolve.Skills(&profile, &data); len(skills) > 0 {
		names := make([]string, len(skills))
		for i, s := range skills {
			names[i] = s.Name
		}
		fmt.Fprintf(&sb, "\nSkills: %s\n", strings.Join(names, ", "))
	}

	sb.WriteString("\nJob posting:\n\"\"\"\n")
	sb.WriteString(jobText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}
