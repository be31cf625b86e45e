package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
)

// profileConfig is the JSON column carrying a profile's non-relational
// settings.
type profileConfig struct {
	PersonalInfo   *types.PersonalInfo   `json:"personal_info,omitempty"`
	SectionOrder   []string              `json:"section_order,omitempty"`
	Formatting     *types.Formatting     `json:"formatting,omitempty"`
	AIOptimization *types.AIOptimization `json:"ai_optimization,omitempty"`
}

// Save replaces the user's rows with the snapshot inside one transaction, so
// the pair (profiles, data) is written all-or-nothing.
func (g *Gateway) Save(ctx context.Context, snap *storage.Snapshot) error {
	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	if err := deleteUserRows(ctx, tx, g.userID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_state (user_id, saved_at) VALUES ($1, NOW())`,
		g.userID,
	); err != nil {
		return fmt.Errorf("failed to mark saved state: %w", err)
	}

	if err := g.saveBundle(ctx, tx, &snap.Data); err != nil {
		return err
	}
	for i := range snap.Profiles {
		if err := g.saveProfile(ctx, tx, &snap.Profiles[i], i); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (g *Gateway) saveBundle(ctx context.Context, tx pgx.Tx, data *types.DataBundle) error {
	pi := data.PersonalInfo
	if _, err := tx.Exec(ctx,
		`INSERT INTO personal_info (user_id, name, email, phone, location, website, linkedin, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.userID, pi.Name, pi.Email, pi.Phone, pi.Location, pi.Website, pi.LinkedIn, pi.Summary,
	); err != nil {
		return fmt.Errorf("failed to save personal info: %w", err)
	}

	for i, e := range data.Experiences {
		if _, err := tx.Exec(ctx,
			`INSERT INTO experiences (user_id, id, title, company, location, start_date, end_date, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			g.userID, e.ID, e.Title, e.Company, e.Location, e.StartDate, e.EndDate, i,
		); err != nil {
			return fmt.Errorf("failed to save experience %s: %w", e.ID, err)
		}
		if err := g.saveSubRows(ctx, tx, itemTypeExperience, e.ID, e.Bullets, e.Tags); err != nil {
			return err
		}
	}

	for i, p := range data.Projects {
		if _, err := tx.Exec(ctx,
			`INSERT INTO projects (user_id, id, name, description, url, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			g.userID, p.ID, p.Name, p.Description, p.URL, i,
		); err != nil {
			return fmt.Errorf("failed to save project %s: %w", p.ID, err)
		}
		if err := g.saveSubRows(ctx, tx, itemTypeProject, p.ID, p.Bullets, p.Tags); err != nil {
			return err
		}
	}

	for i, s := range data.Skills {
		if _, err := tx.Exec(ctx,
			`INSERT INTO skills (user_id, id, name, category, level, position)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			g.userID, s.ID, s.Name, s.Category, s.Level, i,
		); err != nil {
			return fmt.Errorf("failed to save skill %s: %w", s.ID, err)
		}
	}

	for i, e := range data.Education {
		if _, err := tx.Exec(ctx,
			`INSERT INTO education (user_id, id, school, degree, field, start_date, end_date, gpa, position)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			g.userID, e.ID, e.School, e.Degree, e.Field, e.StartDate, e.EndDate, e.GPA, i,
		); err != nil {
			return fmt.Errorf("failed to save education %s: %w", e.ID, err)
		}
		if err := g.saveSubRows(ctx, tx, itemTypeEducation, e.ID, e.Bullets, nil); err != nil {
			return err
		}
	}

	return nil
}

func (g *Gateway) saveSubRows(ctx context.Context, tx pgx.Tx, itemType, itemID string, bullets, tags []string) error {
	for i, text := range bullets {
		if _, err := tx.Exec(ctx,
			`INSERT INTO item_bullets (user_id, item_type, item_id, position, text)
			 VALUES ($1, $2, $3, $4, $5)`,
			g.userID, itemType, itemID, i, text,
		); err != nil {
			return fmt.Errorf("failed to save bullet for %s %s: %w", itemType, itemID, err)
		}
	}
	for i, tag := range tags {
		if _, err := tx.Exec(ctx,
			`INSERT INTO item_tags (user_id, item_type, item_id, position, tag)
			 VALUES ($1, $2, $3, $4, $5)`,
			g.userID, itemType, itemID, i, tag,
		); err != nil {
			return fmt.Errorf("failed to save tag for %s %s: %w", itemType, itemID, err)
		}
	}
	return nil
}

func (g *Gateway) saveProfile(ctx context.Context, tx pgx.Tx, p *types.Profile, position int) error {
	cfg := profileConfig{
		PersonalInfo:   p.PersonalInfo,
		SectionOrder:   p.SectionOrder,
		Formatting:     p.Formatting,
		AIOptimization: p.AIOptimization,
	}
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize profile config: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (user_id, id, name, template, config, position, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		g.userID, p.ID, p.Name, string(p.Template), cfgJSON, position, p.CreatedAt, p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}

	expOverrides, err := marshalPatches(p.ExperienceOverrides)
	if err != nil {
		return fmt.Errorf("failed to serialize experience overrides for profile %s: %w", p.ID, err)
	}
	projOverrides, err := marshalPatches(p.ProjectOverrides)
	if err != nil {
		return fmt.Errorf("failed to serialize project overrides for profile %s: %w", p.ID, err)
	}
	skillOverrides, err := marshalPatches(p.SkillOverrides)
	if err != nil {
		return fmt.Errorf("failed to serialize skill overrides for profile %s: %w", p.ID, err)
	}
	eduOverrides, err := marshalPatches(p.EducationOverrides)
	if err != nil {
		return fmt.Errorf("failed to serialize education overrides for profile %s: %w", p.ID, err)
	}

	if err := g.saveProfileItems(ctx, tx, p.ID, itemTypeExperience, p.ExperienceIDs, expOverrides); err != nil {
		return err
	}
	if err := g.saveProfileItems(ctx, tx, p.ID, itemTypeProject, p.ProjectIDs, projOverrides); err != nil {
		return err
	}
	if err := g.saveProfileItems(ctx, tx, p.ID, itemTypeSkill, p.SkillIDs, skillOverrides); err != nil {
		return err
	}
	if err := g.saveProfileItems(ctx, tx, p.ID, itemTypeEducation, p.EducationIDs, eduOverrides); err != nil {
		return err
	}
	return nil
}

func (g *Gateway) saveProfileItems(ctx context.Context, tx pgx.Tx, profileID, itemType string, ids []string, overrides map[string][]byte) error {
	for _, item := range planProfileItems(ids, overrides) {
		if err := g.insertProfileItem(ctx, tx, profileID, itemType, item.itemID, item.position, item.override); err != nil {
			return err
		}
	}
	return nil
}

// plannedProfileItem is one join row to write for a profile's category.
type plannedProfileItem struct {
	itemID   string
	position int
	override []byte
}

// planProfileItems flattens one category's id list plus its override map into
// join rows: one row per list membership carrying the override patch when
// present. The join table holds at most one row per (profile, type, item), so
// a duplicate id keeps its first position only. Overrides for ids no longer in
// the list are inert but still part of the profile, so they get position -1.
func planProfileItems(ids []string, overrides map[string][]byte) []plannedProfileItem {
	out := make([]plannedProfileItem, 0, len(ids)+len(overrides))
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, plannedProfileItem{itemID: id, position: i, override: overrides[id]})
	}
	inert := make([]string, 0, len(overrides))
	for id := range overrides {
		if !seen[id] {
			inert = append(inert, id)
		}
	}
	sort.Strings(inert)
	for _, id := range inert {
		out = append(out, plannedProfileItem{itemID: id, position: -1, override: overrides[id]})
	}
	return out
}

func (g *Gateway) insertProfileItem(ctx context.Context, tx pgx.Tx, profileID, itemType, itemID string, position int, override []byte) error {
	var overrideArg any
	if override != nil {
		overrideArg = override
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO profile_items (user_id, profile_id, item_type, item_id, position, override)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		g.userID, profileID, itemType, itemID, position, overrideArg,
	); err != nil {
		return fmt.Errorf("failed to save profile item %s/%s: %w", itemType, itemID, err)
	}
	return nil
}

func marshalPatches[T any](m map[string]T) (map[string][]byte, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string][]byte, len(m))
	for id, patch := range m {
		raw, err := json.Marshal(patch)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize override for %s: %w", id, err)
		}
		out[id] = raw
	}
	return out, nil
}
