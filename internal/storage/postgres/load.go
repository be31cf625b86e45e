package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/types"
)

type subRowKey struct {
	itemType string
	itemID   string
}

// Load reassembles the user's rows into the in-memory snapshot shapes. The
// category queries are independent, so they fan out on the pool.
func (g *Gateway) Load(ctx context.Context) (*storage.Snapshot, error) {
	var savedAt any
	err := g.pool.QueryRow(ctx,
		`SELECT saved_at FROM user_state WHERE user_id = $1`, g.userID,
	).Scan(&savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNoSavedState
		}
		return nil, fmt.Errorf("failed to check saved state: %w", err)
	}

	snap := &storage.Snapshot{}
	var (
		mu      sync.Mutex
		bullets map[subRowKey][]string
		tags    map[subRowKey][]string
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		b, err := g.loadSubRows(egCtx, "item_bullets", "text")
		if err != nil {
			return err
		}
		t, err := g.loadSubRows(egCtx, "item_tags", "tag")
		if err != nil {
			return err
		}
		mu.Lock()
		bullets, tags = b, t
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		pi, err := g.loadPersonalInfo(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Data.PersonalInfo = pi
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		items, err := g.loadExperiences(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Data.Experiences = items
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		items, err := g.loadProjects(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Data.Projects = items
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		items, err := g.loadSkills(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Data.Skills = items
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		items, err := g.loadEducation(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Data.Education = items
		mu.Unlock()
		return nil
	})

	eg.Go(func() error {
		profiles, err := g.loadProfiles(egCtx)
		if err != nil {
			return err
		}
		mu.Lock()
		snap.Profiles = profiles
		mu.Unlock()
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Attach sub-rows after the fan-out so both sides are complete.
	for i := range snap.Data.Experiences {
		e := &snap.Data.Experiences[i]
		e.Bullets = bullets[subRowKey{itemTypeExperience, e.ID}]
		e.Tags = tags[subRowKey{itemTypeExperience, e.ID}]
	}
	for i := range snap.Data.Projects {
		p := &snap.Data.Projects[i]
		p.Bullets = bullets[subRowKey{itemTypeProject, p.ID}]
		p.Tags = tags[subRowKey{itemTypeProject, p.ID}]
	}
	for i := range snap.Data.Education {
		e := &snap.Data.Education[i]
		e.Bullets = bullets[subRowKey{itemTypeEducation, e.ID}]
	}

	return snap, nil
}

func (g *Gateway) loadPersonalInfo(ctx context.Context) (types.PersonalInfo, error) {
	var pi types.PersonalInfo
	err := g.pool.QueryRow(ctx,
		`SELECT name, email, phone, location, website, linkedin, summary
		 FROM personal_info WHERE user_id = $1`,
		g.userID,
	).Scan(&pi.Name, &pi.Email, &pi.Phone, &pi.Location, &pi.Website, &pi.LinkedIn, &pi.Summary)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.PersonalInfo{}, nil
		}
		return types.PersonalInfo{}, fmt.Errorf("failed to load personal info: %w", err)
	}
	return pi, nil
}

func (g *Gateway) loadExperiences(ctx context.Context) ([]types.Experience, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, title, company, location, start_date, end_date
		 FROM experiences WHERE user_id = $1 ORDER BY position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load experiences: %w", err)
	}
	defer rows.Close()

	items := []types.Experience{}
	for rows.Next() {
		var e types.Experience
		if err := rows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.StartDate, &e.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan experience: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (g *Gateway) loadProjects(ctx context.Context) ([]types.Project, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, name, description, url
		 FROM projects WHERE user_id = $1 ORDER BY position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	defer rows.Close()

	items := []types.Project{}
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.URL); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (g *Gateway) loadSkills(ctx context.Context) ([]types.Skill, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, name, category, level
		 FROM skills WHERE user_id = $1 ORDER BY position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	defer rows.Close()

	items := []types.Skill{}
	for rows.Next() {
		var s types.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (g *Gateway) loadEducation(ctx context.Context) ([]types.Education, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, school, degree, field, start_date, end_date, gpa
		 FROM education WHERE user_id = $1 ORDER BY position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load education: %w", err)
	}
	defer rows.Close()

	items := []types.Education{}
	for rows.Next() {
		var e types.Education
		if err := rows.Scan(&e.ID, &e.School, &e.Degree, &e.Field, &e.StartDate, &e.EndDate, &e.GPA); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (g *Gateway) loadSubRows(ctx context.Context, table, column string) (map[subRowKey][]string, error) {
	rows, err := g.pool.Query(ctx,
		fmt.Sprintf(`SELECT item_type, item_id, %s FROM %s WHERE user_id = $1 ORDER BY item_type, item_id, position`, column, table),
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	out := make(map[subRowKey][]string)
	for rows.Next() {
		var key subRowKey
		var value string
		if err := rows.Scan(&key.itemType, &key.itemID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		out[key] = append(out[key], value)
	}
	return out, rows.Err()
}

type profileItemRow struct {
	profileID string
	itemType  string
	itemID    string
	position  int
	override  []byte
}

func (g *Gateway) loadProfiles(ctx context.Context) ([]types.Profile, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT id, name, template, config, created_at, updated_at
		 FROM profiles WHERE user_id = $1 ORDER BY position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	defer rows.Close()

	profiles := []types.Profile{}
	for rows.Next() {
		var p types.Profile
		var template string
		var cfgJSON []byte
		if err := rows.Scan(&p.ID, &p.Name, &template, &cfgJSON, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.Template = types.Template(template)
		if len(cfgJSON) > 0 {
			var cfg profileConfig
			if err := json.Unmarshal(cfgJSON, &cfg); err != nil {
				return nil, fmt.Errorf("%w: bad profile config for %s: %v", storage.ErrInvalidSnapshot, p.ID, err)
			}
			p.PersonalInfo = cfg.PersonalInfo
			p.SectionOrder = cfg.SectionOrder
			p.Formatting = cfg.Formatting
			p.AIOptimization = cfg.AIOptimization
		}
		p.ExperienceIDs = []string{}
		p.ProjectIDs = []string{}
		p.SkillIDs = []string{}
		p.EducationIDs = []string{}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := g.loadProfileItems(ctx)
	if err != nil {
		return nil, err
	}
	byProfile := make(map[string][]profileItemRow)
	for _, row := range itemRows {
		byProfile[row.profileID] = append(byProfile[row.profileID], row)
	}
	for i := range profiles {
		if err := attachProfileItems(&profiles[i], byProfile[profiles[i].ID]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

func (g *Gateway) loadProfileItems(ctx context.Context) ([]profileItemRow, error) {
	rows, err := g.pool.Query(ctx,
		`SELECT profile_id, item_type, item_id, position, override
		 FROM profile_items WHERE user_id = $1 ORDER BY profile_id, item_type, position`,
		g.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile items: %w", err)
	}
	defer rows.Close()

	var out []profileItemRow
	for rows.Next() {
		var r profileItemRow
		if err := rows.Scan(&r.profileID, &r.itemType, &r.itemID, &r.position, &r.override); err != nil {
			return nil, fmt.Errorf("failed to scan profile item: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// attachProfileItems rebuilds id lists (position >= 0, in order) and override
// maps (any row with an override payload) from the polymorphic join rows.
func attachProfileItems(p *types.Profile, rows []profileItemRow) error {
	for _, r := range rows {
		if r.position >= 0 {
			p.SetIDs(categoryFor(r.itemType), append(p.IDs(categoryFor(r.itemType)), r.itemID))
		}
		if len(r.override) == 0 {
			continue
		}
		switch r.itemType {
		case itemTypeExperience:
			var patch types.ExperiencePatch
			if err := json.Unmarshal(r.override, &patch); err != nil {
				return fmt.Errorf("%w: bad override for %s: %v", storage.ErrInvalidSnapshot, r.itemID, err)
			}
			if p.ExperienceOverrides == nil {
				p.ExperienceOverrides = map[string]types.ExperiencePatch{}
			}
			p.ExperienceOverrides[r.itemID] = patch
		case itemTypeProject:
			var patch types.ProjectPatch
			if err := json.Unmarshal(r.override, &patch); err != nil {
				return fmt.Errorf("%w: bad override for %s: %v", storage.ErrInvalidSnapshot, r.itemID, err)
			}
			if p.ProjectOverrides == nil {
				p.ProjectOverrides = map[string]types.ProjectPatch{}
			}
			p.ProjectOverrides[r.itemID] = patch
		case itemTypeSkill:
			var patch types.SkillPatch
			if err := json.Unmarshal(r.override, &patch); err != nil {
				return fmt.Errorf("%w: bad override for %s: %v", storage.ErrInvalidSnapshot, r.itemID, err)
			}
			if p.SkillOverrides == nil {
				p.SkillOverrides = map[string]types.SkillPatch{}
			}
			p.SkillOverrides[r.itemID] = patch
		case itemTypeEducation:
			var patch types.EducationPatch
			if err := json.Unmarshal(r.override, &patch); err != nil {
				return fmt.Errorf("%w: bad override for %s: %v", storage.ErrInvalidSnapshot, r.itemID, err)
			}
			if p.EducationOverrides == nil {
				p.EducationOverrides = map[string]types.EducationPatch{}
			}
			p.EducationOverrides[r.itemID] = patch
		}
	}
	return nil
}

func categoryFor(itemType string) types.Category {
	switch itemType {
	case itemTypeExperience:
		return types.CategoryExperience
	case itemTypeProject:
		return types.CategoryProject
	case itemTypeSkill:
		return types.CategorySkill
	case itemTypeEducation:
		return types.CategoryEducation
	default:
		return ""
	}
}
