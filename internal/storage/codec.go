package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/resume-builder/internal/types"
)

//go:embed snapshot_schema.json
var snapshotSchemaJSON []byte

// EncodeSnapshot normalizes and serializes a snapshot. Nil collections become
// empty ones so the stored JSON always carries the arrays the schema requires,
// and duplicate profile list ids collapse to their first position.
func EncodeSnapshot(snap *Snapshot) ([]byte, error) {
	normalized := snap.Clone()
	normalized.normalize()

	data, err := json.Marshal(normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot validates raw stored bytes against the snapshot schema and
// deserializes them. Corrupt or foreign data is rejected with
// ErrInvalidSnapshot before it can reach application state.
func DecodeSnapshot(raw []byte) (*Snapshot, error) {
	if err := validateSnapshotJSON(raw); err != nil {
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	snap.normalize()
	return &snap, nil
}

func validateSnapshotJSON(raw []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(snapshotSchemaJSON)
	docLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
	}
	return nil
}

func (s *Snapshot) normalize() {
	if s.Profiles == nil {
		s.Profiles = []types.Profile{}
	}
	if s.Data.Experiences == nil {
		s.Data.Experiences = []types.Experience{}
	}
	if s.Data.Projects == nil {
		s.Data.Projects = []types.Project{}
	}
	if s.Data.Skills == nil {
		s.Data.Skills = []types.Skill{}
	}
	if s.Data.Education == nil {
		s.Data.Education = []types.Education{}
	}
	for i := range s.Profiles {
		p := &s.Profiles[i]
		p.ExperienceIDs = dedupeIDs(p.ExperienceIDs)
		p.ProjectIDs = dedupeIDs(p.ProjectIDs)
		p.SkillIDs = dedupeIDs(p.SkillIDs)
		p.EducationIDs = dedupeIDs(p.EducationIDs)
	}
}

// dedupeIDs keeps the first occurrence of each id, in order. The relational
// backend stores at most one join row per (profile, item), so duplicates are
// collapsed at every persistence boundary to keep the backends equivalent.
func dedupeIDs(ids []string) []string {
	if len(ids) < 2 {
		return ids
	}
	seen := make(map[string]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
