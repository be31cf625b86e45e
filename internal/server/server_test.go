package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/optimize"
	"github.com/jonathan/resume-builder/internal/storage"
	"github.com/jonathan/resume-builder/internal/storage/memory"
	"github.com/jonathan/resume-builder/internal/types"
)

// memoryFactory hands out one in-memory gateway per (backend, user) pair so
// tests can inspect what each user's backend ended up holding.
type memoryFactory struct {
	mu       sync.Mutex
	gateways map[string]*memory.Gateway
}

func newMemoryFactory() *memoryFactory {
	return &memoryFactory{gateways: make(map[string]*memory.Gateway)}
}

func (f *memoryFactory) factory(_ context.Context, backend, userID string) (storage.Gateway, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := backend + "/" + userID
	if gw, ok := f.gateways[key]; ok {
		return gw, nil
	}
	gw := memory.New()
	f.gateways[key] = gw
	return gw, nil
}

// stubCollaborator returns a canned patch without any network traffic.
type stubCollaborator struct {
	patch *types.ProfilePatch
	err   error
}

func (c *stubCollaborator) Optimize(context.Context, types.Profile, types.DataBundle, string, optimize.Options) (*types.ProfilePatch, error) {
	return c.patch, c.err
}
func (c *stubCollaborator) Model(optimize.Options) string { return "stub-model" }
func (c *stubCollaborator) Close() error                  { return nil }

func newTestServer(t *testing.T, cfg Config, collab optimize.Collaborator) *Server {
	t.Helper()
	if cfg.DefaultBackend == "" {
		cfg.DefaultBackend = "memory"
	}
	return New(cfg, newMemoryFactory().factory, collab)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), "body: %s", rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileCRUD(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	// The store seeds a default profile on first load.
	rec := doJSON(t, h, http.MethodGet, "/profiles", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	seeded := decodeBody[[]types.Profile](t, rec)
	require.Len(t, seeded, 1)

	rec = doJSON(t, h, http.MethodPost, "/profiles", types.CreateProfileRequest{Name: "Backend Roles"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[types.Profile](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Backend Roles", created.Name)

	rec = doJSON(t, h, http.MethodGet, "/profiles/"+created.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPatch, "/profiles/"+created.ID, map[string]any{"name": "Renamed"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[types.Profile](t, rec)
	assert.Equal(t, "Renamed", updated.Name)

	rec = doJSON(t, h, http.MethodPost, "/profiles/"+created.ID+"/clone", nil, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	clone := decodeBody[types.Profile](t, rec)
	assert.Equal(t, "Renamed Copy", clone.Name)

	rec = doJSON(t, h, http.MethodDelete, "/profiles/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/profiles/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateProfile_Validation(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/profiles", map[string]string{"name": ""}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/profiles", map[string]string{"name": "x", "template": "fancy"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestBody_UnknownFieldsRejected(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/profiles", map[string]any{"name": "x", "bogus": true}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/storage/migrate", map[string]any{"to": "memory", "from": "local"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMasterDataAndOverrides(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/data/experience", types.Experience{Title: "Engineer", Company: "Acme", Bullets: []string{"Did X"}}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	exp := decodeBody[types.Experience](t, rec)
	require.NotEmpty(t, exp.ID)

	rec = doJSON(t, h, http.MethodPost, "/profiles", types.CreateProfileRequest{Name: "Main"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	profile := decodeBody[types.Profile](t, rec)

	rec = doJSON(t, h, http.MethodPatch, "/profiles/"+profile.ID, map[string]any{"experience_ids": []string{exp.ID}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Override the bullets for this profile only.
	rec = doJSON(t, h, http.MethodPut, "/profiles/"+profile.ID+"/overrides/experience/"+exp.ID,
		map[string]any{"bullets": []string{"Tailored"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/profiles/"+profile.ID+"/resolved", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resolved := decodeBody[ResolvedProfile](t, rec)
	require.Len(t, resolved.Experiences, 1)
	assert.Equal(t, []string{"Tailored"}, resolved.Experiences[0].Bullets)
	assert.Equal(t, "Engineer", resolved.Experiences[0].Title, "unset fields fall through")

	// Master data is untouched.
	rec = doJSON(t, h, http.MethodGet, "/data", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody[types.DataBundle](t, rec)
	require.Len(t, data.Experiences, 1)
	assert.Equal(t, []string{"Did X"}, data.Experiences[0].Bullets)

	// Reset restores fall-through.
	rec = doJSON(t, h, http.MethodDelete, "/profiles/"+profile.ID+"/overrides/experience/"+exp.ID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/profiles/"+profile.ID+"/resolved", nil, nil)
	resolved = decodeBody[ResolvedProfile](t, rec)
	assert.Equal(t, []string{"Did X"}, resolved.Experiences[0].Bullets)

	rec = doJSON(t, h, http.MethodPut, "/profiles/"+profile.ID+"/overrides/pets/"+exp.ID, map[string]any{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReorder(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/profiles", types.CreateProfileRequest{Name: "Main"}, nil)
	profile := decodeBody[types.Profile](t, rec)
	rec = doJSON(t, h, http.MethodPatch, "/profiles/"+profile.ID, map[string]any{"skill_ids": []string{"a", "b", "c"}}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/profiles/"+profile.ID+"/reorder",
		types.ReorderRequest{Category: "skill", FromIndex: 2, ToIndex: 0}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[types.Profile](t, rec)
	assert.Equal(t, []string{"c", "a", "b"}, updated.SkillIDs)

	rec = doJSON(t, h, http.MethodPost, "/profiles/"+profile.ID+"/reorder",
		types.ReorderRequest{Category: "skill", FromIndex: 9, ToIndex: 0}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageOps(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/storage/status", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "memory", status["backend"])
	assert.Empty(t, status["last_error"])

	rec = doJSON(t, h, http.MethodPost, "/data/skill", types.Skill{Name: "Go"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/storage/backup", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	backup := decodeBody[map[string]string](t, rec)
	require.NotEmpty(t, backup["snapshot"])

	rec = doJSON(t, h, http.MethodPost, "/storage/clear", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/data", nil, nil)
	data := decodeBody[types.DataBundle](t, rec)
	assert.Empty(t, data.Skills)

	rec = doJSON(t, h, http.MethodPost, "/storage/restore", types.RestoreRequest{Snapshot: backup["snapshot"]}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, h, http.MethodGet, "/data", nil, nil)
	data = decodeBody[types.DataBundle](t, rec)
	require.Len(t, data.Skills, 1)

	rec = doJSON(t, h, http.MethodPost, "/storage/restore", types.RestoreRequest{Snapshot: "junk"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/storage/migrate", types.MigrateRequest{To: "memory"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/storage/migrate", types.MigrateRequest{To: "s3"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeProfile(t *testing.T) {
	bullets := []string{"Tailored bullet"}
	collab := &stubCollaborator{patch: &types.ProfilePatch{
		PersonalInfo: &types.PersonalInfo{Summary: "Tailored summary"},
		KeyInsights:  []string{"wants Go"},
	}}
	s := newTestServer(t, Config{}, collab)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/data/experience", types.Experience{ID: "e1", Title: "Engineer"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	collab.patch.ExperienceOverrides = map[string]types.ExperiencePatch{"e1": {Bullets: &bullets}}

	rec = doJSON(t, h, http.MethodPost, "/profiles", types.CreateProfileRequest{Name: "Main"}, nil)
	profile := decodeBody[types.Profile](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/profiles/"+profile.ID+"/optimize",
		types.OptimizeRequest{JobText: "We need a Go engineer."}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decodeBody[types.Profile](t, rec)

	require.NotNil(t, updated.AIOptimization)
	assert.Equal(t, "stub-model", updated.AIOptimization.Model)
	assert.Equal(t, []string{"wants Go"}, updated.AIOptimization.KeyInsights)
	require.NotNil(t, updated.PersonalInfo)
	assert.Equal(t, "Tailored summary", updated.PersonalInfo.Summary)
	require.Contains(t, updated.ExperienceOverrides, "e1")

	// Missing job text is rejected before the collaborator runs.
	rec = doJSON(t, h, http.MethodPost, "/profiles/"+profile.ID+"/optimize", types.OptimizeRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptimizeProfile_NotConfigured(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	rec := doJSON(t, s.Handler(), http.MethodPost, "/profiles/x/optimize",
		types.OptimizeRequest{JobText: "text"}, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestExtractPosting(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/postings/extract",
		types.ExtractPostingRequest{HTML: "<h1>Go Engineer</h1><p>Build services.</p>"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	posting := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "Go Engineer", posting["title"])
	assert.Contains(t, posting["text"], "Build services.")

	rec = doJSON(t, h, http.MethodPost, "/postings/extract", types.ExtractPostingRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserScoping_HeaderIsolatesStores(t *testing.T) {
	s := newTestServer(t, Config{}, nil)
	h := s.Handler()

	alice := map[string]string{"X-User-ID": "alice"}
	bob := map[string]string{"X-User-ID": "bob"}

	rec := doJSON(t, h, http.MethodPost, "/data/skill", types.Skill{Name: "Go"}, alice)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/data", nil, bob)
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeBody[types.DataBundle](t, rec)
	assert.Empty(t, data.Skills, "users do not share state")

	rec = doJSON(t, h, http.MethodGet, "/data", nil, alice)
	data = decodeBody[types.DataBundle](t, rec)
	assert.Len(t, data.Skills, 1)
}

func signToken(t *testing.T, secret, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestUserScoping_JWT(t *testing.T) {
	const secret = "test-secret"
	s := newTestServer(t, Config{JWTSecret: secret}, nil)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodGet, "/profiles", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "no token")

	rec = doJSON(t, h, http.MethodGet, "/profiles", nil,
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "malformed token")

	rec = doJSON(t, h, http.MethodGet, "/profiles", nil,
		map[string]string{"Authorization": "Bearer " + signToken(t, "wrong-secret", "alice")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "wrong signature")

	auth := map[string]string{"Authorization": "Bearer " + signToken(t, secret, "alice")}
	rec = doJSON(t, h, http.MethodGet, "/profiles", nil, auth)
	assert.Equal(t, http.StatusOK, rec.Code, "valid token")

	// X-User-ID cannot bypass token auth.
	rec = doJSON(t, h, http.MethodGet, "/profiles", nil, map[string]string{"X-User-ID": "alice"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{AllowedOrigin: "https://app.example.com"}, nil)
	req := httptest.NewRequest(http.MethodOptions, "/profiles", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGatewayFactoryError(t *testing.T) {
	failing := func(context.Context, string, string) (storage.Gateway, error) {
		return nil, fmt.Errorf("no such backend")
	}
	s := New(Config{DefaultBackend: "memory"}, failing, nil)
	rec := doJSON(t, s.Handler(), http.MethodGet, "/profiles", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
