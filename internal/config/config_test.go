package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"port": 9090,
		"backend": "database",
		"database_url": "postgres://localhost/resume",
		"gemini_model": "gemini-2.0-flash"
	}`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, BackendDatabase, cfg.Backend)
	assert.Equal(t, "postgres://localhost/resume", cfg.DatabaseURL)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("PORT", "3000")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("JWT_SECRET", "secret")

	cfg := FromEnv()
	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "key", cfg.GeminiAPIKey)
	assert.Equal(t, "secret", cfg.JWTSecret)
}

func TestFromEnv_BadPortIgnored(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	cfg := FromEnv()
	assert.Zero(t, cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty is valid", Config{}, false},
		{"local backend", Config{Backend: BackendLocal}, false},
		{"memory backend", Config{Backend: BackendMemory}, false},
		{"database with url", Config{Backend: BackendDatabase, DatabaseURL: "postgres://x"}, false},
		{"database without url", Config{Backend: BackendDatabase}, true},
		{"unknown backend", Config{Backend: "s3"}, true},
		{"port out of range", Config{Port: 70000}, true},
		{"negative port", Config{Port: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{Backend: BackendDatabase, DatabaseURL: "postgres://x"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, BackendDatabase, merged.Backend, "set fields win")
	assert.Equal(t, "postgres://x", merged.DatabaseURL)
	assert.Equal(t, 8080, merged.Port, "unset fields fall back")
	assert.NotEmpty(t, merged.LocalDBPath)
}

func TestMergeWithDefaults_LayeredTwice(t *testing.T) {
	file := Config{Port: 9090}
	env := Config{Backend: BackendMemory, Port: 3000}

	// File over env over defaults, matching the CLI's layering.
	merged := file.MergeWithDefaults(env).MergeWithDefaults(Defaults())
	assert.Equal(t, 9090, merged.Port, "file wins over env")
	assert.Equal(t, BackendMemory, merged.Backend, "env fills fields the file leaves unset")
	assert.NotEmpty(t, merged.LocalDBPath, "defaults fill the rest")
}
