package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sferrors "git.home.luguber.info/inful/siteforge/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "siteforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
units:
  - name: creators
  - name: lists
    after: [creators]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hugo", cfg.Generator.Command)
	assert.Equal(t, ".", cfg.Workspace)
	assert.Equal(t, "data/measures.yaml", cfg.Root.Measures)
	assert.Equal(t, "content/features", cfg.Features.Output)
	assert.Equal(t, "public", cfg.Serve.SiteDir)
	assert.Equal(t, 8080, cfg.Serve.Port)
	// Unit dir defaults to the unit name.
	assert.Equal(t, "creators", cfg.Units[0].Dir)
	assert.Equal(t, "lists", cfg.Units[1].Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, sferrors.CategoryConfig, sferrors.CategoryOf(err))
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("SITEFORGE_TEST_TITLE", "Expanded")
	path := writeConfig(t, `
site:
  title: ${SITEFORGE_TEST_TITLE}
units:
  - name: creators
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Expanded", cfg.Site.Title)
}

func TestValidateOrderingInvariants(t *testing.T) {
	tests := []struct {
		name    string
		units   []Unit
		wantErr string
	}{
		{
			name:  "dependency satisfied by declared order",
			units: []Unit{{Name: "creators"}, {Name: "lists", After: []string{"creators"}}},
		},
		{
			name:    "dependency declared after dependent",
			units:   []Unit{{Name: "lists", After: []string{"creators"}}, {Name: "creators"}},
			wantErr: `unit "lists" must be declared after "creators"`,
		},
		{
			name:    "unknown dependency",
			units:   []Unit{{Name: "lists", After: []string{"creators"}}},
			wantErr: `unit "lists" depends on unknown unit "creators"`,
		},
		{
			name:    "duplicate unit names",
			units:   []Unit{{Name: "creators"}, {Name: "creators"}},
			wantErr: `duplicate unit name "creators"`,
		},
		{
			name:    "no units",
			wantErr: "at least one build unit must be declared",
		},
		{
			name:    "self dependency",
			units:   []Unit{{Name: "lists", After: []string{"lists"}}},
			wantErr: `unit "lists" must be declared after "lists"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Units: tt.units}
			cfg.applyDefaults()
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, sferrors.CategoryValidation, sferrors.CategoryOf(err))
		})
	}
}

func TestRebuildInterval(t *testing.T) {
	cfg := &Config{Units: []Unit{{Name: "creators"}}}
	cfg.applyDefaults()
	assert.Zero(t, cfg.RebuildInterval())

	cfg.Serve.RebuildEvery = "90m"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "1h30m0s", cfg.RebuildInterval().String())

	cfg.Serve.RebuildEvery = "not-a-duration"
	assert.Error(t, cfg.Validate())
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siteforge.yaml")
	require.NoError(t, Init(path, false))

	// Starter config must load cleanly.
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Units, 2)
	assert.Equal(t, []string{"creators"}, cfg.Units[1].After)

	// Second init without force refuses to overwrite.
	assert.Error(t, Init(path, false))
	assert.NoError(t, Init(path, true))
}
