package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfenwick/vigil/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1000, cfg.RefreshMS)
	assert.Equal(t, 60, cfg.History)
	assert.False(t, cfg.SafeMode)
	assert.True(t, cfg.Docker)
	assert.True(t, cfg.GPU)
	assert.True(t, cfg.Network)
	assert.False(t, cfg.ShowSystemProcesses)
	assert.Equal(t, 100, cfg.JournalLines)
	assert.Equal(t, "/etc/default/grub", cfg.GrubPath)
}

func TestRefresh(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, time.Second, cfg.Refresh())

	cfg.RefreshMS = 250
	assert.Equal(t, 250*time.Millisecond, cfg.Refresh())
}

func TestCollectorTimeout(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 500*time.Millisecond, cfg.CollectorTimeout())

	cfg.RefreshMS = 100
	assert.Equal(t, 50*time.Millisecond, cfg.CollectorTimeout())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vigil.yaml")

	content := `
refresh_ms: 2000
history: 120
safe_mode: true
docker: false
journal_lines: 500
grub_path: /boot/grub/custom
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 2000, cfg.RefreshMS)
	assert.Equal(t, 120, cfg.History)
	assert.True(t, cfg.SafeMode)
	assert.False(t, cfg.Docker)
	assert.Equal(t, 500, cfg.JournalLines)
	assert.Equal(t, "/boot/grub/custom", cfg.GrubPath)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	// A file that only sets refresh_ms must not zero out the boolean
	// defaults for keys it omits.
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vigil.yaml")

	err := os.WriteFile(configPath, []byte("refresh_ms: 500\n"), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 500, cfg.RefreshMS)
	assert.True(t, cfg.Docker)
	assert.True(t, cfg.GPU)
	assert.True(t, cfg.Network)
	assert.Equal(t, 60, cfg.History)
	assert.Equal(t, 100, cfg.JournalLines)
}

func TestLoadClampsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vigil.yaml")

	content := `
refresh_ms: 50
history: 9999
journal_lines: 1
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, MinRefreshMS, cfg.RefreshMS)
	assert.Equal(t, MaxHistory, cfg.History)
	assert.Equal(t, MinJournalLines, cfg.JournalLines)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/.vigil.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vigil.yaml")

	err := os.WriteFile(configPath, []byte("refresh_ms: [not: valid\n"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadRelativeGrubPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ".vigil.yaml")

	err := os.WriteFile(configPath, []byte("grub_path: grub.cfg\n"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
	assert.Contains(t, err.Error(), "grub_path")
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantNotes int
		check     func(*testing.T, *Config)
	}{
		{
			name:      "defaults untouched",
			mutate:    func(c *Config) {},
			wantNotes: 0,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 1000, c.RefreshMS)
			},
		},
		{
			name:      "refresh below minimum",
			mutate:    func(c *Config) { c.RefreshMS = 10 },
			wantNotes: 1,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MinRefreshMS, c.RefreshMS)
			},
		},
		{
			name:      "refresh above maximum",
			mutate:    func(c *Config) { c.RefreshMS = 60000 },
			wantNotes: 1,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MaxRefreshMS, c.RefreshMS)
			},
		},
		{
			name:      "history below minimum",
			mutate:    func(c *Config) { c.History = 1 },
			wantNotes: 1,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MinHistory, c.History)
			},
		},
		{
			name:      "journal lines above maximum",
			mutate:    func(c *Config) { c.JournalLines = 100000 },
			wantNotes: 1,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MaxJournalLines, c.JournalLines)
			},
		},
		{
			name:      "empty grub path restored",
			mutate:    func(c *Config) { c.GrubPath = "" },
			wantNotes: 1,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultGrubPath, c.GrubPath)
			},
		},
		{
			name: "multiple adjustments",
			mutate: func(c *Config) {
				c.RefreshMS = 0
				c.History = 0
				c.JournalLines = 0
			},
			wantNotes: 3,
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, MinRefreshMS, c.RefreshMS)
				assert.Equal(t, MinHistory, c.History)
				assert.Equal(t, MinJournalLines, c.JournalLines)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			notes := cfg.Normalize()
			assert.Len(t, notes, tt.wantNotes)
			tt.check(t, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.GrubPath = "relative/grub"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicit(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "custom.yaml")
	err := os.WriteFile(configPath, []byte("refresh_ms: 1000\n"), 0644)
	require.NoError(t, err)

	found, err := Find(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestFindExplicitMissing(t *testing.T) {
	_, err := Find("/nonexistent/custom.yaml")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	err := os.WriteFile(configPath, []byte("refresh_ms: 1000\n"), 0644)
	require.NoError(t, err)

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(dir)
	require.NoError(t, err)
	defer os.Chdir(oldWd)

	found, err := Find("")
	require.NoError(t, err)

	// TempDir may sit behind a symlink, compare resolved paths
	wantResolved, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestFindParentDirectory(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	err := os.WriteFile(configPath, []byte("refresh_ms: 1000\n"), 0644)
	require.NoError(t, err)

	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(nested)
	require.NoError(t, err)
	defer os.Chdir(oldWd)

	found, err := Find("")
	require.NoError(t, err)

	wantResolved, err := filepath.EvalSymlinks(configPath)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, wantResolved, gotResolved)
}

func TestFindStopsAtGitRoot(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)
	err := os.WriteFile(configPath, []byte("refresh_ms: 1000\n"), 0644)
	require.NoError(t, err)

	// Git root between the config and the working directory
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0755))
	nested := filepath.Join(repo, "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(nested)
	require.NoError(t, err)
	defer os.Chdir(oldWd)

	found, err := Find("")
	require.NoError(t, err)

	if found != "" {
		gotResolved, err := filepath.EvalSymlinks(found)
		require.NoError(t, err)
		wantResolved, _ := filepath.EvalSymlinks(configPath)
		assert.NotEqual(t, wantResolved, gotResolved,
			"search must not cross a git root")
	}
}

func TestLoadOrDefaultWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0755))

	oldWd, err := os.Getwd()
	require.NoError(t, err)
	err = os.Chdir(dir)
	require.NoError(t, err)
	defer os.Chdir(oldWd)

	// Keep the walk from escaping into the real home directory
	t.Setenv("HOME", dir)

	cfg, err := LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.RefreshMS)
	assert.Equal(t, 60, cfg.History)
}
