package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/errors"
	exectest "github.com/mfenwick/vigil/internal/exec/testing"
	"github.com/mfenwick/vigil/internal/privilege"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootFlags restores the package-level flag state after a test
// mutates it.
func resetRootFlags(t *testing.T) {
	t.Helper()
	oldConfig, oldSafe := configFlag, safeFlag
	oldRefresh, oldHistory := refreshFlag, historyFlag
	oldDocker, oldGPU := noDockerFlag, noGPUFlag
	oldNetwork, oldShow := noNetworkFlag, showSystemFlag
	t.Cleanup(func() {
		configFlag, safeFlag = oldConfig, oldSafe
		refreshFlag, historyFlag = oldRefresh, oldHistory
		noDockerFlag, noGPUFlag = oldDocker, oldGPU
		noNetworkFlag, showSystemFlag = oldNetwork, oldShow
	})
}

func TestRootCommand_FlagRegistration(t *testing.T) {
	persistent := []string{"config", "safe"}
	for _, name := range persistent {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "persistent flag %q", name)
	}

	local := []string{"refresh", "history", "no-docker", "no-gpu", "no-network", "show-system"}
	for _, name := range local {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag %q", name)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range rootCmd.Commands() {
		names[sub.Name()] = true
	}

	for _, want := range []string{"doctor", "services", "logs", "snapshot", "init", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestApplyRootFlags_NoFlags(t *testing.T) {
	resetRootFlags(t)

	cfg := config.DefaultConfig()
	notes, err := applyRootFlags(cfg)
	require.NoError(t, err)

	assert.Empty(t, notes)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestApplyRootFlags_Overrides(t *testing.T) {
	resetRootFlags(t)

	safeFlag = true
	refreshFlag = "2s"
	historyFlag = 120
	noDockerFlag = true
	noGPUFlag = true
	noNetworkFlag = true
	showSystemFlag = true

	cfg := config.DefaultConfig()
	notes, err := applyRootFlags(cfg)
	require.NoError(t, err)
	assert.Empty(t, notes)

	assert.True(t, cfg.SafeMode)
	assert.Equal(t, 2000, cfg.RefreshMS)
	assert.Equal(t, 120, cfg.History)
	assert.False(t, cfg.Docker)
	assert.False(t, cfg.GPU)
	assert.False(t, cfg.Network)
	assert.True(t, cfg.ShowSystemProcesses)
}

func TestApplyRootFlags_ClampsRefresh(t *testing.T) {
	resetRootFlags(t)

	refreshFlag = "50ms"

	cfg := config.DefaultConfig()
	notes, err := applyRootFlags(cfg)
	require.NoError(t, err)

	assert.Equal(t, config.MinRefreshMS, cfg.RefreshMS)
	assert.NotEmpty(t, notes)
}

func TestApplyRootFlags_InvalidRefresh(t *testing.T) {
	resetRootFlags(t)

	refreshFlag = "fast"

	_, err := applyRootFlags(config.DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	resetRootFlags(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "vigil.yaml")
	require.NoError(t, os.WriteFile(path, []byte("refresh_ms: 2000\nhistory: 90\n"), 0644))

	configFlag = path

	cfg, gotPath, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, path, gotPath)
	assert.Equal(t, 2000, cfg.RefreshMS)
	assert.Equal(t, 90, cfg.History)
}

func TestLoadConfig_MissingExplicitPath(t *testing.T) {
	resetRootFlags(t)

	configFlag = filepath.Join(t.TempDir(), "absent.yaml")

	_, _, err := loadConfig()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestDetectGate_SafeFlagWins(t *testing.T) {
	resetRootFlags(t)

	safeFlag = true

	gate := detectGate(context.Background(), exectest.NewFakeRunner(), config.DefaultConfig())
	assert.Equal(t, privilege.Safe, gate.Capability)
}

func TestDetectGate_ConfigSafeMode(t *testing.T) {
	resetRootFlags(t)

	cfg := config.DefaultConfig()
	cfg.SafeMode = true

	gate := detectGate(context.Background(), exectest.NewFakeRunner(), cfg)
	assert.Equal(t, privilege.Safe, gate.Capability)
}

func TestDetectGate_FullWhenProbeSucceeds(t *testing.T) {
	resetRootFlags(t)

	// Root detection short-circuits the probe; otherwise the fake runner
	// answers `sudo -n true` with exit zero. Both paths land on Full.
	gate := detectGate(context.Background(), exectest.NewFakeRunner(), config.DefaultConfig())
	assert.Equal(t, privilege.Full, gate.Capability)
}
