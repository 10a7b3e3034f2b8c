package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigFileCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit path missing", func(t *testing.T) {
		check := &ConfigFileCheck{ConfigPath: filepath.Join(t.TempDir(), "nonexistent.yaml")}
		result := check.Run(ctx)

		if result.Status != StatusFail {
			t.Errorf("expected StatusFail, got %v", result.Status)
		}
	})

	t.Run("config found", func(t *testing.T) {
		cfgPath := writeConfigFile(t, ".vigil.yaml", "refresh_ms: 2000\n")

		check := &ConfigFileCheck{ConfigPath: cfgPath}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, ".vigil.yaml") {
			t.Errorf("expected file name in message, got %s", result.Message)
		}
	})

	t.Run("name and category", func(t *testing.T) {
		check := &ConfigFileCheck{}
		if check.Name() != "config_file" {
			t.Errorf("expected name 'config_file', got %s", check.Name())
		}
		if check.Category() != "CONFIG" {
			t.Errorf("expected category 'CONFIG', got %s", check.Category())
		}
	})
}

func TestConfigParseCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("valid config", func(t *testing.T) {
		cfgPath := writeConfigFile(t, ".vigil.yaml", "refresh_ms: 2000\nhistory: 120\n")

		check := &ConfigParseCheck{ConfigPath: cfgPath}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "refresh 2000ms") {
			t.Errorf("unexpected message: %s", result.Message)
		}
	})

	t.Run("broken yaml", func(t *testing.T) {
		cfgPath := writeConfigFile(t, ".vigil.yaml", "refresh_ms: [oops\n")

		check := &ConfigParseCheck{ConfigPath: cfgPath}
		result := check.Run(ctx)

		if result.Status != StatusFail {
			t.Errorf("expected StatusFail, got %v", result.Status)
		}
	})

	t.Run("clamped values warn", func(t *testing.T) {
		cfgPath := writeConfigFile(t, ".vigil.yaml", "refresh_ms: 50\n")

		check := &ConfigParseCheck{ConfigPath: cfgPath}
		result := check.Run(ctx)

		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v: %s", result.Status, result.Message)
		}
		if !strings.Contains(result.Message, "refresh_ms 50 clamped to 100") {
			t.Errorf("expected clamp note, got %s", result.Message)
		}
	})
}

func TestGrubFileCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("readable", func(t *testing.T) {
		path := writeConfigFile(t, "grub", "GRUB_TIMEOUT=5\n")

		check := &GrubFileCheck{Path: path}
		result := check.Run(ctx)

		if result.Status != StatusPass {
			t.Errorf("expected StatusPass, got %v: %s", result.Status, result.Message)
		}
	})

	t.Run("missing file warns", func(t *testing.T) {
		check := &GrubFileCheck{Path: filepath.Join(t.TempDir(), "grub")}
		result := check.Run(ctx)

		if result.Status != StatusWarn {
			t.Errorf("expected StatusWarn, got %v", result.Status)
		}
		if !strings.Contains(result.Message, "boot config tab disabled") {
			t.Errorf("unexpected message: %s", result.Message)
		}
	})
}
