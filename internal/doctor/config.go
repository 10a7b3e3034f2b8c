package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mfenwick/vigil/internal/config"
)

// ConfigFileCheck looks for a config file. Vigil runs fine on built-in
// defaults, so a missing file is only a note.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %v", err),
			Suggestion: "Check file permissions or run 'vigil init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusPass,
			Message:    "No config file, using built-in defaults",
			Suggestion: "Run 'vigil init' to create a .vigil.yaml",
			Fixable:    true,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", filepath.Base(path)),
	}
}

func (c *ConfigFileCheck) Fix() error {
	// Init is its own command; this just reports it's available
	return nil
}

// ConfigParseCheck validates the config file parses, and surfaces the clamp
// notes for values that were pulled back into range.
type ConfigParseCheck struct {
	ConfigPath string
}

func (c *ConfigParseCheck) Name() string     { return "config_parse" }
func (c *ConfigParseCheck) Category() string { return "CONFIG" }

func (c *ConfigParseCheck) Run(ctx context.Context) CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil || path == "" {
		// ConfigFileCheck reports the find error; defaults always parse
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Built-in defaults in effect",
		}
	}

	cfg, notes, err := config.LoadWithNotes(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Failed to load config: %v", err),
			Suggestion: "Check the YAML syntax in " + path,
		}
	}

	if len(notes) > 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Out-of-range values clamped: %s", strings.Join(notes, "; ")),
			Suggestion: "Adjust " + path + " so the values stick",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config valid (refresh %dms, history %d)", cfg.RefreshMS, cfg.History),
	}
}

func (c *ConfigParseCheck) Fix() error {
	return nil // Syntax errors require manual intervention
}

// GrubFileCheck verifies the boot-config file the editor manages is readable.
type GrubFileCheck struct {
	Path string
}

func (c *GrubFileCheck) Name() string     { return "grub_file" }
func (c *GrubFileCheck) Category() string { return "CONFIG" }

func (c *GrubFileCheck) Run(ctx context.Context) CheckResult {
	path := c.Path
	if path == "" {
		path = config.DefaultGrubPath
	}

	if _, err := os.ReadFile(path); err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Name:    c.Name(),
				Status:  StatusWarn,
				Message: fmt.Sprintf("No GRUB defaults file at %s (boot config tab disabled)", path),
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Cannot read %s: %v", path, err),
			Suggestion: "The boot config tab needs read access; run vigil as root to edit",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Boot config readable: %s", path),
	}
}

func (c *GrubFileCheck) Fix() error {
	return nil
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath, grubPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigParseCheck{ConfigPath: configPath},
		&GrubFileCheck{Path: grubPath},
	}
}
