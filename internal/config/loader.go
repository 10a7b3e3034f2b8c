package config

import (
	"os"
	"path/filepath"

	"github.com/mfenwick/vigil/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".vigil.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/vigil"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	cfg, _, err := LoadWithNotes(path)
	return cfg, err
}

// LoadWithNotes is Load plus the clamp notes produced while normalizing
// out-of-range values. Doctor and startup logging surface the notes; most
// callers use Load.
func LoadWithNotes(path string) (*Config, []string, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'vigil init' to create a config file, or specify one with --config")
		}
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .vigil.yaml in current directory
// 3. .vigil.yaml in parent directories (stops at git root or home)
// 4. ~/.config/vigil/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	// 1. Explicit path takes precedence
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	// 2. Current directory
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	// 3. Walk up to parent directories
	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		if home != "" && parent == home {
			// Don't go above home directory
			break
		}
		dir = parent

		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		// Stop at git root
		gitPath := filepath.Join(dir, ".git")
		if _, err := os.Stat(gitPath); err == nil {
			break
		}
	}

	// 4. Global config
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads config from the found path, or returns defaults if no
// config file exists anywhere in the search path. The dashboard must come up
// on a machine that has never been configured.
func LoadOrDefault() (*Config, error) {
	path, err := Find("")
	if err != nil {
		return nil, err
	}

	if path == "" {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, []string, error) {
	cfg := DefaultConfig()

	// Defaults must be registered with viper too, or a file that omits a
	// boolean key would zero it during unmarshal.
	setDefaults(v)

	if err := v.Unmarshal(cfg); err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	notes := cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return cfg, notes, nil
}

// setDefaults registers every key's default value with viper.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("refresh_ms", def.RefreshMS)
	v.SetDefault("history", def.History)
	v.SetDefault("safe_mode", def.SafeMode)
	v.SetDefault("docker", def.Docker)
	v.SetDefault("gpu", def.GPU)
	v.SetDefault("network", def.Network)
	v.SetDefault("show_system_processes", def.ShowSystemProcesses)
	v.SetDefault("journal_lines", def.JournalLines)
	v.SetDefault("grub_path", def.GrubPath)
}
