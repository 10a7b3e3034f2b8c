package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mfenwick/vigil/internal/config"
	"github.com/mfenwick/vigil/internal/errors"
	"github.com/mfenwick/vigil/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

var initForce bool

// initCmd writes a starter config file.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .vigil.yaml configuration",
	Long: `Write a starter configuration file to the current directory.

The generated file holds the defaults, so the dashboard behaves identically
with or without it; edit the values you want to change.

Examples:
  vigil init
  vigil init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}

// initCommand writes the default config, asking before overwriting unless
// --force is given.
func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		// Only prompt when someone can answer.
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	data, err := renderDefaultConfig()
	if err != nil {
		return err
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", configPath),
			"Check directory permissions")
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  vigil          - Start the dashboard")
	fmt.Println("  vigil doctor   - Check telemetry sources and privileges")
	fmt.Println("  vigil snapshot - One-shot metrics as JSON")

	return nil
}

// renderDefaultConfig marshals the defaults with a header comment.
func renderDefaultConfig() ([]byte, error) {
	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# Vigil configuration
# Values shown are the defaults; every key is optional.
# Out-of-range numbers are clamped at load, not rejected.

`
	return append([]byte(header), data...), nil
}
