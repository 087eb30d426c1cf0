package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/blockgen/am"
	"github.com/teranos/blockgen/errors"
)

func newAmCmd() *cobra.Command {
	amCmd := &cobra.Command{
		Use:   "am",
		Short: "Manage blockgen configuration",
		Long: `am - Manage blockgen configuration ("I am")

Display and manage blockgen configuration settings.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (BLOCKGEN_* prefix, BLOCKGEN_PYTHON)
3. Project config (./blockgen.toml, searched up from the working directory)
4. User config (~/.blockgen/blockgen.toml)
5. Default values

--config replaces sources 2 to 4 with a single file.

Examples:
  blockgen am show                          # Show current configuration
  blockgen am show --format json            # Show configuration as JSON
  blockgen am get generate.indent           # Get a specific value
  blockgen am set generate.python_version 3.11
  blockgen am validate                      # Validate current configuration
  blockgen am where                         # Show where each value comes from`,
	}

	amCmd.AddCommand(newAmShowCmd())
	amCmd.AddCommand(newAmGetCmd())
	amCmd.AddCommand(newAmSetCmd())
	amCmd.AddCommand(newAmValidateCmd())
	amCmd.AddCommand(newAmWhereCmd())
	return amCmd
}

func newAmShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current blockgen configuration from all sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to JSON")
				}
				fmt.Fprintln(out, string(data))

			case "yaml":
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to YAML")
				}
				fmt.Fprintf(out, "# blockgen configuration\n%s", string(data))

			case "toml":
				data, err := toml.Marshal(cfg)
				if err != nil {
					return errors.Wrap(err, "failed to marshal config to TOML")
				}
				fmt.Fprintf(out, "# blockgen configuration\n%s", string(data))

			default:
				return errors.NewInvalidRequestError("unsupported format: %s (supported: toml, json, yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "toml", "Output format: toml, json, yaml")
	return cmd
}

func newAmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., generate.indent, watch.debounce_ms)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intro, err := am.GetConfigIntrospection()
			if err != nil {
				return err
			}
			for _, setting := range intro.Settings {
				if setting.Key == args[0] {
					fmt.Fprintln(cmd.OutOrStdout(), setting.Value)
					return nil
				}
			}
			return errors.NewNotFoundError("configuration key %q not found", args[0])
		},
	}
}

func newAmSetCmd() *cobra.Command {
	var user bool

	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Write a configuration value to the project config (or the user config
with --user, or the --config file). The previous file is kept as a .back1
backup. The value must leave the configuration valid.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := setTarget(cmd, user)
			if err != nil {
				return err
			}
			if err := am.SetValue(path, args[0], args[1]); err != nil {
				return err
			}
			am.Reset()
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Set %s = %s in %s\n", args[0], args[1], path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&user, "user", false, "Write to the user config (~/.blockgen/blockgen.toml)")
	return cmd
}

// setTarget picks the file am set writes to
func setTarget(cmd *cobra.Command, user bool) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	if !user {
		return am.ProjectConfigPath(), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to find home directory")
	}
	return filepath.Join(home, am.UserConfigDir, am.ProjectConfigName), nil
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long: `Validate that the current blockgen configuration is valid, including the
target Python version against pyproject.toml when both are present.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.CheckPyproject(); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}

func newAmWhereCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "where",
		Short: "Show where configuration is loaded from",
		Long: `Show the configuration cascade and the source of every active setting.

--config is ignored; where always reports the searched cascade.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			intro, err := am.GetConfigIntrospection()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
			fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
			fmt.Fprintf(out, "  2. [USER]     ~/%s/%s\n", am.UserConfigDir, am.ProjectConfigName)
			fmt.Fprintf(out, "  3. [PROJECT]  ./%s (searches up directories)\n", am.ProjectConfigName)
			fmt.Fprintf(out, "  4. [ENV]      %s_* environment variables\n", am.EnvPrefix)
			fmt.Fprintln(out)

			fmt.Fprintln(out, "Active configuration:")
			for _, source := range []am.ConfigSource{am.SourceDefault, am.SourceUser, am.SourceProject, am.SourceEnvironment} {
				var lines []string
				for _, setting := range intro.Settings {
					if setting.Source != source {
						continue
					}
					line := fmt.Sprintf("    %s = %v", setting.Key, setting.Value)
					if source != am.SourceDefault {
						line += fmt.Sprintf("  (%s)", setting.SourcePath)
					}
					lines = append(lines, line)
				}
				if len(lines) == 0 {
					continue
				}
				fmt.Fprintf(out, "  [%s]\n", source)
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
			}
			return nil
		},
	}
}
