// Package commands implements the blockgen CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/blockgen/am"
	"github.com/teranos/blockgen/codegen/python"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
	"github.com/teranos/blockgen/version"
)

// NewRootCmd builds the blockgen command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blockgen",
		Short: "Generate Python from visual block programs",
		Long: `blockgen - Compile block-editor programs to Python source.

A block document (JSON or YAML) holds the top-level blocks of one workspace.
blockgen renders it to a single Python program: helper definitions first,
then the program body.

Available commands:
  generate - Render block documents to Python
  check    - Verify generated files are up to date
  am       - Manage blockgen configuration ("I am")
  version  - Show version information

Examples:
  blockgen generate robot.json              # Print robot.py to stdout
  blockgen generate blocks/*.json -o gen/   # Write gen/<name>.py per input
  blockgen generate robot.json -o gen/ -w   # Regenerate on every save
  blockgen check blocks/*.json -o gen/      # Fail if gen/ is stale
  blockgen am show                          # Show current configuration`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")
			if !cmd.Flags().Changed("json-logs") {
				// A broken config is reported by the command itself
				if cfg, err := loadConfig(cmd); err == nil {
					jsonLogs = cfg.Log.JSON
				}
			}
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("Logger initialized",
				"verbosity", logger.LevelName(verbosity),
				"shows", logger.VerbosityDescription(verbosity))
			return nil
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON on stderr (default from log.json)")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this file only (default: blockgen.toml search)")

	// Add commands
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newAmCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig returns the validated configuration, from --config when given
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *am.Config
	var err error
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}

	// Copy so flag overrides never leak into the cached config
	c := *cfg
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return &c, nil
}

// newGenerator builds the Python generator the configuration describes
func newGenerator(cfg *am.Config, banner bool) *python.Generator {
	header := cfg.Generate.Header
	if header == "" && banner {
		header = version.Banner()
	}
	return python.NewGenerator(python.Options{
		Indent:        cfg.Generate.Indent,
		Header:        header,
		PythonVersion: cfg.PythonTarget(),
	})
}
