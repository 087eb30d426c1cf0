package am

import "github.com/Masterminds/semver/v3"

// Config represents the blockgen configuration
type Config struct {
	Generate GenerateConfig `mapstructure:"generate" toml:"generate" yaml:"generate" json:"generate"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log" json:"log"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`
}

// GenerateConfig configures code generation
type GenerateConfig struct {
	// Indent is one indentation level, spaces or tabs.
	Indent        string `mapstructure:"indent" toml:"indent" yaml:"indent" json:"indent"`
	// Header is emitted verbatim above each program.
	Header        string `mapstructure:"header" toml:"header" yaml:"header" json:"header"`
	// PythonVersion is the target interpreter; empty means any Python 3.
	PythonVersion string `mapstructure:"python_version" toml:"python_version" yaml:"python_version" json:"python_version"`
	// Workers bounds concurrent generations; 0 means one per CPU.
	Workers       int    `mapstructure:"workers" toml:"workers" yaml:"workers" json:"workers"`
	// OutputDir receives <name>.py per input; empty means stdout.
	OutputDir     string `mapstructure:"output_dir" toml:"output_dir" yaml:"output_dir" json:"output_dir"`
	// Pyproject is checked against PythonVersion when the file exists.
	Pyproject     string `mapstructure:"pyproject" toml:"pyproject" yaml:"pyproject" json:"pyproject"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" yaml:"json" json:"json"`
}

// WatchConfig configures generate --watch
type WatchConfig struct {
	// DebounceMS is the quiet period before regenerating.
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" yaml:"debounce_ms" json:"debounce_ms"`
}

// PythonTarget returns the configured target interpreter, or nil when none
// is set. Call Validate first; an unparsable version also yields nil.
func (c *Config) PythonTarget() *semver.Version {
	if c.Generate.PythonVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(c.Generate.PythonVersion)
	if err != nil {
		return nil
	}
	return v
}

// File permission constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// Config file names
const (
	ProjectConfigName = "blockgen.toml"
	UserConfigDir     = ".blockgen"
	EnvPrefix         = "BLOCKGEN"
)
