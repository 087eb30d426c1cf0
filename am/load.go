package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

var (
	loadMu        sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records, per dotted key, the file that last set it
	// during the most recent load.
	ConfigSources = map[string]SourceInfo{}
)

// Load reads the blockgen configuration using Viper. The result is cached
// until Reset.
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	loadMu.Lock()
	defer loadMu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path. Defaults
// apply; config files found by search and environment variables do not.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load config from %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	loadMu.Lock()
	defer loadMu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold loadMu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	homeDir, _ := os.UserHomeDir()

	v, sources := newViper(workDir, homeDir)
	ConfigSources = sources
	viperInstance = v
	return v
}

// newViper layers defaults, the user config, the project config and
// BLOCKGEN_* environment variables, lowest precedence first.
func newViper(workDir, homeDir string) (*viper.Viper, map[string]SourceInfo) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	BindEnvVars(v)

	SetDefaults(v)

	sources := mergeConfigFiles(v, configPaths(workDir, homeDir))
	return v, sources
}

type configPath struct {
	path   string
	source ConfigSource
}

func configPaths(workDir, homeDir string) []configPath {
	var paths []configPath
	if homeDir != "" {
		paths = append(paths, configPath{
			path:   filepath.Join(homeDir, UserConfigDir, ProjectConfigName),
			source: SourceUser,
		})
	}
	if project := findProjectConfig(workDir); project != "" {
		paths = append(paths, configPath{path: project, source: SourceProject})
	}
	return paths
}

// findProjectConfig searches for blockgen.toml by walking up the directory
// tree from dir. Returns the first match, or empty string if none found.
func findProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ProjectConfigName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each existing file into v's config layer in
// order, so environment variables still take precedence over all of them.
// Unreadable files are skipped with a warning.
func mergeConfigFiles(v *viper.Viper, paths []configPath) map[string]SourceInfo {
	sources := make(map[string]SourceInfo)

	for _, cp := range paths {
		if _, err := os.Stat(cp.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(cp.path)
		tempViper.SetConfigType("toml")
		if err := tempViper.ReadInConfig(); err != nil {
			logger.Warnw("Skipping unreadable config file",
				logger.FieldFile, cp.path,
				logger.FieldError, err)
			continue
		}

		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			logger.Warnw("Skipping config file",
				logger.FieldFile, cp.path,
				logger.FieldError, err)
			continue
		}
		for _, key := range tempViper.AllKeys() {
			sources[key] = SourceInfo{Source: cp.source, Path: cp.path}
		}
	}

	return sources
}

// ProjectConfigPath returns the project config that applies to the working
// directory, or where a new one would be created when none exists.
func ProjectConfigPath() string {
	workDir, err := os.Getwd()
	if err != nil {
		workDir = "."
	}
	if found := findProjectConfig(workDir); found != "" {
		return found
	}
	return filepath.Join(workDir, ProjectConfigName)
}
