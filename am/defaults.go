package am

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Generation defaults
	v.SetDefault("generate.indent", "    ") // PEP 8
	v.SetDefault("generate.header", "")
	v.SetDefault("generate.python_version", "")
	v.SetDefault("generate.workers", 0) // one per CPU
	v.SetDefault("generate.output_dir", "")
	v.SetDefault("generate.pyproject", "pyproject.toml")

	// Logging defaults
	v.SetDefault("log.json", false)

	// Watch defaults
	v.SetDefault("watch.debounce_ms", 200)
}

// explicitEnv lists short env names accepted next to the automatic
// BLOCKGEN_<SECTION>_<KEY> form.
var explicitEnv = map[string]string{
	"generate.python_version": "BLOCKGEN_PYTHON",
}

// BindEnvVars explicitly binds keys whose env names AutomaticEnv would not
// find on its own
func BindEnvVars(v *viper.Viper) {
	for key, env := range explicitEnv {
		v.BindEnv(key, env, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Generate: {Indent: %q, PythonVersion: %q, Workers: %d, OutputDir: %q}, Log: {JSON: %t}, Watch: {DebounceMS: %d}}",
		c.Generate.Indent, c.Generate.PythonVersion, c.Generate.Workers, c.Generate.OutputDir,
		c.Log.JSON, c.Watch.DebounceMS)
}
