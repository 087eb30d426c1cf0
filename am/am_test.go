package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), DefaultFilePermissions))
}

func TestLoad_Defaults(t *testing.T) {
	// Isolated viper instance without user/project config
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "    ", cfg.Generate.Indent)
	assert.Equal(t, "", cfg.Generate.PythonVersion)
	assert.Equal(t, 0, cfg.Generate.Workers)
	assert.Equal(t, "pyproject.toml", cfg.Generate.Pyproject)
	assert.False(t, cfg.Log.JSON)
	assert.Equal(t, 200, cfg.Watch.DebounceMS)
	assert.NoError(t, cfg.Validate())
	assert.Nil(t, cfg.PythonTarget())
}

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"generate.indent", "    "},
		{"generate.workers", 0},
		{"generate.output_dir", ""},
		{"log.json", false},
		{"watch.debounce_ms", 200},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.expected, v.Get(tt.key))
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Generate: GenerateConfig{Indent: "    "},
			Watch:    WatchConfig{DebounceMS: 200},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"tab indent is valid", func(c *Config) { c.Generate.Indent = "\t" }, false},
		{"empty indent is invalid", func(c *Config) { c.Generate.Indent = "" }, true},
		{"non-whitespace indent is invalid", func(c *Config) { c.Generate.Indent = "--" }, true},
		{"mixed indent is invalid", func(c *Config) { c.Generate.Indent = " \t" }, true},
		{"python 3.11 is valid", func(c *Config) { c.Generate.PythonVersion = "3.11" }, false},
		{"python 2.7 is valid", func(c *Config) { c.Generate.PythonVersion = "2.7" }, false},
		{"python 4 is invalid", func(c *Config) { c.Generate.PythonVersion = "4.0" }, true},
		{"garbage version is invalid", func(c *Config) { c.Generate.PythonVersion = "latest" }, true},
		{"zero workers is valid (one per CPU)", func(c *Config) { c.Generate.Workers = 0 }, false},
		{"negative workers is invalid", func(c *Config) { c.Generate.Workers = -1 }, true},
		{"zero debounce is valid", func(c *Config) { c.Watch.DebounceMS = 0 }, false},
		{"negative debounce is invalid", func(c *Config) { c.Watch.DebounceMS = -5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPythonTarget(t *testing.T) {
	cfg := Config{Generate: GenerateConfig{PythonVersion: "2.7"}}
	target := cfg.PythonTarget()
	require.NotNil(t, target)
	assert.Equal(t, uint64(2), target.Major())
	assert.Equal(t, uint64(7), target.Minor())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)
	writeFile(t, path, `
[generate]
indent = "  "
python_version = "3.9"
workers = 4

[watch]
debounce_ms = 50
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "  ", cfg.Generate.Indent)
	assert.Equal(t, "3.9", cfg.Generate.PythonVersion)
	assert.Equal(t, 4, cfg.Generate.Workers)
	assert.Equal(t, 50, cfg.Watch.DebounceMS)
	// Unset keys keep their defaults
	assert.Equal(t, "pyproject.toml", cfg.Generate.Pyproject)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestFindProjectConfig(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("found in ancestor", func(t *testing.T) {
		root := filepath.Join(tmpDir, "found")
		writeFile(t, filepath.Join(root, ProjectConfigName), "")
		subDir := filepath.Join(root, "a", "b")
		require.NoError(t, os.MkdirAll(subDir, DefaultDirPermissions))

		result := findProjectConfig(subDir)
		assert.True(t, filepath.IsAbs(result))
		assert.Equal(t, filepath.Join(root, ProjectConfigName), result)
	})

	t.Run("nearest wins", func(t *testing.T) {
		root := filepath.Join(tmpDir, "nearest")
		writeFile(t, filepath.Join(root, ProjectConfigName), "")
		writeFile(t, filepath.Join(root, "inner", ProjectConfigName), "")

		result := findProjectConfig(filepath.Join(root, "inner"))
		assert.Equal(t, filepath.Join(root, "inner", ProjectConfigName), result)
	})

	t.Run("directory named like the config is ignored", func(t *testing.T) {
		root := filepath.Join(tmpDir, "dirnamed")
		require.NoError(t, os.MkdirAll(filepath.Join(root, ProjectConfigName), DefaultDirPermissions))

		result := findProjectConfig(root)
		assert.NotEqual(t, filepath.Join(root, ProjectConfigName), result)
	})
}

func TestNewViper_Precedence(t *testing.T) {
	home := t.TempDir()
	work := filepath.Join(t.TempDir(), "project")

	userPath := filepath.Join(home, UserConfigDir, ProjectConfigName)
	writeFile(t, userPath, `
[generate]
indent = "\t"
workers = 2
`)
	projectPath := filepath.Join(work, ProjectConfigName)
	writeFile(t, projectPath, `
[generate]
workers = 8
`)

	t.Setenv("BLOCKGEN_WATCH_DEBOUNCE_MS", "75")
	t.Setenv("BLOCKGEN_PYTHON", "3.12")

	v, sources := newViper(work, home)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "\t", cfg.Generate.Indent, "user file applies")
	assert.Equal(t, 8, cfg.Generate.Workers, "project file overrides user file")
	assert.Equal(t, 75, cfg.Watch.DebounceMS, "env overrides defaults")
	assert.Equal(t, "3.12", cfg.Generate.PythonVersion, "short env name is bound")

	assert.Equal(t, SourceInfo{Source: SourceUser, Path: userPath}, sources["generate.indent"])
	assert.Equal(t, SourceInfo{Source: SourceProject, Path: projectPath}, sources["generate.workers"])

	introspection := introspect(v, sources)
	bySetting := make(map[string]SettingInfo)
	for _, s := range introspection.Settings {
		bySetting[s.Key] = s
	}
	assert.Equal(t, SourceProject, bySetting["generate.workers"].Source)
	assert.Equal(t, SourceEnvironment, bySetting["watch.debounce_ms"].Source)
	assert.Equal(t, "BLOCKGEN_WATCH_DEBOUNCE_MS", bySetting["watch.debounce_ms"].SourcePath)
	assert.Equal(t, "BLOCKGEN_PYTHON", bySetting["generate.python_version"].SourcePath)
	assert.Equal(t, SourceDefault, bySetting["generate.header"].Source)
}

func TestNewViper_EnvOverridesFiles(t *testing.T) {
	work := t.TempDir()
	writeFile(t, filepath.Join(work, ProjectConfigName), `
[generate]
workers = 8
`)
	t.Setenv("BLOCKGEN_GENERATE_WORKERS", "3")

	v, _ := newViper(work, "")
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Generate.Workers)
}

func TestSetValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)

	require.NoError(t, SetValue(path, "generate.workers", "6"))
	require.NoError(t, SetValue(path, "Generate.Header", "# generated"))
	require.NoError(t, SetValue(path, "log.json", "true"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Generate.Workers)
	assert.Equal(t, "# generated", cfg.Generate.Header)
	assert.True(t, cfg.Log.JSON)

	// Each write after the first rotated a backup
	assert.FileExists(t, path+".back1")
	assert.FileExists(t, path+".back2")
	assert.NoFileExists(t, path+".back3")
}

func TestSetValue_Rejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectConfigName)

	tests := []struct {
		name string
		key  string
		raw  string
	}{
		{"unknown key", "generate.colour", "blue"},
		{"section", "generate", "x"},
		{"wrong type", "generate.workers", "many"},
		{"fails validation", "generate.workers", "-2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, SetValue(path, tt.key, tt.raw))
			assert.NoFileExists(t, path)
		})
	}
}

func TestCheckPythonVersion(t *testing.T) {
	tests := []struct {
		target   string
		requires string
		ok       bool
	}{
		{"3.12", ">=3.8", true},
		{"3.7", ">=3.8", false},
		{"3.10", ">=3.8,<3.11", true},
		{"3.11", ">=3.8,<3.11", false},
		{"3.13", "~=3.9", true},
		{"4.0", "~=3.9", false},
		{"3.9.5", "~=3.9.1", true},
		{"3.10.0", "~=3.9.1", false},
		{"3.10", "==3.10", true},
		{"3.12", "^3.8", true},
	}

	for _, tt := range tests {
		t.Run(tt.target+" "+tt.requires, func(t *testing.T) {
			err := CheckPythonVersion(semver.MustParse(tt.target), tt.requires)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Error(t, CheckPythonVersion(semver.MustParse("3.10"), "bogus"))
	assert.Error(t, CheckPythonVersion(semver.MustParse("3.10"), " , "))
}

func TestCheckPyproject(t *testing.T) {
	dir := t.TempDir()
	pep621 := filepath.Join(dir, "pep621.toml")
	writeFile(t, pep621, `
[project]
name = "demo"
requires-python = ">=3.9"
`)
	poetry := filepath.Join(dir, "poetry.toml")
	writeFile(t, poetry, `
[tool.poetry.dependencies]
python = "^3.10"
requests = "^2.31"
`)

	check := func(pyproject, version string) error {
		cfg := Config{Generate: GenerateConfig{Pyproject: pyproject, PythonVersion: version}}
		return cfg.CheckPyproject()
	}

	assert.NoError(t, check(pep621, "3.11"))
	assert.Error(t, check(pep621, "3.8"))
	assert.NoError(t, check(poetry, "3.12"))
	assert.Error(t, check(poetry, "3.9"))

	// Nothing to compare
	assert.NoError(t, check(pep621, ""))
	assert.NoError(t, check(filepath.Join(dir, "absent.toml"), "2.7"))

	pyproject, err := ReadPyproject(pep621)
	require.NoError(t, err)
	assert.Equal(t, "demo", pyproject.Project.Name)
	assert.Equal(t, ">=3.9", pyproject.RequiresPython())
}
