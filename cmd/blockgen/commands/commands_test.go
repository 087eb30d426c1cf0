package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/blockgen/am"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/version"
)

func printDoc(text string) string {
	return fmt.Sprintf(`{"blocks": [{"type": "text_print", "values": {"TEXT": {"type": "text", "fields": {"TEXT": %q}}}}]}`, text)
}

const brokenDoc = `{"blocks": [{"type": "turtle_forward"}]}`

type runResult struct {
	stdout string
	stderr string
	err    error
}

// execute runs blockgen with args against a fresh command tree
func execute(t *testing.T, args ...string) runResult {
	t.Helper()
	t.Cleanup(am.Reset)

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// workspace writes files under a temp dir plus an isolated config file
func workspace(t *testing.T, files map[string]string) (dir, config string) {
	t.Helper()
	dir = t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	config = filepath.Join(dir, "blockgen.toml")
	if _, err := os.Stat(config); os.IsNotExist(err) {
		require.NoError(t, os.WriteFile(config, nil, 0644))
	}
	return dir, config
}

func TestGenerate_Stdout(t *testing.T) {
	dir, config := workspace(t, map[string]string{"hello.json": printDoc("hi")})

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "hello.json"))
	require.NoError(t, res.err)
	assert.Equal(t, "print('hi')\n", res.stdout)
}

func TestGenerate_Banner(t *testing.T) {
	dir, config := workspace(t, map[string]string{"hello.json": printDoc("hi")})

	res := execute(t, "--config", config, "generate", "--banner", filepath.Join(dir, "hello.json"))
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, version.Banner()), res.stdout)
	assert.Contains(t, res.stdout, "print('hi')")
}

func TestGenerate_ConfiguredHeaderWinsOverBanner(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"hello.json":    printDoc("hi"),
		"blockgen.toml": "[generate]\nheader = \"# mine\"\n",
	})

	res := execute(t, "--config", config, "generate", "--banner", filepath.Join(dir, "hello.json"))
	require.NoError(t, res.err)
	assert.True(t, strings.HasPrefix(res.stdout, "# mine"), res.stdout)
	assert.NotContains(t, res.stdout, version.Banner())
}

func TestGenerate_MultipleToStdout(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"a.json": printDoc("a"),
		"b.json": printDoc("b"),
	})

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	require.NoError(t, res.err)
	assert.Equal(t, "# --- a ---\nprint('a')\n\n# --- b ---\nprint('b')\n", res.stdout)
}

func TestGenerate_OutputDir(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"robot.json": printDoc("beep"),
		"greet.json": printDoc("hi"),
	})
	out := filepath.Join(dir, "gen")

	res := execute(t, "--config", config, "generate", "-o", out,
		filepath.Join(dir, "robot.json"), filepath.Join(dir, "greet.json"))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Generated "+filepath.Join(out, "robot.py"))
	assert.Contains(t, res.stdout, "✓ Generated "+filepath.Join(out, "greet.py"))

	content, err := os.ReadFile(filepath.Join(out, "robot.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('beep')\n", string(content))
}

func TestGenerate_OutputDirFromConfig(t *testing.T) {
	dir, config := workspace(t, map[string]string{"robot.json": printDoc("beep")})
	out := filepath.Join(dir, "gen")
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf("[generate]\noutput_dir = %q\n", out)), 0644))

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "robot.json"))
	require.NoError(t, res.err)
	assert.FileExists(t, filepath.Join(out, "robot.py"))
}

func TestGenerate_IndentFlag(t *testing.T) {
	doc := `{"blocks": [{"type": "controls_if",
		"values": {"IF0": {"type": "logic_boolean", "fields": {"BOOL": "TRUE"}}},
		"statements": {"DO0": ` + `{"type": "text_print", "values": {"TEXT": {"type": "text", "fields": {"TEXT": "yes"}}}}` + `}}]}`
	dir, config := workspace(t, map[string]string{"cond.json": doc})

	res := execute(t, "--config", config, "generate", "--indent", "  ", filepath.Join(dir, "cond.json"))
	require.NoError(t, res.err)
	assert.Equal(t, "if True:\n  print('yes')\n", res.stdout)
}

func TestGenerate_PartialFailure(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"good.json":   printDoc("ok"),
		"broken.json": brokenDoc,
	})
	out := filepath.Join(dir, "gen")

	res := execute(t, "--config", config, "generate", "-o", out,
		filepath.Join(dir, "good.json"), filepath.Join(dir, "broken.json"))
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "1 of 2 inputs failed")
	assert.Contains(t, res.stderr, "turtle_forward")

	// The good input is still written
	assert.FileExists(t, filepath.Join(out, "good.py"))
	assert.NoFileExists(t, filepath.Join(out, "broken.py"))
}

func TestGenerate_SingleFailureKeepsCause(t *testing.T) {
	dir, config := workspace(t, map[string]string{"broken.json": brokenDoc})

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "broken.json"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrUnknownBlockType))
	assert.Empty(t, res.stdout)
}

func TestGenerate_RejectsInvalidFlags(t *testing.T) {
	dir, config := workspace(t, map[string]string{"hello.json": printDoc("hi")})
	input := filepath.Join(dir, "hello.json")

	res := execute(t, "--config", config, "generate", "--indent", "xx", input)
	assert.Error(t, res.err)

	res = execute(t, "--config", config, "generate", "--python", "1.0", input)
	assert.Error(t, res.err)

	res = execute(t, "--config", config, "generate")
	assert.Error(t, res.err)
}

func TestGenerate_MissingInput(t *testing.T) {
	dir, config := workspace(t, nil)

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "nope.json"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrNotFound))
}

func TestGenerate_PyprojectMismatch(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"hello.json":     printDoc("hi"),
		"pyproject.toml": "[project]\nname = \"robot\"\nrequires-python = \">=3.10\"\n",
	})
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(
		"[generate]\npython_version = \"3.8\"\npyproject = %q\n", filepath.Join(dir, "pyproject.toml"))), 0644))

	res := execute(t, "--config", config, "generate", filepath.Join(dir, "hello.json"))
	require.Error(t, res.err)
	assert.NotEmpty(t, errors.GetAllHints(res.err))

	res = execute(t, "--config", config, "generate", "--python", "3.11", filepath.Join(dir, "hello.json"))
	require.NoError(t, res.err)
}

func TestGenerate_WatchNeedsOutputDirForManyInputs(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"a.json": printDoc("a"),
		"b.json": printDoc("b"),
	})

	res := execute(t, "--config", config, "generate", "--watch",
		filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrInvalidRequest))
}

func TestCheck(t *testing.T) {
	dir, config := workspace(t, map[string]string{"robot.json": printDoc("beep")})
	input := filepath.Join(dir, "robot.json")
	out := filepath.Join(dir, "gen")

	res := execute(t, "--config", config, "check", input)
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrInvalidRequest))

	res = execute(t, "--config", config, "check", "-o", out, input)
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "✗ Programs are out of date.")
	assert.Contains(t, res.stdout, "missing: "+filepath.Join(out, "robot.py"))

	res = execute(t, "--config", config, "generate", "-o", out, input)
	require.NoError(t, res.err)

	res = execute(t, "--config", config, "check", "-o", out, input)
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Programs are up to date")

	require.NoError(t, os.WriteFile(input, []byte(printDoc("boop")), 0644))
	res = execute(t, "--config", config, "check", "-o", out, input)
	require.Error(t, res.err)
	assert.Contains(t, res.stdout, "stale:   "+filepath.Join(out, "robot.py"))
}

func TestCheck_BannerMustMatch(t *testing.T) {
	dir, config := workspace(t, map[string]string{"robot.json": printDoc("beep")})
	input := filepath.Join(dir, "robot.json")
	out := filepath.Join(dir, "gen")

	require.NoError(t, execute(t, "--config", config, "generate", "--banner", "-o", out, input).err)
	res := execute(t, "--config", config, "check", "-o", out, input)
	require.Error(t, res.err)
	assert.Contains(t, strings.Join(errors.GetAllHints(res.err), "\n"), "pass --banner to check")
	assert.NoError(t, execute(t, "--config", config, "check", "--banner", "-o", out, input).err)

	require.NoError(t, execute(t, "--config", config, "generate", "-o", out, input).err)
	res = execute(t, "--config", config, "check", "--banner", "-o", out, input)
	require.Error(t, res.err)
	assert.Contains(t, strings.Join(errors.GetAllHints(res.err), "\n"), "drop --banner from check")
}

func TestCheck_StaleWithoutBannerMismatchHasNoBannerHint(t *testing.T) {
	dir, config := workspace(t, map[string]string{"robot.json": printDoc("beep")})
	input := filepath.Join(dir, "robot.json")
	out := filepath.Join(dir, "gen")

	require.NoError(t, execute(t, "--config", config, "generate", "-o", out, input).err)
	require.NoError(t, os.WriteFile(input, []byte(printDoc("boop")), 0644))

	res := execute(t, "--config", config, "check", "-o", out, input)
	require.Error(t, res.err)
	assert.NotContains(t, strings.Join(errors.GetAllHints(res.err), "\n"), "--banner")
}

func TestAmShow(t *testing.T) {
	_, config := workspace(t, map[string]string{
		"blockgen.toml": "[generate]\nindent = \"\\t\"\nworkers = 3\n",
	})

	res := execute(t, "--config", config, "am", "show", "--format", "json")
	require.NoError(t, res.err)

	var shown am.Config
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &shown))
	assert.Equal(t, "\t", shown.Generate.Indent)
	assert.Equal(t, 3, shown.Generate.Workers)
	assert.Equal(t, 200, shown.Watch.DebounceMS)

	for _, format := range []string{"toml", "yaml"} {
		res = execute(t, "--config", config, "am", "show", "--format", format)
		require.NoError(t, res.err, format)
		assert.True(t, strings.HasPrefix(res.stdout, "# blockgen configuration\n"), format)
		assert.Contains(t, res.stdout, "debounce_ms", format)
	}

	res = execute(t, "--config", config, "am", "show", "--format", "xml")
	assert.Error(t, res.err)
}

func TestAmSet(t *testing.T) {
	_, config := workspace(t, nil)

	res := execute(t, "--config", config, "am", "set", "generate.workers", "4")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Set generate.workers = 4")

	res = execute(t, "--config", config, "am", "show", "--format", "json")
	require.NoError(t, res.err)
	var shown am.Config
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &shown))
	assert.Equal(t, 4, shown.Generate.Workers)

	res = execute(t, "--config", config, "am", "set", "--", "generate.workers", "-1")
	assert.Error(t, res.err)
	res = execute(t, "--config", config, "am", "set", "generate.nope", "1")
	assert.Error(t, res.err)
}

func TestAmValidate(t *testing.T) {
	dir, config := workspace(t, map[string]string{
		"pyproject.toml": "[tool.poetry.dependencies]\npython = \"^3.9\"\n",
	})

	res := execute(t, "--config", config, "am", "validate")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "✓ Configuration is valid")

	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(
		"[generate]\npython_version = \"2.7\"\npyproject = %q\n", filepath.Join(dir, "pyproject.toml"))), 0644))
	res = execute(t, "--config", config, "am", "validate")
	assert.Error(t, res.err)

	require.NoError(t, os.WriteFile(config, []byte("[generate]\nindent = \"\"\n"), 0644))
	res = execute(t, "--config", config, "am", "validate")
	assert.Error(t, res.err)
}

func TestAmWhereAndGet(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "blockgen.toml"), []byte("[generate]\nworkers = 6\n"), 0644))

	t.Setenv("HOME", home)
	t.Setenv("BLOCKGEN_WATCH_DEBOUNCE_MS", "50")
	t.Chdir(project)
	am.Reset()

	res := execute(t, "am", "where")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "[project]")
	assert.Contains(t, res.stdout, "generate.workers = 6")
	assert.Contains(t, res.stdout, "[environment]")
	assert.Contains(t, res.stdout, "BLOCKGEN_WATCH_DEBOUNCE_MS")

	res = execute(t, "am", "get", "generate.workers")
	require.NoError(t, res.err)
	assert.Equal(t, "6\n", res.stdout)

	res = execute(t, "am", "get", "generate.nope")
	require.Error(t, res.err)
	assert.True(t, errors.Is(res.err, errors.ErrNotFound))
}

func TestVersion(t *testing.T) {
	res := execute(t, "version")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "blockgen")
	assert.Contains(t, res.stdout, "Platform: ")

	res = execute(t, "version", "--json")
	require.NoError(t, res.err)
	var info version.Info
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &info))
	assert.NotEmpty(t, info.GoVersion)
}
