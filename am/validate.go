package am

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/blockgen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Indent: must be non-empty whitespace, otherwise output is not Python
	if c.Generate.Indent == "" {
		return errors.New("generate.indent cannot be empty")
	}
	if strings.Trim(c.Generate.Indent, " \t") != "" {
		return errors.Newf("generate.indent must contain only spaces or tabs, got %q", c.Generate.Indent)
	}
	if strings.Contains(c.Generate.Indent, " ") && strings.Contains(c.Generate.Indent, "\t") {
		return errors.Newf("generate.indent cannot mix spaces and tabs, got %q", c.Generate.Indent)
	}

	// Python version: empty = any Python 3, otherwise 2.x or 3.x
	if c.Generate.PythonVersion != "" {
		v, err := semver.NewVersion(c.Generate.PythonVersion)
		if err != nil {
			return errors.Wrapf(err, "generate.python_version %q is not a version", c.Generate.PythonVersion)
		}
		if v.Major() != 2 && v.Major() != 3 {
			return errors.Newf("generate.python_version must be 2.x or 3.x, got %s", v)
		}
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Generate.Workers < 0 {
		return errors.Newf("generate.workers must be >= 0, got %d", c.Generate.Workers)
	}

	// Debounce: 0 = regenerate on every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
