package am

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/blockgen/errors"
)

// Pyproject is the subset of pyproject.toml that constrains the
// interpreter: PEP 621 requires-python, or Poetry's python dependency.
type Pyproject struct {
	Project struct {
		Name           string `toml:"name"`
		RequiresPython string `toml:"requires-python"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Dependencies map[string]interface{} `toml:"dependencies"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// ReadPyproject parses the pyproject.toml at path
func ReadPyproject(path string) (*Pyproject, error) {
	var pyproject Pyproject
	if _, err := toml.DecodeFile(path, &pyproject); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return &pyproject, nil
}

// RequiresPython returns the interpreter constraint, preferring
// project.requires-python. Empty means unconstrained.
func (p *Pyproject) RequiresPython() string {
	if p.Project.RequiresPython != "" {
		return p.Project.RequiresPython
	}
	if python, ok := p.Tool.Poetry.Dependencies["python"].(string); ok {
		return python
	}
	return ""
}

// CheckPyproject verifies the configured python_version against the
// pyproject.toml named by generate.pyproject. A missing file, or no target
// version, passes.
func (c *Config) CheckPyproject() error {
	target := c.PythonTarget()
	if target == nil || c.Generate.Pyproject == "" {
		return nil
	}
	if _, err := os.Stat(c.Generate.Pyproject); err != nil {
		return nil
	}

	pyproject, err := ReadPyproject(c.Generate.Pyproject)
	if err != nil {
		return err
	}
	requires := pyproject.RequiresPython()
	if requires == "" {
		return nil
	}

	return errors.WithDetailf(CheckPythonVersion(target, requires), "pyproject: %s", c.Generate.Pyproject)
}

// CheckPythonVersion reports whether target satisfies a PEP 440 specifier
// set such as ">=3.8,<4" or "~=3.9".
func CheckPythonVersion(target *semver.Version, requires string) error {
	constraint, err := pythonConstraint(requires)
	if err != nil {
		return errors.Wrapf(err, "invalid requires-python %q", requires)
	}
	if !constraint.Check(target) {
		return errors.WithHint(
			errors.Newf("python_version %s does not satisfy requires-python %q", target, requires),
			"set generate.python_version to a version the project supports",
		)
	}
	return nil
}

// pythonConstraint rewrites PEP 440 operators into their semver
// equivalents. "~=X.Y" allows any X.*, "~=X.Y.Z" any X.Y.*.
func pythonConstraint(spec string) (*semver.Constraints, error) {
	var clauses []string
	for _, clause := range strings.Split(spec, ",") {
		clause = strings.TrimSpace(clause)
		switch {
		case clause == "":
			continue
		case strings.HasPrefix(clause, "~="):
			ver := strings.TrimSpace(strings.TrimPrefix(clause, "~="))
			if strings.Count(ver, ".") == 1 {
				clause = "^" + ver
			} else {
				clause = "~" + ver
			}
		case strings.HasPrefix(clause, "==="):
			clause = "=" + strings.TrimPrefix(clause, "===")
		case strings.HasPrefix(clause, "=="):
			clause = "=" + strings.TrimPrefix(clause, "==")
		}
		clauses = append(clauses, clause)
	}
	if len(clauses) == 0 {
		return nil, errors.New("empty version specifier")
	}
	return semver.NewConstraint(strings.Join(clauses, ", "))
}
