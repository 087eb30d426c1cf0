package pipeline

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/teranos/blockgen/am"
	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

// OutputPath returns where an input's program lives in dir
func OutputPath(dir, name, ext string) string {
	return filepath.Join(dir, name+"."+ext)
}

// plan maps each successful output to its file, rejecting two inputs that
// would write the same file.
func plan(dir, ext string, outputs []*Output) (map[string]*Output, error) {
	paths := make(map[string]*Output, len(outputs))
	for _, out := range outputs {
		if out.Err != nil {
			continue
		}
		path := OutputPath(dir, out.Input.Name, ext)
		if prev, dup := paths[path]; dup {
			return nil, errors.WithHint(
				errors.NewInvalidRequestError("inputs %s and %s both generate %s", prev.Input.Original, out.Input.Original, path),
				"rename one of the documents",
			)
		}
		paths[path] = out
	}
	return paths, nil
}

// Write writes every successful output into dir and returns the written
// paths in sorted order.
func Write(dir, ext string, outputs []*Output) ([]string, error) {
	paths, err := plan(dir, ext, outputs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, am.DefaultDirPermissions); err != nil {
		return nil, errors.Wrap(err, "failed to create output directory")
	}

	written := sortedPaths(paths)
	for _, path := range written {
		result := paths[path].Result
		if err := os.WriteFile(path, []byte(result.Source()), am.DefaultFilePermissions); err != nil {
			return nil, errors.Wrapf(err, "failed to write %s", path)
		}
		logger.Infow("Wrote program",
			logger.FieldOutput, path,
			logger.FieldDigest, result.Fingerprint())
	}
	return written, nil
}

// CheckResult holds the result of comparing outputs with files on disk
type CheckResult struct {
	UpToDate bool
	Stale    []string // files whose content differs from a fresh generation
	Missing  []string // files that were never generated
}

// Check compares the fingerprint of every successful output with the file
// it would be written to.
func Check(dir, ext string, outputs []*Output) (*CheckResult, error) {
	paths, err := plan(dir, ext, outputs)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	for _, path := range sortedPaths(paths) {
		content, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			result.Missing = append(result.Missing, path)
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}

		want := paths[path].Result.Fingerprint()
		got := codegen.Digest(content)
		if got != want {
			logger.Debugw("Stale program",
				logger.FieldOutput, path,
				logger.FieldDigest, got,
				"expected", want)
			result.Stale = append(result.Stale, path)
		}
	}

	result.UpToDate = len(result.Stale) == 0 && len(result.Missing) == 0
	return result, nil
}

func sortedPaths(paths map[string]*Output) []string {
	sorted := make([]string, 0, len(paths))
	for p := range paths {
		sorted = append(sorted, p)
	}
	sort.Strings(sorted)
	return sorted
}
