// Package source resolves generate inputs to local block documents.
//
// Inputs go through hashicorp/go-getter detection, so besides plain paths
// they may be:
//   - Local paths: ./robot.json, ~/blocks/robot.yaml
//   - HTTP(S) URLs: https://example.com/robot.json
//   - Cloud storage: s3::https://..., gcs::https://...
//
// Remote documents are fetched into a temporary directory that Cleanup
// removes.
package source

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

// Input is one resolved block document
type Input struct {
	// Name is the document's base name without extension; outputs are
	// named after it.
	Name string
	// Path is the local file holding the document (original or fetched)
	Path string
	// Original is the argument as given on the command line
	Original string
	// Remote indicates the document was fetched from a remote source
	Remote bool

	cleanup func()
}

// Cleanup removes any temporary resources created for this input.
// Safe to call multiple times.
func (in *Input) Cleanup() {
	if in.cleanup != nil {
		in.cleanup()
		in.cleanup = nil
	}
}

// Load decodes the document
func (in *Input) Load() (*blocks.Document, error) {
	doc, err := blocks.LoadFile(in.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", in.Original)
	}
	return doc, nil
}

// Resolve resolves an argument to a local block document. The returned
// Input must be cleaned up when done.
func Resolve(ctx context.Context, input string) (*Input, error) {
	pwd, err := os.Getwd()
	if err != nil {
		pwd = "."
	}

	local, err := expandHome(input)
	if err != nil {
		return nil, err
	}

	detected, err := getter.Detect(local, pwd, getter.Detectors)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to detect source type of %q", input)
	}

	logger.Debugw("go-getter detected source",
		logger.FieldSource, input,
		"detected", detected)

	if !IsRemote(detected) {
		return resolveLocal(input, local, pwd)
	}
	return fetch(ctx, input, detected)
}

// IsRemote reports whether a detected go-getter source needs fetching
func IsRemote(detected string) bool {
	forced, rest := splitForced(detected)
	if forced != "" && forced != "file" {
		return true
	}
	parsed, err := url.Parse(rest)
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Scheme != "file"
}

func resolveLocal(input, local, pwd string) (*Input, error) {
	if !filepath.IsAbs(local) {
		local = filepath.Join(pwd, local)
	}

	info, err := os.Stat(local)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "input %s", input)
		}
		return nil, errors.Wrapf(err, "failed to stat %s", input)
	}
	if info.IsDir() {
		return nil, errors.NewInvalidRequestError("input %s is a directory", input)
	}
	if _, err := blocks.FormatFromPath(local); err != nil {
		return nil, err
	}

	return &Input{
		Name:     stem(local),
		Path:     local,
		Original: input,
		cleanup:  func() {}, // No cleanup needed for local files
	}, nil
}

// fetch downloads a remote document with go-getter
func fetch(ctx context.Context, input, detected string) (*Input, error) {
	base := remoteBase(detected)
	if _, err := blocks.FormatFromPath(base); err != nil {
		return nil, errors.WithHint(err, "remote inputs must name a .json, .yaml or .yml document")
	}

	tempDir, err := os.MkdirTemp("", "blockgen-src-*")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create temp directory")
	}
	dst := filepath.Join(tempDir, base)

	logger.Infow("Fetching input",
		logger.FieldSource, input,
		"destination", dst)

	client := &getter.Client{
		Ctx:     ctx,
		Src:     detected,
		Dst:     dst,
		Mode:    getter.ClientModeFile,
		Getters: getter.Getters,
	}
	if err := client.Get(); err != nil {
		os.RemoveAll(tempDir)
		return nil, errors.Wrapf(err, "failed to fetch %s", input)
	}

	return &Input{
		Name:     stem(base),
		Path:     dst,
		Original: input,
		Remote:   true,
		cleanup: func() {
			logger.Debugw("Cleaning up fetched input", logger.FieldFile, dst)
			os.RemoveAll(tempDir)
		},
	}, nil
}

// splitForced separates a "git::" style getter prefix from the source
func splitForced(src string) (string, string) {
	if i := strings.Index(src, "::"); i > 0 && !strings.Contains(src[:i], "/") {
		return src[:i], src[i+2:]
	}
	return "", src
}

// remoteBase returns the file name a remote source resolves to, honoring
// go-getter's "//" subpath separator.
func remoteBase(detected string) string {
	_, rest := splitForced(detected)
	if parsed, err := url.Parse(rest); err == nil {
		rest = parsed.Path
	}
	if i := strings.LastIndex(rest, "//"); i >= 0 {
		rest = rest[i+2:]
	}
	rest = strings.TrimSuffix(rest, "/")
	base := path.Base(rest)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

func stem(p string) string {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func expandHome(p string) (string, error) {
	if !strings.HasPrefix(p, "~/") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to expand home directory")
	}
	return filepath.Join(home, p[2:]), nil
}
