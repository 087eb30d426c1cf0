package codegen

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/teranos/blockgen/blocks"
)

// Generator lowers block trees to source text in one target language.
type Generator interface {
	// Language returns the target language name (e.g. "python")
	Language() string

	// FileExtension returns the file extension for generated files (e.g. "py")
	FileExtension() string

	// Generate runs one pass over the top-level blocks. On failure it
	// returns a nil Result.
	Generate(roots []*blocks.Block) (*Result, error)
}

// Result holds the output of one generation pass.
type Result struct {
	// Language is the target language the pass rendered
	Language string

	// Header is an optional comment block emitted above everything else
	Header string

	// Imports are module requirements, in emission order
	Imports []string

	// Helpers are helper definitions in first-registration order
	Helpers []Definition

	// Body is the rendered program
	Body string
}

// Source returns the complete program: header, imports, helper
// definitions, then the body, separated by blank lines.
func (r *Result) Source() string {
	var sections []string
	if r.Header != "" {
		sections = append(sections, strings.TrimRight(r.Header, "\n"))
	}
	if len(r.Imports) > 0 {
		sections = append(sections, strings.Join(r.Imports, "\n"))
	}
	for _, h := range r.Helpers {
		sections = append(sections, strings.TrimRight(h.Source, "\n"))
	}
	if r.Body != "" {
		sections = append(sections, r.Body)
	}
	if len(sections) == 0 {
		return ""
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// Fingerprint returns a stable digest of Source, used to detect stale
// generated files.
func (r *Result) Fingerprint() string {
	return Digest([]byte(r.Source()))
}

// Digest hashes arbitrary content the same way Fingerprint hashes a Result.
func Digest(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
