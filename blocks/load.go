package blocks

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/teranos/blockgen/errors"
)

// Format identifies an on-disk block document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the interchange form of a workspace: its top-level blocks in
// editor order.
type Document struct {
	Blocks []*Block `json:"blocks" yaml:"blocks"`
}

// FormatFromPath infers the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".blk":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.NewInvalidRequestError("unsupported block document extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
}

// LoadFile reads and decodes a block document from disk.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read block document %s", path)
	}

	doc, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return doc, nil
}

// Decode reads a document in the given format and assigns IDs to blocks
// that have none.
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(err, "invalid JSON block document")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "invalid YAML block document")
		}
	default:
		return nil, errors.NewInvalidRequestError("unsupported block document format %q", format)
	}

	for i, b := range doc.Blocks {
		if b == nil {
			return nil, errors.NewInvalidRequestError("top-level block %d is empty", i)
		}
	}
	for _, b := range doc.Blocks {
		if err := validate(b); err != nil {
			return nil, err
		}
	}
	AssignIDs(doc.Blocks...)
	return &doc, nil
}

// Encode writes the document in the given format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(doc)
	}
	return errors.NewInvalidRequestError("unsupported block document format %q", format)
}

// AssignIDs gives every block reachable from roots a random UUID if it has
// no ID yet.
func AssignIDs(roots ...*Block) {
	for _, root := range roots {
		Walk(root, func(b *Block) bool {
			if b.ID == "" {
				b.ID = uuid.NewString()
			}
			return true
		})
	}
}

// validate rejects blocks without a type tag; type support itself is the
// generator's concern.
func validate(root *Block) error {
	var err error
	Walk(root, func(b *Block) bool {
		if b.Type == "" {
			err = errors.WithHint(
				errors.NewInvalidRequestError("block %q has no type", b.ID),
				"every block needs a \"type\" key",
			)
			return false
		}
		if b.Items < 0 {
			err = errors.NewInvalidRequestError("block %q (%s) has negative item count %d", b.ID, b.Type, b.Items)
			return false
		}
		return true
	})
	return err
}

func sortedKeys(m map[string]*Block) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
