package codegen

import (
	"strings"

	"github.com/teranos/blockgen/logger"
)

// Definition is one emitted helper routine.
type Definition struct {
	Key    string // logical helper name, e.g. "first_index"
	Name   string // identifier allocated for it
	Source string // full definition text
}

// Helpers is the pass-scoped helper library: each helper is built at most
// once and emitted in first-registration order. Import requirements are
// tracked alongside.
type Helpers struct {
	names   *Names
	defs    []Definition
	byKey   map[string]int
	imports []string
	seen    map[string]bool
}

// NewHelpers returns an empty cache allocating identifiers from names.
func NewHelpers(names *Names) *Helpers {
	return &Helpers{
		names: names,
		byKey: make(map[string]int),
		seen:  make(map[string]bool),
	}
}

// Ensure returns the identifier of the helper registered under key. On
// first use it allocates a global identifier and stores build(identifier).
func (h *Helpers) Ensure(key string, build func(name string) string) string {
	if i, ok := h.byKey[key]; ok {
		return h.defs[i].Name
	}
	name := h.names.BindGlobal(key, KindHelper)
	h.byKey[key] = len(h.defs)
	h.defs = append(h.defs, Definition{Key: key, Name: name, Source: build(name)})
	if logger.Enabled(logger.OutputHelpers) {
		logger.Debugw("Registered helper", logger.FieldHelper, key, "name", name)
	}
	return name
}

// RequireImport records an import statement. Repeated requests are no-ops.
func (h *Helpers) RequireImport(stmt string) {
	if h.seen[stmt] {
		return
	}
	h.seen[stmt] = true
	h.imports = append(h.imports, stmt)
}

// Definitions returns helper definitions in first-registration order.
func (h *Helpers) Definitions() []Definition {
	out := make([]Definition, len(h.defs))
	copy(out, h.defs)
	return out
}

// Imports returns import statements in first-registration order, with
// future imports first.
func (h *Helpers) Imports() []string {
	out := make([]string, 0, len(h.imports))
	for _, stmt := range h.imports {
		if strings.HasPrefix(stmt, "from __future__ ") {
			out = append(out, stmt)
		}
	}
	for _, stmt := range h.imports {
		if !strings.HasPrefix(stmt, "from __future__ ") {
			out = append(out, stmt)
		}
	}
	return out
}
