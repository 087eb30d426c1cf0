package codegen

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/blockgen/errors"
)

// NameKind separates logical namespaces in the block language. Identifiers
// of every kind share one target-language namespace.
type NameKind uint8

const (
	KindVariable NameKind = iota
	KindProcedure
	KindHelper
)

var kindNames = [...]string{
	KindVariable:  "variable",
	KindProcedure: "procedure",
	KindHelper:    "helper",
}

func (k NameKind) String() string { return kindNames[k] }

type nameKey struct {
	name string
	kind NameKind
}

type frame struct {
	bindings map[nameKey]string
	idents   map[string]bool
}

func newFrame() *frame {
	return &frame{
		bindings: make(map[nameKey]string),
		idents:   make(map[string]bool),
	}
}

// Names maps logical block-language names to collision-free identifiers
// under a stack of lexical frames. The outermost frame holds globals,
// procedures and helpers and lives for the whole pass.
type Names struct {
	frames   []*frame
	reserved map[string]bool
	// issued holds every identifier handed out during the pass, including
	// those of closed frames. Closed frames still share the target
	// namespace, so global allocation never reuses them.
	issued map[string]bool
}

// NewNames returns a resolver with one open (global) frame. Reserved words
// are never handed out as identifiers.
func NewNames(reserved []string) *Names {
	r := make(map[string]bool, len(reserved))
	for _, w := range reserved {
		r[w] = true
	}
	return &Names{
		frames:   []*frame{newFrame()},
		reserved: r,
		issued:   make(map[string]bool),
	}
}

// Push opens a nested frame.
func (n *Names) Push() {
	n.frames = append(n.frames, newFrame())
}

// Pop closes the innermost frame, discarding its bindings. The global frame
// is never popped.
func (n *Names) Pop() {
	if len(n.frames) == 1 {
		panic(errors.AssertionFailedf("codegen: pop of the global name frame"))
	}
	n.frames = n.frames[:len(n.frames)-1]
}

// Depth returns the number of open frames, global included.
func (n *Names) Depth() int {
	return len(n.frames)
}

// Bind declares name in the innermost frame and returns its identifier.
// Binding the same name and kind twice in one frame returns the same
// identifier; binding it in a nested frame shadows the outer binding with a
// distinct identifier.
func (n *Names) Bind(name string, kind NameKind) string {
	return n.bindIn(n.frames[len(n.frames)-1], name, kind)
}

// BindGlobal declares name in the outermost frame.
func (n *Names) BindGlobal(name string, kind NameKind) string {
	return n.bindIn(n.frames[0], name, kind)
}

func (n *Names) bindIn(f *frame, name string, kind NameKind) string {
	key := nameKey{name: name, kind: kind}
	if ident, ok := f.bindings[key]; ok {
		return ident
	}
	ident := n.distinct(Sanitize(name), f == n.frames[0])
	f.bindings[key] = ident
	f.idents[ident] = true
	n.issued[ident] = true
	return ident
}

// DistinctName allocates a fresh identifier in the innermost frame without
// a logical binding (temporaries such as comprehension variables).
func (n *Names) DistinctName(base string) string {
	ident := n.distinct(Sanitize(base), len(n.frames) == 1)
	n.frames[len(n.frames)-1].idents[ident] = true
	n.issued[ident] = true
	return ident
}

// Resolve finds the identifier of name in the nearest enclosing frame.
func (n *Names) Resolve(name string, kind NameKind) (string, error) {
	key := nameKey{name: name, kind: kind}
	for i := len(n.frames) - 1; i >= 0; i-- {
		if ident, ok := n.frames[i].bindings[key]; ok {
			return ident, nil
		}
	}
	return "", errors.Wrapf(errors.ErrUnresolvedName, "%s %q", kind, name)
}

// ResolveGlobal finds the identifier of name in the outermost frame only.
func (n *Names) ResolveGlobal(name string, kind NameKind) (string, error) {
	if ident, ok := n.frames[0].bindings[nameKey{name: name, kind: kind}]; ok {
		return ident, nil
	}
	return "", errors.Wrapf(errors.ErrUnresolvedName, "global %s %q", kind, name)
}

// IsGlobal reports whether ident was allocated in the outermost frame.
func (n *Names) IsGlobal(ident string) bool {
	return n.frames[0].idents[ident]
}

// distinct returns base, or base with the smallest free numeric suffix.
// Global identifiers also avoid everything issued earlier in the pass.
func (n *Names) distinct(base string, global bool) string {
	if !n.taken(base, global) {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !n.taken(candidate, global) {
			return candidate
		}
	}
}

func (n *Names) taken(ident string, global bool) bool {
	if n.reserved[ident] || (global && n.issued[ident]) {
		return true
	}
	for _, f := range n.frames {
		if f.idents[ident] {
			return true
		}
	}
	return false
}

// Sanitize turns an arbitrary block-language name into a legal identifier:
// letters, digits and underscores only, not starting with a digit.
func Sanitize(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r == '_' || (r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))):
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	ident := sb.String()
	if ident == "" {
		return "unnamed"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		return "my_" + ident
	}
	return ident
}
