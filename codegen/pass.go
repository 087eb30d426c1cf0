package codegen

import (
	"strings"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/logger"
)

// Templates renders single blocks for one target language. Implementations
// call back into the Pass for child slots.
type Templates interface {
	// Expression renders a value-producing block.
	Expression(p *Pass, b *blocks.Block) (Expr, error)
	// Statement renders a statement block as newline-terminated lines.
	Statement(p *Pass, b *blocks.Block) (string, error)
}

// function tracks global identifiers written inside one procedure body.
type function struct {
	globals []string
	seen    map[string]bool
}

// Pass is the state of one generation run: the scope stack, the helper
// cache and the template table. A Pass is not safe for concurrent use;
// concurrent generations each create their own.
type Pass struct {
	Names   *Names
	Helpers *Helpers

	templates Templates
	indent    string
	functions []*function
}

// NewPass starts a generation run with a fresh resolver and helper cache.
func NewPass(templates Templates, reserved []string, indent string) *Pass {
	names := NewNames(reserved)
	return &Pass{
		Names:     names,
		Helpers:   NewHelpers(names),
		templates: templates,
		indent:    indent,
	}
}

// ValueToCode renders the child in slot for a context requiring min,
// parenthesizing it if it binds more loosely. An empty slot renders as
// fallback.
func (p *Pass) ValueToCode(b *blocks.Block, slot string, min Order, fallback string) (string, error) {
	child := b.Value(slot)
	if child == nil {
		return fallback, nil
	}
	e, err := p.expression(child, slot)
	if err != nil {
		return "", err
	}
	return Parenthesize(e, min), nil
}

// Value renders the child in slot as a raw fragment. ok is false when the
// slot is empty.
func (p *Pass) Value(b *blocks.Block, slot string) (e Expr, ok bool, err error) {
	child := b.Value(slot)
	if child == nil {
		return Expr{}, false, nil
	}
	e, err = p.expression(child, slot)
	return e, err == nil, err
}

// Expression renders a standalone value block.
func (p *Pass) Expression(b *blocks.Block) (Expr, error) {
	return p.expression(b, "")
}

func (p *Pass) expression(b *blocks.Block, slot string) (Expr, error) {
	trace(b, slot)
	e, err := p.templates.Expression(p, b)
	if err != nil {
		return Expr{}, WrapBlock(b, slot, err)
	}
	return e, nil
}

// StatementToCode renders the statement chain in slot. An empty slot
// renders as "".
func (p *Pass) StatementToCode(b *blocks.Block, slot string) (string, error) {
	return p.chain(b.Statement(slot), slot)
}

// BlockToCode renders the statement chain starting at head.
func (p *Pass) BlockToCode(head *blocks.Block) (string, error) {
	return p.chain(head, "")
}

func (p *Pass) chain(head *blocks.Block, slot string) (string, error) {
	var sb strings.Builder
	for cur := head; cur != nil; cur = cur.Next {
		trace(cur, slot)
		code, err := p.templates.Statement(p, cur)
		if err != nil {
			return "", WrapBlock(cur, slot, err)
		}
		sb.WriteString(code)
	}
	return strings.TrimRight(sb.String(), " \t\n"), nil
}

func trace(b *blocks.Block, slot string) {
	if logger.Enabled(logger.OutputBlockDispatch) {
		logger.Debugw("Render block",
			logger.FieldBlockID, b.ID,
			logger.FieldBlockType, b.Type,
			logger.FieldSlot, slot)
	}
}

// Scoped runs fn inside a fresh name frame. Bindings made by fn are gone
// when Scoped returns, whether or not fn failed.
func (p *Pass) Scoped(fn func() error) error {
	p.Names.Push()
	defer p.Names.Pop()
	return fn()
}

// Function runs fn as the body of a procedure definition, in its own name
// frame, and returns the global identifiers the body assigned to in
// first-write order.
func (p *Pass) Function(fn func() error) ([]string, error) {
	p.functions = append(p.functions, &function{seen: make(map[string]bool)})
	defer func() { p.functions = p.functions[:len(p.functions)-1] }()

	if err := p.Scoped(fn); err != nil {
		return nil, err
	}
	return p.functions[len(p.functions)-1].globals, nil
}

// NoteAssignment records a write to ident. Inside a procedure body, writes
// to global identifiers are collected for a global declaration.
func (p *Pass) NoteAssignment(ident string) {
	if len(p.functions) == 0 || !p.Names.IsGlobal(ident) {
		return
	}
	f := p.functions[len(p.functions)-1]
	if f.seen[ident] {
		return
	}
	f.seen[ident] = true
	f.globals = append(f.globals, ident)
}

// InFunction reports whether rendering is inside a procedure body.
func (p *Pass) InFunction() bool {
	return len(p.functions) > 0
}

// Indent prefixes every non-empty line of code with one indent unit.
func (p *Pass) Indent(code string) string {
	if code == "" {
		return ""
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = p.indent + line
		}
	}
	return strings.Join(lines, "\n")
}

// IndentUnit returns the configured indentation string.
func (p *Pass) IndentUnit() string {
	return p.indent
}

// Result assembles the pass output around the rendered body.
func (p *Pass) Result(language, header, body string) *Result {
	return &Result{
		Language: language,
		Header:   header,
		Imports:  p.Helpers.Imports(),
		Helpers:  p.Helpers.Definitions(),
		Body:     body,
	}
}
