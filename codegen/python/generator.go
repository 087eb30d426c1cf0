// Package python lowers block trees to Python source.
//
// Every supported block type is one case of the switches in Expression and
// Statement; anything else aborts the pass with errors.ErrUnknownBlockType.
// Output targets Python 3 and stays runnable on Python 2 where the block
// language allows it (see Options.PythonVersion).
package python

import (
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
	"github.com/teranos/blockgen/logger"
)

// DefaultIndent is four spaces, per PEP 8.
const DefaultIndent = "    "

// Options configures the Python target.
type Options struct {
	// Indent is one level of block indentation. Empty means DefaultIndent.
	Indent string

	// Header is emitted verbatim above the program, e.g. a "# generated" banner.
	Header string

	// PythonVersion is the interpreter the program must run on. Nil means
	// any Python 3.
	PythonVersion *semver.Version
}

// Generator implements codegen.Generator for Python. It holds only options,
// so one Generator may serve concurrent Generate calls.
type Generator struct {
	opts Options
}

// NewGenerator creates a new Python generator
func NewGenerator(opts Options) *Generator {
	if opts.Indent == "" {
		opts.Indent = DefaultIndent
	}
	return &Generator{opts: opts}
}

// Language returns "python"
func (g *Generator) Language() string {
	return "python"
}

// FileExtension returns "py"
func (g *Generator) FileExtension() string {
	return "py"
}

// NewPass starts a pass bound to this generator's template table, for
// callers that render blocks one at a time.
func (g *Generator) NewPass() *codegen.Pass {
	return codegen.NewPass(g, reservedWords, g.opts.Indent)
}

// Generate renders the top-level blocks into one program. Global
// declarations come first, then procedure definitions, then everything
// else, each group in input order.
func (g *Generator) Generate(roots []*blocks.Block) (*codegen.Result, error) {
	start := time.Now()
	p := g.NewPass()

	if err := hoist(p, roots); err != nil {
		return nil, err
	}

	var globals, procedures, rest []*blocks.Block
	for _, root := range roots {
		if root == nil {
			continue
		}
		switch root.Type {
		case blocks.GlobalDeclaration:
			globals = append(globals, root)
		case blocks.ProceduresDefNoReturn, blocks.ProceduresDefReturn:
			procedures = append(procedures, root)
		default:
			rest = append(rest, root)
		}
	}

	var sections []string
	for _, group := range [][]*blocks.Block{globals, procedures, rest} {
		for _, root := range group {
			code, err := g.renderRoot(p, root)
			if err != nil {
				logger.Debugw("Generation failed",
					logger.FieldLanguage, g.Language(),
					logger.FieldError, err)
				return nil, err
			}
			if code != "" {
				sections = append(sections, code)
			}
		}
	}

	result := p.Result(g.Language(), g.opts.Header, strings.Join(sections, "\n\n"))
	logger.Debugw("Generated program",
		logger.FieldLanguage, g.Language(),
		logger.FieldCount, len(roots),
		logger.FieldHelper, len(result.Helpers),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return result, nil
}

// hoist binds global variables and procedure names in the outermost frame
// so they resolve regardless of where they appear.
func hoist(p *codegen.Pass, roots []*blocks.Block) error {
	for _, root := range roots {
		for cur := root; cur != nil; cur = cur.Next {
			switch cur.Type {
			case blocks.GlobalDeclaration:
				name, err := requiredField(cur, "NAME")
				if err != nil {
					return codegen.WrapBlock(cur, "", err)
				}
				p.Names.BindGlobal(name, codegen.KindVariable)
			case blocks.ProceduresDefNoReturn, blocks.ProceduresDefReturn:
				name, err := requiredField(cur, "NAME")
				if err != nil {
					return codegen.WrapBlock(cur, "", err)
				}
				p.Names.BindGlobal(name, codegen.KindProcedure)
			}
		}
	}
	return nil
}

func (g *Generator) renderRoot(p *codegen.Pass, root *blocks.Block) (string, error) {
	if root.Type.IsStatement() {
		return p.BlockToCode(root)
	}
	e, err := p.Expression(root)
	if err != nil {
		return "", err
	}
	// A loose expression block on the canvas still evaluates.
	return e.Code, nil
}

// Expression renders a value block.
func (g *Generator) Expression(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	switch b.Type {
	// Lists
	case blocks.ListsCreateEmpty:
		return codegen.Atom(emptyList), nil
	case blocks.ListsCreateWith:
		return g.listsCreateWith(p, b)
	case blocks.ListsRepeat:
		return g.listsRepeat(p, b)
	case blocks.ListsLength:
		return g.listsLength(p, b)
	case blocks.ListsIsEmpty:
		return g.listsIsEmpty(p, b)
	case blocks.ListsIndexOf, blocks.ListsPositionIn:
		return g.listsIndexOf(p, b)
	case blocks.ListsGetIndex:
		return g.subscript(p, b, "VALUE", "AT")
	case blocks.ListsSelectItem:
		return g.subscript(p, b, "LIST", "NUM")
	case blocks.ListsCopy:
		return g.listsCopy(p, b)
	case blocks.ListsIsIn:
		return g.listsIsIn(p, b)
	case blocks.ListsPickRandomItem:
		return g.listsPickRandomItem(p, b)
	case blocks.ListsIsList:
		return g.listsIsList(p, b)

	// Text
	case blocks.Text:
		return codegen.Atom(quote(b.FieldOr("TEXT", ""))), nil
	case blocks.TextJoin:
		return g.textJoin(p, b)
	case blocks.TextLength:
		return g.textLength(p, b)
	case blocks.TextIsEmpty:
		return g.textIsEmpty(p, b)
	case blocks.TextEndString:
		return g.textEndString(p, b)
	case blocks.TextIndexOf:
		return g.textIndexOf(p, b)
	case blocks.TextStartsAt:
		return g.textStartsAt(p, b)
	case blocks.TextStartsWith:
		return g.textStartsWith(p, b)
	case blocks.TextCharAt:
		return g.subscript(p, b, "VALUE", "AT")
	case blocks.TextChangeCase:
		return g.textChangeCase(p, b)
	case blocks.TextPrompt:
		return g.textPrompt(p, b)
	case blocks.TextCompare:
		return g.compare(p, b, "TEXT1", "TEXT2", emptyString)
	case blocks.TextTrim:
		return g.textMethod(p, b, "strip")
	case blocks.TextSplitAtSpace:
		return g.textMethod(p, b, "split")
	case blocks.TextContains:
		return g.textContains(p, b)
	case blocks.TextSegment:
		return g.textSegment(p, b)
	case blocks.TextReplaceAll:
		return g.textReplaceAll(p, b)

	// Variables
	case blocks.VariablesGet:
		return g.variablesGet(p, b)
	case blocks.LexicalVariableGet:
		return g.lexicalVariableGet(p, b)
	case blocks.LocalDeclarationExpression:
		return g.localDeclarationExpression(p, b)

	// Math, logic
	case blocks.MathNumber:
		return g.mathNumber(b)
	case blocks.MathArithmetic:
		return g.mathArithmetic(p, b)
	case blocks.LogicBoolean:
		return g.logicBoolean(b)
	case blocks.LogicNull:
		return codegen.Atom("None"), nil
	case blocks.LogicNegate:
		return g.logicNegate(p, b)
	case blocks.LogicOperation:
		return g.logicOperation(p, b)
	case blocks.LogicCompare:
		return g.compare(p, b, "A", "B", "0")

	// Procedures
	case blocks.ProceduresCallReturn:
		return g.procedureCall(p, b)
	}

	if b.Type.IsStatement() {
		return codegen.Expr{}, errors.WithHint(
			errors.NewInvalidRequestError("statement block %s cannot be used as a value", b.Type),
			"move the block into a statement slot",
		)
	}
	return codegen.Expr{}, codegen.UnknownBlockType(b.Type)
}

// Statement renders a statement block as newline-terminated lines.
func (g *Generator) Statement(p *codegen.Pass, b *blocks.Block) (string, error) {
	switch b.Type {
	// Lists
	case blocks.ListsSetIndex:
		return g.assignIndex(p, b, "LIST", "AT", "TO")
	case blocks.ListsReplaceItem:
		return g.assignIndex(p, b, "LIST", "NUM", "ITEM")
	case blocks.ListsAddItems:
		return g.listsAddItems(p, b)
	case blocks.ListsInsertItem:
		return g.listsInsertItem(p, b)
	case blocks.ListsRemoveItem:
		return g.listsRemoveItem(p, b)
	case blocks.ListsAppendList:
		return g.listsAppendList(p, b)

	// Text
	case blocks.TextAppend:
		return g.textAppend(p, b)
	case blocks.TextPrint:
		return g.textPrint(p, b)

	// Variables
	case blocks.VariablesSet:
		return g.variablesSet(p, b)
	case blocks.GlobalDeclaration:
		return g.globalDeclaration(p, b)
	case blocks.LexicalVariableSet:
		return g.lexicalVariableSet(p, b)
	case blocks.LocalDeclarationStatement:
		return g.localDeclarationStatement(p, b)

	// Control
	case blocks.ControlsIf:
		return g.controlsIf(p, b)
	case blocks.ControlsForEach:
		return g.controlsForEach(p, b)

	// Procedures
	case blocks.ProceduresDefNoReturn, blocks.ProceduresDefReturn:
		return g.procedureDef(p, b)
	case blocks.ProceduresCallNoReturn:
		e, err := g.procedureCall(p, b)
		if err != nil {
			return "", err
		}
		return e.Code + "\n", nil
	}

	// An expression block in a statement chain is an expression statement.
	e, err := g.Expression(p, b)
	if err != nil {
		return "", err
	}
	return e.Code + "\n", nil
}

// body renders nested statements one level deeper, or pass when empty.
func body(p *codegen.Pass, code string) string {
	if strings.TrimSpace(code) == "" {
		return p.IndentUnit() + "pass"
	}
	return p.Indent(code)
}

// requiredField returns a non-empty field value or an ErrMalformedField.
func requiredField(b *blocks.Block, name string) (string, error) {
	v, ok := b.Field(name)
	if !ok || strings.TrimSpace(v) == "" {
		return "", errors.Wrapf(errors.ErrMalformedField, "%s field %s is empty", b.Type, name)
	}
	return v, nil
}

// legacyDivision reports whether "/" needs the future import to divide
// like Python 3.
func (g *Generator) legacyDivision() bool {
	return g.opts.PythonVersion != nil && g.opts.PythonVersion.Major() < 3
}
