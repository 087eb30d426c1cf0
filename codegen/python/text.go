package python

import (
	"strconv"
	"strings"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
)

// textJoin has dedicated forms for up to two operands; longer joins go
// through a comprehension over a list display.
func (g *Generator) textJoin(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	parts, err := positional(p, b, "ADD", b.Items, codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}

	switch len(parts) {
	case 0:
		return codegen.Atom(emptyString), nil
	case 1:
		return codegen.Atom("str(" + parts[0] + ")"), nil
	case 2:
		return codegen.NewExpr("str("+parts[0]+") + str("+parts[1]+")", codegen.OrderAdditive), nil
	}

	var code string
	err = p.Scoped(func() error {
		tmp := p.Names.DistinctName("item")
		code = "''.join([str(" + tmp + ") for " + tmp + " in [" + strings.Join(parts, ", ") + "]])"
		return nil
	})
	return codegen.NewExpr(code, codegen.OrderMember), err
}

func (g *Generator) textAppend(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return "", err
	}
	ident, err := resolveVariable(p, name)
	if err != nil {
		return "", err
	}
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderNone, emptyString)
	if err != nil {
		return "", err
	}
	p.NoteAssignment(ident)
	return ident + " = str(" + ident + ") + str(" + text + ")\n", nil
}

func (g *Generator) textLength(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "VALUE", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom("len(" + text + ")"), nil
}

func (g *Generator) textIsEmpty(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "VALUE", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr("not len("+text+")", codegen.OrderLogicalNot), nil
}

// textEndString takes the first or last NUM characters.
func (g *Generator) textEndString(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	if b.FieldOr("END", "FIRST") == "LAST" {
		n, err := p.ValueToCode(b, "NUM", codegen.OrderUnarySign, "1")
		if err != nil {
			return codegen.Expr{}, err
		}
		return codegen.NewExpr(text+"[-"+n+":]", codegen.OrderMember), nil
	}
	n, err := p.ValueToCode(b, "NUM", codegen.OrderNone, "1")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(text+"[:"+n+"]", codegen.OrderMember), nil
}

func (g *Generator) textIndexOf(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	method := "find"
	if b.FieldOr("END", "FIRST") == "LAST" {
		method = "rfind"
	}
	return g.find(p, b, "VALUE", "FIND", method)
}

func (g *Generator) textStartsAt(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	return g.find(p, b, "TEXT", "PIECE", "find")
}

// find renders a 1-based substring position, 0 when absent.
func (g *Generator) find(p *codegen.Pass, b *blocks.Block, textSlot, pieceSlot, method string) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, textSlot, codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	piece, err := p.ValueToCode(b, pieceSlot, codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(text+"."+method+"("+piece+") + 1", codegen.OrderAdditive), nil
}

func (g *Generator) textStartsWith(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	piece, err := p.ValueToCode(b, "PIECE", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(text+".startswith("+piece+")", codegen.OrderMember), nil
}

var caseMethods = map[string]string{
	"UPCASE":   "upper",
	"DOWNCASE": "lower",
}

func (g *Generator) textChangeCase(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	op := b.FieldOr("OP", "UPCASE")
	method, ok := caseMethods[op]
	if !ok {
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "unknown case change %q", op)
	}
	return g.textMethod(p, b, method)
}

// textMethod renders TEXT.method().
func (g *Generator) textMethod(p *codegen.Pass, b *blocks.Block, method string) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(text+"."+method+"()", codegen.OrderMember), nil
}

// textPrompt asks for input through a helper that works on Python 2 and 3.
func (g *Generator) textPrompt(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	in := p.IndentUnit()
	helper := p.Helpers.Ensure("text_prompt", func(name string) string {
		return lines(
			"def "+name+"(msg):",
			in+"try:",
			in+in+"return raw_input(msg)",
			in+"except NameError:",
			in+in+"return input(msg)",
		)
	})

	code := helper + "(" + quote(b.FieldOr("TEXT", "")) + ")"
	if b.FieldOr("TYPE", "TEXT") == "NUMBER" {
		code = "float(" + code + ")"
	}
	return codegen.Atom(code), nil
}

// comparisons maps compare modes to operators. Both text and logic compare
// blocks use it; text blocks say EQUAL where logic blocks say EQ.
var comparisons = map[string]string{
	"EQ":    "==",
	"EQUAL": "==",
	"NEQ":   "!=",
	"LT":    "<",
	"LTE":   "<=",
	"GT":    ">",
	"GTE":   ">=",
}

// compare renders a relational comparison. Operands bind tighter than any
// comparison so Python never chains them.
func (g *Generator) compare(p *codegen.Pass, b *blocks.Block, leftSlot, rightSlot, fallback string) (codegen.Expr, error) {
	mode := b.FieldOr("OP", "EQ")
	op, ok := comparisons[mode]
	if !ok {
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "unknown comparison %q", mode)
	}
	left, err := p.ValueToCode(b, leftSlot, codegen.OrderBitwiseOr, fallback)
	if err != nil {
		return codegen.Expr{}, err
	}
	right, err := p.ValueToCode(b, rightSlot, codegen.OrderBitwiseOr, fallback)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(left+" "+op+" "+right, codegen.OrderRelational), nil
}

func (g *Generator) textContains(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderBitwiseOr, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	piece, err := p.ValueToCode(b, "PIECE", codegen.OrderBitwiseOr, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(piece+" in "+text, codegen.OrderRelational), nil
}

// textSegment takes LENGTH characters starting at the 1-based START. Literal
// bounds fold into a single slice.
func (g *Generator) textSegment(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	start, err := zeroBased(p, b, "START")
	if err != nil {
		return codegen.Expr{}, err
	}
	length, err := p.ValueToCode(b, "LENGTH", codegen.OrderNone, "1")
	if err != nil {
		return codegen.Expr{}, err
	}

	s, startLiteral := codegen.IntegerLiteral(start)
	n, lengthLiteral := codegen.IntegerLiteral(length)
	switch {
	case startLiteral && lengthLiteral && s >= 0 && n >= 0:
		if s == 0 {
			return codegen.NewExpr(text+"[:"+length+"]", codegen.OrderMember), nil
		}
		return codegen.NewExpr(text+"["+start+":"+strconv.Itoa(s+n)+"]", codegen.OrderMember), nil
	case startLiteral && s == 0:
		return codegen.NewExpr(text+"[:"+length+"]", codegen.OrderMember), nil
	}
	return codegen.NewExpr(text+"["+start+":][:"+length+"]", codegen.OrderMember), nil
}

func (g *Generator) textReplaceAll(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderMember, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	segment, err := p.ValueToCode(b, "SEGMENT", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	replacement, err := p.ValueToCode(b, "REPLACEMENT", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(text+".replace("+segment+", "+replacement+")", codegen.OrderMember), nil
}

func (g *Generator) textPrint(p *codegen.Pass, b *blocks.Block) (string, error) {
	text, err := p.ValueToCode(b, "TEXT", codegen.OrderNone, emptyString)
	if err != nil {
		return "", err
	}
	return "print(" + text + ")\n", nil
}
