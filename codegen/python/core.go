package python

import (
	"strconv"
	"strings"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/codegen"
	"github.com/teranos/blockgen/errors"
)

func (g *Generator) mathNumber(b *blocks.Block) (codegen.Expr, error) {
	num := strings.TrimSpace(b.FieldOr("NUM", "0"))
	if _, err := strconv.ParseFloat(num, 64); err != nil {
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "%q is not a number", num)
	}
	if strings.HasPrefix(num, "-") {
		return codegen.NewExpr(num, codegen.OrderUnarySign), nil
	}
	return codegen.Atom(num), nil
}

type arithmetic struct {
	op    string
	order codegen.Order
	// tighterRight means a right operand of equal order needs grouping.
	tighterRight bool
	// tighterLeft is set for right-associative operators.
	tighterLeft bool
}

var arithmetics = map[string]arithmetic{
	"ADD":      {op: " + ", order: codegen.OrderAdditive},
	"MINUS":    {op: " - ", order: codegen.OrderAdditive, tighterRight: true},
	"MULTIPLY": {op: " * ", order: codegen.OrderMultiplicative},
	"DIVIDE":   {op: " / ", order: codegen.OrderMultiplicative, tighterRight: true},
	"POWER":    {op: " ** ", order: codegen.OrderExponentiation, tighterLeft: true},
}

func (g *Generator) mathArithmetic(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	mode := b.FieldOr("OP", "ADD")
	a, ok := arithmetics[mode]
	if !ok {
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "unknown arithmetic operator %q", mode)
	}

	leftOrder, rightOrder := a.order, a.order
	if a.tighterLeft {
		leftOrder = leftOrder.Tighter()
	}
	if a.tighterRight {
		rightOrder = rightOrder.Tighter()
	}

	left, err := p.ValueToCode(b, "A", leftOrder, "0")
	if err != nil {
		return codegen.Expr{}, err
	}
	right, err := p.ValueToCode(b, "B", rightOrder, "0")
	if err != nil {
		return codegen.Expr{}, err
	}
	if mode == "DIVIDE" && g.legacyDivision() {
		p.Helpers.RequireImport("from __future__ import division")
	}
	return codegen.NewExpr(left+a.op+right, a.order), nil
}

func (g *Generator) logicBoolean(b *blocks.Block) (codegen.Expr, error) {
	switch v := b.FieldOr("BOOL", "TRUE"); v {
	case "TRUE":
		return codegen.Atom("True"), nil
	case "FALSE":
		return codegen.Atom("False"), nil
	default:
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "%q is not a boolean", v)
	}
}

func (g *Generator) logicNegate(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	operand, err := p.ValueToCode(b, "BOOL", codegen.OrderLogicalNot, "True")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr("not "+operand, codegen.OrderLogicalNot), nil
}

func (g *Generator) logicOperation(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	var op string
	var order codegen.Order
	switch mode := b.FieldOr("OP", "AND"); mode {
	case "AND":
		op, order = " and ", codegen.OrderLogicalAnd
	case "OR":
		op, order = " or ", codegen.OrderLogicalOr
	default:
		return codegen.Expr{}, errors.Wrapf(errors.ErrMalformedField, "unknown logic operator %q", mode)
	}

	left, err := p.ValueToCode(b, "A", order, "False")
	if err != nil {
		return codegen.Expr{}, err
	}
	right, err := p.ValueToCode(b, "B", order, "False")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(left+op+right, order), nil
}

// controlsIf renders IF0/DO0 ... IF{n-1}/DO{n-1} as an if/elif chain, plus
// an else arm when the ELSE slot holds statements.
func (g *Generator) controlsIf(p *codegen.Pass, b *blocks.Block) (string, error) {
	arms := b.Items
	if arms < 1 {
		arms = 1
	}

	var sb strings.Builder
	for i := 0; i < arms; i++ {
		cond, err := p.ValueToCode(b, blocks.Indexed("IF", i), codegen.OrderNone, "False")
		if err != nil {
			return "", err
		}
		branch, err := p.StatementToCode(b, blocks.Indexed("DO", i))
		if err != nil {
			return "", err
		}
		keyword := "elif "
		if i == 0 {
			keyword = "if "
		}
		sb.WriteString(keyword + cond + ":\n" + body(p, branch) + "\n")
	}

	if b.Statement("ELSE") != nil {
		branch, err := p.StatementToCode(b, "ELSE")
		if err != nil {
			return "", err
		}
		sb.WriteString("else:\n" + body(p, branch) + "\n")
	}
	return sb.String(), nil
}

// controlsForEach binds the loop variable in its own frame; the list is
// evaluated outside it.
func (g *Generator) controlsForEach(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return "", err
	}
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return "", err
	}

	var code string
	err = p.Scoped(func() error {
		ident := p.Names.Bind(name, codegen.KindVariable)
		loop, err := p.StatementToCode(b, "DO")
		if err != nil {
			return err
		}
		code = "for " + ident + " in " + list + ":\n" + body(p, loop) + "\n"
		return nil
	})
	return code, err
}

// parameters returns VAR0, VAR1, ... until the first absent field.
func parameters(b *blocks.Block) []string {
	var params []string
	for i := 0; ; i++ {
		name, ok := b.Field(blocks.Indexed("VAR", i))
		if !ok {
			return params
		}
		params = append(params, name)
	}
}

// procedureDef renders a def. Parameters live in the procedure's frame;
// globals the body assigns are declared global at the top.
func (g *Generator) procedureDef(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "NAME")
	if err != nil {
		return "", err
	}
	ident := p.Names.BindGlobal(name, codegen.KindProcedure)

	var params, stmts []string
	globals, err := p.Function(func() error {
		for _, param := range parameters(b) {
			params = append(params, p.Names.Bind(param, codegen.KindVariable))
		}

		stack, err := p.StatementToCode(b, "STACK")
		if err != nil {
			return err
		}
		if stack != "" {
			stmts = append(stmts, stack)
		}

		if b.Type == blocks.ProceduresDefReturn {
			ret, ok, err := p.Value(b, "RETURN")
			if err != nil {
				return err
			}
			if !ok {
				ret = codegen.Atom("None")
			}
			stmts = append(stmts, ret.ReturnLines("return")...)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	if len(globals) > 0 {
		stmts = append([]string{"global " + strings.Join(globals, ", ")}, stmts...)
	}
	header := "def " + ident + "(" + strings.Join(params, ", ") + "):\n"
	return header + body(p, strings.Join(stmts, "\n")) + "\n", nil
}

// procedureCall passes ARG0..ARG{n-1} to the procedure named NAME.
func (g *Generator) procedureCall(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	name, err := requiredField(b, "NAME")
	if err != nil {
		return codegen.Expr{}, err
	}
	ident, err := p.Names.Resolve(name, codegen.KindProcedure)
	if err != nil {
		return codegen.Expr{}, err
	}
	args, err := positional(p, b, "ARG", b.Items, codegen.OrderNone, "None")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom(ident + "(" + strings.Join(args, ", ") + ")"), nil
}
