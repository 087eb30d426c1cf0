package python

import (
	"strings"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/codegen"
)

// globalPrefix marks a lexical reference to a global declaration.
const globalPrefix = "global "

func resolveVariable(p *codegen.Pass, name string) (string, error) {
	return p.Names.Resolve(name, codegen.KindVariable)
}

// resolveLexical resolves a lexical reference. Prefixed names only see the
// global frame; others see the nearest enclosing binding.
func resolveLexical(p *codegen.Pass, name string) (string, error) {
	if global, ok := strings.CutPrefix(name, globalPrefix); ok {
		return p.Names.ResolveGlobal(global, codegen.KindVariable)
	}
	return resolveVariable(p, name)
}

func (g *Generator) variablesGet(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return codegen.Expr{}, err
	}
	ident, err := resolveVariable(p, name)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom(ident), nil
}

// variablesSet assigns to a visible binding, or declares the variable in
// the current frame on first assignment.
func (g *Generator) variablesSet(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return "", err
	}
	value, err := p.ValueToCode(b, "VALUE", codegen.OrderNone, "0")
	if err != nil {
		return "", err
	}
	ident, err := resolveVariable(p, name)
	if err != nil {
		ident = p.Names.Bind(name, codegen.KindVariable)
	}
	p.NoteAssignment(ident)
	return ident + " = " + value + "\n", nil
}

func (g *Generator) globalDeclaration(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "NAME")
	if err != nil {
		return "", err
	}
	value, err := p.ValueToCode(b, "VALUE", codegen.OrderNone, "0")
	if err != nil {
		return "", err
	}
	ident := p.Names.BindGlobal(name, codegen.KindVariable)
	return ident + " = " + value + "\n", nil
}

func (g *Generator) lexicalVariableGet(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return codegen.Expr{}, err
	}
	ident, err := resolveLexical(p, name)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom(ident), nil
}

func (g *Generator) lexicalVariableSet(p *codegen.Pass, b *blocks.Block) (string, error) {
	name, err := requiredField(b, "VAR")
	if err != nil {
		return "", err
	}
	ident, err := resolveLexical(p, name)
	if err != nil {
		return "", err
	}
	value, err := p.ValueToCode(b, "VALUE", codegen.OrderNone, "0")
	if err != nil {
		return "", err
	}
	p.NoteAssignment(ident)
	return ident + " = " + value + "\n", nil
}

// declaration is one name/initializer pair of a local declaration block.
type declaration struct {
	ident string
	value string
}

// declare renders VAR0/DECL0, VAR1/DECL1, ... in the current frame. Each
// initializer is rendered before its own name is bound, so it sees the
// enclosing binding of that name and every earlier declaration.
func declare(p *codegen.Pass, b *blocks.Block) ([]declaration, error) {
	var decls []declaration
	for i := 0; ; i++ {
		name, ok := b.Field(blocks.Indexed("VAR", i))
		if !ok {
			return decls, nil
		}
		value, err := p.ValueToCode(b, blocks.Indexed("DECL", i), codegen.OrderNone, "0")
		if err != nil {
			return nil, err
		}
		decls = append(decls, declaration{
			ident: p.Names.Bind(name, codegen.KindVariable),
			value: value,
		})
	}
}

func (g *Generator) localDeclarationStatement(p *codegen.Pass, b *blocks.Block) (string, error) {
	var sb strings.Builder
	err := p.Scoped(func() error {
		decls, err := declare(p, b)
		if err != nil {
			return err
		}
		for _, d := range decls {
			sb.WriteString(d.ident + " = " + d.value + "\n")
		}
		stack, err := p.StatementToCode(b, "STACK")
		if err != nil {
			return err
		}
		if stack != "" {
			sb.WriteString(stack + "\n")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// localDeclarationExpression evaluates RETURN with the declarations in
// scope. Inline it becomes nested immediately-applied lambdas; in a return
// position its Body is the assignments followed by the tail's own return
// lines, so a nested declaration never yields a doubled return.
func (g *Generator) localDeclarationExpression(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	var result codegen.Expr
	err := p.Scoped(func() error {
		decls, err := declare(p, b)
		if err != nil {
			return err
		}
		tail, ok, err := p.Value(b, "RETURN")
		if err != nil {
			return err
		}
		if !ok {
			tail = codegen.Atom("None")
		}

		body := make([]string, 0, len(decls)+1)
		for _, d := range decls {
			body = append(body, d.ident+" = "+d.value)
		}
		body = append(body, tail.ReturnLines("return")...)

		if len(decls) == 0 {
			result = codegen.Expr{Code: tail.Code, Order: tail.Order, Body: body}
			return nil
		}
		code := codegen.Parenthesize(tail, codegen.OrderLambda)
		for i := len(decls) - 1; i >= 0; i-- {
			code = "(lambda " + decls[i].ident + ": " + code + ")(" + decls[i].value + ")"
		}
		result = codegen.Expr{Code: code, Order: codegen.OrderFunctionCall, Body: body}
		return nil
	})
	return result, err
}
