package python

import (
	"strings"

	"github.com/teranos/blockgen/blocks"
	"github.com/teranos/blockgen/codegen"
)

// positional renders the value slots prefix0..prefix{n-1}.
func positional(p *codegen.Pass, b *blocks.Block, prefix string, n int, min codegen.Order, fallback string) ([]string, error) {
	items := make([]string, n)
	for i := range items {
		code, err := p.ValueToCode(b, blocks.Indexed(prefix, i), min, fallback)
		if err != nil {
			return nil, err
		}
		items[i] = code
	}
	return items, nil
}

func (g *Generator) listsCreateWith(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	items, err := positional(p, b, "ADD", b.Items, codegen.OrderNone, "None")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom("[" + strings.Join(items, ", ") + "]"), nil
}

func (g *Generator) listsRepeat(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	item, err := p.ValueToCode(b, "ITEM", codegen.OrderNone, "None")
	if err != nil {
		return codegen.Expr{}, err
	}
	count, err := p.ValueToCode(b, "NUM", codegen.OrderMultiplicative, "0")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr("["+item+"] * "+count, codegen.OrderMultiplicative), nil
}

func (g *Generator) listsLength(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom("len(" + list + ")"), nil
}

func (g *Generator) listsIsEmpty(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr("not len("+list+")", codegen.OrderLogicalNot), nil
}

// listsIndexOf searches for ITEM in LIST. END selects the first or the last
// occurrence; both helpers answer with a 1-based position, or 0.
func (g *Generator) listsIndexOf(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	item, err := p.ValueToCode(b, "ITEM", codegen.OrderNone, emptyString)
	if err != nil {
		return codegen.Expr{}, err
	}

	var helper string
	if b.FieldOr("END", "FIRST") == "LAST" {
		helper = p.Helpers.Ensure("last_index", searchHelper(p, "len(my_list) - my_list[::-1].index(elem)"))
	} else {
		helper = p.Helpers.Ensure("first_index", searchHelper(p, "my_list.index(elem) + 1"))
	}
	return codegen.Atom(helper + "(" + list + ", " + item + ")"), nil
}

func searchHelper(p *codegen.Pass, found string) func(string) string {
	in := p.IndentUnit()
	return func(name string) string {
		return lines(
			"def "+name+"(my_list, elem):",
			in+"try:",
			in+in+"return "+found,
			in+"except ValueError:",
			in+in+"return 0",
		)
	}
}

// subscript renders target[index] with a 1-based index slot.
func (g *Generator) subscript(p *codegen.Pass, b *blocks.Block, targetSlot, indexSlot string) (codegen.Expr, error) {
	target, err := p.ValueToCode(b, targetSlot, codegen.OrderMember, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	index, err := zeroBased(p, b, indexSlot)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(target+"["+index+"]", codegen.OrderMember), nil
}

// zeroBased renders a 1-based index slot as a 0-based index expression.
func zeroBased(p *codegen.Pass, b *blocks.Block, slot string) (string, error) {
	index, err := p.ValueToCode(b, slot, codegen.OrderAdditive, "1")
	if err != nil {
		return "", err
	}
	return codegen.ZeroBasedIndex(index), nil
}

func (g *Generator) assignIndex(p *codegen.Pass, b *blocks.Block, listSlot, indexSlot, valueSlot string) (string, error) {
	list, err := p.ValueToCode(b, listSlot, codegen.OrderMember, emptyList)
	if err != nil {
		return "", err
	}
	index, err := zeroBased(p, b, indexSlot)
	if err != nil {
		return "", err
	}
	value, err := p.ValueToCode(b, valueSlot, codegen.OrderNone, "None")
	if err != nil {
		return "", err
	}
	return list + "[" + index + "] = " + value + "\n", nil
}

// listsAddItems appends ITEM0..ITEM{n-1}: one item with append, several
// with extend.
func (g *Generator) listsAddItems(p *codegen.Pass, b *blocks.Block) (string, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderMember, emptyList)
	if err != nil {
		return "", err
	}
	items, err := positional(p, b, "ITEM", b.Items, codegen.OrderNone, "None")
	if err != nil {
		return "", err
	}
	if len(items) == 1 {
		return list + ".append(" + items[0] + ")\n", nil
	}
	return list + ".extend([" + strings.Join(items, ", ") + "])\n", nil
}

func (g *Generator) listsInsertItem(p *codegen.Pass, b *blocks.Block) (string, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderMember, emptyList)
	if err != nil {
		return "", err
	}
	index, err := zeroBased(p, b, "INDEX")
	if err != nil {
		return "", err
	}
	item, err := p.ValueToCode(b, "ITEM", codegen.OrderNone, "None")
	if err != nil {
		return "", err
	}
	return list + ".insert(" + index + ", " + item + ")\n", nil
}

func (g *Generator) listsRemoveItem(p *codegen.Pass, b *blocks.Block) (string, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderMember, emptyList)
	if err != nil {
		return "", err
	}
	index, err := zeroBased(p, b, "INDEX")
	if err != nil {
		return "", err
	}
	return list + ".pop(" + index + ")\n", nil
}

func (g *Generator) listsAppendList(p *codegen.Pass, b *blocks.Block) (string, error) {
	dst, err := p.ValueToCode(b, "LIST0", codegen.OrderMember, emptyList)
	if err != nil {
		return "", err
	}
	src, err := p.ValueToCode(b, "LIST1", codegen.OrderNone, emptyList)
	if err != nil {
		return "", err
	}
	return dst + ".extend(" + src + ")\n", nil
}

func (g *Generator) listsCopy(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.Atom("list(" + list + ")"), nil
}

func (g *Generator) listsIsIn(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	item, err := p.ValueToCode(b, "ITEM", codegen.OrderBitwiseOr, "None")
	if err != nil {
		return codegen.Expr{}, err
	}
	list, err := p.ValueToCode(b, "LIST", codegen.OrderBitwiseOr, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr(item+" in "+list, codegen.OrderRelational), nil
}

func (g *Generator) listsPickRandomItem(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	list, err := p.ValueToCode(b, "LIST", codegen.OrderNone, emptyList)
	if err != nil {
		return codegen.Expr{}, err
	}
	p.Helpers.RequireImport("import random")
	return codegen.Atom("random.choice(" + list + ")"), nil
}

func (g *Generator) listsIsList(p *codegen.Pass, b *blocks.Block) (codegen.Expr, error) {
	item, err := p.ValueToCode(b, "ITEM", codegen.OrderNone, "None")
	if err != nil {
		return codegen.Expr{}, err
	}
	return codegen.NewExpr("type("+item+") == list", codegen.OrderRelational), nil
}

// lines joins helper source lines with a trailing newline.
func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}
