package codegen

// Order is the binding strength of an expression's outermost operator.
// Values are totally ordered from tightest (OrderAtomic) to loosest
// (OrderNone); a smaller Order binds more tightly.
type Order int

const (
	OrderAtomic Order = iota // literals, names
	OrderCollection
	OrderMember       // a.b, a[i]
	OrderFunctionCall // f(x)
	OrderExponentiation
	OrderUnarySign // -x, +x
	OrderMultiplicative
	OrderAdditive
	OrderBitwiseShift
	OrderBitwiseAnd
	OrderBitwiseXor
	OrderBitwiseOr
	OrderRelational // <, ==, in, is
	OrderLogicalNot
	OrderLogicalAnd
	OrderLogicalOr
	OrderConditional
	OrderLambda
	OrderNone // no constraint
)

var orderNames = [...]string{
	OrderAtomic:         "atomic",
	OrderCollection:     "collection",
	OrderMember:         "member",
	OrderFunctionCall:   "function_call",
	OrderExponentiation: "exponentiation",
	OrderUnarySign:      "unary_sign",
	OrderMultiplicative: "multiplicative",
	OrderAdditive:       "additive",
	OrderBitwiseShift:   "bitwise_shift",
	OrderBitwiseAnd:     "bitwise_and",
	OrderBitwiseXor:     "bitwise_xor",
	OrderBitwiseOr:      "bitwise_or",
	OrderRelational:     "relational",
	OrderLogicalNot:     "logical_not",
	OrderLogicalAnd:     "logical_and",
	OrderLogicalOr:      "logical_or",
	OrderConditional:    "conditional",
	OrderLambda:         "lambda",
	OrderNone:           "none",
}

func (o Order) String() string {
	if o < OrderAtomic || o > OrderNone {
		return "invalid"
	}
	return orderNames[o]
}

// Satisfies reports whether an expression of order o can appear unwrapped
// where the context requires at least min.
func (o Order) Satisfies(min Order) bool {
	return o <= min
}

// Tighter returns the next tighter order, or OrderAtomic.
func (o Order) Tighter() Order {
	if o <= OrderAtomic {
		return OrderAtomic
	}
	return o - 1
}

// Parenthesize returns e's code as it must appear in a context that
// requires min: unchanged if e binds at least that tightly, grouped otherwise.
func Parenthesize(e Expr, min Order) string {
	if e.Order.Satisfies(min) {
		return e.Code
	}
	return "(" + e.Code + ")"
}

// Expr is a rendered expression fragment.
type Expr struct {
	Code  string
	Order Order

	// Body, when non-nil, is an equivalent statement sequence whose last
	// line already returns the value. Consumers in a return position use it
	// instead of prefixing Code with a return keyword.
	Body []string
}

// NewExpr returns an expression fragment with the given outermost order.
func NewExpr(code string, order Order) Expr {
	return Expr{Code: code, Order: order}
}

// Atom returns an atomic expression fragment.
func Atom(code string) Expr {
	return Expr{Code: code, Order: OrderAtomic}
}

// ReturnLines renders e as statements ending in a return, using the
// structural Body when present.
func (e Expr) ReturnLines(keyword string) []string {
	if e.Body != nil {
		return e.Body
	}
	return []string{keyword + " " + e.Code}
}
