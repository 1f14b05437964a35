package ast

// Expr is a node of an EXPRESS expression. Expressions appear in domain
// rules, derived attributes, constants, bounds and supertype constraints.
// They are kept structurally and never evaluated.
type Expr interface {
	Pos() SourcePos
	expr()
}

// Op is an EXPRESS operator.
type Op int

const (
	OpInvalid Op = iota

	// relational
	OpEqual            // =
	OpNotEqual         // <>
	OpLess             // <
	OpGreater          // >
	OpLessOrEqual      // <=
	OpGreaterOrEqual   // >=
	OpInstanceEqual    // :=:
	OpInstanceNotEqual // :<>:
	OpIn               // IN
	OpLike             // LIKE

	// additive
	OpAdd // +
	OpSub // -
	OpOr  // OR
	OpXor // XOR

	// multiplicative
	OpMul    // *
	OpDiv    // /
	OpIntDiv // DIV
	OpMod    // MOD
	OpAnd    // AND
	OpConcat // ||

	OpPower // **

	// unary only
	OpNot // NOT

	// supertype expressions
	OpAndOr // ANDOR
)

var opNames = [...]string{
	OpInvalid:          "<invalid>",
	OpEqual:            "=",
	OpNotEqual:         "<>",
	OpLess:             "<",
	OpGreater:          ">",
	OpLessOrEqual:      "<=",
	OpGreaterOrEqual:   ">=",
	OpInstanceEqual:    ":=:",
	OpInstanceNotEqual: ":<>:",
	OpIn:               "IN",
	OpLike:             "LIKE",
	OpAdd:              "+",
	OpSub:              "-",
	OpOr:               "OR",
	OpXor:              "XOR",
	OpMul:              "*",
	OpDiv:              "/",
	OpIntDiv:           "DIV",
	OpMod:              "MOD",
	OpAnd:              "AND",
	OpConcat:           "||",
	OpPower:            "**",
	OpNot:              "NOT",
	OpAndOr:            "ANDOR",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return opNames[OpInvalid]
}

// LiteralKind distinguishes the literal forms.
type LiteralKind int

const (
	IntegerLiteral LiteralKind = iota + 1
	RealLiteral
	StringLiteral
	BinaryLiteral
	LogicalLiteral
	// IndeterminateLiteral is '?'.
	IndeterminateLiteral
)

// Literal is a constant value. Text holds the decoded value for strings and
// the source spelling for everything else (logical literals are lower case).
type Literal struct {
	Kind     LiteralKind
	Text     string
	Position SourcePos
}

// Ident is a bare name: an attribute, variable, constant, enumeration item,
// function or one of the built-in constants SELF, PI and CONST_E.
type Ident struct {
	Name     string
	Position SourcePos
}

type UnaryExpr struct {
	Op       Op
	X        Expr
	Position SourcePos
}

type BinaryExpr struct {
	Op   Op
	X, Y Expr
}

// Call is a function call or entity constructor.
type Call struct {
	Func Expr
	Args []Expr
}

// Attr is the qualifier X.Name.
type Attr struct {
	X    Expr
	Name string
}

// Group is the qualifier X\Entity.
type Group struct {
	X      Expr
	Entity string
}

// Index is the qualifier X[Lo] or X[Lo:Hi]. Hi is nil for single indexes.
type Index struct {
	X      Expr
	Lo, Hi Expr
}

// AggregateInit is [e1, e2:n, ...].
type AggregateInit struct {
	Elements []AggregateElement
	Position SourcePos
}

type AggregateElement struct {
	Value Expr
	// Repeat is the repetition count of "value : repeat", or nil.
	Repeat Expr
}

// Interval is {Lo op Item op Hi}.
type Interval struct {
	Lo       Expr
	LoOp     Op
	Item     Expr
	HiOp     Op
	Hi       Expr
	Position SourcePos
}

// Query is QUERY(Var <* Aggregate | Cond).
type Query struct {
	Var       string
	Aggregate Expr
	Cond      Expr
	Position  SourcePos
}

func (e *Literal) Pos() SourcePos       { return e.Position }
func (e *Ident) Pos() SourcePos         { return e.Position }
func (e *UnaryExpr) Pos() SourcePos     { return e.Position }
func (e *BinaryExpr) Pos() SourcePos    { return e.X.Pos() }
func (e *Call) Pos() SourcePos          { return e.Func.Pos() }
func (e *Attr) Pos() SourcePos          { return e.X.Pos() }
func (e *Group) Pos() SourcePos         { return e.X.Pos() }
func (e *Index) Pos() SourcePos         { return e.X.Pos() }
func (e *AggregateInit) Pos() SourcePos { return e.Position }
func (e *Interval) Pos() SourcePos      { return e.Position }
func (e *Query) Pos() SourcePos         { return e.Position }

func (*Literal) expr()       {}
func (*Ident) expr()         {}
func (*UnaryExpr) expr()     {}
func (*BinaryExpr) expr()    {}
func (*Call) expr()          {}
func (*Attr) expr()          {}
func (*Group) expr()         {}
func (*Index) expr()         {}
func (*AggregateInit) expr() {}
func (*Interval) expr()      {}
func (*Query) expr()         {}

// Inspect traverses e in depth-first order, calling fn for each node. If fn
// returns false, the children of that node are skipped.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch e := e.(type) {
	case *UnaryExpr:
		Inspect(e.X, fn)
	case *BinaryExpr:
		Inspect(e.X, fn)
		Inspect(e.Y, fn)
	case *Call:
		Inspect(e.Func, fn)
		for _, a := range e.Args {
			Inspect(a, fn)
		}
	case *Attr:
		Inspect(e.X, fn)
	case *Group:
		Inspect(e.X, fn)
	case *Index:
		Inspect(e.X, fn)
		Inspect(e.Lo, fn)
		Inspect(e.Hi, fn)
	case *AggregateInit:
		for _, el := range e.Elements {
			Inspect(el.Value, fn)
			Inspect(el.Repeat, fn)
		}
	case *Interval:
		Inspect(e.Lo, fn)
		Inspect(e.Item, fn)
		Inspect(e.Hi, fn)
	case *Query:
		Inspect(e.Aggregate, fn)
		Inspect(e.Cond, fn)
	}
}
