package parser

import (
	"github.com/J-F-Liu/iso-10303/ast"
)

var relOps = map[string]ast.Op{
	"=":    ast.OpEqual,
	"<>":   ast.OpNotEqual,
	"<":    ast.OpLess,
	">":    ast.OpGreater,
	"<=":   ast.OpLessOrEqual,
	">=":   ast.OpGreaterOrEqual,
	":=:":  ast.OpInstanceEqual,
	":<>:": ast.OpInstanceNotEqual,
	"in":   ast.OpIn,
	"like": ast.OpLike,
}

var addOps = map[string]ast.Op{
	"+":   ast.OpAdd,
	"-":   ast.OpSub,
	"or":  ast.OpOr,
	"xor": ast.OpXor,
}

var mulOps = map[string]ast.Op{
	"*":   ast.OpMul,
	"/":   ast.OpDiv,
	"div": ast.OpIntDiv,
	"mod": ast.OpMod,
	"and": ast.OpAnd,
	"||":  ast.OpConcat,
}

// operator returns the operator of the next token if it is in ops. Word
// operators are identifiers and symbolic ones are symbols.
func (p *parser) operator(ops map[string]ast.Op) (ast.Op, bool) {
	tok := p.peek()
	if tok.kind != tokenIdent && tok.kind != tokenSymbol {
		return ast.OpInvalid, false
	}
	op, ok := ops[tok.text]
	return op, ok
}

// parseExpr parses expression = simple_expression [rel_op simple_expression].
func (p *parser) parseExpr() (ast.Expr, error) {
	x, err := p.parseSimpleExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.operator(relOps)
		if !ok {
			return x, nil
		}
		p.next()
		y, err := p.parseSimpleExpr()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: op, X: x, Y: y}
	}
}

func (p *parser) parseSimpleExpr() (ast.Expr, error) {
	x, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.operator(addOps)
		if !ok {
			return x, nil
		}
		p.next()
		y, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: op, X: x, Y: y}
	}
}

func (p *parser) parseTerm() (ast.Expr, error) {
	x, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.operator(mulOps)
		if !ok {
			return x, nil
		}
		p.next()
		y, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: op, X: x, Y: y}
	}
}

// parseFactor parses simple_factor [** simple_factor]; ** associates to the
// right.
func (p *parser) parseFactor() (ast.Expr, error) {
	x, err := p.parseSimpleFactor()
	if err != nil {
		return nil, err
	}
	if p.acceptSymbol("**") {
		y, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Op: ast.OpPower, X: x, Y: y}, nil
	}
	return x, nil
}

func (p *parser) parseSimpleFactor() (ast.Expr, error) {
	tok := p.peek()
	var op ast.Op
	switch {
	case tok.kind == tokenSymbol && tok.text == "+":
		op = ast.OpAdd
	case tok.kind == tokenSymbol && tok.text == "-":
		op = ast.OpSub
	case tok.kind == tokenIdent && tok.text == "not":
		op = ast.OpNot
	}
	if op != ast.OpInvalid {
		p.next()
		x, err := p.parseSimpleFactor()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, X: x, Position: p.posOf(tok)}, nil
	}

	switch {
	case p.isSymbol("("):
		p.next()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(")"); err != nil {
			return nil, err
		}
		return p.parseQualifiers(x)
	case p.isSymbol("["):
		return p.parseAggregateInit()
	case p.isSymbol("{"):
		return p.parseInterval()
	case p.isKeyword("query"):
		return p.parseQuery()
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	pos := p.posOf(tok)
	var x ast.Expr
	switch tok.kind {
	case tokenInteger:
		x = &ast.Literal{Kind: ast.IntegerLiteral, Text: tok.text, Position: pos}
	case tokenReal:
		x = &ast.Literal{Kind: ast.RealLiteral, Text: tok.text, Position: pos}
	case tokenString:
		x = &ast.Literal{Kind: ast.StringLiteral, Text: tok.text, Position: pos}
	case tokenBinary:
		x = &ast.Literal{Kind: ast.BinaryLiteral, Text: tok.text, Position: pos}
	case tokenSymbol:
		if tok.text != "?" {
			return nil, p.unexpected("expression")
		}
		x = &ast.Literal{Kind: ast.IndeterminateLiteral, Text: "?", Position: pos}
	case tokenIdent:
		switch {
		case tok.text == "true" || tok.text == "false" || tok.text == "unknown":
			x = &ast.Literal{Kind: ast.LogicalLiteral, Text: tok.text, Position: pos}
		case reserved[tok.text]:
			return nil, p.unexpected("expression")
		default:
			x = &ast.Ident{Name: tok.text, Position: pos}
		}
	default:
		return nil, p.unexpected("expression")
	}
	p.next()
	if _, ok := x.(*ast.Literal); ok {
		return x, nil
	}
	return p.parseQualifiers(x)
}

// parseQualifiers parses any calls, .attr, \group and [index] qualifiers
// following x.
func (p *parser) parseQualifiers(x ast.Expr) (ast.Expr, error) {
	for {
		switch {
		case p.isSymbol("("):
			p.next()
			call := &ast.Call{Func: x}
			if !p.isSymbol(")") {
				for {
					arg, err := p.parseExpr()
					if err != nil {
						return nil, err
					}
					call.Args = append(call.Args, arg)
					if !p.acceptSymbol(",") {
						break
					}
				}
			}
			if err := p.expectSymbol(")"); err != nil {
				return nil, err
			}
			x = call
		case p.isSymbol("."):
			p.next()
			name, _, err := p.expectName()
			if err != nil {
				return nil, err
			}
			x = &ast.Attr{X: x, Name: name}
		case p.isSymbol("\\"):
			p.next()
			name, _, err := p.expectName()
			if err != nil {
				return nil, err
			}
			x = &ast.Group{X: x, Entity: name}
		case p.isSymbol("["):
			p.next()
			idx := &ast.Index{X: x}
			var err error
			if idx.Lo, err = p.parseSimpleExpr(); err != nil {
				return nil, err
			}
			if p.acceptSymbol(":") {
				if idx.Hi, err = p.parseSimpleExpr(); err != nil {
					return nil, err
				}
			}
			if err := p.expectSymbol("]"); err != nil {
				return nil, err
			}
			x = idx
		default:
			return x, nil
		}
	}
}

func (p *parser) parseAggregateInit() (ast.Expr, error) {
	start := p.next() // [
	agg := &ast.AggregateInit{Position: p.posOf(start)}
	if p.acceptSymbol("]") {
		return agg, nil
	}
	for {
		var el ast.AggregateElement
		var err error
		if el.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
		if p.acceptSymbol(":") {
			if el.Repeat, err = p.parseExpr(); err != nil {
				return nil, err
			}
		}
		agg.Elements = append(agg.Elements, el)
		if !p.acceptSymbol(",") {
			break
		}
	}
	if err := p.expectSymbol("]"); err != nil {
		return nil, err
	}
	return agg, nil
}

// parseInterval parses { low op item op high } where op is < or <=.
func (p *parser) parseInterval() (ast.Expr, error) {
	start := p.next() // {
	iv := &ast.Interval{Position: p.posOf(start)}
	var err error
	if iv.Lo, err = p.parseSimpleExpr(); err != nil {
		return nil, err
	}
	if iv.LoOp, err = p.parseIntervalOp(); err != nil {
		return nil, err
	}
	if iv.Item, err = p.parseSimpleExpr(); err != nil {
		return nil, err
	}
	if iv.HiOp, err = p.parseIntervalOp(); err != nil {
		return nil, err
	}
	if iv.Hi, err = p.parseSimpleExpr(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("}"); err != nil {
		return nil, err
	}
	return iv, nil
}

func (p *parser) parseIntervalOp() (ast.Op, error) {
	switch {
	case p.acceptSymbol("<"):
		return ast.OpLess, nil
	case p.acceptSymbol("<="):
		return ast.OpLessOrEqual, nil
	}
	return ast.OpInvalid, p.unexpected(`"<" or "<="`)
}

// parseQuery parses QUERY ( variable <* aggregate | condition ).
func (p *parser) parseQuery() (ast.Expr, error) {
	start := p.next() // QUERY
	q := &ast.Query{Position: p.posOf(start)}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	q.Var = name
	if err := p.expectSymbol("<*"); err != nil {
		return nil, err
	}
	if q.Aggregate, err = p.parseSimpleExpr(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("|"); err != nil {
		return nil, err
	}
	if q.Cond, err = p.parseExpr(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	return q, nil
}
