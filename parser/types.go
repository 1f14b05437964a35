package parser

import (
	"strconv"

	"github.com/J-F-Liu/iso-10303/ast"
)

// parseUnderlyingType parses the right-hand side of a TYPE declaration:
// a constructed type (enumeration or select) or anything an attribute may
// have.
func (p *parser) parseUnderlyingType() (ast.DataType, error) {
	extensible := p.acceptKeyword("extensible")
	genericEntity := extensible && p.acceptKeyword("generic_entity")
	switch {
	case p.acceptKeyword("enumeration"):
		return p.parseEnumeration(extensible)
	case p.acceptKeyword("select"):
		return p.parseSelect(extensible, genericEntity)
	case extensible:
		return nil, p.unexpected("ENUMERATION or SELECT")
	default:
		return p.parseInstantiableType()
	}
}

func (p *parser) parseEnumeration(extensible bool) (ast.DataType, error) {
	enum := ast.Enum{Extensible: extensible}
	if p.acceptKeyword("of") {
		items, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		enum.Values = items
		return enum, nil
	}
	if p.acceptKeyword("based_on") {
		base, _, err := p.expectName()
		if err != nil {
			return nil, err
		}
		enum.BasedOn = base
		if p.acceptKeyword("with") {
			if enum.Values, err = p.parseNameList(); err != nil {
				return nil, err
			}
		}
		return enum, nil
	}
	if extensible {
		// EXTENSIBLE ENUMERATION with no items yet
		return enum, nil
	}
	return nil, p.unexpected("OF")
}

func (p *parser) parseSelect(extensible, genericEntity bool) (ast.DataType, error) {
	sel := ast.Select{Extensible: extensible, GenericEntity: genericEntity}
	if p.isSymbol("(") {
		types, err := p.parseNameList()
		if err != nil {
			return nil, err
		}
		sel.Types = types
		return sel, nil
	}
	if p.acceptKeyword("based_on") {
		base, _, err := p.expectName()
		if err != nil {
			return nil, err
		}
		sel.BasedOn = base
		if p.acceptKeyword("with") {
			if sel.Types, err = p.parseNameList(); err != nil {
				return nil, err
			}
		}
		return sel, nil
	}
	if extensible {
		return sel, nil
	}
	return nil, p.unexpected(`"("`)
}

// parseNameList parses ( name, name, ... ).
func (p *parser) parseNameList() ([]string, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var names []string
	for {
		name, _, err := p.expectName()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return names, p.expectSymbol(")")
}

// parseInstantiableType parses a simple type, an aggregation or a reference
// to a named type.
func (p *parser) parseInstantiableType() (ast.DataType, error) {
	tok := p.peek()
	if tok.kind != tokenIdent {
		return nil, p.unexpected("type")
	}
	switch tok.text {
	case "number":
		p.next()
		return ast.Number{}, nil
	case "integer":
		p.next()
		return ast.Integer{}, nil
	case "boolean":
		p.next()
		return ast.Boolean{}, nil
	case "logical":
		p.next()
		return ast.Logical{}, nil
	case "real":
		p.next()
		var t ast.Real
		if p.isSymbol("(") {
			n, err := p.parseWidth()
			if err != nil {
				return nil, err
			}
			t.Precision = n
		}
		return t, nil
	case "string", "binary":
		p.next()
		var width int
		var fixed bool
		if p.isSymbol("(") {
			n, err := p.parseWidth()
			if err != nil {
				return nil, err
			}
			width = n
			fixed = p.acceptKeyword("fixed")
		}
		if tok.text == "string" {
			return ast.String{Width: width, Fixed: fixed}, nil
		}
		return ast.Binary{Width: width, Fixed: fixed}, nil
	case "array":
		p.next()
		bound, err := p.parseBound()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
		t := ast.Array{Bound: bound}
		t.Optional = p.acceptKeyword("optional")
		t.Unique = p.acceptKeyword("unique")
		if t.Base, err = p.parseInstantiableType(); err != nil {
			return nil, err
		}
		return t, nil
	case "list":
		p.next()
		bound, err := p.parseOptionalBound()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
		t := ast.List{Bound: bound, Unique: p.acceptKeyword("unique")}
		if t.Base, err = p.parseInstantiableType(); err != nil {
			return nil, err
		}
		return t, nil
	case "bag", "set":
		p.next()
		bound, err := p.parseOptionalBound()
		if err != nil {
			return nil, err
		}
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
		base, err := p.parseInstantiableType()
		if err != nil {
			return nil, err
		}
		if tok.text == "bag" {
			return ast.Bag{Bound: bound, Base: base}, nil
		}
		return ast.Set{Bound: bound, Base: base}, nil
	}
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	return ast.TypeRef{Name: name}, nil
}

// parseParameterType is parseInstantiableType plus the generalized types
// only permitted for formal parameters.
func (p *parser) parseParameterType() (ast.DataType, error) {
	switch {
	case p.acceptKeyword("generic"), p.acceptKeyword("generic_entity"):
		return ast.Generic{Label: p.parseTypeLabel()}, nil
	case p.acceptKeyword("aggregate"):
		label := p.parseTypeLabel()
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
		base, err := p.parseParameterType()
		if err != nil {
			return nil, err
		}
		return ast.Aggregate{Label: label, Base: base}, nil
	case p.isKeyword("array"), p.isKeyword("list"), p.isKeyword("bag"), p.isKeyword("set"):
		return p.parseGeneralAggregate()
	}
	return p.parseInstantiableType()
}

// parseGeneralAggregate handles aggregations whose element type is itself a
// parameter type (e.g. LIST OF GENERIC:t).
func (p *parser) parseGeneralAggregate() (ast.DataType, error) {
	kw := p.next().text
	bound, err := p.parseOptionalBound()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("of"); err != nil {
		return nil, err
	}
	optional := kw == "array" && p.acceptKeyword("optional")
	unique := (kw == "array" || kw == "list") && p.acceptKeyword("unique")
	base, err := p.parseParameterType()
	if err != nil {
		return nil, err
	}
	switch kw {
	case "array":
		return ast.Array{Bound: bound, Optional: optional, Unique: unique, Base: base}, nil
	case "list":
		return ast.List{Bound: bound, Unique: unique, Base: base}, nil
	case "bag":
		return ast.Bag{Bound: bound, Base: base}, nil
	default:
		return ast.Set{Bound: bound, Base: base}, nil
	}
}

func (p *parser) parseTypeLabel() string {
	if p.isSymbol(":") && p.peekN(1).kind == tokenIdent {
		p.next()
		return p.next().text
	}
	return ""
}

// parseWidth parses a parenthesized width or precision. Only literal
// values are interpreted; anything else yields zero (unbounded).
func (p *parser) parseWidth() (int, error) {
	p.next() // (
	expr, err := p.parseSimpleExpr()
	if err != nil {
		return 0, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return 0, err
	}
	if lit, ok := expr.(*ast.Literal); ok && lit.Kind == ast.IntegerLiteral {
		n, err := strconv.Atoi(lit.Text)
		if err == nil {
			return n, nil
		}
	}
	return 0, nil
}

func (p *parser) parseOptionalBound() (ast.Bound, error) {
	if !p.isSymbol("[") {
		return ast.Bound{}, nil
	}
	return p.parseBound()
}

// parseBound parses [lo : hi].
func (p *parser) parseBound() (ast.Bound, error) {
	if err := p.expectSymbol("["); err != nil {
		return ast.Bound{}, err
	}
	lo, err := p.parseBoundValue()
	if err != nil {
		return ast.Bound{}, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return ast.Bound{}, err
	}
	hi, err := p.parseBoundValue()
	if err != nil {
		return ast.Bound{}, err
	}
	if err := p.expectSymbol("]"); err != nil {
		return ast.Bound{}, err
	}
	return ast.Bound{Present: true, Lo: lo, Hi: hi}, nil
}

func (p *parser) parseBoundValue() (ast.BoundValue, error) {
	expr, err := p.parseSimpleExpr()
	if err != nil {
		return ast.BoundValue{}, err
	}
	if lit, ok := expr.(*ast.Literal); ok {
		switch lit.Kind {
		case ast.IndeterminateLiteral:
			return ast.BoundValue{Indeterminate: true}, nil
		case ast.IntegerLiteral:
			if n, err := strconv.ParseInt(lit.Text, 10, 64); err == nil {
				return ast.BoundValue{Value: n}, nil
			}
		}
	}
	return ast.BoundValue{Expr: expr}, nil
}
