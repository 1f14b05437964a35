package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/reporter"
)

// Parse parses the EXPRESS source in r, which is named filename, into an
// *ast.File. Syntax errors are reported to the given handler; the first one
// aborts the parse and no partial result is returned.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ast.File, error) {
	lx, err := newLexer(r, filename, handler)
	if err != nil {
		return nil, err
	}
	toks, err := lx.tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:    toks,
		info:    lx.info,
		handler: handler,
	}
	file, err := p.parseFile()
	if err != nil {
		return nil, err
	}
	return file, handler.Error()
}

// reserved words that can never be used as names. Only the structural ones
// matter: they are what terminates lists of names and clauses.
var reserved = map[string]bool{
	"abstract": true, "derive": true, "end_constant": true, "end_entity": true,
	"end_function": true, "end_procedure": true, "end_rule": true,
	"end_schema": true, "end_type": true, "end_subtype_constraint": true,
	"entity": true, "function": true, "inverse": true, "procedure": true,
	"rule": true, "schema": true, "subtype": true, "supertype": true,
	"type": true, "unique": true, "where": true, "constant": true,
	"subtype_constraint": true, "optional": true, "of": true,
}

type parser struct {
	toks    []token
	pos     int
	info    *ast.FileInfo
	handler *reporter.Handler
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) peekN(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) posOf(tok token) ast.SourcePos {
	return p.info.SourcePos(tok.offset)
}

func (p *parser) isKeyword(kw string) bool {
	tok := p.peek()
	return tok.kind == tokenIdent && tok.text == kw
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(kw) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) error {
	if !p.acceptKeyword(kw) {
		return p.unexpected(strings.ToUpper(kw))
	}
	return nil
}

func (p *parser) isSymbol(sym string) bool {
	tok := p.peek()
	return tok.kind == tokenSymbol && tok.text == sym
}

func (p *parser) acceptSymbol(sym string) bool {
	if p.isSymbol(sym) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expectSymbol(sym string) error {
	if !p.acceptSymbol(sym) {
		return p.unexpected(strconv.Quote(sym))
	}
	return nil
}

// isName reports whether the next token can be used as a name.
func (p *parser) isName() bool {
	tok := p.peek()
	return tok.kind == tokenIdent && !reserved[tok.text]
}

func (p *parser) expectName() (string, ast.SourcePos, error) {
	if !p.isName() {
		return "", ast.SourcePos{}, p.unexpected("identifier")
	}
	tok := p.next()
	return tok.text, p.posOf(tok), nil
}

// describe renders a token the way it is spelled in the source.
func (p *parser) describe(tok token) string {
	switch tok.kind {
	case tokenEOF:
		return "end of file"
	case tokenString:
		return "string literal"
	case tokenIdent:
		if reserved[tok.text] {
			return "keyword " + strings.ToUpper(tok.text)
		}
		return fmt.Sprintf("identifier %q", string(p.info.Data()[tok.offset:tok.end]))
	default:
		return strconv.Quote(string(p.info.Data()[tok.offset:tok.end]))
	}
}

func (p *parser) unexpected(expected string) error {
	tok := p.peek()
	return p.errorf(tok, "syntax error: expected %s, found %s", expected, p.describe(tok))
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	err := p.handler.HandleErrorf(p.posOf(tok), format, args...)
	if err == nil {
		// the reporter wants to continue, but a syntax error leaves
		// nothing sensible to continue with
		err = reporter.ErrInvalidSource
	}
	return err
}

func (p *parser) parseFile() (*ast.File, error) {
	file := &ast.File{Name: p.info.Name()}
	for p.peek().kind != tokenEOF {
		schema, err := p.parseSchema()
		if err != nil {
			return nil, err
		}
		file.Schemas = append(file.Schemas, schema)
	}
	if len(file.Schemas) == 0 {
		return nil, p.unexpected("SCHEMA")
	}
	return file, nil
}

func (p *parser) parseSchema() (*ast.Schema, error) {
	start := p.peek()
	if err := p.expectKeyword("schema"); err != nil {
		return nil, err
	}
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	schema := &ast.Schema{Name: name, Position: p.posOf(start)}
	if p.peek().kind == tokenString {
		schema.Version = p.next().text
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}

	for p.isKeyword("use") || p.isKeyword("reference") {
		iface, err := p.parseInterface()
		if err != nil {
			return nil, err
		}
		schema.Interfaces = append(schema.Interfaces, iface)
	}

	for !p.isKeyword("end_schema") {
		if p.isKeyword("constant") {
			consts, err := p.parseConstants()
			if err != nil {
				return nil, err
			}
			schema.Constants = append(schema.Constants, consts...)
			continue
		}
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		schema.Declarations = append(schema.Declarations, decl)
	}
	p.next()
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	return schema, nil
}

func (p *parser) parseInterface() (ast.Interface, error) {
	start := p.next()
	iface := ast.Interface{Kind: ast.UseFrom, Position: p.posOf(start)}
	if start.text == "reference" {
		iface.Kind = ast.ReferenceFrom
	}
	if err := p.expectKeyword("from"); err != nil {
		return iface, err
	}
	name, _, err := p.expectName()
	if err != nil {
		return iface, err
	}
	iface.Schema = name
	if p.acceptSymbol("(") {
		for {
			item, _, err := p.expectName()
			if err != nil {
				return iface, err
			}
			it := ast.InterfaceItem{Name: item}
			if p.acceptKeyword("as") {
				if it.Alias, _, err = p.expectName(); err != nil {
					return iface, err
				}
			}
			iface.Items = append(iface.Items, it)
			if !p.acceptSymbol(",") {
				break
			}
		}
		if err := p.expectSymbol(")"); err != nil {
			return iface, err
		}
	}
	return iface, p.expectSymbol(";")
}

func (p *parser) parseConstants() ([]*ast.Constant, error) {
	p.next() // CONSTANT
	var consts []*ast.Constant
	for !p.acceptKeyword("end_constant") {
		name, pos, err := p.expectName()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseInstantiableType()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(":="); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		consts = append(consts, &ast.Constant{Name: name, Type: typ, Value: value, Position: pos})
	}
	return consts, p.expectSymbol(";")
}

func (p *parser) parseDeclaration() (ast.Declaration, error) {
	switch {
	case p.isKeyword("type"):
		return p.parseTypeDef()
	case p.isKeyword("entity"):
		return p.parseEntity()
	case p.isKeyword("function"):
		return p.parseFunction()
	case p.isKeyword("procedure"):
		return p.parseProcedure()
	case p.isKeyword("rule"):
		return p.parseRule()
	case p.isKeyword("subtype_constraint"):
		return p.parseSubtypeConstraint()
	default:
		return nil, p.unexpected("declaration")
	}
}

func (p *parser) parseTypeDef() (*ast.TypeDef, error) {
	start := p.next() // TYPE
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	underlying, err := p.parseUnderlyingType()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	def := &ast.TypeDef{Name: name, Underlying: underlying, Position: p.posOf(start)}
	if p.isKeyword("where") {
		if def.Where, err = p.parseWhere(); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("end_type"); err != nil {
		return nil, err
	}
	return def, p.expectSymbol(";")
}

func (p *parser) parseEntity() (*ast.Entity, error) {
	start := p.next() // ENTITY
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	ent := &ast.Entity{Name: name, Position: p.posOf(start)}
	if err := p.parseEntityHead(ent); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}

	for p.isName() || p.isKeyword("self") {
		attrs, err := p.parseExplicitAttributes()
		if err != nil {
			return nil, err
		}
		ent.Attributes = append(ent.Attributes, attrs...)
	}
	if p.acceptKeyword("derive") {
		for p.isName() || p.isKeyword("self") {
			attr, err := p.parseDerivedAttribute()
			if err != nil {
				return nil, err
			}
			ent.Derived = append(ent.Derived, attr)
		}
	}
	if p.acceptKeyword("inverse") {
		for p.isName() || p.isKeyword("self") {
			attr, err := p.parseInverseAttribute()
			if err != nil {
				return nil, err
			}
			ent.Inverse = append(ent.Inverse, attr)
		}
	}
	if p.acceptKeyword("unique") {
		for p.isName() || p.isKeyword("self") {
			rule, err := p.parseUniqueRule()
			if err != nil {
				return nil, err
			}
			ent.Unique = append(ent.Unique, rule)
		}
	}
	if p.isKeyword("where") {
		if ent.Where, err = p.parseWhere(); err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("end_entity"); err != nil {
		return nil, err
	}
	return ent, p.expectSymbol(";")
}

// parseEntityHead parses the optional ABSTRACT/SUPERTYPE and SUBTYPE OF
// parts of an entity header.
func (p *parser) parseEntityHead(ent *ast.Entity) error {
	if p.acceptKeyword("abstract") {
		ent.Abstract = true
		p.acceptKeyword("supertype")
		if p.isKeyword("of") {
			if err := p.parseSupertypeConstraint(ent); err != nil {
				return err
			}
		}
	} else if p.acceptKeyword("supertype") {
		if err := p.parseSupertypeConstraint(ent); err != nil {
			return err
		}
	}
	if p.acceptKeyword("subtype") {
		if err := p.expectKeyword("of"); err != nil {
			return err
		}
		if err := p.expectSymbol("("); err != nil {
			return err
		}
		for {
			name, _, err := p.expectName()
			if err != nil {
				return err
			}
			ent.Supertypes = append(ent.Supertypes, name)
			if !p.acceptSymbol(",") {
				break
			}
		}
		if err := p.expectSymbol(")"); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseSupertypeConstraint(ent *ast.Entity) error {
	if err := p.expectKeyword("of"); err != nil {
		return err
	}
	if err := p.expectSymbol("("); err != nil {
		return err
	}
	expr, err := p.parseSupertypeExpr()
	if err != nil {
		return err
	}
	ent.Supertype = expr
	return p.expectSymbol(")")
}

// parseSupertypeExpr parses supertype_factor { ANDOR supertype_factor }.
func (p *parser) parseSupertypeExpr() (ast.Expr, error) {
	x, err := p.parseSupertypeFactor()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("andor") {
		y, err := p.parseSupertypeFactor()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: ast.OpAndOr, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseSupertypeFactor() (ast.Expr, error) {
	x, err := p.parseSupertypeTerm()
	if err != nil {
		return nil, err
	}
	for p.acceptKeyword("and") {
		y, err := p.parseSupertypeTerm()
		if err != nil {
			return nil, err
		}
		x = &ast.BinaryExpr{Op: ast.OpAnd, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseSupertypeTerm() (ast.Expr, error) {
	tok := p.peek()
	switch {
	case p.acceptSymbol("("):
		x, err := p.parseSupertypeExpr()
		if err != nil {
			return nil, err
		}
		return x, p.expectSymbol(")")
	case p.acceptKeyword("oneof"):
		call := &ast.Call{Func: &ast.Ident{Name: "oneof", Position: p.posOf(tok)}}
		if err := p.expectSymbol("("); err != nil {
			return nil, err
		}
		for {
			arg, err := p.parseSupertypeExpr()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.acceptSymbol(",") {
				break
			}
		}
		return call, p.expectSymbol(")")
	default:
		name, pos, err := p.expectName()
		if err != nil {
			return nil, err
		}
		return &ast.Ident{Name: name, Position: pos}, nil
	}
}

// parseAttributeDecl parses a name or a SELF\entity.attr [RENAMED name]
// redeclaration.
func (p *parser) parseAttributeDecl() (string, *ast.AttributeRef, ast.SourcePos, error) {
	if p.isKeyword("self") {
		ref, pos, err := p.parseQualifiedAttribute()
		if err != nil {
			return "", nil, pos, err
		}
		name := ref.Name
		if p.acceptKeyword("renamed") {
			if name, _, err = p.expectName(); err != nil {
				return "", nil, pos, err
			}
		}
		return name, &ref, pos, nil
	}
	name, pos, err := p.expectName()
	return name, nil, pos, err
}

// parseQualifiedAttribute parses SELF\entity.attr.
func (p *parser) parseQualifiedAttribute() (ast.AttributeRef, ast.SourcePos, error) {
	start := p.next() // SELF
	pos := p.posOf(start)
	if err := p.expectSymbol("\\"); err != nil {
		return ast.AttributeRef{}, pos, err
	}
	entity, _, err := p.expectName()
	if err != nil {
		return ast.AttributeRef{}, pos, err
	}
	if err := p.expectSymbol("."); err != nil {
		return ast.AttributeRef{}, pos, err
	}
	attr, _, err := p.expectName()
	if err != nil {
		return ast.AttributeRef{}, pos, err
	}
	return ast.AttributeRef{Entity: entity, Name: attr}, pos, nil
}

func (p *parser) parseExplicitAttributes() ([]*ast.Attribute, error) {
	var attrs []*ast.Attribute
	for {
		name, ref, pos, err := p.parseAttributeDecl()
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, &ast.Attribute{Name: name, Redeclares: ref, Position: pos})
		if !p.acceptSymbol(",") {
			break
		}
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	optional := p.acceptKeyword("optional")
	typ, err := p.parseInstantiableType()
	if err != nil {
		return nil, err
	}
	for _, a := range attrs {
		a.Type = typ
		a.Optional = optional
	}
	return attrs, p.expectSymbol(";")
}

func (p *parser) parseDerivedAttribute() (*ast.DerivedAttribute, error) {
	name, ref, pos, err := p.parseAttributeDecl()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	typ, err := p.parseInstantiableType()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(":="); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	attr := &ast.DerivedAttribute{Name: name, Redeclares: ref, Type: typ, Expr: expr, Position: pos}
	return attr, p.expectSymbol(";")
}

func (p *parser) parseInverseAttribute() (*ast.InverseAttribute, error) {
	name, _, pos, err := p.parseAttributeDecl()
	if err != nil {
		return nil, err
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	attr := &ast.InverseAttribute{Name: name, Position: pos}
	if p.isKeyword("set") || p.isKeyword("bag") {
		attr.Aggregate = strings.ToUpper(p.next().text)
		if p.isSymbol("[") {
			if attr.Bound, err = p.parseBound(); err != nil {
				return nil, err
			}
		}
		if err := p.expectKeyword("of"); err != nil {
			return nil, err
		}
	}
	if attr.Entity, _, err = p.expectName(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	if attr.For, _, err = p.expectName(); err != nil {
		return nil, err
	}
	if p.acceptSymbol(".") {
		// FOR entity.attr
		if attr.For, _, err = p.expectName(); err != nil {
			return nil, err
		}
	}
	return attr, p.expectSymbol(";")
}

func (p *parser) parseUniqueRule() (ast.UniqueRule, error) {
	var rule ast.UniqueRule
	if p.isName() && p.peekN(1).kind == tokenSymbol && p.peekN(1).text == ":" {
		rule.Label = p.next().text
		p.next()
	}
	for {
		var ref ast.AttributeRef
		if p.isKeyword("self") {
			var err error
			if ref, _, err = p.parseQualifiedAttribute(); err != nil {
				return rule, err
			}
		} else {
			name, _, err := p.expectName()
			if err != nil {
				return rule, err
			}
			ref.Name = name
		}
		rule.Attributes = append(rule.Attributes, ref)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return rule, p.expectSymbol(";")
}

// parseWhere parses WHERE followed by labelled domain rules. It stops at the
// first reserved word, which is the END_* of the enclosing declaration.
func (p *parser) parseWhere() ([]ast.DomainRule, error) {
	p.next() // WHERE
	var rules []ast.DomainRule
	for {
		tok := p.peek()
		if tok.kind == tokenEOF || (tok.kind == tokenIdent && reserved[tok.text]) {
			break
		}
		var rule ast.DomainRule
		if p.isName() && p.peekN(1).kind == tokenSymbol && p.peekN(1).text == ":" {
			rule.Label = p.next().text
			p.next()
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		rule.Expr = expr
		rules = append(rules, rule)
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func (p *parser) parseFunction() (*ast.Function, error) {
	start := p.next() // FUNCTION
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	fn := &ast.Function{Name: name, Position: p.posOf(start)}
	if p.isSymbol("(") {
		if fn.Params, err = p.parseParams(false); err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol(":"); err != nil {
		return nil, err
	}
	if fn.Return, err = p.parseParameterType(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	if fn.Body, err = p.skipBody(start, "end_function"); err != nil {
		return nil, err
	}
	return fn, nil
}

func (p *parser) parseProcedure() (*ast.Procedure, error) {
	start := p.next() // PROCEDURE
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	proc := &ast.Procedure{Name: name, Position: p.posOf(start)}
	if p.isSymbol("(") {
		if proc.Params, err = p.parseParams(true); err != nil {
			return nil, err
		}
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	if proc.Body, err = p.skipBody(start, "end_procedure"); err != nil {
		return nil, err
	}
	return proc, nil
}

func (p *parser) parseParams(allowVar bool) ([]ast.Param, error) {
	p.next() // (
	var params []ast.Param
	for {
		isVar := allowVar && p.acceptKeyword("var")
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
		if err := p.expectSymbol(":"); err != nil {
			return nil, err
		}
		typ, err := p.parseParameterType()
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			params = append(params, ast.Param{Name: n, Type: typ, Var: isVar})
		}
		if !p.acceptSymbol(";") {
			break
		}
	}
	return params, p.expectSymbol(")")
}

func (p *parser) parseRule() (*ast.Rule, error) {
	start := p.next() // RULE
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	rule := &ast.Rule{Name: name, Position: p.posOf(start)}
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	for {
		ent, _, err := p.expectName()
		if err != nil {
			return nil, err
		}
		rule.For = append(rule.For, ent)
		if !p.acceptSymbol(",") {
			break
		}
	}
	if err := p.expectSymbol(")"); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	if rule.Body, err = p.skipBody(start, "end_rule"); err != nil {
		return nil, err
	}
	return rule, nil
}

func (p *parser) parseSubtypeConstraint() (*ast.SubtypeConstraint, error) {
	start := p.next() // SUBTYPE_CONSTRAINT
	name, _, err := p.expectName()
	if err != nil {
		return nil, err
	}
	sc := &ast.SubtypeConstraint{Name: name, Position: p.posOf(start)}
	if err := p.expectKeyword("for"); err != nil {
		return nil, err
	}
	if sc.For, _, err = p.expectName(); err != nil {
		return nil, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return nil, err
	}
	if sc.Body, err = p.skipBody(start, "end_subtype_constraint"); err != nil {
		return nil, err
	}
	return sc, nil
}

// skipBody consumes tokens up to and including "end ;", balancing nested
// function and procedure declarations, and returns the source text in
// between.
func (p *parser) skipBody(decl token, end string) (string, error) {
	bodyStart := p.peek().offset
	var stack []string
	for {
		tok := p.peek()
		if tok.kind == tokenEOF {
			return "", p.errorf(decl, "syntax error: %s never terminates, expected %s",
				strings.ToUpper(decl.text), strings.ToUpper(end))
		}
		if tok.kind == tokenIdent {
			switch tok.text {
			case "function":
				stack = append(stack, "end_function")
			case "procedure":
				stack = append(stack, "end_procedure")
			case "end_function", "end_procedure":
				if len(stack) > 0 && stack[len(stack)-1] == tok.text {
					stack = stack[:len(stack)-1]
				} else if len(stack) == 0 && tok.text == end {
					body := strings.TrimSpace(string(p.info.Data()[bodyStart:tok.offset]))
					p.next()
					return body, p.expectSymbol(";")
				} else {
					return "", p.errorf(tok, "syntax error: unexpected %s", strings.ToUpper(tok.text))
				}
			default:
				if tok.text == end && len(stack) == 0 {
					body := strings.TrimSpace(string(p.info.Data()[bodyStart:tok.offset]))
					p.next()
					return body, p.expectSymbol(";")
				}
			}
		}
		p.next()
	}
}
