package step

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/reporter"
)

// minHeaderEntities is the number of entities every header must have:
// FILE_DESCRIPTION, FILE_NAME and FILE_SCHEMA.
const minHeaderEntities = 3

// Parse parses the exchange file in r, which is named filename. The first
// syntax error is reported to handler and aborts the parse; no partial
// result is returned. A nil handler fails on the first error.
func Parse(filename string, r io.Reader, handler *reporter.Handler) (*ExchangeFile, error) {
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	lx, err := newLexer(r, filename, handler)
	if err != nil {
		return nil, err
	}
	toks, err := lx.tokenize()
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, info: lx.info, handler: handler}
	file, err := p.parseExchangeFile()
	if err != nil {
		return nil, err
	}
	return file, handler.Error()
}

// ParseFile reads and parses the exchange file at path.
func ParseFile(path string, handler *reporter.Handler) (*ExchangeFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f, handler)
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

// isKeyword matches section keywords, which are case-sensitive.
func (p *parser) isKeyword(kw string) bool {
	tok := p.peek()
	return (tok.kind == tokenKeyword || tok.kind == tokenMarker) && tok.text == kw
}

// expectSection consumes a section keyword followed by a semicolon.
func (p *parser) expectSection(kw string) error {
	if !p.isKeyword(kw) {
		return p.unexpected(kw)
	}
	p.next()
	return p.expectSymbol(";")
}

func (p *parser) describe(tok token) string {
	switch tok.kind {
	case tokenEOF:
		return "end of file"
	case tokenString:
		return "string literal"
	case tokenKeyword, tokenMarker:
		return tok.text
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
		err = reporter.ErrInvalidSource
	}
	return err
}

func (p *parser) parseExchangeFile() (*ExchangeFile, error) {
	file := &ExchangeFile{Name: p.info.Name()}
	if err := p.expectSection("ISO-10303-21"); err != nil {
		return nil, err
	}
	if err := p.expectSection("HEADER"); err != nil {
		return nil, err
	}
	for !p.isKeyword("ENDSEC") {
		start := p.peek()
		if start.kind != tokenKeyword {
			if len(file.Header) < minHeaderEntities {
				return nil, p.unexpected("header entity")
			}
			return nil, p.unexpected("ENDSEC")
		}
		h, err := p.parseTypedParameter()
		if err != nil {
			return nil, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return nil, err
		}
		file.Header = append(file.Header, h)
	}
	if len(file.Header) < minHeaderEntities {
		return nil, p.errorf(p.peek(), "syntax error: header has %d entities, at least %d are required",
			len(file.Header), minHeaderEntities)
	}
	if err := p.expectSection("ENDSEC"); err != nil {
		return nil, err
	}

	if err := p.expectSection("DATA"); err != nil {
		return nil, err
	}
	for p.peek().kind == tokenEntityRef {
		inst, err := p.parseInstance()
		if err != nil {
			return nil, err
		}
		file.Data = append(file.Data, inst)
	}
	if err := p.expectSection("ENDSEC"); err != nil {
		return nil, err
	}
	if err := p.expectSection("END-ISO-10303-21"); err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, p.unexpected("end of file")
	}
	return file, nil
}

// parseInstance parses #id = TYPE(...); or #id = (A(...) B(...));.
func (p *parser) parseInstance() (*EntityInstance, error) {
	start := p.next()
	id, _ := strconv.ParseInt(start.text, 10, 64)
	inst := &EntityInstance{ID: id, Pos: p.posOf(start)}
	if err := p.expectSymbol("="); err != nil {
		return nil, err
	}
	if p.acceptSymbol("(") {
		for !p.acceptSymbol(")") {
			if k := p.peek().kind; k != tokenKeyword && k != tokenUserKeyword {
				return nil, p.unexpected("entity type name")
			}
			part, err := p.parseTypedParameter()
			if err != nil {
				return nil, err
			}
			inst.Values = append(inst.Values, part)
		}
		if len(inst.Values) == 0 {
			return nil, p.errorf(start, "syntax error: complex instance #%d has no parts", id)
		}
	} else {
		if k := p.peek().kind; k != tokenKeyword && k != tokenUserKeyword {
			return nil, p.unexpected("entity type name")
		}
		v, err := p.parseTypedParameter()
		if err != nil {
			return nil, err
		}
		inst.Values = []*TypedParameter{v}
	}
	return inst, p.expectSymbol(";")
}

func (p *parser) parseTypedParameter() (*TypedParameter, error) {
	name := p.next()
	params, err := p.parseList()
	if err != nil {
		return nil, err
	}
	typeName := name.text
	if name.kind == tokenUserKeyword {
		typeName = "!" + typeName
	}
	return &TypedParameter{TypeName: typeName, Parameters: params}, nil
}

// parseList parses ( parameter, ... ). The list may be empty.
func (p *parser) parseList() (List, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	list := List{}
	if p.acceptSymbol(")") {
		return list, nil
	}
	for {
		param, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		list = append(list, param)
		if !p.acceptSymbol(",") {
			break
		}
	}
	return list, p.expectSymbol(")")
}

func (p *parser) parseParameter() (Parameter, error) {
	tok := p.peek()
	switch tok.kind {
	case tokenKeyword, tokenUserKeyword:
		return p.parseTypedParameter()
	case tokenInteger:
		p.next()
		v, _ := strconv.ParseInt(tok.text, 10, 64)
		return Integer(v), nil
	case tokenReal:
		p.next()
		v, _ := strconv.ParseFloat(tok.text, 64)
		return Real(v), nil
	case tokenString:
		p.next()
		return String(tok.text), nil
	case tokenBinary:
		p.next()
		return Binary(tok.text), nil
	case tokenEnum:
		p.next()
		return Enum(tok.text), nil
	case tokenEntityRef:
		p.next()
		v, _ := strconv.ParseInt(tok.text, 10, 64)
		return EntityRef(v), nil
	case tokenConstantRef:
		p.next()
		return ConstantRef(tok.text), nil
	case tokenSymbol:
		switch tok.text {
		case "(":
			return p.parseList()
		case "$":
			p.next()
			return Null{}, nil
		case "*":
			p.next()
			return Omitted{}, nil
		}
	}
	return nil, p.unexpected("parameter")
}

// String renders the instance the way it would be written in a file.
func (e *EntityInstance) String() string {
	if len(e.Values) == 1 {
		return fmt.Sprintf("#%d=%s;", e.ID, e.Values[0])
	}
	s := fmt.Sprintf("#%d=(", e.ID)
	for _, v := range e.Values {
		s += v.String()
	}
	return s + ");"
}
