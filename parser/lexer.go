package parser

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/reporter"
)

type runeReader struct {
	data []byte
	pos  int
	err  error
	mark int
}

func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.err != nil {
		return 0, 0, rr.err
	}
	if rr.pos == len(rr.data) {
		rr.err = io.EOF
		return 0, 0, rr.err
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	if r == utf8.RuneError {
		rr.err = fmt.Errorf("invalid UTF8 at offset %d: %x", rr.pos, rr.data[rr.pos])
		return 0, 0, rr.err
	}
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) offset() int {
	return rr.pos
}

func (rr *runeReader) unreadRune(sz int) {
	newPos := rr.pos - sz
	if newPos < rr.mark {
		panic("unread past mark")
	}
	rr.pos = newPos
	rr.err = nil
}

func (rr *runeReader) setMark() {
	rr.mark = rr.pos
}

func (rr *runeReader) getMark() string {
	return string(rr.data[rr.mark:rr.pos])
}

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenInteger
	tokenReal
	tokenString
	tokenBinary
	tokenSymbol
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "end of file"
	case tokenIdent:
		return "identifier"
	case tokenInteger:
		return "integer literal"
	case tokenReal:
		return "real literal"
	case tokenString:
		return "string literal"
	case tokenBinary:
		return "binary literal"
	default:
		return "symbol"
	}
}

// token is a lexical token. For identifiers, text is the lower-cased name
// (EXPRESS is case-insensitive); for strings it is the decoded value; for
// everything else it is the source spelling.
type token struct {
	kind   tokenKind
	text   string
	offset int
	end    int
}

type expressLex struct {
	input   *runeReader
	info    *ast.FileInfo
	handler *reporter.Handler

	prevOffset int
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

func newLexer(in io.Reader, filename string, handler *reporter.Handler) (*expressLex, error) {
	br := bufio.NewReader(in)

	// if file has UTF8 byte order marker preface, consume it
	marker, err := br.Peek(3)
	if err == nil && bytes.Equal(marker, utf8Bom) {
		_, _ = br.Discard(3)
	}

	contents, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	return &expressLex{
		input:   &runeReader{data: contents},
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}, nil
}

// multi-character symbols, longest first
var symbols = []string{
	":<>:", ":=:",
	":=", "<=", ">=", "<>", "<*", "||", "**",
	"(", ")", "[", "]", "{", "}", ",", ";", ":", ".", "\\",
	"+", "-", "*", "/", "=", "<", ">", "|", "?", "@", "&",
}

func (l *expressLex) maybeNewLine(r rune) {
	if r == '\n' {
		l.info.AddLine(l.input.offset())
	}
}

func (l *expressLex) prev() ast.SourcePos {
	return l.info.SourcePos(l.prevOffset)
}

// tokenize scans the whole input. The returned slice always ends with a
// tokenEOF token.
func (l *expressLex) tokenize() ([]token, error) {
	var toks []token
	for {
		tok, err := l.lex()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokenEOF {
			return toks, nil
		}
	}
}

func (l *expressLex) lex() (token, error) {
	for {
		l.input.setMark()
		l.prevOffset = l.input.offset()

		c, _, err := l.input.readRune()
		if err == io.EOF {
			return l.token(tokenEOF, ""), nil
		} else if err != nil {
			return token{}, l.addSourceError(err)
		}

		if strings.ContainsRune("\n\r\t\f\v ", c) {
			// skip whitespace
			l.maybeNewLine(c)
			continue
		}

		if c == '-' && l.peekIs('-') {
			l.skipToEndOfLineComment()
			continue
		}

		if c == '(' && l.peekIs('*') {
			if ok := l.skipToEndOfBlockComment(); !ok {
				return token{}, l.addSourceError(errors.New("block comment never terminates, unexpected EOF"))
			}
			continue
		}

		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			l.readIdentifier()
			return l.token(tokenIdent, strings.ToLower(l.input.getMark())), nil
		}

		if c >= '0' && c <= '9' {
			isReal := l.readNumber()
			text := l.input.getMark()
			if isReal {
				if _, err := strconv.ParseFloat(text, 64); err != nil {
					return token{}, l.addSourceError(numError(err, "real", text))
				}
				return l.token(tokenReal, text), nil
			}
			if _, err := strconv.ParseInt(text, 10, 64); err != nil {
				return token{}, l.addSourceError(numError(err, "integer", text))
			}
			return l.token(tokenInteger, text), nil
		}

		switch c {
		case '\'':
			str, err := l.readSimpleString()
			if err != nil {
				return token{}, l.addSourceError(err)
			}
			return l.token(tokenString, str), nil
		case '"':
			str, err := l.readEncodedString()
			if err != nil {
				return token{}, l.addSourceError(err)
			}
			return l.token(tokenString, str), nil
		case '%':
			if err := l.readBinary(); err != nil {
				return token{}, l.addSourceError(err)
			}
			return l.token(tokenBinary, l.input.getMark()), nil
		}

		rest := l.input.data[l.prevOffset:]
		for _, sym := range symbols {
			if bytes.HasPrefix(rest, []byte(sym)) {
				l.input.pos = l.prevOffset + len(sym)
				return l.token(tokenSymbol, sym), nil
			}
		}

		return token{}, l.addSourceError(fmt.Errorf("invalid character %q", c))
	}
}

func (l *expressLex) token(kind tokenKind, text string) token {
	return token{kind: kind, text: text, offset: l.prevOffset, end: l.input.offset()}
}

func (l *expressLex) peekIs(want rune) bool {
	c, sz, err := l.input.readRune()
	if err != nil {
		l.input.err = nil
		return false
	}
	if c == want {
		return true
	}
	l.input.unreadRune(sz)
	return false
}

// readNumber consumes the rest of an integer or real literal and reports
// whether it is a real. A real has a fractional part and/or an exponent.
func (l *expressLex) readNumber() bool {
	l.readDigits()
	isReal := false
	if c, sz, err := l.input.readRune(); err == nil {
		if c == '.' {
			isReal = true
			l.readDigits()
		} else {
			l.input.unreadRune(sz)
		}
	} else {
		l.input.err = nil
	}

	c, sz, err := l.input.readRune()
	if err != nil {
		l.input.err = nil
		return isReal
	}
	if c != 'e' && c != 'E' {
		l.input.unreadRune(sz)
		return isReal
	}
	size := sz
	c, sz, err = l.input.readRune()
	if err == nil && (c == '+' || c == '-') {
		size += sz
		c, sz, err = l.input.readRune()
	}
	if err != nil || c < '0' || c > '9' {
		// not an exponent after all
		if err == nil {
			size += sz
		}
		l.input.err = nil
		l.input.unreadRune(size)
		return isReal
	}
	l.readDigits()
	return true
}

func (l *expressLex) readDigits() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			l.input.err = nil
			return
		}
		if c < '0' || c > '9' {
			l.input.unreadRune(sz)
			return
		}
	}
}

func numError(err error, kind, s string) error {
	var ne *strconv.NumError
	if !errors.As(err, &ne) {
		return err
	}
	if errors.Is(ne.Err, strconv.ErrRange) {
		return fmt.Errorf("value out of range for %s: %s", kind, s)
	}
	// syntax error
	return fmt.Errorf("invalid syntax in %s value: %s", kind, s)
}

func (l *expressLex) readIdentifier() {
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			l.input.err = nil
			return
		}
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			l.input.unreadRune(sz)
			return
		}
	}
}

// readSimpleString reads the remainder of a '...' string. A doubled quote
// stands for a single one.
func (l *expressLex) readSimpleString() (string, error) {
	var buf strings.Builder
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			if err == io.EOF {
				err = errors.New("encountered end of file before end of string literal")
			}
			return "", err
		}
		l.maybeNewLine(c)
		if c == '\'' {
			if l.peekIs('\'') {
				buf.WriteRune('\'')
				continue
			}
			return buf.String(), nil
		}
		buf.WriteRune(c)
	}
}

// readEncodedString reads the remainder of a "..." string, where each
// character is given as 8 hex digits (4 octets of ISO 10646).
func (l *expressLex) readEncodedString() (string, error) {
	var buf strings.Builder
	var hex []rune
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			if err == io.EOF {
				err = errors.New("encountered end of file before end of encoded string literal")
			}
			return "", err
		}
		if c == '"' {
			break
		}
		if !isHexDigit(c) {
			return "", fmt.Errorf("invalid character %q in encoded string literal", c)
		}
		hex = append(hex, c)
		if len(hex) == 8 {
			v, _ := strconv.ParseUint(string(hex), 16, 32)
			if v > utf8.MaxRune {
				return "", fmt.Errorf("encoded character out of range: %s", string(hex))
			}
			buf.WriteRune(rune(v))
			hex = hex[:0]
		}
	}
	if len(hex) != 0 {
		return "", errors.New("encoded string literal length must be a multiple of 8 hex digits")
	}
	return buf.String(), nil
}

func (l *expressLex) readBinary() error {
	n := 0
	for {
		c, sz, err := l.input.readRune()
		if err != nil {
			l.input.err = nil
			break
		}
		if c != '0' && c != '1' {
			l.input.unreadRune(sz)
			break
		}
		n++
	}
	if n == 0 {
		return errors.New("binary literal must have at least one bit")
	}
	return nil
}

func isHexDigit(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *expressLex) skipToEndOfLineComment() {
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			l.input.err = nil
			return
		}
		if c == '\n' {
			l.info.AddLine(l.input.offset())
			return
		}
	}
}

// skipToEndOfBlockComment skips a (* ... *) comment, which may nest.
func (l *expressLex) skipToEndOfBlockComment() bool {
	depth := 1
	for {
		c, _, err := l.input.readRune()
		if err != nil {
			return false
		}
		l.maybeNewLine(c)
		switch {
		case c == '(' && l.peekIs('*'):
			depth++
		case c == '*' && l.peekIs(')'):
			depth--
			if depth == 0 {
				return true
			}
		}
	}
}

func (l *expressLex) addSourceError(err error) reporter.ErrorWithPos {
	ewp, ok := err.(reporter.ErrorWithPos)
	if !ok {
		ewp = reporter.Error(l.prev(), err)
	}
	_ = l.handler.HandleError(ewp)
	return ewp
}
