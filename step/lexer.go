package step

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

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenMarker
	tokenKeyword
	tokenUserKeyword
	tokenInteger
	tokenReal
	tokenString
	tokenBinary
	tokenEnum
	tokenEntityRef
	tokenConstantRef
	tokenSymbol
)

// token is a lexical token of an exchange file. For strings, text is the
// decoded value. For enumerations and references it is the name or number
// without delimiters. Everything else keeps its source spelling.
type token struct {
	kind   tokenKind
	text   string
	offset int
	end    int
}

// section markers that contain characters not allowed in keywords
var markers = []string{"END-ISO-10303-21", "ISO-10303-21"}

type stepLex struct {
	data    []byte
	pos     int
	info    *ast.FileInfo
	handler *reporter.Handler

	start int
}

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

func newLexer(in io.Reader, filename string, handler *reporter.Handler) (*stepLex, error) {
	br := bufio.NewReader(in)
	marker, err := br.Peek(3)
	if err == nil && bytes.Equal(marker, utf8Bom) {
		_, _ = br.Discard(3)
	}
	contents, err := io.ReadAll(br)
	if err != nil {
		return nil, err
	}
	return &stepLex{
		data:    contents,
		info:    ast.NewFileInfo(filename, contents),
		handler: handler,
	}, nil
}

func (l *stepLex) tokenize() ([]token, error) {
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

func (l *stepLex) peekByte(n int) byte {
	if l.pos+n >= len(l.data) {
		return 0
	}
	return l.data[l.pos+n]
}

func (l *stepLex) newLine() {
	l.info.AddLine(l.pos)
}

func (l *stepLex) lex() (token, error) {
	for {
		l.start = l.pos
		if l.pos >= len(l.data) {
			return l.token(tokenEOF, ""), nil
		}
		c := l.data[l.pos]

		switch c {
		case '\n':
			l.pos++
			l.newLine()
			continue
		case ' ', '\t', '\r', '\f', '\v', 0:
			l.pos++
			continue
		case '/':
			if l.peekByte(1) == '*' {
				if !l.skipComment() {
					return token{}, l.errorf("comment never terminates, unexpected EOF")
				}
				continue
			}
		}

		for _, m := range markers {
			if bytes.HasPrefix(l.data[l.pos:], []byte(m)) {
				l.pos += len(m)
				return l.token(tokenMarker, m), nil
			}
		}

		switch {
		case isAlpha(c):
			l.pos++
			l.readWord()
			return l.token(tokenKeyword, string(l.data[l.start:l.pos])), nil
		case c == '!' && isAlpha(l.peekByte(1)):
			l.pos++
			l.readWord()
			return l.token(tokenUserKeyword, string(l.data[l.start+1:l.pos])), nil
		case isDigit(c), (c == '+' || c == '-') && isDigit(l.peekByte(1)):
			l.pos++
			return l.readNumber()
		case c == '#' && isDigit(l.peekByte(1)):
			l.pos++
			l.readDigits()
			text := string(l.data[l.start+1 : l.pos])
			if _, err := strconv.ParseInt(text, 10, 64); err != nil {
				return token{}, l.errorf("entity instance name out of range: #%s", text)
			}
			return l.token(tokenEntityRef, text), nil
		case c == '#' && isAlpha(l.peekByte(1)):
			l.pos++
			l.readWord()
			return l.token(tokenConstantRef, string(l.data[l.start+1:l.pos])), nil
		case c == '.' && isAlpha(l.peekByte(1)):
			l.pos++
			l.readWord()
			if l.peekByte(0) != '.' {
				return token{}, l.errorf("enumeration value %s is missing its closing period", l.data[l.start:l.pos])
			}
			l.pos++
			return l.token(tokenEnum, string(l.data[l.start+1:l.pos-1])), nil
		case c == '\'':
			l.pos++
			s, err := l.readString()
			if err != nil {
				return token{}, l.addSourceError(err)
			}
			return l.token(tokenString, s), nil
		case c == '"':
			l.pos++
			return l.readBinary()
		}

		switch c {
		case '(', ')', ',', ';', '=', '$', '*':
			l.pos++
			return l.token(tokenSymbol, string(c)), nil
		}

		r, _ := utf8.DecodeRune(l.data[l.pos:])
		return token{}, l.errorf("invalid character %q", r)
	}
}

func (l *stepLex) token(kind tokenKind, text string) token {
	return token{kind: kind, text: text, offset: l.start, end: l.pos}
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (l *stepLex) readWord() {
	for l.pos < len(l.data) && (isAlpha(l.data[l.pos]) || isDigit(l.data[l.pos])) {
		l.pos++
	}
}

func (l *stepLex) readDigits() {
	for l.pos < len(l.data) && isDigit(l.data[l.pos]) {
		l.pos++
	}
}

// readNumber reads the rest of an integer or real. Reals are told apart by
// a decimal point or an exponent.
func (l *stepLex) readNumber() (token, error) {
	l.readDigits()
	isReal := false
	if l.peekByte(0) == '.' {
		isReal = true
		l.pos++
		l.readDigits()
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		n := 1
		if s := l.peekByte(1); s == '+' || s == '-' {
			n++
		}
		if isDigit(l.peekByte(n)) {
			isReal = true
			l.pos += n
			l.readDigits()
		}
	}
	text := string(l.data[l.start:l.pos])
	if isReal {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return token{}, l.errorf("invalid real value: %s", text)
		}
		return l.token(tokenReal, text), nil
	}
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return token{}, l.errorf("integer value out of range: %s", text)
	}
	return l.token(tokenInteger, text), nil
}

// readBinary reads the rest of a "..." binary literal. The leading digit is
// the number of unused bits in the first hex digit. The value is kept as the
// raw hex text.
func (l *stepLex) readBinary() (token, error) {
	begin := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '"' {
		if !isHexDigit(l.data[l.pos]) {
			return token{}, l.errorf("invalid character %q in binary literal", l.data[l.pos])
		}
		l.pos++
	}
	if l.pos >= len(l.data) {
		return token{}, l.errorf("encountered end of file before end of binary literal")
	}
	text := string(l.data[begin:l.pos])
	l.pos++
	if text == "" || text[0] < '0' || text[0] > '3' {
		return token{}, l.errorf("binary literal must start with the count of unused bits (0-3)")
	}
	return l.token(tokenBinary, text), nil
}

// readString reads the rest of a '...' string and decodes its escapes.
func (l *stepLex) readString() (string, error) {
	var buf strings.Builder
	for {
		if l.pos >= len(l.data) {
			return "", errors.New("encountered end of file before end of string literal")
		}
		c := l.data[l.pos]
		switch c {
		case '\'':
			l.pos++
			if l.peekByte(0) == '\'' {
				l.pos++
				buf.WriteByte('\'')
				continue
			}
			return buf.String(), nil
		case '\n':
			// line breaks written inside long strings are not part of the value
			l.pos++
			l.newLine()
			continue
		case '\r':
			l.pos++
			continue
		case '\\':
			if err := l.readEscape(&buf); err != nil {
				return "", err
			}
			continue
		}
		r, sz := utf8.DecodeRune(l.data[l.pos:])
		if r == utf8.RuneError && sz <= 1 {
			return "", fmt.Errorf("invalid UTF8 at offset %d: %x", l.pos, c)
		}
		buf.WriteRune(r)
		l.pos += sz
	}
}

func (l *stepLex) readEscape(buf *strings.Builder) error {
	escStart := l.pos
	l.pos++ // backslash
	if l.pos >= len(l.data) {
		return errors.New("encountered end of file before end of string literal")
	}
	c := l.data[l.pos]
	l.pos++
	switch c {
	case '\\':
		buf.WriteByte('\\')
		return nil
	case 'n':
		buf.WriteByte('\n')
		return nil
	case 'r':
		buf.WriteByte('\r')
		return nil
	case 't':
		buf.WriteByte('\t')
		return nil
	case 'b':
		buf.WriteByte('\b')
		return nil
	case 'f':
		buf.WriteByte('\f')
		return nil
	case 'S':
		// \S\c is the character c with the high bit set
		if l.peekByte(0) != '\\' || l.pos+1 >= len(l.data) {
			break
		}
		ch := l.data[l.pos+1]
		l.pos += 2
		buf.WriteRune(rune(ch) + 0x80)
		return nil
	case 'P':
		// \PA\ selects an ISO 8859 part for \S\; only part 1 is supported
		if isAlpha(l.peekByte(0)) && l.peekByte(1) == '\\' {
			l.pos += 2
			return nil
		}
	case 'X':
		return l.readHexEscape(buf, escStart)
	}
	return fmt.Errorf("invalid escape sequence %q in string literal", l.data[escStart:l.pos])
}

// readHexEscape decodes \X\hh, \X2\hhhh...\X0\ and \X4\hhhhhhhh...\X0\.
func (l *stepLex) readHexEscape(buf *strings.Builder, escStart int) error {
	width := 0
	switch {
	case l.peekByte(0) == '\\':
		l.pos++
		if !isHexDigit(l.peekByte(0)) || !isHexDigit(l.peekByte(1)) {
			return fmt.Errorf("invalid escape sequence %q in string literal", l.data[escStart:l.pos])
		}
		v, _ := strconv.ParseUint(string(l.data[l.pos:l.pos+2]), 16, 8)
		l.pos += 2
		buf.WriteRune(rune(v))
		return nil
	case l.peekByte(0) == '2' && l.peekByte(1) == '\\':
		width = 4
	case l.peekByte(0) == '4' && l.peekByte(1) == '\\':
		width = 8
	default:
		return fmt.Errorf("invalid escape sequence %q in string literal", l.data[escStart:l.pos])
	}
	l.pos += 2
	for {
		if bytes.HasPrefix(l.data[l.pos:], []byte(`\X0\`)) {
			l.pos += 4
			return nil
		}
		if l.pos+width > len(l.data) {
			return errors.New("encountered end of file before end of encoded characters")
		}
		hex := string(l.data[l.pos : l.pos+width])
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil || v > utf8.MaxRune {
			return fmt.Errorf("invalid encoded character %q in string literal", hex)
		}
		l.pos += width
		buf.WriteRune(rune(v))
	}
}

// skipComment skips a /* ... */ comment. They do not nest.
func (l *stepLex) skipComment() bool {
	l.pos += 2
	for l.pos < len(l.data) {
		switch {
		case l.data[l.pos] == '\n':
			l.pos++
			l.newLine()
		case l.data[l.pos] == '*' && l.peekByte(1) == '/':
			l.pos += 2
			return true
		default:
			l.pos++
		}
	}
	return false
}

func (l *stepLex) errorf(format string, args ...any) reporter.ErrorWithPos {
	return l.addSourceError(fmt.Errorf(format, args...))
}

func (l *stepLex) addSourceError(err error) reporter.ErrorWithPos {
	ewp := reporter.Error(l.info.SourcePos(l.start), err)
	_ = l.handler.HandleError(ewp)
	return ewp
}
