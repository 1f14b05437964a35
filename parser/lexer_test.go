package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-F-Liu/iso-10303/reporter"
)

func lexAll(t *testing.T, src string) ([]token, *expressLex) {
	t.Helper()
	l, err := newLexer(strings.NewReader(src), "test.exp", reporter.NewHandler(nil))
	require.NoError(t, err)
	toks, err := l.tokenize()
	require.NoError(t, err)
	return toks, l
}

func TestLexer(t *testing.T) {
	t.Parallel()

	toks, l := lexAll(t, `SCHEMA Family; -- trailing comment
(* block (* nested *) still a comment *)
	x := 12 3.5 1.5E3 2e-2 'it''s' "00000041" %101 :=: :<>: <= <* ** ||;
`)

	type tk struct {
		kind tokenKind
		text string
	}
	var got []tk
	for _, tok := range toks {
		got = append(got, tk{tok.kind, tok.text})
	}
	assert.Equal(t, []tk{
		{tokenIdent, "schema"},
		{tokenIdent, "family"},
		{tokenSymbol, ";"},
		{tokenIdent, "x"},
		{tokenSymbol, ":="},
		{tokenInteger, "12"},
		{tokenReal, "3.5"},
		{tokenReal, "1.5E3"},
		{tokenReal, "2e-2"},
		{tokenString, "it's"},
		{tokenString, "A"},
		{tokenBinary, "%101"},
		{tokenSymbol, ":=:"},
		{tokenSymbol, ":<>:"},
		{tokenSymbol, "<="},
		{tokenSymbol, "<*"},
		{tokenSymbol, "**"},
		{tokenSymbol, "||"},
		{tokenSymbol, ";"},
		{tokenEOF, ""},
	}, got)

	// "x" is on line 3 after a tab
	pos := l.info.SourcePos(toks[3].offset)
	assert.Equal(t, 3, pos.Line)
	assert.Equal(t, 9, pos.Col)
}

func TestLexerIdentifierFollowedByExponentLikeText(t *testing.T) {
	t.Parallel()

	toks, _ := lexAll(t, `1e x 7.e`)
	require.Len(t, toks, 6)
	assert.Equal(t, tokenInteger, toks[0].kind)
	assert.Equal(t, "1", toks[0].text)
	assert.Equal(t, "e", toks[1].text)
	assert.Equal(t, "x", toks[2].text)
	assert.Equal(t, tokenReal, toks[3].kind)
	assert.Equal(t, "7.", toks[3].text)
}

func TestLexerErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name, src, msg string
	}{
		{name: "unterminated comment", src: "(* open", msg: "test.exp:1:1: block comment never terminates, unexpected EOF"},
		{name: "unterminated string", src: "  'abc", msg: "test.exp:1:3: encountered end of file before end of string literal"},
		{name: "bad encoded string", src: `"0041"`, msg: "test.exp:1:1: encoded string literal length must be a multiple of 8 hex digits"},
		{name: "empty binary", src: "%2", msg: "test.exp:1:1: binary literal must have at least one bit"},
		{name: "invalid char", src: "\n  $", msg: `test.exp:2:3: invalid character '$'`},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			l, err := newLexer(strings.NewReader(tc.src), "test.exp", reporter.NewHandler(nil))
			require.NoError(t, err)
			_, err = l.tokenize()
			require.Error(t, err)
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}
