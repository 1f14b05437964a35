// Package cases converts identifiers between case styles: the snake_case
// of EXPRESS, the upper-case names of exchange files and the camelCase and
// PascalCase of Go.
package cases

import (
	"iter"
	"strings"
	"unicode"
)

// Case is a target case style to convert to.
type Case int

const (
	Snake  Case = iota // snake_case
	Enum               // ENUM_CASE, as used for entity names in exchange files
	Camel              // camelCase
	Pascal             // PascalCase
)

// Convert converts str to the given case.
func (c Case) Convert(str string) string {
	return Converter{Case: c}.Convert(str)
}

// Converter contains specific options for converting to a given case.
type Converter struct {
	Case Case

	// If set, word boundaries are only underscores.
	NaiveSplit bool

	// If set, runes are not lower-cased, only the first rune of each word
	// is changed.
	NoLowercase bool
}

// Convert converts str according to the options set in this converter.
func (c Converter) Convert(str string) string {
	var buf strings.Builder
	c.Append(&buf, str)
	return buf.String()
}

// Append is like [Converter.Convert], but it appends to buf.
func (c Converter) Append(buf *strings.Builder, str string) {
	words := Words(str)
	if c.NaiveSplit {
		words = strings.SplitSeq(str, "_")
	}
	switch c.Case {
	case Snake, Enum:
		joinWords(buf, words, "_", func(_, _ int, r rune) rune {
			switch {
			case c.Case == Enum:
				return unicode.ToUpper(r)
			case c.NoLowercase:
				return r
			default:
				return unicode.ToLower(r)
			}
		})
	case Camel, Pascal:
		joinWords(buf, words, "", func(word, pos int, r rune) rune {
			switch {
			case pos == 0 && (word > 0 || c.Case == Pascal):
				return unicode.ToUpper(r)
			case c.NoLowercase:
				return r
			default:
				return unicode.ToLower(r)
			}
		})
	}
}

// joinWords writes the words separated by sep, mapping every rune with
// fn, which is given the index of the word and of the rune in the word.
// Empty words are skipped but still counted.
func joinWords(buf *strings.Builder, words iter.Seq[string], sep string, fn func(word, pos int, r rune) rune) {
	i, written := 0, 0
	for w := range words {
		if w != "" && sep != "" && written > 0 {
			buf.WriteString(sep)
		}
		pos := 0
		for _, r := range w {
			buf.WriteRune(fn(i, pos, r))
			pos++
		}
		if w != "" {
			written++
		}
		i++
	}
}
