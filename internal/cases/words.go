package cases

import (
	"iter"
	"unicode"
	"unicode/utf8"
)

// Words splits str into words. Underscores separate words and are dropped.
// Within a run of letters and digits a new word starts at an upper-case
// letter that is followed by a lower-case one (the "B" in "FOOBar"), or
// that ends the run after a lower-case letter (the "X" in "FooX").
func Words(str string) iter.Seq[string] {
	return func(yield func(string) bool) {
		start := -1
		var prev rune
		for i, r := range str {
			if r == '_' {
				if start >= 0 && !yield(str[start:i]) {
					return
				}
				start, prev = -1, 0
				continue
			}
			if start >= 0 && unicode.IsUpper(r) && startsWord(str[i+utf8.RuneLen(r):], prev) {
				if !yield(str[start:i]) {
					return
				}
				start = i
			}
			if start < 0 {
				start = i
			}
			prev = r
		}
		if start >= 0 {
			yield(str[start:])
		}
	}
}

// startsWord reports whether an upper-case letter preceded by prev and
// followed by rest begins a new word.
func startsWord(rest string, prev rune) bool {
	next, _ := utf8.DecodeRuneInString(rest)
	if rest == "" || next == '_' {
		return unicode.IsLower(prev)
	}
	return unicode.IsLower(next)
}
