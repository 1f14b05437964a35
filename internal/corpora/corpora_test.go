package corpora

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsLines(t *testing.T) {
	t.Parallel()

	got := "package x\n\nvar (\n\ta    = 1\n\tbcd  = 2\n)\n"
	assert.Empty(t, ContainsLines(got, "a = 1\n\n  bcd = 2\n"))
	assert.Empty(t, ContainsLines(got, ""))

	msg := ContainsLines(got, "a = 1\nc = 3\n")
	assert.Contains(t, msg, "missing lines:\n  c = 3\n")
}

func TestDefaultCompare(t *testing.T) {
	t.Parallel()

	assert.Empty(t, defaultCompare("a\nb\n", "a\nb\n"))
	msg := defaultCompare("a\nc\n", "a\nb\n")
	assert.Contains(t, msg, "--- want")
	assert.Contains(t, msg, "\033[1;91m-b\033[0m")
	assert.Contains(t, msg, "\033[1;92m+c\033[0m")
}
