package reporter

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// TabstopWidth is the size tabstops are rendered as in snippets.
const TabstopWidth = 4

// Render writes err to w. When err carries a position and source holds the
// contents of the file it refers to, the offending line is printed below the
// message with a caret under the reported column.
func Render(w io.Writer, err error, source []byte) error {
	pos, ok := SourcePosOf(err)
	if !ok || source == nil || pos.Line <= 0 || pos.Offset > len(source) {
		_, werr := fmt.Fprintln(w, err)
		return werr
	}

	start := bytes.LastIndexByte(source[:pos.Offset], '\n') + 1
	end := bytes.IndexByte(source[pos.Offset:], '\n')
	if end < 0 {
		end = len(source)
	} else {
		end += pos.Offset
	}
	line := strings.TrimRight(string(source[start:end]), "\r")
	prefix := string(source[start:pos.Offset])

	gutter := strconv.Itoa(pos.Line)
	pad := strings.Repeat(" ", len(gutter))

	var buf strings.Builder
	fmt.Fprintln(&buf, err)
	fmt.Fprintf(&buf, "%s |\n", pad)
	fmt.Fprintf(&buf, "%s | %s\n", gutter, expandTabs(line))
	fmt.Fprintf(&buf, "%s | %s^\n", pad, strings.Repeat(" ", displayWidth(prefix)))
	_, werr := io.WriteString(w, buf.String())
	return werr
}

// displayWidth returns the number of terminal columns text occupies when it
// starts at column zero.
func displayWidth(text string) int {
	column := 0
	for text != "" {
		next := text
		tab := strings.IndexByte(text, '\t')
		if tab >= 0 {
			next, text = text[:tab], text[tab+1:]
		} else {
			text = ""
		}
		column += uniseg.StringWidth(next)
		if tab >= 0 {
			column += TabstopWidth - column%TabstopWidth
		}
	}
	return column
}

func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var out strings.Builder
	column := 0
	for _, chunk := range strings.SplitAfter(line, "\t") {
		text, tab := strings.CutSuffix(chunk, "\t")
		out.WriteString(text)
		column += uniseg.StringWidth(text)
		if tab {
			n := TabstopWidth - column%TabstopWidth
			out.WriteString(strings.Repeat(" ", n))
			column += n
		}
	}
	return out.String()
}
