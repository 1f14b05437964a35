package reporter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/J-F-Liu/iso-10303/ast"
)

func TestHandlerDefaultFailsFast(t *testing.T) {
	t.Parallel()

	h := NewHandler(nil)
	pos := ast.SourcePos{Filename: "a.exp", Line: 3, Col: 7}
	err := h.HandleErrorf(pos, "unknown type %q", "lenght")
	require.Error(t, err)
	assert.Equal(t, `a.exp:3:7: unknown type "lenght"`, err.Error())

	// later errors are not reported once aborted
	err2 := h.HandleErrorf(pos, "second")
	assert.Equal(t, err, err2)
	assert.Equal(t, err, h.Error())
	assert.Equal(t, err, h.ReporterError())
}

func TestHandlerCollectsWhenReporterContinues(t *testing.T) {
	t.Parallel()

	var c Collector
	h := NewHandler(&c)
	pos := ast.UnknownPos("b.exp")
	assert.NoError(t, h.HandleErrorf(pos, "first"))
	assert.NoError(t, h.HandleErrorf(pos, "second"))
	h.HandleWarningf(pos, "just a warning")

	assert.Len(t, c.Errors, 2)
	assert.Len(t, c.Warnings, 1)
	assert.ErrorIs(t, h.Error(), ErrInvalidSource)
	assert.NoError(t, h.ReporterError())
	assert.Equal(t, "b.exp: just a warning", c.Warnings[0].Error())
}

func TestHandleErrorWithoutPositionAborts(t *testing.T) {
	t.Parallel()

	var c Collector
	h := NewHandler(&c)
	cause := errors.New("disk on fire")
	assert.Same(t, cause, h.HandleError(cause))
	assert.Empty(t, c.Errors)
	assert.Same(t, cause, h.Error())
}

func TestErrorDoesNotNestPositions(t *testing.T) {
	t.Parallel()

	inner := Errorf(ast.SourcePos{Filename: "x.stp", Line: 1, Col: 2}, "bad")
	outer := Error(ast.SourcePos{Filename: "y.stp", Line: 9, Col: 9}, inner)
	assert.Equal(t, "x.stp:1:2: bad", outer.Error())

	pos, ok := SourcePosOf(outer)
	require.True(t, ok)
	assert.Equal(t, 1, pos.Line)
	assert.Equal(t, "bad", errors.Unwrap(outer).Error())
}

func TestRender(t *testing.T) {
	t.Parallel()

	source := []byte("SCHEMA s;\nENTITY é x;\nEND_SCHEMA;\n")
	err := Errorf(ast.SourcePos{Filename: "test.exp", Line: 2, Col: 11, Offset: 20}, "boom")

	var out strings.Builder
	require.NoError(t, Render(&out, err, source))
	want := "test.exp:2:11: boom\n" +
		"  |\n" +
		"2 | ENTITY é x;\n" +
		"  | " + strings.Repeat(" ", 9) + "^\n"
	assert.Equal(t, want, out.String())
}

func TestRenderTabsAndPlainErrors(t *testing.T) {
	t.Parallel()

	source := []byte("\tfoo;\n")
	err := Errorf(ast.SourcePos{Filename: "t.exp", Line: 1, Col: 9, Offset: 1}, "here")
	var out strings.Builder
	require.NoError(t, Render(&out, err, source))
	assert.Contains(t, out.String(), "1 |     foo;\n")
	assert.Contains(t, out.String(), "  |     ^\n")

	out.Reset()
	require.NoError(t, Render(&out, errors.New("no position"), source))
	assert.Equal(t, "no position\n", out.String())
}
