package reporter

import (
	"errors"
	"fmt"

	"github.com/J-F-Liu/iso-10303/ast"
)

// ErrInvalidSource is a sentinel error that is returned by parsing, linking
// and compiling in the event that syntax or resolution errors are
// encountered, but the configured ErrorReporter always returns nil.
var ErrInvalidSource = errors.New("invalid source: errors were reported")

// ErrorWithPos is an error about a schema or exchange file that includes
// information about the location in the file that caused the error.
//
// The value of Error() will contain both the SourcePos and Underlying error.
// The value of Unwrap() will only be the Underlying error.
type ErrorWithPos interface {
	error
	GetPosition() ast.SourcePos
	Unwrap() error
}

// Error creates a new ErrorWithPos from the given error and source position.
func Error(pos ast.SourcePos, err error) ErrorWithPos {
	if ewp, ok := err.(ErrorWithPos); ok {
		// never nest locations
		return ewp
	}
	return errorWithSourcePos{pos: pos, underlying: err}
}

// Errorf creates a new ErrorWithPos whose underlying error is created using
// the given message format and arguments (via fmt.Errorf).
func Errorf(pos ast.SourcePos, format string, args ...any) ErrorWithPos {
	return errorWithSourcePos{pos: pos, underlying: fmt.Errorf(format, args...)}
}

// SourcePosOf returns the position attached to err, if any.
func SourcePosOf(err error) (ast.SourcePos, bool) {
	var ewp ErrorWithPos
	if errors.As(err, &ewp) {
		return ewp.GetPosition(), true
	}
	return ast.SourcePos{}, false
}

type errorWithSourcePos struct {
	underlying error
	pos        ast.SourcePos
}

func (e errorWithSourcePos) Error() string {
	sourcePos := e.GetPosition()
	return fmt.Sprintf("%s: %v", sourcePos, e.underlying)
}

func (e errorWithSourcePos) GetPosition() ast.SourcePos {
	return e.pos
}

func (e errorWithSourcePos) Unwrap() error {
	return e.underlying
}

var _ ErrorWithPos = errorWithSourcePos{}
