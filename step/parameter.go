package step

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/J-F-Liu/iso-10303/ast"
)

// Parameter is a value in an exchange file. It carries no type information
// beyond what is written in the file. It is implemented by *TypedParameter,
// List, Enum, EntityRef, ConstantRef, Integer, Real, String, Binary, Null
// and Omitted.
type Parameter interface {
	fmt.Stringer
	parameter()
}

// TypedParameter is a value written as NAME(parameters). It is both the form
// of an entity instance and of a value of a defined type, such as
// LENGTH_MEASURE(2.5) inside a select.
type TypedParameter struct {
	TypeName   string
	Parameters []Parameter
}

// List is a parenthesized list of parameters.
type List []Parameter

// Enum is an enumeration value, written .NAME.
type Enum string

// EntityRef is a reference to an entity instance, written #123.
type EntityRef int64

// ConstantRef is a reference to a named constant instance, written #NAME.
type ConstantRef string

// Integer is an integer value.
type Integer int64

// Real is a real value.
type Real float64

// String is a decoded string value.
type String string

// Binary is a binary value. It holds the hex digits as written, the first
// of which counts the unused bits of the second.
type Binary string

// Null is the unset value, written $.
type Null struct{}

// Omitted marks a value that is derived in a subtype, written *.
type Omitted struct{}

func (*TypedParameter) parameter() {}
func (List) parameter()            {}
func (Enum) parameter()            {}
func (EntityRef) parameter()       {}
func (ConstantRef) parameter()     {}
func (Integer) parameter()         {}
func (Real) parameter()            {}
func (String) parameter()          {}
func (Binary) parameter()          {}
func (Null) parameter()            {}
func (Omitted) parameter()         {}

func (p *TypedParameter) String() string {
	return p.TypeName + List(p.Parameters).String()
}

func (l List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range l {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

func (e Enum) String() string        { return "." + string(e) + "." }
func (r EntityRef) String() string   { return "#" + strconv.FormatInt(int64(r), 10) }
func (r ConstantRef) String() string { return "#" + string(r) }
func (i Integer) String() string     { return strconv.FormatInt(int64(i), 10) }
func (b Binary) String() string      { return `"` + string(b) + `"` }
func (Null) String() string          { return "$" }
func (Omitted) String() string       { return "*" }

func (r Real) String() string {
	s := strconv.FormatFloat(float64(r), 'G', -1, 64)
	if !strings.ContainsAny(s, ".EN") {
		// keep it a real when written back
		s += "."
	}
	return s
}

func (s String) String() string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range string(s) {
		switch {
		case r == '\'':
			sb.WriteString("''")
		case r == '\\':
			sb.WriteString(`\\`)
		case r > 0x7e || r < 0x20:
			if r <= 0xff {
				fmt.Fprintf(&sb, `\X\%02X`, r)
			} else {
				fmt.Fprintf(&sb, `\X4\%08X\X0\`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// EntityInstance is one record of the data section: #ID = VALUE; or, for a
// complex instance, #ID = (PART1(...) PART2(...));.
type EntityInstance struct {
	ID     int64
	Values []*TypedParameter
	Pos    ast.SourcePos
}

// IsComplex reports whether the instance is written in the external mapping
// form with more than one part.
func (e *EntityInstance) IsComplex() bool {
	return len(e.Values) != 1
}

// ExchangeFile is a parsed exchange file.
type ExchangeFile struct {
	Name   string
	Header []*TypedParameter
	Data   []*EntityInstance
}

// HeaderEntity returns the header entity with the given name, such as
// FILE_DESCRIPTION, FILE_NAME or FILE_SCHEMA.
func (f *ExchangeFile) HeaderEntity(name string) (*TypedParameter, bool) {
	for _, h := range f.Header {
		if strings.EqualFold(h.TypeName, name) {
			return h, true
		}
	}
	return nil, false
}

// SchemaNames returns the schema names listed by FILE_SCHEMA. A schema name
// may be followed by an object identifier in braces, which is removed.
func (f *ExchangeFile) SchemaNames() []string {
	h, ok := f.HeaderEntity("FILE_SCHEMA")
	if !ok || len(h.Parameters) == 0 {
		return nil
	}
	list, ok := h.Parameters[0].(List)
	if !ok {
		return nil
	}
	var names []string
	for _, p := range list {
		s, ok := p.(String)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(string(s), "{")
		names = append(names, strings.TrimSpace(name))
	}
	return names
}
