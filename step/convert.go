package step

import (
	"fmt"
	"strings"
)

// MismatchError is returned by the conversion functions when a parameter
// does not have the shape the attribute type calls for.
type MismatchError struct {
	Want string
	Got  Parameter
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s, found %s", e.Want, describe(e.Got))
}

// EnumError is returned when an enumeration value is not one of the values
// of its type.
type EnumError struct {
	Type  string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%q is not a value of enumeration %s", e.Value, e.Type)
}

func describe(p Parameter) string {
	switch p := p.(type) {
	case nil:
		return "nothing"
	case *TypedParameter:
		return "typed parameter " + p.TypeName
	case List:
		return "list"
	case Enum:
		return "enumeration " + p.String()
	case EntityRef:
		return "entity reference " + p.String()
	case ConstantRef:
		return "constant reference " + p.String()
	case Integer:
		return "integer " + p.String()
	case Real:
		return "real " + p.String()
	case String:
		return "string"
	case Binary:
		return "binary"
	case Null:
		return "$"
	case Omitted:
		return "*"
	default:
		return fmt.Sprintf("%T", p)
	}
}

func mismatch(want string, got Parameter) error {
	return &MismatchError{Want: want, Got: got}
}

// Logical is the EXPRESS LOGICAL type. The zero value is LogicalUnknown.
type Logical int8

const (
	LogicalUnknown Logical = iota
	LogicalFalse
	LogicalTrue
)

func (l Logical) String() string {
	switch l {
	case LogicalFalse:
		return "FALSE"
	case LogicalTrue:
		return "TRUE"
	default:
		return "UNKNOWN"
	}
}

// IsNull reports whether p is $ or *, or absent altogether.
func IsNull(p Parameter) bool {
	switch p.(type) {
	case nil, Null, Omitted:
		return true
	}
	return false
}

// Param returns the i-th parameter, or Omitted when the list is shorter.
func Param(params []Parameter, i int) Parameter {
	if i < len(params) {
		return params[i]
	}
	return Omitted{}
}

// AttrError wraps a conversion error with the position and name of the
// attribute being converted.
func AttrError(index int, name string, err error) error {
	return fmt.Errorf("attribute %d (%s): %w", index, name, err)
}

func AsInteger(p Parameter) (int64, error) {
	if v, ok := p.(Integer); ok {
		return int64(v), nil
	}
	return 0, mismatch("integer", p)
}

// AsReal converts a real. An integer is accepted too.
func AsReal(p Parameter) (float64, error) {
	switch v := p.(type) {
	case Real:
		return float64(v), nil
	case Integer:
		return float64(v), nil
	}
	return 0, mismatch("real", p)
}

// AsNumber converts an EXPRESS NUMBER, which may be written as an integer
// or a real.
func AsNumber(p Parameter) (float64, error) {
	v, err := AsReal(p)
	if err != nil {
		return 0, mismatch("number", p)
	}
	return v, nil
}

func AsString(p Parameter) (string, error) {
	if v, ok := p.(String); ok {
		return string(v), nil
	}
	return "", mismatch("string", p)
}

func AsBinary(p Parameter) (Binary, error) {
	if v, ok := p.(Binary); ok {
		return v, nil
	}
	return "", mismatch("binary", p)
}

func AsBoolean(p Parameter) (bool, error) {
	if v, ok := p.(Enum); ok {
		switch strings.ToUpper(string(v)) {
		case "T":
			return true, nil
		case "F":
			return false, nil
		}
	}
	return false, mismatch("boolean", p)
}

func AsLogical(p Parameter) (Logical, error) {
	if v, ok := p.(Enum); ok {
		switch strings.ToUpper(string(v)) {
		case "T":
			return LogicalTrue, nil
		case "F":
			return LogicalFalse, nil
		case "U":
			return LogicalUnknown, nil
		}
	}
	return LogicalUnknown, mismatch("logical", p)
}

func AsRef(p Parameter) (EntityRef, error) {
	if v, ok := p.(EntityRef); ok {
		return v, nil
	}
	return 0, mismatch("entity reference", p)
}

// AsEnum returns the name of an enumeration value, upper-cased.
func AsEnum(p Parameter) (string, error) {
	if v, ok := p.(Enum); ok {
		return strings.ToUpper(string(v)), nil
	}
	return "", mismatch("enumeration", p)
}

// Unwrap returns the single parameter of a typed parameter naming a
// defined type, such as the 2.5 in LENGTH_MEASURE(2.5). Anything else is
// returned as is.
func Unwrap(p Parameter) Parameter {
	if tp, ok := p.(*TypedParameter); ok && len(tp.Parameters) == 1 {
		return tp.Parameters[0]
	}
	return p
}

// Required converts a required attribute: $ and * give the zero value.
func Required[T any](p Parameter, conv func(Parameter) (T, error)) (T, error) {
	if IsNull(p) {
		var zero T
		return zero, nil
	}
	return conv(p)
}

// Optional converts an optional attribute: $ and * give nil.
func Optional[T any](p Parameter, conv func(Parameter) (T, error)) (*T, error) {
	if IsNull(p) {
		return nil, nil
	}
	v, err := conv(p)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Aggregate converts a list using conv for every element. A $ inside the
// list, as allowed in ARRAY OF OPTIONAL, gives the element's zero value.
func Aggregate[T any](p Parameter, conv func(Parameter) (T, error)) ([]T, error) {
	list, ok := p.(List)
	if !ok {
		return nil, mismatch("list", p)
	}
	out := make([]T, 0, len(list))
	for i, elem := range list {
		v, err := Required(elem, conv)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Dedup removes repeated elements, keeping the first occurrence. It is used
// for SET values, whose elements are distinct.
func Dedup[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	out := s[:0]
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// DedupFunc is Dedup for element types that are compared with eq.
func DedupFunc[T any](s []T, eq func(a, b T) bool) []T {
	out := s[:0]
outer:
	for _, v := range s {
		for _, w := range out {
			if eq(v, w) {
				continue outer
			}
		}
		out = append(out, v)
	}
	return out
}

// Set converts a SET value, dropping repeated elements.
func Set[T comparable](p Parameter, conv func(Parameter) (T, error)) ([]T, error) {
	v, err := Aggregate(p, conv)
	if err != nil {
		return nil, err
	}
	return Dedup(v), nil
}

// SetFunc is Set for element types that are compared with eq.
func SetFunc[T any](p Parameter, conv func(Parameter) (T, error), eq func(a, b T) bool) ([]T, error) {
	v, err := Aggregate(p, conv)
	if err != nil {
		return nil, err
	}
	return DedupFunc(v, eq), nil
}
