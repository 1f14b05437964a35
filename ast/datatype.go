package ast

import "strconv"

// DataType is the closed set of EXPRESS underlying types. Named types are
// only ever referred to by name (see TypeRef) and resolved later by the
// linker, so a DataType value never points at another declaration.
type DataType interface {
	// String renders the type in EXPRESS syntax, mostly for diagnostics.
	String() string
	dataType()
}

// Simple types.
type (
	Number  struct{}
	Integer struct{}
	Real    struct {
		// Precision is the number of significant digits, or zero if not given.
		Precision int
	}
	Boolean struct{}
	Logical struct{}
	String  struct {
		// Width is the maximum (or exact, when Fixed) length; zero means unbounded.
		Width int
		Fixed bool
	}
	Binary struct {
		Width int
		Fixed bool
	}
)

// TypeRef names a type or entity declared elsewhere in the schema.
type TypeRef struct {
	Name string
}

// Aggregation types.
type (
	Array struct {
		Bound    Bound
		Optional bool
		Unique   bool
		Base     DataType
	}
	List struct {
		Bound  Bound
		Unique bool
		Base   DataType
	}
	Bag struct {
		Bound Bound
		Base  DataType
	}
	Set struct {
		Bound Bound
		Base  DataType
	}
)

// Enum is an ENUMERATION OF type. Values keep their declared order.
type Enum struct {
	Values     []string
	Extensible bool
	// BasedOn names the enumeration this one extends, if any.
	BasedOn string
}

// Select is a SELECT type. Types holds the names of the member types.
type Select struct {
	Types      []string
	Extensible bool
	// GenericEntity is set for EXTENSIBLE GENERIC_ENTITY selects.
	GenericEntity bool
	BasedOn       string
}

// Generic and Aggregate only appear as formal parameter types of functions
// and procedures.
type (
	Generic struct {
		Label string
	}
	Aggregate struct {
		Label string
		Base  DataType
	}
)

func (Number) dataType()    {}
func (Integer) dataType()   {}
func (Real) dataType()      {}
func (Boolean) dataType()   {}
func (Logical) dataType()   {}
func (String) dataType()    {}
func (Binary) dataType()    {}
func (TypeRef) dataType()   {}
func (Array) dataType()     {}
func (List) dataType()      {}
func (Bag) dataType()       {}
func (Set) dataType()       {}
func (Enum) dataType()      {}
func (Select) dataType()    {}
func (Generic) dataType()   {}
func (Aggregate) dataType() {}

func (Number) String() string  { return "NUMBER" }
func (Integer) String() string { return "INTEGER" }
func (Boolean) String() string { return "BOOLEAN" }
func (Logical) String() string { return "LOGICAL" }

func (t Real) String() string {
	if t.Precision > 0 {
		return "REAL(" + strconv.Itoa(t.Precision) + ")"
	}
	return "REAL"
}

func (t String) String() string {
	return sized("STRING", t.Width, t.Fixed)
}

func (t Binary) String() string {
	return sized("BINARY", t.Width, t.Fixed)
}

func sized(kw string, width int, fixed bool) string {
	if width <= 0 {
		return kw
	}
	s := kw + "(" + strconv.Itoa(width) + ")"
	if fixed {
		s += " FIXED"
	}
	return s
}

func (t TypeRef) String() string { return t.Name }

func (t Array) String() string {
	s := "ARRAY" + t.Bound.String() + " OF "
	if t.Optional {
		s += "OPTIONAL "
	}
	if t.Unique {
		s += "UNIQUE "
	}
	return s + t.Base.String()
}

func (t List) String() string {
	s := "LIST" + t.Bound.String() + " OF "
	if t.Unique {
		s += "UNIQUE "
	}
	return s + t.Base.String()
}

func (t Bag) String() string { return "BAG" + t.Bound.String() + " OF " + t.Base.String() }
func (t Set) String() string { return "SET" + t.Bound.String() + " OF " + t.Base.String() }

func (t Enum) String() string {
	return "ENUMERATION OF (" + joinNames(t.Values) + ")"
}

func (t Select) String() string {
	return "SELECT (" + joinNames(t.Types) + ")"
}

func (t Generic) String() string {
	if t.Label == "" {
		return "GENERIC"
	}
	return "GENERIC:" + t.Label
}

func (t Aggregate) String() string {
	s := "AGGREGATE"
	if t.Label != "" {
		s += ":" + t.Label
	}
	return s + " OF " + t.Base.String()
}

func joinNames(names []string) string {
	var s string
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}

// Bound is the [lo:hi] specification of an aggregation type. When the bound
// is omitted entirely, Present is false and the aggregate is 0:?.
type Bound struct {
	Present bool
	Lo      BoundValue
	Hi      BoundValue
}

func (b Bound) String() string {
	if !b.Present {
		return ""
	}
	return "[" + b.Lo.String() + ":" + b.Hi.String() + "]"
}

// BoundValue is one end of a Bound. Only literal integers and the
// indeterminate '?' are interpreted; any other expression is kept in Expr
// and the value is treated as unknown.
type BoundValue struct {
	Value         int64
	Indeterminate bool
	Expr          Expr
}

// Known reports whether the bound has a usable literal value.
func (v BoundValue) Known() bool {
	return !v.Indeterminate && v.Expr == nil
}

func (v BoundValue) String() string {
	switch {
	case v.Indeterminate:
		return "?"
	case v.Expr != nil:
		return "<expr>"
	default:
		return strconv.FormatInt(v.Value, 10)
	}
}

// BaseType returns the element type of an aggregation, or nil if t is not
// an aggregation.
func BaseType(t DataType) DataType {
	switch t := t.(type) {
	case Array:
		return t.Base
	case List:
		return t.Base
	case Bag:
		return t.Base
	case Set:
		return t.Base
	case Aggregate:
		return t.Base
	}
	return nil
}

// Walk calls fn for t and, while fn returns true, for every type nested in t.
func Walk(t DataType, fn func(DataType) bool) {
	if t == nil || !fn(t) {
		return
	}
	if base := BaseType(t); base != nil {
		Walk(base, fn)
	}
}

// ReferencedNames returns the names of all types and entities that t refers
// to, each once, in the order first seen.
func ReferencedNames(t DataType) []string {
	var names []string
	seen := map[string]bool{}
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	Walk(t, func(t DataType) bool {
		switch t := t.(type) {
		case TypeRef:
			add(t.Name)
		case Select:
			for _, m := range t.Types {
				add(m)
			}
			if t.BasedOn != "" {
				add(t.BasedOn)
			}
		case Enum:
			if t.BasedOn != "" {
				add(t.BasedOn)
			}
		}
		return true
	})
	return names
}
