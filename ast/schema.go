package ast

// File is the result of parsing one EXPRESS source file, which may declare
// several schemas.
type File struct {
	Name    string
	Schemas []*Schema
}

// Schema is a parsed SCHEMA ... END_SCHEMA block. Declarations keep their
// source order; lookups by name are done by the linker.
type Schema struct {
	Name         string
	Version      string
	Interfaces   []Interface
	Constants    []*Constant
	Declarations []Declaration
	Position     SourcePos
}

// Interface is a USE FROM or REFERENCE FROM specification. Items is empty
// when the whole schema is imported.
type Interface struct {
	Kind     InterfaceKind
	Schema   string
	Items    []InterfaceItem
	Position SourcePos
}

type InterfaceKind int

const (
	UseFrom InterfaceKind = iota + 1
	ReferenceFrom
)

func (k InterfaceKind) String() string {
	if k == ReferenceFrom {
		return "REFERENCE FROM"
	}
	return "USE FROM"
}

// InterfaceItem is one imported name, with its AS alias if any.
type InterfaceItem struct {
	Name  string
	Alias string
}

// Constant is one entry of a CONSTANT block.
type Constant struct {
	Name     string
	Type     DataType
	Value    Expr
	Position SourcePos
}

// Entities returns the entity declarations of s in source order.
func (s *Schema) Entities() []*Entity {
	var out []*Entity
	for _, d := range s.Declarations {
		if e, ok := d.(*Entity); ok {
			out = append(out, e)
		}
	}
	return out
}

// Types returns the type declarations of s in source order.
func (s *Schema) Types() []*TypeDef {
	var out []*TypeDef
	for _, d := range s.Declarations {
		if t, ok := d.(*TypeDef); ok {
			out = append(out, t)
		}
	}
	return out
}
