// Package ast defines the model for parsed EXPRESS (ISO 10303-11) schemas.
//
// The root of the model for a source file is a *File, holding one *Schema
// per SCHEMA block. A schema owns an ordered list of Declaration values:
// *TypeDef, *Entity, *Function, *Procedure, *Rule and *SubtypeConstraint.
//
// Underlying types are DataType values. They never point at other
// declarations directly; a TypeRef carries only the referenced name, and
// resolving it is the job of the linker package. This keeps the model
// immutable once the parser has built it.
//
// Expressions used in rules, derived attributes, constants and bounds are
// modelled by the Expr interface. They are retained so that the surrounding
// declarations can be parsed, but nothing in this module evaluates them.
//
// Position information is tracked using a *FileInfo, which the lexers of
// both the EXPRESS and STEP parsers populate with line offsets as they scan.
package ast
