package linker

import (
	"github.com/J-F-Liu/iso-10303/ast"
)

// Result is the analyzed form of one schema. Entities and Types keep the
// declaration order of the schema.
type Result struct {
	Schema   *ast.Schema
	Entities []*EntityInfo
	Types    []*TypeInfo
	// Cycles are the groups of entities that refer to each other through
	// their attributes, each in declaration order.
	Cycles [][]*EntityInfo

	entities map[string]*EntityInfo
	types    map[string]*TypeInfo
}

// Entity returns the entity with the given name, or nil.
func (r *Result) Entity(name string) *EntityInfo {
	return r.entities[name]
}

// Type returns the type definition with the given name, or nil.
func (r *Result) Type(name string) *TypeInfo {
	return r.types[name]
}

// EntityInfo is what the linker knows about an entity.
type EntityInfo struct {
	Name string
	// DisplayName is the PascalCase name used for generated Go identifiers.
	DisplayName string
	Decl        *ast.Entity
	Abstract    bool

	// Supertypes are the direct supertypes in declared order.
	Supertypes []*EntityInfo
	// Ancestors is every supertype, direct or not, root first and each
	// listed once.
	Ancestors []*EntityInfo
	// Subtypes are the direct subtypes in declaration order.
	Subtypes []*EntityInfo
	// Descendants are all concrete entities below this one.
	Descendants []*EntityInfo

	// Attributes are the explicit attributes of the entity and all its
	// ancestors, in the order instances list them in exchange files.
	Attributes []*FlatAttribute

	// Cyclic is set when the entity can reach itself through the types of
	// its attributes.
	Cyclic bool
	// HasEntityRefs is set when some attribute is stored as an entity
	// reference.
	HasEntityRefs bool
}

// Own returns the attributes first declared by e itself.
func (e *EntityInfo) Own() []*FlatAttribute {
	var own []*FlatAttribute
	for _, a := range e.Attributes {
		if a.Owner == e {
			own = append(own, a)
		}
	}
	return own
}

// Concrete reports whether instances of e can appear in an exchange file.
func (e *EntityInfo) Concrete() bool {
	return !e.Abstract
}

// IsA reports whether e is other or one of its subtypes.
func (e *EntityInfo) IsA(other *EntityInfo) bool {
	if e == other {
		return true
	}
	for _, a := range e.Ancestors {
		if a == other {
			return true
		}
	}
	return false
}

// FlatAttribute is an explicit attribute as seen from a particular entity.
// Index is its position among the parameters of an instance.
type FlatAttribute struct {
	Name  string
	Index int
	// Type and Optional are taken from the most derived declaration.
	Type     ast.DataType
	Optional bool
	// Declared and DeclaredOptional are taken from the first declaration.
	// They differ from Type and Optional when a subtype narrowed the
	// attribute.
	Declared         ast.DataType
	DeclaredOptional bool
	// DeclaredName is the name of the first declaration; Name differs from
	// it when a redeclaration RENAMED the attribute.
	DeclaredName string
	// Owner is the entity that first declared the attribute.
	Owner *EntityInfo
	// RedeclaredBy is the most derived entity that redeclared the attribute
	// with SELF\, or nil.
	RedeclaredBy *EntityInfo
	// Derived is set when a subtype turned the attribute into a derived
	// one. Instances then give * for it.
	Derived  bool
	Position ast.SourcePos
}

// Redeclared reports whether some entity redeclared a.
func (a *FlatAttribute) Redeclared() bool {
	return a.RedeclaredBy != nil
}

// Narrowed reports whether the effective type or optionality differs from
// the declared one.
func (a *FlatAttribute) Narrowed() bool {
	return a.Optional != a.DeclaredOptional || a.Type.String() != a.Declared.String()
}

// TypeKind classifies a type definition by its underlying type.
type TypeKind int

const (
	SimpleType TypeKind = iota + 1
	AliasType
	EntityAliasType
	AggregateType
	EnumType
	SelectType
)

var typeKindNames = map[TypeKind]string{
	SimpleType:      "simple",
	AliasType:       "alias",
	EntityAliasType: "entity alias",
	AggregateType:   "aggregate",
	EnumType:        "enumeration",
	SelectType:      "select",
}

func (k TypeKind) String() string {
	return typeKindNames[k]
}

// SelectShape classifies a select type by its members.
type SelectShape int

const (
	// ValueSelect has no entity-like members.
	ValueSelect SelectShape = iota + 1
	// MixedSelect has both entity-like and value members.
	MixedSelect
	// RefSelect has only entity-like members.
	RefSelect
)

var selectShapeNames = map[SelectShape]string{
	ValueSelect: "value",
	MixedSelect: "mixed",
	RefSelect:   "ref",
}

func (s SelectShape) String() string {
	return selectShapeNames[s]
}

// TypeInfo is what the linker knows about a type definition.
type TypeInfo struct {
	Name        string
	DisplayName string
	Decl        *ast.TypeDef
	Kind        TypeKind

	// EntityLike is set when values of the type are entity references: an
	// alias of an entity, or a select whose members are all entity-like.
	EntityLike bool

	// Shape is only set for selects.
	Shape SelectShape
	// Members are the values of an enumeration or the member type names of
	// a select, including those of the type it is BASED_ON.
	Members []string

	// Hashable is set when values of the type are elements of a SET
	// somewhere in the schema.
	Hashable bool
}

// Underlying returns the underlying type of the definition.
func (t *TypeInfo) Underlying() ast.DataType {
	return t.Decl.Underlying
}
