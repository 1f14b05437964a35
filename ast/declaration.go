package ast

// Declaration is a named schema element: a type, entity, function,
// procedure, rule or subtype constraint.
type Declaration interface {
	DeclName() string
	Pos() SourcePos
	declaration()
}

// TypeDef is TYPE name = underlying; WHERE ...; END_TYPE.
type TypeDef struct {
	Name       string
	Underlying DataType
	Where      []DomainRule
	Position   SourcePos
}

// Entity is an ENTITY declaration.
type Entity struct {
	Name     string
	Abstract bool
	// Supertype is the SUPERTYPE OF (...) constraint expression, or nil. It
	// is parsed but never evaluated.
	Supertype Expr
	// Supertypes are the names listed in SUBTYPE OF (...), in declared order.
	Supertypes []string
	Attributes []*Attribute
	Derived    []*DerivedAttribute
	Inverse    []*InverseAttribute
	Unique     []UniqueRule
	Where      []DomainRule
	Position   SourcePos
}

// Attribute is an explicit attribute. When Redeclares is set, the attribute
// is a SELF\entity.attr redeclaration of an inherited one and Name is the
// (possibly RENAMED) name it goes by.
type Attribute struct {
	Name       string
	Type       DataType
	Optional   bool
	Redeclares *AttributeRef
	Position   SourcePos
}

// AttributeRef names an attribute, optionally qualified by the entity that
// declares it: SELF\entity.attr.
type AttributeRef struct {
	Entity string
	Name   string
}

func (r AttributeRef) String() string {
	if r.Entity == "" {
		return r.Name
	}
	return "SELF\\" + r.Entity + "." + r.Name
}

// DerivedAttribute is an attribute of a DERIVE clause.
type DerivedAttribute struct {
	Name       string
	Redeclares *AttributeRef
	Type       DataType
	Expr       Expr
	Position   SourcePos
}

// InverseAttribute is an attribute of an INVERSE clause. Aggregate is
// empty, "SET" or "BAG".
type InverseAttribute struct {
	Name      string
	Aggregate string
	Bound     Bound
	Entity    string
	For       string
	Position  SourcePos
}

// UniqueRule is a labelled UNIQUE constraint.
type UniqueRule struct {
	Label      string
	Attributes []AttributeRef
}

// DomainRule is a labelled WHERE rule.
type DomainRule struct {
	Label string
	Expr  Expr
}

// Param is a formal parameter of a function or procedure.
type Param struct {
	Name string
	Type DataType
	// Var is set for VAR parameters of procedures.
	Var bool
}

// Function is a FUNCTION declaration. Only the signature is modelled; Body
// holds the source text of the algorithm.
type Function struct {
	Name     string
	Params   []Param
	Return   DataType
	Body     string
	Position SourcePos
}

// Procedure is a PROCEDURE declaration.
type Procedure struct {
	Name     string
	Params   []Param
	Body     string
	Position SourcePos
}

// Rule is a global RULE declaration.
type Rule struct {
	Name     string
	For      []string
	Body     string
	Position SourcePos
}

// SubtypeConstraint is a SUBTYPE_CONSTRAINT declaration.
type SubtypeConstraint struct {
	Name     string
	For      string
	Body     string
	Position SourcePos
}

func (d *TypeDef) DeclName() string           { return d.Name }
func (d *Entity) DeclName() string            { return d.Name }
func (d *Function) DeclName() string          { return d.Name }
func (d *Procedure) DeclName() string         { return d.Name }
func (d *Rule) DeclName() string              { return d.Name }
func (d *SubtypeConstraint) DeclName() string { return d.Name }

func (d *TypeDef) Pos() SourcePos           { return d.Position }
func (d *Entity) Pos() SourcePos            { return d.Position }
func (d *Function) Pos() SourcePos          { return d.Position }
func (d *Procedure) Pos() SourcePos         { return d.Position }
func (d *Rule) Pos() SourcePos              { return d.Position }
func (d *SubtypeConstraint) Pos() SourcePos { return d.Position }

func (*TypeDef) declaration()           {}
func (*Entity) declaration()            {}
func (*Function) declaration()          {}
func (*Procedure) declaration()         {}
func (*Rule) declaration()              {}
func (*SubtypeConstraint) declaration() {}
