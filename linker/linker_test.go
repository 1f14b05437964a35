package linker_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/linker"
	"github.com/J-F-Liu/iso-10303/parser"
	"github.com/J-F-Liu/iso-10303/reporter"
)

func parse(t *testing.T, src string) *ast.Schema {
	t.Helper()
	file, err := parser.Parse("test.exp", strings.NewReader(src), reporter.NewHandler(nil))
	require.NoError(t, err)
	require.Len(t, file.Schemas, 1)
	return file.Schemas[0]
}

func link(t *testing.T, src string) (*linker.Result, *reporter.Collector) {
	t.Helper()
	var c reporter.Collector
	res, err := linker.Link(parse(t, src), reporter.NewHandler(&c))
	require.NoError(t, err)
	require.NotNil(t, res)
	return res, &c
}

func linkErr(t *testing.T, src string) error {
	t.Helper()
	res, err := linker.Link(parse(t, src), nil)
	require.Error(t, err)
	assert.Nil(t, res)
	return err
}

func attrNames(e *linker.EntityInfo) []string {
	var names []string
	for _, a := range e.Attributes {
		names = append(names, a.Name)
	}
	return names
}

func entityNames(entities []*linker.EntityInfo) []string {
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	return names
}

func TestFlattenOrder(t *testing.T) {
	t.Parallel()

	res, c := link(t, `
SCHEMA shapes;
ENTITY diamond SUBTYPE OF (left, right);
  d : BOOLEAN;
END_ENTITY;
ENTITY left SUBTYPE OF (root);
  l : INTEGER;
END_ENTITY;
ENTITY right SUBTYPE OF (root);
  r : REAL;
END_ENTITY;
ENTITY root;
  id : STRING;
END_ENTITY;
END_SCHEMA;
`)
	assert.Empty(t, c.Warnings)

	diamond := res.Entity("diamond")
	require.NotNil(t, diamond)
	assert.Equal(t, "Diamond", diamond.DisplayName)
	assert.Equal(t, []string{"id", "l", "r", "d"}, attrNames(diamond))
	assert.Equal(t, []string{"root", "left", "right"}, entityNames(diamond.Ancestors))
	assert.Equal(t, []string{"left", "right"}, entityNames(diamond.Supertypes))
	for i, a := range diamond.Attributes {
		assert.Equal(t, i, a.Index)
	}
	assert.Equal(t, "root", diamond.Attributes[0].Owner.Name)
	assert.Equal(t, "right", diamond.Attributes[2].Owner.Name)
	assert.Equal(t, []string{"d"}, attrNames(&linker.EntityInfo{Attributes: diamond.Own()}))

	root := res.Entity("root")
	assert.Equal(t, []string{"left", "right"}, entityNames(root.Subtypes))
	assert.Equal(t, []string{"diamond", "left", "right"}, entityNames(root.Descendants))
	assert.True(t, diamond.IsA(root))
	assert.False(t, root.IsA(diamond))

	// entities keep declaration order regardless of inheritance
	assert.Equal(t, []string{"diamond", "left", "right", "root"}, entityNames(res.Entities))
}

func TestFlattenFirstWins(t *testing.T) {
	t.Parallel()

	res, c := link(t, `
SCHEMA s;
ENTITY root;
  id : STRING;
  name : STRING;
END_ENTITY;
ENTITY child SUBTYPE OF (root);
  id : INTEGER;
  extra : REAL;
  extra : BOOLEAN;
END_ENTITY;
END_SCHEMA;
`)
	child := res.Entity("child")
	assert.Equal(t, []string{"id", "name", "extra"}, attrNames(child))
	assert.Equal(t, ast.String{}, child.Attributes[0].Type)
	assert.Equal(t, ast.Real{}, child.Attributes[2].Type)

	require.Len(t, c.Warnings, 2)
	assert.Contains(t, c.Warnings[0].Error(), "attribute id of child is already inherited from root; local declaration ignored")
	assert.Contains(t, c.Warnings[1].Error(), "attribute extra of child is declared more than once")
}

func TestFlattenSameNameFromTwoSupertypes(t *testing.T) {
	t.Parallel()

	res, c := link(t, `
SCHEMA s;
ENTITY a;
  name : STRING;
END_ENTITY;
ENTITY b;
  name : INTEGER;
  size : REAL;
END_ENTITY;
ENTITY ab SUBTYPE OF (a, b);
END_ENTITY;
END_SCHEMA;
`)
	ab := res.Entity("ab")
	assert.Equal(t, []string{"name", "size"}, attrNames(ab))
	assert.Equal(t, "a", ab.Attributes[0].Owner.Name)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0].Error(), "attribute name of ab is inherited from both a and b; the one from a is kept")
}

func TestRedeclaration(t *testing.T) {
	t.Parallel()

	res, _ := link(t, `
SCHEMA s;
ENTITY measure;
  value : NUMBER;
  unit : OPTIONAL STRING;
  note : STRING;
END_ENTITY;
ENTITY count_measure SUBTYPE OF (measure);
  SELF\measure.value RENAMED amount : INTEGER;
  SELF\measure.unit : STRING;
  tally : INTEGER;
DERIVE
  SELF\measure.note : STRING := 'count';
END_ENTITY;
ENTITY positive_count SUBTYPE OF (count_measure);
  SELF\count_measure.amount : INTEGER;
END_ENTITY;
END_SCHEMA;
`)

	measure := res.Entity("measure")
	value := measure.Attributes[0]
	assert.False(t, value.Redeclared())
	assert.False(t, value.Narrowed())

	count := res.Entity("count_measure")
	assert.Equal(t, []string{"amount", "unit", "note", "tally"}, attrNames(count))
	amount := count.Attributes[0]
	assert.Equal(t, "value", amount.DeclaredName)
	assert.Equal(t, ast.Integer{}, amount.Type)
	assert.Equal(t, ast.Number{}, amount.Declared)
	assert.Same(t, measure, amount.Owner)
	assert.Same(t, count, amount.RedeclaredBy)
	assert.True(t, amount.Narrowed())

	unit := count.Attributes[1]
	assert.False(t, unit.Optional)
	assert.True(t, unit.DeclaredOptional)
	assert.True(t, unit.Narrowed())

	note := count.Attributes[2]
	assert.True(t, note.Derived)
	assert.False(t, note.Narrowed())

	// the supertype's own view is untouched
	assert.Equal(t, ast.Number{}, value.Type)
	assert.False(t, measure.Attributes[2].Derived)
	assert.Equal(t, []string{"tally"}, attrNames(&linker.EntityInfo{Attributes: count.Own()}))

	positive := res.Entity("positive_count")
	assert.Equal(t, []string{"amount", "unit", "note", "tally"}, attrNames(positive))
	assert.Same(t, positive, positive.Attributes[0].RedeclaredBy)
	assert.True(t, positive.Attributes[2].Derived)
	assert.Empty(t, positive.Own())
}

func TestDiamondRedeclaration(t *testing.T) {
	t.Parallel()

	res, c := link(t, `
SCHEMA s;
ENTITY root; size : NUMBER; END_ENTITY;
ENTITY a SUBTYPE OF (root); END_ENTITY;
ENTITY b SUBTYPE OF (root); SELF\root.size : REAL; END_ENTITY;
ENTITY e SUBTYPE OF (root); SELF\root.size : INTEGER; END_ENTITY;
ENTITY ab SUBTYPE OF (a, b); END_ENTITY;
ENTITY ba SUBTYPE OF (b, a); END_ENTITY;
ENTITY be SUBTYPE OF (b, e); END_ENTITY;
END_SCHEMA;
`)
	for _, name := range []string{"ab", "ba"} {
		size := res.Entity(name).Attributes[0]
		assert.Equal(t, ast.Real{}, size.Type, name)
		assert.Equal(t, ast.Number{}, size.Declared, name)
		assert.Same(t, res.Entity("b"), size.RedeclaredBy, name)
	}

	// unrelated redeclarations: the first supertype's is kept
	size := res.Entity("be").Attributes[0]
	assert.Equal(t, ast.Real{}, size.Type)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0].Error(), "attribute size of be is redeclared by both b and e; the one from b is kept")
}

func TestNarrowing(t *testing.T) {
	t.Parallel()

	const prefix = `
SCHEMA s;
TYPE label = STRING; END_TYPE;
TYPE thing = SELECT (part, label); END_TYPE;
ENTITY part; END_ENTITY;
ENTITY special_part SUBTYPE OF (part); END_ENTITY;
ENTITY base;
  n : NUMBER;
  r : REAL;
  s : STRING;
  t : thing;
  p : part;
  o : OPTIONAL INTEGER;
  b : BAG OF INTEGER;
  l : LIST OF NUMBER;
END_ENTITY;
ENTITY sub SUBTYPE OF (base);
`
	const suffix = `
END_ENTITY;
END_SCHEMA;
`
	accepted := []string{
		`SELF\base.n : INTEGER;`,
		`SELF\base.n : REAL;`,
		`SELF\base.r : INTEGER;`,
		`SELF\base.s : label;`,
		`SELF\base.t : label;`,
		`SELF\base.t : special_part;`,
		`SELF\base.p : special_part;`,
		`SELF\base.o : INTEGER;`,
		`SELF\base.b : SET OF INTEGER;`,
		`SELF\base.l : LIST [1:3] OF INTEGER;`,
	}
	for _, decl := range accepted {
		res, _ := link(t, prefix+decl+suffix)
		assert.True(t, hasRedeclaration(res.Entity("sub")), decl)
	}

	rejected := []struct {
		decl string
		msg  string
	}{
		{`SELF\base.r : NUMBER;`, `SELF\base.r in sub: NUMBER is not a specialization of REAL`},
		{`SELF\base.p : label;`, `SELF\base.p in sub: label is not a specialization of part`},
		{`SELF\base.s : INTEGER;`, `SELF\base.s in sub: INTEGER is not a specialization of STRING`},
		{`SELF\base.b : LIST OF INTEGER;`, `SELF\base.b in sub: LIST OF INTEGER is not a specialization of BAG OF INTEGER`},
		{`SELF\base.n : OPTIONAL INTEGER;`, `SELF\base.n in sub: required attribute cannot be redeclared OPTIONAL`},
		{`SELF\part.n : INTEGER;`, `SELF\part.n: part is not a supertype of sub`},
		{`SELF\base.zz : INTEGER;`, `SELF\base.zz: sub does not inherit an attribute named zz`},
	}
	for _, tt := range rejected {
		err := linkErr(t, prefix+tt.decl+suffix)
		assert.Contains(t, err.Error(), tt.msg, tt.decl)
	}
}

func hasRedeclaration(e *linker.EntityInfo) bool {
	for _, a := range e.Attributes {
		if a.RedeclaredBy == e {
			return true
		}
	}
	return false
}

func TestTypeFixpoint(t *testing.T) {
	t.Parallel()

	res, c := link(t, `
SCHEMA s;
TYPE b = SELECT (a, c); END_TYPE;
TYPE a = SELECT (x, y); END_TYPE;
TYPE c = label; END_TYPE;
TYPE label = STRING; END_TYPE;
TYPE colour = EXTENSIBLE ENUMERATION OF (red, green); END_TYPE;
TYPE more_colour = ENUMERATION BASED_ON colour WITH (blue, red); END_TYPE;
ENTITY x; END_ENTITY;
ENTITY y; END_ENTITY;
END_SCHEMA;
`)
	var names []string
	for _, ti := range res.Types {
		names = append(names, ti.Name)
	}
	assert.Equal(t, []string{"b", "a", "c", "label", "colour", "more_colour"}, names)

	assert.Equal(t, linker.MixedSelect, res.Type("b").Shape)
	assert.Equal(t, linker.RefSelect, res.Type("a").Shape)
	assert.Equal(t, linker.AliasType, res.Type("c").Kind)
	assert.Equal(t, linker.SimpleType, res.Type("label").Kind)
	assert.Equal(t, "Label", res.Type("label").DisplayName)
	assert.Equal(t, []string{"red", "green", "blue"}, res.Type("more_colour").Members)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0].Error(), "more_colour: duplicate enumeration value red ignored")
}

func TestSelectShapes(t *testing.T) {
	t.Parallel()

	res, _ := link(t, `
SCHEMA s;
ENTITY a; END_ENTITY;
ENTITY b; END_ENTITY;
TYPE count = INTEGER; END_TYPE;
TYPE label = STRING; END_TYPE;
TYPE refs = SELECT (a, b); END_TYPE;
TYPE mixed = SELECT (a, count); END_TYPE;
TYPE mixed_many = SELECT (a, b, count); END_TYPE;
TYPE values = SELECT (count, label); END_TYPE;
TYPE nested = SELECT (refs, a); END_TYPE;
TYPE a_alias = a; END_TYPE;
TYPE via_alias = SELECT (a_alias, b); END_TYPE;
TYPE anything = EXTENSIBLE GENERIC_ENTITY SELECT; END_TYPE;
END_SCHEMA;
`)
	tests := []struct {
		name       string
		shape      linker.SelectShape
		entityLike bool
	}{
		{"refs", linker.RefSelect, true},
		{"mixed", linker.MixedSelect, false},
		{"mixed_many", linker.MixedSelect, false},
		{"values", linker.ValueSelect, false},
		{"nested", linker.RefSelect, true},
		{"via_alias", linker.RefSelect, true},
		{"anything", linker.RefSelect, true},
	}
	for _, tt := range tests {
		info := res.Type(tt.name)
		require.NotNil(t, info, tt.name)
		assert.Equal(t, linker.SelectType, info.Kind, tt.name)
		assert.Equal(t, tt.shape, info.Shape, tt.name)
		assert.Equal(t, tt.entityLike, info.EntityLike, tt.name)
	}

	alias := res.Type("a_alias")
	assert.Equal(t, linker.EntityAliasType, alias.Kind)
	assert.True(t, alias.EntityLike)

	assert.True(t, res.IsEntityRef(ast.TypeRef{Name: "a"}))
	assert.True(t, res.IsEntityRef(ast.TypeRef{Name: "a_alias"}))
	assert.False(t, res.IsEntityRef(ast.TypeRef{Name: "refs"}))
	assert.True(t, res.IsIndirect(ast.TypeRef{Name: "refs"}))
	assert.True(t, res.IsIndirect(ast.List{Base: ast.Set{Base: ast.TypeRef{Name: "b"}}}))
	assert.False(t, res.IsIndirect(ast.TypeRef{Name: "mixed"}))
	assert.False(t, res.IsIndirect(ast.Integer{}))
	assert.Equal(t, ast.Integer{}, res.Underlying(ast.TypeRef{Name: "count"}))
	assert.Equal(t, ast.TypeRef{Name: "a"}, res.Underlying(ast.TypeRef{Name: "a_alias"}))
}

func TestHashable(t *testing.T) {
	t.Parallel()

	res, _ := link(t, `
SCHEMA s;
TYPE count = INTEGER; END_TYPE;
TYPE label = STRING; END_TYPE;
TYPE other_label = STRING; END_TYPE;
TYPE v = SELECT (count, label); END_TYPE;
TYPE w = SELECT (v, flag); END_TYPE;
TYPE flag = BOOLEAN; END_TYPE;
TYPE inner = REAL; END_TYPE;
TYPE points = SET OF point_alias; END_TYPE;
TYPE point_alias = coord; END_TYPE;
TYPE coord = REAL; END_TYPE;
ENTITY e;
  items : SET [1:?] OF w;
  names : LIST OF other_label;
  nested : LIST OF SET OF inner;
END_ENTITY;
END_SCHEMA;
`)
	for _, name := range []string{"count", "label", "v", "w", "flag", "inner", "point_alias", "coord"} {
		assert.True(t, res.Type(name).Hashable, name)
	}
	for _, name := range []string{"other_label", "points"} {
		assert.False(t, res.Type(name).Hashable, name)
	}
}

func TestCycles(t *testing.T) {
	t.Parallel()

	res, _ := link(t, `
SCHEMA family;
ENTITY person;
  first_name : STRING;
END_ENTITY;
ENTITY male SUBTYPE OF (person);
  wife : OPTIONAL female;
END_ENTITY;
ENTITY female SUBTYPE OF (person);
  husband : OPTIONAL male;
END_ENTITY;
ENTITY node;
  next : OPTIONAL node;
END_ENTITY;
ENTITY holder;
  who : person;
END_ENTITY;
ENTITY plain;
  n : INTEGER;
END_ENTITY;
END_SCHEMA;
`)
	cyclic := map[string]bool{"male": true, "female": true, "node": true}
	for _, e := range res.Entities {
		assert.Equal(t, cyclic[e.Name], e.Cyclic, e.Name)
	}
	require.Len(t, res.Cycles, 2)

	holder := res.Entity("holder")
	assert.True(t, holder.HasEntityRefs)
	assert.False(t, res.Entity("plain").HasEntityRefs)
	assert.Equal(t, []string{"person", "male", "female"}, entityNames(res.ReferencedEntities(holder.Attributes[0].Type)))

	wife := res.Entity("male").Attributes[1]
	assert.Equal(t, "wife", wife.Name)
	assert.True(t, wife.Optional)
	assert.True(t, res.IsEntityRef(wife.Type))
}

func TestMutualReferenceTerminates(t *testing.T) {
	t.Parallel()

	// male refers to female, which only inherits from person
	res, _ := link(t, `
SCHEMA family;
ENTITY person;
  first_name : STRING;
END_ENTITY;
ENTITY male SUBTYPE OF (person);
  wife : OPTIONAL female;
END_ENTITY;
ENTITY female SUBTYPE OF (person);
END_ENTITY;
END_SCHEMA;
`)
	male := res.Entity("male")
	assert.Equal(t, []string{"first_name", "wife"}, attrNames(male))
	assert.True(t, res.IsEntityRef(male.Attributes[1].Type))
	assert.False(t, male.Cyclic)
	assert.Equal(t, []string{"male", "female"}, entityNames(res.Entity("person").Descendants))
}

func TestLinkErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "unknown type with suggestion",
			src:  "SCHEMA s;\nTYPE t = SELECT (persn); END_TYPE;\nENTITY person; END_ENTITY;\nEND_SCHEMA;",
			msg:  `test.exp:2:1: unknown type "persn"; did you mean "person"?`,
		},
		{
			name: "unknown type",
			src:  "SCHEMA s;\nTYPE t = LIST OF nothing; END_TYPE;\nEND_SCHEMA;",
			msg:  `test.exp:2:1: unknown type "nothing"`,
		},
		{
			name: "cyclic types",
			src:  "SCHEMA s;\nTYPE a = b; END_TYPE;\nTYPE b = a; END_TYPE;\nEND_SCHEMA;",
			msg:  `test.exp:2:1: cyclic type definition: "a" -> "b" -> "a"`,
		},
		{
			name: "duplicate symbol",
			src:  "SCHEMA s;\nENTITY a; END_ENTITY;\nTYPE a = STRING; END_TYPE;\nEND_SCHEMA;",
			msg:  "test.exp:3:1: duplicate symbol a: already defined as entity at test.exp:2:1",
		},
		{
			name: "unknown supertype",
			src:  "SCHEMA s;\nENTITY person; END_ENTITY;\nENTITY b SUBTYPE OF (persn); END_ENTITY;\nEND_SCHEMA;",
			msg:  `test.exp:3:1: unknown supertype "persn" of b; did you mean "person"?`,
		},
		{
			name: "supertype is a type",
			src:  "SCHEMA s;\nTYPE t = STRING; END_TYPE;\nENTITY b SUBTYPE OF (t); END_ENTITY;\nEND_SCHEMA;",
			msg:  `test.exp:3:1: supertype "t" of b is a type, not an entity`,
		},
		{
			name: "supertype cycle",
			src:  "SCHEMA s;\nENTITY a SUBTYPE OF (b); END_ENTITY;\nENTITY b SUBTYPE OF (a); END_ENTITY;\nEND_SCHEMA;",
			msg:  `test.exp:2:1: cycle found in supertypes: "a" -> "b" -> "a"`,
		},
		{
			name: "function used as a type",
			src:  "SCHEMA s;\nFUNCTION f : INTEGER; RETURN (1); END_FUNCTION;\nENTITY e;\n  x : f;\nEND_ENTITY;\nEND_SCHEMA;",
			msg:  `test.exp:4:3: "f" is a function, not a type`,
		},
		{
			name: "unknown attribute type",
			src:  "SCHEMA s;\nENTITY e;\n  x : lengt;\nEND_ENTITY;\nTYPE length = REAL; END_TYPE;\nEND_SCHEMA;",
			msg:  `test.exp:3:3: unknown type "lengt"; did you mean "length"?`,
		},
		{
			name: "inverse of missing attribute",
			src:  "SCHEMA s;\nENTITY a; END_ENTITY;\nENTITY b;\nINVERSE\n  owners : SET OF a FOR thing;\nEND_ENTITY;\nEND_SCHEMA;",
			msg:  "test.exp:5:3: inverse attribute owners of b: a has no attribute thing",
		},
		{
			name: "based on the wrong kind",
			src:  "SCHEMA s;\nTYPE t = STRING; END_TYPE;\nTYPE e = ENUMERATION BASED_ON t WITH (x); END_TYPE;\nEND_SCHEMA;",
			msg:  "test.exp:3:1: e is BASED_ON t, which is not an enumeration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := linkErr(t, tt.src)
			assert.Equal(t, tt.msg, err.Error())
			_, ok := reporter.SourcePosOf(err)
			assert.True(t, ok)
		})
	}
}

func TestLinkCollectsErrors(t *testing.T) {
	t.Parallel()

	var c reporter.Collector
	schema := parse(t, `
SCHEMA s;
TYPE a = b; END_TYPE;
TYPE b = nothing; END_TYPE;
TYPE c = LIST OF missing; END_TYPE;
END_SCHEMA;
`)
	res, err := linker.Link(schema, reporter.NewHandler(&c))
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, reporter.ErrInvalidSource))
	// a only waits on b and is not reported itself
	require.Len(t, c.Errors, 2)
	assert.Contains(t, c.Errors[0].Error(), `unknown type "nothing"`)
	assert.Contains(t, c.Errors[1].Error(), `unknown type "missing"`)
}

func TestInterfaceWarnings(t *testing.T) {
	t.Parallel()

	_, c := link(t, `
SCHEMA s;
USE FROM support_schema (thing);
REFERENCE FROM other_schema;
ENTITY e SUBTYPE OF (root, root); END_ENTITY;
ENTITY root; END_ENTITY;
END_SCHEMA;
`)
	require.Len(t, c.Warnings, 3)
	assert.Equal(t, "test.exp:3:1: USE FROM support_schema is not followed; names it provides are undefined", c.Warnings[0].Error())
	assert.Equal(t, "test.exp:4:1: REFERENCE FROM other_schema is not followed; names it provides are undefined", c.Warnings[1].Error())
	assert.Equal(t, "test.exp:5:1: entity e lists supertype root more than once", c.Warnings[2].Error())
}

func TestSummary(t *testing.T) {
	t.Parallel()

	res, _ := link(t, `
SCHEMA s '{ s version 1 }';
TYPE label = STRING; END_TYPE;
TYPE pick = SELECT (thing, label); END_TYPE;
ENTITY thing;
  name : OPTIONAL label;
  value : NUMBER;
END_ENTITY;
ENTITY special_thing SUBTYPE OF (thing);
  SELF\thing.value : INTEGER;
  partner : special_thing;
END_ENTITY;
END_SCHEMA;
`)
	summary := res.Summary()
	assert.Equal(t, "s", summary.Schema)
	assert.Equal(t, "{ s version 1 }", summary.Version)
	assert.Equal(t, linker.TypeSummary{Name: "label", Kind: "simple", Underlying: "STRING"}, summary.Types[0])
	assert.Equal(t, linker.TypeSummary{Name: "pick", Kind: "select", Shape: "mixed", Members: []string{"thing", "label"}}, summary.Types[1])
	require.Len(t, summary.Entities, 2)
	special := summary.Entities[1]
	assert.Equal(t, []string{"thing"}, special.Ancestors)
	assert.True(t, special.Cyclic)
	assert.Equal(t, linker.AttributeSummary{Name: "value", Type: "INTEGER", Owner: "thing", Declared: "NUMBER"}, special.Attributes[1])
	assert.Equal(t, [][]string{{"special_thing"}}, summary.Cycles)

	var buf strings.Builder
	require.NoError(t, res.WriteYAML(&buf))
	assert.Contains(t, buf.String(), "schema: s\n")
	var decoded linker.Summary
	require.NoError(t, yaml.Unmarshal([]byte(buf.String()), &decoded))
	assert.Equal(t, *summary, decoded)
}
