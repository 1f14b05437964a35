package codegen

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/linker"
)

// The types below are what the templates render. Everything that needs a
// decision is computed by the generator; templates only lay it out.

type fileData struct {
	Source   string
	Schema   string
	Package  string
	Imports  []importSpec
	Runtime  importSpec
	Enums    []*enumData
	Defs     []*defData
	Selects  []*selectData
	Entities []*entityData
	// Aggregates are the conversion functions of aggregate types, in the
	// order they were first needed.
	Aggregates []*aggregateData
	// Concrete are the entities with a struct, in declaration order.
	Concrete []*entityData
	// Constructors are the concrete entities sorted by exchange file name.
	Constructors []*entityData
}

type importSpec struct {
	Name, Path string
}

type enumData struct {
	Name, Express, Doc string
	NamesVar, ValuesVar string
	Values             []enumValue
}

type enumValue struct {
	Const, Upper string
}

type defData struct {
	Name, Express, Doc string
	// Alias is set for definitions whose Go type is identical to another
	// generated type or to step.EntityRef.
	Alias  bool
	GoType string
	Conv   string
	// Unwrap is set when the parameter may be the typed form of a defined
	// type, as in LENGTH_MEASURE(2.5).
	Unwrap bool
}

type aggregateData struct {
	Name, GoType, Call string
}

type selectData struct {
	Name, Express, Doc string
	KindType           string
	Kinds              []*selectKind
	// CatchAll is the kind of references that cannot be grounded while
	// parsing, or empty.
	CatchAll string
	HasRef   bool
	// Fields are the kinds that hold values rather than references.
	Fields []*selectKind
	// RefCase is what a bare reference is parsed as, or nil.
	RefCase *selectKind
	Typed   []typedCase
	Resolve []resolveCase
	Equal   bool
	// RefKinds are the kinds whose value is in Ref.
	RefKinds []string
	// EqualCases compare the value fields.
	EqualCases []equalCase
}

type selectKind struct {
	Const  string
	Member string
	Field  string
	GoType string
	Parse  string
	IsRef  bool
}

type typedCase struct {
	Names []string
	Kind  *selectKind
}

type resolveCase struct {
	Kinds []string
	Const string
}

type equalCase struct {
	Const, Expr string
}

type entityData struct {
	Name, Express, Upper string
	Abstract             bool
	Interface, Marker    string
	Embeds               []string
	Methods              []methodData
	Kind                 string
	Fields               []fieldData
	Params               []paramData
	Levels               []levelData
}

type methodData struct {
	Name, Type string
}

type fieldData struct {
	Name, Type string
}

type paramData struct {
	Field, Attr, Func, Conv string
	Index                   int
}

type levelData struct {
	Interface, Marker string
	Accessors         []accessorData
}

type accessorData struct {
	Name, Type string
	Body       []string
}

type attrKey struct {
	owner *linker.EntityInfo
	name  string
}

func keyOf(a *linker.FlatAttribute) attrKey {
	return attrKey{owner: a.Owner, name: a.DeclaredName}
}

type generator struct {
	res  *linker.Result
	opts Options

	typeNames   map[*linker.TypeInfo]string
	entityNames map[*linker.EntityInfo]string
	kinds       map[*linker.EntityInfo]string
	methods     map[attrKey]string
	selects     map[*linker.TypeInfo]*selectData
	imports     map[string]bool

	aggregates     map[string]*aggregateData
	aggregateOrder []*aggregateData
	// funcNames are the names of generated parse functions.
	funcNames map[string]bool
}

func newGenerator(res *linker.Result, opts Options) *generator {
	g := &generator{
		res:         res,
		opts:        opts,
		typeNames:   map[*linker.TypeInfo]string{},
		entityNames: map[*linker.EntityInfo]string{},
		kinds:       map[*linker.EntityInfo]string{},
		methods:     map[attrKey]string{},
		selects:     map[*linker.TypeInfo]*selectData{},
		imports:     map[string]bool{"iter": true},
		aggregates:  map[string]*aggregateData{},
		funcNames:   map[string]bool{},
	}
	for _, t := range res.Types {
		g.typeNames[t] = typeName(t.DisplayName)
		g.funcNames["parse"+g.typeNames[t]] = true
	}
	for _, e := range res.Entities {
		g.entityNames[e] = typeName(e.DisplayName)
		if e.Concrete() {
			g.kinds[e] = "Kind" + g.entityNames[e]
		}
	}
	return g
}

func (g *generator) build() (*fileData, error) {
	data := &fileData{
		Source:  g.opts.Source,
		Schema:  g.res.Schema.Name,
		Package: g.opts.Package,
	}

	// Selects are prepared first: widening accessors and equality refer to
	// their kinds.
	for _, t := range g.res.Types {
		if t.Kind == linker.SelectType {
			g.selects[t] = g.selectKinds(t)
		}
	}
	for _, t := range g.res.Types {
		var err error
		switch t.Kind {
		case linker.EnumType:
			data.Enums = append(data.Enums, g.enum(t))
		case linker.SelectType:
			err = g.completeSelect(g.selects[t])
			data.Selects = append(data.Selects, g.selects[t])
		default:
			var d *defData
			d, err = g.def(t)
			data.Defs = append(data.Defs, d)
		}
		if err != nil {
			return nil, fmt.Errorf("type %s: %w", t.Name, err)
		}
	}

	if err := g.nameAccessors(); err != nil {
		return nil, err
	}
	for _, e := range g.res.Entities {
		ed, err := g.entity(e)
		if err != nil {
			return nil, fmt.Errorf("entity %s: %w", e.Name, err)
		}
		data.Entities = append(data.Entities, ed)
		if !ed.Abstract {
			data.Concrete = append(data.Concrete, ed)
		}
	}
	data.Aggregates = g.aggregateOrder
	data.Constructors = slices.Clone(data.Concrete)
	slices.SortFunc(data.Constructors, func(a, b *entityData) int {
		return cmp.Compare(a.Upper, b.Upper)
	})

	if len(data.Enums) > 0 {
		g.imports["strconv"] = true
	}
	for imp := range g.imports {
		data.Imports = append(data.Imports, importSpec{Path: imp})
	}
	slices.SortFunc(data.Imports, func(a, b importSpec) int {
		return cmp.Compare(a.Path, b.Path)
	})
	data.Runtime = importSpec{
		Name: runtimeImportName(g.opts.RuntimeImport),
		Path: g.opts.RuntimeImport,
	}
	return data, nil
}

func (g *generator) enum(t *linker.TypeInfo) *enumData {
	name := g.typeNames[t]
	d := &enumData{
		Name:      name,
		Express:   t.Name,
		Doc:       fmt.Sprintf("%s is the enumeration %s.", name, t.Name),
		NamesVar:  unexported(name) + "Names",
		ValuesVar: unexported(name) + "Values",
	}
	for _, v := range t.Members {
		d.Values = append(d.Values, enumValue{Const: name + exported(v), Upper: upper(v)})
	}
	if len(d.Values) > 0 {
		d.Doc += fmt.Sprintf(" The zero value is %s.", d.Values[0].Const)
	}
	return d
}

func (g *generator) def(t *linker.TypeInfo) (*defData, error) {
	name := g.typeNames[t]
	under := t.Underlying()
	goType, err := g.goType(under)
	if err != nil {
		return nil, err
	}
	conv, err := g.converter(under)
	if err != nil {
		return nil, err
	}
	d := &defData{
		Name:    name,
		Express: t.Name,
		Doc:     fmt.Sprintf("%s is the type %s = %v.", name, t.Name, under),
		Alias:   t.Kind == linker.AliasType || t.Kind == linker.EntityAliasType,
		GoType:  goType,
		Conv:    conv,
		Unwrap:  g.selectOf(under) == nil && !g.res.IsEntityRef(under),
	}
	return d, nil
}

// selectKinds lays out the kinds and fields of a select. The rest is
// filled in by completeSelect once every select is laid out.
func (g *generator) selectKinds(t *linker.TypeInfo) *selectData {
	name := g.typeNames[t]
	d := &selectData{
		Name:     name,
		Express:  t.Name,
		Doc:      fmt.Sprintf("%s is the type %s = %v.", name, t.Name, t.Underlying()),
		KindType: name + "Kind",
		Equal:    t.Hashable,
	}

	var refs int
	for _, m := range t.Members {
		if g.res.IsEntityLike(m) {
			refs++
		}
	}
	if t.Shape == linker.RefSelect || refs > 1 {
		d.CatchAll = name + "Unresolved"
		d.Kinds = append(d.Kinds, &selectKind{Const: d.CatchAll, IsRef: true})
		d.Doc += "\n\nA bare reference read from an exchange file has kind " + d.CatchAll +
			"\nuntil Resolve grounds it."
	}
	fields := map[string]bool{"Kind": true, "Ref": true}
	for _, m := range t.Members {
		k := &selectKind{Const: name + exported(m), Member: m}
		if g.res.IsEntityLike(m) {
			k.IsRef = true
		} else {
			info := g.res.Type(m)
			k.Field = exported(m)
			for fields[k.Field] {
				k.Field += "_"
			}
			fields[k.Field] = true
			k.GoType = g.typeNames[info]
			k.Parse = "parse" + k.GoType
			d.Fields = append(d.Fields, k)
		}
		d.Kinds = append(d.Kinds, k)
	}
	for _, k := range d.Kinds {
		if k.IsRef {
			d.HasRef = true
			d.RefKinds = append(d.RefKinds, k.Const)
		}
	}
	return d
}

func (g *generator) completeSelect(d *selectData) error {
	// Bare references go to the catch-all, to the single entity-like
	// member, or to the single member select that accepts them.
	switch {
	case d.CatchAll != "":
		d.RefCase = d.Kinds[0]
	case d.HasRef:
		d.RefCase = d.Kinds[slices.IndexFunc(d.Kinds, func(k *selectKind) bool { return k.IsRef })]
	default:
		var nested []*selectKind
		for _, k := range d.Fields {
			if sel := g.selectOf(ast.TypeRef{Name: k.Member}); sel != nil && g.acceptsRefs(g.selects[sel]) {
				nested = append(nested, k)
			}
		}
		if len(nested) == 1 {
			d.RefCase = nested[0]
		}
	}

	seen := map[string]bool{}
	for _, k := range d.Fields {
		var names []string
		for _, n := range g.leaves(k.Member, map[string]bool{}) {
			if !seen[n] {
				seen[n] = true
				names = append(names, strconv.Quote(n))
			}
		}
		if len(names) > 0 {
			d.Typed = append(d.Typed, typedCase{Names: names, Kind: k})
		}
	}
	if len(d.Typed) > 0 {
		g.imports["strings"] = true
	}

	if d.CatchAll != "" {
		assigned := map[*linker.EntityInfo]bool{}
		for _, k := range d.Kinds {
			if !k.IsRef || k.Const == d.CatchAll {
				continue
			}
			rc := resolveCase{Const: k.Const}
			for _, e := range g.res.ReferencedEntities(ast.TypeRef{Name: k.Member}) {
				if e.Concrete() && !assigned[e] {
					assigned[e] = true
					rc.Kinds = append(rc.Kinds, g.kinds[e])
				}
			}
			if len(rc.Kinds) > 0 {
				d.Resolve = append(d.Resolve, rc)
			}
		}
	}

	if d.Equal {
		for _, k := range d.Fields {
			expr, err := g.equal(ast.TypeRef{Name: k.Member}, "v."+k.Field, "w."+k.Field)
			if err != nil {
				return err
			}
			d.EqualCases = append(d.EqualCases, equalCase{Const: k.Const, Expr: expr})
		}
	}
	return nil
}

// acceptsRefs reports whether values of the select d can be written as
// a bare reference.
func (g *generator) acceptsRefs(d *selectData) bool {
	if d.HasRef {
		return true
	}
	for _, k := range d.Fields {
		if sel := g.selectOf(ast.TypeRef{Name: k.Member}); sel != nil && g.acceptsRefs(g.selects[sel]) {
			return true
		}
	}
	return false
}

// leaves returns the upper-case names a value of the named type can be
// written with as a typed parameter. For a select they are those of its
// value members.
func (g *generator) leaves(name string, seen map[string]bool) []string {
	if seen[name] || g.res.IsEntityLike(name) || g.res.Type(name) == nil {
		return nil
	}
	seen[name] = true
	sel := g.selectOf(ast.TypeRef{Name: name})
	if sel == nil {
		return []string{upper(name)}
	}
	var out []string
	for _, m := range sel.Members {
		out = append(out, g.leaves(m, seen)...)
	}
	return out
}

// nameAccessors picks the accessor name of every attribute. Where an
// entity would inherit two accessors of the same name but different
// types, the later one is qualified with the entity declaring it.
func (g *generator) nameAccessors() error {
	for _, e := range g.res.Entities {
		sigs := map[string]string{}
		for _, level := range append(slices.Clone(e.Ancestors), e) {
			for _, a := range level.Own() {
				typ, err := g.optionalType(a.Declared, a.DeclaredOptional)
				if err != nil {
					return fmt.Errorf("entity %s: attribute %s: %w", level.Name, a.Name, err)
				}
				key := keyOf(a)
				name, ok := g.methods[key]
				if !ok {
					name = methodName(a.DeclaredName)
					g.methods[key] = name
				}
				if prev, ok := sigs[name]; ok && prev != typ {
					name = methodName(level.Name + "_" + a.DeclaredName)
					g.methods[key] = name
				}
				sigs[name] = typ
			}
		}
	}
	return nil
}

func (g *generator) entity(e *linker.EntityInfo) (*entityData, error) {
	name := g.entityNames[e]
	d := &entityData{
		Name:      name,
		Express:   e.Name,
		Upper:     upper(e.Name),
		Abstract:  e.Abstract,
		Interface: name + "Instance",
		Marker:    "is" + name,
		Kind:      g.kinds[e],
	}
	for _, sup := range e.Supertypes {
		d.Embeds = append(d.Embeds, g.entityNames[sup]+"Instance")
	}
	if len(d.Embeds) == 0 {
		d.Embeds = []string{"Instance"}
	}
	for _, a := range e.Own() {
		typ, err := g.optionalType(a.Declared, a.DeclaredOptional)
		if err != nil {
			return nil, err
		}
		d.Methods = append(d.Methods, methodData{Name: g.methods[keyOf(a)], Type: typ})
	}
	if e.Abstract {
		return d, nil
	}

	fields := map[attrKey]string{}
	used := map[string]bool{}
	for _, a := range e.Attributes {
		typ, err := g.optionalType(a.Type, a.Optional)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		field := fieldName(a.Name)
		for used[field] {
			field += "_"
		}
		used[field] = true
		fields[keyOf(a)] = field
		d.Fields = append(d.Fields, fieldData{Name: field, Type: typ})
		if a.Derived {
			continue
		}
		conv, err := g.converter(a.Type)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		p := paramData{Field: field, Attr: a.Name, Func: "Required", Conv: conv, Index: a.Index}
		if a.Optional {
			p.Func = "Optional"
		}
		d.Params = append(d.Params, p)
	}

	emitted := map[string]bool{}
	for _, level := range append(slices.Clone(e.Ancestors), e) {
		ld := levelData{
			Interface: g.entityNames[level] + "Instance",
			Marker:    "is" + g.entityNames[level],
		}
		for _, o := range level.Own() {
			name := g.methods[keyOf(o)]
			if emitted[name] {
				continue
			}
			emitted[name] = true
			typ, err := g.optionalType(o.Declared, o.DeclaredOptional)
			if err != nil {
				return nil, err
			}
			acc := accessorData{Name: name, Type: typ}
			idx := slices.IndexFunc(e.Attributes, func(a *linker.FlatAttribute) bool { return keyOf(a) == keyOf(o) })
			switch {
			case idx >= 0:
				a := e.Attributes[idx]
				acc.Body, err = g.accessorBody(fields[keyOf(a)], a.Type, a.Optional, o.Declared, o.DeclaredOptional)
				if err != nil {
					return nil, fmt.Errorf("attribute %s: %w", a.Name, err)
				}
			case o.DeclaredOptional:
				acc.Body = []string{"return nil"}
			default:
				// Dropped in favor of an attribute of the same name
				// inherited from an earlier supertype.
				acc.Body = []string{"var zero " + typ, "return zero"}
			}
			ld.Accessors = append(ld.Accessors, acc)
		}
		d.Levels = append(d.Levels, ld)
	}
	return d, nil
}

func unexported(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}
