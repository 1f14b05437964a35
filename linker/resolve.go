package linker

import (
	"errors"
	"iter"
	"slices"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/internal/cases"
	"github.com/J-F-Liu/iso-10303/internal/toposort"
)

// resolveTypes admits type definitions once every name they refer to is
// known, repeating until no more can be admitted. Definitions left over
// refer to unknown names or to each other.
func (l *linker) resolveTypes() error {
	defer func() {
		for _, td := range l.schema.Types() {
			if info := l.res.types[td.Name]; info != nil {
				l.res.Types = append(l.res.Types, info)
			}
		}
	}()

	pending := l.schema.Types()
	for len(pending) > 0 {
		var blocked []*ast.TypeDef
		for _, td := range pending {
			if !l.ready(td) {
				blocked = append(blocked, td)
				continue
			}
			if err := l.admit(td); err != nil {
				return err
			}
		}
		if len(blocked) == len(pending) {
			break
		}
		pending = blocked
	}
	if len(pending) == 0 {
		return nil
	}
	return l.reportUnresolved(pending)
}

func (l *linker) ready(td *ast.TypeDef) bool {
	for _, name := range ast.ReferencedNames(td.Underlying) {
		if !l.syms.isEntity(name) && l.res.types[name] == nil {
			return false
		}
	}
	return true
}

func (l *linker) reportUnresolved(left []*ast.TypeDef) error {
	leftover := make(map[string]*ast.TypeDef, len(left))
	for _, td := range left {
		leftover[td.Name] = td
	}

	var candidates []*ast.TypeDef
	for _, td := range left {
		ok := true
		for _, name := range ast.ReferencedNames(td.Underlying) {
			if err := l.checkTypeName(name, td.Position); err != nil {
				return err
			}
			if sym, defined := l.syms[name]; !defined || (sym.kind != entitySymbol && sym.kind != typeSymbol) {
				ok = false
			}
		}
		if ok {
			candidates = append(candidates, td)
		}
	}

	// What remains refers only to declared names, so some of it is on a
	// cycle. Definitions merely waiting on a broken one are not reported.
	_, err := toposort.Sort(candidates,
		func(td *ast.TypeDef) string { return td.Name },
		func(td *ast.TypeDef) iter.Seq[*ast.TypeDef] {
			return func(yield func(*ast.TypeDef) bool) {
				for _, name := range ast.ReferencedNames(td.Underlying) {
					if dep := leftover[name]; dep != nil && !yield(dep) {
						return
					}
				}
			}
		})
	var cycleErr *toposort.CycleError[string]
	if errors.As(err, &cycleErr) {
		td := leftover[cycleErr.Path[0]]
		if err := l.handler.HandleErrorf(td.Position, "cyclic type definition: %s", cycleErr.Join(" -> ")); err != nil {
			return err
		}
	}
	return nil
}

// checkTypeName reports name if it does not name an entity or a type.
func (l *linker) checkTypeName(name string, pos ast.SourcePos) error {
	sym, ok := l.syms[name]
	switch {
	case !ok:
		return l.handler.HandleErrorf(pos, "unknown type %q%s", name, l.syms.didYouMean(name))
	case sym.kind != entitySymbol && sym.kind != typeSymbol:
		return l.handler.HandleErrorf(pos, "%q is a %v, not a type", name, sym.kind)
	}
	return nil
}

func (l *linker) admit(td *ast.TypeDef) error {
	info := &TypeInfo{
		Name:        td.Name,
		DisplayName: cases.Pascal.Convert(td.Name),
		Decl:        td,
	}
	switch u := td.Underlying.(type) {
	case ast.TypeRef:
		info.Kind = AliasType
		if l.syms.isEntity(u.Name) {
			info.Kind = EntityAliasType
			info.EntityLike = true
		} else if target := l.res.types[u.Name]; target != nil {
			if target.Kind == EntityAliasType {
				info.Kind = EntityAliasType
			}
			info.EntityLike = target.EntityLike
		}
	case ast.Array, ast.List, ast.Bag, ast.Set:
		info.Kind = AggregateType
	case ast.Enum:
		info.Kind = EnumType
		members, err := l.basedOn(td, u.BasedOn, EnumType)
		if err != nil {
			return err
		}
		info.Members = l.appendMembers(td, members, u.Values, "enumeration value")
	case ast.Select:
		info.Kind = SelectType
		members, err := l.basedOn(td, u.BasedOn, SelectType)
		if err != nil {
			return err
		}
		info.Members = l.appendMembers(td, members, u.Types, "select member")
		info.Shape = l.selectShape(info.Members, u.GenericEntity)
		info.EntityLike = info.Shape == RefSelect
	default:
		info.Kind = SimpleType
	}
	l.res.types[td.Name] = info
	return nil
}

// basedOn returns the members of the type an extending enumeration or
// select is BASED_ON.
func (l *linker) basedOn(td *ast.TypeDef, base string, kind TypeKind) ([]string, error) {
	if base == "" {
		return nil, nil
	}
	info := l.res.types[base]
	if info == nil || info.Kind != kind {
		what := "a select"
		if kind == EnumType {
			what = "an enumeration"
		}
		return nil, l.handler.HandleErrorf(td.Position, "%s is BASED_ON %s, which is not %s", td.Name, base, what)
	}
	return slices.Clone(info.Members), nil
}

func (l *linker) appendMembers(td *ast.TypeDef, members, more []string, what string) []string {
	for _, m := range more {
		if slices.Contains(members, m) {
			l.handler.HandleWarningf(td.Position, "%s: duplicate %s %s ignored", td.Name, what, m)
			continue
		}
		members = append(members, m)
	}
	return members
}

func (l *linker) selectShape(members []string, genericEntity bool) SelectShape {
	if len(members) == 0 {
		if genericEntity {
			return RefSelect
		}
		return ValueSelect
	}
	var refs int
	for _, m := range members {
		if l.syms.isEntity(m) || l.res.types[m].EntityLike {
			refs++
		}
	}
	switch refs {
	case 0:
		return ValueSelect
	case len(members):
		return RefSelect
	default:
		return MixedSelect
	}
}

// IsEntityLike reports whether name is an entity or an entity-like type.
func (r *Result) IsEntityLike(name string) bool {
	if r.entities[name] != nil {
		return true
	}
	t := r.types[name]
	return t != nil && t.EntityLike
}

// IsEntityRef reports whether values of t are stored as a bare
// step.EntityRef: t names an entity or an alias of one.
func (r *Result) IsEntityRef(t ast.DataType) bool {
	ref, ok := t.(ast.TypeRef)
	if !ok {
		return false
	}
	if r.entities[ref.Name] != nil {
		return true
	}
	info := r.types[ref.Name]
	return info != nil && info.Kind == EntityAliasType
}

// IsIndirect reports whether t, or the element type of t, refers to
// entities rather than holding values: an entity, an entity alias or a
// select of entity-like members.
func (r *Result) IsIndirect(t ast.DataType) bool {
	for base := t; base != nil; base = ast.BaseType(base) {
		if ref, ok := base.(ast.TypeRef); ok {
			return r.IsEntityLike(ref.Name)
		}
	}
	return false
}

// Underlying follows aliases from t. The result is never a TypeRef to a
// plain alias; it is a TypeRef only for entities, enumerations and
// selects, whose values are generated as named types.
func (r *Result) Underlying(t ast.DataType) ast.DataType {
	for {
		ref, ok := t.(ast.TypeRef)
		if !ok {
			return t
		}
		info := r.types[ref.Name]
		if info == nil || info.Kind == EnumType || info.Kind == SelectType {
			return t
		}
		t = info.Decl.Underlying
	}
}

// ReferencedEntities returns every entity that a value of type t may
// refer to, looking through aliases, aggregates and select members, and
// including the concrete and abstract subtypes of each entity named.
func (r *Result) ReferencedEntities(t ast.DataType) []*EntityInfo {
	var out []*EntityInfo
	seenTypes := map[string]bool{}
	seenEntities := map[*EntityInfo]bool{}
	addEntity := func(e *EntityInfo) {
		if !seenEntities[e] {
			seenEntities[e] = true
			out = append(out, e)
		}
	}
	var visit func(ast.DataType)
	visit = func(t ast.DataType) {
		for _, name := range ast.ReferencedNames(t) {
			if e := r.entities[name]; e != nil {
				addEntity(e)
				for _, sub := range r.allSubtypes(e) {
					addEntity(sub)
				}
				continue
			}
			info := r.types[name]
			if info == nil || seenTypes[name] {
				continue
			}
			seenTypes[name] = true
			visit(info.Decl.Underlying)
		}
	}
	visit(t)
	return out
}

func (r *Result) allSubtypes(e *EntityInfo) []*EntityInfo {
	var out []*EntityInfo
	seen := map[*EntityInfo]bool{}
	var walk func(*EntityInfo)
	walk = func(e *EntityInfo) {
		for _, sub := range e.Subtypes {
			if !seen[sub] {
				seen[sub] = true
				out = append(out, sub)
				walk(sub)
			}
		}
	}
	walk(e)
	return out
}
