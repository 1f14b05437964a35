package linker

import (
	"github.com/J-F-Liu/iso-10303/ast"
)

// attrKey identifies an attribute by its first declaration, so the same
// attribute reached through two supertypes is kept once even if one of
// them renamed it.
type attrKey struct {
	owner *EntityInfo
	name  string
}

func keyOf(a *FlatAttribute) attrKey {
	return attrKey{owner: a.Owner, name: a.DeclaredName}
}

// flatten computes ancestors and attributes of every entity. Supertypes
// are handled before their subtypes, so their results can be copied.
func (l *linker) flatten() error {
	for _, e := range l.order {
		seen := map[*EntityInfo]bool{}
		add := func(a *EntityInfo) {
			if !seen[a] {
				seen[a] = true
				e.Ancestors = append(e.Ancestors, a)
			}
		}
		for _, sup := range e.Supertypes {
			for _, a := range sup.Ancestors {
				add(a)
			}
			add(sup)
		}

		attrs, err := l.flattenAttributes(e)
		if err != nil {
			return err
		}
		for i, a := range attrs {
			a.Index = i
		}
		e.Attributes = attrs
	}

	// Descendants are listed in declaration order.
	for _, e := range l.res.Entities {
		if !e.Concrete() {
			continue
		}
		for _, a := range e.Ancestors {
			a.Descendants = append(a.Descendants, e)
		}
	}
	return nil
}

func (l *linker) flattenAttributes(e *EntityInfo) ([]*FlatAttribute, error) {
	var attrs []*FlatAttribute
	seen := map[attrKey]bool{}
	for _, sup := range e.Supertypes {
		for _, a := range sup.Attributes {
			if seen[keyOf(a)] {
				if i := indexByKey(attrs, keyOf(a)); i >= 0 {
					l.mergeInherited(e, attrs, i, a)
				}
				continue
			}
			seen[keyOf(a)] = true
			if i := indexByName(attrs, a.Name); i >= 0 {
				l.handler.HandleWarningf(e.Decl.Position, "attribute %s of %s is inherited from both %s and %s; the one from %s is kept",
					a.Name, e.Name, attrs[i].Owner.Name, a.Owner.Name, attrs[i].Owner.Name)
				continue
			}
			cp := *a
			attrs = append(attrs, &cp)
		}
	}

	for _, decl := range e.Decl.Attributes {
		if decl.Redeclares != nil {
			i, err := l.findRedeclared(e, attrs, decl.Redeclares, decl.Position)
			if err != nil {
				return nil, err
			}
			if i < 0 {
				continue
			}
			if err := l.checkNarrowing(e, decl, attrs[i]); err != nil {
				return nil, err
			}
			a := attrs[i]
			a.Name = decl.Name
			a.Type = decl.Type
			a.Optional = decl.Optional
			a.RedeclaredBy = e
			continue
		}
		if i := indexByName(attrs, decl.Name); i >= 0 {
			if attrs[i].Owner == e {
				l.handler.HandleWarningf(decl.Position, "attribute %s of %s is declared more than once; declaration ignored", decl.Name, e.Name)
			} else {
				l.handler.HandleWarningf(decl.Position, "attribute %s of %s is already inherited from %s; local declaration ignored", decl.Name, e.Name, attrs[i].Owner.Name)
			}
			continue
		}
		attrs = append(attrs, &FlatAttribute{
			Name:             decl.Name,
			Type:             decl.Type,
			Optional:         decl.Optional,
			Declared:         decl.Type,
			DeclaredOptional: decl.Optional,
			DeclaredName:     decl.Name,
			Owner:            e,
			Position:         decl.Position,
		})
	}

	for _, d := range e.Decl.Derived {
		if d.Redeclares == nil {
			continue
		}
		i, err := l.findRedeclared(e, attrs, d.Redeclares, d.Position)
		if err != nil {
			return nil, err
		}
		if i < 0 {
			continue
		}
		attrs[i].Derived = true
		attrs[i].RedeclaredBy = e
	}
	return attrs, nil
}

// mergeInherited handles an attribute reached again through another
// supertype. A redeclaration applies to every subtype of the redeclaring
// entity, so the most derived one wins; redeclarations on unrelated
// branches keep the first with a warning.
func (l *linker) mergeInherited(e *EntityInfo, attrs []*FlatAttribute, i int, a *FlatAttribute) {
	prev := attrs[i]
	switch {
	case a.RedeclaredBy == nil || a.RedeclaredBy == prev.RedeclaredBy:
	case prev.RedeclaredBy == nil || a.RedeclaredBy.IsA(prev.RedeclaredBy):
		cp := *a
		attrs[i] = &cp
	case !prev.RedeclaredBy.IsA(a.RedeclaredBy):
		l.handler.HandleWarningf(e.Decl.Position, "attribute %s of %s is redeclared by both %s and %s; the one from %s is kept",
			prev.DeclaredName, e.Name, prev.RedeclaredBy.Name, a.RedeclaredBy.Name, prev.RedeclaredBy.Name)
	}
}

// findRedeclared returns the index in attrs of the inherited attribute
// ref names, or -1 after reporting an error.
func (l *linker) findRedeclared(e *EntityInfo, attrs []*FlatAttribute, ref *ast.AttributeRef, pos ast.SourcePos) (int, error) {
	i := indexByName(attrs, ref.Name)
	if ref.Entity != "" {
		owner := l.res.entities[ref.Entity]
		if owner == nil || owner == e || !e.IsA(owner) {
			return -1, l.handler.HandleErrorf(pos, "%v: %s is not a supertype of %s", ref, ref.Entity, e.Name)
		}
		// The name is the one the attribute goes by in the qualifying
		// entity, which a later redeclaration may have changed.
		i = -1
		if j := indexByName(owner.Attributes, ref.Name); j >= 0 {
			i = indexByKey(attrs, keyOf(owner.Attributes[j]))
		}
	}
	if i < 0 {
		return -1, l.handler.HandleErrorf(pos, "%v: %s does not inherit an attribute named %s", ref, e.Name, ref.Name)
	}
	return i, nil
}

func indexByName(attrs []*FlatAttribute, name string) int {
	for i, a := range attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func indexByKey(attrs []*FlatAttribute, key attrKey) int {
	for i, a := range attrs {
		if keyOf(a) == key {
			return i
		}
	}
	return -1
}
