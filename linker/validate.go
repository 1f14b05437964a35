package linker

import (
	"github.com/J-F-Liu/iso-10303/ast"
)

// checkNarrowing reports a redeclaration that does not specialize the
// attribute it redeclares.
func (l *linker) checkNarrowing(e *EntityInfo, decl *ast.Attribute, prev *FlatAttribute) error {
	if decl.Optional && !prev.Optional {
		return l.handler.HandleErrorf(decl.Position, "%v in %s: required attribute cannot be redeclared OPTIONAL", decl.Redeclares, e.Name)
	}
	if !l.specializes(decl.Type, prev.Type) {
		return l.handler.HandleErrorf(decl.Position, "%v in %s: %v is not a specialization of %v", decl.Redeclares, e.Name, decl.Type, prev.Type)
	}
	return nil
}

// specializes reports whether every value of type from is also a value of
// type to. The accepted narrowings are integer or real to number, integer
// to real, a select member to the select, a subtype to its supertype, and
// aggregates whose element types narrow.
func (l *linker) specializes(from, to ast.DataType) bool {
	if from.String() == to.String() {
		return true
	}
	if ref, ok := from.(ast.TypeRef); ok {
		if l.accepts(to, ref.Name) {
			return true
		}
		info := l.res.types[ref.Name]
		if info == nil || info.Kind == EnumType || info.Kind == SelectType {
			return false
		}
		return l.specializes(info.Decl.Underlying, to)
	}

	switch to := to.(type) {
	case ast.TypeRef:
		info := l.res.types[to.Name]
		if info == nil || info.Kind == EnumType || info.Kind == SelectType {
			return false
		}
		return l.specializes(from, info.Decl.Underlying)
	case ast.Number:
		switch from.(type) {
		case ast.Number, ast.Integer, ast.Real:
			return true
		}
	case ast.Real:
		switch from.(type) {
		case ast.Integer, ast.Real:
			return true
		}
	case ast.String:
		_, ok := from.(ast.String)
		return ok
	case ast.Binary:
		_, ok := from.(ast.Binary)
		return ok
	case ast.Logical:
		switch from.(type) {
		case ast.Logical, ast.Boolean:
			return true
		}
	case ast.Array, ast.List, ast.Bag, ast.Set, ast.Aggregate:
		if !aggregateNarrows(from, to) {
			return false
		}
		return l.specializes(ast.BaseType(from), ast.BaseType(to))
	}
	return false
}

// aggregateNarrows reports whether an aggregate of from's kind may stand
// for one of to's kind. A SET is a BAG without duplicates.
func aggregateNarrows(from, to ast.DataType) bool {
	if ast.BaseType(from) == nil {
		return false
	}
	switch to.(type) {
	case ast.Aggregate:
		return true
	case ast.Bag:
		switch from.(type) {
		case ast.Bag, ast.Set:
			return true
		}
		return false
	case ast.Array:
		_, ok := from.(ast.Array)
		return ok
	case ast.List:
		_, ok := from.(ast.List)
		return ok
	case ast.Set:
		_, ok := from.(ast.Set)
		return ok
	}
	return false
}

// accepts reports whether a value of the type or entity called name is a
// value of type to: name is a subtype of the entity to names, or a member
// of the select to names, directly or through nested selects.
func (l *linker) accepts(to ast.DataType, name string) bool {
	ref, ok := to.(ast.TypeRef)
	if !ok {
		return false
	}
	if target := l.res.entities[ref.Name]; target != nil {
		e := l.res.entities[name]
		return e != nil && e.IsA(target)
	}
	info := l.res.types[ref.Name]
	if info == nil {
		return false
	}
	switch info.Kind {
	case AliasType, EntityAliasType:
		return l.accepts(info.Decl.Underlying, name)
	case SelectType:
		for _, m := range info.Members {
			if m == name || l.accepts(ast.TypeRef{Name: m}, name) {
				return true
			}
		}
	}
	return false
}
