package linker

import (
	"errors"
	"iter"
	"slices"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/internal/cases"
	"github.com/J-F-Liu/iso-10303/internal/toposort"
	"github.com/J-F-Liu/iso-10303/reporter"
)

// Link analyzes a parsed schema. All names the schema refers to must be
// declared in it; interface specifications (USE FROM and REFERENCE FROM)
// are not followed. The handler value is used to report errors and
// warnings. If any errors are reported, this function returns a non-nil
// error and no result.
//
// Analysis runs in stages, each relying on the one before it having
// succeeded, so errors are only collected within a stage.
func Link(schema *ast.Schema, handler *reporter.Handler) (*Result, error) {
	if handler == nil {
		handler = reporter.NewHandler(nil)
	}
	syms, err := newSymbols(schema, handler)
	if err != nil {
		return nil, err
	}
	if err := handler.Error(); err != nil {
		return nil, err
	}

	l := &linker{
		schema:  schema,
		handler: handler,
		syms:    syms,
		res: &Result{
			Schema:   schema,
			entities: map[string]*EntityInfo{},
			types:    map[string]*TypeInfo{},
		},
	}
	l.warnInterfaces()

	stages := []func() error{
		l.resolveTypes,
		l.resolveSupertypes,
		l.checkAttributeTypes,
		l.flatten,
		l.checkInverses,
		l.markCycles,
		l.markHashable,
	}
	for _, stage := range stages {
		if err := stage(); err != nil {
			return nil, err
		}
		if err := handler.Error(); err != nil {
			return nil, err
		}
	}
	return l.res, nil
}

// linker holds the state of one call to Link.
type linker struct {
	schema  *ast.Schema
	handler *reporter.Handler
	syms    symbols
	res     *Result

	// Entities with supertypes before subtypes.
	order []*EntityInfo
}

func (l *linker) warnInterfaces() {
	for _, iface := range l.schema.Interfaces {
		l.handler.HandleWarningf(iface.Position, "%v %s is not followed; names it provides are undefined", iface.Kind, iface.Schema)
	}
}

func (l *linker) resolveSupertypes() error {
	for _, decl := range l.schema.Entities() {
		info := &EntityInfo{
			Name:        decl.Name,
			DisplayName: cases.Pascal.Convert(decl.Name),
			Decl:        decl,
			Abstract:    decl.Abstract,
		}
		l.res.entities[decl.Name] = info
		l.res.Entities = append(l.res.Entities, info)
	}

	for _, e := range l.res.Entities {
		for i, name := range e.Decl.Supertypes {
			if slices.Contains(e.Decl.Supertypes[:i], name) {
				l.handler.HandleWarningf(e.Decl.Position, "entity %s lists supertype %s more than once", e.Name, name)
				continue
			}
			sup := l.res.entities[name]
			if sup == nil {
				var err error
				if sym, ok := l.syms[name]; ok {
					err = l.handler.HandleErrorf(e.Decl.Position, "supertype %q of %s is a %v, not an entity", name, e.Name, sym.kind)
				} else {
					err = l.handler.HandleErrorf(e.Decl.Position, "unknown supertype %q of %s%s", name, e.Name, l.syms.didYouMean(name))
				}
				if err != nil {
					return err
				}
				continue
			}
			e.Supertypes = append(e.Supertypes, sup)
			sup.Subtypes = append(sup.Subtypes, e)
		}
	}

	order, err := toposort.Sort(l.res.Entities,
		func(e *EntityInfo) string { return e.Name },
		func(e *EntityInfo) iter.Seq[*EntityInfo] { return slices.Values(e.Supertypes) })
	var cycleErr *toposort.CycleError[string]
	if errors.As(err, &cycleErr) {
		e := l.res.entities[cycleErr.Path[0]]
		return l.handler.HandleErrorf(e.Decl.Position, "cycle found in supertypes: %s", cycleErr.Join(" -> "))
	}
	l.order = order
	return nil
}

func (l *linker) checkAttributeTypes() error {
	check := func(t ast.DataType, pos ast.SourcePos) error {
		for _, name := range ast.ReferencedNames(t) {
			if err := l.checkTypeName(name, pos); err != nil {
				return err
			}
		}
		return nil
	}
	for _, e := range l.res.Entities {
		for _, a := range e.Decl.Attributes {
			if err := check(a.Type, a.Position); err != nil {
				return err
			}
		}
		for _, d := range e.Decl.Derived {
			if err := check(d.Type, d.Position); err != nil {
				return err
			}
		}
		for _, inv := range e.Decl.Inverse {
			if l.res.entities[inv.Entity] != nil {
				continue
			}
			var err error
			if _, ok := l.syms[inv.Entity]; ok {
				err = l.handler.HandleErrorf(inv.Position, "inverse attribute %s of %s: %q is not an entity", inv.Name, e.Name, inv.Entity)
			} else {
				err = l.handler.HandleErrorf(inv.Position, "inverse attribute %s of %s: unknown entity %q%s", inv.Name, e.Name, inv.Entity, l.syms.didYouMean(inv.Entity))
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *linker) checkInverses() error {
	for _, e := range l.res.Entities {
		for _, inv := range e.Decl.Inverse {
			target := l.res.entities[inv.Entity]
			if !slices.ContainsFunc(target.Attributes, func(a *FlatAttribute) bool { return a.Name == inv.For }) {
				if err := l.handler.HandleErrorf(inv.Position, "inverse attribute %s of %s: %s has no attribute %s", inv.Name, e.Name, target.Name, inv.For); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
