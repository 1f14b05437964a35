package codegen

import (
	"fmt"
	"slices"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/linker"
)

// goType returns the Go type that holds values of t.
func (g *generator) goType(t ast.DataType) (string, error) {
	switch t := t.(type) {
	case ast.Integer:
		return "int64", nil
	case ast.Real, ast.Number:
		return "float64", nil
	case ast.String:
		return "string", nil
	case ast.Boolean:
		return "bool", nil
	case ast.Logical:
		return "step.Logical", nil
	case ast.Binary:
		return "step.Binary", nil
	case ast.TypeRef:
		if g.res.Entity(t.Name) != nil {
			return "step.EntityRef", nil
		}
		if info := g.res.Type(t.Name); info != nil {
			return g.typeNames[info], nil
		}
		return "", fmt.Errorf("unknown type %s", t.Name)
	case ast.Array, ast.List, ast.Bag, ast.Set:
		elem, err := g.goType(ast.BaseType(t))
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	}
	return "", fmt.Errorf("type %v cannot be generated", t)
}

// optionalType is goType, as a pointer when optional is set.
func (g *generator) optionalType(t ast.DataType, optional bool) (string, error) {
	s, err := g.goType(t)
	if optional && err == nil {
		s = "*" + s
	}
	return s, err
}

// converter returns an expression of type func(step.Parameter) (T, error)
// converting parameters to the Go type of t.
func (g *generator) converter(t ast.DataType) (string, error) {
	switch t := t.(type) {
	case ast.Integer:
		return "step.AsInteger", nil
	case ast.Real:
		return "step.AsReal", nil
	case ast.Number:
		return "step.AsNumber", nil
	case ast.String:
		return "step.AsString", nil
	case ast.Boolean:
		return "step.AsBoolean", nil
	case ast.Logical:
		return "step.AsLogical", nil
	case ast.Binary:
		return "step.AsBinary", nil
	case ast.TypeRef:
		if g.res.Entity(t.Name) != nil {
			return "step.AsRef", nil
		}
		if info := g.res.Type(t.Name); info != nil {
			return "parse" + g.typeNames[info], nil
		}
		return "", fmt.Errorf("unknown type %s", t.Name)
	case ast.Array, ast.List, ast.Bag, ast.Set:
		return g.aggregate(t)
	}
	return "", fmt.Errorf("type %v cannot be generated", t)
}

// aggregate returns the name of a generated function converting
// parameters to the Go type of the aggregate t, adding the function the
// first time the aggregate is seen.
func (g *generator) aggregate(t ast.DataType) (string, error) {
	base := ast.BaseType(t)
	typ, err := g.goType(t)
	if err != nil {
		return "", err
	}
	conv, err := g.converter(base)
	if err != nil {
		return "", err
	}
	call := fmt.Sprintf("step.Aggregate(p, %s)", conv)
	if _, ok := t.(ast.Set); ok {
		if call, err = g.setCall(base, conv); err != nil {
			return "", err
		}
	}
	key := typ + " " + call
	if d, ok := g.aggregates[key]; ok {
		return d.Name, nil
	}
	name := "parse" + g.aggregateSuffix(t)
	for g.funcNames[name] {
		name += "_"
	}
	g.funcNames[name] = true
	d := &aggregateData{Name: name, GoType: typ, Call: call}
	g.aggregates[key] = d
	g.aggregateOrder = append(g.aggregateOrder, d)
	return name, nil
}

// aggregateSuffix names an aggregate after its element type and kind, as
// in IntegerArray or RefSet.
func (g *generator) aggregateSuffix(t ast.DataType) string {
	switch t := t.(type) {
	case ast.Array:
		return g.aggregateSuffix(t.Base) + "Array"
	case ast.List:
		return g.aggregateSuffix(t.Base) + "List"
	case ast.Bag:
		return g.aggregateSuffix(t.Base) + "Bag"
	case ast.Set:
		return g.aggregateSuffix(t.Base) + "Set"
	case ast.TypeRef:
		if info := g.res.Type(t.Name); info != nil {
			return g.typeNames[info]
		}
		return "Ref"
	case ast.Integer:
		return "Integer"
	case ast.Real:
		return "Real"
	case ast.Number:
		return "Number"
	case ast.String:
		return "String"
	case ast.Boolean:
		return "Boolean"
	case ast.Logical:
		return "Logical"
	case ast.Binary:
		return "Binary"
	}
	return "Value"
}

// setCall converts a SET, dropping repeated elements where elements can
// be compared.
func (g *generator) setCall(base ast.DataType, conv string) (string, error) {
	if sel := g.selectOf(base); sel != nil && sel.Hashable {
		typ, err := g.goType(base)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("step.SetFunc(p, %s, %s.Equal)", conv, typ), nil
	}
	if g.comparable(base) {
		return fmt.Sprintf("step.Set(p, %s)", conv), nil
	}
	return fmt.Sprintf("step.Aggregate(p, %s)", conv), nil
}

// selectOf returns the select that t is or is an alias of, or nil.
func (g *generator) selectOf(t ast.DataType) *linker.TypeInfo {
	ref, ok := g.res.Underlying(t).(ast.TypeRef)
	if !ok {
		return nil
	}
	if info := g.res.Type(ref.Name); info != nil && info.Kind == linker.SelectType {
		return info
	}
	return nil
}

// comparable reports whether values of the Go type of t can be compared
// with ==.
func (g *generator) comparable(t ast.DataType) bool {
	switch t := t.(type) {
	case ast.Array, ast.List, ast.Bag, ast.Set:
		return false
	case ast.TypeRef:
		info := g.res.Type(t.Name)
		if info == nil {
			return true
		}
		switch info.Kind {
		case linker.EnumType, linker.EntityAliasType:
			return true
		case linker.SelectType:
			for _, m := range info.Members {
				if !g.res.IsEntityLike(m) && !g.comparable(ast.TypeRef{Name: m}) {
					return false
				}
			}
			return true
		default:
			return g.comparable(info.Decl.Underlying)
		}
	}
	return true
}

// equal returns an expression reporting whether a and b, both holding
// values of t, are equal.
func (g *generator) equal(t ast.DataType, a, b string) (string, error) {
	if g.selectOf(t) != nil {
		return fmt.Sprintf("%s.Equal(%s)", a, b), nil
	}
	if g.comparable(t) {
		return a + " == " + b, nil
	}
	base := ast.BaseType(g.res.Underlying(t))
	if base == nil {
		return "", fmt.Errorf("values of %v cannot be compared", t)
	}
	g.imports["slices"] = true
	if g.comparable(base) && g.selectOf(base) == nil {
		return fmt.Sprintf("slices.Equal(%s, %s)", a, b), nil
	}
	elem, err := g.goType(base)
	if err != nil {
		return "", err
	}
	inner, err := g.equal(base, "x", "y")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("slices.EqualFunc(%s, %s, func(x, y %s) bool { return %s })", a, b, elem, inner), nil
}

// isNumeric reports whether t is INTEGER, REAL or NUMBER, directly or
// through type definitions.
func (g *generator) isNumeric(t ast.DataType) bool {
	switch g.res.Underlying(t).(type) {
	case ast.Integer, ast.Real, ast.Number:
		return true
	}
	return false
}

// underlyingGo returns the Go underlying type of the Go type of t.
func (g *generator) underlyingGo(t ast.DataType) (string, error) {
	if ref, ok := t.(ast.TypeRef); ok {
		if info := g.res.Type(ref.Name); info != nil {
			switch info.Kind {
			case linker.SimpleType, linker.AliasType, linker.EntityAliasType, linker.AggregateType:
				return g.underlyingGo(info.Decl.Underlying)
			}
		}
	}
	return g.goType(t)
}

// widen returns an expression converting x, a value of the narrowed type
// from, to the Go type of to.
func (g *generator) widen(from, to ast.DataType, x string) (string, error) {
	ft, err := g.goType(from)
	if err != nil {
		return "", err
	}
	tt, err := g.goType(to)
	if err != nil {
		return "", err
	}
	if ft == tt {
		return x, nil
	}
	if g.isNumeric(from) && g.isNumeric(to) {
		return fmt.Sprintf("step.Widen[%s](%s)", tt, x), nil
	}
	fu, err := g.underlyingGo(from)
	if err != nil {
		return "", err
	}
	tu, err := g.underlyingGo(to)
	if err != nil {
		return "", err
	}
	if fu == tu {
		return fmt.Sprintf("%s(%s)", tt, x), nil
	}
	if sel := g.selectOf(to); sel != nil {
		if lit, ok := g.selectValue(sel, from, x); ok {
			return lit, nil
		}
	}
	return "", fmt.Errorf("cannot widen %v to %v", from, to)
}

// selectValue returns a composite literal of the select sel holding x, a
// value of type from.
func (g *generator) selectValue(sel *linker.TypeInfo, from ast.DataType, x string) (string, bool) {
	data := g.selects[sel]
	ref, ok := from.(ast.TypeRef)
	if !ok {
		return "", false
	}
	for _, k := range data.Kinds {
		if k.Member == ref.Name {
			if k.IsRef {
				return fmt.Sprintf("%s{Kind: %s, Ref: %s}", data.Name, k.Const, x), true
			}
			return fmt.Sprintf("%s{Kind: %s, %s: %s}", data.Name, k.Const, k.Field, x), true
		}
	}
	if !g.res.IsEntityRef(from) {
		return "", false
	}
	// An entity narrowing a select: pick the first member it is a kind of.
	ent := g.res.Entity(g.res.Underlying(from).(ast.TypeRef).Name)
	for _, k := range data.Kinds {
		if k.IsRef && k.Const != data.CatchAll && slices.Contains(g.res.ReferencedEntities(ast.TypeRef{Name: k.Member}), ent) {
			return fmt.Sprintf("%s{Kind: %s, Ref: %s}", data.Name, k.Const, x), true
		}
	}
	if data.CatchAll != "" {
		return fmt.Sprintf("%s{Kind: %s, Ref: %s}", data.Name, data.CatchAll, x), true
	}
	return "", false
}

// accessorBody returns the statements of an accessor returning the value
// of field, declared as type to (optional when toOpt) and stored as type
// from (optional when fromOpt).
func (g *generator) accessorBody(field string, from ast.DataType, fromOpt bool, to ast.DataType, toOpt bool) ([]string, error) {
	x := "e." + field
	if !fromOpt {
		v, err := g.widen(from, to, x)
		if err != nil {
			return nil, err
		}
		if toOpt {
			v = "step.Ptr(" + v + ")"
		}
		return []string{"return " + v}, nil
	}
	v, err := g.widen(from, to, "*"+x)
	if err != nil {
		return nil, err
	}
	switch {
	case v == "*"+x:
		return []string{"return " + x}, nil
	case g.isNumeric(from) && g.isNumeric(to):
		tt, _ := g.goType(to)
		return []string{fmt.Sprintf("return step.WidenOptional[%s](%s)", tt, x)}, nil
	}
	return []string{
		"if " + x + " == nil {",
		"return nil",
		"}",
		"return step.Ptr(" + v + ")",
	}, nil
}
