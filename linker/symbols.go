package linker

import (
	"slices"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/J-F-Liu/iso-10303/ast"
	"github.com/J-F-Liu/iso-10303/reporter"
)

type symbolKind int

const (
	entitySymbol symbolKind = iota + 1
	typeSymbol
	constantSymbol
	functionSymbol
	procedureSymbol
	ruleSymbol
	subtypeConstraintSymbol
)

func (k symbolKind) String() string {
	switch k {
	case entitySymbol:
		return "entity"
	case typeSymbol:
		return "type"
	case constantSymbol:
		return "constant"
	case functionSymbol:
		return "function"
	case procedureSymbol:
		return "procedure"
	case ruleSymbol:
		return "rule"
	default:
		return "subtype constraint"
	}
}

type symbol struct {
	kind symbolKind
	pos  ast.SourcePos
}

// symbols maps every name declared in a schema to what it declares. All
// declarations of a schema share one namespace.
type symbols map[string]symbol

func newSymbols(schema *ast.Schema, handler *reporter.Handler) (symbols, error) {
	syms := symbols{}
	add := func(name string, kind symbolKind, pos ast.SourcePos) error {
		if existing, ok := syms[name]; ok {
			return handler.HandleErrorf(pos, "duplicate symbol %s: already defined as %v at %v", name, existing.kind, existing.pos)
		}
		syms[name] = symbol{kind: kind, pos: pos}
		return nil
	}
	for _, c := range schema.Constants {
		if err := add(c.Name, constantSymbol, c.Position); err != nil {
			return nil, err
		}
	}
	for _, d := range schema.Declarations {
		var kind symbolKind
		switch d.(type) {
		case *ast.Entity:
			kind = entitySymbol
		case *ast.TypeDef:
			kind = typeSymbol
		case *ast.Function:
			kind = functionSymbol
		case *ast.Procedure:
			kind = procedureSymbol
		case *ast.Rule:
			kind = ruleSymbol
		default:
			kind = subtypeConstraintSymbol
		}
		if err := add(d.DeclName(), kind, d.Pos()); err != nil {
			return nil, err
		}
	}
	return syms, nil
}

func (s symbols) isEntity(name string) bool {
	return s[name].kind == entitySymbol
}

func (s symbols) isType(name string) bool {
	return s[name].kind == typeSymbol
}

// suggest returns the entity or type name closest to name, or "".
func (s symbols) suggest(name string) string {
	var candidates []string
	for n, sym := range s {
		if sym.kind == entitySymbol || sym.kind == typeSymbol {
			candidates = append(candidates, n)
		}
	}
	slices.Sort(candidates)
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Stable(ranks)
	return ranks[0].Target
}

// didYouMean formats the suggestion for an unknown name as a message
// suffix.
func (s symbols) didYouMean(name string) string {
	if match := s.suggest(name); match != "" {
		return "; did you mean " + `"` + match + `"?`
	}
	return ""
}
