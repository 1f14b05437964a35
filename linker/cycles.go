package linker

import (
	"cmp"
	"slices"

	"github.com/J-F-Liu/iso-10303/ast"
)

// markCycles finds the entities that can reach themselves through the
// types of their attributes. An attribute typed with an entity may hold
// any subtype of it, so each such attribute is an edge to the entity and
// all its subtypes.
func (l *linker) markCycles() error {
	edges := make(map[*EntityInfo][]*EntityInfo, len(l.res.Entities))
	for _, e := range l.res.Entities {
		seen := map[*EntityInfo]bool{}
		for _, a := range e.Attributes {
			targets := l.res.ReferencedEntities(a.Type)
			if len(targets) > 0 {
				e.HasEntityRefs = true
			}
			for _, t := range targets {
				if !seen[t] {
					seen[t] = true
					edges[e] = append(edges[e], t)
				}
			}
		}
	}

	s := &sccFinder{
		edges: edges,
		decl:  map[*EntityInfo]int{},
		index: map[*EntityInfo]int{},
		low:   map[*EntityInfo]int{},
		on:    map[*EntityInfo]bool{},
	}
	for i, e := range l.res.Entities {
		s.decl[e] = i
	}
	for _, e := range l.res.Entities {
		if _, visited := s.index[e]; !visited {
			s.connect(e)
		}
	}
	for _, scc := range s.components {
		if len(scc) == 1 && !hasEdge(edges, scc[0], scc[0]) {
			continue
		}
		for _, e := range scc {
			e.Cyclic = true
		}
		l.res.Cycles = append(l.res.Cycles, scc)
	}
	return nil
}

func hasEdge(edges map[*EntityInfo][]*EntityInfo, from, to *EntityInfo) bool {
	for _, e := range edges[from] {
		if e == to {
			return true
		}
	}
	return false
}

// sccFinder computes strongly connected components with Tarjan's
// algorithm. Components are produced in reverse topological order.
type sccFinder struct {
	edges      map[*EntityInfo][]*EntityInfo
	decl       map[*EntityInfo]int
	index, low map[*EntityInfo]int
	on         map[*EntityInfo]bool
	stack      []*EntityInfo
	next       int
	components [][]*EntityInfo
}

func (s *sccFinder) connect(v *EntityInfo) {
	s.index[v] = s.next
	s.low[v] = s.next
	s.next++
	s.stack = append(s.stack, v)
	s.on[v] = true

	for _, w := range s.edges[v] {
		if _, visited := s.index[w]; !visited {
			s.connect(w)
			s.low[v] = min(s.low[v], s.low[w])
		} else if s.on[w] {
			s.low[v] = min(s.low[v], s.index[w])
		}
	}

	if s.low[v] != s.index[v] {
		return
	}
	var scc []*EntityInfo
	for {
		w := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.on[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	slices.SortFunc(scc, func(a, b *EntityInfo) int {
		return cmp.Compare(s.decl[a], s.decl[b])
	})
	s.components = append(s.components, scc)
}

// markHashable flags every type whose values are elements of a SET,
// following aliases, aggregate elements and select members.
func (l *linker) markHashable() error {
	var queue []string
	elements := func(t ast.DataType) {
		for b := t; b != nil; b = ast.BaseType(b) {
			if ref, ok := b.(ast.TypeRef); ok {
				queue = append(queue, ref.Name)
			}
		}
	}
	sets := func(t ast.DataType) {
		ast.Walk(t, func(t ast.DataType) bool {
			if set, ok := t.(ast.Set); ok {
				elements(set.Base)
			}
			return true
		})
	}
	for _, e := range l.res.Entities {
		for _, a := range e.Decl.Attributes {
			sets(a.Type)
		}
		for _, d := range e.Decl.Derived {
			sets(d.Type)
		}
	}
	for _, t := range l.res.Types {
		sets(t.Decl.Underlying)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		info := l.res.types[name]
		if info == nil || info.Hashable {
			continue
		}
		info.Hashable = true
		switch info.Kind {
		case SelectType:
			queue = append(queue, info.Members...)
		case AliasType, AggregateType:
			elements(info.Decl.Underlying)
		}
	}
	return nil
}
